//go:build unit

package otp

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarium/internal/infra/memstore"
	"librarium/internal/pkg/clock"
	"librarium/internal/pkg/errs"
)

const testPhone = "0913-555-1234"

func newService(clk clock.Clock, providers ...Provider) *Service {
	store := memstore.New(clk)
	throttle := NewThrottle(store, clk, ThrottleConfig{
		BurstLimit:  5,
		BurstWindow: 2 * time.Minute,
		HourlyLimit: 10,
	})
	if providers == nil {
		providers = []Provider{&scriptedProvider{name: "ok"}}
	}
	breaker := NewBreaker(providers, discardLogger())
	return NewService(store, throttle, breaker, clk, discardLogger(), 5*time.Minute)
}

func TestService_GenerateAndVerify(t *testing.T) {
	clk := clock.NewMockClock(time.Now())
	svc := newService(clk)
	ctx := context.Background()

	code, err := svc.Generate(ctx, testPhone)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9]{6}$`), code)

	require.NoError(t, svc.Verify(ctx, testPhone, code))
}

func TestService_VerifyConsumesCode(t *testing.T) {
	clk := clock.NewMockClock(time.Now())
	svc := newService(clk)
	ctx := context.Background()

	code, err := svc.Generate(ctx, testPhone)
	require.NoError(t, err)

	require.NoError(t, svc.Verify(ctx, testPhone, code))
	assert.ErrorIs(t, svc.Verify(ctx, testPhone, code), errs.ErrNoOTPRequest)
}

func TestService_VerifyWithoutRequest(t *testing.T) {
	svc := newService(clock.NewMockClock(time.Now()))
	err := svc.Verify(context.Background(), testPhone, "123456")
	assert.ErrorIs(t, err, errs.ErrNoOTPRequest)
}

// leakyStore stretches TTLs so records outlive their logical expiry,
// exercising the expiry check independent of store eviction.
type leakyStore struct {
	Store
}

func (s leakyStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.Store.Set(ctx, key, value, ttl*10)
}

func TestService_VerifyExpiredCode(t *testing.T) {
	clk := clock.NewMockClock(time.Now())
	store := leakyStore{Store: memstore.New(clk)}
	throttle := NewThrottle(store, clk, ThrottleConfig{BurstLimit: 5, BurstWindow: 2 * time.Minute, HourlyLimit: 10})
	breaker := NewBreaker([]Provider{&scriptedProvider{name: "ok"}}, discardLogger())
	svc := NewService(store, throttle, breaker, clk, discardLogger(), 5*time.Minute)
	ctx := context.Background()

	code, err := svc.Generate(ctx, testPhone)
	require.NoError(t, err)

	clk.Advance(5*time.Minute + time.Second)
	require.ErrorIs(t, svc.Verify(ctx, testPhone, code), errs.ErrOTPExpired)

	// Expiry consumes the record.
	assert.ErrorIs(t, svc.Verify(ctx, testPhone, code), errs.ErrNoOTPRequest)
}

func TestService_WrongCodeLeavesRecord(t *testing.T) {
	clk := clock.NewMockClock(time.Now())
	svc := newService(clk)
	ctx := context.Background()

	code, err := svc.Generate(ctx, testPhone)
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	require.ErrorIs(t, svc.Verify(ctx, testPhone, wrong), errs.ErrInvalidOTPCode)

	// The correct code still works after a failed attempt.
	assert.NoError(t, svc.Verify(ctx, testPhone, code))
}

func TestService_RegenerateReplacesCode(t *testing.T) {
	clk := clock.NewMockClock(time.Now())
	svc := newService(clk)
	ctx := context.Background()

	first, err := svc.Generate(ctx, testPhone)
	require.NoError(t, err)
	second, err := svc.Generate(ctx, testPhone)
	require.NoError(t, err)

	if first != second {
		require.ErrorIs(t, svc.Verify(ctx, testPhone, first), errs.ErrInvalidOTPCode)
	}
	assert.NoError(t, svc.Verify(ctx, testPhone, second))
}

func TestService_GenerateThrottled(t *testing.T) {
	clk := clock.NewMockClock(time.Now())
	svc := newService(clk)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Generate(ctx, testPhone)
		require.NoError(t, err)
	}
	_, err := svc.Generate(ctx, testPhone)
	assert.ErrorIs(t, err, errs.ErrOTPBurstLimit)
}

func TestService_GenerateInvalidPhone(t *testing.T) {
	svc := newService(clock.NewMockClock(time.Now()))

	_, err := svc.Generate(context.Background(), "0012345678")
	assert.ErrorIs(t, err, errs.ErrInvalidPhoneNumber)
}

func TestService_GenerateSurvivesDeliveryOutage(t *testing.T) {
	clk := clock.NewMockClock(time.Now())
	svc := newService(clk, &scriptedProvider{name: "down", fail: true})
	ctx := context.Background()

	// Issuance succeeds even when every provider is down; the stored code
	// remains verifiable.
	code, err := svc.Generate(ctx, testPhone)
	require.NoError(t, err)
	assert.NoError(t, svc.Verify(ctx, testPhone, code))
}

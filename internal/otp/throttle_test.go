//go:build unit

package otp

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarium/internal/infra/memstore"
	"librarium/internal/pkg/clock"
	"librarium/internal/pkg/errs"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newThrottle(clk clock.Clock) *Throttle {
	return NewThrottle(memstore.New(clk), clk, ThrottleConfig{
		BurstLimit:  5,
		BurstWindow: 2 * time.Minute,
		HourlyLimit: 10,
	})
}

func TestThrottle_AllowsUpToBurstLimit(t *testing.T) {
	clk := clock.NewMockClock(time.Now())
	th := newThrottle(clk)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, th.Check(ctx, "0913-555-1234"), "attempt %d", i+1)
	}
	assert.ErrorIs(t, th.Check(ctx, "0913-555-1234"), errs.ErrOTPBurstLimit)
}

func TestThrottle_BurstWindowSlides(t *testing.T) {
	clk := clock.NewMockClock(time.Now())
	th := newThrottle(clk)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, th.Check(ctx, "0913-555-1234"))
	}
	clk.Advance(2*time.Minute + time.Second)
	assert.NoError(t, th.Check(ctx, "0913-555-1234"))
}

func TestThrottle_HourlyLimit(t *testing.T) {
	clk := clock.NewMockClock(time.Now())
	th := newThrottle(clk)
	ctx := context.Background()

	// Spread attempts so the burst window never trips first.
	for i := 0; i < 10; i++ {
		require.NoError(t, th.Check(ctx, "0913-555-1234"))
		clk.Advance(3 * time.Minute)
	}
	assert.ErrorIs(t, th.Check(ctx, "0913-555-1234"), errs.ErrOTPHourlyLimit)
}

func TestThrottle_HourlyWindowSlides(t *testing.T) {
	clk := clock.NewMockClock(time.Now())
	th := newThrottle(clk)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, th.Check(ctx, "0913-555-1234"))
		clk.Advance(3 * time.Minute)
	}
	require.ErrorIs(t, th.Check(ctx, "0913-555-1234"), errs.ErrOTPHourlyLimit)

	// The oldest attempt falls out of the window shortly after.
	clk.Advance(31 * time.Minute)
	assert.NoError(t, th.Check(ctx, "0913-555-1234"))
}

func TestThrottle_RejectionNotRecorded(t *testing.T) {
	clk := clock.NewMockClock(time.Now())
	th := newThrottle(clk)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, th.Check(ctx, "0913-555-1234"))
	}
	// Hammering while throttled must not extend the lockout.
	for i := 0; i < 20; i++ {
		require.ErrorIs(t, th.Check(ctx, "0913-555-1234"), errs.ErrOTPBurstLimit)
	}
	clk.Advance(2*time.Minute + time.Second)
	assert.NoError(t, th.Check(ctx, "0913-555-1234"))
}

func TestThrottle_RecipientsIsolated(t *testing.T) {
	clk := clock.NewMockClock(time.Now())
	th := newThrottle(clk)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, th.Check(ctx, "0913-555-1234"))
	}
	require.ErrorIs(t, th.Check(ctx, "0913-555-1234"), errs.ErrOTPBurstLimit)
	assert.NoError(t, th.Check(ctx, "0935-555-9876"))
}

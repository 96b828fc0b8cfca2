package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"librarium/internal/pkg/clock"
	"librarium/internal/pkg/errs"
	"librarium/internal/pkg/phone"
)

const codeKeyPrefix = "otp:code:"

type record struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service issues and verifies one-time login codes.
type Service struct {
	store    Store
	throttle *Throttle
	breaker  *Breaker
	clk      clock.Clock
	logger   *slog.Logger
	ttl      time.Duration
}

func NewService(store Store, throttle *Throttle, breaker *Breaker, clk clock.Clock, logger *slog.Logger, ttl time.Duration) *Service {
	return &Service{
		store:    store,
		throttle: throttle,
		breaker:  breaker,
		clk:      clk,
		logger:   logger,
		ttl:      ttl,
	}
}

// Generate issues a fresh code for the recipient, replacing any code still
// outstanding. Delivery failure does not fail issuance: the code is already
// stored and verifiable, so a total provider outage is logged and swallowed.
func (s *Service) Generate(ctx context.Context, phoneNumber string) (string, error) {
	if !phone.IsValidMobile(phoneNumber) {
		return "", errs.Mark(errs.New("generate otp: bad recipient"), errs.ErrInvalidPhoneNumber)
	}
	if err := s.throttle.Check(ctx, phoneNumber); err != nil {
		return "", err
	}

	code, err := randomCode()
	if err != nil {
		return "", errs.Wrap(err, "generate otp code")
	}

	rec := record{Code: code, ExpiresAt: s.clk.Now().Add(s.ttl)}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", errs.Wrap(err, "encode otp record")
	}
	if err := s.store.Set(ctx, codeKeyPrefix+phoneNumber, data, s.ttl); err != nil {
		return "", errs.Wrap(err, "store otp record")
	}

	if err := s.breaker.Send(ctx, code, phoneNumber); err != nil {
		s.logger.Error("otp delivery failed on all providers",
			slog.String("recipient", phoneNumber),
			slog.String("error", err.Error()),
		)
	}
	return code, nil
}

// Verify checks the submitted code. A mismatched code leaves the stored
// record in place for retry; expiry and success both consume it.
func (s *Service) Verify(ctx context.Context, phoneNumber, code string) error {
	if !phone.IsValidMobile(phoneNumber) {
		return errs.Mark(errs.New("verify otp: bad recipient"), errs.ErrInvalidPhoneNumber)
	}

	key := codeKeyPrefix + phoneNumber
	data, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return errs.Wrap(err, "load otp record")
	}
	if !ok {
		return errs.ErrNoOTPRequest
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return errs.Wrap(err, "decode otp record")
	}

	if s.clk.Now().After(rec.ExpiresAt) {
		if err := s.store.Delete(ctx, key); err != nil {
			return errs.Wrap(err, "discard expired otp")
		}
		return errs.ErrOTPExpired
	}
	if rec.Code != code {
		return errs.ErrInvalidOTPCode
	}

	if err := s.store.Delete(ctx, key); err != nil {
		return errs.Wrap(err, "consume otp record")
	}
	return nil
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

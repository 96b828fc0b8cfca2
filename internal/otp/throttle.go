package otp

import (
	"context"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"librarium/internal/pkg/clock"
	"librarium/internal/pkg/errs"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const throttleKeyPrefix = "otp:req:"

type ThrottleConfig struct {
	BurstLimit  int
	BurstWindow time.Duration
	HourlyLimit int
}

// Throttle enforces two sliding windows over request timestamps per
// recipient: a short burst window and a one-hour window. Rejected
// requests are not recorded as attempts.
type Throttle struct {
	store Store
	clk   clock.Clock
	cfg   ThrottleConfig

	mu sync.Mutex
}

func NewThrottle(store Store, clk clock.Clock, cfg ThrottleConfig) *Throttle {
	return &Throttle{store: store, clk: clk, cfg: cfg}
}

// Check records the attempt and returns nil, or rejects with
// ErrOTPHourlyLimit / ErrOTPBurstLimit without recording it.
func (t *Throttle) Check(ctx context.Context, recipient string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := throttleKeyPrefix + recipient
	window, err := t.load(ctx, key)
	if err != nil {
		return err
	}

	now := t.clk.Now()
	hourAgo := now.Add(-time.Hour)
	pruned := window[:0]
	for _, ts := range window {
		if ts.After(hourAgo) {
			pruned = append(pruned, ts)
		}
	}

	if len(pruned) >= t.cfg.HourlyLimit {
		return errs.ErrOTPHourlyLimit
	}

	burstStart := now.Add(-t.cfg.BurstWindow)
	burst := 0
	for _, ts := range pruned {
		if ts.After(burstStart) {
			burst++
		}
	}
	if burst >= t.cfg.BurstLimit {
		return errs.ErrOTPBurstLimit
	}

	pruned = append(pruned, now)
	return t.save(ctx, key, pruned)
}

func (t *Throttle) load(ctx context.Context, key string) ([]time.Time, error) {
	data, ok, err := t.store.Get(ctx, key)
	if err != nil {
		return nil, errs.Wrap(err, "load throttle window")
	}
	if !ok {
		return nil, nil
	}
	var window []time.Time
	if err := json.Unmarshal(data, &window); err != nil {
		return nil, errs.Wrap(err, "decode throttle window")
	}
	return window, nil
}

func (t *Throttle) save(ctx context.Context, key string, window []time.Time) error {
	data, err := json.Marshal(window)
	if err != nil {
		return errs.Wrap(err, "encode throttle window")
	}
	if err := t.store.Set(ctx, key, data, time.Hour); err != nil {
		return errs.Wrap(err, "save throttle window")
	}
	return nil
}

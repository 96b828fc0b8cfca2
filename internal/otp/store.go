package otp

import (
	"context"
	"time"
)

// Store is the keyed ephemeral store backing OTP records and throttle
// windows. Production wires Redis; tests and single-process runs use the
// in-memory implementation.
type Store interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Provider delivers a code over an outbound channel (SMS).
type Provider interface {
	Send(ctx context.Context, code, recipient string) error
}

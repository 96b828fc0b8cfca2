package otp

import (
	"context"
	"log/slog"
	"sync"

	"librarium/internal/pkg/errs"
)

var ErrAllProvidersFailed = errs.New("all otp providers failed")

// Breaker rotates delivery across providers. The current index survives
// across calls: a provider keeps receiving traffic until it fails, at
// which point the breaker advances to the next one.
type Breaker struct {
	providers []Provider
	logger    *slog.Logger

	mu      sync.Mutex
	current int
}

func NewBreaker(providers []Provider, logger *slog.Logger) *Breaker {
	return &Breaker{providers: providers, logger: logger}
}

// Send tries each provider at most once starting from the current index.
// Returns ErrAllProvidersFailed when the full rotation fails.
func (b *Breaker) Send(ctx context.Context, code, recipient string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.providers) == 0 {
		return ErrAllProvidersFailed
	}

	for range b.providers {
		p := b.providers[b.current]
		err := p.Send(ctx, code, recipient)
		if err == nil {
			return nil
		}
		b.logger.Warn("otp provider failed, rotating",
			slog.Int("provider_index", b.current),
			slog.String("error", err.Error()),
		)
		b.current = (b.current + 1) % len(b.providers)
	}
	return ErrAllProvidersFailed
}

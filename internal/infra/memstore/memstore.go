// Package memstore is a process-local otp.Store for tests and single-node
// deployments without Redis.
package memstore

import (
	"context"
	"sync"
	"time"

	"librarium/internal/pkg/clock"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

type Store struct {
	clk clock.Clock

	mu      sync.Mutex
	entries map[string]entry
}

func New(clk clock.Clock) *Store {
	return &Store{clk: clk, entries: make(map[string]entry)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if s.clk.Now().After(e.expiresAt) {
		delete(s.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{value: value, expiresAt: s.clk.Now().Add(ttl)}
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

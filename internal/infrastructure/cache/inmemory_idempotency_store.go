package cache

import (
	"context"
	"sync"
	"time"

	"github.com/coupleledger/backend/internal/domain/shared"
)

const cleanupInterval = 5 * time.Minute

// InMemoryIdempotencyStore tracks processed event IDs in a local map.
// State is per-process, so it only dedupes correctly for single-instance
// deployments; distributed setups need the Redis store.
type InMemoryIdempotencyStore struct {
	mu        sync.RWMutex
	expiries  map[string]time.Time
	stop      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)

// NewInMemoryIdempotencyStore creates the store and starts a background
// sweep of expired entries.
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		expiries: make(map[string]time.Time),
		stop:     make(chan struct{}),
	}

	s.wg.Add(1)
	go s.sweepLoop()

	return s
}

// MarkProcessed records an event ID for the given TTL. It reports true
// when the ID was newly recorded, false when a live entry already existed.
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, eventID string, ttl time.Duration) (bool, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if expiry, ok := s.expiries[eventID]; ok && now.Before(expiry) {
		return false, nil
	}
	s.expiries[eventID] = now.Add(ttl)
	return true, nil
}

// IsProcessed reports whether a live entry exists for the event ID.
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expiry, ok := s.expiries[eventID]
	return ok && time.Now().Before(expiry), nil
}

// Close stops the sweep goroutine. Safe to call more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryIdempotencyStore) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *InMemoryIdempotencyStore) sweep() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for eventID, expiry := range s.expiries {
		if now.After(expiry) {
			delete(s.expiries, eventID)
		}
	}
}

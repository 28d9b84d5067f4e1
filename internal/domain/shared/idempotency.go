package shared

import (
	"context"
	"time"
)

// IdempotencyStore stores processed event IDs so at-least-once delivery to a
// handler never results in double processing
type IdempotencyStore interface {
	// MarkProcessed marks an event as processed with a TTL. It returns true
	// if the event was newly marked, false if it was already processed.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, eventID string) (bool, error)
	Close() error
}

// IdempotencyConfig controls dedupe behavior for a wrapped handler.
type IdempotencyConfig struct {
	// TTL is how long a processed event ID is remembered; after it expires
	// the same event ID would be processed again
	TTL time.Duration
	Enabled bool
}

// DefaultIdempotencyConfig remembers event IDs for a day.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}

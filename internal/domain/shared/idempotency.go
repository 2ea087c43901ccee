package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers identity keys of submitted jobs so that an
// equivalent submission within the TTL collapses into the first one.
type IdempotencyStore interface {
	// MarkProcessed marks a key as taken with a TTL.
	// Returns true if the key was newly marked, false if it was already taken.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key is currently taken
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release frees a key before its TTL expires
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for identity key handling
type IdempotencyConfig struct {
	// TTL is how long a key stays taken after submission.
	// Default: 1 hour
	TTL time.Duration

	// Enabled determines whether deduplication is enabled
	// Default: true
	Enabled bool
}

// DefaultIdempotencyConfig returns the default configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     time.Hour,
		Enabled: true,
	}
}

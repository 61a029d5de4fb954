package repository

import (
	"context"
	"time"
)

// StateStore abstracts ephemeral key-value state: refresh-token revocation
// markers and webhook idempotency keys.
// Implementations: Redis (production) or in-memory (local dev / tests).
type StateStore interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetIfAbsent stores the value only when the key does not exist yet and
	// reports whether it did. Webhook deduplication relies on this being
	// atomic.
	SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

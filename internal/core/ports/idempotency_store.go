package ports

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/idempotency"
	"marketplace/internal/core/domain/model/kernel"
)

// IdempotencyStore keeps idempotency records outside of the guarded operation's
// transaction, so a reservation is visible to concurrent requests at once.
type IdempotencyStore interface {
	// Reserve inserts rec unless a record with the same key, scope and caller exists.
	// It returns nil when rec was reserved, or the existing record.
	Reserve(ctx context.Context, rec idempotency.Record) (*idempotency.Record, error)

	// Complete stores the settled outcome of rec.
	Complete(ctx context.Context, rec idempotency.Record) error

	// Delete releases a reservation so the key can be used again.
	Delete(ctx context.Context, key, scope string, callerID kernel.UUID) error

	// PurgeExpired deletes records expired at now and returns how many it deleted.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// IdempotencyCache is a fast path in front of the store for settled successes.
// Misses and cache errors fall back to the store.
type IdempotencyCache interface {
	Get(ctx context.Context, key, scope string, callerID kernel.UUID) (*idempotency.Record, error)
	Put(ctx context.Context, rec idempotency.Record) error
}

package commands

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/idempotency"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// IdempotentRequest identifies a guarded request: the caller's key, the operation it
// is for, and what makes up its fingerprint.
type IdempotentRequest struct {
	Key      string
	Scope    string
	CallerID kernel.UUID
	Method   string
	Path     string
	Payload  []byte
}

// Operation is the guarded work. Its response is stored and replayed verbatim.
type Operation func(ctx context.Context) (idempotency.Response, error)

// IdempotencyGuard runs an operation at most once per caller, scope and key.
//
// The first request reserves the key, runs the operation and settles the record with its
// response or its classified failure. A repeated request with the same fingerprint gets
// the stored outcome back; one with another fingerprint, or one arriving while the first
// is still running, is a ResourceConflictError. Unclassified failures release the key so
// it may be retried.
//
// Example:
//
//	guard := NewIdempotencyGuard(store, cache, 24*time.Hour, time.Now, logger)
//	resp, replayed, err := guard.Execute(ctx, req, func(ctx context.Context) (idempotency.Response, error) {
//	    result, err := commitHandler.Handle(ctx, cmd)
//	    ...
//	})
type IdempotencyGuard struct {
	store  ports.IdempotencyStore
	cache  ports.IdempotencyCache
	ttl    time.Duration
	now    Clock
	logger *slog.Logger
}

// NewIdempotencyGuard creates a guard over store. cache may be nil.
func NewIdempotencyGuard(
	store ports.IdempotencyStore, cache ports.IdempotencyCache, ttl time.Duration, now Clock, logger *slog.Logger,
) *IdempotencyGuard {
	if ttl <= 0 {
		ttl = idempotency.DefaultTTL
	}
	return &IdempotencyGuard{
		store:  store,
		cache:  cache,
		ttl:    ttl,
		now:    now,
		logger: logger.With("component", "idempotency-guard"),
	}
}

// Execute runs op under the guard of req.
//
// Parameters:
//   - ctx: request context
//   - req: the key, scope, caller and fingerprint parts of the request
//   - op: the operation to run on first use of the key
//
// Returns:
//   - the response of op, or the stored one when replayed is true
//   - the failure of op, a replay of a stored failure, or a ResourceConflictError
func (g *IdempotencyGuard) Execute(
	ctx context.Context, req IdempotentRequest, op Operation,
) (resp idempotency.Response, replayed bool, err error) {
	hash, err := idempotency.Fingerprint(req.Method, req.Path, req.CallerID, req.Payload)
	if err != nil {
		return idempotency.Response{}, false, err
	}
	now := g.now()
	rec, err := idempotency.NewRecord(req.Key, req.Scope, req.CallerID, hash, now, g.ttl)
	if err != nil {
		return idempotency.Response{}, false, err
	}

	if cached := g.cached(ctx, rec, now); cached != nil {
		resp, err := cached.Replay(hash)
		return resp, err == nil, err
	}

	existing, err := g.reserve(ctx, rec, now)
	if err != nil {
		return idempotency.Response{}, false, err
	}
	if existing != nil {
		resp, err := existing.Replay(hash)
		return resp, err == nil, err
	}

	resp, opErr := op(ctx)
	settledAt := g.now()
	store := context.WithoutCancel(ctx)

	if opErr != nil {
		kind := errs.Kind(opErr)
		if kind == errs.KindInternal {
			if err := g.store.Delete(store, rec.Key, rec.Scope, rec.CallerID); err != nil {
				g.logger.ErrorContext(ctx, "releasing idempotency key failed", "key", rec.Key, "scope", rec.Scope, "error", err)
			}
			return idempotency.Response{}, false, opErr
		}
		rec.Fail(kind, opErr.Error(), settledAt)
		if err := g.store.Complete(store, rec); err != nil {
			g.logger.ErrorContext(ctx, "storing idempotent failure failed", "key", rec.Key, "scope", rec.Scope, "error", err)
		}
		return idempotency.Response{}, false, opErr
	}

	rec.Succeed(resp, settledAt)
	if err := g.store.Complete(store, rec); err != nil {
		g.logger.ErrorContext(ctx, "storing idempotent response failed", "key", rec.Key, "scope", rec.Scope, "error", err)
		return resp, false, nil
	}
	if g.cache != nil {
		if err := g.cache.Put(store, rec); err != nil {
			g.logger.WarnContext(ctx, "caching idempotent response failed", "key", rec.Key, "error", err)
		}
	}
	return resp, false, nil
}

// cached returns a settled, unexpired record from the cache, or nil.
func (g *IdempotencyGuard) cached(ctx context.Context, rec idempotency.Record, now time.Time) *idempotency.Record {
	if g.cache == nil {
		return nil
	}
	cached, err := g.cache.Get(ctx, rec.Key, rec.Scope, rec.CallerID)
	if err != nil {
		g.logger.WarnContext(ctx, "idempotency cache lookup failed", "key", rec.Key, "error", err)
		return nil
	}
	if cached == nil || cached.IsExpired(now) || cached.Status != idempotency.Succeeded {
		return nil
	}
	return cached
}

// reserve inserts rec, replacing an expired record left under the same key.
func (g *IdempotencyGuard) reserve(ctx context.Context, rec idempotency.Record, now time.Time) (*idempotency.Record, error) {
	existing, err := g.store.Reserve(ctx, rec)
	if err != nil || existing == nil || !existing.IsExpired(now) {
		return existing, err
	}

	if err = g.store.Delete(ctx, rec.Key, rec.Scope, rec.CallerID); err != nil {
		return nil, err
	}
	return g.store.Reserve(ctx, rec)
}

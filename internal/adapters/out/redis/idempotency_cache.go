// Package redis keeps settled idempotent responses in Redis so a replay does not
// reach the database. The database stays the source of truth: a miss or an error here
// only means the store is asked.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/idempotency"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
)

// KeyIdempotency is idem:{scope}:{caller}:{key}.
const KeyIdempotency = "idem:%s:%s:%s"

var _ ports.IdempotencyCache = &IdempotencyCache{}

// NewClient connects to addr.
func NewClient(addr string) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// IdempotencyCache implements IdempotencyCache on a Redis client.
type IdempotencyCache struct {
	client goredis.Cmdable
	now    func() time.Time
}

// NewIdempotencyCache creates a cache over client.
func NewIdempotencyCache(client goredis.Cmdable, now func() time.Time) *IdempotencyCache {
	return &IdempotencyCache{client: client, now: now}
}

type cachedRecord struct {
	Hash           string    `json:"hash"`
	Status         string    `json:"status"`
	ResponseStatus int       `json:"responseStatus"`
	ResponseBody   []byte    `json:"responseBody"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

// Get returns the cached record, or nil on a miss.
func (c *IdempotencyCache) Get(ctx context.Context, key, scope string, callerID kernel.UUID) (*idempotency.Record, error) {
	data, err := c.client.Get(ctx, cacheKey(key, scope, callerID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var cached cachedRecord
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("decode cached idempotency record: %w", err)
	}
	return &idempotency.Record{
		Key:      key,
		Scope:    scope,
		CallerID: callerID,
		Hash:     cached.Hash,
		Status:   idempotency.Status(cached.Status),
		Response: idempotency.Response{
			StatusCode: cached.ResponseStatus,
			Body:       cached.ResponseBody,
		},
		CreatedAt: cached.CreatedAt,
		UpdatedAt: cached.UpdatedAt,
		ExpiresAt: cached.ExpiresAt,
	}, nil
}

// Put caches a settled success until the record expires. Anything else is ignored.
func (c *IdempotencyCache) Put(ctx context.Context, rec idempotency.Record) error {
	if rec.Status != idempotency.Succeeded {
		return nil
	}
	ttl := rec.ExpiresAt.Sub(c.now())
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(cachedRecord{
		Hash:           rec.Hash,
		Status:         string(rec.Status),
		ResponseStatus: rec.Response.StatusCode,
		ResponseBody:   rec.Response.Body,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
		ExpiresAt:      rec.ExpiresAt,
	})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(rec.Key, rec.Scope, rec.CallerID), data, ttl).Err()
}

func cacheKey(key, scope string, callerID kernel.UUID) string {
	return fmt.Sprintf(KeyIdempotency, scope, callerID.String(), key)
}

package memory

import (
	"context"
	"sync"
	"time"

	"marketplace/internal/core/domain/model/idempotency"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
)

var _ ports.IdempotencyStore = &IdempotencyStore{}

type recordKey struct {
	key      string
	scope    string
	callerID kernel.UUID
}

// IdempotencyStore keeps records outside of the store's transactions, like the
// database table it stands in for.
type IdempotencyStore struct {
	mu      sync.Mutex
	records map[recordKey]idempotency.Record
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{records: make(map[recordKey]idempotency.Record)}
}

func (s *IdempotencyStore) Reserve(_ context.Context, rec idempotency.Record) (*idempotency.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := recordKey{rec.Key, rec.Scope, rec.CallerID}
	if existing, ok := s.records[k]; ok {
		return &existing, nil
	}
	s.records[k] = rec
	return nil, nil
}

func (s *IdempotencyStore) Complete(_ context.Context, rec idempotency.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[recordKey{rec.Key, rec.Scope, rec.CallerID}] = rec
	return nil
}

func (s *IdempotencyStore) Delete(_ context.Context, key, scope string, callerID kernel.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, recordKey{key, scope, callerID})
	return nil
}

func (s *IdempotencyStore) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, rec := range s.records {
		if rec.IsExpired(now) {
			delete(s.records, k)
			n++
		}
	}
	return n, nil
}

// Len returns the number of kept records.
func (s *IdempotencyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

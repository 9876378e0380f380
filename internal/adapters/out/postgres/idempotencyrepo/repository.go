package idempotencyrepo

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/idempotency"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ ports.IdempotencyStore = &GormIdempotencyStore{}

// GormIdempotencyStore implements IdempotencyStore using GORM.
type GormIdempotencyStore struct {
	db *gorm.DB
}

// NewGormIdempotencyStore creates a new GORM idempotency store.
func NewGormIdempotencyStore(db *gorm.DB) *GormIdempotencyStore {
	return &GormIdempotencyStore{db: db}
}

// Reserve inserts rec unless its key is taken, in which case the holder is returned.
func (s *GormIdempotencyStore) Reserve(ctx context.Context, rec idempotency.Record) (*idempotency.Record, error) {
	dto := fromDomain(rec)
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&dto)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		return nil, nil
	}

	var existing RecordDTO
	if err := s.db.WithContext(ctx).
		First(&existing, "key = ? AND scope = ? AND caller_id = ?", rec.Key, rec.Scope, rec.CallerID.Bytes()).Error; err != nil {
		return nil, err
	}
	holder, err := toDomain(existing)
	if err != nil {
		return nil, err
	}
	return &holder, nil
}

// Complete stores the settled outcome of rec.
func (s *GormIdempotencyStore) Complete(ctx context.Context, rec idempotency.Record) error {
	dto := fromDomain(rec)
	return s.db.WithContext(ctx).Save(&dto).Error
}

// Delete releases the key of callerID in scope.
func (s *GormIdempotencyStore) Delete(ctx context.Context, key, scope string, callerID kernel.UUID) error {
	return s.db.WithContext(ctx).
		Where("key = ? AND scope = ? AND caller_id = ?", key, scope, callerID.Bytes()).
		Delete(&RecordDTO{}).Error
}

// PurgeExpired deletes the records expired at now.
func (s *GormIdempotencyStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&RecordDTO{})
	return result.RowsAffected, result.Error
}

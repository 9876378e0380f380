package outboxrepo

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

var _ ports.OutboxRepository = &GormOutboxRepository{}

// GormOutboxRepository implements OutboxRepository using GORM.
type GormOutboxRepository struct {
	db *gorm.DB
}

// NewGormOutboxRepository creates a new GORM outbox repository.
func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Add inserts events as pending.
func (r *GormOutboxRepository) Add(ctx context.Context, events ...notification.Event) error {
	if len(events) == 0 {
		return nil
	}
	dtos := make([]OutboxDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, fromDomain(e))
	}
	return r.db.WithContext(ctx).Create(&dtos).Error
}

// FetchPending returns up to limit undelivered events, oldest first.
func (r *GormOutboxRepository) FetchPending(ctx context.Context, limit int) ([]notification.Event, error) {
	var dtos []OutboxDTO
	if err := r.db.WithContext(ctx).
		Where("dispatched_at IS NULL").
		Order("created_at, id").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	events := make([]notification.Event, 0, len(dtos))
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// MarkDispatched records the delivery of id at at.
func (r *GormOutboxRepository) MarkDispatched(ctx context.Context, id kernel.UUID, at time.Time) error {
	return r.update(ctx, id, map[string]any{
		"dispatched_at": at,
		"attempts":      gorm.Expr("attempts + 1"),
	})
}

// RecordFailure counts a failed attempt and keeps its reason.
func (r *GormOutboxRepository) RecordFailure(ctx context.Context, id kernel.UUID, reason string) error {
	return r.update(ctx, id, map[string]any{
		"last_error": reason,
		"attempts":   gorm.Expr("attempts + 1"),
	})
}

func (r *GormOutboxRepository) update(ctx context.Context, id kernel.UUID, values map[string]any) error {
	result := r.db.WithContext(ctx).Model(&OutboxDTO{}).Where("id = ?", id.Bytes()).Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("notification", id.String())
	}
	return nil
}

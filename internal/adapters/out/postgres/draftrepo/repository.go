package draftrepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

var _ ports.DraftRepository = &GormDraftRepository{}

// GormDraftRepository implements DraftRepository using GORM.
type GormDraftRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormDraftRepository creates a new GORM draft repository.
func NewGormDraftRepository(db *gorm.DB, tracker aggregateTracker) *GormDraftRepository {
	return &GormDraftRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new draft with its groups.
func (r *GormDraftRepository) Add(ctx context.Context, draft *checkout.Draft) error {
	if err := draft.Validate(); err != nil {
		return err
	}

	dto := fromDomain(draft)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(draft.ID(), draft)
	return nil
}

// Update saves a repriced or committed draft. The header is only written while the stored
// draft is still open at the version draft was read with; the groups are then replaced.
func (r *GormDraftRepository) Update(ctx context.Context, draft *checkout.Draft) error {
	if err := draft.Validate(); err != nil {
		return err
	}

	dto := fromDomain(draft)
	db := r.db.WithContext(ctx)

	readVersion := dto.Version
	dto.Version++

	result := db.Model(&DraftDTO{}).
		Where("id = ? AND version = ? AND status = ?", dto.ID, readVersion, checkout.Open.String()).
		Select("*").
		Omit("ID", "CreatedAt", "Groups").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewResourceConflictError("draft "+draft.Code(), "modified concurrently")
	}

	if err := db.Where("draft_id = ?", dto.ID).Delete(&DraftGroupDTO{}).Error; err != nil {
		return err
	}
	if len(dto.Groups) > 0 {
		if err := db.Create(&dto.Groups).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(draft.ID(), draft)
	return nil
}

// GetByCode retrieves a draft by its code.
func (r *GormDraftRepository) GetByCode(ctx context.Context, code string) (*checkout.Draft, error) {
	var dto DraftDTO
	err := r.db.WithContext(ctx).
		Preload("Groups", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&dto, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("draft", code)
		}
		return nil, err
	}
	return toDomain(dto)
}

package orderrepo

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

var _ ports.OrderRepository = &GormOrderRepository{}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its items.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves a transitioned order if nobody else changed it since it was read.
// Items are fixed at commit and are not rewritten.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	readVersion := dto.Version
	dto.Version++

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, readVersion).
		Select("*").
		Omit("ID", "Code", "PlacedAt", "Items").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewResourceConflictError("order "+aggregate.Code(), "modified concurrently")
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// GetByCode retrieves an order by its code.
func (r *GormOrderRepository) GetByCode(ctx context.Context, code string) (*order.Order, error) {
	var dto OrderDTO
	if err := r.withItems(ctx).First(&dto, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", code)
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListByGroupCode retrieves the orders of one checkout, ordered by code.
func (r *GormOrderRepository) ListByGroupCode(ctx context.Context, groupCode string) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := r.withItems(ctx).
		Where("group_code = ?", groupCode).
		Order("code").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// SumBuyerSpend totals the orders of buyerID placed since since in a spend-counting status.
func (r *GormOrderRepository) SumBuyerSpend(ctx context.Context, buyerID kernel.UUID, shopID *kernel.UUID, since time.Time) (int64, error) {
	var statuses []string
	for _, s := range order.Statuses() {
		if s.CountsAsSpend() {
			statuses = append(statuses, s.String())
		}
	}

	query := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("buyer_id = ? AND placed_at >= ? AND status IN ?", buyerID.Bytes(), since, statuses)
	if shopID != nil {
		query = query.Where("shop_id = ?", shopID.Bytes())
	}

	var total int64
	if err := query.Select("COALESCE(SUM(total), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") })
}

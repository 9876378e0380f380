package shippingrepo

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/shipping"
	"marketplace/internal/core/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ ports.ShippingMethodRepository = &GormShippingMethodRepository{}

// GormShippingMethodRepository implements ShippingMethodRepository using GORM.
type GormShippingMethodRepository struct {
	db *gorm.DB
}

// NewGormShippingMethodRepository creates a new GORM shipping method repository.
func NewGormShippingMethodRepository(db *gorm.DB) *GormShippingMethodRepository {
	return &GormShippingMethodRepository{db: db}
}

// ListActiveByShop returns the active methods of shopID, ordered by code.
func (r *GormShippingMethodRepository) ListActiveByShop(ctx context.Context, shopID kernel.UUID) ([]shipping.Method, error) {
	var dtos []ShippingMethodDTO
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND active", shopID.Bytes()).
		Order("code").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	methods := make([]shipping.Method, 0, len(dtos))
	for _, dto := range dtos {
		m, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, nil
}

// AddAll inserts methods, leaving the ones whose code the shop already has untouched.
func (r *GormShippingMethodRepository) AddAll(ctx context.Context, methods []shipping.Method) error {
	if len(methods) == 0 {
		return nil
	}

	dtos := make([]ShippingMethodDTO, 0, len(methods))
	for _, m := range methods {
		if err := m.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, fromDomain(m))
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "shop_id"}, {Name: "code"}},
			DoNothing: true,
		}).
		Create(&dtos).Error
}

package voucherrepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/voucher"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

var _ ports.VoucherRepository = &GormVoucherRepository{}

// GormVoucherRepository implements VoucherRepository using GORM.
type GormVoucherRepository struct {
	db *gorm.DB
}

// NewGormVoucherRepository creates a new GORM voucher repository.
func NewGormVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{db: db}
}

// GetByCode retrieves a voucher by its normalized code.
func (r *GormVoucherRepository) GetByCode(ctx context.Context, code string) (voucher.Voucher, error) {
	var dto VoucherDTO
	if err := r.db.WithContext(ctx).First(&dto, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return voucher.Voucher{}, errs.NewObjectNotFoundError("voucher", code)
		}
		return voucher.Voucher{}, err
	}
	return toDomain(dto)
}

// IncrementUsage adds one use while the usage limit allows it.
func (r *GormVoucherRepository) IncrementUsage(ctx context.Context, id kernel.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&VoucherDTO{}).
		Where("id = ? AND (usage_limit IS NULL OR used_count < usage_limit)", id.Bytes()).
		Update("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&VoucherDTO{}).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, errs.NewObjectNotFoundError("voucher", id.String())
	}
	return false, nil
}

// Add stores a new voucher.
func (r *GormVoucherRepository) Add(ctx context.Context, v voucher.Voucher) error {
	if err := v.Validate(); err != nil {
		return err
	}
	dto := FromDomain(v)
	return r.db.WithContext(ctx).Create(&dto).Error
}

package buyerrepo

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	_ ports.AddressRepository = &GormAddressRepository{}
	_ ports.CartRepository    = &GormCartRepository{}
)

// GormAddressRepository implements AddressRepository using GORM.
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GORM address repository.
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// Get returns the address id of ownerID. Another user's address is not found.
func (r *GormAddressRepository) Get(ctx context.Context, id, ownerID kernel.UUID) (kernel.Address, error) {
	var dto AddressDTO
	err := r.db.WithContext(ctx).
		First(&dto, "id = ? AND owner_id = ?", id.Bytes(), ownerID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return kernel.Address{}, errs.NewObjectNotFoundError("address", id.String())
		}
		return kernel.Address{}, err
	}
	return dto.toDomain(), nil
}

// Add saves an address owned by ownerID.
func (r *GormAddressRepository) Add(ctx context.Context, id, ownerID kernel.UUID, a kernel.Address) error {
	dto := FromAddress(id, ownerID, a)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GormCartRepository implements CartRepository using GORM.
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GORM cart repository.
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// ListLines returns the cart of buyerID in the order the lines were added.
func (r *GormCartRepository) ListLines(ctx context.Context, buyerID kernel.UUID) ([]checkout.Line, error) {
	var dtos []CartLineDTO
	if err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID.Bytes()).
		Order("added_at, sku_id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	lines := make([]checkout.Line, 0, len(dtos))
	for _, dto := range dtos {
		skuID, err := kernel.UUIDFromBytes(dto.SKUID[:])
		if err != nil {
			return nil, err
		}
		lines = append(lines, checkout.Line{SKUID: skuID, Quantity: dto.Quantity})
	}
	return lines, nil
}

// RemoveSKUs deletes the given SKUs from the cart of buyerID.
func (r *GormCartRepository) RemoveSKUs(ctx context.Context, buyerID kernel.UUID, skuIDs []kernel.UUID) error {
	if len(skuIDs) == 0 {
		return nil
	}
	raw := make([]uuid.UUID, 0, len(skuIDs))
	for _, id := range skuIDs {
		raw = append(raw, id.Bytes())
	}
	return r.db.WithContext(ctx).
		Where("buyer_id = ? AND sku_id IN ?", buyerID.Bytes(), raw).
		Delete(&CartLineDTO{}).Error
}

// Put sets the quantity of one SKU in the cart, keeping its original position.
func (r *GormCartRepository) Put(ctx context.Context, buyerID kernel.UUID, line checkout.Line, now time.Time) error {
	dto := CartLineDTO{
		BuyerID:  buyerID.Bytes(),
		SKUID:    line.SKUID.Bytes(),
		Quantity: line.Quantity,
		AddedAt:  now,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "buyer_id"}, {Name: "sku_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity"}),
		}).
		Create(&dto).Error
}

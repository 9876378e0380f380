package catalogrepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ ports.CatalogRepository = &GormCatalogRepository{}

// GormCatalogRepository implements CatalogRepository using GORM.
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GORM catalog repository.
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// GetListings loads the listing of every known SKU in skuIDs.
func (r *GormCatalogRepository) GetListings(ctx context.Context, skuIDs []kernel.UUID) (map[kernel.UUID]catalog.Listing, error) {
	result := make(map[kernel.UUID]catalog.Listing, len(skuIDs))
	if len(skuIDs) == 0 {
		return result, nil
	}

	raw := make([]uuid.UUID, 0, len(skuIDs))
	for _, id := range skuIDs {
		raw = append(raw, id.Bytes())
	}

	var rows []listingRow
	if err := r.db.WithContext(ctx).
		Table("skus").
		Select(listingColumns).
		Joins("JOIN products ON products.id = skus.product_id").
		Joins("JOIN shops ON shops.id = products.shop_id").
		Where("skus.id IN ?", raw).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		l, err := toDomain(row)
		if err != nil {
			return nil, err
		}
		result[l.SKUID] = l
	}
	return result, nil
}

// DecrementStock takes quantity off the SKU only while stock covers it, and adds it to
// the product's sold counter in the same transaction.
func (r *GormCatalogRepository) DecrementStock(ctx context.Context, skuID kernel.UUID, quantity int) (bool, error) {
	db := r.db.WithContext(ctx)

	result := db.Model(&SKUDTO{}).
		Where("id = ? AND stock >= ?", skuID.Bytes(), quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, r.ensureExists(ctx, skuID)
	}

	if err := db.Exec(
		"UPDATE products SET sold = sold + ? WHERE id = (SELECT product_id FROM skus WHERE id = ?)",
		quantity, skuID.Bytes(),
	).Error; err != nil {
		return false, err
	}
	return true, nil
}

// Restock gives quantity back to the SKU and takes it off the sold counter, never below zero.
func (r *GormCatalogRepository) Restock(ctx context.Context, skuID kernel.UUID, quantity int) error {
	db := r.db.WithContext(ctx)

	result := db.Model(&SKUDTO{}).
		Where("id = ?", skuID.Bytes()).
		Update("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("sku", skuID.String())
	}

	return db.Exec(
		"UPDATE products SET sold = GREATEST(sold - ?, 0) WHERE id = (SELECT product_id FROM skus WHERE id = ?)",
		quantity, skuID.Bytes(),
	).Error
}

// Stock returns the current stock of skuID.
func (r *GormCatalogRepository) Stock(ctx context.Context, skuID kernel.UUID) (int, error) {
	var dto SKUDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", skuID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errs.NewObjectNotFoundError("sku", skuID.String())
		}
		return 0, err
	}
	return dto.Stock, nil
}

func (r *GormCatalogRepository) ensureExists(ctx context.Context, skuID kernel.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&SKUDTO{}).Where("id = ?", skuID.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("sku", skuID.String())
	}
	return nil
}

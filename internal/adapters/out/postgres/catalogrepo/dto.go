// Package catalogrepo provides data transfer objects and mapping functions for the
// catalog tables: shops, products and SKUs. Stock and sold counters are only changed
// through conditional updates.
package catalogrepo

import (
	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// ShopDTO represents the database structure of a shop.
type ShopDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	SellerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"type:varchar(255);not null"`
	Status   string    `gorm:"type:varchar(16);not null"`
}

func (ShopDTO) TableName() string {
	return "shops"
}

// ProductDTO represents the database structure of a product. Sold counts units
// taken by committed orders and not given back by a restock.
type ProductDTO struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShopID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name   string    `gorm:"type:varchar(255);not null"`
	Price  int64     `gorm:"not null"`
	Status string    `gorm:"type:varchar(16);not null"`
	Sold   int       `gorm:"not null;default:0"`
}

func (ProductDTO) TableName() string {
	return "products"
}

// SKUDTO represents the database structure of a SKU. A null price falls back to
// the product's price.
type SKUDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Price       *int64
	CostPrice   int64  `gorm:"not null;default:0"`
	Stock       int    `gorm:"not null;check:stock >= 0"`
	WeightGrams int    `gorm:"not null;default:0"`
	Status      string `gorm:"type:varchar(16);not null"`
}

func (SKUDTO) TableName() string {
	return "skus"
}

// listingRow is one SKU joined with its product and shop.
type listingRow struct {
	SKUID         uuid.UUID `gorm:"column:sku_id"`
	SKUName       string    `gorm:"column:sku_name"`
	SKUStatus     string    `gorm:"column:sku_status"`
	Price         *int64    `gorm:"column:sku_price"`
	CostPrice     int64     `gorm:"column:cost_price"`
	Stock         int       `gorm:"column:stock"`
	WeightGrams   int       `gorm:"column:weight_grams"`
	ProductID     uuid.UUID `gorm:"column:product_id"`
	ProductName   string    `gorm:"column:product_name"`
	ProductStatus string    `gorm:"column:product_status"`
	ProductPrice  int64     `gorm:"column:product_price"`
	ShopID        uuid.UUID `gorm:"column:shop_id"`
	ShopName      string    `gorm:"column:shop_name"`
	ShopStatus    string    `gorm:"column:shop_status"`
	SellerID      uuid.UUID `gorm:"column:seller_id"`
}

const listingColumns = `
	skus.id AS sku_id,
	skus.name AS sku_name,
	skus.status AS sku_status,
	skus.price AS sku_price,
	skus.cost_price,
	skus.stock,
	skus.weight_grams,
	products.id AS product_id,
	products.name AS product_name,
	products.status AS product_status,
	products.price AS product_price,
	shops.id AS shop_id,
	shops.name AS shop_name,
	shops.status AS shop_status,
	shops.seller_id`

// toDomain converts a joined row to a listing.
func toDomain(row listingRow) (catalog.Listing, error) {
	skuID, err := kernel.UUIDFromBytes(row.SKUID[:])
	if err != nil {
		return catalog.Listing{}, err
	}
	productID, err := kernel.UUIDFromBytes(row.ProductID[:])
	if err != nil {
		return catalog.Listing{}, err
	}
	shopID, err := kernel.UUIDFromBytes(row.ShopID[:])
	if err != nil {
		return catalog.Listing{}, err
	}
	sellerID, err := kernel.UUIDFromBytes(row.SellerID[:])
	if err != nil {
		return catalog.Listing{}, err
	}

	return catalog.Listing{
		SKUID:         skuID,
		SKUName:       row.SKUName,
		SKUStatus:     catalog.SKUStatus(row.SKUStatus),
		Price:         row.Price,
		CostPrice:     row.CostPrice,
		Stock:         row.Stock,
		WeightGrams:   row.WeightGrams,
		ProductID:     productID,
		ProductName:   row.ProductName,
		ProductStatus: catalog.ProductStatus(row.ProductStatus),
		ProductPrice:  row.ProductPrice,
		ShopID:        shopID,
		ShopName:      row.ShopName,
		ShopStatus:    catalog.ShopStatus(row.ShopStatus),
		SellerID:      sellerID,
	}, nil
}

// FromListing splits a listing into its three rows. Used to seed the catalog.
func FromListing(l catalog.Listing) (ShopDTO, ProductDTO, SKUDTO) {
	return ShopDTO{
			ID:       l.ShopID.Bytes(),
			SellerID: l.SellerID.Bytes(),
			Name:     l.ShopName,
			Status:   string(l.ShopStatus),
		}, ProductDTO{
			ID:     l.ProductID.Bytes(),
			ShopID: l.ShopID.Bytes(),
			Name:   l.ProductName,
			Price:  l.ProductPrice,
			Status: string(l.ProductStatus),
		}, SKUDTO{
			ID:          l.SKUID.Bytes(),
			ProductID:   l.ProductID.Bytes(),
			Name:        l.SKUName,
			Price:       l.Price,
			CostPrice:   l.CostPrice,
			Stock:       l.Stock,
			WeightGrams: l.WeightGrams,
			Status:      string(l.SKUStatus),
		}
}

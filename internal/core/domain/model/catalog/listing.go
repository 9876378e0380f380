package catalog

import (
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// Listing is a SKU joined with its product and shop, as read at quote or commit time.
// It is a read model: stock and sold counters are only changed through the
// repository's conditional updates, never by mutating a Listing.
type Listing struct {
	SKUID       kernel.UUID
	SKUName     string
	SKUStatus   SKUStatus
	Price       *int64 // nil falls back to ProductPrice
	CostPrice   int64
	Stock       int
	WeightGrams int

	ProductID     kernel.UUID
	ProductName   string
	ProductStatus ProductStatus
	ProductPrice  int64

	ShopID     kernel.UUID
	ShopName   string
	ShopStatus ShopStatus
	SellerID   kernel.UUID
}

// UnitPrice is the SKU's own price when set, otherwise the product's price.
func (l Listing) UnitPrice() int64 {
	if l.Price != nil {
		return *l.Price
	}
	return l.ProductPrice
}

// CheckSellable fails with a NotSellableError unless the SKU, its product and its shop are all ACTIVE.
func (l Listing) CheckSellable() error {
	switch {
	case l.SKUStatus != SKUActive:
		return errs.NewNotSellableError(l.SKUID.String(), fmt.Sprintf("sku is %s", l.SKUStatus))
	case l.ProductStatus != ProductActive:
		return errs.NewNotSellableError(l.SKUID.String(), fmt.Sprintf("product is %s", l.ProductStatus))
	case l.ShopStatus != ShopActive:
		return errs.NewNotSellableError(l.SKUID.String(), fmt.Sprintf("shop is %s", l.ShopStatus))
	}
	return nil
}

// CheckStock fails with an OutOfStockError when quantity exceeds the current stock.
func (l Listing) CheckStock(quantity int) error {
	if quantity > l.Stock {
		return errs.NewOutOfStockError(l.SKUID.String(), quantity, l.Stock)
	}
	return nil
}

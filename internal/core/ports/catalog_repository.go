package ports

import (
	"context"

	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"
)

// CatalogRepository reads listings and moves stock.
type CatalogRepository interface {
	// GetListings loads the listing of every SKU in skuIDs. Unknown SKUs are absent from the map.
	GetListings(ctx context.Context, skuIDs []kernel.UUID) (map[kernel.UUID]catalog.Listing, error)

	// DecrementStock takes quantity from the SKU's stock and adds it to its product's sold
	// counter, only if the stock still covers it. It reports false when it did not apply.
	DecrementStock(ctx context.Context, skuID kernel.UUID, quantity int) (bool, error)

	// Restock reverses DecrementStock.
	Restock(ctx context.Context, skuID kernel.UUID, quantity int) error
}

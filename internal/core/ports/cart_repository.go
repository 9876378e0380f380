package ports

import (
	"context"

	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
)

// CartRepository reads and clears the persisted cart of a buyer.
type CartRepository interface {
	// ListLines returns the cart lines of buyerID in the order they were added.
	ListLines(ctx context.Context, buyerID kernel.UUID) ([]checkout.Line, error)

	// RemoveSKUs deletes the lines of skuIDs from the cart of buyerID, leaving the others.
	RemoveSKUs(ctx context.Context, buyerID kernel.UUID, skuIDs []kernel.UUID) error
}

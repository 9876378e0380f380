package ports

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// OrderRepository persists orders with their items and satellites.
type OrderRepository interface {
	// Add persists a new order.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists a changed order, only if the stored version is the one the order was
	// read with; it then advances the stored version. A stale order is a ResourceConflictError.
	Update(ctx context.Context, aggregate *order.Order) error

	// GetByCode returns the order with code, or an ObjectNotFoundError.
	GetByCode(ctx context.Context, code string) (*order.Order, error)

	// ListByGroupCode returns the sibling orders of one checkout, ordered by code.
	ListByGroupCode(ctx context.Context, groupCode string) ([]*order.Order, error)

	// SumBuyerSpend totals the orders of buyerID placed since since, with shopID only when
	// it is set, counting the statuses for which Status.CountsAsSpend holds.
	SumBuyerSpend(ctx context.Context, buyerID kernel.UUID, shopID *kernel.UUID, since time.Time) (int64, error)
}

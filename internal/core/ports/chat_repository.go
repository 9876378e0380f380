package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
)

// ChatRepository opens the buyer-seller conversation attached to an order.
type ChatRepository interface {
	OpenThread(ctx context.Context, orderID, buyerID, shopID kernel.UUID) error
}

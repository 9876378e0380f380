package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/shipping"
)

// ShippingMethodRepository stores the shipping configuration of shops.
type ShippingMethodRepository interface {
	// ListActiveByShop returns the active methods of shopID.
	ListActiveByShop(ctx context.Context, shopID kernel.UUID) ([]shipping.Method, error)

	// AddAll stores methods, used to bootstrap the defaults of a shop.
	AddAll(ctx context.Context, methods []shipping.Method) error
}

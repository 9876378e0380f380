package pricing

import (
	"context"

	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"
)

// ResolveAddress returns the saved address addressID of buyerID, or the inline address.
func (Pipeline) ResolveAddress(
	ctx context.Context, repos Repositories, buyerID kernel.UUID, addressID *kernel.UUID, inline *kernel.Address,
) (kernel.Address, error) {
	switch {
	case addressID != nil:
		a, err := repos.AddressRepository().Get(ctx, *addressID, buyerID)
		if err != nil {
			return kernel.Address{}, err
		}
		return kernel.NewAddress(a)
	case inline != nil:
		return kernel.NewAddress(*inline)
	default:
		return kernel.Address{}, errs.NewValueIsRequiredError("address")
	}
}

// ResolveLines returns items, or the buyer's cart when items is empty. Repeated SKUs are merged.
func (Pipeline) ResolveLines(
	ctx context.Context, repos Repositories, buyerID kernel.UUID, items []checkout.Line,
) ([]checkout.Line, error) {
	if len(items) == 0 {
		cart, err := repos.CartRepository().ListLines(ctx, buyerID)
		if err != nil {
			return nil, err
		}
		if len(cart) == 0 {
			return nil, errs.NewValueIsRequiredError("items (the cart is empty)")
		}
		items = cart
	}
	return services.MergeLines(items)
}

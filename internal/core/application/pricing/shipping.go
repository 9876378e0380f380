package pricing

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/shipping"
)

// QuoteShipping quotes every group for address and selects, per shop, the option whose
// code is in preferred when it is still offered, otherwise the cheapest one. Shops
// without any active method get the default methods first.
func (p Pipeline) QuoteShipping(
	ctx context.Context,
	repos Repositories,
	groups []checkout.Group,
	address kernel.Address,
	preferred map[kernel.UUID]string,
	now time.Time,
) error {
	dest := address.Destination()
	for i := range groups {
		g := &groups[i]
		methods, err := p.methods(ctx, repos, g.ShopID)
		if err != nil {
			return err
		}
		q := p.quoter.Quote(methods, dest, g.Subtotal, g.WeightGrams, now)
		p.quoter.ApplyQuote(g, q, preferred[g.ShopID])
	}
	return nil
}

// Options quotes one group without changing it.
func (p Pipeline) Options(
	ctx context.Context, repos Repositories, g checkout.Group, address kernel.Address, now time.Time,
) (shipping.Quote, error) {
	methods, err := p.methods(ctx, repos, g.ShopID)
	if err != nil {
		return shipping.Quote{}, err
	}
	return p.quoter.Quote(methods, address.Destination(), g.Subtotal, g.WeightGrams, now), nil
}

func (Pipeline) methods(ctx context.Context, repos Repositories, shopID kernel.UUID) ([]shipping.Method, error) {
	methods, err := repos.ShippingMethodRepository().ListActiveByShop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if len(methods) > 0 {
		return methods, nil
	}

	defaults := shipping.DefaultMethods(shopID)
	if err := repos.ShippingMethodRepository().AddAll(ctx, defaults); err != nil {
		return nil, err
	}
	return defaults, nil
}

package pricing

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
)

// Repositories are the reads the pipeline needs, usually a unit of work.
type Repositories interface {
	CatalogRepository() ports.CatalogRepository
	ShippingMethodRepository() ports.ShippingMethodRepository
	VoucherRepository() ports.VoucherRepository
	AddressRepository() ports.AddressRepository
	CartRepository() ports.CartRepository
	OrderRepository() ports.OrderRepository
}

// Request is a checkout request before resolution. Items empty means the buyer's cart;
// AddressID takes precedence over Address.
type Request struct {
	BuyerID       kernel.UUID
	Items         []checkout.Line
	AddressID     *kernel.UUID
	Address       *kernel.Address
	VoucherCode   string
	ShopVouchers  map[kernel.UUID]string
	ShippingCodes map[kernel.UUID]string
}

// Quote is a priced request.
type Quote struct {
	Address  kernel.Address
	Lines    []checkout.Line
	Groups   []checkout.Group
	Platform checkout.VoucherSelection
	Totals   checkout.Totals
}

// Pipeline prices checkout requests.
type Pipeline struct {
	grouper  services.ShopGrouper
	quoter   services.ShippingQuoter
	resolver services.VoucherResolver
}

func NewPipeline() Pipeline {
	return Pipeline{
		grouper:  services.NewShopGrouper(),
		quoter:   services.NewShippingQuoter(),
		resolver: services.NewVoucherResolver(),
	}
}

// Quote resolves and prices req. Ineligible vouchers are kept as notices and
// out-of-service shops carry their shipping error; neither fails the quote.
func (p Pipeline) Quote(ctx context.Context, repos Repositories, req Request, now time.Time) (Quote, error) {
	address, err := p.ResolveAddress(ctx, repos, req.BuyerID, req.AddressID, req.Address)
	if err != nil {
		return Quote{}, err
	}

	lines, err := p.ResolveLines(ctx, repos, req.BuyerID, req.Items)
	if err != nil {
		return Quote{}, err
	}

	ids := make([]kernel.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.SKUID)
	}
	listings, err := repos.CatalogRepository().GetListings(ctx, ids)
	if err != nil {
		return Quote{}, err
	}

	groups, err := p.grouper.Group(lines, listings)
	if err != nil {
		return Quote{}, err
	}

	if err := p.QuoteShipping(ctx, repos, groups, address, req.ShippingCodes, now); err != nil {
		return Quote{}, err
	}

	vouchers := Vouchers{PlatformCode: req.VoucherCode, ShopCodes: req.ShopVouchers}
	groups, platform, err := p.Reprice(ctx, repos, req.BuyerID, groups, vouchers, now)
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		Address:  address,
		Lines:    lines,
		Groups:   groups,
		Platform: platform,
		Totals:   checkout.Summarize(groups),
	}, nil
}

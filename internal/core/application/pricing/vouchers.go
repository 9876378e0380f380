package pricing

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/voucher"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"
)

// Vouchers are the voucher codes selected for a checkout. An empty code selects nothing.
//
// Without an Override every ineligible voucher is kept with its reason as a notice.
// With one, the overridden selection must be eligible or repricing fails, and any
// other stored selection that is no longer eligible is cleared.
type Vouchers struct {
	PlatformCode string
	ShopCodes    map[kernel.UUID]string
	Override     *Override
}

// Override names the selection a caller is explicitly changing.
type Override struct {
	Platform bool
	ShopID   *kernel.UUID
}

func (o *Override) targetsShop(shopID kernel.UUID) bool {
	return o != nil && o.ShopID != nil && o.ShopID.IsEqual(shopID)
}

// Reprice recomputes every shop discount and the platform split of groups from scratch.
// groups must carry their items and shipping; the result is a new slice.
func (p Pipeline) Reprice(
	ctx context.Context, repos Repositories, buyerID kernel.UUID, groups []checkout.Group, v Vouchers, now time.Time,
) ([]checkout.Group, checkout.VoucherSelection, error) {
	groups = checkout.CloneGroups(groups)
	spend := newSpendLookup(repos, buyerID, now)

	for i := range groups {
		g := &groups[i]
		g.ShopVoucher = checkout.VoucherSelection{}
		g.PlatformShare = 0

		code := services.NormalizeCode(v.ShopCodes[g.ShopID])
		if code == "" {
			continue
		}
		found, err := p.lookup(ctx, repos, code)
		if err != nil {
			return nil, checkout.VoucherSelection{}, err
		}
		shopID := g.ShopID
		s, err := spend.of(ctx, found, &shopID)
		if err != nil {
			return nil, checkout.VoucherSelection{}, err
		}

		sel, eval := p.resolver.ResolveShopVoucher(code, found, *g, s, now)
		switch {
		case eval.Eligible:
			g.ShopVoucher = sel
		case v.Override.targetsShop(g.ShopID):
			return nil, checkout.VoucherSelection{}, eval.Error(code)
		case v.Override == nil:
			g.ShopVoucher = sel
		}
	}

	var platform checkout.VoucherSelection
	if code := services.NormalizeCode(v.PlatformCode); code != "" {
		found, err := p.lookup(ctx, repos, code)
		if err != nil {
			return nil, checkout.VoucherSelection{}, err
		}
		s, err := spend.of(ctx, found, nil)
		if err != nil {
			return nil, checkout.VoucherSelection{}, err
		}

		sel, eval := p.resolver.ResolvePlatformVoucher(code, found, groups, s, now)
		switch {
		case eval.Eligible:
			platform = sel
		case v.Override != nil && v.Override.Platform:
			return nil, checkout.VoucherSelection{}, eval.Error(code)
		case v.Override == nil:
			platform = sel
		}
	}

	if err := services.DistributePlatformDiscount(groups, platform); err != nil {
		return nil, checkout.VoucherSelection{}, err
	}
	checkout.Summarize(groups)
	return groups, platform, nil
}

// lookup returns nil for an unknown code.
func (Pipeline) lookup(ctx context.Context, repos Repositories, code string) (*voucher.Voucher, error) {
	v, err := repos.VoucherRepository().GetByCode(ctx, code)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// SpendPeriods returns the starts of the calendar month and year of now, in now's location.
func SpendPeriods(now time.Time) (month, year time.Time) {
	month = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	year = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	return month, year
}

// spendLookup loads the buyer's spend once per shop, and only for vouchers with thresholds.
type spendLookup struct {
	repos   Repositories
	buyerID kernel.UUID
	now     time.Time
	cache   map[string]voucher.Spend
}

func newSpendLookup(repos Repositories, buyerID kernel.UUID, now time.Time) *spendLookup {
	return &spendLookup{repos: repos, buyerID: buyerID, now: now, cache: make(map[string]voucher.Spend)}
}

func (l *spendLookup) of(ctx context.Context, v *voucher.Voucher, shopID *kernel.UUID) (voucher.Spend, error) {
	if v == nil || !v.NeedsSpend() {
		return voucher.Spend{}, nil
	}

	key := "platform"
	if shopID != nil {
		key = shopID.String()
	}
	if s, ok := l.cache[key]; ok {
		return s, nil
	}

	monthStart, yearStart := SpendPeriods(l.now)
	orders := l.repos.OrderRepository()
	month, err := orders.SumBuyerSpend(ctx, l.buyerID, shopID, monthStart)
	if err != nil {
		return voucher.Spend{}, err
	}
	year, err := orders.SumBuyerSpend(ctx, l.buyerID, shopID, yearStart)
	if err != nil {
		return voucher.Spend{}, err
	}

	s := voucher.Spend{Month: month, Year: year}
	l.cache[key] = s
	return s, nil
}

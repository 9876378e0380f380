package commands

import (
	"context"
	"time"

	"marketplace/internal/core/application/pricing"
	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
)

// loadMutableDraft reads the draft code of buyerID and checks it can still change.
// Drafts of other buyers are not found.
func loadMutableDraft(ctx context.Context, uow DraftUoW, code string, buyerID kernel.UUID, now time.Time) (*checkout.Draft, error) {
	draft, err := uow.DraftRepository().GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err = draft.EnsureOwnedBy(buyerID); err != nil {
		return nil, err
	}
	if err = draft.EnsureMutable(now); err != nil {
		return nil, err
	}
	return draft, nil
}

// selectedVouchers returns the voucher codes currently stored on draft.
func selectedVouchers(draft *checkout.Draft) pricing.Vouchers {
	v := pricing.Vouchers{
		PlatformCode: draft.PlatformVoucher().Code,
		ShopCodes:    make(map[kernel.UUID]string),
	}
	for _, g := range draft.Groups() {
		if g.ShopVoucher.Code != "" {
			v.ShopCodes[g.ShopID] = g.ShopVoucher.Code
		}
	}
	return v
}

// reprice recomputes every discount of draft for v and persists the result.
func reprice(
	ctx context.Context, p pricing.Pipeline, uow DraftUoW, draft *checkout.Draft, v pricing.Vouchers, now time.Time,
) error {
	groups, platform, err := p.Reprice(ctx, uow, draft.BuyerID(), draft.Groups(), v, now)
	if err != nil {
		return err
	}
	if err = draft.ApplyPricing(groups, platform, now); err != nil {
		return err
	}
	return uow.DraftRepository().Update(ctx, draft)
}

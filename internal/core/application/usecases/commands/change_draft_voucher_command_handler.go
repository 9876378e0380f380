package commands

import (
	"context"

	"marketplace/internal/core/application/pricing"
	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/pkg/errs"
)

// ChangeDraftVoucherCommandHandler changes the platform voucher or one shop voucher of a
// draft and recomputes every discount from scratch.
//
// The voucher being changed must be eligible, or the request fails. Any other stored
// selection that is no longer eligible is cleared instead of blocking the change.
type ChangeDraftVoucherCommandHandler struct {
	uowFactory DraftUoWFactory
	pipeline   pricing.Pipeline
	now        Clock
}

func NewChangeDraftVoucherCommandHandler(uowFactory DraftUoWFactory, now Clock) ChangeDraftVoucherCommandHandler {
	return ChangeDraftVoucherCommandHandler{
		uowFactory: uowFactory,
		pipeline:   pricing.NewPipeline(),
		now:        now,
	}
}

// Handle applies the voucher change.
//
// Parameters:
//   - ctx: request context
//   - cmd: a command built by NewChangeDraftVoucherCommand
//
// Returns:
//   - the repriced draft
//   - a Validation error naming the ineligibility reason of the requested voucher
func (h *ChangeDraftVoucherCommandHandler) Handle(ctx context.Context, cmd ChangeDraftVoucherCommand) (*checkout.Draft, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	now := h.now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	draft, err := loadMutableDraft(ctx, uow, cmd.DraftCode(), cmd.BuyerID(), now)
	if err != nil {
		return nil, err
	}

	vouchers := selectedVouchers(draft)
	if cmd.TargetsPlatform() {
		vouchers.PlatformCode = cmd.VoucherCode()
		vouchers.Override = &pricing.Override{Platform: true}
	} else {
		shopID := *cmd.ShopID()
		if _, ok := draft.Group(shopID); !ok {
			return nil, errs.NewObjectNotFoundError("shop group", shopID)
		}
		vouchers.ShopCodes[shopID] = cmd.VoucherCode()
		vouchers.Override = &pricing.Override{ShopID: &shopID}
	}

	if err = reprice(ctx, h.pipeline, uow, draft, vouchers, now); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return draft, nil
}

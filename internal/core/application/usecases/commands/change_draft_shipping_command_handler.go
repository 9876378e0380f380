package commands

import (
	"context"
	"errors"

	"marketplace/internal/core/application/pricing"
	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/pkg/errs"
)

// ChangeDraftShippingCommandHandler re-quotes one shop group of a draft and selects the
// requested option, which must still be offered for the draft's destination.
type ChangeDraftShippingCommandHandler struct {
	uowFactory DraftUoWFactory
	pipeline   pricing.Pipeline
	now        Clock
}

func NewChangeDraftShippingCommandHandler(uowFactory DraftUoWFactory, now Clock) ChangeDraftShippingCommandHandler {
	return ChangeDraftShippingCommandHandler{
		uowFactory: uowFactory,
		pipeline:   pricing.NewPipeline(),
		now:        now,
	}
}

// Handle changes the shipping selection and persists the new totals.
//
// Parameters:
//   - ctx: request context
//   - cmd: a command built by NewChangeDraftShippingCommand
//
// Returns:
//   - the updated draft
//   - NotFound for an unknown draft, shop group or option; Expired or StateConflict for a
//     draft that can no longer change; Validation when the shop does not serve the address
func (h *ChangeDraftShippingCommandHandler) Handle(ctx context.Context, cmd ChangeDraftShippingCommand) (*checkout.Draft, error) {
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

	group, ok := draft.Group(cmd.ShopID())
	if !ok {
		return nil, errs.NewObjectNotFoundError("shop group", cmd.ShopID())
	}

	quote, err := h.pipeline.Options(ctx, uow, group, draft.Address(), now)
	if err != nil {
		return nil, err
	}
	if quote.Error != "" {
		return nil, errs.NewValueIsInvalidErrorWithCause("shipping", errors.New(quote.Error))
	}
	option, ok := quote.Find(cmd.OptionCode())
	if !ok {
		return nil, errs.NewObjectNotFoundError("shipping option", cmd.OptionCode())
	}

	draft.RefreshOptions(cmd.ShopID(), quote.Options)
	if err = draft.SelectShipping(cmd.ShopID(), option, now); err != nil {
		return nil, err
	}

	if err = uow.DraftRepository().Update(ctx, draft); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return draft, nil
}

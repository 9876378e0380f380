package commands

import (
	"context"
	"time"

	"marketplace/internal/core/application/pricing"
	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
)

// CreateDraftCommandHandler prices a checkout request and persists the result as an
// Open draft that expires after the configured TTL.
//
// Example:
//
//	handler := NewCreateDraftCommandHandler(uowFactory, "VND", 30*time.Minute, time.Now)
//	draft, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("draft creation failed: %w", err)
//	}
//	fmt.Printf("draft %s expires at %s", draft.Code(), draft.ExpiresAt())
type CreateDraftCommandHandler struct {
	uowFactory DraftUoWFactory
	pipeline   pricing.Pipeline
	currency   string
	ttl        time.Duration
	now        Clock
}

// NewCreateDraftCommandHandler creates a handler for draft creation.
// Requires a DraftUoWFactory for transactional persistence.
func NewCreateDraftCommandHandler(
	uowFactory DraftUoWFactory, currency string, ttl time.Duration, now Clock,
) CreateDraftCommandHandler {
	return CreateDraftCommandHandler{
		uowFactory: uowFactory,
		pipeline:   pricing.NewPipeline(),
		currency:   currency,
		ttl:        ttl,
		now:        now,
	}
}

// Handle quotes the request and stores the draft.
//
// Parameters:
//   - ctx: request context
//   - cmd: a command built by NewCreateDraftCommand
//
// Returns:
//   - the Open draft, with ineligible vouchers kept as notices
//   - a NotSellable, OutOfStock, NotFound or Validation error from the quote
func (h *CreateDraftCommandHandler) Handle(ctx context.Context, cmd CreateDraftCommand) (*checkout.Draft, error) {
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

	input := cmd.Input()
	quote, err := h.pipeline.Quote(ctx, uow, pricing.Request{
		BuyerID:       cmd.BuyerID(),
		Items:         input.Items,
		AddressID:     input.AddressID,
		Address:       input.Address,
		VoucherCode:   input.VoucherCode,
		ShopVouchers:  input.ShopVouchers,
		ShippingCodes: input.ShippingCodes,
	}, now)
	if err != nil {
		return nil, err
	}

	draft, err := checkout.NewDraft(
		kernel.NewUUID(),
		kernel.NewCode(kernel.DraftCodePrefix, now),
		cmd.BuyerID(),
		h.currency,
		quote.Address,
		quote.Lines,
		quote.Groups,
		quote.Platform,
		input.Note,
		now,
		h.ttl,
	)
	if err != nil {
		return nil, err
	}

	if err = uow.DraftRepository().Add(ctx, draft); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return draft, nil
}

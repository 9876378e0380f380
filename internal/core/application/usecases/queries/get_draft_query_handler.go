package queries

import (
	"context"

	"marketplace/internal/core/application/pricing"
	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/shipping"
	"marketplace/internal/core/ports"
)

// GetDraftQueryResponse is a stored draft with its shipping quoted again.
// Draft carries the persisted selection and totals; its groups' options are the live ones.
// Shipping holds the live quote per shop, including OUT_OF_SERVICE errors that appeared
// since the draft was priced.
type GetDraftQueryResponse struct {
	Draft    *checkout.Draft
	Shipping map[kernel.UUID]shipping.Quote
}

// GetDraftQueryHandler re-quotes shipping of a draft so ETAs are current, without
// storing anything.
//
// Example:
//
//	handler := NewGetDraftQueryHandler(uowFactory, time.Now)
//	query, _ := NewGetDraftQuery(buyerID, "CK260520K3JXQ7AB")
//
//	resp, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrExpired) {
//	    // ask the buyer to check out again
//	}
type GetDraftQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	pipeline   pricing.Pipeline
	now        Clock
}

func NewGetDraftQueryHandler(uowFactory ports.UnitOfWorkFactory, now Clock) GetDraftQueryHandler {
	return GetDraftQueryHandler{
		uowFactory: uowFactory,
		pipeline:   pricing.NewPipeline(),
		now:        now,
	}
}

// Handle returns the draft of the query's buyer. An Open draft past its expiry is an
// ExpiredError; a committed draft is returned as stored, without a new quote.
func (h GetDraftQueryHandler) Handle(ctx context.Context, query GetDraftQuery) (GetDraftQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDraftQueryResponse{}, err
	}
	now := h.now()
	uow := h.uowFactory.Create()

	draft, err := uow.DraftRepository().GetByCode(ctx, query.DraftCode())
	if err != nil {
		return GetDraftQueryResponse{}, err
	}
	if err = draft.EnsureOwnedBy(query.BuyerID()); err != nil {
		return GetDraftQueryResponse{}, err
	}

	resp := GetDraftQueryResponse{Draft: draft, Shipping: make(map[kernel.UUID]shipping.Quote)}
	if draft.Status() != checkout.Open {
		return resp, nil
	}
	if err = draft.EnsureMutable(now); err != nil {
		return GetDraftQueryResponse{}, err
	}

	for _, g := range draft.Groups() {
		quote, err := h.pipeline.Options(ctx, uow, g, draft.Address(), now)
		if err != nil {
			return GetDraftQueryResponse{}, err
		}
		draft.RefreshOptions(g.ShopID, quote.Options)
		resp.Shipping[g.ShopID] = quote
	}
	return resp, nil
}

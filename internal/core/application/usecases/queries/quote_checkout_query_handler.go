package queries

import (
	"context"
	"time"

	"marketplace/internal/core/application/pricing"
	"marketplace/internal/core/ports"
)

// Clock returns the current time.
type Clock func() time.Time

// QuoteCheckoutQueryHandler prices a checkout with the same pipeline drafts are created
// with, so a quote and the draft created from the same request agree.
type QuoteCheckoutQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	pipeline   pricing.Pipeline
	now        Clock
}

func NewQuoteCheckoutQueryHandler(uowFactory ports.UnitOfWorkFactory, now Clock) QuoteCheckoutQueryHandler {
	return QuoteCheckoutQueryHandler{
		uowFactory: uowFactory,
		pipeline:   pricing.NewPipeline(),
		now:        now,
	}
}

// Handle returns the quote. Ineligible vouchers come back as notices and shops that do not
// serve the address carry an OUT_OF_SERVICE shipping error; neither fails the call.
func (h QuoteCheckoutQueryHandler) Handle(ctx context.Context, query QuoteCheckoutQuery) (pricing.Quote, error) {
	if err := query.Validate(); err != nil {
		return pricing.Quote{}, err
	}
	return h.pipeline.Quote(ctx, h.uowFactory.Create(), query.Request(), h.now())
}

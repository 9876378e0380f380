package services

import (
	"cmp"
	"slices"
	"time"

	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/shipping"
)

// ShippingQuoter ranks the shipping methods of one shop for one destination.
//
// Business rules:
//   - Only active methods whose zones serve the destination and whose weight limit fits the parcel are offered
//   - The fee is waived when the group subtotal reaches the method's free-shipping threshold
//   - Options are sorted by fee, then by fastest delivery; the first one is the default
//   - A group with no offered method carries OUT_OF_SERVICE instead of a selection
type ShippingQuoter struct{}

// NewShippingQuoter creates a new ShippingQuoter instance.
func NewShippingQuoter() ShippingQuoter {
	return ShippingQuoter{}
}

// Quote prices methods for a parcel.
//
// Parameters:
//   - methods: the shop's shipping methods
//   - dest: the folded destination
//   - subtotal: the group subtotal, for free-shipping thresholds
//   - weightGrams: the parcel weight
//   - now: the quote time, for ETA dates
//
// Returns:
//   - shipping.Quote: options sorted cheapest first, or ErrorOutOfService
func (ShippingQuoter) Quote(
	methods []shipping.Method, dest kernel.Destination, subtotal int64, weightGrams int, now time.Time,
) shipping.Quote {
	options := make([]shipping.Option, 0, len(methods))
	for _, m := range methods {
		if !m.Active || !m.Serves(dest) || !m.Carries(weightGrams) {
			continue
		}
		options = append(options, m.Option(subtotal, now))
	}

	if len(options) == 0 {
		return shipping.Quote{Error: shipping.ErrorOutOfService}
	}

	slices.SortStableFunc(options, func(a, b shipping.Option) int {
		return cmp.Or(
			cmp.Compare(a.Fee, b.Fee),
			cmp.Compare(a.MaxDays, b.MaxDays),
			cmp.Compare(a.Code, b.Code),
		)
	})
	return shipping.Quote{Options: options}
}

// ApplyQuote stores q on g. The option with preferredCode stays selected when it is still
// offered; otherwise the cheapest option is selected.
func (ShippingQuoter) ApplyQuote(g *checkout.Group, q shipping.Quote, preferredCode string) {
	g.Options = q.Options
	if q.Error != "" {
		g.Shipping = nil
		g.ShippingError = q.Error
		return
	}

	g.ShippingError = ""
	selected, ok := q.Find(preferredCode)
	if preferredCode == "" || !ok {
		selected, _ = q.Cheapest()
	}
	g.Shipping = &selected
}

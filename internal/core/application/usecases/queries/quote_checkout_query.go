// Package queries contains read operations for retrieving system state.
// Queries never persist what they compute; the only write a quote may cause is
// the bootstrap of a shop's default shipping methods.
package queries

import (
	"errors"
	"maps"

	"marketplace/internal/core/application/pricing"
	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrQuoteCheckoutQueryIsNotConstructed = errors.New(
	"QuoteCheckoutQuery must be created via NewQuoteCheckoutQuery constructor",
)

// QuoteCheckoutQuery asks for shipping options, discounts and totals of a checkout
// without creating a draft.
//
// Example:
//
//	query, err := NewQuoteCheckoutQuery(pricing.Request{
//	    BuyerID:     buyerID,
//	    AddressID:   &addressID,
//	    VoucherCode: "SALE50K",
//	})
//	quote, err := handler.Handle(ctx, query)
type QuoteCheckoutQuery struct {
	request pricing.Request

	guard guard.ConstructorGuard
}

// NewQuoteCheckoutQuery validates the shape of req. An empty item list quotes the cart.
func NewQuoteCheckoutQuery(req pricing.Request) (QuoteCheckoutQuery, error) {
	var err error
	if req.BuyerID.Validate() != nil {
		err = errors.Join(err, errs.NewValueIsRequiredError("buyerId"))
	}
	if req.AddressID == nil && req.Address == nil {
		err = errors.Join(err, errs.NewValueIsRequiredError("addressId or address"))
	}
	for _, l := range req.Items {
		if l.SKUID.Validate() != nil {
			err = errors.Join(err, errs.NewValueIsRequiredError("items.skuId"))
		}
		if l.Quantity <= 0 {
			err = errors.Join(err, errs.NewValueIsOutOfRangeError("items.quantity", l.Quantity, 1, "unbounded"))
		}
	}
	if err != nil {
		return QuoteCheckoutQuery{}, err
	}

	req.Items = append([]checkout.Line(nil), req.Items...)
	req.ShopVouchers = maps.Clone(req.ShopVouchers)
	req.ShippingCodes = maps.Clone(req.ShippingCodes)
	return QuoteCheckoutQuery{request: req, guard: guard.NewConstructorGuard()}, nil
}

func (q QuoteCheckoutQuery) Validate() error {
	return q.guard.Validate(ErrQuoteCheckoutQueryIsNotConstructed)
}

func (q QuoteCheckoutQuery) Request() pricing.Request { return q.request }

func (q QuoteCheckoutQuery) BuyerID() kernel.UUID { return q.request.BuyerID }

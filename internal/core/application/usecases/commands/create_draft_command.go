package commands

import (
	"errors"
	"maps"
	"strings"

	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrCreateDraftCommandIsNotConstructed = errors.New(
	"CreateDraftCommand must be created via NewCreateDraftCommand constructor",
)

// CheckoutInput is the body shared by quotes and draft creation. Items empty means
// the buyer's cart; AddressID takes precedence over Address.
type CheckoutInput struct {
	Items         []checkout.Line
	AddressID     *kernel.UUID
	Address       *kernel.Address
	VoucherCode   string
	ShopVouchers  map[kernel.UUID]string
	ShippingCodes map[kernel.UUID]string
	Note          string
}

// CreateDraftCommand represents a request to price a checkout and persist it as a draft.
//
// Example:
//
//	cmd, err := NewCreateDraftCommand(buyerID, CheckoutInput{
//	    Items:   []checkout.Line{{SKUID: skuID, Quantity: 2}},
//	    Address: &address,
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid checkout: %w", err)
//	}
//
//	draft, err := handler.Handle(ctx, cmd)
type CreateDraftCommand struct { //nolint:recvcheck //using for validation
	buyerID kernel.UUID
	input   CheckoutInput

	guard guard.ConstructorGuard
}

// NewCreateDraftCommand validates the buyer and the shape of the input. Stock, sellability
// and addresses are checked by the handler against current data.
func NewCreateDraftCommand(buyerID kernel.UUID, input CheckoutInput) (CreateDraftCommand, error) {
	cmd := CreateDraftCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setBuyerID(buyerID),
		cmd.setInput(input),
	); err != nil {
		return CreateDraftCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateDraftCommand) Validate() error {
	return c.guard.Validate(ErrCreateDraftCommandIsNotConstructed)
}

func (c CreateDraftCommand) BuyerID() kernel.UUID {
	return c.buyerID
}

func (c CreateDraftCommand) Input() CheckoutInput {
	return c.input
}

func (c *CreateDraftCommand) setBuyerID(buyerID kernel.UUID) error {
	if err := buyerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("buyerId", err)
	}

	c.buyerID = buyerID
	return nil
}

func (c *CreateDraftCommand) setInput(input CheckoutInput) error {
	if err := ValidateCheckoutInput(input); err != nil {
		return err
	}

	input.Items = append([]checkout.Line(nil), input.Items...)
	input.ShopVouchers = maps.Clone(input.ShopVouchers)
	input.ShippingCodes = maps.Clone(input.ShippingCodes)
	input.Note = strings.TrimSpace(input.Note)
	c.input = input
	return nil
}

// ValidateCheckoutInput checks what can be checked without reading any data.
func ValidateCheckoutInput(input CheckoutInput) error {
	var err error
	if input.AddressID == nil && input.Address == nil {
		err = errors.Join(err, errs.NewValueIsRequiredError("addressId or address"))
	}
	for _, l := range input.Items {
		if l.SKUID.Validate() != nil {
			err = errors.Join(err, errs.NewValueIsRequiredError("items.skuId"))
		}
		if l.Quantity <= 0 {
			err = errors.Join(err, errs.NewValueIsOutOfRangeError("items.quantity", l.Quantity, 1, "unbounded"))
		}
	}
	if len([]rune(strings.TrimSpace(input.Note))) > checkout.MaxNoteLength {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("note length", len(input.Note), 0, checkout.MaxNoteLength))
	}
	return err
}

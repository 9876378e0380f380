package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrChangeDraftShippingCommandIsNotConstructed = errors.New(
	"ChangeDraftShippingCommand must be created via NewChangeDraftShippingCommand constructor",
)

// ChangeDraftShippingCommand selects another shipping option for one shop group of a draft.
type ChangeDraftShippingCommand struct { //nolint:recvcheck //using for validation
	buyerID    kernel.UUID
	draftCode  string
	shopID     kernel.UUID
	optionCode string

	guard guard.ConstructorGuard
}

func NewChangeDraftShippingCommand(
	buyerID kernel.UUID, draftCode string, shopID kernel.UUID, optionCode string,
) (ChangeDraftShippingCommand, error) {
	cmd := ChangeDraftShippingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setBuyerID(buyerID),
		cmd.setDraftCode(draftCode),
		cmd.setShopID(shopID),
		cmd.setOptionCode(optionCode),
	); err != nil {
		return ChangeDraftShippingCommand{}, err
	}

	return cmd, nil
}

func (c ChangeDraftShippingCommand) Validate() error {
	return c.guard.Validate(ErrChangeDraftShippingCommandIsNotConstructed)
}

func (c ChangeDraftShippingCommand) BuyerID() kernel.UUID { return c.buyerID }
func (c ChangeDraftShippingCommand) DraftCode() string    { return c.draftCode }
func (c ChangeDraftShippingCommand) ShopID() kernel.UUID  { return c.shopID }
func (c ChangeDraftShippingCommand) OptionCode() string   { return c.optionCode }

func (c *ChangeDraftShippingCommand) setBuyerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("buyerId", err)
	}
	c.buyerID = id
	return nil
}

func (c *ChangeDraftShippingCommand) setDraftCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return errs.NewValueIsRequiredError("draftCode")
	}
	c.draftCode = strings.TrimSpace(code)
	return nil
}

func (c *ChangeDraftShippingCommand) setShopID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("shopId", err)
	}
	c.shopID = id
	return nil
}

func (c *ChangeDraftShippingCommand) setOptionCode(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return errs.NewValueIsRequiredError("optionCode")
	}
	c.optionCode = code
	return nil
}

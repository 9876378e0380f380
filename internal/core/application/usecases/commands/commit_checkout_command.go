package commands

import (
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrCommitCheckoutCommandIsNotConstructed = errors.New(
	"CommitCheckoutCommand must be created via NewCommitCheckoutCommand constructor",
)

// CommitCheckoutCommand represents a request to turn an Open draft into orders.
//
// Example:
//
//	cmd, err := NewCommitCheckoutCommand(buyerID, "CK260117K3JXQ7AB", "COD")
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
//	fmt.Printf("group %s: %d orders", result.GroupCode, len(result.Orders))
type CommitCheckoutCommand struct { //nolint:recvcheck //using for validation
	buyerID       kernel.UUID
	draftCode     string
	paymentMethod order.PaymentMethod

	guard guard.ConstructorGuard
}

func NewCommitCheckoutCommand(buyerID kernel.UUID, draftCode, paymentMethod string) (CommitCheckoutCommand, error) {
	cmd := CommitCheckoutCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setBuyerID(buyerID),
		cmd.setDraftCode(draftCode),
		cmd.setPaymentMethod(paymentMethod),
	); err != nil {
		return CommitCheckoutCommand{}, err
	}

	return cmd, nil
}

func (c CommitCheckoutCommand) Validate() error {
	return c.guard.Validate(ErrCommitCheckoutCommandIsNotConstructed)
}

func (c CommitCheckoutCommand) BuyerID() kernel.UUID               { return c.buyerID }
func (c CommitCheckoutCommand) DraftCode() string                  { return c.draftCode }
func (c CommitCheckoutCommand) PaymentMethod() order.PaymentMethod { return c.paymentMethod }

func (c *CommitCheckoutCommand) setBuyerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("buyerId", err)
	}
	c.buyerID = id
	return nil
}

func (c *CommitCheckoutCommand) setDraftCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return errs.NewValueIsRequiredError("draftCode")
	}
	c.draftCode = strings.TrimSpace(code)
	return nil
}

func (c *CommitCheckoutCommand) setPaymentMethod(method string) error {
	m, ok := order.ParsePaymentMethod(strings.ToUpper(strings.TrimSpace(method)))
	if !ok {
		return errs.NewValueIsInvalidErrorWithCause("paymentMethod",
			fmt.Errorf("%q is not COD, CARD, WALLET or BANK_TRANSFER", method))
	}
	c.paymentMethod = m
	return nil
}

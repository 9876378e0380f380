package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrChangeDraftVoucherCommandIsNotConstructed = errors.New(
	"ChangeDraftVoucherCommand must be created via NewChangeDraftVoucherCommand constructor",
)

// ChangeDraftVoucherCommand selects or removes a voucher of a draft. A nil ShopID targets
// the platform voucher; an empty code removes the selection.
type ChangeDraftVoucherCommand struct { //nolint:recvcheck //using for validation
	buyerID     kernel.UUID
	draftCode   string
	shopID      *kernel.UUID
	voucherCode string

	guard guard.ConstructorGuard
}

// NewChangeDraftVoucherCommand builds a platform voucher change when shopID is nil,
// otherwise a change of that shop's voucher.
func NewChangeDraftVoucherCommand(
	buyerID kernel.UUID, draftCode string, shopID *kernel.UUID, voucherCode string,
) (ChangeDraftVoucherCommand, error) {
	cmd := ChangeDraftVoucherCommand{
		guard:       guard.NewConstructorGuard(),
		voucherCode: services.NormalizeCode(voucherCode),
	}

	var shopErr error
	if shopID != nil {
		if err := shopID.Validate(); err != nil {
			shopErr = errs.NewValueIsRequiredErrorWithCause("shopId", err)
		} else {
			id := *shopID
			cmd.shopID = &id
		}
	}

	if err := errors.Join(
		cmd.setBuyerID(buyerID),
		cmd.setDraftCode(draftCode),
		shopErr,
	); err != nil {
		return ChangeDraftVoucherCommand{}, err
	}

	return cmd, nil
}

func (c ChangeDraftVoucherCommand) Validate() error {
	return c.guard.Validate(ErrChangeDraftVoucherCommandIsNotConstructed)
}

func (c ChangeDraftVoucherCommand) BuyerID() kernel.UUID  { return c.buyerID }
func (c ChangeDraftVoucherCommand) DraftCode() string     { return c.draftCode }
func (c ChangeDraftVoucherCommand) ShopID() *kernel.UUID  { return c.shopID }
func (c ChangeDraftVoucherCommand) VoucherCode() string   { return c.voucherCode }
func (c ChangeDraftVoucherCommand) TargetsPlatform() bool { return c.shopID == nil }

func (c *ChangeDraftVoucherCommand) setBuyerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("buyerId", err)
	}
	c.buyerID = id
	return nil
}

func (c *ChangeDraftVoucherCommand) setDraftCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return errs.NewValueIsRequiredError("draftCode")
	}
	c.draftCode = strings.TrimSpace(code)
	return nil
}

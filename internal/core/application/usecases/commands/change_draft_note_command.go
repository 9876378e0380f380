package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrChangeDraftNoteCommandIsNotConstructed = errors.New(
	"ChangeDraftNoteCommand must be created via NewChangeDraftNoteCommand constructor",
)

// ChangeDraftNoteCommand replaces the buyer's note on a draft.
type ChangeDraftNoteCommand struct { //nolint:recvcheck //using for validation
	buyerID   kernel.UUID
	draftCode string
	note      string

	guard guard.ConstructorGuard
}

func NewChangeDraftNoteCommand(buyerID kernel.UUID, draftCode, note string) (ChangeDraftNoteCommand, error) {
	cmd := ChangeDraftNoteCommand{
		guard: guard.NewConstructorGuard(),
		note:  strings.TrimSpace(note),
	}

	var err error
	if buyerID.Validate() != nil {
		err = errors.Join(err, errs.NewValueIsRequiredError("buyerId"))
	}
	if strings.TrimSpace(draftCode) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("draftCode"))
	}
	if len([]rune(cmd.note)) > checkout.MaxNoteLength {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("note length", len([]rune(cmd.note)), 0, checkout.MaxNoteLength))
	}
	if err != nil {
		return ChangeDraftNoteCommand{}, err
	}

	cmd.buyerID = buyerID
	cmd.draftCode = strings.TrimSpace(draftCode)
	return cmd, nil
}

func (c ChangeDraftNoteCommand) Validate() error {
	return c.guard.Validate(ErrChangeDraftNoteCommandIsNotConstructed)
}

func (c ChangeDraftNoteCommand) BuyerID() kernel.UUID { return c.buyerID }
func (c ChangeDraftNoteCommand) DraftCode() string    { return c.draftCode }
func (c ChangeDraftNoteCommand) Note() string         { return c.note }

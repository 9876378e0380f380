package commands

import (
	"context"

	"marketplace/internal/core/domain/model/checkout"
)

// ChangeDraftNoteCommandHandler replaces the note of an Open draft. Money is untouched.
type ChangeDraftNoteCommandHandler struct {
	uowFactory DraftUoWFactory
	now        Clock
}

func NewChangeDraftNoteCommandHandler(uowFactory DraftUoWFactory, now Clock) ChangeDraftNoteCommandHandler {
	return ChangeDraftNoteCommandHandler{uowFactory: uowFactory, now: now}
}

func (h *ChangeDraftNoteCommandHandler) Handle(ctx context.Context, cmd ChangeDraftNoteCommand) (*checkout.Draft, error) {
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

	draft, err := loadMutableDraft(ctx, uow, cmd.DraftCode(), cmd.BuyerID(), now)
	if err != nil {
		return nil, err
	}

	if err = draft.ChangeNote(cmd.Note(), now); err != nil {
		return nil, err
	}

	if err = uow.DraftRepository().Update(ctx, draft); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return draft, nil
}

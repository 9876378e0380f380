package ports

import (
	"context"

	"marketplace/internal/core/domain/model/checkout"
)

// DraftRepository persists checkout drafts.
type DraftRepository interface {
	// Add persists a new draft.
	Add(ctx context.Context, draft *checkout.Draft) error

	// Update persists a changed draft, only if the stored one is still Open at the version
	// the draft was read with; it then advances the stored version. A stale draft is a
	// ResourceConflictError.
	Update(ctx context.Context, draft *checkout.Draft) error

	// GetByCode returns the draft with code, or an ObjectNotFoundError.
	GetByCode(ctx context.Context, code string) (*checkout.Draft, error)
}

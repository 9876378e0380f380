package commands

import (
	"context"

	"marketplace/internal/core/ports"
)

// PurgeIdempotencyRecordsCommandHandler deletes records whose TTL has passed, so their keys
// may be used again.
type PurgeIdempotencyRecordsCommandHandler struct {
	store ports.IdempotencyStore
	now   Clock
}

func NewPurgeIdempotencyRecordsCommandHandler(store ports.IdempotencyStore, now Clock) PurgeIdempotencyRecordsCommandHandler {
	return PurgeIdempotencyRecordsCommandHandler{store: store, now: now}
}

// Handle returns how many records were deleted.
func (h *PurgeIdempotencyRecordsCommandHandler) Handle(ctx context.Context, cmd PurgeIdempotencyRecordsCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	return h.store.PurgeExpired(ctx, h.now())
}

package commands

import (
	"errors"

	"marketplace/internal/pkg/guard"
)

var ErrPurgeIdempotencyRecordsCommandIsNotConstructed = errors.New(
	"PurgeIdempotencyRecordsCommand must be created via NewPurgeIdempotencyRecordsCommand constructor",
)

// PurgeIdempotencyRecordsCommand triggers deletion of expired idempotency records.
// This is a parameterless command.
type PurgeIdempotencyRecordsCommand struct {
	guard guard.ConstructorGuard
}

func NewPurgeIdempotencyRecordsCommand() PurgeIdempotencyRecordsCommand {
	return PurgeIdempotencyRecordsCommand{guard: guard.NewConstructorGuard()}
}

func (c PurgeIdempotencyRecordsCommand) Validate() error {
	return c.guard.Validate(ErrPurgeIdempotencyRecordsCommandIsNotConstructed)
}

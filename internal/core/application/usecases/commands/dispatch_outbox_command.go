package commands

import (
	"errors"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrDispatchOutboxCommandIsNotConstructed = errors.New(
	"DispatchOutboxCommand must be created via NewDispatchOutboxCommand constructor",
)

// DefaultOutboxBatchSize is how many pending notifications one run delivers at most.
const DefaultOutboxBatchSize = 100

// DispatchOutboxCommand triggers delivery of pending notifications.
//
// Example:
//
//	cmd, _ := NewDispatchOutboxCommand(100)
//	handler := NewDispatchOutboxCommandHandler(uowFactory, sink, time.Now)
//
//	// Run periodically; undelivered events are retried on the next run
//	result, err := handler.Handle(ctx, cmd)
type DispatchOutboxCommand struct {
	batchSize int

	guard guard.ConstructorGuard
}

func NewDispatchOutboxCommand(batchSize int) (DispatchOutboxCommand, error) {
	if batchSize <= 0 {
		return DispatchOutboxCommand{}, errs.NewValueIsOutOfRangeError("batchSize", batchSize, 1, "unbounded")
	}
	return DispatchOutboxCommand{
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c DispatchOutboxCommand) Validate() error {
	return c.guard.Validate(ErrDispatchOutboxCommandIsNotConstructed)
}

func (c DispatchOutboxCommand) BatchSize() int {
	return c.batchSize
}

package commands

import (
	"context"

	"marketplace/internal/core/ports"
)

// DispatchResult counts the outcome of one dispatch run.
type DispatchResult struct {
	Delivered int
	Failed    int
}

// DispatchOutboxCommandHandler hands pending outbox notifications to the sink.
// Delivery is at least once: an event whose delivery succeeded but could not be marked
// dispatched is delivered again on the next run.
type DispatchOutboxCommandHandler struct {
	uowFactory OutboxUoWFactory
	sink       ports.NotificationSink
	now        Clock
}

func NewDispatchOutboxCommandHandler(
	uowFactory OutboxUoWFactory, sink ports.NotificationSink, now Clock,
) DispatchOutboxCommandHandler {
	return DispatchOutboxCommandHandler{
		uowFactory: uowFactory,
		sink:       sink,
		now:        now,
	}
}

// Handle delivers up to the command's batch size of pending events, oldest first.
// A failed delivery is counted on the event and does not stop the run.
func (h *DispatchOutboxCommandHandler) Handle(ctx context.Context, cmd DispatchOutboxCommand) (DispatchResult, error) {
	if err := cmd.Validate(); err != nil {
		return DispatchResult{}, err
	}

	outbox := h.uowFactory.Create().OutboxRepository()
	pending, err := outbox.FetchPending(ctx, cmd.BatchSize())
	if err != nil {
		return DispatchResult{}, err
	}

	var result DispatchResult
	for _, event := range pending {
		if err := h.sink.Deliver(ctx, event); err != nil {
			result.Failed++
			if err := outbox.RecordFailure(ctx, event.ID, err.Error()); err != nil {
				return result, err
			}
			continue
		}

		if err := outbox.MarkDispatched(ctx, event.ID, h.now()); err != nil {
			return result, err
		}
		result.Delivered++
	}

	return result, nil
}

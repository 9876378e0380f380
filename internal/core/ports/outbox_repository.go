package ports

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
)

// OutboxRepository stores notifications with the transaction that caused them.
type OutboxRepository interface {
	// Add records events for later delivery.
	Add(ctx context.Context, events ...notification.Event) error

	// FetchPending returns up to limit undelivered events, oldest first.
	FetchPending(ctx context.Context, limit int) ([]notification.Event, error)

	// MarkDispatched records that a sink accepted the event.
	MarkDispatched(ctx context.Context, id kernel.UUID, at time.Time) error

	// RecordFailure counts a failed delivery attempt.
	RecordFailure(ctx context.Context, id kernel.UUID, reason string) error
}

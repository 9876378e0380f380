// Package logsink delivers notifications to the structured log. It stands in for the
// Kafka sink when no brokers are configured.
package logsink

import (
	"context"
	"log/slog"

	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/ports"
)

var _ ports.NotificationSink = &NotificationSink{}

type NotificationSink struct {
	logger *slog.Logger
}

func NewNotificationSink(logger *slog.Logger) *NotificationSink {
	return &NotificationSink{logger: logger.With("component", "notification_sink")}
}

// Deliver logs the envelope of event. It never fails.
func (s *NotificationSink) Deliver(ctx context.Context, event notification.Event) error {
	envelope := event.Envelope()
	s.logger.InfoContext(ctx, "notification",
		"event_id", envelope.EventID,
		"recipient_id", envelope.RecipientID,
		"type", envelope.Type,
		"created_at", envelope.CreatedAt,
		"payload", string(envelope.Payload),
	)
	return nil
}

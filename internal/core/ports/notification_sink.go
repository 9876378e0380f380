package ports

import (
	"context"

	"marketplace/internal/core/domain/model/notification"
)

// NotificationSink delivers one event to its recipient. Delivery is at least once:
// an event may be delivered again after a failure to record it as dispatched.
type NotificationSink interface {
	Deliver(ctx context.Context, event notification.Event) error
}

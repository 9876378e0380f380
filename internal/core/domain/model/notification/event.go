package notification

import (
	"encoding/json"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// Event types.
const (
	TypeCheckoutCompleted  = "checkout.completed"
	TypeOrderReceived      = "order.received"
	TypeOrderStatusChanged = "order.status_changed"
	TypeRefundIssued       = "refund.issued"
	TypeRefundFailed       = "refund.failed"
)

// Event is one notification for one user, stored with the transaction that caused it.
type Event struct {
	ID           kernel.UUID
	RecipientID  kernel.UUID
	Type         string
	Payload      json.RawMessage
	CreatedAt    time.Time
	DispatchedAt *time.Time
	Attempts     int
	LastError    string
}

// Envelope is the wire form handed to a sink.
type Envelope struct {
	EventID     string          `json:"event_id"`
	RecipientID string          `json:"recipient_id"`
	Type        string          `json:"type"`
	CreatedAt   time.Time       `json:"created_at"`
	Payload     json.RawMessage `json:"payload"`
}

// NewEvent encodes payload for recipient.
func NewEvent(recipientID kernel.UUID, eventType string, payload any, now time.Time) (Event, error) {
	if err := recipientID.Validate(); err != nil {
		return Event{}, errs.NewValueIsRequiredErrorWithCause("notification.recipientId", err)
	}
	if eventType == "" {
		return Event{}, errs.NewValueIsRequiredError("notification.type")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, errors.Join(errs.NewValueIsInvalidError("notification.payload"), err)
	}
	return Event{
		ID:          kernel.NewUUID(),
		RecipientID: recipientID,
		Type:        eventType,
		Payload:     data,
		CreatedAt:   now,
	}, nil
}

// Envelope returns the wire form of e.
func (e Event) Envelope() Envelope {
	return Envelope{
		EventID:     e.ID.String(),
		RecipientID: e.RecipientID.String(),
		Type:        e.Type,
		CreatedAt:   e.CreatedAt,
		Payload:     e.Payload,
	}
}

// IsDispatched reports whether a sink accepted the event.
func (e Event) IsDispatched() bool {
	return e.DispatchedAt != nil
}

// CheckoutCompleted is the buyer's notification of a commit.
type CheckoutCompleted struct {
	GroupCode  string   `json:"groupCode"`
	OrderCodes []string `json:"orderCodes"`
	Total      int64    `json:"total"`
}

// OrderReceived is a seller's notification of a new order.
type OrderReceived struct {
	OrderCode string `json:"orderCode"`
	GroupCode string `json:"groupCode"`
	ShopID    string `json:"shopId"`
	Total     int64  `json:"total"`
}

// OrderStatusChanged tells the other party of an order that its status moved.
type OrderStatusChanged struct {
	OrderCode string `json:"orderCode"`
	Action    string `json:"action"`
	From      string `json:"from"`
	To        string `json:"to"`
}

// RefundOutcome reports a refund attempt to the buyer.
type RefundOutcome struct {
	OrderCode string `json:"orderCode"`
	Amount    int64  `json:"amount"`
	Reference string `json:"reference,omitempty"`
	Reason    string `json:"reason"`
}

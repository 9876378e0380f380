package order

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// Item is a purchased line, priced at commit time.
type Item struct {
	ID          kernel.UUID
	SKUID       kernel.UUID
	SKUName     string
	ProductID   kernel.UUID
	ProductName string
	UnitPrice   int64
	CostPrice   int64
	Quantity    int
	WeightGrams int
	LineTotal   int64
}

// PaymentMethod is how the buyer pays.
type PaymentMethod string

const (
	PaymentCOD          PaymentMethod = "COD"
	PaymentCard         PaymentMethod = "CARD"
	PaymentWallet       PaymentMethod = "WALLET"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
)

// ParsePaymentMethod accepts the four payment methods.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch m := PaymentMethod(s); m {
	case PaymentCOD, PaymentCard, PaymentWallet, PaymentBankTransfer:
		return m, true
	default:
		return "", false
	}
}

// Prepaid reports whether the method is captured through the gateway at commit.
func (m PaymentMethod) Prepaid() bool {
	return m != PaymentCOD
}

// PaymentStatus is the money state of an order's payment.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "UNPAID"   // COD, not yet collected
	PaymentPending  PaymentStatus = "PENDING"  // prepaid, capture not succeeded yet
	PaymentCaptured PaymentStatus = "CAPTURED" // money held by the platform
	PaymentRefunded PaymentStatus = "REFUNDED" // fully refunded
)

// Payment is the single payment record of an order.
type Payment struct {
	Method     PaymentMethod `json:"method"`
	Status     PaymentStatus `json:"status"`
	Amount     int64         `json:"amount"`
	Refunded   int64         `json:"refunded"`
	Reference  string        `json:"reference,omitempty"`
	CapturedAt *time.Time    `json:"capturedAt,omitempty"`
}

// Refundable is what is left to refund of the captured amount.
func (p Payment) Refundable() int64 {
	if p.Status != PaymentCaptured {
		return 0
	}
	return max(0, p.Amount-p.Refunded)
}

// RefundStatus is the outcome of a refund attempt.
type RefundStatus string

const (
	RefundSucceeded RefundStatus = "SUCCEEDED"
	RefundFailed    RefundStatus = "FAILED"
)

// Refund records one money movement back to the buyer.
type Refund struct {
	ID        kernel.UUID  `json:"id"`
	Amount    int64        `json:"amount"`
	Status    RefundStatus `json:"status"`
	Reason    string       `json:"reason"`
	Reference string       `json:"reference,omitempty"`
	Manual    bool         `json:"manual,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

// RequestStatus is the state of a buyer request awaiting a decision.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
	RequestDone     RequestStatus = "DONE"
)

// CancelRequest is a buyer's cancellation after confirmation.
type CancelRequest struct {
	Reason      string        `json:"reason"`
	Status      RequestStatus `json:"status"`
	PrevStatus  Status        `json:"prevStatus"`
	Decision    string        `json:"decision,omitempty"`
	RequestedAt time.Time     `json:"requestedAt"`
	DecidedAt   *time.Time    `json:"decidedAt,omitempty"`
}

// ReturnRequest is a buyer's request to send goods back for a refund.
type ReturnRequest struct {
	Reason         string        `json:"reason"`
	Evidence       []string      `json:"evidence,omitempty"`
	Status         RequestStatus `json:"status"`
	RestockingFee  int64         `json:"restockingFee"`
	RefundAmount   *int64        `json:"refundAmount,omitempty"`
	Decision       string        `json:"decision,omitempty"`
	Carrier        string        `json:"carrier,omitempty"`
	TrackingNumber string        `json:"trackingNumber,omitempty"`
	RequestedAt    time.Time     `json:"requestedAt"`
	DecidedAt      *time.Time    `json:"decidedAt,omitempty"`
	ShippedBackAt  *time.Time    `json:"shippedBackAt,omitempty"`
	ReceivedAt     *time.Time    `json:"receivedAt,omitempty"`
}

// RefundRequest is a buyer's refund-only request, without a physical return.
type RefundRequest struct {
	Reason      string        `json:"reason"`
	Amount      int64         `json:"amount"`
	Status      RequestStatus `json:"status"`
	PrevStatus  Status        `json:"prevStatus"`
	Decision    string        `json:"decision,omitempty"`
	RequestedAt time.Time     `json:"requestedAt"`
	DecidedAt   *time.Time    `json:"decidedAt,omitempty"`
}

// DisputeStatus is the state of a dispute.
type DisputeStatus string

const (
	DisputeOpen      DisputeStatus = "OPEN"
	DisputeResponded DisputeStatus = "RESPONDED"
	DisputeResolved  DisputeStatus = "RESOLVED"
	DisputeRejected  DisputeStatus = "REJECTED"
)

// Finalized reports whether an admin has ruled on the dispute.
func (s DisputeStatus) Finalized() bool {
	return s == DisputeResolved || s == DisputeRejected
}

// MaxDisputeRevisions is how many times a finalized dispute may be ruled on again.
const MaxDisputeRevisions = 1

// Dispute is a buyer's complaint escalated to an admin.
type Dispute struct {
	Reason            string        `json:"reason"`
	Evidence          []string      `json:"evidence,omitempty"`
	Status            DisputeStatus `json:"status"`
	PrevStatus        Status        `json:"prevStatus"`
	SellerResponse    string        `json:"sellerResponse,omitempty"`
	Resolution        string        `json:"resolution,omitempty"`
	RefundAmount      int64         `json:"refundAmount,omitempty"`
	RevisionRequested bool          `json:"revisionRequested,omitempty"`
	RevisionReason    string        `json:"revisionReason,omitempty"`
	RevisionCount     int           `json:"revisionCount"`
	OpenedAt          time.Time     `json:"openedAt"`
	RespondedAt       *time.Time    `json:"respondedAt,omitempty"`
	ResolvedAt        *time.Time    `json:"resolvedAt,omitempty"`
}

// CarrierDelivered is the carrier status that moves a shipped order to delivered.
const CarrierDelivered = "DELIVERED"

// Shipment is the outbound parcel of an order.
type Shipment struct {
	Carrier        string          `json:"carrier"`
	TrackingNumber string          `json:"trackingNumber"`
	Status         string          `json:"status"`
	Events         []ShipmentEvent `json:"events"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ShipmentEvent is one carrier status update.
type ShipmentEvent struct {
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// Effects are what a transition asks the caller to do outside the aggregate.
type Effects struct {
	// Restock returns every item's quantity to stock and takes it off the sold counter.
	Restock bool
	// Refund is the amount to send back through the payment gateway.
	Refund int64
	// RefundReason labels the refund record.
	RefundReason string
}

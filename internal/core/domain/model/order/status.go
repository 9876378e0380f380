package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota
	PendingPayment
	Placed
	Confirmed
	Packing
	Shipped
	Delivered
	Completed
	CancelRequested
	Cancelled
	ReturnRequested
	ReturnApproved
	ReturnRejected
	ReturnReceived
	RefundRequested
	Refunded
	Disputed
)

var statusStrings = map[Status]string{
	PendingPayment:  "PENDING_PAYMENT",
	Placed:          "PLACED",
	Confirmed:       "CONFIRMED",
	Packing:         "PACKING",
	Shipped:         "SHIPPED",
	Delivered:       "DELIVERED",
	Completed:       "COMPLETED",
	CancelRequested: "CANCEL_REQUESTED",
	Cancelled:       "CANCELLED",
	ReturnRequested: "RETURN_REQUESTED",
	ReturnApproved:  "RETURN_APPROVED",
	ReturnRejected:  "RETURN_REJECTED",
	ReturnReceived:  "RETURN_RECEIVED",
	RefundRequested: "REFUND_REQUESTED",
	Refunded:        "REFUNDED",
	Disputed:        "DISPUTED",
}

// Statuses lists every valid status in declaration order.
func Statuses() []Status {
	out := make([]Status, 0, len(statusStrings))
	for s := PendingPayment; s <= Disputed; s++ {
		out = append(out, s)
	}
	return out
}

// String returns the persisted name of the status, or "UNKNOWN".
func (s Status) String() string {
	if str, ok := statusStrings[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if _, ok := statusStrings[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// ParseStatus is the inverse of String.
func ParseStatus(str string) (Status, error) {
	for s, name := range statusStrings {
		if name == str {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", str))
}

// CancelBlocked reports whether s rejects cancellation by either side. Past these
// states only the return, refund and dispute flows apply. The cancel rules are built
// from it.
func (s Status) CancelBlocked() bool {
	switch s {
	case Shipped, Delivered, Completed, Cancelled, CancelRequested,
		ReturnRequested, ReturnApproved, ReturnRejected, ReturnReceived,
		RefundRequested, Refunded, Disputed:
		return true
	default:
		return false
	}
}

// CountsAsSpend reports whether an order in s counts toward a buyer's loyalty spend.
func (s Status) CountsAsSpend() bool {
	switch s {
	case PendingPayment, Cancelled, Refunded:
		return false
	default:
		return s.Validate() == nil
	}
}

// MarshalText encodes the status by its persisted name.
func (s Status) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func cancellable() []Status {
	out := make([]Status, 0)
	for _, s := range Statuses() {
		if !s.CancelBlocked() {
			out = append(out, s)
		}
	}
	return out
}

package ports

import (
	"context"

	"marketplace/internal/core/domain/model/order"
)

// PaymentRequest asks the gateway to move Amount for one order.
type PaymentRequest struct {
	OrderCode string
	Method    order.PaymentMethod
	Amount    int64
	Currency  string
	Reference string // the capture being refunded, for refunds
}

// PaymentResult is the gateway's answer. A declined payment is OK=false without an error;
// an error means the gateway could not be reached.
type PaymentResult struct {
	OK        bool
	Reference string
}

// PaymentGateway captures and refunds payments.
type PaymentGateway interface {
	Capture(ctx context.Context, req PaymentRequest) (PaymentResult, error)
	Refund(ctx context.Context, req PaymentRequest) (PaymentResult, error)
}

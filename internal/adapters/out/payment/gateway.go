// Package payment provides the mock payment gateway the service runs with until a real
// provider is integrated. It approves every capture up to a configurable limit and
// every refund that does not exceed what was captured under its reference.
package payment

import (
	"context"
	"strings"
	"sync"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

var _ ports.PaymentGateway = &MockGateway{}

// MockGateway is an in-process PaymentGateway.
type MockGateway struct {
	mu           sync.Mutex
	captureLimit int64
	captured     map[string]int64
}

// NewMockGateway creates a gateway that declines captures above captureLimit.
// A zero limit approves any amount.
func NewMockGateway(captureLimit int64) *MockGateway {
	return &MockGateway{
		captureLimit: captureLimit,
		captured:     make(map[string]int64),
	}
}

// Capture takes req.Amount from the buyer.
func (g *MockGateway) Capture(_ context.Context, req ports.PaymentRequest) (ports.PaymentResult, error) {
	if err := validate(req); err != nil {
		return ports.PaymentResult{}, err
	}
	if g.captureLimit > 0 && req.Amount > g.captureLimit {
		return ports.PaymentResult{OK: false}, nil
	}

	ref := reference("PAY")
	g.mu.Lock()
	g.captured[ref] = req.Amount
	g.mu.Unlock()
	return ports.PaymentResult{OK: true, Reference: ref}, nil
}

// Refund gives req.Amount back. A refund against a capture of this gateway is declined
// when it exceeds what is left of the capture; other references, COD orders included,
// are paid out as asked.
func (g *MockGateway) Refund(_ context.Context, req ports.PaymentRequest) (ports.PaymentResult, error) {
	if err := validate(req); err != nil {
		return ports.PaymentResult{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if left, ok := g.captured[req.Reference]; ok {
		if req.Amount > left {
			return ports.PaymentResult{OK: false}, nil
		}
		g.captured[req.Reference] = left - req.Amount
	}
	return ports.PaymentResult{OK: true, Reference: reference("RF")}, nil
}

// Captured returns what is left of the capture ref.
func (g *MockGateway) Captured(ref string) (int64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	left, ok := g.captured[ref]
	return left, ok
}

func validate(req ports.PaymentRequest) error {
	if req.OrderCode == "" {
		return errs.NewValueIsRequiredError("payment.orderCode")
	}
	if req.Amount <= 0 {
		return errs.NewValueIsOutOfRangeError("payment.amount", req.Amount, 1, "unbounded")
	}
	return nil
}

func reference(prefix string) string {
	id := strings.ReplaceAll(kernel.NewUUID().String(), "-", "")
	return prefix + "-" + strings.ToUpper(id[:16])
}

package queries_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"marketplace/internal/adapters/out/memory"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 20, 14, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

type draftFactory struct{ store *memory.Store }

func (f draftFactory) Create() commands.DraftUoW { return f.store.Create() }

type checkoutFactory struct{ store *memory.Store }

func (f checkoutFactory) Create() commands.CheckoutUoW { return f.store.Create() }

type orderFactory struct{ store *memory.Store }

func (f orderFactory) Create() commands.OrderUoW { return f.store.Create() }

// unpaidGateway fails every call; COD orders never reach it.
type unpaidGateway struct{}

func (unpaidGateway) Capture(_ context.Context, _ ports.PaymentRequest) (ports.PaymentResult, error) {
	return ports.PaymentResult{}, errors.New("gateway not configured")
}

func (unpaidGateway) Refund(_ context.Context, _ ports.PaymentRequest) (ports.PaymentResult, error) {
	return ports.PaymentResult{}, errors.New("gateway not configured")
}

type shop struct {
	memory.Shop
	mug kernel.UUID
}

func (s shop) seller() order.Actor {
	shopID := s.ID
	return order.Actor{UserID: s.SellerID, Role: order.RoleSeller, ShopID: &shopID}
}

// market has two shops selling one 100,000 item each.
type market struct {
	store *memory.Store
	buyer kernel.UUID
	a, b  shop
}

func newMarket(t *testing.T) *market {
	t.Helper()
	m := &market{
		store: memory.NewStore(),
		buyer: kernel.NewUUID(),
		a:     shop{Shop: memory.NewShop("Shop A")},
		b:     shop{Shop: memory.NewShop("Shop B")},
	}
	mugA, mugB := m.a.Listing("Mug", 100000, 10), m.b.Listing("Teapot", 100000, 10)
	m.store.AddListing(mugA, mugB)
	m.a.mug, m.b.mug = mugA.SKUID, mugB.SKUID
	return m
}

func (m *market) buyerActor() order.Actor {
	return order.Actor{UserID: m.buyer, Role: order.RoleBuyer}
}

func (m *market) lines() []checkout.Line {
	return []checkout.Line{{SKUID: m.a.mug, Quantity: 1}, {SKUID: m.b.mug, Quantity: 2}}
}

func (m *market) createDraft(t *testing.T) *checkout.Draft {
	t.Helper()
	address := memory.Address()
	cmd, err := commands.NewCreateDraftCommand(m.buyer, commands.CheckoutInput{Items: m.lines(), Address: &address})
	require.NoError(t, err)

	h := commands.NewCreateDraftCommandHandler(draftFactory{m.store}, "VND", checkout.DefaultTTL, clock)
	draft, err := h.Handle(t.Context(), cmd)
	require.NoError(t, err)
	return draft
}

func (m *market) checkout(t *testing.T) commands.CommitResult {
	t.Helper()
	draft := m.createDraft(t)
	cmd, err := commands.NewCommitCheckoutCommand(m.buyer, draft.Code(), string(order.PaymentCOD))
	require.NoError(t, err)

	h := commands.NewCommitCheckoutCommandHandler(checkoutFactory{m.store}, unpaidGateway{}, clock, slog.New(slog.DiscardHandler))
	result, err := h.Handle(t.Context(), cmd)
	require.NoError(t, err)
	return result
}

func (m *market) act(t *testing.T, actor order.Actor, code string, action order.Action) {
	t.Helper()
	cmd, err := commands.NewOrderActionCommand(actor, code, string(action), commands.ActionParams{})
	require.NoError(t, err)
	h := commands.NewOrderActionCommandHandler(orderFactory{m.store}, unpaidGateway{}, 15*24*time.Hour, clock, slog.New(slog.DiscardHandler))
	_, err = h.Handle(t.Context(), cmd)
	require.NoError(t, err)
}

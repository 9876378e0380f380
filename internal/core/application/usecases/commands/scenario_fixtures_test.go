package commands_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"marketplace/internal/adapters/out/memory"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"

	"github.com/stretchr/testify/mock"
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

type outboxFactory struct{ store *memory.Store }

func (f outboxFactory) Create() commands.OutboxUoW { return f.store.Create() }

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) Capture(ctx context.Context, req ports.PaymentRequest) (ports.PaymentResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.PaymentResult), args.Error(1)
}

func (m *MockPaymentGateway) Refund(ctx context.Context, req ports.PaymentRequest) (ports.PaymentResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.PaymentResult), args.Error(1)
}

// marketplace is a store seeded with two shops: A sells mugs at 100,000 and 200,000,
// B a teapot at 100,000, ten of each.
type marketplace struct {
	store   *memory.Store
	gateway *MockPaymentGateway
	buyer   kernel.UUID
	shopA   memory.Shop
	shopB   memory.Shop
	small   checkoutItem
	large   checkoutItem
	teapot  checkoutItem
}

type checkoutItem struct {
	SKUID     kernel.UUID
	ProductID kernel.UUID
}

func newMarketplace(t *testing.T) *marketplace {
	t.Helper()
	m := &marketplace{
		store:   memory.NewStore(),
		gateway: new(MockPaymentGateway),
		buyer:   kernel.NewUUID(),
		shopA:   memory.NewShop("Shop A"),
		shopB:   memory.NewShop("Shop B"),
	}
	small, large := m.shopA.Listing("Small mug", 100000, 10), m.shopA.Listing("Large mug", 200000, 10)
	teapot := m.shopB.Listing("Teapot", 100000, 10)
	m.store.AddListing(small, large, teapot)
	m.small = checkoutItem{SKUID: small.SKUID, ProductID: small.ProductID}
	m.large = checkoutItem{SKUID: large.SKUID, ProductID: large.ProductID}
	m.teapot = checkoutItem{SKUID: teapot.SKUID, ProductID: teapot.ProductID}
	return m
}

// basket is the two-shop checkout: both mugs from A and the teapot from B.
func (m *marketplace) basket() []checkout.Line {
	return []checkout.Line{
		{SKUID: m.small.SKUID, Quantity: 1},
		{SKUID: m.large.SKUID, Quantity: 1},
		{SKUID: m.teapot.SKUID, Quantity: 1},
	}
}

func (m *marketplace) createDraft(t *testing.T, buyer kernel.UUID, input commands.CheckoutInput) *checkout.Draft {
	t.Helper()
	if input.Address == nil && input.AddressID == nil {
		address := memory.Address()
		input.Address = &address
	}
	cmd, err := commands.NewCreateDraftCommand(buyer, input)
	require.NoError(t, err)

	h := commands.NewCreateDraftCommandHandler(draftFactory{m.store}, "VND", checkout.DefaultTTL, clock)
	draft, err := h.Handle(t.Context(), cmd)
	require.NoError(t, err)
	return draft
}

func (m *marketplace) committer() commands.CommitCheckoutCommandHandler {
	return commands.NewCommitCheckoutCommandHandler(checkoutFactory{m.store}, m.gateway, clock, slog.New(slog.DiscardHandler))
}

func (m *marketplace) commit(ctx context.Context, buyer kernel.UUID, draftCode string, method order.PaymentMethod) (commands.CommitResult, error) {
	cmd, err := commands.NewCommitCheckoutCommand(buyer, draftCode, string(method))
	if err != nil {
		return commands.CommitResult{}, err
	}
	h := m.committer()
	return h.Handle(ctx, cmd)
}

func (m *marketplace) actions(disputeWindow time.Duration) commands.OrderActionCommandHandler {
	return commands.NewOrderActionCommandHandler(orderFactory{m.store}, m.gateway, disputeWindow, clock, slog.New(slog.DiscardHandler))
}

func (m *marketplace) buyerActor() order.Actor {
	return order.Actor{UserID: m.buyer, Role: order.RoleBuyer}
}

func sellerOf(shop memory.Shop) order.Actor {
	shopID := shop.ID
	return order.Actor{UserID: shop.SellerID, Role: order.RoleSeller, ShopID: &shopID}
}

func adminActor() order.Actor {
	return order.Actor{UserID: kernel.NewUUID(), Role: order.RoleAdmin}
}

func (m *marketplace) order(t *testing.T, code string) *order.Order {
	t.Helper()
	o, err := m.store.Create().OrderRepository().GetByCode(t.Context(), code)
	require.NoError(t, err)
	return o
}

func (m *marketplace) draft(t *testing.T, code string) *checkout.Draft {
	t.Helper()
	d, err := m.store.Create().DraftRepository().GetByCode(t.Context(), code)
	require.NoError(t, err)
	return d
}

func (m *marketplace) addressInput() *kernel.Address {
	address := memory.Address()
	return &address
}

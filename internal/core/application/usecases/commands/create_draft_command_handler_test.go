package commands_test

import (
	"context"
	"errors"
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDraftUoW fails every repository access; tests using it stop before reaching one.
type MockDraftUoW struct{ mock.Mock }

func (m *MockDraftUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockDraftUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockDraftUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockDraftUoW) CatalogRepository() ports.CatalogRepository {
	return m.Called().Get(0).(ports.CatalogRepository)
}
func (m *MockDraftUoW) ShippingMethodRepository() ports.ShippingMethodRepository {
	return m.Called().Get(0).(ports.ShippingMethodRepository)
}
func (m *MockDraftUoW) VoucherRepository() ports.VoucherRepository {
	return m.Called().Get(0).(ports.VoucherRepository)
}
func (m *MockDraftUoW) AddressRepository() ports.AddressRepository {
	return m.Called().Get(0).(ports.AddressRepository)
}
func (m *MockDraftUoW) CartRepository() ports.CartRepository {
	return m.Called().Get(0).(ports.CartRepository)
}
func (m *MockDraftUoW) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}
func (m *MockDraftUoW) DraftRepository() ports.DraftRepository {
	return m.Called().Get(0).(ports.DraftRepository)
}

type MockDraftUoWFactory struct{ mock.Mock }

func (m *MockDraftUoWFactory) Create() commands.DraftUoW {
	args := m.Called()
	return args.Get(0).(commands.DraftUoW)
}

func TestCreateDraftCommandHandler_Handle_Success(t *testing.T) {
	m := newMarketplace(t)

	draft := m.createDraft(t, m.buyer, commands.CheckoutInput{Items: m.basket(), Note: "  leave at the door "})

	assert.Equal(t, checkout.Open, draft.Status())
	assert.Equal(t, now.Add(checkout.DefaultTTL), draft.ExpiresAt())
	assert.Equal(t, "VND", draft.Currency())
	assert.Equal(t, "leave at the door", draft.Note())
	assert.Len(t, draft.Groups(), 2)
	assert.Equal(t, int64(460000), draft.Totals().Total)

	stored := m.draft(t, draft.Code())
	assert.Equal(t, draft.Totals(), stored.Totals())
	assert.Equal(t, 10, m.store.Stock(m.small.SKUID), "drafts do not reserve stock")
}

func TestCreateDraftCommandHandler_Handle_FromCart(t *testing.T) {
	m := newMarketplace(t)
	m.store.SetCart(m.buyer, checkout.Line{SKUID: m.teapot.SKUID, Quantity: 3})

	draft := m.createDraft(t, m.buyer, commands.CheckoutInput{})

	require.Len(t, draft.Groups(), 1)
	assert.Equal(t, int64(300000), draft.Totals().Subtotal)
}

func TestCreateDraftCommandHandler_Handle_QuoteErrors(t *testing.T) {
	m := newMarketplace(t)
	h := commands.NewCreateDraftCommandHandler(draftFactory{m.store}, "VND", checkout.DefaultTTL, clock)
	address := m.addressInput()

	t.Run("more than in stock", func(t *testing.T) {
		cmd, err := commands.NewCreateDraftCommand(m.buyer, commands.CheckoutInput{
			Items:   []checkout.Line{{SKUID: m.small.SKUID, Quantity: 11}},
			Address: address,
		})
		require.NoError(t, err)
		_, err = h.Handle(t.Context(), cmd)
		require.ErrorIs(t, err, errs.ErrOutOfStock)
	})

	t.Run("unknown sku", func(t *testing.T) {
		cmd, err := commands.NewCreateDraftCommand(m.buyer, commands.CheckoutInput{
			Items:   []checkout.Line{{SKUID: kernel.NewUUID(), Quantity: 1}},
			Address: address,
		})
		require.NoError(t, err)
		_, err = h.Handle(t.Context(), cmd)
		require.Error(t, err)
	})

	t.Run("unknown platform voucher fails loudly only on change", func(t *testing.T) {
		cmd, err := commands.NewCreateDraftCommand(m.buyer, commands.CheckoutInput{
			Items:       m.basket(),
			Address:     address,
			VoucherCode: "NOPE",
		})
		require.NoError(t, err)
		draft, err := h.Handle(t.Context(), cmd)
		require.NoError(t, err)
		assert.False(t, draft.PlatformVoucher().Applied())
		assert.NotEmpty(t, draft.PlatformVoucher().Notice)
	})
}

func TestCreateDraftCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	address := newMarketplace(t).addressInput()
	cmd, err := commands.NewCreateDraftCommand(kernel.NewUUID(), commands.CheckoutInput{
		Items:   []checkout.Line{{SKUID: kernel.NewUUID(), Quantity: 1}},
		Address: address,
	})
	require.NoError(t, err)

	uow := new(MockDraftUoW)
	factory := new(MockDraftUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	h := commands.NewCreateDraftCommandHandler(factory, "VND", checkout.DefaultTTL, clock)
	_, err = h.Handle(ctx, cmd)

	require.Error(t, err)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateDraftCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockDraftUoWFactory)
	h := commands.NewCreateDraftCommandHandler(factory, "VND", checkout.DefaultTTL, clock)

	_, err := h.Handle(t.Context(), commands.CreateDraftCommand{})

	require.ErrorIs(t, err, commands.ErrCreateDraftCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestNewCreateDraftCommand(t *testing.T) {
	tests := []struct {
		name  string
		buyer kernel.UUID
		input commands.CheckoutInput
		want  error
	}{
		{"missing buyer", kernel.UUID{}, commands.CheckoutInput{AddressID: ptr(kernel.NewUUID())}, errs.ErrValueIsRequired},
		{"missing address", kernel.NewUUID(), commands.CheckoutInput{}, errs.ErrValueIsRequired},
		{"zero quantity", kernel.NewUUID(), commands.CheckoutInput{
			AddressID: ptr(kernel.NewUUID()),
			Items:     []checkout.Line{{SKUID: kernel.NewUUID()}},
		}, errs.ErrValueIsOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := commands.NewCreateDraftCommand(tt.buyer, tt.input)
			require.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("input is copied", func(t *testing.T) {
		items := []checkout.Line{{SKUID: kernel.NewUUID(), Quantity: 1}}
		cmd, err := commands.NewCreateDraftCommand(kernel.NewUUID(), commands.CheckoutInput{AddressID: ptr(kernel.NewUUID()), Items: items})
		require.NoError(t, err)
		items[0].Quantity = 5
		assert.Equal(t, 1, cmd.Input().Items[0].Quantity)
	})
}

func ptr[T any](v T) *T { return &v }

package commands_test

import (
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"marketplace/internal/adapters/out/memory"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/voucher"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCommitCheckoutCommandHandler_SplitsIntoOrdersPerShop(t *testing.T) {
	m := newMarketplace(t)
	m.store.AddVoucher(memory.PlatformVoucher("SALE50K", 50000))
	m.store.SetCart(m.buyer, append(m.basket(), checkout.Line{SKUID: kernel.NewUUID(), Quantity: 1})...)
	draft := m.createDraft(t, m.buyer, commands.CheckoutInput{Items: m.basket(), VoucherCode: "SALE50K"})

	result, err := m.commit(t.Context(), m.buyer, draft.Code(), order.PaymentCOD)
	require.NoError(t, err)

	require.Len(t, result.Orders, 2)
	a, b := result.Orders[0], result.Orders[1]
	assert.NotEmpty(t, result.GroupCode)
	assert.Equal(t, result.GroupCode, a.GroupCode())
	assert.Equal(t, result.GroupCode, b.GroupCode())
	assert.Equal(t, m.shopA.ID, a.ShopID())
	assert.Equal(t, m.shopB.ID, b.ShopID())
	assert.Equal(t, int64(37500), a.PlatformDiscount())
	assert.Equal(t, int64(12500), b.PlatformDiscount())
	require.NotNil(t, a.PlatformVoucher())
	require.NotNil(t, b.PlatformVoucher())
	assert.Equal(t, "SALE50K", a.PlatformVoucher().Code)
	assert.Equal(t, int64(410000), a.Total()+b.Total())
	assert.Equal(t, order.Placed, a.Status())
	assert.Equal(t, order.PaymentUnpaid, a.Payment().Status)

	assert.Equal(t, 9, m.store.Stock(m.small.SKUID))
	assert.Equal(t, 9, m.store.Stock(m.teapot.SKUID))
	assert.Equal(t, 1, m.store.Sold(m.large.ProductID))
	assert.Equal(t, 1, m.store.Voucher("SALE50K").UsedCount)
	assert.Len(t, m.store.Cart(m.buyer), 1, "only purchased SKUs leave the cart")
	assert.Len(t, m.store.Threads(), 2)
	assert.Equal(t, checkout.Committed, m.draft(t, draft.Code()).Status())

	types := map[string]int{}
	for _, e := range m.store.Outbox() {
		types[e.Type]++
	}
	assert.Equal(t, map[string]int{
		notification.TypeCheckoutCompleted: 1,
		notification.TypeOrderReceived:     2,
	}, types)
}

func TestCommitCheckoutCommandHandler_DraftCommitsOnlyOnce(t *testing.T) {
	m := newMarketplace(t)
	draft := m.createDraft(t, m.buyer, commands.CheckoutInput{Items: m.basket()})

	_, err := m.commit(t.Context(), m.buyer, draft.Code(), order.PaymentCOD)
	require.NoError(t, err)

	_, err = m.commit(t.Context(), m.buyer, draft.Code(), order.PaymentCOD)
	require.ErrorIs(t, err, errs.ErrStateConflict)
	assert.Equal(t, 2, m.store.OrderCount())
}

func TestCommitCheckoutCommandHandler_Preconditions(t *testing.T) {
	t.Run("another buyer's draft is not found", func(t *testing.T) {
		m := newMarketplace(t)
		draft := m.createDraft(t, m.buyer, commands.CheckoutInput{Items: m.basket()})

		_, err := m.commit(t.Context(), kernel.NewUUID(), draft.Code(), order.PaymentCOD)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("expired draft", func(t *testing.T) {
		m := newMarketplace(t)
		draft := m.createDraft(t, m.buyer, commands.CheckoutInput{Items: m.basket()})

		cmd, err := commands.NewCommitCheckoutCommand(m.buyer, draft.Code(), "COD")
		require.NoError(t, err)
		late := func() time.Time { return now.Add(checkout.DefaultTTL) }
		h := commands.NewCommitCheckoutCommandHandler(checkoutFactory{m.store}, m.gateway, late, slog.New(slog.DiscardHandler))

		_, err = h.Handle(t.Context(), cmd)
		require.ErrorIs(t, err, errs.ErrExpired)
		assert.Equal(t, 0, m.store.OrderCount())
	})

	t.Run("unknown payment method", func(t *testing.T) {
		_, err := commands.NewCommitCheckoutCommand(kernel.NewUUID(), "CK1", "CHEQUE")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("not constructed", func(t *testing.T) {
		m := newMarketplace(t)
		h := m.committer()
		_, err := h.Handle(t.Context(), commands.CommitCheckoutCommand{})
		require.ErrorIs(t, err, commands.ErrCommitCheckoutCommandIsNotConstructed)
	})
}

func TestCommitCheckoutCommandHandler_OutOfStockRollsBackEverything(t *testing.T) {
	m := newMarketplace(t)
	m.store.AddVoucher(memory.PlatformVoucher("SALE50K", 50000))
	draft := m.createDraft(t, m.buyer, commands.CheckoutInput{Items: m.basket(), VoucherCode: "SALE50K"})

	// the teapot sells out after the draft was priced
	soldOut := m.shopB.Listing("Teapot", 100000, 0)
	soldOut.SKUID, soldOut.ProductID = m.teapot.SKUID, m.teapot.ProductID
	m.store.AddListing(soldOut)

	_, err := m.commit(t.Context(), m.buyer, draft.Code(), order.PaymentCOD)

	require.ErrorIs(t, err, errs.ErrOutOfStock)
	require.ErrorIs(t, err, errs.ErrResourceConflict)
	assert.Equal(t, 0, m.store.OrderCount())
	assert.Equal(t, 10, m.store.Stock(m.small.SKUID), "shop A's stock is untouched")
	assert.Equal(t, 10, m.store.Stock(m.large.SKUID))
	assert.Equal(t, 0, m.store.Sold(m.small.ProductID))
	assert.Equal(t, 0, m.store.Voucher("SALE50K").UsedCount)
	assert.Empty(t, m.store.Threads())
	assert.Empty(t, m.store.Outbox())
	assert.Equal(t, checkout.Open, m.draft(t, draft.Code()).Status())
}

func TestCommitCheckoutCommandHandler_RechecksSellability(t *testing.T) {
	tests := []struct {
		name   string
		change func(l *catalog.Listing)
	}{
		{"product banned after drafting", func(l *catalog.Listing) { l.ProductStatus = catalog.ProductBanned }},
		{"shop suspended after drafting", func(l *catalog.Listing) { l.ShopStatus = catalog.ShopSuspended }},
		{"banned and suspended", func(l *catalog.Listing) {
			l.ProductStatus = catalog.ProductBanned
			l.ShopStatus = catalog.ShopSuspended
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMarketplace(t)
			m.store.AddVoucher(memory.PlatformVoucher("SALE50K", 50000))
			draft := m.createDraft(t, m.buyer, commands.CheckoutInput{Items: m.basket(), VoucherCode: "SALE50K"})

			teapot := m.shopB.Listing("Teapot", 100000, 10)
			teapot.SKUID, teapot.ProductID = m.teapot.SKUID, m.teapot.ProductID
			tt.change(&teapot)
			m.store.AddListing(teapot)

			_, err := m.commit(t.Context(), m.buyer, draft.Code(), order.PaymentCOD)

			require.ErrorIs(t, err, errs.ErrNotSellable)
			assert.Equal(t, 0, m.store.OrderCount())
			assert.Equal(t, 10, m.store.Stock(m.small.SKUID))
			assert.Equal(t, 10, m.store.Stock(m.teapot.SKUID))
			assert.Equal(t, 0, m.store.Voucher("SALE50K").UsedCount)
			assert.Empty(t, m.store.Outbox())
			assert.Equal(t, checkout.Open, m.draft(t, draft.Code()).Status())
		})
	}
}

func TestCommitCheckoutCommandHandler_RefundsCapturesOfAnAbortedCommit(t *testing.T) {
	m := newMarketplace(t)
	draft := m.createDraft(t, m.buyer, commands.CheckoutInput{Items: m.basket()})

	soldOut := m.shopB.Listing("Teapot", 100000, 0)
	soldOut.SKUID, soldOut.ProductID = m.teapot.SKUID, m.teapot.ProductID
	m.store.AddListing(soldOut)

	m.gateway.On("Capture", mock.Anything, mock.AnythingOfType("ports.PaymentRequest")).
		Return(ports.PaymentResult{OK: true, Reference: "cap-1"}, nil).Once()
	m.gateway.On("Refund", mock.Anything, mock.MatchedBy(func(req ports.PaymentRequest) bool {
		return req.Reference == "cap-1" && req.Amount == 330000
	})).Return(ports.PaymentResult{OK: true, Reference: "ref-1"}, nil).Once()

	_, err := m.commit(t.Context(), m.buyer, draft.Code(), order.PaymentCard)

	require.ErrorIs(t, err, errs.ErrOutOfStock)
	assert.Equal(t, 0, m.store.OrderCount())
	m.gateway.AssertExpectations(t)
}

func TestCommitCheckoutCommandHandler_PrepaidCapture(t *testing.T) {
	t.Run("captured", func(t *testing.T) {
		m := newMarketplace(t)
		draft := m.createDraft(t, m.buyer, commands.CheckoutInput{Items: m.basket()})
		m.gateway.On("Capture", mock.Anything, mock.Anything).
			Return(ports.PaymentResult{OK: true, Reference: "cap"}, nil).Twice()

		result, err := m.commit(t.Context(), m.buyer, draft.Code(), order.PaymentWallet)

		require.NoError(t, err)
		for _, o := range result.Orders {
			assert.Equal(t, order.Placed, o.Status())
			assert.Equal(t, order.PaymentCaptured, o.Payment().Status)
			assert.Equal(t, o.Total(), o.Payment().Amount)
		}
		m.gateway.AssertExpectations(t)
	})

	t.Run("declined leaves the orders pending payment", func(t *testing.T) {
		m := newMarketplace(t)
		draft := m.createDraft(t, m.buyer, commands.CheckoutInput{Items: m.basket()})
		m.gateway.On("Capture", mock.Anything, mock.Anything).Return(ports.PaymentResult{}, nil).Twice()

		result, err := m.commit(t.Context(), m.buyer, draft.Code(), order.PaymentCard)

		require.NoError(t, err)
		for _, o := range result.Orders {
			assert.Equal(t, order.PendingPayment, o.Status())
			assert.Equal(t, order.PaymentPending, o.Payment().Status)
		}
	})

	t.Run("unreachable gateway aborts", func(t *testing.T) {
		m := newMarketplace(t)
		draft := m.createDraft(t, m.buyer, commands.CheckoutInput{Items: m.basket()})
		m.gateway.On("Capture", mock.Anything, mock.Anything).Return(ports.PaymentResult{}, errors.New("timeout")).Once()

		_, err := m.commit(t.Context(), m.buyer, draft.Code(), order.PaymentCard)

		require.Error(t, err)
		assert.Equal(t, 0, m.store.OrderCount())
		assert.Equal(t, 10, m.store.Stock(m.small.SKUID))
	})
}

func TestCommitCheckoutCommandHandler_LastUnitGoesToOneBuyer(t *testing.T) {
	m := newMarketplace(t)
	last := m.shopA.Listing("Last lamp", 500000, 1)
	m.store.AddListing(last)

	buyers := [2]kernel.UUID{kernel.NewUUID(), kernel.NewUUID()}
	var drafts [2]*checkout.Draft
	for i, buyer := range buyers {
		drafts[i] = m.createDraft(t, buyer, commands.CheckoutInput{
			Items: []checkout.Line{{SKUID: last.SKUID, Quantity: 1}},
		})
	}

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := range buyers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = m.commit(t.Context(), buyers[i], drafts[i].Code(), order.PaymentCOD)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, errs.ErrResourceConflict)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, m.store.OrderCount())
	assert.Equal(t, 0, m.store.Stock(last.SKUID))
}

func TestCommitCheckoutCommandHandler_VoucherUsageIsNeverExceeded(t *testing.T) {
	m := newMarketplace(t)
	limited := memory.PlatformVoucher("ONCE", 20000)
	limit := 1
	limited.UsageLimit = &limit
	m.store.AddVoucher(limited)

	buyers := [2]kernel.UUID{kernel.NewUUID(), kernel.NewUUID()}
	var drafts [2]*checkout.Draft
	for i, buyer := range buyers {
		drafts[i] = m.createDraft(t, buyer, commands.CheckoutInput{
			Items:       []checkout.Line{{SKUID: m.small.SKUID, Quantity: 1}},
			VoucherCode: "ONCE",
		})
		require.True(t, drafts[i].PlatformVoucher().Applied())
	}

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := range buyers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = m.commit(t.Context(), buyers[i], drafts[i].Code(), order.PaymentCOD)
		}()
	}
	wg.Wait()

	failures := 0
	for _, err := range results {
		if err != nil {
			failures++
			require.ErrorIs(t, err, errs.ErrResourceConflict)
		}
	}
	assert.Equal(t, 1, failures)
	assert.Equal(t, 1, m.store.Voucher("ONCE").UsedCount)
	assert.Equal(t, 1, m.store.OrderCount())
}

func TestCommitCheckoutCommandHandler_IneligibleShopVoucherDoesNotBlockCommit(t *testing.T) {
	m := newMarketplace(t)
	loyal := m.shopA.Voucher("LOYAL", 30000)
	threshold := int64(1000000)
	loyal.MinBuyerSpendMonth = &threshold
	m.store.AddVoucher(loyal)

	draft := m.createDraft(t, m.buyer, commands.CheckoutInput{
		Items:        m.basket(),
		ShopVouchers: map[kernel.UUID]string{m.shopA.ID: "LOYAL"},
	})
	g, ok := draft.Group(m.shopA.ID)
	require.True(t, ok)
	assert.Equal(t, voucher.ReasonMonthSpendNotMet, g.ShopVoucher.Notice)
	assert.Zero(t, g.ShopVoucher.Discount)

	result, err := m.commit(t.Context(), m.buyer, draft.Code(), order.PaymentCOD)

	require.NoError(t, err)
	assert.Nil(t, result.Orders[0].ShopVoucher())
	assert.Equal(t, 0, m.store.Voucher("LOYAL").UsedCount)
}

func TestCommitCheckoutCommandHandler_VoucherChangedSinceDraft(t *testing.T) {
	m := newMarketplace(t)
	v := memory.PlatformVoucher("SALE50K", 50000)
	m.store.AddVoucher(v)
	draft := m.createDraft(t, m.buyer, commands.CheckoutInput{Items: m.basket(), VoucherCode: "SALE50K"})

	v.Active = false
	m.store.AddVoucher(v)

	_, err := m.commit(t.Context(), m.buyer, draft.Code(), order.PaymentCOD)

	require.ErrorIs(t, err, errs.ErrResourceConflict)
	assert.Contains(t, err.Error(), "refresh the draft")
	assert.Equal(t, 0, m.store.OrderCount())
}

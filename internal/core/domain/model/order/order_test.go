package order_test

import (
	"slices"
	"testing"
	"time"

	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/shipping"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	order  *order.Order
	buyer  order.Actor
	seller order.Actor
	admin  order.Actor
}

func placement(method order.PaymentMethod) order.Placement {
	shopVoucherID := kernel.NewUUID()
	platformVoucherID := kernel.NewUUID()
	g := checkout.Group{
		ShopID:   kernel.NewUUID(),
		ShopName: "Shop A",
		SellerID: kernel.NewUUID(),
		Items: []checkout.Item{
			{SKUID: kernel.NewUUID(), ProductID: kernel.NewUUID(), UnitPrice: 100000, Quantity: 2, LineTotal: 200000},
			{SKUID: kernel.NewUUID(), ProductID: kernel.NewUUID(), UnitPrice: 100000, Quantity: 1, LineTotal: 100000},
		},
		Subtotal:      300000,
		Shipping:      &shipping.Option{MethodID: kernel.NewUUID(), Code: shipping.CodeStandard, Fee: 30000},
		ShopVoucher:   checkout.VoucherSelection{Code: "SHOP10", ID: &shopVoucherID, Discount: 10000},
		PlatformShare: 37500,
	}
	g.Total = 300000 - 10000 - 37500 + 30000

	return order.Placement{
		ID:              kernel.NewUUID(),
		Code:            "OD1",
		GroupCode:       "GR1",
		DraftCode:       "CK1",
		BuyerID:         kernel.NewUUID(),
		Currency:        "VND",
		Address:         kernel.Address{FullName: "B", Phone: "1", Line1: "L", City: "C", Province: "P", Country: "VN"},
		Group:           g,
		PlatformVoucher: checkout.VoucherSelection{Code: "P50", ID: &platformVoucherID, Discount: 50000},
		PaymentMethod:   method,
	}
}

func newFixture(t *testing.T, method order.PaymentMethod) fixture {
	t.Helper()
	p := placement(method)
	o, err := order.NewOrder(p, t0)
	require.NoError(t, err)
	shopID := o.ShopID()
	return fixture{
		order:  o,
		buyer:  order.Actor{UserID: p.BuyerID, Role: order.RoleBuyer},
		seller: order.Actor{UserID: o.SellerID(), Role: order.RoleSeller, ShopID: &shopID},
		admin:  order.Actor{UserID: kernel.NewUUID(), Role: order.RoleAdmin},
	}
}

// advance drives the order to SHIPPED and, when deliver is set, to DELIVERED.
func (f fixture) advance(t *testing.T, deliver bool) {
	t.Helper()
	require.NoError(t, f.order.Confirm(f.seller, t0))
	require.NoError(t, f.order.Pack(f.seller, t0))
	require.NoError(t, f.order.CreateShipment(f.seller, "GHN", "TRK1", t0))
	if deliver {
		require.NoError(t, f.order.ConfirmDelivery(f.buyer, t0.Add(48*time.Hour)))
	}
}

func TestNewOrder(t *testing.T) {
	t.Run("cod order is placed and unpaid", func(t *testing.T) {
		f := newFixture(t, order.PaymentCOD)
		o := f.order

		assert.Equal(t, order.Placed, o.Status())
		assert.Equal(t, order.PaymentUnpaid, o.Payment().Status)
		assert.Equal(t, int64(282500), o.Total())
		assert.Equal(t, int64(37500), o.PlatformDiscount())
		require.NotNil(t, o.PlatformVoucher())
		assert.Equal(t, "P50", o.PlatformVoucher().Code)
		require.NotNil(t, o.ShopVoucher())
		assert.Len(t, o.Items(), 2)
		assert.Equal(t, shipping.CodeStandard, o.Shipping().Code)
	})

	t.Run("prepaid order waits for capture", func(t *testing.T) {
		f := newFixture(t, order.PaymentCard)

		assert.Equal(t, order.PendingPayment, f.order.Status())
		require.NoError(t, f.order.CapturePayment(false, "declined-1", t0))
		assert.Equal(t, order.PendingPayment, f.order.Status())

		require.NoError(t, f.order.CapturePayment(true, "cap-1", t0))
		assert.Equal(t, order.Placed, f.order.Status())
		assert.Equal(t, order.PaymentCaptured, f.order.Payment().Status)
		require.ErrorIs(t, f.order.CapturePayment(true, "again", t0), errs.ErrStateConflict)
	})

	t.Run("unshippable group is rejected", func(t *testing.T) {
		p := placement(order.PaymentCOD)
		p.Group.Shipping = nil
		p.Group.ShippingError = shipping.ErrorOutOfService

		_, err := order.NewOrder(p, t0)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("inconsistent total is rejected", func(t *testing.T) {
		p := placement(order.PaymentCOD)
		p.Group.Total++

		_, err := order.NewOrder(p, t0)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestOrder_Authorize(t *testing.T) {
	f := newFixture(t, order.PaymentCOD)

	t.Run("another buyer sees not found", func(t *testing.T) {
		stranger := order.Actor{UserID: kernel.NewUUID(), Role: order.RoleBuyer}
		require.ErrorIs(t, f.order.Confirm(stranger, t0), errs.ErrObjectNotFound)
	})

	t.Run("another shop sees not found", func(t *testing.T) {
		otherShop := kernel.NewUUID()
		seller := order.Actor{UserID: kernel.NewUUID(), Role: order.RoleSeller, ShopID: &otherShop}
		require.ErrorIs(t, f.order.Confirm(seller, t0), errs.ErrObjectNotFound)
	})

	t.Run("buyer may not confirm", func(t *testing.T) {
		require.ErrorIs(t, f.order.Confirm(f.buyer, t0), errs.ErrForbidden)
	})

	t.Run("wrong state", func(t *testing.T) {
		require.ErrorIs(t, f.order.Pack(f.seller, t0), errs.ErrStateConflict)
	})

	t.Run("allowed actions", func(t *testing.T) {
		assert.ElementsMatch(t, []order.Action{order.ActionCancel}, f.order.Allowed(f.buyer))
		assert.ElementsMatch(t, []order.Action{order.ActionConfirm, order.ActionSellerCancel}, f.order.Allowed(f.seller))
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("free cancel before confirmation restocks", func(t *testing.T) {
		f := newFixture(t, order.PaymentCOD)

		eff, err := f.order.Cancel(f.buyer, "changed my mind", t0)

		require.NoError(t, err)
		assert.True(t, eff.Restock)
		assert.Zero(t, eff.Refund)
		assert.Equal(t, order.Cancelled, f.order.Status())
	})

	t.Run("free cancel of a captured order refunds it", func(t *testing.T) {
		f := newFixture(t, order.PaymentWallet)
		require.NoError(t, f.order.CapturePayment(true, "cap", t0))

		eff, err := f.order.Cancel(f.buyer, "", t0)

		require.NoError(t, err)
		assert.Equal(t, f.order.Total(), eff.Refund)
		f.order.RecordRefund(eff.Refund, true, "rf-1", eff.RefundReason, t0)
		assert.Equal(t, order.PaymentRefunded, f.order.Payment().Status)
		require.Len(t, f.order.Refunds(), 1)
	})

	t.Run("after confirmation the seller decides", func(t *testing.T) {
		f := newFixture(t, order.PaymentCOD)
		require.NoError(t, f.order.Confirm(f.seller, t0))
		require.NoError(t, f.order.Pack(f.seller, t0))

		eff, err := f.order.Cancel(f.buyer, "too slow", t0)
		require.NoError(t, err)
		assert.False(t, eff.Restock)
		assert.Equal(t, order.CancelRequested, f.order.Status())

		require.NoError(t, f.order.RejectCancel(f.seller, "already packed", t0))
		assert.Equal(t, order.Packing, f.order.Status())

		_, err = f.order.Cancel(f.buyer, "please", t0)
		require.NoError(t, err)
		eff, err = f.order.ApproveCancel(f.seller, "ok", t0)
		require.NoError(t, err)
		assert.True(t, eff.Restock)
		assert.Equal(t, order.Cancelled, f.order.Status())
	})

	t.Run("request needs a reason", func(t *testing.T) {
		f := newFixture(t, order.PaymentCOD)
		require.NoError(t, f.order.Confirm(f.seller, t0))

		_, err := f.order.Cancel(f.buyer, " ", t0)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("blocked once shipped", func(t *testing.T) {
		f := newFixture(t, order.PaymentCOD)
		f.advance(t, false)

		_, err := f.order.Cancel(f.buyer, "late", t0)

		require.ErrorIs(t, err, errs.ErrStateConflict)
	})

	t.Run("seller cancel restocks", func(t *testing.T) {
		f := newFixture(t, order.PaymentCOD)
		require.NoError(t, f.order.Confirm(f.seller, t0))

		eff, err := f.order.SellerCancel(f.seller, "out of stock", t0)

		require.NoError(t, err)
		assert.True(t, eff.Restock)
		assert.Equal(t, order.Cancelled, f.order.Status())
	})
}

func TestCancelBlockedStopsBothSides(t *testing.T) {
	cancellable := []order.Status{order.PendingPayment, order.Placed, order.Confirmed, order.Packing}
	for _, s := range order.Statuses() {
		assert.Equal(t, !slices.Contains(cancellable, s), s.CancelBlocked(), s.String())

		f := newFixture(t, order.PaymentCOD)
		_, buyerErr := restoreWithStatus(t, f.order, s).Cancel(f.buyer, "changed my mind", t0)
		_, sellerErr := restoreWithStatus(t, f.order, s).SellerCancel(f.seller, "out of stock", t0)

		if s.CancelBlocked() {
			assert.ErrorIs(t, buyerErr, errs.ErrStateConflict, s.String())
			assert.ErrorIs(t, sellerErr, errs.ErrStateConflict, s.String())
		} else {
			assert.NoError(t, buyerErr, s.String())
			assert.NoError(t, sellerErr, s.String())
		}
	}
}

func restoreWithStatus(t *testing.T, o *order.Order, s order.Status) *order.Order {
	t.Helper()
	snap := o.Snapshot()
	snap.Status = s
	snap.Shipment = &order.Shipment{Carrier: "GHN", TrackingNumber: "T"}
	snap.CancelRequest = &order.CancelRequest{PrevStatus: order.Confirmed}
	snap.ReturnRequest = &order.ReturnRequest{}
	snap.RefundRequest = &order.RefundRequest{PrevStatus: order.Delivered}
	snap.Dispute = &order.Dispute{Status: order.DisputeOpen}
	restored, err := order.RestoreOrder(snap)
	require.NoError(t, err)
	return restored
}

func TestOrder_Fulfilment(t *testing.T) {
	f := newFixture(t, order.PaymentCOD)

	require.ErrorIs(t, f.order.CreateShipment(f.seller, "GHN", "T", t0), errs.ErrStateConflict)
	require.NoError(t, f.order.Confirm(f.seller, t0))
	require.NoError(t, f.order.Pack(f.seller, t0))
	require.ErrorIs(t, f.order.CreateShipment(f.seller, "", "", t0), errs.ErrValueIsRequired)
	require.NoError(t, f.order.CreateShipment(f.seller, "GHN", "T1", t0))
	assert.Equal(t, order.Shipped, f.order.Status())

	require.NoError(t, f.order.UpdateShipment(f.seller, order.ShipmentEvent{Status: "in_transit", Location: "Hub"}, t0))
	assert.Equal(t, order.Shipped, f.order.Status())

	require.NoError(t, f.order.UpdateShipment(f.seller, order.ShipmentEvent{Status: "delivered"}, t0.Add(time.Hour)))
	assert.Equal(t, order.Delivered, f.order.Status())
	assert.Equal(t, order.PaymentCaptured, f.order.Payment().Status, "cash collected on delivery")
	assert.Len(t, f.order.Shipment().Events, 3)

	require.NoError(t, f.order.Complete(f.buyer, t0.Add(2*time.Hour)))
	assert.Equal(t, order.Completed, f.order.Status())
}

func TestOrder_Pay(t *testing.T) {
	f := newFixture(t, order.PaymentBankTransfer)

	err := f.order.Pay(f.buyer, false, "", t0)
	require.ErrorIs(t, err, errs.ErrResourceConflict)

	require.NoError(t, f.order.Pay(f.buyer, true, "cap-9", t0))
	assert.Equal(t, order.Placed, f.order.Status())
	assert.Equal(t, "cap-9", f.order.Payment().Reference)
}

func TestOrder_Return(t *testing.T) {
	fee := int64(20000)

	t.Run("refund is total minus restocking fee", func(t *testing.T) {
		f := newFixture(t, order.PaymentCOD)
		f.advance(t, true)

		require.NoError(t, f.order.RequestReturn(f.buyer, "broken", []string{"https://img/1.jpg"}, t0))
		require.NoError(t, f.order.ApproveReturn(f.seller, fee, nil, "", t0))
		require.NoError(t, f.order.ShipReturn(f.buyer, "GHN", "RET1", t0))
		eff, err := f.order.ReceiveReturn(f.seller, t0)

		require.NoError(t, err)
		assert.True(t, eff.Restock)
		assert.Equal(t, f.order.Total()-fee, eff.Refund)
		assert.Equal(t, order.ReturnReceived, f.order.Status())
		assert.Equal(t, "RET1", f.order.ReturnRequest().TrackingNumber)
	})

	t.Run("explicit refund amount is capped at total", func(t *testing.T) {
		f := newFixture(t, order.PaymentCOD)
		f.advance(t, true)
		amount := int64(50000)

		require.NoError(t, f.order.RequestReturn(f.buyer, "wrong size", nil, t0))
		require.NoError(t, f.order.ApproveReturn(f.seller, fee, &amount, "", t0))
		eff, err := f.order.ReceiveReturn(f.admin, t0)

		require.NoError(t, err)
		assert.Equal(t, amount, eff.Refund)
	})

	t.Run("invalid fee", func(t *testing.T) {
		f := newFixture(t, order.PaymentCOD)
		f.advance(t, true)
		require.NoError(t, f.order.RequestReturn(f.buyer, "x", nil, t0))

		require.ErrorIs(t, f.order.ApproveReturn(f.seller, f.order.Total()+1, nil, "", t0), errs.ErrValueIsOutOfRange)
	})

	t.Run("rejected return can be completed", func(t *testing.T) {
		f := newFixture(t, order.PaymentCOD)
		f.advance(t, true)
		require.NoError(t, f.order.RequestReturn(f.buyer, "x", nil, t0))
		require.NoError(t, f.order.RejectReturn(f.seller, "used item", t0))

		require.NoError(t, f.order.Complete(f.buyer, t0))
	})
}

func TestOrder_RefundRequest(t *testing.T) {
	t.Run("approve then execute", func(t *testing.T) {
		f := newFixture(t, order.PaymentCard)
		require.NoError(t, f.order.CapturePayment(true, "cap", t0))
		f.advance(t, true)

		require.NoError(t, f.order.RequestRefund(f.buyer, "missing item", nil, t0))
		_, err := f.order.ExecuteRefund(f.admin, t0)
		require.ErrorIs(t, err, errs.ErrStateConflict, "must be approved first")

		partial := int64(100000)
		require.NoError(t, f.order.ApproveRefund(f.admin, &partial, "", t0))
		eff, err := f.order.ExecuteRefund(f.admin, t0)
		require.NoError(t, err)
		assert.Equal(t, partial, eff.Refund)
		assert.Equal(t, order.Refunded, f.order.Status())
	})

	t.Run("manual settlement", func(t *testing.T) {
		f := newFixture(t, order.PaymentCOD)
		f.advance(t, true)
		require.NoError(t, f.order.RequestRefund(f.buyer, "missing item", nil, t0))

		require.ErrorIs(t, f.order.SettleRefund(f.admin, "", t0), errs.ErrValueIsRequired)
		require.NoError(t, f.order.SettleRefund(f.admin, "bank-tx-1", t0))

		assert.Equal(t, order.Refunded, f.order.Status())
		require.Len(t, f.order.Refunds(), 1)
		assert.True(t, f.order.Refunds()[0].Manual)
	})

	t.Run("reject reverts", func(t *testing.T) {
		f := newFixture(t, order.PaymentCOD)
		f.advance(t, true)
		require.NoError(t, f.order.RequestRefund(f.buyer, "x", nil, t0))

		require.ErrorIs(t, f.order.RejectRefund(f.seller, "no", t0), errs.ErrForbidden)
		require.NoError(t, f.order.RejectRefund(f.admin, "no", t0))
		assert.Equal(t, order.Delivered, f.order.Status())
	})
}

func TestOrder_Dispute(t *testing.T) {
	window := 15 * 24 * time.Hour

	t.Run("outside the window", func(t *testing.T) {
		f := newFixture(t, order.PaymentCOD)
		f.advance(t, true)
		late := f.order.DeliveredAt().Add(window + time.Second)

		err := f.order.OpenDispute(f.buyer, "fake", nil, window, late)

		require.ErrorIs(t, err, errs.ErrExpired)
	})

	t.Run("full lifecycle with one revision", func(t *testing.T) {
		f := newFixture(t, order.PaymentCOD)
		f.advance(t, true)
		now := f.order.DeliveredAt().Add(24 * time.Hour)

		require.NoError(t, f.order.OpenDispute(f.buyer, "fake", []string{"ev"}, window, now))
		assert.Equal(t, order.Disputed, f.order.Status())
		require.ErrorIs(t, f.order.Complete(f.buyer, now), errs.ErrStateConflict)

		require.NoError(t, f.order.RespondDispute(f.seller, "genuine", now))
		eff, err := f.order.ResolveDispute(f.admin, order.DisputeRejected, "no proof", 0, now)
		require.NoError(t, err)
		assert.Zero(t, eff.Refund)
		assert.Equal(t, order.Disputed, f.order.Status())

		_, err = f.order.ResolveDispute(f.admin, order.DisputeResolved, "again", 0, now)
		require.ErrorIs(t, err, errs.ErrStateConflict, "needs a revision request")

		require.NoError(t, f.order.RequestDisputeRevision(f.buyer, "new evidence", now))
		require.ErrorIs(t, f.order.RequestDisputeRevision(f.buyer, "again", now), errs.ErrStateConflict)

		eff, err = f.order.ResolveDispute(f.admin, order.DisputeResolved, "refund half", 100000, now)
		require.NoError(t, err)
		assert.Equal(t, int64(100000), eff.Refund, "cash collected on delivery is refundable")
		assert.Equal(t, order.Refunded, f.order.Status())
		assert.Equal(t, 1, f.order.Dispute().RevisionCount)
	})

	t.Run("one dispute per order", func(t *testing.T) {
		f := newFixture(t, order.PaymentCOD)
		f.advance(t, true)
		now := *f.order.DeliveredAt()
		require.NoError(t, f.order.OpenDispute(f.buyer, "x", nil, window, now))
		_, err := f.order.ResolveDispute(f.admin, order.DisputeRejected, "", 0, now)
		require.NoError(t, err)
		require.NoError(t, f.order.Complete(f.buyer, now))

		err = f.order.OpenDispute(f.buyer, "again", nil, window, now)

		require.ErrorIs(t, err, errs.ErrStateConflict)
	})

	t.Run("revision limit", func(t *testing.T) {
		f := newFixture(t, order.PaymentCOD)
		f.advance(t, true)
		now := *f.order.DeliveredAt()
		require.NoError(t, f.order.OpenDispute(f.buyer, "x", nil, window, now))
		_, err := f.order.ResolveDispute(f.admin, order.DisputeRejected, "", 0, now)
		require.NoError(t, err)
		require.NoError(t, f.order.RequestDisputeRevision(f.seller, "y", now))
		_, err = f.order.ResolveDispute(f.admin, order.DisputeRejected, "", 0, now)
		require.NoError(t, err)

		require.ErrorIs(t, f.order.RequestDisputeRevision(f.buyer, "z", now), errs.ErrStateConflict)
	})

	t.Run("invalid ruling", func(t *testing.T) {
		f := newFixture(t, order.PaymentCOD)
		f.advance(t, true)
		now := *f.order.DeliveredAt()
		require.NoError(t, f.order.OpenDispute(f.buyer, "x", nil, window, now))

		_, err := f.order.ResolveDispute(f.admin, order.DisputeOpen, "", 0, now)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		_, err = f.order.ResolveDispute(f.admin, order.DisputeRejected, "", 1, now)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestRestoreOrder(t *testing.T) {
	f := newFixture(t, order.PaymentCOD)
	f.advance(t, true)

	restored, err := order.RestoreOrder(f.order.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, f.order.Snapshot(), restored.Snapshot())

	snap := f.order.Snapshot()
	snap.Status = order.Disputed
	_, err = order.RestoreOrder(snap)
	require.Error(t, err, "disputed without a dispute")

	snap = f.order.Snapshot()
	snap.Total = -1
	_, err = order.RestoreOrder(snap)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestParsers(t *testing.T) {
	s, err := order.ParseStatus("RETURN_APPROVED")
	require.NoError(t, err)
	assert.Equal(t, order.ReturnApproved, s)
	_, err = order.ParseStatus("LOST")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = order.ParseAction("teleport")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = order.NewActor(kernel.NewUUID(), order.RoleSeller, nil)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	_, err = order.ParseRole("ROOT")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	assert.False(t, order.Cancelled.CountsAsSpend())
	assert.True(t, order.Delivered.CountsAsSpend())
}

func TestStatus_Text(t *testing.T) {
	text, err := order.RefundRequested.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "REFUND_REQUESTED", string(text))

	var s order.Status
	require.NoError(t, s.UnmarshalText([]byte("SHIPPED")))
	assert.Equal(t, order.Shipped, s)

	_, err = order.Unknown.MarshalText()
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

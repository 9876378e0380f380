package order

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// Snapshot is the persisted state of an order.
type Snapshot struct {
	ID        kernel.UUID
	Code      string
	GroupCode string
	DraftCode string
	BuyerID   kernel.UUID
	ShopID    kernel.UUID
	ShopName  string
	SellerID  kernel.UUID
	Status    Status
	Currency  string
	Address   kernel.Address
	Note      string
	Items     []Item

	Subtotal         int64
	ShippingFee      int64
	ShopDiscount     int64
	PlatformDiscount int64
	Total            int64
	ShopVoucher      *VoucherRef
	PlatformVoucher  *VoucherRef
	Shipping         ShippingSnapshot

	Payment       Payment
	Refunds       []Refund
	CancelRequest *CancelRequest
	ReturnRequest *ReturnRequest
	RefundRequest *RefundRequest
	Dispute       *Dispute
	Shipment      *Shipment

	PlacedAt    time.Time
	PaidAt      *time.Time
	ConfirmedAt *time.Time
	ShippedAt   *time.Time
	DeliveredAt *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
	UpdatedAt   time.Time
	Version     int
}

// Snapshot captures the order for persistence.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:               o.id,
		Code:             o.code,
		GroupCode:        o.groupCode,
		DraftCode:        o.draftCode,
		BuyerID:          o.buyerID,
		ShopID:           o.shopID,
		ShopName:         o.shopName,
		SellerID:         o.sellerID,
		Status:           o.status,
		Currency:         o.currency,
		Address:          o.address,
		Note:             o.note,
		Items:            o.Items(),
		Subtotal:         o.subtotal,
		ShippingFee:      o.shippingFee,
		ShopDiscount:     o.shopDiscount,
		PlatformDiscount: o.platformDiscount,
		Total:            o.total,
		ShopVoucher:      o.shopVoucher,
		PlatformVoucher:  o.platformVoucher,
		Shipping:         o.shipping,
		Payment:          o.payment,
		Refunds:          o.Refunds(),
		CancelRequest:    o.cancelRequest,
		ReturnRequest:    o.returnRequest,
		RefundRequest:    o.refundRequest,
		Dispute:          o.dispute,
		Shipment:         o.shipment,
		PlacedAt:         o.placedAt,
		PaidAt:           o.paidAt,
		ConfirmedAt:      o.confirmedAt,
		ShippedAt:        o.shippedAt,
		DeliveredAt:      o.deliveredAt,
		CompletedAt:      o.completedAt,
		CancelledAt:      o.cancelledAt,
		UpdatedAt:        o.updatedAt,
		Version:          o.version,
	}
}

// RestoreOrder rebuilds an order from storage, re-checking its invariants.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		code:             s.Code,
		groupCode:        s.GroupCode,
		draftCode:        s.DraftCode,
		shopID:           s.ShopID,
		shopName:         s.ShopName,
		sellerID:         s.SellerID,
		status:           s.Status,
		currency:         s.Currency,
		note:             s.Note,
		items:            append([]Item(nil), s.Items...),
		subtotal:         s.Subtotal,
		shippingFee:      s.ShippingFee,
		shopDiscount:     s.ShopDiscount,
		platformDiscount: s.PlatformDiscount,
		total:            s.Total,
		shopVoucher:      s.ShopVoucher,
		platformVoucher:  s.PlatformVoucher,
		shipping:         s.Shipping,
		payment:          s.Payment,
		refunds:          append([]Refund(nil), s.Refunds...),
		cancelRequest:    s.CancelRequest,
		returnRequest:    s.ReturnRequest,
		refundRequest:    s.RefundRequest,
		dispute:          s.Dispute,
		shipment:         s.Shipment,
		placedAt:         s.PlacedAt,
		paidAt:           s.PaidAt,
		confirmedAt:      s.ConfirmedAt,
		shippedAt:        s.ShippedAt,
		deliveredAt:      s.DeliveredAt,
		completedAt:      s.CompletedAt,
		cancelledAt:      s.CancelledAt,
		updatedAt:        s.UpdatedAt,
		version:          s.Version,
		isConstructed:    true,
	}

	if err := errors.Join(
		s.Status.Validate(),
		o.setID(s.ID),
		o.setBuyerID(s.BuyerID),
		o.setAddress(s.Address),
		o.checkAmounts(),
		o.checkSatellites(),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// checkSatellites rejects a stored status whose required satellite record is missing.
func (o *Order) checkSatellites() error {
	missing := func(name string) error {
		return errors.New("order " + o.code + " is " + o.status.String() + " without a " + name)
	}
	switch o.status {
	case Shipped:
		if o.shipment == nil {
			return missing("shipment")
		}
	case CancelRequested:
		if o.cancelRequest == nil {
			return missing("cancel request")
		}
	case ReturnRequested, ReturnApproved, ReturnRejected, ReturnReceived:
		if o.returnRequest == nil {
			return missing("return request")
		}
	case RefundRequested:
		if o.refundRequest == nil {
			return missing("refund request")
		}
	case Disputed:
		if o.dispute == nil {
			return missing("dispute")
		}
	}
	return nil
}

package order

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned for an Order not built by NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// Placement is everything a commit knows about one order it is about to create.
type Placement struct {
	ID              kernel.UUID
	Code            string
	GroupCode       string
	DraftCode       string
	BuyerID         kernel.UUID
	Currency        string
	Address         kernel.Address
	Note            string
	Group           checkout.Group
	PlatformVoucher checkout.VoucherSelection
	PaymentMethod   PaymentMethod
}

// ShippingSnapshot is the shipping choice frozen at commit.
type ShippingSnapshot struct {
	MethodID      kernel.UUID `json:"methodId"`
	Code          string      `json:"code"`
	Name          string      `json:"name"`
	Fee           int64       `json:"fee"`
	EstimatedFrom time.Time   `json:"estimatedFrom"`
	EstimatedTo   time.Time   `json:"estimatedTo"`
}

// VoucherRef references a voucher applied to the order and what it took off.
type VoucherRef struct {
	ID       kernel.UUID `json:"id"`
	Code     string      `json:"code"`
	Discount int64       `json:"discount"`
}

// Order is the aggregate root of one shop's order.
//
// Order follows these invariants:
//   - Total = Subtotal − ShopDiscount − PlatformDiscount + ShippingFee, never negative
//   - Status only changes through the transitions of the rule table
//   - Refunds never exceed what was captured
//
// The repository advances the stored version on each update and rejects an
// update carrying a stale one, so two concurrent transitions cannot both apply.
type Order struct {
	id        kernel.UUID
	code      string
	groupCode string
	draftCode string
	buyerID   kernel.UUID
	shopID    kernel.UUID
	shopName  string
	sellerID  kernel.UUID
	status    Status
	currency  string
	address   kernel.Address
	note      string
	items     []Item

	subtotal         int64
	shippingFee      int64
	shopDiscount     int64
	platformDiscount int64
	total            int64
	shopVoucher      *VoucherRef
	platformVoucher  *VoucherRef
	shipping         ShippingSnapshot

	payment       Payment
	refunds       []Refund
	cancelRequest *CancelRequest
	returnRequest *ReturnRequest
	refundRequest *RefundRequest
	dispute       *Dispute
	shipment      *Shipment

	placedAt    time.Time
	paidAt      *time.Time
	confirmedAt *time.Time
	shippedAt   *time.Time
	deliveredAt *time.Time
	completedAt *time.Time
	cancelledAt *time.Time
	updatedAt   time.Time
	version     int

	isConstructed bool
}

// NewOrder creates the order of one shippable group. COD orders start PLACED with an
// UNPAID payment; prepaid orders start PENDING_PAYMENT until CapturePayment succeeds.
func NewOrder(p Placement, now time.Time) (*Order, error) {
	g := p.Group
	o := &Order{
		code:          p.Code,
		groupCode:     p.GroupCode,
		draftCode:     p.DraftCode,
		shopID:        g.ShopID,
		shopName:      g.ShopName,
		sellerID:      g.SellerID,
		currency:      p.Currency,
		note:          p.Note,
		subtotal:      g.Subtotal,
		shippingFee:   g.ShippingFee(),
		shopDiscount:  g.ShopDiscount(),
		total:         g.Total,
		placedAt:      now,
		updatedAt:     now,
		version:       1,
		isConstructed: true,
	}

	if g.ShopVoucher.Applied() {
		o.shopVoucher = &VoucherRef{ID: *g.ShopVoucher.ID, Code: g.ShopVoucher.Code, Discount: g.ShopDiscount()}
	}
	if p.PlatformVoucher.Applied() {
		o.platformDiscount = g.PlatformShare
		o.platformVoucher = &VoucherRef{ID: *p.PlatformVoucher.ID, Code: p.PlatformVoucher.Code, Discount: g.PlatformShare}
	}
	if g.Shipping != nil {
		o.shipping = ShippingSnapshot{
			MethodID:      g.Shipping.MethodID,
			Code:          g.Shipping.Code,
			Name:          g.Shipping.Name,
			Fee:           g.Shipping.Fee,
			EstimatedFrom: g.Shipping.EstimatedFrom,
			EstimatedTo:   g.Shipping.EstimatedTo,
		}
	}

	o.items = make([]Item, 0, len(g.Items))
	for _, it := range g.Items {
		o.items = append(o.items, Item{
			ID:          kernel.NewUUID(),
			SKUID:       it.SKUID,
			SKUName:     it.SKUName,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice,
			CostPrice:   it.CostPrice,
			Quantity:    it.Quantity,
			WeightGrams: it.WeightGrams,
			LineTotal:   it.LineTotal,
		})
	}

	o.status = Placed
	o.payment = Payment{Method: p.PaymentMethod, Status: PaymentUnpaid, Amount: o.total}
	if p.PaymentMethod.Prepaid() {
		o.status = PendingPayment
		o.payment.Status = PaymentPending
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setBuyerID(p.BuyerID),
		o.setAddress(p.Address),
		o.checkPlacement(g, p.PaymentMethod),
		o.checkAmounts(),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the order was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID               { return o.id }
func (o *Order) Code() string                  { return o.code }
func (o *Order) GroupCode() string             { return o.groupCode }
func (o *Order) DraftCode() string             { return o.draftCode }
func (o *Order) BuyerID() kernel.UUID          { return o.buyerID }
func (o *Order) ShopID() kernel.UUID           { return o.shopID }
func (o *Order) ShopName() string              { return o.shopName }
func (o *Order) SellerID() kernel.UUID         { return o.sellerID }
func (o *Order) Status() Status                { return o.status }
func (o *Order) Currency() string              { return o.currency }
func (o *Order) Address() kernel.Address       { return o.address }
func (o *Order) Note() string                  { return o.note }
func (o *Order) Items() []Item                 { return append([]Item(nil), o.items...) }
func (o *Order) Subtotal() int64               { return o.subtotal }
func (o *Order) ShippingFee() int64            { return o.shippingFee }
func (o *Order) ShopDiscount() int64           { return o.shopDiscount }
func (o *Order) PlatformDiscount() int64       { return o.platformDiscount }
func (o *Order) Total() int64                  { return o.total }
func (o *Order) ShopVoucher() *VoucherRef      { return o.shopVoucher }
func (o *Order) PlatformVoucher() *VoucherRef  { return o.platformVoucher }
func (o *Order) Shipping() ShippingSnapshot    { return o.shipping }
func (o *Order) Payment() Payment              { return o.payment }
func (o *Order) Refunds() []Refund             { return append([]Refund(nil), o.refunds...) }
func (o *Order) CancelRequest() *CancelRequest { return o.cancelRequest }
func (o *Order) ReturnRequest() *ReturnRequest { return o.returnRequest }
func (o *Order) RefundRequest() *RefundRequest { return o.refundRequest }
func (o *Order) Dispute() *Dispute             { return o.dispute }
func (o *Order) Shipment() *Shipment           { return o.shipment }
func (o *Order) PlacedAt() time.Time           { return o.placedAt }
func (o *Order) DeliveredAt() *time.Time       { return o.deliveredAt }
func (o *Order) UpdatedAt() time.Time          { return o.updatedAt }
func (o *Order) Version() int                  { return o.version }

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setBuyerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("order.buyerId", err)
	}
	o.buyerID = id
	return nil
}

func (o *Order) setAddress(a kernel.Address) error {
	if err := a.Validate(); err != nil {
		return err
	}
	o.address = a
	return nil
}

func (o *Order) checkPlacement(g checkout.Group, method PaymentMethod) error {
	var err error
	if o.code == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("order.code"))
	}
	if o.groupCode == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("order.groupCode"))
	}
	if o.currency == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("order.currency"))
	}
	if g.ShopID.Validate() != nil {
		err = errors.Join(err, errs.NewValueIsRequiredError("order.shopId"))
	}
	if len(g.Items) == 0 {
		err = errors.Join(err, errs.NewValueIsRequiredError("order.items"))
	}
	if !g.Shippable() {
		err = errors.Join(err, errs.NewValueIsRequiredError("order.shipping"))
	}
	if _, ok := ParsePaymentMethod(string(method)); !ok {
		err = errors.Join(err, errs.NewValueIsInvalidError("order.paymentMethod"))
	}
	return err
}

func (o *Order) checkAmounts() error {
	want := o.subtotal - o.shopDiscount - o.platformDiscount + o.shippingFee
	if o.total != want || o.total < 0 {
		return errs.NewValueIsOutOfRangeError("order.total", o.total, want, want)
	}
	return nil
}

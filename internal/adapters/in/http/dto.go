package http

import (
	"errors"
	"time"

	"marketplace/internal/core/application/pricing"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/shipping"
	"marketplace/internal/pkg/errs"
)

type lineRequest struct {
	SKUID    string `json:"skuId"`
	Quantity int    `json:"quantity"`
}

// checkoutRequest is the body of shipping-options and draft creation. No items
// means the buyer's cart.
type checkoutRequest struct {
	Items         []lineRequest     `json:"items"`
	AddressID     *string           `json:"addressId"`
	Address       *kernel.Address   `json:"address"`
	VoucherCode   string            `json:"voucherCode"`
	ShopVouchers  map[string]string `json:"shopVouchers"`
	ShippingCodes map[string]string `json:"shippingCodes"`
	Note          string            `json:"note"`
}

func (r checkoutRequest) toInput() (commands.CheckoutInput, error) {
	var err error
	input := commands.CheckoutInput{
		Address:     r.Address,
		VoucherCode: r.VoucherCode,
		Note:        r.Note,
	}

	for _, l := range r.Items {
		id, idErr := kernel.UUIDFromString(l.SKUID)
		if idErr != nil {
			err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("items.skuId", idErr))
			continue
		}
		input.Items = append(input.Items, checkout.Line{SKUID: id, Quantity: l.Quantity})
	}
	if r.AddressID != nil {
		id, idErr := kernel.UUIDFromString(*r.AddressID)
		if idErr != nil {
			err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("addressId", idErr))
		} else {
			input.AddressID = &id
		}
	}

	var mapErr error
	if input.ShopVouchers, mapErr = byShop("shopVouchers", r.ShopVouchers); mapErr != nil {
		err = errors.Join(err, mapErr)
	}
	if input.ShippingCodes, mapErr = byShop("shippingCodes", r.ShippingCodes); mapErr != nil {
		err = errors.Join(err, mapErr)
	}
	if err != nil {
		return commands.CheckoutInput{}, err
	}
	return input, nil
}

func (r checkoutRequest) toPricingRequest(buyerID kernel.UUID) (pricing.Request, error) {
	input, err := r.toInput()
	if err != nil {
		return pricing.Request{}, err
	}
	return pricing.Request{
		BuyerID:       buyerID,
		Items:         input.Items,
		AddressID:     input.AddressID,
		Address:       input.Address,
		VoucherCode:   input.VoucherCode,
		ShopVouchers:  input.ShopVouchers,
		ShippingCodes: input.ShippingCodes,
	}, nil
}

func byShop(param string, in map[string]string) (map[kernel.UUID]string, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[kernel.UUID]string, len(in))
	for raw, v := range in {
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause(param, err)
		}
		out[id] = v
	}
	return out, nil
}

type shippingRequest struct {
	ShopID     string `json:"shopId"`
	OptionCode string `json:"optionCode"`
}

type voucherRequest struct {
	VoucherCode *string `json:"voucherCode"`
}

type shopVoucherRequest struct {
	ShopID      string  `json:"shopId"`
	VoucherCode *string `json:"voucherCode"`
}

type noteRequest struct {
	Note string `json:"note"`
}

type commitRequest struct {
	DraftCode     string `json:"draftCode"`
	PaymentMethod string `json:"paymentMethod"`
}

// actionRequest carries the parameters of every order action; each action reads the
// fields it needs.
type actionRequest struct {
	Reason              string     `json:"reason"`
	Note                string     `json:"note"`
	Message             string     `json:"message"`
	Evidence            []string   `json:"evidence"`
	Carrier             string     `json:"carrier"`
	TrackingNumber      string     `json:"trackingNumber"`
	Reference           string     `json:"reference"`
	Amount              *int64     `json:"amount"`
	RestockingFee       int64      `json:"restockingFee"`
	Outcome             string     `json:"outcome"`
	Resolution          string     `json:"resolution"`
	ShipmentStatus      string     `json:"shipmentStatus"`
	ShipmentDescription string     `json:"shipmentDescription"`
	ShipmentLocation    string     `json:"shipmentLocation"`
	ShipmentOccurredAt  *time.Time `json:"shipmentOccurredAt"`
}

func (r actionRequest) toParams() commands.ActionParams {
	p := commands.ActionParams{
		Reason:              r.Reason,
		Note:                r.Note,
		Message:             r.Message,
		Evidence:            r.Evidence,
		Carrier:             r.Carrier,
		TrackingNumber:      r.TrackingNumber,
		Reference:           r.Reference,
		Amount:              r.Amount,
		RestockingFee:       r.RestockingFee,
		Outcome:             order.DisputeStatus(r.Outcome),
		Resolution:          r.Resolution,
		ShipmentStatus:      r.ShipmentStatus,
		ShipmentDescription: r.ShipmentDescription,
		ShipmentLocation:    r.ShipmentLocation,
	}
	if r.ShipmentOccurredAt != nil {
		p.ShipmentOccurredAt = r.ShipmentOccurredAt.UTC()
	}
	return p
}

type quoteResponse struct {
	Address         kernel.Address            `json:"address"`
	Groups          []checkout.Group          `json:"groups"`
	PlatformVoucher checkout.VoucherSelection `json:"platformVoucher"`
	Totals          checkout.Totals           `json:"totals"`
}

func newQuoteResponse(q pricing.Quote) quoteResponse {
	return quoteResponse{
		Address:         q.Address,
		Groups:          nonNil(q.Groups),
		PlatformVoucher: q.Platform,
		Totals:          q.Totals,
	}
}

type draftResponse struct {
	Code            string                    `json:"code"`
	Status          string                    `json:"status"`
	Currency        string                    `json:"currency"`
	Address         kernel.Address            `json:"address"`
	Lines           []checkout.Line           `json:"lines"`
	Groups          []checkout.Group          `json:"groups"`
	PlatformVoucher checkout.VoucherSelection `json:"platformVoucher"`
	Note            string                    `json:"note,omitempty"`
	Totals          checkout.Totals           `json:"totals"`
	ExpiresAt       time.Time                 `json:"expiresAt"`
	CreatedAt       time.Time                 `json:"createdAt"`
	UpdatedAt       time.Time                 `json:"updatedAt"`
	CommittedAt     *time.Time                `json:"committedAt,omitempty"`
	Version         int                       `json:"version"`
}

func newDraftResponse(d *checkout.Draft) draftResponse {
	return draftResponse{
		Code:            d.Code(),
		Status:          d.Status().String(),
		Currency:        d.Currency(),
		Address:         d.Address(),
		Lines:           nonNil(d.Lines()),
		Groups:          nonNil(d.Groups()),
		PlatformVoucher: d.PlatformVoucher(),
		Note:            d.Note(),
		Totals:          d.Totals(),
		ExpiresAt:       d.ExpiresAt(),
		CreatedAt:       d.CreatedAt(),
		UpdatedAt:       d.UpdatedAt(),
		CommittedAt:     d.CommittedAt(),
		Version:         d.Version(),
	}
}

// newLiveDraftResponse shows a re-quoted draft: a shop that stopped serving the address
// since the draft was priced carries the live shipping error.
func newLiveDraftResponse(resp queries.GetDraftQueryResponse) draftResponse {
	out := newDraftResponse(resp.Draft)
	for i, g := range out.Groups {
		if q, ok := resp.Shipping[g.ShopID]; ok && q.Error != "" {
			out.Groups[i].ShippingError = q.Error
			out.Groups[i].Options = []shipping.Option{}
		}
	}
	return out
}

type itemResponse struct {
	SKUID       kernel.UUID `json:"skuId"`
	SKUName     string      `json:"skuName"`
	ProductID   kernel.UUID `json:"productId"`
	ProductName string      `json:"productName"`
	UnitPrice   int64       `json:"unitPrice"`
	Quantity    int         `json:"quantity"`
	LineTotal   int64       `json:"lineTotal"`
}

type orderResponse struct {
	Code             string                 `json:"code"`
	GroupCode        string                 `json:"groupCode"`
	ShopID           kernel.UUID            `json:"shopId"`
	ShopName         string                 `json:"shopName"`
	BuyerID          kernel.UUID            `json:"buyerId"`
	Status           order.Status           `json:"status"`
	Currency         string                 `json:"currency"`
	Address          kernel.Address         `json:"address"`
	Note             string                 `json:"note,omitempty"`
	Items            []itemResponse         `json:"items"`
	Subtotal         int64                  `json:"subtotal"`
	ShippingFee      int64                  `json:"shippingFee"`
	ShopDiscount     int64                  `json:"shopDiscount"`
	PlatformDiscount int64                  `json:"platformDiscount"`
	Total            int64                  `json:"total"`
	ShopVoucher      *order.VoucherRef      `json:"shopVoucher,omitempty"`
	PlatformVoucher  *order.VoucherRef      `json:"platformVoucher,omitempty"`
	Shipping         order.ShippingSnapshot `json:"shipping"`
	Payment          order.Payment          `json:"payment"`
	Refunds          []order.Refund         `json:"refunds"`
	CancelRequest    *order.CancelRequest   `json:"cancelRequest,omitempty"`
	ReturnRequest    *order.ReturnRequest   `json:"returnRequest,omitempty"`
	RefundRequest    *order.RefundRequest   `json:"refundRequest,omitempty"`
	Dispute          *order.Dispute         `json:"dispute,omitempty"`
	Shipment         *order.Shipment        `json:"shipment,omitempty"`
	PlacedAt         time.Time              `json:"placedAt"`
	DeliveredAt      *time.Time             `json:"deliveredAt,omitempty"`
	UpdatedAt        time.Time              `json:"updatedAt"`
	Version          int                    `json:"version"`
	Actions          []order.Action         `json:"actions,omitempty"`
}

func newOrderResponse(o *order.Order, actions []order.Action) orderResponse {
	s := o.Snapshot()
	items := make([]itemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, itemResponse{
			SKUID:       it.SKUID,
			SKUName:     it.SKUName,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			LineTotal:   it.LineTotal,
		})
	}
	return orderResponse{
		Code:             s.Code,
		GroupCode:        s.GroupCode,
		ShopID:           s.ShopID,
		ShopName:         s.ShopName,
		BuyerID:          s.BuyerID,
		Status:           s.Status,
		Currency:         s.Currency,
		Address:          s.Address,
		Note:             s.Note,
		Items:            items,
		Subtotal:         s.Subtotal,
		ShippingFee:      s.ShippingFee,
		ShopDiscount:     s.ShopDiscount,
		PlatformDiscount: s.PlatformDiscount,
		Total:            s.Total,
		ShopVoucher:      s.ShopVoucher,
		PlatformVoucher:  s.PlatformVoucher,
		Shipping:         s.Shipping,
		Payment:          s.Payment,
		Refunds:          nonNil(s.Refunds),
		CancelRequest:    s.CancelRequest,
		ReturnRequest:    s.ReturnRequest,
		RefundRequest:    s.RefundRequest,
		Dispute:          s.Dispute,
		Shipment:         s.Shipment,
		PlacedAt:         s.PlacedAt,
		DeliveredAt:      s.DeliveredAt,
		UpdatedAt:        s.UpdatedAt,
		Version:          s.Version,
		Actions:          actions,
	}
}

type commitResponse struct {
	GroupCode string          `json:"groupCode"`
	Orders    []orderResponse `json:"orders"`
}

func newCommitResponse(r commands.CommitResult) commitResponse {
	out := commitResponse{GroupCode: r.GroupCode, Orders: make([]orderResponse, 0, len(r.Orders))}
	for _, o := range r.Orders {
		out.Orders = append(out.Orders, newOrderResponse(o, nil))
	}
	return out
}

type orderGroupResponse struct {
	GroupCode        string          `json:"groupCode"`
	Status           order.Status    `json:"status"`
	Orders           []orderResponse `json:"orders"`
	Subtotal         int64           `json:"subtotal"`
	ShippingFee      int64           `json:"shippingFee"`
	ShopDiscount     int64           `json:"shopDiscount"`
	PlatformDiscount int64           `json:"platformDiscount"`
	Total            int64           `json:"total"`
}

func newOrderGroupResponse(r queries.GetOrderGroupQueryResponse) orderGroupResponse {
	out := orderGroupResponse{
		GroupCode:        r.GroupCode,
		Status:           r.Status,
		Orders:           make([]orderResponse, 0, len(r.Orders)),
		Subtotal:         r.Subtotal,
		ShippingFee:      r.ShippingFee,
		ShopDiscount:     r.ShopDiscount,
		PlatformDiscount: r.PlatformDiscount,
		Total:            r.Total,
	}
	for _, o := range r.Orders {
		out.Orders = append(out.Orders, newOrderResponse(o, nil))
	}
	return out
}

type orderSummaryResponse struct {
	Code      string       `json:"code"`
	GroupCode string       `json:"groupCode"`
	ShopID    kernel.UUID  `json:"shopId"`
	ShopName  string       `json:"shopName"`
	Status    order.Status `json:"status"`
	Total     int64        `json:"total"`
	PlacedAt  time.Time    `json:"placedAt"`
}

func newOrderSummaries(rows []queries.ListOrdersQueryResponse) []orderSummaryResponse {
	out := make([]orderSummaryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, orderSummaryResponse(r))
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

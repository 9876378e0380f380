package checkout

import (
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/shipping"
)

// Line is a requested SKU and quantity, from the request body or the cart.
type Line struct {
	SKUID    kernel.UUID `json:"skuId"`
	Quantity int         `json:"quantity"`
}

// Item is the price snapshot of one line.
type Item struct {
	SKUID       kernel.UUID `json:"skuId"`
	SKUName     string      `json:"skuName"`
	ProductID   kernel.UUID `json:"productId"`
	ProductName string      `json:"productName"`
	UnitPrice   int64       `json:"unitPrice"`
	CostPrice   int64       `json:"costPrice"`
	Quantity    int         `json:"quantity"`
	WeightGrams int         `json:"weightGrams"`
	LineTotal   int64       `json:"lineTotal"`
}

// VoucherSelection is a chosen voucher and what it currently yields.
// Notice carries the ineligibility reason of a voucher kept as a remark rather than an error.
type VoucherSelection struct {
	Code     string       `json:"code,omitempty"`
	ID       *kernel.UUID `json:"id,omitempty"`
	Discount int64        `json:"discount"`
	Notice   string       `json:"notice,omitempty"`
}

// Applied reports whether the selection currently discounts anything.
func (s VoucherSelection) Applied() bool {
	return s.ID != nil && s.Notice == ""
}

// Group is the part of a checkout belonging to one shop.
type Group struct {
	ShopID   kernel.UUID `json:"shopId"`
	ShopName string      `json:"shopName"`
	SellerID kernel.UUID `json:"sellerId"`
	Items    []Item      `json:"items"`

	Subtotal    int64 `json:"subtotal"`
	WeightGrams int   `json:"weightGrams"`

	Options       []shipping.Option `json:"options,omitempty"`
	Shipping      *shipping.Option  `json:"shipping,omitempty"`
	ShippingError string            `json:"shippingError,omitempty"`

	ShopVoucher   VoucherSelection `json:"shopVoucher"`
	PlatformShare int64            `json:"platformShare"`
	Total         int64            `json:"total"`
}

// ShopDiscount is the discount of the group's shop voucher.
func (g Group) ShopDiscount() int64 {
	return g.ShopVoucher.Discount
}

// Base is the amount the platform voucher is distributed over.
func (g Group) Base() int64 {
	return max(0, g.Subtotal-g.ShopDiscount())
}

// ShippingFee is the fee of the selected option, 0 when none is selected.
func (g Group) ShippingFee() int64 {
	if g.Shipping == nil {
		return 0
	}
	return g.Shipping.Fee
}

// Shippable reports whether the group has a selection and no shipping error.
func (g Group) Shippable() bool {
	return g.Shipping != nil && g.ShippingError == ""
}

// SKUIDs lists the SKUs of the group.
func (g Group) SKUIDs() []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(g.Items))
	for _, it := range g.Items {
		ids = append(ids, it.SKUID)
	}
	return ids
}

func (g *Group) total() {
	g.Total = g.Subtotal - g.ShopDiscount() - g.PlatformShare + g.ShippingFee()
}

// Totals are the header amounts of a draft, derived from its groups.
type Totals struct {
	Subtotal      int64 `json:"subtotal"`
	ShippingTotal int64 `json:"shippingTotal"`
	DiscountTotal int64 `json:"discountTotal"`
	Total         int64 `json:"total"`
}

// Summarize fills every group total and sums the header.
func Summarize(groups []Group) Totals {
	var t Totals
	for i := range groups {
		groups[i].total()
		g := groups[i]
		t.Subtotal += g.Subtotal
		t.ShippingTotal += g.ShippingFee()
		t.DiscountTotal += g.ShopDiscount() + g.PlatformShare
		t.Total += g.Total
	}
	return t
}

// CloneGroups deep-copies groups so callers cannot alias aggregate state.
func CloneGroups(groups []Group) []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		g.Items = append([]Item(nil), g.Items...)
		g.Options = append([]shipping.Option(nil), g.Options...)
		if g.Shipping != nil {
			s := *g.Shipping
			g.Shipping = &s
		}
		out[i] = g
	}
	return out
}

package services

import (
	"fmt"

	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// ShopGrouper partitions requested lines into one priced group per shop.
//
// Business rules:
//   - Every SKU, its product and its shop must be ACTIVE
//   - The total quantity requested for a SKU must not exceed its stock
//   - Repeated lines of the same SKU are merged
//   - Groups keep the order in which their shops first appear, items keep request order
//
// Example usage:
//
//	grouper := NewShopGrouper()
//	groups, err := grouper.Group(lines, listings)
//	if errors.Is(err, errs.ErrOutOfStock) {
//	    // tell the buyer which SKU ran out
//	}
type ShopGrouper struct{}

// NewShopGrouper creates a new ShopGrouper instance.
func NewShopGrouper() ShopGrouper {
	return ShopGrouper{}
}

// Group validates and prices lines against listings.
//
// Parameters:
//   - lines: requested SKUs and quantities, at least one
//   - listings: the listing of every requested SKU, keyed by SKU id
//
// Returns:
//   - []checkout.Group: one group per shop with items, subtotal and weight; no shipping or vouchers yet
//   - error: ValueIsRequired/ValueIsOutOfRange for bad lines, ObjectNotFound for an unknown SKU,
//     NotSellable or OutOfStock for the first failing SKU
func (ShopGrouper) Group(lines []checkout.Line, listings map[kernel.UUID]catalog.Listing) ([]checkout.Group, error) {
	merged, err := MergeLines(lines)
	if err != nil {
		return nil, err
	}

	groups := make([]checkout.Group, 0)
	index := make(map[kernel.UUID]int)
	for _, line := range merged {
		l, ok := listings[line.SKUID]
		if !ok {
			return nil, errs.NewObjectNotFoundError("sku", line.SKUID.String())
		}
		if err := l.CheckSellable(); err != nil {
			return nil, err
		}
		if err := l.CheckStock(line.Quantity); err != nil {
			return nil, err
		}

		i, seen := index[l.ShopID]
		if !seen {
			i = len(groups)
			index[l.ShopID] = i
			groups = append(groups, checkout.Group{
				ShopID:   l.ShopID,
				ShopName: l.ShopName,
				SellerID: l.SellerID,
			})
		}

		item := checkout.Item{
			SKUID:       l.SKUID,
			SKUName:     l.SKUName,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitPrice:   l.UnitPrice(),
			CostPrice:   l.CostPrice,
			Quantity:    line.Quantity,
			WeightGrams: l.WeightGrams,
			LineTotal:   l.UnitPrice() * int64(line.Quantity),
		}
		g := &groups[i]
		g.Items = append(g.Items, item)
		g.Subtotal += item.LineTotal
		g.WeightGrams += item.WeightGrams * item.Quantity
	}

	return groups, nil
}

// MaxLineQuantity bounds the quantity of one SKU in one checkout.
const MaxLineQuantity = 999

// MergeLines validates lines and sums the quantities of repeated SKUs, keeping first-seen order.
func MergeLines(lines []checkout.Line) ([]checkout.Line, error) {
	if len(lines) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}

	out := make([]checkout.Line, 0, len(lines))
	index := make(map[kernel.UUID]int)
	for i, line := range lines {
		if err := line.SKUID.Validate(); err != nil {
			return nil, errs.NewValueIsRequiredErrorWithCause(fmt.Sprintf("items[%d].skuId", i), err)
		}
		if line.Quantity <= 0 || line.Quantity > MaxLineQuantity {
			return nil, errs.NewValueIsOutOfRangeError(fmt.Sprintf("items[%d].quantity", i), line.Quantity, 1, MaxLineQuantity)
		}
		if j, ok := index[line.SKUID]; ok {
			out[j].Quantity += line.Quantity
			if out[j].Quantity > MaxLineQuantity {
				return nil, errs.NewValueIsOutOfRangeError("quantity of sku "+line.SKUID.String(), out[j].Quantity, 1, MaxLineQuantity)
			}
			continue
		}
		index[line.SKUID] = len(out)
		out = append(out, line)
	}
	return out, nil
}

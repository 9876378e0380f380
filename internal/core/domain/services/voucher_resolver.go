package services

import (
	"strings"
	"time"

	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/voucher"
)

// VoucherResolver evaluates the vouchers selected for a checkout.
//
// Business rules:
//   - Shop vouchers are evaluated first, each against its own group's subtotal
//   - The platform voucher is evaluated once against the platform base, Σ(subtotal − shopDiscount)
//   - A voucher of the wrong scope or of another shop is ineligible, never silently moved
//   - An ineligible voucher yields discount 0 and carries its reason as the selection's notice
type VoucherResolver struct{}

// NewVoucherResolver creates a new VoucherResolver instance.
func NewVoucherResolver() VoucherResolver {
	return VoucherResolver{}
}

// NormalizeCode is how voucher codes are compared and stored.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ResolveShopVoucher evaluates v, the voucher found for code, against group g.
//
// Parameters:
//   - code: the requested code
//   - v: the stored voucher for code, nil when none exists
//   - g: the group the voucher should discount
//   - spend: the buyer's spend with g's shop
//   - now: the evaluation time
//
// Returns:
//   - checkout.VoucherSelection: the selection to store on the group
//   - voucher.Evaluation: the raw outcome, for callers that must fail on ineligibility
func (VoucherResolver) ResolveShopVoucher(
	code string, v *voucher.Voucher, g checkout.Group, spend voucher.Spend, now time.Time,
) (checkout.VoucherSelection, voucher.Evaluation) {
	var eval voucher.Evaluation
	switch {
	case v == nil:
		eval = voucher.NotFound()
	case v.Scope != voucher.ScopeShop || v.ShopID == nil || !v.ShopID.IsEqual(g.ShopID):
		eval = voucher.WrongShop()
	default:
		eval = v.Evaluate(g.Subtotal, now, spend)
	}
	return selection(code, v, eval), eval
}

// ResolvePlatformVoucher evaluates v, the voucher found for code, against the platform base of groups.
// The groups must already carry their shop discounts.
func (VoucherResolver) ResolvePlatformVoucher(
	code string, v *voucher.Voucher, groups []checkout.Group, spend voucher.Spend, now time.Time,
) (checkout.VoucherSelection, voucher.Evaluation) {
	var eval voucher.Evaluation
	switch {
	case v == nil || v.Scope != voucher.ScopePlatform:
		eval = voucher.NotFound()
	default:
		eval = v.Evaluate(PlatformBase(groups), now, spend)
	}
	return selection(code, v, eval), eval
}

// PlatformBase is Σ(subtotal − shopDiscount) over groups.
func PlatformBase(groups []checkout.Group) int64 {
	var base int64
	for _, g := range groups {
		base += g.Base()
	}
	return base
}

func selection(code string, v *voucher.Voucher, eval voucher.Evaluation) checkout.VoucherSelection {
	s := checkout.VoucherSelection{Code: NormalizeCode(code)}
	if v != nil {
		id := v.ID
		s.ID = &id
	}
	if eval.Eligible {
		s.Discount = eval.Discount
	} else {
		s.Notice = eval.Reason
	}
	return s
}

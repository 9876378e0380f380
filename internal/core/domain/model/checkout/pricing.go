package checkout

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// CheckPricing verifies the money invariants of groups priced with platform.
func CheckPricing(groups []Group, platform VoucherSelection) error {
	var shares int64
	for _, g := range groups {
		var lines int64
		for _, it := range g.Items {
			lines += it.LineTotal
		}
		if lines != g.Subtotal {
			return errs.NewValueIsInvalidErrorWithCause("group.subtotal",
				fmt.Errorf("shop %s: items sum to %d, subtotal is %d", g.ShopID, lines, g.Subtotal))
		}
		if d := g.ShopDiscount(); d < 0 || d > g.Subtotal {
			return errs.NewValueIsOutOfRangeError("group.shopDiscount", d, 0, g.Subtotal)
		}
		if g.PlatformShare < 0 || g.PlatformShare > g.Base() {
			return errs.NewValueIsOutOfRangeError("group.platformShare", g.PlatformShare, 0, g.Base())
		}
		shares += g.PlatformShare
	}

	if shares != platform.Discount {
		return errs.NewValueIsInvalidErrorWithCause("platformDiscount",
			fmt.Errorf("shares sum to %d, discount is %d", shares, platform.Discount))
	}
	return nil
}

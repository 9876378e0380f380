package services

import (
	"fmt"

	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// AllocatePlatformDiscount splits discount across bases proportionally.
//
// Parameters:
//   - bases: the platform base of each group, in group order
//   - discount: the platform discount, at most Σbases
//
// Returns:
//   - []int64: one share per base; shares sum exactly to discount and no share exceeds its base
//   - error: ValueIsOutOfRange when discount is negative or exceeds Σbases
//
// Algorithm:
//   - share_i = floor(discount * base_i / Σbases) for every group but the last
//   - the last group takes the remainder
//   - if the remainder exceeds the last base, the excess moves to earlier groups, last first,
//     within what each still has room for
func AllocatePlatformDiscount(bases []int64, discount int64) ([]int64, error) {
	shares := make([]int64, len(bases))

	var total int64
	for i, b := range bases {
		if b < 0 {
			return nil, errs.NewValueIsOutOfRangeError(fmt.Sprintf("bases[%d]", i), b, 0, "unbounded")
		}
		total += b
	}
	if discount < 0 || discount > total {
		return nil, errs.NewValueIsOutOfRangeError("platformDiscount", discount, 0, total)
	}
	if discount == 0 {
		return shares, nil
	}

	d := decimal.NewFromInt(discount)
	t := decimal.NewFromInt(total)
	last := len(bases) - 1
	var allocated int64
	for i := 0; i < last; i++ {
		q, _ := d.Mul(decimal.NewFromInt(bases[i])).QuoRem(t, 0)
		shares[i] = q.IntPart()
		allocated += shares[i]
	}
	shares[last] = discount - allocated

	if excess := shares[last] - bases[last]; excess > 0 {
		shares[last] = bases[last]
		for i := last - 1; i >= 0 && excess > 0; i-- {
			move := min(excess, bases[i]-shares[i])
			shares[i] += move
			excess -= move
		}
	}

	return shares, nil
}

// DistributePlatformDiscount sets every group's platform share from platform.
// An unapplied selection clears all shares.
func DistributePlatformDiscount(groups []checkout.Group, platform checkout.VoucherSelection) error {
	discount := int64(0)
	if platform.Applied() {
		discount = platform.Discount
	}

	bases := make([]int64, len(groups))
	for i, g := range groups {
		bases[i] = g.Base()
	}
	shares, err := AllocatePlatformDiscount(bases, discount)
	if err != nil {
		return err
	}
	for i := range groups {
		groups[i].PlatformShare = shares[i]
	}
	return nil
}

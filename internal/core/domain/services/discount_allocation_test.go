package services_test

import (
	"math/rand/v2"
	"testing"

	"marketplace/internal/core/domain/model/checkout"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocatePlatformDiscount(t *testing.T) {
	tests := []struct {
		name     string
		bases    []int64
		discount int64
		want     []int64
	}{
		{"proportional", []int64{300000, 100000}, 50000, []int64{37500, 12500}},
		{"remainder to the last group", []int64{1, 2, 3}, 3, []int64{0, 1, 2}},
		{"remainder beyond the last base moves backward", []int64{1, 1, 1}, 2, []int64{0, 1, 1}},
		{"excess fills the nearest group first", []int64{10, 10, 1}, 20, []int64{9, 10, 1}},
		{"zero discount", []int64{5, 5}, 0, []int64{0, 0}},
		{"whole base", []int64{7, 3}, 10, []int64{7, 3}},
		{"empty base group", []int64{100, 0}, 30, []int64{30, 0}},
		{"no groups", nil, 0, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := services.AllocatePlatformDiscount(tt.bases, tt.discount)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllocatePlatformDiscount_Invalid(t *testing.T) {
	_, err := services.AllocatePlatformDiscount([]int64{10}, 11)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = services.AllocatePlatformDiscount([]int64{10}, -1)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = services.AllocatePlatformDiscount([]int64{-1, 10}, 1)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestAllocatePlatformDiscount_NoDrift(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for range 500 {
		bases := make([]int64, 1+r.IntN(6))
		var total int64
		for i := range bases {
			bases[i] = r.Int64N(5_000_000)
			total += bases[i]
		}
		discount := int64(0)
		if total > 0 {
			discount = r.Int64N(total + 1)
		}

		shares, err := services.AllocatePlatformDiscount(bases, discount)
		require.NoError(t, err)

		var sum int64
		for i, s := range shares {
			assert.GreaterOrEqual(t, s, int64(0))
			assert.LessOrEqual(t, s, bases[i])
			sum += s
		}
		assert.Equal(t, discount, sum, "bases %v discount %d", bases, discount)
	}
}

func TestDistributePlatformDiscount(t *testing.T) {
	id := kernel.NewUUID()
	groups := []checkout.Group{{Subtotal: 300000}, {Subtotal: 100000}}

	require.NoError(t, services.DistributePlatformDiscount(groups, checkout.VoucherSelection{ID: &id, Discount: 50000}))
	assert.Equal(t, int64(37500), groups[0].PlatformShare)
	assert.Equal(t, int64(12500), groups[1].PlatformShare)

	require.NoError(t, services.DistributePlatformDiscount(groups, checkout.VoucherSelection{ID: &id, Discount: 50000, Notice: "EXPIRED"}))
	assert.Zero(t, groups[0].PlatformShare)
	assert.Zero(t, groups[1].PlatformShare)
}

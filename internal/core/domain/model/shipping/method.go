package shipping

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// Default method codes bootstrapped for shops that configured nothing.
const (
	CodeStandard = "STANDARD"
	CodeFast     = "FAST"
)

// Method is one delivery configuration of a shop.
type Method struct {
	ID               kernel.UUID
	ShopID           kernel.UUID
	Code             string
	Name             string
	BaseFee          int64
	FreeShippingOver *int64 // fee is waived when the group subtotal reaches it
	MinDays          int
	MaxDays          int
	MaxWeightGrams   *int
	Zones            []Zone // empty means unrestricted; otherwise any zone may match
	Active           bool
}

// Validate checks the configuration a shop submitted.
func (m Method) Validate() error {
	var err error
	if m.Code == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("shipping.code"))
	}
	if m.BaseFee < 0 {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("shipping.baseFee", fmt.Errorf("%d is negative", m.BaseFee)))
	}
	if m.MinDays < 0 || m.MaxDays < m.MinDays {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("shipping.maxDays", m.MaxDays, m.MinDays, "unbounded"))
	}
	return err
}

// Serves reports whether the method delivers to dest.
func (m Method) Serves(dest kernel.Destination) bool {
	if len(m.Zones) == 0 {
		return true
	}
	for _, z := range m.Zones {
		if z.Matches(dest) {
			return true
		}
	}
	return false
}

// Carries reports whether a parcel of weightGrams is within the method's limit.
func (m Method) Carries(weightGrams int) bool {
	return m.MaxWeightGrams == nil || weightGrams <= *m.MaxWeightGrams
}

// Fee is the base fee, or 0 when subtotal reaches the free-shipping threshold.
func (m Method) Fee(subtotal int64) int64 {
	if m.FreeShippingOver != nil && subtotal >= *m.FreeShippingOver {
		return 0
	}
	return m.BaseFee
}

// Option prices the method for one group.
func (m Method) Option(subtotal int64, now time.Time) Option {
	return Option{
		MethodID:      m.ID,
		Code:          m.Code,
		Name:          m.Name,
		Fee:           m.Fee(subtotal),
		MinDays:       m.MinDays,
		MaxDays:       m.MaxDays,
		EstimatedFrom: now.AddDate(0, 0, m.MinDays),
		EstimatedTo:   now.AddDate(0, 0, m.MaxDays),
	}
}

// DefaultMethods are created for a shop with no active method, so no shop is ever unreachable.
func DefaultMethods(shopID kernel.UUID) []Method {
	return []Method{
		{
			ID:      kernel.NewUUID(),
			ShopID:  shopID,
			Code:    CodeStandard,
			Name:    "Standard delivery",
			BaseFee: 30000,
			MinDays: 3,
			MaxDays: 5,
			Active:  true,
		},
		{
			ID:      kernel.NewUUID(),
			ShopID:  shopID,
			Code:    CodeFast,
			Name:    "Fast delivery",
			BaseFee: 50000,
			MinDays: 1,
			MaxDays: 2,
			Active:  true,
		},
	}
}

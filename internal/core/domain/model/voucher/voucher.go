package voucher

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Type is the discount computation of a voucher.
type Type string

const (
	Percent Type = "PERCENT"
	Fixed   Type = "FIXED"
)

// Scope tells platform vouchers from shop vouchers.
type Scope string

const (
	ScopePlatform Scope = "PLATFORM"
	ScopeShop     Scope = "SHOP"
)

// Reasons reported for an ineligible voucher.
const (
	ReasonNotFound          = "NOT_FOUND"
	ReasonWrongShop         = "WRONG_SHOP"
	ReasonInactive          = "INACTIVE"
	ReasonNotStarted        = "NOT_STARTED"
	ReasonExpired           = "EXPIRED"
	ReasonUsageExhausted    = "USAGE_EXHAUSTED"
	ReasonMinSubtotalNotMet = "MIN_SUBTOTAL_NOT_MET"
	ReasonMonthSpendNotMet  = "MONTH_SPEND_NOT_MET"
	ReasonYearSpendNotMet   = "YEAR_SPEND_NOT_MET"
)

// Voucher is a platform or shop voucher as stored.
type Voucher struct {
	ID          kernel.UUID
	Code        string
	Scope       Scope
	ShopID      *kernel.UUID // set for ScopeShop
	Type        Type
	Value       int64 // amount for Fixed, percentage for Percent
	MinSubtotal int64
	MaxDiscount *int64
	UsageLimit  *int // nil is unlimited
	UsedCount   int
	StartsAt    *time.Time
	EndsAt      *time.Time
	Active      bool

	MinBuyerSpendMonth *int64
	MinBuyerSpendYear  *int64
}

// Spend is what the buyer has spent in the current calendar month and year,
// with one shop for shop vouchers or platform-wide for platform vouchers.
type Spend struct {
	Month int64
	Year  int64
}

// Evaluation is the outcome of checking a voucher against a subtotal.
type Evaluation struct {
	Eligible bool
	Discount int64
	Reason   string
}

// NeedsSpend reports whether evaluating v requires the buyer's spend.
func (v Voucher) NeedsSpend() bool {
	return v.MinBuyerSpendMonth != nil || v.MinBuyerSpendYear != nil
}

// Validate checks a voucher definition.
func (v Voucher) Validate() error {
	var err error
	if v.Code == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("voucher.code"))
	}
	if v.Type != Percent && v.Type != Fixed {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("voucher.type", fmt.Errorf("%q is not PERCENT or FIXED", v.Type)))
	}
	if v.Type == Percent && (v.Value < 0 || v.Value > 100) {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("voucher.value", v.Value, 0, 100))
	}
	if v.Value < 0 {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("voucher.value", fmt.Errorf("%d is negative", v.Value)))
	}
	if v.Scope == ScopeShop && v.ShopID == nil {
		err = errors.Join(err, errs.NewValueIsRequiredError("voucher.shopId"))
	}
	return err
}

// Evaluate checks validity, usage, minimum subtotal and loyalty thresholds in that order
// and prices the voucher against subtotal.
func (v Voucher) Evaluate(subtotal int64, now time.Time, spend Spend) Evaluation {
	switch {
	case !v.Active:
		return ineligible(ReasonInactive)
	case v.StartsAt != nil && now.Before(*v.StartsAt):
		return ineligible(ReasonNotStarted)
	case v.EndsAt != nil && !now.Before(*v.EndsAt):
		return ineligible(ReasonExpired)
	case v.UsageLimit != nil && v.UsedCount >= *v.UsageLimit:
		return ineligible(ReasonUsageExhausted)
	case subtotal < v.MinSubtotal:
		return ineligible(ReasonMinSubtotalNotMet)
	case v.MinBuyerSpendMonth != nil && spend.Month < *v.MinBuyerSpendMonth:
		return ineligible(ReasonMonthSpendNotMet)
	case v.MinBuyerSpendYear != nil && spend.Year < *v.MinBuyerSpendYear:
		return ineligible(ReasonYearSpendNotMet)
	}

	return Evaluation{Eligible: true, Discount: v.Discount(subtotal)}
}

// Discount prices the voucher: Value for Fixed, floor(subtotal*Value/100) capped
// at MaxDiscount for Percent, always clamped to [0, subtotal].
func (v Voucher) Discount(subtotal int64) int64 {
	if subtotal <= 0 {
		return 0
	}

	var discount int64
	switch v.Type {
	case Fixed:
		discount = v.Value
	case Percent:
		q, _ := decimal.NewFromInt(subtotal).Mul(decimal.NewFromInt(v.Value)).QuoRem(decimal.NewFromInt(100), 0)
		discount = q.IntPart()
		if v.MaxDiscount != nil && discount > *v.MaxDiscount {
			discount = *v.MaxDiscount
		}
	}

	return min(max(discount, 0), subtotal)
}

// Error turns a failed evaluation into a validation error for explicit requests.
func (e Evaluation) Error(code string) error {
	if e.Eligible {
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("voucher "+code, errors.New(e.Reason))
}

func ineligible(reason string) Evaluation {
	return Evaluation{Reason: reason}
}

// NotFound is the evaluation of a code that resolves to no usable voucher.
func NotFound() Evaluation {
	return ineligible(ReasonNotFound)
}

// WrongShop is the evaluation of a shop voucher applied to another shop's group.
func WrongShop() Evaluation {
	return ineligible(ReasonWrongShop)
}

// Package voucher models discount instruments: platform vouchers issued by the
// marketplace and shop vouchers issued by one shop.
//
// Evaluate never fails. It reports eligibility, the discount and, when
// ineligible, a stable reason code. Callers decide whether an ineligible voucher
// is an error (an explicit override) or a notice (a stored selection).
package voucher

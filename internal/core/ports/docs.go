// Package ports defines the contracts between the checkout core and its infrastructure:
// repositories bound to a unit of work, the payment gateway, the notification sink
// and the idempotency store.
//
// Conditional updates report whether they applied instead of failing, so the caller
// decides which business error a lost race becomes.
package ports

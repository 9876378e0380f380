// Package order provides the Order aggregate: one shop's share of a committed
// checkout, and the multi-actor state machine that drives it to a terminal status.
//
// The package includes:
//   - Order: the aggregate root with its items, payment, refunds and request satellites
//   - Status: the lifecycle states and their persisted names
//   - Actor and Role: who performs a transition, checked against a per-action rule table
//   - Effects: inventory and refund consequences a transition asks the caller to carry out
//
// State graph:
//
//	PENDING_PAYMENT ─┬─> PLACED ─> CONFIRMED ─> PACKING ─> SHIPPED ─> DELIVERED ─> COMPLETED
//	                 │     │           │            │                     │
//	                 └─────┴──> CANCELLED <── CANCEL_REQUESTED <──────────┘ (from CONFIRMED, PACKING)
//
//	DELIVERED | DISPUTED ─> RETURN_REQUESTED ─> RETURN_APPROVED ─> RETURN_RECEIVED
//	                                        └─> RETURN_REJECTED
//	DELIVERED | DISPUTED ─> REFUND_REQUESTED ─> REFUNDED
//	DELIVERED | COMPLETED | RETURN_REJECTED ─> DISPUTED
//
// Key business rules:
//   - A buyer cancels for free before confirmation; afterwards until shipping the seller must approve
//   - Nothing can be cancelled once shipped; returns, refunds and disputes take over
//   - Disputes open within a window counted from delivery, once per order
//   - A finalized dispute may be revised once, and only after a revision request
//   - Ownership mismatches are reported as not found, role mismatches as forbidden
package order

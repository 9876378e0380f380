// Package checkout contains the Draft aggregate: a priced, per-shop split of a
// buyer's cart that lives for a fixed time until it is committed into orders.
//
// A Draft owns the money invariants of a checkout:
//
//	Σ group.Subtotal = Subtotal
//	Σ group.ShopDiscount + Σ group.PlatformShare = DiscountTotal
//	0 ≤ group.ShopDiscount ≤ group.Subtotal
//	0 ≤ group.PlatformShare ≤ group.Subtotal − group.ShopDiscount
//
// Pricing is computed by domain services and handed to the draft, which checks
// these invariants before accepting it.
package checkout

// Package pricing resolves what a checkout request refers to and prices it: the
// destination, the lines, the per-shop groups, their shipping options and their vouchers.
//
// Commands and queries share the pipeline so a quote, a new draft and a repriced draft
// always agree. The pipeline only reads, except for bootstrapping default shipping
// methods of shops that have none.
package pricing

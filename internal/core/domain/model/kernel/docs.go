// Package kernel provides the primitives shared by every marketplace aggregate.
//
// The package includes:
//   - UUID: identifier value object wrapping github.com/google/uuid
//   - Address: postal address snapshot used by drafts and orders
//   - Fold: case and diacritic folding used to compare place names
//   - NewCode: human-readable codes for drafts, orders and order groups
//
// Values in this package are immutable and safe for concurrent use.
package kernel

// Package services provides domain services that work across several aggregates of the
// checkout: they turn catalog listings, shipping methods and vouchers into priced groups.
//
// The package includes:
//   - ShopGrouper: partitions requested lines by shop and prices them
//   - ShippingQuoter: ranks a shop's shipping methods for a destination
//   - VoucherResolver: evaluates shop and platform vouchers
//   - AllocatePlatformDiscount: splits the platform discount across groups without rounding drift
//   - SummarizeGroupStatus: derives one display status for the orders of a checkout
//
// Services are pure: they read what the application layer loaded and never touch storage.
package services

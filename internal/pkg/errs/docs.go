// Package errs provides standardized error types for the marketplace checkout engine.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: validation failures
//   - ObjectNotFoundError: a missing object, or one the caller does not own
//   - StateConflictError: an action the current lifecycle state does not allow
//   - ResourceConflictError: a lost race on stock, voucher usage or an idempotency key
//   - ExpiredError: a checkout draft whose time to live has elapsed
//   - ForbiddenError: an actor role that may not perform an action
//   - NotSellableError and OutOfStockError: catalog checks, classified as
//     validation and resource conflict respectively
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// Kind maps any error onto a small set of stable kinds that transport adapters
// translate into status codes, and ReplayedError rebuilds a stored failure.
package errs

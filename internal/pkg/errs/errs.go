package errs

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrObjectNotFound    = errors.New("object not found")
	ErrValueIsInvalid    = errors.New("value is invalid")
	ErrValueIsOutOfRange = errors.New("value is out of range")
	ErrValueIsRequired   = errors.New("value is required")
	ErrStateConflict     = errors.New("state conflict")
	ErrResourceConflict  = errors.New("resource conflict")
	ErrExpired           = errors.New("expired")
	ErrForbidden         = errors.New("forbidden")
	ErrNotSellable       = errors.New("not sellable")
	ErrOutOfStock        = errors.New("out of stock")
)

// ObjectNotFoundError reports a missing object, or one the caller does not own.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)", ErrObjectNotFound, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError reports a malformed input value.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports a value outside [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string, value, minValue, maxValue any, cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s",
		ErrValueIsInvalid, sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max))
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError reports a missing input value.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// StateConflictError reports an action that the current lifecycle state does not allow.
type StateConflictError struct {
	Action string
	State  string
}

func NewStateConflictError(action, state string) *StateConflictError {
	return &StateConflictError{Action: action, State: state}
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("%s: %s is not allowed in %s", ErrStateConflict, e.Action, e.State)
}

func (e *StateConflictError) Unwrap() error {
	return ErrStateConflict
}

// ResourceConflictError reports a lost race on a shared resource.
type ResourceConflictError struct {
	Resource string
	Reason   string
	Cause    error
}

func NewResourceConflictError(resource, reason string) *ResourceConflictError {
	return &ResourceConflictError{Resource: resource, Reason: reason}
}

func NewResourceConflictErrorWithCause(resource, reason string, cause error) *ResourceConflictError {
	return &ResourceConflictError{Resource: resource, Reason: reason, Cause: cause}
}

func (e *ResourceConflictError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s (cause: %v)", ErrResourceConflict, e.Resource, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", ErrResourceConflict, e.Resource, e.Reason)
}

func (e *ResourceConflictError) Unwrap() error {
	return ErrResourceConflict
}

// ExpiredError reports an object whose time to live has elapsed.
type ExpiredError struct {
	ParamName string
	ExpiredAt time.Time
}

func NewExpiredError(paramName string, expiredAt time.Time) *ExpiredError {
	return &ExpiredError{ParamName: paramName, ExpiredAt: expiredAt}
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("%s: %s expired at %s", ErrExpired, e.ParamName, e.ExpiredAt.UTC().Format(time.RFC3339))
}

func (e *ExpiredError) Unwrap() error {
	return ErrExpired
}

// ForbiddenError reports an actor role that may not perform an action.
type ForbiddenError struct {
	Action string
	Role   string
}

func NewForbiddenError(action, role string) *ForbiddenError {
	return &ForbiddenError{Action: action, Role: role}
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s: %s may not %s", ErrForbidden, e.Role, e.Action)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// NotSellableError is a validation error: the SKU, its product or its shop is not active.
type NotSellableError struct {
	SKUID  string
	Reason string
}

func NewNotSellableError(skuID, reason string) *NotSellableError {
	return &NotSellableError{SKUID: skuID, Reason: reason}
}

func (e *NotSellableError) Error() string {
	return fmt.Sprintf("%s: sku %s: %s", ErrNotSellable, e.SKUID, e.Reason)
}

func (e *NotSellableError) Unwrap() []error {
	return []error{ErrNotSellable, ErrValueIsInvalid}
}

// OutOfStockError is a resource conflict: the requested quantity exceeds the stock.
type OutOfStockError struct {
	SKUID     string
	Requested int
	Available int
}

func NewOutOfStockError(skuID string, requested, available int) *OutOfStockError {
	return &OutOfStockError{SKUID: skuID, Requested: requested, Available: available}
}

func (e *OutOfStockError) Error() string {
	if e.Available < 0 {
		return fmt.Sprintf("%s: sku %s: requested %d", ErrOutOfStock, e.SKUID, e.Requested)
	}
	return fmt.Sprintf("%s: sku %s: requested %d, available %d", ErrOutOfStock, e.SKUID, e.Requested, e.Available)
}

func (e *OutOfStockError) Unwrap() []error {
	return []error{ErrOutOfStock, ErrResourceConflict}
}

func sanitize(v any) string {
	return strings.ReplaceAll(fmt.Sprintf("%v", v), "\n", " ")
}

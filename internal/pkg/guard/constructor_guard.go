// Package guard provides ConstructorGuard, a marker embedded in value objects,
// commands and aggregates to tell constructor-built values from zero values.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard records whether the enclosing value was created through its constructor.
// The zero value is "not constructed".
//
// Example usage:
//
//	var ErrLineNotConstructed = errors.New("Line must be created via NewLine")
//
//	type Line struct {
//	    skuID    kernel.UUID
//	    quantity int
//	    guard    guard.ConstructorGuard
//	}
//
//	func (l Line) Validate() error {
//	    return l.guard.Validate(ErrLineNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard. Otherwise it returns validationError,
// or ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}

package order

import (
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// Role is the closed set of actors of the state machine.
type Role string

const (
	RoleBuyer  Role = "BUYER"
	RoleSeller Role = "SELLER"
	RoleAdmin  Role = "ADMIN"
)

// ParseRole accepts the three role names.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return r, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not BUYER, SELLER or ADMIN", s))
	}
}

// Actor is the authenticated caller of a transition. ShopID is set for sellers.
type Actor struct {
	UserID kernel.UUID
	Role   Role
	ShopID *kernel.UUID
}

// NewActor validates the combination of user, role and shop.
func NewActor(userID kernel.UUID, role Role, shopID *kernel.UUID) (Actor, error) {
	if err := userID.Validate(); err != nil {
		return Actor{}, errs.NewValueIsRequiredErrorWithCause("actor.userId", err)
	}
	if _, err := ParseRole(string(role)); err != nil {
		return Actor{}, err
	}
	if role == RoleSeller && shopID == nil {
		return Actor{}, errs.NewValueIsRequiredError("actor.shopId")
	}
	return Actor{UserID: userID, Role: role, ShopID: shopID}, nil
}

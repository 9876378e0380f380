package queries

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrGetOrderGroupQueryIsNotConstructed = errors.New(
	"GetOrderGroupQuery must be created via NewGetOrderGroupQuery constructor",
)

// GetOrderGroupQuery reads every order produced by one checkout.
type GetOrderGroupQuery struct {
	actor     order.Actor
	groupCode string

	guard guard.ConstructorGuard
}

func NewGetOrderGroupQuery(actor order.Actor, groupCode string) (GetOrderGroupQuery, error) {
	groupCode = strings.TrimSpace(groupCode)
	if groupCode == "" {
		return GetOrderGroupQuery{}, errs.NewValueIsRequiredError("groupCode")
	}
	return GetOrderGroupQuery{actor: actor, groupCode: groupCode, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderGroupQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderGroupQueryIsNotConstructed)
}

func (q GetOrderGroupQuery) Actor() order.Actor { return q.actor }
func (q GetOrderGroupQuery) GroupCode() string  { return q.groupCode }

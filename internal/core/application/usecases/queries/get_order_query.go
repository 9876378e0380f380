package queries

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

type GetOrderQuery struct {
	actor     order.Actor
	orderCode string

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(actor order.Actor, orderCode string) (GetOrderQuery, error) {
	orderCode = strings.TrimSpace(orderCode)
	if orderCode == "" {
		return GetOrderQuery{}, errs.NewValueIsRequiredError("orderCode")
	}
	return GetOrderQuery{actor: actor, orderCode: orderCode, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) Actor() order.Actor { return q.actor }
func (q GetOrderQuery) OrderCode() string  { return q.orderCode }

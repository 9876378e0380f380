package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

const (
	DefaultListOrdersLimit = 20
	MaxListOrdersLimit     = 100
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery pages through the orders an actor can see, newest first.
// Buyers see their purchases, sellers the orders of their shop, admins everything.
type ListOrdersQuery struct {
	actor  order.Actor
	status *order.Status
	limit  int
	offset int

	guard guard.ConstructorGuard
}

// NewListOrdersQuery builds the query. A zero limit means DefaultListOrdersLimit.
func NewListOrdersQuery(actor order.Actor, status *order.Status, limit, offset int) (ListOrdersQuery, error) {
	var err error
	if status != nil {
		if vErr := status.Validate(); vErr != nil {
			err = errors.Join(err, vErr)
		}
	}
	if limit == 0 {
		limit = DefaultListOrdersLimit
	}
	if limit < 1 || limit > MaxListOrdersLimit {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxListOrdersLimit))
	}
	if offset < 0 {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("offset", offset, 0, "unbounded"))
	}
	if err != nil {
		return ListOrdersQuery{}, err
	}
	return ListOrdersQuery{
		actor:  actor,
		status: status,
		limit:  limit,
		offset: offset,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Actor() order.Actor    { return q.actor }
func (q ListOrdersQuery) Status() *order.Status { return q.status }
func (q ListOrdersQuery) Limit() int            { return q.limit }
func (q ListOrdersQuery) Offset() int           { return q.offset }

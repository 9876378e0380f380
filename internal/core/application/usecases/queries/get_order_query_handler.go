package queries

import (
	"context"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// GetOrderQueryResponse is an order together with the actions its reader may perform next.
type GetOrderQueryResponse struct {
	Order   *order.Order
	Actions []order.Action
}

type GetOrderQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetOrderQueryHandler(uowFactory ports.UnitOfWorkFactory) GetOrderQueryHandler {
	return GetOrderQueryHandler{uowFactory: uowFactory}
}

// Handle loads the order. An order the actor may not see is reported as not found,
// the same as one that does not exist.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	o, err := h.uowFactory.Create().OrderRepository().GetByCode(ctx, query.OrderCode())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	if !o.VisibleTo(query.Actor()) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderCode())
	}
	return GetOrderQueryResponse{Order: o, Actions: o.Allowed(query.Actor())}, nil
}

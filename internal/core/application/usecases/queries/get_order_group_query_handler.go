package queries

import (
	"context"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// GetOrderGroupQueryResponse sums the orders of a group the reader can see.
type GetOrderGroupQueryResponse struct {
	GroupCode        string
	Status           order.Status
	Orders           []*order.Order
	Subtotal         int64
	ShippingFee      int64
	ShopDiscount     int64
	PlatformDiscount int64
	Total            int64
}

// GetOrderGroupQueryHandler returns a checkout's orders and the status a buyer sees for the
// checkout as a whole.
//
// Parameters:
//   - ctx: request context
//   - query: a query built by NewGetOrderGroupQuery
//
// Returns:
//   - the visible orders ordered by code, their totals and the summarized status
//   - ObjectNotFoundError when the actor sees none of them
type GetOrderGroupQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetOrderGroupQueryHandler(uowFactory ports.UnitOfWorkFactory) GetOrderGroupQueryHandler {
	return GetOrderGroupQueryHandler{uowFactory: uowFactory}
}

func (h GetOrderGroupQueryHandler) Handle(
	ctx context.Context, query GetOrderGroupQuery,
) (GetOrderGroupQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderGroupQueryResponse{}, err
	}

	orders, err := h.uowFactory.Create().OrderRepository().ListByGroupCode(ctx, query.GroupCode())
	if err != nil {
		return GetOrderGroupQueryResponse{}, err
	}

	resp := GetOrderGroupQueryResponse{GroupCode: query.GroupCode()}
	statuses := make([]order.Status, 0, len(orders))
	for _, o := range orders {
		if !o.VisibleTo(query.Actor()) {
			continue
		}
		resp.Orders = append(resp.Orders, o)
		statuses = append(statuses, o.Status())
		resp.Subtotal += o.Subtotal()
		resp.ShippingFee += o.ShippingFee()
		resp.ShopDiscount += o.ShopDiscount()
		resp.PlatformDiscount += o.PlatformDiscount()
		resp.Total += o.Total()
	}
	if len(resp.Orders) == 0 {
		return GetOrderGroupQueryResponse{}, errs.NewObjectNotFoundError("orderGroup", query.GroupCode())
	}
	resp.Status = services.SummarizeGroupStatus(statuses)
	return resp, nil
}

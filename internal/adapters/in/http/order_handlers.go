package http

import (
	"net/http"
	"strconv"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ListOrders handles GET /orders?status=&limit=&offset=.
func (s *Server) ListOrders(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var status *order.Status
	if raw := c.QueryParam("status"); raw != "" {
		parsed, err := order.ParseStatus(raw)
		if err != nil {
			return err
		}
		status = &parsed
	}
	limit, err := intParam(c, "limit")
	if err != nil {
		return err
	}
	offset, err := intParam(c, "offset")
	if err != nil {
		return err
	}
	query, err := queries.NewListOrdersQuery(actor, status, limit, offset)
	if err != nil {
		return err
	}

	rows, err := s.h.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newOrderSummaries(rows))
}

// GetOrder handles GET /orders/:code. The response lists the actions the caller may take.
func (s *Server) GetOrder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderQuery(actor, c.Param("code"))
	if err != nil {
		return err
	}

	resp, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newOrderResponse(resp.Order, resp.Actions))
}

// GetOrderGroup handles GET /order-groups/:groupCode.
func (s *Server) GetOrderGroup(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderGroupQuery(actor, c.Param("groupCode"))
	if err != nil {
		return err
	}

	resp, err := s.h.GetOrderGroup.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newOrderGroupResponse(resp))
}

// OrderAction handles POST /orders/:code/actions/:action, one lifecycle transition.
func (s *Server) OrderAction(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req actionRequest
	if c.Request().ContentLength != 0 {
		if err = c.Bind(&req); err != nil {
			return err
		}
	}
	cmd, err := commands.NewOrderActionCommand(actor, c.Param("code"), c.Param("action"), req.toParams())
	if err != nil {
		return err
	}

	action := string(cmd.Action())
	o, err := s.h.OrderAction.Handle(c.Request().Context(), cmd)
	if err != nil {
		s.metrics.ObserveTransition(action, errs.Kind(err))
		return err
	}
	s.metrics.ObserveTransition(action, "ok")
	return c.JSON(http.StatusOK, newOrderResponse(o, o.Allowed(actor)))
}

func intParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return n, nil
}

package http

import (
	"net/http"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Headers set by the gateway in front of the service after it authenticated the caller.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
	HeaderShopID   = "X-Shop-ID"

	HeaderIdempotencyKey     = "Idempotency-Key"
	HeaderIdempotentReplayed = "Idempotent-Replayed"
)

var errUnauthenticated = echo.NewHTTPError(http.StatusUnauthorized, "missing "+HeaderUserID)

// actorFrom reads the caller. A missing role means BUYER.
func actorFrom(c echo.Context) (order.Actor, error) {
	h := c.Request().Header
	rawID := strings.TrimSpace(h.Get(HeaderUserID))
	if rawID == "" {
		return order.Actor{}, errUnauthenticated
	}
	userID, err := kernel.UUIDFromString(rawID)
	if err != nil {
		return order.Actor{}, errs.NewValueIsInvalidErrorWithCause(HeaderUserID, err)
	}

	role := order.RoleBuyer
	if raw := strings.TrimSpace(h.Get(HeaderUserRole)); raw != "" {
		if role, err = order.ParseRole(strings.ToUpper(raw)); err != nil {
			return order.Actor{}, err
		}
	}

	var shopID *kernel.UUID
	if raw := strings.TrimSpace(h.Get(HeaderShopID)); raw != "" {
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			return order.Actor{}, errs.NewValueIsInvalidErrorWithCause(HeaderShopID, err)
		}
		shopID = &id
	}

	return order.NewActor(userID, role, shopID)
}

// buyerFrom reads a caller that must be a buyer. Checkout is a buyer-only surface.
func buyerFrom(c echo.Context) (kernel.UUID, error) {
	actor, err := actorFrom(c)
	if err != nil {
		return kernel.UUID{}, err
	}
	if actor.Role != order.RoleBuyer {
		return kernel.UUID{}, errs.NewForbiddenError("check out", string(actor.Role))
	}
	return actor.UserID, nil
}

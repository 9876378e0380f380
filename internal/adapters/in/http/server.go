// Package http exposes checkout and the order lifecycle over HTTP with echo.
//
// Callers are identified by the X-User-ID, X-User-Role and X-Shop-ID headers set by
// the authenticating gateway. Failures are returned as {"error": {"kind", "message"}}.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// ScopeCommit is the idempotency scope of checkout commits.
const ScopeCommit = "checkout.commit"

// Handlers are the use cases the server routes to.
type Handlers struct {
	CreateDraft      commands.CreateDraftCommandHandler
	ChangeShipping   commands.ChangeDraftShippingCommandHandler
	ChangeVoucher    commands.ChangeDraftVoucherCommandHandler
	ChangeNote       commands.ChangeDraftNoteCommandHandler
	CommitCheckout   commands.CommitCheckoutCommandHandler
	OrderAction      commands.OrderActionCommandHandler
	IdempotencyGuard *commands.IdempotencyGuard
	QuoteCheckout    queries.QuoteCheckoutQueryHandler
	GetDraft         queries.GetDraftQueryHandler
	GetOrder         queries.GetOrderQueryHandler
	GetOrderGroup    queries.GetOrderGroupQueryHandler
	ListOrders       *queries.ListOrdersQueryHandler
}

// Server routes HTTP requests to the application's use cases.
type Server struct {
	h       Handlers
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewServer creates a server over handlers. ListOrders may be nil, which leaves
// GET /orders unrouted.
func NewServer(handlers Handlers, m *metrics.Metrics, logger *slog.Logger) *Server {
	return &Server{
		h:       handlers,
		metrics: m,
		logger:  logger.With("component", "http"),
	}
}

// Register installs the error handler, middleware and routes on e.
func (s *Server) Register(e *echo.Echo) {
	e.HTTPErrorHandler = s.handleError
	e.Use(middleware.Recover())
	e.Use(s.observe)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	ck := e.Group("/checkout")
	ck.POST("/shipping-options", s.QuoteCheckout)
	ck.POST("/draft", s.CreateDraft)
	ck.GET("/draft/:code", s.GetDraft)
	ck.PATCH("/draft/:code/shipping", s.ChangeDraftShipping)
	ck.PATCH("/draft/:code/voucher", s.ChangeDraftVoucher)
	ck.PATCH("/draft/:code/shop-voucher", s.ChangeDraftShopVoucher)
	ck.PATCH("/draft/:code/note", s.ChangeDraftNote)
	ck.POST("/commit", s.CommitCheckout)

	if s.h.ListOrders != nil {
		e.GET("/orders", s.ListOrders)
	}
	e.GET("/orders/:code", s.GetOrder)
	e.POST("/orders/:code/actions/:action", s.OrderAction)
	e.GET("/order-groups/:groupCode", s.GetOrderGroup)
}

// observe counts every request under its route pattern.
func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		if err := next(c); err != nil {
			c.Error(err)
		}
		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveRequest(c.Request().Method, route, c.Response().Status, time.Since(start))
		return nil
	}
}

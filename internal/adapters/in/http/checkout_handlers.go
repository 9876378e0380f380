package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/idempotency"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// QuoteCheckout handles POST /checkout/shipping-options. Nothing is persisted.
func (s *Server) QuoteCheckout(c echo.Context) error {
	buyerID, err := buyerFrom(c)
	if err != nil {
		return err
	}
	var req checkoutRequest
	if err = c.Bind(&req); err != nil {
		return err
	}
	pr, err := req.toPricingRequest(buyerID)
	if err != nil {
		return err
	}
	query, err := queries.NewQuoteCheckoutQuery(pr)
	if err != nil {
		return err
	}

	quote, err := s.h.QuoteCheckout.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newQuoteResponse(quote))
}

// CreateDraft handles POST /checkout/draft.
func (s *Server) CreateDraft(c echo.Context) error {
	buyerID, err := buyerFrom(c)
	if err != nil {
		return err
	}
	var req checkoutRequest
	if err = c.Bind(&req); err != nil {
		return err
	}
	input, err := req.toInput()
	if err != nil {
		return err
	}
	cmd, err := commands.NewCreateDraftCommand(buyerID, input)
	if err != nil {
		return err
	}

	draft, err := s.h.CreateDraft.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newDraftResponse(draft))
}

// GetDraft handles GET /checkout/draft/:code, quoting shipping again.
func (s *Server) GetDraft(c echo.Context) error {
	buyerID, err := buyerFrom(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetDraftQuery(buyerID, c.Param("code"))
	if err != nil {
		return err
	}

	resp, err := s.h.GetDraft.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newLiveDraftResponse(resp))
}

// ChangeDraftShipping handles PATCH /checkout/draft/:code/shipping.
func (s *Server) ChangeDraftShipping(c echo.Context) error {
	buyerID, err := buyerFrom(c)
	if err != nil {
		return err
	}
	var req shippingRequest
	if err = c.Bind(&req); err != nil {
		return err
	}
	shopID, err := kernel.UUIDFromString(req.ShopID)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("shopId", err)
	}
	cmd, err := commands.NewChangeDraftShippingCommand(buyerID, c.Param("code"), shopID, req.OptionCode)
	if err != nil {
		return err
	}

	draft, err := s.h.ChangeShipping.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newDraftResponse(draft))
}

// ChangeDraftVoucher handles PATCH /checkout/draft/:code/voucher. A null code removes
// the platform voucher.
func (s *Server) ChangeDraftVoucher(c echo.Context) error {
	buyerID, err := buyerFrom(c)
	if err != nil {
		return err
	}
	var req voucherRequest
	if err = c.Bind(&req); err != nil {
		return err
	}
	return s.changeVoucher(c, buyerID, nil, req.VoucherCode)
}

// ChangeDraftShopVoucher handles PATCH /checkout/draft/:code/shop-voucher.
func (s *Server) ChangeDraftShopVoucher(c echo.Context) error {
	buyerID, err := buyerFrom(c)
	if err != nil {
		return err
	}
	var req shopVoucherRequest
	if err = c.Bind(&req); err != nil {
		return err
	}
	shopID, err := kernel.UUIDFromString(req.ShopID)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("shopId", err)
	}
	return s.changeVoucher(c, buyerID, &shopID, req.VoucherCode)
}

func (s *Server) changeVoucher(c echo.Context, buyerID kernel.UUID, shopID *kernel.UUID, code *string) error {
	var voucherCode string
	if code != nil {
		voucherCode = *code
	}
	cmd, err := commands.NewChangeDraftVoucherCommand(buyerID, c.Param("code"), shopID, voucherCode)
	if err != nil {
		return err
	}

	draft, err := s.h.ChangeVoucher.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newDraftResponse(draft))
}

// ChangeDraftNote handles PATCH /checkout/draft/:code/note.
func (s *Server) ChangeDraftNote(c echo.Context) error {
	buyerID, err := buyerFrom(c)
	if err != nil {
		return err
	}
	var req noteRequest
	if err = c.Bind(&req); err != nil {
		return err
	}
	cmd, err := commands.NewChangeDraftNoteCommand(buyerID, c.Param("code"), req.Note)
	if err != nil {
		return err
	}

	draft, err := s.h.ChangeNote.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newDraftResponse(draft))
}

// CommitCheckout handles POST /checkout/commit. The request must carry an
// Idempotency-Key; a repeated request with the same key and body gets the first
// response back with Idempotent-Replayed: true.
func (s *Server) CommitCheckout(c echo.Context) error {
	buyerID, err := buyerFrom(c)
	if err != nil {
		return err
	}
	key := strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey))
	if key == "" {
		return errs.NewValueIsRequiredError(HeaderIdempotencyKey)
	}
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
	}
	var req commitRequest
	if err = json.Unmarshal(body, &req); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}

	resp, replayed, err := s.h.IdempotencyGuard.Execute(c.Request().Context(), commands.IdempotentRequest{
		Key:      key,
		Scope:    ScopeCommit,
		CallerID: buyerID,
		Method:   c.Request().Method,
		Path:     c.Path(),
		Payload:  body,
	}, func(ctx context.Context) (idempotency.Response, error) {
		cmd, err := commands.NewCommitCheckoutCommand(buyerID, req.DraftCode, req.PaymentMethod)
		if err != nil {
			return idempotency.Response{}, err
		}
		result, err := s.h.CommitCheckout.Handle(ctx, cmd)
		if err != nil {
			return idempotency.Response{}, err
		}
		data, err := json.Marshal(newCommitResponse(result))
		if err != nil {
			return idempotency.Response{}, err
		}
		return idempotency.Response{StatusCode: http.StatusCreated, Body: data}, nil
	})

	switch {
	case replayed:
		s.metrics.ObserveReplay(ScopeCommit)
		c.Response().Header().Set(HeaderIdempotentReplayed, "true")
	case err != nil:
		s.metrics.ObserveCommit(errs.Kind(err))
	default:
		s.metrics.ObserveCommit("ok")
	}
	if err != nil {
		return err
	}
	return c.JSONBlob(resp.StatusCode, resp.Body)
}

package http

import (
	"errors"
	"fmt"
	"net/http"

	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// KindUnauthenticated is returned for requests without a caller.
const KindUnauthenticated = "UNAUTHENTICATED"

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// statusOf maps an error kind to its HTTP status. State conflicts and expiry are
// client errors the caller resolves by taking another path, not by retrying.
func statusOf(kind string) int {
	switch kind {
	case errs.KindValidation, errs.KindStateConflict, errs.KindExpired:
		return http.StatusBadRequest
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindResourceConflict:
		return http.StatusConflict
	case errs.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// handleError is the echo error handler. Every failure is written as
// {"error": {"kind", "message"}}.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, detail := s.classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, errorBody{Error: detail})
	}
	if writeErr != nil {
		s.logger.ErrorContext(c.Request().Context(), "writing error response failed", "error", writeErr)
	}
}

func (s *Server) classify(err error) (int, errorDetail) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		kind := errs.KindInternal
		switch he.Code {
		case http.StatusUnauthorized:
			kind = KindUnauthenticated
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			kind = errs.KindNotFound
		case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusRequestEntityTooLarge:
			kind = errs.KindValidation
		}
		return he.Code, errorDetail{Kind: kind, Message: fmt.Sprint(he.Message)}
	}

	kind := errs.Kind(err)
	var replayed *errs.ReplayedError
	if errors.As(err, &replayed) {
		kind = replayed.Kind()
	}
	status := statusOf(kind)
	if status >= http.StatusInternalServerError {
		return status, errorDetail{Kind: errs.KindInternal, Message: "internal error"}
	}
	return status, errorDetail{Kind: kind, Message: err.Error()}
}

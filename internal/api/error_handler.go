package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/raylene/casework/internal/core/domain"
)

// errorBody is the payload under the "error" key of every failed response.
type errorBody struct {
	StatusCode int               `json:"status_code"`
	Detail     string            `json:"detail"`
	Errors     map[string]string `json:"errors"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders {"error": {"status_code", "detail", "errors"}} for every failure.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(body.StatusCode)
			return
		}
		_ = c.JSON(body.StatusCode, errorResponse{Error: body})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) errorBody {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return errorBody{StatusCode: http.StatusBadRequest, Detail: "Invalid input.", Errors: verr.Fields}
	}

	// Echo's own errors (bind failures, 404 from router, auth middleware).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return errorBody{StatusCode: he.Code, Detail: fmt.Sprintf("%v", he.Message), Errors: map[string]string{}}
	}

	body := func(code int, detail string) errorBody {
		return errorBody{StatusCode: code, Detail: detail, Errors: map[string]string{}}
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return body(http.StatusNotFound, "Not found.")
	case errors.Is(err, domain.ErrForbidden):
		return body(http.StatusForbidden, "You do not have permission to perform this action.")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return body(http.StatusUnauthorized, "No active account found with the given credentials.")
	case errors.Is(err, domain.ErrUserExists):
		return body(http.StatusConflict, "A user with that email already exists.")
	case errors.Is(err, domain.ErrConflict):
		return body(http.StatusConflict, "The resource was modified by another request. Reload and retry.")
	case errors.Is(err, domain.ErrSlotFull):
		return body(http.StatusConflict, "This slot is fully booked.")
	case errors.Is(err, domain.ErrProtected):
		return body(http.StatusConflict, "The resource is still referenced and cannot be deleted.")
	case errors.Is(err, domain.ErrUpstream):
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("upstream failure")
		return body(http.StatusInternalServerError, err.Error())
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return body(http.StatusInternalServerError, "An unexpected error occurred")
}

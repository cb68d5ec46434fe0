package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Issues  []domain.Issue `json:"issues,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"success": false, "message": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	fail := func(code int, msg string) (int, errorResponse) {
		return code, errorResponse{Message: msg}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorResponse{Message: "Validation failed", Issues: ve.Issues}
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logUnexpected(log, c, err)
		}
		return fail(he.Code, fmt.Sprintf("%v", he.Message))
	}

	var fe *domain.ForbiddenError
	if errors.As(err, &fe) {
		return fail(http.StatusForbidden, fe.Error())
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrTokenMissing):
		return fail(http.StatusUnauthorized, "Token missing")
	case errors.Is(err, domain.ErrInvalidToken):
		return fail(http.StatusForbidden, "Invalid or expired token")
	case errors.Is(err, domain.ErrUserExists):
		return fail(http.StatusBadRequest, "User already exists")
	case errors.Is(err, domain.ErrUserNotFound):
		return fail(http.StatusNotFound, "User not found")
	case errors.Is(err, domain.ErrInvalidLogin):
		return fail(http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fail(http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, domain.ErrUserInactive):
		return fail(http.StatusForbidden, "Account is disabled")
	case errors.Is(err, domain.ErrVendorNotFound):
		return fail(http.StatusNotFound, "Vendor profile not found")
	case errors.Is(err, domain.ErrRequestNotFound):
		return fail(http.StatusNotFound, "License request not found")
	case errors.Is(err, domain.ErrRequestNotPending):
		return fail(http.StatusConflict, "License request already reviewed")
	}

	// Unexpected error: log the real cause, return a generic message.
	logUnexpected(log, c, err)

	var oe *domain.OperationError
	if errors.As(err, &oe) {
		return fail(http.StatusInternalServerError, oe.Message)
	}
	return fail(http.StatusInternalServerError, "Internal server error")
}

func logUnexpected(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}

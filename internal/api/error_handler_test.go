package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	driverErr := errors.New(`pq: relation "licenses" does not exist`)

	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"token missing", domain.ErrTokenMissing, http.StatusUnauthorized, "Token missing"},
		{"invalid token", domain.InvalidToken(domain.ErrTokenExpired), http.StatusForbidden, "Invalid or expired token"},
		{"forbidden", &domain.ForbiddenError{Allowed: []domain.Role{domain.RoleAdmin}}, http.StatusForbidden, "Forbidden: requires one of [ADMIN]"},
		{"user exists", domain.ErrUserExists, http.StatusBadRequest, "User already exists"},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"unified login", domain.ErrInvalidLogin, http.StatusUnauthorized, "Invalid email or password"},
		{"inactive", domain.ErrUserInactive, http.StatusForbidden, "Account is disabled"},
		{"request not found", fmt.Errorf("approve: %w", domain.ErrRequestNotFound), http.StatusNotFound, "License request not found"},
		{"request reviewed", domain.ErrRequestNotPending, http.StatusConflict, "License request already reviewed"},
		{"operation failure", domain.Failed("License approval failed", &domain.TransactionError{Op: "approve license", Err: driverErr}), http.StatusInternalServerError, "License approval failed"},
		{"unknown", driverErr, http.StatusInternalServerError, "Internal server error"},
		{"echo error", echo.NewHTTPError(http.StatusNotFound, "Not Found"), http.StatusNotFound, "Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			assert.Equal(t, tt.code, rec.Code)
			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.message, resp.Message)
			assert.NotContains(t, rec.Body.String(), "pq:")
		})
	}
}

func TestHTTPErrorHandler_ValidationIssues(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/signup", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(&domain.ValidationError{Issues: []domain.Issue{
		{Path: []string{"confirmPassword"}, Message: "Passwords do not match"},
	}}, c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t,
		`{"success":false,"message":"Validation failed","issues":[{"path":["confirmPassword"],"message":"Passwords do not match"}]}`,
		rec.Body.String())
}

func TestHTTPErrorHandler_LogsUnexpectedErrors(t *testing.T) {
	var buf strings.Builder
	log := zerolog.New(&buf)

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/admin/vendors", nil), httptest.NewRecorder())
	NewHTTPErrorHandler(log)(errors.New("socket closed"), c)
	assert.Contains(t, buf.String(), "socket closed")

	buf.Reset()
	NewHTTPErrorHandler(log)(domain.ErrUserNotFound, e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder()))
	assert.Empty(t, buf.String())
}

func TestHTTPErrorHandler_SkipsCommittedResponses(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, c.String(http.StatusOK, "done"))

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrTokenMissing, c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}

package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vendorsaathi/vendor-admin/internal/api/metrics"
	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
	"github.com/vendorsaathi/vendor-admin/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup creates a new user account. VENDOR accounts get a placeholder
// vendor profile in the same transaction.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      200   {object}  signupResponse
// @Failure      400   {object}  api.errorResponse
// @Failure      500   {object}  api.errorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		metrics.SignupsTotal.WithLabelValues("unknown", "invalid_input").Inc()
		return err
	}

	user, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.Is(err, domain.ErrUserExists):
			metrics.SignupsTotal.WithLabelValues(req.Role, "exists").Inc()
			return err
		case errors.As(err, &ve):
			metrics.SignupsTotal.WithLabelValues("unknown", "invalid_input").Inc()
			return err
		}
		metrics.SignupsTotal.WithLabelValues(req.Role, "error").Inc()
		return domain.Failed("Signup failed", err)
	}

	metrics.SignupsTotal.WithLabelValues(string(user.Role), "success").Inc()
	return c.JSON(http.StatusOK, signupResponse{
		Success: true,
		Message: "Signup successful",
		User:    toPublicUser(user),
	})
}

// Login authenticates a user and returns a session token valid for one hour.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  api.errorResponse
// @Failure      401   {object}  api.errorResponse
// @Failure      403   {object}  api.errorResponse
// @Failure      404   {object}  api.errorResponse
// @Failure      500   {object}  api.errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_input").Inc()
		return err
	}

	token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
			return err
		case errors.Is(err, domain.ErrUserNotFound):
			metrics.LoginAttemptsTotal.WithLabelValues("user_not_found").Inc()
			return err
		case errors.Is(err, domain.ErrUserInactive):
			metrics.LoginAttemptsTotal.WithLabelValues("disabled").Inc()
			return err
		}
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return domain.Failed("Login failed", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
	})
}

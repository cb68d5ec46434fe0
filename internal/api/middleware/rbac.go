package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/vendorsaathi/vendor-admin/internal/api/metrics"
	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
)

// Authorize checks id against the allowed role set. An empty set allows nobody.
func Authorize(id domain.Identity, allowed ...domain.Role) error {
	if id.HasRole(allowed...) {
		return nil
	}
	return &domain.ForbiddenError{Allowed: allowed}
}

// RBAC enforces role-based access control on routes already behind
// Guard.Require. A context without an identity is treated as unauthenticated.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrTokenMissing
			}
			if err := Authorize(id, allowedRoles...); err != nil {
				metrics.TokenRejectionsTotal.WithLabelValues("forbidden").Inc()
				return err
			}
			return next(c)
		}
	}
}

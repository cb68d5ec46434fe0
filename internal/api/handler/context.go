package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/vendorsaathi/vendor-admin/internal/api/middleware"
	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
)

// ctxIdentity extracts the identity injected by Guard.Require. Its absence
// means the route was registered without the guard, which is reported as an
// unauthenticated request rather than a server error.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, domain.ErrTokenMissing
	}
	return id, nil
}

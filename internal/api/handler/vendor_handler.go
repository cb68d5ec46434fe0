package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
	"github.com/vendorsaathi/vendor-admin/internal/core/ports"
)

type VendorHandler struct {
	vendorService ports.VendorService
}

func NewVendorHandler(vendorService ports.VendorService) *VendorHandler {
	return &VendorHandler{vendorService: vendorService}
}

// List returns every vendor with its account's email, role and active flag.
//
// @Summary      List vendors
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  vendorsResponse
// @Failure      401  {object}  api.errorResponse
// @Failure      403  {object}  api.errorResponse
// @Failure      500  {object}  api.errorResponse
// @Router       /admin/vendors [get]
func (h *VendorHandler) List(c echo.Context) error {
	vendors, err := h.vendorService.List(c.Request().Context())
	if err != nil {
		return domain.Failed("Failed to fetch vendors", err)
	}
	return c.JSON(http.StatusOK, vendorsResponse{Success: true, Vendors: vendors})
}

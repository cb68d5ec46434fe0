package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vendorsaathi/vendor-admin/internal/api/metrics"
	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
	"github.com/vendorsaathi/vendor-admin/internal/core/ports"
)

type LicenseHandler struct {
	licenseService ports.LicenseService
}

func NewLicenseHandler(licenseService ports.LicenseService) *LicenseHandler {
	return &LicenseHandler{licenseService: licenseService}
}

// Request opens a PENDING license request for the calling vendor.
//
// @Summary      Request a license
// @Tags         vendor
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  licenseRequestResponse
// @Failure      401  {object}  api.errorResponse
// @Failure      403  {object}  api.errorResponse
// @Failure      404  {object}  api.errorResponse
// @Failure      500  {object}  api.errorResponse
// @Router       /vendor/license-requests [post]
func (h *LicenseHandler) Request(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	req, err := h.licenseService.RequestLicense(c.Request().Context(), id.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrVendorNotFound) {
			return err
		}
		return domain.Failed("License request failed", err)
	}

	metrics.LicenseRequestsTotal.Inc()
	return c.JSON(http.StatusCreated, licenseRequestResponse{
		Success: true,
		Message: "License request submitted",
		Request: req,
	})
}

// Approve issues a license for a pending request. The license, the request
// status change and the audit entry are committed together.
//
// @Summary      Approve a license request
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "License request ID"
// @Success      200  {object}  licenseResponse
// @Failure      400  {object}  api.errorResponse
// @Failure      401  {object}  api.errorResponse
// @Failure      403  {object}  api.errorResponse
// @Failure      404  {object}  api.errorResponse
// @Failure      409  {object}  api.errorResponse
// @Failure      500  {object}  api.errorResponse
// @Router       /admin/license-requests/{id}/approve [post]
func (h *LicenseHandler) Approve(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || requestID <= 0 {
		return &domain.ValidationError{Issues: []domain.Issue{{Path: []string{"id"}, Message: "Invalid request id"}}}
	}

	start := time.Now()
	license, err := h.licenseService.Approve(c.Request().Context(), requestID, id.UserID)
	result := approvalResult(err)
	metrics.LicenseApprovalsTotal.WithLabelValues(result).Inc()
	metrics.LicenseApprovalDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())

	if err != nil {
		if result != "error" {
			return err
		}
		return domain.Failed("License approval failed", err)
	}

	return c.JSON(http.StatusOK, licenseResponse{
		Success: true,
		Message: "License approved",
		License: license,
	})
}

func approvalResult(err error) string {
	switch {
	case err == nil:
		return "approved"
	case errors.Is(err, domain.ErrRequestNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrRequestNotPending):
		return "conflict"
	default:
		return "error"
	}
}

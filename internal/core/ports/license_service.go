package ports

import (
	"context"

	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
)

// LicenseService covers the license request lifecycle.
type LicenseService interface {
	// RequestLicense opens a PENDING request for the vendor owned by userID.
	RequestLicense(ctx context.Context, userID int64) (*domain.LicenseRequest, error)
	// Approve issues a license for requestID on behalf of adminID. The
	// license, the request update and the audit entry commit together or not at all.
	Approve(ctx context.Context, requestID, adminID int64) (*domain.License, error)
}

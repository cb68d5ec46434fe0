package ports

import (
	"context"
	"time"

	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
)

// UserRepository persists user accounts.
type UserRepository interface {
	// Create inserts user and fills in its ID and CreatedAt.
	// A duplicate email yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// VendorRepository persists vendor profiles.
type VendorRepository interface {
	Create(ctx context.Context, vendor *domain.Vendor) error
	FindByUserID(ctx context.Context, userID int64) (*domain.Vendor, error)
	List(ctx context.Context) ([]domain.VendorListing, error)
}

// LicenseRequestRepository persists license requests.
type LicenseRequestRepository interface {
	Create(ctx context.Context, req *domain.LicenseRequest) error
	// FindForUpdate reads the request and, inside a transaction, locks it
	// against concurrent reviewers until the transaction ends.
	FindForUpdate(ctx context.Context, requestID int64) (*domain.LicenseRequest, error)
	// MarkReviewed moves a PENDING request to status. It returns
	// domain.ErrRequestNotPending when the request is no longer PENDING.
	MarkReviewed(ctx context.Context, requestID int64, status domain.RequestStatus, adminID int64, at time.Time) error
}

// LicenseRepository persists issued licenses.
type LicenseRepository interface {
	Create(ctx context.Context, license *domain.License) error
}

// AuditRepository appends audit records.
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditLog) error
}

// Repositories groups every repository bound to the same connection or transaction.
type Repositories struct {
	Users           UserRepository
	Vendors         VendorRepository
	LicenseRequests LicenseRequestRepository
	Licenses        LicenseRepository
	Audit           AuditRepository
}

// TxFunc is the body of a unit of work. It must only use the repositories
// and the context it is given.
type TxFunc func(ctx context.Context, repos Repositories) error

// UnitOfWork runs fn inside a single store transaction. The transaction
// commits iff fn returns nil; any error rolls back every write made by fn.
type UnitOfWork interface {
	Do(ctx context.Context, fn TxFunc) error
}

// Store is the credential store: non-transactional repositories, a unit of
// work, and lifecycle hooks.
type Store interface {
	UnitOfWork
	Repositories() Repositories
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

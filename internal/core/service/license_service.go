package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
	"github.com/vendorsaathi/vendor-admin/internal/core/ports"
)

// DefaultTxTimeout bounds how long an approval may hold row locks.
const DefaultTxTimeout = 5 * time.Second

// LicenseService runs the license request lifecycle against the store.
type LicenseService struct {
	store     ports.Store
	txTimeout time.Duration
	newUID    func() (string, error)
	now       func() time.Time
	log       zerolog.Logger
}

func NewLicenseService(store ports.Store, txTimeout time.Duration, log zerolog.Logger) *LicenseService {
	if txTimeout <= 0 {
		txTimeout = DefaultTxTimeout
	}
	return &LicenseService{
		store:     store,
		txTimeout: txTimeout,
		newUID:    newLicenseUID,
		now:       func() time.Time { return time.Now().UTC() },
		log:       log,
	}
}

// newLicenseUID returns LIC-<uuidv7>. Version 7 ids are time ordered and
// carry 74 random bits, so approvals in the same millisecond never collide.
func newLicenseUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate license uid: %w", err)
	}
	return "LIC-" + id.String(), nil
}

func (s *LicenseService) RequestLicense(ctx context.Context, userID int64) (*domain.LicenseRequest, error) {
	repos := s.store.Repositories()

	vendor, err := repos.Vendors.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	req := &domain.LicenseRequest{
		VendorID:  vendor.VendorID,
		Status:    domain.RequestPending,
		CreatedAt: s.now(),
	}
	if err := repos.LicenseRequests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create license request: %w", err)
	}

	s.log.Info().Int64("request_id", req.RequestID).Int64("vendor_id", req.VendorID).Msg("license requested")
	return req, nil
}

// Approve issues a license for a PENDING request. The request row is locked
// for the duration of the transaction, so concurrent approvals of the same
// request serialize and every caller after the first sees ErrRequestNotPending.
func (s *LicenseService) Approve(ctx context.Context, requestID, adminID int64) (*domain.License, error) {
	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var issued *domain.License
	err := s.store.Do(ctx, func(ctx context.Context, repos ports.Repositories) error {
		req, err := repos.LicenseRequests.FindForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if !req.Status.CanTransitionTo(domain.RequestApproved) {
			return domain.ErrRequestNotPending
		}

		uid, err := s.newUID()
		if err != nil {
			return err
		}
		now := s.now()

		license := domain.NewLicense(uid, req.VendorID, adminID, now)
		if err := repos.Licenses.Create(ctx, license); err != nil {
			return fmt.Errorf("create license: %w", err)
		}

		if err := repos.LicenseRequests.MarkReviewed(ctx, requestID, domain.RequestApproved, adminID, now); err != nil {
			return fmt.Errorf("mark request approved: %w", err)
		}

		if err := repos.Audit.Append(ctx, &domain.AuditLog{
			AdminID:    adminID,
			Action:     domain.ActionApprovedLicense,
			EntityType: domain.EntityLicense,
			EntityID:   license.LicenseID,
			CreatedAt:  now,
		}); err != nil {
			return fmt.Errorf("append audit log: %w", err)
		}

		issued = license
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) || errors.Is(err, domain.ErrRequestNotPending) {
			s.log.Info().Err(err).Int64("request_id", requestID).Int64("admin_id", adminID).Msg("license approval rejected")
			return nil, err
		}
		s.log.Error().Err(err).Int64("request_id", requestID).Int64("admin_id", adminID).Msg("license approval rolled back")
		return nil, &domain.TransactionError{Op: "approve license", Err: err}
	}

	s.log.Info().
		Int64("request_id", requestID).
		Int64("admin_id", adminID).
		Str("license_uid", issued.LicenseUID).
		Msg("license approved")
	return issued, nil
}

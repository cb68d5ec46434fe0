package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
)

type LicenseRequestRepository struct {
	db dbtx
}

func (r *LicenseRequestRepository) Create(ctx context.Context, req *domain.LicenseRequest) error {
	const query = `
		INSERT INTO license_requests (vendor_id, status, created_at)
		VALUES ($1, $2, $3)
		RETURNING request_id`

	if req.Status == "" {
		req.Status = domain.RequestPending
	}
	err := r.db.QueryRowContext(ctx, query, req.VendorID, string(req.Status), req.CreatedAt).Scan(&req.RequestID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrVendorNotFound
		}
		return fmt.Errorf("insert license request: %w", err)
	}
	return nil
}

// FindForUpdate locks the request row with SELECT ... FOR UPDATE. Outside a
// transaction the lock is released as soon as the statement completes.
func (r *LicenseRequestRepository) FindForUpdate(ctx context.Context, id int64) (*domain.LicenseRequest, error) {
	const query = `
		SELECT request_id, vendor_id, status, reviewed_by, reviewed_at, created_at
		FROM license_requests
		WHERE request_id = $1
		FOR UPDATE`

	var (
		req        domain.LicenseRequest
		status     string
		reviewedBy sql.NullInt64
		reviewedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&req.RequestID, &req.VendorID, &status, &reviewedBy, &reviewedAt, &req.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("find license request: %w", err)
	}

	req.Status = domain.RequestStatus(status)
	if reviewedBy.Valid {
		req.ReviewedBy = &reviewedBy.Int64
	}
	if reviewedAt.Valid {
		req.ReviewedAt = &reviewedAt.Time
	}
	return &req, nil
}

// MarkReviewed only updates rows still PENDING, so a reviewer that lost a
// race gets ErrRequestNotPending even without a prior lock.
func (r *LicenseRequestRepository) MarkReviewed(ctx context.Context, id int64, status domain.RequestStatus, adminID int64, at time.Time) error {
	const query = `
		UPDATE license_requests
		SET status = $1, reviewed_by = $2, reviewed_at = $3
		WHERE request_id = $4 AND status = $5`

	res, err := r.db.ExecContext(ctx, query, string(status), adminID, at, id, string(domain.RequestPending))
	if err != nil {
		return fmt.Errorf("update license request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update license request: %w", err)
	}
	if n == 1 {
		return nil
	}

	var current string
	err = r.db.QueryRowContext(ctx, `SELECT status FROM license_requests WHERE request_id = $1`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrRequestNotFound
	}
	if err != nil {
		return fmt.Errorf("read license request status: %w", err)
	}
	return domain.ErrRequestNotPending
}

type LicenseRepository struct {
	db dbtx
}

func (r *LicenseRepository) Create(ctx context.Context, l *domain.License) error {
	const query = `
		INSERT INTO licenses (license_uid, vendor_id, issue_date, expiry_date, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING license_id`

	err := r.db.QueryRowContext(ctx, query,
		l.LicenseUID, l.VendorID, l.IssueDate, l.ExpiryDate, string(l.Status), l.CreatedBy,
	).Scan(&l.LicenseID)
	if err != nil {
		return fmt.Errorf("insert license: %w", err)
	}
	return nil
}

type AuditRepository struct {
	db dbtx
}

func (r *AuditRepository) Append(ctx context.Context, e *domain.AuditLog) error {
	const query = `
		INSERT INTO audit_logs (admin_id, action, entity_type, entity_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING audit_id`

	err := r.db.QueryRowContext(ctx, query, e.AdminID, e.Action, e.EntityType, e.EntityID, e.CreatedAt).Scan(&e.AuditID)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

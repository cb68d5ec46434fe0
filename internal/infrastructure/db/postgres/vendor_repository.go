package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
)

type VendorRepository struct {
	db dbtx
}

func (r *VendorRepository) Create(ctx context.Context, v *domain.Vendor) error {
	const query = `
		INSERT INTO vendors (user_id, full_name, dob, phone_number, aadhaar_number, pan_number, address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING vendor_id`

	err := r.db.QueryRowContext(ctx, query,
		v.UserID, v.FullName, v.DOB, v.PhoneNumber, v.AadhaarNumber, v.PanNumber, v.Address, v.CreatedAt,
	).Scan(&v.VendorID)
	if err != nil {
		return fmt.Errorf("insert vendor: %w", err)
	}
	return nil
}

func (r *VendorRepository) FindByUserID(ctx context.Context, userID int64) (*domain.Vendor, error) {
	const query = `
		SELECT vendor_id, user_id, full_name, dob, phone_number, aadhaar_number, pan_number, address, created_at
		FROM vendors
		WHERE user_id = $1`

	var v domain.Vendor
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&v.VendorID, &v.UserID, &v.FullName, &v.DOB, &v.PhoneNumber, &v.AadhaarNumber, &v.PanNumber, &v.Address, &v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVendorNotFound
		}
		return nil, fmt.Errorf("find vendor: %w", err)
	}
	return &v, nil
}

// List returns every vendor joined with its owning account.
func (r *VendorRepository) List(ctx context.Context) ([]domain.VendorListing, error) {
	const query = `
		SELECT v.vendor_id, v.user_id, v.full_name, v.dob, v.phone_number, v.aadhaar_number,
		       v.pan_number, v.address, v.created_at, u.email, u.role, u.is_active
		FROM vendors v
		JOIN users u ON u.user_id = v.user_id
		ORDER BY v.vendor_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	out := []domain.VendorListing{}
	for rows.Next() {
		var (
			l    domain.VendorListing
			role string
		)
		if err := rows.Scan(
			&l.VendorID, &l.UserID, &l.FullName, &l.DOB, &l.PhoneNumber, &l.AadhaarNumber,
			&l.PanNumber, &l.Address, &l.CreatedAt, &l.User.Email, &role, &l.User.IsActive,
		); err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		l.User.Role = domain.Role(role)
		out = append(out, l)
	}
	return out, rows.Err()
}

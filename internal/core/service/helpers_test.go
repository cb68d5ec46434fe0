package service

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
	"github.com/vendorsaathi/vendor-admin/internal/core/ports"
)

var errConstraint = errors.New("violates unique constraint")

// faultyStore swaps individual repositories inside every transaction.
type faultyStore struct {
	ports.Store
	vendors  ports.VendorRepository
	licenses ports.LicenseRepository
	audit    ports.AuditRepository
}

func (f faultyStore) Do(ctx context.Context, fn ports.TxFunc) error {
	return f.Store.Do(ctx, func(ctx context.Context, repos ports.Repositories) error {
		if f.vendors != nil {
			repos.Vendors = f.vendors
		}
		if f.licenses != nil {
			repos.Licenses = f.licenses
		}
		if f.audit != nil {
			repos.Audit = f.audit
		}
		return fn(ctx, repos)
	})
}

type failingVendors struct{ ports.VendorRepository }

func (failingVendors) Create(context.Context, *domain.Vendor) error { return errConstraint }

type failingLicenses struct{}

func (failingLicenses) Create(context.Context, *domain.License) error { return errConstraint }

type failingAudit struct{}

func (failingAudit) Append(context.Context, *domain.AuditLog) error { return errConstraint }

type countingCache struct {
	NopVendorCache
	invalidations atomic.Int32
}

func (c *countingCache) Invalidate(context.Context) error {
	c.invalidations.Add(1)
	return nil
}

package ports

import (
	"context"

	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
)

type VendorService interface {
	List(ctx context.Context) ([]domain.VendorListing, error)
}

// VendorCache holds the rendered vendor listing between writes.
//
// Entries are keyed by a generation that Invalidate advances. Get reports
// the generation it observed, and a listing read from the store after that
// Get must be stored with Set under the same generation, so a listing read
// before an Invalidate is never served afterwards.
type VendorCache interface {
	// Get returns ok=false on a cache miss.
	Get(ctx context.Context) (vendors []domain.VendorListing, gen int64, ok bool, err error)
	Set(ctx context.Context, gen int64, vendors []domain.VendorListing) error
	Invalidate(ctx context.Context) error
}

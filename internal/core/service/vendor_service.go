package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
	"github.com/vendorsaathi/vendor-admin/internal/core/ports"
)

// NopVendorCache is used when no cache backend is configured.
type NopVendorCache struct{}

func (NopVendorCache) Get(context.Context) ([]domain.VendorListing, int64, bool, error) {
	return nil, 0, false, nil
}
func (NopVendorCache) Set(context.Context, int64, []domain.VendorListing) error { return nil }
func (NopVendorCache) Invalidate(context.Context) error                         { return nil }

// VendorService serves the admin vendor listing, cache-aside.
type VendorService struct {
	vendors ports.VendorRepository
	cache   ports.VendorCache
	log     zerolog.Logger
}

func NewVendorService(vendors ports.VendorRepository, cache ports.VendorCache, log zerolog.Logger) *VendorService {
	if cache == nil {
		cache = NopVendorCache{}
	}
	return &VendorService{vendors: vendors, cache: cache, log: log}
}

// List returns every vendor profile. Cache failures degrade to a store read.
func (s *VendorService) List(ctx context.Context) ([]domain.VendorListing, error) {
	cached, gen, ok, cacheErr := s.cache.Get(ctx)
	if cacheErr != nil {
		s.log.Warn().Err(cacheErr).Msg("vendor cache read failed, reading from store")
	} else if ok {
		return cached, nil
	}

	vendors, err := s.vendors.List(ctx)
	if err != nil {
		return nil, err
	}
	if vendors == nil {
		vendors = []domain.VendorListing{}
	}

	// Without a generation from Get there is nothing safe to write under.
	if cacheErr != nil {
		return vendors, nil
	}
	if err := s.cache.Set(ctx, gen, vendors); err != nil {
		s.log.Warn().Err(err).Msg("failed to populate vendor cache")
	}
	return vendors, nil
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
	"github.com/vendorsaathi/vendor-admin/internal/core/ports"
)

type stubVendorRepo struct {
	ports.VendorRepository
	listings []domain.VendorListing
	calls    int
}

func (r *stubVendorRepo) List(context.Context) ([]domain.VendorListing, error) {
	r.calls++
	return r.listings, nil
}

// mapCache mirrors the generation scheme of the Redis cache in memory.
type mapCache struct {
	gen    int64
	stored map[int64][]domain.VendorListing
	sets   int
	err    error
}

func (c *mapCache) Get(context.Context) ([]domain.VendorListing, int64, bool, error) {
	if c.err != nil {
		return nil, 0, false, c.err
	}
	v, ok := c.stored[c.gen]
	return v, c.gen, ok, nil
}

func (c *mapCache) Set(_ context.Context, gen int64, v []domain.VendorListing) error {
	if c.stored == nil {
		c.stored = map[int64][]domain.VendorListing{}
	}
	c.stored[gen] = v
	c.sets++
	return nil
}

func (c *mapCache) Invalidate(context.Context) error {
	c.gen++
	return nil
}

// invalidatingRepo simulates a signup committing while List reads the store.
type invalidatingRepo struct {
	stubVendorRepo
	cache *mapCache
}

func (r *invalidatingRepo) List(ctx context.Context) ([]domain.VendorListing, error) {
	listings, err := r.stubVendorRepo.List(ctx)
	_ = r.cache.Invalidate(ctx)
	return listings, err
}

func TestVendorService_List_PopulatesCache(t *testing.T) {
	repo := &stubVendorRepo{listings: []domain.VendorListing{{Vendor: domain.Vendor{VendorID: 1}}}}
	cache := &mapCache{}
	svc := NewVendorService(repo, cache, zerolog.Nop())

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	second, err := svc.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.calls)
}

func TestVendorService_List_CacheErrorFallsBackToStore(t *testing.T) {
	repo := &stubVendorRepo{listings: []domain.VendorListing{{Vendor: domain.Vendor{VendorID: 2}}}}
	cache := &mapCache{err: errors.New("redis down")}
	svc := NewVendorService(repo, cache, zerolog.Nop())

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, repo.calls)
	assert.Zero(t, cache.sets)
}

func TestVendorService_List_InvalidationDuringReadIsNotMasked(t *testing.T) {
	cache := &mapCache{}
	repo := &invalidatingRepo{
		stubVendorRepo: stubVendorRepo{listings: []domain.VendorListing{{Vendor: domain.Vendor{VendorID: 1}}}},
		cache:          cache,
	}
	svc := NewVendorService(repo, cache, zerolog.Nop())

	_, err := svc.List(context.Background())
	require.NoError(t, err)
	_, err = svc.List(context.Background())
	require.NoError(t, err)

	// The first listing was stored under the old generation, so the
	// second call went back to the store.
	assert.Equal(t, 2, repo.calls)
}

func TestVendorService_List_EmptyIsNotNil(t *testing.T) {
	svc := NewVendorService(&stubVendorRepo{}, nil, zerolog.Nop())

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

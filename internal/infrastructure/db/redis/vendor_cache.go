package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
)

const (
	vendorListKey    = "vendor_admin:vendors"
	vendorGenKey     = "vendor_admin:vendors:gen"
	DefaultVendorTTL = 30 * time.Second
)

// VendorCache keeps the admin vendor listing in Redis as a JSON document,
// one key per generation. Invalidate advances the generation counter, so a
// listing written under an older generation is never read again and simply
// expires. The TTL bounds staleness for writers that do not invalidate.
type VendorCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewVendorCache creates a VendorCache wrapping the given Redis client.
func NewVendorCache(client *redis.Client, ttl time.Duration) *VendorCache {
	if ttl <= 0 {
		ttl = DefaultVendorTTL
	}
	return &VendorCache{client: client, ttl: ttl}
}

func listKey(gen int64) string {
	return fmt.Sprintf("%s:%d", vendorListKey, gen)
}

func (c *VendorCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, vendorGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("vendor cache generation: %w", err)
	}
	return gen, nil
}

func (c *VendorCache) Get(ctx context.Context) ([]domain.VendorListing, int64, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, 0, false, err
	}

	raw, err := c.client.Get(ctx, listKey(gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("vendor cache get: %w", err)
	}

	var vendors []domain.VendorListing
	if err := json.Unmarshal(raw, &vendors); err != nil {
		return nil, 0, false, fmt.Errorf("vendor cache decode: %w", err)
	}
	return vendors, gen, true, nil
}

func (c *VendorCache) Set(ctx context.Context, gen int64, vendors []domain.VendorListing) error {
	raw, err := json.Marshal(vendors)
	if err != nil {
		return fmt.Errorf("vendor cache encode: %w", err)
	}
	return c.client.Set(ctx, listKey(gen), raw, c.ttl).Err()
}

func (c *VendorCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, vendorGenKey).Err()
}

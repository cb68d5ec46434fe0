package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
	"github.com/vendorsaathi/vendor-admin/internal/core/ports"
)

func TestStore_DoCommitsOnSuccess(t *testing.T) {
	s := New()
	err := s.Do(context.Background(), func(ctx context.Context, r ports.Repositories) error {
		return r.Users.Create(ctx, &domain.User{Email: "a@x.com", Role: domain.RoleAdmin})
	})
	require.NoError(t, err)

	u, err := s.Repositories().Users.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
}

func TestStore_DoRollsBackOnError(t *testing.T) {
	s := New()
	boom := errors.New("boom")
	err := s.Do(context.Background(), func(ctx context.Context, r ports.Repositories) error {
		u := &domain.User{Email: "a@x.com", Role: domain.RoleVendor}
		if err := r.Users.Create(ctx, u); err != nil {
			return err
		}
		if err := r.Vendors.Create(ctx, domain.NewPlaceholderVendor(u, time.Now())); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.Repositories().Users.FindByEmail(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Empty(t, s.Vendors())

	// Sequences roll back too.
	u := &domain.User{Email: "b@x.com", Role: domain.RoleAdmin}
	require.NoError(t, s.Repositories().Users.Create(context.Background(), u))
	assert.Equal(t, int64(1), u.ID)
}

func TestStore_UniqueEmail(t *testing.T) {
	s := New()
	users := s.Repositories().Users
	require.NoError(t, users.Create(context.Background(), &domain.User{Email: "a@x.com"}))
	assert.ErrorIs(t, users.Create(context.Background(), &domain.User{Email: "a@x.com"}), domain.ErrUserExists)
}

func TestStore_MarkReviewedRequiresPending(t *testing.T) {
	s := New()
	ctx := context.Background()
	repos := s.Repositories()

	u := &domain.User{Email: "v@x.com", Role: domain.RoleVendor}
	require.NoError(t, repos.Users.Create(ctx, u))
	v := domain.NewPlaceholderVendor(u, time.Now())
	require.NoError(t, repos.Vendors.Create(ctx, v))
	req := &domain.LicenseRequest{VendorID: v.VendorID}
	require.NoError(t, repos.LicenseRequests.Create(ctx, req))

	now := time.Now()
	require.NoError(t, repos.LicenseRequests.MarkReviewed(ctx, req.RequestID, domain.RequestApproved, 1, now))
	assert.ErrorIs(t, repos.LicenseRequests.MarkReviewed(ctx, req.RequestID, domain.RequestApproved, 1, now), domain.ErrRequestNotPending)
	assert.ErrorIs(t, repos.LicenseRequests.MarkReviewed(ctx, 404, domain.RequestApproved, 1, now), domain.ErrRequestNotFound)
}

func TestStore_VendorListingJoinsAccount(t *testing.T) {
	s := New()
	ctx := context.Background()
	repos := s.Repositories()

	u := &domain.User{Email: "v@x.com", Role: domain.RoleVendor, IsActive: true}
	require.NoError(t, repos.Users.Create(ctx, u))
	require.NoError(t, repos.Vendors.Create(ctx, domain.NewPlaceholderVendor(u, time.Now())))

	list, err := repos.Vendors.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.VendorAccount{Email: "v@x.com", Role: domain.RoleVendor, IsActive: true}, list[0].User)
}

func TestStore_DoHonoursCancelledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.Do(ctx, func(context.Context, ports.Repositories) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

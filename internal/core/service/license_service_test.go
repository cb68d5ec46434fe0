package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
	"github.com/vendorsaathi/vendor-admin/internal/infrastructure/db/memory"
)

const adminID int64 = 1

// seedRequest creates a vendor user with a profile and one PENDING request.
func seedRequest(t *testing.T, store *memory.Store) (*domain.Vendor, *domain.LicenseRequest) {
	t.Helper()
	ctx := context.Background()
	repos := store.Repositories()

	user := &domain.User{Email: "vendor@x.com", FullName: "Vendor", Role: domain.RoleVendor, IsActive: true}
	require.NoError(t, repos.Users.Create(ctx, user))
	vendor := domain.NewPlaceholderVendor(user, time.Now())
	require.NoError(t, repos.Vendors.Create(ctx, vendor))

	req := &domain.LicenseRequest{VendorID: vendor.VendorID, Status: domain.RequestPending}
	require.NoError(t, repos.LicenseRequests.Create(ctx, req))
	return vendor, req
}

func requestStatus(t *testing.T, store *memory.Store, id int64) *domain.LicenseRequest {
	t.Helper()
	req, err := store.Repositories().LicenseRequests.FindForUpdate(context.Background(), id)
	require.NoError(t, err)
	return req
}

func TestLicenseService_Approve_Success(t *testing.T) {
	store := memory.New()
	vendor, req := seedRequest(t, store)
	svc := NewLicenseService(store, time.Second, zerolog.Nop())

	lic, err := svc.Approve(context.Background(), req.RequestID, adminID)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(lic.LicenseUID, "LIC-"))
	assert.Equal(t, vendor.VendorID, lic.VendorID)
	assert.Equal(t, domain.LicenseActive, lic.Status)
	assert.Equal(t, adminID, lic.CreatedBy)
	assert.Equal(t, lic.IssueDate.AddDate(1, 0, 0), lic.ExpiryDate)

	got := requestStatus(t, store, req.RequestID)
	assert.Equal(t, domain.RequestApproved, got.Status)
	require.NotNil(t, got.ReviewedBy)
	assert.Equal(t, adminID, *got.ReviewedBy)
	require.NotNil(t, got.ReviewedAt)

	audit := store.AuditLog()
	require.Len(t, audit, 1)
	assert.Equal(t, domain.ActionApprovedLicense, audit[0].Action)
	assert.Equal(t, domain.EntityLicense, audit[0].EntityType)
	assert.Equal(t, lic.LicenseID, audit[0].EntityID)
	assert.Equal(t, adminID, audit[0].AdminID)
}

func TestLicenseService_Approve_RequestNotFound(t *testing.T) {
	store := memory.New()
	svc := NewLicenseService(store, time.Second, zerolog.Nop())

	_, err := svc.Approve(context.Background(), 99, adminID)
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)
	assert.Empty(t, store.Licenses())
	assert.Empty(t, store.AuditLog())
}

func TestLicenseService_Approve_AlreadyApproved(t *testing.T) {
	store := memory.New()
	_, req := seedRequest(t, store)
	svc := NewLicenseService(store, time.Second, zerolog.Nop())

	_, err := svc.Approve(context.Background(), req.RequestID, adminID)
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), req.RequestID, adminID)
	assert.ErrorIs(t, err, domain.ErrRequestNotPending)
	assert.Len(t, store.Licenses(), 1)
	assert.Len(t, store.AuditLog(), 1)
}

func TestLicenseService_Approve_ConcurrentCallersSucceedOnce(t *testing.T) {
	store := memory.New()
	_, req := seedRequest(t, store)
	svc := NewLicenseService(store, 5*time.Second, zerolog.Nop())

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Approve(context.Background(), req.RequestID, adminID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrRequestNotPending):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, callers-1, conflicts)
	assert.Len(t, store.Licenses(), 1)
	assert.Len(t, store.AuditLog(), 1)
	assert.Equal(t, domain.RequestApproved, requestStatus(t, store, req.RequestID).Status)
}

func TestLicenseService_Approve_LicenseCreateFailureRollsBack(t *testing.T) {
	store := memory.New()
	_, req := seedRequest(t, store)
	svc := NewLicenseService(faultyStore{Store: store, licenses: failingLicenses{}}, time.Second, zerolog.Nop())

	_, err := svc.Approve(context.Background(), req.RequestID, adminID)
	var txErr *domain.TransactionError
	require.ErrorAs(t, err, &txErr)
	assert.ErrorIs(t, err, errConstraint)

	got := requestStatus(t, store, req.RequestID)
	assert.Equal(t, domain.RequestPending, got.Status)
	assert.Nil(t, got.ReviewedBy)
	assert.Empty(t, store.Licenses())
	assert.Empty(t, store.AuditLog())
}

func TestLicenseService_Approve_AuditFailureRollsBack(t *testing.T) {
	store := memory.New()
	_, req := seedRequest(t, store)
	svc := NewLicenseService(faultyStore{Store: store, audit: failingAudit{}}, time.Second, zerolog.Nop())

	_, err := svc.Approve(context.Background(), req.RequestID, adminID)
	var txErr *domain.TransactionError
	require.ErrorAs(t, err, &txErr)

	assert.Equal(t, domain.RequestPending, requestStatus(t, store, req.RequestID).Status)
	assert.Empty(t, store.Licenses())
	assert.Empty(t, store.AuditLog())
}

func TestLicenseService_Approve_UniqueUIDs(t *testing.T) {
	store := memory.New()
	vendor, first := seedRequest(t, store)
	second := &domain.LicenseRequest{VendorID: vendor.VendorID}
	require.NoError(t, store.Repositories().LicenseRequests.Create(context.Background(), second))

	svc := NewLicenseService(store, time.Second, zerolog.Nop())
	frozen := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return frozen }

	a, err := svc.Approve(context.Background(), first.RequestID, adminID)
	require.NoError(t, err)
	b, err := svc.Approve(context.Background(), second.RequestID, adminID)
	require.NoError(t, err)
	assert.NotEqual(t, a.LicenseUID, b.LicenseUID)
}

func TestLicenseService_RequestLicense(t *testing.T) {
	store := memory.New()
	vendor, _ := seedRequest(t, store)
	svc := NewLicenseService(store, time.Second, zerolog.Nop())

	req, err := svc.RequestLicense(context.Background(), vendor.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestPending, req.Status)
	assert.Equal(t, vendor.VendorID, req.VendorID)

	_, err = svc.RequestLicense(context.Background(), 12345)
	assert.ErrorIs(t, err, domain.ErrVendorNotFound)
}

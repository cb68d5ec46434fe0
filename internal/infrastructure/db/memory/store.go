// Package memory is a process-local Store. Transactions are serialized by a
// single mutex and applied copy-on-write, which gives serializable isolation.
// It backs STORE_DRIVER=memory for local runs and the service tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
	"github.com/vendorsaathi/vendor-admin/internal/core/ports"
)

// ErrDuplicateLicenseUID mirrors the unique constraint on licenses.license_uid.
var ErrDuplicateLicenseUID = errors.New("duplicate license uid")

type state struct {
	seq      map[string]int64
	users    map[int64]domain.User
	emails   map[string]int64
	vendors  map[int64]domain.Vendor
	requests map[int64]domain.LicenseRequest
	licenses map[int64]domain.License
	uids     map[string]int64
	audit    []domain.AuditLog
}

func newState() *state {
	return &state{
		seq:      map[string]int64{},
		users:    map[int64]domain.User{},
		emails:   map[string]int64{},
		vendors:  map[int64]domain.Vendor{},
		requests: map[int64]domain.LicenseRequest{},
		licenses: map[int64]domain.License{},
		uids:     map[string]int64{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.seq {
		c.seq[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.emails {
		c.emails[k] = v
	}
	for k, v := range s.vendors {
		c.vendors[k] = v
	}
	for k, v := range s.requests {
		c.requests[k] = v
	}
	for k, v := range s.licenses {
		c.licenses[k] = v
	}
	for k, v := range s.uids {
		c.uids[k] = v
	}
	c.audit = append([]domain.AuditLog(nil), s.audit...)
	return c
}

func (s *state) next(name string) int64 {
	s.seq[name]++
	return s.seq[name]
}

// Store is an in-memory ports.Store.
type Store struct {
	mu sync.Mutex
	st *state
}

func New() *Store {
	return &Store{st: newState()}
}

// Do runs fn against a private copy of the state and publishes the copy only
// when fn succeeds.
func (s *Store) Do(ctx context.Context, fn ports.TxFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	draft := s.st.clone()
	if err := fn(ctx, repositoriesFor(func() *state { return draft }, noLock{})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = draft
	return nil
}

// Repositories returns auto-committing repositories.
func (s *Store) Repositories() ports.Repositories {
	return repositoriesFor(func() *state { return s.st }, &s.mu)
}

func (s *Store) Ping(context.Context) error  { return nil }
func (s *Store) Close(context.Context) error { return nil }

// Licenses returns every issued license ordered by id.
func (s *Store) Licenses() []domain.License {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.License, 0, len(s.st.licenses))
	for _, l := range s.st.licenses {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LicenseID < out[j].LicenseID })
	return out
}

// AuditLog returns every audit entry in append order.
func (s *Store) AuditLog() []domain.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AuditLog(nil), s.st.audit...)
}

// Vendors returns every vendor profile ordered by id.
func (s *Store) Vendors() []domain.Vendor {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Vendor, 0, len(s.st.vendors))
	for _, v := range s.st.vendors {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VendorID < out[j].VendorID })
	return out
}

type noLock struct{}

func (noLock) Lock()   {}
func (noLock) Unlock() {}

type repo struct {
	st   func() *state
	lock sync.Locker
}

func repositoriesFor(st func() *state, lock sync.Locker) ports.Repositories {
	r := &repo{st: st, lock: lock}
	return ports.Repositories{
		Users:           userRepo{r},
		Vendors:         vendorRepo{r},
		LicenseRequests: requestRepo{r},
		Licenses:        licenseRepo{r},
		Audit:           auditRepo{r},
	}
}

type userRepo struct{ *repo }

func (r userRepo) Create(_ context.Context, u *domain.User) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	st := r.st()

	if _, ok := st.emails[u.Email]; ok {
		return domain.ErrUserExists
	}
	u.ID = st.next("users")
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	st.users[u.ID] = *u
	st.emails[u.Email] = u.ID
	return nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	st := r.st()

	id, ok := st.emails[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := st.users[id]
	return &u, nil
}

type vendorRepo struct{ *repo }

func (r vendorRepo) Create(_ context.Context, v *domain.Vendor) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	st := r.st()

	if _, ok := st.users[v.UserID]; !ok {
		return domain.ErrUserNotFound
	}
	for _, existing := range st.vendors {
		if existing.UserID == v.UserID {
			return errors.New("vendor profile already exists for user")
		}
	}
	v.VendorID = st.next("vendors")
	st.vendors[v.VendorID] = *v
	return nil
}

func (r vendorRepo) FindByUserID(_ context.Context, userID int64) (*domain.Vendor, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, v := range r.st().vendors {
		if v.UserID == userID {
			out := v
			return &out, nil
		}
	}
	return nil, domain.ErrVendorNotFound
}

func (r vendorRepo) List(_ context.Context) ([]domain.VendorListing, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	st := r.st()

	out := make([]domain.VendorListing, 0, len(st.vendors))
	for _, v := range st.vendors {
		u := st.users[v.UserID]
		out = append(out, domain.VendorListing{
			Vendor: v,
			User:   domain.VendorAccount{Email: u.Email, Role: u.Role, IsActive: u.IsActive},
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VendorID < out[j].VendorID })
	return out, nil
}

type requestRepo struct{ *repo }

func (r requestRepo) Create(_ context.Context, req *domain.LicenseRequest) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	st := r.st()

	if _, ok := st.vendors[req.VendorID]; !ok {
		return domain.ErrVendorNotFound
	}
	req.RequestID = st.next("license_requests")
	if req.Status == "" {
		req.Status = domain.RequestPending
	}
	st.requests[req.RequestID] = *req
	return nil
}

func (r requestRepo) FindForUpdate(_ context.Context, id int64) (*domain.LicenseRequest, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	req, ok := r.st().requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	return &req, nil
}

func (r requestRepo) MarkReviewed(_ context.Context, id int64, status domain.RequestStatus, adminID int64, at time.Time) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	st := r.st()

	req, ok := st.requests[id]
	if !ok {
		return domain.ErrRequestNotFound
	}
	if req.Status != domain.RequestPending {
		return domain.ErrRequestNotPending
	}
	req.Status = status
	req.ReviewedBy = &adminID
	req.ReviewedAt = &at
	st.requests[id] = req
	return nil
}

type licenseRepo struct{ *repo }

func (r licenseRepo) Create(_ context.Context, l *domain.License) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	st := r.st()

	if _, ok := st.uids[l.LicenseUID]; ok {
		return ErrDuplicateLicenseUID
	}
	l.LicenseID = st.next("licenses")
	st.licenses[l.LicenseID] = *l
	st.uids[l.LicenseUID] = l.LicenseID
	return nil
}

type auditRepo struct{ *repo }

func (r auditRepo) Append(_ context.Context, e *domain.AuditLog) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	st := r.st()

	e.AuditID = st.next("audit_logs")
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	st.audit = append(st.audit, *e)
	return nil
}

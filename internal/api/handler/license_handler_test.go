package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vendorsaathi/vendor-admin/internal/api/middleware"
	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
)

type stubLicenseService struct {
	requestFn func(ctx context.Context, userID int64) (*domain.LicenseRequest, error)
	approveFn func(ctx context.Context, requestID, adminID int64) (*domain.License, error)
}

func (s *stubLicenseService) RequestLicense(ctx context.Context, userID int64) (*domain.LicenseRequest, error) {
	return s.requestFn(ctx, userID)
}

func (s *stubLicenseService) Approve(ctx context.Context, requestID, adminID int64) (*domain.License, error) {
	return s.approveFn(ctx, requestID, adminID)
}

var adminIdentity = domain.Identity{Principal: domain.Principal{UserID: 1, Email: "admin@x.com", Role: domain.RoleAdmin}}

func approveContext(e *echo.Echo, id string, withIdentity bool) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/admin/license-requests/"+id+"/approve", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/admin/license-requests/:id/approve")
	c.SetParamNames("id")
	c.SetParamValues(id)
	if withIdentity {
		middleware.SetIdentity(c, adminIdentity)
	}
	return c, rec
}

func TestLicenseHandler_Approve_Success(t *testing.T) {
	issued := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	handler := NewLicenseHandler(&stubLicenseService{
		approveFn: func(ctx context.Context, requestID, adminID int64) (*domain.License, error) {
			if requestID != 5 || adminID != 1 {
				t.Fatalf("unexpected args %d %d", requestID, adminID)
			}
			return domain.NewLicense("LIC-1", 11, adminID, issued), nil
		},
	})

	c, rec := approveContext(newTestEcho(), "5", true)
	if err := handler.Approve(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp licenseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success || resp.License.LicenseUID != "LIC-1" || resp.License.Status != domain.LicenseActive {
		t.Fatalf("unexpected response %+v", resp)
	}
	if !resp.License.ExpiryDate.Equal(issued.AddDate(1, 0, 0)) {
		t.Fatalf("unexpected expiry %s", resp.License.ExpiryDate)
	}
}

func TestLicenseHandler_Approve_InvalidID(t *testing.T) {
	handler := NewLicenseHandler(&stubLicenseService{
		approveFn: func(ctx context.Context, requestID, adminID int64) (*domain.License, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	})

	for _, id := range []string{"abc", "0", "-3"} {
		c, _ := approveContext(newTestEcho(), id, true)
		issues := issuesByPath(t, handler.Approve(c))
		if issues["id"] != "Invalid request id" {
			t.Fatalf("id %q: unexpected issues %v", id, issues)
		}
	}
}

func TestLicenseHandler_Approve_Errors(t *testing.T) {
	txErr := &domain.TransactionError{Op: "approve license", Err: errors.New("constraint violation")}

	tests := []struct {
		name      string
		err       error
		operation bool
	}{
		{name: "not found", err: domain.ErrRequestNotFound},
		{name: "already reviewed", err: domain.ErrRequestNotPending},
		{name: "rolled back", err: txErr, operation: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewLicenseHandler(&stubLicenseService{
				approveFn: func(ctx context.Context, requestID, adminID int64) (*domain.License, error) {
					return nil, tt.err
				},
			})

			c, _ := approveContext(newTestEcho(), "5", true)
			err := handler.Approve(c)
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}

			var oe *domain.OperationError
			if errors.As(err, &oe) != tt.operation {
				t.Fatalf("operation wrapping mismatch for %v", err)
			}
			if tt.operation && oe.Message != "License approval failed" {
				t.Fatalf("unexpected message %q", oe.Message)
			}
		})
	}
}

func TestLicenseHandler_Approve_WithoutIdentity(t *testing.T) {
	handler := NewLicenseHandler(&stubLicenseService{})

	c, _ := approveContext(newTestEcho(), "5", false)
	if err := handler.Approve(c); !errors.Is(err, domain.ErrTokenMissing) {
		t.Fatalf("expected ErrTokenMissing, got %v", err)
	}
}

func TestLicenseHandler_Request(t *testing.T) {
	vendorIdentity := domain.Identity{Principal: domain.Principal{UserID: 2, Email: "v@x.com", Role: domain.RoleVendor}}

	handler := NewLicenseHandler(&stubLicenseService{
		requestFn: func(ctx context.Context, userID int64) (*domain.LicenseRequest, error) {
			if userID != 2 {
				t.Fatalf("unexpected user %d", userID)
			}
			return &domain.LicenseRequest{RequestID: 9, VendorID: 4, Status: domain.RequestPending}, nil
		},
	})

	e := newTestEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/vendor/license-requests", nil), rec)
	middleware.SetIdentity(c, vendorIdentity)

	if err := handler.Request(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp licenseRequestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Request.RequestID != 9 || resp.Request.Status != domain.RequestPending {
		t.Fatalf("unexpected response %+v", resp)
	}
}

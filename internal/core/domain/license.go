package domain

import "time"

// RequestStatus represents the review state of a license request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

// validRequestTransitions defines the review state machine.
var validRequestTransitions = map[RequestStatus][]RequestStatus{
	RequestPending: {RequestApproved, RequestRejected},
}

// CanTransitionTo reports whether a request may move from s to next.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range validRequestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// LicenseStatus represents the lifecycle state of an issued license.
type LicenseStatus string

const (
	LicenseActive  LicenseStatus = "ACTIVE"
	LicenseExpired LicenseStatus = "EXPIRED"
	LicenseRevoked LicenseStatus = "REVOKED"
)

// LicenseValidityYears is how long a license stays valid after issuance.
const LicenseValidityYears = 1

// LicenseRequest is a vendor's application for a license.
type LicenseRequest struct {
	RequestID  int64         `json:"request_id"`
	VendorID   int64         `json:"vendor_id"`
	Status     RequestStatus `json:"status"`
	ReviewedBy *int64        `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time    `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// License is issued when an admin approves a LicenseRequest.
type License struct {
	LicenseID  int64         `json:"license_id"`
	LicenseUID string        `json:"license_uid"`
	VendorID   int64         `json:"vendor_id"`
	IssueDate  time.Time     `json:"issue_date"`
	ExpiryDate time.Time     `json:"expiry_date"`
	Status     LicenseStatus `json:"status"`
	CreatedBy  int64         `json:"created_by"`
}

// NewLicense builds an ACTIVE license valid for one calendar year from now.
func NewLicense(uid string, vendorID, adminID int64, now time.Time) *License {
	return &License{
		LicenseUID: uid,
		VendorID:   vendorID,
		IssueDate:  now,
		ExpiryDate: now.AddDate(LicenseValidityYears, 0, 0),
		Status:     LicenseActive,
		CreatedBy:  adminID,
	}
}

const (
	ActionApprovedLicense = "APPROVED_LICENSE"
	EntityLicense         = "LICENSE"
)

// AuditLog is an append-only record of a mutating admin action.
type AuditLog struct {
	AuditID    int64     `json:"audit_id"`
	AdminID    int64     `json:"admin_id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   int64     `json:"entity_id"`
	CreatedAt  time.Time `json:"created_at"`
}

package domain

import "time"

// VendorPlaceholderDOB is stored until the vendor completes their profile.
var VendorPlaceholderDOB = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// Vendor is the 1:1 profile attached to every VENDOR user.
type Vendor struct {
	VendorID      int64     `json:"vendor_id"`
	UserID        int64     `json:"user_id"`
	FullName      string    `json:"full_name"`
	DOB           time.Time `json:"dob"`
	PhoneNumber   string    `json:"phone_number"`
	AadhaarNumber string    `json:"aadhaar_number"`
	PanNumber     string    `json:"pan_number"`
	Address       string    `json:"address"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewPlaceholderVendor builds the profile created alongside a VENDOR signup.
// Every field the user has not supplied yet carries a sentinel value.
func NewPlaceholderVendor(u *User, now time.Time) *Vendor {
	return &Vendor{
		UserID:    u.ID,
		FullName:  u.FullName,
		DOB:       VendorPlaceholderDOB,
		CreatedAt: now,
	}
}

// VendorAccount is the subset of the owning user exposed in vendor listings.
type VendorAccount struct {
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	IsActive bool   `json:"is_active"`
}

// VendorListing is a vendor profile joined with its account summary.
type VendorListing struct {
	Vendor
	User VendorAccount `json:"user"`
}

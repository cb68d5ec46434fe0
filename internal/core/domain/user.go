package domain

import "time"

// Role is the RBAC attribute carried by every user and session token.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleVendor Role = "VENDOR"
)

// Roles lists every known role in a stable order.
var Roles = []Role{RoleAdmin, RoleVendor}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// User models an account that can authenticate against the API.
type User struct {
	ID           int64     `json:"user_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Principal is the set of identity facts embedded in a session token.
type Principal struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// PrincipalOf returns the token claims for u.
func PrincipalOf(u *User) Principal {
	return Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
}

// Identity is a verified Principal together with the token's timestamps.
type Identity struct {
	Principal
	IssuedAt  int64 `json:"iat"`
	ExpiresAt int64 `json:"exp"`
}

// HasRole reports whether the identity's role is in allowed.
func (i Identity) HasRole(allowed ...Role) bool {
	for _, r := range allowed {
		if i.Role == r {
			return true
		}
	}
	return false
}

package handler

import (
	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
)

type signupRequest struct {
	FullName        string `json:"fullName"        validate:"min=2,max=100"`
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"        validate:"min=8,max=128"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Role            string `json:"role"            validate:"required,oneof=ADMIN VENDOR"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// publicUser is the part of a user returned after signup.
type publicUser struct {
	UserID   int64       `json:"user_id"`
	Email    string      `json:"email"`
	FullName string      `json:"full_name"`
	Role     domain.Role `json:"role"`
}

func toPublicUser(u *domain.User) publicUser {
	return publicUser{UserID: u.ID, Email: u.Email, FullName: u.FullName, Role: u.Role}
}

type signupResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	User    publicUser `json:"user"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

type profileResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	User    domain.Identity `json:"user"`
}

type vendorsResponse struct {
	Success bool                   `json:"success"`
	Vendors []domain.VendorListing `json:"vendors"`
}

type licenseResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	License *domain.License `json:"license"`
}

type licenseRequestResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Request *domain.LicenseRequest `json:"request"`
}

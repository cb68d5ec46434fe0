package ports

import (
	"context"

	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
)

// SignupInput carries a structurally valid signup request.
type SignupInput struct {
	FullName string
	Email    string
	Password string
	Role     domain.Role
}

type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(p domain.Principal) (string, error)
}

// TokenVerifier validates session tokens and decodes their claims.
// Every failure wraps domain.ErrInvalidToken.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

// PasswordHasher is a slow, salted one-way password function.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

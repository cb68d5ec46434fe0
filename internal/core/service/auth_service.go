package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
	"github.com/vendorsaathi/vendor-admin/internal/core/ports"
)

// AuthOptions tunes login behaviour.
type AuthOptions struct {
	// UnifyLoginErrors reports unknown emails as invalid credentials so that
	// login responses do not reveal which accounts exist.
	UnifyLoginErrors bool
}

// AuthService implements signup and login.
type AuthService struct {
	store     ports.Store
	passwords ports.PasswordHasher
	tokens    ports.TokenIssuer
	vendors   ports.VendorCache
	opts      AuthOptions
	log       zerolog.Logger
	now       func() time.Time
}

func NewAuthService(
	store ports.Store,
	passwords ports.PasswordHasher,
	tokens ports.TokenIssuer,
	vendors ports.VendorCache,
	opts AuthOptions,
	log zerolog.Logger,
) *AuthService {
	if vendors == nil {
		vendors = NopVendorCache{}
	}
	return &AuthService{
		store:     store,
		passwords: passwords,
		tokens:    tokens,
		vendors:   vendors,
		opts:      opts,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Signup creates a user and, for VENDOR users, the placeholder vendor
// profile in the same transaction.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	if !in.Role.Valid() {
		return nil, &domain.ValidationError{Issues: []domain.Issue{{Path: []string{"role"}, Message: "Invalid role"}}}
	}

	_, err := s.store.Repositories().Users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("signup: lookup email: %w", err)
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	now := s.now()
	user := &domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    now,
	}

	err = s.store.Do(ctx, func(ctx context.Context, repos ports.Repositories) error {
		if err := repos.Users.Create(ctx, user); err != nil {
			return err
		}
		if user.Role != domain.RoleVendor {
			return nil
		}
		if err := repos.Vendors.Create(ctx, domain.NewPlaceholderVendor(user, now)); err != nil {
			return fmt.Errorf("create vendor profile: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.ErrUserExists
		}
		return nil, &domain.TransactionError{Op: "signup", Err: err}
	}

	if user.Role == domain.RoleVendor {
		if err := s.vendors.Invalidate(ctx); err != nil {
			s.log.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to invalidate vendor cache")
		}
	}

	s.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("user signed up")
	return user, nil
}

// Login verifies credentials and returns a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.Repositories().Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			if s.opts.UnifyLoginErrors {
				return "", domain.ErrInvalidLogin
			}
			return "", domain.ErrUserNotFound
		}
		return "", fmt.Errorf("login: lookup email: %w", err)
	}

	if !s.passwords.Verify(password, user.PasswordHash) {
		if s.opts.UnifyLoginErrors {
			return "", domain.ErrInvalidLogin
		}
		return "", domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", domain.ErrUserInactive
	}

	token, err := s.tokens.Issue(domain.PrincipalOf(user))
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	s.log.Debug().Int64("user_id", user.ID).Msg("login succeeded")
	return token, nil
}

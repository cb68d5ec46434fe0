package middleware

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vendorsaathi/vendor-admin/internal/api/metrics"
	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
	"github.com/vendorsaathi/vendor-admin/internal/core/ports"
)

const identityKey = "identity"

var bearerPrefix = regexp.MustCompile(`(?i)^bearer(\s+|$)`)

// BearerToken extracts the token from an Authorization header value. The
// scheme is matched case-insensitively and surrounding whitespace is dropped.
// A header without the Bearer scheme is returned whole, so it fails
// verification rather than counting as missing.
func BearerToken(header string) string {
	return strings.TrimSpace(bearerPrefix.ReplaceAllString(strings.TrimSpace(header), ""))
}

// Guard derives an authenticated identity from inbound requests.
type Guard struct {
	tokens ports.TokenVerifier
	log    zerolog.Logger
}

func NewGuard(tokens ports.TokenVerifier, log zerolog.Logger) *Guard {
	return &Guard{tokens: tokens, log: log}
}

// Authenticate returns the identity carried by the request's bearer token.
// A missing token yields domain.ErrTokenMissing; anything else that fails
// verification yields an error matching domain.ErrInvalidToken.
func (g *Guard) Authenticate(r *http.Request) (domain.Identity, error) {
	token := BearerToken(r.Header.Get(echo.HeaderAuthorization))
	if token == "" {
		metrics.TokenRejectionsTotal.WithLabelValues("missing").Inc()
		return domain.Identity{}, domain.ErrTokenMissing
	}

	id, err := g.tokens.Verify(token)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidToken) {
			err = domain.InvalidToken(err)
		}
		reason := rejectionReason(err)
		metrics.TokenRejectionsTotal.WithLabelValues(reason).Inc()
		g.log.Debug().Err(err).Str("reason", reason).Str("path", r.URL.Path).Msg("token rejected")
		return domain.Identity{}, err
	}
	return id, nil
}

// AuthenticateWithRole authenticates r and then requires one of allowed.
func (g *Guard) AuthenticateWithRole(r *http.Request, allowed ...domain.Role) (domain.Identity, error) {
	id, err := g.Authenticate(r)
	if err != nil {
		return domain.Identity{}, err
	}
	if err := Authorize(id, allowed...); err != nil {
		metrics.TokenRejectionsTotal.WithLabelValues("forbidden").Inc()
		g.log.Debug().Int64("user_id", id.UserID).Str("role", string(id.Role)).Str("path", r.URL.Path).Msg("role rejected")
		return domain.Identity{}, err
	}
	return id, nil
}

// Require is the Echo form of the guard. With no roles it only
// authenticates; otherwise it also enforces the role set. The identity is
// stored on the context for handlers.
func (g *Guard) Require(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var (
				id  domain.Identity
				err error
			)
			if len(roles) == 0 {
				id, err = g.Authenticate(c.Request())
			} else {
				id, err = g.AuthenticateWithRole(c.Request(), roles...)
			}
			if err != nil {
				return err
			}

			SetIdentity(c, id)
			return next(c)
		}
	}
}

// SetIdentity stores id on the context for IdentityFrom.
func SetIdentity(c echo.Context, id domain.Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the identity stored by Require.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	return id, ok
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenSignature):
		return "signature"
	case errors.Is(err, domain.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, domain.ErrTokenClaims):
		return "claims"
	default:
		return "invalid"
	}
}

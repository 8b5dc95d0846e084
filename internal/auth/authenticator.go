package auth

import (
	"strings"

	"github.com/frahmantamala/vehicle-service-shop/internal"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/identity"
)

const bearerScheme = "Bearer"

// Authenticator resolves the caller from a raw Authorization header. It does
// no database access.
type Authenticator struct {
	tokens TokenIssuer
}

func NewAuthenticator(tokens TokenIssuer) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// AuthenticateRequest returns ErrMissingCredential when no bearer token is
// present and ErrInvalidCredential when the token does not verify.
func (a *Authenticator) AuthenticateRequest(rawHeader string) (identity.Identity, error) {
	token := ExtractBearerToken(rawHeader)
	if token == "" {
		return identity.Identity{}, internal.ErrMissingCredential
	}
	return a.tokens.Verify(token)
}

// ExtractBearerToken returns the token of a "Bearer <token>" header, or ""
// for any other shape. The scheme is matched case-insensitively.
func ExtractBearerToken(rawHeader string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(rawHeader), " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

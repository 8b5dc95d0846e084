package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/vehicle-service-shop/internal"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/identity"
	"github.com/frahmantamala/vehicle-service-shop/internal/observability"
	"github.com/frahmantamala/vehicle-service-shop/internal/transport"
	"github.com/frahmantamala/vehicle-service-shop/pkg/logger"
)

type Authenticator interface {
	AuthenticateRequest(rawHeader string) (identity.Identity, error)
}

// Authenticate rejects requests without a bearer token with 401 and requests
// with a bad or expired token with 403. On success the identity is attached
// to the request context and the request logger.
func Authenticate(authn Authenticator, lg *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := authn.AuthenticateRequest(r.Header.Get("Authorization"))
			if err != nil {
				result := observability.AuthResultInvalid
				if errors.Is(err, internal.ErrMissingCredential) {
					result = observability.AuthResultMissing
				}
				observability.RecordAuthentication(result)
				lg.WarnContext(r.Context(), "authentication failed",
					"path", r.URL.Path, "result", result, "error", err)
				transport.WriteAppError(w, r, lg, err)
				return
			}

			observability.RecordAuthentication(observability.AuthResultOK)
			ctx := internal.ContextWithIdentity(r.Context(), id)
			ctx = logger.With(ctx, "user_id", id.UserID, "role", id.RoleName)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

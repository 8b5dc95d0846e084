package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/vehicle-service-shop/internal"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/identity"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/permission"
	"github.com/frahmantamala/vehicle-service-shop/internal/transport"
)

type Authorizer interface {
	Authorize(ctx context.Context, id identity.Identity, resource permission.Resource, action permission.Action) error
}

// RequireAccess runs the coarse-grained matrix check before the handler. It
// must sit behind Authenticate.
func RequireAccess(authz Authorizer, resource permission.Resource, action permission.Action, lg *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := internal.IdentityFromContext(r.Context())
			if !ok {
				transport.WriteAppError(w, r, lg, internal.ErrMissingCredential)
				return
			}

			if err := authz.Authorize(r.Context(), id, resource, action); err != nil {
				transport.WriteAppError(w, r, lg, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

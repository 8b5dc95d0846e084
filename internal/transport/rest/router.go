package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/vehicle-service-shop/internal/access"
	"github.com/frahmantamala/vehicle-service-shop/internal/auth"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/permission"
	"github.com/frahmantamala/vehicle-service-shop/internal/observability"
	"github.com/frahmantamala/vehicle-service-shop/internal/transport/middleware"
	"github.com/frahmantamala/vehicle-service-shop/internal/transport/swagger"
	"github.com/frahmantamala/vehicle-service-shop/internal/user"
	"github.com/frahmantamala/vehicle-service-shop/internal/vehicle"
	"github.com/go-chi/chi"
	"github.com/go-chi/cors"
)

// Routes carries everything RegisterAllRoutes mounts. Nil handlers leave
// their routes unregistered.
type Routes struct {
	DB             *sql.DB
	Authenticator  middleware.Authenticator
	Authorizer     middleware.Authorizer
	AuthHandler    *auth.Handler
	UserHandler    *user.Handler
	AccessHandler  *access.Handler
	VehicleHandler *vehicle.Handler
	AllowedOrigins []string
	MetricsPath    string
	Logger         *slog.Logger
}

func RegisterAllRoutes(router *chi.Mux, deps Routes) {
	healthHandler := NewHealthHandler(deps.DB)
	lg := deps.Logger

	// Apply global middleware
	router.Use(cors.Handler(corsOptions(deps.AllowedOrigins)))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(lg))
	router.Use(middleware.LoggingMiddleware)

	// OpenAPI document and Swagger UI live outside the API prefix
	router.Get("/openapi.yml", swagger.ServeSpec)
	router.Handle("/swagger/*", swagger.Handler())

	if deps.MetricsPath != "" {
		router.Handle(deps.MetricsPath, observability.Handler())
	}

	require := func(resource permission.Resource, action permission.Action) func(http.Handler) http.Handler {
		return middleware.RequireAccess(deps.Authorizer, resource, action, lg)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if deps.AuthHandler != nil {
			r.Post("/users/register", deps.AuthHandler.Register)
			r.Post("/users/login", deps.AuthHandler.Login)
		}

		r.Group(func(pr chi.Router) {
			pr.Use(middleware.Authenticate(deps.Authenticator, lg))

			if deps.UserHandler != nil {
				pr.Get("/users/me", deps.UserHandler.GetCurrentUser)
				pr.With(require(permission.ResourceUser, permission.ActionRead)).
					Get("/users", deps.UserHandler.GetUsers)
				pr.With(require(permission.ResourceUser, permission.ActionUpdate)).
					Put("/users/{id}", deps.UserHandler.UpdateUser)
				pr.With(require(permission.ResourceUser, permission.ActionDelete)).
					Delete("/users/{id}", deps.UserHandler.DeleteUser)
			}

			if deps.AccessHandler != nil {
				pr.With(require(permission.ResourceRole, permission.ActionRead)).
					Get("/users/roles", deps.AccessHandler.GetRoles)
				pr.With(require(permission.ResourceAccess, permission.ActionRead)).
					Get("/users/accesses/{role_id}", deps.AccessHandler.GetRoleAccess)
				pr.With(require(permission.ResourceAccess, permission.ActionUpdate)).
					Post("/users/accesses", deps.AccessHandler.UpdateRoleAccess)
			}

			if deps.VehicleHandler != nil {
				pr.Route("/vehicles", func(vr chi.Router) {
					vr.With(require(permission.ResourceVehicle, permission.ActionRead)).
						Get("/", deps.VehicleHandler.GetVehicles)
					vr.With(require(permission.ResourceVehicle, permission.ActionCreate)).
						Post("/", deps.VehicleHandler.CreateVehicle)
					vr.With(require(permission.ResourceVehicle, permission.ActionRead)).
						Get("/{id}", deps.VehicleHandler.GetVehicle)
					vr.With(require(permission.ResourceVehicle, permission.ActionUpdate)).
						Put("/{id}", deps.VehicleHandler.UpdateVehicle)
					vr.With(require(permission.ResourceVehicle, permission.ActionDelete)).
						Delete("/{id}", deps.VehicleHandler.DeleteVehicle)
				})
			}
		})
	})
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.TraceHeader},
		ExposedHeaders:   []string{middleware.TraceHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/vehicle-service-shop/internal"
	"github.com/frahmantamala/vehicle-service-shop/internal/access"
	accessPostgres "github.com/frahmantamala/vehicle-service-shop/internal/access/postgres"
	"github.com/frahmantamala/vehicle-service-shop/internal/auth"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/events"
	"github.com/frahmantamala/vehicle-service-shop/internal/transport"
	"github.com/frahmantamala/vehicle-service-shop/internal/transport/rest"
	"github.com/frahmantamala/vehicle-service-shop/internal/user"
	userPostgres "github.com/frahmantamala/vehicle-service-shop/internal/user/postgres"
	"github.com/frahmantamala/vehicle-service-shop/internal/vehicle"
	vehiclePostgres "github.com/frahmantamala/vehicle-service-shop/internal/vehicle/postgres"
	"github.com/frahmantamala/vehicle-service-shop/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const (
	shutdownTimeout   = 30 * time.Second
	eventDrainTimeout = 5 * time.Second
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config        *internal.Config
	DB            *sqlx.DB
	Gorm          *gorm.DB
	Router        *chi.Mux
	EventBus      *events.EventBus
	AccessService *access.Service
	Logger        *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	lg := deps.Logger

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = deps.AccessService.SeedDefaults(ctx)
	cancel()
	if err != nil {
		lg.Error("failed to seed access matrix", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		lg.Info("Starting HTTP server", "address", addr, "environment", deps.Config.Environment)
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		lg.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			lg.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	// let in-flight audit handlers finish before the pool goes away
	drainCtx, cancelDrain := context.WithTimeout(context.Background(), eventDrainTimeout)
	if err := deps.EventBus.Drain(drainCtx); err != nil {
		lg.Warn("Audit handlers still running at shutdown", "error", err)
	}
	cancelDrain()
	if err := deps.DB.Close(); err != nil {
		lg.Error("Database close error", "error", err)
	}

	lg.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	bus := events.NewEventBus(lg)
	events.RegisterAuditLog(bus, lg)

	router := chi.NewRouter()
	accessService, err := wireRoutes(router, config, gormDB, db, bus, lg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Dependencies{
		Config:        config,
		DB:            db,
		Gorm:          gormDB,
		Router:        router,
		EventBus:      bus,
		AccessService: accessService,
		Logger:        lg,
	}, nil
}

// wireRoutes builds every repository, service and handler and mounts them on
// router. The access service is returned so the caller can seed the matrix.
func wireRoutes(router *chi.Mux, cfg *internal.Config, gormDB *gorm.DB, db *sqlx.DB, bus *events.EventBus, lg *slog.Logger) (*access.Service, error) {
	tokens, err := auth.NewTokenService(cfg.Security.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	userRepo := userPostgres.NewUserRepository(gormDB)
	accessService := access.NewService(accessPostgres.NewAccessRepository(gormDB), bus, lg)
	authService := auth.NewService(userRepo, accessService, tokens, bus, lg, cfg.Security.BCryptCost)
	userService := user.NewService(userRepo, accessService, bus, lg)
	vehicleService := vehicle.NewService(vehiclePostgres.NewVehicleRepository(gormDB), lg)

	base := transport.NewBaseHandler(lg)

	var metricsPath string
	if cfg.Observability.Metrics.Enabled {
		metricsPath = cfg.Observability.Metrics.Path
	}

	rest.RegisterAllRoutes(router, rest.Routes{
		DB:             db.DB,
		Authenticator:  auth.NewAuthenticator(tokens),
		Authorizer:     auth.NewGuard(accessService, lg),
		AuthHandler:    auth.NewHandler(base, authService),
		UserHandler:    user.NewHandler(base, userService),
		AccessHandler:  access.NewHandler(base, accessService),
		VehicleHandler: vehicle.NewHandler(base, vehicleService),
		AllowedOrigins: cfg.Server.Origins(),
		MetricsPath:    metricsPath,
		Logger:         lg,
	})

	return accessService, nil
}

// initDB opens the pgx-backed connection pool shared by sqlx and gorm.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm wraps the existing pool. TranslateError maps unique violations to
// gorm.ErrDuplicatedKey.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
		TranslateError: true,
	})
}

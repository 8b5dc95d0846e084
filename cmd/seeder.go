package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/vehicle-service-shop/internal"
	"github.com/frahmantamala/vehicle-service-shop/internal/access"
	accessPostgres "github.com/frahmantamala/vehicle-service-shop/internal/access/postgres"
	"github.com/frahmantamala/vehicle-service-shop/internal/auth"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/identity"
	"github.com/frahmantamala/vehicle-service-shop/internal/user"
	userPostgres "github.com/frahmantamala/vehicle-service-shop/internal/user/postgres"
	"github.com/frahmantamala/vehicle-service-shop/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed roles, the default access matrix and the bootstrap admin",
	Long: `Create the admin, staff and customer roles, the default access rules and,
when seed.admin_password is set, an administrator account. Running it again
leaves existing rows untouched.`,
	RunE: runSeed,
}

func runSeed(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	lg := logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

	db, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to init db: %w", err)
	}
	defer db.Close()

	gormDB, err := initGorm(db)
	if err != nil {
		return fmt.Errorf("failed to init gorm: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	accessService := access.NewService(accessPostgres.NewAccessRepository(gormDB), nil, lg)
	if err := accessService.SeedDefaults(ctx); err != nil {
		return err
	}

	if cfg.Seed.AdminPassword == "" {
		lg.Info("seed.admin_password not set; skipping admin account")
		return nil
	}
	return seedAdmin(ctx, gormDB, accessService, cfg)
}

// seedAdmin creates the bootstrap administrator unless an active account with
// the same username or email exists.
func seedAdmin(ctx context.Context, gormDB *gorm.DB, roles auth.RoleResolver, cfg *internal.Config) error {
	lg := logger.From(ctx)
	users := userPostgres.NewUserRepository(gormDB)

	existing, err := users.FindActiveByUsernameOrEmail(ctx, cfg.Seed.AdminUsername, cfg.Seed.AdminEmail)
	if err != nil {
		return fmt.Errorf("look up admin: %w", err)
	}
	if existing != nil {
		lg.Info("admin account already exists", "username", existing.Username)
		return nil
	}

	roleID, err := roles.RoleIDByName(ctx, identity.AdminRole)
	if err != nil {
		return fmt.Errorf("resolve admin role: %w", err)
	}

	svc := auth.NewService(users, roles, nil, nil, lg, cfg.Security.BCryptCost)
	hash, err := svc.HashPassword(cfg.Seed.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &user.User{
		Username:     cfg.Seed.AdminUsername,
		Email:        cfg.Seed.AdminEmail,
		PasswordHash: hash,
		RoleID:       roleID,
	}
	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, internal.ErrDuplicateCredential) {
			lg.Info("admin account already exists", "username", admin.Username)
			return nil
		}
		return fmt.Errorf("create admin: %w", err)
	}

	lg.Info("seeded admin account", "user_id", admin.ID, "username", admin.Username)
	return nil
}

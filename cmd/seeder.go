package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/frahmantamala/online-school/internal/auth"
	authPostgres "github.com/frahmantamala/online-school/internal/auth/postgres"
	"github.com/frahmantamala/online-school/internal/category"
	categoryPostgres "github.com/frahmantamala/online-school/internal/category/postgres"
	accountDatamodel "github.com/frahmantamala/online-school/internal/core/datamodel/account"
	"github.com/frahmantamala/online-school/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	seedAdminLogin string
	seedAdminEmail string
	seedSkipSample bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed roles, grants and a bootstrap admin",
	Long: `Reseed the role and permission policy in one transaction, create the
bootstrap admin account when missing and add sample course categories.
The admin password is read from ADMIN_PASSWORD.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		logger.InitWithLevel(appEnv(), cfg.Observability.Logging.Level)
		lg := logger.LoggerWrapper()

		db, err := initDB(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to init db: %w", err)
		}
		defer db.Close()

		gdb, err := initGorm(db)
		if err != nil {
			return fmt.Errorf("failed to init gorm: %w", err)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		grants := authPostgres.NewGrantRepository(gdb)
		if err := auth.NewPolicySeeder(grants, lg).Seed(ctx, auth.DefaultPolicy()); err != nil {
			return err
		}

		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			lg.Warn("ADMIN_PASSWORD not set; skipping bootstrap admin")
		} else if err := seedAdmin(ctx, gdb, grants, cfg.Security.BCryptCost, password, lg); err != nil {
			return err
		}

		if seedSkipSample {
			return nil
		}
		return seedCategories(ctx, category.NewService(categoryPostgres.NewCategoryRepository(gdb), lg), lg)
	},
}

func seedAdmin(ctx context.Context, gdb *gorm.DB, grants *authPostgres.GrantRepository, cost int, password string, lg *slog.Logger) error {
	var existing int64
	if err := gdb.WithContext(ctx).Model(&accountDatamodel.Account{}).
		Where("login = ? OR email = ?", seedAdminLogin, seedAdminEmail).
		Count(&existing).Error; err != nil {
		return fmt.Errorf("failed to look up admin: %w", err)
	}
	if existing > 0 {
		lg.Info("admin account already exists", "login", seedAdminLogin)
		return nil
	}

	role, err := grants.FindRoleByName(ctx, auth.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to find admin role: %w", err)
	}
	if role == nil {
		return errors.New("admin role missing after policy seed")
	}

	hash, err := auth.HashPassword(password, cost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	if err := gdb.WithContext(ctx).Create(&accountDatamodel.Account{
		Login:        seedAdminLogin,
		Email:        seedAdminEmail,
		FirstName:    "School",
		LastName:     "Admin",
		PasswordHash: hash,
		RoleID:       role.ID,
	}).Error; err != nil {
		return fmt.Errorf("failed to insert admin: %w", err)
	}

	lg.Info("seeded admin account", "login", seedAdminLogin, "email", seedAdminEmail)
	return nil
}

func seedCategories(ctx context.Context, svc *category.Service, lg *slog.Logger) error {
	categories := []category.CategoryDTO{
		{Name: "programming", Description: "software development courses"},
		{Name: "mathematics", Description: "algebra, calculus and statistics"},
		{Name: "languages", Description: "foreign language courses"},
		{Name: "design", Description: "graphic and product design"},
	}

	for _, c := range categories {
		if _, err := svc.Create(ctx, c); err != nil {
			if errors.Is(err, category.ErrCategoryExists) {
				continue
			}
			return fmt.Errorf("failed to insert category %s: %w", c.Name, err)
		}
		lg.Info("seeded category", "name", c.Name)
	}
	return nil
}

func init() {
	seedCmd.Flags().StringVar(&seedAdminLogin, "admin-login", "admin", "login of the bootstrap admin")
	seedCmd.Flags().StringVar(&seedAdminEmail, "admin-email", "admin@school.local", "email of the bootstrap admin")
	seedCmd.Flags().BoolVar(&seedSkipSample, "skip-sample", false, "do not add sample categories")
}

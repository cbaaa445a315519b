package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/online-school/internal/auth"
	authPostgres "github.com/frahmantamala/online-school/internal/auth/postgres"
	"github.com/frahmantamala/online-school/internal/core/events"
	"github.com/frahmantamala/online-school/pkg/logger"
	"github.com/spf13/cobra"
)

var reaperOnce bool

var reaperCmd = &cobra.Command{
	Use:   "reaper",
	Short: "Run the expired session reaper on its own",
	Long: `Delete sessions older than the token TTL on every interval tick.
Use --once to run a single sweep and exit, e.g. from cron.`,
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

		bus := events.NewEventBus(lg)
		events.RegisterAuditLog(bus, lg)

		reaper := auth.NewSessionReaper(authPostgres.NewSessionRepository(gdb),
			cfg.Security.TokenTTL,
			cfg.Reaper.Interval,
			cfg.Reaper.Timeout,
			auth.WithReaperLogger(lg),
			auth.WithReaperEvents(bus),
		)

		if reaperOnce {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Reaper.Timeout)
			defer cancel()
			n, err := reaper.Sweep(ctx)
			if err != nil {
				return err
			}
			if err := bus.Wait(ctx); err != nil {
				lg.Warn("audit handlers did not finish", "error", err)
			}
			lg.Info("sweep finished", "removed", n)
			return nil
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		lg.Info("session reaper is running. Press Ctrl+C to stop.")
		reaper.Run(ctx)
		return nil
	},
}

func init() {
	reaperCmd.Flags().BoolVar(&reaperOnce, "once", false, "run a single sweep and exit")

	rootCmd.AddCommand(reaperCmd)
}

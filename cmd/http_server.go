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

	"github.com/frahmantamala/online-school/api"
	"github.com/frahmantamala/online-school/internal"
	"github.com/frahmantamala/online-school/internal/auth"
	authPostgres "github.com/frahmantamala/online-school/internal/auth/postgres"
	"github.com/frahmantamala/online-school/internal/ban"
	banPostgres "github.com/frahmantamala/online-school/internal/ban/postgres"
	"github.com/frahmantamala/online-school/internal/category"
	categoryPostgres "github.com/frahmantamala/online-school/internal/category/postgres"
	"github.com/frahmantamala/online-school/internal/core/events"
	"github.com/frahmantamala/online-school/internal/course"
	coursePostgres "github.com/frahmantamala/online-school/internal/course/postgres"
	"github.com/frahmantamala/online-school/internal/transport"
	"github.com/frahmantamala/online-school/internal/transport/middleware"
	"github.com/frahmantamala/online-school/internal/transport/rest"
	"github.com/frahmantamala/online-school/internal/transport/swagger"
	"github.com/frahmantamala/online-school/internal/user"
	userPostgres "github.com/frahmantamala/online-school/internal/user/postgres"
	"github.com/frahmantamala/online-school/pkg/logger"
	"github.com/frahmantamala/online-school/pkg/metrics"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server and, when enabled, the session reaper`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Gorm     *gorm.DB
	Router   *chi.Mux
	Logger   *slog.Logger
	EventBus *events.EventBus
	Reaper   *auth.SessionReaper
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		deps.Logger.Error("failed to set up routes", "error", err)
		os.Exit(1)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if deps.Config.Reaper.Enabled {
		deps.Reaper.Start(ctx)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

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
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.EventBus.Wait(shutdownCtx); err != nil {
			deps.Logger.Warn("event handlers still running at shutdown", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			_ = deps.DB.Close()
			os.Exit(1)
		}
	}

	if err := deps.DB.Close(); err != nil {
		deps.Logger.Error("Database close error", "error", err)
	}
	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	lg := deps.Logger

	accounts := authPostgres.NewAccountRepository(deps.Gorm)
	sessions := authPostgres.NewSessionRepository(deps.Gorm)
	grants := authPostgres.NewGrantRepository(deps.Gorm)

	signer := auth.NewJWTTokenSigner(cfg.Security.TokenSecret, cfg.Security.TokenTTL)
	sessionService := auth.NewSessionService(sessions, signer, auth.WithSessionLogger(lg))
	authorizer := auth.NewAuthorizer(grants, lg)

	banService := ban.NewService(banPostgres.NewBanRepository(deps.Gorm), sessions, accounts, deps.EventBus, lg)
	authService := auth.NewService(auth.NewCredentialVerifier(accounts), sessionService, banService, lg)
	categoryService := category.NewService(categoryPostgres.NewCategoryRepository(deps.Gorm), lg)
	courseService := course.NewService(
		coursePostgres.NewCourseRepository(deps.Gorm),
		coursePostgres.NewAuthorshipRepository(deps.DB),
		authorizer,
		categoryService,
		lg,
	)
	userService := user.NewService(userPostgres.NewUserRepository(deps.Gorm), sessions, cfg.Security.BCryptCost, lg)

	spec, err := swagger.Load(context.Background(), api.OpenAPI)
	if err != nil {
		return fmt.Errorf("load openapi document: %w", err)
	}

	if cfg.Observability.Metrics.Enabled {
		metrics.Init()
	}

	deps.Reaper = auth.NewSessionReaper(sessions,
		cfg.Security.TokenTTL,
		cfg.Reaper.Interval,
		cfg.Reaper.Timeout,
		auth.WithReaperLogger(lg),
		auth.WithReaperEvents(deps.EventBus),
	)

	rest.RegisterAllRoutes(deps.Router, rest.Options{
		DB:             deps.DB,
		Logger:         lg,
		AllowedOrigins: middleware.ParseOrigins(cfg.Server.AllowedOrigins),
		MetricsEnabled: cfg.Observability.Metrics.Enabled,
		MetricsPath:    cfg.Observability.Metrics.Path,
		OpenAPI:        spec,
	}, rest.Handlers{
		Auth:     auth.NewHandler(authService),
		RBAC:     auth.NewRBACAuthorization(authorizer, lg),
		User:     user.NewHandler(userService, lg),
		Ban:      ban.NewHandler(banService, lg),
		Category: category.NewHandler(transport.NewBaseHandler(lg), categoryService),
		Course:   course.NewHandler(courseService, lg),
	})

	lg.Info("routes registered", "operations", len(spec.Operations()), "api", spec.Title())
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.InitWithLevel(appEnv(), config.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	bus := events.NewEventBus(lg)
	events.RegisterAuditLog(bus, lg)

	return &Dependencies{
		Config:   config,
		Logger:   lg,
		DB:       db,
		Gorm:     gdb,
		Router:   chi.NewRouter(),
		EventBus: bus,
	}, nil
}

// initDB opens the pgx pool shared by sqlx and gorm.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Open(driver, cfg.GetDSN())
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

func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
}

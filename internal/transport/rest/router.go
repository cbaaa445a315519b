package rest

import (
	"log/slog"

	"github.com/frahmantamala/online-school/internal/auth"
	"github.com/frahmantamala/online-school/internal/ban"
	"github.com/frahmantamala/online-school/internal/category"
	"github.com/frahmantamala/online-school/internal/course"
	"github.com/frahmantamala/online-school/internal/transport"
	"github.com/frahmantamala/online-school/internal/transport/middleware"
	"github.com/frahmantamala/online-school/internal/transport/swagger"
	"github.com/frahmantamala/online-school/internal/user"
	"github.com/frahmantamala/online-school/pkg/metrics"
	"github.com/go-chi/chi"
	chimw "github.com/go-chi/chi/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth     *auth.Handler
	RBAC     *auth.RBACAuthorization
	User     *user.Handler
	Ban      *ban.Handler
	Category *category.Handler
	Course   *course.Handler
}

type Options struct {
	DB             DBPinger
	Logger         *slog.Logger
	AllowedOrigins []string
	MetricsEnabled bool
	MetricsPath    string
	OpenAPI        *swagger.Spec
}

func RegisterAllRoutes(router *chi.Mux, opts Options, h Handlers) {
	health := NewHealthHandler(transport.NewBaseHandler(opts.Logger), opts.DB)
	rbac := h.RBAC

	router.Use(chimw.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(opts.Logger))
	router.Use(middleware.CORS(opts.AllowedOrigins))
	if opts.MetricsEnabled {
		router.Use(metrics.Instrument)
	}
	router.Use(middleware.LoggingMiddleware(opts.Logger))

	if opts.MetricsEnabled {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.Handle(path, metrics.Handler())
	}

	if opts.OpenAPI != nil {
		router.Handle("/openapi.yml", opts.OpenAPI)
		router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", health.Health)
		r.Get("/ping", health.Ping)

		r.Post("/auth/signup", h.User.Signup)
		r.Post("/auth/login", h.Auth.Login)

		r.Get("/categories", h.Category.GetCategories)
		r.Get("/courses", h.Course.ListCourses)
		r.Get("/courses/{id}", h.Course.GetCourse)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Post("/auth/logout", h.Auth.Logout)

			pr.Get("/users/me", h.User.GetCurrentUser)
			pr.Patch("/users/me", h.User.UpdateCurrentUser)
			pr.With(rbac.Require(auth.PermListUsers)).Get("/users", h.User.ListUsers)
			pr.With(rbac.Require(auth.PermDeleteUser)).Delete("/users/{id}", h.User.DeleteUser)

			pr.With(rbac.Require(auth.PermBanUser)).Post("/users/{id}/ban", h.Ban.Ban)
			pr.With(rbac.Require(auth.PermUnbanUser)).Delete("/users/{id}/ban", h.Ban.Unban)

			pr.With(rbac.Require(auth.PermCreateCategory)).Post("/categories", h.Category.CreateCategory)
			pr.With(rbac.Require(auth.PermUpdateCategory)).Put("/categories/{id}", h.Category.UpdateCategory)
			pr.With(rbac.Require(auth.PermDeleteCategory)).Delete("/categories/{id}", h.Category.DeleteCategory)

			pr.With(rbac.Require(auth.PermCreateCourse)).Post("/courses", h.Course.CreateCourse)
			pr.With(rbac.Require(auth.PermUpdateCourse)).Put("/courses/{id}", h.Course.UpdateCourse)
			pr.With(rbac.Require(auth.PermDeleteCourse)).Delete("/courses/{id}", h.Course.DeleteCourse)

			pr.With(rbac.Require(auth.PermViewMaterials)).Get("/courses/{id}/materials", h.Course.ListMaterials)
			pr.With(rbac.Require(auth.PermCreateMaterial)).Post("/courses/{id}/materials", h.Course.CreateMaterial)
			pr.With(rbac.Require(auth.PermDeleteMaterial)).Delete("/courses/{id}/materials/{materialID}", h.Course.DeleteMaterial)
		})
	})
}

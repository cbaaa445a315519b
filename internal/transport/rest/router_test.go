package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"time"

	"github.com/frahmantamala/online-school/api"
	"github.com/frahmantamala/online-school/internal/auth"
	authPostgres "github.com/frahmantamala/online-school/internal/auth/postgres"
	"github.com/frahmantamala/online-school/internal/ban"
	banPostgres "github.com/frahmantamala/online-school/internal/ban/postgres"
	"github.com/frahmantamala/online-school/internal/category"
	categoryPostgres "github.com/frahmantamala/online-school/internal/category/postgres"
	accountDatamodel "github.com/frahmantamala/online-school/internal/core/datamodel/account"
	"github.com/frahmantamala/online-school/internal/core/datamodel/dbtest"
	"github.com/frahmantamala/online-school/internal/course"
	coursePostgres "github.com/frahmantamala/online-school/internal/course/postgres"
	"github.com/frahmantamala/online-school/internal/transport"
	"github.com/frahmantamala/online-school/internal/transport/rest"
	"github.com/frahmantamala/online-school/internal/transport/swagger"
	"github.com/frahmantamala/online-school/internal/user"
	userPostgres "github.com/frahmantamala/online-school/internal/user/postgres"
	"github.com/frahmantamala/online-school/pkg/metrics"
	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("Router", func() {
	var (
		router *chi.Mux
		ids    map[string]int64
	)

	BeforeEach(func() {
		ctx := context.Background()
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))

		db, err := dbtest.Open()
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlxDB := sqlx.NewDb(sqlDB, "sqlite3")

		grants := authPostgres.NewGrantRepository(db)
		Expect(auth.NewPolicySeeder(grants, lg).Seed(ctx, auth.DefaultPolicy())).To(Succeed())

		ids = map[string]int64{}
		hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())
		for login, roleName := range map[string]string{
			"admin":    auth.RoleAdmin,
			"teacher1": auth.RoleTeacher,
			"teacher2": auth.RoleTeacher,
			"student1": auth.RoleStudent,
		} {
			role, err := grants.FindRoleByName(ctx, roleName)
			Expect(err).NotTo(HaveOccurred())
			acc := &accountDatamodel.Account{Login: login, Email: login + "@school.test", PasswordHash: string(hash), RoleID: role.ID}
			Expect(db.Create(acc).Error).To(Succeed())
			ids[login] = acc.ID
		}

		accounts := authPostgres.NewAccountRepository(db)
		sessions := authPostgres.NewSessionRepository(db)
		signer := auth.NewJWTTokenSigner("router-suite-secret-long-enough-for-hs256", 2*time.Hour)
		sessionService := auth.NewSessionService(sessions, signer, auth.WithSessionLogger(lg))
		authorizer := auth.NewAuthorizer(grants, lg)

		banService := ban.NewService(banPostgres.NewBanRepository(db), sessions, accounts, nil, lg)
		authService := auth.NewService(auth.NewCredentialVerifier(accounts), sessionService, banService, lg)
		categoryService := category.NewService(categoryPostgres.NewCategoryRepository(db), lg)
		courseService := course.NewService(
			coursePostgres.NewCourseRepository(db),
			coursePostgres.NewAuthorshipRepository(sqlxDB),
			authorizer,
			categoryService,
			lg,
		)
		userService := user.NewService(userPostgres.NewUserRepository(db), sessions, bcrypt.MinCost, lg)

		spec, err := swagger.Load(ctx, api.OpenAPI)
		Expect(err).NotTo(HaveOccurred())

		metrics.Init()
		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, rest.Options{
			DB:             sqlxDB,
			Logger:         lg,
			MetricsEnabled: true,
			MetricsPath:    "/metrics",
			OpenAPI:        spec,
		}, rest.Handlers{
			Auth:     auth.NewHandler(authService),
			RBAC:     auth.NewRBACAuthorization(authorizer, lg),
			User:     user.NewHandler(userService, lg),
			Ban:      ban.NewHandler(banService, lg),
			Category: category.NewHandler(transport.NewBaseHandler(lg), categoryService),
			Course:   course.NewHandler(courseService, lg),
		})
	})

	do := func(method, path, token string, body interface{}) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != nil {
			b, err := json.Marshal(body)
			Expect(err).NotTo(HaveOccurred())
			reader = bytes.NewReader(b)
		}
		req := httptest.NewRequest(method, path, reader)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	login := func(name string) string {
		w := do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"login": name, "password": "password123"})
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp auth.LoginResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Token).NotTo(BeEmpty())
		return resp.Token
	}

	createCourse := func(token string) int64 {
		w := do(http.MethodPost, "/api/v1/courses", token, map[string]string{"title": "Go basics"})
		Expect(w.Code).To(Equal(http.StatusCreated))
		var c course.CourseResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &c)).To(Succeed())
		return c.ID
	}

	path := func(format string, id int64) string {
		return "/api/v1" + format + strconv.FormatInt(id, 10)
	}

	It("should answer liveness and readiness", func() {
		Expect(do(http.MethodGet, "/api/v1/ping", "", nil).Code).To(Equal(http.StatusOK))

		w := do(http.MethodGet, "/api/v1/health", "", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"healthy"`))
	})

	It("should serve the OpenAPI document, swagger and metrics", func() {
		Expect(do(http.MethodGet, "/openapi.yml", "", nil).Body.Bytes()).To(Equal(api.OpenAPI))
		Expect(do(http.MethodGet, "/swagger/index.html", "", nil).Code).To(Equal(http.StatusOK))

		do(http.MethodGet, "/api/v1/ping", "", nil)
		w := do(http.MethodGet, "/metrics", "", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("http_requests_total"))
	})

	It("should propagate the trace id", func() {
		w := do(http.MethodGet, "/api/v1/ping", "", nil)
		Expect(w.Header().Get("X-Trace-ID")).NotTo(BeEmpty())
	})

	It("should answer 401 on a guarded route without a token", func() {
		w := do(http.MethodGet, "/api/v1/users/me", "", nil)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("should answer 403 naming the role for a missing grant", func() {
		w := do(http.MethodPost, "/api/v1/courses", login("student1"), map[string]string{"title": "Nope"})

		Expect(w.Code).To(Equal(http.StatusForbidden))
		Expect(w.Body.String()).To(ContainSubstring("Forbidden for role student"))
	})

	It("should keep course edits to authors unless ManageAnyCourse is held", func() {
		courseID := createCourse(login("teacher1"))

		w := do(http.MethodPut, path("/courses/", courseID), login("teacher2"), map[string]string{"title": "Mine now"})
		Expect(w.Code).To(Equal(http.StatusForbidden))
		Expect(w.Body.String()).To(ContainSubstring("NOT_COURSE_AUTHOR"))

		w = do(http.MethodPut, path("/courses/", courseID), login("admin"), map[string]string{"title": "Curated"})
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("should let students read materials but not add them", func() {
		teacher := login("teacher1")
		courseID := createCourse(teacher)

		w := do(http.MethodPost, path("/courses/", courseID)+"/materials", teacher, map[string]string{"title": "Lesson 1", "content": "hello"})
		Expect(w.Code).To(Equal(http.StatusCreated))

		student := login("student1")
		w = do(http.MethodGet, path("/courses/", courseID)+"/materials", student, nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("Lesson 1"))

		w = do(http.MethodPost, path("/courses/", courseID)+"/materials", student, map[string]string{"title": "x", "content": "y"})
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("should cut off a banned account immediately and refuse new logins", func() {
		student := login("student1")
		Expect(do(http.MethodGet, "/api/v1/users/me", student, nil).Code).To(Equal(http.StatusOK))

		w := do(http.MethodPost, path("/users/", ids["student1"])+"/ban", login("admin"), map[string]string{"reason": "cheating"})
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"banned"`))

		Expect(do(http.MethodGet, "/api/v1/users/me", student, nil).Code).To(Equal(http.StatusUnauthorized))

		w = do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"login": "student1", "password": "password123"})
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(auth.BannedLoginMessage))
		Expect(w.Body.String()).NotTo(ContainSubstring("token"))
	})

	It("should forbid teachers from banning", func() {
		w := do(http.MethodPost, path("/users/", ids["student1"])+"/ban", login("teacher1"), map[string]string{"reason": "x"})
		Expect(w.Code).To(Equal(http.StatusForbidden))
		Expect(w.Body.String()).To(ContainSubstring("Forbidden for role teacher"))
	})

	It("should sign up a student who can then log in", func() {
		w := do(http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
			"login": "newbie", "email": "newbie@school.test", "password": "password123",
		})
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(login("newbie")).NotTo(BeEmpty())
	})
})

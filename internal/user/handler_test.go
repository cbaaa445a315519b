package user_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"

	"github.com/frahmantamala/online-school/internal/auth"
	authPostgres "github.com/frahmantamala/online-school/internal/auth/postgres"
	"github.com/frahmantamala/online-school/internal/core/datamodel/dbtest"
	"github.com/frahmantamala/online-school/internal/user"
	userPostgres "github.com/frahmantamala/online-school/internal/user/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

// withPrincipal stands in for the auth middleware.
func withPrincipal(p auth.Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.ContextWithPrincipal(r.Context(), p)))
		})
	}
}

var _ = Describe("User Handler", func() {
	var (
		service *user.Service
		handler *user.Handler
		alice   *user.User
	)

	BeforeEach(func() {
		ctx := context.Background()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := dbtest.Open()
		Expect(err).NotTo(HaveOccurred())
		Expect(authPostgres.NewGrantRepository(db).ApplyPolicy(ctx, auth.DefaultPolicy())).To(Succeed())

		service = user.NewService(userPostgres.NewUserRepository(db), authPostgres.NewSessionRepository(db), bcrypt.MinCost, slogger)
		handler = user.NewHandler(service, slogger)

		alice, err = service.Signup(ctx, user.SignupDTO{Login: "alice", Email: "alice@example.com", Password: "correct-horse"})
		Expect(err).NotTo(HaveOccurred())
	})

	It("should answer 201 on signup", func() {
		body, _ := json.Marshal(map[string]string{"login": "bob", "email": "bob@example.com", "password": "correct-horse"})
		w := httptest.NewRecorder()
		handler.Signup(w, httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewReader(body)))

		Expect(w.Code).To(Equal(http.StatusCreated))
		var resp user.UserResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Login).To(Equal("bob"))
		Expect(resp.Role).To(Equal(auth.RoleStudent))
	})

	It("should answer 409 on a duplicate signup", func() {
		body, _ := json.Marshal(map[string]string{"login": "alice", "email": "x@example.com", "password": "correct-horse"})
		w := httptest.NewRecorder()
		handler.Signup(w, httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewReader(body)))

		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(w.Body.String()).To(ContainSubstring("ACCOUNT_EXISTS"))
	})

	It("should return the calling account from /users/me", func() {
		router := chi.NewRouter()
		router.With(withPrincipal(auth.Principal{AccountID: alice.ID, RoleID: alice.RoleID})).Get("/users/me", handler.GetCurrentUser)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/me", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp user.UserResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.ID).To(Equal(alice.ID))
		Expect(w.Body.String()).NotTo(ContainSubstring("password"))
	})

	It("should answer 401 from /users/me without a principal", func() {
		w := httptest.NewRecorder()
		handler.GetCurrentUser(w, httptest.NewRequest(http.MethodGet, "/users/me", nil))

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("should reject a non-numeric limit", func() {
		w := httptest.NewRecorder()
		handler.ListUsers(w, httptest.NewRequest(http.MethodGet, "/users?limit=ten", nil))

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should answer 204 when deleting another account", func() {
		router := chi.NewRouter()
		router.With(withPrincipal(auth.Principal{AccountID: 9999})).Delete("/users/{id}", handler.DeleteUser)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/users/"+strconv.FormatInt(alice.ID, 10), nil))

		Expect(w.Code).To(Equal(http.StatusNoContent))
	})
})

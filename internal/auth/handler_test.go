package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/online-school/internal/auth"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Auth Handler", func() {
	var (
		f       *fixture
		bans    banList
		router  *chi.Mux
		student *auth.Account
		seen    auth.Principal
	)

	BeforeEach(func() {
		f = newFixture()
		bans = banList{}
		student = f.createAccount("student1", auth.RoleStudent, "password123")

		svc := auth.NewService(auth.NewCredentialVerifier(f.accounts), f.service, bans, f.logger)
		handler := auth.NewHandler(svc)

		router = chi.NewRouter()
		router.Post("/auth/login", handler.Login)
		router.Group(func(r chi.Router) {
			r.Use(handler.AuthMiddleware)
			r.Post("/auth/logout", handler.Logout)
			r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
				seen, _ = auth.PrincipalFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})
		})
	})

	login := func(identifier, password string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]string{"login": identifier, "password": password})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body)))
		return w
	}

	withToken := func(method, path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	tokenFrom := func(w *httptest.ResponseRecorder) string {
		var resp auth.LoginResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		return resp.Token
	}

	Describe("Login", func() {
		It("should return a token for valid credentials", func() {
			w := login("student1", "password123")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(tokenFrom(w)).NotTo(BeEmpty())
		})

		It("should accept the email as identifier", func() {
			w := login("student1@school.test", "password123")
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("should return the same token on a repeated login", func() {
			first := tokenFrom(login("student1", "password123"))
			second := tokenFrom(login("student1", "password123"))
			Expect(second).To(Equal(first))
		})

		It("should answer 401 for a wrong password", func() {
			w := login("student1", "wrong-password")

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(w.Body.String()).To(ContainSubstring("INVALID_CREDENTIALS"))
		})

		It("should answer 401 for an unknown account", func() {
			w := login("nobody", "password123")
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should answer a banned account with 200 and an error payload", func() {
			bans[student.ID] = true
			w := login("student1", "password123")

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]string
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp).To(Equal(map[string]string{"error": auth.BannedLoginMessage}))
			Expect(f.sessionCount(student.ID)).To(BeZero())
		})

		It("should answer 500 when the stored hash is corrupt", func() {
			Expect(f.db.Exec("UPDATE accounts SET password_hash = ? WHERE id = ?", "broken", student.ID).Error).To(Succeed())

			w := login("student1", "password123")
			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(w.Body.String()).To(ContainSubstring("INTERNAL_ERROR"))
			Expect(f.sessionCount(student.ID)).To(BeZero())
		})

		It("should answer 400 for a malformed body", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString("{")))
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should answer 400 for a missing password", func() {
			w := login("student1", "")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("AuthMiddleware", func() {
		It("should put the principal on the context", func() {
			token := tokenFrom(login("student1", "password123"))

			w := withToken(http.MethodGet, "/whoami", token)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(seen).To(Equal(auth.Principal{AccountID: student.ID, RoleID: student.RoleID}))
		})

		It("should answer 401 without a bearer token", func() {
			w := withToken(http.MethodGet, "/whoami", "")
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(w.Body.String()).To(ContainSubstring("MISSING_TOKEN"))
		})

		It("should answer 401 for a token that was never issued", func() {
			forged, err := f.signer.Sign(student.ID, f.roles[auth.RoleAdmin])
			Expect(err).NotTo(HaveOccurred())

			w := withToken(http.MethodGet, "/whoami", forged)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(w.Body.String()).To(ContainSubstring("INVALID_TOKEN"))
		})

		It("should answer 401 asking to log in again once the token expires", func() {
			token := tokenFrom(login("student1", "password123"))
			f.clock.Advance(2*time.Hour + time.Second)

			w := withToken(http.MethodGet, "/whoami", token)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(w.Body.String()).To(ContainSubstring("TOKEN_EXPIRED"))
			Expect(f.sessionCount(student.ID)).To(BeZero())
		})

		It("should reject a token whose session rows were deleted", func() {
			token := tokenFrom(login("student1", "password123"))
			_, err := f.sessions.DeleteByAccount(f.ctx, student.ID)
			Expect(err).NotTo(HaveOccurred())

			w := withToken(http.MethodGet, "/whoami", token)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("Logout", func() {
		It("should revoke the calling session", func() {
			token := tokenFrom(login("student1", "password123"))

			w := withToken(http.MethodPost, "/auth/logout", token)
			Expect(w.Code).To(Equal(http.StatusNoContent))

			w = withToken(http.MethodGet, "/whoami", token)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})

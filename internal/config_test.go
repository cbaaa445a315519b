package internal_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/frahmantamala/online-school/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func validConfig() *internal.Config {
	return &internal.Config{
		Server: internal.ServerConfig{
			Port:              8080,
			AllowedOrigins:    "http://localhost:3000, https://school.test",
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
		},
		Database: internal.DatabaseConfig{MaxOpenConns: 10, MaxIdleConns: 5},
		Security: internal.SecurityConfig{TokenSecret: "0123456789abcdef0123456789abcdef"},
		Reaper:   internal.ReaperConfig{Enabled: true},
	}
}

var _ = Describe("Config", func() {
	It("should fill the session defaults", func() {
		cfg := validConfig()
		cfg.ApplyDefaults()

		Expect(cfg.Security.TokenTTL).To(Equal(2 * time.Hour))
		Expect(cfg.Reaper.Interval).To(Equal(30 * time.Minute))
		Expect(cfg.Reaper.Timeout).To(Equal(internal.DefaultReaperTimeout))
		Expect(cfg.Security.BCryptCost).To(Equal(internal.DefaultBCryptCost))
		Expect(cfg.Observability.Metrics.Path).To(Equal("/metrics"))
		Expect(cfg.Validate()).To(Succeed())
	})

	It("should keep explicit values", func() {
		cfg := validConfig()
		cfg.Security.TokenTTL = 15 * time.Minute
		cfg.Reaper.Interval = time.Minute
		cfg.ApplyDefaults()

		Expect(cfg.Security.TokenTTL).To(Equal(15 * time.Minute))
		Expect(cfg.Reaper.Interval).To(Equal(time.Minute))
	})

	It("should reject a short token secret", func() {
		cfg := validConfig()
		cfg.Security.TokenSecret = "short"
		cfg.ApplyDefaults()

		err := cfg.Validate()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("security config"))
	})

	It("should aggregate errors from several sections", func() {
		cfg := validConfig()
		cfg.ApplyDefaults()
		cfg.Database.MaxIdleConns = 50
		cfg.Reaper.Interval = time.Millisecond

		err := cfg.Validate()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("database config"))
		Expect(err.Error()).To(ContainSubstring("reaper config"))
	})

	It("should not require an interval when the reaper is disabled", func() {
		cfg := validConfig()
		cfg.ApplyDefaults()
		cfg.Reaper.Enabled = false
		cfg.Reaper.Interval = time.Millisecond

		Expect(cfg.Validate()).To(Succeed())
	})
})

var _ = Describe("AppError", func() {
	It("should be found through wrapping", func() {
		wrapped := fmt.Errorf("login: %w", internal.ErrTokenExpired)

		appErr, ok := internal.IsAppError(wrapped)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusUnauthorized))
		Expect(appErr.Code).To(Equal(internal.ErrCodeTokenExpired))
	})

	It("should hide the cause from the JSON envelope", func() {
		appErr := internal.NewInternalError("internal server error", fmt.Errorf("pq: connection refused"))

		status, body := appErr.ToHTTPResponse()
		Expect(status).To(Equal(http.StatusInternalServerError))

		raw, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).To(ContainSubstring(`"code":"INTERNAL_ERROR"`))
		Expect(string(raw)).NotTo(ContainSubstring("connection refused"))
	})

	It("should report the first field message for validation errors", func() {
		appErr := internal.NewValidationFieldError("reason", "reason is required", internal.ErrCodeValidationFailed)

		Expect(appErr.Error()).To(Equal("reason is required"))
		Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
	})
})

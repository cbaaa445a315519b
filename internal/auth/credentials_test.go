package auth_test

import (
	"bytes"
	"errors"
	"log/slog"

	"github.com/frahmantamala/online-school/internal/auth"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("CredentialVerifier", func() {
	var (
		f        *fixture
		verifier *auth.CredentialVerifier
		student  *auth.Account
	)

	BeforeEach(func() {
		f = newFixture()
		verifier = auth.NewCredentialVerifier(f.accounts)
		student = f.createAccount("student1", auth.RoleStudent, "password123")
	})

	It("should match by login or email", func() {
		acc, err := verifier.Verify(f.ctx, "student1", "password123")
		Expect(err).NotTo(HaveOccurred())
		Expect(acc.ID).To(Equal(student.ID))

		acc, err = verifier.Verify(f.ctx, "student1@school.test", "password123")
		Expect(err).NotTo(HaveOccurred())
		Expect(acc.ID).To(Equal(student.ID))
	})

	It("should distinguish a missing account from a wrong password", func() {
		_, err := verifier.Verify(f.ctx, "ghost", "password123")
		Expect(err).To(MatchError(auth.ErrAccountNotFound))

		_, err = verifier.Verify(f.ctx, "student1", "password124")
		Expect(err).To(MatchError(auth.ErrPasswordMismatch))
	})

	It("should report a corrupt stored hash as a failure, not a mismatch", func() {
		Expect(f.db.Exec("UPDATE accounts SET password_hash = ? WHERE id = ?", "not-a-bcrypt-hash", student.ID).Error).To(Succeed())

		_, err := verifier.Verify(f.ctx, "student1", "password123")
		Expect(err).To(HaveOccurred())
		Expect(err).NotTo(MatchError(auth.ErrPasswordMismatch))
		Expect(err).NotTo(MatchError(auth.ErrAccountNotFound))
		Expect(errors.Is(err, bcrypt.ErrHashTooShort)).To(BeTrue())
	})

	It("should hash with the requested cost", func() {
		hash, err := auth.HashPassword("password123", 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(hash).To(HavePrefix("$2a$04$"))
	})
})

var _ = Describe("Service.Login", func() {
	It("should never write the password to the log", func() {
		f := newFixture()
		f.createAccount("student1", auth.RoleStudent, "password123")

		var buf bytes.Buffer
		lg := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		svc := auth.NewService(auth.NewCredentialVerifier(f.accounts), f.service, banList{}, lg)

		_, err := svc.Login(f.ctx, auth.LoginDTO{Identifier: "student1", Password: "s3cret-guess"})
		Expect(err).To(MatchError(auth.ErrInvalidCredentials))

		Expect(buf.String()).To(ContainSubstring("login rejected"))
		Expect(buf.String()).NotTo(ContainSubstring("s3cret-guess"))
	})
})

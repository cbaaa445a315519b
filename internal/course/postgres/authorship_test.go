package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/frahmantamala/online-school/internal/course/postgres"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AuthorshipRepository", func() {
	var (
		db   *sql.DB
		mock sqlmock.Sqlmock
		repo *postgres.AuthorshipRepository
	)

	BeforeEach(func() {
		var err error
		db, mock, err = sqlmock.New()
		Expect(err).NotTo(HaveOccurred())
		repo = postgres.NewAuthorshipRepository(sqlx.NewDb(db, "pgx"))
	})

	AfterEach(func() {
		mock.ExpectClose()
		Expect(db.Close()).To(Succeed())
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	It("should bind dollar placeholders for postgres", func() {
		mock.ExpectQuery(regexp.QuoteMeta("WHERE course_id = $1 AND account_id = $2")).
			WithArgs(int64(7), int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		ok, err := repo.IsAuthor(context.Background(), 7, 42)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("should report false for a non-author", func() {
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int64(7), int64(43)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		ok, err := repo.IsAuthor(context.Background(), 7, 43)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("should surface query failures", func() {
		mock.ExpectQuery("SELECT EXISTS").WillReturnError(errors.New("connection reset"))

		_, err := repo.IsAuthor(context.Background(), 7, 42)
		Expect(err).To(MatchError(ContainSubstring("connection reset")))
	})
})

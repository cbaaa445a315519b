package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
)

const isAuthorQuery = `SELECT EXISTS (
	SELECT 1 FROM course_authors WHERE course_id = ? AND account_id = ?
)`

// AuthorshipRepository answers authorship lookups with plain SQL on the
// primary pool.
type AuthorshipRepository struct {
	db *sqlx.DB
}

func NewAuthorshipRepository(db *sqlx.DB) *AuthorshipRepository {
	return &AuthorshipRepository{db: db}
}

func (r *AuthorshipRepository) IsAuthor(ctx context.Context, courseID, accountID int64) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, r.db.Rebind(isAuthorQuery), courseID, accountID); err != nil {
		return false, err
	}
	return exists, nil
}

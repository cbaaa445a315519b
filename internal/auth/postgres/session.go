package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/online-school/internal/auth"
	sessionDatamodel "github.com/frahmantamala/online-school/internal/core/datamodel/session"
	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, s *auth.Session) error {
	return r.db.WithContext(ctx).Create(s.ToDataModel()).Error
}

func (r *SessionRepository) FindByToken(ctx context.Context, token string) (*auth.Session, error) {
	var s sessionDatamodel.Session
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return auth.SessionFromDataModel(&s), nil
}

// FindLatestByAccount picks the newest row; racing logins may have left more than one.
func (r *SessionRepository) FindLatestByAccount(ctx context.Context, accountID int64) (*auth.Session, error) {
	var s sessionDatamodel.Session
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return auth.SessionFromDataModel(&s), nil
}

func (r *SessionRepository) DeleteByToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Where("token = ?", token).Delete(&sessionDatamodel.Session{}).Error
}

func (r *SessionRepository) DeleteByAccount(ctx context.Context, accountID int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("account_id = ?", accountID).Delete(&sessionDatamodel.Session{})
	return res.RowsAffected, res.Error
}

func (r *SessionRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&sessionDatamodel.Session{})
	return res.RowsAffected, res.Error
}

func (r *SessionRepository) CountByAccount(ctx context.Context, accountID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&sessionDatamodel.Session{}).Where("account_id = ?", accountID).Count(&n).Error
	return n, err
}

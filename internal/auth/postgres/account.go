package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/online-school/internal/auth"
	accountDatamodel "github.com/frahmantamala/online-school/internal/core/datamodel/account"
	"gorm.io/gorm"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) FindByIdentifier(ctx context.Context, identifier string) (*auth.Account, error) {
	var acc accountDatamodel.Account
	err := r.db.WithContext(ctx).
		Where("login = ? OR email = ?", identifier, identifier).
		Order("id ASC").
		First(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrAccountNotFound
		}
		return nil, err
	}
	return auth.AccountFromDataModel(&acc), nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*auth.Account, error) {
	var acc accountDatamodel.Account
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrAccountNotFound
		}
		return nil, err
	}
	return auth.AccountFromDataModel(&acc), nil
}

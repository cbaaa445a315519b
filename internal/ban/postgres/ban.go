package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/online-school/internal/ban"
	banDatamodel "github.com/frahmantamala/online-school/internal/core/datamodel/ban"
	"gorm.io/gorm"
)

type BanRepository struct {
	db *gorm.DB
}

func NewBanRepository(db *gorm.DB) ban.RepositoryAPI {
	return &BanRepository{db: db}
}

func (r *BanRepository) GetByAccountID(ctx context.Context, accountID int64) (*ban.Ban, error) {
	var b banDatamodel.Ban
	err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ban.FromDataModel(&b), nil
}

func (r *BanRepository) Create(ctx context.Context, b *ban.Ban) error {
	return r.db.WithContext(ctx).Create(b.ToDataModel()).Error
}

func (r *BanRepository) Delete(ctx context.Context, accountID int64) (bool, error) {
	res := r.db.WithContext(ctx).Where("account_id = ?", accountID).Delete(&banDatamodel.Ban{})
	return res.RowsAffected > 0, res.Error
}

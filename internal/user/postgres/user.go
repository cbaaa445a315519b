package postgres

import (
	"context"
	"errors"

	accountDatamodel "github.com/frahmantamala/online-school/internal/core/datamodel/account"
	banDatamodel "github.com/frahmantamala/online-school/internal/core/datamodel/ban"
	courseDatamodel "github.com/frahmantamala/online-school/internal/core/datamodel/course"
	sessionDatamodel "github.com/frahmantamala/online-school/internal/core/datamodel/session"
	"github.com/frahmantamala/online-school/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*accountDatamodel.Account, error) {
	var a accountDatamodel.Account
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// GetByLoginOrEmail matches on whichever of login and email is non-empty.
func (r *UserRepository) GetByLoginOrEmail(ctx context.Context, login, email string) (*accountDatamodel.Account, error) {
	q := r.db.WithContext(ctx).Model(&accountDatamodel.Account{})
	switch {
	case login != "" && email != "":
		q = q.Where("login = ? OR email = ?", login, email)
	case login != "":
		q = q.Where("login = ?", login)
	case email != "":
		q = q.Where("email = ?", email)
	default:
		return nil, nil
	}

	var a accountDatamodel.Account
	if err := q.Order("id ASC").First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *UserRepository) GetRoleByName(ctx context.Context, name string) (*accountDatamodel.Role, error) {
	var role accountDatamodel.Role
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *UserRepository) RoleNames(ctx context.Context) (map[int64]string, error) {
	var roles []accountDatamodel.Role
	if err := r.db.WithContext(ctx).Find(&roles).Error; err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(roles))
	for _, role := range roles {
		names[role.ID] = role.Name
	}
	return names, nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*accountDatamodel.Account, error) {
	var accounts []*accountDatamodel.Account
	err := r.db.WithContext(ctx).Order("id ASC").Limit(limit).Offset(offset).Find(&accounts).Error
	return accounts, err
}

func (r *UserRepository) Create(ctx context.Context, a *accountDatamodel.Account) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *UserRepository) Update(ctx context.Context, a *accountDatamodel.Account) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *UserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	var removed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", id).Delete(&sessionDatamodel.Session{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", id).Delete(&banDatamodel.Ban{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", id).Delete(&courseDatamodel.CourseAuthor{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&accountDatamodel.Account{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected > 0
		return nil
	})
	return removed, err
}

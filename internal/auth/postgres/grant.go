package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/online-school/internal/auth"
	accountDatamodel "github.com/frahmantamala/online-school/internal/core/datamodel/account"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GrantRepository struct {
	db *gorm.DB
}

func NewGrantRepository(db *gorm.DB) *GrantRepository {
	return &GrantRepository{db: db}
}

func (r *GrantRepository) FindPermissionByName(ctx context.Context, name string) (*auth.Permission, error) {
	var p accountDatamodel.Permission
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &auth.Permission{ID: p.ID, Name: p.Name, Description: p.Description}, nil
}

func (r *GrantRepository) FindRoleByID(ctx context.Context, id int64) (*auth.Role, error) {
	var role accountDatamodel.Role
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &auth.Role{ID: role.ID, Name: role.Name}, nil
}

func (r *GrantRepository) FindRoleByName(ctx context.Context, name string) (*auth.Role, error) {
	var role accountDatamodel.Role
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &auth.Role{ID: role.ID, Name: role.Name}, nil
}

func (r *GrantRepository) HasGrant(ctx context.Context, roleID, permissionID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&accountDatamodel.RolePermission{}).
		Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		Count(&n).Error
	return n > 0, err
}

// ApplyPolicy upserts roles and permissions by name, then swaps the grant
// table for exactly the policy's grants. Readers see either the old or the
// new table, never a partial one.
func (r *GrantRepository) ApplyPolicy(ctx context.Context, policy auth.Policy) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roleIDs := make(map[string]int64, len(policy.Roles))
		for _, name := range policy.Roles {
			role := accountDatamodel.Role{Name: name}
			if err := tx.Where(accountDatamodel.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
				return err
			}
			roleIDs[name] = role.ID
		}

		permIDs := make(map[string]int64, len(policy.Permissions))
		for _, spec := range policy.Permissions {
			perm := accountDatamodel.Permission{Name: spec.Name}
			if err := tx.Where(accountDatamodel.Permission{Name: spec.Name}).
				Assign(accountDatamodel.Permission{Description: spec.Description}).
				FirstOrCreate(&perm).Error; err != nil {
				return err
			}
			permIDs[spec.Name] = perm.ID
		}

		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&accountDatamodel.RolePermission{}).Error; err != nil {
			return err
		}

		grants := make([]accountDatamodel.RolePermission, 0, policy.GrantCount())
		for _, roleName := range policy.Roles {
			for _, permName := range policy.Grants[roleName] {
				grants = append(grants, accountDatamodel.RolePermission{
					RoleID:       roleIDs[roleName],
					PermissionID: permIDs[permName],
				})
			}
		}
		if len(grants) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&grants).Error
	})
}

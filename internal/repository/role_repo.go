package repository

import (
	"context"
	"errors"

	"go-tailor-inventory/internal/model"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindAll(ctx context.Context) ([]model.Role, error)
	FindByID(ctx context.Context, id uint) (*model.Role, error)
	FindByCode(ctx context.Context, code string) (*model.Role, error)
	// SeedDefaults creates missing default roles and grants them their privilege set.
	SeedDefaults(ctx context.Context) error
}

type roleRepo struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) FindAll(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.WithContext(ctx).Preload("Privileges").Order("id ASC").Find(&roles).Error
	return roles, err
}

func (r *roleRepo) FindByID(ctx context.Context, id uint) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).Preload("Privileges").First(&role, id).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) FindByCode(ctx context.Context, code string) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).Preload("Privileges").Where("code = ?", code).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) SeedDefaults(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var all []model.Privilege
		if err := tx.Find(&all).Error; err != nil {
			return err
		}

		for _, defaultRole := range model.DefaultRoles {
			role := defaultRole
			err := tx.Where("code = ?", role.Code).First(&role).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if err := tx.Create(&role).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}

			if err := tx.Model(&role).Association("Privileges").Replace(privilegesForRole(role.Code, all)); err != nil {
				return err
			}
		}
		return nil
	})
}

// privilegesForRole gives MASTER_ADMIN everything and every other role all but user management.
func privilegesForRole(code string, all []model.Privilege) []model.Privilege {
	if code == model.RoleMasterAdmin {
		return all
	}
	granted := make([]model.Privilege, 0, len(all))
	for _, p := range all {
		if !model.IsUserManagement(p.Code) {
			granted = append(granted, p)
		}
	}
	return granted
}

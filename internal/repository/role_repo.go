package repository

import (
	"errors"

	"go-erp-admin/internal/model"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindAll() ([]model.Role, error)
	FindByID(id uint) (*model.Role, error)
	FindByCode(code string) (*model.Role, error)
	Create(role *model.Role) error
	SeedDefaults() error
}

type roleRepo struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) FindAll() ([]model.Role, error) {
	var roles []model.Role
	err := r.db.Preload("Privileges").Order("id ASC").Find(&roles).Error
	return roles, err
}

func (r *roleRepo) FindByID(id uint) (*model.Role, error) {
	var role model.Role
	err := r.db.Preload("Privileges").First(&role, id).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) FindByCode(code string) (*model.Role, error) {
	var role model.Role
	err := r.db.Preload("Privileges").Where("code = ?", code).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) Create(role *model.Role) error {
	return r.db.Create(role).Error
}

// SeedDefaults creates the default roles and, for roles that have none yet,
// attaches their default privileges. Privileges must be seeded first.
func (r *roleRepo) SeedDefaults() error {
	for _, defaultRole := range model.DefaultRoles {
		role, err := r.FindByCode(defaultRole.Code)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created := defaultRole
			if err := r.Create(&created); err != nil {
				return err
			}
			role = &created
		} else if err != nil {
			return err
		}

		if len(role.Privileges) > 0 {
			continue
		}
		codes := make([]string, 0, len(model.DefaultRoleCapabilities[role.Code]))
		for _, c := range model.DefaultRoleCapabilities[role.Code] {
			codes = append(codes, string(c))
		}
		var privileges []model.Privilege
		if err := r.db.Where("code IN ?", codes).Find(&privileges).Error; err != nil {
			return err
		}
		if err := r.db.Model(role).Association("Privileges").Replace(privileges); err != nil {
			return err
		}
	}
	return nil
}

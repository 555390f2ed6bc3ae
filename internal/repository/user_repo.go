package repository

import (
	"go-erp-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByUsername(username string) (*model.User, error)
	FindByID(id uuid.UUID) (*model.User, error)
	Create(user *model.User) error
	UpdatePassword(userID uuid.UUID, hashedPassword string) error
	UpdateAccess(user *model.User, privileges []model.Privilege) error
	FindAll(page Page) (*PageResult[model.User], error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) FindByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Preload("Role").Preload("Privileges").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByID(id uuid.UUID) (*model.User, error) {
	return findByID[model.User](r.db, id, "Role", "Privileges")
}

func (r *userRepo) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepo) UpdatePassword(userID uuid.UUID, hashedPassword string) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("password", hashedPassword).Error
}

// UpdateAccess saves the user's scalar columns and replaces its privileges
// in one transaction.
func (r *userRepo) UpdateAccess(user *model.User, privileges []model.Privilege) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Privileges", "Role").Save(user).Error; err != nil {
			return err
		}
		var stored model.User
		if err := tx.First(&stored, "id = ?", user.ID).Error; err != nil {
			return err
		}
		return tx.Model(&stored).Association("Privileges").Replace(privileges)
	})
}

func (r *userRepo) FindAll(page Page) (*PageResult[model.User], error) {
	return paginate[model.User](r.db.Model(&model.User{}), page, "username ASC", "Role", "Privileges")
}

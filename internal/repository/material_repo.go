package repository

import (
	"go-erp-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemFilter narrows material and product listings.
type ItemFilter struct {
	Query      string
	CategoryID *uuid.UUID
}

type MaterialRepository interface {
	Create(material *model.Material) error
	Update(material *model.Material) error
	Delete(id uuid.UUID, deletedBy string) error
	FindByID(id uuid.UUID) (*model.Material, error)
	FindByCode(code string) (*model.Material, error)
	List(filter ItemFilter, page Page) (*PageResult[model.Material], error)
	IsReferenced(id uuid.UUID) (bool, error)
}

type materialRepo struct {
	db *gorm.DB
}

func NewMaterialRepo(db *gorm.DB) MaterialRepository {
	return &materialRepo{db}
}

func (r *materialRepo) Create(material *model.Material) error {
	return r.db.Omit("Category").Create(material).Error
}

// Update saves every column except quantity, which only the stock ledger changes.
func (r *materialRepo) Update(material *model.Material) error {
	return r.db.Model(material).Omit("Category", "Quantity").Select("*").Updates(material).Error
}

func (r *materialRepo) Delete(id uuid.UUID, deletedBy string) error {
	return softDelete[model.Material](r.db, id, deletedBy)
}

func (r *materialRepo) FindByID(id uuid.UUID) (*model.Material, error) {
	return findByID[model.Material](r.db, id, "Category")
}

func (r *materialRepo) FindByCode(code string) (*model.Material, error) {
	var material model.Material
	if err := r.db.Unscoped().First(&material, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *materialRepo) List(filter ItemFilter, page Page) (*PageResult[model.Material], error) {
	q := r.db.Model(&model.Material{}).
		Joins("LEFT JOIN material_categories ON material_categories.id = materials.category_id")
	if filter.CategoryID != nil {
		q = q.Where("materials.category_id = ?", *filter.CategoryID)
	}
	q = matchAll(q, filter.Query, "materials.name", "materials.specification", "materials.code", "material_categories.name")
	return paginate[model.Material](q, page, "materials.code ASC", "Category")
}

func (r *materialRepo) IsReferenced(id uuid.UUID) (bool, error) {
	var lines int64
	if err := r.db.Model(&model.ProductMaterial{}).Where("material_id = ?", id).Count(&lines).Error; err != nil {
		return false, err
	}
	if lines > 0 {
		return true, nil
	}
	return itemReferenced(r.db, model.ItemMaterial, id)
}

// itemReferenced reports whether stock on hand or purchases point at the item.
func itemReferenced(db *gorm.DB, kind model.ItemKind, id uuid.UUID) (bool, error) {
	var n int64
	err := db.Model(&model.StockEntry{}).
		Where("item_kind = ? AND item_id = ? AND quantity > 0", kind, id).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}
	err = db.Model(&model.Purchase{}).Where("item_kind = ? AND item_id = ?", kind, id).Count(&n).Error
	return n > 0, err
}

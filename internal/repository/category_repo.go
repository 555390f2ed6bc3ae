package repository

import (
	"go-erp-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryRepository serves both category trees; T picks the table.
type CategoryRepository[T model.Category] interface {
	Create(category *T) error
	Update(category *T) error
	Delete(id uuid.UUID, deletedBy string) error
	FindByID(id uuid.UUID) (*T, error)
	FindByCode(code string) (*T, error)
	List(query string, page Page) (*PageResult[T], error)
	// ParentOf returns the parent id of a category, nil for a root.
	ParentOf(id uuid.UUID) (*uuid.UUID, error)
	// IsReferenced reports whether children or items still point at the category.
	IsReferenced(id uuid.UUID) (bool, error)
}

type categoryRepo[T model.Category] struct {
	db        *gorm.DB
	table     string
	itemTable string
}

func NewMaterialCategoryRepo(db *gorm.DB) CategoryRepository[model.MaterialCategory] {
	return &categoryRepo[model.MaterialCategory]{db: db, table: "material_categories", itemTable: "materials"}
}

func NewProductCategoryRepo(db *gorm.DB) CategoryRepository[model.ProductCategory] {
	return &categoryRepo[model.ProductCategory]{db: db, table: "product_categories", itemTable: "products"}
}

func (r *categoryRepo[T]) Create(category *T) error {
	return r.db.Create(category).Error
}

func (r *categoryRepo[T]) Update(category *T) error {
	return r.db.Omit("Parent").Save(category).Error
}

func (r *categoryRepo[T]) Delete(id uuid.UUID, deletedBy string) error {
	return softDelete[T](r.db, id, deletedBy)
}

func (r *categoryRepo[T]) FindByID(id uuid.UUID) (*T, error) {
	return findByID[T](r.db, id, "Parent")
}

func (r *categoryRepo[T]) FindByCode(code string) (*T, error) {
	var out T
	if err := r.db.Unscoped().Where("code = ?", code).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *categoryRepo[T]) List(query string, page Page) (*PageResult[T], error) {
	var zero T
	q := r.db.Model(&zero)
	q = matchAll(q, query, "name", "code")
	return paginate[T](q, page, "code ASC", "Parent")
}

func (r *categoryRepo[T]) ParentOf(id uuid.UUID) (*uuid.UUID, error) {
	var row struct {
		ParentID *uuid.UUID
	}
	res := r.db.Table(r.table).Select("parent_id").Where("id = ? AND deleted_at IS NULL", id).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return row.ParentID, nil
}

func (r *categoryRepo[T]) IsReferenced(id uuid.UUID) (bool, error) {
	var children int64
	if err := r.db.Table(r.table).Where("parent_id = ? AND deleted_at IS NULL", id).Count(&children).Error; err != nil {
		return false, err
	}
	if children > 0 {
		return true, nil
	}
	var items int64
	err := r.db.Table(r.itemTable).Where("category_id = ? AND deleted_at IS NULL", id).Count(&items).Error
	return items > 0, err
}

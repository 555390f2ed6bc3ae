package repository

import (
	"go-erp-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(supplier *model.Supplier) error
	Update(supplier *model.Supplier) error
	Delete(id uuid.UUID, deletedBy string) error
	FindByID(id uuid.UUID) (*model.Supplier, error)
	List(query string, page Page) (*PageResult[model.Supplier], error)
	IsReferenced(id uuid.UUID) (bool, error)
}

type supplierRepo struct {
	db *gorm.DB
}

func NewSupplierRepo(db *gorm.DB) SupplierRepository {
	return &supplierRepo{db}
}

func (r *supplierRepo) Create(supplier *model.Supplier) error {
	return r.db.Create(supplier).Error
}

func (r *supplierRepo) Update(supplier *model.Supplier) error {
	return r.db.Save(supplier).Error
}

func (r *supplierRepo) Delete(id uuid.UUID, deletedBy string) error {
	return softDelete[model.Supplier](r.db, id, deletedBy)
}

func (r *supplierRepo) FindByID(id uuid.UUID) (*model.Supplier, error) {
	return findByID[model.Supplier](r.db, id)
}

func (r *supplierRepo) List(query string, page Page) (*PageResult[model.Supplier], error) {
	q := r.db.Model(&model.Supplier{})
	q = matchAll(q, query, "name", "contact_person", "phone")
	return paginate[model.Supplier](q, page, "name ASC")
}

func (r *supplierRepo) IsReferenced(id uuid.UUID) (bool, error) {
	var n int64
	err := r.db.Model(&model.Purchase{}).Where("supplier_id = ?", id).Count(&n).Error
	return n > 0, err
}

package repository

import (
	"time"

	"go-erp-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PurchaseFilter narrows the purchase listing. Zero values are ignored.
type PurchaseFilter struct {
	Query      string
	SupplierID *uuid.UUID
	From       *time.Time
	To         *time.Time
}

type PurchaseRepository interface {
	Create(purchase *model.Purchase) error
	Update(purchase *model.Purchase) error
	Delete(id uuid.UUID, deletedBy string) error
	FindByID(id uuid.UUID) (*model.Purchase, error)
	List(filter PurchaseFilter, page Page) (*PageResult[model.Purchase], error)
	IsReferenced(id uuid.UUID) (bool, error)
}

type purchaseRepo struct {
	db *gorm.DB
}

func NewPurchaseRepo(db *gorm.DB) PurchaseRepository {
	return &purchaseRepo{db}
}

func (r *purchaseRepo) Create(purchase *model.Purchase) error {
	return r.db.Omit("Supplier").Create(purchase).Error
}

func (r *purchaseRepo) Update(purchase *model.Purchase) error {
	return r.db.Omit("Supplier").Save(purchase).Error
}

func (r *purchaseRepo) Delete(id uuid.UUID, deletedBy string) error {
	return softDelete[model.Purchase](r.db, id, deletedBy)
}

func (r *purchaseRepo) FindByID(id uuid.UUID) (*model.Purchase, error) {
	return findByID[model.Purchase](r.db, id, "Supplier")
}

func (r *purchaseRepo) List(filter PurchaseFilter, page Page) (*PageResult[model.Purchase], error) {
	q := r.db.Model(&model.Purchase{}).
		Joins("LEFT JOIN suppliers ON suppliers.id = purchases.supplier_id")
	if filter.SupplierID != nil {
		q = q.Where("purchases.supplier_id = ?", *filter.SupplierID)
	}
	if filter.From != nil {
		q = q.Where("purchases.purchase_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("purchases.purchase_date <= ?", *filter.To)
	}
	q = matchAll(q, filter.Query, "purchases.item_name", "suppliers.name")
	return paginate[model.Purchase](q, page, "purchases.purchase_date DESC, purchases.created_at DESC", "Supplier")
}

func (r *purchaseRepo) IsReferenced(id uuid.UUID) (bool, error) {
	var n int64
	err := r.db.Model(&model.QualityControl{}).Where("purchase_id = ?", id).Count(&n).Error
	return n > 0, err
}

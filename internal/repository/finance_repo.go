package repository

import (
	"time"

	"go-erp-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FinanceFilter struct {
	Type *model.FinanceType
	From *time.Time
	To   *time.Time
}

type FinanceRepository interface {
	Create(entry *model.Finance) error
	Update(entry *model.Finance) error
	Delete(id uuid.UUID, deletedBy string) error
	FindByID(id uuid.UUID) (*model.Finance, error)
	List(filter FinanceFilter, page Page) (*PageResult[model.Finance], error)
}

type financeRepo struct {
	db *gorm.DB
}

func NewFinanceRepo(db *gorm.DB) FinanceRepository {
	return &financeRepo{db}
}

func (r *financeRepo) Create(entry *model.Finance) error {
	return r.db.Create(entry).Error
}

func (r *financeRepo) Update(entry *model.Finance) error {
	return r.db.Save(entry).Error
}

func (r *financeRepo) Delete(id uuid.UUID, deletedBy string) error {
	return softDelete[model.Finance](r.db, id, deletedBy)
}

func (r *financeRepo) FindByID(id uuid.UUID) (*model.Finance, error) {
	return findByID[model.Finance](r.db, id)
}

func (r *financeRepo) List(filter FinanceFilter, page Page) (*PageResult[model.Finance], error) {
	q := r.db.Model(&model.Finance{})
	if filter.Type != nil {
		q = q.Where("transaction_type = ?", *filter.Type)
	}
	if filter.From != nil {
		q = q.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("date <= ?", *filter.To)
	}
	return paginate[model.Finance](q, page, "date DESC, created_at DESC")
}

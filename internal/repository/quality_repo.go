package repository

import (
	"go-erp-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QualityControlRepository interface {
	Create(qc *model.QualityControl) error
	Update(qc *model.QualityControl) error
	Delete(id uuid.UUID, deletedBy string) error
	FindByID(id uuid.UUID) (*model.QualityControl, error)
	List(query string, page Page) (*PageResult[model.QualityControl], error)
}

type qualityControlRepo struct {
	db *gorm.DB
}

func NewQualityControlRepo(db *gorm.DB) QualityControlRepository {
	return &qualityControlRepo{db}
}

func (r *qualityControlRepo) Create(qc *model.QualityControl) error {
	return r.db.Omit("Purchase").Create(qc).Error
}

func (r *qualityControlRepo) Update(qc *model.QualityControl) error {
	return r.db.Omit("Purchase").Save(qc).Error
}

func (r *qualityControlRepo) Delete(id uuid.UUID, deletedBy string) error {
	return softDelete[model.QualityControl](r.db, id, deletedBy)
}

func (r *qualityControlRepo) FindByID(id uuid.UUID) (*model.QualityControl, error) {
	return findByID[model.QualityControl](r.db, id, "Purchase")
}

func (r *qualityControlRepo) List(query string, page Page) (*PageResult[model.QualityControl], error) {
	q := r.db.Model(&model.QualityControl{})
	q = matchAll(q, query, "material_name", "inspector", "result")
	return paginate[model.QualityControl](q, page, "inspection_date DESC, created_at DESC")
}

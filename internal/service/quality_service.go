package service

import (
	"fmt"
	"strings"

	"go-erp-admin/internal/model"
	"go-erp-admin/internal/repository"

	"github.com/google/uuid"
)

type QualityControlRequest struct {
	PurchaseID     string `json:"purchase_id" form:"purchase_id"`
	MaterialName   string `json:"material_name" form:"material_name" validate:"max=255"`
	InspectionDate string `json:"inspection_date" form:"inspection_date" validate:"required"`
	Inspector      string `json:"inspector" form:"inspector" validate:"required,max=255"`
	Result         string `json:"result" form:"result" validate:"required,max=100"`
	Remarks        string `json:"remarks" form:"remarks"`
}

type QualityControlService interface {
	Create(req *QualityControlRequest, actor string) (*model.QualityControl, error)
	Update(id uuid.UUID, req *QualityControlRequest, actor string) (*model.QualityControl, error)
	Delete(id uuid.UUID, actor string) error
	Get(id uuid.UUID) (*model.QualityControl, error)
	List(query string, page repository.Page) (*repository.PageResult[model.QualityControl], error)
}

type qualityControlService struct {
	repo      repository.QualityControlRepository
	purchases repository.PurchaseRepository
}

func NewQualityControlService(repo repository.QualityControlRepository, purchases repository.PurchaseRepository) QualityControlService {
	return &qualityControlService{repo: repo, purchases: purchases}
}

// apply copies req onto qc. Without a purchase reference the material name is required;
// with one it defaults to the purchased item's name.
func (s *qualityControlService) apply(qc *model.QualityControl, req *QualityControlRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	purchaseID, err := parseOptionalID("purchase_id", req.PurchaseID)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(req.MaterialName)
	qc.Purchase = nil
	if purchaseID != nil {
		purchase, err := s.purchases.FindByID(*purchaseID)
		if err != nil {
			return reference(err, "purchase_id")
		}
		if name == "" {
			name = purchase.ItemName
		}
		qc.Purchase = purchase
	}
	if name == "" {
		return invalid("material_name", "failed on 'required'")
	}
	date, err := parseDate("inspection_date", req.InspectionDate)
	if err != nil {
		return err
	}

	qc.PurchaseID = purchaseID
	qc.MaterialName = name
	qc.InspectionDate = date
	qc.Inspector = strings.TrimSpace(req.Inspector)
	qc.Result = strings.TrimSpace(req.Result)
	qc.Remarks = strings.TrimSpace(req.Remarks)
	return nil
}

func (s *qualityControlService) Create(req *QualityControlRequest, actor string) (*model.QualityControl, error) {
	qc := &model.QualityControl{}
	if err := s.apply(qc, req); err != nil {
		return nil, err
	}
	qc.CreatedBy, qc.UpdatedBy = actor, actor
	if err := s.repo.Create(qc); err != nil {
		return nil, fmt.Errorf("create quality control: %w", err)
	}
	return qc, nil
}

func (s *qualityControlService) Update(id uuid.UUID, req *QualityControlRequest, actor string) (*model.QualityControl, error) {
	qc, err := s.repo.FindByID(id)
	if err != nil {
		return nil, lookup(err, "find quality control")
	}
	if err := s.apply(qc, req); err != nil {
		return nil, err
	}
	qc.UpdatedBy = actor
	if err := s.repo.Update(qc); err != nil {
		return nil, fmt.Errorf("update quality control: %w", err)
	}
	return qc, nil
}

func (s *qualityControlService) Delete(id uuid.UUID, actor string) error {
	return lookup(s.repo.Delete(id, actor), "delete quality control")
}

func (s *qualityControlService) Get(id uuid.UUID) (*model.QualityControl, error) {
	qc, err := s.repo.FindByID(id)
	if err != nil {
		return nil, lookup(err, "find quality control")
	}
	return qc, nil
}

func (s *qualityControlService) List(query string, page repository.Page) (*repository.PageResult[model.QualityControl], error) {
	return s.repo.List(query, page)
}

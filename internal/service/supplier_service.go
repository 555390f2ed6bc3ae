package service

import (
	"fmt"
	"strings"

	"go-erp-admin/internal/model"
	"go-erp-admin/internal/repository"

	"github.com/google/uuid"
)

type SupplierRequest struct {
	Name          string `json:"name" form:"name" validate:"required,max=255"`
	ContactPerson string `json:"contact_person" form:"contact_person" validate:"max=255"`
	Phone         string `json:"phone" form:"phone" validate:"max=50"`
	Address       string `json:"address" form:"address"`
}

type SupplierService interface {
	Create(req *SupplierRequest, actor string) (*model.Supplier, error)
	Update(id uuid.UUID, req *SupplierRequest, actor string) (*model.Supplier, error)
	Delete(id uuid.UUID, actor string) error
	Get(id uuid.UUID) (*model.Supplier, error)
	List(query string, page repository.Page) (*repository.PageResult[model.Supplier], error)
}

type supplierService struct {
	repo repository.SupplierRepository
}

func NewSupplierService(repo repository.SupplierRepository) SupplierService {
	return &supplierService{repo: repo}
}

func (s *supplierService) Create(req *SupplierRequest, actor string) (*model.Supplier, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	supplier := &model.Supplier{}
	applySupplier(supplier, req)
	supplier.CreatedBy, supplier.UpdatedBy = actor, actor
	if err := s.repo.Create(supplier); err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	return supplier, nil
}

func (s *supplierService) Update(id uuid.UUID, req *SupplierRequest, actor string) (*model.Supplier, error) {
	supplier, err := s.repo.FindByID(id)
	if err != nil {
		return nil, lookup(err, "find supplier")
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	applySupplier(supplier, req)
	supplier.UpdatedBy = actor
	if err := s.repo.Update(supplier); err != nil {
		return nil, fmt.Errorf("update supplier: %w", err)
	}
	return supplier, nil
}

func applySupplier(supplier *model.Supplier, req *SupplierRequest) {
	supplier.Name = strings.TrimSpace(req.Name)
	supplier.ContactPerson = strings.TrimSpace(req.ContactPerson)
	supplier.Phone = strings.TrimSpace(req.Phone)
	supplier.Address = strings.TrimSpace(req.Address)
}

func (s *supplierService) Delete(id uuid.UUID, actor string) error {
	if _, err := s.repo.FindByID(id); err != nil {
		return lookup(err, "find supplier")
	}
	referenced, err := s.repo.IsReferenced(id)
	if err != nil {
		return fmt.Errorf("check supplier references: %w", err)
	}
	if referenced {
		return invalid("", "supplier still has purchases")
	}
	return lookup(s.repo.Delete(id, actor), "delete supplier")
}

func (s *supplierService) Get(id uuid.UUID) (*model.Supplier, error) {
	supplier, err := s.repo.FindByID(id)
	if err != nil {
		return nil, lookup(err, "find supplier")
	}
	return supplier, nil
}

func (s *supplierService) List(query string, page repository.Page) (*repository.PageResult[model.Supplier], error) {
	return s.repo.List(query, page)
}

package service

import (
	"fmt"

	"go-erp-admin/internal/model"
	"go-erp-admin/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PurchaseRequest struct {
	SupplierID   string          `json:"supplier_id" form:"supplier_id" validate:"required"`
	ItemKind     model.ItemKind  `json:"item_kind" form:"item_kind" validate:"required,oneof=material product"`
	ItemID       string          `json:"item_id" form:"item_id" validate:"required"`
	Quantity     decimal.Decimal `json:"quantity" form:"quantity" validate:"gt=0,scale=2"`
	UnitPrice    decimal.Decimal `json:"unit_price" form:"unit_price" validate:"gte=0,scale=2"`
	PurchaseDate string          `json:"purchase_date" form:"purchase_date" validate:"required"`
}

type PurchaseService interface {
	Create(req *PurchaseRequest, actor string) (*model.Purchase, error)
	Update(id uuid.UUID, req *PurchaseRequest, actor string) (*model.Purchase, error)
	Delete(id uuid.UUID, actor string) error
	Get(id uuid.UUID) (*model.Purchase, error)
	List(filter repository.PurchaseFilter, page repository.Page) (*repository.PageResult[model.Purchase], error)
}

type purchaseService struct {
	repo      repository.PurchaseRepository
	suppliers repository.SupplierRepository
	materials repository.MaterialRepository
	products  repository.ProductRepository
}

func NewPurchaseService(repo repository.PurchaseRepository, suppliers repository.SupplierRepository, materials repository.MaterialRepository, products repository.ProductRepository) PurchaseService {
	return &purchaseService{repo: repo, suppliers: suppliers, materials: materials, products: products}
}

// PurchaseTotal is the amount owed for a purchase line. Both inputs carry at
// most two decimal places, so the product is exact at four.
func PurchaseTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}

// apply validates req and copies it onto purchase, resolving supplier and item.
func (s *purchaseService) apply(purchase *model.Purchase, req *PurchaseRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	supplierID, err := parseID("supplier_id", req.SupplierID)
	if err != nil {
		return err
	}
	supplier, err := s.suppliers.FindByID(supplierID)
	if err != nil {
		return reference(err, "supplier_id")
	}
	itemID, err := parseID("item_id", req.ItemID)
	if err != nil {
		return err
	}
	itemName, err := s.itemName(req.ItemKind, itemID)
	if err != nil {
		return err
	}
	date, err := parseDate("purchase_date", req.PurchaseDate)
	if err != nil {
		return err
	}

	purchase.SupplierID = supplierID
	purchase.Supplier = supplier
	purchase.ItemKind = req.ItemKind
	purchase.ItemID = itemID
	purchase.ItemName = itemName
	purchase.Quantity = req.Quantity
	purchase.UnitPrice = req.UnitPrice
	purchase.TotalPrice = PurchaseTotal(req.Quantity, req.UnitPrice)
	purchase.PurchaseDate = date
	return nil
}

func (s *purchaseService) itemName(kind model.ItemKind, id uuid.UUID) (string, error) {
	switch kind {
	case model.ItemMaterial:
		m, err := s.materials.FindByID(id)
		if err != nil {
			return "", reference(err, "item_id")
		}
		return m.Name, nil
	case model.ItemProduct:
		p, err := s.products.FindByID(id)
		if err != nil {
			return "", reference(err, "item_id")
		}
		return p.Name, nil
	}
	return "", invalid("item_kind", "must be 'material' or 'product'")
}

func (s *purchaseService) Create(req *PurchaseRequest, actor string) (*model.Purchase, error) {
	purchase := &model.Purchase{}
	if err := s.apply(purchase, req); err != nil {
		return nil, err
	}
	purchase.CreatedBy, purchase.UpdatedBy = actor, actor
	if err := s.repo.Create(purchase); err != nil {
		return nil, fmt.Errorf("create purchase: %w", err)
	}
	return purchase, nil
}

func (s *purchaseService) Update(id uuid.UUID, req *PurchaseRequest, actor string) (*model.Purchase, error) {
	purchase, err := s.repo.FindByID(id)
	if err != nil {
		return nil, lookup(err, "find purchase")
	}
	if err := s.apply(purchase, req); err != nil {
		return nil, err
	}
	purchase.UpdatedBy = actor
	if err := s.repo.Update(purchase); err != nil {
		return nil, fmt.Errorf("update purchase: %w", err)
	}
	return purchase, nil
}

func (s *purchaseService) Delete(id uuid.UUID, actor string) error {
	if _, err := s.repo.FindByID(id); err != nil {
		return lookup(err, "find purchase")
	}
	referenced, err := s.repo.IsReferenced(id)
	if err != nil {
		return fmt.Errorf("check purchase references: %w", err)
	}
	if referenced {
		return invalid("", "purchase still has quality control records")
	}
	return lookup(s.repo.Delete(id, actor), "delete purchase")
}

func (s *purchaseService) Get(id uuid.UUID) (*model.Purchase, error) {
	purchase, err := s.repo.FindByID(id)
	if err != nil {
		return nil, lookup(err, "find purchase")
	}
	return purchase, nil
}

func (s *purchaseService) List(filter repository.PurchaseFilter, page repository.Page) (*repository.PageResult[model.Purchase], error) {
	return s.repo.List(filter, page)
}

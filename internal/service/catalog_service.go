package service

import (
	"fmt"
	"strings"
	"time"

	"go-erp-admin/internal/model"
	"go-erp-admin/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MaterialRequest struct {
	CategoryID    string          `json:"category_id" form:"category_id" validate:"required"`
	Name          string          `json:"name" form:"name" validate:"required,max=255"`
	Specification string          `json:"specification" form:"specification" validate:"max=255"`
	Code          string          `json:"code" form:"code" validate:"required,max=50"`
	Unit          string          `json:"unit" form:"unit" validate:"max=20"`
	Quantity      decimal.Decimal `json:"quantity" form:"quantity" validate:"gte=0,scale=2"` // opening stock, create only
	// AveragePrice is optional; when set the material tracks its total stock value.
	AveragePrice decimal.NullDecimal `json:"average_price" form:"average_price"`
}

type ProductRequest struct {
	CategoryID    string          `json:"category_id" form:"category_id" validate:"required"`
	Name          string          `json:"name" form:"name" validate:"required,max=255"`
	Specification string          `json:"specification" form:"specification" validate:"max=255"`
	Code          string          `json:"code" form:"code" validate:"required,max=50"`
	Unit          string          `json:"unit" form:"unit" validate:"max=20"`
	Quantity      decimal.Decimal `json:"quantity" form:"quantity" validate:"gte=0,scale=2"` // opening stock, create only
}

type BOMLineRequest struct {
	MaterialID string          `json:"material_id" form:"material_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity" form:"quantity" validate:"gt=0,scale=2"`
}

type MaterialService interface {
	Create(req *MaterialRequest, actor string) (*model.Material, error)
	Update(id uuid.UUID, req *MaterialRequest, actor string) (*model.Material, error)
	Delete(id uuid.UUID, actor string) error
	Get(id uuid.UUID) (*model.Material, error)
	List(filter repository.ItemFilter, page repository.Page) (*repository.PageResult[model.Material], error)
}

type ProductService interface {
	Create(req *ProductRequest, actor string) (*model.Product, error)
	Update(id uuid.UUID, req *ProductRequest, actor string) (*model.Product, error)
	Delete(id uuid.UUID, actor string) error
	Get(id uuid.UUID) (*model.Product, error)
	List(filter repository.ItemFilter, page repository.Page) (*repository.PageResult[model.Product], error)

	AddMaterial(productID uuid.UUID, req *BOMLineRequest, actor string) (*model.ProductMaterial, error)
	ListMaterials(productID uuid.UUID) ([]model.ProductMaterial, error)
	RemoveMaterial(productID, lineID uuid.UUID) error

	GetProcess(productID uuid.UUID) (*model.ProductProcessParameter, error)
	SaveProcess(productID uuid.UUID, req *ProcessRequest, actor string) (*model.ProductProcessParameter, error)
	ListFormulas(productID uuid.UUID) ([]model.ProductBudgetFormula, error)
	AddFormula(productID uuid.UUID, req *FormulaRequest, actor string) (*model.ProductBudgetFormula, error)
	UpdateFormula(productID, formulaID uuid.UUID, req *FormulaRequest, actor string) (*model.ProductBudgetFormula, error)
	RemoveFormula(productID, formulaID uuid.UUID) error
}

// openingStock books an item's initial quantity at the default location inside tx.
func openingStock(tx *gorm.DB, stock repository.StockRepository, kind model.ItemKind, id uuid.UUID, name string, qty decimal.Decimal, actor string) error {
	if !qty.IsPositive() {
		return nil
	}
	today, _ := parseDateOr("date", "", time.Now())
	entry := &model.StockEntry{
		ItemKind:     kind,
		ItemID:       id,
		Location:     model.DefaultLocation,
		ItemName:     name,
		Quantity:     qty,
		LastMovement: today,
	}
	entry.CreatedBy, entry.UpdatedBy = actor, actor
	if err := stock.SaveEntry(tx, entry); err != nil {
		return fmt.Errorf("open stock entry: %w", err)
	}
	movement := &model.StockMovement{
		StockEntryID:    entry.ID,
		ItemKind:        kind,
		ItemID:          id,
		Location:        entry.Location,
		OperationType:   model.OpIn,
		Quantity:        qty,
		QuantityBefore:  decimal.Zero,
		QuantityAfter:   qty,
		Date:            today,
		Note:            "opening stock",
		CreatedByUserID: actorID(actor),
	}
	movement.CreatedBy = actor
	return stock.AddMovement(tx, movement)
}

func actorID(actor string) *uuid.UUID {
	id, err := uuid.Parse(actor)
	if err != nil {
		return nil
	}
	return &id
}

type materialService struct {
	db         *gorm.DB
	repo       repository.MaterialRepository
	categories repository.CategoryRepository[model.MaterialCategory]
	stock      repository.StockRepository
}

func NewMaterialService(db *gorm.DB, repo repository.MaterialRepository, categories repository.CategoryRepository[model.MaterialCategory], stock repository.StockRepository) MaterialService {
	return &materialService{db: db, repo: repo, categories: categories, stock: stock}
}

func (s *materialService) check(req *MaterialRequest, currentCode string) (uuid.UUID, error) {
	if err := validate(req); err != nil {
		return uuid.Nil, err
	}
	if err := optionalAmount("average_price", req.AveragePrice); err != nil {
		return uuid.Nil, err
	}
	categoryID, err := parseID("category_id", req.CategoryID)
	if err != nil {
		return uuid.Nil, err
	}
	if _, err := s.categories.FindByID(categoryID); err != nil {
		return uuid.Nil, reference(err, "category_id")
	}
	code := strings.TrimSpace(req.Code)
	if code != currentCode {
		_, err := s.repo.FindByCode(code)
		if err := codeTaken(err); err != nil {
			return uuid.Nil, err
		}
	}
	return categoryID, nil
}

func (s *materialService) Create(req *MaterialRequest, actor string) (*model.Material, error) {
	categoryID, err := s.check(req, "")
	if err != nil {
		return nil, err
	}

	material := &model.Material{
		CategoryID:    categoryID,
		Name:          strings.TrimSpace(req.Name),
		Specification: strings.TrimSpace(req.Specification),
		Code:          strings.TrimSpace(req.Code),
		Unit:          strings.TrimSpace(req.Unit),
		Quantity:      req.Quantity,
	}
	if req.AveragePrice.Valid {
		price := req.AveragePrice.Decimal
		total := req.Quantity.Mul(price).Round(2)
		material.AveragePrice, material.TotalValue = &price, &total
	}
	material.CreatedBy, material.UpdatedBy = actor, actor

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewMaterialRepo(tx).Create(material); err != nil {
			return persist(err, "code", "create material")
		}
		return openingStock(tx, s.stock, model.ItemMaterial, material.ID, material.Name, material.Quantity, actor)
	})
	if err != nil {
		return nil, err
	}
	return material, nil
}

// Update changes descriptive fields. Quantity moves only through the stock ledger.
func (s *materialService) Update(id uuid.UUID, req *MaterialRequest, actor string) (*model.Material, error) {
	material, err := s.repo.FindByID(id)
	if err != nil {
		return nil, lookup(err, "find material")
	}
	categoryID, err := s.check(req, material.Code)
	if err != nil {
		return nil, err
	}

	material.CategoryID = categoryID
	material.Name = strings.TrimSpace(req.Name)
	material.Specification = strings.TrimSpace(req.Specification)
	material.Code = strings.TrimSpace(req.Code)
	material.Unit = strings.TrimSpace(req.Unit)
	material.AveragePrice, material.TotalValue = nil, nil
	if req.AveragePrice.Valid {
		price := req.AveragePrice.Decimal
		total := material.Quantity.Mul(price).Round(2)
		material.AveragePrice, material.TotalValue = &price, &total
	}
	material.UpdatedBy = actor

	if err := persist(s.repo.Update(material), "code", "update material"); err != nil {
		return nil, err
	}
	return s.repo.FindByID(id)
}

func (s *materialService) Delete(id uuid.UUID, actor string) error {
	if _, err := s.repo.FindByID(id); err != nil {
		return lookup(err, "find material")
	}
	referenced, err := s.repo.IsReferenced(id)
	if err != nil {
		return fmt.Errorf("check material references: %w", err)
	}
	if referenced {
		return invalid("", "material is still referenced by stock, purchases or a bill of materials")
	}
	return lookup(s.repo.Delete(id, actor), "delete material")
}

func (s *materialService) Get(id uuid.UUID) (*model.Material, error) {
	material, err := s.repo.FindByID(id)
	if err != nil {
		return nil, lookup(err, "find material")
	}
	return material, nil
}

func (s *materialService) List(filter repository.ItemFilter, page repository.Page) (*repository.PageResult[model.Material], error) {
	return s.repo.List(filter, page)
}

type productService struct {
	db         *gorm.DB
	repo       repository.ProductRepository
	categories repository.CategoryRepository[model.ProductCategory]
	materials  repository.MaterialRepository
	stock      repository.StockRepository
}

func NewProductService(db *gorm.DB, repo repository.ProductRepository, categories repository.CategoryRepository[model.ProductCategory], materials repository.MaterialRepository, stock repository.StockRepository) ProductService {
	return &productService{db: db, repo: repo, categories: categories, materials: materials, stock: stock}
}

func (s *productService) check(req *ProductRequest, currentCode string) (uuid.UUID, error) {
	if err := validate(req); err != nil {
		return uuid.Nil, err
	}
	categoryID, err := parseID("category_id", req.CategoryID)
	if err != nil {
		return uuid.Nil, err
	}
	if _, err := s.categories.FindByID(categoryID); err != nil {
		return uuid.Nil, reference(err, "category_id")
	}
	code := strings.TrimSpace(req.Code)
	if code != currentCode {
		_, err := s.repo.FindByCode(code)
		if err := codeTaken(err); err != nil {
			return uuid.Nil, err
		}
	}
	return categoryID, nil
}

func (s *productService) Create(req *ProductRequest, actor string) (*model.Product, error) {
	categoryID, err := s.check(req, "")
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		CategoryID:    categoryID,
		Name:          strings.TrimSpace(req.Name),
		Specification: strings.TrimSpace(req.Specification),
		Code:          strings.TrimSpace(req.Code),
		Unit:          strings.TrimSpace(req.Unit),
		Quantity:      req.Quantity,
	}
	product.CreatedBy, product.UpdatedBy = actor, actor

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewProductRepo(tx).Create(product); err != nil {
			return persist(err, "code", "create product")
		}
		return openingStock(tx, s.stock, model.ItemProduct, product.ID, product.Name, product.Quantity, actor)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Update changes descriptive fields. Quantity moves only through the stock ledger.
func (s *productService) Update(id uuid.UUID, req *ProductRequest, actor string) (*model.Product, error) {
	product, err := s.repo.FindByID(id)
	if err != nil {
		return nil, lookup(err, "find product")
	}
	categoryID, err := s.check(req, product.Code)
	if err != nil {
		return nil, err
	}

	product.CategoryID = categoryID
	product.Name = strings.TrimSpace(req.Name)
	product.Specification = strings.TrimSpace(req.Specification)
	product.Code = strings.TrimSpace(req.Code)
	product.Unit = strings.TrimSpace(req.Unit)
	product.UpdatedBy = actor

	if err := persist(s.repo.Update(product), "code", "update product"); err != nil {
		return nil, err
	}
	return s.repo.FindByID(id)
}

func (s *productService) Delete(id uuid.UUID, actor string) error {
	if _, err := s.repo.FindByID(id); err != nil {
		return lookup(err, "find product")
	}
	referenced, err := s.repo.IsReferenced(id)
	if err != nil {
		return fmt.Errorf("check product references: %w", err)
	}
	if referenced {
		return invalid("", "product is still referenced by stock or purchases")
	}
	return lookup(s.repo.Delete(id, actor), "delete product")
}

func (s *productService) Get(id uuid.UUID) (*model.Product, error) {
	product, err := s.repo.FindByID(id)
	if err != nil {
		return nil, lookup(err, "find product")
	}
	return product, nil
}

func (s *productService) List(filter repository.ItemFilter, page repository.Page) (*repository.PageResult[model.Product], error) {
	return s.repo.List(filter, page)
}

func (s *productService) AddMaterial(productID uuid.UUID, req *BOMLineRequest, actor string) (*model.ProductMaterial, error) {
	if _, err := s.repo.FindByID(productID); err != nil {
		return nil, lookup(err, "find product")
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	materialID, err := parseID("material_id", req.MaterialID)
	if err != nil {
		return nil, err
	}
	material, err := s.materials.FindByID(materialID)
	if err != nil {
		return nil, reference(err, "material_id")
	}
	if _, err := s.repo.FindMaterialLine(productID, materialID); err == nil {
		return nil, invalid("material_id", "already on the bill of materials")
	}

	line := &model.ProductMaterial{
		ProductID:  productID,
		MaterialID: materialID,
		Quantity:   req.Quantity,
	}
	line.CreatedBy, line.UpdatedBy = actor, actor
	if err := persist(s.repo.AddMaterial(line), "material_id", "add bill of materials line"); err != nil {
		return nil, err
	}
	line.Material = material
	return line, nil
}

func (s *productService) ListMaterials(productID uuid.UUID) ([]model.ProductMaterial, error) {
	if _, err := s.repo.FindByID(productID); err != nil {
		return nil, lookup(err, "find product")
	}
	return s.repo.ListMaterials(productID)
}

func (s *productService) RemoveMaterial(productID, lineID uuid.UUID) error {
	return lookup(s.repo.DeleteMaterialLine(productID, lineID), "delete bill of materials line")
}

package repository

import (
	"go-erp-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	Update(product *model.Product) error
	Delete(id uuid.UUID, deletedBy string) error
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByCode(code string) (*model.Product, error)
	List(filter ItemFilter, page Page) (*PageResult[model.Product], error)
	IsReferenced(id uuid.UUID) (bool, error)

	// Bill of materials
	AddMaterial(line *model.ProductMaterial) error
	FindMaterialLine(productID, materialID uuid.UUID) (*model.ProductMaterial, error)
	ListMaterials(productID uuid.UUID) ([]model.ProductMaterial, error)
	DeleteMaterialLine(productID, lineID uuid.UUID) error

	// Process parameters and price budget
	FindProcess(productID uuid.UUID) (*model.ProductProcessParameter, error)
	SaveProcess(process *model.ProductProcessParameter) error
	ListFormulas(productID uuid.UUID) ([]model.ProductBudgetFormula, error)
	FindFormula(productID, formulaID uuid.UUID) (*model.ProductBudgetFormula, error)
	FindFormulaBySeq(productID uuid.UUID, seq int) (*model.ProductBudgetFormula, error)
	AddFormula(formula *model.ProductBudgetFormula) error
	UpdateFormula(formula *model.ProductBudgetFormula) error
	DeleteFormula(productID, formulaID uuid.UUID) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Omit("Category", "Materials").Create(product).Error
}

// Update saves every column except quantity, which only the stock ledger changes.
func (r *productRepo) Update(product *model.Product) error {
	return r.db.Model(product).Omit("Category", "Materials", "Quantity").Select("*").Updates(product).Error
}

func (r *productRepo) Delete(id uuid.UUID, deletedBy string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := softDelete[model.Product](tx, id, deletedBy); err != nil {
			return err
		}
		for _, dependent := range []interface{}{&model.ProductMaterial{}, &model.ProductProcessParameter{}, &model.ProductBudgetFormula{}} {
			if err := tx.Unscoped().Where("product_id = ?", id).Delete(dependent).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	return findByID[model.Product](r.db, id, "Category", "Materials.Material")
}

func (r *productRepo) FindByCode(code string) (*model.Product, error) {
	var product model.Product
	if err := r.db.Unscoped().First(&product, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) List(filter ItemFilter, page Page) (*PageResult[model.Product], error) {
	q := r.db.Model(&model.Product{}).
		Joins("LEFT JOIN product_categories ON product_categories.id = products.category_id")
	if filter.CategoryID != nil {
		q = q.Where("products.category_id = ?", *filter.CategoryID)
	}
	q = matchAll(q, filter.Query, "products.name", "products.specification", "products.code", "product_categories.name")
	return paginate[model.Product](q, page, "products.code ASC", "Category")
}

func (r *productRepo) IsReferenced(id uuid.UUID) (bool, error) {
	return itemReferenced(r.db, model.ItemProduct, id)
}

func (r *productRepo) AddMaterial(line *model.ProductMaterial) error {
	return r.db.Omit("Material").Create(line).Error
}

func (r *productRepo) FindMaterialLine(productID, materialID uuid.UUID) (*model.ProductMaterial, error) {
	var line model.ProductMaterial
	if err := r.db.Where("product_id = ? AND material_id = ?", productID, materialID).First(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *productRepo) ListMaterials(productID uuid.UUID) ([]model.ProductMaterial, error) {
	lines := []model.ProductMaterial{}
	err := r.db.Preload("Material").Where("product_id = ?", productID).Order("created_at ASC").Find(&lines).Error
	return lines, err
}

// DeleteMaterialLine removes a BOM line for good so the pairing can be added again.
func (r *productRepo) DeleteMaterialLine(productID, lineID uuid.UUID) error {
	res := r.db.Unscoped().Where("id = ? AND product_id = ?", lineID, productID).Delete(&model.ProductMaterial{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) FindProcess(productID uuid.UUID) (*model.ProductProcessParameter, error) {
	var process model.ProductProcessParameter
	if err := r.db.Where("product_id = ?", productID).First(&process).Error; err != nil {
		return nil, err
	}
	return &process, nil
}

// SaveProcess inserts the product's parameters or overwrites the existing row.
func (r *productRepo) SaveProcess(process *model.ProductProcessParameter) error {
	if process.ID == uuid.Nil {
		return r.db.Create(process).Error
	}
	return r.db.Model(process).Select("ManufacturingTime", "GalvanizingCost", "BaseMaterialCost", "UpdatedBy").Updates(process).Error
}

func (r *productRepo) ListFormulas(productID uuid.UUID) ([]model.ProductBudgetFormula, error) {
	formulas := []model.ProductBudgetFormula{}
	err := r.db.Where("product_id = ?", productID).Order("seq ASC").Find(&formulas).Error
	return formulas, err
}

func (r *productRepo) FindFormula(productID, formulaID uuid.UUID) (*model.ProductBudgetFormula, error) {
	var formula model.ProductBudgetFormula
	if err := r.db.Where("id = ? AND product_id = ?", formulaID, productID).First(&formula).Error; err != nil {
		return nil, err
	}
	return &formula, nil
}

func (r *productRepo) FindFormulaBySeq(productID uuid.UUID, seq int) (*model.ProductBudgetFormula, error) {
	var formula model.ProductBudgetFormula
	if err := r.db.Where("product_id = ? AND seq = ?", productID, seq).First(&formula).Error; err != nil {
		return nil, err
	}
	return &formula, nil
}

func (r *productRepo) AddFormula(formula *model.ProductBudgetFormula) error {
	return r.db.Create(formula).Error
}

func (r *productRepo) UpdateFormula(formula *model.ProductBudgetFormula) error {
	return r.db.Model(formula).Select("Seq", "Name", "Formula", "Description", "UpdatedBy").Updates(formula).Error
}

// DeleteFormula removes a budget line for good so its number can be reused.
func (r *productRepo) DeleteFormula(productID, formulaID uuid.UUID) error {
	res := r.db.Unscoped().Where("id = ? AND product_id = ?", formulaID, productID).Delete(&model.ProductBudgetFormula{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

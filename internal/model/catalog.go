package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Material struct {
	BaseModel
	CategoryID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"category_id"`
	Category      *MaterialCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Name          string            `gorm:"type:varchar(255);not null" json:"name"`
	Specification string            `gorm:"type:varchar(255)" json:"specification"`
	Code          string            `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Unit          string            `gorm:"type:varchar(20)" json:"unit"`
	Quantity      decimal.Decimal   `gorm:"type:decimal(14,2);not null;default:0" json:"quantity"`
	AveragePrice  *decimal.Decimal  `gorm:"type:decimal(14,2)" json:"average_price,omitempty"`
	TotalValue    *decimal.Decimal  `gorm:"type:decimal(14,2)" json:"total_value,omitempty"`
}

type Product struct {
	BaseModel
	CategoryID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"category_id"`
	Category      *ProductCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Name          string           `gorm:"type:varchar(255);not null" json:"name"`
	Specification string           `gorm:"type:varchar(255)" json:"specification"`
	Code          string           `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Unit          string           `gorm:"type:varchar(20)" json:"unit"`
	Quantity      decimal.Decimal  `gorm:"type:decimal(14,2);not null;default:0" json:"quantity"`

	Materials []ProductMaterial `json:"materials,omitempty"`
}

// ProductMaterial is one bill-of-materials line.
type ProductMaterial struct {
	BaseModel
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_material" json:"product_id"`
	MaterialID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_material" json:"material_id"`
	Material   *Material       `gorm:"foreignKey:MaterialID" json:"material,omitempty"`
	Quantity   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"quantity"`
}

// ProductProcessParameter holds the production figures a price budget draws on.
// A product has at most one.
type ProductProcessParameter struct {
	BaseModel
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"product_id"`
	ManufacturingTime decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"manufacturing_time"` // hours
	GalvanizingCost   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"galvanizing_cost"`
	BaseMaterialCost  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"base_material_cost"`
}

// ProductBudgetFormula is one numbered line of a product's price budget.
// Formula refers to other lines as {n} and to process figures by name in braces.
type ProductBudgetFormula struct {
	BaseModel
	ProductID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_formula_seq" json:"product_id"`
	Seq         int       `gorm:"not null;uniqueIndex:idx_product_formula_seq" json:"seq"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Formula     string    `gorm:"type:varchar(255);not null" json:"formula"`
	Description string    `gorm:"type:varchar(255)" json:"description"`
}

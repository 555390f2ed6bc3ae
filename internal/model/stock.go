package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OperationType string

const (
	OpIn  OperationType = "in"
	OpOut OperationType = "out"
)

// DefaultLocation is used when an adjustment names no location.
const DefaultLocation = "MAIN"

// StockEntry is the quantity on hand of one item at one location.
type StockEntry struct {
	BaseModel
	ItemKind     ItemKind        `gorm:"type:varchar(20);not null;uniqueIndex:idx_stock_item" json:"item_kind"`
	ItemID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_item" json:"item_id"`
	Location     string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_stock_item" json:"location"`
	ItemName     string          `gorm:"type:varchar(255)" json:"item_name"`
	Quantity     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"quantity"`
	LastMovement datatypes.Date  `json:"last_movement"`
}

// StockMovement is the append-only log of applied adjustments.
type StockMovement struct {
	BaseModel
	StockEntryID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"stock_entry_id"`
	ItemKind       ItemKind        `gorm:"type:varchar(20);not null" json:"item_kind"`
	ItemID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Location       string          `gorm:"type:varchar(100);not null" json:"location"`
	OperationType  OperationType   `gorm:"type:varchar(10);not null" json:"operation_type"`
	Quantity       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"quantity"`
	QuantityBefore decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"quantity_before"`
	QuantityAfter  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"quantity_after"`
	Date           datatypes.Date  `gorm:"not null;index" json:"date"`
	Note           string          `gorm:"type:text" json:"note"`

	// User tracking
	CreatedByUserID *uuid.UUID `gorm:"type:uuid" json:"created_by_user_id,omitempty"`
}

// AllModels lists every table for AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&Privilege{}, &Role{}, &User{},
		&MaterialCategory{}, &Material{}, &ProductCategory{}, &Product{}, &ProductMaterial{},
		&ProductProcessParameter{}, &ProductBudgetFormula{},
		&Supplier{}, &Purchase{}, &QualityControl{},
		&StockEntry{}, &StockMovement{}, &Finance{},
	}
}

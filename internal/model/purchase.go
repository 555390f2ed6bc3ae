package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ItemKind tells which catalog table a stock or purchase line points at.
type ItemKind string

const (
	ItemMaterial ItemKind = "material"
	ItemProduct  ItemKind = "product"
)

// Purchase records goods bought from a supplier. TotalPrice is always Quantity x UnitPrice.
type Purchase struct {
	BaseModel
	SupplierID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"supplier_id"`
	Supplier     *Supplier       `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	ItemKind     ItemKind        `gorm:"type:varchar(20);not null" json:"item_kind"`
	ItemID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	ItemName     string          `gorm:"type:varchar(255)" json:"item_name"` // snapshot
	Quantity     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"unit_price"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_price"`
	PurchaseDate datatypes.Date  `gorm:"not null;index" json:"purchase_date"`
}

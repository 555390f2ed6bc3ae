package model

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QualityControl struct {
	BaseModel
	PurchaseID     *uuid.UUID     `gorm:"type:uuid;index" json:"purchase_id"`
	Purchase       *Purchase      `gorm:"foreignKey:PurchaseID" json:"purchase,omitempty"`
	MaterialName   string         `gorm:"type:varchar(255)" json:"material_name"`
	InspectionDate datatypes.Date `gorm:"not null" json:"inspection_date"`
	Inspector      string         `gorm:"type:varchar(255);not null" json:"inspector"`
	Result         string         `gorm:"type:varchar(100);not null" json:"result"`
	Remarks        string         `gorm:"type:text" json:"remarks"`
}

package model

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type FinanceType string

const (
	FinanceIncome  FinanceType = "income"
	FinanceExpense FinanceType = "expense"
)

type Finance struct {
	BaseModel
	Date            datatypes.Date  `gorm:"not null;index" json:"date"`
	TransactionType FinanceType     `gorm:"type:varchar(10);not null;index" json:"transaction_type"`
	Amount          decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"amount"`
	Description     string          `gorm:"type:text" json:"description"`
}

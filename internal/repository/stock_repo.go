package repository

import (
	"fmt"
	"time"

	"go-erp-admin/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockedItem is the slice of a material or product row the ledger needs.
type LockedItem struct {
	Kind         model.ItemKind
	ID           uuid.UUID
	Name         string
	Quantity     decimal.Decimal
	AveragePrice *decimal.Decimal
}

type StockFilter struct {
	ItemKind *model.ItemKind
	ItemID   *uuid.UUID
	Location string
	Query    string
}

type MovementFilter struct {
	ItemKind *model.ItemKind
	ItemID   *uuid.UUID
	From     *time.Time
	To       *time.Time
}

// StockRepository methods taking a tx must run inside the caller's transaction.
type StockRepository interface {
	LockItem(tx *gorm.DB, kind model.ItemKind, id uuid.UUID) (*LockedItem, error)
	LockEntry(tx *gorm.DB, kind model.ItemKind, id uuid.UUID, location string) (*model.StockEntry, error)
	SaveEntry(tx *gorm.DB, entry *model.StockEntry) error
	SetItemQuantity(tx *gorm.DB, item *LockedItem, quantity decimal.Decimal, updatedBy string) error
	AddMovement(tx *gorm.DB, movement *model.StockMovement) error

	ListEntries(filter StockFilter, page Page) (*PageResult[model.StockEntry], error)
	ListMovements(filter MovementFilter, page Page) (*PageResult[model.StockMovement], error)
	SumEntries(kind model.ItemKind, id uuid.UUID) (decimal.Decimal, error)
}

type stockRepo struct {
	db *gorm.DB
}

func NewStockRepo(db *gorm.DB) StockRepository {
	return &stockRepo{db}
}

func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (r *stockRepo) LockItem(tx *gorm.DB, kind model.ItemKind, id uuid.UUID) (*LockedItem, error) {
	item := &LockedItem{Kind: kind, ID: id}
	switch kind {
	case model.ItemMaterial:
		var m model.Material
		if err := forUpdate(tx).First(&m, "id = ?", id).Error; err != nil {
			return nil, err
		}
		item.Name, item.Quantity, item.AveragePrice = m.Name, m.Quantity, m.AveragePrice
	case model.ItemProduct:
		var p model.Product
		if err := forUpdate(tx).First(&p, "id = ?", id).Error; err != nil {
			return nil, err
		}
		item.Name, item.Quantity = p.Name, p.Quantity
	default:
		return nil, fmt.Errorf("unknown item kind %q", kind)
	}
	return item, nil
}

func (r *stockRepo) LockEntry(tx *gorm.DB, kind model.ItemKind, id uuid.UUID, location string) (*model.StockEntry, error) {
	var entry model.StockEntry
	err := forUpdate(tx).
		Where("item_kind = ? AND item_id = ? AND location = ?", kind, id, location).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *stockRepo) SaveEntry(tx *gorm.DB, entry *model.StockEntry) error {
	return tx.Save(entry).Error
}

// SetItemQuantity writes the item's quantity and, for priced materials, its total value.
func (r *stockRepo) SetItemQuantity(tx *gorm.DB, item *LockedItem, quantity decimal.Decimal, updatedBy string) error {
	updates := map[string]interface{}{
		"quantity":   quantity,
		"updated_by": updatedBy,
	}
	var target interface{}
	switch item.Kind {
	case model.ItemMaterial:
		target = &model.Material{}
		if item.AveragePrice != nil {
			updates["total_value"] = quantity.Mul(*item.AveragePrice).Round(2)
		}
	case model.ItemProduct:
		target = &model.Product{}
	default:
		return fmt.Errorf("unknown item kind %q", item.Kind)
	}
	return tx.Model(target).Where("id = ?", item.ID).Updates(updates).Error
}

func (r *stockRepo) AddMovement(tx *gorm.DB, movement *model.StockMovement) error {
	return tx.Create(movement).Error
}

func (r *stockRepo) ListEntries(filter StockFilter, page Page) (*PageResult[model.StockEntry], error) {
	q := r.db.Model(&model.StockEntry{})
	if filter.ItemKind != nil {
		q = q.Where("item_kind = ?", *filter.ItemKind)
	}
	if filter.ItemID != nil {
		q = q.Where("item_id = ?", *filter.ItemID)
	}
	if filter.Location != "" {
		q = q.Where("location = ?", filter.Location)
	}
	q = matchAll(q, filter.Query, "item_name", "location")
	return paginate[model.StockEntry](q, page, "item_name ASC, location ASC")
}

func (r *stockRepo) ListMovements(filter MovementFilter, page Page) (*PageResult[model.StockMovement], error) {
	q := r.db.Model(&model.StockMovement{})
	if filter.ItemKind != nil {
		q = q.Where("item_kind = ?", *filter.ItemKind)
	}
	if filter.ItemID != nil {
		q = q.Where("item_id = ?", *filter.ItemID)
	}
	if filter.From != nil {
		q = q.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("date <= ?", *filter.To)
	}
	return paginate[model.StockMovement](q, page, "created_at DESC")
}

// SumEntries totals every location's quantity for one item.
func (r *stockRepo) SumEntries(kind model.ItemKind, id uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Model(&model.StockEntry{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("item_kind = ? AND item_id = ?", kind, id).
		Row().Scan(&total)
	return total, err
}

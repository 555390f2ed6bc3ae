package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-erp-admin/internal/model"
	"go-erp-admin/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AdjustRequest is one inbound or outbound stock movement.
type AdjustRequest struct {
	ItemKind      model.ItemKind  `json:"item_kind" form:"item_kind"`
	ItemID        string          `json:"item_id" form:"item_id"`
	Location      string          `json:"location" form:"location" validate:"max=100"`
	OperationType string          `json:"operation_type" form:"operation_type"`
	Quantity      decimal.Decimal `json:"quantity" form:"quantity" validate:"scale=2"`
	Date          string          `json:"date" form:"date"` // YYYY-MM-DD, defaults to today
	Note          string          `json:"note" form:"note"`
}

// StockEvent is broadcast to websocket clients after an adjustment commits.
type StockEvent struct {
	Type          string              `json:"type"`
	ItemKind      model.ItemKind      `json:"item_kind"`
	ItemID        string              `json:"item_id"`
	ItemName      string              `json:"item_name"`
	Location      string              `json:"location"`
	OperationType model.OperationType `json:"operation_type"`
	Quantity      decimal.Decimal     `json:"quantity"`
	NewQuantity   decimal.Decimal     `json:"new_quantity"`
	User          string              `json:"user"`
	Message       string              `json:"message"`
}

type StockService interface {
	Adjust(ctx context.Context, req *AdjustRequest, actor *model.User) (*model.StockEntry, error)
	ListEntries(filter repository.StockFilter, page repository.Page) (*repository.PageResult[model.StockEntry], error)
	ListMovements(filter repository.MovementFilter, page repository.Page) (*repository.PageResult[model.StockMovement], error)
}

type stockService struct {
	db     *gorm.DB
	repo   repository.StockRepository
	events Publisher
	log    *logrus.Logger
	now    func() time.Time
}

func NewStockService(db *gorm.DB, repo repository.StockRepository, events Publisher, log *logrus.Logger) StockService {
	return &stockService{db: db, repo: repo, events: events, log: log, now: time.Now}
}

// Adjust applies one movement atomically. The item row and the stock entry are
// locked for the duration of the transaction, so concurrent outbound
// adjustments of the same entry serialize and can never drive it negative.
func (s *stockService) Adjust(ctx context.Context, req *AdjustRequest, actor *model.User) (*model.StockEntry, error) {
	op := model.OperationType(strings.ToLower(strings.TrimSpace(req.OperationType)))
	if op != model.OpIn && op != model.OpOut {
		return nil, ErrInvalidOperation
	}
	if !req.Quantity.IsPositive() {
		return nil, invalid("quantity", "must be greater than zero")
	}
	if req.ItemKind != model.ItemMaterial && req.ItemKind != model.ItemProduct {
		return nil, invalid("item_kind", "must be 'material' or 'product'")
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	itemID, err := parseID("item_id", req.ItemID)
	if err != nil {
		return nil, err
	}
	date, err := parseDateOr("date", req.Date, s.now())
	if err != nil {
		return nil, err
	}
	location := strings.TrimSpace(req.Location)
	if location == "" {
		location = model.DefaultLocation
	}
	actorName := ""
	if actor != nil {
		actorName = actor.ID.String()
	}

	var (
		entry *model.StockEntry
		item  *repository.LockedItem
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err = s.repo.LockItem(tx, req.ItemKind, itemID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrNoSuchItem
			}
			return fmt.Errorf("lock item: %w", err)
		}

		entry, err = s.repo.LockEntry(tx, req.ItemKind, itemID, location)
		if err != nil && !repository.IsNotFound(err) {
			return fmt.Errorf("lock stock entry: %w", err)
		}
		if entry == nil {
			if op == model.OpOut {
				return ErrNoSuchItem
			}
			entry = &model.StockEntry{ItemKind: req.ItemKind, ItemID: itemID, Location: location}
			entry.CreatedBy = actorName
		}

		before := entry.Quantity
		after := before.Add(req.Quantity)
		if op == model.OpOut {
			if before.LessThan(req.Quantity) {
				return ErrInsufficientStock
			}
			after = before.Sub(req.Quantity)
		}

		entry.Quantity = after
		entry.ItemName = item.Name
		entry.LastMovement = date
		entry.UpdatedBy = actorName
		if err := s.repo.SaveEntry(tx, entry); err != nil {
			return fmt.Errorf("save stock entry: %w", err)
		}

		itemQty := item.Quantity.Add(after.Sub(before))
		if err := s.repo.SetItemQuantity(tx, item, itemQty, actorName); err != nil {
			return fmt.Errorf("update item quantity: %w", err)
		}
		item.Quantity = itemQty

		movement := &model.StockMovement{
			StockEntryID:   entry.ID,
			ItemKind:       req.ItemKind,
			ItemID:         itemID,
			Location:       location,
			OperationType:  op,
			Quantity:       req.Quantity,
			QuantityBefore: before,
			QuantityAfter:  after,
			Date:           date,
			Note:           strings.TrimSpace(req.Note),
		}
		movement.CreatedBy = actorName
		if actor != nil {
			movement.CreatedByUserID = &actor.ID
		}
		if err := s.repo.AddMovement(tx, movement); err != nil {
			return fmt.Errorf("record stock movement: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	username := ""
	if actor != nil {
		username = actor.Username
	}
	s.log.WithFields(logrus.Fields{
		"item_kind": req.ItemKind,
		"item_id":   itemID,
		"location":  location,
		"operation": op,
		"quantity":  req.Quantity.String(),
		"user":      username,
	}).Info("stock adjusted")

	publish(s.events, StockEvent{
		Type:          "stock_update",
		ItemKind:      req.ItemKind,
		ItemID:        itemID.String(),
		ItemName:      item.Name,
		Location:      location,
		OperationType: op,
		Quantity:      req.Quantity,
		NewQuantity:   entry.Quantity,
		User:          username,
		Message:       fmt.Sprintf("%s booked %s %s of '%s' at %s", username, op, req.Quantity.String(), item.Name, location),
	})
	return entry, nil
}

func (s *stockService) ListEntries(filter repository.StockFilter, page repository.Page) (*repository.PageResult[model.StockEntry], error) {
	return s.repo.ListEntries(filter, page)
}

func (s *stockService) ListMovements(filter repository.MovementFilter, page repository.Page) (*repository.PageResult[model.StockMovement], error) {
	return s.repo.ListMovements(filter, page)
}

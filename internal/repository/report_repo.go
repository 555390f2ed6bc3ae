package repository

import (
	"context"
	"time"

	"go-erp-admin/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockMovementData is one day of the stock movement chart.
type StockMovementData struct {
	Date     string          `json:"date"`
	Inbound  decimal.Decimal `json:"inbound"`
	Outbound decimal.Decimal `json:"outbound"`
}

type ReportRepository interface {
	TotalStockQuantity(ctx context.Context) (decimal.Decimal, error)
	TotalPurchaseAmount(ctx context.Context) (decimal.Decimal, error)
	TotalFinance(ctx context.Context, kind model.FinanceType) (decimal.Decimal, error)
	CountMaterials(ctx context.Context) (int64, error)
	CountProducts(ctx context.Context) (int64, error)
	GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

func (r *reportRepo) sum(ctx context.Context, m interface{}, column string, where ...interface{}) (decimal.Decimal, error) {
	var total decimal.Decimal
	q := r.db.WithContext(ctx).Model(m).Select("COALESCE(SUM(" + column + "), 0)")
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	err := q.Row().Scan(&total)
	return total, err
}

func (r *reportRepo) TotalStockQuantity(ctx context.Context) (decimal.Decimal, error) {
	return r.sum(ctx, &model.StockEntry{}, "quantity")
}

func (r *reportRepo) TotalPurchaseAmount(ctx context.Context) (decimal.Decimal, error) {
	return r.sum(ctx, &model.Purchase{}, "total_price")
}

func (r *reportRepo) TotalFinance(ctx context.Context, kind model.FinanceType) (decimal.Decimal, error) {
	return r.sum(ctx, &model.Finance{}, "amount", "transaction_type = ?", kind)
}

func (r *reportRepo) CountMaterials(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Material{}).Count(&n).Error
	return n, err
}

func (r *reportRepo) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error
	return n, err
}

// GetStockMovement buckets movements by day. Days without movement are omitted.
func (r *reportRepo) GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error) {
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).
		Select("date", "operation_type", "quantity").
		Where("date BETWEEN ? AND ?", startDate, endDate).
		Order("date ASC").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}

	results := []StockMovementData{}
	for _, mv := range movements {
		day := time.Time(mv.Date).Format("2006-01-02")
		if n := len(results); n == 0 || results[n-1].Date != day {
			results = append(results, StockMovementData{Date: day})
		}
		last := &results[len(results)-1]
		switch mv.OperationType {
		case model.OpIn:
			last.Inbound = last.Inbound.Add(mv.Quantity)
		case model.OpOut:
			last.Outbound = last.Outbound.Add(mv.Quantity)
		}
	}
	return results, nil
}

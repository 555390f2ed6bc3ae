package service

import (
	"context"
	"fmt"
	"time"

	"go-erp-admin/internal/model"
	"go-erp-admin/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	defaultMovementDays = 7
	maxMovementDays     = 366
)

// Summary is the aggregate business report.
type Summary struct {
	TotalStock          decimal.Decimal `json:"total_stock"`
	TotalPurchaseAmount decimal.Decimal `json:"total_purchase_amount"`
	TotalIncome         decimal.Decimal `json:"total_income"`
	TotalExpenses       decimal.Decimal `json:"total_expenses"`
	NetProfit           decimal.Decimal `json:"net_profit"`
	MaterialCount       int64           `json:"material_count"`
	ProductCount        int64           `json:"product_count"`
}

type ReportService interface {
	Summary(ctx context.Context) (*Summary, error)
	StockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error)
}

type reportService struct {
	repo repository.ReportRepository
	now  func() time.Time
}

func NewReportService(repo repository.ReportRepository) ReportService {
	return &reportService{repo: repo, now: time.Now}
}

func (s *reportService) Summary(ctx context.Context) (*Summary, error) {
	var sum Summary
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		sum.TotalStock, err = s.repo.TotalStockQuantity(ctx)
		return wrap(err, "total stock")
	})
	g.Go(func() (err error) {
		sum.TotalPurchaseAmount, err = s.repo.TotalPurchaseAmount(ctx)
		return wrap(err, "total purchases")
	})
	g.Go(func() (err error) {
		sum.TotalIncome, err = s.repo.TotalFinance(ctx, model.FinanceIncome)
		return wrap(err, "total income")
	})
	g.Go(func() (err error) {
		sum.TotalExpenses, err = s.repo.TotalFinance(ctx, model.FinanceExpense)
		return wrap(err, "total expenses")
	})
	g.Go(func() (err error) {
		sum.MaterialCount, err = s.repo.CountMaterials(ctx)
		return wrap(err, "count materials")
	})
	g.Go(func() (err error) {
		sum.ProductCount, err = s.repo.CountProducts(ctx)
		return wrap(err, "count products")
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	sum.NetProfit = sum.TotalIncome.Sub(sum.TotalExpenses)
	return &sum, nil
}

// StockMovement returns daily inbound/outbound totals for the last days days, today included.
func (s *reportService) StockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error) {
	if days <= 0 {
		days = defaultMovementDays
	}
	if days > maxMovementDays {
		days = maxMovementDays
	}
	y, m, d := s.now().Date()
	endDate := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	startDate := endDate.AddDate(0, 0, -(days - 1))

	data, err := s.repo.GetStockMovement(ctx, startDate, endDate)
	return data, wrap(err, "stock movement")
}

func wrap(err error, what string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", what, err)
}

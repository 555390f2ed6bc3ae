package service

import (
	"fmt"
	"strings"

	"go-erp-admin/internal/model"
	"go-erp-admin/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type FinanceRequest struct {
	Date            string            `json:"date" form:"date" validate:"required"`
	TransactionType model.FinanceType `json:"transaction_type" form:"transaction_type" validate:"required,oneof=income expense"`
	Amount          decimal.Decimal   `json:"amount" form:"amount" validate:"gte=0,scale=2"`
	Description     string            `json:"description" form:"description"`
}

type FinanceService interface {
	Create(req *FinanceRequest, actor string) (*model.Finance, error)
	Update(id uuid.UUID, req *FinanceRequest, actor string) (*model.Finance, error)
	Delete(id uuid.UUID, actor string) error
	Get(id uuid.UUID) (*model.Finance, error)
	List(filter repository.FinanceFilter, page repository.Page) (*repository.PageResult[model.Finance], error)
}

type financeService struct {
	repo repository.FinanceRepository
}

func NewFinanceService(repo repository.FinanceRepository) FinanceService {
	return &financeService{repo: repo}
}

func applyFinance(entry *model.Finance, req *FinanceRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return err
	}
	entry.Date = date
	entry.TransactionType = req.TransactionType
	entry.Amount = req.Amount
	entry.Description = strings.TrimSpace(req.Description)
	return nil
}

func (s *financeService) Create(req *FinanceRequest, actor string) (*model.Finance, error) {
	entry := &model.Finance{}
	if err := applyFinance(entry, req); err != nil {
		return nil, err
	}
	entry.CreatedBy, entry.UpdatedBy = actor, actor
	if err := s.repo.Create(entry); err != nil {
		return nil, fmt.Errorf("create finance entry: %w", err)
	}
	return entry, nil
}

func (s *financeService) Update(id uuid.UUID, req *FinanceRequest, actor string) (*model.Finance, error) {
	entry, err := s.repo.FindByID(id)
	if err != nil {
		return nil, lookup(err, "find finance entry")
	}
	if err := applyFinance(entry, req); err != nil {
		return nil, err
	}
	entry.UpdatedBy = actor
	if err := s.repo.Update(entry); err != nil {
		return nil, fmt.Errorf("update finance entry: %w", err)
	}
	return entry, nil
}

func (s *financeService) Delete(id uuid.UUID, actor string) error {
	return lookup(s.repo.Delete(id, actor), "delete finance entry")
}

func (s *financeService) Get(id uuid.UUID) (*model.Finance, error) {
	entry, err := s.repo.FindByID(id)
	if err != nil {
		return nil, lookup(err, "find finance entry")
	}
	return entry, nil
}

func (s *financeService) List(filter repository.FinanceFilter, page repository.Page) (*repository.PageResult[model.Finance], error) {
	return s.repo.List(filter, page)
}

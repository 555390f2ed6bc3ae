package service

import (
	"strconv"
	"strings"

	"go-erp-admin/internal/model"
	"go-erp-admin/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProcessRequest struct {
	ManufacturingTime decimal.Decimal `json:"manufacturing_time" form:"manufacturing_time" validate:"gte=0,scale=2"`
	GalvanizingCost   decimal.Decimal `json:"galvanizing_cost" form:"galvanizing_cost" validate:"gte=0,scale=2"`
	BaseMaterialCost  decimal.Decimal `json:"base_material_cost" form:"base_material_cost" validate:"gte=0,scale=2"`
}

type FormulaRequest struct {
	Seq         int    `json:"seq" form:"seq" validate:"gte=1"`
	Name        string `json:"name" form:"name" validate:"required,max=100"`
	Formula     string `json:"formula" form:"formula" validate:"required,max=255"`
	Description string `json:"description" form:"description" validate:"max=255"`
}

func (s *productService) GetProcess(productID uuid.UUID) (*model.ProductProcessParameter, error) {
	if _, err := s.repo.FindByID(productID); err != nil {
		return nil, lookup(err, "find product")
	}
	process, err := s.repo.FindProcess(productID)
	if err != nil {
		return nil, lookup(err, "find process parameters")
	}
	return process, nil
}

// SaveProcess sets the product's process parameters, creating them on first use.
func (s *productService) SaveProcess(productID uuid.UUID, req *ProcessRequest, actor string) (*model.ProductProcessParameter, error) {
	if _, err := s.repo.FindByID(productID); err != nil {
		return nil, lookup(err, "find product")
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	process, err := s.repo.FindProcess(productID)
	switch {
	case err == nil:
	case repository.IsNotFound(err):
		process = &model.ProductProcessParameter{ProductID: productID}
		process.CreatedBy = actor
	default:
		return nil, lookup(err, "find process parameters")
	}
	process.ManufacturingTime = req.ManufacturingTime
	process.GalvanizingCost = req.GalvanizingCost
	process.BaseMaterialCost = req.BaseMaterialCost
	process.UpdatedBy = actor

	if err := persist(s.repo.SaveProcess(process), "product_id", "save process parameters"); err != nil {
		return nil, err
	}
	return process, nil
}

func (s *productService) ListFormulas(productID uuid.UUID) ([]model.ProductBudgetFormula, error) {
	if _, err := s.repo.FindByID(productID); err != nil {
		return nil, lookup(err, "find product")
	}
	return s.repo.ListFormulas(productID)
}

func (s *productService) checkFormula(productID uuid.UUID, req *FormulaRequest, currentSeq int) error {
	if err := validate(req); err != nil {
		return err
	}
	if err := formulaRefs(req.Seq, req.Formula); err != nil {
		return err
	}
	if req.Seq == currentSeq {
		return nil
	}
	if _, err := s.repo.FindFormulaBySeq(productID, req.Seq); err == nil {
		return invalid("seq", "already exists")
	} else if !repository.IsNotFound(err) {
		return lookup(err, "check formula number")
	}
	return nil
}

func (s *productService) AddFormula(productID uuid.UUID, req *FormulaRequest, actor string) (*model.ProductBudgetFormula, error) {
	if _, err := s.repo.FindByID(productID); err != nil {
		return nil, lookup(err, "find product")
	}
	if err := s.checkFormula(productID, req, 0); err != nil {
		return nil, err
	}

	formula := &model.ProductBudgetFormula{
		ProductID:   productID,
		Seq:         req.Seq,
		Name:        strings.TrimSpace(req.Name),
		Formula:     strings.TrimSpace(req.Formula),
		Description: strings.TrimSpace(req.Description),
	}
	formula.CreatedBy, formula.UpdatedBy = actor, actor
	if err := persist(s.repo.AddFormula(formula), "seq", "add budget formula"); err != nil {
		return nil, err
	}
	return formula, nil
}

func (s *productService) UpdateFormula(productID, formulaID uuid.UUID, req *FormulaRequest, actor string) (*model.ProductBudgetFormula, error) {
	formula, err := s.repo.FindFormula(productID, formulaID)
	if err != nil {
		return nil, lookup(err, "find budget formula")
	}
	if err := s.checkFormula(productID, req, formula.Seq); err != nil {
		return nil, err
	}

	formula.Seq = req.Seq
	formula.Name = strings.TrimSpace(req.Name)
	formula.Formula = strings.TrimSpace(req.Formula)
	formula.Description = strings.TrimSpace(req.Description)
	formula.UpdatedBy = actor
	if err := persist(s.repo.UpdateFormula(formula), "seq", "update budget formula"); err != nil {
		return nil, err
	}
	return formula, nil
}

func (s *productService) RemoveFormula(productID, formulaID uuid.UUID) error {
	return lookup(s.repo.DeleteFormula(productID, formulaID), "delete budget formula")
}

// formulaRefs rejects unbalanced or empty {…} references, and numbered
// references to the line itself.
func formulaRefs(seq int, formula string) error {
	rest := formula
	for {
		open := strings.IndexAny(rest, "{}")
		if open < 0 {
			return nil
		}
		if rest[open] == '}' {
			return invalid("formula", "unbalanced braces")
		}
		end := strings.IndexAny(rest[open+1:], "{}")
		if end < 0 || rest[open+1+end] == '{' {
			return invalid("formula", "unbalanced braces")
		}
		ref := strings.TrimSpace(rest[open+1 : open+1+end])
		if ref == "" {
			return invalid("formula", "empty reference")
		}
		if n, err := strconv.Atoi(ref); err == nil && (n < 1 || n == seq) {
			return invalid("formula", "line "+ref+" cannot be referenced here")
		}
		rest = rest[open+end+2:]
	}
}

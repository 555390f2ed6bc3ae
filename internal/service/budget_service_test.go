package service

import (
	"testing"

	"go-erp-admin/internal/model"
	"go-erp-admin/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *env) product(t *testing.T, code string) *model.Product {
	t.Helper()
	categories := NewProductCategoryService(repository.NewProductCategoryRepo(e.db))
	cat, err := categories.Create(&CategoryRequest{Name: "Assemblies " + code, Code: "ASM-" + code}, "tester")
	require.NoError(t, err)
	p, err := e.products.Create(&ProductRequest{CategoryID: cat.ID.String(), Name: "Frame " + code, Code: code}, "tester")
	require.NoError(t, err)
	return p
}

func TestProcessParametersAreOnePerProduct(t *testing.T) {
	e := newEnv(t)
	frame := e.product(t, "FR-1")

	_, err := e.products.GetProcess(frame.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	first, err := e.products.SaveProcess(frame.ID, &ProcessRequest{
		ManufacturingTime: dec("2.5"), GalvanizingCost: dec("12.40"), BaseMaterialCost: dec("80"),
	}, "tester")
	require.NoError(t, err)

	second, err := e.products.SaveProcess(frame.ID, &ProcessRequest{
		ManufacturingTime: dec("3"), GalvanizingCost: dec("12.40"), BaseMaterialCost: dec("85.10"),
	}, "editor")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	stored, err := e.products.GetProcess(frame.ID)
	require.NoError(t, err)
	assert.True(t, stored.ManufacturingTime.Equal(dec("3")))
	assert.True(t, stored.BaseMaterialCost.Equal(dec("85.10")))
	assert.Equal(t, "tester", stored.CreatedBy)
	assert.Equal(t, "editor", stored.UpdatedBy)

	var count int64
	require.NoError(t, e.db.Model(&model.ProductProcessParameter{}).Where("product_id = ?", frame.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestProcessParametersRejectBadInput(t *testing.T) {
	e := newEnv(t)
	frame := e.product(t, "FR-1")

	_, err := e.products.SaveProcess(frame.ID, &ProcessRequest{GalvanizingCost: dec("-1")}, "tester")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = e.products.SaveProcess(frame.ID, &ProcessRequest{BaseMaterialCost: dec("1.005")}, "tester")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "base_material_cost", verr.Field)

	_, err = e.products.SaveProcess(uuid.New(), &ProcessRequest{}, "tester")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBudgetFormulaLines(t *testing.T) {
	e := newEnv(t)
	frame := e.product(t, "FR-1")

	add := func(seq int, name, formula string) (*model.ProductBudgetFormula, error) {
		return e.products.AddFormula(frame.ID, &FormulaRequest{Seq: seq, Name: name, Formula: formula}, "tester")
	}
	_, err := add(5, "Total", "{1}+{2}")
	require.NoError(t, err)
	_, err = add(1, "Material cost", "{base material cost}")
	require.NoError(t, err)
	markup, err := add(2, "Extra material", "{1}*0.02")
	require.NoError(t, err)

	_, err = add(2, "Duplicate", "{1}")
	assert.ErrorIs(t, err, ErrValidation)

	formulas, err := e.products.ListFormulas(frame.ID)
	require.NoError(t, err)
	require.Len(t, formulas, 3)
	assert.Equal(t, []int{1, 2, 5}, []int{formulas[0].Seq, formulas[1].Seq, formulas[2].Seq})

	_, err = e.products.UpdateFormula(frame.ID, markup.ID, &FormulaRequest{Seq: 2, Name: "Extra material", Formula: "{1}*0.03"}, "tester")
	require.NoError(t, err)
	_, err = e.products.UpdateFormula(frame.ID, markup.ID, &FormulaRequest{Seq: 5, Name: "Extra material", Formula: "{1}*0.03"}, "tester")
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, e.products.RemoveFormula(frame.ID, markup.ID))
	assert.ErrorIs(t, e.products.RemoveFormula(frame.ID, markup.ID), ErrNotFound)
	_, err = add(2, "Extra material", "{1}*0.02")
	require.NoError(t, err)

	_, err = e.products.ListFormulas(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFormulaReferencesAreChecked(t *testing.T) {
	for _, formula := range []string{"{1", "1}", "{1{2}}", "{}", "{ }", "{3}*2", "{0}+1"} {
		err := formulaRefs(3, formula)
		assert.ErrorIs(t, err, ErrValidation, formula)
	}
	for _, formula := range []string{"{11}*0.02/1.17", "{1}+{2}+{4}", "{galvanizing cost}*1.37", "100"} {
		assert.NoError(t, formulaRefs(3, formula), formula)
	}
}

func TestProductDeleteDropsBudget(t *testing.T) {
	e := newEnv(t)
	frame := e.product(t, "FR-1")

	_, err := e.products.SaveProcess(frame.ID, &ProcessRequest{ManufacturingTime: dec("1")}, "tester")
	require.NoError(t, err)
	_, err = e.products.AddFormula(frame.ID, &FormulaRequest{Seq: 1, Name: "Unit price", Formula: "{manufacturing time}*2"}, "tester")
	require.NoError(t, err)

	require.NoError(t, e.products.Delete(frame.ID, "tester"))

	var processes, formulas int64
	require.NoError(t, e.db.Unscoped().Model(&model.ProductProcessParameter{}).Where("product_id = ?", frame.ID).Count(&processes).Error)
	require.NoError(t, e.db.Unscoped().Model(&model.ProductBudgetFormula{}).Where("product_id = ?", frame.ID).Count(&formulas).Error)
	assert.Zero(t, processes)
	assert.Zero(t, formulas)
}

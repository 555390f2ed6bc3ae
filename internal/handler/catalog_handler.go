package handler

import (
	"go-erp-admin/internal/httpx"
	"go-erp-admin/internal/middleware"
	"go-erp-admin/internal/model"
	"go-erp-admin/internal/repository"
	"go-erp-admin/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func itemFilter(c *fiber.Ctx) repository.ItemFilter {
	filter := repository.ItemFilter{Query: c.Query("q")}
	if id, err := uuid.Parse(c.Query("category_id")); err == nil {
		filter.CategoryID = &id
	}
	return filter
}

type MaterialHandler struct {
	records[model.Material, service.MaterialRequest]
	service service.MaterialService
}

func NewMaterialHandler(s service.MaterialService, log *logrus.Logger) *MaterialHandler {
	return &MaterialHandler{
		records: records[model.Material, service.MaterialRequest]{svc: s, name: "material", log: log},
		service: s,
	}
}

// List handles GET /materials and GET /materials/manage
// Query params: q, category_id, page, per_page
func (h *MaterialHandler) List(c *fiber.Ctx) error {
	res, err := h.service.List(itemFilter(c), httpx.Page(c))
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "", res)
}

type ProductHandler struct {
	records[model.Product, service.ProductRequest]
	service service.ProductService
}

func NewProductHandler(s service.ProductService, log *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		records: records[model.Product, service.ProductRequest]{svc: s, name: "product", log: log},
		service: s,
	}
}

// List handles GET /products and GET /products/manage
func (h *ProductHandler) List(c *fiber.Ctx) error {
	res, err := h.service.List(itemFilter(c), httpx.Page(c))
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "", res)
}

// ListMaterials returns the bill of materials
// GET /products/:id/materials
func (h *ProductHandler) ListMaterials(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return httpx.NotAvailable(c)
	}
	lines, err := h.service.ListMaterials(id)
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "", lines)
}

// AddMaterial adds a bill of materials line
// POST /products/:id/materials
func (h *ProductHandler) AddMaterial(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return httpx.NotAvailable(c)
	}
	var req service.BOMLineRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid request body")
	}
	line, err := h.service.AddMaterial(id, &req, middleware.ActorID(c))
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.Created(c, "material added", line)
}

// RemoveMaterial deletes a bill of materials line
// POST /products/:id/materials/:lineID/delete
func (h *ProductHandler) RemoveMaterial(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	lineID, lineOK := idParam(c, "lineID")
	if !ok || !lineOK {
		return httpx.NotAvailable(c)
	}
	if err := h.service.RemoveMaterial(id, lineID); err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "material removed", nil)
}

// GetProcess returns the product's process parameters
// GET /products/:id/process
func (h *ProductHandler) GetProcess(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return httpx.NotAvailable(c)
	}
	process, err := h.service.GetProcess(id)
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "", process)
}

// SaveProcess sets the product's process parameters
// POST /products/:id/process
func (h *ProductHandler) SaveProcess(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return httpx.NotAvailable(c)
	}
	var req service.ProcessRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid request body")
	}
	process, err := h.service.SaveProcess(id, &req, middleware.ActorID(c))
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "process parameters saved", process)
}

// ListFormulas returns the price budget lines in order
// GET /products/:id/budget_formulas
func (h *ProductHandler) ListFormulas(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return httpx.NotAvailable(c)
	}
	formulas, err := h.service.ListFormulas(id)
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "", formulas)
}

// AddFormula adds a price budget line
// POST /products/:id/budget_formulas
func (h *ProductHandler) AddFormula(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return httpx.NotAvailable(c)
	}
	var req service.FormulaRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid request body")
	}
	formula, err := h.service.AddFormula(id, &req, middleware.ActorID(c))
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.Created(c, "formula added", formula)
}

// UpdateFormula edits a price budget line
// POST /products/:id/budget_formulas/:formulaID
func (h *ProductHandler) UpdateFormula(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	formulaID, formulaOK := idParam(c, "formulaID")
	if !ok || !formulaOK {
		return httpx.NotAvailable(c)
	}
	var req service.FormulaRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid request body")
	}
	formula, err := h.service.UpdateFormula(id, formulaID, &req, middleware.ActorID(c))
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "formula updated", formula)
}

// RemoveFormula deletes a price budget line
// POST /products/:id/budget_formulas/:formulaID/delete
func (h *ProductHandler) RemoveFormula(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	formulaID, formulaOK := idParam(c, "formulaID")
	if !ok || !formulaOK {
		return httpx.NotAvailable(c)
	}
	if err := h.service.RemoveFormula(id, formulaID); err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "formula removed", nil)
}

// CategoryHandler serves either category tree.
type CategoryHandler[T model.Category] struct {
	records[T, service.CategoryRequest]
	service service.CategoryService[T]
}

func NewCategoryHandler[T model.Category](s service.CategoryService[T], log *logrus.Logger) *CategoryHandler[T] {
	return &CategoryHandler[T]{
		records: records[T, service.CategoryRequest]{svc: s, name: "category", log: log},
		service: s,
	}
}

func (h *CategoryHandler[T]) List(c *fiber.Ctx) error {
	res, err := h.service.List(c.Query("q"), httpx.Page(c))
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "", res)
}

package handler

import (
	"go-erp-admin/internal/httpx"
	"go-erp-admin/internal/model"
	"go-erp-admin/internal/repository"
	"go-erp-admin/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type SupplierHandler struct {
	records[model.Supplier, service.SupplierRequest]
	service service.SupplierService
}

func NewSupplierHandler(s service.SupplierService, log *logrus.Logger) *SupplierHandler {
	return &SupplierHandler{
		records: records[model.Supplier, service.SupplierRequest]{svc: s, name: "supplier", log: log},
		service: s,
	}
}

// List handles GET /suppliers?q=
func (h *SupplierHandler) List(c *fiber.Ctx) error {
	res, err := h.service.List(c.Query("q"), httpx.Page(c))
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "", res)
}

type PurchaseHandler struct {
	records[model.Purchase, service.PurchaseRequest]
	service service.PurchaseService
}

func NewPurchaseHandler(s service.PurchaseService, log *logrus.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		records: records[model.Purchase, service.PurchaseRequest]{svc: s, name: "purchase", log: log},
		service: s,
	}
}

// List handles GET /purchase_management
// Query params: q, supplier_id, from, to (YYYY-MM-DD)
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	filter := repository.PurchaseFilter{Query: c.Query("q")}
	if id, err := uuid.Parse(c.Query("supplier_id")); err == nil {
		filter.SupplierID = &id
	}
	var err error
	if filter.From, err = service.ParseDateFilter("from", c.Query("from")); err != nil {
		return httpx.Error(c, h.log, err)
	}
	if filter.To, err = service.ParseDateFilter("to", c.Query("to")); err != nil {
		return httpx.Error(c, h.log, err)
	}
	res, err := h.service.List(filter, httpx.Page(c))
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "", res)
}

type QualityControlHandler struct {
	records[model.QualityControl, service.QualityControlRequest]
	service service.QualityControlService
}

func NewQualityControlHandler(s service.QualityControlService, log *logrus.Logger) *QualityControlHandler {
	return &QualityControlHandler{
		records: records[model.QualityControl, service.QualityControlRequest]{svc: s, name: "quality control", log: log},
		service: s,
	}
}

// List handles GET /quality_control?q=
func (h *QualityControlHandler) List(c *fiber.Ctx) error {
	res, err := h.service.List(c.Query("q"), httpx.Page(c))
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "", res)
}

type FinanceHandler struct {
	records[model.Finance, service.FinanceRequest]
	service service.FinanceService
}

func NewFinanceHandler(s service.FinanceService, log *logrus.Logger) *FinanceHandler {
	return &FinanceHandler{
		records: records[model.Finance, service.FinanceRequest]{svc: s, name: "finance entry", log: log},
		service: s,
	}
}

// List handles GET /finance_management
// Query params: type (income|expense), from, to
func (h *FinanceHandler) List(c *fiber.Ctx) error {
	var filter repository.FinanceFilter
	switch t := model.FinanceType(c.Query("type")); t {
	case model.FinanceIncome, model.FinanceExpense:
		filter.Type = &t
	}
	var err error
	if filter.From, err = service.ParseDateFilter("from", c.Query("from")); err != nil {
		return httpx.Error(c, h.log, err)
	}
	if filter.To, err = service.ParseDateFilter("to", c.Query("to")); err != nil {
		return httpx.Error(c, h.log, err)
	}
	res, err := h.service.List(filter, httpx.Page(c))
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "", res)
}

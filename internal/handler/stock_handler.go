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

type StockHandler struct {
	service service.StockService
	log     *logrus.Logger
}

func NewStockHandler(s service.StockService, log *logrus.Logger) *StockHandler {
	return &StockHandler{service: s, log: log}
}

func itemKindQuery(c *fiber.Ctx) *model.ItemKind {
	switch k := model.ItemKind(c.Query("item_kind")); k {
	case model.ItemMaterial, model.ItemProduct:
		return &k
	}
	return nil
}

// ListEntries returns quantity on hand per item and location
// GET /warehouse_management?item_kind=&item_id=&location=&q=
func (h *StockHandler) ListEntries(c *fiber.Ctx) error {
	filter := repository.StockFilter{
		ItemKind: itemKindQuery(c),
		Location: c.Query("location"),
		Query:    c.Query("q"),
	}
	if id, err := uuid.Parse(c.Query("item_id")); err == nil {
		filter.ItemID = &id
	}
	res, err := h.service.ListEntries(filter, httpx.Page(c))
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "", res)
}

// Adjust books an inbound or outbound movement
// POST /warehouse_management
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var req service.AdjustRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid request body")
	}
	entry, err := h.service.Adjust(c.UserContext(), &req, middleware.CurrentUser(c))
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "stock updated", entry)
}

// ListMovements returns the movement log
// GET /warehouse_management/movements?item_kind=&item_id=&from=&to=
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	filter := repository.MovementFilter{ItemKind: itemKindQuery(c)}
	if id, err := uuid.Parse(c.Query("item_id")); err == nil {
		filter.ItemID = &id
	}
	var err error
	if filter.From, err = service.ParseDateFilter("from", c.Query("from")); err != nil {
		return httpx.Error(c, h.log, err)
	}
	if filter.To, err = service.ParseDateFilter("to", c.Query("to")); err != nil {
		return httpx.Error(c, h.log, err)
	}
	res, err := h.service.ListMovements(filter, httpx.Page(c))
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "", res)
}

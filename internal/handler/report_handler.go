package handler

import (
	"strconv"

	"go-erp-admin/internal/httpx"
	"go-erp-admin/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ReportHandler struct {
	service service.ReportService
	log     *logrus.Logger
}

func NewReportHandler(s service.ReportService, log *logrus.Logger) *ReportHandler {
	return &ReportHandler{service: s, log: log}
}

// Summary returns the aggregate business report
// GET /report
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.UserContext())
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "", summary)
}

// StockMovement returns stock movement data for charts
// Query params: days (default 7)
func (h *ReportHandler) StockMovement(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "7"))
	if err != nil || days <= 0 {
		days = 7
	}

	data, err := h.service.StockMovement(c.UserContext(), days)
	if err != nil {
		return httpx.Error(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

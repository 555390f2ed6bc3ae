package handler

import (
	"go-erp-admin/internal/httpx"
	"go-erp-admin/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// recordService is the write/read surface shared by the CRUD services.
type recordService[T, R any] interface {
	Create(req *R, actor string) (*T, error)
	Update(id uuid.UUID, req *R, actor string) (*T, error)
	Delete(id uuid.UUID, actor string) error
	Get(id uuid.UUID) (*T, error)
}

// records implements Create, Get, Update and Delete for one record family.
type records[T, R any] struct {
	svc  recordService[T, R]
	name string
	log  *logrus.Logger
}

// idParam parses :id. A malformed id is indistinguishable from a missing record.
func idParam(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

func (h records[T, R]) Create(c *fiber.Ctx) error {
	req := new(R)
	if err := c.BodyParser(req); err != nil {
		return httpx.BadRequest(c, "invalid request body")
	}
	out, err := h.svc.Create(req, middleware.ActorID(c))
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.Created(c, h.name+" created", out)
}

func (h records[T, R]) Get(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return httpx.NotAvailable(c)
	}
	out, err := h.svc.Get(id)
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "", out)
}

func (h records[T, R]) Update(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return httpx.NotAvailable(c)
	}
	req := new(R)
	if err := c.BodyParser(req); err != nil {
		return httpx.BadRequest(c, "invalid request body")
	}
	out, err := h.svc.Update(id, req, middleware.ActorID(c))
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, h.name+" updated", out)
}

func (h records[T, R]) Delete(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return httpx.NotAvailable(c)
	}
	if err := h.svc.Delete(id, middleware.ActorID(c)); err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, h.name+" deleted", nil)
}

// Package httpx maps service errors onto HTTP responses.
package httpx

import (
	"errors"
	"strconv"

	"go-erp-admin/internal/authz"
	"go-erp-admin/internal/repository"
	"go-erp-admin/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	msgNotAvailable = "resource not available"
	msgInternal     = "internal server error"
)

// Error writes the response for err. Permission denials and missing records
// share one 404 body. Unexpected errors are logged and answered with a generic 500.
func Error(c *fiber.Ctx, log *logrus.Logger, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, authz.ErrPermissionDenied), errors.Is(err, service.ErrNotFound):
		return NotAvailable(c)
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrInvalidOperation),
		errors.Is(err, service.ErrNoSuchItem):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	log.WithError(err).WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Error("request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgInternal})
}

// NotAvailable is the single answer for both "denied" and "missing".
func NotAvailable(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": msgNotAvailable})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

func OK(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{"message": message, "data": data})
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": message, "data": data})
}

// Page reads the page and per_page query parameters.
func Page(c *fiber.Ctx) repository.Page {
	number, _ := strconv.Atoi(c.Query("page", "1"))
	perPage, _ := strconv.Atoi(c.Query("per_page", strconv.Itoa(repository.DefaultPerPage)))
	return repository.NewPage(number, perPage)
}

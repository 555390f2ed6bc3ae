package handler

import (
	"go-erp-admin/internal/httpx"
	"go-erp-admin/internal/middleware"
	"go-erp-admin/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	userService service.UserService
	log         *logrus.Logger
}

func NewUserHandler(userService service.UserService, log *logrus.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

// CreateUser handles user creation
// POST /users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid request body")
	}

	user, err := h.userService.CreateUser(&req, middleware.CurrentUser(c))
	if err != nil {
		return httpx.Error(c, h.log, err)
	}

	return httpx.Created(c, "user created", user.ToResponse())
}

// ListUsers lists users with their capability flags
// GET /edit_user_permissions
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.userService.ListUsers(httpx.Page(c))
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "", users)
}

// GetPermissions shows one user's capability flags
// GET /edit_user_permissions/:id
func (h *UserHandler) GetPermissions(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return httpx.NotAvailable(c)
	}
	user, err := h.userService.GetUser(id)
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "", user.ToResponse())
}

// EditPermissions updates a user's capabilities and flags
// POST /edit_user_permissions/:id
func (h *UserHandler) EditPermissions(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return httpx.NotAvailable(c)
	}
	var req service.EditPermissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid request body")
	}

	user, err := h.userService.EditPermissions(id, &req, middleware.CurrentUser(c))
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "permissions updated", user.ToResponse())
}

// GetRoles returns all available roles
// GET /roles
func (h *UserHandler) GetRoles(c *fiber.Ctx) error {
	roles, err := h.userService.ListRoles()
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "", roles)
}

// GetPrivileges returns the capability catalogue
// GET /privileges
func (h *UserHandler) GetPrivileges(c *fiber.Ctx) error {
	privileges, err := h.userService.ListPrivileges()
	if err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "", privileges)
}

package handler

import (
	"time"

	"go-erp-admin/internal/httpx"
	"go-erp-admin/internal/middleware"
	"go-erp-admin/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	authService  service.AuthService
	cookieName   string
	secureCookie bool
	log          *logrus.Logger
}

func NewAuthHandler(authService service.AuthService, cookieName string, secureCookie bool, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, cookieName: cookieName, secureCookie: secureCookie, log: log}
}

// Login handles user authentication
// POST /login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid request body")
	}
	req.IP = c.IP()
	req.UserAgent = c.Get(fiber.HeaderUserAgent)

	response, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return httpx.Error(c, h.log, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    response.Token,
		Path:     "/",
		Expires:  response.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return httpx.OK(c, "logged in", response)
}

// Logout destroys the current session
// GET /logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), middleware.SessionID(c)); err != nil {
		return httpx.Error(c, h.log, err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return httpx.OK(c, "logged out", nil)
}

// ResetPassword handles password change
// POST /reset-password
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req service.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid request body")
	}
	if err := h.authService.ResetPassword(c.UserContext(), &req); err != nil {
		return httpx.Error(c, h.log, err)
	}
	return httpx.OK(c, "password updated", nil)
}

// Me returns the current user with their capability flags
// GET /me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return httpx.Error(c, h.log, service.ErrUnauthenticated)
	}
	return httpx.OK(c, "", user.ToResponse())
}

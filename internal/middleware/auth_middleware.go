package middleware

import (
	"strings"

	"go-erp-admin/internal/authz"
	"go-erp-admin/internal/httpx"
	"go-erp-admin/internal/model"
	"go-erp-admin/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	localUser    = "user"
	localSession = "session_id"
)

// TokenFromRequest reads the session token from the cookie or a Bearer header.
func TokenFromRequest(c *fiber.Ctx, cookieName string) string {
	if token := c.Cookies(cookieName); token != "" {
		return token
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// RequireAuth resolves the session token and stores the user for downstream handlers.
func RequireAuth(auth service.AuthService, cookieName string, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, sessionID, err := auth.ResolveSession(c.UserContext(), TokenFromRequest(c, cookieName))
		if err != nil {
			return httpx.Error(c, log, err)
		}
		c.Locals(localUser, user)
		c.Locals(localSession, sessionID)
		return c.Next()
	}
}

// RequireCapability answers 404 unless the current user holds the capability.
func RequireCapability(capability model.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := authz.RequireCapability(CurrentUser(c), capability); err != nil {
			return httpx.NotAvailable(c)
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil outside RequireAuth.
func CurrentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals(localUser).(*model.User)
	return user
}

// ActorID is the audit identity of the current user.
func ActorID(c *fiber.Ctx) string {
	if user := CurrentUser(c); user != nil {
		return user.ID.String()
	}
	return "system"
}

func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(localSession).(string)
	return id
}

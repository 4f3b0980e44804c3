package auth

import (
	"fmt"

	"github.com/CodeBuddy07/accounting-server/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxAdminIDKey = "admin_id"
	CtxEmailKey   = "admin_email"
)

// JWTMiddleware reads the session token from the auth cookie. The client keeps
// no token state of its own; a 401 here is its signal to force a logout.
func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Cookies(cfg.CookieName)
		if tokenStr == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Not logged in")
		}

		token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired session")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid session claims")
		}

		c.Locals(CtxAdminIDKey, claims.AdminID)
		c.Locals(CtxEmailKey, claims.Email)

		return c.Next()
	}
}

// CurrentAdminID returns the admin id stored by the middleware.
func CurrentAdminID(c *fiber.Ctx) (uint, error) {
	id, ok := c.Locals(CtxAdminIDKey).(uint)
	if !ok {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Not logged in")
	}
	return id, nil
}

package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/SundayYogurt/account_service/internal/helper"
)

// AuthMiddleware resolves the bearer credential to an identity. Cookie
// first, Authorization header as fallback. Every failure mode returns
// the same 401 so callers can't probe signature validity.
func AuthMiddleware(auth helper.Auth) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := strings.TrimSpace(ctx.Cookies("token"))

		if tokenStr == "" {
			tokenStr = strings.TrimSpace(ctx.Get("Authorization"))
		}

		claims, err := auth.VerifyToken(tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Unauthorized",
			})
		}

		ctx.Locals("username", claims.Username)
		ctx.Locals("user", claims)
		return ctx.Next()
	}
}

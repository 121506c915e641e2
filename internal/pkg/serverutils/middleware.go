package serverutils

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}
		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}

// AdminKeyMiddleware guards operator routes with a static key in the
// X-Admin-Key header. An empty configured key locks the routes entirely.
func AdminKeyMiddleware(key string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if key == "" {
			return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse(403, "admin access disabled"))
		}
		provided := ctx.Get("X-Admin-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "invalid admin key"))
		}
		return ctx.Next()
	}
}

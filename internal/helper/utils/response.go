package utils

import "github.com/gofiber/fiber/v2"

// Every response carries the {success, message?, token?, user?, users?}
// envelope the frontend expects.

func ResponseError(ctx *fiber.Ctx, status int, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"success": false,
		"message": msg,
	})
}

func ResponseSuccess(ctx *fiber.Ctx, status int, payload fiber.Map) error {
	body := fiber.Map{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	return ctx.Status(status).JSON(body)
}

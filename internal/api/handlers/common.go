package handlers

import (
	"time"

	"ai-insights/pkg/middleware"

	"github.com/gofiber/fiber/v2"
)

func getUsername(c *fiber.Ctx) (string, error) {
	username, ok := c.Locals(middleware.UsernameKey).(string)
	if !ok || username == "" {
		return "", fiber.ErrUnauthorized
	}
	return username, nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
	})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

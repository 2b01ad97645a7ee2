package handlers

import "github.com/gofiber/fiber/v2"

// HandleHealth reports that the process is serving requests.
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

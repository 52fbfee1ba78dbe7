package handlers

import (
	"evmarket/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck reports service liveness.
func HealthCheck(c *fiber.Ctx) error {
	return utils.Success(c, fiber.Map{"status": "ok"})
}

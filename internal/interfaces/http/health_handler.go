package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger comprueba una dependencia (la base de datos).
type Pinger func(ctx context.Context) error

// HealthHandler responde el estado del servicio y de la base de datos.
func HealthHandler(service string, ping Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := fiber.Map{"status": "ok", "service": service, "time": time.Now().UTC()}
		if ping == nil {
			return c.JSON(status)
		}
		if err := ping(c.UserContext()); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
			return c.Status(fiber.StatusServiceUnavailable).JSON(status)
		}
		status["database"] = "ok"
		return c.JSON(status)
	}
}

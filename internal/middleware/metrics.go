package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/yourorg/leaflens/internal/debug"
)

// MetricsMiddleware captura métricas de cada request y las manda al
// dashboard de debugging (si está habilitado)
func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !debug.IsEnabled() {
			return c.Next()
		}

		start := time.Now()

		// Procesar request
		err := c.Next()

		// Calcular duración
		duration := time.Since(start)

		metadata := map[string]interface{}{
			"method":      c.Method(),
			"path":        c.Path(),
			"status":      c.Response().StatusCode(),
			"duration_ms": duration.Milliseconds(),
			"ip":          c.IP(),
		}

		level := "info"
		if c.Response().StatusCode() >= 400 {
			level = "warn"
		}
		if c.Response().StatusCode() >= 500 {
			level = "error"
		}

		message := c.Method() + " " + c.Path()

		debug.SendLog("backend", level, message, metadata)

		return err
	}
}

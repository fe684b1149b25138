package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/yourorg/leaflens/internal/auth"
	"github.com/yourorg/leaflens/internal/models"
)

// RequireAuth exige un bearer token válido y deja el id de usuario en
// c.Locals("userID"). Falla cerrado: sin token válido no se toca nada
// downstream. El secret llega como accessor porque se resuelve en Setup.
func RequireAuth(secret func() []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "No token, authorization denied"})
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "Invalid authorization header"})
		}

		userID, err := auth.ParseUserID(strings.TrimSpace(parts[1]), secret())
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "Not authorized, token failed"})
		}

		c.Locals("userID", userID)
		return c.Next()
	}
}

package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/yourorg/leaflens/internal/diagnosis"
	"github.com/yourorg/leaflens/internal/history"
	"github.com/yourorg/leaflens/internal/models"
)

type DashboardHandler struct {
	store *history.Store
}

func NewDashboardHandler(store *history.Store) *DashboardHandler {
	return &DashboardHandler{store: store}
}

// requireUserID saca el id de usuario que dejó el middleware de auth.
func requireUserID(c *fiber.Ctx) (int64, bool) {
	userID, ok := c.Locals("userID").(int64)
	return userID, ok && userID != 0
}

// GetDashboardSummary obtiene el resumen del historial del usuario
func (h *DashboardHandler) GetDashboardSummary(c *fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Authentication required",
		})
	}

	summary, err := h.store.Summarize(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "User not found",
			})
		}
		log.Printf("❌ Dashboard summary error (user=%d): %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch dashboard summary",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    summary,
	})
}

// GetRecentActivity obtiene el historial completo, el más reciente primero
func (h *DashboardHandler) GetRecentActivity(c *fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Authentication required",
		})
	}

	reports, err := h.store.List(c.UserContext(), userID)
	if err != nil {
		log.Printf("❌ History error (user=%d): %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch history",
		})
	}

	data := make([]models.ReportDTO, 0, len(reports))
	for _, r := range reports {
		data = append(data, diagnosis.ToDTO(r))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// GetDiagnosisDetails obtiene un reporte puntual del historial del usuario
func (h *DashboardHandler) GetDiagnosisDetails(c *fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Authentication required",
		})
	}

	reportID := c.Params("id")
	report, err := h.store.Get(c.UserContext(), userID, reportID)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			// reporte inexistente o de otro usuario: mismo 404
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Report not found",
			})
		}
		log.Printf("❌ Report detail error (user=%d, report=%s): %v", userID, reportID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Error fetching report details",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    diagnosis.ToDTO(*report),
	})
}

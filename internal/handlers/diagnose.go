package handlers

import (
	"errors"
	"io"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/yourorg/leaflens/internal/classifier"
	"github.com/yourorg/leaflens/internal/debug"
	"github.com/yourorg/leaflens/internal/diagnosis"
	"github.com/yourorg/leaflens/internal/models"
	"github.com/yourorg/leaflens/internal/validation"
)

type DiagnoseHandler struct {
	svc *diagnosis.Service
}

func NewDiagnoseHandler(svc *diagnosis.Service) *DiagnoseHandler {
	return &DiagnoseHandler{svc: svc}
}

// Diagnose handles POST /api/diagnose: multipart campo "image" → clasificar
// → tratamiento → historial → respuesta.
func (h *DiagnoseHandler) Diagnose(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "No image uploaded"})
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateImageUpload(contentType, fileHeader.Size); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "Invalid image", Details: err.Error()})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "Invalid image"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil || len(data) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "Invalid image"})
	}

	var userID int64
	if v, ok := c.Locals("userID").(int64); ok {
		userID = v
	}

	start := time.Now()
	log.Printf("📤 Enviando imagen al AI Engine (%d bytes)...", len(data))

	report, err := h.svc.Diagnose(c.UserContext(), diagnosis.Upload{
		Data:        data,
		Filename:    fileHeader.Filename,
		ContentType: contentType,
	}, userID)
	if err != nil {
		if errors.Is(err, classifier.ErrUnavailable) {
			debug.LogWarn("ai engine offline", map[string]interface{}{"error": err.Error()})
			return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
				Error:   "AI Engine Offline",
				Details: "The AI engine is currently waking up. Please try again in 30 seconds.",
			})
		}
		log.Printf("❌ Diagnosis error: %v", err)
		debug.LogError("diagnosis failed", map[string]interface{}{"error": err.Error()})
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error:   "Diagnosis Engine Error",
			Details: err.Error(),
		})
	}

	debug.LogInfo("diagnosis completed", map[string]interface{}{
		"disease":     report.Disease,
		"confidence":  report.Confidence,
		"duration_ms": time.Since(start).Milliseconds(),
		"persisted":   userID != 0,
	})

	return c.JSON(diagnosis.ToResponse(report))
}

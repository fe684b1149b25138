// ============================================================================
// DIAGNOSIS SERVICE - LeafLens
// ============================================================================
// Pipeline completo de diagnóstico: clasificar + explicar + persistir
// Integra: AI Engine (clasificador) + API de generación + historial
// ============================================================================

package diagnosis

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/yourorg/leaflens/internal/classifier"
	"github.com/yourorg/leaflens/internal/genai"
	"github.com/yourorg/leaflens/internal/models"
)

// HistorySink recibe el reporte terminado. Es una capacidad opcional del
// servicio: sin sink configurado el diagnóstico funciona igual, solo no
// queda en el historial.
type HistorySink interface {
	Append(ctx context.Context, report *models.PlantReport) error
}

// Upload es la imagen recibida del cliente.
type Upload struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Service ejecuta el pipeline de diagnóstico de principio a fin.
type Service struct {
	classifier *classifier.Client
	advisor    *genai.Client
	history    HistorySink
}

// NewService crea el servicio de diagnóstico. history puede ser nil.
func NewService(cls *classifier.Client, advisor *genai.Client, history HistorySink) *Service {
	return &Service{
		classifier: cls,
		advisor:    advisor,
		history:    history,
	}
}

// Diagnose corre el pipeline lineal: clasificar la imagen, pedir el plan de
// tratamiento y anexar el reporte al historial del usuario. userID == 0
// significa caller sin autenticar: se responde igual pero no se persiste.
func (s *Service) Diagnose(ctx context.Context, upload Upload, userID int64) (*models.PlantReport, error) {
	// 1. Clasificar
	pred, err := s.classifier.Predict(ctx, upload.Data, upload.Filename, upload.ContentType)
	if err != nil {
		return nil, err
	}
	log.Printf("✅ AI Engine: %s (%.4f)", pred.Disease, pred.Confidence)

	// 2. Explicar
	treatment, err := s.advisor.GenerateTreatment(ctx, pred.Disease, pred.Confidence)
	if err != nil {
		return nil, err
	}

	report := &models.PlantReport{
		ID:         uuid.New().String(),
		UserID:     userID,
		Disease:    pred.Disease,
		Confidence: pred.Confidence,
		Treatment:  treatment,
		CreatedAt:  time.Now().UTC(),
	}

	// 3. Persistir (camino degradado explícito: sin usuario o sin sink se
	// omite; un error de escritura tampoco voltea la respuesta ya calculada)
	switch {
	case s.history == nil:
		log.Printf("⚠️  Historial no configurado; diagnóstico no persistido")
	case userID == 0:
		log.Printf("⚠️  Caller sin autenticar; diagnóstico no persistido")
	default:
		if err := s.history.Append(ctx, report); err != nil {
			log.Printf("❌ Error guardando diagnóstico en historial (user=%d): %v", userID, err)
		} else {
			log.Printf("💾 Diagnóstico guardado para user=%d (report=%s)", userID, report.ID)
		}
	}

	return report, nil
}

// ToResponse arma la respuesta HTTP del diagnóstico.
func ToResponse(r *models.PlantReport) models.DiagnoseResponse {
	return models.DiagnoseResponse{
		Success:    true,
		ID:         r.ID,
		Disease:    NormalizeLabel(r.Disease),
		Confidence: FormatConfidence(r.Confidence),
		Treatment:  r.Treatment,
		CreatedAt:  r.CreatedAt,
	}
}

package diagnosis

import (
	"fmt"
	"strings"

	"github.com/yourorg/leaflens/internal/models"
)

// Los labels del dataset PlantVillage vienen como "Tomato___Early_blight":
// planta y enfermedad separadas por "___", palabras por "_". Se guardan
// crudos y se limpian recién para mostrar.

// NormalizeLabel converts a raw classifier label to display form.
func NormalizeLabel(raw string) string {
	s := strings.ReplaceAll(raw, "___", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}

// Category returns the display-normalized plant portion of a raw label
// (text before the first "___").
func Category(raw string) string {
	prefix, _, _ := strings.Cut(raw, "___")
	return NormalizeLabel(prefix)
}

// IsHealthy reports whether a label describes a healthy plant.
func IsHealthy(raw string) bool {
	return strings.Contains(strings.ToLower(NormalizeLabel(raw)), "healthy")
}

// FormatConfidence renders a fraction in [0,1] as a percentage ("84.52%").
func FormatConfidence(fraction float64) string {
	return fmt.Sprintf("%.2f%%", fraction*100)
}

// ToDTO builds the presentation shape of a stored report.
func ToDTO(r models.PlantReport) models.ReportDTO {
	return models.ReportDTO{
		ID:         r.ID,
		Disease:    NormalizeLabel(r.Disease),
		Confidence: FormatConfidence(r.Confidence),
		Treatment:  r.Treatment,
		CreatedAt:  r.CreatedAt,
	}
}

package history

import (
	"sort"

	"github.com/yourorg/leaflens/internal/diagnosis"
	"github.com/yourorg/leaflens/internal/models"
)

// recentActivityLimit acota la lista de actividad reciente del dashboard.
const recentActivityLimit = 10

// BuildSummary computes the dashboard aggregation over a user's reports.
// Pure function over the slice; the caller decides where the reports come
// from.
func BuildSummary(reports []models.PlantReport) models.DashboardSummary {
	summary := models.DashboardSummary{
		TotalScans:     len(reports),
		Categories:     []string{},
		RecentActivity: []models.ReportDTO{},
	}

	seen := map[string]bool{}
	for _, r := range reports {
		if diagnosis.IsHealthy(r.Disease) {
			summary.Healthy++
		} else {
			summary.NeedsAttention++
		}
		if cat := diagnosis.Category(r.Disease); cat != "" && !seen[cat] {
			seen[cat] = true
			summary.Categories = append(summary.Categories, cat)
		}
	}

	// Más recientes primero; copia para no reordenar el slice del caller
	sorted := make([]models.PlantReport, len(reports))
	copy(sorted, reports)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			// timestamps empatados (misma milésima): desempate por id
			return sorted[i].ID > sorted[j].ID
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > recentActivityLimit {
		sorted = sorted[:recentActivityLimit]
	}
	for _, r := range sorted {
		summary.RecentActivity = append(summary.RecentActivity, diagnosis.ToDTO(r))
	}

	return summary
}

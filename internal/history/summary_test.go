package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/leaflens/internal/models"
)

func report(disease string, createdAt time.Time) models.PlantReport {
	return models.PlantReport{
		ID:         fmt.Sprintf("r-%d", createdAt.UnixNano()),
		UserID:     1,
		Disease:    disease,
		Confidence: 0.9235,
		Treatment:  "plan",
		CreatedAt:  createdAt,
	}
}

func TestBuildSummaryCounts(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reports := []models.PlantReport{
		report("Tomato___Early_blight", base),
		report("Tomato___healthy", base.Add(time.Hour)),
		report("Apple___Apple_scab", base.Add(2*time.Hour)),
		report("Apple___healthy", base.Add(3*time.Hour)),
		report("Tomato___Late_blight", base.Add(4*time.Hour)),
	}

	s := BuildSummary(reports)

	assert.Equal(t, 5, s.TotalScans)
	assert.Equal(t, 2, s.Healthy)
	assert.Equal(t, 3, s.NeedsAttention)
	assert.Equal(t, s.TotalScans, s.Healthy+s.NeedsAttention)
	assert.ElementsMatch(t, []string{"Tomato", "Apple"}, s.Categories)
}

func TestBuildSummaryRecentActivity(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var reports []models.PlantReport
	for i := 0; i < 25; i++ {
		reports = append(reports, report("Grape___Black_rot", base.Add(time.Duration(i)*time.Minute)))
	}

	s := BuildSummary(reports)

	require.Len(t, s.RecentActivity, 10)
	for i := 1; i < len(s.RecentActivity); i++ {
		assert.True(t, s.RecentActivity[i-1].CreatedAt.After(s.RecentActivity[i].CreatedAt),
			"recentActivity must be sorted strictly descending by timestamp")
	}
	// el más nuevo de todos encabeza la lista
	assert.Equal(t, base.Add(24*time.Minute), s.RecentActivity[0].CreatedAt)

	// los DTO salen formateados para mostrar
	assert.Equal(t, "Grape Black rot", s.RecentActivity[0].Disease)
	assert.Equal(t, "92.35%", s.RecentActivity[0].Confidence)
}

func TestBuildSummaryTiedTimestamps(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := report("Tomato___Early_blight", base)
	a.ID = "aaa"
	b := report("Tomato___Late_blight", base)
	b.ID = "bbb"

	// el orden del resultado no depende del orden de entrada
	first := BuildSummary([]models.PlantReport{a, b})
	second := BuildSummary([]models.PlantReport{b, a})

	require.Len(t, first.RecentActivity, 2)
	assert.Equal(t, "bbb", first.RecentActivity[0].ID)
	assert.Equal(t, first.RecentActivity, second.RecentActivity)
}

func TestBuildSummarySmallHistory(t *testing.T) {
	base := time.Now()
	s := BuildSummary([]models.PlantReport{report("Corn___Common_rust", base)})
	assert.Len(t, s.RecentActivity, 1)

	empty := BuildSummary(nil)
	assert.Equal(t, 0, empty.TotalScans)
	assert.NotNil(t, empty.Categories)
	assert.NotNil(t, empty.RecentActivity)
}

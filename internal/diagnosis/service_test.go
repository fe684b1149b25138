package diagnosis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/leaflens/internal/classifier"
	"github.com/yourorg/leaflens/internal/genai"
	"github.com/yourorg/leaflens/internal/models"
)

type memorySink struct {
	reports []*models.PlantReport
	fail    bool
}

func (m *memorySink) Append(ctx context.Context, report *models.PlantReport) error {
	if m.fail {
		return errors.New("db down")
	}
	m.reports = append(m.reports, report)
	return nil
}

// fakeEngines levanta un clasificador y una API de generación falsos y
// retorna los clientes apuntando a ellos.
func fakeEngines(t *testing.T, disease string, confidence float64) (*classifier.Client, *genai.Client) {
	t.Helper()

	engine := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(classifier.Prediction{Disease: disease, Confidence: confidence})
	}))
	t.Cleanup(engine.Close)

	gen := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": "1. Remove affected leaves..."}},
				}},
			},
		})
	}))
	t.Cleanup(gen.Close)

	os.Setenv("AI_ENGINE_URL", engine.URL)
	os.Setenv("GEMINI_BASE_URL", gen.URL)
	t.Cleanup(func() {
		os.Unsetenv("AI_ENGINE_URL")
		os.Unsetenv("GEMINI_BASE_URL")
	})

	return classifier.NewClient(), genai.NewClient()
}

func TestDiagnosePersistsReport(t *testing.T) {
	cls, advisor := fakeEngines(t, "Tomato___Early_blight", 0.8452)
	sink := &memorySink{}
	svc := NewService(cls, advisor, sink)

	report, err := svc.Diagnose(context.Background(), Upload{Data: []byte{1, 2, 3}, Filename: "leaf.jpg", ContentType: "image/jpeg"}, 42)
	require.NoError(t, err)

	// el reporte guarda los valores crudos
	assert.Equal(t, "Tomato___Early_blight", report.Disease)
	assert.InDelta(t, 0.8452, report.Confidence, 1e-9)
	assert.Equal(t, "1. Remove affected leaves...", report.Treatment)
	assert.NotEmpty(t, report.ID)
	assert.EqualValues(t, 42, report.UserID)

	require.Len(t, sink.reports, 1)
	assert.Equal(t, report, sink.reports[0])

	// la respuesta va normalizada y formateada
	resp := ToResponse(report)
	assert.True(t, resp.Success)
	assert.Equal(t, "Tomato Early blight", resp.Disease)
	assert.Equal(t, "84.52%", resp.Confidence)
	assert.NotEmpty(t, resp.Treatment)
}

func TestDiagnoseUnauthenticatedSkipsHistory(t *testing.T) {
	cls, advisor := fakeEngines(t, "Apple___healthy", 0.99)
	sink := &memorySink{}
	svc := NewService(cls, advisor, sink)

	report, err := svc.Diagnose(context.Background(), Upload{Data: []byte{1}}, 0)
	require.NoError(t, err)
	assert.Equal(t, "Apple___healthy", report.Disease)
	assert.Empty(t, sink.reports, "unauthenticated diagnosis must not be persisted")
}

func TestDiagnoseSinkFailureStillResponds(t *testing.T) {
	cls, advisor := fakeEngines(t, "Potato___Late_blight", 0.7)
	svc := NewService(cls, advisor, &memorySink{fail: true})

	report, err := svc.Diagnose(context.Background(), Upload{Data: []byte{1}}, 7)
	require.NoError(t, err, "persistence failure must not surface to the caller")
	assert.Equal(t, "Potato___Late_blight", report.Disease)
}

func TestDiagnoseClassifierDown(t *testing.T) {
	engine := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	engine.Close()

	os.Setenv("AI_ENGINE_URL", engine.URL)
	defer os.Unsetenv("AI_ENGINE_URL")

	svc := NewService(classifier.NewClient(), genai.NewClient(), nil)
	_, err := svc.Diagnose(context.Background(), Upload{Data: []byte{1}}, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, classifier.ErrUnavailable)
}

package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

func TestPredict(t *testing.T) {
	var gotField, gotFilename string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/predict", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotField = "file"
		gotFilename = header.Filename

		json.NewEncoder(w).Encode(Prediction{Disease: "Tomato___Early_blight", Confidence: 0.8452})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	pred, err := client.Predict(context.Background(), []byte{0xff, 0xd8, 0xff}, "leaf.jpg", "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "Tomato___Early_blight", pred.Disease)
	assert.InDelta(t, 0.8452, pred.Confidence, 1e-9)
	assert.Equal(t, "file", gotField)
	assert.Equal(t, "leaf.jpg", gotFilename)
}

func TestPredictEngineDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // puerto cerrado: simula engine apagado

	client := newTestClient(srv.URL)
	_, err := client.Predict(context.Background(), []byte{1}, "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestPredictEngineError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"model crashed"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Predict(context.Background(), []byte{1}, "", "")
	require.Error(t, err)
	// un 500 del engine no es "unavailable": el proceso respondió
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "model crashed")
}

func TestPredictEmptyLabel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Prediction{})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Predict(context.Background(), []byte{1}, "", "")
	require.Error(t, err)
}

func TestHealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	require.NoError(t, client.HealthCheck())

	srv.Close()
	require.Error(t, client.HealthCheck())
}

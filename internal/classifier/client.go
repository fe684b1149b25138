// ============================================================================
// Classifier Client - LeafLens
// ============================================================================
// Cliente HTTP para el AI Engine (FastAPI) que clasifica la foto de la hoja.
// El engine corre aparte (Render free tier), puede tardar en despertar, por
// eso el timeout generoso. Un solo intento, sin retry.
// ============================================================================

package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"time"
)

// ErrUnavailable indica que el engine no respondió (apagado o despertando).
// El handler lo traduce a 503.
var ErrUnavailable = errors.New("ai engine unavailable")

// Prediction is the classifier's verdict for one image.
type Prediction struct {
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"`
}

// Client llama al AI Engine vía HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient crea un cliente del AI Engine usando AI_ENGINE_URL.
func NewClient() *Client {
	baseURL := os.Getenv("AI_ENGINE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000" // Default local
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			// Timeout extendido: cargar el modelo Keras en frío toma ~30s
			Timeout: 40 * time.Second,
		},
	}
}

// Predict envía los bytes de la imagen como multipart y retorna el label
// crudo con su confianza (fracción en [0,1]).
func (c *Client) Predict(ctx context.Context, image []byte, filename, contentType string) (*Prediction, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if filename == "" {
		filename = "leaf.jpg"
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("error building multipart body: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("error writing image bytes: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("error closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", &body)
	if err != nil {
		return nil, fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Conexión rechazada o timeout: el engine está apagado o despertando
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ai engine error %d: %s", resp.StatusCode, string(respBody))
	}

	var pred Prediction
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return nil, fmt.Errorf("error decoding prediction: %w", err)
	}
	if pred.Disease == "" {
		return nil, fmt.Errorf("ai engine returned empty disease label")
	}

	return &pred, nil
}

// HealthCheck verifica si el AI Engine está disponible.
func (c *Client) HealthCheck() error {
	resp, err := c.httpClient.Get(c.baseURL + "/")
	if err != nil {
		return fmt.Errorf("ai engine no disponible: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ai engine health check failed: %d", resp.StatusCode)
	}

	return nil
}

// ============================================================================
// Generation Client - LeafLens
// ============================================================================
// Cliente para la API de generación de texto (Gemini generateContent).
// Convierte el label del clasificador en un plan de tratamiento legible.
// ============================================================================

package genai

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultModel = "gemini-1.5-flash"

// Client llama a la API de generación vía REST.
type Client struct {
	rest   *resty.Client
	apiKey string
	model  string
}

// NewClient crea un cliente de generación usando GEMINI_API_KEY,
// GEMINI_MODEL y GEMINI_BASE_URL.
func NewClient() *Client {
	baseURL := os.Getenv("GEMINI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultModel
	}

	rest := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(30 * time.Second)

	return &Client{
		rest:   rest,
		apiKey: os.Getenv("GEMINI_API_KEY"),
		model:  model,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// BuildTreatmentPrompt arma el prompt de patólogo vegetal para un label dado.
func BuildTreatmentPrompt(disease string, confidence float64) string {
	return fmt.Sprintf(`You are an expert plant pathologist.
A plant has been diagnosed with %q.
The detection confidence is %.2f%%.

Provide a professional but easy-to-understand response for a home gardener:
1. A brief explanation of what %q is.
2. A 3-step organic treatment plan.
3. One prevention tip to avoid this in the future.

Format the response with clear headings and bullet points.`, disease, confidence*100, disease)
}

// GenerateTreatment pide a la API el texto de tratamiento para el label.
// Un solo intento, sin retry.
func (c *Client) GenerateTreatment(ctx context.Context, disease string, confidence float64) (string, error) {
	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: BuildTreatmentPrompt(disease, confidence)}}}},
	}

	var out generateResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(body).
		SetResult(&out).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", c.model))
	if err != nil {
		return "", fmt.Errorf("error calling generation api: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("generation api error %d: %s", resp.StatusCode(), resp.String())
	}

	var sb strings.Builder
	for _, cand := range out.Candidates {
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		break // solo el primer candidato
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("generation api returned no candidates")
	}

	return text, nil
}

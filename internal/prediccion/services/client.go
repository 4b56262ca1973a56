package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/c14220110/hospital-backend/internal/prediccion/models"
)

// ExplanationPlaceholder is returned whenever no explanation could be produced.
const ExplanationPlaceholder = "No se pudo generar una explicación en este momento."

var ErrPredictionUnavailable = errors.New("prediction service unavailable")

// Client talks to the readmission model service and, optionally, to a text service that
// explains the result.
type Client struct {
	HTTP              *http.Client
	PredictionURL     string
	ExplanationURL    string
	ExplanationAPIKey string
}

func NewClient(predictionURL, explanationURL, explanationAPIKey string, timeout time.Duration) *Client {
	return &Client{
		HTTP:              &http.Client{Timeout: timeout},
		PredictionURL:     predictionURL,
		ExplanationURL:    explanationURL,
		ExplanationAPIKey: explanationAPIKey,
	}
}

func (c *Client) postJSON(ctx context.Context, url string, body, out any, header http.Header) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("non-2xx response %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Predict posts the features to the model service. Any transport, status or decoding problem
// is reported as ErrPredictionUnavailable.
func (c *Client) Predict(ctx context.Context, f models.Features) (models.Prediccion, error) {
	var p models.Prediccion
	if c.PredictionURL == "" {
		return p, fmt.Errorf("%w: PREDICTION_URL not configured", ErrPredictionUnavailable)
	}
	if err := c.postJSON(ctx, c.PredictionURL, f, &p, nil); err != nil {
		return p, fmt.Errorf("%w: %v", ErrPredictionUnavailable, err)
	}
	return p, nil
}

// Explain asks the text service for a short narrative of the prediction. It never fails: any
// problem, including an unconfigured service, yields ExplanationPlaceholder and the error for
// logging.
func (c *Client) Explain(ctx context.Context, f models.Features, p models.Prediccion) (string, error) {
	if c.ExplanationURL == "" {
		return ExplanationPlaceholder, nil
	}
	var header http.Header
	if c.ExplanationAPIKey != "" {
		header = http.Header{"Authorization": []string{"Bearer " + c.ExplanationAPIKey}}
	}
	var out struct {
		Texto string `json:"texto"`
	}
	if err := c.postJSON(ctx, c.ExplanationURL, map[string]string{"prompt": BuildPrompt(f, p)}, &out, header); err != nil {
		return ExplanationPlaceholder, err
	}
	if strings.TrimSpace(out.Texto) == "" {
		return ExplanationPlaceholder, errors.New("empty explanation")
	}
	return strings.TrimSpace(out.Texto), nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// BuildPrompt renders the features and the model answer into the explanation request.
func BuildPrompt(f models.Features, p models.Prediccion) string {
	riesgo := "bajo riesgo"
	if p.Prediccion == 1 {
		riesgo = "alto riesgo"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Un modelo predictivo clasificó a un paciente con %s de reingreso hospitalario en los próximos 30 días ", riesgo)
	fmt.Fprintf(&b, "(probabilidad %.1f%%).\n", p.Probabilidad*100)
	b.WriteString("Datos del paciente:\n")
	fmt.Fprintf(&b, "- Edad: %.0f años\n", deref(f.Edad))
	fmt.Fprintf(&b, "- Género: %s\n", deref(f.Genero))
	fmt.Fprintf(&b, "- Enfermedad principal: %s\n", deref(f.Enfermedad))
	fmt.Fprintf(&b, "- Días desde la última atención: %.0f\n", deref(f.TiempoUltimaAtencionDias))
	fmt.Fprintf(&b, "- Visitas en los últimos 30 días: %.0f\n", deref(f.VisitasUltimos30Dias))
	fmt.Fprintf(&b, "- Visitas en los últimos 6 meses: %.0f\n", deref(f.VisitasUltimos6Meses))
	fmt.Fprintf(&b, "- Hospitalizaciones en el último año: %.0f\n", deref(f.HospitalizacionesUltimoAnio))
	b.WriteString("Explica en un párrafo breve, para personal médico, qué factores pueden explicar este resultado.")
	return b.String()
}

package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/ports"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
)

// Verificar en tiempo de compilación que GeminiExtractor implementa InvoiceExtractor.
var _ ports.InvoiceExtractor = (*GeminiExtractor)(nil)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiConfig parámetros del adaptador. BaseURL vacío usa la API pública.
type GeminiConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	Timeout   time.Duration
	OwnTaxIDs []string
}

// GeminiExtractor lee comprobantes (PDF o imagen) con la API REST de Google Gemini.
// Gemini acepta el PDF como inline_data, sin rasterizar.
type GeminiExtractor struct {
	cfg        GeminiConfig
	httpClient *http.Client
	log        zerolog.Logger
}

// NewGeminiExtractor construye el adaptador. Si APIKey está vacío las llamadas fallan sin salir a la red.
func NewGeminiExtractor(cfg GeminiConfig, log zerolog.Logger) *GeminiExtractor {
	if cfg.BaseURL == "" {
		cfg.BaseURL = geminiBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	return &GeminiExtractor{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// ── Estructuras internas para la API de Gemini ──────────────────────

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig genConfig       `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

type genConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"`
	Temperature      float32 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ── Implementación del puerto ───────────────────────────────────────

// Extract envía el documento con el prompt de extracción.
func (g *GeminiExtractor) Extract(ctx context.Context, doc ports.Document) (*entity.InvoiceExtraction, error) {
	part, err := documentPart(doc)
	if err != nil {
		return nil, err
	}
	raw, err := g.generate(ctx, part, geminiPart{Text: extractionPrompt(g.cfg.OwnTaxIDs)})
	if err != nil {
		return nil, err
	}
	return parseExtraction(raw)
}

// Reconcile envía factura + líneas de la OC con el prompt de conciliación.
func (g *GeminiExtractor) Reconcile(ctx context.Context, doc ports.Document, items []entity.PurchaseOrderItem) (*entity.ReconciliationReport, error) {
	part, err := documentPart(doc)
	if err != nil {
		return nil, err
	}
	orderJSON, err := orderItemsJSON(items)
	if err != nil {
		return nil, err
	}
	raw, err := g.generate(ctx,
		geminiPart{Text: invoiceDocumentLabel},
		part,
		geminiPart{Text: orderDocumentLabel + orderJSON},
		geminiPart{Text: reconciliationPrompt},
	)
	if err != nil {
		return nil, err
	}
	return parseReconciliation(raw)
}

func (g *GeminiExtractor) generate(ctx context.Context, parts ...geminiPart) (string, error) {
	if g.cfg.APIKey == "" {
		return "", fmt.Errorf("AI: GEMINI_API_KEY no configurado")
	}

	payload := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: parts}},
		GenerationConfig: genConfig{
			ResponseMIMEType: "application/json",
			Temperature:      0.1,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", strings.TrimRight(g.cfg.BaseURL, "/"), g.cfg.Model, g.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("AI: leer respuesta: %w", err)
	}
	g.log.Debug().Str("model", g.cfg.Model).Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).Msg("respuesta de Gemini")

	if resp.StatusCode != http.StatusOK {
		var errResp geminiResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return "", fmt.Errorf("AI: Gemini error %d: %s", errResp.Error.Code, errResp.Error.Message)
		}
		return "", fmt.Errorf("AI: Gemini HTTP %d", resp.StatusCode)
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(rawBody, &gemResp); err != nil {
		return "", fmt.Errorf("AI: deserializar respuesta Gemini: %w", err)
	}
	if len(gemResp.Candidates) == 0 || len(gemResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("AI: Gemini devolvió respuesta vacía")
	}
	var sb strings.Builder
	for _, p := range gemResp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

// documentPart adjunta el documento como inline_data.
func documentPart(doc ports.Document) (geminiPart, error) {
	if len(doc.Data) == 0 {
		return geminiPart{}, fmt.Errorf("AI: documento %q vacío", doc.Name)
	}
	mime := doc.MIMEType
	switch {
	case doc.IsPDF():
		mime = "application/pdf"
	case mime == "":
		mime = http.DetectContentType(doc.Data)
	}
	if mime != "application/pdf" && !strings.HasPrefix(mime, "image/") {
		return geminiPart{}, fmt.Errorf("AI: tipo de archivo no soportado %q", mime)
	}
	return geminiPart{InlineData: &inlineData{
		MIMEType: mime,
		Data:     base64.StdEncoding.EncodeToString(doc.Data),
	}}, nil
}

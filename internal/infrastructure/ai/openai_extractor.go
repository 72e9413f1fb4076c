package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/ports"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
)

var _ ports.InvoiceExtractor = (*OpenAIExtractor)(nil)

// ErrPDFUnsupported la API de chat de OpenAI sólo acepta imágenes.
var ErrPDFUnsupported = errors.New("AI: el proveedor openai no acepta PDF, envíe una imagen o use gemini")

const systemMessage = "Sos un experto en comprobantes fiscales argentinos (AFIP). Leés CUIT, números y montos con exactitud. Respondés siempre con JSON válido."

// OpenAIConfig parámetros del adaptador. BaseURL vacío usa la API pública.
type OpenAIConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	Timeout   time.Duration
	OwnTaxIDs []string
}

// OpenAIExtractor lee imágenes de comprobantes con visión de OpenAI (go-openai).
type OpenAIExtractor struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	own     []string
	log     zerolog.Logger
}

// NewOpenAIExtractor construye el adaptador.
func NewOpenAIExtractor(cfg OpenAIConfig, log zerolog.Logger) *OpenAIExtractor {
	cc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		cc.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	cc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &OpenAIExtractor{
		client:  openai.NewClientWithConfig(cc),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		own:     cfg.OwnTaxIDs,
		log:     log,
	}
}

// Extract envía la imagen con el prompt de extracción.
func (o *OpenAIExtractor) Extract(ctx context.Context, doc ports.Document) (*entity.InvoiceExtraction, error) {
	img, err := imagePart(doc)
	if err != nil {
		return nil, err
	}
	raw, err := o.complete(ctx, []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: extractionPrompt(o.own)},
		img,
	})
	if err != nil {
		return nil, err
	}
	return parseExtraction(raw)
}

// Reconcile envía la imagen y las líneas de la OC con el prompt de conciliación.
func (o *OpenAIExtractor) Reconcile(ctx context.Context, doc ports.Document, items []entity.PurchaseOrderItem) (*entity.ReconciliationReport, error) {
	img, err := imagePart(doc)
	if err != nil {
		return nil, err
	}
	orderJSON, err := orderItemsJSON(items)
	if err != nil {
		return nil, err
	}
	raw, err := o.complete(ctx, []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: invoiceDocumentLabel},
		img,
		{Type: openai.ChatMessagePartTypeText, Text: orderDocumentLabel + orderJSON},
		{Type: openai.ChatMessagePartTypeText, Text: reconciliationPrompt},
	})
	if err != nil {
		return nil, err
	}
	return parseReconciliation(raw)
}

func (o *OpenAIExtractor) complete(ctx context.Context, parts []openai.ChatMessagePart) (string, error) {
	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		MaxTokens:   4096,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("AI: OpenAI devolvió respuesta vacía")
	}
	o.log.Debug().Str("model", o.model).Int("tokens", resp.Usage.TotalTokens).
		Dur("elapsed", time.Since(start)).Msg("respuesta de OpenAI")
	return resp.Choices[0].Message.Content, nil
}

// imagePart adjunta la imagen como data URL.
func imagePart(doc ports.Document) (openai.ChatMessagePart, error) {
	if len(doc.Data) == 0 {
		return openai.ChatMessagePart{}, fmt.Errorf("AI: documento %q vacío", doc.Name)
	}
	if doc.IsPDF() {
		return openai.ChatMessagePart{}, ErrPDFUnsupported
	}
	mime := doc.MIMEType
	if mime == "" {
		mime = http.DetectContentType(doc.Data)
	}
	if !strings.HasPrefix(mime, "image/") {
		return openai.ChatMessagePart{}, fmt.Errorf("AI: tipo de archivo no soportado %q", mime)
	}
	return openai.ChatMessagePart{
		Type: openai.ChatMessagePartTypeImageURL,
		ImageURL: &openai.ChatMessageImageURL{
			URL:    "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(doc.Data),
			Detail: openai.ImageURLDetailHigh,
		},
	}, nil
}

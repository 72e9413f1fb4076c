package http

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/dto"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/ingestion"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/ports"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain"
)

// InvoiceHandler maneja la carga de comprobantes de proveedores (protegido).
type InvoiceHandler struct {
	pipeline *ingestion.Pipeline
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(p *ingestion.Pipeline) *InvoiceHandler {
	return &InvoiceHandler{pipeline: p}
}

// Extract godoc
// @Summary      Extraer datos de un comprobante
// @Description  Lee el PDF o la imagen con el modelo de visión y valida la identidad del emisor. No persiste.
// @Tags         invoices
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "PDF o imagen del comprobante"
// @Success      200   {object}  dto.ExtractResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/invoices/extract [post]
func (h *InvoiceHandler) Extract(c *fiber.Ctx) error {
	doc, err := documentFrom(c)
	if err != nil {
		return writeError(c, err)
	}
	inv, err := h.pipeline.ExtractAndValidate(c.Context(), doc)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ExtractResponse{Success: true, Data: inv})
}

// Process extrae e integra el comprobante en el ERP.
// POST /api/invoices/process
func (h *InvoiceHandler) Process(c *fiber.Ctx) error {
	doc, err := documentFrom(c)
	if err != nil {
		return writeError(c, err)
	}
	Logger(c).Info().Str("user_id", GetUserID(c)).Str("file", doc.Name).Msg("procesar comprobante")

	out := h.pipeline.ProcessDocument(c.Context(), doc)
	if !out.Success {
		status, code := statusFor(out.Err)
		Logger(c).Warn().Err(out.Err).Str("code", code).Msg("comprobante no integrado")
		return c.Status(status).JSON(out)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Reconcile concilia el comprobante contra una OC (campo order_number) o la impresa en él.
// POST /api/invoices/reconcile
func (h *InvoiceHandler) Reconcile(c *fiber.Ctx) error {
	doc, err := documentFrom(c)
	if err != nil {
		return writeError(c, err)
	}
	var req dto.ReconcileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.pipeline.ReconcileOrder(c.Context(), doc, req.OrderNumber)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// documentFrom lee el archivo del campo multipart "file".
func documentFrom(c *fiber.Ctx) (ports.Document, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return ports.Document{}, fmt.Errorf("%w: campo multipart 'file' requerido", domain.ErrInvalidInput)
	}
	f, err := fh.Open()
	if err != nil {
		return ports.Document{}, fmt.Errorf("abrir archivo subido: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return ports.Document{}, fmt.Errorf("leer archivo subido: %w", err)
	}
	if len(data) == 0 {
		return ports.Document{}, fmt.Errorf("%w: archivo %q vacío", domain.ErrInvalidInput, fh.Filename)
	}
	mime := fh.Header.Get("Content-Type")
	if mime == "application/octet-stream" {
		mime = ""
	}
	return ports.Document{Name: fh.Filename, MIMEType: mime, Data: data}, nil
}

package ports

import (
	"bytes"
	"context"
	"strings"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
)

// Document archivo recibido (PDF o imagen).
type Document struct {
	Name     string
	MIMEType string // application/pdf, image/png, image/jpeg
	Data     []byte
}

// IsPDF por tipo declarado, extensión o firma %PDF-.
func (d Document) IsPDF() bool {
	return d.MIMEType == "application/pdf" ||
		strings.HasSuffix(strings.ToLower(d.Name), ".pdf") ||
		bytes.HasPrefix(d.Data, []byte("%PDF-"))
}

// InvoiceExtractor puerto de salida hacia el modelo de visión.
// Cualquier adaptador (Gemini, OpenAI, mock) debe implementar esta interfaz.
// El contexto debe llevar un timeout: son llamadas externas lentas.
type InvoiceExtractor interface {
	// Extract devuelve el comprobante estructurado. El resultado no está validado contra el maestro.
	Extract(ctx context.Context, doc Document) (*entity.InvoiceExtraction, error)

	// Reconcile compara el comprobante con las líneas de la OC.
	Reconcile(ctx context.Context, doc Document, orderItems []entity.PurchaseOrderItem) (*entity.ReconciliationReport, error)
}

package entity

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ExtractedSupplier identidad del emisor tal como la leyó el extractor.
// SystemCode se completa cuando la identidad se recupera desde el maestro.
type ExtractedSupplier struct {
	Name       string `json:"nombre"`
	TaxID      string `json:"cuit"`
	SystemCode string `json:"codigo_sistema,omitempty"`
}

// InvoiceTotals importes de cabecera.
type InvoiceTotals struct {
	Total    decimal.Decimal `json:"importe_total"`
	NetTaxed decimal.Decimal `json:"importe_neto_gravado"`
	Tax      decimal.Decimal `json:"importe_iva"`
	NonTaxed decimal.Decimal `json:"importe_no_gravado"`
	Exempt   decimal.Decimal `json:"importe_exento"`
}

// LinkedOrder número de OC impreso en el comprobante, si lo hay.
type LinkedOrder struct {
	Number          string `json:"numero,omitempty"`
	FoundInDocument bool   `json:"encontrada_en_factura"`
}

// InvoiceHeader cabecera del comprobante extraído.
type InvoiceHeader struct {
	Supplier      ExtractedSupplier `json:"proveedor"`
	DocumentType  string            `json:"tipo_comprobante"` // "FACTURA A", "NOTA DE CREDITO B", ...
	EmissionPoint string            `json:"punto_emision"`
	Number        string            `json:"numero_comprobante"`
	EmissionDate  string            `json:"fecha_emision"`
	DueDate       string            `json:"fecha_vencimiento,omitempty"`
	Currency      string            `json:"moneda"`
	ExchangeRate  decimal.Decimal   `json:"cotizacion"`
	Totals        InvoiceTotals     `json:"totales"`
	LinkedOrder   LinkedOrder       `json:"orden_compra_vinculada"`
	Observations  string            `json:"observaciones,omitempty"`
}

// InvoiceItem línea facturada.
type InvoiceItem struct {
	Line        int             `json:"linea"`
	Description string          `json:"descripcion"`
	Quantity    decimal.Decimal `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"precio_unitario"`
	TaxRate     decimal.Decimal `json:"alicuota_iva"`
	NetAmount   decimal.Decimal `json:"importe_neto"`
	TaxAmount   decimal.Decimal `json:"importe_iva"`
	LineTotal   decimal.Decimal `json:"total_linea"`
}

// InvoiceTax percepción o retención informada en el comprobante.
type InvoiceTax struct {
	Type   string          `json:"tipo"`
	Amount decimal.Decimal `json:"monto"`
}

// InvoiceExtraction comprobante completo producido por el extractor.
type InvoiceExtraction struct {
	Header InvoiceHeader `json:"cabecera"`
	Items  []InvoiceItem `json:"items"`
	Taxes  []InvoiceTax  `json:"impuestos"`
}

// Validate controla lo mínimo para intentar la integración.
func (e *InvoiceExtraction) Validate() error {
	var errs []error
	if strings.TrimSpace(e.Header.Number) == "" {
		errs = append(errs, errors.New("número de comprobante vacío"))
	}
	if strings.TrimSpace(e.Header.Supplier.Name) == "" && strings.TrimSpace(e.Header.Supplier.TaxID) == "" {
		errs = append(errs, errors.New("proveedor sin nombre ni CUIT"))
	}
	if e.Header.Totals.Total.IsNegative() {
		errs = append(errs, errors.New("importe total negativo"))
	}
	return errors.Join(errs...)
}

// PostableTaxes devuelve los impuestos con monto positivo.
func (e *InvoiceExtraction) PostableTaxes() []InvoiceTax {
	var out []InvoiceTax
	for _, t := range e.Taxes {
		if t.Amount.IsPositive() {
			out = append(out, t)
		}
	}
	return out
}

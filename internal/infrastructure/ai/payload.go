package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
)

// ── JSON que devuelve el modelo ─────────────────────────────────────

type extractionPayload struct {
	Header struct {
		Supplier struct {
			Name       string `json:"nombre"`
			TaxID      text   `json:"cuit"`
			SystemCode text   `json:"codigo_sistema"`
		} `json:"proveedor"`
		Invoice struct {
			DocumentType  string `json:"tipo_comprobante"`
			EmissionPoint text   `json:"punto_emision"`
			Number        text   `json:"numero_comprobante"`
			EmissionDate  text   `json:"fecha_emision"`
			DueDate       text   `json:"fecha_vencimiento"`
			Currency      text   `json:"moneda"`
			ExchangeRate  amount `json:"cotizacion"`
			Total         amount `json:"importe_total"`
			NetTaxed      amount `json:"importe_neto_gravado"`
			Tax           amount `json:"importe_iva"`
			NonTaxed      amount `json:"importe_no_gravado"`
			Exempt        amount `json:"importe_exento"`
		} `json:"factura"`
		LinkedOrder struct {
			Number text `json:"numero"`
			Found  bool `json:"encontrada_en_factura"`
		} `json:"orden_compra_vinculada"`
		Taxes []struct {
			Type   string `json:"tipo"`
			Amount amount `json:"monto"`
		} `json:"impuestos"`
		Observations text `json:"observaciones"`
	} `json:"cabecera"`
	Items []struct {
		Line        amount `json:"linea"`
		Description string `json:"descripcion"`
		Quantity    amount `json:"cantidad"`
		UnitPrice   amount `json:"precio_unitario"`
		TaxRate     amount `json:"alicuota_iva"`
		NetAmount   amount `json:"importe_neto"`
		TaxAmount   amount `json:"importe_iva"`
		LineTotal   amount `json:"total_linea"`
	} `json:"items"`
}

type reconciliationPayload struct {
	Summary       string `json:"resumen"`
	Matched       bool   `json:"match_exitoso"`
	OrderNumber   text   `json:"nro_orden_compra"`
	Discrepancies []struct {
		InvoiceItem text   `json:"item_factura"`
		OrderItem   text   `json:"item_oc"`
		Kind        string `json:"tipo_error"`
		Detail      string `json:"detalle"`
	} `json:"discrepancias"`
	MatchedItems []struct {
		Description string `json:"descripcion"`
		Quantity    amount `json:"cantidad"`
		Price       amount `json:"precio"`
		OrderLine   amount `json:"item_oc"`
	} `json:"items_ok"`
}

// amount acepta número, string ("1.234,56" o "1234.56") o null.
type amount decimal.Decimal

func (a *amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*a = amount(decimal.Zero)
		return nil
	}
	s := strings.Trim(string(b), `"`)
	s = strings.TrimSpace(strings.NewReplacer("$", "", " ", "").Replace(s))
	if s == "" || strings.EqualFold(s, "null") {
		*a = amount(decimal.Zero)
		return nil
	}
	switch comma, dot := strings.LastIndex(s, ","), strings.LastIndex(s, "."); {
	case comma > dot:
		// formato local: punto de miles, coma decimal
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case comma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("importe inválido %s: %w", b, err)
	}
	*a = amount(d)
	return nil
}

func (a amount) dec() decimal.Decimal { return decimal.Decimal(a) }

// text acepta string, número o null; "null" literal queda vacío.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		*t = ""
		return nil
	}
	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	} else {
		s = string(b)
	}
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "null") {
		s = ""
	}
	*t = text(s)
	return nil
}

// ── mapeo a dominio ─────────────────────────────────────────────────

func (p *extractionPayload) toEntity() *entity.InvoiceExtraction {
	h, f := p.Header, p.Header.Invoice
	out := &entity.InvoiceExtraction{
		Header: entity.InvoiceHeader{
			Supplier: entity.ExtractedSupplier{
				Name:       strings.TrimSpace(h.Supplier.Name),
				TaxID:      string(h.Supplier.TaxID),
				SystemCode: string(h.Supplier.SystemCode),
			},
			DocumentType:  strings.TrimSpace(f.DocumentType),
			EmissionPoint: string(f.EmissionPoint),
			Number:        string(f.Number),
			EmissionDate:  string(f.EmissionDate),
			DueDate:       string(f.DueDate),
			Currency:      string(f.Currency),
			ExchangeRate:  f.ExchangeRate.dec(),
			Totals: entity.InvoiceTotals{
				Total:    f.Total.dec(),
				NetTaxed: f.NetTaxed.dec(),
				Tax:      f.Tax.dec(),
				NonTaxed: f.NonTaxed.dec(),
				Exempt:   f.Exempt.dec(),
			},
			LinkedOrder: entity.LinkedOrder{
				Number:          string(h.LinkedOrder.Number),
				FoundInDocument: h.LinkedOrder.Found && h.LinkedOrder.Number != "",
			},
			Observations: string(h.Observations),
		},
	}
	if out.Header.ExchangeRate.IsZero() {
		out.Header.ExchangeRate = decimal.NewFromInt(1)
	}
	for _, t := range h.Taxes {
		out.Taxes = append(out.Taxes, entity.InvoiceTax{Type: strings.TrimSpace(t.Type), Amount: t.Amount.dec()})
	}
	for i, it := range p.Items {
		line := int(it.Line.dec().IntPart())
		if line <= 0 {
			line = i + 1
		}
		out.Items = append(out.Items, entity.InvoiceItem{
			Line:        line,
			Description: strings.TrimSpace(it.Description),
			Quantity:    it.Quantity.dec(),
			UnitPrice:   it.UnitPrice.dec(),
			TaxRate:     it.TaxRate.dec(),
			NetAmount:   it.NetAmount.dec(),
			TaxAmount:   it.TaxAmount.dec(),
			LineTotal:   it.LineTotal.dec(),
		})
	}
	return out
}

func (p *reconciliationPayload) toEntity() *entity.ReconciliationReport {
	out := &entity.ReconciliationReport{
		Summary:       p.Summary,
		Matched:       p.Matched,
		OrderNumber:   string(p.OrderNumber),
		Discrepancies: []entity.Discrepancy{},
		MatchedItems:  []entity.MatchedItem{},
	}
	for _, d := range p.Discrepancies {
		out.Discrepancies = append(out.Discrepancies, entity.Discrepancy{
			InvoiceItem: string(d.InvoiceItem),
			OrderItem:   string(d.OrderItem),
			Kind:        d.Kind,
			Detail:      d.Detail,
		})
	}
	for _, m := range p.MatchedItems {
		out.MatchedItems = append(out.MatchedItems, entity.MatchedItem{
			Description: m.Description,
			Quantity:    m.Quantity.dec(),
			Price:       m.Price.dec(),
			OrderLine:   int(m.OrderLine.dec().IntPart()),
		})
	}
	return out
}

// parseExtraction interpreta la respuesta cruda del modelo.
func parseExtraction(raw string) (*entity.InvoiceExtraction, error) {
	clean := extractJSON(raw)
	if clean == "" {
		return nil, fmt.Errorf("AI: no se encontró JSON en la respuesta del modelo (respuesta: %.200s)", raw)
	}
	var p extractionPayload
	if err := json.Unmarshal([]byte(clean), &p); err != nil {
		return nil, fmt.Errorf("AI: parsear JSON de extracción: %w", err)
	}
	return p.toEntity(), nil
}

func parseReconciliation(raw string) (*entity.ReconciliationReport, error) {
	clean := extractJSON(raw)
	if clean == "" {
		return nil, fmt.Errorf("AI: no se encontró JSON en la respuesta del modelo (respuesta: %.200s)", raw)
	}
	var p reconciliationPayload
	if err := json.Unmarshal([]byte(clean), &p); err != nil {
		return nil, fmt.Errorf("AI: parsear JSON de conciliación: %w", err)
	}
	return p.toEntity(), nil
}

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSON extrae el objeto JSON de un texto libre:
//  1. quita bloques de código markdown (```json … ```);
//  2. si no empieza con '{', toma desde la primera '{' hasta la última '}'.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "```"); idx != -1 {
		after := s[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		s = strings.TrimSpace(after)
	}
	if strings.HasPrefix(s, "{") {
		return s
	}
	return jsonObject.FindString(s)
}

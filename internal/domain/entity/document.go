package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Códigos de tipo de comprobante del ERP.
const (
	DocTypeThirdPartyInvoice = "FACTT" // factura de terceros
	DocTypeCreditNoteA       = "NCTA"
	DocTypeCreditNoteB       = "NCTB"
	DocTypeCreditNoteC       = "NCTC"
	DocTypeDebitNoteA        = "NDTA"
	DocTypeDebitNoteB        = "NDTB"
)

var documentTypes = map[string]string{
	"FACTURA A":         DocTypeThirdPartyInvoice,
	"FACTURA B":         DocTypeThirdPartyInvoice,
	"FACTURA C":         DocTypeThirdPartyInvoice,
	"NOTA DE CREDITO A": DocTypeCreditNoteA,
	"NOTA DE CREDITO B": DocTypeCreditNoteB,
	"NOTA DE CREDITO C": DocTypeCreditNoteC,
	"NOTA DE DEBITO A":  DocTypeDebitNoteA,
	"NOTA DE DEBITO B":  DocTypeDebitNoteB,
}

// DocumentTypeCode mapea el texto del comprobante al código del ERP. Desconocido -> FACTT.
func DocumentTypeCode(text string) string {
	if code, ok := documentTypes[strings.ToUpper(strings.TrimSpace(text))]; ok {
		return code
	}
	return DocTypeThirdPartyInvoice
}

// EmissionPointCode el ERP guarda sólo los últimos 4 caracteres del punto de emisión.
func EmissionPointCode(p string) string {
	p = strings.TrimSpace(p)
	if r := []rune(p); len(r) > 4 {
		return string(r[len(r)-4:])
	}
	return p
}

// ParseDocumentDate acepta DD/MM/YYYY o YYYY-MM-DD.
func ParseDocumentDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return time.Time{}, false
	case strings.Contains(s, "/"):
		t, err := time.Parse("02/01/2006", s)
		return t, err == nil
	case strings.Contains(s, "-"):
		t, err := time.Parse("2006-01-02", s)
		return t, err == nil
	}
	return time.Time{}, false
}

// DocumentKey identifica un comprobante entre los no anulados.
type DocumentKey struct {
	Company       string
	DocumentType  string
	IssuerCode    string
	EmissionPoint string
	Number        string
}

// DocumentHeader fila de cabecera (ISMST_DOCUMENTOS_CAB).
type DocumentHeader struct {
	Key          DocumentKey
	Receiver     string
	EmissionDate time.Time
	DueDate      time.Time
	Currency     string
	ExchangeRate decimal.Decimal
	Total        decimal.Decimal
	ArchiveID    string
	Voided       bool
}

// DocumentItem fila de detalle.
type DocumentItem struct {
	Key         DocumentKey
	Receiver    string
	Line        int
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// DocumentTax impuesto asociado al comprobante (ítem 0).
type DocumentTax struct {
	Key      DocumentKey
	Receiver string
	Item     int
	TaxCode  string // hasta 10 caracteres
	Amount   decimal.Decimal
}

// TaxCode recorta el tipo de impuesto al ancho de la columna cod_impuesto.
func TaxCode(t string) string {
	t = strings.TrimSpace(t)
	if r := []rune(t); len(r) > 10 {
		return string(r[:10])
	}
	return t
}

// StoredInvoice comprobante persistido con sus líneas e impuestos.
type StoredInvoice struct {
	Header DocumentHeader
	Items  []DocumentItem
	Taxes  []DocumentTax
}

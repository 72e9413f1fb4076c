package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
)

func TestDocumentTypeCode(t *testing.T) {
	assert.Equal(t, "FACTT", entity.DocumentTypeCode("FACTURA A"))
	assert.Equal(t, "FACTT", entity.DocumentTypeCode(" factura c "))
	assert.Equal(t, "NCTB", entity.DocumentTypeCode("Nota de Credito B"))
	assert.Equal(t, "NDTA", entity.DocumentTypeCode("NOTA DE DEBITO A"))
	assert.Equal(t, "FACTT", entity.DocumentTypeCode("TICKET"), "tipo desconocido cae en factura de terceros")
}

func TestEmissionPointCode(t *testing.T) {
	assert.Equal(t, "0003", entity.EmissionPointCode("00003"))
	assert.Equal(t, "0001", entity.EmissionPointCode(" 0001 "))
	assert.Equal(t, "12", entity.EmissionPointCode("12"))
}

func TestParseDocumentDate(t *testing.T) {
	got, ok := entity.ParseDocumentDate("05/03/2026")
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), got)

	got, ok = entity.ParseDocumentDate("2026-03-05")
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), got)

	_, ok = entity.ParseDocumentDate("")
	assert.False(t, ok)
	_, ok = entity.ParseDocumentDate("marzo 2026")
	assert.False(t, ok)
	_, ok = entity.ParseDocumentDate("31/02/2026")
	assert.False(t, ok)
}

func TestTaxCode(t *testing.T) {
	assert.Equal(t, "PERCEP_IIB", entity.TaxCode("PERCEP_IIBB_BSAS"))
	assert.Equal(t, "IVA", entity.TaxCode("IVA"))
}

func TestStatusFromERP(t *testing.T) {
	assert.Equal(t, entity.SupplierActive, entity.SupplierStatusFromERP("ACTIVO  "))
	assert.Equal(t, entity.SupplierClosed, entity.SupplierStatusFromERP("BAJA"))
	assert.Equal(t, entity.SupplierInactive, entity.SupplierStatusFromERP("SUSPENDIDO"))
	assert.Equal(t, entity.OrderOpen, entity.OrderStatusFromERP("ABIERTA"))
	assert.Equal(t, entity.OrderPartial, entity.OrderStatusFromERP(" PARCIAL"))
	assert.Equal(t, entity.OrderClosed, entity.OrderStatusFromERP("CERRADA"))
}

func TestInvoiceExtraction_Validate(t *testing.T) {
	var e entity.InvoiceExtraction
	err := e.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "número de comprobante vacío")
	assert.Contains(t, err.Error(), "proveedor sin nombre ni CUIT")

	e.Header.Number = "00000001"
	e.Header.Supplier.Name = "ACME"
	assert.NoError(t, e.Validate())
}

func TestPostableTaxes(t *testing.T) {
	e := entity.InvoiceExtraction{Taxes: []entity.InvoiceTax{
		{Type: "PERCEP_IIBB", Amount: decimal.RequireFromString("12.5")},
		{Type: "PERCEP_IVA", Amount: decimal.Zero},
		{Type: "RET", Amount: decimal.RequireFromString("-1")},
	}}
	got := e.PostableTaxes()
	require.Len(t, got, 1)
	assert.Equal(t, "PERCEP_IIBB", got[0].Type)
}

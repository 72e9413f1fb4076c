package ingestion_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/infrastructure/memory"
)

func openOrder(nro, supplier string, age time.Duration, lines ...memory.OrderLine) (entity.PurchaseOrderSummary, []memory.OrderLine) {
	return entity.PurchaseOrderSummary{
		OrderNumber:  nro,
		SupplierCode: supplier,
		Status:       entity.OrderOpen,
		Date:         time.Now().Add(-age),
	}, lines
}

func pendingLine(n int) memory.OrderLine {
	return memory.OrderLine{PurchaseOrderItem: entity.PurchaseOrderItem{
		LineNumber: n, Description: "HARINA", OriginalQuantity: d("10"), UnitPrice: d("60"), PendingQuantity: d("10"),
	}}
}

// Caso 1: extracción, OCs activas del proveedor y alta del comprobante.
func TestProcessDocument_OK(t *testing.T) {
	store := newStore()
	h, lines := openOrder("OC-100", "P0001", 24*time.Hour, pendingLine(1))
	store.AddOrder(h, lines...)
	inv := sampleInvoice()
	inv.Header.Supplier.TaxID = "30-71234567-8"

	out := newPipeline(t, store, &fakeExtractor{inv: inv}).ProcessDocument(context.Background(), pdf)
	require.True(t, out.Success, out.Errors)
	require.NotNil(t, out.Database)
	assert.Equal(t, "1", out.Database.ArchiveID)
	assert.Equal(t, acmeTaxID, out.Extraction.Header.Supplier.TaxID)
	require.Len(t, out.ActiveOrders, 1)
	assert.True(t, out.ActiveOrders[0].Recommended)
	assert.Empty(t, out.Errors)
}

// Caso 2: error del extractor; no se toca la base.
func TestProcessDocument_ErrorExtraccion(t *testing.T) {
	store := newStore()

	out := newPipeline(t, store, &fakeExtractor{err: errors.New("timeout")}).ProcessDocument(context.Background(), pdf)
	assert.False(t, out.Success)
	assert.ErrorIs(t, out.Err, domain.ErrExtractionFailure)
	assert.Nil(t, out.Database)
	assert.Empty(t, store.Documents())
}

// Caso 3: la falla de integración se refleja en la respuesta.
func TestProcessDocument_Duplicado(t *testing.T) {
	store := newStore()
	p := newPipeline(t, store, &fakeExtractor{inv: sampleInvoice()})

	require.True(t, p.ProcessDocument(context.Background(), pdf).Success)
	out := p.ProcessDocument(context.Background(), pdf)
	assert.False(t, out.Success)
	assert.ErrorIs(t, out.Err, domain.ErrDuplicateDocument)
	assert.NotEmpty(t, out.Errors)
}

// Caso 4: CUIT inválido corta en la validación de identidad.
func TestExtractAndValidate_CUITInvalido(t *testing.T) {
	inv := sampleInvoice()
	inv.Header.Supplier.TaxID = "123"

	_, err := newPipeline(t, newStore(), &fakeExtractor{inv: inv}).ExtractAndValidate(context.Background(), pdf)
	assert.ErrorIs(t, err, domain.ErrInvalidTaxID)
}

// Caso 5: descubrimiento por CUIT exacto recomienda al único candidato.
func TestDiscover_CUIT(t *testing.T) {
	store := newStore()
	h, lines := openOrder("OC-1", "P0001", time.Hour)
	store.AddOrder(h, lines...)

	out, err := newPipeline(t, store, &fakeExtractor{inv: sampleInvoice()}).Discover(context.Background(), pdf)
	require.NoError(t, err)
	require.True(t, out.Success)
	assert.Equal(t, entity.MatchExactTaxID, out.MatchKind)
	require.Len(t, out.Suppliers, 1)
	s := out.Suppliers[0]
	assert.Equal(t, 100, s.MatchScore)
	assert.True(t, s.Recommended)
	assert.True(t, s.HasActiveOrders)
	assert.Zero(t, s.OrdersWithPending)
}

// Caso 6: por nombre se recomienda el primer candidato con OCs pendientes.
func TestDiscover_Nombre(t *testing.T) {
	store := newStore()
	store.AddSupplier(entity.Supplier{Code: "P0002", LegalName: "ACME SA SUCURSAL NORTE", Status: entity.SupplierActive, DocumentationComplete: true})
	h, lines := openOrder("OC-2", "P0002", time.Hour, pendingLine(1))
	store.AddOrder(h, lines...)

	out := newPipeline(t, store, &fakeExtractor{}).DiscoverSupplier(context.Background(), "Acme SA", "")
	require.True(t, out.Success)
	assert.Equal(t, entity.MatchNameSimilar, out.MatchKind)
	require.Len(t, out.Suppliers, 2)
	assert.Equal(t, "P0001", out.Suppliers[0].Code)
	assert.False(t, out.Suppliers[0].Recommended)
	assert.NotNil(t, out.Suppliers[0].Orders)
	assert.Equal(t, "P0002", out.Suppliers[1].Code)
	assert.True(t, out.Suppliers[1].Recommended)
	assert.Equal(t, 1, out.Suppliers[1].OrdersWithPending)
}

// Caso 7: sin candidatos la respuesta no es exitosa pero no hay error.
func TestDiscover_SinCandidatos(t *testing.T) {
	out := newPipeline(t, newStore(), &fakeExtractor{}).DiscoverSupplier(context.Background(), "Nadie", "30799999999")
	assert.False(t, out.Success)
	assert.NotEmpty(t, out.Message)
	assert.Empty(t, out.Suppliers)
}

// Caso 8: sin número explícito se concilia contra la OC impresa en el comprobante.
func TestReconcileOrder_OCImpresa(t *testing.T) {
	store := newStore()
	h, lines := openOrder("OC-7", "P0001", time.Hour, pendingLine(2), pendingLine(1))
	store.AddOrder(h, lines...)
	inv := sampleInvoice()
	inv.Header.LinkedOrder = entity.LinkedOrder{Number: "OC-7", FoundInDocument: true}
	ex := &fakeExtractor{inv: inv}

	out, err := newPipeline(t, store, ex).ReconcileOrder(context.Background(), pdf, "")
	require.NoError(t, err)
	assert.Equal(t, "OC-7", out.OrderNumber)
	assert.Equal(t, "P0001", out.SupplierCode)
	assert.Equal(t, "OC-7", out.Data.OrderNumber)
	require.Len(t, ex.reconcile, 2)
	assert.Equal(t, 1, ex.reconcile[0].LineNumber)
}

// Caso 9: OC cerrada, inexistente o ausente.
func TestReconcileOrder_Errores(t *testing.T) {
	store := newStore()
	store.AddOrder(entity.PurchaseOrderSummary{OrderNumber: "OC-8", SupplierCode: "P0001", Status: entity.OrderClosed, Date: time.Now()})
	p := newPipeline(t, store, &fakeExtractor{inv: sampleInvoice()})
	ctx := context.Background()

	_, err := p.ReconcileOrder(ctx, pdf, "OC-8")
	assert.ErrorIs(t, err, domain.ErrOrderClosed)

	_, err = p.ReconcileOrder(ctx, pdf, "OC-404")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	_, err = p.ReconcileOrder(ctx, pdf, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

package ingestion_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/accounting"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/ingestion"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/ports"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/purchasing"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/supplier"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/ledger"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/infrastructure/memory"
)

const (
	ownTaxID  = "30543400713"
	acmeTaxID = "30712345678"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func acme() entity.Supplier {
	return entity.Supplier{
		Code:                  "P0001",
		LegalName:             "ACME SA",
		TaxID:                 acmeTaxID,
		Status:                entity.SupplierActive,
		PersonType:            "P",
		DocumentationComplete: true,
	}
}

func newStore() *memory.Store {
	store := memory.NewStore()
	store.AddSupplier(acme())
	store.AddFiscalPeriod(memory.FiscalPeriod{
		Code:  "2026",
		Start: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	})
	return store
}

func newMatcher(store *memory.Store) *supplier.Matcher {
	return supplier.NewMatcher(store, supplier.Config{
		OwnTaxIDs:          []string{ownTaxID},
		AllowedPersonTypes: []string{"P", "C", "RI"},
	}, zerolog.Nop())
}

func newCoordinator(store *memory.Store, posting bool) *ingestion.Coordinator {
	lb := accounting.NewLedgerBuilder(
		ledger.Accounts{Payables: "210101", TaxCredit: "110501", DefaultExpense: "520101"},
		"MOLINO", zerolog.Nop())
	return ingestion.NewCoordinator(store, newMatcher(store), lb, ingestion.Config{
		Company:              "MOLINO",
		Receiver:             "EMPRESA",
		LedgerPostingEnabled: posting,
	}, zerolog.Nop())
}

// sampleInvoice factura A de ACME por 1210 con dos ítems, un impuesto con monto y otro en cero.
func sampleInvoice() *entity.InvoiceExtraction {
	return &entity.InvoiceExtraction{
		Header: entity.InvoiceHeader{
			Supplier:      entity.ExtractedSupplier{Name: "ACME SA", TaxID: acmeTaxID},
			DocumentType:  "Factura A",
			EmissionPoint: "00003",
			Number:        "00012345",
			EmissionDate:  "10/03/2026",
			DueDate:       "2026-04-10",
			Currency:      "PES",
			ExchangeRate:  d("1"),
			Totals:        entity.InvoiceTotals{Total: d("1210"), NetTaxed: d("1000"), Tax: d("210")},
		},
		Items: []entity.InvoiceItem{
			{Line: 1, Description: "HARINA 000", Quantity: d("10"), UnitPrice: d("60")},
			{Line: 2, Description: "HARINA 0000", Quantity: d("5"), UnitPrice: d("80")},
		},
		Taxes: []entity.InvoiceTax{
			{Type: "IVA 21% CREDITO FISCAL", Amount: d("210")},
			{Type: "PERCEPCION IVA", Amount: decimal.Zero},
		},
	}
}

// fakeExtractor devuelve siempre el mismo comprobante y registra lo recibido.
type fakeExtractor struct {
	inv       *entity.InvoiceExtraction
	err       error
	report    *entity.ReconciliationReport
	reconcile []entity.PurchaseOrderItem
}

var _ ports.InvoiceExtractor = (*fakeExtractor)(nil)

func (f *fakeExtractor) Extract(context.Context, ports.Document) (*entity.InvoiceExtraction, error) {
	if f.err != nil {
		return nil, f.err
	}
	c := *f.inv
	c.Items = append([]entity.InvoiceItem(nil), f.inv.Items...)
	c.Taxes = append([]entity.InvoiceTax(nil), f.inv.Taxes...)
	return &c, nil
}

func (f *fakeExtractor) Reconcile(_ context.Context, _ ports.Document, items []entity.PurchaseOrderItem) (*entity.ReconciliationReport, error) {
	f.reconcile = items
	if f.report == nil {
		return &entity.ReconciliationReport{Matched: true}, nil
	}
	r := *f.report
	return &r, nil
}

func newPipeline(t *testing.T, store *memory.Store, ex ports.InvoiceExtractor) *ingestion.Pipeline {
	t.Helper()
	return ingestion.NewPipeline(ex, newMatcher(store),
		purchasing.NewResolver(store, zerolog.Nop()), newCoordinator(store, false), zerolog.Nop())
}

var pdf = ports.Document{Name: "factura.pdf", MIMEType: "application/pdf", Data: []byte("%PDF-1.4")}

// Package ledger arma el asiento de compras de un comprobante de proveedor y
// verifica que balancee antes de que se escriba nada.
package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
)

// Tolerance diferencia máxima admitida entre DEBE y HABER (un centavo, exclusivo).
var Tolerance = decimal.New(1, -2)

// Descripciones fijas de los movimientos de DEBE.
const (
	DescTaxCredit = "IVA Crédito Fiscal"
	DescPurchase  = "Gasto/Compra"
	DescNonTaxed  = "Conceptos No Gravados"
)

// Accounts cuentas contables del asiento.
type Accounts struct {
	Payables       string
	TaxCredit      string
	DefaultExpense string
}

// Input datos del comprobante necesarios para el asiento.
type Input struct {
	EntryNumber      int64
	Company          string
	SupplierCode     string
	SupplierName     string
	DocumentNumber   string
	DocumentTypeCode string
	FiscalPeriod     string
	EmissionDate     time.Time
	Totals           entity.InvoiceTotals
	Taxes            []entity.InvoiceTax
}

// Build arma cabecera y movimientos:
//
//	HABER total            -> proveedores
//	DEBE  IVA (si > 0)     -> IVA crédito fiscal
//	DEBE  neto (si > 0)    -> gasto por defecto
//	DEBE  no gravado+exento (si > 0) -> gasto por defecto
//
// Las percepciones con monto positivo no generan movimiento: se devuelven como no contabilizadas.
func Build(in Input, acc Accounts) (*entity.JournalEntry, []entity.UnbookedTax) {
	desc := fmt.Sprintf("Factura %s - Prov: %s", in.DocumentNumber, in.SupplierName)
	e := &entity.JournalEntry{
		EntryNumber:      in.EntryNumber,
		Description:      desc,
		DocumentTypeCode: in.DocumentTypeCode,
		SupplierCode:     in.SupplierCode,
		Company:          in.Company,
		Mode:             entity.EntryModeAutomatic,
		Concept:          entity.EntryConceptSuppliers,
		FiscalPeriod:     in.FiscalPeriod,
		EmissionDate:     in.EmissionDate,
	}

	add := func(account, description string, amount decimal.Decimal, side entity.Side) {
		e.Movements = append(e.Movements, entity.Movement{
			EntryNumber:       in.EntryNumber,
			AccountCode:       account,
			DocumentReference: in.DocumentNumber,
			Date:              in.EmissionDate,
			EffectiveDate:     in.EmissionDate,
			Description:       description,
			Amount:            amount,
			Side:              side,
			Company:           in.Company,
			FiscalPeriod:      in.FiscalPeriod,
		})
	}

	t := in.Totals
	add(acc.Payables, desc, t.Total, entity.Credit)
	if t.Tax.IsPositive() {
		add(acc.TaxCredit, DescTaxCredit, t.Tax, entity.Debit)
	}
	if t.NetTaxed.IsPositive() {
		add(acc.DefaultExpense, DescPurchase, t.NetTaxed, entity.Debit)
	}
	if other := t.NonTaxed.Add(t.Exempt); other.IsPositive() {
		add(acc.DefaultExpense, DescNonTaxed, other, entity.Debit)
	}

	var unbooked []entity.UnbookedTax
	for _, tax := range in.Taxes {
		if tax.Amount.IsPositive() {
			unbooked = append(unbooked, entity.UnbookedTax{Type: tax.Type, Amount: tax.Amount})
		}
	}
	return e, unbooked
}

// CheckBalance exige |DEBE - HABER| < Tolerance.
func CheckBalance(e *entity.JournalEntry) error {
	debit, credit := e.Totals()
	diff := debit.Sub(credit).Abs()
	if diff.GreaterThanOrEqual(Tolerance) {
		return fmt.Errorf("%w: DEBE %s HABER %s diferencia %s",
			domain.ErrLedgerImbalance, debit.StringFixed(2), credit.StringFixed(2), diff.StringFixed(2))
	}
	return nil
}

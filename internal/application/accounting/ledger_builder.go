// Package accounting genera el asiento contable de un comprobante de proveedor.
package accounting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/ledger"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/repository"
)

// LedgerBuilder arma, balancea y registra el asiento de compras.
type LedgerBuilder struct {
	accounts ledger.Accounts
	company  string
	log      zerolog.Logger
}

// NewLedgerBuilder construye el builder con el plan de cuentas y la empresa.
func NewLedgerBuilder(accounts ledger.Accounts, company string, log zerolog.Logger) *LedgerBuilder {
	return &LedgerBuilder{accounts: accounts, company: company, log: log}
}

// BuildEntry reserva el número de asiento, arma los movimientos, verifica el balance y recién
// entonces escribe cabecera y movimientos con repo. Debe ejecutarse dentro de la transacción del
// comprobante: si algo falla el caller revierte todo.
//
// Sin ejercicio contable falla con domain.ErrFiscalPeriodMissing sin reservar número.
// Un asiento desbalanceado falla con domain.ErrLedgerImbalance y no escribe nada.
func (b *LedgerBuilder) BuildEntry(
	ctx context.Context,
	repo repository.JournalRepository,
	inv *entity.InvoiceExtraction,
	supplierCode, documentNumber string,
	emissionDate time.Time,
	fiscalPeriod string,
) (*entity.JournalEntry, []entity.UnbookedTax, error) {
	if strings.TrimSpace(fiscalPeriod) == "" {
		return nil, nil, fmt.Errorf("%w: fecha %s", domain.ErrFiscalPeriodMissing, emissionDate.Format("2006-01-02"))
	}

	nro, err := repo.NextEntryNumber(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: número de asiento: %v", domain.ErrPersistenceFailure, err)
	}
	log := b.log.With().Int64("entry_number", nro).Str("supplier_code", supplierCode).Logger()

	entry, unbooked := ledger.Build(ledger.Input{
		EntryNumber:      nro,
		Company:          b.company,
		SupplierCode:     supplierCode,
		SupplierName:     inv.Header.Supplier.Name,
		DocumentNumber:   documentNumber,
		DocumentTypeCode: entity.DocumentTypeCode(inv.Header.DocumentType),
		FiscalPeriod:     fiscalPeriod,
		EmissionDate:     emissionDate,
		Totals:           inv.Header.Totals,
		Taxes:            inv.Taxes,
	}, b.accounts)

	if inv.Header.Totals.NetTaxed.IsPositive() {
		log.Warn().Str("account", b.accounts.DefaultExpense).Msg("neto gravado imputado a la cuenta de gasto por defecto")
	}
	for _, t := range unbooked {
		log.Warn().Str("tax", t.Type).Str("amount", t.Amount.StringFixed(2)).Msg("percepción NO contabilizada")
	}

	if err := ledger.CheckBalance(entry); err != nil {
		log.Error().Err(err).Msg("asiento desbalanceado")
		return nil, unbooked, err
	}

	if err := repo.InsertEntry(ctx, entry); err != nil {
		return nil, unbooked, fmt.Errorf("%w: cabecera de asiento %d: %v", domain.ErrPersistenceFailure, nro, err)
	}
	for i := range entry.Movements {
		if err := repo.InsertMovement(ctx, &entry.Movements[i]); err != nil {
			return nil, unbooked, fmt.Errorf("%w: movimiento %d del asiento %d: %v", domain.ErrPersistenceFailure, i+1, nro, err)
		}
	}

	debit, credit := entry.Totals()
	log.Info().Str("debit", debit.StringFixed(2)).Str("credit", credit.StringFixed(2)).
		Int("movements", len(entry.Movements)).Msg("asiento generado")
	return entry, unbooked, nil
}

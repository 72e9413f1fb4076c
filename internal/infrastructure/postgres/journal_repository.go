package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/repository"
)

var (
	_ repository.JournalRepository      = (*JournalRepo)(nil)
	_ repository.FiscalPeriodRepository = (*FiscalPeriodRepo)(nil)
)

// JournalRepo escritura de ismst_asientos / ismst_movimientos.
type JournalRepo struct {
	q Querier
}

// NewJournalRepository construye el adaptador. Debe recibir una tx.
func NewJournalRepository(q Querier) *JournalRepo {
	return &JournalRepo{q: q}
}

// NextEntryNumber MAX(as_nro)+1.
func (r *JournalRepo) NextEntryNumber(ctx context.Context) (int64, error) {
	var next int64
	if err := r.q.QueryRow(ctx, `SELECT coalesce(max(as_nro), 0) + 1 FROM ismst_asientos`).Scan(&next); err != nil {
		return 0, fmt.Errorf("next entry number: %w", err)
	}
	return next, nil
}

// InsertEntry cabecera del asiento; as_fechareg es el momento de la registración.
func (r *JournalRepo) InsertEntry(ctx context.Context, e *entity.JournalEntry) error {
	query := `
		INSERT INTO ismst_asientos (
			as_nro, as_fechareg, as_descripcion, as_tipocomp, as_proveedor, as_modo,
			as_empresa, as_concepto, as_ejercicio, as_fechamov)
		VALUES ($1, now(), $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		e.EntryNumber, e.Description, e.DocumentTypeCode, e.SupplierCode, e.Mode,
		e.Company, e.Concept, e.FiscalPeriod, e.EmissionDate,
	)
	if err != nil {
		return fmt.Errorf("insert journal entry %d: %w", e.EntryNumber, err)
	}
	return nil
}

// InsertMovement una línea DEBE/HABER.
func (r *JournalRepo) InsertMovement(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO ismst_movimientos (
			mo_asnro, mo_cuenta, mo_comprobante, mo_fecha, mo_descripcion, mo_importe, mo_posicion,
			mo_cc, mo_fechaefectiva, mo_mng, mo_empresa, mo_ejercicio)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		m.EntryNumber, m.AccountCode, m.DocumentReference, m.Date, m.Description, m.Amount, string(m.Side),
		m.CostCenter, m.EffectiveDate, m.Company, m.FiscalPeriod,
	)
	if err != nil {
		return fmt.Errorf("insert movement %s: %w", m.AccountCode, err)
	}
	return nil
}

// FiscalPeriodRepo lectura de ismst_ejercicios.
type FiscalPeriodRepo struct {
	q Querier
}

// NewFiscalPeriodRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFiscalPeriodRepository(q Querier) *FiscalPeriodRepo {
	return &FiscalPeriodRepo{q: q}
}

// FindByDate ejercicio cuyo rango (inclusive) contiene la fecha.
func (r *FiscalPeriodRepo) FindByDate(ctx context.Context, date time.Time) (string, error) {
	query := `
		SELECT trim(e.ejer_cod)
		FROM ismst_ejercicios e
		WHERE e.ejer_fechainicio <= $1::date AND e.ejer_fechafin >= $1::date
		ORDER BY e.ejer_fechainicio DESC
		LIMIT 1`
	var code string
	err := r.q.QueryRow(ctx, query, date).Scan(&code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("find fiscal period: %w", err)
	}
	return strings.TrimSpace(code), nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/ingestion"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/repository"
)

var _ ingestion.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunIngestion inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit.
// Si fn devuelve error (o el commit falla) la transacción se revierte.
func (r *TxRunner) RunIngestion(ctx context.Context, fn func(
	supplierRepo repository.SupplierRepository,
	documentRepo repository.DocumentRepository,
	journalRepo repository.JournalRepository,
	periodRepo repository.FiscalPeriodRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	supplierRepo := NewSupplierRepository(tx)
	documentRepo := NewDocumentRepository(tx)
	journalRepo := NewJournalRepository(tx)
	periodRepo := NewFiscalPeriodRepository(tx)

	if err := fn(supplierRepo, documentRepo, journalRepo, periodRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

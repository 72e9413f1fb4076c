package ingestion

import (
	"context"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con los repositorios atados a ella.
// Si fn devuelve error la transacción se revierte; si no, se confirma.
type TxRunner interface {
	RunIngestion(ctx context.Context, fn func(
		supplierRepo repository.SupplierRepository,
		documentRepo repository.DocumentRepository,
		journalRepo repository.JournalRepository,
		periodRepo repository.FiscalPeriodRepository,
	) error) error
}

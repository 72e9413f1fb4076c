package repository

import (
	"context"
	"time"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
)

// JournalRepository asientos y movimientos contables.
type JournalRepository interface {
	// NextEntryNumber MAX(AS_NRO)+1. Puede dejar huecos si la transacción se revierte.
	NextEntryNumber(ctx context.Context) (int64, error)
	InsertEntry(ctx context.Context, e *entity.JournalEntry) error
	InsertMovement(ctx context.Context, m *entity.Movement) error
}

// FiscalPeriodRepository ejercicios contables (ISMST_EJERCICIOS).
type FiscalPeriodRepository interface {
	// FindByDate devuelve el código del ejercicio que contiene date, o "".
	FindByDate(ctx context.Context, date time.Time) (string, error)
}

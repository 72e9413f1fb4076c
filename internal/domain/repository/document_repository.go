package repository

import (
	"context"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
)

// DocumentRepository escritura de comprobantes. Sólo se usa dentro de una transacción.
type DocumentRepository interface {
	// LockNumbering serializa chequeo de duplicados y numeración hasta el fin de la transacción.
	LockNumbering(ctx context.Context) error

	// FindActiveDuplicate devuelve el NRO_ARCHIVO de un comprobante no anulado con la misma clave, o "".
	FindActiveDuplicate(ctx context.Context, key entity.DocumentKey) (string, error)

	// NextArchiveID MAX(NRO_ARCHIVO)+1 (1 si la tabla está vacía).
	NextArchiveID(ctx context.Context) (string, error)

	InsertHeader(ctx context.Context, h *entity.DocumentHeader) error
	InsertItem(ctx context.Context, item *entity.DocumentItem) error
	InsertTax(ctx context.Context, tax *entity.DocumentTax) error
}

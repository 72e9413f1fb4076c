package repository

import (
	"context"
	"time"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
)

// PurchaseOrderRepository puerto de lectura de órdenes de compra.
type PurchaseOrderRepository interface {
	// ListActiveBySupplier OCs ABIERTA/PARCIAL con fecha >= since, ABIERTA primero y luego fecha descendente.
	ListActiveBySupplier(ctx context.Context, supplierCode string, since time.Time, limit int) ([]entity.PurchaseOrderSummary, error)

	// ListItems líneas no anuladas ordenadas por número de ítem.
	ListItems(ctx context.Context, orderNumber string) ([]entity.PurchaseOrderItem, error)

	// GetHeader devuelve nil, nil si la OC no existe.
	GetHeader(ctx context.Context, orderNumber string) (*entity.PurchaseOrderSummary, error)
}

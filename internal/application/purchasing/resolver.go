// Package purchasing consulta órdenes de compra candidatas para un comprobante.
package purchasing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/repository"
)

const (
	// MaxActiveOrders tope de OCs devueltas por proveedor.
	MaxActiveOrders = 20
	// lookbackMonths antigüedad máxima de una OC activa.
	lookbackMonths = 6
)

// Resolver busca OCs abiertas o parciales de un proveedor.
type Resolver struct {
	repo repository.PurchaseOrderRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewResolver construye el resolver con reloj real.
func NewResolver(repo repository.PurchaseOrderRepository, log zerolog.Logger) *Resolver {
	return &Resolver{repo: repo, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	c := *r
	c.now = now
	return &c
}

// ActiveOrdersForSupplier OCs ABIERTA/PARCIAL de los últimos 6 meses, hasta 20.
// Recommended se marca cuando la OC tiene ítems pendientes de facturar.
func (r *Resolver) ActiveOrdersForSupplier(ctx context.Context, supplierCode string) ([]entity.PurchaseOrderSummary, error) {
	code := strings.TrimSpace(supplierCode)
	if code == "" {
		return nil, fmt.Errorf("%w: código de proveedor vacío", domain.ErrInvalidInput)
	}
	since := r.now().AddDate(0, -lookbackMonths, 0)
	orders, err := r.repo.ListActiveBySupplier(ctx, code, since, MaxActiveOrders)
	if err != nil {
		return nil, fmt.Errorf("%w: OCs activas de %s: %v", domain.ErrPersistenceFailure, code, err)
	}
	for i := range orders {
		orders[i].Recommended = orders[i].PendingItemCount > 0
		r.log.Debug().
			Str("order", orders[i].OrderNumber).
			Str("status", string(orders[i].Status)).
			Str("pending", orders[i].TotalPendingAmount.StringFixed(2)).
			Int("pending_items", orders[i].PendingItemCount).
			Bool("recommended", orders[i].Recommended).
			Msg("OC activa")
	}
	if len(orders) == 0 {
		r.log.Info().Str("supplier_code", code).Msg("proveedor sin OCs activas")
	}
	return orders, nil
}

// OrderLineItems líneas no anuladas de la OC, ordenadas por ítem.
func (r *Resolver) OrderLineItems(ctx context.Context, orderNumber string) ([]entity.PurchaseOrderItem, error) {
	nro := strings.TrimSpace(orderNumber)
	if nro == "" {
		return nil, fmt.Errorf("%w: número de OC vacío", domain.ErrInvalidInput)
	}
	items, err := r.repo.ListItems(ctx, nro)
	if err != nil {
		return nil, fmt.Errorf("%w: ítems de OC %s: %v", domain.ErrPersistenceFailure, nro, err)
	}
	return items, nil
}

// VerifyOrder comprueba que la OC exista y no esté cerrada; devuelve el código del proveedor.
func (r *Resolver) VerifyOrder(ctx context.Context, orderNumber string) (string, error) {
	nro := strings.TrimSpace(orderNumber)
	if nro == "" {
		return "", fmt.Errorf("%w: número de OC vacío", domain.ErrInvalidInput)
	}
	h, err := r.repo.GetHeader(ctx, nro)
	if err != nil {
		return "", fmt.Errorf("%w: verificar OC %s: %v", domain.ErrPersistenceFailure, nro, err)
	}
	if h == nil {
		return "", fmt.Errorf("%w: %s", domain.ErrOrderNotFound, nro)
	}
	if h.Status == entity.OrderClosed {
		return "", fmt.Errorf("%w: %s", domain.ErrOrderClosed, nro)
	}
	return h.SupplierCode, nil
}

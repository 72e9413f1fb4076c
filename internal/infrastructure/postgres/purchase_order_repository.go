package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo lectura de ismst_orden_compra_cab / _item.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// ListActiveBySupplier incluye el pendiente a facturar (importe y cantidad de ítems) por OC.
func (r *PurchaseOrderRepo) ListActiveBySupplier(ctx context.Context, supplierCode string, since time.Time, limit int) ([]entity.PurchaseOrderSummary, error) {
	query := `
		SELECT trim(oc.nro_orden_compra), oc.fecha, trim(oc.cod_proveedor), trim(oc.estado),
			coalesce(oc.monto_total, 0), coalesce(oc.observacion, ''), coalesce(trim(oc.tipo), ''),
			coalesce((
				SELECT sum(coalesce(i.pendiente_facturar, 0) * coalesce(i.precio_unit, 0))
				FROM ismst_orden_compra_item i
				WHERE trim(i.nro_orden) = trim(oc.nro_orden_compra)
				  AND coalesce(upper(trim(i.estado)), '') <> 'ANULADO'
			), 0),
			(
				SELECT count(*)
				FROM ismst_orden_compra_item i
				WHERE trim(i.nro_orden) = trim(oc.nro_orden_compra)
				  AND coalesce(upper(trim(i.estado)), '') <> 'ANULADO'
				  AND coalesce(i.pendiente_facturar, 0) > 0
			)
		FROM ismst_orden_compra_cab oc
		WHERE trim(oc.cod_proveedor) = $1
		  AND upper(trim(oc.estado)) IN ('ABIERTA', 'PARCIAL')
		  AND oc.fecha >= $2
		ORDER BY CASE WHEN upper(trim(oc.estado)) = 'ABIERTA' THEN 1 ELSE 2 END, oc.fecha DESC
		LIMIT $3`
	rows, err := r.q.Query(ctx, query, supplierCode, since, limit)
	if err != nil {
		return nil, fmt.Errorf("list active orders: %w", err)
	}
	defer rows.Close()
	var list []entity.PurchaseOrderSummary
	for rows.Next() {
		var (
			o      entity.PurchaseOrderSummary
			status string
		)
		if err := rows.Scan(&o.OrderNumber, &o.Date, &o.SupplierCode, &status, &o.TotalAmount,
			&o.Observation, &o.Kind, &o.TotalPendingAmount, &o.PendingItemCount); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Status = entity.OrderStatusFromERP(status)
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return list, nil
}

// ListItems líneas no anuladas por número de ítem.
func (r *PurchaseOrderRepo) ListItems(ctx context.Context, orderNumber string) ([]entity.PurchaseOrderItem, error) {
	query := `
		SELECT i.nro_item, coalesce(trim(i.cod_producto), ''), coalesce(i.descripcion, ''),
			coalesce(i.cantidad, 0), coalesce(i.precio_unit, 0), coalesce(i.pendiente_facturar, 0),
			coalesce(i.alicuota_iva, 0)
		FROM ismst_orden_compra_item i
		WHERE trim(i.nro_orden) = $1
		  AND coalesce(upper(trim(i.estado)), '') <> 'ANULADO'
		ORDER BY i.nro_item`
	rows, err := r.q.Query(ctx, query, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var list []entity.PurchaseOrderItem
	for rows.Next() {
		var it entity.PurchaseOrderItem
		if err := rows.Scan(&it.LineNumber, &it.ProductCode, &it.Description, &it.OriginalQuantity,
			&it.UnitPrice, &it.PendingQuantity, &it.TaxRate); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		list = append(list, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return list, nil
}

// GetHeader cabecera de la OC o nil si no existe.
func (r *PurchaseOrderRepo) GetHeader(ctx context.Context, orderNumber string) (*entity.PurchaseOrderSummary, error) {
	query := `
		SELECT trim(oc.nro_orden_compra), oc.fecha, trim(oc.cod_proveedor), trim(oc.estado),
			coalesce(oc.monto_total, 0), coalesce(oc.observacion, ''), coalesce(trim(oc.tipo), '')
		FROM ismst_orden_compra_cab oc
		WHERE trim(oc.nro_orden_compra) = $1
		LIMIT 1`
	var (
		o      entity.PurchaseOrderSummary
		status string
	)
	err := r.q.QueryRow(ctx, query, orderNumber).Scan(
		&o.OrderNumber, &o.Date, &o.SupplierCode, &status, &o.TotalAmount, &o.Observation, &o.Kind,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o.Status = entity.OrderStatusFromERP(status)
	return &o, nil
}

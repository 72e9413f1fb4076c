package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus estado de la orden de compra.
type PurchaseOrderStatus string

const (
	OrderOpen    PurchaseOrderStatus = "OPEN"
	OrderPartial PurchaseOrderStatus = "PARTIAL"
	OrderClosed  PurchaseOrderStatus = "CLOSED"
)

// OrderStatusFromERP traduce ABIERTA, PARCIAL, CERRADA. Otro valor se conserva tal cual.
func OrderStatusFromERP(s string) PurchaseOrderStatus {
	switch v := strings.ToUpper(strings.TrimSpace(s)); v {
	case "ABIERTA":
		return OrderOpen
	case "PARCIAL":
		return OrderPartial
	case "CERRADA":
		return OrderClosed
	default:
		return PurchaseOrderStatus(v)
	}
}

// PurchaseOrderSummary orden de compra con agregados de pendiente a facturar.
type PurchaseOrderSummary struct {
	OrderNumber        string              `json:"order_number"`
	SupplierCode       string              `json:"supplier_code"`
	Date               time.Time           `json:"date"`
	Status             PurchaseOrderStatus `json:"status"`
	TotalAmount        decimal.Decimal     `json:"total_amount"`
	TotalPendingAmount decimal.Decimal     `json:"total_pending_amount"`
	PendingItemCount   int                 `json:"pending_item_count"`
	Observation        string              `json:"observation,omitempty"`
	Kind               string              `json:"kind,omitempty"`
	Recommended        bool                `json:"recommended"`
}

// PurchaseOrderItem línea de una orden de compra.
type PurchaseOrderItem struct {
	LineNumber       int             `json:"line_number"`
	ProductCode      string          `json:"product_code"`
	Description      string          `json:"description"`
	OriginalQuantity decimal.Decimal `json:"original_quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	PendingQuantity  decimal.Decimal `json:"pending_quantity"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
}

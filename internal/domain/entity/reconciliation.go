package entity

import "github.com/shopspring/decimal"

// Discrepancy diferencia detectada entre factura y OC.
type Discrepancy struct {
	InvoiceItem string `json:"item_factura"`
	OrderItem   string `json:"item_oc"`
	Kind        string `json:"tipo_error"` // Precio / Cantidad / No Encontrado
	Detail      string `json:"detalle"`
}

// MatchedItem ítem facturado que coincide con una línea de la OC.
type MatchedItem struct {
	Description string          `json:"descripcion"`
	Quantity    decimal.Decimal `json:"cantidad"`
	Price       decimal.Decimal `json:"precio"`
	OrderLine   int             `json:"item_oc"`
}

// ReconciliationReport resultado de conciliar un comprobante contra una OC.
type ReconciliationReport struct {
	Summary       string        `json:"resumen"`
	Matched       bool          `json:"match_exitoso"`
	OrderNumber   string        `json:"nro_orden_compra"`
	Discrepancies []Discrepancy `json:"discrepancias"`
	MatchedItems  []MatchedItem `json:"items_ok"`
}

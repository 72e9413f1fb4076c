package dto

import "github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"

// ProcessResult resultado de integrar un comprobante en el ERP.
// Err conserva el error original para que los adaptadores decidan el código de estado.
type ProcessResult struct {
	Success       bool                 `json:"success"`
	ArchiveID     string               `json:"archive_id,omitempty"`
	SupplierCode  string               `json:"supplier_code,omitempty"`
	Message       string               `json:"message"`
	Errors        []string             `json:"errors"`
	Warnings      []string             `json:"warnings,omitempty"`
	LedgerPosted  bool                 `json:"ledger_posted"`
	EntryNumber   int64                `json:"entry_number,omitempty"`
	UnbookedTaxes []entity.UnbookedTax `json:"unbooked_taxes,omitempty"`
	Err           error                `json:"-"`
	// LedgerErr motivo por el que no se generó el asiento de un comprobante guardado.
	LedgerErr error `json:"-"`
}

// ProcessResponse respuesta del flujo completo: extracción, OCs del proveedor e integración.
type ProcessResponse struct {
	Success        bool                          `json:"success"`
	Extraction     *entity.InvoiceExtraction     `json:"extraction,omitempty"`
	Reconciliation *entity.ReconciliationReport  `json:"reconciliation,omitempty"`
	ActiveOrders   []entity.PurchaseOrderSummary `json:"active_orders,omitempty"`
	Database       *ProcessResult                `json:"database,omitempty"`
	Errors         []string                      `json:"errors"`
	Err            error                         `json:"-"`
}

// ExtractResponse sólo extracción (no persiste).
type ExtractResponse struct {
	Success bool                      `json:"success"`
	Data    *entity.InvoiceExtraction `json:"data"`
}

// ReconcileRequest conciliación contra una OC; sin número se usa el impreso en el comprobante.
type ReconcileRequest struct {
	OrderNumber string `json:"order_number" form:"order_number"`
}

// ReconcileResponse resultado de la conciliación.
type ReconcileResponse struct {
	Success      bool                         `json:"success"`
	OrderNumber  string                       `json:"order_number"`
	SupplierCode string                       `json:"supplier_code"`
	Data         *entity.ReconciliationReport `json:"data"`
}

package dto

import "github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"

// DiscoveredSupplier candidato con sus OCs activas.
type DiscoveredSupplier struct {
	entity.SupplierCandidate
	Orders            []entity.PurchaseOrderSummary `json:"orders"`
	HasActiveOrders   bool                          `json:"has_active_orders"`
	OrdersWithPending int                           `json:"orders_with_pending"`
	Recommended       bool                          `json:"recommended"`
}

// DiscoveryResponse proveedores candidatos para un documento y sus OCs.
type DiscoveryResponse struct {
	Success        bool                 `json:"success"`
	Message        string               `json:"message,omitempty"`
	ExtractedName  string               `json:"extracted_name"`
	ExtractedTaxID string               `json:"extracted_tax_id"`
	MatchKind      entity.MatchKind     `json:"match_kind,omitempty"`
	Suppliers      []DiscoveredSupplier `json:"suppliers"`
	Warnings       []string             `json:"warnings,omitempty"`
}

// SupplierSearchResponse búsqueda manual por nombre.
type SupplierSearchResponse struct {
	Query      string                     `json:"query"`
	Candidates []entity.SupplierCandidate `json:"candidates"`
}

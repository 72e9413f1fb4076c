package ingestion

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/dto"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/ports"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/purchasing"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/supplier"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
)

// Pipeline orquesta extractor, identificación, OCs y coordinador para un documento.
type Pipeline struct {
	extractor ports.InvoiceExtractor
	matcher   *supplier.Matcher
	orders    *purchasing.Resolver
	coord     *Coordinator
	log       zerolog.Logger
}

// NewPipeline construye el pipeline.
func NewPipeline(
	extractor ports.InvoiceExtractor,
	matcher *supplier.Matcher,
	orders *purchasing.Resolver,
	coord *Coordinator,
	log zerolog.Logger,
) *Pipeline {
	return &Pipeline{extractor: extractor, matcher: matcher, orders: orders, coord: coord, log: log}
}

// ExtractAndValidate extrae el comprobante y corrige la identidad del emisor contra el maestro.
func (p *Pipeline) ExtractAndValidate(ctx context.Context, doc ports.Document) (*entity.InvoiceExtraction, error) {
	log := p.log.With().Str("file", doc.Name).Logger()
	log.Info().Str("mime", doc.MIMEType).Int("bytes", len(doc.Data)).Msg("extrayendo comprobante")

	inv, err := p.extractor.Extract(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailure, err)
	}
	if err := p.matcher.ValidateIdentity(ctx, &inv.Header.Supplier); err != nil {
		return nil, err
	}

	h := inv.Header
	log.Info().
		Str("supplier", h.Supplier.Name).
		Str("tax_id", h.Supplier.TaxID).
		Str("document", h.DocumentType+" "+h.EmissionPoint+"-"+h.Number).
		Str("total", h.Totals.Total.StringFixed(2)).
		Int("items", len(inv.Items)).
		Msg("datos extraídos")
	if h.LinkedOrder.Number != "" {
		log.Info().Str("order", h.LinkedOrder.Number).Msg("OC impresa en el comprobante")
	}
	return inv, nil
}

// ProcessDocument flujo completo. El número de OC leído por el modelo se ignora: siempre
// se listan las OCs activas del proveedor resuelto.
func (p *Pipeline) ProcessDocument(ctx context.Context, doc ports.Document) *dto.ProcessResponse {
	out := &dto.ProcessResponse{Errors: []string{}}

	inv, err := p.ExtractAndValidate(ctx, doc)
	if err != nil {
		p.log.Error().Err(err).Str("file", doc.Name).Msg("extracción")
		out.Err = err
		out.Errors = append(out.Errors, err.Error())
		return out
	}
	out.Extraction = inv

	h := inv.Header.Supplier
	if cand, err := p.matcher.Resolve(ctx, h.TaxID, h.Name); err == nil {
		orders, err := p.orders.ActiveOrdersForSupplier(ctx, cand.Code)
		if err != nil {
			p.log.Warn().Err(err).Str("supplier_code", cand.Code).Msg("OCs activas")
		}
		out.ActiveOrders = orders
		if len(orders) > 0 {
			p.log.Warn().Int("orders", len(orders)).Msg("match automático de ítems contra OC no implementado")
		}
	} else {
		p.log.Warn().Err(err).Msg("no se pudo identificar al proveedor para buscar OCs")
	}

	res := p.coord.Process(ctx, inv, out.Reconciliation)
	out.Database = res
	out.Success = res.Success
	if !res.Success {
		out.Err = res.Err
		out.Errors = append(out.Errors, res.Message)
		return out
	}
	out.Errors = append(out.Errors, res.Errors...)
	return out
}

// Discover extrae el emisor del documento y devuelve proveedores candidatos con sus OCs.
// Con CUIT exacto se recomienda el primero; por nombre, el primero con OCs pendientes.
func (p *Pipeline) Discover(ctx context.Context, doc ports.Document) (*dto.DiscoveryResponse, error) {
	inv, err := p.extractor.Extract(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailure, err)
	}
	name := strings.TrimSpace(inv.Header.Supplier.Name)
	taxID := strings.TrimSpace(inv.Header.Supplier.TaxID)
	if name == "" && taxID == "" {
		return nil, fmt.Errorf("%w: no se pudo extraer el proveedor", domain.ErrExtractionFailure)
	}
	return p.DiscoverSupplier(ctx, name, taxID), nil
}

// DiscoverSupplier versión sin extractor: parte del nombre y CUIT ya conocidos.
func (p *Pipeline) DiscoverSupplier(ctx context.Context, name, taxID string) *dto.DiscoveryResponse {
	out := &dto.DiscoveryResponse{ExtractedName: name, ExtractedTaxID: taxID, Suppliers: []dto.DiscoveredSupplier{}}

	var found []entity.SupplierCandidate
	if code, ok := p.matcher.ResolveByTaxID(ctx, taxID); ok {
		if c, ok := p.matcher.Candidate(ctx, code); ok {
			found = append(found, *c)
			out.MatchKind = entity.MatchExactTaxID
		}
	}
	if len(found) == 0 {
		found = p.matcher.ResolveByName(ctx, name)
		out.MatchKind = entity.MatchNameSimilar
	}
	if len(found) == 0 {
		out.MatchKind = ""
		out.Message = fmt.Sprintf("No se encontraron proveedores con CUIT %q o nombre %q", taxID, name)
		return out
	}

	out.Success = true
	for _, c := range found {
		orders, err := p.orders.ActiveOrdersForSupplier(ctx, c.Code)
		if err != nil {
			out.Warnings = append(out.Warnings, err.Error())
		}
		if orders == nil {
			orders = []entity.PurchaseOrderSummary{}
		}
		ds := dto.DiscoveredSupplier{SupplierCandidate: c, Orders: orders, HasActiveOrders: len(orders) > 0}
		for _, o := range orders {
			if o.PendingItemCount > 0 {
				ds.OrdersWithPending++
			}
		}
		out.Suppliers = append(out.Suppliers, ds)
	}

	switch out.MatchKind {
	case entity.MatchExactTaxID:
		out.Suppliers[0].Recommended = true
	default:
		for i := range out.Suppliers {
			if out.Suppliers[i].OrdersWithPending > 0 {
				out.Suppliers[i].Recommended = true
				break
			}
		}
	}
	return out
}

// ReconcileOrder concilia el documento contra la OC indicada o, si falta, la impresa en el comprobante.
func (p *Pipeline) ReconcileOrder(ctx context.Context, doc ports.Document, orderNumber string) (*dto.ReconcileResponse, error) {
	nro := strings.TrimSpace(orderNumber)
	if nro == "" {
		inv, err := p.extractor.Extract(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailure, err)
		}
		nro = strings.TrimSpace(inv.Header.LinkedOrder.Number)
	}
	if nro == "" {
		return nil, fmt.Errorf("%w: no se encontró número de OC en el comprobante", domain.ErrInvalidInput)
	}

	code, err := p.orders.VerifyOrder(ctx, nro)
	if err != nil {
		return nil, err
	}
	items, err := p.orders.OrderLineItems(ctx, nro)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: OC %s sin ítems", domain.ErrOrderNotFound, nro)
	}

	rep, err := p.extractor.Reconcile(ctx, doc, items)
	if err != nil {
		return nil, fmt.Errorf("%w: conciliación: %v", domain.ErrExtractionFailure, err)
	}
	if rep.OrderNumber == "" {
		rep.OrderNumber = nro
	}
	log := p.log.With().Str("order", nro).Logger()
	if rep.Matched {
		log.Info().Int("items_ok", len(rep.MatchedItems)).Msg("conciliación exitosa")
	} else {
		for _, d := range rep.Discrepancies {
			log.Warn().Str("kind", d.Kind).Str("detail", d.Detail).Msg("discrepancia")
		}
	}
	return &dto.ReconcileResponse{Success: true, OrderNumber: nro, SupplierCode: code, Data: rep}, nil
}

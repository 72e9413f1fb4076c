package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/dto"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/ingestion"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/purchasing"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/supplier"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
)

// SupplierHandler consultas de proveedores y órdenes de compra.
type SupplierHandler struct {
	pipeline *ingestion.Pipeline
	matcher  *supplier.Matcher
	orders   *purchasing.Resolver
}

// NewSupplierHandler construye el handler.
func NewSupplierHandler(p *ingestion.Pipeline, m *supplier.Matcher, o *purchasing.Resolver) *SupplierHandler {
	return &SupplierHandler{pipeline: p, matcher: m, orders: o}
}

// Discover godoc
// @Summary      Descubrir proveedor y OCs de un comprobante
// @Description  Con archivo extrae el emisor; sin archivo usa los campos name y tax_id.
// @Tags         suppliers
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file    formData  file    false  "PDF o imagen del comprobante"
// @Param        name    formData  string  false  "Razón social"
// @Param        tax_id  formData  string  false  "CUIT"
// @Success      200     {object}  dto.DiscoveryResponse
// @Failure      404     {object}  dto.DiscoveryResponse
// @Router       /api/suppliers/discover [post]
func (h *SupplierHandler) Discover(c *fiber.Ctx) error {
	var out *dto.DiscoveryResponse
	if _, err := c.FormFile("file"); err == nil {
		doc, err := documentFrom(c)
		if err != nil {
			return writeError(c, err)
		}
		if out, err = h.pipeline.Discover(c.Context(), doc); err != nil {
			return writeError(c, err)
		}
	} else {
		name := strings.TrimSpace(c.FormValue("name"))
		taxID := strings.TrimSpace(c.FormValue("tax_id"))
		if name == "" && taxID == "" {
			return writeError(c, fmt.Errorf("%w: se requiere 'file', 'name' o 'tax_id'", domain.ErrInvalidInput))
		}
		out = h.pipeline.DiscoverSupplier(c.Context(), name, taxID)
	}
	if !out.Success {
		return c.Status(fiber.StatusNotFound).JSON(out)
	}
	return c.JSON(out)
}

// Search busca proveedores por nombre.
// GET /api/suppliers/search?name=
func (h *SupplierHandler) Search(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetro name requerido"})
	}
	found := h.matcher.ResolveByName(c.Context(), name)
	if found == nil {
		found = []entity.SupplierCandidate{}
	}
	return c.JSON(dto.SupplierSearchResponse{Query: name, Candidates: found})
}

// Orders OCs activas del proveedor.
// GET /api/suppliers/:code/orders
func (h *SupplierHandler) Orders(c *fiber.Ctx) error {
	orders, err := h.orders.ActiveOrdersForSupplier(c.Context(), c.Params("code"))
	if err != nil {
		return writeError(c, err)
	}
	if orders == nil {
		orders = []entity.PurchaseOrderSummary{}
	}
	return c.JSON(orders)
}

// OrderItems líneas no anuladas de la OC.
// GET /api/orders/:number/items
func (h *SupplierHandler) OrderItems(c *fiber.Ctx) error {
	nro := c.Params("number")
	items, err := h.orders.OrderLineItems(c.Context(), nro)
	if err != nil {
		return writeError(c, err)
	}
	if len(items) == 0 {
		return writeError(c, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, nro))
	}
	return c.JSON(items)
}

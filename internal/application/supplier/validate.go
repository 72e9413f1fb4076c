package supplier

import (
	"context"
	"fmt"
	"strings"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
	"github.com/ramiroschettino/Procesador-de-factura-autom/pkg/cuit"
)

// ValidateIdentity controla la identidad del emisor recién extraída y la corrige desde el maestro:
//
//   - sin CUIT pero con nombre: se completa CUIT y código con el mejor candidato por nombre;
//   - CUIT con formato inválido: falla;
//   - CUIT propio: se reemplaza por el del mejor candidato por nombre, o falla si no hay.
//
// Los errores envuelven domain.ErrExtractionFailure.
func (m *Matcher) ValidateIdentity(ctx context.Context, s *entity.ExtractedSupplier) error {
	name := strings.TrimSpace(s.Name)
	taxID := normalizeNull(s.TaxID)

	if taxID == "" && name != "" {
		m.log.Warn().Str("name", name).Msg("comprobante sin CUIT, se busca el proveedor por nombre")
		best, ok := m.best(ctx, name)
		if !ok {
			return fmt.Errorf("%w: %w: sin CUIT y sin proveedor similar a %q",
				domain.ErrExtractionFailure, domain.ErrIdentityUnresolved, name)
		}
		s.TaxID = best.TaxID
		s.SystemCode = best.Code
		taxID = strings.TrimSpace(best.TaxID)
	}
	if taxID == "" {
		return fmt.Errorf("%w: %w: no se pudo obtener el CUIT del proveedor",
			domain.ErrExtractionFailure, domain.ErrInvalidTaxID)
	}

	clean, err := cuit.Validate(taxID)
	if err != nil {
		return fmt.Errorf("%w: %w: %v", domain.ErrExtractionFailure, domain.ErrInvalidTaxID, err)
	}
	s.TaxID = clean

	if !m.IsOwnTaxID(clean) {
		return nil
	}
	m.log.Warn().Str("tax_id", clean).Msg("se extrajo el CUIT propio como proveedor, se recupera por nombre")
	if name == "" {
		return fmt.Errorf("%w: %w: sin nombre para recuperar el proveedor", domain.ErrExtractionFailure, domain.ErrOwnTaxID)
	}
	best, ok := m.best(ctx, name)
	if !ok {
		return fmt.Errorf("%w: %w: sin proveedor similar a %q", domain.ErrExtractionFailure, domain.ErrOwnTaxID, name)
	}
	s.TaxID = cuit.Clean(best.TaxID)
	s.SystemCode = best.Code
	m.log.Info().Str("supplier_code", best.Code).Str("tax_id", s.TaxID).Msg("proveedor corregido desde el maestro")
	return nil
}

func (m *Matcher) best(ctx context.Context, name string) (entity.SupplierCandidate, bool) {
	found := m.ResolveByName(ctx, name)
	if len(found) == 0 {
		return entity.SupplierCandidate{}, false
	}
	return found[0], true
}

// normalizeNull trata "null" literal del modelo como vacío.
func normalizeNull(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "null") {
		return ""
	}
	return s
}


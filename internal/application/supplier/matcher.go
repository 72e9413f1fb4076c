// Package supplier resuelve el proveedor de un comprobante contra el maestro de personas.
package supplier

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/matching"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/repository"
	"github.com/ramiroschettino/Procesador-de-factura-autom/pkg/cuit"
)

// Config reglas de identificación.
type Config struct {
	OwnTaxIDs          []string // CUITs de la empresa receptora
	AllowedPersonTypes []string // TIPO_PERSONA admitidos
}

// Matcher identifica proveedores por CUIT (autoritativo) o por similitud de razón social.
// Las lecturas nunca devuelven error: una falla se registra y equivale a "sin candidatos".
type Matcher struct {
	repo repository.SupplierRepository
	cfg  Config
	log  zerolog.Logger
}

// NewMatcher construye el matcher.
func NewMatcher(repo repository.SupplierRepository, cfg Config, log zerolog.Logger) *Matcher {
	return &Matcher{repo: repo, cfg: cfg, log: log}
}

// With devuelve un matcher que lee con repo (p. ej. atado a una transacción).
func (m *Matcher) With(repo repository.SupplierRepository) *Matcher {
	c := *m
	c.repo = repo
	return &c
}

// IsOwnTaxID indica si el CUIT pertenece a la empresa receptora.
func (m *Matcher) IsOwnTaxID(taxID string) bool {
	return cuit.IsOwn(taxID, m.cfg.OwnTaxIDs)
}

// ResolveByTaxID devuelve el código del proveedor activo con ese CUIT/CUIL.
// Un CUIT propio nunca resuelve.
func (m *Matcher) ResolveByTaxID(ctx context.Context, taxID string) (string, bool) {
	id := cuit.Clean(strings.TrimSpace(taxID))
	if id == "" {
		return "", false
	}
	if m.IsOwnTaxID(id) {
		m.log.Warn().Str("tax_id", id).Msg("CUIT propio descartado como proveedor")
		return "", false
	}
	code, err := m.repo.FindCodeByTaxID(ctx, id, m.cfg.AllowedPersonTypes)
	if err != nil {
		m.log.Error().Err(err).Str("tax_id", id).Msg("búsqueda de proveedor por CUIT")
		return "", false
	}
	code = strings.TrimSpace(code)
	if code == "" {
		m.log.Info().Str("tax_id", id).Msg("proveedor no encontrado por CUIT")
		return "", false
	}
	m.log.Info().Str("tax_id", id).Str("supplier_code", code).Msg("proveedor encontrado por CUIT")
	return code, true
}

// ResolveByName devuelve hasta 5 candidatos por similitud; si no hay, prueba con la primera
// palabra (más de 3 caracteres) y devuelve hasta 3 con puntaje 40.
func (m *Matcher) ResolveByName(ctx context.Context, name string) []entity.SupplierCandidate {
	q, ok := matching.NewNameQuery(name)
	if !ok {
		return nil
	}
	log := m.log.With().Str("name", q.Normalized).Logger()

	found, err := m.repo.SearchByName(ctx, q, m.cfg.AllowedPersonTypes, matching.MaxNameCandidates)
	if err != nil {
		log.Error().Err(err).Msg("búsqueda de proveedor por nombre")
		return nil
	}
	if len(found) > 0 {
		for _, c := range found {
			log.Debug().Str("supplier_code", c.Code).Int("score", c.MatchScore).Str("legal_name", c.LegalName).Msg("candidato")
		}
		log.Info().Int("candidates", len(found)).Msg("proveedores similares encontrados")
		return found
	}

	kw, ok := q.Keyword()
	if !ok {
		log.Warn().Msg("sin proveedores similares")
		return nil
	}
	found, err = m.repo.SearchByKeyword(ctx, kw, m.cfg.AllowedPersonTypes, matching.MaxKeywordCandidates)
	if err != nil {
		log.Error().Err(err).Str("keyword", q.Tokens[0]).Msg("búsqueda por palabra clave")
		return nil
	}
	log.Info().Str("keyword", q.Tokens[0]).Int("candidates", len(found)).Msg("búsqueda por palabra clave")
	return found
}

// Candidate carga el proveedor resuelto por CUIT como candidato exacto (puntaje 100).
func (m *Matcher) Candidate(ctx context.Context, code string) (*entity.SupplierCandidate, bool) {
	s, err := m.repo.GetByCode(ctx, code)
	if err != nil {
		m.log.Error().Err(err).Str("supplier_code", code).Msg("leer proveedor")
		return nil, false
	}
	if s == nil {
		return nil, false
	}
	c := s.Candidate(entity.ScoreExactTaxID, entity.MatchExactTaxID)
	return &c, true
}

// Resolve aplica la prioridad CUIT -> nombre y devuelve el mejor candidato.
// El CUIT exacto siempre gana; el nombre sólo se consulta si el CUIT no resolvió.
func (m *Matcher) Resolve(ctx context.Context, taxID, name string) (*entity.SupplierCandidate, error) {
	if code, ok := m.ResolveByTaxID(ctx, taxID); ok {
		if c, ok := m.Candidate(ctx, code); ok {
			return c, nil
		}
		return &entity.SupplierCandidate{Code: code, MatchScore: entity.ScoreExactTaxID, MatchKind: entity.MatchExactTaxID}, nil
	}
	found := m.ResolveByName(ctx, name)
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: CUIT %q, nombre %q", domain.ErrIdentityUnresolved, taxID, name)
	}
	if len(found) > 1 {
		m.log.Warn().Int("candidates", len(found)).Str("supplier_code", found[0].Code).
			Msg("varios proveedores similares, se toma el de mayor puntaje")
	}
	best := found[0]
	return &best, nil
}

// Verify exige documentación completa y que el proveedor no esté dado de baja.
func (m *Matcher) Verify(ctx context.Context, code string) error {
	s, err := m.repo.GetByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("%w: verificar proveedor %s: %v", domain.ErrPersistenceFailure, code, err)
	}
	if s == nil {
		return fmt.Errorf("%w: código %s", domain.ErrSupplierNotFound, code)
	}
	if !s.DocumentationComplete {
		return &domain.SupplierInvalidError{SupplierCode: code, Reason: domain.ReasonIncompleteDocumentation}
	}
	if s.Status == entity.SupplierClosed {
		return &domain.SupplierInvalidError{SupplierCode: code, Reason: domain.ReasonSupplierClosed}
	}
	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/matching"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo lectura de ismst_personas (usable con pool o tx).
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

const supplierColumns = `
	trim(p.cod), coalesce(p.nombre, ''), coalesce(p.nombre_corto, ''),
	coalesce(trim(p.cuit), ''), coalesce(trim(p.cuil), ''), coalesce(trim(p.estado), ''),
	coalesce(upper(trim(p.docum_completa)), '')`

// FindCodeByTaxID busca por CUIT o CUIL, con o sin guiones en la columna.
func (r *SupplierRepo) FindCodeByTaxID(ctx context.Context, taxID string, personTypes []string) (string, error) {
	query := `
		SELECT trim(p.cod)
		FROM ismst_personas p
		WHERE (trim(p.cuit) = $1 OR trim(p.cuil) = $1
		       OR replace(trim(p.cuit), '-', '') = $1 OR replace(trim(p.cuil), '-', '') = $1)
		  AND upper(trim(p.estado)) = 'ACTIVO'
		  AND ` + personTypeFilter("$2") + `
		ORDER BY p.cod
		LIMIT 1`
	var code string
	err := r.q.QueryRow(ctx, query, taxID, personTypes).Scan(&code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("find supplier by tax id: %w", err)
	}
	return code, nil
}

// GetByCode obtiene el proveedor por código.
func (r *SupplierRepo) GetByCode(ctx context.Context, code string) (*entity.Supplier, error) {
	query := `
		SELECT ` + supplierColumns + `, coalesce(trim(p.tipo_persona), '')
		FROM ismst_personas p
		WHERE trim(p.cod) = $1`
	var (
		s      entity.Supplier
		status string
		docs   string
	)
	err := r.q.QueryRow(ctx, query, strings.TrimSpace(code)).Scan(
		&s.Code, &s.LegalName, &s.ShortName, &s.TaxID, &s.PersonalTaxID, &status, &docs, &s.PersonType,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	s.Status = entity.SupplierStatusFromERP(status)
	s.DocumentationComplete = docs == "SI"
	return &s, nil
}

// SearchByName calcula el puntaje en la misma consulta; los patrones ya vienen escapados.
func (r *SupplierRepo) SearchByName(ctx context.Context, q matching.NameQuery, personTypes []string, limit int) ([]entity.SupplierCandidate, error) {
	legal, short := normalized("p.nombre"), normalized("p.nombre_corto")
	query := `
		SELECT ` + supplierColumns + `,
			CASE
				WHEN ` + legal + ` = $1 THEN 100
				WHEN ` + legal + ` LIKE $2 THEN 90
				WHEN ` + short + ` LIKE $2 THEN 85
				WHEN ` + legal + ` LIKE $3 THEN 70
				ELSE 50
			END AS score
		FROM ismst_personas p
		WHERE upper(trim(p.estado)) = 'ACTIVO'
		  AND ` + personTypeFilter("$4") + `
		  AND (` + legal + ` LIKE $2 OR ` + legal + ` LIKE $3 OR ` + short + ` LIKE $2)
		ORDER BY score DESC, p.nombre
		LIMIT $5`
	rows, err := r.q.Query(ctx, query, q.Normalized, q.Full, q.Short, personTypes, limit)
	if err != nil {
		return nil, fmt.Errorf("search suppliers by name: %w", err)
	}
	return scanCandidates(rows, entity.MatchNameSimilar)
}

// SearchByKeyword puntaje fijo 40.
func (r *SupplierRepo) SearchByKeyword(ctx context.Context, pattern string, personTypes []string, limit int) ([]entity.SupplierCandidate, error) {
	query := `
		SELECT ` + supplierColumns + `, 40 AS score
		FROM ismst_personas p
		WHERE upper(trim(p.estado)) = 'ACTIVO'
		  AND ` + personTypeFilter("$2") + `
		  AND ` + normalized("p.nombre") + ` LIKE $1
		ORDER BY p.nombre
		LIMIT $3`
	rows, err := r.q.Query(ctx, query, pattern, personTypes, limit)
	if err != nil {
		return nil, fmt.Errorf("search suppliers by keyword: %w", err)
	}
	return scanCandidates(rows, entity.MatchKeyword)
}

// ── helpers ─────────────────────────────────────────────────────────

func scanCandidates(rows pgx.Rows, kind entity.MatchKind) ([]entity.SupplierCandidate, error) {
	defer rows.Close()
	var list []entity.SupplierCandidate
	for rows.Next() {
		var (
			c      entity.SupplierCandidate
			status string
			docs   string
		)
		if err := rows.Scan(&c.Code, &c.LegalName, &c.ShortName, &c.TaxID, &c.PersonalTaxID,
			&status, &docs, &c.MatchScore); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		c.Status = entity.SupplierStatusFromERP(status)
		c.DocumentationComplete = docs == "SI"
		c.MatchKind = kind
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suppliers: %w", err)
	}
	return list, nil
}

package repository

import (
	"context"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/matching"
)

// SupplierRepository puerto de lectura del maestro de personas (ISMST_PERSONAS).
// Todas las consultas comparan con TRIM: las columnas del ERP son de ancho fijo.
// personTypes son los TIPO_PERSONA admitidos; NULL o blanco siempre se admite.
type SupplierRepository interface {
	// FindCodeByTaxID busca un proveedor ACTIVO cuyo CUIT o CUIL coincida. "" si no hay.
	FindCodeByTaxID(ctx context.Context, taxID string, personTypes []string) (string, error)

	// GetByCode devuelve nil, nil si el código no existe.
	GetByCode(ctx context.Context, code string) (*entity.Supplier, error)

	// SearchByName devuelve proveedores activos que cumplen q.Matches, con su puntaje,
	// ordenados por puntaje descendente y razón social, recortados a limit.
	SearchByName(ctx context.Context, q matching.NameQuery, personTypes []string, limit int) ([]entity.SupplierCandidate, error)

	// SearchByKeyword búsqueda de último recurso: razón social LIKE pattern, puntaje fijo 40.
	SearchByKeyword(ctx context.Context, pattern string, personTypes []string, limit int) ([]entity.SupplierCandidate, error)
}

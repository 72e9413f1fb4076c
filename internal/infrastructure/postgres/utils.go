package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier lo comparten *pgxpool.Pool y pgx.Tx: los repos funcionan igual dentro o fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// accentFrom/accentTo reemplazan vocales acentuadas y Ñ con translate(), equivalente
// en SQL a matching.NormalizeName para el alfabeto del maestro.
const (
	accentFrom = "ÁÉÍÓÚÀÈÌÒÙÄËÏÖÜÂÊÎÔÛÑÇ"
	accentTo   = "AEIOUAEIOUAEIOUAEIOUNC"
)

// normalized expresión SQL de un nombre comparable con los patrones de matching.
// Los espacios repetidos se reducen a uno, como en NormalizeName.
func normalized(col string) string {
	return "translate(regexp_replace(upper(trim(coalesce(" + col + ", ''))), '\\s+', ' ', 'g'), '" +
		accentFrom + "', '" + accentTo + "')"
}

// personTypeFilter condición sobre tipo_persona; el parámetro $n es un text[].
func personTypeFilter(param string) string {
	return "(trim(p.tipo_persona) = ANY(" + param + "::text[]) OR p.tipo_persona IS NULL OR trim(p.tipo_persona) = '')"
}

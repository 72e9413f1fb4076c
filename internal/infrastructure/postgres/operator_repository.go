package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/repository"
)

var _ repository.OperatorRepository = (*OperatorRepo)(nil)

// OperatorRepo operadores de la aplicación en app_operadores (tabla propia, fuera del esquema del ERP).
type OperatorRepo struct {
	q Querier
}

// NewOperatorRepository construye el adaptador de persistencia para operadores.
func NewOperatorRepository(q Querier) *OperatorRepo {
	return &OperatorRepo{q: q}
}

// Create persiste un nuevo operador.
func (r *OperatorRepo) Create(ctx context.Context, op *entity.Operator) error {
	query := `
		INSERT INTO app_operadores (id, email, password_hash, nombre, rol, activo, created_at)
		VALUES ($1, lower($2), $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		op.ID, op.Email, op.PasswordHash, op.Name, op.Role, op.Active, op.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOperatorExists
		}
		return fmt.Errorf("insert operador: %w", err)
	}
	return nil
}

// FindByEmail obtiene un operador por email.
func (r *OperatorRepo) FindByEmail(ctx context.Context, email string) (*entity.Operator, error) {
	query := `
		SELECT id, email, password_hash, nombre, rol, activo, created_at
		FROM app_operadores WHERE email = lower($1)`
	var op entity.Operator
	err := r.q.QueryRow(ctx, query, email).Scan(
		&op.ID, &op.Email, &op.PasswordHash, &op.Name, &op.Role, &op.Active, &op.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get operador by email: %w", err)
	}
	return &op, nil
}

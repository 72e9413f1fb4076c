package repository

import (
	"context"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
)

// OperatorRepository puerto de persistencia de operadores.
type OperatorRepository interface {
	// Create devuelve domain.ErrOperatorExists si el email ya está registrado.
	Create(ctx context.Context, op *entity.Operator) error

	// FindByEmail compara sin distinguir mayúsculas. nil, nil si no existe.
	FindByEmail(ctx context.Context, email string) (*entity.Operator, error)
}

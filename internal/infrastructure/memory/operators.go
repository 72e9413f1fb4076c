package memory

import (
	"context"
	"strings"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/repository"
)

var _ repository.OperatorRepository = (*Store)(nil)

func (s *Store) Create(_ context.Context, op *entity.Operator) error {
	key := strings.ToLower(strings.TrimSpace(op.Email))
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.operators[key]; ok {
		return domain.ErrOperatorExists
	}
	s.operators[key] = *op
	return nil
}

func (s *Store) FindByEmail(_ context.Context, email string) (*entity.Operator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	op, ok := s.operators[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, nil
	}
	return &op, nil
}

// Package auth registra operadores y emite los JWT con los que consumen la API.
package auth

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/dto"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/repository"
	"github.com/ramiroschettino/Procesador-de-factura-autom/pkg/jwt"
)

// minPasswordLength largo mínimo aceptado al registrar.
const minPasswordLength = 8

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
	Company    string // COMPANIA que viaja en el token
}

// Service casos de uso de autenticación: registro y login.
type Service struct {
	repo   repository.OperatorRepository
	jwtCfg JWTConfig
	log    zerolog.Logger
	now    func() time.Time
}

// NewService construye el servicio de auth.
func NewService(repo repository.OperatorRepository, jwtCfg JWTConfig, log zerolog.Logger) *Service {
	return &Service{repo: repo, jwtCfg: jwtCfg, log: log, now: time.Now}
}

// Register crea un operador: hashea la contraseña con bcrypt y persiste.
// Devuelve ErrOperatorExists si el email ya está registrado.
func (s *Service) Register(ctx context.Context, in dto.RegisterOperatorRequest) (*dto.OperatorResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: email %q", domain.ErrInvalidInput, in.Email)
	}
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, minPasswordLength)
	}
	role := in.Role
	if role == "" {
		role = jwt.RoleOperator
	}
	if !jwt.ValidRole(role) {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, role)
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrOperatorExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	op := &entity.Operator{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Active:       true,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, op); err != nil {
		return nil, err
	}
	s.log.Info().Str("operator_id", op.ID).Str("role", op.Role).Msg("operador registrado")
	return toOperatorResponse(op), nil
}

// Login verifica email/contraseña y devuelve el token junto con el operador.
// Email inexistente y contraseña errónea devuelven el mismo error.
func (s *Service) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	op, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !op.Active {
		return nil, domain.ErrOperatorDisabled
	}
	token, err := jwt.Generate(s.jwtCfg.Secret, s.jwtCfg.Issuer, jwt.Identity{
		UserID:  op.ID,
		Company: s.jwtCfg.Company,
		Role:    op.Role,
	}, s.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("operator_id", op.ID).Msg("login")
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: s.jwtCfg.ExpMinutes * 60,
		Operator:  *toOperatorResponse(op),
	}, nil
}

func toOperatorResponse(op *entity.Operator) *dto.OperatorResponse {
	return &dto.OperatorResponse{
		ID:        op.ID,
		Email:     op.Email,
		Name:      op.Name,
		Role:      op.Role,
		Active:    op.Active,
		CreatedAt: op.CreatedAt,
	}
}

package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/auth"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/dto"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain"
)

// AuthHandler login y alta de operadores.
type AuthHandler struct {
	svc *auth.Service
}

// NewAuthHandler construye el handler.
func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "Credenciales"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, fmt.Errorf("%w: cuerpo inválido", domain.ErrInvalidInput))
	}
	if in.Email == "" || in.Password == "" {
		return writeError(c, fmt.Errorf("%w: email y password son obligatorios", domain.ErrInvalidInput))
	}
	out, err := h.svc.Login(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Register godoc
// @Summary      Alta de operador
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterOperatorRequest  true  "Operador"
// @Success      201   {object}  dto.OperatorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/operators [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterOperatorRequest
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, fmt.Errorf("%w: cuerpo inválido", domain.ErrInvalidInput))
	}
	out, err := h.svc.Register(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	Logger(c).Info().Str("created_by", GetUserID(c)).Str("operator_id", out.ID).Msg("operador creado")
	return c.Status(fiber.StatusCreated).JSON(out)
}

package dto

import "time"

// LoginRequest cuerpo de POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse token Bearer y datos del operador.
type LoginResponse struct {
	Token     string           `json:"token"`
	ExpiresIn int              `json:"expires_in"` // segundos
	Operator  OperatorResponse `json:"operator"`
}

// RegisterOperatorRequest alta de operador (solo admin).
type RegisterOperatorRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// OperatorResponse operador sin el hash de contraseña.
type OperatorResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

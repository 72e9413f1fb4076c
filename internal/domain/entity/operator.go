package entity

import "time"

// Operator usuario de la aplicación (carga o consulta comprobantes). No pertenece al ERP.
type Operator struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Active       bool
	CreatedAt    time.Time
}

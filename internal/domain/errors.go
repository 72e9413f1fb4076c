package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")

	// Ingesta de comprobantes.
	ErrExtractionFailure   = errors.New("no se pudieron extraer datos del comprobante")
	ErrIdentityUnresolved  = errors.New("proveedor no identificado")
	ErrSupplierInvalid     = errors.New("proveedor no habilitado")
	ErrDuplicateDocument   = errors.New("comprobante ya registrado")
	ErrLedgerImbalance     = errors.New("asiento desbalanceado")
	ErrPersistenceFailure  = errors.New("error de persistencia")
	ErrFiscalPeriodMissing = errors.New("ejercicio contable no encontrado")

	// Órdenes de compra.
	ErrOrderNotFound = errors.New("orden de compra no encontrada")
	ErrOrderClosed   = errors.New("orden de compra cerrada")

	// Operadores.
	ErrOperatorExists     = errors.New("ya existe un operador con ese email")
	ErrInvalidCredentials = errors.New("email o contraseña incorrectos")
	ErrOperatorDisabled   = errors.New("operador deshabilitado")

	// Identificador tributario.
	ErrInvalidTaxID = errors.New("CUIT inválido")
	ErrOwnTaxID     = errors.New("CUIT propio detectado como proveedor")
)

// ErrSupplierNotFound alias usado por los lectores del maestro de personas.
var ErrSupplierNotFound = ErrIdentityUnresolved

// DuplicateDocumentError detalle del duplicado: número de archivo ya existente.
type DuplicateDocumentError struct {
	ArchiveID string
}

func (e *DuplicateDocumentError) Error() string {
	return fmt.Sprintf("%s (archivo %s)", ErrDuplicateDocument.Error(), e.ArchiveID)
}

func (e *DuplicateDocumentError) Unwrap() error { return ErrDuplicateDocument }

// SupplierInvalidError motivo por el que el proveedor no puede recibir comprobantes.
type SupplierInvalidError struct {
	SupplierCode string
	Reason       string
}

func (e *SupplierInvalidError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", ErrSupplierInvalid.Error(), e.Reason, e.SupplierCode)
}

func (e *SupplierInvalidError) Unwrap() error { return ErrSupplierInvalid }

// Motivos de SupplierInvalidError.
const (
	ReasonIncompleteDocumentation = "Documentación incompleta"
	ReasonSupplierClosed          = "Proveedor dado de baja"
)

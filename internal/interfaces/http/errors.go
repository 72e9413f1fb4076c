package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/dto"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain"
)

// statusFor traduce los errores de dominio a código HTTP y código de error.
// El orden importa: los errores de extracción envuelven el motivo concreto.
func statusFor(err error) (int, string) {
	switch {
	case err == nil:
		return fiber.StatusInternalServerError, "INTERNAL"
	case isTimeout(err):
		return fiber.StatusRequestTimeout, "TIMEOUT"
	case errors.Is(err, domain.ErrDuplicateDocument):
		return fiber.StatusConflict, "DUPLICATE_DOCUMENT"
	case errors.Is(err, domain.ErrSupplierInvalid):
		return fiber.StatusUnprocessableEntity, "SUPPLIER_INVALID"
	case errors.Is(err, domain.ErrLedgerImbalance):
		return fiber.StatusUnprocessableEntity, "LEDGER_IMBALANCE"
	case errors.Is(err, domain.ErrOrderClosed):
		return fiber.StatusConflict, "ORDER_CLOSED"
	case errors.Is(err, domain.ErrOrderNotFound):
		return fiber.StatusNotFound, "ORDER_NOT_FOUND"
	case errors.Is(err, domain.ErrOwnTaxID):
		return fiber.StatusUnprocessableEntity, "OWN_TAX_ID"
	case errors.Is(err, domain.ErrInvalidTaxID):
		return fiber.StatusUnprocessableEntity, "INVALID_TAX_ID"
	case errors.Is(err, domain.ErrIdentityUnresolved):
		return fiber.StatusNotFound, "SUPPLIER_NOT_FOUND"
	case errors.Is(err, domain.ErrExtractionFailure):
		return fiber.StatusUnprocessableEntity, "EXTRACTION_FAILED"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "INVALID_CREDENTIALS"
	case errors.Is(err, domain.ErrOperatorDisabled):
		return fiber.StatusForbidden, "OPERATOR_DISABLED"
	case errors.Is(err, domain.ErrOperatorExists):
		return fiber.StatusConflict, "OPERATOR_EXISTS"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

// writeError responde con dto.ErrorResponse y registra el error en el logger de la petición.
func writeError(c *fiber.Ctx, err error) error {
	status, code := statusFor(err)
	log := Logger(c)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("code", code).Msg("error interno")
	} else {
		log.Warn().Err(err).Str("code", code).Msg("petición rechazada")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

// isTimeout detecta errores de timeout/cancelación de contexto en el mensaje de error.
func isTimeout(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "deadline exceeded") ||
		strings.Contains(msg, "cancelación")
}

// Package ingestion integra comprobantes de proveedores en el ERP.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/accounting"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/dto"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/supplier"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/repository"
)

// Config datos fijos de la empresa receptora.
type Config struct {
	Company              string
	Receiver             string
	LedgerPostingEnabled bool
}

// Coordinator ejecuta la integración de un comprobante en una única transacción:
// proveedor -> validación -> duplicados -> número de archivo -> cabecera -> ítems ->
// impuestos -> commit. Ante cualquier error se revierte todo. El asiento, si está
// habilitado, va después en su propia transacción y nunca revierte el comprobante.
type Coordinator struct {
	tx      TxRunner
	matcher *supplier.Matcher
	ledger  *accounting.LedgerBuilder
	cfg     Config
	log     zerolog.Logger
	now     func() time.Time

	// mu serializa la numeración dentro del proceso; la base agrega su propio lock.
	mu sync.Mutex
}

// NewCoordinator construye el coordinador.
func NewCoordinator(tx TxRunner, matcher *supplier.Matcher, ledger *accounting.LedgerBuilder, cfg Config, log zerolog.Logger) *Coordinator {
	return &Coordinator{tx: tx, matcher: matcher, ledger: ledger, cfg: cfg, log: log, now: time.Now}
}

// SetClock reemplaza el reloj usado cuando falta la fecha de emisión (tests).
func (c *Coordinator) SetClock(now func() time.Time) { c.now = now }

// Process integra el comprobante. Nunca devuelve error: el resultado indica éxito o el motivo.
// La conciliación es informativa y no altera la integración.
func (c *Coordinator) Process(ctx context.Context, inv *entity.InvoiceExtraction, rec *entity.ReconciliationReport) *dto.ProcessResult {
	res := &dto.ProcessResult{Errors: []string{}}
	if inv == nil {
		return c.fail(res, fmt.Errorf("%w: comprobante vacío", domain.ErrInvalidInput))
	}
	if err := inv.Validate(); err != nil {
		return c.fail(res, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
	}

	h := inv.Header
	docType := entity.DocumentTypeCode(h.DocumentType)
	point := entity.EmissionPointCode(h.EmissionPoint)
	number := strings.TrimSpace(h.Number)
	log := c.log.With().Str("document_type", docType).Str("document", point+"-"+number).Logger()

	if rec != nil {
		log.Info().Bool("matched", rec.Matched).Str("order", rec.OrderNumber).
			Int("discrepancies", len(rec.Discrepancies)).Msg("conciliación adjunta")
	}

	emission, ok := entity.ParseDocumentDate(h.EmissionDate)
	if !ok {
		emission = c.now()
		log.Warn().Str("raw", h.EmissionDate).Msg("fecha de emisión ausente o inválida, se usa la fecha actual")
		res.Warnings = append(res.Warnings, "fecha de emisión ausente o inválida: se usó la fecha actual")
	}
	due, ok := entity.ParseDocumentDate(h.DueDate)
	if !ok {
		due = emission
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.tx.RunIngestion(ctx, func(
		supplierRepo repository.SupplierRepository,
		documentRepo repository.DocumentRepository,
		_ repository.JournalRepository,
		_ repository.FiscalPeriodRepository,
	) error {
		m := c.matcher.With(supplierRepo)

		cand, err := m.Resolve(ctx, h.Supplier.TaxID, h.Supplier.Name)
		if err != nil {
			return err
		}
		code := cand.Code
		log := log.With().Str("supplier_code", code).Logger()
		log.Info().Int("score", cand.MatchScore).Str("match", string(cand.MatchKind)).Msg("proveedor resuelto")

		if err := m.Verify(ctx, code); err != nil {
			return err
		}

		if err := documentRepo.LockNumbering(ctx); err != nil {
			return persistence("bloquear numeración", err)
		}

		key := entity.DocumentKey{
			Company:       c.cfg.Company,
			DocumentType:  docType,
			IssuerCode:    code,
			EmissionPoint: point,
			Number:        number,
		}
		existing, err := documentRepo.FindActiveDuplicate(ctx, key)
		if err != nil {
			return persistence("verificar duplicados", err)
		}
		if existing = strings.TrimSpace(existing); existing != "" {
			log.Warn().Str("archive_id", existing).Msg("comprobante ya registrado")
			return &domain.DuplicateDocumentError{ArchiveID: existing}
		}

		archive, err := documentRepo.NextArchiveID(ctx)
		if err != nil {
			return persistence("número de archivo", err)
		}
		log = log.With().Str("archive_id", archive).Logger()

		if err := documentRepo.InsertHeader(ctx, &entity.DocumentHeader{
			Key:          key,
			Receiver:     c.cfg.Receiver,
			EmissionDate: emission,
			DueDate:      due,
			Currency:     h.Currency,
			ExchangeRate: h.ExchangeRate,
			Total:        h.Totals.Total,
			ArchiveID:    archive,
		}); err != nil {
			return persistence("insertar cabecera", err)
		}

		for i, it := range inv.Items {
			if err := documentRepo.InsertItem(ctx, &entity.DocumentItem{
				Key:         key,
				Receiver:    c.cfg.Receiver,
				Line:        it.Line,
				Description: it.Description,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
			}); err != nil {
				return persistence(fmt.Sprintf("insertar ítem %d/%d", i+1, len(inv.Items)), err)
			}
		}

		for _, t := range inv.PostableTaxes() {
			if err := documentRepo.InsertTax(ctx, &entity.DocumentTax{
				Key:      key,
				Receiver: c.cfg.Receiver,
				Item:     0,
				TaxCode:  entity.TaxCode(t.Type),
				Amount:   t.Amount,
			}); err != nil {
				return persistence("insertar impuesto "+t.Type, err)
			}
		}

		res.SupplierCode = code
		res.ArchiveID = archive
		return nil
	})
	if err != nil {
		res.ArchiveID, res.SupplierCode = "", ""
		return c.fail(res, classify(err))
	}

	res.Success = true
	res.Message = "Factura guardada exitosamente - Archivo: " + res.ArchiveID
	log = log.With().Str("archive_id", res.ArchiveID).Str("supplier_code", res.SupplierCode).Logger()
	log.Info().Msg("comprobante integrado")

	if !c.cfg.LedgerPostingEnabled {
		log.Warn().Msg("registración contable deshabilitada, el asiento debe generarse manualmente")
		res.Warnings = append(res.Warnings, "asiento contable no generado: registración deshabilitada")
		return res
	}

	err = c.tx.RunIngestion(ctx, func(
		_ repository.SupplierRepository,
		_ repository.DocumentRepository,
		journalRepo repository.JournalRepository,
		periodRepo repository.FiscalPeriodRepository,
	) error {
		return c.post(ctx, log, journalRepo, periodRepo, inv, res.SupplierCode, number, emission, res)
	})
	if err != nil {
		err = classify(err)
		log.Error().Err(err).Msg("asiento revertido, el comprobante queda guardado")
		res.LedgerPosted, res.EntryNumber = false, 0
		res.LedgerErr = err
		res.Errors = append(res.Errors, "asiento contable no generado: "+err.Error())
		res.Message += " (SIN asiento contable)"
	}
	return res
}

// post genera el asiento sobre el comprobante ya confirmado. Sin ejercicio contable
// el asiento queda pendiente y se informa como advertencia.
func (c *Coordinator) post(
	ctx context.Context,
	log zerolog.Logger,
	journalRepo repository.JournalRepository,
	periodRepo repository.FiscalPeriodRepository,
	inv *entity.InvoiceExtraction,
	code, number string,
	emission time.Time,
	res *dto.ProcessResult,
) error {
	period, err := periodRepo.FindByDate(ctx, emission)
	if err != nil {
		return persistence("buscar ejercicio", err)
	}
	entry, unbooked, err := c.ledger.BuildEntry(ctx, journalRepo, inv, code, number, emission, period)
	res.UnbookedTaxes = unbooked
	if errors.Is(err, domain.ErrFiscalPeriodMissing) {
		log.Warn().Err(err).Msg("asiento no generado")
		res.Warnings = append(res.Warnings, "asiento contable no generado: "+err.Error())
		return nil
	}
	if err != nil {
		return err
	}
	res.LedgerPosted = true
	res.EntryNumber = entry.EntryNumber
	return nil
}

func (c *Coordinator) fail(res *dto.ProcessResult, err error) *dto.ProcessResult {
	c.log.Error().Err(err).Msg("integración revertida")
	res.Success = false
	res.Err = err
	res.Message = err.Error()
	res.Errors = append(res.Errors, err.Error())
	return res
}

// persistence conserva el duplicado detectado por la constraint única de la base.
func persistence(op string, err error) error {
	if errors.Is(err, domain.ErrDuplicateDocument) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrPersistenceFailure, op, err)
}

// classify deja pasar los errores de dominio y trata el resto (begin/commit) como persistencia.
func classify(err error) error {
	for _, known := range []error{
		domain.ErrInvalidInput,
		domain.ErrIdentityUnresolved,
		domain.ErrSupplierInvalid,
		domain.ErrDuplicateDocument,
		domain.ErrLedgerImbalance,
		domain.ErrPersistenceFailure,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
}

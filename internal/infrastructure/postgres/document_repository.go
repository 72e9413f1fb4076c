package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// numberingLock clave del advisory lock que serializa duplicados y numeración de archivos.
const numberingLock int64 = 0x46414354

// DocumentRepo escritura de ismst_documentos_cab, _item e ismsv_impuestos_documento.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Debe recibir una tx.
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

// LockNumbering toma el lock hasta el fin de la transacción.
func (r *DocumentRepo) LockNumbering(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, numberingLock); err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}
	return nil
}

// FindActiveDuplicate compara con trim: las columnas del ERP vienen rellenas.
func (r *DocumentRepo) FindActiveDuplicate(ctx context.Context, key entity.DocumentKey) (string, error) {
	query := `
		SELECT trim(d.nro_archivo)
		FROM ismst_documentos_cab d
		WHERE trim(d.emisor) = trim($1)
		  AND trim(d.tipo) = trim($2)
		  AND trim(d.punto_emision) = trim($3)
		  AND trim(d.numero) = trim($4)
		  AND upper(trim(d.anulado)) = 'NO'
		LIMIT 1`
	var archive string
	err := r.q.QueryRow(ctx, query, key.IssuerCode, key.DocumentType, key.EmissionPoint, key.Number).Scan(&archive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("find duplicate document: %w", err)
	}
	return archive, nil
}

// NextArchiveID ignora valores no numéricos de nro_archivo.
func (r *DocumentRepo) NextArchiveID(ctx context.Context) (string, error) {
	query := `
		SELECT coalesce(max(CASE WHEN trim(d.nro_archivo) ~ '^[0-9]+$' THEN trim(d.nro_archivo)::bigint END), 0) + 1
		FROM ismst_documentos_cab d`
	var next int64
	if err := r.q.QueryRow(ctx, query).Scan(&next); err != nil {
		return "", fmt.Errorf("next archive id: %w", err)
	}
	return strconv.FormatInt(next, 10), nil
}

// InsertHeader alta de cabecera, siempre no anulada. Si el índice único detecta un
// duplicado que la verificación previa no vio, vuelve al savepoint e informa el archivo existente.
func (r *DocumentRepo) InsertHeader(ctx context.Context, h *entity.DocumentHeader) error {
	if _, err := r.q.Exec(ctx, `SAVEPOINT cabecera`); err != nil {
		return fmt.Errorf("savepoint cabecera: %w", err)
	}
	query := `
		INSERT INTO ismst_documentos_cab (
			compania, tipo, numero, emisor, receptor, punto_emision, fecha, fecha_pago_cobro,
			moneda, tipo_cambio, monto_total_final, nro_archivo, anulado)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 'NO')`
	_, err := r.q.Exec(ctx, query,
		h.Key.Company, h.Key.DocumentType, h.Key.Number, h.Key.IssuerCode, h.Receiver, h.Key.EmissionPoint,
		h.EmissionDate, h.DueDate, h.Currency, h.ExchangeRate, h.Total, h.ArchiveID,
	)
	if err == nil {
		if _, err := r.q.Exec(ctx, `RELEASE SAVEPOINT cabecera`); err != nil {
			return fmt.Errorf("release savepoint cabecera: %w", err)
		}
		return nil
	}
	if !isUniqueViolation(err) {
		return fmt.Errorf("insert document header: %w", err)
	}
	if _, rbErr := r.q.Exec(ctx, `ROLLBACK TO SAVEPOINT cabecera`); rbErr != nil {
		return fmt.Errorf("%w: %s-%s", domain.ErrDuplicateDocument, h.Key.EmissionPoint, h.Key.Number)
	}
	archive, findErr := r.FindActiveDuplicate(ctx, h.Key)
	if findErr != nil || archive == "" {
		return fmt.Errorf("%w: %s-%s", domain.ErrDuplicateDocument, h.Key.EmissionPoint, h.Key.Number)
	}
	return &domain.DuplicateDocumentError{ArchiveID: archive}
}

// InsertItem alta de una línea.
func (r *DocumentRepo) InsertItem(ctx context.Context, it *entity.DocumentItem) error {
	query := `
		INSERT INTO ismst_documentos_item (
			compania, tipo, numero, emisor, receptor, punto_emision, item, descripcion, cantidad, precio)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		it.Key.Company, it.Key.DocumentType, it.Key.Number, it.Key.IssuerCode, it.Receiver, it.Key.EmissionPoint,
		it.Line, it.Description, it.Quantity, it.UnitPrice,
	)
	if err != nil {
		return fmt.Errorf("insert document item %d: %w", it.Line, err)
	}
	return nil
}

// InsertTax alta de un impuesto a nivel comprobante.
func (r *DocumentRepo) InsertTax(ctx context.Context, t *entity.DocumentTax) error {
	query := `
		INSERT INTO ismsv_impuestos_documento (
			compania, tipo_doc, numero_doc, emisor, receptor, item, cod_impuesto, valor, punto_emision)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		t.Key.Company, t.Key.DocumentType, t.Key.Number, t.Key.IssuerCode, t.Receiver,
		t.Item, t.TaxCode, t.Amount, t.Key.EmissionPoint,
	)
	if err != nil {
		return fmt.Errorf("insert document tax %s: %w", t.TaxCode, err)
	}
	return nil
}

package memory

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/ingestion"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/repository"
)

var (
	_ ingestion.TxRunner            = (*Store)(nil)
	_ repository.DocumentRepository = (*tx)(nil)
	_ repository.JournalRepository  = (*tx)(nil)
)

// RunIngestion ejecuta fn con escrituras diferidas. Si fn devuelve error nada se confirma.
// Las transacciones se serializan entre sí, como el lock de numeración de la base.
func (s *Store) RunIngestion(ctx context.Context, fn func(
	supplierRepo repository.SupplierRepository,
	documentRepo repository.DocumentRepository,
	journalRepo repository.JournalRepository,
	periodRepo repository.FiscalPeriodRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	t := &tx{s: s}
	if err := fn(s, t, t, s); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail.Commit {
		return fmt.Errorf("commit: %w", ErrInjected)
	}
	s.documents = append(s.documents, t.documents...)
	s.entries = append(s.entries, t.entries...)
	s.movements = append(s.movements, t.movements...)
	return nil
}

// tx escrituras pendientes de una transacción.
type tx struct {
	s         *Store
	documents []entity.StoredInvoice
	entries   []entity.JournalEntry
	movements []entity.Movement
	items     int
}

func (t *tx) failures() Failures {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	return t.s.fail
}

func (t *tx) LockNumbering(context.Context) error { return nil }

func (t *tx) FindActiveDuplicate(_ context.Context, key entity.DocumentKey) (string, error) {
	if t.failures().DuplicateRead {
		return "", ErrInjected
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	for _, docs := range [][]entity.StoredInvoice{t.s.documents, t.documents} {
		for _, d := range docs {
			if !d.Header.Voided && sameDocument(d.Header.Key, key) {
				return strings.TrimSpace(d.Header.ArchiveID), nil
			}
		}
	}
	return "", nil
}

func (t *tx) NextArchiveID(context.Context) (string, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	top := 0
	for _, docs := range [][]entity.StoredInvoice{t.s.documents, t.documents} {
		for _, d := range docs {
			if n, ok := archiveNumber(d.Header.ArchiveID); ok && n > top {
				top = n
			}
		}
	}
	return strconv.Itoa(top + 1), nil
}

func (t *tx) InsertHeader(_ context.Context, h *entity.DocumentHeader) error {
	if t.failures().HeaderInsert {
		return ErrInjected
	}
	t.documents = append(t.documents, entity.StoredInvoice{Header: *h})
	return nil
}

func (t *tx) InsertItem(_ context.Context, item *entity.DocumentItem) error {
	t.items++
	if n := t.failures().ItemInsertAt; n > 0 && t.items == n {
		return fmt.Errorf("ítem %d: %w", item.Line, ErrInjected)
	}
	d, err := t.current(item.Key)
	if err != nil {
		return err
	}
	d.Items = append(d.Items, *item)
	return nil
}

func (t *tx) InsertTax(_ context.Context, tax *entity.DocumentTax) error {
	if t.failures().TaxInsert {
		return ErrInjected
	}
	d, err := t.current(tax.Key)
	if err != nil {
		return err
	}
	d.Taxes = append(d.Taxes, *tax)
	return nil
}

func (t *tx) NextEntryNumber(context.Context) (int64, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	var top int64
	for _, entries := range [][]entity.JournalEntry{t.s.entries, t.entries} {
		for _, e := range entries {
			if e.EntryNumber > top {
				top = e.EntryNumber
			}
		}
	}
	return top + 1, nil
}

func (t *tx) InsertEntry(_ context.Context, e *entity.JournalEntry) error {
	c := *e
	c.Movements = nil
	t.entries = append(t.entries, c)
	return nil
}

func (t *tx) InsertMovement(_ context.Context, m *entity.Movement) error {
	if n := t.failures().MovementAt; n > 0 && len(t.movements)+1 == n {
		return ErrInjected
	}
	t.movements = append(t.movements, *m)
	return nil
}

// current cabecera pendiente a la que pertenecen ítems e impuestos (FK de la base).
func (t *tx) current(key entity.DocumentKey) (*entity.StoredInvoice, error) {
	for i := len(t.documents) - 1; i >= 0; i-- {
		if sameDocument(t.documents[i].Header.Key, key) {
			return &t.documents[i], nil
		}
	}
	return nil, fmt.Errorf("memory: cabecera inexistente %s-%s", key.EmissionPoint, key.Number)
}

// sameDocument compara con TRIM, como las columnas de ancho fijo del ERP.
func sameDocument(a, b entity.DocumentKey) bool {
	eq := func(x, y string) bool { return strings.TrimSpace(x) == strings.TrimSpace(y) }
	return eq(a.IssuerCode, b.IssuerCode) &&
		eq(a.DocumentType, b.DocumentType) &&
		eq(a.EmissionPoint, b.EmissionPoint) &&
		eq(a.Number, b.Number)
}

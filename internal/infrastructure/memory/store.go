// Package memory implementa los repositorios del ERP en memoria, con transacciones
// que acumulan escrituras y las confirman o descartan en bloque.
package memory

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/matching"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.SupplierRepository      = (*Store)(nil)
	_ repository.PurchaseOrderRepository = (*Store)(nil)
	_ repository.FiscalPeriodRepository  = (*Store)(nil)
)

// ErrInjected error devuelto por las fallas programadas con Failures.
var ErrInjected = errors.New("memory: falla inyectada")

// Failures fallas programadas para probar el rollback. Cero = sin falla.
type Failures struct {
	ItemInsertAt  int // n-ésima inserción de ítem (1-based) dentro de una transacción
	TaxInsert     bool
	HeaderInsert  bool
	MovementAt    int // n-ésimo movimiento contable
	DuplicateRead bool
	Commit        bool
	SupplierRead  bool
}

// OrderLine línea de OC con su marca de anulación.
type OrderLine struct {
	entity.PurchaseOrderItem
	Voided bool
}

type order struct {
	header entity.PurchaseOrderSummary
	lines  []OrderLine
}

// FiscalPeriod ejercicio contable con sus fechas de inicio y fin (inclusive).
type FiscalPeriod struct {
	Code  string
	Start time.Time
	End   time.Time
}

// Store base en memoria. Las lecturas fuera de transacción ven sólo lo confirmado.
type Store struct {
	mu        sync.RWMutex
	suppliers map[string]entity.Supplier
	orders    map[string]*order
	periods   []FiscalPeriod
	documents []entity.StoredInvoice
	entries   []entity.JournalEntry
	movements []entity.Movement
	operators map[string]entity.Operator // clave: email en minúsculas

	// txMu hace de lock de numeración: una transacción de ingesta a la vez.
	txMu sync.Mutex
	fail Failures
}

// NewStore crea una base vacía.
func NewStore() *Store {
	return &Store{
		suppliers: make(map[string]entity.Supplier),
		orders:    make(map[string]*order),
		operators: make(map[string]entity.Operator),
	}
}

// SetFailures programa fallas para las próximas transacciones.
func (s *Store) SetFailures(f Failures) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = f
}

// AddSupplier carga un registro del maestro de personas. El código se guarda tal cual,
// con el relleno que traiga.
func (s *Store) AddSupplier(sup entity.Supplier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suppliers[strings.TrimSpace(sup.Code)] = sup
}

// AddOrder carga una OC con sus líneas.
func (s *Store) AddOrder(h entity.PurchaseOrderSummary, lines ...OrderLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[strings.TrimSpace(h.OrderNumber)] = &order{header: h, lines: lines}
}

// AddFiscalPeriod carga un ejercicio.
func (s *Store) AddFiscalPeriod(p FiscalPeriod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.periods = append(s.periods, p)
}

// AddDocument carga un comprobante ya existente (p. ej. para probar duplicados).
func (s *Store) AddDocument(doc entity.StoredInvoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = append(s.documents, doc)
}

// Documents comprobantes confirmados.
func (s *Store) Documents() []entity.StoredInvoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.StoredInvoice(nil), s.documents...)
}

// Entries asientos confirmados.
func (s *Store) Entries() []entity.JournalEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.JournalEntry(nil), s.entries...)
}

// Movements movimientos confirmados.
func (s *Store) Movements() []entity.Movement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Movement(nil), s.movements...)
}

// ── maestro de personas ─────────────────────────────────────────────

func (s *Store) FindCodeByTaxID(_ context.Context, taxID string, personTypes []string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.fail.SupplierRead {
		return "", ErrInjected
	}
	id := strings.TrimSpace(taxID)
	for _, code := range s.sortedCodes() {
		sup := s.suppliers[code]
		if !eligible(sup, personTypes) {
			continue
		}
		if strings.TrimSpace(sup.TaxID) == id || strings.TrimSpace(sup.PersonalTaxID) == id {
			return sup.Code, nil
		}
	}
	return "", nil
}

func (s *Store) GetByCode(_ context.Context, code string) (*entity.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.fail.SupplierRead {
		return nil, ErrInjected
	}
	sup, ok := s.suppliers[strings.TrimSpace(code)]
	if !ok {
		return nil, nil
	}
	sup.Code = strings.TrimSpace(sup.Code)
	return &sup, nil
}

func (s *Store) SearchByName(_ context.Context, q matching.NameQuery, personTypes []string, limit int) ([]entity.SupplierCandidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.fail.SupplierRead {
		return nil, ErrInjected
	}
	var out []entity.SupplierCandidate
	for _, code := range s.sortedCodes() {
		sup := s.suppliers[code]
		if !eligible(sup, personTypes) {
			continue
		}
		legal := matching.NormalizeName(sup.LegalName)
		short := matching.NormalizeName(sup.ShortName)
		if !q.Matches(legal, short) {
			continue
		}
		c := sup.Candidate(q.Score(legal, short), entity.MatchNameSimilar)
		c.Code = strings.TrimSpace(c.Code)
		out = append(out, c)
	}
	return matching.Rank(out, limit), nil
}

func (s *Store) SearchByKeyword(_ context.Context, pattern string, personTypes []string, limit int) ([]entity.SupplierCandidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.fail.SupplierRead {
		return nil, ErrInjected
	}
	var out []entity.SupplierCandidate
	for _, code := range s.sortedCodes() {
		sup := s.suppliers[code]
		if !eligible(sup, personTypes) || !matching.Like(matching.NormalizeName(sup.LegalName), pattern) {
			continue
		}
		c := sup.Candidate(entity.ScoreKeyword, entity.MatchKeyword)
		c.Code = strings.TrimSpace(c.Code)
		out = append(out, c)
	}
	return matching.Rank(out, limit), nil
}

// ── órdenes de compra ───────────────────────────────────────────────

func (s *Store) ListActiveBySupplier(_ context.Context, supplierCode string, since time.Time, limit int) ([]entity.PurchaseOrderSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.PurchaseOrderSummary
	for _, o := range s.orders {
		h := o.header
		if strings.TrimSpace(h.SupplierCode) != supplierCode || h.Date.Before(since) {
			continue
		}
		if h.Status != entity.OrderOpen && h.Status != entity.OrderPartial {
			continue
		}
		h.OrderNumber = strings.TrimSpace(h.OrderNumber)
		h.TotalPendingAmount, h.PendingItemCount = pending(o.lines)
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		oi, oj := out[i].Status == entity.OrderOpen, out[j].Status == entity.OrderOpen
		if oi != oj {
			return oi
		}
		return out[i].Date.After(out[j].Date)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) ListItems(_ context.Context, orderNumber string) ([]entity.PurchaseOrderItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[strings.TrimSpace(orderNumber)]
	if !ok {
		return nil, nil
	}
	var out []entity.PurchaseOrderItem
	for _, l := range o.lines {
		if !l.Voided {
			out = append(out, l.PurchaseOrderItem)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LineNumber < out[j].LineNumber })
	return out, nil
}

func (s *Store) GetHeader(_ context.Context, orderNumber string) (*entity.PurchaseOrderSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[strings.TrimSpace(orderNumber)]
	if !ok {
		return nil, nil
	}
	h := o.header
	h.SupplierCode = strings.TrimSpace(h.SupplierCode)
	return &h, nil
}

// ── ejercicios ──────────────────────────────────────────────────────

func (s *Store) FindByDate(_ context.Context, date time.Time) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d := truncateDay(date)
	for _, p := range s.periods {
		if !d.Before(truncateDay(p.Start)) && !d.After(truncateDay(p.End)) {
			return p.Code, nil
		}
	}
	return "", nil
}

// ── helpers ─────────────────────────────────────────────────────────

func (s *Store) sortedCodes() []string {
	codes := make([]string, 0, len(s.suppliers))
	for c := range s.suppliers {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// eligible ESTADO ACTIVO y TIPO_PERSONA admitido, NULL o blanco.
func eligible(sup entity.Supplier, personTypes []string) bool {
	if sup.Status != entity.SupplierActive {
		return false
	}
	pt := strings.TrimSpace(sup.PersonType)
	if pt == "" {
		return true
	}
	for _, t := range personTypes {
		if pt == t {
			return true
		}
	}
	return false
}

func pending(lines []OrderLine) (amount decimal.Decimal, count int) {
	for _, l := range lines {
		if l.Voided || !l.PendingQuantity.IsPositive() {
			continue
		}
		amount = amount.Add(l.PendingQuantity.Mul(l.UnitPrice))
		count++
	}
	return amount, count
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func archiveNumber(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil
}

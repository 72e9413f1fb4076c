package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side lado del movimiento contable.
type Side string

const (
	Debit  Side = "DEBE"
	Credit Side = "HABER"
)

// Movement línea del asiento. Amount siempre positivo; CostCenter queda vacío.
type Movement struct {
	EntryNumber       int64           `json:"entry_number"`
	AccountCode       string          `json:"account_code"`
	DocumentReference string          `json:"document_reference"`
	Date              time.Time       `json:"date"`
	EffectiveDate     time.Time       `json:"effective_date"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
	Side              Side            `json:"side"`
	CostCenter        string          `json:"cost_center"`
	Company           string          `json:"company"`
	FiscalPeriod      string          `json:"fiscal_period"`
}

// JournalEntry asiento de compras (ISMST_ASIENTOS + ISMST_MOVIMIENTOS).
type JournalEntry struct {
	EntryNumber      int64      `json:"entry_number"`
	Description      string     `json:"description"`
	DocumentTypeCode string     `json:"document_type_code"`
	SupplierCode     string     `json:"supplier_code"`
	Company          string     `json:"company"`
	Mode             string     `json:"mode"`
	Concept          string     `json:"concept"`
	FiscalPeriod     string     `json:"fiscal_period"`
	EmissionDate     time.Time  `json:"emission_date"`
	Movements        []Movement `json:"movements"`
}

// Valores fijos de cabecera del asiento automático.
const (
	EntryModeAutomatic    = "Automático"
	EntryConceptSuppliers = "Proveedores"
)

// Totals suma DEBE y HABER.
func (e *JournalEntry) Totals() (debit, credit decimal.Decimal) {
	for _, m := range e.Movements {
		switch m.Side {
		case Debit:
			debit = debit.Add(m.Amount)
		case Credit:
			credit = credit.Add(m.Amount)
		}
	}
	return debit, credit
}

// UnbookedTax percepción/retención observada pero no contabilizada.
type UnbookedTax struct {
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

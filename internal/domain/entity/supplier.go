package entity

import "strings"

// SupplierStatus estado del proveedor en el maestro de personas.
type SupplierStatus string

const (
	SupplierActive   SupplierStatus = "ACTIVE"
	SupplierInactive SupplierStatus = "INACTIVE"
	SupplierClosed   SupplierStatus = "CLOSED" // dado de baja
)

// SupplierStatusFromERP traduce ESTADO del ERP (ACTIVO, BAJA, ...).
func SupplierStatusFromERP(s string) SupplierStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ACTIVO":
		return SupplierActive
	case "BAJA":
		return SupplierClosed
	default:
		return SupplierInactive
	}
}

// MatchKind cómo se obtuvo el candidato.
type MatchKind string

const (
	MatchExactTaxID  MatchKind = "EXACT_TAX_ID"
	MatchNameSimilar MatchKind = "NAME_SIMILAR"
	MatchKeyword     MatchKind = "KEYWORD"
)

// Puntajes de coincidencia por nombre.
const (
	ScoreExactTaxID     = 100
	ScoreExactName      = 100
	ScoreFullLegalName  = 90
	ScoreFullShortName  = 85
	ScoreShortLegalName = 70
	ScoreWeakName       = 50
	ScoreKeyword        = 40
)

// SupplierCandidate proveedor candidato para un comprobante. Es transitorio: nunca se persiste.
type SupplierCandidate struct {
	Code                  string         `json:"code"`
	LegalName             string         `json:"legal_name"`
	ShortName             string         `json:"short_name"`
	TaxID                 string         `json:"tax_id"`
	PersonalTaxID         string         `json:"personal_tax_id,omitempty"` // CUIL
	Status                SupplierStatus `json:"status"`
	DocumentationComplete bool           `json:"documentation_complete"`
	MatchScore            int            `json:"match_score"`
	MatchKind             MatchKind      `json:"match_kind"`
}

// Enabled indica si el proveedor puede recibir comprobantes.
func (c *SupplierCandidate) Enabled() bool {
	return c.Status == SupplierActive && c.DocumentationComplete
}

// Supplier registro del maestro de personas tal como lo leen los repositorios.
type Supplier struct {
	Code                  string
	LegalName             string
	ShortName             string
	TaxID                 string
	PersonalTaxID         string
	Status                SupplierStatus
	PersonType            string
	DocumentationComplete bool
}

// Candidate arma el candidato con el puntaje dado.
func (s *Supplier) Candidate(score int, kind MatchKind) SupplierCandidate {
	return SupplierCandidate{
		Code:                  s.Code,
		LegalName:             s.LegalName,
		ShortName:             s.ShortName,
		TaxID:                 s.TaxID,
		PersonalTaxID:         s.PersonalTaxID,
		Status:                s.Status,
		DocumentationComplete: s.DocumentationComplete,
		MatchScore:            score,
		MatchKind:             kind,
	}
}

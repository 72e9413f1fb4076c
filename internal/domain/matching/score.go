package matching

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
)

// Límites de resultados.
const (
	MaxNameCandidates    = 5
	MaxKeywordCandidates = 3
	minKeywordRunes      = 4
)

// NameQuery consulta por nombre ya normalizada y con los patrones LIKE armados.
//
// Full exige todos los tokens en orden (%T1%T2%...%); Short usa sólo los dos
// primeros cuando hay más de dos tokens, si no es igual a Full.
type NameQuery struct {
	Normalized string
	Tokens     []string
	Full       string
	Short      string
}

// NewNameQuery arma la consulta. ok=false si el nombre está vacío.
func NewNameQuery(name string) (NameQuery, bool) {
	norm := NormalizeName(name)
	tokens := strings.Fields(norm)
	if len(tokens) == 0 {
		return NameQuery{}, false
	}
	q := NameQuery{Normalized: norm, Tokens: tokens}
	q.Full = pattern(tokens)
	q.Short = q.Full
	if len(tokens) > 2 {
		q.Short = pattern(tokens[:2])
	}
	return q, true
}

func pattern(tokens []string) string {
	esc := make([]string, len(tokens))
	for i, t := range tokens {
		esc[i] = EscapeLike(t)
	}
	return "%" + strings.Join(esc, "%") + "%"
}

// Keyword patrón de último recurso (%T1%) cuando el primer token tiene más de 3 caracteres.
func (q NameQuery) Keyword() (string, bool) {
	if len(q.Tokens) == 0 || utf8.RuneCountInString(q.Tokens[0]) < minKeywordRunes {
		return "", false
	}
	return "%" + EscapeLike(q.Tokens[0]) + "%", true
}

// Matches condición de inclusión sobre nombres normalizados.
func (q NameQuery) Matches(legal, short string) bool {
	return Like(legal, q.Full) || Like(legal, q.Short) || (short != "" && Like(short, q.Full))
}

// Score puntaje de la coincidencia, evaluando de la más fuerte a la más débil.
// legal y short deben venir normalizados.
func (q NameQuery) Score(legal, short string) int {
	switch {
	case legal == q.Normalized:
		return entity.ScoreExactName
	case Like(legal, q.Full):
		return entity.ScoreFullLegalName
	case short != "" && Like(short, q.Full):
		return entity.ScoreFullShortName
	case Like(legal, q.Short):
		return entity.ScoreShortLegalName
	default:
		return entity.ScoreWeakName
	}
}

// Rank ordena por puntaje descendente y razón social ascendente, y recorta a limit.
func Rank(c []entity.SupplierCandidate, limit int) []entity.SupplierCandidate {
	sort.SliceStable(c, func(i, j int) bool {
		if c[i].MatchScore != c[j].MatchScore {
			return c[i].MatchScore > c[j].MatchScore
		}
		return c[i].LegalName < c[j].LegalName
	})
	if limit > 0 && len(c) > limit {
		c = c[:limit]
	}
	return c
}

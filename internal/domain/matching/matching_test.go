package matching_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/matching"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "DISTRIBUIDORA NANDU S.A.", matching.NormalizeName("  Distribuidora Ñandú S.A. "))
	assert.Equal(t, "PEREZ Y CIA", matching.NormalizeName("Pérez y Cía"))
	assert.Equal(t, "", matching.NormalizeName("   "))
	assert.Equal(t, "ACME S.A.", matching.NormalizeName("Acme  S.A."))
	assert.Equal(t, "ACME S.A.", matching.NormalizeName("Acme\tS.A.\n"))
}

func TestLike(t *testing.T) {
	tests := []struct {
		value, pattern string
		want           bool
	}{
		{"ACME SERVICIOS SRL", "%ACME%SRL%", true},
		{"ACME SERVICIOS SRL", "%SRL%ACME%", false},
		{"ACME", "ACME", true},
		{"ACME", "AC_E", true},
		{"ACME", "A%", true},
		{"ACME", "%", true},
		{"", "%", true},
		{"", "_", false},
		{"100% ALGODON", `%100\%%`, true},
		{"1000 ALGODON", `%100\%%`, false},
		{"A_B", `A\_B`, true},
		{"AXB", `A\_B`, false},
		{"AAAB", "%AAB", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matching.Like(tt.value, tt.pattern), "%q LIKE %q", tt.value, tt.pattern)
	}
}

func TestNewNameQuery_Patrones(t *testing.T) {
	q, ok := matching.NewNameQuery("Distribuidora del Sur Hnos")
	require.True(t, ok)
	assert.Equal(t, "%DISTRIBUIDORA%DEL%SUR%HNOS%", q.Full)
	assert.Equal(t, "%DISTRIBUIDORA%DEL%", q.Short)

	q, ok = matching.NewNameQuery("Acme SA")
	require.True(t, ok)
	assert.Equal(t, q.Full, q.Short, "con dos tokens el patrón corto es el completo")

	q, ok = matching.NewNameQuery("50% Off_Shop")
	require.True(t, ok)
	assert.Equal(t, `%50\%%OFF\_SHOP%`, q.Full)
}

func TestNewNameQuery_Vacio(t *testing.T) {
	_, ok := matching.NewNameQuery("  \t ")
	assert.False(t, ok)
}

func TestKeyword(t *testing.T) {
	q, _ := matching.NewNameQuery("Molinos Rio")
	kw, ok := q.Keyword()
	require.True(t, ok)
	assert.Equal(t, "%MOLINOS%", kw)

	q, _ = matching.NewNameQuery("ABC Limpieza")
	_, ok = q.Keyword()
	assert.False(t, ok, "primer token de 3 caracteres no habilita la búsqueda por palabra clave")
}

func TestScore(t *testing.T) {
	q, _ := matching.NewNameQuery("Transportes del Oeste SA")

	assert.Equal(t, entity.ScoreExactName, q.Score("TRANSPORTES DEL OESTE SA", ""))
	assert.Equal(t, entity.ScoreFullLegalName, q.Score("TRANSPORTES DEL GRAN OESTE SA", ""))
	assert.Equal(t, entity.ScoreFullShortName, q.Score("TDO LOGISTICA", "TRANSPORTES DEL OESTE SA"))
	assert.Equal(t, entity.ScoreShortLegalName, q.Score("TRANSPORTES DELTA", ""))
	assert.True(t, q.Matches("TRANSPORTES DELTA", ""))
	assert.False(t, q.Matches("LOGISTICA NORTE", "LN"))
}

func TestScore_Monotono(t *testing.T) {
	// Una coincidencia completa sobre nombre corto nunca queda por debajo de la parcial sobre razón social.
	q, _ := matching.NewNameQuery("Acme Servicios Integrales")
	score := q.Score("ACME SERVICIOS SRL", "ACME SERVICIOS INTEGRALES")
	assert.Equal(t, entity.ScoreFullShortName, score)
}

func TestRank(t *testing.T) {
	in := []entity.SupplierCandidate{
		{Code: "3", LegalName: "ZETA", MatchScore: 90},
		{Code: "1", LegalName: "ALFA", MatchScore: 70},
		{Code: "2", LegalName: "BETA", MatchScore: 90},
		{Code: "4", LegalName: "GAMA", MatchScore: 100},
	}
	out := matching.Rank(in, 3)
	require.Len(t, out, 3)
	assert.Equal(t, []string{"4", "2", "3"}, []string{out[0].Code, out[1].Code, out[2].Code})
}

package supplier_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
)

// Caso 1: CUIT con guiones se guarda limpio.
func TestValidateIdentity_Limpia(t *testing.T) {
	m, _ := newMatcher(t)

	s := entity.ExtractedSupplier{Name: "ACME SA", TaxID: "30-71234567-8"}
	require.NoError(t, m.ValidateIdentity(context.Background(), &s))
	assert.Equal(t, "30712345678", s.TaxID)
}

// Caso 2: el modelo devolvió el CUIT propio; se recupera el del proveedor por nombre.
func TestValidateIdentity_CUITPropio(t *testing.T) {
	m, _ := newMatcher(t, active("P0001", "ACME SA", "", "30712345678"))

	s := entity.ExtractedSupplier{Name: "Acme SA", TaxID: "30-54340071-3"}
	require.NoError(t, m.ValidateIdentity(context.Background(), &s))
	assert.Equal(t, "30712345678", s.TaxID)
	assert.Equal(t, "P0001", s.SystemCode)
}

// Caso 3: CUIT propio sin proveedor similar falla.
func TestValidateIdentity_CUITPropioSinCandidato(t *testing.T) {
	m, _ := newMatcher(t)

	s := entity.ExtractedSupplier{Name: "Desconocido", TaxID: ownTaxID}
	err := m.ValidateIdentity(context.Background(), &s)
	assert.ErrorIs(t, err, domain.ErrExtractionFailure)
	assert.ErrorIs(t, err, domain.ErrOwnTaxID)
}

// Caso 4: "null" literal se completa desde el maestro.
func TestValidateIdentity_SinCUIT(t *testing.T) {
	m, _ := newMatcher(t, active("P0002", "BETA SRL", "", "30700000002"))

	s := entity.ExtractedSupplier{Name: "Beta SRL", TaxID: "null"}
	require.NoError(t, m.ValidateIdentity(context.Background(), &s))
	assert.Equal(t, "30700000002", s.TaxID)
	assert.Equal(t, "P0002", s.SystemCode)
}

// Caso 5: formatos inválidos.
func TestValidateIdentity_Invalido(t *testing.T) {
	m, _ := newMatcher(t)

	for _, id := range []string{"123", "3071234567X", "99712345678"} {
		s := entity.ExtractedSupplier{Name: "ACME SA", TaxID: id}
		err := m.ValidateIdentity(context.Background(), &s)
		assert.ErrorIs(t, err, domain.ErrInvalidTaxID, id)
		assert.ErrorIs(t, err, domain.ErrExtractionFailure, id)
	}
}

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramiroschettino/Procesador-de-factura-autom/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "MOLINO", cfg.Company.Code)
	assert.Equal(t, "EMPRESA", cfg.Company.Receiver)
	assert.Equal(t, []string{"30543400713", "30715139096", "30678143373"}, cfg.Company.OwnTaxIDs)
	assert.Equal(t, []string{"P", "C", "RI"}, cfg.Company.AllowedPersonTypes)
	assert.Equal(t, "210101", cfg.Accounts.Payables)
	assert.Equal(t, "110501", cfg.Accounts.TaxCredit)
	assert.Equal(t, "520101", cfg.Accounts.DefaultExpense)
	assert.False(t, cfg.Ledger.PostingEnabled, "la registración contable arranca deshabilitada")
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, 90*time.Second, cfg.AI.Timeout)
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("COMPANY_CODE", "ACME")
	t.Setenv("COMPANY_OWN_TAX_IDS", "30-11111111-1, 30222222222")
	t.Setenv("LEDGER_POSTING_ENABLED", "true")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("AI_PROVIDER", "OpenAI")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "ACME", cfg.Company.Code)
	assert.Equal(t, []string{"30-11111111-1", "30222222222"}, cfg.Company.OwnTaxIDs)
	assert.True(t, cfg.Ledger.PostingEnabled)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, "openai", cfg.AI.Provider)
}

func TestLoad_ProveedorIAInvalido(t *testing.T) {
	t.Setenv("AI_PROVIDER", "ollama")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "erp", Password: "p@ss word", DBName: "erp", SSLMode: "disable"}
	assert.Equal(t, "postgres://erp:p%40ss%20word@db:5432/erp?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro/erp"
	assert.Equal(t, "postgres://otro/erp", c.ConnectionString())
}

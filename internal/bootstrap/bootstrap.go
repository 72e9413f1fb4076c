// Package bootstrap arma los componentes de la aplicación a partir de la configuración.
// Lo comparten el servidor HTTP y la CLI.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/accounting"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/auth"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/ingestion"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/ports"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/purchasing"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/supplier"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/ledger"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/infrastructure/ai"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/infrastructure/postgres"
	"github.com/ramiroschettino/Procesador-de-factura-autom/pkg/config"
	"github.com/ramiroschettino/Procesador-de-factura-autom/pkg/logger"
)

// Services componentes listos para usar. Close libera el pool.
type Services struct {
	Pool        *pgxpool.Pool
	Extractor   ports.InvoiceExtractor
	Matcher     *supplier.Matcher
	Orders      *purchasing.Resolver
	Coordinator *ingestion.Coordinator
	Pipeline    *ingestion.Pipeline
	Auth        *auth.Service
}

// Close cierra la conexión a la base.
func (s *Services) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// Build conecta a PostgreSQL y construye matcher, resolver, coordinador y pipeline.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Services, error) {
	pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
	if err != nil {
		return nil, err
	}

	extractor, err := NewExtractor(cfg, log)
	if err != nil {
		pool.Close()
		return nil, err
	}

	supplierRepo := postgres.NewSupplierRepository(pool)
	orderRepo := postgres.NewPurchaseOrderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	matcher := supplier.NewMatcher(supplierRepo, supplier.Config{
		OwnTaxIDs:          cfg.Company.OwnTaxIDs,
		AllowedPersonTypes: cfg.Company.AllowedPersonTypes,
	}, log.Component("supplier"))
	orders := purchasing.NewResolver(orderRepo, log.Component("purchasing"))
	ledgerBuilder := accounting.NewLedgerBuilder(ledger.Accounts{
		Payables:       cfg.Accounts.Payables,
		TaxCredit:      cfg.Accounts.TaxCredit,
		DefaultExpense: cfg.Accounts.DefaultExpense,
	}, cfg.Company.Code, log.Component("accounting"))
	coord := ingestion.NewCoordinator(txRunner, matcher, ledgerBuilder, ingestion.Config{
		Company:              cfg.Company.Code,
		Receiver:             cfg.Company.Receiver,
		LedgerPostingEnabled: cfg.Ledger.PostingEnabled,
	}, log.Component("ingestion"))
	pipeline := ingestion.NewPipeline(extractor, matcher, orders, coord, log.Component("pipeline"))
	authSvc := auth.NewService(postgres.NewOperatorRepository(pool), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
		Company:    cfg.Company.Code,
	}, log.Component("auth"))

	log.Info().
		Str("ai_provider", cfg.AI.Provider).
		Str("company", cfg.Company.Code).
		Bool("ledger_posting", cfg.Ledger.PostingEnabled).
		Msg("componentes inicializados")

	return &Services{
		Pool:        pool,
		Extractor:   extractor,
		Matcher:     matcher,
		Orders:      orders,
		Coordinator: coord,
		Pipeline:    pipeline,
		Auth:        authSvc,
	}, nil
}

// NewExtractor elige el adaptador de visión según AI_PROVIDER.
func NewExtractor(cfg *config.Config, log *logger.Logger) (ports.InvoiceExtractor, error) {
	switch cfg.AI.Provider {
	case "gemini":
		if cfg.AI.GeminiAPIKey == "" {
			log.Warn().Msg("GEMINI_API_KEY vacío: la extracción fallará hasta configurarlo")
		}
		return ai.NewGeminiExtractor(ai.GeminiConfig{
			APIKey:    cfg.AI.GeminiAPIKey,
			Model:     cfg.AI.GeminiModel,
			Timeout:   cfg.AI.Timeout,
			OwnTaxIDs: cfg.Company.OwnTaxIDs,
		}, log.Component("gemini")), nil
	case "openai":
		if cfg.AI.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("bootstrap: OPENAI_API_KEY requerido con AI_PROVIDER=openai")
		}
		return ai.NewOpenAIExtractor(ai.OpenAIConfig{
			APIKey:    cfg.AI.OpenAIAPIKey,
			Model:     cfg.AI.OpenAIModel,
			Timeout:   cfg.AI.Timeout,
			OwnTaxIDs: cfg.Company.OwnTaxIDs,
		}, log.Component("openai")), nil
	default:
		return nil, fmt.Errorf("bootstrap: proveedor de IA desconocido %q", cfg.AI.Provider)
	}
}

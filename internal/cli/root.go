// Package cli implementa la herramienta de operador "facturas" (cobra).
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/ports"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/bootstrap"
	"github.com/ramiroschettino/Procesador-de-factura-autom/pkg/config"
	"github.com/ramiroschettino/Procesador-de-factura-autom/pkg/logger"
)

var version = "1.0.0"

// BuildFunc construye los servicios; los comandos que no tocan la base no la llaman.
type BuildFunc func(ctx context.Context) (*bootstrap.Services, error)

type app struct {
	cfg   *config.Config
	log   *logger.Logger
	build BuildFunc
}

// NewRootCmd arma el comando raíz con todos los subcomandos.
func NewRootCmd(cfg *config.Config, log *logger.Logger, build BuildFunc) *cobra.Command {
	a := &app{cfg: cfg, log: log, build: build}

	root := &cobra.Command{
		Use:   "facturas",
		Short: "Procesador de facturas de proveedores",
		Long: `Herramienta de operador para integrar comprobantes de proveedores en el ERP.

Lee PDFs o imágenes con el modelo de visión configurado (AI_PROVIDER), identifica al
proveedor por CUIT o razón social y registra cabecera, ítems e impuestos en una
única transacción.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Duration("timeout", 2*time.Minute, "Tiempo máximo por operación")

	root.AddCommand(
		a.processCmd(),
		a.extractCmd(),
		a.discoverCmd(),
		a.reconcileCmd(),
		a.suppliersCmd(),
		a.ordersCmd(),
		a.tokenCmd(),
		a.operatorsCmd(),
		a.migrateCmd(),
	)
	return root
}

// Execute corre la CLI y termina el proceso con código 1 ante error.
func Execute(cfg *config.Config, log *logger.Logger) {
	build := func(ctx context.Context) (*bootstrap.Services, error) {
		return bootstrap.Build(ctx, cfg, log)
	}
	if err := NewRootCmd(cfg, log, build).Execute(); err != nil {
		log.Error().Err(err).Msg("comando fallido")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// ── helpers ─────────────────────────────────────────────────────────

// withTimeout aplica el --timeout del comando.
func (a *app) withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return context.WithTimeout(cmd.Context(), timeout)
}

// services construye los servicios; el llamador cierra con Close.
func (a *app) services(ctx context.Context) (*bootstrap.Services, error) {
	svc, err := a.build(ctx)
	if err != nil {
		return nil, fmt.Errorf("inicializar servicios: %w", err)
	}
	return svc, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readDocument lee el archivo local; el tipo se deduce de la extensión o del contenido.
func readDocument(path string) (ports.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ports.Document{}, fmt.Errorf("leer %s: %w", path, err)
	}
	return ports.Document{Name: path, MIMEType: mimeFor(path), Data: data}, nil
}

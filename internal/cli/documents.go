package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/dto"
)

func mimeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return ""
	}
}

func (a *app) processCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process [archivo]",
		Short: "Extrae e integra un comprobante en el ERP",
		Example: `  # Integrar una factura en PDF
  facturas process factura.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.withTimeout(cmd)
			defer cancel()
			svc, err := a.services(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			out := svc.Pipeline.ProcessDocument(ctx, doc)
			if err := printJSON(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			if !out.Success {
				return fmt.Errorf("comprobante no integrado: %w", out.Err)
			}
			return nil
		},
	}
}

func (a *app) extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract [archivo]",
		Short: "Sólo extrae y valida los datos del comprobante, sin persistir",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.withTimeout(cmd)
			defer cancel()
			svc, err := a.services(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			inv, err := svc.Pipeline.ExtractAndValidate(ctx, doc)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), dto.ExtractResponse{Success: true, Data: inv})
		},
	}
}

func (a *app) discoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover [archivo]",
		Short: "Busca proveedores candidatos y sus OCs activas",
		Example: `  # Desde el comprobante
  facturas discover factura.pdf

  # Desde datos conocidos
  facturas discover --name "Acme SA" --tax-id 30712345678`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			taxID, _ := cmd.Flags().GetString("tax-id")
			if len(args) == 0 && strings.TrimSpace(name) == "" && strings.TrimSpace(taxID) == "" {
				return fmt.Errorf("indique un archivo, --name o --tax-id")
			}
			ctx, cancel := a.withTimeout(cmd)
			defer cancel()
			svc, err := a.services(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			var out *dto.DiscoveryResponse
			if len(args) == 1 {
				doc, err := readDocument(args[0])
				if err != nil {
					return err
				}
				if out, err = svc.Pipeline.Discover(ctx, doc); err != nil {
					return err
				}
			} else {
				out = svc.Pipeline.DiscoverSupplier(ctx, strings.TrimSpace(name), strings.TrimSpace(taxID))
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().String("name", "", "Razón social del proveedor")
	cmd.Flags().String("tax-id", "", "CUIT del proveedor")
	return cmd
}

func (a *app) reconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile [archivo]",
		Short: "Concilia el comprobante contra una orden de compra",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, _ := cmd.Flags().GetString("order")
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.withTimeout(cmd)
			defer cancel()
			svc, err := a.services(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			out, err := svc.Pipeline.ReconcileOrder(ctx, doc, order)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().String("order", "", "Número de OC (por defecto la impresa en el comprobante)")
	return cmd
}

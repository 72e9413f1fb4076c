package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/dto"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
)

func (a *app) suppliersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suppliers",
		Short: "Consultas al maestro de proveedores",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "search [nombre]",
		Short: "Busca proveedores por razón social",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			ctx, cancel := a.withTimeout(cmd)
			defer cancel()
			svc, err := a.services(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			found := svc.Matcher.ResolveByName(ctx, name)
			if found == nil {
				found = []entity.SupplierCandidate{}
			}
			return printJSON(cmd.OutOrStdout(), dto.SupplierSearchResponse{Query: name, Candidates: found})
		},
	})
	return cmd
}

func (a *app) ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Consultas de órdenes de compra",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list [codigo-proveedor]",
		Short: "OCs abiertas o parciales del proveedor (últimos 6 meses)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.withTimeout(cmd)
			defer cancel()
			svc, err := a.services(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			orders, err := svc.Orders.ActiveOrdersForSupplier(ctx, args[0])
			if err != nil {
				return err
			}
			if orders == nil {
				orders = []entity.PurchaseOrderSummary{}
			}
			return printJSON(cmd.OutOrStdout(), orders)
		},
	}, &cobra.Command{
		Use:   "items [numero-oc]",
		Short: "Líneas no anuladas de la OC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.withTimeout(cmd)
			defer cancel()
			svc, err := a.services(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			items, err := svc.Orders.OrderLineItems(ctx, args[0])
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return fmt.Errorf("OC %s sin ítems o inexistente", args[0])
			}
			return printJSON(cmd.OutOrStdout(), items)
		},
	})
	return cmd
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/dto"
	"github.com/ramiroschettino/Procesador-de-factura-autom/pkg/jwt"
)

func (a *app) operatorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operators",
		Short: "Administración de operadores de la API",
	}
	create := &cobra.Command{
		Use:     "create <email>",
		Short:   "Da de alta un operador",
		Example: `  FACTURAS_PASSWORD=secreto123 facturas operators create ana@empresa.com --role admin --name "Ana"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				password = os.Getenv("FACTURAS_PASSWORD")
			}
			if password == "" {
				return fmt.Errorf("contraseña requerida: --password o FACTURAS_PASSWORD")
			}
			name, _ := cmd.Flags().GetString("name")
			role, _ := cmd.Flags().GetString("role")

			ctx, cancel := a.withTimeout(cmd)
			defer cancel()
			svc, err := a.services(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()
			if svc.Auth == nil {
				return fmt.Errorf("alta de operadores no disponible")
			}
			out, err := svc.Auth.Register(ctx, dto.RegisterOperatorRequest{
				Email:    args[0],
				Password: password,
				Name:     name,
				Role:     role,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	create.Flags().String("password", "", "Contraseña (preferible FACTURAS_PASSWORD)")
	create.Flags().String("name", "", "Nombre visible")
	create.Flags().String("role", jwt.RoleOperator, "Rol: admin, operador o contador")
	cmd.AddCommand(create)
	return cmd
}

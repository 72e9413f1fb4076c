package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/infrastructure/postgres"
	"github.com/ramiroschettino/Procesador-de-factura-autom/pkg/jwt"
)

func (a *app) tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un JWT de operador para la API",
		Example: `  facturas token --role operador --user ana
  facturas token --role contador --minutes 480`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			role, _ := cmd.Flags().GetString("role")
			user, _ := cmd.Flags().GetString("user")
			minutes, _ := cmd.Flags().GetInt("minutes")

			if !jwt.ValidRole(role) {
				return fmt.Errorf("rol inválido %q (%s|%s|%s)", role, jwt.RoleAdmin, jwt.RoleOperator, jwt.RoleAccountant)
			}
			if user == "" {
				user = uuid.NewString()
			}
			if minutes <= 0 {
				minutes = a.cfg.JWT.Expiration
			}
			tok, err := jwt.Generate(a.cfg.JWT.Secret, a.cfg.JWT.Issuer, jwt.Identity{
				UserID:  user,
				Company: a.cfg.Company.Code,
				Role:    role,
			}, minutes)
			if err != nil {
				return err
			}
			a.log.Info().Str("user_id", user).Str("role", role).Int("minutes", minutes).Msg("token emitido")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	cmd.Flags().String("role", jwt.RoleOperator, "Rol: admin, operador o contador")
	cmd.Flags().String("user", "", "Identificador del usuario (por defecto un UUID nuevo)")
	cmd.Flags().Int("minutes", 0, "Vigencia en minutos (por defecto JWT_EXPIRATION_MINUTES)")
	return cmd
}

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Crea las tablas del ERP en una base de desarrollo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.App.Env == "production" {
				return fmt.Errorf("migrate no se ejecuta con APP_ENV=production")
			}
			ctx, cancel := a.withTimeout(cmd)
			defer cancel()
			svc, err := a.services(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()
			if svc.Pool == nil {
				return fmt.Errorf("migrate requiere PostgreSQL")
			}
			return postgres.Migrate(ctx, svc.Pool, a.log.Component("migrate"))
		},
	}
}

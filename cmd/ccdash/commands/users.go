package commands

import (
	"fmt"
	"strconv"

	"ccdash/internal/httpapi"
	"ccdash/internal/metricsapi"
	"ccdash/internal/report"
	"ccdash/internal/views"

	"github.com/spf13/cobra"
)

var tokenRole string

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Inspect and manage dashboard accounts",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List dashboard accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		v, err := a.views.Render(cmd.Context(), views.Request{View: views.Usuarios})
		if err != nil {
			return err
		}
		return report.WriteText(cmd.OutOrStdout(), v)
	},
}

var usersDeactivateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "Deactivate an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[0])
		}
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		u, err := a.client.DeactivateUser(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("%s: %w", metricsapi.UserMessage(err), err)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d %s %s\n", u.ID, u.Username, u.Estado())
		return err
	},
}

var usersTokenCmd = &cobra.Command{
	Use:   "token <username>",
	Short: "Sign a bearer token for the admin routes with ADMIN_JWT_SECRET",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !metricsapi.ValidRole(tokenRole) {
			return fmt.Errorf("invalid role %q", tokenRole)
		}
		tok, err := httpapi.NewVerifier(cfg.AdminJWTSecret).Sign(args[0], tokenRole)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
		return err
	},
}

func init() {
	usersTokenCmd.Flags().StringVar(&tokenRole, "rol", "admin", "role claim of the token")
	usersCmd.AddCommand(usersListCmd, usersDeactivateCmd, usersTokenCmd)
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"trashmail/internal/domain"
)

// auth-methods: ask the server which login methods an account can use.
func (c *cli) authMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth-methods [username]",
		Short: "Show the login methods the server offers an account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := c.lastUsername()
			if len(args) == 1 {
				username = domain.Username(args[0])
			}
			if username == "" {
				return fmt.Errorf("username required")
			}

			m := c.wire.Auth.CheckAuthMethods(cmd.Context(), username)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "opaque_enabled:      %t\n", m.OpaqueEnabled)
			fmt.Fprintf(out, "srp_enabled:         %t\n", m.SRPEnabled)
			fmt.Fprintf(out, "migration_available: %t\n", m.MigrationAvailable)
			return nil
		},
	}
}

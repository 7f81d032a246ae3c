package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"trashmail/internal/app"
	"trashmail/internal/domain"
)

const demoListLimit = 5

// demo: check auth methods, log in, list and log out using credentials from the
// environment.
func (c *cli) demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Probe, log in, list the first addresses and log out",
		Long: "Run the whole client flow once with credentials from " + app.EnvUser + " and " + app.EnvPass + ".\n" +
			"A " + domain.PATPrefix + " secret exercises the token login.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.wire.Config
			out := cmd.OutOrStdout()
			if cfg.Username == "" || cfg.Password == "" {
				return fmt.Errorf("set %s and %s to run the demo", app.EnvUser, app.EnvPass)
			}
			ctx := cmd.Context()
			username := domain.Username(cfg.Username)

			m := c.wire.Auth.CheckAuthMethods(ctx, username)
			fmt.Fprintf(out, "Auth methods: opaque=%t srp=%t migration=%t\n",
				m.OpaqueEnabled, m.SRPEnabled, m.MigrationAvailable)

			if err := c.authenticate(ctx, username, cfg.Password); err != nil {
				return fmt.Errorf("login: %w", err)
			}
			fmt.Fprintf(out, "Logged in as %s\n", username)
			defer func() {
				c.wire.Auth.Logout(ctx)
				fmt.Fprintln(out, "Logged out")
			}()

			deas, err := c.wire.Aliases.List(ctx)
			if err != nil {
				return fmt.Errorf("list: %w", err)
			}
			fmt.Fprintf(out, "Found %d disposable addresses\n", len(deas))
			if len(deas) > demoListLimit {
				deas = deas[:demoListLimit]
			}
			for _, d := range deas {
				fmt.Fprintf(out, "  - %s\n", d.Address())
			}
			return nil
		},
	}
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"trashmail/internal/app"
	"trashmail/internal/domain"
)

// login: authenticate and, with -p, keep the session for later commands.
func (c *cli) loginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login [username]",
		Short: "Log in with a password or personal access token",
		Long: "Log in to TrashMail. The secret is taken from --password or " + app.EnvPass + ".\n" +
			"Secrets starting with " + domain.PATPrefix + " are treated as personal access tokens.\n" +
			"With -p the session is stored encrypted and reused by later commands.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := c.lastUsername()
			if len(args) == 1 {
				username = domain.Username(args[0])
			}
			if username == "" {
				return fmt.Errorf("username required")
			}
			if password == "" {
				password = c.wire.Config.Password
			}
			if password == "" {
				return fmt.Errorf("password required (--password or %s)", app.EnvPass)
			}

			if err := c.authenticate(cmd.Context(), username, password); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Logged in as %s\n", username)

			saved, err := c.saveSession()
			if err != nil {
				return err
			}
			if saved {
				fmt.Fprintln(out, "Session saved")
			} else {
				fmt.Fprintln(out, "No passphrase given (-p); session not saved")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "account password or personal access token")
	return cmd
}

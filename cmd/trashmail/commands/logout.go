package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// errLogoutNeedsPassphrase is returned when logout finds a stored session
// but no passphrase to restore it with.
var errLogoutNeedsPassphrase = errors.New("a session is stored; pass -p to log out")

// logout: end the server session and drop the stored copy.
func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the stored copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wasLoggedIn := c.wire.Auth.IsAuthenticated()
			if !wasLoggedIn && c.passphrase == "" {
				stored, err := c.wire.Sessions.HasSession()
				if err != nil {
					return err
				}
				if stored {
					return errLogoutNeedsPassphrase
				}
			}

			c.wire.Auth.Logout(cmd.Context())
			if err := c.wire.Sessions.ClearSession(); err != nil {
				return err
			}
			if wasLoggedIn {
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
			}
			return nil
		},
	}
}

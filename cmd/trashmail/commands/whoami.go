package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if c.wire.Auth.IsAuthenticated() {
				fmt.Fprintln(out, c.wire.Auth.Username())
				return nil
			}
			if last := c.lastUsername(); last != "" {
				fmt.Fprintf(out, "%s (not logged in)\n", last)
				return nil
			}
			return fmt.Errorf("not logged in")
		},
	}
}

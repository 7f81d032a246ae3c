package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"trashmail/internal/domain"
)

// list: print the account's disposable addresses.
func (c *cli) listCmd() *cobra.Command {
	var (
		asJSON bool
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your disposable addresses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.ensureLoggedIn(ctx); err != nil {
				return err
			}
			deas, err := c.wire.Aliases.List(ctx)
			if err != nil {
				return err
			}
			if limit > 0 && len(deas) > limit {
				deas = deas[:limit]
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(deas)
			}
			return printDEAs(cmd, deas)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full objects as JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n addresses")
	return cmd
}

func printDEAs(cmd *cobra.Command, deas []domain.DEA) error {
	if len(deas) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No disposable addresses")
		return nil
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tADDRESS\tFORWARDS TO")
	for _, d := range deas {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.ID(), d.Address(), d.RealEmail())
	}
	return tw.Flush()
}

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"trashmail/internal/domain"
)

// create: register a new disposable address for a real mailbox.
func (c *cli) createCmd() *cobra.Command {
	var (
		expire   int
		forwards int
		options  []string
	)
	cmd := &cobra.Command{
		Use:   "create <realemail>",
		Short: "Create a disposable address forwarding to realemail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts domain.CreateOptions
			if cmd.Flags().Changed("expire") {
				opts.Expire = &expire
			}
			if cmd.Flags().Changed("forwards") {
				opts.Forwards = &forwards
			}
			extra, err := parseOptions(options)
			if err != nil {
				return err
			}
			opts.Extra = extra

			ctx := cmd.Context()
			if err := c.ensureLoggedIn(ctx); err != nil {
				return err
			}
			dea, err := c.wire.Aliases.Create(ctx, args[0], opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dea.Address())
			return nil
		},
	}
	cmd.Flags().IntVar(&expire, "expire", 0, "lifetime in days")
	cmd.Flags().IntVar(&forwards, "forwards", 0, "number of mails to forward before the address stops")
	cmd.Flags().StringArrayVarP(&options, "option", "o", nil, "extra save_dea parameter as key=value (repeatable)")
	return cmd
}

// parseOptions turns key=value pairs into request parameters. Values are
// read as YAML scalars, so numbers and booleans keep their type.
func parseOptions(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("--option %q: want key=value", p)
		}
		var val any
		if err := yaml.Unmarshal([]byte(v), &val); err != nil || val == nil {
			val = v
		}
		switch val.(type) {
		case map[string]any, []any:
			val = v
		}
		out[k] = val
	}
	return out, nil
}

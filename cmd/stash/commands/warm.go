package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newWarmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "warm [dir]",
		Short: "Pre-derive artifacts for every script under a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := c.app.Root()
			if len(args) == 1 {
				root = args[0]
			}
			return c.session(cmd.Context(), func(ctx context.Context) error {
				result, err := c.app.Warm(ctx, root)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "warmed %d script(s): %d parsed, %d cached, %d failed\n",
					result.Total(), result.Parsed, result.Cached, result.Failed)
				return nil
			})
		},
	}
}

package commands

import (
	"context"

	"github.com/spf13/cobra"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Watch a directory and keep cached artifacts current",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := c.app.Root()
			if len(args) == 1 {
				root = args[0]
			}
			return c.session(cmd.Context(), func(ctx context.Context) error {
				return c.app.Watch(ctx, root)
			})
		},
	}
}

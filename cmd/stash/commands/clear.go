package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			alsoSnapshot, _ := cmd.Flags().GetBool("snapshot")
			// No session wrapper here: opening would reload the snapshot
			// just to throw it away, and closing would persist the emptied
			// cache right back over the snapshot being cleared.
			return c.app.ClearCache(cmd.Context(), alsoSnapshot)
		},
	}
	cmd.Flags().Bool("snapshot", false, "Also discard the persisted snapshot")
	return cmd
}

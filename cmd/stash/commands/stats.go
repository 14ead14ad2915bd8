package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			return c.session(cmd.Context(), func(_ context.Context) error {
				stats := c.app.Stats()
				if asJSON {
					return printJSON(cmd, stats)
				}

				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "structures: %d\n", stats.StructureCount)
				_, _ = fmt.Fprintf(out, "graphs:     %d\n", stats.GraphCount)
				_, _ = fmt.Fprintf(out, "memory:     %d bytes\n", stats.MemoryUsage)
				_, _ = fmt.Fprintf(out, "hits:       %d\n", stats.Hits)
				_, _ = fmt.Fprintf(out, "misses:     %d\n", stats.Misses)
				_, _ = fmt.Fprintf(out, "hit rate:   %.1f%%\n", stats.HitRate())
				return nil
			})
		},
	}
	cmd.Flags().Bool("json", false, "Print statistics as JSON")
	return cmd
}

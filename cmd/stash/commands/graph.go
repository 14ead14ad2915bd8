package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"go.scriptor.dev/stash/internal/core/domain"
)

func (c *CLI) newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph <file>",
		Short: "Print the flow graph of a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			return c.session(cmd.Context(), func(ctx context.Context) error {
				graph, err := c.app.GraphFor(ctx, args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd, graph)
				}
				printGraph(cmd, graph)
				return nil
			})
		},
	}
	cmd.Flags().Bool("json", false, "Print the graph as JSON")
	return cmd
}

func printGraph(cmd *cobra.Command, graph *domain.Graph) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%d node(s), %d edge(s)\n", len(graph.Nodes), len(graph.Edges))
	for _, node := range graph.Nodes {
		_, _ = fmt.Fprintf(out, "  %s [%s] line %d, %d step(s)\n", node.ID, node.Kind, node.Line, node.Steps)
	}
	for _, edge := range graph.Edges {
		line := fmt.Sprintf("  %s -> %s [%s]", edge.From, edge.To, edge.Kind)
		if edge.Label != "" {
			line += fmt.Sprintf(" %q", edge.Label)
		}
		if edge.Dangling {
			line += " (dangling)"
		}
		_, _ = fmt.Fprintln(out, line)
	}
}

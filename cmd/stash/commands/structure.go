package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"go.scriptor.dev/stash/internal/core/domain"
)

func (c *CLI) newStructureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "structure <file>",
		Short: "Print the block outline of a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			return c.session(cmd.Context(), func(ctx context.Context) error {
				structure, err := c.app.StructureFor(ctx, args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd, structure)
				}
				printStructure(cmd, structure)
				return nil
			})
		},
	}
	cmd.Flags().Bool("json", false, "Print the structure as JSON")
	return cmd
}

func printStructure(cmd *cobra.Command, structure *domain.Structure) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%d block(s), %d line(s)\n", len(structure.Blocks), structure.Lines)
	for _, block := range structure.Blocks {
		_, _ = fmt.Fprintf(out, "  %s [%s] lines %d-%d, %d step(s)\n",
			block.Name, block.Kind, block.Line, block.EndLine, len(block.Steps))
	}
}

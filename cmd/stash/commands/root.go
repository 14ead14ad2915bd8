// Package commands implements the CLI commands for the stash cache tool.
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.trai.ch/zerr"

	"go.scriptor.dev/stash/internal/adapters/config"
	"go.scriptor.dev/stash/internal/app"
	"go.scriptor.dev/stash/internal/build"
	"go.scriptor.dev/stash/internal/core/domain"
)

// Application is the session surface the commands drive.
type Application interface {
	Root() string
	Open(ctx context.Context) error
	Close(ctx context.Context) error
	StructureFor(ctx context.Context, path string) (*domain.Structure, error)
	GraphFor(ctx context.Context, path string) (*domain.Graph, error)
	Warm(ctx context.Context, root string) (app.WarmResult, error)
	Watch(ctx context.Context, root string) error
	Stats() domain.CacheStats
	ClearCache(ctx context.Context, alsoSnapshot bool) error
}

// CLI represents the command line interface for stash.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "stash",
		Short:         "A derived-artifact cache for script projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	// These three act before the command graph is even built; see
	// GlobalOverrides. They are declared here so help and completion see
	// them.
	rootCmd.PersistentFlags().String("config", "", "Path to stash.yml (default: discovered upward from the working directory)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newStructureCmd())
	rootCmd.AddCommand(c.newGraphCmd())
	rootCmd.AddCommand(c.newWarmCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newStatsCmd())
	rootCmd.AddCommand(c.newClearCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// GlobalOverrides extracts the root flags that must act before the
// application graph is built: the graph resolves configuration and logging
// during initialization, long before cobra parses anything. Unknown flags
// belong to subcommands and are ignored; cobra validates them later.
func GlobalOverrides(args []string) config.Overrides {
	fs := pflag.NewFlagSet("stash", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	configFile := fs.String("config", "", "")
	logLevel := fs.String("log-level", "", "")
	logJSON := fs.Bool("log-json", false, "")
	_ = fs.Parse(args)

	o := config.Overrides{
		File:     *configFile,
		LogLevel: *logLevel,
	}
	if *logJSON {
		o.LogFormat = "json"
	}
	return o
}

// session runs body inside an opened session: the previous snapshot is
// loaded first and the cache persisted after, so derived artifacts survive
// from one command invocation to the next.
func (c *CLI) session(ctx context.Context, body func(ctx context.Context) error) error {
	if err := c.app.Open(ctx); err != nil {
		return err
	}

	bodyErr := body(ctx)
	if err := c.app.Close(ctx); err != nil {
		return errors.Join(bodyErr, err)
	}
	return bodyErr
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to encode output")
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

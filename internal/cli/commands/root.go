// Package commands implements the typefetch command tree.
package commands

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/alperekinci99/typefetch-cli/internal/config"
	"github.com/alperekinci99/typefetch-cli/internal/infer"
	"github.com/alperekinci99/typefetch-cli/internal/logging"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// globals holds state shared by every subcommand.
type globals struct {
	cfg        *config.Config
	logLevel   string
	logFormat  string
	noColor    bool
	logCleanup func() error
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "typefetch",
		Short: "Infer type declarations from JSON samples",
		Long: `typefetch infers named type declarations from one or more JSON samples.

Samples of the same value are merged: fields missing from some samples become
optional, integers and floats widen to float, conflicting kinds become unions,
and structurally equal objects share one declaration. The result is a
declaration graph, a JSON Schema (Draft 2020-12) document, or a field
statistics table.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if g.logCleanup != nil {
				return g.logCleanup()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&g.logFormat, "log-format", "", "Log format: text or json (default from LOG_FORMAT)")
	rootCmd.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewInferCommand(g))
	rootCmd.AddCommand(NewFetchCommand(g))
	rootCmd.AddCommand(NewCheckCommand(g))
	rootCmd.AddCommand(NewDiffCommand(g))
	rootCmd.AddCommand(NewServeCommand(g))

	return rootCmd
}

// setup loads configuration and, except for serve, installs the logger.
func (g *globals) setup(cmd *cobra.Command) error {
	if g.noColor {
		color.NoColor = true
	}

	g.cfg = config.Load()
	if g.logLevel != "" {
		g.cfg.LogLevel = g.logLevel
	}
	if g.logFormat != "" {
		g.cfg.LogFormat = g.logFormat
	}

	// serve configures logging through the MCP server
	if cmd.Name() == "serve" || cmd.Name() == "version" {
		return nil
	}

	cleanup, err := logging.Setup(logging.Config{
		Level:      g.cfg.LogLevel,
		Format:     g.cfg.LogFormat,
		FilePath:   g.cfg.LogFile,
		MaxSizeMB:  g.cfg.LogMaxSizeMB,
		MaxBackups: g.cfg.LogMaxBackups,
		MaxAgeDays: g.cfg.LogMaxAgeDays,
		Compress:   g.cfg.LogCompress,
		Writer:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	g.logCleanup = cleanup
	return nil
}

// service validates the resolved configuration and returns an inference
// service for it. Commands call it after applying their flags.
func (g *globals) service() (*infer.Service, error) {
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}
	return infer.NewService(g.cfg)
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			title := color.New(color.FgCyan, color.Bold)
			out := cmd.OutOrStdout()

			title.Fprint(out, "typefetch version: ")
			fmt.Fprintln(out, Version)
			title.Fprint(out, "Git commit: ")
			fmt.Fprintln(out, GitCommit)
			title.Fprint(out, "Build date: ")
			fmt.Fprintln(out, BuildDate)
			title.Fprint(out, "Go version: ")
			fmt.Fprintln(out, runtime.Version())
		},
	}
}

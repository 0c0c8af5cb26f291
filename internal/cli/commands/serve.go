package commands

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alperekinci99/typefetch-cli/internal/mcp"
	"github.com/alperekinci99/typefetch-cli/pkg/mcpsrv"
)

// NewServeCommand creates the serve command
func NewServeCommand(g *globals) *cobra.Command {
	var (
		noFetch   bool
		noPrompts bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Long: `Run typefetch as a Model Context Protocol server over stdio.

Tools: typefetch_infer_types, typefetch_field_stats, typefetch_select_preview
and typefetch_fetch_types. Logs go to stderr or LOG_FILE; stdout carries
protocol frames only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if noFetch {
				g.cfg.AllowFetch = false
			}
			mcp.Version = Version

			opts := []mcpsrv.Option{mcpsrv.WithConfig(g.cfg)}
			if noPrompts {
				opts = append(opts, mcpsrv.WithoutBuiltinPrompts())
			}

			server, err := mcpsrv.NewServer(opts...)
			if err != nil {
				return err
			}
			defer server.Close()

			slog.Info("starting typefetch MCP server on stdio")
			if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			slog.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&noFetch, "no-fetch", false, "Do not register the typefetch_fetch_types tool")
	cmd.Flags().BoolVar(&noPrompts, "no-prompts", false, "Do not register the builtin prompts")

	return cmd
}

package commands

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alperekinci99/typefetch-cli/internal/cli/ui"
	"github.com/alperekinci99/typefetch-cli/internal/compare"
	"github.com/alperekinci99/typefetch-cli/internal/infer"
	"github.com/alperekinci99/typefetch-cli/pkg/types"
)

var errBreaking = errors.New("breaking shape changes")

// NewDiffCommand creates the diff command
func NewDiffCommand(g *globals) *cobra.Command {
	var (
		baseline    []string
		selectExpr  string
		ignorePaths []string
		asJSON      bool
		failOnBreak bool
		ndjson      bool
	)

	cmd := &cobra.Command{
		Use:   "diff --baseline file... [file...]",
		Short: "Compare the shape of two sample sets",
		Long: `Compare the fields of a baseline sample set with a candidate set read from
files or stdin. Every field path is reported when it was added or removed,
changed its type, or changed optionality or nullability. Removals, type
changes and fields that became optional or nullable are breaking.`,
		Example: `  # What changed since the snapshot was taken?
  curl -s https://api.example.com/v1/users | typefetch diff --baseline users-2025-01.json

  # Fail a CI job on breaking changes
  typefetch diff --baseline old/*.json --fail-on-breaking new/*.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{stdinName}
			}
			before, err := readSamples(cmd.InOrStdin(), baseline, ndjson, false)
			if err != nil {
				return fmt.Errorf("baseline: %w", err)
			}
			after, err := readSamples(cmd.InOrStdin(), args, ndjson, false)
			if err != nil {
				return fmt.Errorf("candidate: %w", err)
			}

			svc, err := g.service()
			if err != nil {
				return err
			}
			opts := infer.Options{Select: selectExpr}
			base, err := svc.Infer(cmd.Context(), before, opts)
			if err != nil {
				return fmt.Errorf("baseline: %w", err)
			}
			cand, err := svc.Infer(cmd.Context(), after, opts)
			if err != nil {
				return fmt.Errorf("candidate: %w", err)
			}

			report := compare.Diff(base.FieldStats, cand.FieldStats, &compare.Options{IgnorePaths: ignorePaths})

			var out []byte
			if asJSON {
				if out, err = marshalIndent(report); err != nil {
					return err
				}
			} else {
				var buf bytes.Buffer
				renderDiff(&buf, report, g.noColor)
				out = buf.Bytes()
			}
			if _, err := cmd.OutOrStdout().Write(out); err != nil {
				return err
			}

			s := report.Summary
			if failOnBreak && s.Breaking > 0 {
				return fmt.Errorf("%w: %d", errBreaking, s.Breaking)
			}
			ui.NewPrinter(cmd.ErrOrStderr(), g.noColor).Success("Diff",
				fmt.Sprintf("%d added, %d removed, %d changed, %d breaking", s.Added, s.Removed, s.Changed, s.Breaking))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&baseline, "baseline", nil, "Baseline sample files (repeatable or comma-separated)")
	cmd.Flags().StringVar(&selectExpr, "select", "", "jq expression applied to both sample sets")
	cmd.Flags().StringSliceVar(&ignorePaths, "ignore", nil, "Field paths to leave out, with everything below them")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&failOnBreak, "fail-on-breaking", false, "Exit non-zero when a change is breaking")
	cmd.Flags().BoolVar(&ndjson, "ndjson", false, "Treat every non-empty input line as one sample")
	_ = cmd.MarkFlagRequired("baseline")

	return cmd
}

func renderDiff(buf *bytes.Buffer, report *types.DiffReport, noColor bool) {
	if len(report.Changes) == 0 {
		fmt.Fprintln(buf, "no shape changes")
		return
	}
	table := ui.NewTable(buf, noColor, "PATH", "CHANGE", "BASELINE", "CANDIDATE", "BREAKING")
	for _, c := range report.Changes {
		table.AddRow(c.Path, string(c.Change), c.Baseline, c.Candidate, strconv.FormatBool(c.Breaking))
	}
	table.Render()
}

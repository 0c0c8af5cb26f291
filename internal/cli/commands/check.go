package commands

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alperekinci99/typefetch-cli/internal/cli/ui"
	"github.com/alperekinci99/typefetch-cli/internal/schema"
	"github.com/alperekinci99/typefetch-cli/pkg/types"
)

// errMismatch is returned when a sample does not match the schema, so the
// process exits non-zero.
var errMismatch = errors.New("samples do not match the schema")

// NewCheckCommand creates the check command
func NewCheckCommand(g *globals) *cobra.Command {
	var (
		schemaPath string
		selectExpr string
		asJSON     bool
		ndjson     bool
		yamlInput  bool
	)

	cmd := &cobra.Command{
		Use:   "check --schema file [file...]",
		Short: "Validate samples against a JSON Schema",
		Long: `Validate JSON samples against a JSON Schema, typically one written earlier by
"typefetch infer --format schema". Input files are read the same way as by
infer. The command fails when any sample does not match.`,
		Example: `  # Do today's responses still fit yesterday's types?
  typefetch check --schema types/users.schema.json today/*.json

  # Check each item of a paginated response
  curl -s https://api.example.com/v1/orders | typefetch check --schema orders.schema.json --select '.data[]'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(schemaPath)
			if err != nil {
				return fmt.Errorf("reading schema: %w", err)
			}
			validator, err := schema.NewValidator(raw)
			if err != nil {
				return fmt.Errorf("%s: %w", schemaPath, err)
			}

			if len(args) == 0 {
				args = []string{stdinName}
			}
			samples, err := readSamples(cmd.InOrStdin(), args, ndjson, yamlInput)
			if err != nil {
				return err
			}

			svc, err := g.service()
			if err != nil {
				return err
			}
			report, err := svc.Check(cmd.Context(), samples, selectExpr, validator)
			if err != nil {
				return err
			}

			if asJSON {
				out, err := marshalIndent(report)
				if err != nil {
					return err
				}
				if _, err := cmd.OutOrStdout().Write(out); err != nil {
					return err
				}
			} else {
				var buf bytes.Buffer
				renderValidation(&buf, report, g.noColor)
				if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
					return err
				}
			}

			if !report.Summary.AllMatch {
				return fmt.Errorf("%w: %d of %d failed", errMismatch, report.Summary.FailedCount, report.Summary.TotalSamples)
			}
			ui.NewPrinter(cmd.ErrOrStderr(), g.noColor).Success("Valid", fmt.Sprintf("%d samples match %s", report.Summary.TotalSamples, schemaPath))
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "JSON Schema file to validate against")
	cmd.Flags().StringVar(&selectExpr, "select", "", "jq expression; every value it emits is validated on its own")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the validation report as JSON")
	cmd.Flags().BoolVar(&ndjson, "ndjson", false, "Treat every non-empty input line as one sample")
	cmd.Flags().BoolVar(&yamlInput, "yaml", false, "Read every input as YAML (default: by file extension)")
	cmd.MarkFlagsMutuallyExclusive("ndjson", "yaml")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func renderValidation(buf *bytes.Buffer, report *types.ValidationReport, noColor bool) {
	table := ui.NewTable(buf, noColor, "SAMPLE", "VALID", "ERRORS")
	for _, r := range report.Results {
		valid := "yes"
		if !r.Valid {
			valid = "no"
		}
		table.AddRow(r.Label, valid, strings.Join(r.Errors, "; "))
	}
	table.Render()
}

package commands

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alperekinci99/typefetch-cli/internal/infer"
	"github.com/alperekinci99/typefetch-cli/pkg/contenttype"
	"github.com/alperekinci99/typefetch-cli/pkg/textquery"
)

const stdinName = "-"

// NewInferCommand creates the infer command
func NewInferCommand(g *globals) *cobra.Command {
	flags := &generateFlags{}
	var ndjson, yamlInput bool

	cmd := &cobra.Command{
		Use:   "infer [file...]",
		Short: "Infer types from JSON files or stdin",
		Long: `Infer types from JSON samples read from files, or from stdin when no file
is given (or the file is "-"). Every file is one sample; with --ndjson every
non-empty line is one sample. Files ending in .yaml or .yml (or any input with
--yaml) are read as YAML, one sample per YAML document.`,
		Example: `  # Merge three captured responses into one declaration graph
  typefetch infer users-1.json users-2.json users-3.json

  # JSON Schema for the items of a paginated response
  curl -s https://api.example.com/v1/orders | typefetch infer --name orders --select '.data[]' --format schema

  # Field statistics over a log of events
  typefetch infer --ndjson --format table events.ndjson

  # Write to src/types and keep a masked snapshot
  typefetch infer --out src/types --snapshot-dir .typefetch/snapshots --mask-email customer.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			if len(args) == 0 {
				args = []string{stdinName}
			}

			samples, err := readSamples(cmd.InOrStdin(), args, ndjson, yamlInput)
			if err != nil {
				return err
			}

			rawBase := flags.name
			if rawBase == "" {
				rawBase = baseFromFiles(args)
			}
			if rawBase == "" {
				rawBase = g.cfg.BaseName
			}

			gen := &generation{
				g:       g,
				flags:   flags,
				rawBase: rawBase,
				source:  strings.Join(args, ", "),
			}
			return gen.run(cmd.Context(), cmd, samples)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&ndjson, "ndjson", false, "Treat every non-empty input line as one sample")
	cmd.Flags().BoolVar(&yamlInput, "yaml", false, "Read every input as YAML (default: by file extension)")
	cmd.MarkFlagsMutuallyExclusive("ndjson", "yaml")

	return cmd
}

// readSamples reads one sample per file, one per line with ndjson, or one
// per document for YAML input.
func readSamples(stdin io.Reader, files []string, ndjson, yamlInput bool) ([]infer.Sample, error) {
	var samples []infer.Sample
	for _, name := range files {
		data, label, err := readInput(stdin, name)
		if err != nil {
			return nil, err
		}
		if yamlInput || (name != stdinName && contenttype.FromPath(name) == contenttype.YAML) {
			docs, err := textquery.YAMLToJSON(data)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", label, err)
			}
			samples = append(samples, infer.Documents(label, docs)...)
			continue
		}
		if !ndjson {
			samples = append(samples, infer.Sample{Label: label, Data: data})
			continue
		}

		sc := bufio.NewScanner(bytes.NewReader(data))
		sc.Buffer(make([]byte, 0, 64*1024), len(data)+1)
		for line := 1; sc.Scan(); line++ {
			text := bytes.TrimSpace(sc.Bytes())
			if len(text) == 0 {
				continue
			}
			samples = append(samples, infer.Sample{
				Label: fmt.Sprintf("%s:%d", label, line),
				Data:  bytes.Clone(text),
			})
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", label, err)
		}
	}
	return samples, nil
}

func readInput(stdin io.Reader, name string) ([]byte, string, error) {
	if name == stdinName {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", fmt.Errorf("reading stdin: %w", err)
		}
		return data, "stdin", nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, "", fmt.Errorf("reading sample: %w", err)
	}
	return data, name, nil
}

// baseFromFiles derives a raw base name from a single input file name.
func baseFromFiles(files []string) string {
	if len(files) != 1 || files[0] == stdinName {
		return ""
	}
	base := filepath.Base(files[0])
	for ext := filepath.Ext(base); ext != ""; ext = filepath.Ext(base) {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

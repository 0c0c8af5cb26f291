package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alperekinci99/typefetch-cli/internal/cli/ui"
	"github.com/alperekinci99/typefetch-cli/internal/infer"
	"github.com/alperekinci99/typefetch-cli/internal/naming"
	"github.com/alperekinci99/typefetch-cli/pkg/jsonschema"
)

// Output formats.
const (
	formatGraph  = "graph"
	formatSchema = "schema"
	formatStats  = "stats"
	formatTable  = "table"
	formatResult = "result"
)

var formats = []string{formatGraph, formatSchema, formatStats, formatTable, formatResult}

// generateFlags are shared by infer and fetch.
type generateFlags struct {
	name             string
	nameFormat       string
	fileNameFormat   string
	selectExpr       string
	format           string
	outDir           string
	snapshotDir      string
	maskEmail        bool
	maskPhone        bool
	nullableOptional bool
	closed           bool
}

func (f *generateFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "Raw base name for the root type and output files (default: derived from the input)")
	fs.StringVar(&f.nameFormat, "name-format", "", "Root type name pattern, e.g. I{{name}}, {{name}}Dto (default from TYPEFETCH_NAME_FORMAT)")
	fs.StringVar(&f.fileNameFormat, "file-name-format", "", "Output file base pattern, e.g. {{name}}.types (default from TYPEFETCH_FILE_NAME_FORMAT)")
	fs.StringVar(&f.selectExpr, "select", "", "jq expression; every value it emits becomes one sample (e.g. '.data.items[]')")
	fs.StringVar(&f.format, "format", formatGraph, "Output: "+strings.Join(formats, ", "))
	fs.StringVar(&f.outDir, "out", "", "Directory for the output file (default: stdout, or TYPEFETCH_OUT_DIR)")
	fs.StringVar(&f.snapshotDir, "snapshot-dir", "", "Directory for a JSON snapshot of the sanitized samples (default: TYPEFETCH_SNAPSHOT_DIR, none if empty)")
	fs.BoolVar(&f.maskEmail, "mask-email", false, "Mask email addresses before inference and in snapshots")
	fs.BoolVar(&f.maskPhone, "mask-phone", false, "Mask phone numbers before inference and in snapshots")
	fs.BoolVar(&f.nullableOptional, "nullable-optional", false, "Leave nullable fields out of required in the JSON Schema")
	fs.BoolVar(&f.closed, "closed", false, "Set additionalProperties=false on every object schema")
}

func (f *generateFlags) validate() error {
	for _, v := range formats {
		if f.format == v {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q (want one of: %s)", f.format, strings.Join(formats, ", "))
}

// generation is one resolved generate run.
type generation struct {
	g       *globals
	flags   *generateFlags
	rawBase string // raw name for the root type and files; may be empty
	source  string // recorded in schema output, e.g. a URL or file list
}

// run infers from samples and writes the requested output and snapshot.
func (gen *generation) run(ctx context.Context, cmd *cobra.Command, samples []infer.Sample) error {
	cfg := gen.g.cfg
	f := gen.flags

	if f.nameFormat != "" {
		cfg.NameFormat = f.nameFormat
	}
	if f.fileNameFormat != "" {
		cfg.FileNameFormat = f.fileNameFormat
	}
	if f.outDir != "" {
		cfg.OutDir = f.outDir
	}
	if f.snapshotDir != "" {
		cfg.SnapshotDir = f.snapshotDir
	}
	svc, err := gen.g.service()
	if err != nil {
		return err
	}

	opts := infer.Options{
		BaseName:         gen.rawBase,
		Select:           f.selectExpr,
		MaskEmail:        f.maskEmail,
		MaskPhone:        f.maskPhone,
		NullableOptional: f.nullableOptional,
	}
	if f.closed {
		closed := false
		opts.AdditionalProperties = &closed
	}

	res, err := svc.Infer(ctx, samples, opts)
	if err != nil {
		return err
	}

	status := ui.NewPrinter(cmd.ErrOrStderr(), gen.g.noColor)
	for _, msg := range res.SelectErrors {
		status.Warn("%s", msg)
	}

	if cfg.SnapshotDir != "" {
		path := filepath.Join(cfg.SnapshotDir, gen.baseOrDefault()+".json")
		if err := writeJSONFile(path, snapshot(res)); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}
		status.Success("Snapshot", path)
	}

	out, err := gen.render(res)
	if err != nil {
		return err
	}

	if cfg.OutDir == "" {
		_, err := cmd.OutOrStdout().Write(out)
		return err
	}

	path := filepath.Join(cfg.OutDir, naming.FileName(gen.rawBase, cfg.FileNameFormat)+extension(f.format))
	if err := writeFile(path, out); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	status.Success("Types", path)
	return nil
}

func (gen *generation) baseOrDefault() string {
	if gen.rawBase == "" {
		return naming.DefaultBaseName
	}
	return gen.rawBase
}

func (gen *generation) render(res *infer.Result) ([]byte, error) {
	switch gen.flags.format {
	case formatSchema:
		schema := *res.Schema
		schema.Comments = fmt.Sprintf("Generated by typefetch from %s. Top-level type: %s. Do not edit manually.", gen.source, res.RootName)
		return marshalIndent(&schema)
	case formatStats:
		return marshalIndent(res.FieldStats)
	case formatTable:
		var buf bytes.Buffer
		renderStats(&buf, res.FieldStats, gen.g.noColor)
		return buf.Bytes(), nil
	case formatResult:
		return marshalIndent(res)
	default:
		return marshalIndent(res.Graph)
	}
}

func renderStats(buf *bytes.Buffer, stats []jsonschema.FieldStat, noColor bool) {
	table := ui.NewTable(buf, noColor, "PATH", "TYPE", "FREQ", "REQUIRED", "NULLABLE", "FORMAT", "EXAMPLES")
	for _, fs := range stats {
		examples := make([]string, 0, len(fs.Examples))
		for _, ex := range fs.Examples {
			b, err := json.Marshal(ex)
			if err != nil {
				continue
			}
			examples = append(examples, string(b))
		}
		table.AddRow(
			fs.Path,
			fs.Type,
			strconv.FormatFloat(fs.Frequency, 'f', 2, 64),
			strconv.FormatBool(fs.Required),
			strconv.FormatBool(fs.Nullable),
			fs.Format,
			strings.Join(examples, ", "),
		)
	}
	table.Render()
}

// snapshot is the sanitized sample set: a single value, or an array.
func snapshot(res *infer.Result) any {
	if len(res.Values) == 1 {
		return res.Values[0]
	}
	return res.Values
}

func extension(format string) string {
	switch format {
	case formatSchema:
		return ".schema.json"
	case formatTable:
		return ".txt"
	default:
		return ".json"
	}
}

func marshalIndent(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding output: %w", err)
	}
	return append(b, '\n'), nil
}

func writeJSONFile(path string, v any) error {
	b, err := marshalIndent(v)
	if err != nil {
		return err
	}
	return writeFile(path, b)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

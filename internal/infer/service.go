// Package infer runs the inference pipeline: raw JSON samples in, a merged
// shape, a type graph, a JSON Schema document and field statistics out.
package infer

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	invjs "github.com/invopop/jsonschema"
	"golang.org/x/sync/singleflight"

	"github.com/alperekinci99/typefetch-cli/internal/cache"
	"github.com/alperekinci99/typefetch-cli/internal/config"
	"github.com/alperekinci99/typefetch-cli/internal/naming"
	"github.com/alperekinci99/typefetch-cli/internal/query"
	"github.com/alperekinci99/typefetch-cli/internal/redact"
	"github.com/alperekinci99/typefetch-cli/pkg/jsonschema"
	"github.com/alperekinci99/typefetch-cli/pkg/shape"
	"github.com/alperekinci99/typefetch-cli/pkg/typegraph"
)

var (
	// ErrTooManySamples is returned when a request exceeds MAX_SAMPLES.
	ErrTooManySamples = errors.New("too many samples")
	// ErrSampleTooLarge is returned when a sample exceeds MAX_SAMPLE_BYTES.
	ErrSampleTooLarge = errors.New("sample too large")
)

// Sample is one raw JSON document.
type Sample struct {
	Label string // file name or other identifier used in errors and logs
	Data  []byte
}

// Documents labels the JSON documents of one source: a single document is
// labeled source, several are labeled source#1, source#2, ...
func Documents(source string, docs [][]byte) []Sample {
	if len(docs) == 1 {
		return []Sample{{Label: source, Data: docs[0]}}
	}
	out := make([]Sample, len(docs))
	for i, d := range docs {
		out[i] = Sample{Label: fmt.Sprintf("%s#%d", source, i+1), Data: d}
	}
	return out
}

// Options controls a single inference run. Zero values fall back to the
// service configuration.
type Options struct {
	BaseName   string // raw base for the root type name, e.g. "users"
	NameFormat string // root name pattern, e.g. "I{{name}}"
	Select     string // jq expression; each emitted value is one sample
	MaskEmail  bool
	MaskPhone  bool

	// Schema export
	NullableOptional     bool
	AdditionalProperties *bool
}

// Result is the outcome of an inference run. Results may be shared through
// the cache and must not be modified.
type Result struct {
	RootName     string                 `json:"root_name"`
	Graph        *typegraph.Graph       `json:"graph"`
	Schema       *invjs.Schema          `json:"schema"`
	FieldStats   []jsonschema.FieldStat `json:"field_stats"`
	SampleCount  int                    `json:"sample_count"`
	AllMatch     bool                   `json:"all_match"` // every sample had the same shape
	SelectErrors []string               `json:"select_errors,omitempty"`
	Digest       string                 `json:"digest"`

	Shape  *shape.Shape `json:"-"` // merged root shape
	Values []any        `json:"-"` // decoded, selected and masked samples
}

// Service runs inference requests. It is safe for concurrent use; identical
// concurrent requests are computed once.
type Service struct {
	cfg    *config.Config
	engine *query.Engine
	cache  *cache.ResultCache[*Result]
	group  singleflight.Group
}

// NewService creates a service with the given configuration.
func NewService(cfg *config.Config) (*Service, error) {
	if cfg == nil {
		cfg = config.Load()
	}
	if cfg.ExtractWorkers < 1 {
		return nil, fmt.Errorf("EXTRACT_WORKERS must be positive, got %d", cfg.ExtractWorkers)
	}
	c, err := cache.NewResultCache[*Result](cfg.ResultCacheMaxItems)
	if err != nil {
		return nil, fmt.Errorf("creating result cache: %w", err)
	}
	return &Service{
		cfg:    cfg,
		engine: query.NewEngine(),
		cache:  c,
	}, nil
}

// Config returns the service configuration.
func (s *Service) Config() *config.Config {
	return s.cfg
}

// Lookup returns a cached result by digest.
func (s *Service) Lookup(digest string) (*Result, bool) {
	return s.cache.Get(digest)
}

// Infer runs the pipeline over samples.
//
// It returns shape.ErrEmptySampleSet when there are no samples or the
// selection matched nothing, and a *shape.MalformedInputError (wrapped with
// the sample label) when a sample is not valid JSON.
func (s *Service) Infer(ctx context.Context, samples []Sample, opts Options) (*Result, error) {
	if err := s.checkLimits(samples); err != nil {
		return nil, err
	}
	opts = s.withDefaults(opts)

	digest := Digest(samples, opts)
	if cached, ok := s.cache.Get(digest); ok {
		slog.Debug("inference cache hit", slog.String("digest", digest))
		return cached, nil
	}

	v, err, shared := s.group.Do(digest, func() (any, error) {
		return s.run(ctx, samples, opts, digest)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		slog.Debug("inference shared with concurrent request", slog.String("digest", digest))
	}
	return v.(*Result), nil
}

func (s *Service) checkLimits(samples []Sample) error {
	if len(samples) == 0 {
		return shape.ErrEmptySampleSet
	}
	if len(samples) > s.cfg.MaxSamples {
		return fmt.Errorf("%w: %d exceeds limit %d", ErrTooManySamples, len(samples), s.cfg.MaxSamples)
	}
	for i, sm := range samples {
		if len(sm.Data) > s.cfg.MaxSampleBytes {
			return fmt.Errorf("%s: %w: %d bytes exceeds limit %d",
				label(sm, i), ErrSampleTooLarge, len(sm.Data), s.cfg.MaxSampleBytes)
		}
	}
	return nil
}

func (s *Service) withDefaults(opts Options) Options {
	if opts.BaseName == "" {
		opts.BaseName = s.cfg.BaseName
	}
	if opts.NameFormat == "" {
		opts.NameFormat = s.cfg.NameFormat
	}
	if !opts.MaskEmail {
		opts.MaskEmail = s.cfg.MaskEmail
	}
	if !opts.MaskPhone {
		opts.MaskPhone = s.cfg.MaskPhone
	}
	return opts
}

func (s *Service) run(ctx context.Context, samples []Sample, opts Options, digest string) (*Result, error) {
	start := time.Now()

	docs, err := decodeAll(ctx, samples, s.cfg.ExtractWorkers)
	if err != nil {
		return nil, err
	}

	values := docs
	var selectErrors []string
	if opts.Select != "" {
		labels := make([]string, len(samples))
		for i, sm := range samples {
			labels[i] = label(sm, i)
		}
		sel, err := s.engine.Select(docs, labels, opts.Select, s.cfg.MaxSamples)
		if err != nil {
			return nil, err
		}
		for _, msg := range sel.Errors {
			slog.Warn("selection error", slog.String("error", msg))
		}
		if len(sel.Values) == 0 {
			return nil, fmt.Errorf("selection %q matched nothing: %w", opts.Select, shape.ErrEmptySampleSet)
		}
		values, selectErrors = sel.Values, sel.Errors
	}

	masking := redact.Options{Email: opts.MaskEmail, Phone: opts.MaskPhone}
	if masking.Enabled() {
		masked := make([]any, len(values))
		for i, v := range values {
			masked[i] = redact.Value(v, masking)
		}
		values = masked
	}

	shapes, err := extractAll(ctx, values, s.cfg.ExtractWorkers)
	if err != nil {
		return nil, err
	}
	root, err := foldTree(ctx, shapes, s.cfg.ExtractWorkers)
	if err != nil {
		return nil, err
	}

	rootName := RootName(opts.BaseName, opts.NameFormat)
	graph := typegraph.Build(root, rootName)

	exportOpts := jsonschema.DefaultExportOptions()
	exportOpts.MarkNullableAsOptional = opts.NullableOptional
	exportOpts.AdditionalProperties = opts.AdditionalProperties

	result := &Result{
		RootName:     rootName,
		Graph:        graph,
		Schema:       jsonschema.FromGraph(graph, exportOpts),
		FieldStats:   jsonschema.FieldStats(root, values),
		SampleCount:  len(values),
		AllMatch:     allMatch(shapes),
		SelectErrors: selectErrors,
		Digest:       digest,
		Shape:        root,
		Values:       values,
	}
	s.cache.Put(digest, result)

	slog.Info("inferred types",
		slog.String("root", rootName),
		slog.Int("samples", result.SampleCount),
		slog.Int("declarations", len(graph.Declarations)),
		slog.Bool("all_match", result.AllMatch),
		slog.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

// RootName returns the root type name for a raw base and a name pattern.
// Without a base the default name is used as-is.
func RootName(base, format string) string {
	if base == "" {
		return naming.DefaultBaseName
	}
	return naming.TypeName(base, format)
}

// Digest identifies a request by its samples and options.
func Digest(samples []Sample, opts Options) string {
	h := xxhash.New()
	writeField := func(s string) {
		_, _ = h.WriteString(s)
		_, _ = h.Write([]byte{0})
	}
	writeField(opts.BaseName)
	writeField(opts.NameFormat)
	writeField(opts.Select)
	writeField(strconv.FormatBool(opts.MaskEmail))
	writeField(strconv.FormatBool(opts.MaskPhone))
	writeField(strconv.FormatBool(opts.NullableOptional))
	if opts.AdditionalProperties != nil {
		writeField(strconv.FormatBool(*opts.AdditionalProperties))
	} else {
		writeField("")
	}

	var n [8]byte
	for _, sm := range samples {
		binary.LittleEndian.PutUint64(n[:], uint64(len(sm.Data)))
		_, _ = h.Write(n[:])
		_, _ = h.Write(sm.Data)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

func label(sm Sample, i int) string {
	if sm.Label != "" {
		return sm.Label
	}
	return fmt.Sprintf("sample[%d]", i)
}

func allMatch(shapes []*shape.Shape) bool {
	for _, s := range shapes[1:] {
		if !shape.Equal(shapes[0], s) {
			return false
		}
	}
	return true
}

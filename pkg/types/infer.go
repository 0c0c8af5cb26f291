package types

import "github.com/alperekinci99/typefetch-cli/pkg/jsonschema"

// InferTypesOutput is the output type for the typefetch_infer_types tool.
// Graph and Schema are recursive structures and travel as untyped JSON.
type InferTypesOutput struct {
	RootName string `json:"root_name"`

	// Declaration graph (declarations in dependency order, root reference)
	Graph any `json:"graph"`

	// JSON Schema (Draft 2020-12) with one $defs entry per declaration
	Schema any `json:"schema,omitempty"`

	Summary InferSummary `json:"summary"`

	// Resources holding the full result
	Resources []ResourceRef `json:"resources,omitzero"`

	// Hint for the next step
	Hint string `json:"hint,omitempty"`
}

// InferSummary describes the inference run.
type InferSummary struct {
	SamplesProvided int      `json:"samples_provided"`
	SampleCount     int      `json:"sample_count"` // values inferred after selection
	AllMatch        bool     `json:"all_match"`
	Records         int      `json:"records"`
	Sums            int      `json:"sums"`
	Aliases         int      `json:"aliases"`
	Digest          string   `json:"digest"`
	SelectErrors    []string `json:"select_errors,omitzero"`
}

// FieldStatsOutput is the output type for the typefetch_field_stats tool.
type FieldStatsOutput struct {
	RootName    string                 `json:"root_name"`
	SampleCount int                    `json:"sample_count"`
	FieldStats  []jsonschema.FieldStat `json:"field_stats,omitzero"`
	Hint        string                 `json:"hint,omitempty"`
}

// SelectPreviewOutput is the output type for the typefetch_select_preview tool.
type SelectPreviewOutput struct {
	Expression     string   `json:"expression"`
	Values         []any    `json:"values,omitzero"`
	Errors         []string `json:"errors,omitzero"`
	MatchedIndices []int    `json:"matched_indices,omitzero"`
	Truncated      bool     `json:"truncated"`           // more values matched than returned
	Compacted      bool     `json:"compacted,omitempty"` // arrays or strings inside values were shortened
}

// FetchTypesOutput is the output type for the typefetch_fetch_types tool.
type FetchTypesOutput struct {
	URL         string           `json:"url"` // final URL after redirects
	StatusCode  int              `json:"status_code"`
	ContentType string           `json:"content_type,omitempty"`
	Result      InferTypesOutput `json:"result"`
}

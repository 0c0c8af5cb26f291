package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names.
const (
	NameInferTypes    = "typefetch_infer_types"
	NameFieldStats    = "typefetch_field_stats"
	NameSelectPreview = "typefetch_select_preview"
	NameFetchTypes    = "typefetch_fetch_types"

	NameValidateSamples = "typefetch_validate_samples"
	NameDiffSamples     = "typefetch_diff_samples"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	// Tool 1: typefetch_infer_types
	AddTool(srv, &sdkmcp.Tool{
		Name:        NameInferTypes,
		Description: "Infer named type declarations from one or more JSON samples of the same value. Returns {root_name, graph: {declarations: [{name, kind: record|sum|alias, fields|members|target}], root}, schema (JSON Schema 2020-12 with $defs), summary, resources}. Samples are merged: fields missing from some samples become optional, integer and float widen to float, conflicting kinds become unions. Use select (jq) to infer the type of a nested value, e.g. .data.items[]. Use base_name (e.g. a URL or file name) and name_format to control the root type name.",
	}, ToolInferTypes(d))

	// Tool 2: typefetch_field_stats
	AddTool(srv, &sdkmcp.Tool{
		Name:        NameFieldStats,
		Description: "Compute per-field statistics over JSON samples. Returns {field_stats: [{path, type, frequency, required, nullable, distinct_count, examples, format, enum_values}]}. Paths use dots for nesting and [] for array items, e.g. items[].id. Detected formats: uuid, iso8601, url, email, enum. Use this to decide which fields are reliably present before relying on them; use typefetch_infer_types for the declarations themselves.",
	}, ToolFieldStats(d))

	// Tool 3: typefetch_select_preview
	AddTool(srv, &sdkmcp.Tool{
		Name:        NameSelectPreview,
		Description: "Run a jq expression over JSON samples and return the values it emits, without inferring types. Returns {values, errors, matched_indices, truncated}. Use this to check a select expression before passing it to typefetch_infer_types or typefetch_field_stats.",
	}, ToolSelectPreview(d))

	// Tool 4: typefetch_validate_samples
	AddTool(srv, &sdkmcp.Tool{
		Name:        NameValidateSamples,
		Description: "Validate JSON samples against a JSON Schema: either schema (a JSON Schema document) or digest (the summary.digest of an earlier typefetch_infer_types result, whose schema is used). Returns {summary: {total_samples, matching_count, failed_count, all_match}, results: [{label, valid, errors}], common_errors, schema_source}. Error messages are prefixed with the JSON pointer of the offending value, e.g. /items/0/id. Use this to check whether new responses still match types generated earlier.",
	}, ToolValidateSamples(d))

	// Tool 5: typefetch_diff_samples
	AddTool(srv, &sdkmcp.Tool{
		Name:        NameDiffSamples,
		Description: "Compare the shape of two sample sets, e.g. responses recorded last month (baseline) and today (candidate). Returns {summary, changes: [{path, change: added|removed|type_changed|became_optional|became_required|became_nullable|became_non_nullable, baseline, candidate}]}. Paths use the typefetch_field_stats notation (items[].id). Use this to spot API drift before regenerating types.",
	}, ToolDiffSamples(d))

	// Tool 6: typefetch_fetch_types
	if d.Config.AllowFetch {
		AddTool(srv, &sdkmcp.Tool{
			Name:        NameFetchTypes,
			Description: "Call an HTTP endpoint and infer types from its JSON response. Returns {url, status_code, content_type, result} where result has the same shape as typefetch_infer_types output. The root type name is the GraphQL operation name for GraphQL requests, else the last URL path segment, unless base_name is set. YAML responses are converted to JSON. Error statuses are still inferred (the error body is the sample). One response gives no optionality information; collect several responses and use typefetch_infer_types for that.",
		}, ToolFetchTypes(d))
	}
}

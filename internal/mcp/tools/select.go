package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/alperekinci99/typefetch-cli/pkg/jsoncompact"
	"github.com/alperekinci99/typefetch-cli/pkg/shape"
	"github.com/alperekinci99/typefetch-cli/pkg/types"
)

const (
	defaultPreviewLimit = 20
	maxPreviewLimit     = 200
)

// SelectPreviewInput is the input for typefetch_select_preview.
type SelectPreviewInput struct {
	Samples    []string `json:"samples" jsonschema:"JSON documents to run the expression against"`
	Labels     []string `json:"labels,omitempty" jsonschema:"Optional label per sample, used in error messages"`
	Expression string   `json:"expression" jsonschema:"jq expression, e.g. .data.items[]"`
	Limit      int      `json:"limit,omitempty" jsonschema:"Max values returned (default: 20, max: 200)"`
	Full       bool     `json:"full,omitempty" jsonschema:"Return values untrimmed. By default long arrays and strings are shortened"`
}

// ToolSelectPreview runs a jq selection without inferring, so the
// expression can be checked before it is passed as select.
func ToolSelectPreview(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SelectPreviewInput) (*sdkmcp.CallToolResult, types.SelectPreviewOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SelectPreviewInput) (*sdkmcp.CallToolResult, types.SelectPreviewOutput, error) {
		if input.Expression == "" {
			return nil, types.SelectPreviewOutput{}, ErrInvalidInput("expression is required")
		}
		sel, err := d.Query.Compile(input.Expression)
		if err != nil {
			return nil, types.SelectPreviewOutput{}, ErrInvalidInput(err.Error())
		}

		samples, err := d.Samples(input.Samples, input.Labels)
		if err != nil {
			return nil, types.SelectPreviewOutput{}, err
		}

		limit := input.Limit
		if limit <= 0 {
			limit = defaultPreviewLimit
		}
		if limit > maxPreviewLimit {
			limit = maxPreviewLimit
		}

		docs := make([]any, len(samples))
		labels := make([]string, len(samples))
		for i, sm := range samples {
			v, err := shape.Decode(sm.Data)
			if err != nil {
				return nil, types.SelectPreviewOutput{}, WrapInferError(err)
			}
			docs[i] = v
			labels[i] = sm.Label
		}

		// One extra value tells whether the preview was cut.
		res := sel.Select(docs, labels, limit+1)
		output := types.SelectPreviewOutput{
			Expression:     input.Expression,
			Values:         res.Values,
			Errors:         res.Errors,
			MatchedIndices: res.MatchedIndices,
		}
		if len(output.Values) > limit {
			output.Values = output.Values[:limit]
			output.Truncated = true
		}

		if !input.Full {
			for i, v := range output.Values {
				var cut bool
				output.Values[i], cut = jsoncompact.Value(v, nil)
				output.Compacted = output.Compacted || cut
			}
		}

		values, err := toAnySlice(output.Values)
		if err != nil {
			return nil, types.SelectPreviewOutput{}, err
		}
		output.Values = values

		return nil, output, nil
	}
}

// toAnySlice normalizes selected values to plain JSON values.
func toAnySlice(values []any) ([]any, error) {
	if len(values) == 0 {
		return nil, nil
	}
	v, err := types.ToAny(values)
	if err != nil {
		return nil, err
	}
	out, _ := v.([]any)
	return out, nil
}

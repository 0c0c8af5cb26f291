package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/alperekinci99/typefetch-cli/internal/infer"
	"github.com/alperekinci99/typefetch-cli/pkg/types"
)

// FieldStatsInput is the input for typefetch_field_stats.
type FieldStatsInput struct {
	Samples   []string `json:"samples" jsonschema:"JSON documents to analyze, one document per element"`
	Labels    []string `json:"labels,omitempty" jsonschema:"Optional label per sample, used in error messages"`
	Select    string   `json:"select,omitempty" jsonschema:"jq expression applied to every sample; each emitted value becomes one sample"`
	MaskEmail bool     `json:"mask_email,omitempty" jsonschema:"Mask email addresses before collecting examples"`
	MaskPhone bool     `json:"mask_phone,omitempty" jsonschema:"Mask phone numbers before collecting examples"`
}

// ToolFieldStats returns a flat table of per-field statistics.
func ToolFieldStats(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input FieldStatsInput) (*sdkmcp.CallToolResult, types.FieldStatsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input FieldStatsInput) (*sdkmcp.CallToolResult, types.FieldStatsOutput, error) {
		if input.Select != "" {
			if err := d.Query.ValidateExpression(input.Select); err != nil {
				return nil, types.FieldStatsOutput{}, ErrInvalidInput(err.Error())
			}
		}

		samples, err := d.Samples(input.Samples, input.Labels)
		if err != nil {
			return nil, types.FieldStatsOutput{}, err
		}

		result, err := d.Infer.Infer(ctx, samples, infer.Options{
			Select:    input.Select,
			MaskEmail: input.MaskEmail,
			MaskPhone: input.MaskPhone,
		})
		if err != nil {
			return nil, types.FieldStatsOutput{}, WrapInferError(err)
		}

		output := types.FieldStatsOutput{
			RootName:    result.RootName,
			SampleCount: result.SampleCount,
			FieldStats:  result.FieldStats,
		}
		if len(result.FieldStats) == 0 {
			output.Hint = "The samples have no object fields. Use select to reach nested objects, e.g. .data.items[]."
		}

		return nil, output, nil
	}
}

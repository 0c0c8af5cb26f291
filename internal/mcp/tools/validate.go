package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/alperekinci99/typefetch-cli/internal/schema"
	"github.com/alperekinci99/typefetch-cli/pkg/types"
)

// ValidateSamplesInput is the input for typefetch_validate_samples.
type ValidateSamplesInput struct {
	Samples []string `json:"samples" jsonschema:"JSON documents to validate"`
	Labels  []string `json:"labels,omitempty" jsonschema:"Optional label per sample, used in results"`
	Schema  string   `json:"schema,omitempty" jsonschema:"JSON Schema document to validate against"`
	Digest  string   `json:"digest,omitempty" jsonschema:"Digest of an earlier typefetch_infer_types result whose schema is used instead of schema"`
	Select  string   `json:"select,omitempty" jsonschema:"jq expression; every value it emits is validated on its own"`
}

// ToolValidateSamples validates JSON samples against a schema, either given
// inline or taken from a cached inference result.
func ToolValidateSamples(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ValidateSamplesInput) (*sdkmcp.CallToolResult, types.ValidateSamplesOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ValidateSamplesInput) (*sdkmcp.CallToolResult, types.ValidateSamplesOutput, error) {
		if (input.Schema == "") == (input.Digest == "") {
			return nil, types.ValidateSamplesOutput{}, ErrInvalidInput("exactly one of schema or digest is required")
		}
		if input.Select != "" {
			if err := d.Query.ValidateExpression(input.Select); err != nil {
				return nil, types.ValidateSamplesOutput{}, ErrInvalidInput(err.Error())
			}
		}

		var (
			validator *schema.Validator
			source    string
			err       error
		)
		if input.Digest != "" {
			result, ok := d.Infer.Lookup(input.Digest)
			if !ok {
				return nil, types.ValidateSamplesOutput{}, ErrNotFound("result", input.Digest)
			}
			validator, err = schema.FromSchema(result.Schema)
			source = "result:" + input.Digest
		} else {
			validator, err = schema.NewValidator([]byte(input.Schema))
			source = "input"
		}
		if err != nil {
			return nil, types.ValidateSamplesOutput{}, ErrInvalidInput("invalid schema: " + err.Error())
		}

		samples, err := d.Samples(input.Samples, input.Labels)
		if err != nil {
			return nil, types.ValidateSamplesOutput{}, err
		}

		report, err := d.Infer.Check(ctx, samples, input.Select, validator)
		if err != nil {
			return nil, types.ValidateSamplesOutput{}, WrapInferError(err)
		}

		output := types.ValidateSamplesOutput{
			Summary:      report.Summary,
			Results:      report.Results,
			CommonErrors: report.CommonErrors,
			SchemaSource: source,
		}
		if !report.Summary.AllMatch {
			output.Hint = fmt.Sprintf("%d of %d samples do not match. Re-run typefetch_infer_types with the old and new samples together to get types that cover both.",
				report.Summary.FailedCount, report.Summary.TotalSamples)
		}
		return nil, output, nil
	}
}

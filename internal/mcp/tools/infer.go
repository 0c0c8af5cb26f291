package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/alperekinci99/typefetch-cli/internal/infer"
	"github.com/alperekinci99/typefetch-cli/internal/naming"
	"github.com/alperekinci99/typefetch-cli/pkg/typegraph"
	"github.com/alperekinci99/typefetch-cli/pkg/types"
)

// InferTypesInput is the input for typefetch_infer_types.
type InferTypesInput struct {
	Samples          []string `json:"samples" jsonschema:"JSON documents to infer from, one document per element. All samples describe the same logical value."`
	Labels           []string `json:"labels,omitempty" jsonschema:"Optional label per sample (e.g. file name or URL), used in error messages"`
	BaseName         string   `json:"base_name,omitempty" jsonschema:"Raw base for the root type name, e.g. users or a URL. Default: Response"`
	NameFormat       string   `json:"name_format,omitempty" jsonschema:"Root type name pattern containing {{name}}, e.g. I{{name}} or {{name}}Dto. Default: {{name}}Response"`
	Select           string   `json:"select,omitempty" jsonschema:"jq expression applied to every sample; each emitted value becomes one sample (e.g. .data.items[])"`
	MaskEmail        bool     `json:"mask_email,omitempty" jsonschema:"Mask email addresses in sample values"`
	MaskPhone        bool     `json:"mask_phone,omitempty" jsonschema:"Mask phone numbers in sample values"`
	NullableOptional bool     `json:"nullable_optional,omitempty" jsonschema:"Leave nullable fields out of required in the JSON Schema"`
	ClosedObjects    bool     `json:"closed_objects,omitempty" jsonschema:"Set additionalProperties=false on every object schema"`
	OmitSchema       bool     `json:"omit_schema,omitempty" jsonschema:"Return only the declaration graph, not the JSON Schema"`
}

// ToolInferTypes infers named type declarations from JSON samples.
func ToolInferTypes(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferTypesInput) (*sdkmcp.CallToolResult, types.InferTypesOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferTypesInput) (*sdkmcp.CallToolResult, types.InferTypesOutput, error) {
		if input.NameFormat != "" && !naming.ValidPattern(input.NameFormat) {
			return nil, types.InferTypesOutput{}, ErrInvalidInput(fmt.Sprintf("name_format must contain %s", naming.Placeholder))
		}
		if input.Select != "" {
			if err := d.Query.ValidateExpression(input.Select); err != nil {
				return nil, types.InferTypesOutput{}, ErrInvalidInput(err.Error())
			}
		}

		samples, err := d.Samples(input.Samples, input.Labels)
		if err != nil {
			return nil, types.InferTypesOutput{}, err
		}

		opts := infer.Options{
			BaseName:         input.BaseName,
			NameFormat:       input.NameFormat,
			Select:           input.Select,
			MaskEmail:        input.MaskEmail,
			MaskPhone:        input.MaskPhone,
			NullableOptional: input.NullableOptional,
		}
		if input.ClosedObjects {
			closed := false
			opts.AdditionalProperties = &closed
		}

		result, err := d.Infer.Infer(ctx, samples, opts)
		if err != nil {
			return nil, types.InferTypesOutput{}, WrapInferError(err)
		}

		output, err := inferOutput(result, len(samples), input.OmitSchema)
		if err != nil {
			return nil, types.InferTypesOutput{}, err
		}
		output.Hint = "Use typefetch_field_stats with the same samples for per-field frequency, formats and enums."

		return nil, output, nil
	}
}

// inferOutput converts a pipeline result to the tool output.
func inferOutput(result *infer.Result, provided int, omitSchema bool) (types.InferTypesOutput, error) {
	graph, err := types.ToAny(result.Graph)
	if err != nil {
		return types.InferTypesOutput{}, fmt.Errorf("encoding graph: %w", err)
	}

	output := types.InferTypesOutput{
		RootName:  result.RootName,
		Graph:     graph,
		Summary:   summarize(provided, result),
		Resources: ResultResources(result.Digest),
	}
	if !omitSchema {
		schema, err := types.ToAny(result.Schema)
		if err != nil {
			return types.InferTypesOutput{}, fmt.Errorf("encoding schema: %w", err)
		}
		output.Schema = schema
	}
	return output, nil
}

func summarize(provided int, r *infer.Result) types.InferSummary {
	return types.InferSummary{
		SamplesProvided: provided,
		SampleCount:     r.SampleCount,
		AllMatch:        r.AllMatch,
		Records:         r.Graph.Count(typegraph.KindRecord),
		Sums:            r.Graph.Count(typegraph.KindSum),
		Aliases:         r.Graph.Count(typegraph.KindAlias),
		Digest:          r.Digest,
		SelectErrors:    r.SelectErrors,
	}
}

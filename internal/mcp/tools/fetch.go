package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/alperekinci99/typefetch-cli/internal/infer"
	"github.com/alperekinci99/typefetch-cli/internal/naming"
	"github.com/alperekinci99/typefetch-cli/pkg/client"
	"github.com/alperekinci99/typefetch-cli/pkg/types"
)

// FetchTypesInput is the input for typefetch_fetch_types.
type FetchTypesInput struct {
	URL        string   `json:"url" jsonschema:"Full endpoint URL, including the query string"`
	Method     string   `json:"method,omitempty" jsonschema:"HTTP method (default: GET)"`
	Headers    []string `json:"headers,omitempty" jsonschema:"Request headers as 'Key: Value' strings"`
	Body       string   `json:"body,omitempty" jsonschema:"JSON request body"`
	BaseName   string   `json:"base_name,omitempty" jsonschema:"Raw base for the root type name. Default: the GraphQL operation name, else the last URL path segment"`
	NameFormat string   `json:"name_format,omitempty" jsonschema:"Root type name pattern containing {{name}}. Default: {{name}}Response"`
	Select     string   `json:"select,omitempty" jsonschema:"jq expression applied to the response; each emitted value becomes one sample"`
	MaskEmail  bool     `json:"mask_email,omitempty" jsonschema:"Mask email addresses in the response"`
	MaskPhone  bool     `json:"mask_phone,omitempty" jsonschema:"Mask phone numbers in the response"`
	OmitSchema bool     `json:"omit_schema,omitempty" jsonschema:"Return only the declaration graph, not the JSON Schema"`
}

// ToolFetchTypes calls an endpoint and infers types from its JSON response.
// YAML responses are converted; each YAML document is one sample.
func ToolFetchTypes(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input FetchTypesInput) (*sdkmcp.CallToolResult, types.FetchTypesOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input FetchTypesInput) (*sdkmcp.CallToolResult, types.FetchTypesOutput, error) {
		if !d.Config.AllowFetch {
			return nil, types.FetchTypesOutput{}, ErrInvalidInput("fetching is disabled on this server (ALLOW_FETCH=false)")
		}
		if input.URL == "" {
			return nil, types.FetchTypesOutput{}, ErrInvalidInput("url is required")
		}
		if input.NameFormat != "" && !naming.ValidPattern(input.NameFormat) {
			return nil, types.FetchTypesOutput{}, ErrInvalidInput(fmt.Sprintf("name_format must contain %s", naming.Placeholder))
		}
		if input.Select != "" {
			if err := d.Query.ValidateExpression(input.Select); err != nil {
				return nil, types.FetchTypesOutput{}, ErrInvalidInput(err.Error())
			}
		}

		resp, err := d.Fetch.Fetch(ctx, &client.Request{
			URL:     input.URL,
			Method:  input.Method,
			Headers: client.ParseHeaders(input.Headers),
			Body:    []byte(input.Body),
		})
		if err != nil {
			return nil, types.FetchTypesOutput{}, WrapFetchError(err)
		}

		baseName := input.BaseName
		if baseName == "" {
			baseName = naming.FromRequest(input.URL, []byte(input.Body))
		}

		samples := infer.Documents(input.URL, resp.Documents)
		result, err := d.Infer.Infer(ctx, samples, infer.Options{
			BaseName:   baseName,
			NameFormat: input.NameFormat,
			Select:     input.Select,
			MaskEmail:  input.MaskEmail,
			MaskPhone:  input.MaskPhone,
		})
		if err != nil {
			return nil, types.FetchTypesOutput{}, WrapInferError(err)
		}

		inferred, err := inferOutput(result, len(samples), input.OmitSchema)
		if err != nil {
			return nil, types.FetchTypesOutput{}, err
		}
		if resp.StatusCode >= 400 {
			inferred.Hint = fmt.Sprintf("The endpoint answered %d; these types describe its error body.", resp.StatusCode)
		} else {
			inferred.Hint = "Pass more responses of the same endpoint to typefetch_infer_types to learn which fields are optional."
		}

		return nil, types.FetchTypesOutput{
			URL:         resp.URL,
			StatusCode:  resp.StatusCode,
			ContentType: resp.ContentType,
			Result:      inferred,
		}, nil
	}
}

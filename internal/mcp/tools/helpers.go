// Package tools contains MCP tool implementations for typefetch.
package tools

import (
	"encoding/json"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/alperekinci99/typefetch-cli/pkg/types"
)

// MIME type constant.
const MimeJSON = "application/json"

// Resource URI prefixes for cached inference results.
const (
	ResourceScheme    = "typefetch://"
	ResultURIPrefix   = ResourceScheme + "result/"
	SchemaURIPrefix   = ResourceScheme + "schema/"
	SnapshotURIPrefix = ResourceScheme + "samples/"
)

// MakeJSONToolResult creates a CallToolResult with JSON text content.
func MakeJSONToolResult(v any) (*sdkmcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{
			&sdkmcp.TextContent{Text: string(b)},
		},
	}, nil
}

// ResultResources lists the resources that expose a cached result.
func ResultResources(digest string) []types.ResourceRef {
	return []types.ResourceRef{
		{URI: ResultURIPrefix + digest, MIME: MimeJSON, Hint: "full result: graph, schema and field stats"},
		{URI: SchemaURIPrefix + digest, MIME: MimeJSON, Hint: "JSON Schema document only"},
		{URI: SnapshotURIPrefix + digest, MIME: MimeJSON, Hint: "samples after selection and masking"},
	}
}

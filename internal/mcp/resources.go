package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/alperekinci99/typefetch-cli/internal/infer"
	"github.com/alperekinci99/typefetch-cli/internal/mcp/tools"
)

// Resource URI scheme: typefetch://
// Supported URIs:
//   typefetch://result/{digest}
//   typefetch://schema/{digest}
//   typefetch://samples/{digest}
//
// Digests come from typefetch_infer_types output. Results live in the
// in-memory cache and disappear when evicted.

// registerResources registers resource templates and handlers.
func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: tools.ResultURIPrefix + "{digest}",
		Name:        "Inference Result",
		Description: "Full inference result: declaration graph, JSON Schema and field stats. High context cost - typefetch_infer_types already returns the graph and schema. Only fetch when you need everything in one document.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.4,
		},
	}, s.handleResourceResult)

	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: tools.SchemaURIPrefix + "{digest}",
		Name:        "JSON Schema",
		Description: "Standalone JSON Schema (Draft 2020-12) document for an inference result, suitable for validators.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant", "user"},
			Priority: 0.6,
		},
	}, s.handleResourceSchema)

	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: tools.SnapshotURIPrefix + "{digest}",
		Name:        "Inferred Samples",
		Description: "The samples the result was inferred from, after selection and masking. High context cost - only fetch to check what a select expression produced.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.2,
		},
	}, s.handleResourceSamples)
}

// Resource handlers

func (s *Server) handleResourceResult(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	result, err := s.lookup(req.Params.URI, "result")
	if err != nil {
		return nil, err
	}
	return toResourceResult(req.Params.URI, result)
}

func (s *Server) handleResourceSchema(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	result, err := s.lookup(req.Params.URI, "schema")
	if err != nil {
		return nil, err
	}
	return toResourceResult(req.Params.URI, result.Schema)
}

func (s *Server) handleResourceSamples(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	result, err := s.lookup(req.Params.URI, "samples")
	if err != nil {
		return nil, err
	}
	content := map[string]any{
		"digest":       result.Digest,
		"sample_count": result.SampleCount,
		"samples":      result.Values,
	}
	return toResourceResult(req.Params.URI, content)
}

func (s *Server) lookup(uri, want string) (*infer.Result, error) {
	params, err := parseResourceURI(uri)
	if err != nil {
		return nil, err
	}
	if params["type"] != want {
		return nil, tools.ErrInvalidInput(fmt.Sprintf("expected %s URI, got %s", want, params["type"]))
	}
	result, ok := s.deps.Infer.Lookup(params["digest"])
	if !ok {
		return nil, sdkmcp.ResourceNotFoundError(uri)
	}
	return result, nil
}

// Helper functions

// parseResourceURI extracts parameters from a typefetch:// URI.
func parseResourceURI(uri string) (map[string]string, error) {
	if !strings.HasPrefix(uri, tools.ResourceScheme) {
		return nil, tools.ErrInvalidInput("invalid URI scheme: expected " + tools.ResourceScheme)
	}

	path := strings.TrimPrefix(uri, tools.ResourceScheme)
	parts := strings.Split(path, "/")

	resourceType := parts[0]
	switch resourceType {
	case "result", "schema", "samples":
		if len(parts) < 2 || parts[1] == "" {
			return nil, tools.ErrInvalidInput(fmt.Sprintf("%s URI requires a digest", resourceType))
		}
		return map[string]string{"type": resourceType, "digest": parts[1]}, nil
	case "":
		return nil, tools.ErrInvalidInput("empty resource path")
	default:
		return nil, tools.ErrInvalidInput(fmt.Sprintf("unknown resource type: %s", resourceType))
	}
}

// toResourceResult serializes content to a ReadResourceResult.
func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: tools.MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}

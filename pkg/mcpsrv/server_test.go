package mcpsrv

import (
	"bytes"
	"context"
	"testing"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alperekinci99/typefetch-cli/internal/config"
	"github.com/alperekinci99/typefetch-cli/internal/infer"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		NameFormat:          "{{name}}Response",
		FileNameFormat:      "{{name}}",
		MaxSamples:          10,
		MaxSampleBytes:      1 << 20,
		ExtractWorkers:      2,
		ResultCacheMaxItems: 4,
		LogLevel:            "error",
		LogFile:             t.TempDir() + "/typefetch.log",
	}
}

type countInput struct {
	Samples []string `json:"samples"`
}

type countOutput struct {
	Declarations int `json:"declarations"`
}

func TestNewServer_withDepsTool(t *testing.T) {
	var built *Deps
	srv, err := NewServer(
		WithConfig(testConfig(t)),
		WithDepsTool(&mcp.Tool{Name: "count_declarations", Description: "Count declarations"},
			func(d *Deps) func(context.Context, *mcp.CallToolRequest, countInput) (*mcp.CallToolResult, countOutput, error) {
				built = d
				return func(ctx context.Context, req *mcp.CallToolRequest, in countInput) (*mcp.CallToolResult, countOutput, error) {
					res, err := d.Infer.Infer(ctx, Samples(in.Samples...), infer.Options{})
					if err != nil {
						return nil, countOutput{}, err
					}
					return nil, countOutput{Declarations: len(res.Graph.Declarations)}, nil
				}
			}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	require.NotNil(t, built)
	assert.Same(t, srv.Deps(), built)
	assert.NotNil(t, built.Infer)
	assert.NotNil(t, built.Query)

	res, err := built.Infer.Infer(context.Background(), Samples(`{"a":{"b":1}}`), infer.Options{})
	require.NoError(t, err)
	assert.Len(t, res.Graph.Declarations, 2)
}

func TestNewServer_invalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.NameFormat = "Response"

	_, err := NewServer(WithConfig(cfg))
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestWithTool_panicsOnBadOutput(t *testing.T) {
	type badOutput struct {
		Items []string `json:"items"`
	}
	handler := func(ctx context.Context, req *mcp.CallToolRequest, in countInput) (*mcp.CallToolResult, badOutput, error) {
		return nil, badOutput{}, nil
	}

	assert.Panics(t, func() {
		_, _ = NewServer(WithConfig(testConfig(t)), WithoutBuiltinTools(), WithoutBuiltinPrompts(),
			WithTool(&mcp.Tool{Name: "bad", Description: "bad"}, handler))
	})
}

func TestSamples(t *testing.T) {
	got := Samples(`{}`, `[]`)
	require.Len(t, got, 2)
	assert.True(t, bytes.Equal([]byte(`[]`), got[1].Data))
	assert.Empty(t, got[0].Label)
}

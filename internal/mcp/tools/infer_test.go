package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alperekinci99/typefetch-cli/internal/config"
	"github.com/alperekinci99/typefetch-cli/pkg/types"
)

func testDeps(t *testing.T) *Deps {
	t.Helper()
	cfg := &config.Config{
		NameFormat:          "{{name}}Response",
		FileNameFormat:      "{{name}}",
		MaxSamples:          10,
		MaxSampleBytes:      1 << 20,
		ExtractWorkers:      2,
		ResultCacheMaxItems: 16,
	}
	d, err := NewDeps(cfg)
	require.NoError(t, err)
	return d
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var coded *CodedError
	require.True(t, errors.As(err, &coded), "expected CodedError, got %T: %v", err, err)
	assert.Equal(t, code, coded.Code)
}

func declarationNames(t *testing.T, out types.InferTypesOutput) []string {
	t.Helper()
	graph, ok := out.Graph.(map[string]any)
	require.True(t, ok, "graph should decode to an object")
	decls, ok := graph["declarations"].([]any)
	require.True(t, ok)
	names := make([]string, 0, len(decls))
	for _, d := range decls {
		names = append(names, d.(map[string]any)["name"].(string))
	}
	return names
}

func TestToolInferTypes_mergesSamples(t *testing.T) {
	d := testDeps(t)
	handler := ToolInferTypes(d)

	_, out, err := handler(context.Background(), nil, InferTypesInput{
		Samples: []string{
			`{"id":1,"address":{"city":"Oslo"}}`,
			`{"id":2.5,"address":{"city":"Rome","zip":"00100"},"tags":["a"]}`,
		},
		BaseName: "users",
	})
	require.NoError(t, err)

	assert.Equal(t, "UsersResponse", out.RootName)
	assert.Equal(t, []string{"Address", "UsersResponse"}, declarationNames(t, out))
	assert.Equal(t, 2, out.Summary.SamplesProvided)
	assert.Equal(t, 2, out.Summary.SampleCount)
	assert.False(t, out.Summary.AllMatch)
	assert.Equal(t, 2, out.Summary.Records)
	assert.Zero(t, out.Summary.Sums)
	assert.Zero(t, out.Summary.Aliases)
	assert.NotEmpty(t, out.Summary.Digest)
	require.Len(t, out.Resources, 3)
	assert.Equal(t, ResultURIPrefix+out.Summary.Digest, out.Resources[0].URI)

	schema, ok := out.Schema.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "#/$defs/UsersResponse", schema["$ref"])
	assert.Contains(t, schema["$defs"], "Address")
}

func TestToolInferTypes_defaultRootName(t *testing.T) {
	d := testDeps(t)

	_, out, err := ToolInferTypes(d)(context.Background(), nil, InferTypesInput{
		Samples: []string{`[1, 2, 3]`},
	})
	require.NoError(t, err)

	assert.Equal(t, "Response", out.RootName)
	assert.Equal(t, 1, out.Summary.Aliases)
	assert.True(t, out.Summary.AllMatch)
}

func TestToolInferTypes_select(t *testing.T) {
	d := testDeps(t)

	_, out, err := ToolInferTypes(d)(context.Background(), nil, InferTypesInput{
		Samples:  []string{`{"data":{"items":[{"id":1},{"id":2,"name":"x"}]}}`},
		BaseName: "Item",
		Select:   ".data.items[]",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, out.Summary.SamplesProvided)
	assert.Equal(t, 2, out.Summary.SampleCount)
	assert.Equal(t, []string{"ItemResponse"}, declarationNames(t, out))
}

func TestToolInferTypes_omitSchema(t *testing.T) {
	d := testDeps(t)

	_, out, err := ToolInferTypes(d)(context.Background(), nil, InferTypesInput{
		Samples:    []string{`{"a":true}`},
		OmitSchema: true,
	})
	require.NoError(t, err)
	assert.Nil(t, out.Schema)
	assert.NotNil(t, out.Graph)
}

func TestToolInferTypes_closedObjects(t *testing.T) {
	d := testDeps(t)

	_, out, err := ToolInferTypes(d)(context.Background(), nil, InferTypesInput{
		Samples:       []string{`{"a":true}`},
		ClosedObjects: true,
	})
	require.NoError(t, err)

	schema := out.Schema.(map[string]any)
	defs := schema["$defs"].(map[string]any)
	root := defs["Response"].(map[string]any)
	assert.Equal(t, false, root["additionalProperties"])
}

func TestToolInferTypes_errors(t *testing.T) {
	d := testDeps(t)
	handler := ToolInferTypes(d)
	ctx := context.Background()

	tests := []struct {
		name  string
		input InferTypesInput
		code  string
	}{
		{"no samples", InferTypesInput{}, ErrCodeEmptySampleSet},
		{"malformed", InferTypesInput{Samples: []string{`{"a":`}}, ErrCodeMalformedInput},
		{"bad select", InferTypesInput{Samples: []string{`{}`}, Select: ".["}, ErrCodeInvalidInput},
		{"select matches nothing", InferTypesInput{Samples: []string{`{}`}, Select: ".missing"}, ErrCodeEmptySampleSet},
		{"bad name format", InferTypesInput{Samples: []string{`{}`}, NameFormat: "Dto"}, ErrCodeInvalidInput},
		{"labels outnumber samples", InferTypesInput{Samples: []string{`{}`}, Labels: []string{"a", "b"}}, ErrCodeInvalidInput},
		{"too many samples", InferTypesInput{Samples: make([]string, 11)}, ErrCodeLimitExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := handler(ctx, nil, tt.input)
			requireCode(t, err, tt.code)
		})
	}
}

func TestToolInferTypes_malformedNamesLabel(t *testing.T) {
	d := testDeps(t)

	_, _, err := ToolInferTypes(d)(context.Background(), nil, InferTypesInput{
		Samples: []string{`{}`, `nope`},
		Labels:  []string{"a.json", "b.json"},
	})
	requireCode(t, err, ErrCodeMalformedInput)
	assert.Contains(t, err.Error(), "b.json")
}

func TestToolFieldStats(t *testing.T) {
	d := testDeps(t)

	_, out, err := ToolFieldStats(d)(context.Background(), nil, FieldStatsInput{
		Samples: []string{
			`{"id":"550e8400-e29b-41d4-a716-446655440000","email":"jane@example.com"}`,
			`{"id":"6ba7b810-9dad-11d1-80b4-00c04fd430c8"}`,
		},
		MaskEmail: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.SampleCount)
	assert.Empty(t, out.Hint)

	byPath := make(map[string]int)
	for i, fs := range out.FieldStats {
		byPath[fs.Path] = i
	}
	require.Contains(t, byPath, "id")
	require.Contains(t, byPath, "email")

	id := out.FieldStats[byPath["id"]]
	assert.Equal(t, "uuid", id.Format)
	assert.True(t, id.Required)

	email := out.FieldStats[byPath["email"]]
	assert.InDelta(t, 0.5, email.Frequency, 0.001)
	assert.False(t, email.Required)
	require.Len(t, email.Examples, 1)
	assert.NotContains(t, email.Examples[0], "jane@")
}

func TestToolFieldStats_noFields(t *testing.T) {
	d := testDeps(t)

	_, out, err := ToolFieldStats(d)(context.Background(), nil, FieldStatsInput{
		Samples: []string{`"plain"`},
	})
	require.NoError(t, err)
	assert.Empty(t, out.FieldStats)
	assert.NotEmpty(t, out.Hint)
}

func TestToolSelectPreview(t *testing.T) {
	d := testDeps(t)

	_, out, err := ToolSelectPreview(d)(context.Background(), nil, SelectPreviewInput{
		Samples:    []string{`{"items":[1,2,3]}`, `{"items":"x"}`},
		Expression: ".items[]",
		Limit:      2,
	})
	require.NoError(t, err)

	assert.Equal(t, []any{float64(1), float64(2)}, out.Values)
	assert.True(t, out.Truncated)
	assert.Equal(t, []int{0}, out.MatchedIndices)
}

func TestToolSelectPreview_compaction(t *testing.T) {
	d := testDeps(t)
	sample := `{"data":[{"ids":[1,2,3,4,5]}]}`

	_, out, err := ToolSelectPreview(d)(context.Background(), nil, SelectPreviewInput{
		Samples:    []string{sample},
		Expression: ".data[]",
	})
	require.NoError(t, err)
	assert.True(t, out.Compacted)
	assert.Equal(t, []any{map[string]any{"ids": []any{float64(1), float64(2), float64(3), "... (2 more items)"}}}, out.Values)

	_, out, err = ToolSelectPreview(d)(context.Background(), nil, SelectPreviewInput{
		Samples:    []string{sample},
		Expression: ".data[]",
		Full:       true,
	})
	require.NoError(t, err)
	assert.False(t, out.Compacted)
	assert.Len(t, out.Values[0].(map[string]any)["ids"], 5)
}

func TestToolSelectPreview_errors(t *testing.T) {
	d := testDeps(t)
	handler := ToolSelectPreview(d)

	_, _, err := handler(context.Background(), nil, SelectPreviewInput{Samples: []string{`{}`}})
	requireCode(t, err, ErrCodeInvalidInput)

	_, _, err = handler(context.Background(), nil, SelectPreviewInput{Samples: []string{`{}`}, Expression: "]["})
	requireCode(t, err, ErrCodeInvalidInput)

	_, out, err := handler(context.Background(), nil, SelectPreviewInput{
		Samples:    []string{`{"items":"x"}`},
		Expression: ".items[]",
	})
	require.NoError(t, err)
	assert.Empty(t, out.Values)
	assert.NotEmpty(t, out.Errors)
	assert.False(t, out.Truncated)
}

func TestWrapInferError_keepsCodedErrors(t *testing.T) {
	orig := ErrInvalidInput("bad")
	assert.Same(t, orig, WrapInferError(orig))
	assert.NoError(t, WrapInferError(nil))
}

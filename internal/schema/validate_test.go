package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alperekinci99/typefetch-cli/pkg/jsonschema"
	"github.com/alperekinci99/typefetch-cli/pkg/shape"
	"github.com/alperekinci99/typefetch-cli/pkg/typegraph"
)

const userSchema = `{
	"type": "object",
	"properties": {"name": {"type": "string"}, "age": {"type": "integer"}},
	"required": ["name"]
}`

func TestValidator_JSONSchema(t *testing.T) {
	v, err := NewValidator([]byte(userSchema))
	require.NoError(t, err)

	res := v.Validate([]byte(`{"name": "Alice", "age": 30}`))
	assert.True(t, res.Valid, res.Errors)

	res = v.Validate([]byte(`{"age": 30}`))
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "name")

	res = v.Validate([]byte(`{"name": "Alice", "age": "thirty"}`))
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.True(t, strings.HasPrefix(res.Errors[0], "/age: "), res.Errors[0])
}

func TestValidator_integerAcceptsWholeFloats(t *testing.T) {
	v, err := NewValidator([]byte(userSchema))
	require.NoError(t, err)

	assert.True(t, v.Validate([]byte(`{"name":"a","age":30.0}`)).Valid)
	assert.False(t, v.Validate([]byte(`{"name":"a","age":30.5}`)).Valid)
}

func TestValidator_invalidInputs(t *testing.T) {
	_, err := NewValidator([]byte(`{"type":`))
	assert.ErrorContains(t, err, "parsing JSON Schema")

	_, err = NewValidator([]byte(`{"type": 12}`))
	assert.ErrorContains(t, err, "compiling schema")

	_, err = FromSchema(nil)
	assert.Error(t, err)

	v, err := NewValidator([]byte(userSchema))
	require.NoError(t, err)
	res := v.Validate([]byte(`{"name":`))
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "invalid JSON")
}

func TestFromSchema_acceptsEverySample(t *testing.T) {
	raw := []string{
		`{"id": 1, "tags": ["a"], "owner": {"name": "x"}, "score": 1}`,
		`{"id": 2, "tags": [], "owner": null, "score": 2.5, "note": "n"}`,
		`{"id": 3, "tags": ["b", "c"], "owner": {"name": "y", "email": "y@x.io"}, "score": 3}`,
	}
	values := make([]any, len(raw))
	for i, r := range raw {
		v, err := shape.Decode([]byte(r))
		require.NoError(t, err)
		values[i] = v
	}

	graph, err := typegraph.Infer("Item", values...)
	require.NoError(t, err)

	v, err := FromSchema(jsonschema.FromGraph(graph, nil))
	require.NoError(t, err)

	for _, r := range raw {
		res := v.Validate([]byte(r))
		assert.True(t, res.Valid, "%s: %v", r, res.Errors)
	}

	res := v.Validate([]byte(`{"id": "4", "tags": [], "owner": null, "score": 1}`))
	assert.False(t, res.Valid)
	assert.True(t, strings.HasPrefix(res.Errors[0], "/id: "), res.Errors)
}

func TestValidateAll(t *testing.T) {
	v, err := NewValidator([]byte(userSchema))
	require.NoError(t, err)

	report := v.ValidateAll(
		[]string{"a.json", "b.json", "c.json"},
		[][]byte{
			[]byte(`{"name":"ok"}`),
			[]byte(`{"age":"x"}`),
			[]byte(`{"age":"y"}`),
		},
	)

	assert.Equal(t, 3, report.Summary.TotalSamples)
	assert.Equal(t, 1, report.Summary.MatchingCount)
	assert.Equal(t, 2, report.Summary.FailedCount)
	assert.False(t, report.Summary.AllMatch)

	require.Len(t, report.Results, 3)
	assert.Equal(t, "b.json", report.Results[1].Label)
	assert.False(t, report.Results[1].Valid)
	assert.Len(t, report.Results[1].Errors, 2)

	require.Len(t, report.CommonErrors, 2)
	for _, ce := range report.CommonErrors {
		assert.Equal(t, 2, ce.Frequency)
	}
}

func TestCommonErrors_orderAndLimit(t *testing.T) {
	got := commonErrors(map[string]int{
		"a": 2, "b": 5, "c": 2, "d": 3, "e": 4, "f": 6, "g": 1,
	})
	require.Len(t, got, maxCommonErrors)
	assert.Equal(t, "f", got[0].Error)
	assert.Equal(t, "b", got[1].Error)
	assert.Equal(t, "e", got[2].Error)
	assert.Equal(t, "d", got[3].Error)
	assert.Equal(t, "a", got[4].Error)
}

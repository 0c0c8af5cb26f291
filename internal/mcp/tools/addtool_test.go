package tools

import (
	"encoding/json"
	"reflect"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alperekinci99/typefetch-cli/pkg/types"
)

func TestCheckOutputSchema_toolOutputs(t *testing.T) {
	tests := []struct {
		tool string
		out  reflect.Type
	}{
		{NameInferTypes, reflect.TypeFor[types.InferTypesOutput]()},
		{NameFieldStats, reflect.TypeFor[types.FieldStatsOutput]()},
		{NameSelectPreview, reflect.TypeFor[types.SelectPreviewOutput]()},
		{NameValidateSamples, reflect.TypeFor[types.ValidateSamplesOutput]()},
		{NameDiffSamples, reflect.TypeFor[types.DiffSamplesOutput]()},
		{NameFetchTypes, reflect.TypeFor[types.FetchTypesOutput]()},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			assert.NoError(t, checkOutput(tt.out))
		})
	}
}

func TestRegister_allTools(t *testing.T) {
	d := testDeps(t)
	d.Config.AllowFetch = true

	srv := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "typefetch-test", Version: "test"}, nil)
	assert.NotPanics(t, func() { Register(srv, d) })
}

func TestCheckOutput_nilSlice(t *testing.T) {
	type declarationList struct {
		Names []string `json:"names"`
	}
	err := checkOutput(reflect.TypeFor[declarationList]())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "omitzero")

	assert.Panics(t, func() { CheckOutputSchema[declarationList]("typefetch_names") })
}

func TestCheckOutput_taggedSlices(t *testing.T) {
	type declarationList struct {
		Names   []string            `json:"names,omitzero"`
		Changes []types.FieldChange `json:"changes,omitempty"`
		Count   int                 `json:"count"`
	}
	assert.NoError(t, checkOutput(reflect.TypeFor[declarationList]()))
	assert.NoError(t, checkOutput(reflect.TypeFor[*declarationList]()))
	assert.NoError(t, checkOutput(reflect.TypeFor[any]()))
}

func TestCheckOutput_rawMessage(t *testing.T) {
	type exported struct {
		Schema json.RawMessage `json:"schema,omitempty"`
	}
	type result struct {
		Exports []exported                 `json:"exports,omitzero"`
		Raw     map[string]json.RawMessage `json:"raw,omitempty"`
	}

	err := checkOutput(reflect.TypeFor[result]())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Exports.[].Schema")
	assert.Contains(t, err.Error(), "Raw.[value]")
}

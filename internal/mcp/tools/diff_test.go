package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alperekinci99/typefetch-cli/pkg/types"
)

func TestToolDiffSamples(t *testing.T) {
	d := testDeps(t)

	_, out, err := ToolDiffSamples(d)(context.Background(), nil, DiffSamplesInput{
		Baseline:  []string{`{"id":1,"name":"a","age":30}`, `{"id":2,"name":"b","age":31}`},
		Candidate: []string{`{"id":"u1","name":"a","avatar":"x.png"}`},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, out.BaselineSamples)
	assert.Equal(t, 1, out.CandidateSamples)
	assert.NotEqual(t, out.BaselineDigest, out.CandidateDigest)
	assert.Equal(t, 1, out.Summary.Added)
	assert.Equal(t, 1, out.Summary.Removed)
	assert.Equal(t, 1, out.Summary.Changed)
	assert.Equal(t, 2, out.Summary.Breaking)
	assert.Contains(t, out.Hint, out.BaselineDigest)

	byPath := make(map[string]types.FieldChange)
	for _, c := range out.Changes {
		byPath[c.Path] = c
	}
	assert.Equal(t, types.ChangeTypeChanged, byPath["id"].Change)
	assert.Equal(t, types.ChangeRemoved, byPath["age"].Change)
	assert.Equal(t, types.ChangeAdded, byPath["avatar"].Change)
	assert.False(t, byPath["avatar"].Breaking)
}

func TestToolDiffSamples_noChanges(t *testing.T) {
	d := testDeps(t)

	_, out, err := ToolDiffSamples(d)(context.Background(), nil, DiffSamplesInput{
		Baseline:    []string{`{"items":[{"id":1}],"meta":{"t":1}}`},
		Candidate:   []string{`{"items":[{"id":2}],"meta":{"t":"x"}}`},
		Select:      ".",
		IgnorePaths: []string{"meta"},
	})
	require.NoError(t, err)
	assert.Empty(t, out.Changes)
	assert.Contains(t, out.Hint, "No shape changes")
	assert.Positive(t, out.Summary.Ignored)
}

func TestToolDiffSamples_errors(t *testing.T) {
	d := testDeps(t)
	handler := ToolDiffSamples(d)
	ctx := context.Background()

	_, _, err := handler(ctx, nil, DiffSamplesInput{Candidate: []string{`{}`}})
	requireCode(t, err, ErrCodeEmptySampleSet)

	_, _, err = handler(ctx, nil, DiffSamplesInput{Baseline: []string{`{}`}, Candidate: []string{`{`}})
	requireCode(t, err, ErrCodeMalformedInput)

	_, _, err = handler(ctx, nil, DiffSamplesInput{Baseline: []string{`{}`}, Candidate: []string{`{}`}, Select: ".["})
	requireCode(t, err, ErrCodeInvalidInput)
}

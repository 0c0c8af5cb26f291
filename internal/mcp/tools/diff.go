package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/alperekinci99/typefetch-cli/internal/compare"
	"github.com/alperekinci99/typefetch-cli/internal/infer"
	"github.com/alperekinci99/typefetch-cli/pkg/types"
)

// DiffSamplesInput is the input for typefetch_diff_samples.
type DiffSamplesInput struct {
	Baseline        []string `json:"baseline" jsonschema:"JSON documents describing the previous shape"`
	Candidate       []string `json:"candidate" jsonschema:"JSON documents describing the current shape"`
	BaselineLabels  []string `json:"baseline_labels,omitempty" jsonschema:"Optional label per baseline sample"`
	CandidateLabels []string `json:"candidate_labels,omitempty" jsonschema:"Optional label per candidate sample"`
	Select          string   `json:"select,omitempty" jsonschema:"jq expression applied to every sample on both sides"`
	IgnorePaths     []string `json:"ignore_paths,omitempty" jsonschema:"Field paths left out of the comparison, with everything below them (e.g. meta)"`
}

// ToolDiffSamples compares the shapes of two sample sets.
func ToolDiffSamples(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input DiffSamplesInput) (*sdkmcp.CallToolResult, types.DiffSamplesOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input DiffSamplesInput) (*sdkmcp.CallToolResult, types.DiffSamplesOutput, error) {
		if input.Select != "" {
			if err := d.Query.ValidateExpression(input.Select); err != nil {
				return nil, types.DiffSamplesOutput{}, ErrInvalidInput(err.Error())
			}
		}

		baseline, err := d.Samples(input.Baseline, input.BaselineLabels)
		if err != nil {
			return nil, types.DiffSamplesOutput{}, err
		}
		candidate, err := d.Samples(input.Candidate, input.CandidateLabels)
		if err != nil {
			return nil, types.DiffSamplesOutput{}, err
		}

		opts := infer.Options{Select: input.Select}
		before, err := d.Infer.Infer(ctx, baseline, opts)
		if err != nil {
			return nil, types.DiffSamplesOutput{}, WrapInferError(fmt.Errorf("baseline: %w", err))
		}
		after, err := d.Infer.Infer(ctx, candidate, opts)
		if err != nil {
			return nil, types.DiffSamplesOutput{}, WrapInferError(fmt.Errorf("candidate: %w", err))
		}

		report := compare.Diff(before.FieldStats, after.FieldStats, &compare.Options{IgnorePaths: input.IgnorePaths})
		output := types.DiffSamplesOutput{
			Summary:          report.Summary,
			Changes:          report.Changes,
			BaselineSamples:  before.SampleCount,
			CandidateSamples: after.SampleCount,
			BaselineDigest:   before.Digest,
			CandidateDigest:  after.Digest,
		}
		switch {
		case len(report.Changes) == 0:
			output.Hint = "No shape changes. Types generated from the baseline still fit."
		case report.Summary.Breaking > 0:
			output.Hint = fmt.Sprintf("%d breaking changes. Validate existing types with typefetch_validate_samples using digest %s, or regenerate them from both sample sets.",
				report.Summary.Breaking, before.Digest)
		}
		return nil, output, nil
	}
}

package infer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alperekinci99/typefetch-cli/internal/schema"
	"github.com/alperekinci99/typefetch-cli/pkg/shape"
	"github.com/alperekinci99/typefetch-cli/pkg/types"
)

// Check validates samples against v. With a selection, every value it
// emits is validated on its own and labeled after its sample
// ("label", or "label#2" for the second value of one sample).
func (s *Service) Check(ctx context.Context, samples []Sample, selectExpr string, v *schema.Validator) (*types.ValidationReport, error) {
	if err := s.checkLimits(samples); err != nil {
		return nil, err
	}

	labels := make([]string, len(samples))
	docs := make([][]byte, len(samples))
	for i, sm := range samples {
		labels[i] = label(sm, i)
		docs[i] = sm.Data
	}

	if selectExpr != "" {
		var err error
		labels, docs, err = s.selectDocuments(ctx, samples, labels, selectExpr)
		if err != nil {
			return nil, err
		}
	}

	return v.ValidateAll(labels, docs), nil
}

func (s *Service) selectDocuments(ctx context.Context, samples []Sample, labels []string, expr string) ([]string, [][]byte, error) {
	sel, err := s.engine.Compile(expr)
	if err != nil {
		return nil, nil, err
	}
	values, err := decodeAll(ctx, samples, s.cfg.ExtractWorkers)
	if err != nil {
		return nil, nil, err
	}

	var (
		outLabels []string
		outDocs   [][]byte
	)
	for i, doc := range values {
		res := sel.Select([]any{doc}, labels[i:i+1], s.cfg.MaxSamples)
		for k, v := range res.Values {
			b, err := json.Marshal(v)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: encoding selected value: %w", labels[i], err)
			}
			l := labels[i]
			if k > 0 {
				l = fmt.Sprintf("%s#%d", labels[i], k+1)
			}
			outLabels = append(outLabels, l)
			outDocs = append(outDocs, b)
		}
	}
	if len(outDocs) == 0 {
		return nil, nil, fmt.Errorf("selection %q matched nothing: %w", expr, shape.ErrEmptySampleSet)
	}
	return outLabels, outDocs, nil
}

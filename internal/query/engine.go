// Package query selects inference samples out of decoded JSON documents with
// jq expressions.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/itchyny/gojq"

	"github.com/alperekinci99/typefetch-cli/pkg/shape"
)

// Engine compiles jq expressions into selectors.
type Engine struct{}

// NewEngine creates a new query engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Selector is a compiled jq expression. It is safe for concurrent use.
type Selector struct {
	expression string
	code       *gojq.Code
}

// SelectResult contains the values a selector produced across documents.
type SelectResult struct {
	Values         []any          `json:"values"`                    // Selected values, one sample each
	Errors         []string       `json:"errors,omitempty"`          // Per-document errors (e.g., type mismatch)
	MatchedIndices []int          `json:"matched_indices,omitempty"` // Indices of documents that produced values
	LabelCounts    map[string]int `json:"label_counts,omitempty"`    // Value count per label
}

// Compile parses and compiles a jq expression.
func (e *Engine) Compile(expression string) (*Selector, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("invalid jq expression at position %d: %w", parseErr.Offset, err)
		}
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}
	return &Selector{expression: expression, code: code}, nil
}

// ValidateExpression checks if a jq expression is valid without executing it.
func (e *Engine) ValidateExpression(expression string) error {
	_, err := e.Compile(expression)
	return err
}

// Select compiles expression and runs it over every document.
func (e *Engine) Select(docs []any, labels []string, expression string, maxResults int) (*SelectResult, error) {
	sel, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}
	return sel.Select(docs, labels, maxResults), nil
}

// Expression returns the source expression.
func (s *Selector) Expression() string {
	return s.expression
}

// Select runs the selector over decoded documents, as returned by
// shape.Decode. Every emitted non-null value becomes one sample. Labels
// identify documents in error messages; missing labels default to
// "sample[i]". maxResults <= 0 means no limit.
func (s *Selector) Select(docs []any, labels []string, maxResults int) *SelectResult {
	result := &SelectResult{
		Values:      make([]any, 0),
		Errors:      make([]string, 0),
		LabelCounts: make(map[string]int),
	}

	seenErrors := make(map[string]bool)

	for i, doc := range docs {
		if maxResults > 0 && len(result.Values) >= maxResults {
			break
		}

		label := fmt.Sprintf("sample[%d]", i)
		if i < len(labels) && labels[i] != "" {
			label = labels[i]
		}

		matched := false
		iter := s.code.Run(toJQ(doc))
		for {
			if maxResults > 0 && len(result.Values) >= maxResults {
				break
			}

			v, ok := iter.Next()
			if !ok {
				break
			}

			if err, isErr := v.(error); isErr {
				errMsg := formatJQError(label, err)
				if !seenErrors[errMsg] {
					result.Errors = append(result.Errors, errMsg)
					seenErrors[errMsg] = true
				}
				continue
			}

			// Missing paths yield null; they are not samples.
			if v == nil {
				continue
			}

			result.Values = append(result.Values, fromJQ(v))
			result.LabelCounts[label]++
			matched = true
		}
		if matched {
			result.MatchedIndices = append(result.MatchedIndices, i)
		}
	}

	return result
}

// toJQ converts a decoded document into the value model gojq accepts.
// Ordered objects become plain maps and json.Number values become int,
// *big.Int or float64.
func toJQ(v any) any {
	switch x := v.(type) {
	case *shape.Object:
		out := make(map[string]any, x.Len())
		for pair := x.Oldest(); pair != nil; pair = pair.Next() {
			out[pair.Key] = toJQ(pair.Value)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, vv := range x {
			out[k] = toJQ(vv)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, vv := range x {
			out[i] = toJQ(vv)
		}
		return out
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return int(n)
		}
		if !strings.ContainsAny(x.String(), ".eE") {
			if b, ok := new(big.Int).SetString(x.String(), 10); ok {
				return b
			}
		}
		f, _ := x.Float64()
		return f
	default:
		return v
	}
}

// fromJQ converts gojq output back to values shape.Extract accepts.
func fromJQ(v any) any {
	switch x := v.(type) {
	case *big.Int:
		return json.Number(x.String())
	case map[string]any:
		for k, vv := range x {
			x[k] = fromJQ(vv)
		}
		return x
	case []any:
		for i, vv := range x {
			x[i] = fromJQ(vv)
		}
		return x
	default:
		return v
	}
}

// formatJQError creates a helpful error message for jq execution errors.
//
// Runtime errors like "cannot iterate over: null" are plain errors in gojq,
// so hints are chosen by string matching. They only decorate messages.
func formatJQError(label string, err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		if haltErr.Value() == nil {
			return fmt.Sprintf("%s: query halted", label)
		}
		return fmt.Sprintf("%s: query halted with: %v", label, haltErr.Value())
	}

	errStr := err.Error()

	var hint string
	switch {
	case strings.Contains(errStr, "cannot iterate over: null"):
		hint = " (the path may not exist in this sample)"
	case strings.Contains(errStr, "cannot index") && strings.Contains(errStr, "with"):
		hint = " (field not found or wrong type)"
	case strings.Contains(errStr, "object") && strings.Contains(errStr, "cannot be iterated"):
		hint = " (expected array but got object, try removing '[]')"
	case strings.Contains(errStr, "array") && strings.Contains(errStr, "cannot be indexed"):
		hint = " (expected object but got array, try adding '[]')"
	}

	return fmt.Sprintf("%s: %s%s", label, errStr, hint)
}

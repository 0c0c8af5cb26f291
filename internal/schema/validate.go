// Package schema validates JSON samples against JSON Schema documents, such
// as the ones typefetch generates, to detect samples that drifted from the
// declared types.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	invjs "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/alperekinci99/typefetch-cli/pkg/types"
)

const (
	resourceURL     = "schema.json"
	maxCommonErrors = 5
)

// Validator validates JSON data against a compiled schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles a JSON Schema document.
func NewValidator(schemaJSON []byte) (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parsing JSON Schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resourceURL, doc); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	compiled, err := compiler.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// FromSchema compiles a generated schema.
func FromSchema(s *invjs.Schema) (*Validator, error) {
	if s == nil {
		return nil, errors.New("schema is nil")
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	return NewValidator(b)
}

// Validate validates a JSON document against the schema.
func (v *Validator) Validate(data []byte) *types.ValidationResult {
	value, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return &types.ValidationResult{
			Valid:  false,
			Errors: []string{fmt.Sprintf("invalid JSON: %s", err.Error())},
		}
	}
	return v.ValidateValue(value)
}

// ValidateValue validates a value decoded by jsonschema.UnmarshalJSON or
// encoding/json with UseNumber.
func (v *Validator) ValidateValue(value any) *types.ValidationResult {
	err := v.schema.Validate(value)
	if err == nil {
		return &types.ValidationResult{Valid: true}
	}
	return &types.ValidationResult{
		Valid:  false,
		Errors: extractValidationErrors(err),
	}
}

// ValidateAll validates every document and aggregates the results.
// labels[i] names docs[i].
func (v *Validator) ValidateAll(labels []string, docs [][]byte) *types.ValidationReport {
	report := &types.ValidationReport{
		Results: make([]types.SampleValidation, 0, len(docs)),
	}
	counts := make(map[string]int)

	for i, doc := range docs {
		res := v.Validate(doc)
		report.Results = append(report.Results, types.SampleValidation{
			Label:  labels[i],
			Valid:  res.Valid,
			Errors: res.Errors,
		})
		if res.Valid {
			report.Summary.MatchingCount++
			continue
		}
		report.Summary.FailedCount++
		for _, e := range res.Errors {
			counts[e]++
		}
	}

	report.Summary.TotalSamples = len(docs)
	report.Summary.AllMatch = report.Summary.FailedCount == 0
	report.CommonErrors = commonErrors(counts)
	return report
}

// commonErrors returns the errors seen more than once, most frequent first.
func commonErrors(counts map[string]int) []types.CommonError {
	var out []types.CommonError
	for msg, n := range counts {
		if n > 1 {
			out = append(out, types.CommonError{Error: msg, Frequency: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].Error < out[j].Error
	})
	if len(out) > maxCommonErrors {
		out = out[:maxCommonErrors]
	}
	return out
}

// extractValidationErrors extracts human-readable error messages from a validation error.
func extractValidationErrors(err error) []string {
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		return extractDetailedErrors(validationErr)
	}
	return []string{err.Error()}
}

// printer is a default English printer for localized error messages.
var printer = message.NewPrinter(language.English)

// extractDetailedErrors flattens a ValidationError into "path: message"
// lines, deduplicated and sorted by path.
func extractDetailedErrors(err *jsonschema.ValidationError) []string {
	errorsByPath := make(map[string][]string)
	collectErrors(err, errorsByPath)

	paths := make([]string, 0, len(errorsByPath))
	for path := range errorsByPath {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var result []string
	for _, path := range paths {
		seen := make(map[string]bool)
		for _, msg := range errorsByPath[path] {
			if seen[msg] {
				continue
			}
			seen[msg] = true
			if path != "" {
				result = append(result, fmt.Sprintf("%s: %s", path, msg))
			} else {
				result = append(result, msg)
			}
		}
	}
	if len(result) == 0 {
		return []string{err.Error()}
	}
	return result
}

// collectErrors recursively collects leaf errors (those without causes).
func collectErrors(err *jsonschema.ValidationError, errorsByPath map[string][]string) {
	instancePath := ""
	if len(err.InstanceLocation) > 0 {
		instancePath = "/" + strings.Join(err.InstanceLocation, "/")
	}

	if err.ErrorKind != nil && len(err.Causes) == 0 {
		errMsg := err.ErrorKind.LocalizedString(printer)
		// $ref wrappers only point at the real cause
		if !strings.HasPrefix(errMsg, "$ref ") && !strings.HasPrefix(errMsg, "doesn't validate with") {
			errorsByPath[instancePath] = append(errorsByPath[instancePath], errMsg)
		}
	}

	for _, cause := range err.Causes {
		collectErrors(cause, errorsByPath)
	}
}

package types

// ValidationResult contains the result of validating a single value.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// SampleValidation is the validation result for one labeled sample.
type SampleValidation struct {
	Label  string   `json:"label"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ValidationSummary summarizes the validation results.
type ValidationSummary struct {
	TotalSamples  int  `json:"total_samples"`
	MatchingCount int  `json:"matching_count"`
	FailedCount   int  `json:"failed_count"`
	AllMatch      bool `json:"all_match"`
}

// CommonError represents a frequently occurring validation error.
type CommonError struct {
	Error     string `json:"error"`
	Frequency int    `json:"frequency"`
}

// ValidationReport is the outcome of validating a sample set.
type ValidationReport struct {
	Summary      ValidationSummary  `json:"summary"`
	Results      []SampleValidation `json:"results,omitzero"`
	CommonErrors []CommonError      `json:"common_errors,omitempty"`
}

// ValidateSamplesOutput is the output type for the typefetch_validate_samples tool.
type ValidateSamplesOutput struct {
	Summary      ValidationSummary  `json:"summary"`
	Results      []SampleValidation `json:"results,omitzero"`
	CommonErrors []CommonError      `json:"common_errors,omitempty"`
	SchemaSource string             `json:"schema_source"` // "input" or "result:<digest>"
	Hint         string             `json:"hint,omitempty"`
}

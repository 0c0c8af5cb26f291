package types

// ChangeKind classifies a field change between two sample sets.
type ChangeKind string

// Change kinds.
const (
	ChangeAdded             ChangeKind = "added"
	ChangeRemoved           ChangeKind = "removed"
	ChangeTypeChanged       ChangeKind = "type_changed"
	ChangeBecameOptional    ChangeKind = "became_optional"
	ChangeBecameRequired    ChangeKind = "became_required"
	ChangeBecameNullable    ChangeKind = "became_nullable"
	ChangeBecameNonNullable ChangeKind = "became_non_nullable"
)

// Breaking reports whether code written against the baseline may fail on
// the candidate.
func (k ChangeKind) Breaking() bool {
	switch k {
	case ChangeRemoved, ChangeTypeChanged, ChangeBecameOptional, ChangeBecameNullable:
		return true
	}
	return false
}

// FieldChange is one difference at a field path.
type FieldChange struct {
	Path      string     `json:"path"`
	Change    ChangeKind `json:"change"`
	Baseline  string     `json:"baseline,omitempty"`
	Candidate string     `json:"candidate,omitempty"`
	Breaking  bool       `json:"breaking"`
}

// DiffSummary counts the changes of a DiffReport.
type DiffSummary struct {
	Added    int `json:"added"`
	Removed  int `json:"removed"`
	Changed  int `json:"changed"`
	Breaking int `json:"breaking"`
	Ignored  int `json:"ignored,omitempty"`
}

// DiffReport lists the field changes between two sample sets.
type DiffReport struct {
	Summary DiffSummary   `json:"summary"`
	Changes []FieldChange `json:"changes"`
}

// Add appends ch, setting its Breaking flag and updating the summary.
func (r *DiffReport) Add(ch FieldChange) {
	ch.Breaking = ch.Change.Breaking()
	switch ch.Change {
	case ChangeAdded:
		r.Summary.Added++
	case ChangeRemoved:
		r.Summary.Removed++
	default:
		r.Summary.Changed++
	}
	if ch.Breaking {
		r.Summary.Breaking++
	}
	r.Changes = append(r.Changes, ch)
}

// DiffSamplesOutput is the output type for the typefetch_diff_samples tool.
type DiffSamplesOutput struct {
	Summary          DiffSummary   `json:"summary"`
	Changes          []FieldChange `json:"changes,omitzero"`
	BaselineSamples  int           `json:"baseline_samples"`
	CandidateSamples int           `json:"candidate_samples"`
	BaselineDigest   string        `json:"baseline_digest"`
	CandidateDigest  string        `json:"candidate_digest"`
	Hint             string        `json:"hint,omitempty"`
}

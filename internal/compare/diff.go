// Package compare reports how the shape of a sample set changed between a
// baseline and a candidate, field by field.
package compare

import (
	"strings"

	"github.com/alperekinci99/typefetch-cli/pkg/jsonschema"
	"github.com/alperekinci99/typefetch-cli/pkg/types"
)

// Options controls the comparison.
type Options struct {
	// IgnorePaths are field paths left out of the report, together with
	// everything nested below them (e.g. "meta" also ignores "meta.trace").
	IgnorePaths []string
}

// Diff compares the field statistics of two inference results.
//
// Changes are listed in document order: fields present in both sets follow
// the baseline order and added fields appear where the candidate has them.
func Diff(baseline, candidate []jsonschema.FieldStat, opts *Options) *types.DiffReport {
	if opts == nil {
		opts = &Options{}
	}

	base := index(baseline)
	cand := index(candidate)

	report := &types.DiffReport{Changes: make([]types.FieldChange, 0)}
	for _, path := range mergeOrder(paths(baseline), paths(candidate)) {
		if ignored(path, opts.IgnorePaths) {
			report.Summary.Ignored++
			continue
		}

		b, inBase := base[path]
		c, inCand := cand[path]
		switch {
		case !inCand:
			report.Add(types.FieldChange{Path: path, Change: types.ChangeRemoved, Baseline: describe(b)})
		case !inBase:
			report.Add(types.FieldChange{Path: path, Change: types.ChangeAdded, Candidate: describe(c)})
		default:
			for _, ch := range fieldChanges(path, b, c) {
				report.Add(ch)
			}
		}
	}
	return report
}

func fieldChanges(path string, b, c jsonschema.FieldStat) []types.FieldChange {
	var out []types.FieldChange
	if bt, ct := baseType(b.Type), baseType(c.Type); bt != ct {
		out = append(out, types.FieldChange{Path: path, Change: types.ChangeTypeChanged, Baseline: bt, Candidate: ct})
	}

	bOpt, cOpt := b.Frequency < 1, c.Frequency < 1
	switch {
	case !bOpt && cOpt:
		out = append(out, types.FieldChange{Path: path, Change: types.ChangeBecameOptional, Baseline: "required", Candidate: "optional"})
	case bOpt && !cOpt:
		out = append(out, types.FieldChange{Path: path, Change: types.ChangeBecameRequired, Baseline: "optional", Candidate: "required"})
	}

	switch {
	case !b.Nullable && c.Nullable:
		out = append(out, types.FieldChange{Path: path, Change: types.ChangeBecameNullable, Baseline: b.Type, Candidate: c.Type})
	case b.Nullable && !c.Nullable:
		out = append(out, types.FieldChange{Path: path, Change: types.ChangeBecameNonNullable, Baseline: b.Type, Candidate: c.Type})
	}
	return out
}

// baseType drops the null member of a "|"-joined type, so that nullability
// is reported on its own.
func baseType(t string) string {
	members := strings.Split(t, "|")
	kept := members[:0:0]
	for _, m := range members {
		if m != "null" {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		return "null"
	}
	return strings.Join(kept, "|")
}

func describe(fs jsonschema.FieldStat) string {
	if fs.Frequency < 1 {
		return fs.Type + " (optional)"
	}
	return fs.Type
}

func ignored(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+".") || strings.HasPrefix(path, p+"[]") {
			return true
		}
	}
	return false
}

func index(stats []jsonschema.FieldStat) map[string]jsonschema.FieldStat {
	m := make(map[string]jsonschema.FieldStat, len(stats))
	for _, fs := range stats {
		m[fs.Path] = fs
	}
	return m
}

func paths(stats []jsonschema.FieldStat) []string {
	out := make([]string, len(stats))
	for i, fs := range stats {
		out[i] = fs.Path
	}
	return out
}

// mergeOrder interleaves two path lists around their longest common
// subsequence. Every path appears once.
func mergeOrder(a, b []string) []string {
	common := lcs(a, b)
	out := make([]string, 0, len(a)+len(b)-len(common))
	seen := make(map[string]bool, cap(out))
	emit := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	i, j := 0, 0
	for _, anchor := range common {
		for ; a[i] != anchor; i++ {
			emit(a[i])
		}
		for ; b[j] != anchor; j++ {
			emit(b[j])
		}
		emit(anchor)
		i++
		j++
	}
	for ; i < len(a); i++ {
		emit(a[i])
	}
	for ; j < len(b); j++ {
		emit(b[j])
	}
	return out
}

// lcs computes the longest common subsequence of two path lists.
func lcs(a, b []string) []string {
	m, n := len(a), len(b)
	if m == 0 || n == 0 {
		return nil
	}

	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else {
				dp[i][j] = max(dp[i-1][j], dp[i][j-1])
			}
		}
	}

	n2 := dp[m][n]
	result := make([]string, n2)
	i, j := m, n
	for i > 0 && j > 0 {
		switch {
		case a[i-1] == b[j-1]:
			n2--
			result[n2] = a[i-1]
			i--
			j--
		case dp[i-1][j] > dp[i][j-1]:
			i--
		default:
			j--
		}
	}
	return result
}

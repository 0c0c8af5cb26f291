package jsonschema

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/alperekinci99/typefetch-cli/pkg/shape"
)

// FieldStat contains per-field statistics for one position of a merged shape.
type FieldStat struct {
	Path          string   `json:"path"`                  // JSON path (e.g., "user.name", "items[].id")
	Type          string   `json:"type"`                  // JSON Schema type; unions joined with "|"
	Frequency     float64  `json:"frequency"`             // Fraction of enclosing objects containing this field (0.0-1.0)
	Required      bool     `json:"required"`              // Present in all samples and never null
	Nullable      bool     `json:"nullable"`              // At least one sample has null for this field
	DistinctCount int      `json:"distinct_count"`        // Number of distinct non-null values observed
	Examples      []any    `json:"examples,omitempty"`    // Up to 3 example values
	Format        string   `json:"format,omitempty"`      // Detected format: uuid, iso8601, url, email, enum
	EnumValues    []string `json:"enum_values,omitempty"` // All distinct values when format is "enum"
}

const (
	defaultMaxDepth       = 5
	maxExamples           = 3
	minSamplesForFormat   = 5
	maxEnumDistinctValues = 10
)

var (
	uuidRegex    = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	iso8601Regex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}:\d{2})?`)
	urlRegex     = regexp.MustCompile(`^https?://`)
	emailRegex   = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
)

// FieldStats walks a merged shape and returns a flat table of field stats.
// Frequency, Required and Nullable come from the shape's counts; examples,
// distinct counts and formats come from samples, which may be nil.
// Samples are decoded values as accepted by shape.Extract.
func FieldStats(root *shape.Shape, samples []any) []FieldStat {
	if root == nil {
		return nil
	}
	var stats []FieldStat
	walkShape(root, "", samples, 0, defaultMaxDepth, &stats)
	return stats
}

// walkShape recursively walks the shape and collects field stats.
func walkShape(s *shape.Shape, path string, values []any, depth, maxDepth int, stats *[]FieldStat) {
	if depth > maxDepth {
		if path != "" {
			*stats = append(*stats, FieldStat{
				Path: path + " (truncated at depth limit)",
				Type: "...",
			})
		}
		return
	}

	if obj := objectPart(s); obj != nil {
		for _, f := range obj.Fields() {
			fieldPath := f.Name
			if path != "" {
				fieldPath = path + "." + f.Name
			}

			fieldValues := collectFieldValues(f.Name, values)
			*stats = append(*stats, computeFieldStat(fieldPath, f.Info, fieldValues))

			if objectPart(f.Info.Shape) != nil || arrayPart(f.Info.Shape) != nil {
				walkShape(f.Info.Shape, fieldPath, fieldValues, depth+1, maxDepth, stats)
			}
		}
	}

	// Recurse into array items
	if arr := arrayPart(s); arr != nil && objectPart(arr.Elem()) != nil {
		walkShape(arr.Elem(), path+"[]", collectArrayItems(values), depth+1, maxDepth, stats)
	}
}

// computeFieldStat computes statistics for a single field.
func computeFieldStat(path string, info shape.FieldInfo, values []any) FieldStat {
	stat := FieldStat{
		Path:     path,
		Type:     typeName(info.Shape),
		Nullable: info.Shape.Nullable(),
	}
	if info.Total > 0 {
		stat.Frequency = float64(info.Present) / float64(info.Total)
	}
	stat.Required = !info.Optional() && !stat.Nullable

	distinctValues := make(map[string]bool)
	var examples []any
	var stringValues []string

	for _, val := range values {
		if val == nil {
			continue
		}

		// Nested objects and arrays count as distinct values but are not
		// collected as examples; their child stats describe them.
		key := fmt.Sprintf("%v", val)
		if !distinctValues[key] {
			distinctValues[key] = true
			if !isContainer(val) && len(examples) < maxExamples {
				examples = append(examples, val)
			}
		}

		if str, ok := val.(string); ok {
			stringValues = append(stringValues, str)
		}
	}

	stat.DistinctCount = len(distinctValues)
	stat.Examples = examples

	if info.Shape.Kind() == shape.KindString && len(stringValues) >= minSamplesForFormat {
		stat.Format, stat.EnumValues = detectFormat(stringValues)
	}

	return stat
}

// detectFormat detects common value formats for string fields.
func detectFormat(values []string) (string, []string) {
	if len(values) == 0 {
		return "", nil
	}

	for _, f := range []struct {
		name string
		re   *regexp.Regexp
	}{
		{"uuid", uuidRegex},
		{"iso8601", iso8601Regex},
		{"url", urlRegex},
		{"email", emailRegex},
	} {
		if allMatch(f.re, values) {
			return f.name, nil
		}
	}

	// Enum: <=10 distinct values
	distinct := make(map[string]bool)
	for _, v := range values {
		distinct[v] = true
	}
	if len(distinct) <= maxEnumDistinctValues {
		enumValues := make([]string, 0, len(distinct))
		for v := range distinct {
			enumValues = append(enumValues, v)
		}
		sort.Strings(enumValues)
		return "enum", enumValues
	}

	return "", nil
}

func allMatch(re *regexp.Regexp, values []string) bool {
	for _, v := range values {
		if !re.MatchString(v) {
			return false
		}
	}
	return true
}

// objectPart returns s when it is an object, or its object member when it
// is a union.
func objectPart(s *shape.Shape) *shape.Shape {
	return part(s, shape.KindObject)
}

func arrayPart(s *shape.Shape) *shape.Shape {
	return part(s, shape.KindArray)
}

func part(s *shape.Shape, k shape.Kind) *shape.Shape {
	if s.Kind() == k {
		return s
	}
	for _, m := range s.Members() {
		if m.Kind() == k {
			return m
		}
	}
	return nil
}

// collectFieldValues extracts the value of a field from each object value.
// Absent fields are skipped; present nulls are kept.
func collectFieldValues(name string, values []any) []any {
	var out []any
	for _, v := range values {
		switch obj := v.(type) {
		case *shape.Object:
			if val, ok := obj.Get(name); ok {
				out = append(out, val)
			}
		case map[string]any:
			if val, ok := obj[name]; ok {
				out = append(out, val)
			}
		}
	}
	return out
}

// collectArrayItems flattens the non-null items of every array value.
func collectArrayItems(values []any) []any {
	var items []any
	for _, v := range values {
		arr, ok := v.([]any)
		if !ok {
			continue
		}
		for _, item := range arr {
			if item != nil {
				items = append(items, item)
			}
		}
	}
	return items
}

func isContainer(v any) bool {
	switch v.(type) {
	case *shape.Object, map[string]any, []any:
		return true
	}
	return false
}

// typeName returns the JSON Schema type name for a shape, joining union
// members with "|".
func typeName(s *shape.Shape) string {
	switch s.Kind() {
	case shape.KindNull:
		return "null"
	case shape.KindBoolean:
		return "boolean"
	case shape.KindInteger:
		return "integer"
	case shape.KindFloat:
		return "number"
	case shape.KindString:
		return "string"
	case shape.KindArray:
		return "array"
	case shape.KindObject:
		return "object"
	case shape.KindUnion:
		members := s.Members()
		types := make([]string, 0, len(members))
		for _, m := range members {
			types = append(types, typeName(m))
		}
		return strings.Join(types, "|")
	default:
		return "unknown"
	}
}

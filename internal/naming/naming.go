// Package naming turns JSON keys, URLs and user patterns into type and file names.
package naming

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Placeholder is substituted by Format.
const Placeholder = "{{name}}"

// Default patterns for the top-level type and the output file base name.
const (
	DefaultNameFormat     = "{{name}}Response"
	DefaultFileNameFormat = "{{name}}"
	DefaultBaseName       = "Response"
)

// Presets are the name patterns offered to users alongside custom ones.
var Presets = []string{
	"I{{name}}",
	"{{name}}Response",
	"{{name}}Dto",
	"T{{name}}",
	"{{name}}",
}

// Pascal converts s to PascalCase. Runs of characters that are neither
// letters nor digits separate words; the first rune of each word is
// upper-cased and the rest is kept as written, so "userId" stays "UserId".
func Pascal(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return ""
	}

	caser := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(caser.String(w))
	}
	return b.String()
}

// IsIdentifier reports whether s starts with a letter or underscore and
// contains only letters, digits and underscores.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case unicode.IsDigit(r) && i > 0:
		default:
			return false
		}
	}
	return true
}

// TypeBase returns the PascalCase base name for raw. Names that are not
// valid identifiers are prefixed with "Item"; an empty result falls back
// to DefaultBaseName.
func TypeBase(raw string) string {
	p := Pascal(raw)
	if p == "" {
		return DefaultBaseName
	}
	if !IsIdentifier(raw) {
		return "Item" + p
	}
	return p
}

// Format substitutes base into pattern. An empty pattern uses fallback.
// Only the first placeholder is replaced.
func Format(pattern, base, fallback string) string {
	if pattern == "" {
		pattern = fallback
	}
	return strings.Replace(pattern, Placeholder, base, 1)
}

// ValidPattern reports whether a user-supplied pattern contains the placeholder.
func ValidPattern(pattern string) bool {
	return strings.Contains(pattern, Placeholder)
}

// FromURL derives a base name from the last path segment of u.
func FromURL(u *url.URL) string {
	if u == nil {
		return DefaultBaseName
	}
	segs := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	if len(segs) == 0 {
		return DefaultBaseName
	}
	last := segs[len(segs)-1]
	for i := len(segs) - 1; i > 0 && isIDSegment(last); i-- {
		last = segs[i-1]
	}
	if unescaped, err := url.PathUnescape(last); err == nil {
		last = unescaped
	}
	if base := Pascal(last); base != "" {
		return base
	}
	return DefaultBaseName
}

var (
	uuidSegment    = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	numericSegment = regexp.MustCompile(`^\d+$`)
	hexSegment     = regexp.MustCompile(`^[0-9a-f]{8,}$`)
)

// isIDSegment reports whether a path segment is a resource identifier
// (numeric, UUID or long hex) rather than a resource name.
func isIDSegment(seg string) bool {
	lower := strings.ToLower(seg)
	return numericSegment.MatchString(seg) || uuidSegment.MatchString(lower) || hexSegment.MatchString(lower)
}

// FromRawURL parses raw and derives a base name from it. Unparseable input
// yields DefaultBaseName.
func FromRawURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return DefaultBaseName
	}
	return FromURL(u)
}

// TypeName is the top-level type name for a raw base and a name pattern.
func TypeName(rawBase, pattern string) string {
	return Format(pattern, TypeBase(rawBase), DefaultNameFormat)
}

// FileName is the output file base name (without extension) for a raw base
// and a file name pattern.
func FileName(rawBase, pattern string) string {
	if rawBase == "" {
		rawBase = DefaultBaseName
	}
	return Format(pattern, rawBase, DefaultFileNameFormat)
}

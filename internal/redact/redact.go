// Package redact masks personal data in decoded JSON values before they are
// inferred or written to disk.
package redact

import (
	"regexp"
	"strings"

	"github.com/alperekinci99/typefetch-cli/pkg/shape"
)

// Options selects which kinds of personal data are masked.
type Options struct {
	Email bool
	Phone bool
}

// Enabled reports whether any masking is switched on.
func (o Options) Enabled() bool {
	return o.Email || o.Phone
}

const minPhoneDigits = 10

var reEmail = regexp.MustCompile(`.+@.+\..+`)

// Value walks a decoded JSON value and returns a copy with string leaves
// masked. Key order of *shape.Object values is kept. The input is not
// modified.
func Value(v any, opts Options) any {
	if !opts.Enabled() {
		return v
	}
	switch x := v.(type) {
	case *shape.Object:
		out := shape.NewObject()
		for pair := x.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, Value(pair.Value, opts))
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, vv := range x {
			out[k] = Value(vv, opts)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, vv := range x {
			out[i] = Value(vv, opts)
		}
		return out
	case string:
		return String(x, opts)
	default:
		return v
	}
}

// String masks a single string value.
func String(s string, opts Options) string {
	if opts.Email {
		s = Email(s)
	}
	if opts.Phone {
		s = Phone(s)
	}
	return s
}

// Email keeps the first two characters of the local part and the domain's
// suffix: "alice@example.com" becomes "al***@***.com". Strings that do not
// look like an address are returned unchanged.
func Email(s string) string {
	if !reEmail.MatchString(s) {
		return s
	}
	parts := strings.SplitN(s, "@", 3)
	local, domain := parts[0], parts[1]
	if len(local) > 2 {
		local = local[:2]
	}
	if i := strings.IndexByte(domain, '.'); i >= 0 {
		domain = "***" + domain[i:]
	} else {
		domain = "***"
	}
	return local + "***@" + domain
}

// Phone replaces every digit except the last four with '*' when the string
// holds at least ten digits.
func Phone(s string) string {
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < minPhoneDigits {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	seen := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			if seen < digits-4 {
				b.WriteByte('*')
			} else {
				b.WriteRune(r)
			}
			seen++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

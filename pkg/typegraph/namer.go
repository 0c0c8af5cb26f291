package typegraph

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/go-openapi/inflect"

	"github.com/alperekinci99/typefetch-cli/internal/naming"
)

// Namer is the naming context of one Build. It hands out unique declaration
// names in discovery order.
type Namer struct {
	base  string
	used  map[string]struct{}
	order []string
}

// NewNamer returns a naming context for the given base name. The base is
// used as-is when it is a valid identifier and PascalCased otherwise.
func NewNamer(base string) *Namer {
	if !naming.IsIdentifier(base) {
		base = naming.TypeBase(base)
	}
	return &Namer{base: base, used: make(map[string]struct{})}
}

// Base returns the base name.
func (n *Namer) Base() string {
	return n.base
}

// Reserve claims candidate, appending a numeric suffix (2, 3, ...) when the
// name is already taken.
func (n *Namer) Reserve(candidate string) string {
	if candidate == "" {
		candidate = n.base
	}
	name := candidate
	for i := 2; n.taken(name); i++ {
		name = candidate + strconv.Itoa(i)
	}
	n.used[name] = struct{}{}
	n.order = append(n.order, name)
	return name
}

func (n *Namer) taken(name string) bool {
	_, ok := n.used[name]
	return ok
}

// Names returns the reserved names in the order they were handed out.
func (n *Namer) Names() []string {
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}

// FieldHint derives a declaration name candidate from a JSON key.
// Keys that do not yield a name starting with a letter are prefixed with
// the base name.
func (n *Namer) FieldHint(key string) string {
	p := naming.Pascal(key)
	if p == "" {
		return n.base + "Value"
	}
	if r, _ := utf8.DecodeRuneInString(p); !unicode.IsLetter(r) {
		return n.base + p
	}
	return p
}

// ElementHint derives the name candidate for the element of an array named
// hint. Plural names are singularized; names that do not change get an
// "Element" suffix.
func (n *Namer) ElementHint(hint string) string {
	s := inflect.Singularize(hint)
	if s == "" || s == hint {
		return hint + "Element"
	}
	return s
}

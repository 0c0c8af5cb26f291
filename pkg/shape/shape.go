// Package shape infers structural shapes from sampled JSON values.
//
// A Shape is an immutable tagged variant describing the structural type of a
// JSON position. Shapes are extracted from individual samples with [Extract]
// and combined across samples with [Merge]. Every Shape carries a structural
// hash computed at construction, so equality checks and dedup lookups do not
// re-walk whole subtrees.
package shape

import (
	"encoding/binary"
	"slices"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Kind identifies the variant of a Shape.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindNull
	KindBoolean
	KindInteger
	KindFloat
	KindString
	KindArray
	KindObject
	KindUnion
)

var kindNames = [...]string{
	KindUnknown: "unknown",
	KindNull:    "null",
	KindBoolean: "boolean",
	KindInteger: "integer",
	KindFloat:   "float",
	KindString:  "string",
	KindArray:   "array",
	KindObject:  "object",
	KindUnion:   "union",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// IsPrimitive reports whether the kind is a scalar JSON kind.
func (k Kind) IsPrimitive() bool {
	switch k {
	case KindNull, KindBoolean, KindInteger, KindFloat, KindString:
		return true
	}
	return false
}

// Shape is the inferred structural type of a JSON position.
// Shapes are never mutated after construction.
type Shape struct {
	kind    Kind
	elem    *Shape
	fields  []Field
	index   map[string]int
	samples int
	members []*Shape
	hash    uint64
}

// Field is a named entry of an object shape.
type Field struct {
	Name string
	Info FieldInfo
}

// FieldInfo records a field's merged shape and how often it was observed.
type FieldInfo struct {
	Shape   *Shape
	Present int // samples of the enclosing object that contained the field
	Total   int // samples merged into the enclosing object
}

// Optional reports whether the field was missing from at least one sample.
func (f FieldInfo) Optional() bool {
	return f.Present < f.Total
}

// Shared primitive shapes. They carry no state beyond their kind.
var (
	Unknown = newLeaf(KindUnknown)
	Null    = newLeaf(KindNull)
	Boolean = newLeaf(KindBoolean)
	Integer = newLeaf(KindInteger)
	Float   = newLeaf(KindFloat)
	String  = newLeaf(KindString)
)

func newLeaf(k Kind) *Shape {
	s := &Shape{kind: k}
	s.hash = s.computeHash()
	return s
}

// ArrayOf returns an array shape with the given element shape.
// A nil element is treated as Unknown.
func ArrayOf(elem *Shape) *Shape {
	s := &Shape{kind: KindArray, elem: orUnknown(elem)}
	s.hash = s.computeHash()
	return s
}

// ObjectOf returns an object shape built from fields in first-sighting order.
// samples is the number of samples merged into the object; fields whose
// Present count is below it are optional. Duplicate names keep the first entry.
func ObjectOf(samples int, fields ...Field) *Shape {
	s := &Shape{
		kind:    KindObject,
		samples: samples,
		fields:  make([]Field, 0, len(fields)),
		index:   make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if _, dup := s.index[f.Name]; dup {
			continue
		}
		f.Info.Shape = orUnknown(f.Info.Shape)
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	s.hash = s.computeHash()
	return s
}

// newUnion builds a union from members that are already flattened and hold at
// most one shape per merge class.
func newUnion(members []*Shape) *Shape {
	sorted := slices.Clone(members)
	sort.SliceStable(sorted, func(i, j int) bool {
		return classOf(sorted[i].kind) < classOf(sorted[j].kind)
	})
	s := &Shape{kind: KindUnion, members: sorted}
	s.hash = s.computeHash()
	return s
}

func orUnknown(s *Shape) *Shape {
	if s == nil {
		return Unknown
	}
	return s
}

// Kind returns the variant of s. A nil Shape is Unknown.
func (s *Shape) Kind() Kind {
	if s == nil {
		return KindUnknown
	}
	return s.kind
}

// Elem returns the element shape of an array, or nil for other kinds.
func (s *Shape) Elem() *Shape {
	if s.Kind() != KindArray {
		return nil
	}
	return s.elem
}

// Fields returns the fields of an object in first-sighting order.
func (s *Shape) Fields() []Field {
	if s.Kind() != KindObject {
		return nil
	}
	return slices.Clone(s.fields)
}

// Field looks up a field of an object shape by name.
func (s *Shape) Field(name string) (FieldInfo, bool) {
	if s.Kind() != KindObject {
		return FieldInfo{}, false
	}
	i, ok := s.index[name]
	if !ok {
		return FieldInfo{}, false
	}
	return s.fields[i].Info, true
}

// Samples returns how many samples were merged into an object shape.
func (s *Shape) Samples() int {
	if s.Kind() != KindObject {
		return 0
	}
	return s.samples
}

// Members returns the alternatives of a union shape.
func (s *Shape) Members() []*Shape {
	if s.Kind() != KindUnion {
		return nil
	}
	return slices.Clone(s.members)
}

// Hash returns the structural hash of s. Structurally equal shapes have equal hashes.
func (s *Shape) Hash() uint64 {
	if s == nil {
		return Unknown.hash
	}
	return s.hash
}

// Nullable reports whether null was observed at this position.
func (s *Shape) Nullable() bool {
	switch s.Kind() {
	case KindNull:
		return true
	case KindUnion:
		for _, m := range s.members {
			if m.kind == KindNull {
				return true
			}
		}
	}
	return false
}

// Equal reports structural equality. Field order and sample counts are
// ignored; field optionality is not.
func Equal(a, b *Shape) bool {
	a, b = orUnknown(a), orUnknown(b)
	if a == b {
		return true
	}
	if a.hash != b.hash || a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindArray:
		return Equal(a.elem, b.elem)
	case KindObject:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for _, fa := range a.fields {
			fb, ok := b.Field(fa.Name)
			if !ok || fa.Info.Optional() != fb.Optional() || !Equal(fa.Info.Shape, fb.Shape) {
				return false
			}
		}
		return true
	case KindUnion:
		if len(a.members) != len(b.members) {
			return false
		}
		// Members are kept sorted by merge class with one member per class.
		for i := range a.members {
			if !Equal(a.members[i], b.members[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Equal reports whether s and other are structurally equal.
func (s *Shape) Equal(other *Shape) bool {
	return Equal(s, other)
}

func (s *Shape) computeHash() uint64 {
	d := xxhash.New()
	var buf [8]byte
	writeU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}

	_, _ = d.Write([]byte{byte(s.kind)})
	switch s.kind {
	case KindArray:
		writeU64(s.elem.hash)
	case KindObject:
		names := make([]string, 0, len(s.fields))
		for _, f := range s.fields {
			names = append(names, f.Name)
		}
		sort.Strings(names)
		writeU64(uint64(len(names)))
		for _, name := range names {
			info := s.fields[s.index[name]].Info
			writeU64(uint64(len(name)))
			_, _ = d.WriteString(name)
			if info.Optional() {
				_, _ = d.Write([]byte{1})
			} else {
				_, _ = d.Write([]byte{0})
			}
			writeU64(info.Shape.hash)
		}
	case KindUnion:
		writeU64(uint64(len(s.members)))
		for _, m := range s.members {
			writeU64(m.hash)
		}
	}
	return d.Sum64()
}

// String renders a compact, human-readable form such as
// {id: integer, email?: string} or []integer | string.
func (s *Shape) String() string {
	var b strings.Builder
	s.writeTo(&b)
	return b.String()
}

func (s *Shape) writeTo(b *strings.Builder) {
	switch s.Kind() {
	case KindArray:
		b.WriteString("[]")
		if s.elem.kind == KindUnion {
			b.WriteString("(")
			s.elem.writeTo(b)
			b.WriteString(")")
			return
		}
		s.elem.writeTo(b)
	case KindObject:
		b.WriteString("{")
		for i, f := range s.fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			if f.Info.Optional() {
				b.WriteString("?")
			}
			b.WriteString(": ")
			f.Info.Shape.writeTo(b)
		}
		b.WriteString("}")
	case KindUnion:
		for i, m := range s.members {
			if i > 0 {
				b.WriteString(" | ")
			}
			m.writeTo(b)
		}
	default:
		b.WriteString(s.Kind().String())
	}
}

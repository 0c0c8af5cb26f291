// Package typegraph assembles named, deduplicated type declarations from a
// merged shape.
//
// The graph is the hand-off point to renderers: every declaration is
// expressed only in terms of primitive kinds, references to other
// declarations by name, array markers, inline unions and per-field
// optionality. Declarations are ordered so that a declaration always follows
// the declarations it references.
package typegraph

import (
	"strings"
)

// DeclKind is the kind of a named declaration.
type DeclKind string

const (
	KindRecord DeclKind = "record" // object shape
	KindSum    DeclKind = "sum"    // union with two or more non-primitive members
	KindAlias  DeclKind = "alias"  // primitive, array or inline-union root
)

// RefKind is the kind of a type reference.
type RefKind string

const (
	RefUnknown RefKind = "unknown"
	RefNull    RefKind = "null"
	RefBoolean RefKind = "boolean"
	RefInteger RefKind = "integer"
	RefFloat   RefKind = "float"
	RefString  RefKind = "string"
	RefArray   RefKind = "array"
	RefUnion   RefKind = "union"
	RefNamed   RefKind = "ref"
)

// TypeRef is a type expression used by fields, sum members and aliases.
type TypeRef struct {
	Kind    RefKind   `json:"kind"`
	Name    string    `json:"name,omitempty"`    // declaration name, for RefNamed
	Elem    *TypeRef  `json:"elem,omitempty"`    // element type, for RefArray
	Members []TypeRef `json:"members,omitempty"` // alternatives, for RefUnion
}

// Named returns a reference to the declaration called name.
func Named(name string) TypeRef {
	return TypeRef{Kind: RefNamed, Name: name}
}

// ArrayOf returns an array reference with the given element.
func ArrayOf(elem TypeRef) TypeRef {
	return TypeRef{Kind: RefArray, Elem: &elem}
}

// String renders the reference as e.g. "[]Address", "integer | string" or "User".
func (r TypeRef) String() string {
	switch r.Kind {
	case RefNamed:
		return r.Name
	case RefArray:
		if r.Elem == nil {
			return "[]unknown"
		}
		if r.Elem.Kind == RefUnion {
			return "[](" + r.Elem.String() + ")"
		}
		return "[]" + r.Elem.String()
	case RefUnion:
		parts := make([]string, 0, len(r.Members))
		for _, m := range r.Members {
			parts = append(parts, m.String())
		}
		return strings.Join(parts, " | ")
	default:
		return string(r.Kind)
	}
}

// Refs returns the declaration names r references, in order of appearance.
func (r TypeRef) Refs() []string {
	var out []string
	r.collectRefs(&out)
	return out
}

func (r TypeRef) collectRefs(out *[]string) {
	switch r.Kind {
	case RefNamed:
		*out = append(*out, r.Name)
	case RefArray:
		if r.Elem != nil {
			r.Elem.collectRefs(out)
		}
	case RefUnion:
		for _, m := range r.Members {
			m.collectRefs(out)
		}
	}
}

// FieldDef is a record field.
type FieldDef struct {
	Name     string  `json:"name"` // JSON key as observed
	Type     TypeRef `json:"type"`
	Optional bool    `json:"optional"`
}

// Declaration is a named, reusable type definition.
type Declaration struct {
	Name    string     `json:"name"`
	Kind    DeclKind   `json:"kind"`
	Fields  []FieldDef `json:"fields,omitempty"`  // record
	Members []TypeRef  `json:"members,omitempty"` // sum
	Target  *TypeRef   `json:"target,omitempty"`  // alias
}

// Refs returns the names of the declarations d references directly.
func (d *Declaration) Refs() []string {
	var out []string
	for _, f := range d.Fields {
		f.Type.collectRefs(&out)
	}
	for _, m := range d.Members {
		m.collectRefs(&out)
	}
	if d.Target != nil {
		d.Target.collectRefs(&out)
	}
	return out
}

// Graph is the output of Build. It is not modified after Build returns.
type Graph struct {
	Declarations []Declaration `json:"declarations"`
	Root         TypeRef       `json:"root"`
	Names        *Namer        `json:"-"`
}

// Lookup returns the declaration called name.
func (g *Graph) Lookup(name string) (*Declaration, bool) {
	for i := range g.Declarations {
		if g.Declarations[i].Name == name {
			return &g.Declarations[i], true
		}
	}
	return nil, false
}

// RootDeclaration returns the declaration the root refers to.
func (g *Graph) RootDeclaration() (*Declaration, bool) {
	if g.Root.Kind != RefNamed {
		return nil, false
	}
	return g.Lookup(g.Root.Name)
}

// Count returns the number of declarations of the given kind.
func (g *Graph) Count(kind DeclKind) int {
	n := 0
	for _, d := range g.Declarations {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

package typegraph

import (
	"fmt"

	"github.com/alperekinci99/typefetch-cli/pkg/shape"
)

// Build walks a merged root shape and returns its declaration graph.
//
// Every object shape becomes a record declaration and every union with two or
// more non-primitive members becomes a sum declaration; other unions are
// inlined. Structurally equal shapes share a single declaration. A root that
// is neither a record nor a sum is exposed through an alias declaration named
// after baseName.
func Build(root *shape.Shape, baseName string) *Graph {
	b := &builder{
		namer:    NewNamer(baseName),
		declared: make(map[uint64][]declared),
	}

	var ref TypeRef
	if declaresItself(root) {
		ref = b.ref(root, b.namer.Base())
	} else {
		// The alias takes the base name before nested declarations are named.
		name := b.namer.Reserve(b.namer.Base())
		target := b.ref(root, b.namer.Base())
		b.emit(&Declaration{Name: name, Kind: KindAlias, Target: &target})
		ref = Named(name)
	}

	return &Graph{
		Declarations: order(b.decls),
		Root:         ref,
		Names:        b.namer,
	}
}

// Infer extracts every sample, folds the shapes, and builds the graph.
// It returns shape.ErrEmptySampleSet when samples is empty.
func Infer(baseName string, samples ...any) (*Graph, error) {
	root, err := shape.FromSamples(samples...)
	if err != nil {
		return nil, fmt.Errorf("inferring shape: %w", err)
	}
	return Build(root, baseName), nil
}

type declared struct {
	shape *shape.Shape
	name  string
}

type builder struct {
	namer    *Namer
	declared map[uint64][]declared // structural hash -> declarations
	decls    []*Declaration        // completed, dependencies first
}

func (b *builder) lookup(s *shape.Shape) (string, bool) {
	for _, d := range b.declared[s.Hash()] {
		if shape.Equal(d.shape, s) {
			return d.name, true
		}
	}
	return "", false
}

func (b *builder) remember(s *shape.Shape, name string) {
	b.declared[s.Hash()] = append(b.declared[s.Hash()], declared{shape: s, name: name})
}

func (b *builder) emit(d *Declaration) {
	b.decls = append(b.decls, d)
}

// ref returns the reference for s, declaring nested records and sums as
// they are discovered. hint is the name candidate for s itself.
func (b *builder) ref(s *shape.Shape, hint string) TypeRef {
	switch s.Kind() {
	case shape.KindNull:
		return TypeRef{Kind: RefNull}
	case shape.KindBoolean:
		return TypeRef{Kind: RefBoolean}
	case shape.KindInteger:
		return TypeRef{Kind: RefInteger}
	case shape.KindFloat:
		return TypeRef{Kind: RefFloat}
	case shape.KindString:
		return TypeRef{Kind: RefString}
	case shape.KindArray:
		return ArrayOf(b.ref(s.Elem(), b.namer.ElementHint(hint)))
	case shape.KindObject:
		return Named(b.record(s, hint))
	case shape.KindUnion:
		if declarable(s) {
			return Named(b.sum(s, hint))
		}
		return b.inlineUnion(s, hint)
	default:
		return TypeRef{Kind: RefUnknown}
	}
}

func (b *builder) record(s *shape.Shape, hint string) string {
	if name, ok := b.lookup(s); ok {
		return name
	}
	name := b.namer.Reserve(hint)
	b.remember(s, name)

	decl := &Declaration{Name: name, Kind: KindRecord, Fields: make([]FieldDef, 0, len(s.Fields()))}
	for _, f := range s.Fields() {
		decl.Fields = append(decl.Fields, FieldDef{
			Name:     f.Name,
			Type:     b.ref(f.Info.Shape, b.namer.FieldHint(f.Name)),
			Optional: f.Info.Optional(),
		})
	}
	b.emit(decl)
	return name
}

func (b *builder) sum(s *shape.Shape, hint string) string {
	if name, ok := b.lookup(s); ok {
		return name
	}
	name := b.namer.Reserve(hint + "Union")
	b.remember(s, name)

	members := s.Members()
	decl := &Declaration{Name: name, Kind: KindSum, Members: make([]TypeRef, 0, len(members))}
	for _, m := range members {
		decl.Members = append(decl.Members, b.ref(m, hint))
	}
	b.emit(decl)
	return name
}

func (b *builder) inlineUnion(s *shape.Shape, hint string) TypeRef {
	members := s.Members()
	ref := TypeRef{Kind: RefUnion, Members: make([]TypeRef, 0, len(members))}
	for _, m := range members {
		ref.Members = append(ref.Members, b.ref(m, hint))
	}
	return ref
}

// declaresItself reports whether the reference to s is a named declaration
// of its own, making a root alias unnecessary.
func declaresItself(s *shape.Shape) bool {
	switch s.Kind() {
	case shape.KindObject:
		return true
	case shape.KindUnion:
		return declarable(s)
	}
	return false
}

// declarable reports whether a union has at least two non-primitive members.
func declarable(s *shape.Shape) bool {
	n := 0
	for _, m := range s.Members() {
		if !m.Kind().IsPrimitive() {
			n++
		}
	}
	return n >= 2
}

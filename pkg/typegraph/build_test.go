package typegraph

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alperekinci99/typefetch-cli/pkg/shape"
)

// inferJSON decodes each JSON literal and builds the graph.
func inferJSON(t *testing.T, base string, samples ...string) *Graph {
	t.Helper()
	values := make([]any, 0, len(samples))
	for _, s := range samples {
		v, err := shape.Decode([]byte(s))
		require.NoError(t, err)
		values = append(values, v)
	}
	g, err := Infer(base, values...)
	require.NoError(t, err)
	assertTopological(t, g)
	return g
}

// assertTopological checks that every reference points to an earlier declaration.
func assertTopological(t *testing.T, g *Graph) {
	t.Helper()
	seen := make(map[string]bool)
	for _, d := range g.Declarations {
		for _, ref := range d.Refs() {
			assert.True(t, seen[ref], "%s references %s before it is declared", d.Name, ref)
		}
		assert.False(t, seen[d.Name], "duplicate declaration %s", d.Name)
		seen[d.Name] = true
	}
	for _, ref := range g.Root.Refs() {
		assert.True(t, seen[ref], "root references undeclared %s", ref)
	}
}

func mustDecl(t *testing.T, g *Graph, name string) *Declaration {
	t.Helper()
	d, ok := g.Lookup(name)
	require.True(t, ok, "declaration %s not found", name)
	return d
}

func fieldByName(t *testing.T, d *Declaration, name string) FieldDef {
	t.Helper()
	for _, f := range d.Fields {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("field %s not found in %s", name, d.Name)
	return FieldDef{}
}

func TestBuild_OptionalFieldScenario(t *testing.T) {
	g := inferJSON(t, "User",
		`{"id":1,"name":"Ada"}`,
		`{"id":2,"name":"Grace","email":"g@x.com"}`,
	)

	require.Len(t, g.Declarations, 1)
	assert.Equal(t, Named("User"), g.Root)

	root := mustDecl(t, g, "User")
	assert.Equal(t, KindRecord, root.Kind)
	assert.Equal(t, []FieldDef{
		{Name: "id", Type: TypeRef{Kind: RefInteger}},
		{Name: "name", Type: TypeRef{Kind: RefString}},
		{Name: "email", Type: TypeRef{Kind: RefString}, Optional: true},
	}, root.Fields)
}

func TestBuild_EmptyArrayScenario(t *testing.T) {
	g := inferJSON(t, "Post", `{"tags":["a","b"]}`, `{"tags":[]}`)

	tags := fieldByName(t, mustDecl(t, g, "Post"), "tags")
	assert.Equal(t, "[]string", tags.Type.String())
	assert.False(t, tags.Optional)
}

func TestBuild_ArrayElementUnionScenario(t *testing.T) {
	g := inferJSON(t, "Points", `[{"x":1},{"x":"two"}]`)

	require.Len(t, g.Declarations, 2)
	point := mustDecl(t, g, "Point")
	x := fieldByName(t, point, "x")
	assert.Equal(t, "integer | string", x.Type.String())
	assert.False(t, x.Optional)

	alias := mustDecl(t, g, "Points")
	assert.Equal(t, KindAlias, alias.Kind)
	assert.Equal(t, "[]Point", alias.Target.String())
	assert.Equal(t, Named("Points"), g.Root)
}

func TestBuild_SharedRecordScenario(t *testing.T) {
	g := inferJSON(t, "Response", `{"user":{"id":1}}`, `{"admin":{"id":2}}`)

	records := 0
	var shared string
	for _, d := range g.Declarations {
		if d.Kind == KindRecord && len(d.Fields) == 1 && d.Fields[0].Name == "id" {
			records++
			shared = d.Name
		}
	}
	require.Equal(t, 1, records, "expected exactly one {id} record")

	root := mustDecl(t, g, "Response")
	user := fieldByName(t, root, "user")
	admin := fieldByName(t, root, "admin")
	assert.Equal(t, Named(shared), user.Type)
	assert.Equal(t, Named(shared), admin.Type)
	assert.True(t, user.Optional)
	assert.True(t, admin.Optional)
}

func TestBuild_PrimitiveArrayRootScenario(t *testing.T) {
	g := inferJSON(t, "Tags", `["a","b","c"]`)

	require.Len(t, g.Declarations, 1)
	d := g.Declarations[0]
	assert.Equal(t, "Tags", d.Name)
	assert.Equal(t, KindAlias, d.Kind)
	require.NotNil(t, d.Target)
	assert.Equal(t, ArrayOf(TypeRef{Kind: RefString}), *d.Target)
	assert.Zero(t, g.Count(KindRecord))
}

func TestBuild_AliasRootKeepsBaseName(t *testing.T) {
	g := inferJSON(t, "Users", `[{"users":{"id":1}}]`)

	assert.Equal(t, Named("Users"), g.Root)
	root, ok := g.RootDeclaration()
	require.True(t, ok)
	assert.Equal(t, KindAlias, root.Kind)
	assert.Equal(t, "[]User", root.Target.String())

	elem, ok := g.Lookup("User")
	require.True(t, ok)
	require.Len(t, elem.Fields, 1)
	assert.Equal(t, Named("Users2"), elem.Fields[0].Type)

	assert.Equal(t, "Users", g.Declarations[len(g.Declarations)-1].Name)
}

func TestInfer_EmptySampleSet(t *testing.T) {
	g, err := Infer("Anything")
	assert.ErrorIs(t, err, shape.ErrEmptySampleSet)
	assert.Nil(t, g)
}

func TestBuild_DedupAcrossDifferentFieldNames(t *testing.T) {
	g := inferJSON(t, "Order", `{
		"billing_address": {"street": "a", "zip": "1"},
		"shipping_address": {"street": "b", "zip": "2"},
		"items": [{"sku": "x", "qty": 1}]
	}`)

	addr := mustDecl(t, g, "BillingAddress")
	assert.Equal(t, KindRecord, addr.Kind)
	_, dup := g.Lookup("ShippingAddress")
	assert.False(t, dup)

	order := mustDecl(t, g, "Order")
	assert.Equal(t, Named("BillingAddress"), fieldByName(t, order, "billing_address").Type)
	assert.Equal(t, Named("BillingAddress"), fieldByName(t, order, "shipping_address").Type)
	assert.Equal(t, "[]Item", fieldByName(t, order, "items").Type.String())
	assert.Equal(t, 3, g.Count(KindRecord))
}

func TestBuild_DedupRespectsOptionality(t *testing.T) {
	g := inferJSON(t, "Root",
		`{"a": {"id": 1, "n": 1}, "b": {"id": 1, "n": 1}}`,
		`{"a": {"id": 2}, "b": {"id": 2, "n": 3}}`,
	)

	root := mustDecl(t, g, "Root")
	a := fieldByName(t, root, "a").Type
	b := fieldByName(t, root, "b").Type
	assert.NotEqual(t, a, b)
	assert.True(t, fieldByName(t, mustDecl(t, g, a.Name), "n").Optional)
	assert.False(t, fieldByName(t, mustDecl(t, g, b.Name), "n").Optional)
}

func TestBuild_NameCollisionGetsSuffix(t *testing.T) {
	g := inferJSON(t, "Response", `{"a": {"address": {"x": 1}}, "b": {"address": {"y": "s"}}}`)

	names := make([]string, 0, len(g.Declarations))
	for _, d := range g.Declarations {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"Address", "A", "Address2", "B", "Response"}, names)
	assert.Equal(t, []string{"Response", "A", "Address", "B", "Address2"}, g.Names.Names())

	assert.Equal(t, "{x}", fieldSet(mustDecl(t, g, "Address")))
	assert.Equal(t, "{y}", fieldSet(mustDecl(t, g, "Address2")))
}

func fieldSet(d *Declaration) string {
	s := "{"
	for i, f := range d.Fields {
		if i > 0 {
			s += ","
		}
		s += f.Name
	}
	return s + "}"
}

func TestBuild_FieldNamesNeedingBase(t *testing.T) {
	g := inferJSON(t, "Stats", `{"2024": {"total": 1}, "$meta": {"v": true}}`)

	_, ok := g.Lookup("Stats2024")
	assert.True(t, ok)
	_, ok = g.Lookup("Meta")
	assert.True(t, ok)
}

func TestBuild_SumDeclaration(t *testing.T) {
	g := inferJSON(t, "Response", `{"v": {"a": 1}}`, `{"v": [1, 2]}`)

	sum := mustDecl(t, g, "VUnion")
	assert.Equal(t, KindSum, sum.Kind)
	require.Len(t, sum.Members, 2)
	assert.Equal(t, "[]integer", sum.Members[0].String())
	assert.Equal(t, Named("V"), sum.Members[1])

	assert.Equal(t, Named("VUnion"), fieldByName(t, mustDecl(t, g, "Response"), "v").Type)
	assert.Equal(t, 1, g.Count(KindSum))
}

func TestBuild_InlineUnionWithSingleNonPrimitive(t *testing.T) {
	g := inferJSON(t, "Response", `{"p": null}`, `{"p": {"q": 1}}`, `{"p": "text"}`)

	p := fieldByName(t, mustDecl(t, g, "Response"), "p")
	assert.Equal(t, RefUnion, p.Type.Kind)
	assert.Equal(t, "null | string | P", p.Type.String())
	assert.False(t, p.Optional)
	assert.Zero(t, g.Count(KindSum))
}

func TestBuild_NestedArrays(t *testing.T) {
	g := inferJSON(t, "Users", `[[{"id": 1}], []]`)

	alias := mustDecl(t, g, "Users")
	assert.Equal(t, "[][]UserElement", alias.Target.String())
	_, ok := g.Lookup("UserElement")
	assert.True(t, ok)
}

func TestBuild_Roots(t *testing.T) {
	t.Run("primitive", func(t *testing.T) {
		g := Build(shape.String, "Name")
		require.Len(t, g.Declarations, 1)
		assert.Equal(t, "string", g.Declarations[0].Target.String())
		assert.Equal(t, Named("Name"), g.Root)
	})

	t.Run("unknown", func(t *testing.T) {
		g := Build(shape.Unknown, "Nothing")
		require.Len(t, g.Declarations, 1)
		assert.Equal(t, RefUnknown, g.Declarations[0].Target.Kind)
	})

	t.Run("nil_root", func(t *testing.T) {
		g := Build(nil, "Nothing")
		assert.Equal(t, KindAlias, g.Declarations[0].Kind)
	})

	t.Run("inline_union", func(t *testing.T) {
		g := Build(shape.Merge(shape.Integer, shape.String), "Value")
		d, ok := g.RootDeclaration()
		require.True(t, ok)
		assert.Equal(t, KindAlias, d.Kind)
		assert.Equal(t, "integer | string", d.Target.String())
	})

	t.Run("invalid_base_name", func(t *testing.T) {
		g := Build(shape.Boolean, "get-flag")
		assert.Equal(t, Named("ItemGetFlag"), g.Root)
		assert.Equal(t, "ItemGetFlag", g.Names.Base())
	})
}

func TestBuild_DeepTopologicalOrder(t *testing.T) {
	g := inferJSON(t, "Root", `{
		"a": {"b": {"c": {"d": 1}}},
		"list": [{"c": {"d": 2}}],
		"other": {"c": {"d": 3}, "e": [{"b": {"c": {"d": 4}}}]}
	}`)

	// {d}, {c} and {b} each recur on several paths and are declared once.
	assert.Equal(t, 1, countWithFields(g, "{d}"))
	assert.Equal(t, 1, countWithFields(g, "{c}"))
	assert.Equal(t, 1, countWithFields(g, "{b}"))
}

func countWithFields(g *Graph, set string) int {
	n := 0
	for i := range g.Declarations {
		if fieldSet(&g.Declarations[i]) == set {
			n++
		}
	}
	return n
}

func TestGraph_JSON(t *testing.T) {
	g := inferJSON(t, "User", `{"id": 1, "tags": ["x"]}`)

	data, err := json.Marshal(g)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"declarations": [{
			"name": "User",
			"kind": "record",
			"fields": [
				{"name": "id", "type": {"kind": "integer"}, "optional": false},
				{"name": "tags", "type": {"kind": "array", "elem": {"kind": "string"}}, "optional": false}
			]
		}],
		"root": {"kind": "ref", "name": "User"}
	}`, string(data))
}

func TestNamer(t *testing.T) {
	n := NewNamer("Base")
	assert.Equal(t, "Base", n.Reserve(""))
	assert.Equal(t, "Base2", n.Reserve("Base"))
	assert.Equal(t, "Item", n.Reserve("Item"))
	assert.Equal(t, "Item2", n.Reserve("Item"))
	assert.Equal(t, "Item3", n.Reserve("Item"))

	assert.Equal(t, "Tag", n.ElementHint("Tags"))
	assert.Equal(t, "User", n.ElementHint("Users"))
	assert.Equal(t, "UserElement", n.ElementHint("User"))

	assert.Equal(t, "BillingAddress", n.FieldHint("billing_address"))
	assert.Equal(t, "Base42", n.FieldHint("42"))
	assert.Equal(t, "BaseValue", n.FieldHint("--"))
}

func TestOrder_CyclePanics(t *testing.T) {
	a := &Declaration{Name: "A", Kind: KindRecord, Fields: []FieldDef{{Name: "b", Type: Named("B")}}}
	b := &Declaration{Name: "B", Kind: KindRecord, Fields: []FieldDef{{Name: "a", Type: Named("A")}}}

	defer func() {
		v, ok := recover().(InvariantViolation)
		require.True(t, ok, "expected InvariantViolation panic")
		assert.Contains(t, v.Error(), "cycle")
	}()
	order([]*Declaration{a, b})
}

func TestOrder_DanglingReferencePanics(t *testing.T) {
	a := &Declaration{Name: "A", Kind: KindAlias, Target: &TypeRef{Kind: RefNamed, Name: "Missing"}}

	assert.PanicsWithValue(t,
		InvariantViolation{Detail: `"A" references undeclared "Missing"`},
		func() { order([]*Declaration{a}) },
	)
}

func TestOrder_ReordersDependencies(t *testing.T) {
	parent := &Declaration{Name: "Parent", Kind: KindRecord, Fields: []FieldDef{{Name: "c", Type: ArrayOf(Named("Child"))}}}
	child := &Declaration{Name: "Child", Kind: KindRecord}

	out := order([]*Declaration{parent, child})
	require.Len(t, out, 2)
	assert.Equal(t, "Child", out[0].Name)
	assert.Equal(t, "Parent", out[1].Name)
}

package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqual_IgnoresFieldOrderAndCounts(t *testing.T) {
	a := ObjectOf(1,
		Field{Name: "id", Info: FieldInfo{Shape: Integer, Present: 1, Total: 1}},
		Field{Name: "name", Info: FieldInfo{Shape: String, Present: 1, Total: 1}},
	)
	b := ObjectOf(5,
		Field{Name: "name", Info: FieldInfo{Shape: String, Present: 5, Total: 5}},
		Field{Name: "id", Info: FieldInfo{Shape: Integer, Present: 5, Total: 5}},
	)

	assert.True(t, Equal(a, b))
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestEqual_OptionalityMatters(t *testing.T) {
	required := ObjectOf(2, Field{Name: "id", Info: FieldInfo{Shape: Integer, Present: 2, Total: 2}})
	optional := ObjectOf(2, Field{Name: "id", Info: FieldInfo{Shape: Integer, Present: 1, Total: 2}})

	assert.False(t, Equal(required, optional))
	assert.NotEqual(t, required.Hash(), optional.Hash())
}

func TestEqual_Kinds(t *testing.T) {
	tests := []struct {
		name string
		a, b *Shape
		want bool
	}{
		{"same_primitive", String, String, true},
		{"integer_vs_float", Integer, Float, false},
		{"nil_is_unknown", nil, Unknown, true},
		{"arrays_equal", ArrayOf(String), ArrayOf(String), true},
		{"arrays_differ", ArrayOf(String), ArrayOf(Integer), false},
		{"nil_elem", ArrayOf(nil), ArrayOf(Unknown), true},
		{"unions_equal", Merge(String, Integer), Merge(Integer, String), true},
		{"unions_differ", Merge(String, Integer), Merge(String, Boolean), false},
		{"field_sets_differ",
			ObjectOf(1, Field{Name: "a", Info: FieldInfo{Shape: Null, Present: 1, Total: 1}}),
			ObjectOf(1, Field{Name: "b", Info: FieldInfo{Shape: Null, Present: 1, Total: 1}}),
			false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
			assert.Equal(t, tt.want, Equal(tt.b, tt.a))
		})
	}
}

func TestObjectOf_DuplicateNamesKeepFirst(t *testing.T) {
	s := ObjectOf(1,
		Field{Name: "a", Info: FieldInfo{Shape: Integer, Present: 1, Total: 1}},
		Field{Name: "a", Info: FieldInfo{Shape: String, Present: 1, Total: 1}},
	)

	require.Len(t, s.Fields(), 1)
	a, ok := s.Field("a")
	require.True(t, ok)
	assert.Equal(t, KindInteger, a.Shape.Kind())
}

func TestShape_AccessorsOnWrongKind(t *testing.T) {
	assert.Nil(t, String.Elem())
	assert.Nil(t, String.Fields())
	assert.Nil(t, String.Members())
	assert.Zero(t, String.Samples())
	_, ok := String.Field("x")
	assert.False(t, ok)

	var nilShape *Shape
	assert.Equal(t, KindUnknown, nilShape.Kind())
	assert.Equal(t, Unknown.Hash(), nilShape.Hash())
}

func TestShape_FieldsIsACopy(t *testing.T) {
	s := mustShape(t, `{"a": 1}`)
	fields := s.Fields()
	fields[0].Name = "changed"

	_, ok := s.Field("a")
	assert.True(t, ok)
	assert.Equal(t, "{a: integer}", s.String())
}

func TestShape_Nullable(t *testing.T) {
	assert.True(t, Null.Nullable())
	assert.True(t, Merge(Null, String).Nullable())
	assert.False(t, String.Nullable())
	assert.False(t, Merge(Integer, String).Nullable())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "object", KindObject.String())
	assert.Equal(t, "unknown", KindUnknown.String())
	assert.Equal(t, "invalid", Kind(200).String())
	assert.True(t, KindFloat.IsPrimitive())
	assert.False(t, KindArray.IsPrimitive())
	assert.False(t, KindUnknown.IsPrimitive())
}

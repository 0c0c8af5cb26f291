package shape

// mergeClass groups kinds that merge structurally instead of forming a union.
// A union holds at most one member per class.
type mergeClass uint8

const (
	classNull mergeClass = iota
	classBoolean
	classNumber
	classString
	classArray
	classObject
	numClasses
)

func classOf(k Kind) mergeClass {
	switch k {
	case KindNull:
		return classNull
	case KindBoolean:
		return classBoolean
	case KindInteger, KindFloat:
		return classNumber
	case KindString:
		return classString
	case KindArray:
		return classArray
	case KindObject:
		return classObject
	}
	panic("shape: no merge class for " + k.String())
}

// Merge combines two shapes observed at the same logical position.
//
// Unknown is the identity. Matching primitives collapse, integers widen to
// floats, arrays merge their elements, and objects are always merged field by
// field (fields missing on one side become optional). Any other pairing yields
// a flattened union. Merge is commutative, associative and idempotent up to
// structural equality, and never modifies its operands.
func Merge(a, b *Shape) *Shape {
	a, b = orUnknown(a), orUnknown(b)
	switch {
	case a.kind == KindUnknown:
		return b
	case b.kind == KindUnknown:
		return a
	case a.kind == KindUnion || b.kind == KindUnion:
		return mergeUnion(a, b)
	case classOf(a.kind) != classOf(b.kind):
		return newUnion([]*Shape{a, b})
	default:
		return mergeSameClass(a, b)
	}
}

// Fold merges shapes left to right starting from Unknown.
func Fold(shapes ...*Shape) *Shape {
	acc := Unknown
	for _, s := range shapes {
		acc = Merge(acc, s)
	}
	return acc
}

func mergeSameClass(a, b *Shape) *Shape {
	switch classOf(a.kind) {
	case classNumber:
		if a.kind == KindInteger && b.kind == KindInteger {
			return Integer
		}
		return Float
	case classArray:
		if a == b {
			return a
		}
		return ArrayOf(Merge(a.elem, b.elem))
	case classObject:
		return mergeObjects(a, b)
	default:
		return a
	}
}

func mergeObjects(a, b *Shape) *Shape {
	total := a.samples + b.samples
	fields := make([]Field, 0, len(a.fields)+len(b.fields))

	for _, fa := range a.fields {
		info := FieldInfo{Shape: fa.Info.Shape, Present: fa.Info.Present, Total: total}
		if fb, ok := b.Field(fa.Name); ok {
			info.Shape = Merge(fa.Info.Shape, fb.Shape)
			info.Present += fb.Present
		}
		fields = append(fields, Field{Name: fa.Name, Info: info})
	}
	for _, fb := range b.fields {
		if _, ok := a.index[fb.Name]; ok {
			continue
		}
		fields = append(fields, Field{
			Name: fb.Name,
			Info: FieldInfo{Shape: fb.Info.Shape, Present: fb.Info.Present, Total: total},
		})
	}

	return ObjectOf(total, fields...)
}

// mergeUnion flattens both operands into one member per merge class,
// merging members that share a class.
func mergeUnion(a, b *Shape) *Shape {
	var slots [numClasses]*Shape
	add := func(s *Shape) {
		c := classOf(s.kind)
		if slots[c] == nil {
			slots[c] = s
			return
		}
		slots[c] = mergeSameClass(slots[c], s)
	}
	for _, s := range []*Shape{a, b} {
		if s.kind == KindUnion {
			for _, m := range s.members {
				add(m)
			}
			continue
		}
		add(s)
	}

	members := make([]*Shape, 0, numClasses)
	for _, s := range slots {
		if s != nil {
			members = append(members, s)
		}
	}
	if len(members) == 1 {
		return members[0]
	}
	return newUnion(members)
}

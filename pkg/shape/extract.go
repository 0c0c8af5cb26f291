package shape

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
)

// Extract converts one parsed JSON value into a Shape.
//
// Accepted inputs are the values produced by encoding/json (nil, bool,
// float64, json.Number, string, []any, map[string]any), Go integer and float
// types, and *Object values produced by [Decode]. Keys of map[string]any are
// visited in sorted order; keys of *Object keep document order.
//
// Array elements are merged into a single element shape. Objects record every
// key with Present = Total = 1.
func Extract(v any) (*Shape, error) {
	x := &extractor{ancestors: make(map[uintptr]struct{})}
	return x.extract(v, "$")
}

// FromSamples extracts every sample and folds the results.
// It returns ErrEmptySampleSet when no samples are given.
func FromSamples(samples ...any) (*Shape, error) {
	if len(samples) == 0 {
		return nil, ErrEmptySampleSet
	}
	acc := Unknown
	for i, sample := range samples {
		s, err := Extract(sample)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		acc = Merge(acc, s)
	}
	return acc, nil
}

// extractor tracks the containers on the current path to reject cycles.
type extractor struct {
	ancestors map[uintptr]struct{}
}

func (x *extractor) extract(v any, path string) (*Shape, error) {
	switch val := v.(type) {
	case nil:
		return Null, nil
	case bool:
		return Boolean, nil
	case string:
		return String, nil
	case float64:
		return numberShape(val, path)
	case float32:
		return numberShape(float64(val), path)
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		return Integer, nil
	case uint:
		return unsignedShape(uint64(val)), nil
	case uint64:
		return unsignedShape(val), nil
	case json.Number:
		return jsonNumberShape(val, path)
	case []any:
		return x.extractArray(val, path)
	case map[string]any:
		return x.extractMap(val, path)
	case *Object:
		return x.extractObject(val, path)
	default:
		return nil, malformed(path, "unsupported value of type %T", v)
	}
}

func (x *extractor) enter(ptr uintptr, path string) error {
	if ptr == 0 {
		return nil
	}
	if _, seen := x.ancestors[ptr]; seen {
		return malformed(path, "cyclic reference")
	}
	x.ancestors[ptr] = struct{}{}
	return nil
}

func (x *extractor) leave(ptr uintptr) {
	delete(x.ancestors, ptr)
}

func (x *extractor) extractArray(arr []any, path string) (*Shape, error) {
	if len(arr) == 0 {
		return ArrayOf(Unknown), nil
	}
	ptr := reflect.ValueOf(arr).Pointer()
	if err := x.enter(ptr, path); err != nil {
		return nil, err
	}
	defer x.leave(ptr)

	elem := Unknown
	for i, item := range arr {
		s, err := x.extract(item, path+"["+strconv.Itoa(i)+"]")
		if err != nil {
			return nil, err
		}
		elem = Merge(elem, s)
	}
	return ArrayOf(elem), nil
}

func (x *extractor) extractMap(obj map[string]any, path string) (*Shape, error) {
	ptr := reflect.ValueOf(obj).Pointer()
	if err := x.enter(ptr, path); err != nil {
		return nil, err
	}
	defer x.leave(ptr)

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]Field, 0, len(keys))
	for _, k := range keys {
		s, err := x.extract(obj[k], childPath(path, k))
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: k, Info: FieldInfo{Shape: s, Present: 1, Total: 1}})
	}
	return ObjectOf(1, fields...), nil
}

func (x *extractor) extractObject(obj *Object, path string) (*Shape, error) {
	if obj == nil {
		return Null, nil
	}
	ptr := reflect.ValueOf(obj).Pointer()
	if err := x.enter(ptr, path); err != nil {
		return nil, err
	}
	defer x.leave(ptr)

	fields := make([]Field, 0, obj.Len())
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		s, err := x.extract(pair.Value, childPath(path, pair.Key))
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: pair.Key, Info: FieldInfo{Shape: s, Present: 1, Total: 1}})
	}
	return ObjectOf(1, fields...), nil
}

// numberShape classifies a float as Integer when it is whole and fits int64.
func numberShape(f float64, path string) (*Shape, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, malformed(path, "non-finite number %v", f)
	}
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return Integer, nil
	}
	return Float, nil
}

func unsignedShape(u uint64) *Shape {
	if u > math.MaxInt64 {
		return Float
	}
	return Integer
}

func jsonNumberShape(n json.Number, path string) (*Shape, error) {
	if _, err := n.Int64(); err == nil {
		return Integer, nil
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			// Syntactically valid but beyond float64 range.
			return Float, nil
		}
		return nil, &MalformedInputError{Path: path, Reason: fmt.Sprintf("invalid number %q", string(n)), Err: err}
	}
	return numberShape(f, path)
}

func childPath(parent, key string) string {
	if isPlainKey(key) {
		return parent + "." + key
	}
	return parent + "[" + strconv.Quote(key) + "]"
}

func isPlainKey(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

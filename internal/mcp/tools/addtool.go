package tools

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AddTool checks the output type of a typefetch tool and registers it.
// It panics when the check fails, so a broken output type stops the server
// at startup instead of failing the first call.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	CheckOutputSchema[Out](t.Name)
	sdkmcp.AddTool(srv, t, h)
}

// CheckOutputSchema panics when checkOutput rejects T.
func CheckOutputSchema[T any](toolName string) {
	if err := checkOutput(reflect.TypeFor[T]()); err != nil {
		panic(fmt.Sprintf("tool %q: %v", toolName, err))
	}
}

// checkOutput reports output types whose JSON does not match the schema the
// SDK infers for them:
//   - slices without omitzero/omitempty: the zero value encodes as null but
//     the schema says array;
//   - json.RawMessage anywhere: it encodes as inline JSON but the schema says
//     array of integers. Graphs and schemas travel as any (see types.ToAny).
//
// Untyped outputs and types the SDK cannot describe are left to the SDK.
func checkOutput(rt reflect.Type) error {
	if rt == reflect.TypeFor[any]() {
		return nil
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	if paths := rawMessagePaths(rt, "", map[reflect.Type]bool{}); len(paths) > 0 {
		return fmt.Errorf("output %s has json.RawMessage at %s; use any and types.ToAny",
			rt, strings.Join(paths, ", "))
	}

	schema, err := jsonschema.ForType(rt, &jsonschema.ForOptions{})
	if err != nil {
		return nil
	}
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return nil
	}

	data, err := json.Marshal(reflect.Zero(rt).Interface())
	if err != nil {
		return nil
	}
	var zero map[string]any
	if err := json.Unmarshal(data, &zero); err != nil {
		return nil
	}
	if err := resolved.Validate(&zero); err != nil {
		return fmt.Errorf("zero value of %s (%s) does not match its schema: %w; tag nil slices omitzero",
			rt, data, err)
	}
	return nil
}

var rawMessageType = reflect.TypeFor[json.RawMessage]()

// rawMessagePaths lists the dotted field paths of t that hold a
// json.RawMessage. Slice elements are written "[]", map values "[value]".
func rawMessagePaths(t reflect.Type, path string, seen map[reflect.Type]bool) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == rawMessageType {
		return []string{path}
	}
	if seen[t] {
		return nil
	}
	seen[t] = true
	defer delete(seen, t)

	join := func(part string) string {
		if path == "" {
			return part
		}
		return path + "." + part
	}

	switch t.Kind() {
	case reflect.Struct:
		var out []string
		for i := range t.NumField() {
			if f := t.Field(i); f.IsExported() {
				out = append(out, rawMessagePaths(f.Type, join(f.Name), seen)...)
			}
		}
		return out
	case reflect.Slice, reflect.Array:
		return rawMessagePaths(t.Elem(), join("[]"), seen)
	case reflect.Map:
		return rawMessagePaths(t.Elem(), join("[value]"), seen)
	}
	return nil
}

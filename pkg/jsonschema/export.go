// Package jsonschema renders inferred types as JSON Schema (Draft 2020-12)
// and summarizes merged shapes as flat field statistics.
package jsonschema

import (
	"github.com/invopop/jsonschema"

	"github.com/alperekinci99/typefetch-cli/pkg/typegraph"
)

const draft2020 = "https://json-schema.org/draft/2020-12/schema"

// ExportOptions controls schema export behavior.
type ExportOptions struct {
	// StrictRequired lists every non-optional field under "required".
	// When false no field is marked as required.
	// Default: true
	StrictRequired bool
	// MarkNullableAsOptional leaves fields that can be null out of "required".
	// Default: false
	MarkNullableAsOptional bool
	// AdditionalProperties sets additionalProperties in object schemas.
	// Default: nil (not set)
	AdditionalProperties *bool
}

// DefaultExportOptions returns the default export options.
func DefaultExportOptions() *ExportOptions {
	return &ExportOptions{
		StrictRequired:         true,
		MarkNullableAsOptional: false,
		AdditionalProperties:   nil,
	}
}

// FromGraph converts a type graph into a JSON Schema document. Every
// declaration is emitted under $defs and referenced by $ref; the document
// itself describes the graph root.
func FromGraph(g *typegraph.Graph, opts *ExportOptions) *jsonschema.Schema {
	if g == nil {
		return nil
	}
	if opts == nil {
		opts = DefaultExportOptions()
	}

	defs := make(jsonschema.Definitions, len(g.Declarations))
	for i := range g.Declarations {
		d := &g.Declarations[i]
		defs[d.Name] = declarationSchema(g, d, opts)
	}

	root := refSchema(g.Root)
	root.Version = draft2020
	root.Definitions = defs
	return root
}

// DefRef returns the $ref value pointing at the named declaration.
func DefRef(name string) string {
	return "#/$defs/" + name
}

func declarationSchema(g *typegraph.Graph, d *typegraph.Declaration, opts *ExportOptions) *jsonschema.Schema {
	switch d.Kind {
	case typegraph.KindRecord:
		return recordSchema(g, d, opts)
	case typegraph.KindSum:
		s := &jsonschema.Schema{AnyOf: make([]*jsonschema.Schema, 0, len(d.Members))}
		for _, m := range d.Members {
			s.AnyOf = append(s.AnyOf, refSchema(m))
		}
		return s
	default:
		if d.Target == nil {
			return &jsonschema.Schema{}
		}
		return refSchema(*d.Target)
	}
}

func recordSchema(g *typegraph.Graph, d *typegraph.Declaration, opts *ExportOptions) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}
	for _, f := range d.Fields {
		s.Properties.Set(f.Name, refSchema(f.Type))
		if !opts.StrictRequired || f.Optional {
			continue
		}
		if opts.MarkNullableAsOptional && nullable(g, f.Type) {
			continue
		}
		s.Required = append(s.Required, f.Name)
	}
	if opts.AdditionalProperties != nil {
		if *opts.AdditionalProperties {
			s.AdditionalProperties = jsonschema.TrueSchema
		} else {
			s.AdditionalProperties = jsonschema.FalseSchema
		}
	}
	return s
}

// refSchema renders a type reference. Unknown types map to the empty schema.
func refSchema(r typegraph.TypeRef) *jsonschema.Schema {
	switch r.Kind {
	case typegraph.RefNamed:
		return &jsonschema.Schema{Ref: DefRef(r.Name)}
	case typegraph.RefNull:
		return &jsonschema.Schema{Type: "null"}
	case typegraph.RefBoolean:
		return &jsonschema.Schema{Type: "boolean"}
	case typegraph.RefInteger:
		return &jsonschema.Schema{Type: "integer"}
	case typegraph.RefFloat:
		return &jsonschema.Schema{Type: "number"}
	case typegraph.RefString:
		return &jsonschema.Schema{Type: "string"}
	case typegraph.RefArray:
		s := &jsonschema.Schema{Type: "array"}
		if r.Elem != nil && r.Elem.Kind != typegraph.RefUnknown {
			s.Items = refSchema(*r.Elem)
		}
		return s
	case typegraph.RefUnion:
		s := &jsonschema.Schema{AnyOf: make([]*jsonschema.Schema, 0, len(r.Members))}
		for _, m := range r.Members {
			s.AnyOf = append(s.AnyOf, refSchema(m))
		}
		return s
	default:
		return &jsonschema.Schema{}
	}
}

// nullable reports whether a value of type r can be null, looking through
// named sum and alias declarations.
func nullable(g *typegraph.Graph, r typegraph.TypeRef) bool {
	switch r.Kind {
	case typegraph.RefNull:
		return true
	case typegraph.RefUnion:
		for _, m := range r.Members {
			if nullable(g, m) {
				return true
			}
		}
	case typegraph.RefNamed:
		d, ok := g.Lookup(r.Name)
		if !ok {
			return false
		}
		switch d.Kind {
		case typegraph.KindSum:
			for _, m := range d.Members {
				if nullable(g, m) {
					return true
				}
			}
		case typegraph.KindAlias:
			return d.Target != nil && nullable(g, *d.Target)
		}
	}
	return false
}

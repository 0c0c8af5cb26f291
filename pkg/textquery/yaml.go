package textquery

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alperekinci99/typefetch-cli/pkg/shape"
)

// maxAliasDepth bounds alias expansion so that "billion laughs" documents
// cannot blow up a sample.
const maxAliasDepth = 64

// YAMLToJSON converts every document of a YAML stream into a JSON document.
// Mapping key order is kept. Empty documents are skipped.
func YAMLToJSON(data []byte) ([][]byte, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var docs [][]byte
	for i := 0; ; i++ {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse YAML document %d: %w", i, err)
		}
		if len(node.Content) == 0 {
			continue
		}

		v, err := nodeValue(&node, 0)
		if err != nil {
			return nil, fmt.Errorf("YAML document %d: %w", i, err)
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to convert YAML document %d to JSON: %w", i, err)
		}
		docs = append(docs, b)
	}
	return docs, nil
}

func nodeValue(n *yaml.Node, depth int) (any, error) {
	if depth > maxAliasDepth {
		return nil, fmt.Errorf("line %d: nesting deeper than %d", n.Line, maxAliasDepth)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		return nodeValue(n.Content[0], depth)
	case yaml.AliasNode:
		return nodeValue(n.Alias, depth+1)
	case yaml.MappingNode:
		obj := shape.NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := nodeValue(n.Content[i+1], depth+1)
			if err != nil {
				return nil, err
			}
			obj.Set(n.Content[i].Value, v)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeValue(c, depth+1)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	default:
		return scalarValue(n), nil
	}
}

// scalarValue maps resolved YAML scalars to JSON values. Numbers become
// json.Number so that integers and floats stay distinguishable; tags with no
// JSON counterpart (timestamps, binary) keep their text.
func scalarValue(n *yaml.Node) any {
	switch n.ShortTag() {
	case "!!null":
		return nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return b
		}
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return json.Number(strconv.FormatInt(i, 10))
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return json.Number(strconv.FormatUint(u, 10))
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return n.Value
		}
		if json.Valid([]byte(n.Value)) {
			return json.Number(n.Value)
		}
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return json.Number(s)
	}
	return n.Value
}

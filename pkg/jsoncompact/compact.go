// Package jsoncompact shrinks JSON values for previews by trimming long
// arrays and strings. Object key order is kept for *shape.Object values.
package jsoncompact

import (
	"fmt"

	"github.com/alperekinci99/typefetch-cli/pkg/shape"
)

// Options controls JSON compaction behavior.
type Options struct {
	MaxArrayItems int // Trim arrays to N items (0 = no limit)
	MaxStringLen  int // Truncate strings longer than N bytes (0 = no limit)
	MaxDepth      int // Replace values nested deeper than N (0 = unlimited)
}

// Default values for compaction options.
const (
	DefaultMaxArrayItems = 3
	DefaultMaxStringLen  = 200
	DefaultMaxDepth      = 0 // unlimited
)

// DefaultOptions returns the default compaction settings.
func DefaultOptions() *Options {
	return &Options{
		MaxArrayItems: DefaultMaxArrayItems,
		MaxStringLen:  DefaultMaxStringLen,
		MaxDepth:      DefaultMaxDepth,
	}
}

// Compact decodes data and returns its compacted value.
// If opts is nil, DefaultOptions() is used.
func Compact(data []byte, opts *Options) (any, bool, error) {
	v, err := shape.Decode(data)
	if err != nil {
		return nil, false, err
	}
	out, cut := Value(v, opts)
	return out, cut, nil
}

// Value returns a compacted copy of a decoded JSON value and whether
// anything was cut. The input is not modified.
// If opts is nil, DefaultOptions() is used.
func Value(v any, opts *Options) (any, bool) {
	if opts == nil {
		opts = DefaultOptions()
	}
	c := &compactor{opts: opts}
	return c.value(v, 0), c.cut
}

type compactor struct {
	opts *Options
	cut  bool
}

func (c *compactor) value(v any, depth int) any {
	if c.opts.MaxDepth > 0 && depth >= c.opts.MaxDepth {
		switch v.(type) {
		case []any, map[string]any, *shape.Object:
			c.cut = true
			return "[max depth]"
		}
	}

	switch val := v.(type) {
	case []any:
		return c.array(val, depth)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = c.value(item, depth+1)
		}
		return out
	case *shape.Object:
		out := shape.NewObject()
		for pair := val.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, c.value(pair.Value, depth+1))
		}
		return out
	case string:
		return c.string(val)
	default:
		return v
	}
}

func (c *compactor) string(s string) string {
	if c.opts.MaxStringLen <= 0 || len(s) <= c.opts.MaxStringLen {
		return s
	}
	c.cut = true
	cutAt := c.opts.MaxStringLen
	// keep the last rune whole
	for cutAt > 0 && cutAt < len(s) && s[cutAt]&0xC0 == 0x80 {
		cutAt--
	}
	return s[:cutAt] + fmt.Sprintf("... (%d more bytes)", len(s)-cutAt)
}

func (c *compactor) array(arr []any, depth int) []any {
	n := len(arr)
	if c.opts.MaxArrayItems > 0 && n > c.opts.MaxArrayItems {
		n = c.opts.MaxArrayItems
	}

	out := make([]any, 0, n+1)
	for _, item := range arr[:n] {
		out = append(out, c.value(item, depth+1))
	}
	if n < len(arr) {
		c.cut = true
		out = append(out, fmt.Sprintf("... (%d more items)", len(arr)-n))
	}
	return out
}

// Package contenttype classifies response and file content so that non-JSON
// bodies can be converted or reported instead of failing inference blindly.
package contenttype

import (
	"bytes"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Category represents a broad content-type classification.
type Category string

const (
	JSON   Category = "json"
	YAML   Category = "yaml"
	HTML   Category = "html"
	XML    Category = "xml"
	Text   Category = "text"
	Binary Category = "binary"
)

// Classify returns the broad content category for a content-type header value.
// Parameters (charset, boundary, ...) are ignored. Empty values are Binary.
func Classify(contentType string) Category {
	if contentType == "" {
		return Binary
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}

	switch {
	case strings.Contains(mediaType, "json"):
		// application/json, application/problem+json, application/x-ndjson
		return JSON
	case strings.Contains(mediaType, "yaml"):
		return YAML
	case mediaType == "text/html" || mediaType == "application/xhtml+xml":
		return HTML
	case strings.Contains(mediaType, "xml"):
		return XML
	case strings.HasPrefix(mediaType, "text/"):
		return Text
	default:
		return Binary
	}
}

// Sniff guesses the category of body from its first non-space bytes.
func Sniff(body []byte) Category {
	b := bytes.TrimSpace(body)
	if len(b) == 0 {
		return Text
	}
	switch b[0] {
	case '{', '[', '"':
		return JSON
	case '<':
		head := bytes.ToLower(b[:min(len(b), 64)])
		if bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html")) {
			return HTML
		}
		return XML
	}
	if bytes.HasPrefix(b, []byte("---")) {
		return YAML
	}
	if !utf8.Valid(b) {
		return Binary
	}
	return Text
}

// Detect classifies a response by its header, falling back to Sniff when
// the header is missing or too generic to be useful.
func Detect(contentType string, body []byte) Category {
	c := Classify(contentType)
	if c == Text || c == Binary {
		if s := Sniff(body); s != Text {
			return s
		}
	}
	return c
}

// FromPath classifies a sample file by its extension. Unknown extensions
// are treated as JSON.
func FromPath(path string) Category {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	case ".xml":
		return XML
	case ".html", ".htm":
		return HTML
	default:
		return JSON
	}
}

package client

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/alperekinci99/typefetch-cli/pkg/contenttype"
)

// Request describes one sample fetch.
type Request struct {
	URL     string
	Method  string            // default GET
	Headers map[string]string // keys are lower-cased by ParseHeaders
	Body    []byte
}

// Response is a fetched body and the JSON samples it carries.
type Response struct {
	URL         string // final URL after redirects
	StatusCode  int
	ContentType string
	Category    contenttype.Category
	Body        []byte   // as received
	Documents   [][]byte // JSON documents; one per YAML document for YAML bodies
}

// NotJSONError is returned when a response body carries no JSON.
type NotJSONError struct {
	StatusCode  int
	ContentType string
	Summary     string // e.g. `HTML page "Sign in"`
	Preview     string // first bytes of the body
	Err         error
}

func (e *NotJSONError) Error() string {
	ct := e.ContentType
	if ct == "" {
		ct = "no content type"
	}
	return fmt.Sprintf("response is not JSON (status %d, %s): got %s: %v", e.StatusCode, ct, e.Summary, e.Err)
}

func (e *NotJSONError) Unwrap() error {
	return e.Err
}

// BodyTooLargeError is returned when a response body exceeds the size limit.
type BodyTooLargeError struct {
	Limit int64
}

func (e *BodyTooLargeError) Error() string {
	return fmt.Sprintf("response body exceeds %d bytes", e.Limit)
}

// ParseHeaders parses "Key: Value" strings. Entries without a colon or with
// an empty key are skipped; later entries win.
func ParseHeaders(raw []string) map[string]string {
	out := make(map[string]string, len(raw))
	for _, h := range raw {
		k, v, ok := strings.Cut(h, ":")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		out[strings.ToLower(k)] = strings.TrimSpace(v)
	}
	return out
}

func (r *Request) method() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(r.Method)
}

// Package graphql recognizes GraphQL-over-HTTP request bodies and extracts
// the operation they carry, without a full query parser.
package graphql

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"unicode"
)

// Sentinel errors for bodies that carry no operation.
var (
	// ErrEmpty indicates the request body was empty or whitespace-only.
	ErrEmpty = errors.New("graphql: empty body")

	// ErrNotGraphQL indicates the body is valid JSON but does not contain
	// a query or operationName field.
	ErrNotGraphQL = errors.New("graphql: not a GraphQL request body")
)

// Operation is the first operation of a GraphQL request body.
type Operation struct {
	Name      string   `json:"name,omitempty"` // operationName, or the name written in the query
	Type      string   `json:"type"`           // query, mutation, or subscription
	Fields    []string `json:"fields,omitempty"`
	IsBatched bool     `json:"is_batched,omitempty"`
}

// BaseName is the raw base name a response type should be named after:
// the operation name, else the first top-level field, else "".
func (op *Operation) BaseName() string {
	if op.Name != "" {
		return op.Name
	}
	if len(op.Fields) > 0 {
		return op.Fields[0]
	}
	return ""
}

type requestBody struct {
	Query         string `json:"query"`
	OperationName string `json:"operationName"`
}

// ParseRequest returns the operation of a single or batched GraphQL request
// body. For a batch only the first operation is returned.
func ParseRequest(body []byte) (*Operation, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, ErrEmpty
	}

	var rb requestBody
	batched := body[0] == '['
	if batched {
		var batch []requestBody
		if err := json.Unmarshal(body, &batch); err != nil {
			return nil, ErrNotGraphQL
		}
		if len(batch) == 0 {
			return nil, ErrEmpty
		}
		rb = batch[0]
	} else if err := json.Unmarshal(body, &rb); err != nil {
		return nil, ErrNotGraphQL
	}
	if rb.Query == "" && rb.OperationName == "" {
		return nil, ErrNotGraphQL
	}

	opType, name, fields := scanQuery(rb.Query)
	if rb.OperationName != "" {
		name = rb.OperationName
	}
	return &Operation{Name: name, Type: opType, Fields: fields, IsBatched: batched}, nil
}

// scanQuery extracts the operation type, name and top-level field names
// from a query string by simple scanning.
func scanQuery(query string) (string, string, []string) {
	query = strings.TrimSpace(query)
	opType := "query"
	if query == "" || strings.HasPrefix(query, "{") {
		return opType, "", topLevelFields(query)
	}

	rest := query
	for _, keyword := range []string{"subscription", "mutation", "query"} {
		if strings.HasPrefix(rest, keyword) {
			opType = keyword
			rest = strings.TrimLeftFunc(rest[len(keyword):], unicode.IsSpace)
			break
		}
	}

	i := 0
	for i < len(rest) && isIdentChar(rest[i]) {
		i++
	}
	return opType, rest[:i], topLevelFields(rest[i:])
}

// topLevelFields returns the field names at depth 1 of the first selection
// set. Arguments, directives and fragment spreads are skipped.
func topLevelFields(s string) []string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return nil
	}

	var fields []string
	seen := make(map[string]bool)
	braces, parens := 0, 0
	for i := start; i < len(s); {
		ch := s[i]
		switch {
		case ch == '{':
			braces++
			i++
		case ch == '}':
			braces--
			if braces == 0 {
				return fields
			}
			i++
		case ch == '(':
			parens++
			i++
		case ch == ')':
			if parens > 0 {
				parens--
			}
			i++
		case ch == '#':
			for i < len(s) && s[i] != '\n' {
				i++
			}
		case ch == '@':
			i++
			for i < len(s) && isIdentChar(s[i]) {
				i++
			}
		case strings.HasPrefix(s[i:], "..."):
			i += 3
			i = skipSpace(s, i)
			if strings.HasPrefix(s[i:], "on") && (i+2 == len(s) || !isIdentChar(s[i+2])) {
				i = skipSpace(s, i+2)
			}
			for i < len(s) && isIdentChar(s[i]) {
				i++
			}
		case braces == 1 && parens == 0 && (ch == '_' || unicode.IsLetter(rune(ch))):
			j := i
			for j < len(s) && isIdentChar(s[j]) {
				j++
			}
			name := s[i:j]
			// alias: field
			if k := skipSpace(s, j); k < len(s) && s[k] == ':' {
				i = k + 1
				continue
			}
			if !seen[name] {
				seen[name] = true
				fields = append(fields, name)
			}
			i = j
		default:
			i++
		}
	}
	return fields
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r' || s[i] == ',') {
		i++
	}
	return i
}

func isIdentChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '_'
}

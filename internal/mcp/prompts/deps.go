// Package prompts contains MCP prompt implementations for typefetch.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	NameFormat string // default root type name pattern
	MaskEmail  bool   // email masking is on for every request
	MaskPhone  bool   // phone masking is on for every request
}

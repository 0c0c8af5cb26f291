package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleGenerateModels implements the model generation workflow.
func HandleGenerateModels(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		args := req.Params.Arguments

		language := "typescript"
		baseName := ""
		if args != nil {
			if v, ok := args["language"]; ok && v != "" {
				language = v
			}
			if v, ok := args["base_name"]; ok {
				baseName = v
			}
		}

		var sb strings.Builder

		sb.WriteString("# Generate Typed Models from JSON Samples\n\n")
		sb.WriteString(fmt.Sprintf("You are generating %s models for a JSON payload. ", language))
		sb.WriteString("Types come from typefetch's declaration graph; your job is to render it faithfully, not to guess.\n\n")

		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. **Collect samples** - Gather several JSON documents of the same payload\n")
		sb.WriteString("   - More samples give better optionality: a field missing from any sample becomes optional\n")
		sb.WriteString("   - Include edge cases (empty lists, null values, error variants) if you have them\n\n")
		sb.WriteString("2. **Focus (optional)** - If only a nested value matters, find a jq expression for it\n")
		sb.WriteString("   - Check it with `typefetch_select_preview(samples, expression: \".data.items[]\")`\n")
		sb.WriteString("   - Every value the expression emits becomes one sample\n\n")
		sb.WriteString("3. **Infer** - Call `typefetch_infer_types`\n")

		sb.WriteString("\n```\n")
		if baseName != "" {
			sb.WriteString(fmt.Sprintf("typefetch_infer_types(samples=[...], base_name=%q)\n", baseName))
		} else {
			sb.WriteString("typefetch_infer_types(samples=[...], base_name=\"<resource name or URL>\")\n")
		}
		sb.WriteString("```\n\n")
		sb.WriteString(fmt.Sprintf("   - The root type name follows `%s`; pass `name_format` to change it\n", cfg.NameFormat))
		if cfg.MaskEmail || cfg.MaskPhone {
			sb.WriteString("   - Masking is enabled on this server; example values in outputs are redacted\n")
		}
		sb.WriteString(fmt.Sprintf("\n4. **Render** - Emit one %s type per declaration, in the order given\n\n", language))

		sb.WriteString("## Reading the Graph\n\n")
		sb.WriteString("| Declaration kind | Render as |\n")
		sb.WriteString("|------------------|-----------|\n")
		sb.WriteString("| `record` | struct / interface / class with one member per field |\n")
		sb.WriteString("| `sum` | tagged union, sealed hierarchy, or interface with variants |\n")
		sb.WriteString("| `alias` | type alias for the target |\n\n")
		sb.WriteString("| Reference kind | Meaning |\n")
		sb.WriteString("|----------------|---------|\n")
		sb.WriteString("| `ref` | another declaration, by `name` |\n")
		sb.WriteString("| `array` | list of `elem` |\n")
		sb.WriteString("| `union` | inline union of `members` (primitives and at most one declaration) |\n")
		sb.WriteString("| `unknown` | no information (e.g. only empty arrays were seen); use the language's top type |\n")
		sb.WriteString("| `integer` / `float` | integers widen to float when both were seen |\n\n")

		sb.WriteString("## Rules\n\n")
		sb.WriteString("- `optional: true` means the key may be absent; a `null` member means the key may be present with null\n")
		sb.WriteString("- Keep JSON keys exactly as given; add serialization tags/annotations when the language name differs\n")
		sb.WriteString("- Declarations are ordered so each follows the ones it references; keep that order\n")
		sb.WriteString("- Do not merge or rename declarations; structurally equal types were already deduplicated\n\n")

		sb.WriteString("## Tips\n\n")
		sb.WriteString("- Use `typefetch_field_stats` to spot enums and formats (uuid, iso8601, url, email) worth richer types\n")
		sb.WriteString("- The `schema` output is a JSON Schema 2020-12 document; use it directly for validators\n")
		sb.WriteString("- Results are cached; `resources` in the output point to the full result by digest\n")

		return &sdkmcp.GetPromptResult{
			Description: "Guide for generating typed models from JSON samples",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}

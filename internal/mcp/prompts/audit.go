package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleAuditFields implements the field reliability workflow.
func HandleAuditFields(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		selectExpr := ""
		if args := req.Params.Arguments; args != nil {
			selectExpr = args["select"]
		}

		var sb strings.Builder

		sb.WriteString("# Audit Field Reliability\n\n")
		sb.WriteString("Decide which fields of a JSON payload code can depend on, using statistics over real samples.\n\n")

		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. **Compute stats**\n\n")
		sb.WriteString("```\n")
		if selectExpr != "" {
			sb.WriteString(fmt.Sprintf("typefetch_field_stats(samples=[...], select=%q)\n", selectExpr))
		} else {
			sb.WriteString("typefetch_field_stats(samples=[...])\n")
		}
		sb.WriteString("```\n\n")
		sb.WriteString("2. **Classify each path**\n\n")
		sb.WriteString("| Observation | Verdict |\n")
		sb.WriteString("|-------------|---------|\n")
		sb.WriteString("| `required: true` | Safe to depend on |\n")
		sb.WriteString("| `frequency < 1` | Optional; code must handle absence |\n")
		sb.WriteString("| `nullable: true` | Present but may be null; code must handle null |\n")
		sb.WriteString("| `type` joins several kinds | Mixed kinds across samples; check `examples` |\n")
		sb.WriteString("| `format: enum` | Closed set so far; see `enum_values`, expect new values |\n")
		sb.WriteString("| path ends in `(truncated at depth limit)` | Deeper fields not analyzed; narrow with `select` |\n\n")

		sb.WriteString("3. **Report** - List risky fields first, grouped by verdict, with the sample count behind each verdict\n\n")

		sb.WriteString("## Tips\n\n")
		sb.WriteString("- Frequency is relative to the enclosing object: `items[].id` at 0.5 means half of the items lack `id`\n")
		sb.WriteString("- A low `sample_count` makes every verdict weak; ask for more samples when it is below 5\n")
		sb.WriteString("- With older samples at hand, `typefetch_diff_samples(baseline=[...], candidate=[...])` shows which verdicts changed\n")
		if cfg.MaskEmail || cfg.MaskPhone {
			sb.WriteString("- Masking is enabled on this server; `examples` are redacted, formats are detected on the masked values\n")
		}

		return &sdkmcp.GetPromptResult{
			Description: "Guide for auditing field reliability",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}

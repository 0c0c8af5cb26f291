package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	// Prompt 1: Generate typed models from JSON samples
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "generate_models",
		Description: "RECOMMENDED: Generate typed models (structs, interfaces, classes) from JSON samples. Start here - walks through selection, inference, and rendering of the declaration graph.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "language",
				Description: "Target language for the models (e.g., 'go', 'typescript', 'python', 'kotlin'). Default: typescript",
				Required:    false,
			},
			{
				Name:        "base_name",
				Description: "Name or URL the samples come from, used for the root type (e.g., 'users', 'https://api.example.com/v1/orders')",
				Required:    false,
			},
		},
	}, HandleGenerateModels(cfg))

	// Prompt 2: Audit field reliability
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "audit_fields",
		Description: "Audit which fields of a JSON payload are reliable before depending on them: optional fields, nullable fields, detected formats and enums.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "select",
				Description: "jq expression to focus on a nested value (e.g., '.data.items[]')",
				Required:    false,
			},
		},
	}, HandleAuditFields(cfg))
}

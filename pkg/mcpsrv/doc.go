// Package mcpsrv provides an extensible MCP server for typefetch.
//
// This package exposes a high-level API for creating and running an MCP server
// with the builtin typefetch tools, prompts, and resources. Users can extend
// the server with custom tools, prompts, and resources using functional
// options.
//
// # Basic Usage
//
// Create a server configured from the environment:
//
//	server, err := mcpsrv.NewServer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// # Extension
//
// Add custom tools that reuse the inference pipeline:
//
//	import mcp "github.com/modelcontextprotocol/go-sdk/mcp"
//
//	type NamesInput struct {
//	    Samples []string `json:"samples"`
//	}
//
//	type NamesOutput struct {
//	    Names []string `json:"names,omitzero"`
//	}
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithDepsTool(&mcp.Tool{Name: "declaration_names", Description: "List declaration names"},
//	        func(d *mcpsrv.Deps) func(context.Context, *mcp.CallToolRequest, NamesInput) (*mcp.CallToolResult, NamesOutput, error) {
//	            return func(ctx context.Context, req *mcp.CallToolRequest, in NamesInput) (*mcp.CallToolResult, NamesOutput, error) {
//	                res, err := d.Infer.Infer(ctx, mcpsrv.Samples(in.Samples...), infer.Options{})
//	                if err != nil {
//	                    return nil, NamesOutput{}, err
//	                }
//	                return nil, NamesOutput{Names: res.Graph.Names.Names()}, nil
//	            }
//	        }),
//	)
//
// # Configuration
//
// Configure logging and other options:
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithLogLevel("debug"),
//	    mcpsrv.WithLogFile("/var/log/typefetch.log"),
//	)
package mcpsrv

package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alperekinci99/typefetch-cli/internal/cli/ui"
	"github.com/alperekinci99/typefetch-cli/internal/infer"
	"github.com/alperekinci99/typefetch-cli/internal/naming"
	"github.com/alperekinci99/typefetch-cli/pkg/client"
)

// NewFetchCommand creates the fetch command
func NewFetchCommand(g *globals) *cobra.Command {
	flags := &generateFlags{}
	var (
		rawURL    string
		method    string
		headers   []string
		body      string
		timeoutMs int
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Call an endpoint and infer types from its JSON response",
		Long: `Call a single HTTP endpoint and infer types from its JSON response.

The root type name is derived from the GraphQL operation name when the body is
a GraphQL request, else from the last URL path segment, unless --name is given.
Error statuses are not failures: the error body is inferred like any other
response. YAML responses are converted, one sample per YAML document.`,
		Example: `  # Types for a single endpoint, written to src/types/generated
  typefetch fetch --url https://api.example.com/v1/customers/42 --out src/types/generated

  # POST with headers and a body read from a file
  typefetch fetch --url https://api.example.com/search --method POST \
    --header 'Authorization: Bearer $TOKEN' --body @query.json --name search`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}

			reqBody, err := parseBody(body)
			if err != nil {
				return err
			}

			timeout := g.cfg.FetchTimeout
			if timeoutMs > 0 {
				timeout = time.Duration(timeoutMs) * time.Millisecond
			}
			c := client.New(
				client.WithTimeout(timeout),
				client.WithMaxBodyBytes(int64(g.cfg.MaxSampleBytes)),
			)

			resp, err := c.Fetch(cmd.Context(), &client.Request{
				URL:     rawURL,
				Method:  method,
				Headers: client.ParseHeaders(headers),
				Body:    reqBody,
			})
			if err != nil {
				return err
			}
			if resp.StatusCode >= 400 {
				ui.NewPrinter(cmd.ErrOrStderr(), g.noColor).Warn("%s answered %d; inferring its error body", rawURL, resp.StatusCode)
			}

			rawBase := flags.name
			if rawBase == "" {
				rawBase = naming.FromRequest(rawURL, reqBody)
			}

			gen := &generation{
				g:       g,
				flags:   flags,
				rawBase: rawBase,
				source:  fmt.Sprintf("%s %s", strings.ToUpper(methodOrGet(method)), rawURL),
			}
			return gen.run(cmd.Context(), cmd, infer.Documents(rawURL, resp.Documents))
		},
	}

	cmd.Flags().StringVar(&rawURL, "url", "", "Full URL, including the query string")
	cmd.Flags().StringVar(&method, "method", "GET", "HTTP method")
	cmd.Flags().StringArrayVar(&headers, "header", nil, "Request header as 'Key: Value' (repeatable)")
	cmd.Flags().StringVar(&body, "body", "", "JSON request body, or @path/to/file.json")
	cmd.Flags().IntVar(&timeoutMs, "timeout", 0, "Request timeout in milliseconds (default from FETCH_TIMEOUT_MS)")
	_ = cmd.MarkFlagRequired("url")
	flags.register(cmd)

	return cmd
}

// parseBody reads a JSON string or an @file reference.
func parseBody(input string) ([]byte, error) {
	if input == "" {
		return nil, nil
	}
	data := []byte(input)
	if path, ok := strings.CutPrefix(input, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading body: %w", err)
		}
		data = b
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("request body is not valid JSON")
	}
	return data, nil
}

func methodOrGet(m string) string {
	if m == "" {
		return "GET"
	}
	return m
}

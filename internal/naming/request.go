package naming

import "github.com/alperekinci99/typefetch-cli/pkg/graphql"

// FromRequest derives a base name for a fetched response. GraphQL requests
// are named after their operation, since every operation shares one URL;
// other requests fall back to FromRawURL.
func FromRequest(rawURL string, body []byte) string {
	if len(body) > 0 {
		if op, err := graphql.ParseRequest(body); err == nil {
			if base := op.BaseName(); base != "" {
				return base
			}
		}
	}
	return FromRawURL(rawURL)
}

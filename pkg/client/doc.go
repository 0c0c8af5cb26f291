// Package client fetches JSON samples from live HTTP endpoints.
//
// # Quick Start
//
// Fetch a sample and decode it:
//
//	c := client.New()
//	resp, err := c.Fetch(ctx, &client.Request{URL: "https://api.example.com/v1/users"})
//	if err != nil {
//	    return err
//	}
//	doc, err := shape.Decode(resp.Documents[0])
//
// Use custom configuration:
//
//	c := client.New(
//	    client.WithTimeout(5*time.Second),
//	    client.WithMaxBodyBytes(1<<20),
//	    client.WithHTTPClient(customHTTPClient),
//	)
//
// # Requests
//
// Headers are given as "Key: Value" strings, the way they are typed on a
// command line, and parsed with ParseHeaders. A request body is sent as-is;
// when a body is present on a non-GET request and no Content-Type is set,
// application/json is assumed.
//
// # Responses
//
// Error statuses are not failures: a 404 body is still a JSON sample.
// YAML bodies are converted to JSON, one document per YAML document.
// Fetch fails only when the transport fails, the body exceeds the size
// limit, or the body carries no JSON (NotJSONError, which carries the
// status, a one-line summary such as the HTML page title, and the start of
// the body).
package client

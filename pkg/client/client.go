package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/alperekinci99/typefetch-cli/pkg/contenttype"
	"github.com/alperekinci99/typefetch-cli/pkg/textquery"
)

// Defaults used by New.
const (
	DefaultTimeout      = 15 * time.Second
	DefaultMaxBodyBytes = 10 << 20
	previewBytes        = 200
	acceptHeader        = "application/json, application/yaml;q=0.9, */*;q=0.5"
)

var errEmptyBody = errors.New("empty body")

// Client fetches JSON samples over HTTP.
type Client struct {
	httpClient   *http.Client
	timeout      time.Duration
	maxBodyBytes int64
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithMaxBodyBytes limits the response body size.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) {
		c.maxBodyBytes = n
	}
}

// New creates a new sample client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient:   http.DefaultClient,
		timeout:      DefaultTimeout,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch performs the request and returns the body when it carries JSON.
// YAML bodies are converted; anything else is a *NotJSONError.
func (c *Client) Fetch(ctx context.Context, r *Request) (*Response, error) {
	start := time.Now()
	method := r.method()

	u, err := url.Parse(r.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if len(r.Body) > 0 {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	if len(r.Body) > 0 && method != http.MethodGet && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", acceptHeader)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("HTTP request failed",
			slog.String("method", method),
			slog.String("url", u.Redacted()),
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	data, err := c.readBody(resp.Body)
	if err != nil {
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	category := contenttype.Detect(contentType, data)
	docs, err := documents(category, data)
	if err != nil {
		return nil, &NotJSONError{
			StatusCode:  resp.StatusCode,
			ContentType: contentType,
			Summary:     textquery.Describe(category, data),
			Preview:     preview(data),
			Err:         err,
		}
	}

	slog.Debug("HTTP request completed",
		slog.String("method", method),
		slog.String("url", u.Redacted()),
		slog.Int("status", resp.StatusCode),
		slog.String("category", string(category)),
		slog.Int("bytes", len(data)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return &Response{
		URL:         resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Category:    category,
		Body:        data,
		Documents:   docs,
	}, nil
}

// documents returns the JSON samples carried by a body. JSON bodies are one
// sample; YAML streams yield one sample per document.
func documents(category contenttype.Category, data []byte) ([][]byte, error) {
	if category == contenttype.YAML {
		docs, err := textquery.YAMLToJSON(data)
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			return nil, errEmptyBody
		}
		return docs, nil
	}
	if !json.Valid(data) {
		var probe any
		if err := json.Unmarshal(data, &probe); err != nil {
			return nil, err
		}
		return nil, errEmptyBody
	}
	return [][]byte{data}, nil
}

func (c *Client) readBody(r io.Reader) ([]byte, error) {
	if c.maxBodyBytes <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading response: %w", err)
		}
		return data, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, c.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if int64(len(data)) > c.maxBodyBytes {
		return nil, &BodyTooLargeError{Limit: c.maxBodyBytes}
	}
	return data, nil
}

func preview(data []byte) string {
	if len(data) > previewBytes {
		data = data[:previewBytes]
	}
	return string(data)
}

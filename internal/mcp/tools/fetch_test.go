package tools

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alperekinci99/typefetch-cli/pkg/types"
)

func fetchDeps(t *testing.T) *Deps {
	t.Helper()
	d := testDeps(t)
	d.Config.AllowFetch = true
	return d
}

func TestToolFetchTypes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc", r.Header.Get("X-Token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"items":[{"id":1,"email":"jane@example.com"}]}`)
	}))
	defer srv.Close()

	d := fetchDeps(t)
	_, out, err := ToolFetchTypes(d)(context.Background(), nil, FetchTypesInput{
		URL:       srv.URL + "/v1/customer-orders",
		Headers:   []string{"X-Token: abc"},
		MaskEmail: true,
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, out.StatusCode)
	assert.Equal(t, "application/json", out.ContentType)
	assert.Equal(t, "CustomerOrdersResponse", out.Result.RootName)
	assert.Equal(t, []string{"Item", "CustomerOrdersResponse"}, declarationNames(t, out.Result))
	assert.Equal(t, 1, out.Result.Summary.SampleCount)
	assert.NotEmpty(t, out.Result.Hint)

	snapshot, ok := d.Infer.Lookup(out.Result.Summary.Digest)
	require.True(t, ok)
	encoded, err := types.ToAny(snapshot.Values)
	require.NoError(t, err)
	assert.NotContains(t, encoded.([]any)[0].(map[string]any)["items"].([]any)[0].(map[string]any)["email"], "jane")
}

func TestToolFetchTypes_errorStatusHint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"not found"}`)
	}))
	defer srv.Close()

	_, out, err := ToolFetchTypes(fetchDeps(t))(context.Background(), nil, FetchTypesInput{
		URL:      srv.URL + "/users/42",
		BaseName: "UserError",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, out.StatusCode)
	assert.Equal(t, "UserErrorResponse", out.Result.RootName)
	assert.Contains(t, out.Result.Hint, "404")
}

func TestToolFetchTypes_errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>nope</html>")
	}))
	defer srv.Close()

	ctx := context.Background()

	disabled := testDeps(t)
	disabled.Config.AllowFetch = false
	_, _, err := ToolFetchTypes(disabled)(ctx, nil, FetchTypesInput{URL: srv.URL})
	requireCode(t, err, ErrCodeInvalidInput)

	handler := ToolFetchTypes(fetchDeps(t))

	_, _, err = handler(ctx, nil, FetchTypesInput{})
	requireCode(t, err, ErrCodeInvalidInput)

	_, _, err = handler(ctx, nil, FetchTypesInput{URL: srv.URL})
	requireCode(t, err, ErrCodeMalformedInput)

	_, _, err = handler(ctx, nil, FetchTypesInput{URL: "ftp://example.com"})
	requireCode(t, err, ErrCodeFetchFailed)
}

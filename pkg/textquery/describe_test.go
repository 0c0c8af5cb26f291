package textquery

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alperekinci99/typefetch-cli/pkg/contenttype"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name     string
		category contenttype.Category
		body     string
		want     string
	}{
		{
			name:     "html title",
			category: contenttype.HTML,
			body:     "<html><head><title>502   Bad\n Gateway</title></head><body></body></html>",
			want:     `HTML page "502 Bad Gateway"`,
		},
		{
			name:     "html heading fallback",
			category: contenttype.HTML,
			body:     "<html><body><h1>Sign in</h1></body></html>",
			want:     `HTML page "Sign in"`,
		},
		{
			name:     "html without title",
			category: contenttype.HTML,
			body:     "<html><body><p>x</p></body></html>",
			want:     "HTML page",
		},
		{
			name:     "xml root",
			category: contenttype.XML,
			body:     `<?xml version="1.0"?><feed><entry/></feed>`,
			want:     "XML document <feed>",
		},
		{
			name:     "xml prefixed root",
			category: contenttype.XML,
			body:     `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body/></soap:Envelope>`,
			want:     "XML document <soap:Envelope>",
		},
		{
			name:     "text first line",
			category: contenttype.Text,
			body:     "  Service Unavailable\nretry later",
			want:     `text "Service Unavailable"`,
		},
		{
			name:     "empty",
			category: contenttype.Text,
			body:     "",
			want:     "empty body",
		},
		{
			name:     "binary",
			category: contenttype.Binary,
			body:     "\x00\x01\x02",
			want:     "binary data (3 bytes)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.category, []byte(tt.body)))
		})
	}
}

func TestDescribe_truncatesLongText(t *testing.T) {
	got := Describe(contenttype.Text, []byte(strings.Repeat("é", 200)))
	assert.Equal(t, `text "`+strings.Repeat("é", maxSummaryLen)+`…"`, got)
}

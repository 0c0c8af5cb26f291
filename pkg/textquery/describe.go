package textquery

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/alperekinci99/typefetch-cli/pkg/contenttype"
)

const maxSummaryLen = 80

var rootElement = xpath.MustCompile("/*")

// Describe returns a one-line, human-readable summary of a body that is not
// JSON, e.g. `HTML page "502 Bad Gateway"` or `XML document <feed>`.
func Describe(c contenttype.Category, body []byte) string {
	switch c {
	case contenttype.HTML:
		if title := htmlTitle(body); title != "" {
			return fmt.Sprintf("HTML page %q", title)
		}
		return "HTML page"
	case contenttype.XML:
		if root := xmlRoot(body); root != "" {
			return fmt.Sprintf("XML document <%s>", root)
		}
		return "XML document"
	case contenttype.YAML:
		return "YAML document"
	case contenttype.Binary:
		return fmt.Sprintf("binary data (%d bytes)", len(body))
	default:
		line, _, _ := bytes.Cut(bytes.TrimSpace(body), []byte("\n"))
		if len(line) == 0 {
			return "empty body"
		}
		return fmt.Sprintf("text %q", truncate(string(line)))
	}
}

// htmlTitle returns the page title, or the first heading when there is none.
func htmlTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	for _, sel := range []string{"title", "h1"} {
		if text := strings.Join(strings.Fields(doc.Find(sel).First().Text()), " "); text != "" {
			return truncate(text)
		}
	}
	return ""
}

func xmlRoot(body []byte) string {
	doc, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	root := xmlquery.QuerySelector(doc, rootElement)
	if root == nil {
		return ""
	}
	if root.Prefix != "" {
		return root.Prefix + ":" + root.Data
	}
	return root.Data
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxSummaryLen {
		return s
	}
	r := []rune(s)
	return string(r[:maxSummaryLen]) + "…"
}

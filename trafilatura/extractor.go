// Package trafilatura extracts main content from generated documentation
// HTML, removing boilerplate (nav, footer, sidebar) before conversion.
package trafilatura

import (
	"bytes"
	"strings"

	comphysearch "github.com/comphy-lab/comphy-search"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements comphysearch.ContentExtractor at compile time.
var _ comphysearch.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content region with its
// metadata title.
func (e *Extractor) Extract(rawHTML string) (*comphysearch.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, comphysearch.Errorf(comphysearch.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &comphysearch.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

package comphysearch

import (
	"path"
	"regexp"
	"strings"
	"unicode"
)

// Document is the parsed form of a SourceFile.
type Document struct {
	// Title is the document title. May be empty when the source carries
	// neither a title field/tag nor a usable heading; callers fall back
	// to TitleFromFilename.
	Title string

	// Permalink is an optional frontmatter override for the URL path.
	Permalink string

	// Sections holds the content in document order.
	Sections []Section
}

// Section is a contiguous logical unit of a Document.
type Section struct {
	// Level is the heading level (1-6), or 0 for leading content
	// without a heading.
	Level int

	// Heading is the heading text. Empty for leading content.
	Heading string

	// Anchor is the URL-safe slug of the heading, duplicate-suffixed
	// within the document. Empty when Heading is empty.
	Anchor string

	// Body is the section text until the next heading.
	Body string
}

// Extractor produces a structured document from a source file.
// Files reaching an Extractor are guaranteed to be markdown or HTML;
// malformed input degrades gracefully to whatever text is recoverable.
type Extractor interface {
	Extract(file *SourceFile) (*Document, error)
}

// ExtractResult holds the main content extracted from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content with boilerplate removed.
	ContentHTML string
}

// ContentExtractor extracts main content from HTML pages, removing
// boilerplate (nav, footer, sidebar).
type ContentExtractor interface {
	Extract(html string) (*ExtractResult, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	Convert(html string) (string, error)
}

// SectionSplitter splits markdown into sections at heading boundaries.
type SectionSplitter interface {
	// Split returns the document's sections in order. Content before
	// the first heading becomes a heading-less section.
	Split(markdown string) []Section
}

var datePrefixRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-`)

// TitleFromFilename derives a fallback title from a file path: the base
// name without extension, a leading Jekyll date prefix stripped, hyphens
// and underscores replaced with spaces, and the first rune upper-cased.
func TitleFromFilename(p string) string {
	name := path.Base(p)
	name = strings.TrimSuffix(name, path.Ext(name))
	name = datePrefixRe.ReplaceAllString(name, "")
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

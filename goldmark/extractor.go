package goldmark

import (
	"strings"

	comphysearch "github.com/comphy-lab/comphy-search"
	"gopkg.in/yaml.v3"
)

// Ensure Extractor implements comphysearch.Extractor at compile time.
var _ comphysearch.Extractor = (*Extractor)(nil)

// Extractor parses markdown source files: a leading YAML frontmatter block
// populates the title and permalink, and the retained body is split into
// sections at heading boundaries.
type Extractor struct {
	splitter *Splitter
}

// NewExtractor creates a new markdown Extractor.
func NewExtractor() *Extractor {
	return &Extractor{splitter: NewSplitter()}
}

// frontmatter holds the metadata fields the index cares about; everything
// else in the block is discarded.
type frontmatter struct {
	Title     string `yaml:"title"`
	Permalink string `yaml:"permalink"`
}

// Extract parses a markdown file into a document. Malformed frontmatter
// degrades gracefully: the block is dropped and extraction proceeds on the
// body.
func (e *Extractor) Extract(file *comphysearch.SourceFile) (*comphysearch.Document, error) {
	meta, body := splitFrontmatter(string(file.Content))

	doc := &comphysearch.Document{
		Title:     meta.Title,
		Permalink: meta.Permalink,
		Sections:  e.splitter.Split(body),
	}

	if doc.Title == "" {
		doc.Title = firstHeading(doc.Sections)
	}
	if doc.Title == "" {
		doc.Title = comphysearch.TitleFromFilename(file.RelPath)
	}
	return doc, nil
}

// splitFrontmatter separates a leading YAML frontmatter block (delimited
// by --- lines at the very start) from the document body. Unparseable
// YAML yields empty metadata but still drops the delimited block.
func splitFrontmatter(content string) (frontmatter, string) {
	var meta frontmatter

	if !strings.HasPrefix(content, "---\n") && !strings.HasPrefix(content, "---\r\n") {
		return meta, content
	}

	parts := strings.SplitN(content, "---\n", 3)
	if len(parts) < 3 {
		return meta, content
	}

	// Best effort: a malformed block is dropped, not fatal.
	_ = yaml.Unmarshal([]byte(parts[1]), &meta)
	meta.Title = strings.TrimSpace(meta.Title)
	meta.Permalink = strings.TrimSpace(meta.Permalink)
	return meta, parts[2]
}

// firstHeading returns the first section heading, if any.
func firstHeading(sections []comphysearch.Section) string {
	for _, s := range sections {
		if s.Heading != "" {
			return s.Heading
		}
	}
	return ""
}

// Package goldmark provides markdown extraction built on the goldmark
// parser: frontmatter handling and AST-based section splitting.
package goldmark

import (
	"regexp"
	"strings"

	comphysearch "github.com/comphy-lab/comphy-search"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Ensure Splitter implements comphysearch.SectionSplitter at compile time.
var _ comphysearch.SectionSplitter = (*Splitter)(nil)

// navHeadingRe matches navigation-like headings whose sections carry no
// searchable content.
var navHeadingRe = regexp.MustCompile(`(?i)^(navigation|menu|contents|index)$`)

// htmlTagRe strips markup from raw HTML embedded in markdown.
var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// Splitter splits markdown into sections at heading boundaries using the
// goldmark AST, so headings inside fenced code blocks never split.
type Splitter struct {
	md goldmark.Markdown
}

// NewSplitter creates a new Splitter.
func NewSplitter() *Splitter {
	return &Splitter{md: goldmark.New()}
}

// Split returns the document's sections in order. Content before the first
// heading becomes a heading-less section; navigation-like sections are
// dropped.
func (s *Splitter) Split(markdown string) []comphysearch.Section {
	if strings.TrimSpace(markdown) == "" {
		return nil
	}

	src := []byte(markdown)
	root := s.md.Parser().Parse(text.NewReader(src))

	var sections []comphysearch.Section
	var anchors comphysearch.AnchorSequence
	current := comphysearch.Section{}
	var body []string

	flush := func() {
		current.Body = strings.TrimSpace(strings.Join(body, "\n\n"))
		body = nil
		if current.Heading == "" && current.Body == "" {
			current = comphysearch.Section{}
			return
		}
		if navHeadingRe.MatchString(current.Heading) {
			current = comphysearch.Section{}
			return
		}
		sections = append(sections, current)
		current = comphysearch.Section{}
	}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if heading, ok := n.(*ast.Heading); ok {
			flush()
			title := strings.TrimSpace(blockText(heading, src))
			current = comphysearch.Section{
				Level:   heading.Level,
				Heading: title,
				Anchor:  anchors.Next(title),
			}
			continue
		}
		if txt := strings.TrimSpace(blockText(n, src)); txt != "" {
			body = append(body, txt)
		}
	}
	flush()

	return sections
}

// blockText extracts the plain text of a block node. Raw HTML is reduced
// to its text content.
func blockText(block ast.Node, src []byte) string {
	var sb strings.Builder

	_ = ast.Walk(block, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			// Separate nested blocks (list items, blockquote
			// paragraphs) so their words don't run together.
			if n.Type() == ast.TypeBlock {
				sb.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte('\n')
			}
		case *ast.String:
			sb.Write(t.Value)
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			writeLines(&sb, n, src)
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock:
			var raw strings.Builder
			writeLines(&raw, n, src)
			sb.WriteString(htmlTagRe.ReplaceAllString(raw.String(), " "))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			var raw strings.Builder
			for i := 0; i < t.Segments.Len(); i++ {
				seg := t.Segments.At(i)
				raw.Write(seg.Value(src))
			}
			sb.WriteString(htmlTagRe.ReplaceAllString(raw.String(), " "))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return sb.String()
}

// writeLines appends a block node's raw source lines.
func writeLines(sb *strings.Builder, n ast.Node, src []byte) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
}

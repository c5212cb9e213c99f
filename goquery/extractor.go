// Package goquery provides the HTML source-file extractor. It handles the
// main site's Jekyll pages directly (titles, meta-refresh redirects,
// target-section blocks) and delegates generated documentation pages to
// the content-extraction chain: boilerplate removal, markdown conversion,
// and the shared section splitter.
package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	comphysearch "github.com/comphy-lab/comphy-search"
)

// Ensure Extractor implements comphysearch.Extractor at compile time.
var _ comphysearch.Extractor = (*Extractor)(nil)

// htmlTagRe strips markup for the last-resort text recovery path.
var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// Extractor parses HTML source files into documents.
type Extractor struct {
	// Content extracts the main content region (trafilatura).
	Content comphysearch.ContentExtractor

	// Converter turns content HTML into markdown (html-to-markdown).
	Converter comphysearch.Converter

	// Splitter segments the markdown into sections (goldmark).
	Splitter comphysearch.SectionSplitter
}

// NewExtractor creates an HTML Extractor from its collaborators.
func NewExtractor(content comphysearch.ContentExtractor, converter comphysearch.Converter, splitter comphysearch.SectionSplitter) *Extractor {
	return &Extractor{Content: content, Converter: converter, Splitter: splitter}
}

// Extract parses an HTML file into a document. Redirect stubs yield an
// empty document; malformed markup degrades to whatever text is
// recoverable rather than failing the file.
func (e *Extractor) Extract(file *comphysearch.SourceFile) (*comphysearch.Document, error) {
	rawHTML := string(file.Content)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		// Parser rejected the input outright; recover plain text.
		return e.recovered(file, rawHTML), nil
	}

	// Redirect stubs carry no content of their own.
	if isRedirect(doc) {
		return &comphysearch.Document{}, nil
	}

	out := &comphysearch.Document{Title: pageTitle(doc)}

	// Jekyll landing pages mark their anchored blocks with
	// target-section; each becomes one section keyed by its element id.
	if targets := doc.Find("section.target-section[id], div.target-section[id]"); targets.Length() > 0 {
		out.Sections = targetSections(targets)
	} else {
		out.Sections = e.contentSections(doc, rawHTML)
	}

	if out.Title == "" {
		out.Title = firstHeading(out.Sections)
	}
	if out.Title == "" {
		out.Title = comphysearch.TitleFromFilename(file.RelPath)
	}
	return out, nil
}

// contentSections runs the extraction chain on a generic HTML page,
// falling back one step at a time when a stage fails.
func (e *Extractor) contentSections(doc *goquery.Document, rawHTML string) []comphysearch.Section {
	contentHTML := rawHTML

	if res, err := e.Content.Extract(rawHTML); err == nil && res.ContentHTML != "" {
		contentHTML = res.ContentHTML
	} else if sel := mainContent(doc); sel != nil {
		if h, err := goquery.OuterHtml(sel); err == nil {
			contentHTML = h
		}
	}

	markdown, err := e.Converter.Convert(contentHTML)
	if err != nil {
		// Conversion failed; index the stripped text as one section.
		if text := collapse(htmlTagRe.ReplaceAllString(contentHTML, " ")); text != "" {
			return []comphysearch.Section{{Body: text}}
		}
		return nil
	}
	return e.Splitter.Split(markdown)
}

// recovered builds a best-effort single-section document from unparseable
// markup.
func (e *Extractor) recovered(file *comphysearch.SourceFile, rawHTML string) *comphysearch.Document {
	out := &comphysearch.Document{Title: comphysearch.TitleFromFilename(file.RelPath)}
	if text := collapse(htmlTagRe.ReplaceAllString(rawHTML, " ")); text != "" {
		out.Sections = []comphysearch.Section{{Body: text}}
	}
	return out
}

// isRedirect reports whether the page is a meta-refresh redirect stub.
func isRedirect(doc *goquery.Document) bool {
	found := false
	doc.Find("meta[http-equiv]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if v, _ := sel.Attr("http-equiv"); strings.EqualFold(v, "refresh") {
			found = true
			return false
		}
		return true
	})
	return found
}

// pageTitle extracts the title from the first <title> element, falling
// back to the first <h1>.
func pageTitle(doc *goquery.Document) string {
	if t := collapse(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return collapse(doc.Find("h1").First().Text())
}

// targetSections builds one section per Jekyll target-section block.
func targetSections(targets *goquery.Selection) []comphysearch.Section {
	var sections []comphysearch.Section
	targets.Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("id")
		if id == "" {
			return
		}

		heading := collapse(sel.Find("h1, h2, h3, h4, h5, h6").First().Text())
		if heading == "" {
			heading = comphysearch.TitleFromFilename(id)
		}

		clone := sel.Clone()
		clone.Find("script, style, noscript").Remove()
		body := collapse(clone.Text())
		if body == "" {
			return
		}

		sections = append(sections, comphysearch.Section{
			Level:   2,
			Heading: heading,
			Anchor:  id,
			Body:    body,
		})
	})
	return sections
}

// mainContent selects the page's main content container the way the site
// templates structure it, ending at <body>.
func mainContent(doc *goquery.Document) *goquery.Selection {
	for _, selector := range []string{"main", "article", "div.content", "div#content", "body"} {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			clone := sel.Clone()
			clone.Find("script, style, noscript, nav, footer").Remove()
			return clone
		}
	}
	return nil
}

// collapse normalizes whitespace runs to single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
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

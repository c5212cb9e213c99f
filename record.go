package comphysearch

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// RecordType distinguishes whole-page records from section records.
type RecordType string

// Record types.
const (
	TypePage    RecordType = "page"
	TypeSection RecordType = "section"
)

// Record priorities. The consumer orders results by this two-level flag.
const (
	PriorityPage    = 2
	PrioritySection = 1
)

// DefaultPreviewBound is the maximum length of a record's content preview.
const DefaultPreviewBound = 300

// IndexRecord is the unit persisted to the output index. Records are
// immutable once written and exist only inside the output collection.
type IndexRecord struct {
	Title    string     `json:"title"`
	Content  string     `json:"content"`
	URL      string     `json:"url"`
	Type     RecordType `json:"type"`
	Priority int        `json:"priority"`
}

// Validate returns an error if the record violates index invariants.
func (r *IndexRecord) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "index record %q: URL required", r.Title)
	}
	return nil
}

// Index is the root of the output artifact: an ordered sequence of records
// in deterministic traversal order.
type Index []*IndexRecord

// IndexWriter persists the index artifact as a whole-file replacement.
type IndexWriter interface {
	// Write serializes the index to path and reports whether the
	// artifact's bytes changed relative to what was previously there.
	// The publishing collaborator only commits when changed is true.
	Write(path string, index Index) (changed bool, err error)
}

// NewRecord assembles an index record from a document, one of its chunks,
// and the resolved URL. The content preview is truncated at a word
// boundary; the title is the document title for page-level chunks and the
// section heading for section-level chunks, unless the document title
// already reflects it.
func NewRecord(doc *Document, chunk Chunk, url string, previewBound int) *IndexRecord {
	if previewBound <= 0 {
		previewBound = DefaultPreviewBound
	}

	title := doc.Title
	if !chunk.PageLevel && chunk.Section != nil && chunk.Section.Heading != "" {
		if !strings.EqualFold(doc.Title, chunk.Section.Heading) {
			title = chunk.Section.Heading
		}
	}

	recordType := TypeSection
	priority := PrioritySection
	if chunk.PageLevel {
		recordType = TypePage
		priority = PriorityPage
	}

	return &IndexRecord{
		Title:    title,
		Content:  TruncateAtWord(chunk.Text, previewBound),
		URL:      url,
		Type:     recordType,
		Priority: priority,
	}
}

// TruncateAtWord shortens s to at most limit characters without cutting
// inside a word: it backs off to the last whitespace boundary before the
// limit. A leading word longer than the limit is cut hard rather than
// returned oversized.
func TruncateAtWord(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}

	cut := -1
	for i, r := range s {
		if i > limit {
			break
		}
		if unicode.IsSpace(r) {
			cut = i
		}
	}
	if cut <= 0 {
		// Back off to a rune boundary so the cut never yields
		// invalid UTF-8.
		for limit > 0 && !utf8.RuneStart(s[limit]) {
			limit--
		}
		return s[:limit]
	}
	return strings.TrimRightFunc(s[:cut], unicode.IsSpace)
}

package comphysearch

import (
	"regexp"
	"strings"
)

// DefaultChunkBound is the target maximum chunk length in characters.
const DefaultChunkBound = 300

// Chunk is a bounded-length span of text derived from one Section.
type Chunk struct {
	// Text is the chunk content. Length is at most the chunk bound
	// unless a single paragraph alone exceeds it.
	Text string

	// Section points back to the originating section for URL and title
	// purposes. Lookup-only.
	Section *Section

	// PageLevel marks the first chunk of a document, which becomes the
	// whole-page index record.
	PageLevel bool
}

var paragraphRe = regexp.MustCompile(`\n\s*\n`)

// ChunkDocument splits a document's sections into bounded chunks. Sections
// whose body fits the bound emit exactly one chunk; longer bodies are split
// at paragraph boundaries, greedily packing consecutive paragraphs and
// never splitting inside a paragraph. Empty sections emit nothing.
//
// The document's first chunk is additionally emitted as the page-level
// chunk, so every document with content yields exactly one whole-page
// entry; when that chunk's section carries a heading it still gets its own
// deep-linkable section chunk.
func ChunkDocument(doc *Document, bound int) []Chunk {
	if bound <= 0 {
		bound = DefaultChunkBound
	}

	var chunks []Chunk
	for i := range doc.Sections {
		section := &doc.Sections[i]
		body := normalizeWhitespaceKeepParagraphs(section.Body)
		if body == "" {
			continue
		}

		for _, text := range packParagraphs(body, bound) {
			if len(chunks) == 0 {
				chunks = append(chunks, Chunk{Text: text, Section: section, PageLevel: true})
				if section.Heading == "" {
					continue
				}
			}
			chunks = append(chunks, Chunk{Text: text, Section: section})
		}
	}
	return chunks
}

// packParagraphs greedily packs paragraphs into spans of at most bound
// characters, joined with single spaces. A single paragraph longer than
// the bound is emitted whole.
func packParagraphs(body string, bound int) []string {
	paragraphs := paragraphRe.Split(body, -1)
	var packed []string
	var current []string
	length := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		packed = append(packed, strings.Join(current, " "))
		current = nil
		length = 0
	}

	for _, para := range paragraphs {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		// +1 for the joining space.
		if length > 0 && length+1+len(para) > bound {
			flush()
		}
		current = append(current, para)
		length += len(para)
		if len(current) > 1 {
			length++
		}
	}
	flush()

	return packed
}

// normalizeWhitespaceKeepParagraphs collapses runs of spaces and single
// newlines but preserves blank-line paragraph boundaries, so the chunker
// can still split at them.
func normalizeWhitespaceKeepParagraphs(s string) string {
	paragraphs := paragraphRe.Split(s, -1)
	kept := make([]string, 0, len(paragraphs))
	for _, para := range paragraphs {
		para = strings.Join(strings.Fields(para), " ")
		if para != "" {
			kept = append(kept, para)
		}
	}
	return strings.Join(kept, "\n\n")
}

package comphysearch_test

import (
	"strings"
	"testing"

	comphysearch "github.com/comphy-lab/comphy-search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkDocument(t *testing.T) {
	t.Parallel()

	t.Run("headed section yields a page chunk and a section chunk", func(t *testing.T) {
		t.Parallel()

		doc := &comphysearch.Document{
			Title: "Getting Started",
			Sections: []comphysearch.Section{
				{Level: 2, Heading: "Install", Anchor: "install", Body: "Run the installer."},
			},
		}

		chunks := comphysearch.ChunkDocument(doc, 300)

		require.Len(t, chunks, 2)
		assert.Equal(t, "Run the installer.", chunks[0].Text)
		assert.True(t, chunks[0].PageLevel)
		assert.Equal(t, "Run the installer.", chunks[1].Text)
		assert.False(t, chunks[1].PageLevel)
		assert.Same(t, &doc.Sections[0], chunks[1].Section)
	})

	t.Run("heading-less leading content yields only the page chunk", func(t *testing.T) {
		t.Parallel()

		doc := &comphysearch.Document{
			Sections: []comphysearch.Section{
				{Level: 0, Body: "Intro text."},
				{Level: 2, Heading: "Install", Anchor: "install", Body: "Run the installer."},
			},
		}

		chunks := comphysearch.ChunkDocument(doc, 300)

		require.Len(t, chunks, 2)
		assert.True(t, chunks[0].PageLevel)
		assert.Equal(t, "Intro text.", chunks[0].Text)
		assert.False(t, chunks[1].PageLevel)
		assert.Equal(t, "Run the installer.", chunks[1].Text)
	})

	t.Run("long section splits at paragraph boundaries", func(t *testing.T) {
		t.Parallel()

		// Four paragraphs of 221 characters each: no pair fits in 300
		// together, so each becomes its own chunk.
		para := strings.TrimSpace(strings.Repeat("lorem ", 37))
		require.Len(t, para, 221)

		body := strings.Join([]string{para, para, para, para}, "\n\n")
		doc := &comphysearch.Document{
			Sections: []comphysearch.Section{
				{Level: 0, Body: body},
			},
		}

		chunks := comphysearch.ChunkDocument(doc, 300)

		require.Len(t, chunks, 4)
		for _, chunk := range chunks {
			assert.Equal(t, para, chunk.Text)
			assert.LessOrEqual(t, len(chunk.Text), 300)
		}
		assert.True(t, chunks[0].PageLevel)
		assert.False(t, chunks[1].PageLevel)
	})

	t.Run("packs consecutive short paragraphs into one chunk", func(t *testing.T) {
		t.Parallel()

		doc := &comphysearch.Document{
			Sections: []comphysearch.Section{
				{Level: 0, Body: "First.\n\nSecond.\n\nThird."},
			},
		}

		chunks := comphysearch.ChunkDocument(doc, 300)

		require.Len(t, chunks, 1)
		assert.Equal(t, "First. Second. Third.", chunks[0].Text)
	})

	t.Run("never splits inside a paragraph", func(t *testing.T) {
		t.Parallel()

		para := strings.TrimSpace(strings.Repeat("word ", 80))
		doc := &comphysearch.Document{
			Sections: []comphysearch.Section{
				{Level: 0, Body: para},
			},
		}

		chunks := comphysearch.ChunkDocument(doc, 300)

		require.Len(t, chunks, 1)
		assert.Equal(t, para, chunks[0].Text)
		assert.Greater(t, len(chunks[0].Text), 300)
	})

	t.Run("empty sections emit nothing", func(t *testing.T) {
		t.Parallel()

		doc := &comphysearch.Document{
			Sections: []comphysearch.Section{
				{Level: 2, Heading: "Empty", Anchor: "empty", Body: "   \n\n  "},
				{Level: 2, Heading: "Full", Anchor: "full", Body: "Has content."},
			},
		}

		chunks := comphysearch.ChunkDocument(doc, 300)

		require.Len(t, chunks, 2)
		assert.True(t, chunks[0].PageLevel)
		assert.Equal(t, "Full", chunks[0].Section.Heading)
		assert.Equal(t, "Has content.", chunks[1].Text)
	})

	t.Run("collapses interior whitespace", func(t *testing.T) {
		t.Parallel()

		doc := &comphysearch.Document{
			Sections: []comphysearch.Section{
				{Level: 0, Body: "line one\nline  two\n\nnext   para"},
			},
		}

		chunks := comphysearch.ChunkDocument(doc, 300)

		require.Len(t, chunks, 1)
		assert.Equal(t, "line one line two next para", chunks[0].Text)
	})

	t.Run("zero bound falls back to the default", func(t *testing.T) {
		t.Parallel()

		doc := &comphysearch.Document{
			Sections: []comphysearch.Section{
				{Level: 0, Body: "Short."},
			},
		}

		chunks := comphysearch.ChunkDocument(doc, 0)

		require.Len(t, chunks, 1)
		assert.Equal(t, "Short.", chunks[0].Text)
	})
}

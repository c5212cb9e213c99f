package index_test

import (
	"context"
	"testing"

	comphysearch "github.com/comphy-lab/comphy-search"
	"github.com/comphy-lab/comphy-search/index"
	"github.com/comphy-lab/comphy-search/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(repos ...*comphysearch.Repository) *comphysearch.Config {
	return &comphysearch.Config{
		OutputPath:   "search_db.json",
		StagingDir:   ".staging",
		ChunkBound:   comphysearch.DefaultChunkBound,
		PreviewBound: comphysearch.DefaultPreviewBound,
		Repositories: repos,
	}
}

func docsRepository(name string) *comphysearch.Repository {
	return &comphysearch.Repository{
		Name:      name,
		RemoteURL: "https://github.com/comphy-lab/" + name,
		LocalPath: name,
		BaseURL:   "https://comphy-lab.org/" + name,
		Kind:      comphysearch.KindDocs,
	}
}

func markdownFile(repo *comphysearch.Repository, relPath, content string) *comphysearch.SourceFile {
	return &comphysearch.SourceFile{
		Path:       "/staging/" + repo.LocalPath + "/" + relPath,
		RelPath:    relPath,
		Repository: repo,
		Content:    []byte(content),
	}
}

// staticExtractor returns the same document for every file.
func staticExtractor(doc *comphysearch.Document) *mock.Extractor {
	return &mock.Extractor{
		ExtractFn: func(*comphysearch.SourceFile) (*comphysearch.Document, error) {
			return doc, nil
		},
	}
}

// capturingWriter records the written index.
func capturingWriter(got *comphysearch.Index) *mock.IndexWriter {
	return &mock.IndexWriter{
		WriteFn: func(_ string, index comphysearch.Index) (bool, error) {
			*got = index
			return true, nil
		},
	}
}

func okAcquirer() *mock.Acquirer {
	return &mock.Acquirer{
		EnsureLocalFn: func(_ context.Context, repo *comphysearch.Repository) (string, error) {
			return "/staging/" + repo.LocalPath, nil
		},
	}
}

func TestPipeline_Run(t *testing.T) {
	t.Parallel()

	t.Run("builds page and section records", func(t *testing.T) {
		t.Parallel()

		repo := docsRepository("soapy")
		doc := &comphysearch.Document{
			Title: "Getting Started",
			Sections: []comphysearch.Section{
				{Level: 2, Heading: "Install", Anchor: "install", Body: "Run the installer."},
				{Level: 2, Heading: "Usage", Anchor: "usage", Body: "Call the binary."},
			},
		}

		var got comphysearch.Index
		p := &index.Pipeline{
			Config:   testConfig(repo),
			Acquirer: okAcquirer(),
			Lister: &mock.Lister{
				ListFn: func(r *comphysearch.Repository, _ string) ([]*comphysearch.SourceFile, error) {
					return []*comphysearch.SourceFile{markdownFile(r, "docs/start.md", "ignored")}, nil
				},
			},
			Markdown: staticExtractor(doc),
			Writer:   capturingWriter(&got),
		}

		result, err := p.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 3, result.Records)
		assert.Equal(t, 1, result.Files)
		assert.True(t, result.Changed)
		assert.False(t, result.Partial())

		require.Len(t, got, 3)
		assert.Equal(t, "Getting Started", got[0].Title)
		assert.Equal(t, comphysearch.TypePage, got[0].Type)
		assert.Equal(t, comphysearch.PriorityPage, got[0].Priority)
		assert.Equal(t, "https://comphy-lab.org/soapy/start", got[0].URL)
		assert.Equal(t, "Install", got[1].Title)
		assert.Equal(t, comphysearch.TypeSection, got[1].Type)
		assert.Equal(t, comphysearch.PrioritySection, got[1].Priority)
		assert.Equal(t, "https://comphy-lab.org/soapy/start#install", got[1].URL)
		assert.Equal(t, "Usage", got[2].Title)
		assert.Equal(t, "https://comphy-lab.org/soapy/start#usage", got[2].URL)
	})

	t.Run("a failed repository is skipped, the rest still index", func(t *testing.T) {
		t.Parallel()

		repoA := docsRepository("alpha")
		repoB := docsRepository("beta")
		repoC := docsRepository("gamma")

		doc := &comphysearch.Document{
			Title:    "Page",
			Sections: []comphysearch.Section{{Level: 2, Heading: "S", Anchor: "s", Body: "Text."}},
		}

		var got comphysearch.Index
		p := &index.Pipeline{
			Config: testConfig(repoA, repoB, repoC),
			Acquirer: &mock.Acquirer{
				EnsureLocalFn: func(_ context.Context, repo *comphysearch.Repository) (string, error) {
					if repo.Name == "beta" {
						return "", comphysearch.Errorf(comphysearch.EUNAVAILABLE, "remote unreachable")
					}
					return "/staging/" + repo.LocalPath, nil
				},
			},
			Lister: &mock.Lister{
				ListFn: func(r *comphysearch.Repository, _ string) ([]*comphysearch.SourceFile, error) {
					return []*comphysearch.SourceFile{markdownFile(r, "docs/"+r.Name+".md", "")}, nil
				},
			},
			Markdown: staticExtractor(doc),
			Writer:   capturingWriter(&got),
		}

		result, err := p.Run(context.Background())

		require.NoError(t, err)
		assert.True(t, result.Partial())
		require.Len(t, result.SkippedRepositories, 1)
		assert.Equal(t, "beta", result.SkippedRepositories[0].Repository)
		assert.Equal(t, "remote unreachable", result.SkippedRepositories[0].Reason)
		assert.Equal(t, 2, result.Files)
		assert.NotEmpty(t, got)
	})

	t.Run("output order follows the registry", func(t *testing.T) {
		t.Parallel()

		repoA := docsRepository("alpha")
		repoB := docsRepository("beta")

		var got comphysearch.Index
		p := &index.Pipeline{
			Config:   testConfig(repoA, repoB),
			Acquirer: okAcquirer(),
			Lister: &mock.Lister{
				ListFn: func(r *comphysearch.Repository, _ string) ([]*comphysearch.SourceFile, error) {
					return []*comphysearch.SourceFile{markdownFile(r, "docs/page.md", "")}, nil
				},
			},
			Markdown: &mock.Extractor{
				ExtractFn: func(file *comphysearch.SourceFile) (*comphysearch.Document, error) {
					return &comphysearch.Document{
						Title:    file.Repository.Name,
						Sections: []comphysearch.Section{{Body: "Content of " + file.Repository.Name + "."}},
					}, nil
				},
			},
			Writer: capturingWriter(&got),
		}

		_, err := p.Run(context.Background())

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "alpha", got[0].Title)
		assert.Equal(t, "beta", got[1].Title)
	})

	t.Run("duplicate records keep only the first occurrence", func(t *testing.T) {
		t.Parallel()

		repo := docsRepository("soapy")
		doc := &comphysearch.Document{
			Title:    "Page",
			Sections: []comphysearch.Section{{Body: "Same text."}},
		}

		var got comphysearch.Index
		p := &index.Pipeline{
			Config:   testConfig(repo),
			Acquirer: okAcquirer(),
			Lister: &mock.Lister{
				ListFn: func(r *comphysearch.Repository, _ string) ([]*comphysearch.SourceFile, error) {
					// Two files resolving to the same record identity.
					return []*comphysearch.SourceFile{
						markdownFile(r, "docs/page.md", ""),
						markdownFile(r, "docs/page.html", ""),
					}, nil
				},
			},
			Markdown: staticExtractor(doc),
			HTML:     staticExtractor(doc),
			Writer:   capturingWriter(&got),
		}

		result, err := p.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, result.Files)
		assert.Equal(t, 1, result.Records)
		require.Len(t, got, 1)
	})

	t.Run("HTML files use the HTML extractor", func(t *testing.T) {
		t.Parallel()

		repo := docsRepository("soapy")
		var htmlCalls, mdCalls int

		var got comphysearch.Index
		p := &index.Pipeline{
			Config:   testConfig(repo),
			Acquirer: okAcquirer(),
			Lister: &mock.Lister{
				ListFn: func(r *comphysearch.Repository, _ string) ([]*comphysearch.SourceFile, error) {
					return []*comphysearch.SourceFile{
						markdownFile(r, "docs/a.md", ""),
						markdownFile(r, "docs/b.html", ""),
					}, nil
				},
			},
			Markdown: &mock.Extractor{
				ExtractFn: func(*comphysearch.SourceFile) (*comphysearch.Document, error) {
					mdCalls++
					return &comphysearch.Document{Title: "A", Sections: []comphysearch.Section{{Body: "md"}}}, nil
				},
			},
			HTML: &mock.Extractor{
				ExtractFn: func(*comphysearch.SourceFile) (*comphysearch.Document, error) {
					htmlCalls++
					return &comphysearch.Document{Title: "B", Sections: []comphysearch.Section{{Body: "html"}}}, nil
				},
			},
			Writer: capturingWriter(&got),
		}

		_, err := p.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, mdCalls)
		assert.Equal(t, 1, htmlCalls)
	})

	t.Run("a failed file is skipped, the rest of the repository still indexes", func(t *testing.T) {
		t.Parallel()

		repo := docsRepository("soapy")

		var got comphysearch.Index
		p := &index.Pipeline{
			Config:   testConfig(repo),
			Acquirer: okAcquirer(),
			Lister: &mock.Lister{
				ListFn: func(r *comphysearch.Repository, _ string) ([]*comphysearch.SourceFile, error) {
					return []*comphysearch.SourceFile{
						markdownFile(r, "docs/bad.md", ""),
						markdownFile(r, "docs/good.md", ""),
					}, nil
				},
			},
			Markdown: &mock.Extractor{
				ExtractFn: func(file *comphysearch.SourceFile) (*comphysearch.Document, error) {
					if file.RelPath == "docs/bad.md" {
						return nil, comphysearch.Errorf(comphysearch.EINTERNAL, "extractor crashed")
					}
					return &comphysearch.Document{Title: "Good", Sections: []comphysearch.Section{{Body: "Fine."}}}, nil
				},
			},
			Writer: capturingWriter(&got),
		}

		result, err := p.Run(context.Background())

		require.NoError(t, err)
		assert.True(t, result.Partial())
		require.Len(t, result.SkippedFiles, 1)
		assert.Equal(t, "docs/bad.md", result.SkippedFiles[0].Path)
		assert.Equal(t, 1, result.Files)
		require.Len(t, got, 1)
	})

	t.Run("empty documents contribute nothing but are counted", func(t *testing.T) {
		t.Parallel()

		repo := docsRepository("soapy")

		var got comphysearch.Index
		p := &index.Pipeline{
			Config:   testConfig(repo),
			Acquirer: okAcquirer(),
			Lister: &mock.Lister{
				ListFn: func(r *comphysearch.Repository, _ string) ([]*comphysearch.SourceFile, error) {
					return []*comphysearch.SourceFile{markdownFile(r, "docs/redirect.md", "")}, nil
				},
			},
			Markdown: staticExtractor(&comphysearch.Document{}),
			Writer:   capturingWriter(&got),
		}

		result, err := p.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, result.Files)
		assert.Equal(t, 0, result.Records)
		assert.Empty(t, got)
	})

	t.Run("invalid configuration aborts before acquisition", func(t *testing.T) {
		t.Parallel()

		acquired := false
		p := &index.Pipeline{
			Config: &comphysearch.Config{},
			Acquirer: &mock.Acquirer{
				EnsureLocalFn: func(context.Context, *comphysearch.Repository) (string, error) {
					acquired = true
					return "", nil
				},
			},
		}

		_, err := p.Run(context.Background())

		require.Error(t, err)
		assert.Equal(t, comphysearch.EINVALID, comphysearch.ErrorCode(err))
		assert.False(t, acquired)
	})

	t.Run("cancellation stops the run", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p := &index.Pipeline{
			Config:   testConfig(docsRepository("soapy")),
			Acquirer: okAcquirer(),
		}

		_, err := p.Run(ctx)

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("reports progress events", func(t *testing.T) {
		t.Parallel()

		repo := docsRepository("soapy")
		doc := &comphysearch.Document{Title: "P", Sections: []comphysearch.Section{{Body: "Text."}}}

		var events []index.ProgressType
		var got comphysearch.Index
		p := &index.Pipeline{
			Config:   testConfig(repo),
			Acquirer: okAcquirer(),
			Lister: &mock.Lister{
				ListFn: func(r *comphysearch.Repository, _ string) ([]*comphysearch.SourceFile, error) {
					return []*comphysearch.SourceFile{markdownFile(r, "docs/p.md", "")}, nil
				},
			},
			Markdown: staticExtractor(doc),
			Writer:   capturingWriter(&got),
			Progress: func(event index.ProgressEvent) {
				events = append(events, event.Type)
			},
		}

		_, err := p.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []index.ProgressType{
			index.ProgressRepository,
			index.ProgressFile,
			index.ProgressFinished,
		}, events)
	})
}

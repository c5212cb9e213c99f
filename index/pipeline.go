// Package index provides the pipeline driver: it walks the repository
// registry in order, acquires each working copy, extracts and chunks every
// qualifying file, resolves URLs, and assembles the deduplicated search
// index.
package index

import (
	"context"
	"log/slog"

	"github.com/cespare/xxhash/v2"
	comphysearch "github.com/comphy-lab/comphy-search"
)

// ProgressType indicates the type of progress event.
type ProgressType int

// Progress event types.
const (
	// ProgressRepository fires when a repository's files are listed.
	ProgressRepository ProgressType = iota

	// ProgressFile fires after each file is processed.
	ProgressFile

	// ProgressSkipped fires when a repository or file is skipped.
	ProgressSkipped

	// ProgressFinished fires once the index is written.
	ProgressFinished
)

// ProgressEvent reports pipeline progress.
type ProgressEvent struct {
	Type       ProgressType
	Repository string
	Path       string
	Completed  int
	Total      int
	Err        error
}

// ProgressFunc is a callback for reporting pipeline progress.
type ProgressFunc func(event ProgressEvent)

// Skip records why a repository or file contributed nothing to the index.
type Skip struct {
	Repository string
	Path       string
	Reason     string
}

// Result holds the outcome of a pipeline run.
type Result struct {
	// Records is the number of index records written.
	Records int

	// Files is the number of source files processed.
	Files int

	// Changed reports whether the output artifact's bytes changed.
	Changed bool

	// SkippedRepositories lists repositories that failed acquisition or
	// listing. Their contribution to the index is simply empty.
	SkippedRepositories []Skip

	// SkippedFiles lists files whose extraction failed outright.
	SkippedFiles []Skip
}

// Partial reports whether any repository or file was skipped.
func (r *Result) Partial() bool {
	return len(r.SkippedRepositories) > 0 || len(r.SkippedFiles) > 0
}

// Pipeline orchestrates one index build. All collaborators are injected;
// the pipeline itself holds no state across runs.
type Pipeline struct {
	Config   *comphysearch.Config
	Acquirer comphysearch.Acquirer
	Lister   comphysearch.Lister
	Markdown comphysearch.Extractor
	HTML     comphysearch.Extractor
	Writer   comphysearch.IndexWriter
	Logger   *slog.Logger
	Progress ProgressFunc
}

// Run builds and writes the search index. Repository- and file-scoped
// failures are isolated and recorded in the Result; only configuration
// errors are fatal and abort before any acquisition. The output artifact
// is written even when the index is partial.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}

	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var index comphysearch.Index
	seen := make(map[uint64]bool)
	result := &Result{}

	for _, repo := range p.Config.Repositories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		root, err := p.Acquirer.EnsureLocal(ctx, repo)
		if err != nil {
			p.skipRepository(result, repo.Name, err)
			continue
		}

		files, err := p.Lister.List(repo, root)
		if err != nil {
			p.skipRepository(result, repo.Name, err)
			continue
		}

		p.notify(ProgressEvent{
			Type:       ProgressRepository,
			Repository: repo.Name,
			Total:      len(files),
		})

		for i, file := range files {
			records, err := p.processFile(file)
			if err != nil {
				result.SkippedFiles = append(result.SkippedFiles, Skip{
					Repository: repo.Name,
					Path:       file.RelPath,
					Reason:     comphysearch.ErrorMessage(err),
				})
				p.notify(ProgressEvent{
					Type:       ProgressSkipped,
					Repository: repo.Name,
					Path:       file.RelPath,
					Err:        err,
				})
				continue
			}

			result.Files++
			for _, record := range records {
				key := recordKey(record)
				if seen[key] {
					continue
				}
				seen[key] = true
				index = append(index, record)
			}

			p.notify(ProgressEvent{
				Type:       ProgressFile,
				Repository: repo.Name,
				Path:       file.RelPath,
				Completed:  i + 1,
				Total:      len(files),
			})
		}
	}

	changed, err := p.Writer.Write(p.Config.OutputPath, index)
	if err != nil {
		return nil, err
	}

	result.Records = len(index)
	result.Changed = changed

	logger.Info("index written",
		"path", p.Config.OutputPath,
		"records", result.Records,
		"files", result.Files,
		"changed", result.Changed,
		"skipped_repositories", len(result.SkippedRepositories),
		"skipped_files", len(result.SkippedFiles),
	)

	p.notify(ProgressEvent{Type: ProgressFinished})
	return result, nil
}

// processFile extracts, chunks, and assembles the records of one file.
func (p *Pipeline) processFile(file *comphysearch.SourceFile) ([]*comphysearch.IndexRecord, error) {
	extractor := p.Markdown
	if file.IsHTML() {
		extractor = p.HTML
	}

	doc, err := extractor.Extract(file)
	if err != nil {
		return nil, err
	}

	chunks := comphysearch.ChunkDocument(doc, p.Config.ChunkBound)

	records := make([]*comphysearch.IndexRecord, 0, len(chunks))
	for _, chunk := range chunks {
		// Page-level records link to the page itself; section-level
		// records deep-link to their heading.
		section := chunk.Section
		if chunk.PageLevel {
			section = nil
		}
		url := comphysearch.ResolveURL(file.Repository, file.RelPath, doc.Permalink, section)

		record := comphysearch.NewRecord(doc, chunk, url, p.Config.PreviewBound)
		if err := record.Validate(); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// skipRepository records an isolated repository failure.
func (p *Pipeline) skipRepository(result *Result, name string, err error) {
	reason := comphysearch.ErrorMessage(err)
	if comphysearch.ErrorCode(err) == comphysearch.EINTERNAL {
		reason = err.Error()
	}
	result.SkippedRepositories = append(result.SkippedRepositories, Skip{
		Repository: name,
		Reason:     reason,
	})
	p.notify(ProgressEvent{
		Type:       ProgressSkipped,
		Repository: name,
		Err:        err,
	})
}

// notify invokes the progress callback if one is set.
func (p *Pipeline) notify(event ProgressEvent) {
	if p.Progress != nil {
		p.Progress(event)
	}
}

// recordKey hashes the identity triple used for first-occurrence dedup.
func recordKey(r *comphysearch.IndexRecord) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(r.Title)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(r.Content)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(r.URL)
	return h.Sum64()
}

// Package mock provides hand-written mocks of the domain interfaces for
// testing.
package mock

import (
	"context"

	comphysearch "github.com/comphy-lab/comphy-search"
)

var _ comphysearch.Acquirer = (*Acquirer)(nil)

// Acquirer is a mock implementation of comphysearch.Acquirer.
type Acquirer struct {
	EnsureLocalFn func(ctx context.Context, repo *comphysearch.Repository) (string, error)
}

func (a *Acquirer) EnsureLocal(ctx context.Context, repo *comphysearch.Repository) (string, error) {
	return a.EnsureLocalFn(ctx, repo)
}

var _ comphysearch.Lister = (*Lister)(nil)

// Lister is a mock implementation of comphysearch.Lister.
type Lister struct {
	ListFn func(repo *comphysearch.Repository, root string) ([]*comphysearch.SourceFile, error)
}

func (l *Lister) List(repo *comphysearch.Repository, root string) ([]*comphysearch.SourceFile, error) {
	return l.ListFn(repo, root)
}

var _ comphysearch.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of comphysearch.Extractor.
type Extractor struct {
	ExtractFn func(file *comphysearch.SourceFile) (*comphysearch.Document, error)
}

func (e *Extractor) Extract(file *comphysearch.SourceFile) (*comphysearch.Document, error) {
	return e.ExtractFn(file)
}

var _ comphysearch.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of comphysearch.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(html string) (*comphysearch.ExtractResult, error)
}

func (e *ContentExtractor) Extract(html string) (*comphysearch.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ comphysearch.Converter = (*Converter)(nil)

// Converter is a mock implementation of comphysearch.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ comphysearch.SectionSplitter = (*SectionSplitter)(nil)

// SectionSplitter is a mock implementation of comphysearch.SectionSplitter.
type SectionSplitter struct {
	SplitFn func(markdown string) []comphysearch.Section
}

func (s *SectionSplitter) Split(markdown string) []comphysearch.Section {
	return s.SplitFn(markdown)
}

var _ comphysearch.IndexWriter = (*IndexWriter)(nil)

// IndexWriter is a mock implementation of comphysearch.IndexWriter.
type IndexWriter struct {
	WriteFn func(path string, index comphysearch.Index) (bool, error)
}

func (w *IndexWriter) Write(path string, index comphysearch.Index) (bool, error) {
	return w.WriteFn(path, index)
}

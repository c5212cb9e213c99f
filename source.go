package comphysearch

import (
	"path"
	"strings"
)

// SourceFile is a single markdown or HTML file discovered under a
// repository's working copy. It is discovered once per run and discarded
// after extraction.
type SourceFile struct {
	// Path is the absolute path of the file on disk.
	Path string

	// RelPath is the path relative to the working-copy root, with
	// forward slashes.
	RelPath string

	// Repository is a lookup-only reference to the owning repository.
	Repository *Repository

	// Content is the raw file content.
	Content []byte
}

// IsMarkdown reports whether the file is a markdown source.
func (f *SourceFile) IsMarkdown() bool {
	return IsMarkdownPath(f.RelPath)
}

// IsHTML reports whether the file is an HTML source.
func (f *SourceFile) IsHTML() bool {
	return IsHTMLPath(f.RelPath)
}

// IsMarkdownPath reports whether the path has a markdown extension.
func IsMarkdownPath(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// IsHTMLPath reports whether the path has an HTML extension.
func IsHTMLPath(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// Lister discovers the qualifying source files of a working copy.
// Implementations filter out non-source extensions and excluded
// directories, so extractors never see unqualified files.
type Lister interface {
	// List returns the repository's source files in deterministic
	// (lexical) order. File contents are loaded eagerly.
	List(repo *Repository, root string) ([]*SourceFile, error)
}

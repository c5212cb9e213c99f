// Package fs provides filesystem implementations: source-file discovery
// over repository working copies and atomic persistence of the index
// artifact with change detection.
package fs

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	comphysearch "github.com/comphy-lab/comphy-search"
)

// Ensure Walker implements comphysearch.Lister at compile time.
var _ comphysearch.Lister = (*Walker)(nil)

// defaultExcludedDirs are directory names never treated as source content.
var defaultExcludedDirs = []string{
	".git",
	".github",
	"node_modules",
	"basilisk",
}

// Walker discovers markdown and HTML source files under a working copy.
// The staging directory is always excluded so the tool never indexes its
// own checkouts.
type Walker struct {
	stagingName string
}

// NewWalker creates a Walker. stagingDir is the checkout staging
// directory; its base name is excluded from every traversal.
func NewWalker(stagingDir string) *Walker {
	return &Walker{stagingName: filepath.Base(stagingDir)}
}

// List returns the repository's qualifying source files in lexical order,
// contents loaded. Traversal is scoped the way each site publishes:
// project docs live under docs/, blog posts under the configured post dir.
func (w *Walker) List(repo *comphysearch.Repository, root string) ([]*comphysearch.SourceFile, error) {
	scope := w.scopeDir(repo, root)

	var files []*comphysearch.SourceFile
	err := filepath.WalkDir(scope, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if w.excludedDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if !qualifies(rel) || excludedByGlobs(rel, repo.Exclude) {
			return nil
		}

		content, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		files = append(files, &comphysearch.SourceFile{
			Path:       p,
			RelPath:    rel,
			Repository: repo,
			Content:    content,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// scopeDir narrows traversal for repository kinds that publish a subtree.
func (w *Walker) scopeDir(repo *comphysearch.Repository, root string) string {
	var sub string
	switch repo.Kind {
	case comphysearch.KindDocs:
		sub = "docs"
	case comphysearch.KindBlog:
		if repo.Blog != nil {
			sub = repo.Blog.PostDir
		}
	}
	if sub == "" {
		return root
	}
	scoped := filepath.Join(root, sub)
	if info, err := os.Stat(scoped); err != nil || !info.IsDir() {
		return root
	}
	return scoped
}

// excludedDir reports whether a directory name is never indexed.
func (w *Walker) excludedDir(name string) bool {
	if strings.EqualFold(name, w.stagingName) {
		return true
	}
	for _, excl := range defaultExcludedDirs {
		if strings.EqualFold(name, excl) {
			return true
		}
	}
	return false
}

// qualifies reports whether the file is indexable source content.
func qualifies(rel string) bool {
	if !comphysearch.IsMarkdownPath(rel) && !comphysearch.IsHTMLPath(rel) {
		return false
	}
	base := strings.ToLower(filepath.Base(rel))
	return base != "readme.md" && base != "readme.markdown"
}

// excludedByGlobs matches rel against the repository's exclude patterns
// (doublestar syntax).
func excludedByGlobs(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

package comphysearch

import (
	"net/url"
	"path"
	"regexp"
	"sort"
	"strings"
)

// URLRules maps a repository-relative file path to its public URL.
// Implementations are selected by repository kind (Repository.Rules) so
// that adding a source repository stays a data-only change. Resolution is
// a pure function of its inputs.
type URLRules interface {
	// PageURL returns the public URL for the file at the given relative
	// path (forward slashes).
	PageURL(relPath string) string
}

// ResolveURL returns the public URL for a file, optionally deep-linking to
// a section heading via a fragment. A frontmatter permalink overrides the
// path-derived URL entirely. URLs that already carry a fragment (root-page
// sections of the main site) are left untouched.
func ResolveURL(repo *Repository, relPath, permalink string, section *Section) string {
	base := strings.TrimSuffix(repo.BaseURL, "/")

	var pageURL string
	if permalink != "" {
		pageURL = base + "/" + strings.TrimPrefix(permalink, "/")
	} else {
		pageURL = repo.Rules().PageURL(relPath)
	}

	if section != nil && section.Anchor != "" && !strings.Contains(pageURL, "#") {
		pageURL += "#" + section.Anchor
	}
	return pageURL
}

// stripSourceExt removes a markdown or HTML extension from a path.
func stripSourceExt(p string) string {
	if IsMarkdownPath(p) || IsHTMLPath(p) {
		return strings.TrimSuffix(p, path.Ext(p))
	}
	return p
}

// stem returns the base name of a path without its source extension.
func stem(p string) string {
	return path.Base(stripSourceExt(p))
}

// escapePath percent-encodes each segment of a URL path.
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// MainSiteRules builds URLs for the root-level Jekyll website. Mapped
// source directories rewrite to their configured URL paths, root-level
// pages collapse into fragments of the landing page, and everything else
// follows the extension-stripped relative path with index basenames
// collapsed to their directory.
type MainSiteRules struct {
	BaseURL      string
	DirectoryMap map[string]string
}

// PageURL implements URLRules.
func (r *MainSiteRules) PageURL(relPath string) string {
	base := strings.TrimSuffix(r.BaseURL, "/")

	// Longest prefix first so nested mappings win over their parents;
	// the lexical tie-break keeps resolution a pure function of its
	// inputs regardless of map iteration order.
	dirs := make([]string, 0, len(r.DirectoryMap))
	for dirName := range r.DirectoryMap {
		dirs = append(dirs, dirName)
	}
	sort.Slice(dirs, func(i, j int) bool {
		if len(dirs[i]) != len(dirs[j]) {
			return len(dirs[i]) > len(dirs[j])
		}
		return dirs[i] < dirs[j]
	})

	for _, dirName := range dirs {
		rest, ok := strings.CutPrefix(relPath, dirName+"/")
		if !ok {
			continue
		}
		urlPath := r.DirectoryMap[dirName]
		name := strings.ToLower(stem(rest))
		if name == "index" {
			return base + urlPath
		}
		return base + urlPath + "#" + name
	}

	// Root-level pages are sections of the landing page.
	if !strings.Contains(relPath, "/") {
		name := strings.ToLower(stem(relPath))
		if name == "index" {
			return base
		}
		return base + "#" + name
	}

	p := stripSourceExt(relPath)
	if path.Base(p) == "index" {
		p = path.Dir(p)
		if p == "." {
			return base
		}
	}
	return base + "/" + escapePath(p)
}

var postDateRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})-(.+)$`)

// BlogRules builds URLs for a Jekyll blog. Date-named posts map to
// /YYYY/MM/DD/title/ URLs under the configured prefix; everything else
// falls back to the extension-stripped path with a trailing slash.
type BlogRules struct {
	BaseURL   string
	DateInURL bool
	URLPrefix string
}

// PageURL implements URLRules.
func (r *BlogRules) PageURL(relPath string) string {
	base := strings.TrimSuffix(r.BaseURL, "/")

	if r.DateInURL {
		if m := postDateRe.FindStringSubmatch(stem(relPath)); m != nil {
			return base + r.URLPrefix + "/" + m[1] + "/" + m[2] + "/" + m[3] + "/" + escapePath(m[4]) + "/"
		}
	}
	return base + "/" + escapePath(stripSourceExt(relPath)) + "/"
}

// ProjectRules builds URLs for project documentation published under a
// subpath of the main domain. The generated docs live under a docs/
// directory in the source tree but at the site root when published.
type ProjectRules struct {
	BaseURL string
}

// PageURL implements URLRules.
func (r *ProjectRules) PageURL(relPath string) string {
	base := strings.TrimSuffix(r.BaseURL, "/")
	p := strings.TrimPrefix(relPath, "docs/")
	return base + "/" + escapePath(stripSourceExt(p))
}

package comphysearch

import "context"

// RepositoryKind selects the URL-generation rules for a repository.
type RepositoryKind string

// Repository kinds.
const (
	// KindWebsite is the main Jekyll site published at the domain root.
	KindWebsite RepositoryKind = "website"

	// KindBlog is a Jekyll blog with date-named posts under a posts dir.
	KindBlog RepositoryKind = "blog"

	// KindDocs is a project repository whose generated documentation is
	// published under a subpath of the main domain.
	KindDocs RepositoryKind = "docs"
)

// BlogSettings configures URL generation for blog repositories.
type BlogSettings struct {
	// PostDir is the directory containing posts (standard Jekyll layout).
	PostDir string `koanf:"post_dir" json:"postDir"`

	// DateInURL enables Jekyll-style /YYYY/MM/DD/title/ URLs for posts
	// whose file names carry a date prefix.
	DateInURL bool `koanf:"date_in_url" json:"dateInUrl"`

	// URLPrefix is prepended to post URLs (e.g. "/blog").
	URLPrefix string `koanf:"url_prefix" json:"urlPrefix"`
}

// Repository describes one source repository and fully determines how its
// files map to public URLs. Entries are defined at startup and immutable
// for the run.
type Repository struct {
	// Name uniquely identifies the repository within the registry.
	Name string `koanf:"name" json:"name"`

	// RemoteURL is the git remote to acquire the working copy from.
	RemoteURL string `koanf:"remote_url" json:"remoteUrl"`

	// LocalPath is the checkout directory name under the staging dir.
	LocalPath string `koanf:"local_path" json:"localPath"`

	// BaseURL is where the published site lives, without trailing slash.
	BaseURL string `koanf:"base_url" json:"baseUrl"`

	// Kind selects the URL rules (website, blog, docs).
	Kind RepositoryKind `koanf:"kind" json:"kind"`

	// DirectoryMap rewrites source directories to URL paths for website
	// repositories (e.g. "_team" -> "/team/").
	DirectoryMap map[string]string `koanf:"directories" json:"directories,omitempty"`

	// Blog holds blog-specific URL settings.
	Blog *BlogSettings `koanf:"blog" json:"blog,omitempty"`

	// Exclude lists additional glob patterns (doublestar syntax) for
	// paths that must not be indexed.
	Exclude []string `koanf:"exclude" json:"exclude,omitempty"`
}

// Validate returns an error if the repository configuration is unusable.
func (r *Repository) Validate() error {
	if r.Name == "" {
		return Errorf(EINVALID, "repository name required")
	}
	if r.RemoteURL == "" {
		return Errorf(EINVALID, "repository %q: remote URL required", r.Name)
	}
	if r.LocalPath == "" {
		return Errorf(EINVALID, "repository %q: local path required", r.Name)
	}
	if r.BaseURL == "" {
		return Errorf(EINVALID, "repository %q: base URL required", r.Name)
	}
	switch r.Kind {
	case KindWebsite, KindBlog, KindDocs:
	default:
		return Errorf(EINVALID, "repository %q: unknown kind %q", r.Name, r.Kind)
	}
	return nil
}

// Rules returns the URL rules for this repository, selected by kind.
func (r *Repository) Rules() URLRules {
	switch r.Kind {
	case KindWebsite:
		return &MainSiteRules{BaseURL: r.BaseURL, DirectoryMap: r.DirectoryMap}
	case KindBlog:
		rules := &BlogRules{BaseURL: r.BaseURL}
		if r.Blog != nil {
			rules.DateInURL = r.Blog.DateInURL
			rules.URLPrefix = r.Blog.URLPrefix
		}
		return rules
	default:
		return &ProjectRules{BaseURL: r.BaseURL}
	}
}

// Acquirer ensures a repository has an up-to-date local working copy.
// Implementations hide the clone-vs-update decision.
type Acquirer interface {
	// EnsureLocal performs a fresh checkout if no local copy exists, or
	// fast-forwards an existing one. It returns the working-copy root.
	// Returns EUNAVAILABLE if the remote is unreachable or the local copy
	// is corrupted.
	EnsureLocal(ctx context.Context, repo *Repository) (string, error)
}

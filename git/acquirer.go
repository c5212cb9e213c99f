// Package git provides the source acquisition adapter: it materializes
// each repository's working copy under the staging directory by shelling
// out to the git CLI, the same way the publishing workflow does.
package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	comphysearch "github.com/comphy-lab/comphy-search"
)

// Ensure Acquirer implements comphysearch.Acquirer at compile time.
var _ comphysearch.Acquirer = (*Acquirer)(nil)

// Runner executes a git command in dir (empty dir means the process
// working directory). Injectable for tests.
type Runner func(ctx context.Context, dir string, args ...string) error

// Acquirer clones or fast-forwards repository working copies.
type Acquirer struct {
	stagingDir string
	run        Runner
}

// Option configures an Acquirer.
type Option func(*Acquirer)

// WithRunner replaces the git command runner.
func WithRunner(run Runner) Option {
	return func(a *Acquirer) {
		a.run = run
	}
}

// NewAcquirer creates an Acquirer that checks repositories out under
// stagingDir.
func NewAcquirer(stagingDir string, opts ...Option) *Acquirer {
	a := &Acquirer{
		stagingDir: stagingDir,
		run:        runGit,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// EnsureLocal performs a fresh clone if no working copy exists, or
// fast-forwards an existing one. Failures are EUNAVAILABLE and scoped to
// the single repository.
func (a *Acquirer) EnsureLocal(ctx context.Context, repo *comphysearch.Repository) (string, error) {
	dir := filepath.Join(a.stagingDir, repo.LocalPath)

	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		if err := a.run(ctx, dir, "pull", "--ff-only"); err != nil {
			return "", comphysearch.Errorf(comphysearch.EUNAVAILABLE,
				"repository %q: update failed: %v", repo.Name, err)
		}
		return dir, nil
	}

	if err := os.MkdirAll(a.stagingDir, 0o755); err != nil {
		return "", comphysearch.Errorf(comphysearch.EUNAVAILABLE,
			"repository %q: staging dir: %v", repo.Name, err)
	}

	if err := a.run(ctx, "", "clone", "--depth", "1", repo.RemoteURL, dir); err != nil {
		return "", comphysearch.Errorf(comphysearch.EUNAVAILABLE,
			"repository %q: clone failed: %v", repo.Name, err)
	}
	return dir, nil
}

// runGit executes git, folding stderr into the returned error.
func runGit(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

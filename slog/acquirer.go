// Package slog provides logging decorators for pipeline collaborators.
package slog

import (
	"context"
	"log/slog"
	"time"

	comphysearch "github.com/comphy-lab/comphy-search"
)

// Ensure LoggingAcquirer implements comphysearch.Acquirer.
var _ comphysearch.Acquirer = (*LoggingAcquirer)(nil)

// LoggingAcquirer wraps an Acquirer with structured logging of each
// checkout's outcome and duration.
type LoggingAcquirer struct {
	next   comphysearch.Acquirer
	logger *slog.Logger
}

// NewLoggingAcquirer creates a new LoggingAcquirer.
func NewLoggingAcquirer(next comphysearch.Acquirer, logger *slog.Logger) *LoggingAcquirer {
	return &LoggingAcquirer{next: next, logger: logger}
}

// EnsureLocal delegates to the wrapped Acquirer and logs the result.
func (a *LoggingAcquirer) EnsureLocal(ctx context.Context, repo *comphysearch.Repository) (string, error) {
	begin := time.Now()
	root, err := a.next.EnsureLocal(ctx, repo)
	if err != nil {
		a.logger.Warn("repository acquisition failed",
			"repository", repo.Name,
			"remote", repo.RemoteURL,
			"duration", time.Since(begin),
			"error", comphysearch.ErrorMessage(err),
		)
		return "", err
	}
	a.logger.Info("repository acquired",
		"repository", repo.Name,
		"root", root,
		"duration", time.Since(begin),
	)
	return root, nil
}

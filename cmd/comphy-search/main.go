// Command comphy-search builds the unified search index for the CoMPhy
// Lab sites and writes it as a JSON artifact for the client-side search
// widget. It is designed to run unattended from the publishing workflow:
// all configuration is compiled in or loaded from a static config file,
// and no arguments are required.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/schollz/progressbar/v3"

	comphysearch "github.com/comphy-lab/comphy-search"
	csfs "github.com/comphy-lab/comphy-search/fs"
	"github.com/comphy-lab/comphy-search/git"
	"github.com/comphy-lab/comphy-search/goldmark"
	"github.com/comphy-lab/comphy-search/goquery"
	"github.com/comphy-lab/comphy-search/htmltomarkdown"
	"github.com/comphy-lab/comphy-search/index"
	cskoanf "github.com/comphy-lab/comphy-search/koanf"
	csslog "github.com/comphy-lab/comphy-search/slog"
	"github.com/comphy-lab/comphy-search/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// CLI defines the command-line interface structure for Kong. Every flag
// is optional; defaults come from the compiled-in configuration.
type CLI struct {
	Config  string `short:"c" default:"comphy-search.yaml" help:"Path to the YAML config file"`
	Output  string `short:"o" help:"Override the output artifact path"`
	Staging string `help:"Override the staging directory for checkouts"`
	Verbose bool   `short:"v" help:"Enable debug logging"`
	Quiet   bool   `short:"q" help:"Suppress the progress bar"`
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("comphy-search"),
		kong.Description("Build the unified search index for the CoMPhy Lab sites"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	cfg, err := cskoanf.Load(cli.Config)
	if err != nil {
		return err
	}
	if cli.Output != "" {
		cfg.OutputPath = cli.Output
	}
	if cli.Staging != "" {
		cfg.StagingDir = cli.Staging
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	splitter := goldmark.NewSplitter()

	pipeline := &index.Pipeline{
		Config:   cfg,
		Acquirer: csslog.NewLoggingAcquirer(git.NewAcquirer(cfg.StagingDir), logger),
		Lister:   csfs.NewWalker(cfg.StagingDir),
		Markdown: goldmark.NewExtractor(),
		HTML: goquery.NewExtractor(
			trafilatura.NewExtractor(),
			htmltomarkdown.NewConverter(),
			splitter,
		),
		Writer: csfs.NewWriter(),
		Logger: logger,
	}
	if !cli.Quiet {
		pipeline.Progress = newProgressReporter(stderr)
	}

	result, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Generated search index with %d records from %d files\n", result.Records, result.Files)
	if result.Changed {
		fmt.Fprintf(stdout, "Written %s (content changed)\n", cfg.OutputPath)
	} else {
		fmt.Fprintf(stdout, "%s is up to date\n", cfg.OutputPath)
	}

	// A partial index was still written, but the run must signal to the
	// orchestrator which sources were left out and why.
	if result.Partial() {
		return partialError(result)
	}
	return nil
}

// partialError summarizes skipped repositories and files for the exit
// diagnostic.
func partialError(result *index.Result) error {
	msg := "index is partial:"
	for _, skip := range result.SkippedRepositories {
		msg += fmt.Sprintf("\n  repository %s skipped: %s", skip.Repository, skip.Reason)
	}
	for _, skip := range result.SkippedFiles {
		msg += fmt.Sprintf("\n  file %s/%s skipped: %s", skip.Repository, skip.Path, skip.Reason)
	}
	return comphysearch.Errorf(comphysearch.EUNAVAILABLE, "%s", msg)
}

// newProgressReporter renders a per-repository progress bar.
func newProgressReporter(w io.Writer) index.ProgressFunc {
	var bar *progressbar.ProgressBar

	return func(event index.ProgressEvent) {
		switch event.Type {
		case index.ProgressRepository:
			bar = progressbar.NewOptions(event.Total,
				progressbar.OptionSetWriter(w),
				progressbar.OptionSetDescription(event.Repository),
				progressbar.OptionClearOnFinish(),
				progressbar.OptionShowCount(),
			)
		case index.ProgressFile:
			if bar != nil {
				_ = bar.Add(1)
			}
		case index.ProgressFinished:
			if bar != nil {
				_ = bar.Finish()
			}
		}
	}
}

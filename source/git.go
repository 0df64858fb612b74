package source

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
)

// DefaultGitMaxTries bounds clone attempts, the first one included.
const DefaultGitMaxTries = 3

// Git reads one file from a repository cloned into memory.
type Git struct {
	Meta

	url      string
	file     string
	branch   string
	tag      string
	maxTries uint
	interval time.Duration
	logger   *slog.Logger
}

// GitOption configures a Git source.
type GitOption func(*Git)

// WithBranch clones a single branch instead of the remote HEAD.
func WithBranch(branch string) GitOption {
	return func(g *Git) {
		g.branch = branch
	}
}

// WithGitTag clones a single tag. A branch takes precedence.
func WithGitTag(name string) GitOption {
	return func(g *Git) {
		g.tag = name
	}
}

// WithRetry sets the number of clone attempts and the initial interval
// between them.
func WithRetry(maxTries uint, interval time.Duration) GitOption {
	return func(g *Git) {
		g.maxTries = maxTries
		g.interval = interval
	}
}

// WithGitLogger sets the logger used for retry notices.
func WithGitLogger(logger *slog.Logger) GitOption {
	return func(g *Git) {
		g.logger = logger
	}
}

// NewGit creates a Git source for file in the repository at url. The format
// defaults to the extension of file.
func NewGit(url, file string, gitOpts []GitOption, opts ...Option) *Git {
	format := ""
	if ext := path.Ext(file); ext != "" {
		format = ext[1:]
	}

	g := &Git{
		Meta:     newMeta(url+"#"+file, format, opts),
		url:      url,
		file:     file,
		maxTries: DefaultGitMaxTries,
		interval: backoff.DefaultInitialInterval,
		logger:   slog.Default(),
	}

	for _, apply := range gitOpts {
		apply(g)
	}

	return g
}

// Fetch clones the repository and returns the content of the file.
// Failed clones are retried with exponential backoff; a missing file is not.
func (g *Git) Fetch(ctx context.Context) ([]byte, error) {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = g.interval
	expBackoff.Reset()

	data, err := backoff.Retry(ctx, func() ([]byte, error) {
		return g.fetch(ctx)
	},
		backoff.WithBackOff(expBackoff),
		backoff.WithMaxTries(g.maxTries),
		backoff.WithNotify(func(err error, delay time.Duration) {
			g.logger.Warn("git fetch failed, retrying",
				slog.String("source", g.Name()),
				slog.Duration("delay", delay),
				slog.String("error", err.Error()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("fetching %s from %s: %w", g.file, g.url, err)
	}

	return data, nil
}

func (g *Git) fetch(ctx context.Context) ([]byte, error) {
	cloneOptions := &git.CloneOptions{
		URL: g.url,
	}

	switch {
	case g.branch != "":
		cloneOptions.ReferenceName = plumbing.NewBranchReferenceName(g.branch)
		cloneOptions.SingleBranch = true
	case g.tag != "":
		cloneOptions.ReferenceName = plumbing.NewTagReferenceName(g.tag)
		cloneOptions.SingleBranch = true
	}

	worktree := memfs.New()

	_, err := git.CloneContext(ctx, memory.NewStorage(), worktree, cloneOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to clone repository: %w", err)
	}

	data, err := util.ReadFile(worktree, g.file)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to read file %s: %w", g.file, err))
	}

	return data, nil
}

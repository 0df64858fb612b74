package source

import (
	"context"
	"os"
	"slices"
	"strings"

	"github.com/0xalexb/hjarta-config/builder"
)

// FormatEnv is the declared format of Env sources.
const FormatEnv = "envvars"

// Env serves environment variables.
type Env struct {
	Meta

	prefix      string
	stripPrefix bool
	environ     func() []string
}

// EnvOption configures an Env source.
type EnvOption func(*Env)

// WithPrefix keeps only variables starting with prefix. With strip the
// prefix is removed from the resulting paths.
func WithPrefix(prefix string, strip bool) EnvOption {
	return func(e *Env) {
		e.prefix = prefix
		e.stripPrefix = strip
	}
}

// WithEnviron replaces os.Environ as the variable supplier.
func WithEnviron(environ func() []string) EnvOption {
	return func(e *Env) {
		e.environ = environ
	}
}

// NewEnv creates an Env source.
func NewEnv(envOpts []EnvOption, opts ...Option) *Env {
	env := &Env{
		Meta:    newMeta("env", FormatEnv, opts),
		environ: os.Environ,
	}

	for _, apply := range envOpts {
		apply(env)
	}

	return env
}

// Pairs returns the matching variables sorted by name.
func (e *Env) Pairs(ctx context.Context) ([]builder.Pair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err //nolint:wrapcheck // context errors are returned as is
	}

	var pairs []builder.Pair

	for _, entry := range e.environ() {
		name, value, found := strings.Cut(entry, "=")
		if !found || !strings.HasPrefix(name, e.prefix) {
			continue
		}

		if e.stripPrefix {
			name = strings.TrimPrefix(strings.TrimPrefix(name, e.prefix), "_")
		}

		if name == "" {
			continue
		}

		pairs = append(pairs, builder.Pair{Path: name, Value: value})
	}

	slices.SortFunc(pairs, func(a, b builder.Pair) int {
		return strings.Compare(a.Path, b.Path)
	})

	return pairs, nil
}

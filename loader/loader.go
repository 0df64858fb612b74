package loader

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/0xalexb/hjarta-config/builder"
	"github.com/0xalexb/hjarta-config/lexer"
	"github.com/0xalexb/hjarta-config/source"
)

var (
	// ErrNoLoader is returned when no loader accepts a format.
	ErrNoLoader = errors.New("no loader for format")

	// ErrUnsupportedSource is returned when a loader cannot read a kind of source.
	ErrUnsupportedSource = errors.New("source kind not supported by loader")

	// ErrInvalidDocument is returned when a document cannot be decoded.
	ErrInvalidDocument = errors.New("invalid document")
)

// Loader reads a source into pairs.
type Loader interface {
	Name() string
	Accepts(format string) bool
	Lexer() *lexer.Lexer
	Load(ctx context.Context, src source.Source) ([]builder.Pair, error)
}

// Registry resolves loaders by format. Loaders registered later take
// precedence. A Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	loaders []Loader
}

// NewRegistry creates a registry holding loaders.
func NewRegistry(loaders ...Loader) *Registry {
	return &Registry{loaders: slices.Clone(loaders)}
}

// Default returns a registry with every built-in loader.
func Default() *Registry {
	return NewRegistry(
		NewYAML(),
		NewJSON(),
		NewTOML(),
		NewProperties(),
		NewEnv(),
		NewMap(),
	)
}

// Register adds loaders.
func (r *Registry) Register(loaders ...Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.loaders = append(r.loaders, loaders...)
}

// Resolve returns the loader for format.
//
//nolint:ireturn // loaders are resolved through the interface
func (r *Registry) Resolve(format string) (Loader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	format = strings.ToLower(format)

	for i := len(r.loaders) - 1; i >= 0; i-- {
		if r.loaders[i].Accepts(format) {
			return r.loaders[i], nil
		}
	}

	return nil, fmt.Errorf("%w %q", ErrNoLoader, format)
}

// Formats holds the formats a loader accepts.
type Formats []string

// Accepts reports whether format is one of f.
func (f Formats) Accepts(format string) bool {
	return slices.Contains(f, strings.ToLower(format))
}

func fetch(ctx context.Context, name string, src source.Source) ([]byte, error) {
	byteSource, ok := src.(source.ByteSource)
	if !ok {
		return nil, fmt.Errorf("%s loader, source %q: %w", name, src.Name(), ErrUnsupportedSource)
	}

	data, err := byteSource.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s loader: %w", name, err)
	}

	return data, nil
}

package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrPathIsDirectory is returned when the path of a File points to a directory.
var ErrPathIsDirectory = errors.New("path is a directory, not a file")

// File reads a configuration file on every Fetch, so a reload sees the
// current content.
type File struct {
	Meta

	path string
}

// NewFile creates a File source. The format defaults to the file extension
// without the dot, and the name to the cleaned path.
func NewFile(path string, opts ...Option) *File {
	cleanPath := filepath.Clean(path)
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(cleanPath), "."))

	return &File{
		Meta: newMeta(cleanPath, format, opts),
		path: cleanPath,
	}
}

// Path returns the cleaned file path.
func (f *File) Path() string {
	return f.path
}

// Fetch reads the file.
func (f *File) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("reading file %q: %w", f.path, err)
	}

	stat, err := os.Stat(f.path)
	if err != nil {
		return nil, fmt.Errorf("stat file %q: %w", f.path, err)
	}

	if stat.IsDir() {
		return nil, fmt.Errorf("path %q: %w", f.path, ErrPathIsDirectory)
	}

	data, err := os.ReadFile(f.path) // #nosec G304 -- path is cleaned and validated
	if err != nil {
		return nil, fmt.Errorf("reading file %q: %w", f.path, err)
	}

	return data, nil
}

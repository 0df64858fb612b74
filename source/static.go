package source

import (
	"context"
	"maps"
	"slices"

	"github.com/0xalexb/hjarta-config/builder"
)

// Static serves a document held in memory.
type Static struct {
	Meta

	data []byte
}

// NewStatic creates a Static source for data in format.
func NewStatic(name, format string, data []byte, opts ...Option) *Static {
	return &Static{
		Meta: newMeta(name, format, opts),
		data: slices.Clone(data),
	}
}

// Fetch returns a copy of the document.
func (s *Static) Fetch(context.Context) ([]byte, error) {
	return slices.Clone(s.data), nil
}

// FormatMap is the declared format of Map sources.
const FormatMap = "map"

// Map serves a fixed set of path/value pairs.
type Map struct {
	Meta

	values map[string]string
}

// NewMap creates a Map source. Keys are paths such as "db.hosts[0]".
func NewMap(name string, values map[string]string, opts ...Option) *Map {
	return &Map{
		Meta:   newMeta(name, FormatMap, opts),
		values: maps.Clone(values),
	}
}

// Pairs returns the values as pairs in sorted path order.
func (m *Map) Pairs(context.Context) ([]builder.Pair, error) {
	pairs := make([]builder.Pair, 0, len(m.values))

	for _, path := range slices.Sorted(maps.Keys(m.values)) {
		pairs = append(pairs, builder.Pair{Path: path, Value: m.values[path]})
	}

	return pairs, nil
}

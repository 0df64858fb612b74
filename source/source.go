package source

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/google/uuid"

	"github.com/0xalexb/hjarta-config/builder"
	"github.com/0xalexb/hjarta-config/tag"
)

// Source describes an origin of configuration.
type Source interface {
	ID() string
	Name() string
	Format() string
	Tags() tag.Tags
}

// ByteSource returns a raw document.
type ByteSource interface {
	Source
	Fetch(ctx context.Context) ([]byte, error)
}

// PairSource returns path/value pairs without a decoding step.
type PairSource interface {
	Source
	Pairs(ctx context.Context) ([]builder.Pair, error)
}

// Meta holds the descriptive fields shared by all sources.
type Meta struct {
	id     string
	name   string
	format string
	tags   tag.Tags
}

// Option configures the Meta of a source.
type Option func(*Meta)

// WithTags registers the source's tree under tags.
func WithTags(tags tag.Tags) Option {
	return func(m *Meta) {
		m.tags = tags
	}
}

// WithFormat overrides the declared format.
func WithFormat(format string) Option {
	return func(m *Meta) {
		m.format = format
	}
}

// WithName overrides the display name.
func WithName(name string) Option {
	return func(m *Meta) {
		m.name = name
	}
}

// WithID sets a fixed ID instead of a generated one.
func WithID(id string) Option {
	return func(m *Meta) {
		m.id = id
	}
}

func newMeta(name, format string, opts []Option) Meta {
	meta := Meta{
		id:     uuid.NewString(),
		name:   name,
		format: format,
		tags:   tag.None,
	}

	for _, apply := range opts {
		apply(&meta)
	}

	return meta
}

// ID returns the stable identifier of the source.
func (m Meta) ID() string { return m.id }

// Name returns the display name used in logs and findings.
func (m Meta) Name() string { return m.name }

// Format returns the declared format.
func (m Meta) Format() string { return m.format }

// Tags returns the tags the source's tree is registered under.
func (m Meta) Tags() tag.Tags { return m.tags }

// Flatten turns a decoded document into pairs with dotted paths and [i]
// array suffixes. Map keys are visited in sorted order. A nil value becomes a
// null pair; empty maps and arrays produce no pairs.
func Flatten(document any) []builder.Pair {
	var pairs []builder.Pair

	if document == nil {
		return nil
	}

	flatten("", document, &pairs)

	return pairs
}

func flatten(path string, value any, pairs *[]builder.Pair) {
	switch typed := value.(type) {
	case map[string]any:
		for _, key := range slices.Sorted(maps.Keys(typed)) {
			flatten(join(path, key), typed[key], pairs)
		}
	case map[any]any:
		keys := make(map[string]any, len(typed))
		for key, child := range typed {
			keys[fmt.Sprint(key)] = child
		}

		flatten(path, keys, pairs)
	case []any:
		for i, child := range typed {
			flatten(path+"["+strconv.Itoa(i)+"]", child, pairs)
		}
	case nil:
		*pairs = append(*pairs, builder.Pair{Path: path, Null: true})
	default:
		*pairs = append(*pairs, builder.Pair{Path: path, Value: scalar(typed)})
	}
}

func join(path, key string) string {
	if path == "" {
		return key
	}

	return path + "." + key
}

func scalar(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32)
	case []byte:
		return string(typed)
	default:
		return fmt.Sprint(typed)
	}
}

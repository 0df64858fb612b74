package loader

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/magiconair/properties"
	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"

	"github.com/0xalexb/hjarta-config/builder"
	"github.com/0xalexb/hjarta-config/lexer"
	"github.com/0xalexb/hjarta-config/source"
)

// YAML decodes YAML documents with goccy/go-yaml.
type YAML struct {
	Formats
}

// NewYAML creates the loader for "yaml" and "yml".
func NewYAML() *YAML {
	return &YAML{Formats: Formats{"yaml", "yml"}}
}

// Name returns "yaml".
func (*YAML) Name() string { return "yaml" }

// Lexer returns the default dotted-path lexer.
func (*YAML) Lexer() *lexer.Lexer { return lexer.Default() }

// Load decodes the document. An empty document yields no pairs.
func (l *YAML) Load(ctx context.Context, src source.Source) ([]builder.Pair, error) {
	data, err := fetch(ctx, l.Name(), src)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var document any

	err = yaml.Unmarshal(data, &document)
	if err != nil {
		return nil, fmt.Errorf("%w: yaml source %q: %w", ErrInvalidDocument, src.Name(), err)
	}

	return source.Flatten(document), nil
}

// JSON walks JSON documents with tidwall/gjson.
type JSON struct {
	Formats
}

// NewJSON creates the loader for "json".
func NewJSON() *JSON {
	return &JSON{Formats: Formats{"json"}}
}

// Name returns "json".
func (*JSON) Name() string { return "json" }

// Lexer returns the default dotted-path lexer.
func (*JSON) Lexer() *lexer.Lexer { return lexer.Default() }

// Load walks the document. Numbers keep their literal text.
func (l *JSON) Load(ctx context.Context, src source.Source) ([]builder.Pair, error) {
	data, err := fetch(ctx, l.Name(), src)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: json source %q", ErrInvalidDocument, src.Name())
	}

	var pairs []builder.Pair

	walkJSON("", gjson.ParseBytes(data), &pairs)

	return pairs, nil
}

func walkJSON(path string, value gjson.Result, pairs *[]builder.Pair) {
	switch {
	case value.IsObject():
		value.ForEach(func(key, child gjson.Result) bool {
			next := key.String()
			if path != "" {
				next = path + "." + next
			}

			walkJSON(next, child, pairs)

			return true
		})
	case value.IsArray():
		index := 0

		value.ForEach(func(_, child gjson.Result) bool {
			walkJSON(path+"["+strconv.Itoa(index)+"]", child, pairs)
			index++

			return true
		})
	case value.Type == gjson.Null:
		*pairs = append(*pairs, builder.Pair{Path: path, Null: true})
	case value.Type == gjson.Number:
		*pairs = append(*pairs, builder.Pair{Path: path, Value: value.Raw})
	default:
		*pairs = append(*pairs, builder.Pair{Path: path, Value: value.String()})
	}
}

// TOML decodes TOML documents with pelletier/go-toml.
type TOML struct {
	Formats
}

// NewTOML creates the loader for "toml".
func NewTOML() *TOML {
	return &TOML{Formats: Formats{"toml"}}
}

// Name returns "toml".
func (*TOML) Name() string { return "toml" }

// Lexer returns the default dotted-path lexer.
func (*TOML) Lexer() *lexer.Lexer { return lexer.Default() }

// Load decodes the document.
func (l *TOML) Load(ctx context.Context, src source.Source) ([]builder.Pair, error) {
	data, err := fetch(ctx, l.Name(), src)
	if err != nil {
		return nil, err
	}

	document := map[string]any{}

	err = toml.Unmarshal(data, &document)
	if err != nil {
		return nil, fmt.Errorf("%w: toml source %q: %w", ErrInvalidDocument, src.Name(), err)
	}

	return source.Flatten(document), nil
}

// Properties reads Java-style properties files with magiconair/properties.
type Properties struct {
	Formats
}

// NewProperties creates the loader for "properties".
func NewProperties() *Properties {
	return &Properties{Formats: Formats{"properties", "props"}}
}

// Name returns "properties".
func (*Properties) Name() string { return "properties" }

// Lexer returns the default dotted-path lexer.
func (*Properties) Lexer() *lexer.Lexer { return lexer.Default() }

// Load reads the properties in file order. ${...} expressions are left for
// post-processing.
func (l *Properties) Load(ctx context.Context, src source.Source) ([]builder.Pair, error) {
	data, err := fetch(ctx, l.Name(), src)
	if err != nil {
		return nil, err
	}

	reader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}

	props, err := reader.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: properties source %q: %w", ErrInvalidDocument, src.Name(), err)
	}

	keys := props.Keys()
	pairs := make([]builder.Pair, 0, len(keys))

	for _, key := range keys {
		value, _ := props.Get(key)
		pairs = append(pairs, builder.Pair{Path: key, Value: value})
	}

	return pairs, nil
}

// Env reads environment sources. Variable names are split on "_".
type Env struct {
	Formats
}

// NewEnv creates the loader for source.FormatEnv.
func NewEnv() *Env {
	return &Env{Formats: Formats{source.FormatEnv}}
}

// Name returns "envvars".
func (*Env) Name() string { return source.FormatEnv }

// Lexer returns the environment variable lexer.
func (*Env) Lexer() *lexer.Lexer { return lexer.Env() }

// Load returns the pairs of a source.PairSource.
func (l *Env) Load(ctx context.Context, src source.Source) ([]builder.Pair, error) {
	return pairs(ctx, l.Name(), src)
}

// Map reads map sources.
type Map struct {
	Formats
}

// NewMap creates the loader for source.FormatMap.
func NewMap() *Map {
	return &Map{Formats: Formats{source.FormatMap}}
}

// Name returns "map".
func (*Map) Name() string { return source.FormatMap }

// Lexer returns the default dotted-path lexer.
func (*Map) Lexer() *lexer.Lexer { return lexer.Default() }

// Load returns the pairs of a source.PairSource.
func (l *Map) Load(ctx context.Context, src source.Source) ([]builder.Pair, error) {
	return pairs(ctx, l.Name(), src)
}

func pairs(ctx context.Context, name string, src source.Source) ([]builder.Pair, error) {
	pairSource, ok := src.(source.PairSource)
	if !ok {
		return nil, fmt.Errorf("%s loader, source %q: %w", name, src.Name(), ErrUnsupportedSource)
	}

	result, err := pairSource.Pairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s loader: %w", name, err)
	}

	return result, nil
}

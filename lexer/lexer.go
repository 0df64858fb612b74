package lexer

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/0xalexb/hjarta-config/token"
	"github.com/0xalexb/hjarta-config/validation"
)

// DefaultDelimiter separates words of a path.
const DefaultDelimiter = "."

// EnvDelimiter separates words of an environment variable name.
const EnvDelimiter = "_"

// DefaultMaxIndex is the largest array index a path may address.
const DefaultMaxIndex = 1<<16 - 1

// DefaultPattern matches a name with an optional single array suffix.
const DefaultPattern = `^(?P<name>[\w\-: ]*)(?P<array>\[(?P<index>[^\[\]]*)\])?$`

const (
	nameGroup  = "name"
	arrayGroup = "array"
	indexGroup = "index"
)

// ErrInvalidPattern is returned when the word pattern does not compile.
var ErrInvalidPattern = errors.New("invalid word pattern")

// ErrMissingGroup is returned when the word pattern lacks a required named group.
var ErrMissingGroup = errors.New("word pattern is missing a named group")

// ErrEmptyDelimiter is returned when the delimiter is empty.
var ErrEmptyDelimiter = errors.New("delimiter must not be empty")

// Lexer scans paths into tokens. A Lexer is immutable and safe for concurrent use.
type Lexer struct {
	delimiter  string
	splitter   *regexp.Regexp
	pattern    *regexp.Regexp
	normalizer func(string) string
	maxIndex   int
	nameIdx    int
	arrayIdx   int
	indexIdx   int
}

type settings struct {
	delimiter  string
	pattern    string
	normalizer func(string) string
	maxIndex   int
}

// Option configures a Lexer.
type Option func(*settings)

// WithDelimiter sets the literal string separating words.
func WithDelimiter(delimiter string) Option {
	return func(s *settings) {
		s.delimiter = delimiter
	}
}

// WithPattern sets the word pattern. It must define the name, array and index groups.
func WithPattern(pattern string) Option {
	return func(s *settings) {
		s.pattern = pattern
	}
}

// WithNormalizer sets the function applied to the whole path before splitting.
func WithNormalizer(normalizer func(string) string) Option {
	return func(s *settings) {
		s.normalizer = normalizer
	}
}

// WithMaxIndex sets the largest accepted array index. Larger indices are
// reported as ArrayIndexOutOfRange. Values below zero keep the default.
func WithMaxIndex(maxIndex int) Option {
	return func(s *settings) {
		s.maxIndex = maxIndex
	}
}

// New creates a Lexer. Without options it behaves like Default.
func New(opts ...Option) (*Lexer, error) {
	cfg := settings{
		delimiter:  DefaultDelimiter,
		pattern:    DefaultPattern,
		normalizer: strings.ToLower,
		maxIndex:   DefaultMaxIndex,
	}

	for _, apply := range opts {
		apply(&cfg)
	}

	if cfg.delimiter == "" {
		return nil, ErrEmptyDelimiter
	}

	if cfg.maxIndex < 0 {
		cfg.maxIndex = DefaultMaxIndex
	}

	if cfg.normalizer == nil {
		cfg.normalizer = func(s string) string { return s }
	}

	pattern, err := regexp.Compile(cfg.pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	lex := &Lexer{
		delimiter:  cfg.delimiter,
		splitter:   regexp.MustCompile(regexp.QuoteMeta(cfg.delimiter)),
		pattern:    pattern,
		normalizer: cfg.normalizer,
		maxIndex:   cfg.maxIndex,
		nameIdx:    pattern.SubexpIndex(nameGroup),
		arrayIdx:   pattern.SubexpIndex(arrayGroup),
		indexIdx:   pattern.SubexpIndex(indexGroup),
	}

	for group, idx := range map[string]int{nameGroup: lex.nameIdx, arrayGroup: lex.arrayIdx, indexGroup: lex.indexIdx} {
		if idx < 0 {
			return nil, fmt.Errorf("%w: %q", ErrMissingGroup, group)
		}
	}

	return lex, nil
}

//nolint:gochecknoglobals // immutable presets
var (
	defaultLexer = mustNew()
	envLexer     = mustNew(WithDelimiter(EnvDelimiter))
)

func mustNew(opts ...Option) *Lexer {
	lex, err := New(opts...)
	if err != nil {
		panic(err)
	}

	return lex
}

// Default returns the lexer for dotted paths such as "db.hosts[0].user".
func Default() *Lexer {
	return defaultLexer
}

// Env returns the lexer for environment variable names such as "DB_HOST".
func Env() *Lexer {
	return envLexer
}

// Delimiter returns the literal word delimiter.
func (l *Lexer) Delimiter() string {
	return l.delimiter
}

// Normalize applies the lexer's normalizer to s.
func (l *Lexer) Normalize(s string) string {
	return l.normalizer(s)
}

// MaxIndex returns the largest array index the lexer accepts.
func (l *Lexer) MaxIndex() int {
	return l.maxIndex
}

// Render joins tokens back into a path using the lexer's delimiter.
func (l *Lexer) Render(tokens []token.Token) string {
	return token.Render(tokens, l.delimiter)
}

// Scan tokenizes path. Findings for a word never prevent the other words from
// being tokenized; the result holds a value whenever at least one token was produced.
func (l *Lexer) Scan(path string) validation.Result[[]token.Token] {
	if strings.TrimSpace(path) == "" {
		return validation.Fail[[]token.Token](validation.New(validation.EmptyPath, path))
	}

	var (
		tokens []token.Token
		errs   []validation.Error
	)

	for _, word := range l.splitter.Split(l.normalizer(path), -1) {
		wordTokens, finding := l.evaluate(path, word)
		if finding != nil {
			errs = append(errs, *finding)

			continue
		}

		tokens = append(tokens, wordTokens...)
	}

	if len(tokens) == 0 {
		return validation.Fail[[]token.Token](errs...)
	}

	return validation.Ok(tokens, errs...)
}

func (l *Lexer) evaluate(path, word string) ([]token.Token, *validation.Error) {
	if word == "" {
		finding := validation.New(validation.EmptyElement, path)

		return nil, &finding
	}

	match := l.pattern.FindStringSubmatch(word)
	if match == nil {
		finding := validation.New(validation.FailedToTokenizeElement, path).WithElement(word)

		return nil, &finding
	}

	name := match[l.nameIdx]
	if name == "" {
		finding := validation.New(validation.UnableToParseName, path).WithElement(word)

		return nil, &finding
	}

	object := token.Object{Name: name}

	if match[l.arrayIdx] == "" {
		return []token.Token{object}, nil
	}

	index, finding := l.parseIndex(path, word, match[l.indexIdx])
	if finding != nil {
		return nil, finding
	}

	return []token.Token{object, token.Array{Index: index}}, nil
}

func (l *Lexer) parseIndex(path, word, raw string) (int, *validation.Error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		finding := validation.New(validation.ArrayIndexMissing, path).WithElement(word)

		return 0, &finding
	}

	index, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
		return 0, outOfRange(path, word, raw, l.maxIndex)
	}

	if err != nil {
		finding := validation.New(validation.ArrayIndexNotNumeric, path).WithElement(word).WithValue(raw)

		return 0, &finding
	}

	if index < 0 {
		finding := validation.New(validation.ArrayIndexNegative, path).WithElement(word).WithValue(raw)

		return 0, &finding
	}

	if index > l.maxIndex {
		return 0, outOfRange(path, word, raw, l.maxIndex)
	}

	return index, nil
}

func outOfRange(path, word, raw string, maxIndex int) *validation.Error {
	finding := validation.New(validation.ArrayIndexOutOfRange, path).
		WithElement(word).
		WithValue(raw).
		WithIndex(maxIndex)

	return &finding
}

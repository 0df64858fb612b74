package builder

import (
	"math"
	"strconv"

	"github.com/0xalexb/hjarta-config/lexer"
	"github.com/0xalexb/hjarta-config/node"
	"github.com/0xalexb/hjarta-config/token"
	"github.com/0xalexb/hjarta-config/validation"
)

// Pair is a raw path and value as produced by a source loader.
type Pair struct {
	Path  string
	Value string
	// Null marks an explicit null value; Value is ignored.
	Null bool
}

// Entry is a lexed pair.
type Entry struct {
	Path   string
	Tokens []token.Token
	Value  string
	Null   bool
}

func (e Entry) leaf() node.Leaf {
	if e.Null {
		return node.NullLeaf()
	}

	return node.NewLeaf(e.Value)
}

// Builder builds trees. Use New; it is tolerant of errors by default.
type Builder struct {
	failFast bool
	source   string
	maxIndex int
}

// Option configures a Builder.
type Option func(*Builder)

// WithFailFast aborts a build at the first error-level finding.
func WithFailFast(failFast bool) Option {
	return func(b *Builder) {
		b.failFast = failFast
	}
}

// WithSource attributes findings to the named source.
func WithSource(source string) Option {
	return func(b *Builder) {
		b.source = source
	}
}

// WithMaxIndex sets the largest array index an entry may use. Entries above
// it are dropped with an ArrayIndexOutOfRange finding.
func WithMaxIndex(maxIndex int) Option {
	return func(b *Builder) {
		b.maxIndex = min(max(maxIndex, 0), math.MaxInt-1)
	}
}

// New creates a Builder.
func New(opts ...Option) *Builder {
	b := &Builder{maxIndex: lexer.DefaultMaxIndex}

	for _, apply := range opts {
		apply(b)
	}

	return b
}

// Lex scans every pair with lex. A pair whose path has an error-level finding
// is dropped; the findings of all pairs are returned.
func (b *Builder) Lex(lex *lexer.Lexer, pairs []Pair) ([]Entry, []validation.Error) {
	entries := make([]Entry, 0, len(pairs))

	var errs []validation.Error

	for _, pair := range pairs {
		scanned := lex.Scan(pair.Path)

		for _, finding := range scanned.Errors() {
			errs = append(errs, finding.WithSource(b.source))
		}

		if !scanned.HasResults() || validation.HasLevel(scanned.Errors(), validation.LevelError) {
			continue
		}

		entries = append(entries, Entry{
			Path:   pair.Path,
			Tokens: scanned.Results(),
			Value:  pair.Value,
			Null:   pair.Null,
		})
	}

	return entries, errs
}

// BuildPairs lexes pairs with lex and builds the tree.
func (b *Builder) BuildPairs(lex *lexer.Lexer, pairs []Pair) validation.Result[node.Node] {
	entries, errs := b.Lex(lex, pairs)

	if b.failFast && validation.HasLevel(errs, validation.LevelError) {
		return validation.Fail[node.Node](errs...)
	}

	built := b.Build(entries)
	errs = append(errs, built.Errors()...)

	root, ok := built.Value()
	if !ok {
		return validation.Fail[node.Node](errs...)
	}

	return validation.Ok(root, errs...)
}

// Build assembles entries into one tree. Without entries the tree is an empty map.
func (b *Builder) Build(entries []Entry) validation.Result[node.Node] {
	run := &buildRun{failFast: b.failFast, source: b.source, maxIndex: b.maxIndex}

	usable := make([]Entry, 0, len(entries))

	for _, entry := range entries {
		if len(entry.Tokens) == 0 {
			run.record(validation.New(validation.EmptyPath, entry.Path))

			continue
		}

		usable = append(usable, entry)
	}

	if len(usable) == 0 {
		return validation.Ok[node.Node](node.NewMap(nil), run.errs...)
	}

	root := run.build(usable, 0, nil, false)
	if run.aborted || root == nil {
		return validation.Fail[node.Node](run.errs...)
	}

	return validation.Ok(root, run.errs...)
}

type buildRun struct {
	failFast bool
	source   string
	maxIndex int
	errs     []validation.Error
	aborted  bool
}

func (r *buildRun) record(finding validation.Error) {
	r.errs = append(r.errs, finding.WithSource(r.source))

	if r.failFast && finding.Level == validation.LevelError {
		r.aborted = true
	}
}

// build returns the node for entries that share the first depth tokens.
// All entries are at least depth tokens long.
func (r *buildRun) build(entries []Entry, depth int, prefix []token.Token, inArray bool) node.Node {
	entries = r.resolveLength(entries, depth, prefix, inArray)
	if r.aborted {
		return nil
	}

	if len(entries[0].Tokens) == depth {
		return r.leaf(entries, prefix, inArray)
	}

	entries = r.resolveTokenType(entries, depth, prefix)
	if r.aborted {
		return nil
	}

	if _, isArray := entries[0].Tokens[depth].(token.Array); isArray {
		return r.array(entries, depth, prefix)
	}

	return r.object(entries, depth, prefix)
}

// resolveLength keeps either the entries ending at depth or the ones going
// deeper, whichever kind the first entry is.
func (r *buildRun) resolveLength(entries []Entry, depth int, prefix []token.Token, inArray bool) []Entry {
	firstIsLeaf := len(entries[0].Tokens) == depth
	kept := entries[:0:0]

	for _, entry := range entries {
		if (len(entry.Tokens) == depth) == firstIsLeaf {
			kept = append(kept, entry)

			continue
		}

		r.record(r.lengthConflict(entry, prefix, inArray))

		if r.aborted {
			return nil
		}
	}

	return kept
}

func (r *buildRun) lengthConflict(entry Entry, prefix []token.Token, inArray bool) validation.Error {
	path := token.Path(prefix)

	if inArray {
		index := prefix[len(prefix)-1].(token.Array).Index //nolint:forcetypeassert // inArray implies an array token

		return validation.New(validation.ArrayLeafAndNotLeaf, path).WithIndex(index).WithElement(entry.Path)
	}

	return validation.New(validation.MismatchedPathLength, path).WithElement(entry.Path)
}

// resolveTokenType keeps the entries whose token at depth has the same type
// as the first entry's.
func (r *buildRun) resolveTokenType(entries []Entry, depth int, prefix []token.Token) []Entry {
	firstType := tokenType(entries[0].Tokens[depth])
	kept := entries[:0:0]

	for _, entry := range entries {
		entryType := tokenType(entry.Tokens[depth])
		if entryType == firstType {
			kept = append(kept, entry)

			continue
		}

		r.record(validation.New(validation.MismatchedTokenTypes, token.Path(prefix)).
			WithKinds(firstType, entryType).
			WithElement(entry.Path))

		if r.aborted {
			return nil
		}
	}

	return kept
}

func tokenType(tok token.Token) string {
	if _, isArray := tok.(token.Array); isArray {
		return "array"
	}

	return "object"
}

func (r *buildRun) leaf(entries []Entry, prefix []token.Token, inArray bool) node.Node {
	for _, duplicate := range entries[1:] {
		path := token.Path(prefix)

		if inArray {
			index := prefix[len(prefix)-1].(token.Array).Index //nolint:forcetypeassert // inArray implies an array token
			r.record(validation.New(validation.ArrayDuplicateIndex, path).WithIndex(index).WithValue(duplicate.Value))
		} else {
			r.record(validation.New(validation.DuplicatePath, path).WithValue(duplicate.Value))
		}

		if r.aborted {
			return nil
		}
	}

	return entries[0].leaf()
}

func (r *buildRun) object(entries []Entry, depth int, prefix []token.Token) node.Node {
	var order []string

	groups := make(map[string][]Entry)

	for _, entry := range entries {
		key := objectKey(entry.Tokens[depth])
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}

		groups[key] = append(groups[key], entry)
	}

	children := make(map[string]node.Node, len(order))

	for _, key := range order {
		child := r.build(groups[key], depth+1, token.Append(prefix, token.Object{Name: key}), false)
		if r.aborted {
			return nil
		}

		children[key] = child
	}

	return node.NewMap(children)
}

func objectKey(tok token.Token) string {
	switch typed := tok.(type) {
	case token.Object:
		return typed.Name
	case token.MapKey:
		return typed.Key
	default:
		return tok.String()
	}
}

func (r *buildRun) array(entries []Entry, depth int, prefix []token.Token) node.Node {
	var order []int

	groups := make(map[int][]Entry)
	size := 0

	for _, entry := range entries {
		index := entry.Tokens[depth].(token.Array).Index //nolint:forcetypeassert // checked by resolveTokenType
		if index < 0 || index > r.maxIndex {
			r.record(validation.New(validation.ArrayIndexOutOfRange, entry.Path).
				WithElement(token.Path(token.Append(prefix, token.Array{Index: index}))).
				WithValue(strconv.Itoa(index)).
				WithIndex(r.maxIndex))

			if r.aborted {
				return nil
			}

			continue
		}

		if _, seen := groups[index]; !seen {
			order = append(order, index)
		}

		groups[index] = append(groups[index], entry)
		size = max(size, index+1)
	}

	children := make([]node.Node, size)

	for _, index := range order {
		child := r.build(groups[index], depth+1, token.Append(prefix, token.Array{Index: index}), true)
		if r.aborted {
			return nil
		}

		children[index] = child
	}

	path := token.Path(prefix)

	for index, child := range children {
		if child == nil {
			r.record(validation.New(validation.ArrayMissingIndex, path).WithIndex(index))
		}
	}

	return node.NewArray(children)
}

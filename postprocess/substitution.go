package postprocess

import (
	"strings"

	"github.com/0xalexb/hjarta-config/node"
	"github.com/0xalexb/hjarta-config/validation"
)

// DefaultMaxDepth bounds nested substitutions.
const DefaultMaxDepth = 5

const (
	openToken    = "${"
	escapedOpen  = `\${`
	closeToken   = '}'
	defaultToken = ":="
)

// Substitution expands ${...} expressions in leaf values.
type Substitution struct {
	transformers map[string]Transformer
	order        []string
	maxDepth     int
}

// SubstitutionOption configures a Substitution.
type SubstitutionOption func(*Substitution)

// WithMaxDepth overrides DefaultMaxDepth.
func WithMaxDepth(depth int) SubstitutionOption {
	return func(s *Substitution) {
		s.maxDepth = depth
	}
}

// NewSubstitution builds the processor. Expressions without a transformer
// name try the transformers in the given order.
func NewSubstitution(transformers []Transformer, opts ...SubstitutionOption) *Substitution {
	s := &Substitution{
		transformers: make(map[string]Transformer, len(transformers)),
		maxDepth:     DefaultMaxDepth,
	}

	for _, transformer := range transformers {
		if _, exists := s.transformers[transformer.Name()]; !exists {
			s.order = append(s.order, transformer.Name())
		}

		s.transformers[transformer.Name()] = transformer
	}

	for _, apply := range opts {
		apply(s)
	}

	return s
}

// Name returns "substitution".
func (*Substitution) Name() string { return "substitution" }

// Process expands the value of a leaf. Other nodes are returned unchanged.
func (s *Substitution) Process(scope Scope, path string, current node.Node) validation.Result[node.Node] {
	leaf, ok := current.(node.Leaf)
	if !ok {
		return validation.Ok(current)
	}

	value, present := leaf.Value()
	if !present || (!strings.Contains(value, openToken)) {
		return validation.Ok(current)
	}

	expanded, errs := s.expand(scope, path, value, 0)

	return validation.Ok[node.Node](node.NewLeaf(expanded), errs...)
}

func (s *Substitution) expand(scope Scope, path, text string, depth int) (string, []validation.Error) {
	if depth > s.maxDepth {
		return text, []validation.Error{
			validation.New(validation.ExceededMaximumNestedSubstitutionDepth, path).WithIndex(s.maxDepth),
		}
	}

	var (
		out  strings.Builder
		errs []validation.Error
	)

	for pos := 0; pos < len(text); {
		switch {
		case strings.HasPrefix(text[pos:], escapedOpen):
			out.WriteString(openToken)

			pos += len(escapedOpen)
		case strings.HasPrefix(text[pos:], openToken):
			end := closingBrace(text, pos+len(openToken))
			if end < 0 {
				errs = append(errs, validation.New(validation.InvalidSubstitution, path).WithValue(text[pos:]))
				out.WriteString(text[pos:])

				return out.String(), errs
			}

			resolved, exprErrs := s.substitute(scope, path, text[pos+len(openToken):end], depth)
			errs = append(errs, exprErrs...)

			if resolved == nil {
				out.WriteString(text[pos : end+1])
			} else {
				out.WriteString(*resolved)
			}

			pos = end + 1
		default:
			out.WriteByte(text[pos])

			pos++
		}
	}

	return out.String(), errs
}

// substitute resolves one expression body. Nil means the expression is kept verbatim.
func (s *Substitution) substitute(scope Scope, path, body string, depth int) (*string, []validation.Error) {
	expression, errs := s.expand(scope, path, body, depth+1)
	if validation.HasLevel(errs, validation.LevelError) {
		return nil, errs
	}

	value, findings := s.evaluate(scope, path, expression)
	errs = append(errs, findings...)

	if value == nil {
		return nil, errs
	}

	expanded, nested := s.expand(scope, path, *value, depth+1)
	errs = append(errs, nested...)

	return &expanded, errs
}

func (s *Substitution) evaluate(scope Scope, path, expression string) (*string, []validation.Error) {
	expression, fallback, hasDefault := strings.Cut(expression, defaultToken)

	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, []validation.Error{validation.New(validation.InvalidSubstitution, path).WithValue(openToken + "}")}
	}

	names := s.order
	key := expression

	if name, rest, found := strings.Cut(expression, ":"); found {
		if _, known := s.transformers[name]; !known {
			return nil, []validation.Error{validation.New(validation.NoTransformerFound, path).WithElement(name)}
		}

		names = []string{name}
		key = rest
	}

	for _, name := range names {
		if value, ok := s.transformers[name].Transform(scope, key); ok {
			return &value, nil
		}
	}

	if hasDefault {
		return &fallback, nil
	}

	return nil, []validation.Error{
		validation.New(validation.SubstitutionMissingValue, path).
			WithElement(strings.Join(names, ",")).
			WithValue(key),
	}
}

// closingBrace returns the index of the brace closing an expression whose
// body starts at start, or -1.
func closingBrace(text string, start int) int {
	depth := 0

	for pos := start; pos < len(text); pos++ {
		switch {
		case strings.HasPrefix(text[pos:], openToken):
			depth++
			pos++
		case text[pos] == closeToken && depth == 0:
			return pos
		case text[pos] == closeToken:
			depth--
		}
	}

	return -1
}

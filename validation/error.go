package validation

import (
	"fmt"
	"strings"
)

// Error is a single finding. The zero value of each optional field means the
// field does not apply to the kind.
type Error struct {
	Kind  Kind
	Level Level
	// Path is the full path being processed when the finding was raised.
	Path string
	// Element is the offending path word, key or token.
	Element string
	// Value is the offending raw value.
	Value string
	// Index is the array position involved, or -1.
	Index int
	// Expected and Actual name node or token kinds for mismatches.
	Expected string
	Actual   string
	// Source identifies the configuration source, if known.
	Source string
}

// New returns a finding of the given kind at path, with the kind's default level.
func New(kind Kind, path string) Error {
	return Error{
		Kind:  kind,
		Level: kind.DefaultLevel(),
		Path:  path,
		Index: -1,
	}
}

// WithLevel returns a copy of e with the level replaced.
func (e Error) WithLevel(level Level) Error {
	e.Level = level

	return e
}

// WithElement returns a copy of e with the offending element set.
func (e Error) WithElement(element string) Error {
	e.Element = element

	return e
}

// WithValue returns a copy of e with the offending value set.
func (e Error) WithValue(value string) Error {
	e.Value = value

	return e
}

// WithIndex returns a copy of e with the array index set.
func (e Error) WithIndex(index int) Error {
	e.Index = index

	return e
}

// WithKinds returns a copy of e with the expected and actual kinds set.
func (e Error) WithKinds(expected, actual string) Error {
	e.Expected = expected
	e.Actual = actual

	return e
}

// WithSource returns a copy of e attributed to source.
func (e Error) WithSource(source string) Error {
	e.Source = source

	return e
}

// Error implements the error interface.
func (e Error) Error() string {
	msg := e.Message()
	if e.Source != "" {
		msg += fmt.Sprintf(" (source: %s)", e.Source)
	}

	return msg
}

// Message renders the human-readable text for the finding.
//
//nolint:cyclop,funlen // one case per kind
func (e Error) Message() string {
	switch e.Kind {
	case EmptyPath:
		return "empty path provided"
	case EmptyElement:
		return fmt.Sprintf("empty element in path %q", e.Path)
	case FailedToTokenizeElement:
		return fmt.Sprintf("unable to tokenize element %q for path %q", e.Element, e.Path)
	case UnableToParseName:
		return fmt.Sprintf("unable to parse a name from element %q for path %q", e.Element, e.Path)
	case ArrayIndexMissing:
		return fmt.Sprintf("array index missing from element %q for path %q", e.Element, e.Path)
	case ArrayIndexNotNumeric:
		return fmt.Sprintf("array index %q is not a number in element %q for path %q", e.Value, e.Element, e.Path)
	case ArrayIndexNegative:
		return fmt.Sprintf("array index %s is negative in element %q for path %q", e.Value, e.Element, e.Path)
	case ArrayIndexOutOfRange:
		return fmt.Sprintf("array index %s exceeds the maximum %d in element %q for path %q",
			e.Value, e.Index, e.Element, e.Path)
	case MismatchedPathLength:
		return fmt.Sprintf("path %q is used both as a leaf and as a container, entry %q ignored", e.Path, e.Element)
	case ArrayLeafAndNotLeaf:
		return fmt.Sprintf("array element %d at path %q is both a leaf and a container, entry %q ignored",
			e.Index, e.Path, e.Element)
	case MismatchedTokenTypes:
		return fmt.Sprintf("path %q is used as both %s and %s, entry %q ignored", e.Path, e.Expected, e.Actual, e.Element)
	case ArrayDuplicateIndex:
		return fmt.Sprintf("duplicate array index %d at path %q, value %q ignored", e.Index, e.Path, e.Value)
	case DuplicatePath:
		return fmt.Sprintf("duplicate path %q, value %q ignored", e.Path, e.Value)
	case ArrayMissingIndex:
		return fmt.Sprintf("missing array index %d at path %q", e.Index, e.Path)
	case UnableToMergeDifferentNodes:
		return fmt.Sprintf("unable to merge %s with %s at path %q, the %s wins", e.Expected, e.Actual, e.Path, e.Actual)
	case NoResultsFoundForPath:
		return fmt.Sprintf("no results found for path %q", e.Path)
	case UnableToFindObjectNodeForPath:
		return fmt.Sprintf("unable to find key %q for path %q", e.Element, e.Path)
	case UnableToFindArrayNodeForPath:
		return fmt.Sprintf("unable to find array index %d for path %q", e.Index, e.Path)
	case MismatchedObjectNodeForPath:
		return fmt.Sprintf("expected a map at %q for path %q but found %s", e.Element, e.Path, e.Actual)
	case MismatchedArrayNodeForPath:
		return fmt.Sprintf("expected an array at index %d for path %q but found %s", e.Index, e.Path, e.Actual)
	case UnsupportedToken:
		return fmt.Sprintf("unsupported token %s for path %q", e.Element, e.Path)
	case NoResultsFoundForTags:
		return fmt.Sprintf("no configuration tree matches tags %s for path %q", e.Element, e.Path)
	case NoTransformerFound:
		return fmt.Sprintf("no transformer %q found for path %q", e.Element, e.Path)
	case InvalidSubstitution:
		return fmt.Sprintf("invalid substitution %q for path %q", e.Value, e.Path)
	case SubstitutionMissingValue:
		return fmt.Sprintf("no value for key %q from transformer %q for path %q", e.Value, e.Element, e.Path)
	case ExceededMaximumNestedSubstitutionDepth:
		return fmt.Sprintf("exceeded maximum nested substitution depth %d for path %q", e.Index, e.Path)
	case PostProcessorFailed:
		return fmt.Sprintf("post processor %q failed for path %q: %s", e.Element, e.Path, e.Value)
	case UnknownContainer:
		return fmt.Sprintf("unknown configuration container %q", e.Element)
	case UnknownKind:
		return fmt.Sprintf("unknown finding for path %q", e.Path)
	default:
		return fmt.Sprintf("%s for path %q", e.Kind, e.Path)
	}
}

// Format renders findings one per line prefixed with their level.
func Format(errs []Error) string {
	var builder strings.Builder

	for i, finding := range errs {
		if i > 0 {
			builder.WriteByte('\n')
		}

		builder.WriteString(" - level: ")
		builder.WriteString(finding.Level.String())
		builder.WriteString(", message: ")
		builder.WriteString(finding.Error())
	}

	return builder.String()
}

package validation

// Level is the severity attached to a finding.
type Level int

const (
	// LevelError marks a finding that invalidates the affected unit.
	LevelError Level = iota
	// LevelWarn marks a recoverable finding.
	LevelWarn
	// LevelMissingValue marks a lookup that found nothing at a path.
	LevelMissingValue
	// LevelDebug marks purely informational findings.
	LevelDebug
)

// String returns the upper-case level name.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelMissingValue:
		return "MISSING_VALUE"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// Kind identifies the condition a finding reports.
type Kind int

// Lexing findings.
const (
	UnknownKind Kind = iota
	EmptyPath
	EmptyElement
	FailedToTokenizeElement
	UnableToParseName
	ArrayIndexMissing
	ArrayIndexNotNumeric
	ArrayIndexNegative
	ArrayIndexOutOfRange
)

// Structural findings raised by the tree builder and the merge engine.
const (
	MismatchedPathLength Kind = iota + 100
	ArrayLeafAndNotLeaf
	MismatchedTokenTypes
	ArrayDuplicateIndex
	DuplicatePath
	ArrayMissingIndex
	UnableToMergeDifferentNodes
)

// Navigation findings.
const (
	NoResultsFoundForPath Kind = iota + 200
	UnableToFindObjectNodeForPath
	UnableToFindArrayNodeForPath
	MismatchedObjectNodeForPath
	MismatchedArrayNodeForPath
	UnsupportedToken
	NoResultsFoundForTags
)

// Post-processing and orchestration findings.
const (
	NoTransformerFound Kind = iota + 300
	InvalidSubstitution
	SubstitutionMissingValue
	ExceededMaximumNestedSubstitutionDepth
	PostProcessorFailed
	UnknownContainer
)

var kindNames = map[Kind]string{
	UnknownKind:                            "UnknownKind",
	EmptyPath:                              "EmptyPath",
	EmptyElement:                           "EmptyElement",
	FailedToTokenizeElement:                "FailedToTokenizeElement",
	UnableToParseName:                      "UnableToParseName",
	ArrayIndexMissing:                      "ArrayIndexMissing",
	ArrayIndexNotNumeric:                   "ArrayIndexNotNumeric",
	ArrayIndexNegative:                     "ArrayIndexNegative",
	ArrayIndexOutOfRange:                   "ArrayIndexOutOfRange",
	MismatchedPathLength:                   "MismatchedPathLength",
	ArrayLeafAndNotLeaf:                    "ArrayLeafAndNotLeaf",
	MismatchedTokenTypes:                   "MismatchedTokenTypes",
	ArrayDuplicateIndex:                    "ArrayDuplicateIndex",
	DuplicatePath:                          "DuplicatePath",
	ArrayMissingIndex:                      "ArrayMissingIndex",
	UnableToMergeDifferentNodes:            "UnableToMergeDifferentNodes",
	NoResultsFoundForPath:                  "NoResultsFoundForPath",
	UnableToFindObjectNodeForPath:          "UnableToFindObjectNodeForPath",
	UnableToFindArrayNodeForPath:           "UnableToFindArrayNodeForPath",
	MismatchedObjectNodeForPath:            "MismatchedObjectNodeForPath",
	MismatchedArrayNodeForPath:             "MismatchedArrayNodeForPath",
	UnsupportedToken:                       "UnsupportedToken",
	NoResultsFoundForTags:                  "NoResultsFoundForTags",
	NoTransformerFound:                     "NoTransformerFound",
	InvalidSubstitution:                    "InvalidSubstitution",
	SubstitutionMissingValue:               "SubstitutionMissingValue",
	ExceededMaximumNestedSubstitutionDepth: "ExceededMaximumNestedSubstitutionDepth",
	PostProcessorFailed:                    "PostProcessorFailed",
	UnknownContainer:                       "UnknownContainer",
}

// String returns the kind name.
func (k Kind) String() string {
	name, ok := kindNames[k]
	if !ok {
		return kindNames[UnknownKind]
	}

	return name
}

// DefaultLevel is the level New assigns to a finding of this kind.
func (k Kind) DefaultLevel() Level {
	switch k {
	case EmptyPath, EmptyElement, DuplicatePath, ArrayMissingIndex:
		return LevelWarn
	case NoResultsFoundForPath, UnableToFindObjectNodeForPath, UnableToFindArrayNodeForPath, NoResultsFoundForTags:
		return LevelMissingValue
	default:
		return LevelError
	}
}

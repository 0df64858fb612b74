// Package validation describes the findings produced while lexing, building,
// merging, navigating and post-processing configuration trees.
//
// Every finding is a single Error value tagged with a Kind and a Level. There is
// one Kind per failure condition and the message is rendered from the Kind and
// the structured fields, so callers match on Kind rather than on error types:
//
//	for _, finding := range result.Errors() {
//	    if finding.Kind == validation.ArrayMissingIndex {
//	        ...
//	    }
//	}
//
// Operations return a Result that can carry a value and findings at the same
// time. HasResults and HasErrors are independent, and Policy decides which
// findings are fatal for a caller.
package validation

// Package builder assembles the configuration tree of a single source.
//
// A source is reduced to a list of entries, each a token sequence and a raw
// value. Build walks the entries level by level, creating maps for object
// tokens and arrays for array tokens and placing a leaf at the end of every
// sequence.
//
// Conflicts keep the interpretation of the entry seen first and report the
// others:
//
//	a.b = x
//	a   = y   -> MismatchedPathLength, "a" stays a map
//
// Gaps in array indices become absent positions reported as
// ArrayMissingIndex warnings, and two leaves at the same index are reported as
// ArrayDuplicateIndex. With WithFailFast the first error-level finding aborts
// the build and no tree is returned.
package builder

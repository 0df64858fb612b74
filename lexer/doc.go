// Package lexer turns configuration path strings into tokens.
//
// A path is normalized (lower-cased by default), split on a delimiter into
// words, and every word is matched against a pattern with three named groups:
//
//	name   the field name, required
//	array  the bracketed array suffix, optional
//	index  the digits inside the brackets
//
// Each word yields an object token and, when it carries an array suffix, an
// array token. Words are evaluated independently: a bad word is reported and
// skipped while the remaining words still produce tokens.
//
//	result := lexer.Default().Scan("db.hosts[2].user")
//	tokens := result.Results() // db, hosts, [2], user
package lexer

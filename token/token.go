// Package token defines the parsed elements of a configuration path.
//
// A Token is one of Object, Array or MapKey. The set is closed: the interface
// has an unexported method, so consumers switch over the three types.
package token

import (
	"strconv"
	"strings"
)

// Token is one parsed element of a path.
type Token interface {
	token()
	String() string
}

// Object addresses a named field of a map node.
type Object struct {
	Name string
}

// Array addresses a position of an array node.
type Array struct {
	Index int
}

// MapKey addresses a map entry by its literal, already normalized key.
type MapKey struct {
	Key string
}

func (Object) token() {}
func (Array) token()  {}
func (MapKey) token() {}

// String returns the object name.
func (t Object) String() string { return t.Name }

// String returns the index in brackets.
func (t Array) String() string { return "[" + strconv.Itoa(t.Index) + "]" }

// String returns the key in quoted brackets.
func (t MapKey) String() string { return "['" + t.Key + "']" }

// Render builds the path string for tokens using delimiter between named
// elements. Array and map-key tokens attach to the preceding element.
func Render(tokens []Token, delimiter string) string {
	var builder strings.Builder

	for i, tok := range tokens {
		if _, isObject := tok.(Object); isObject && i > 0 {
			builder.WriteString(delimiter)
		}

		builder.WriteString(tok.String())
	}

	return builder.String()
}

// Path renders tokens with the default "." delimiter.
func Path(tokens []Token) string {
	return Render(tokens, ".")
}

// Append returns a new slice holding tokens followed by tok. The input is not
// modified.
func Append(tokens []Token, tok Token) []Token {
	out := make([]Token, len(tokens), len(tokens)+1)
	copy(out, tokens)

	return append(out, tok)
}

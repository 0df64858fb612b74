package token_test

import (
	"testing"

	"github.com/0xalexb/hjarta-config/token"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		tokens   []token.Token
		expected string
	}{
		{"empty", nil, ""},
		{"single object", []token.Token{token.Object{Name: "db"}}, "db"},
		{
			name: "objects and arrays",
			tokens: []token.Token{
				token.Object{Name: "db"},
				token.Object{Name: "hosts"},
				token.Array{Index: 2},
				token.Object{Name: "user"},
			},
			expected: "db.hosts[2].user",
		},
		{"leading array", []token.Token{token.Array{Index: 0}, token.Object{Name: "a"}}, "[0].a"},
		{"map key", []token.Token{token.Object{Name: "labels"}, token.MapKey{Key: "app"}}, "labels['app']"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expected, token.Path(testCase.tokens))
		})
	}
}

func TestRender_CustomDelimiter(t *testing.T) {
	t.Parallel()

	tokens := []token.Token{token.Object{Name: "db"}, token.Array{Index: 1}, token.Object{Name: "port"}}

	assert.Equal(t, "db[1]_port", token.Render(tokens, "_"))
}

func TestAppend_DoesNotAlias(t *testing.T) {
	t.Parallel()

	base := make([]token.Token, 1, 4)
	base[0] = token.Object{Name: "a"}

	first := token.Append(base, token.Object{Name: "b"})
	second := token.Append(base, token.Object{Name: "c"})

	assert.Equal(t, "a.b", token.Path(first))
	assert.Equal(t, "a.c", token.Path(second))
	assert.Len(t, base, 1)
}

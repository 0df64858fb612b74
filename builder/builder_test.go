package builder_test

import (
	"math"
	"testing"

	"github.com/0xalexb/hjarta-config/builder"
	"github.com/0xalexb/hjarta-config/lexer"
	"github.com/0xalexb/hjarta-config/node"
	"github.com/0xalexb/hjarta-config/token"
	"github.com/0xalexb/hjarta-config/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, opts []builder.Option, pairs ...builder.Pair) validation.Result[node.Node] {
	t.Helper()

	return builder.New(opts...).BuildPairs(lexer.Default(), pairs)
}

func leaf(value string) node.Node {
	return node.NewLeaf(value)
}

func kinds(errs []validation.Error) []validation.Kind {
	out := make([]validation.Kind, len(errs))
	for i, finding := range errs {
		out[i] = finding.Kind
	}

	return out
}

func TestBuild_NestedMapsAndArrays(t *testing.T) {
	t.Parallel()

	result := build(t, nil,
		builder.Pair{Path: "db.hosts[0].user", Value: "a"},
		builder.Pair{Path: "db.hosts[1].user", Value: "b"},
		builder.Pair{Path: "db.name", Value: "main"},
		builder.Pair{Path: "Debug", Null: true},
	)

	require.True(t, result.HasResults())
	assert.False(t, result.HasErrors())

	expected := node.NewMap(map[string]node.Node{
		"db": node.NewMap(map[string]node.Node{
			"hosts": node.NewArray([]node.Node{
				node.NewMap(map[string]node.Node{"user": leaf("a")}),
				node.NewMap(map[string]node.Node{"user": leaf("b")}),
			}),
			"name": leaf("main"),
		}),
		"debug": node.NullLeaf(),
	})

	assert.True(t, node.Equal(expected, result.Results()), result.Results().String())
}

func TestBuild_NoPairsIsEmptyMap(t *testing.T) {
	t.Parallel()

	result := build(t, nil)

	require.True(t, result.HasResults())
	assert.True(t, node.Equal(node.NewMap(nil), result.Results()))
}

func TestBuild_LeafAndContainerConflict(t *testing.T) {
	t.Parallel()

	result := build(t, nil,
		builder.Pair{Path: "a.b", Value: "x"},
		builder.Pair{Path: "a", Value: "y"},
	)

	require.True(t, result.HasResults())
	require.Equal(t, []validation.Kind{validation.MismatchedPathLength}, kinds(result.Errors()))
	assert.Equal(t, validation.LevelError, result.Errors()[0].Level)
	assert.Equal(t, "a", result.Errors()[0].Path)

	expected := node.NewMap(map[string]node.Node{
		"a": node.NewMap(map[string]node.Node{"b": leaf("x")}),
	})
	assert.True(t, node.Equal(expected, result.Results()))
}

func TestBuild_LeafFirstWins(t *testing.T) {
	t.Parallel()

	result := build(t, nil,
		builder.Pair{Path: "a", Value: "y"},
		builder.Pair{Path: "a.b", Value: "x"},
	)

	require.True(t, result.HasResults())
	assert.Equal(t, []validation.Kind{validation.MismatchedPathLength}, kinds(result.Errors()))
	assert.True(t, node.Equal(node.NewMap(map[string]node.Node{"a": leaf("y")}), result.Results()))
}

func TestBuild_FailFastAborts(t *testing.T) {
	t.Parallel()

	result := build(t, []builder.Option{builder.WithFailFast(true)},
		builder.Pair{Path: "a.b", Value: "x"},
		builder.Pair{Path: "a", Value: "y"},
		builder.Pair{Path: "c", Value: "z"},
	)

	assert.False(t, result.HasResults())
	assert.Equal(t, []validation.Kind{validation.MismatchedPathLength}, kinds(result.Errors()))
}

func TestBuild_SparseArray(t *testing.T) {
	t.Parallel()

	result := build(t, nil,
		builder.Pair{Path: "list[0]", Value: "a"},
		builder.Pair{Path: "list[3]", Value: "d"},
	)

	require.True(t, result.HasResults())
	require.Equal(t,
		[]validation.Kind{validation.ArrayMissingIndex, validation.ArrayMissingIndex},
		kinds(result.Errors()))
	assert.Equal(t, 1, result.Errors()[0].Index)
	assert.Equal(t, 2, result.Errors()[1].Index)
	assert.Equal(t, validation.LevelWarn, result.Errors()[0].Level)
	assert.Equal(t, "list", result.Errors()[0].Path)

	list, ok := result.Results().(node.Map).Get("list")
	require.True(t, ok)
	assert.Equal(t, 4, list.(node.Array).Len())
	assert.Equal(t, []int{1, 2}, list.(node.Array).Missing())
}

func TestBuild_ArrayFindings(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		pairs []builder.Pair
		kind  validation.Kind
	}{
		{
			name: "duplicate index",
			pairs: []builder.Pair{
				{Path: "a[0]", Value: "x"},
				{Path: "a[0]", Value: "y"},
			},
			kind: validation.ArrayDuplicateIndex,
		},
		{
			name: "leaf and container at one index",
			pairs: []builder.Pair{
				{Path: "a[0]", Value: "x"},
				{Path: "a[0].b", Value: "y"},
			},
			kind: validation.ArrayLeafAndNotLeaf,
		},
		{
			name: "array and object at one path",
			pairs: []builder.Pair{
				{Path: "a[0]", Value: "x"},
				{Path: "a.b", Value: "y"},
			},
			kind: validation.MismatchedTokenTypes,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			result := build(t, nil, testCase.pairs...)

			require.True(t, result.HasResults())
			require.Equal(t, []validation.Kind{testCase.kind}, kinds(result.Errors()))

			expected := node.NewMap(map[string]node.Node{
				"a": node.NewArray([]node.Node{leaf("x")}),
			})
			assert.True(t, node.Equal(expected, result.Results()), result.Results().String())
		})
	}
}

func TestBuild_DuplicateObjectPathKeepsFirst(t *testing.T) {
	t.Parallel()

	result := build(t, nil,
		builder.Pair{Path: "a", Value: "first"},
		builder.Pair{Path: "A", Value: "second"},
	)

	require.Equal(t, []validation.Kind{validation.DuplicatePath}, kinds(result.Errors()))
	assert.Equal(t, validation.LevelWarn, result.Errors()[0].Level)
	assert.True(t, node.Equal(node.NewMap(map[string]node.Node{"a": leaf("first")}), result.Results()))
}

func TestBuildPairs_BadPathIsLocalized(t *testing.T) {
	t.Parallel()

	result := build(t, []builder.Option{builder.WithSource("app.properties")},
		builder.Pair{Path: "a[x]", Value: "bad"},
		builder.Pair{Path: "b", Value: "good"},
	)

	require.True(t, result.HasResults())
	require.Equal(t, []validation.Kind{validation.ArrayIndexNotNumeric}, kinds(result.Errors()))
	assert.Equal(t, "app.properties", result.Errors()[0].Source)
	assert.True(t, node.Equal(node.NewMap(map[string]node.Node{"b": leaf("good")}), result.Results()))
}

func TestBuildPairs_FailFastOnLexingError(t *testing.T) {
	t.Parallel()

	result := build(t, []builder.Option{builder.WithFailFast(true)},
		builder.Pair{Path: "a[x]", Value: "bad"},
		builder.Pair{Path: "b", Value: "good"},
	)

	assert.False(t, result.HasResults())
	assert.True(t, result.HasErrors())
}

func TestBuildPairs_EmptyElementIsKept(t *testing.T) {
	t.Parallel()

	result := build(t, nil, builder.Pair{Path: "a..b", Value: "v"})

	require.True(t, result.HasResults())
	assert.Equal(t, []validation.Kind{validation.EmptyElement}, kinds(result.Errors()))

	expected := node.NewMap(map[string]node.Node{"a": node.NewMap(map[string]node.Node{"b": leaf("v")})})
	assert.True(t, node.Equal(expected, result.Results()))
}

func TestBuildPairs_HugeIndexIsLocalized(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"a[9223372036854775807]", "a[5000000]"} {
		t.Run(path, func(t *testing.T) {
			t.Parallel()

			result := build(t, nil,
				builder.Pair{Path: path, Value: "x"},
				builder.Pair{Path: "b", Value: "good"},
			)

			require.True(t, result.HasResults())
			require.Equal(t, []validation.Kind{validation.ArrayIndexOutOfRange}, kinds(result.Errors()))
			assert.True(t, node.Equal(node.NewMap(map[string]node.Node{"b": leaf("good")}), result.Results()))
		})
	}
}

func TestBuild_IndexAboveMaximumIsDropped(t *testing.T) {
	t.Parallel()

	entries := []builder.Entry{
		{Path: "a[0]", Tokens: []token.Token{token.Object{Name: "a"}, token.Array{Index: 0}}, Value: "x"},
		{Path: "a[1]", Tokens: []token.Token{token.Object{Name: "a"}, token.Array{Index: 1}}, Value: "y"},
		{Path: "a[max]", Tokens: []token.Token{token.Object{Name: "a"}, token.Array{Index: math.MaxInt}}, Value: "z"},
	}

	testCases := []struct {
		name     string
		opts     []builder.Option
		expected node.Node
	}{
		{
			name:     "default maximum",
			expected: node.NewArray([]node.Node{leaf("x"), leaf("y")}),
		},
		{
			name:     "lower maximum",
			opts:     []builder.Option{builder.WithMaxIndex(0)},
			expected: node.NewArray([]node.Node{leaf("x")}),
		},
		{
			name:     "maximum is clamped below MaxInt",
			opts:     []builder.Option{builder.WithMaxIndex(math.MaxInt)},
			expected: node.NewArray([]node.Node{leaf("x"), leaf("y")}),
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			result := builder.New(testCase.opts...).Build(entries)

			require.True(t, result.HasResults())
			assert.Contains(t, kinds(result.Errors()), validation.ArrayIndexOutOfRange)
			assert.NotContains(t, kinds(result.Errors()), validation.ArrayMissingIndex)

			expected := node.NewMap(map[string]node.Node{"a": testCase.expected})
			assert.True(t, node.Equal(expected, result.Results()), result.Results().String())
		})
	}
}

func TestBuild_IndexAboveMaximumFailsFast(t *testing.T) {
	t.Parallel()

	result := builder.New(builder.WithFailFast(true), builder.WithMaxIndex(1)).Build([]builder.Entry{
		{Path: "a[2]", Tokens: []token.Token{token.Object{Name: "a"}, token.Array{Index: 2}}, Value: "x"},
	})

	assert.False(t, result.HasResults())
	assert.Equal(t, []validation.Kind{validation.ArrayIndexOutOfRange}, kinds(result.Errors()))
}

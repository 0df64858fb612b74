package loader_test

import (
	"context"
	"errors"
	"testing"

	"github.com/0xalexb/hjarta-config/builder"
	"github.com/0xalexb/hjarta-config/lexer"
	"github.com/0xalexb/hjarta-config/loader"
	"github.com/0xalexb/hjarta-config/node"
	"github.com/0xalexb/hjarta-config/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFetch = errors.New("fetch failed")

type failingSource struct {
	*source.Static
}

func (failingSource) Fetch(context.Context) ([]byte, error) {
	return nil, errFetch
}

func TestRegistry_Resolve(t *testing.T) {
	t.Parallel()

	registry := loader.Default()

	tests := []struct {
		format string
		want   string
	}{
		{format: "yaml", want: "yaml"},
		{format: "YML", want: "yaml"},
		{format: "json", want: "json"},
		{format: "toml", want: "toml"},
		{format: "properties", want: "properties"},
		{format: source.FormatEnv, want: source.FormatEnv},
		{format: source.FormatMap, want: source.FormatMap},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			ld, err := registry.Resolve(tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ld.Name())
		})
	}

	_, err := registry.Resolve("hcl")
	require.ErrorIs(t, err, loader.ErrNoLoader)
	assert.Contains(t, err.Error(), "hcl")
}

func TestRegistry_LaterLoadersWin(t *testing.T) {
	t.Parallel()

	custom := &loader.Map{Formats: loader.Formats{"yaml"}}

	registry := loader.Default()
	registry.Register(custom)

	ld, err := registry.Resolve("yaml")
	require.NoError(t, err)
	assert.Same(t, custom, ld)

	_, err = loader.NewRegistry().Resolve("yaml")
	require.ErrorIs(t, err, loader.ErrNoLoader)
}

func TestLoaders_Documents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format string
		doc    string
		want   []builder.Pair
	}{
		{
			name:   "yaml",
			format: "yaml",
			doc:    "db:\n  hosts:\n    - user: a\n    - user: b\n  port: 5432\nname: ~\n",
			want: []builder.Pair{
				{Path: "db.hosts[0].user", Value: "a"},
				{Path: "db.hosts[1].user", Value: "b"},
				{Path: "db.port", Value: "5432"},
				{Path: "name", Null: true},
			},
		},
		{
			name:   "json keeps document order",
			format: "json",
			doc:    `{"z": 1.50, "a": {"list": ["x", true]}, "n": null}`,
			want: []builder.Pair{
				{Path: "z", Value: "1.50"},
				{Path: "a.list[0]", Value: "x"},
				{Path: "a.list[1]", Value: "true"},
				{Path: "n", Null: true},
			},
		},
		{
			name:   "toml",
			format: "toml",
			doc:    "title = \"demo\"\n\n[db]\nport = 5432\nhosts = [\"a\", \"b\"]\n",
			want: []builder.Pair{
				{Path: "db.hosts[0]", Value: "a"},
				{Path: "db.hosts[1]", Value: "b"},
				{Path: "db.port", Value: "5432"},
				{Path: "title", Value: "demo"},
			},
		},
		{
			name:   "properties keep file order and expressions",
			format: "properties",
			doc:    "db.host = localhost\ndb.url = jdbc://${db.host}\n# comment\nlist[0] = first\n",
			want: []builder.Pair{
				{Path: "db.host", Value: "localhost"},
				{Path: "db.url", Value: "jdbc://${db.host}"},
				{Path: "list[0]", Value: "first"},
			},
		},
		{name: "empty yaml", format: "yaml", doc: "  \n", want: nil},
		{name: "empty json", format: "json", doc: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ld, err := loader.Default().Resolve(tt.format)
			require.NoError(t, err)

			pairs, err := ld.Load(context.Background(), source.NewStatic(tt.name, tt.format, []byte(tt.doc)))
			require.NoError(t, err)
			assert.Equal(t, tt.want, pairs)
		})
	}
}

func TestLoaders_InvalidDocuments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		doc    string
	}{
		{format: "yaml", doc: "key: [unclosed"},
		{format: "json", doc: `{"key": `},
		{format: "toml", doc: "key = = value"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			ld, err := loader.Default().Resolve(tt.format)
			require.NoError(t, err)

			_, err = ld.Load(context.Background(), source.NewStatic("broken", tt.format, []byte(tt.doc)))
			require.ErrorIs(t, err, loader.ErrInvalidDocument)
			assert.Contains(t, err.Error(), "broken")
		})
	}
}

func TestLoaders_SourceKinds(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, err := loader.NewYAML().Load(ctx, source.NewMap("values", map[string]string{"a": "1"}))
	require.ErrorIs(t, err, loader.ErrUnsupportedSource)

	_, err = loader.NewMap().Load(ctx, source.NewStatic("doc", "yaml", []byte("a: 1")))
	require.ErrorIs(t, err, loader.ErrUnsupportedSource)

	_, err = loader.NewJSON().Load(ctx, failingSource{source.NewStatic("doc", "json", nil)})
	require.ErrorIs(t, err, errFetch)
}

func TestEnv_UsesEnvLexer(t *testing.T) {
	t.Parallel()

	env := source.NewEnv([]source.EnvOption{
		source.WithPrefix("APP", true),
		source.WithEnviron(func() []string { return []string{"APP_DB_HOST=db"} }),
	})

	ld := loader.NewEnv()
	assert.Equal(t, lexer.Env(), ld.Lexer())

	pairs, err := ld.Load(context.Background(), env)
	require.NoError(t, err)

	result := builder.New().BuildPairs(ld.Lexer(), pairs)
	require.True(t, result.HasResults())
	assert.Equal(t, map[string]any{"db": map[string]any{"host": "db"}}, node.ToValue(result.Results()))
}

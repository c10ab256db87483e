package fieldgroups_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grove-cms/grove/pkg/contentgraph"
	"github.com/grove-cms/grove/pkg/contentgraph/collection"
	"github.com/grove-cms/grove/pkg/contentgraph/fieldgroups"
	"github.com/grove-cms/grove/pkg/contentgraph/graphschema"
	"github.com/grove-cms/grove/pkg/contentgraph/normalize"
)

func newStore(t *testing.T, ct *contentgraph.ContentType, raws ...map[string]any) *contentgraph.Store {
	t.Helper()

	store, err := contentgraph.NewStore(ct,
		contentgraph.WithCollection(collection.New()),
		contentgraph.WithNormalizer(normalize.New()),
		contentgraph.WithLogger(slog.Default()),
	)
	require.NoError(t, err)
	for _, raw := range raws {
		_, err := store.AddNode(context.Background(), raw)
		require.NoError(t, err)
	}
	return store
}

func TestNodeFields(t *testing.T) {
	ctx := context.Background()

	authors := newStore(t, &contentgraph.ContentType{
		Name:        "Author",
		ExtraFields: map[string]contentgraph.FieldSpec{"name": {Type: "String"}},
	},
		map[string]any{"id": "a1", "name": "Ada"},
		map[string]any{"id": "a2", "name": "Grace"},
	)

	reg := graphschema.NewRegistry()
	require.NoError(t, reg.RegisterNodeType(authors))
	require.NoError(t, fieldgroups.Apply(reg, fieldgroups.NodeFields(reg)))
	reg.WireFieldResolvers()

	schema, err := reg.Build()
	require.NoError(t, err)

	t.Run("singular field finds one node by id", func(t *testing.T) {
		result := graphql.Do(graphql.Params{
			Schema:        schema,
			RequestString: `{ author(id: "a2") { name } }`,
			Context:       ctx,
		})
		require.Empty(t, result.Errors)
		author := result.Data.(map[string]any)["author"].(map[string]any)
		assert.Equal(t, "Grace", author["name"])
	})

	t.Run("plural field without ids returns every node", func(t *testing.T) {
		result := graphql.Do(graphql.Params{
			Schema:        schema,
			RequestString: `{ allAuthor { id } }`,
			Context:       ctx,
		})
		require.Empty(t, result.Errors)
		all := result.Data.(map[string]any)["allAuthor"].([]any)
		assert.Len(t, all, 2)
	})

	t.Run("plural field filters by scalar field equality", func(t *testing.T) {
		result := graphql.Do(graphql.Params{
			Schema:        schema,
			RequestString: `{ allAuthor(name: "Grace") { id } }`,
			Context:       ctx,
		})
		require.Empty(t, result.Errors)
		all := result.Data.(map[string]any)["allAuthor"].([]any)
		require.Len(t, all, 1)
		assert.Equal(t, "a2", all[0].(map[string]any)["id"])
	})

	t.Run("plural field with ids returns the selection", func(t *testing.T) {
		result := graphql.Do(graphql.Params{
			Schema:        schema,
			RequestString: `{ allAuthor(ids: ["a1"]) { name } }`,
			Context:       ctx,
		})
		require.Empty(t, result.Errors)
		all := result.Data.(map[string]any)["allAuthor"].([]any)
		require.Len(t, all, 1)
		assert.Equal(t, "Ada", all[0].(map[string]any)["name"])
	})
}

func TestMeta(t *testing.T) {
	authors := newStore(t, &contentgraph.ContentType{Name: "Author"},
		map[string]any{"id": "a1"},
	)
	posts := newStore(t, &contentgraph.ContentType{Name: "Post"},
		map[string]any{"id": "p1"},
		map[string]any{"id": "p2"},
	)

	reg := graphschema.NewRegistry()
	require.NoError(t, reg.RegisterNodeType(authors))
	require.NoError(t, reg.RegisterNodeType(posts))
	require.NoError(t, fieldgroups.Apply(reg, fieldgroups.NodeFields(reg), fieldgroups.Meta(reg)))
	reg.WireFieldResolvers()

	schema, err := reg.Build()
	require.NoError(t, err)

	result := graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: `{ contentTypes { name nodeCount } }`,
		Context:       context.Background(),
	})
	require.Empty(t, result.Errors)

	metas := result.Data.(map[string]any)["contentTypes"].([]any)
	require.Len(t, metas, 2)

	counts := make(map[string]int)
	for _, m := range metas {
		entry := m.(map[string]any)
		counts[entry["name"].(string)] = entry["nodeCount"].(int)
	}
	assert.Equal(t, map[string]int{"Author": 1, "Post": 2}, counts)
}

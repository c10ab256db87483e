package graphschema_test

import (
	"context"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grove-cms/grove/pkg/contentgraph"
	"github.com/grove-cms/grove/pkg/contentgraph/graphschema"
)

// buildFixture assembles the full phase sequence for a Post/Author graph and
// freezes it.
func buildFixture(t *testing.T) (*graphschema.Registry, graphql.Schema) {
	t.Helper()
	reg, authors, posts := wiringFixture(t)

	root := map[string]*graphschema.Field{
		"post": {
			Name: "post",
			Type: graphschema.TypeRef{Named: "Post"},
			Args: map[string]graphschema.Argument{
				"id": {Type: graphschema.TypeRef{Named: "ID"}},
			},
			Resolver: graphschema.FindOneResolver(posts),
		},
		"allAuthor": {
			Name:     "allAuthor",
			Type:     graphschema.TypeRef{Named: "Author", List: true},
			Resolver: graphschema.FindManyResolver(authors),
		},
	}
	require.NoError(t, reg.AddRootFields(root))

	reg.WireFieldResolvers()
	schema, err := reg.Build()
	require.NoError(t, err)
	return reg, schema
}

func TestBuild_EndToEnd(t *testing.T) {
	_, schema := buildFixture(t)

	t.Run("reference field yields the referenced node", func(t *testing.T) {
		result := graphql.Do(graphql.Params{
			Schema:        schema,
			RequestString: `{ post(id: "p1") { id author { id name } } }`,
			Context:       context.Background(),
		})
		require.Empty(t, result.Errors)

		data := result.Data.(map[string]any)
		post := data["post"].(map[string]any)
		assert.Equal(t, "p1", post["id"])

		author := post["author"].(map[string]any)
		assert.Equal(t, "a1", author["id"])
		assert.Equal(t, "Ada", author["name"])
	})

	t.Run("list reference yields a node sequence", func(t *testing.T) {
		result := graphql.Do(graphql.Params{
			Schema:        schema,
			RequestString: `{ post(id: "p1") { reviewers { id } } }`,
			Context:       context.Background(),
		})
		require.Empty(t, result.Errors)

		post := result.Data.(map[string]any)["post"].(map[string]any)
		reviewers := post["reviewers"].([]any)
		require.Len(t, reviewers, 2)
		assert.Equal(t, "a2", reviewers[0].(map[string]any)["id"])
	})

	t.Run("root find-many returns every node", func(t *testing.T) {
		result := graphql.Do(graphql.Params{
			Schema:        schema,
			RequestString: `{ allAuthor { id } }`,
			Context:       context.Background(),
		})
		require.Empty(t, result.Errors)

		authors := result.Data.(map[string]any)["allAuthor"].([]any)
		assert.Len(t, authors, 2)
	})

	t.Run("date formatting argument applies", func(t *testing.T) {
		result := graphql.Do(graphql.Params{
			Schema:        schema,
			RequestString: `{ post(id: "p1") { publishedAt(format: "2006-01-02") } }`,
			Context:       context.Background(),
		})
		require.Empty(t, result.Errors)

		post := result.Data.(map[string]any)["post"].(map[string]any)
		assert.Equal(t, "2024-05-01", post["publishedAt"])
	})

	t.Run("missing node resolves to null", func(t *testing.T) {
		result := graphql.Do(graphql.Params{
			Schema:        schema,
			RequestString: `{ post(id: "nope") { id } }`,
			Context:       context.Background(),
		})
		require.Empty(t, result.Errors)
		assert.Nil(t, result.Data.(map[string]any)["post"])
	})
}

func TestBuild_FreezesRegistry(t *testing.T) {
	reg, _ := buildFixture(t)

	assert.ErrorIs(t, reg.AddTypes("type Late { x: String }"), graphschema.ErrSchemaFrozen)
	assert.ErrorIs(t, reg.AddRootFields(nil), graphschema.ErrSchemaFrozen)
	assert.ErrorIs(t, reg.AddResolvers(nil), graphschema.ErrSchemaFrozen)

	_, err := reg.Build()
	assert.ErrorIs(t, err, graphschema.ErrSchemaFrozen)
}

func TestBuild_ReferenceTargetMustBeNodeCapable(t *testing.T) {
	authors := newNodeStore(t, &contentgraph.ContentType{Name: "Author"})
	_ = authors

	posts := newNodeStore(t, &contentgraph.ContentType{
		Name:       "Post",
		References: map[string]contentgraph.ReferenceSpec{"author": {TypeName: "Profile"}},
	})

	reg := graphschema.NewRegistry()
	require.NoError(t, reg.RegisterNodeType(posts))
	// Profile exists but is a plain user type, not node-capable.
	require.NoError(t, reg.AddTypes("type Profile { name: String }"))
	require.NoError(t, reg.AddRootFields(map[string]*graphschema.Field{
		"post": {Name: "post", Type: graphschema.TypeRef{Named: "Post"}, Resolver: graphschema.FindOneResolver(posts)},
	}))
	reg.WireFieldResolvers()

	_, err := reg.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, graphschema.ErrReferenceNotNodeCapable)

	var typeErr *graphschema.TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "Post", typeErr.TypeName)
	assert.Equal(t, "author", typeErr.Field)
}

func TestBuild_UnionResolvesByTypeName(t *testing.T) {
	authors := newNodeStore(t, &contentgraph.ContentType{
		Name:        "Author",
		ExtraFields: map[string]contentgraph.FieldSpec{"name": {Type: "String"}},
	},
		map[string]any{"id": "a1", "name": "Ada"},
	)
	posts := newNodeStore(t, &contentgraph.ContentType{
		Name:        "Post",
		ExtraFields: map[string]contentgraph.FieldSpec{"title": {Type: "String"}},
	},
		map[string]any{"id": "p1", "title": "Hello"},
	)

	reg := graphschema.NewRegistry()
	require.NoError(t, reg.RegisterNodeType(authors))
	require.NoError(t, reg.RegisterNodeType(posts))
	require.NoError(t, reg.AddTypes(graphschema.UnionInput{
		Name:    "Entry",
		Members: []string{"Author", "Post"},
	}))
	require.NoError(t, reg.AddRootFields(map[string]*graphschema.Field{
		"entries": {
			Name: "entries",
			Type: graphschema.TypeRef{Named: "Entry", List: true},
			Resolver: func(rc graphschema.ResolveContext) (any, error) {
				out := []any{}
				for _, n := range authors.FindNodes(nil) {
					out = append(out, n)
				}
				for _, n := range posts.FindNodes(nil) {
					out = append(out, n)
				}
				return out, nil
			},
		},
	}))
	reg.WireFieldResolvers()

	schema, err := reg.Build()
	require.NoError(t, err)

	result := graphql.Do(graphql.Params{
		Schema: schema,
		RequestString: `{
			entries {
				... on Author { name }
				... on Post { title }
			}
		}`,
		Context: context.Background(),
	})
	require.Empty(t, result.Errors)

	entries := result.Data.(map[string]any)["entries"].([]any)
	require.Len(t, entries, 2)
	assert.Equal(t, "Ada", entries[0].(map[string]any)["name"])
	assert.Equal(t, "Hello", entries[1].(map[string]any)["title"])
}

func TestBuild_OverlayComposesOverWiring(t *testing.T) {
	reg, authors, posts := wiringFixture(t)
	_ = authors

	require.NoError(t, reg.AddRootFields(map[string]*graphschema.Field{
		"post": {
			Name: "post",
			Type: graphschema.TypeRef{Named: "Post"},
			Args: map[string]graphschema.Argument{
				"id": {Type: graphschema.TypeRef{Named: "ID"}},
			},
			Resolver: graphschema.FindOneResolver(posts),
		},
	}))
	reg.WireFieldResolvers()

	// Overlay the wired author field: delegate to the finder, then decorate.
	require.NoError(t, reg.AddResolvers(map[string]map[string]graphschema.ResolverSpec{
		"Post": {
			"author": {
				Resolve: func(rc graphschema.ResolveContext) (any, error) {
					require.NotNil(t, rc.Wrapped)
					prior, err := rc.Wrapped(rc)
					if err != nil || prior == nil {
						return prior, err
					}
					node := prior.(*contentgraph.Node).Clone()
					node.Fields["name"] = "Dr. " + node.Fields["name"].(string)
					return node, nil
				},
			},
		},
	}))

	schema, err := reg.Build()
	require.NoError(t, err)

	result := graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: `{ post(id: "p1") { author { name } } }`,
		Context:       context.Background(),
	})
	require.Empty(t, result.Errors)

	post := result.Data.(map[string]any)["post"].(map[string]any)
	author := post["author"].(map[string]any)
	assert.Equal(t, "Dr. Ada", author["name"])
}

package graphschema_test

import (
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grove-cms/grove/pkg/contentgraph"
	"github.com/grove-cms/grove/pkg/contentgraph/graphschema"
)

func wiringFixture(t *testing.T) (*graphschema.Registry, *contentgraph.Store, *contentgraph.Store) {
	t.Helper()
	authors := newNodeStore(t, &contentgraph.ContentType{
		Name:        "Author",
		ExtraFields: map[string]contentgraph.FieldSpec{"name": {Type: "String"}},
	},
		map[string]any{"id": "a1", "name": "Ada"},
		map[string]any{"id": "a2", "name": "Grace"},
	)
	posts := newNodeStore(t, &contentgraph.ContentType{
		Name: "Post",
		References: map[string]contentgraph.ReferenceSpec{
			"author":    {TypeName: "Author"},
			"reviewers": {TypeName: "Author", Many: true},
		},
		ExtraFields: map[string]contentgraph.FieldSpec{"publishedAt": {Type: "Date"}},
	},
		map[string]any{
			"id": "p1", "author": "a1", "reviewers": []any{"a2", "a1"},
			"publishedAt": "2024-05-01T10:30:00Z",
		},
	)

	reg := graphschema.NewRegistry()
	require.NoError(t, reg.RegisterNodeType(authors))
	require.NoError(t, reg.RegisterNodeType(posts))
	return reg, authors, posts
}

func TestWireFieldResolvers(t *testing.T) {
	reg, _, posts := wiringFixture(t)
	reg.WireFieldResolvers()

	post := reg.ObjectType("Post")
	node := posts.GetNode("p1")
	require.NotNil(t, node)

	t.Run("singular reference resolves at most one node", func(t *testing.T) {
		field := post.Fields["author"]
		require.NotNil(t, field.Resolver)
		assert.Contains(t, field.Args, "id")

		got, err := field.Resolver(graphschema.ResolveContext{
			Source: node,
			Info:   graphql.ResolveInfo{FieldName: "author"},
		})
		require.NoError(t, err)
		author, ok := got.(*contentgraph.Node)
		require.True(t, ok)
		assert.Equal(t, "a1", author.ID)
	})

	t.Run("dangling singular reference resolves to nil", func(t *testing.T) {
		orphan := node.Clone()
		orphan.Fields["author"] = "gone"
		got, err := post.Fields["author"].Resolver(graphschema.ResolveContext{
			Source: orphan,
			Info:   graphql.ResolveInfo{FieldName: "author"},
		})
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("list reference resolves zero or more nodes", func(t *testing.T) {
		field := post.Fields["reviewers"]
		require.NotNil(t, field.Resolver)
		assert.Contains(t, field.Args, "ids")

		got, err := field.Resolver(graphschema.ResolveContext{
			Source: node,
			Info:   graphql.ResolveInfo{FieldName: "reviewers"},
		})
		require.NoError(t, err)
		reviewers, ok := got.([]*contentgraph.Node)
		require.True(t, ok)
		require.Len(t, reviewers, 2)
		assert.Equal(t, "a2", reviewers[0].ID)
		assert.Equal(t, "a1", reviewers[1].ID)
	})

	t.Run("date fields get the default formatter", func(t *testing.T) {
		field := post.Fields["publishedAt"]
		require.NotNil(t, field.Resolver)
		assert.Contains(t, field.Args, "format")

		got, err := field.Resolver(graphschema.ResolveContext{
			Source: node,
			Args:   map[string]any{"format": "2006-01-02"},
			Info:   graphql.ResolveInfo{FieldName: "publishedAt"},
		})
		require.NoError(t, err)
		assert.Equal(t, "2024-05-01", got)
	})

	t.Run("unmatched scalar fields stay untouched", func(t *testing.T) {
		assert.Nil(t, post.Fields["id"].Resolver)
	})

	t.Run("the pass runs once", func(t *testing.T) {
		before := post.Fields["author"].Resolver
		reg.WireFieldResolvers()
		assert.NotNil(t, before)
		// A second call must not re-wrap the already wired resolver.
		afterGot, err := post.Fields["author"].Resolver(graphschema.ResolveContext{
			Source: node,
			Info:   graphql.ResolveInfo{FieldName: "author"},
		})
		require.NoError(t, err)
		assert.Equal(t, "a1", afterGot.(*contentgraph.Node).ID)
	})
}

func TestWireFieldResolvers_ExplicitArgsWin(t *testing.T) {
	reg, authors, _ := wiringFixture(t)
	_ = authors

	require.NoError(t, reg.AddTypes(graphschema.ObjectInput{
		Name: "Series",
		Fields: map[string]graphschema.FieldInput{
			"author": {
				Type: "Author",
				Args: map[string]graphschema.Argument{
					"id": {Type: graphschema.TypeRef{Named: "ID"}, Default: "a2"},
				},
			},
		},
	}))
	reg.WireFieldResolvers()

	field := reg.ObjectType("Series").Fields["author"]
	assert.Equal(t, "a2", field.Args["id"].Default)
}

func TestWireFieldResolvers_ExistingResolverReachable(t *testing.T) {
	authors := newNodeStore(t, &contentgraph.ContentType{Name: "Author"},
		map[string]any{"id": "a1", "name": "Ada"},
	)

	reg := graphschema.NewRegistry()
	require.NoError(t, reg.RegisterNodeType(authors))

	called := false
	require.NoError(t, reg.AddTypes(graphschema.ObjectInput{
		Name: "Post",
		Fields: map[string]graphschema.FieldInput{
			"author": {
				Type: "Author",
				Resolver: func(rc graphschema.ResolveContext) (any, error) {
					called = true
					return nil, nil
				},
			},
		},
	}))
	reg.WireFieldResolvers()

	field := reg.ObjectType("Post").Fields["author"]
	_, err := field.Resolver(graphschema.ResolveContext{
		Args: map[string]any{"id": "a1"},
		Info: graphql.ResolveInfo{FieldName: "author"},
	})
	require.NoError(t, err)
	// The finder runs in front; the authored resolver is carried as Wrapped,
	// not invoked implicitly.
	assert.False(t, called)
}

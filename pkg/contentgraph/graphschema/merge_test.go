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

// externalSchema builds a small pre-built sub-schema the way a plugin would.
func externalSchema(t *testing.T) graphql.Schema {
	t.Helper()

	site := graphql.NewObject(graphql.ObjectConfig{
		Name: "SiteMetadata",
		Fields: graphql.Fields{
			"title":   &graphql.Field{Type: graphql.String},
			"baseURL": &graphql.Field{Type: graphql.String},
		},
	})
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "ExternalQuery",
		Fields: graphql.Fields{
			"site": &graphql.Field{
				Type: site,
				Args: graphql.FieldConfigArgument{
					"draft": &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return map[string]any{"title": "Grove", "baseURL": "https://grove.test"}, nil
				},
			},
		},
	})
	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: query})
	require.NoError(t, err)
	return schema
}

func TestRegistry_AddSchema(t *testing.T) {
	authors := newNodeStore(t, &contentgraph.ContentType{
		Name:        "Author",
		ExtraFields: map[string]contentgraph.FieldSpec{"name": {Type: "String"}},
	}, map[string]any{"id": "a1", "name": "Ada"})

	reg := graphschema.NewRegistry()
	require.NoError(t, reg.RegisterNodeType(authors))
	require.NoError(t, reg.AddSchema(externalSchema(t)))
	require.NoError(t, reg.AddRootFields(map[string]*graphschema.Field{
		"author": {
			Name: "author",
			Type: graphschema.TypeRef{Named: "Author"},
			Args: map[string]graphschema.Argument{
				"id": {Type: graphschema.TypeRef{Named: "ID"}},
			},
			Resolver: graphschema.FindOneResolver(authors),
		},
	}))
	reg.WireFieldResolvers()

	schema, err := reg.Build()
	require.NoError(t, err)

	t.Run("external root fields are copied onto the root query", func(t *testing.T) {
		result := graphql.Do(graphql.Params{
			Schema:        schema,
			RequestString: `{ site { title baseURL } author(id: "a1") { name } }`,
			Context:       context.Background(),
		})
		require.Empty(t, result.Errors)

		data := result.Data.(map[string]any)
		site := data["site"].(map[string]any)
		assert.Equal(t, "Grove", site["title"])
		assert.Equal(t, "https://grove.test", site["baseURL"])
		assert.Equal(t, "Ada", data["author"].(map[string]any)["name"])
	})

	t.Run("external named types survive as must-keep", func(t *testing.T) {
		_, ok := schema.TypeMap()["SiteMetadata"]
		assert.True(t, ok)
	})

	t.Run("the external root query type itself is not copied", func(t *testing.T) {
		_, ok := schema.TypeMap()["ExternalQuery"]
		assert.False(t, ok)
	})
}

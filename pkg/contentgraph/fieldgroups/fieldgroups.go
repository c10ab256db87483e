// Package fieldgroups provides root-query field-group generators. Each
// generator yields a field map that is consumed through the registry's root
// field-addition contract, the same contract user code goes through.
package fieldgroups

import (
	"strings"

	"github.com/grove-cms/grove/pkg/contentgraph/graphschema"
)

// Generator produces a group of root query fields.
type Generator func() (map[string]*graphschema.Field, error)

// Apply runs the generators in order and adds their fields to the registry's
// root query type.
func Apply(reg *graphschema.Registry, generators ...Generator) error {
	for _, gen := range generators {
		fields, err := gen()
		if err != nil {
			return err
		}
		if err := reg.AddRootFields(fields); err != nil {
			return err
		}
	}
	return nil
}

// filterableScalars are the extra-field types that become equality-filter
// arguments on plural discovery fields.
var filterableScalars = map[string]bool{
	"String": true, "Int": true, "Float": true, "Boolean": true, "ID": true,
}

// NodeFields generates the content-discovery field group: for every
// node-capable type T a singular field t(id: ID) backed by the find-one
// resolver, and a plural field allT(ids: [ID], <scalar filters>) backed by
// find-many.
func NodeFields(reg *graphschema.Registry) Generator {
	return func() (map[string]*graphschema.Field, error) {
		fields := make(map[string]*graphschema.Field)
		for _, obj := range reg.NodeTypes() {
			one := lowerFirst(obj.Name)
			fields[one] = &graphschema.Field{
				Name: one,
				Type: graphschema.TypeRef{Named: obj.Name},
				Args: map[string]graphschema.Argument{
					"id": {Type: graphschema.TypeRef{Named: "ID"}},
				},
				Resolver: graphschema.FindOneResolver(obj.Store),
			}
			all := "all" + obj.Name
			args := map[string]graphschema.Argument{
				"ids": {Type: graphschema.TypeRef{Named: "ID", List: true}},
			}
			// Scalar content fields double as field-equality filters.
			for fname, spec := range obj.Store.ContentType().ExtraFields {
				ref := graphschema.ParseTypeRef(spec.Type)
				if ref.List || !filterableScalars[ref.Named] {
					continue
				}
				args[fname] = graphschema.Argument{Type: graphschema.TypeRef{Named: ref.Named}}
			}
			fields[all] = &graphschema.Field{
				Name:     all,
				Type:     graphschema.TypeRef{Named: obj.Name, List: true},
				Args:     args,
				Resolver: graphschema.FindManyResolver(obj.Store),
			}
		}
		return fields, nil
	}
}

// MetaTypeName is the type backing the schema-metadata field group.
const MetaTypeName = "ContentTypeMeta"

// Meta generates a field group describing the registered content types and
// their node counts. The backing type is registered as a system type, so the
// wiring pass leaves it alone.
func Meta(reg *graphschema.Registry) Generator {
	return func() (map[string]*graphschema.Field, error) {
		if err := reg.AddSystemType(&graphschema.ObjectType{
			Name: MetaTypeName,
			Fields: map[string]*graphschema.Field{
				"name":      {Name: "name", Type: graphschema.TypeRef{Named: "String"}},
				"nodeCount": {Name: "nodeCount", Type: graphschema.TypeRef{Named: "Int"}},
			},
		}); err != nil {
			return nil, err
		}

		resolver := func(rc graphschema.ResolveContext) (any, error) {
			var meta []map[string]any
			for _, obj := range reg.NodeTypes() {
				meta = append(meta, map[string]any{
					"name":      obj.Name,
					"nodeCount": obj.Store.Len(),
				})
			}
			return meta, nil
		}
		return map[string]*graphschema.Field{
			"contentTypes": {
				Name:     "contentTypes",
				Type:     graphschema.TypeRef{Named: MetaTypeName, List: true},
				Resolver: resolver,
			},
		}, nil
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

package graphschema

import (
	"github.com/graphql-go/graphql"

	"github.com/grove-cms/grove/pkg/contentgraph"
)

// scalarTypes maps base type names to executable scalars. Date and File
// fields serialize as strings once their post-processors have run.
var scalarTypes = map[string]graphql.Type{
	"String":   graphql.String,
	"Int":      graphql.Int,
	"Float":    graphql.Float,
	"Boolean":  graphql.Boolean,
	"ID":       graphql.ID,
	"DateTime": graphql.DateTime,
	"Date":     graphql.String,
	"File":     graphql.String,
}

// Build freezes the type graph into one immutable, queryable schema with a
// single root query type. Reference fields are validated against their
// targets' node capability; any structural violation aborts the build with
// no partial schema. Types unreachable from the root query are pruned unless
// flagged must-keep. After a successful build the registry is frozen and
// rejects further mutation.
func (r *Registry) Build() (graphql.Schema, error) {
	if r.frozen {
		return graphql.Schema{}, ErrSchemaFrozen
	}
	if err := r.validateReferences(); err != nil {
		return graphql.Schema{}, err
	}

	b := &schemaBuilder{reg: r, built: make(map[string]graphql.Type)}

	root, err := b.buildType(RootQueryName)
	if err != nil {
		return graphql.Schema{}, err
	}
	cfg := graphql.SchemaConfig{Query: root.(*graphql.Object)}

	for _, name := range sortedKeys(r.mustKeep) {
		t, err := b.buildType(name)
		if err != nil {
			return graphql.Schema{}, err
		}
		cfg.Types = append(cfg.Types, t)
	}

	schema, err := graphql.NewSchema(cfg)
	if err != nil {
		return graphql.Schema{}, err
	}
	// Field thunks run inside NewSchema; surface the first error they hit.
	if len(b.errs) > 0 {
		return graphql.Schema{}, b.errs[0]
	}

	r.frozen = true
	return schema, nil
}

// validateReferences enforces that every declared reference field targets a
// node-capable type.
func (r *Registry) validateReferences() error {
	for _, typeName := range sortedKeys(r.objects) {
		obj := r.objects[typeName]
		for _, fieldName := range sortedKeys(obj.Fields) {
			field := obj.Fields[fieldName]
			if !field.Reference {
				continue
			}
			target, ok := r.objects[field.Type.Named]
			if !ok {
				return &TypeError{TypeName: typeName, Field: fieldName, Err: ErrUnknownType}
			}
			if !target.NodeCapable {
				return &TypeError{TypeName: typeName, Field: fieldName, Err: ErrReferenceNotNodeCapable}
			}
		}
	}
	return nil
}

type schemaBuilder struct {
	reg   *Registry
	built map[string]graphql.Type
	errs  []error
}

func (b *schemaBuilder) buildType(name string) (graphql.Type, error) {
	if t, ok := b.built[name]; ok {
		return t, nil
	}
	if s, ok := scalarTypes[name]; ok {
		return s, nil
	}
	if ext, ok := b.reg.external[name]; ok {
		b.built[name] = ext
		return ext, nil
	}
	if obj, ok := b.reg.objects[name]; ok {
		return b.buildObject(obj), nil
	}
	if u, ok := b.reg.unions[name]; ok {
		return b.buildUnion(u)
	}
	return nil, &TypeError{TypeName: name, Err: ErrUnknownType}
}

// buildObject constructs the executable object with a fields thunk, so type
// cycles resolve once the whole graph has been visited.
func (b *schemaBuilder) buildObject(obj *ObjectType) *graphql.Object {
	gobj := graphql.NewObject(graphql.ObjectConfig{
		Name: obj.Name,
		Fields: (graphql.FieldsThunk)(func() graphql.Fields {
			fields := graphql.Fields{}
			for _, name := range sortedKeys(obj.Fields) {
				field := obj.Fields[name]
				out, err := b.buildOutput(field.Type)
				if err != nil {
					b.errs = append(b.errs, err)
					continue
				}
				gf := &graphql.Field{
					Name:    name,
					Type:    out,
					Resolve: b.resolveFn(field),
				}
				if len(field.Args) > 0 {
					gf.Args = b.buildArgs(obj.Name, name, field.Args)
				}
				fields[name] = gf
			}
			return fields
		}),
	})
	b.built[obj.Name] = gobj
	return gobj
}

func (b *schemaBuilder) buildUnion(u *UnionType) (graphql.Type, error) {
	members := make([]*graphql.Object, 0, len(u.Members))
	for _, name := range u.Members {
		t, err := b.buildType(name)
		if err != nil {
			return nil, err
		}
		member, ok := t.(*graphql.Object)
		if !ok {
			return nil, &TypeError{TypeName: u.Name, Err: ErrUnknownType}
		}
		members = append(members, member)
	}

	resolve := u.ResolveType
	gu := graphql.NewUnion(graphql.UnionConfig{
		Name:  u.Name,
		Types: members,
		ResolveType: func(p graphql.ResolveTypeParams) *graphql.Object {
			var name string
			switch {
			case resolve != nil:
				name = resolve(p.Value)
			default:
				if n, ok := p.Value.(*contentgraph.Node); ok {
					name = n.TypeName
				}
			}
			if t, ok := b.built[name].(*graphql.Object); ok {
				return t
			}
			return nil
		},
	})
	b.built[u.Name] = gu
	return gu, nil
}

func (b *schemaBuilder) buildOutput(ref TypeRef) (graphql.Output, error) {
	base, err := b.buildType(ref.Named)
	if err != nil {
		return nil, err
	}
	out := graphql.Output(base)
	if ref.List {
		if ref.ItemNonNull {
			out = graphql.NewNonNull(out)
		}
		out = graphql.NewList(out)
	}
	if ref.NonNull {
		out = graphql.NewNonNull(out)
	}
	return out, nil
}

// buildArgs converts argument descriptors; argument types are restricted to
// scalars and lists of scalars.
func (b *schemaBuilder) buildArgs(typeName, fieldName string, args map[string]Argument) graphql.FieldConfigArgument {
	out := graphql.FieldConfigArgument{}
	for _, name := range sortedKeys(args) {
		arg := args[name]
		base, ok := scalarTypes[arg.Type.Named]
		if !ok {
			b.errs = append(b.errs, &TypeError{TypeName: typeName, Field: fieldName, Err: ErrUnknownType})
			continue
		}
		in := graphql.Input(base)
		if arg.Type.List {
			in = graphql.NewList(in)
		}
		out[name] = &graphql.ArgumentConfig{Type: in, DefaultValue: arg.Default}
	}
	return out
}

// resolveFn adapts a descriptor resolver to the executable signature. Fields
// without a resolver read node content directly.
func (b *schemaBuilder) resolveFn(field *Field) graphql.FieldResolveFn {
	if field.Resolver == nil {
		return resolveNodeField
	}
	resolver := field.Resolver
	return func(p graphql.ResolveParams) (interface{}, error) {
		return resolver(ResolveContext{
			Context: p.Context,
			Source:  p.Source,
			Args:    p.Args,
			Info:    p.Info,
		})
	}
}

// resolveNodeField is the default resolver for node-backed values: id maps
// to the node identity, every other name to the content field.
func resolveNodeField(p graphql.ResolveParams) (interface{}, error) {
	switch s := p.Source.(type) {
	case *contentgraph.Node:
		if p.Info.FieldName == "id" {
			return s.ID, nil
		}
		return s.Fields[p.Info.FieldName], nil
	case contentgraph.Node:
		if p.Info.FieldName == "id" {
			return s.ID, nil
		}
		return s.Fields[p.Info.FieldName], nil
	case map[string]any:
		return s[p.Info.FieldName], nil
	}
	return nil, nil
}

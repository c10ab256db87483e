package graphschema

import (
	"strings"

	"github.com/graphql-go/graphql"
)

// builtinScalars are never copied out of an external schema.
var builtinScalars = map[string]struct{}{
	"Int": {}, "Float": {}, "String": {}, "Boolean": {}, "ID": {}, "DateTime": {},
}

// AddSchema merges a whole externally pre-built sub-schema. Every field of
// the external root query type is copied onto this registry's root query;
// every other named type is copied as a passthrough and flagged must-keep so
// it survives the pruning of unreferenced types at build time. Introspection
// types, built-in scalars, and the external root query type itself are
// excluded.
func (r *Registry) AddSchema(ext graphql.Schema) error {
	if r.frozen {
		return ErrSchemaFrozen
	}

	rootName := ext.QueryType().Name()

	rootFields := make(map[string]*Field)
	for name, fd := range ext.QueryType().Fields() {
		rootFields[name] = fieldFromDefinition(fd)
	}
	if err := r.AddRootFields(rootFields); err != nil {
		return err
	}

	for _, name := range sortedKeys(ext.TypeMap()) {
		if strings.HasPrefix(name, "__") || name == rootName {
			continue
		}
		if _, builtin := builtinScalars[name]; builtin {
			continue
		}
		if r.taken(name) {
			r.logger.Warn("type already registered, keeping first", "type", name)
			continue
		}
		r.external[name] = ext.TypeMap()[name]
		r.mustKeep[name] = struct{}{}
	}
	return nil
}

// fieldFromDefinition converts an executable field definition back into a
// descriptor whose resolver delegates to the external resolve function.
func fieldFromDefinition(fd *graphql.FieldDefinition) *Field {
	field := &Field{
		Name: fd.Name,
		Type: typeRefFromGraphQL(fd.Type),
	}
	for _, arg := range fd.Args {
		if field.Args == nil {
			field.Args = make(map[string]Argument, len(fd.Args))
		}
		field.Args[arg.Name()] = Argument{
			Type:    typeRefFromGraphQL(arg.Type),
			Default: arg.DefaultValue,
		}
	}
	if resolve := fd.Resolve; resolve != nil {
		field.Resolver = func(rc ResolveContext) (any, error) {
			return resolve(graphql.ResolveParams{
				Source:  rc.Source,
				Args:    rc.Args,
				Info:    rc.Info,
				Context: rc.Context,
			})
		}
	}
	return field
}

func typeRefFromGraphQL(t graphql.Type) TypeRef {
	switch v := t.(type) {
	case *graphql.NonNull:
		ref := typeRefFromGraphQL(v.OfType)
		ref.NonNull = true
		return ref
	case *graphql.List:
		inner := typeRefFromGraphQL(v.OfType)
		return TypeRef{Named: inner.Named, List: true, ItemNonNull: inner.NonNull}
	default:
		return TypeRef{Named: t.Name()}
	}
}

package graphschema

import (
	"fmt"
	"time"

	"github.com/grove-cms/grove/pkg/contentgraph/normalize"
)

// WireFieldResolvers is the single fixed-point pass that resolves reference
// fields once the whole type graph is known. It must run strictly after
// every type source has been registered, because a field may reference a
// type whose node capability is established later in registration order.
//
// For every user-defined object type except the root query: a field whose
// value type is node-capable gets the target's find-one (singular) or
// find-many (list) resolver, with the finder's canonical arguments merged
// under any explicitly authored field arguments (explicit wins) and an
// already-present resolver kept reachable as Wrapped. Any other field gets
// the default post-processor registered for its base type name, if one
// exists. The pass never fails; absence of a match is a no-op.
func (r *Registry) WireFieldResolvers() {
	if r.wired || r.frozen {
		return
	}
	r.wired = true

	for _, typeName := range sortedKeys(r.objects) {
		obj := r.objects[typeName]
		if obj == r.root || !obj.UserDefined {
			continue
		}
		for _, fieldName := range sortedKeys(obj.Fields) {
			field := obj.Fields[fieldName]
			if target, ok := r.objects[field.Type.Named]; ok && target.NodeCapable && target.Store != nil {
				r.wireReference(field, target)
				continue
			}
			if transform, ok := defaultTransforms[field.Type.Named]; ok && field.Resolver == nil {
				field.Resolver = transform(obj)
				if field.Type.Named == "Date" && field.Args == nil {
					field.Args = map[string]Argument{
						"format": {Type: TypeRef{Named: "String"}},
					}
				}
			}
		}
	}
}

func (r *Registry) wireReference(field *Field, target *ObjectType) {
	var finder Resolver
	var args map[string]Argument
	if field.Type.List {
		finder = FindManyResolver(target.Store)
		args = findManyArgs()
	} else {
		finder = FindOneResolver(target.Store)
		args = findOneArgs()
	}
	// Explicitly authored arguments win on collision.
	for name, arg := range field.Args {
		args[name] = arg
	}
	field.Args = args
	field.Resolver = Wrap(finder, field.Resolver)
}

// defaultTransforms maps base type names to default scalar post-processors.
// Fields of an unlisted type are left untouched.
var defaultTransforms = map[string]func(owner *ObjectType) Resolver{
	"Date": dateTransform,
	"File": assetTransform,
}

// dateTransform formats a date field with the Go reference layout given in
// the format argument, defaulting to RFC 3339.
func dateTransform(*ObjectType) Resolver {
	return func(rc ResolveContext) (any, error) {
		value, ok := rc.SourceField(rc.Info.FieldName)
		if !ok || value == nil {
			return nil, nil
		}
		layout := time.RFC3339
		if f, ok := rc.Args["format"].(string); ok && f != "" {
			layout = f
		}
		switch v := value.(type) {
		case time.Time:
			return v.Format(layout), nil
		case string:
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return v, nil
			}
			return t.Format(layout), nil
		default:
			return nil, fmt.Errorf("cannot format %T as a date", value)
		}
	}
}

// assetTransform resolves relative asset paths against the owning content
// type's assets context. Normalized nodes arrive already resolved; this
// covers values authored directly on schema fields.
func assetTransform(owner *ObjectType) Resolver {
	return func(rc ResolveContext) (any, error) {
		value, ok := rc.SourceField(rc.Info.FieldName)
		if !ok || value == nil {
			return nil, nil
		}
		asset, ok := value.(string)
		if !ok {
			return value, nil
		}
		if owner.Store == nil {
			return asset, nil
		}
		return normalize.ResolveAssetPath(asset, owner.Store.ContentType().AssetsContext), nil
	}
}

package graphschema

import (
	"github.com/grove-cms/grove/pkg/contentgraph"
)

// findOneArgs and findManyArgs are the canonical arguments of the
// auto-registered finder resolvers.
func findOneArgs() map[string]Argument {
	return map[string]Argument{
		"id": {Type: TypeRef{Named: "ID"}},
	}
}

func findManyArgs() map[string]Argument {
	return map[string]Argument{
		"ids": {Type: TypeRef{Named: "ID", List: true}},
	}
}

// FindOneResolver resolves at most one node from the store: by the id
// argument when present, otherwise by the id stored in the source's field of
// the same name. A dangling id resolves to nil, not an error.
func FindOneResolver(store *contentgraph.Store) Resolver {
	return func(rc ResolveContext) (any, error) {
		if id, ok := rc.Args["id"].(string); ok && id != "" {
			return nodeOrNil(store.GetNode(id)), nil
		}
		value, ok := rc.SourceField(rc.Info.FieldName)
		if !ok {
			return nil, nil
		}
		id, ok := referenceID(value)
		if !ok {
			return nil, nil
		}
		return nodeOrNil(store.GetNode(id)), nil
	}
}

// FindManyResolver resolves a sequence of zero or more nodes: by the ids
// argument when present, by field-equality filter arguments, by the id list
// in the source's field of the same name, or — with no source at all, i.e.
// at the query root — every node in the store.
func FindManyResolver(store *contentgraph.Store) Resolver {
	return func(rc ResolveContext) (any, error) {
		if raw, ok := rc.Args["ids"]; ok && raw != nil {
			return lookupAll(store, referenceIDs(raw)), nil
		}
		if q := filterQuery(rc.Args); len(q) > 0 {
			return store.FindNodes(q), nil
		}
		switch rc.Source.(type) {
		case *contentgraph.Node, contentgraph.Node:
			value, ok := rc.SourceField(rc.Info.FieldName)
			if !ok {
				return []*contentgraph.Node{}, nil
			}
			return lookupAll(store, referenceIDs(value)), nil
		case map[string]any:
			if value, ok := rc.SourceField(rc.Info.FieldName); ok {
				return lookupAll(store, referenceIDs(value)), nil
			}
		}
		// No source carries ids: this is the query root, return every node.
		return store.FindNodes(nil), nil
	}
}

// filterQuery collects non-nil filter arguments into a field-equality query.
func filterQuery(args map[string]any) contentgraph.Query {
	q := contentgraph.Query{}
	for name, value := range args {
		if name == "ids" || value == nil {
			continue
		}
		q[name] = value
	}
	return q
}

func lookupAll(store *contentgraph.Store, ids []string) []*contentgraph.Node {
	nodes := make([]*contentgraph.Node, 0, len(ids))
	for _, id := range ids {
		if n := store.GetNode(id); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// nodeOrNil collapses a typed nil node into an untyped nil so absent
// references serialize as null.
func nodeOrNil(n *contentgraph.Node) any {
	if n == nil {
		return nil
	}
	return n
}

func referenceID(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, v != ""
	case *contentgraph.Node:
		return v.ID, true
	}
	return "", false
}

func referenceIDs(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		ids := make([]string, 0, len(v))
		for _, item := range v {
			if id, ok := referenceID(item); ok {
				ids = append(ids, id)
			}
		}
		return ids
	default:
		if id, ok := referenceID(value); ok {
			return []string{id}
		}
	}
	return nil
}

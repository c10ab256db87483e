package graphschema

import (
	"context"
	"strings"

	"github.com/graphql-go/graphql"

	"github.com/grove-cms/grove/pkg/contentgraph"
)

// TypeRef names a field's value type. Named is the base type name; List and
// NonNull record the wrapping, with ItemNonNull covering the inner "[T!]"
// position.
type TypeRef struct {
	Named       string
	List        bool
	NonNull     bool
	ItemNonNull bool
}

// ParseTypeRef reads GraphQL type notation such as "String", "[Author]" or
// "[Int!]!".
func ParseTypeRef(s string) TypeRef {
	var ref TypeRef
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "!") {
		ref.NonNull = true
		s = strings.TrimSuffix(s, "!")
	}
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		ref.List = true
		s = s[1 : len(s)-1]
		if strings.HasSuffix(s, "!") {
			ref.ItemNonNull = true
			s = strings.TrimSuffix(s, "!")
		}
	}
	ref.Named = s
	return ref
}

// String renders the reference back in GraphQL notation.
func (r TypeRef) String() string {
	s := r.Named
	if r.List {
		if r.ItemNonNull {
			s += "!"
		}
		s = "[" + s + "]"
	}
	if r.NonNull {
		s += "!"
	}
	return s
}

// ResolveContext is the invocation context handed to a Resolver.
//
// Wrapped is the stable slot for a superseded resolver: when auto-wiring or
// an overlay wraps an existing field resolver, the prior resolver is exposed
// here so the wrapping resolver can delegate to it.
type ResolveContext struct {
	Context context.Context
	Source  any
	Args    map[string]any
	Info    graphql.ResolveInfo
	Wrapped Resolver
}

// SourceField reads a named content field from the resolution source,
// understanding both nodes and plain maps.
func (rc ResolveContext) SourceField(name string) (any, bool) {
	switch s := rc.Source.(type) {
	case *contentgraph.Node:
		v, ok := s.Fields[name]
		return v, ok
	case contentgraph.Node:
		v, ok := s.Fields[name]
		return v, ok
	case map[string]any:
		v, ok := s[name]
		return v, ok
	}
	return nil, false
}

// Resolver produces a field's value.
type Resolver func(rc ResolveContext) (any, error)

// Wrap composes a resolver over a prior one. The prior resolver is passed to
// the new resolver's invocation context as Wrapped; prior may be nil.
func Wrap(next, prior Resolver) Resolver {
	return func(rc ResolveContext) (any, error) {
		rc.Wrapped = prior
		return next(rc)
	}
}

// Argument describes one field argument.
type Argument struct {
	Type    TypeRef
	Default any
}

// Field describes one field of an object type.
type Field struct {
	Name       string
	Type       TypeRef
	Args       map[string]Argument
	Resolver   Resolver
	Extensions map[string]any

	// Reference marks a field declared as a content-type reference; its
	// target must be node-capable at build time.
	Reference bool
}

// ObjectType is the build-time descriptor of an object type.
type ObjectType struct {
	Name       string
	Fields     map[string]*Field
	Extensions map[string]any

	// UserDefined marks types from user declarations and SDL fragments;
	// only those are touched by the auto-wiring pass.
	UserDefined bool

	// NodeCapable marks a type queryable by id/filter. Every node-capable
	// type carries auto-registered find-one and find-many resolvers against
	// its backing store.
	NodeCapable bool
	Store       *contentgraph.Store
}

// UnionType is the build-time descriptor of a union type. ResolveType maps a
// runtime value to the name of its concrete member; when nil, node values
// resolve through their TypeName.
type UnionType struct {
	Name        string
	Members     []string
	ResolveType func(value any) string
	UserDefined bool
}

// TypeInput is a declarative type descriptor accepted by AddTypes.
type TypeInput interface {
	isTypeInput()
}

// FieldInput declares one field of an ObjectInput. Exactly one of Type or
// Shape names the value type: Type in GraphQL notation, Shape as an inline
// object whose name is synthesized from the naming path. Options carries
// per-field extension metadata.
type FieldInput struct {
	Type     string
	Shape    *ObjectInput
	List     bool
	Args     map[string]Argument
	Resolver Resolver
	Options  map[string]any
}

// ObjectInput declares an object type. When Name is empty, the type name is
// synthesized by joining the hierarchical naming Path; with neither, the
// registration is fatal.
type ObjectInput struct {
	Name   string
	Path   []string
	Fields map[string]FieldInput
}

func (ObjectInput) isTypeInput() {}

// UnionInput declares a union type. Unions carry no per-field extension
// metadata.
type UnionInput struct {
	Name        string
	Path        []string
	Members     []string
	ResolveType func(value any) string
}

func (UnionInput) isTypeInput() {}

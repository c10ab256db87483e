package graphschema

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/graphql-go/graphql"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/grove-cms/grove/pkg/contentgraph"
)

// RootQueryName is the name of the single root query type every registry
// composes around.
const RootQueryName = "Query"

// Registry is the mutable build-time type graph. It accepts declarative type
// descriptors, raw SDL fragments, and whole external sub-schemas,
// deduplicating by name, and freezes into an immutable schema via Build.
//
// The registry supports a single writer by phase discipline; it carries no
// internal locking.
type Registry struct {
	objects  map[string]*ObjectType
	unions   map[string]*UnionType
	external map[string]graphql.Type
	mustKeep map[string]struct{}
	root     *ObjectType
	logger   *slog.Logger
	wired    bool
	frozen   bool
}

// RegistryOption configures a registry
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used for deduplication warnings
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty type registry with its root query type.
func NewRegistry(options ...RegistryOption) *Registry {
	root := &ObjectType{
		Name:   RootQueryName,
		Fields: make(map[string]*Field),
	}
	r := &Registry{
		objects:  map[string]*ObjectType{RootQueryName: root},
		unions:   make(map[string]*UnionType),
		external: make(map[string]graphql.Type),
		mustKeep: make(map[string]struct{}),
		root:     root,
	}
	for _, option := range options {
		option(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// RootQuery returns the root query type descriptor.
func (r *Registry) RootQuery() *ObjectType {
	return r.root
}

// ObjectType returns the named object descriptor, or nil.
func (r *Registry) ObjectType(name string) *ObjectType {
	return r.objects[name]
}

// NodeTypes returns every node-capable object descriptor, sorted by name.
func (r *Registry) NodeTypes() []*ObjectType {
	var out []*ObjectType
	for _, name := range sortedKeys(r.objects) {
		if obj := r.objects[name]; obj.NodeCapable {
			out = append(out, obj)
		}
	}
	return out
}

// AddTypes registers type sources, dispatching on shape: a raw SDL fragment
// string, a slice of declarative descriptors, or a single descriptor.
func (r *Registry) AddTypes(src any) error {
	if r.frozen {
		return ErrSchemaFrozen
	}
	switch v := src.(type) {
	case string:
		return r.addSDL(v)
	case []TypeInput:
		for _, input := range v {
			if err := r.addInput(input); err != nil {
				return err
			}
		}
		return nil
	case TypeInput:
		return r.addInput(v)
	default:
		return fmt.Errorf("unsupported type source %T", src)
	}
}

// RegisterNodeType registers the object descriptor for a content type and
// marks it node-capable against its backing store. Reference fields carry
// the target type name; extra fields carry their declared GraphQL type and
// options block.
func (r *Registry) RegisterNodeType(store *contentgraph.Store) error {
	if r.frozen {
		return ErrSchemaFrozen
	}
	ct := store.ContentType()
	if ct.Name == "" {
		return &TypeError{Err: ErrTypeNameMissing}
	}

	obj := &ObjectType{
		Name:        ct.Name,
		Fields:      make(map[string]*Field),
		UserDefined: true,
		NodeCapable: true,
		Store:       store,
	}
	obj.Fields["id"] = &Field{Name: "id", Type: TypeRef{Named: "ID", NonNull: true}}
	for name, spec := range ct.References {
		obj.Fields[name] = &Field{
			Name:      name,
			Type:      TypeRef{Named: spec.TypeName, List: spec.Many},
			Reference: true,
		}
	}
	for name, spec := range ct.ExtraFields {
		obj.Fields[name] = &Field{
			Name:       name,
			Type:       ParseTypeRef(spec.Type),
			Extensions: spec.Options,
		}
	}
	return r.register(obj)
}

// AddSystemType registers an object descriptor as internal plumbing: it is
// never marked user-defined, so the auto-wiring pass skips it.
func (r *Registry) AddSystemType(obj *ObjectType) error {
	if r.frozen {
		return ErrSchemaFrozen
	}
	if obj.Name == "" {
		return &TypeError{Err: ErrTypeNameMissing}
	}
	obj.UserDefined = false
	return r.register(obj)
}

// AddRootFields adds fields to the root query type. This is the contract
// field-group generators and external schema merges go through.
func (r *Registry) AddRootFields(fields map[string]*Field) error {
	if r.frozen {
		return ErrSchemaFrozen
	}
	for _, name := range sortedKeys(fields) {
		f := fields[name]
		if f.Name == "" {
			f.Name = name
		}
		if _, exists := r.root.Fields[name]; exists {
			r.logger.Warn("root query field already registered, keeping first", "field", name)
			continue
		}
		r.root.Fields[name] = f
	}
	return nil
}

// addInput converts a declarative descriptor into a registered type,
// recursing into inline field shapes.
func (r *Registry) addInput(input TypeInput) error {
	switch in := input.(type) {
	case ObjectInput:
		return r.addObjectInput(&in)
	case *ObjectInput:
		return r.addObjectInput(in)
	case UnionInput:
		return r.addUnionInput(&in)
	case *UnionInput:
		return r.addUnionInput(in)
	default:
		return fmt.Errorf("unsupported type descriptor %T", input)
	}
}

func (r *Registry) addObjectInput(in *ObjectInput) error {
	name, err := resolveTypeName(in.Name, in.Path)
	if err != nil {
		return err
	}

	obj := &ObjectType{
		Name:        name,
		Fields:      make(map[string]*Field, len(in.Fields)),
		UserDefined: true,
	}
	for _, fname := range sortedKeys(in.Fields) {
		fin := in.Fields[fname]
		field := &Field{
			Name:       fname,
			Args:       fin.Args,
			Resolver:   fin.Resolver,
			Extensions: fin.Options,
		}
		switch {
		case fin.Shape != nil:
			// An inline shape needs a synthesized name rooted at this
			// type's naming path.
			shape := *fin.Shape
			if shape.Name == "" && len(shape.Path) == 0 {
				shape.Path = append(namingPath(in, name), fname)
			}
			shapeName, err := resolveTypeName(shape.Name, shape.Path)
			if err != nil {
				return err
			}
			shape.Name = shapeName
			if err := r.addObjectInput(&shape); err != nil {
				return err
			}
			field.Type = TypeRef{Named: shapeName, List: fin.List}
		case fin.Type != "":
			field.Type = ParseTypeRef(fin.Type)
			if fin.List && !field.Type.List {
				field.Type.List = true
			}
		default:
			return &TypeError{TypeName: name, Field: fname, Err: ErrUnknownType}
		}
		obj.Fields[fname] = field
	}
	return r.register(obj)
}

func (r *Registry) addUnionInput(in *UnionInput) error {
	name, err := resolveTypeName(in.Name, in.Path)
	if err != nil {
		return err
	}
	return r.registerUnion(&UnionType{
		Name:        name,
		Members:     in.Members,
		ResolveType: in.ResolveType,
		UserDefined: true,
	})
}

// register adds an object descriptor, rejecting re-registration of a taken
// name outside the merge path: the first registration wins and the duplicate
// is dropped with a warning.
func (r *Registry) register(obj *ObjectType) error {
	if r.taken(obj.Name) {
		r.logger.Warn("type already registered, keeping first", "type", obj.Name)
		return nil
	}
	r.objects[obj.Name] = obj
	return nil
}

func (r *Registry) registerUnion(u *UnionType) error {
	if r.taken(u.Name) {
		r.logger.Warn("type already registered, keeping first", "type", u.Name)
		return nil
	}
	r.unions[u.Name] = u
	return nil
}

func (r *Registry) taken(name string) bool {
	if _, ok := r.objects[name]; ok {
		return true
	}
	if _, ok := r.unions[name]; ok {
		return true
	}
	_, ok := r.external[name]
	return ok
}

// resolveTypeName applies the naming rules: an explicit name wins, otherwise
// the hierarchical path is joined; with neither, registration is fatal.
func resolveTypeName(name string, path []string) (string, error) {
	if name != "" {
		return name, nil
	}
	if len(path) == 0 {
		return "", &TypeError{Err: ErrTypeNameMissing}
	}
	return joinPath(path), nil
}

// joinPath synthesizes a type name from a naming path, e.g.
// ["post", "frontmatter"] becomes "PostFrontmatter".
func joinPath(path []string) string {
	var b strings.Builder
	for _, part := range path {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// namingPath is the hierarchical path a type's inline shapes extend from.
func namingPath(in *ObjectInput, resolved string) []string {
	if len(in.Path) > 0 {
		return append([]string{}, in.Path...)
	}
	return []string{resolved}
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

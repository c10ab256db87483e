package graphschema

import (
	"fmt"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
)

// addSDL parses a raw schema-fragment and registers every object and union
// definition it contains, marked user-defined. Directives applied to a type
// or field are copied into that type's or field's extension metadata; this
// is the only path that produces directive-derived extensions.
func (r *Registry) addSDL(fragment string) error {
	doc, err := parser.Parse(parser.ParseParams{Source: fragment})
	if err != nil {
		return fmt.Errorf("parse schema fragment: %w", err)
	}

	for _, def := range doc.Definitions {
		switch d := def.(type) {
		case *ast.ObjectDefinition:
			if err := r.register(objectFromAST(d)); err != nil {
				return err
			}
		case *ast.UnionDefinition:
			if err := r.registerUnion(unionFromAST(d)); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported definition %T in schema fragment", def)
		}
	}
	return nil
}

func objectFromAST(d *ast.ObjectDefinition) *ObjectType {
	obj := &ObjectType{
		Name:        d.Name.Value,
		Fields:      make(map[string]*Field, len(d.Fields)),
		Extensions:  directiveExtensions(d.Directives),
		UserDefined: true,
	}
	for _, fd := range d.Fields {
		field := &Field{
			Name:       fd.Name.Value,
			Type:       typeRefFromAST(fd.Type),
			Extensions: directiveExtensions(fd.Directives),
		}
		for _, arg := range fd.Arguments {
			if field.Args == nil {
				field.Args = make(map[string]Argument, len(fd.Arguments))
			}
			a := Argument{Type: typeRefFromAST(arg.Type)}
			if arg.DefaultValue != nil {
				a.Default = arg.DefaultValue.GetValue()
			}
			field.Args[arg.Name.Value] = a
		}
		obj.Fields[fd.Name.Value] = field
	}
	return obj
}

func unionFromAST(d *ast.UnionDefinition) *UnionType {
	u := &UnionType{
		Name:        d.Name.Value,
		UserDefined: true,
	}
	for _, member := range d.Types {
		u.Members = append(u.Members, member.Name.Value)
	}
	return u
}

// directiveExtensions copies SDL directives into extension metadata, keyed
// by directive name with the directive arguments as the value.
func directiveExtensions(directives []*ast.Directive) map[string]any {
	if len(directives) == 0 {
		return nil
	}
	ext := make(map[string]any, len(directives))
	for _, dir := range directives {
		args := make(map[string]any, len(dir.Arguments))
		for _, arg := range dir.Arguments {
			args[arg.Name.Value] = arg.Value.GetValue()
		}
		ext[dir.Name.Value] = args
	}
	return ext
}

func typeRefFromAST(t ast.Type) TypeRef {
	switch v := t.(type) {
	case *ast.NonNull:
		ref := typeRefFromAST(v.Type)
		ref.NonNull = true
		return ref
	case *ast.List:
		inner := typeRefFromAST(v.Type)
		return TypeRef{Named: inner.Named, List: true, ItemNonNull: inner.NonNull}
	case *ast.Named:
		return TypeRef{Named: v.Name.Value}
	}
	return TypeRef{}
}

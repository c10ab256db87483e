package graphschema

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrTypeNameMissing indicates a type descriptor had no explicit name and
	// no naming path to synthesize one from
	ErrTypeNameMissing = errors.New("type name missing and not derivable")

	// ErrFieldTypeRequired indicates a resolver overlay targeted a
	// nonexistent field without declaring a field type
	ErrFieldTypeRequired = errors.New("field type required for new overlay field")

	// ErrReferenceNotNodeCapable indicates a reference field targets a type
	// that is not queryable by id
	ErrReferenceNotNodeCapable = errors.New("reference target is not node-capable")

	// ErrUnknownType indicates a field referenced a type name that was never
	// registered
	ErrUnknownType = errors.New("unknown type")

	// ErrSchemaFrozen indicates a mutation was attempted after the schema
	// was built
	ErrSchemaFrozen = errors.New("schema is frozen")
)

// TypeError represents an error in schema composition. It identifies the
// offending type and, when applicable, the field.
type TypeError struct {
	TypeName string
	Field    string
	Err      error
}

func (e *TypeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("schema composition failed for %s.%s: %v", e.TypeName, e.Field, e.Err)
	}
	return fmt.Sprintf("schema composition failed for type %q: %v", e.TypeName, e.Err)
}

func (e *TypeError) Unwrap() error {
	return e.Err
}

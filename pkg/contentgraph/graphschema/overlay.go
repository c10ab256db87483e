package graphschema

// ResolverSpec is one entry of a declarative resolver overlay. Type (GraphQL
// notation) is required when the target field does not exist yet; it is
// ignored for existing fields, whose declared type is preserved.
type ResolverSpec struct {
	Resolve Resolver
	Type    string
	Args    map[string]Argument
}

// AddResolvers merges externally supplied resolver maps, keyed by type then
// field, onto the graph.
//
// On an existing field the new resolver wraps the prior one: argument maps
// are merged with the overlay winning on name collision, and the prior
// resolver is exposed to the new resolver's invocation context as Wrapped so
// it can delegate. A missing field is created fresh, and must declare an
// explicit field type or the registration is fatal.
func (r *Registry) AddResolvers(overlays map[string]map[string]ResolverSpec) error {
	if r.frozen {
		return ErrSchemaFrozen
	}

	for _, typeName := range sortedKeys(overlays) {
		obj, ok := r.objects[typeName]
		if !ok {
			r.logger.Warn("resolver overlay targets unknown type, skipping", "type", typeName)
			continue
		}
		fields := overlays[typeName]
		for _, fieldName := range sortedKeys(fields) {
			spec := fields[fieldName]
			if field, exists := obj.Fields[fieldName]; exists {
				field.Resolver = Wrap(spec.Resolve, field.Resolver)
				for name, arg := range spec.Args {
					if field.Args == nil {
						field.Args = make(map[string]Argument, len(spec.Args))
					}
					field.Args[name] = arg
				}
				continue
			}
			if spec.Type == "" {
				return &TypeError{TypeName: typeName, Field: fieldName, Err: ErrFieldTypeRequired}
			}
			obj.Fields[fieldName] = &Field{
				Name:     fieldName,
				Type:     ParseTypeRef(spec.Type),
				Args:     spec.Args,
				Resolver: spec.Resolve,
			}
		}
	}
	return nil
}

// Package normalize provides the default Normalizer implementation. It shapes
// raw caller input into canonical Node form: field-name casing, reference
// coercion, and asset-path resolution against the content type's configured
// context.
package normalize

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/grove-cms/grove/pkg/contentgraph"
)

type normalizer struct{}

// New creates the default normalizer
func New() contentgraph.Normalizer {
	return normalizer{}
}

func (normalizer) Normalize(raw map[string]any, ct *contentgraph.ContentType) (*contentgraph.Node, error) {
	node := &contentgraph.Node{
		TypeName: ct.Name,
		Fields:   make(map[string]any, len(raw)),
	}

	for key, value := range raw {
		switch key {
		case "id":
			id, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("id must be a string, got %T", value)
			}
			node.ID = id
			continue
		case "rowRef":
			switch ref := value.(type) {
			case uuid.UUID:
				node.RowRef = ref
			case string:
				parsed, err := uuid.Parse(ref)
				if err != nil {
					return nil, fmt.Errorf("invalid row ref %q: %w", ref, err)
				}
				node.RowRef = parsed
			}
			continue
		}

		name := key
		if ct.CamelCaseFields {
			name = CamelCase(key)
		}
		node.Fields[name] = value
	}

	for field, spec := range ct.References {
		value, ok := node.Fields[field]
		if !ok {
			continue
		}
		coerced, err := coerceReference(value, spec)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field, err)
		}
		node.Fields[field] = coerced
	}

	for field, spec := range ct.ExtraFields {
		if baseTypeName(spec.Type) != "File" {
			continue
		}
		value, ok := node.Fields[field].(string)
		if !ok || value == "" {
			continue
		}
		node.Fields[field] = ResolveAssetPath(value, ct.AssetsContext)
	}

	return node, nil
}

// coerceReference shapes a reference field value into an id string, or a
// slice of id strings for a many-cardinality reference.
func coerceReference(value any, spec contentgraph.ReferenceSpec) (any, error) {
	if spec.Many {
		items, ok := value.([]any)
		if !ok {
			if ids, ok := value.([]string); ok {
				out := make([]any, len(ids))
				for i, id := range ids {
					out[i] = id
				}
				return out, nil
			}
			return nil, fmt.Errorf("expected a list of %s ids, got %T", spec.TypeName, value)
		}
		out := make([]any, 0, len(items))
		for _, item := range items {
			id, err := referenceID(item, spec.TypeName)
			if err != nil {
				return nil, err
			}
			out = append(out, id)
		}
		return out, nil
	}
	return referenceID(value, spec.TypeName)
}

func referenceID(value any, typeName string) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case *contentgraph.Node:
		return v.ID, nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", fmt.Errorf("expected a %s id, got %T", typeName, value)
	}
}

// ResolveAssetPath resolves a relative asset path against the assets
// context. Absolute paths and URLs pass through; an http(s) context joins by
// URL, any other context joins as a filesystem-style path.
func ResolveAssetPath(asset, context string) string {
	if context == "" || path.IsAbs(asset) || strings.Contains(asset, "://") {
		return asset
	}
	if strings.HasPrefix(context, "http://") || strings.HasPrefix(context, "https://") {
		base, err := url.Parse(context)
		if err != nil {
			return asset
		}
		return base.JoinPath(asset).String()
	}
	return path.Join(context, asset)
}

// CamelCase converts snake_case and kebab-case field names to camelCase.
// Names already in camelCase pass through unchanged.
func CamelCase(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	if len(parts) == 0 {
		return name
	}
	var b strings.Builder
	b.WriteString(parts[0])
	for _, part := range parts[1:] {
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

func baseTypeName(t string) string {
	return strings.Trim(t, "[]!")
}

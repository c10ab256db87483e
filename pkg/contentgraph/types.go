package contentgraph

import (
	"github.com/google/uuid"
)

// Node represents a single typed document inside one content type's
// collection.
//
// ID is the caller-meaningful identity, unique within the collection. RowRef
// is an opaque handle assigned at first insertion and preserved across
// updates; callers must never assign it themselves.
type Node struct {
	ID       string         `json:"id"`
	RowRef   uuid.UUID      `json:"row_ref"`
	TypeName string         `json:"type_name"`
	Fields   map[string]any `json:"fields"`
	Internal NodeInternal   `json:"internal"`
}

// NodeInternal carries store-owned bookkeeping that is not part of the
// document content.
type NodeInternal struct {
	Managed bool   `json:"managed"`
	Owner   string `json:"owner,omitempty"`
}

// Clone returns a copy of the node with its own Fields map. Field values are
// copied shallowly; nodes treat values as immutable once committed.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Fields = make(map[string]any, len(n.Fields))
	for k, v := range n.Fields {
		c.Fields[k] = v
	}
	return &c
}

// Field returns the named content field, or nil when absent.
func (n *Node) Field(name string) any {
	if n == nil || n.Fields == nil {
		return nil
	}
	return n.Fields[name]
}

// ReferenceSpec declares that a field holds the id (or ids) of nodes in
// another content type's collection.
type ReferenceSpec struct {
	TypeName string `json:"type_name"`
	Many     bool   `json:"many"`
}

// FieldSpec declares an extra schema field on a content type. Type uses
// GraphQL type notation (e.g. "String", "[Date]", "File"). Options carries
// per-field extension metadata interpreted during schema composition.
type FieldSpec struct {
	Type    string         `json:"type"`
	Options map[string]any `json:"options,omitempty"`
}

// ContentType is the declarative metadata for one content type. It is not
// enforced at insertion time; schema composition consumes it later.
type ContentType struct {
	Name            string                   `json:"name"`
	References      map[string]ReferenceSpec `json:"references,omitempty"`
	ExtraFields     map[string]FieldSpec     `json:"extra_fields,omitempty"`
	CamelCaseFields bool                     `json:"camel_case_fields"`
	// AssetsContext is the path or URL that relative asset fields resolve
	// against.
	AssetsContext string `json:"assets_context,omitempty"`
}

// Query matches nodes by field equality. The reserved key "id" matches the
// node id. A nil or empty query matches every node.
type Query map[string]any

// Matches reports whether the node satisfies every entry of the query.
func (q Query) Matches(n *Node) bool {
	if n == nil {
		return false
	}
	for k, want := range q {
		if k == "id" {
			if n.ID != want {
				return false
			}
			continue
		}
		if n.Fields[k] != want {
			return false
		}
	}
	return true
}

// contentDigestNamespace anchors ContentDigest so the same natural key always
// produces the same identifier across processes.
var contentDigestNamespace = uuid.MustParse("9aefb97e-3b0c-4f41-98d8-7b9c2aefdc5b")

// ContentDigest maps an arbitrary natural-key string to a stable identifier.
// It is offered to callers for id derivation; the store never invokes it on
// its own.
func ContentDigest(natural string) string {
	return uuid.NewSHA1(contentDigestNamespace, []byte(natural)).String()
}

package contentgraph

import (
	"github.com/google/uuid"
)

// Collection defines the interface for node persistence within one content
// type. Implementations must hand out defensive copies so committed nodes
// stay immutable from the caller's side.
type Collection interface {
	// Insert adds a node; ErrDuplicateID when the id is already taken.
	Insert(node *Node) error

	// Get returns the node with the given id, or nil.
	Get(id string) *Node

	// GetByRef returns the node carrying the given row ref, or nil.
	GetByRef(ref uuid.UUID) *Node

	// Replace swaps the node stored under priorID for the given node,
	// accounting for an id change. ErrNodeMissing when priorID is gone,
	// ErrDuplicateID when the new id collides with another node.
	Replace(priorID string, node *Node) error

	// Remove deletes the node with the given id and returns its final
	// snapshot; ErrNodeMissing when absent.
	Remove(id string) (*Node, error)

	// Find returns the first node matching the query, or nil.
	Find(q Query) *Node

	// FindAll returns every node matching the query, ordered by id. The
	// result is a fresh snapshot; a later call re-queries.
	FindAll(q Query) []*Node

	// Len returns the number of stored nodes.
	Len() int

	// IDs returns every stored id in sorted order.
	IDs() []string
}

// Normalizer converts raw caller input into canonical Node shape according
// to the content type's metadata. The store trusts its output and does not
// re-validate.
type Normalizer interface {
	Normalize(raw map[string]any, ct *ContentType) (*Node, error)
}

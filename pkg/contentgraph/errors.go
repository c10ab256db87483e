package contentgraph

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrNodeNotFound indicates an update or removal targeted an absent node
	ErrNodeNotFound = errors.New("node not found")

	// ErrDuplicateID indicates the collection rejected an insert because the
	// id is already taken
	ErrDuplicateID = errors.New("duplicate node id")

	// ErrNodeMissing indicates the collection no longer holds the node a
	// replacement was anchored on
	ErrNodeMissing = errors.New("node missing from collection")

	// ErrCollectionRequired indicates a store was constructed without a
	// backing collection
	ErrCollectionRequired = errors.New("collection is required")

	// ErrNormalizerRequired indicates a store was constructed without a
	// normalizer
	ErrNormalizerRequired = errors.New("normalizer is required")
)

// NodeError represents an error raised by a node operation. It identifies
// the content type, the node id, and the failing operation.
type NodeError struct {
	TypeName string
	NodeID   string
	Op       string
	Err      error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node operation %s failed for %s %q: %v", e.Op, e.TypeName, e.NodeID, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

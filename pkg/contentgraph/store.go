package contentgraph

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Store owns the node collection of a single content type. Mutation is
// synchronous end-to-end: a call returns only after the commit and its
// observer notifications, and the store supports a single writer at a time
// by phase discipline.
type Store struct {
	ct     *ContentType
	coll   Collection
	norm   Normalizer
	hooks  []Hook
	logger *slog.Logger
	observers
}

// Option represents a functional option for configuring a store
type Option func(*Store)

// WithCollection sets the backing collection for the store
func WithCollection(coll Collection) Option {
	return func(s *Store) {
		s.coll = coll
	}
}

// WithNormalizer sets the input normalizer for the store
func WithNormalizer(n Normalizer) Option {
	return func(s *Store) {
		s.norm = n
	}
}

// WithHooks appends hooks to the store's chain
func WithHooks(hooks ...Hook) Option {
	return func(s *Store) {
		s.hooks = append(s.hooks, hooks...)
	}
}

// WithLogger sets the logger used for recovered persistence errors
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a store for the given content type with the given options
func NewStore(ct *ContentType, options ...Option) (*Store, error) {
	s := &Store{ct: ct}

	for _, option := range options {
		option(s)
	}

	if s.coll == nil {
		return nil, ErrCollectionRequired
	}
	if s.norm == nil {
		return nil, ErrNormalizerRequired
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

// ContentType returns the store's declarative metadata.
func (s *Store) ContentType() *ContentType {
	return s.ct
}

// OnAdd registers an observer for committed inserts.
func (s *Store) OnAdd(fn AddObserver) {
	s.onAdd = append(s.onAdd, fn)
}

// OnUpdate registers an observer for committed updates.
func (s *Store) OnUpdate(fn UpdateObserver) {
	s.onUpdate = append(s.onUpdate, fn)
}

// OnRemove registers an observer for removals.
func (s *Store) OnRemove(fn RemoveObserver) {
	s.onRemove = append(s.onRemove, fn)
}

// AddReference registers declarative reference metadata for a field. Current
// node content is not validated against it.
func (s *Store) AddReference(field string, spec ReferenceSpec) {
	if s.ct.References == nil {
		s.ct.References = make(map[string]ReferenceSpec)
	}
	s.ct.References[field] = spec
}

// AddSchemaField registers declarative schema metadata for an extra field.
func (s *Store) AddSchemaField(field string, spec FieldSpec) {
	if s.ct.ExtraFields == nil {
		s.ct.ExtraFields = make(map[string]FieldSpec)
	}
	s.ct.ExtraFields[field] = spec
}

// AddNode normalizes raw input, runs the hook chain, and commits the node.
//
// A hook veto aborts silently: (nil, nil) with no event and no mutation. A
// collection-level rejection (e.g. duplicate id) is recovered locally: it is
// logged with the content-type name and AddNode returns (nil, nil), again
// with no event and no partial mutation.
func (s *Store) AddNode(ctx context.Context, raw map[string]any) (*Node, error) {
	candidate, err := s.norm.Normalize(raw, s.ct)
	if err != nil {
		return nil, &NodeError{TypeName: s.ct.Name, Op: "add", Err: err}
	}
	candidate.TypeName = s.ct.Name

	node, err := runHooks(ctx, s.hooks, candidate, s.ct)
	if err != nil {
		return nil, &NodeError{TypeName: s.ct.Name, NodeID: candidate.ID, Op: "add", Err: err}
	}
	if node == nil {
		return nil, nil
	}

	if node.RowRef == uuid.Nil {
		node.RowRef = uuid.New()
	}
	node.Internal.Managed = true

	if err := s.coll.Insert(node); err != nil {
		s.logger.Warn("node insert rejected",
			"contentType", s.ct.Name, "id", node.ID, "error", err)
		return nil, nil
	}

	s.emitAdd(node)
	return node, nil
}

// GetNode returns the node with the given id, or nil.
func (s *Store) GetNode(id string) *Node {
	return s.coll.Get(id)
}

// FindNode returns the first node matching the query, or nil.
func (s *Store) FindNode(q Query) *Node {
	return s.coll.Find(q)
}

// FindNodes returns a fresh snapshot of every node matching the query. The
// result is finite and not restartable; call again to re-query.
func (s *Store) FindNodes(q Query) []*Node {
	return s.coll.FindAll(q)
}

// Len returns the number of nodes in the store.
func (s *Store) Len() int {
	return s.coll.Len()
}

// UpdateNode locates the prior node by id or row ref, re-runs the normalize
// and hook path, and swaps the content while preserving ID and RowRef.
//
// Absence of the target is fatal. A hook veto degrades the update to a
// removal of the prior node: the remove observers fire, not update. A
// collection-level failure after a successful hook pass is recovered like in
// AddNode; note that hook side effects are non-transactional with respect to
// the store in that branch, since the hooks have already run.
func (s *Store) UpdateNode(ctx context.Context, raw map[string]any) (*Node, error) {
	candidate, err := s.norm.Normalize(raw, s.ct)
	if err != nil {
		return nil, &NodeError{TypeName: s.ct.Name, Op: "update", Err: err}
	}
	candidate.TypeName = s.ct.Name

	prior := s.locate(candidate)
	if prior == nil {
		return nil, &NodeError{TypeName: s.ct.Name, NodeID: candidate.ID, Op: "update", Err: ErrNodeNotFound}
	}

	node, err := runHooks(ctx, s.hooks, candidate, s.ct)
	if err != nil {
		return nil, &NodeError{TypeName: s.ct.Name, NodeID: prior.ID, Op: "update", Err: err}
	}
	if node == nil {
		// The hook rejected the new content; the prior node is removed
		// rather than left stale.
		removed, err := s.coll.Remove(prior.ID)
		if err != nil {
			return nil, &NodeError{TypeName: s.ct.Name, NodeID: prior.ID, Op: "update", Err: err}
		}
		s.emitRemove(removed)
		return nil, nil
	}

	if node.ID == "" {
		node.ID = prior.ID
	}
	node.RowRef = prior.RowRef
	node.Internal.Managed = true

	if err := s.coll.Replace(prior.ID, node); err != nil {
		s.logger.Warn("node update rejected",
			"contentType", s.ct.Name, "id", node.ID, "error", err)
		return nil, nil
	}

	s.emitUpdate(node, prior)
	return node, nil
}

// RemoveNode deletes the node with the given id; absence is fatal. The
// remove observers receive the pre-removal snapshot.
func (s *Store) RemoveNode(id string) error {
	node, err := s.coll.Remove(id)
	if err != nil {
		return &NodeError{TypeName: s.ct.Name, NodeID: id, Op: "remove", Err: ErrNodeNotFound}
	}
	s.emitRemove(node)
	return nil
}

// locate resolves the prior node for an update, by id first, then by the
// candidate's row ref.
func (s *Store) locate(candidate *Node) *Node {
	if candidate.ID != "" {
		if n := s.coll.Get(candidate.ID); n != nil {
			return n
		}
	}
	if candidate.RowRef != uuid.Nil {
		return s.coll.GetByRef(candidate.RowRef)
	}
	return nil
}

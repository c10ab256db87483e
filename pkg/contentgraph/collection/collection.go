package collection

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/grove-cms/grove/pkg/contentgraph"
)

// Collection implements contentgraph.Collection using in-memory storage
type Collection struct {
	mu    sync.RWMutex
	nodes map[string]*contentgraph.Node
	byRef map[uuid.UUID]string // row ref -> node id
}

// New creates a new in-memory collection
func New() contentgraph.Collection {
	return &Collection{
		nodes: make(map[string]*contentgraph.Node),
		byRef: make(map[uuid.UUID]string),
	}
}

func (c *Collection) Insert(node *contentgraph.Node) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.nodes[node.ID]; exists {
		return contentgraph.ErrDuplicateID
	}

	// Store a copy to avoid external modifications
	c.nodes[node.ID] = node.Clone()
	if node.RowRef != uuid.Nil {
		c.byRef[node.RowRef] = node.ID
	}
	return nil
}

func (c *Collection) Get(id string) *contentgraph.Node {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.nodes[id].Clone()
}

func (c *Collection) GetByRef(ref uuid.UUID) *contentgraph.Node {
	c.mu.RLock()
	defer c.mu.RUnlock()

	id, ok := c.byRef[ref]
	if !ok {
		return nil
	}
	return c.nodes[id].Clone()
}

func (c *Collection) Replace(priorID string, node *contentgraph.Node) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prior, exists := c.nodes[priorID]
	if !exists {
		return contentgraph.ErrNodeMissing
	}
	if node.ID != priorID {
		if _, taken := c.nodes[node.ID]; taken {
			return contentgraph.ErrDuplicateID
		}
		delete(c.nodes, priorID)
	}
	delete(c.byRef, prior.RowRef)

	c.nodes[node.ID] = node.Clone()
	if node.RowRef != uuid.Nil {
		c.byRef[node.RowRef] = node.ID
	}
	return nil
}

func (c *Collection) Remove(id string) (*contentgraph.Node, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, exists := c.nodes[id]
	if !exists {
		return nil, contentgraph.ErrNodeMissing
	}
	delete(c.nodes, id)
	delete(c.byRef, node.RowRef)
	return node, nil
}

func (c *Collection) Find(q contentgraph.Query) *contentgraph.Node {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, id := range c.sortedIDs() {
		if q.Matches(c.nodes[id]) {
			return c.nodes[id].Clone()
		}
	}
	return nil
}

func (c *Collection) FindAll(q contentgraph.Query) []*contentgraph.Node {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var result []*contentgraph.Node
	for _, id := range c.sortedIDs() {
		if q.Matches(c.nodes[id]) {
			result = append(result, c.nodes[id].Clone())
		}
	}
	return result
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.nodes)
}

func (c *Collection) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.sortedIDs()
}

// sortedIDs keeps iteration deterministic. Callers must hold the lock.
func (c *Collection) sortedIDs() []string {
	ids := maps.Keys(c.nodes)
	slices.Sort(ids)
	return ids
}

package contentgraph

import (
	"log/slog"
)

// AddObserver is notified after a node is committed to the collection.
type AddObserver func(node *Node)

// UpdateObserver is notified after an update commits, with the committed
// node and the pre-update snapshot.
type UpdateObserver func(node, prior *Node)

// RemoveObserver is notified after a removal, with the pre-removal snapshot.
type RemoveObserver func(node *Node)

// observers holds the three typed observer lists of a store. Lists are
// invoked synchronously in registration order; there are no wildcard events.
type observers struct {
	onAdd    []AddObserver
	onUpdate []UpdateObserver
	onRemove []RemoveObserver
}

func (o *observers) emitAdd(node *Node) {
	for _, fn := range o.onAdd {
		fn(node)
	}
}

func (o *observers) emitUpdate(node, prior *Node) {
	for _, fn := range o.onUpdate {
		fn(node, prior)
	}
}

func (o *observers) emitRemove(node *Node) {
	for _, fn := range o.onRemove {
		fn(node)
	}
}

// LoggingObservers returns observers that log every lifecycle event.
// Useful for development and debugging.
func LoggingObservers(logger *slog.Logger) (AddObserver, UpdateObserver, RemoveObserver) {
	add := func(node *Node) {
		logger.Info("node added", "contentType", node.TypeName, "id", node.ID)
	}
	update := func(node, prior *Node) {
		logger.Info("node updated", "contentType", node.TypeName, "id", node.ID, "priorId", prior.ID)
	}
	remove := func(node *Node) {
		logger.Info("node removed", "contentType", node.TypeName, "id", node.ID)
	}
	return add, update, remove
}

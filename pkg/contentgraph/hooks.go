package contentgraph

import (
	"context"
)

// Hook system allows extending store behavior without modifying core code.
// Hooks run on the normalized candidate before it is committed, identically
// on insert and update.

// Hook inspects or transforms a candidate node. Returning (nil, nil) vetoes
// the operation: an insert is silently aborted, an update degrades to a
// removal of the prior node. A non-nil error is fatal for the operation.
type Hook func(ctx context.Context, candidate *Node, ct *ContentType) (*Node, error)

// runHooks threads the candidate through the chain in registration order.
// A veto stops the chain immediately.
func runHooks(ctx context.Context, hooks []Hook, candidate *Node, ct *ContentType) (*Node, error) {
	node := candidate
	for _, h := range hooks {
		next, err := h(ctx, node, ct)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, nil
		}
		node = next
	}
	return node, nil
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package peer

// Node is the platform side of a peer. The peer calls these methods on
// the tree thread as its state changes; the node decides what to cache
// and what to tell automation clients.
type Node interface {
	// ChildrenChanged reports that the peer's child list is stale.
	ChildrenChanged()

	// ParentChanged reports that the peer's parent link changed or was
	// invalidated.
	ParentChanged()

	// RootChanged reports that the peer may now belong to a different
	// root.
	RootChanged()

	// PropertiesInvalidated reports that any property may have changed.
	PropertiesInvalidated()

	// PropertyChanged reports one known property change.
	PropertyChanged(property Property, oldValue, newValue any)

	// Dispose releases the node. Further notifications are ignored.
	Dispose()
}

// NodeFactory creates the platform node for a new peer. CreateNode is
// called from [New], before the peer is returned to its element, so it
// must not call back into hooks that assume the element has recorded
// the peer.
type NodeFactory interface {
	CreateNode(p *Peer) Node
}

// NodeFactoryFunc adapts a function to NodeFactory.
type NodeFactoryFunc func(p *Peer) Node

func (f NodeFactoryFunc) CreateNode(p *Peer) Node { return f(p) }

// DetachedFactory creates nodes that ignore every notification. It is
// used for peers that have no platform representation.
var DetachedFactory NodeFactory = NodeFactoryFunc(func(*Peer) Node { return detachedNode{} })

type detachedNode struct{}

func (detachedNode) ChildrenChanged()                   {}
func (detachedNode) ParentChanged()                     {}
func (detachedNode) RootChanged()                       {}
func (detachedNode) PropertiesInvalidated()             {}
func (detachedNode) PropertyChanged(Property, any, any) {}
func (detachedNode) Dispose()                           {}

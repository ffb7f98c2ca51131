// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"context"

	"github.com/bureau-foundation/automation/focus"
	"github.com/bureau-foundation/automation/lib/dispatch"
	"github.com/bureau-foundation/automation/lib/geometry"
	"github.com/bureau-foundation/automation/peer"
)

// RootNode is the node of a top-level peer (one with a Root facet). It
// tracks keyboard focus for its tree and converts peer coordinates to
// screen coordinates.
//
// A RootNode subscribes to the factory's focus manager when it is
// created and unsubscribes when it is disposed.
type RootNode struct {
	*Node

	provider     peer.RootProvider
	subscription *focus.Subscription

	focused      *Node
	focusedValid bool
}

func newRootNode(node *Node, provider peer.RootProvider) *RootNode {
	root := &RootNode{Node: node, provider: provider}
	node.root = root
	root.subscription = node.factory.focus.Subscribe(root.focusChanged)
	return root
}

// focusChanged runs on the tree thread, synchronously from
// focus.Manager.SetFocused.
func (r *RootNode) focusChanged(element focus.Element) {
	if r.disposed {
		return
	}
	focused := r.resolve(element)
	if r.focusedValid && focused == r.focused {
		return
	}
	r.focused = focused
	r.focusedValid = true

	if r.focusInterest > 0 {
		r.factory.raise(FocusChangedEvent{Root: r, Focused: focused})
	}
}

// resolve maps a focused element to a node in this root, or nil when
// the element belongs to another root.
func (r *RootNode) resolve(element focus.Element) *Node {
	if element == nil || element.FocusRoot() != r.provider.Owner() {
		return nil
	}
	return NodeOf(r.provider.PeerFor(element))
}

// Focus returns the node holding keyboard focus within this root, or
// nil.
func (r *RootNode) Focus(ctx context.Context) (*Node, error) {
	return dispatch.Call(ctx, r.dispatcher(), func(context.Context) (*Node, error) {
		if r.disposed {
			return nil, nil
		}
		if !r.focusedValid {
			r.focused = r.resolve(r.factory.focus.Focused())
			r.focusedValid = true
		}
		return r.focused, nil
	})
}

// ElementFromPoint hit-tests a point in root coordinates.
func (r *RootNode) ElementFromPoint(ctx context.Context, point geometry.Point) (*Node, error) {
	return dispatch.Call(ctx, r.dispatcher(), func(context.Context) (*Node, error) {
		if r.disposed {
			return nil, nil
		}
		return NodeOf(r.provider.PeerFromPoint(point)), nil
	})
}

// ToScreen converts a rectangle in root coordinates to screen
// coordinates. Tree thread only.
func (r *RootNode) ToScreen(rect geometry.Rect) geometry.Rect {
	if rect.IsEmpty() {
		return rect
	}
	return geometry.NewRect(r.provider.PointToScreen(rect.Position()), rect.Size())
}

// Dispose unsubscribes from focus changes and disposes the node.
func (r *RootNode) Dispose() {
	if r.disposed {
		return
	}
	r.subscription.Close()
	r.focused = nil
	r.Node.Dispose()
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package peer implements automation peers: in-process shadow objects
// that represent UI elements to assistive technology.
//
// Each element has at most one [Peer], created lazily by the element.
// Peers form a tree that mirrors the visible part of the element tree.
// The tree is maintained lazily:
//
//   - [Peer.Children] recomputes the child list only after
//     [Peer.InvalidateChildren], re-linking the parent pointers of
//     children that were added or removed.
//   - [Peer.Parent] runs the behavior's ConnectToTree hook the first time
//     it is asked (and after [Peer.InvalidateParent]) so that a peer
//     created before its ancestors can still find its place.
//
// Element-specific behavior is supplied as a [Behavior] (a table of
// optional hooks) and a [Capabilities] value naming which optional
// facets (Invoke, Toggle, RangeValue, Scroll, Selection, SelectionItem,
// ExpandCollapse, Value, Root) the element implements. There is no peer
// subclassing: a button peer is a Peer with RoleButton, a Name hook, and
// an Invoke facet.
//
// Every peer owns one platform [Node], created through a [NodeFactory]
// when the peer is constructed and never replaced. The peer forwards
// structural and property notifications to it.
//
// Peers are not safe for concurrent use. All methods must be called on
// the tree thread (see lib/dispatch).
package peer

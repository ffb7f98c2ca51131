// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package control is a small retained-mode element tree and the
// automation peers that represent it.
//
// Elements ([Button], [CheckBox], [Slider], [ListBox], [Window], ...)
// embed [Control], which holds the visual tree links, layout bounds,
// visibility, enablement and focus state. Each element lazily creates
// exactly one peer (see [Control.Peer]); the peer's behavior hooks read
// the element, and the peer watches the element for changes:
//
//   - a visibility change invalidates the visual parent's children,
//   - a bounds change invalidates the peer's properties,
//   - a visual parent change invalidates the peer's parent link,
//   - a visual child list change invalidates the peer's children.
//
// Like the peers and the platform nodes, elements belong to the tree
// thread. Mutate them from tasks run by the dispatcher.
package control

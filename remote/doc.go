// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package remote exposes platform nodes to out-of-process automation
// clients over the service socket.
//
// [Server] registers one socket action per node operation: reading
// (roots, tree, show, property, navigate, focused, element-at),
// commands (invoke, toggle, set-value, set-range, expand, collapse,
// select, add-to-selection, remove-from-selection, scroll,
// scroll-percent, scroll-into-view, focus, context-menu) and event
// interest (advise, unadvise, events). Elements are addressed by node
// id, the second half of the runtime id.
//
// Every request runs on the handler's goroutine and reaches the tree
// thread through the node API, so a request is atomic with respect to
// the tree but two requests from different clients may interleave. A
// tree walk runs entirely inside one dispatcher task so the result is
// a consistent cut of the tree.
//
// # Events
//
// [EventLog] is a platform.Sink that keeps the most recent events in a
// ring with increasing sequence numbers. Clients poll with the "events"
// action, passing the last sequence they saw and optionally a wait so
// the call returns as soon as something new arrives. When a client
// falls behind the ring, the response reports how many events it
// missed.
//
// Property and focus events are only raised for nodes a client has
// advised. "advise" returns a subscription id; "unadvise" releases it.
// Subscriptions left open when the server closes are released then.
//
// # Snapshots
//
// The "snapshot" action returns a tree dump with a BLAKE3 digest of its
// CBOR encoding. A client that passes the digest it already has gets
// back only the digest when nothing changed.
package remote

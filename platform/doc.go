// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package platform projects automation peers to automation clients.
//
// Every peer created with a [Factory] owns one [Node]. A node caches a
// [Snapshot] of its peer's properties, refreshes it when it is stale,
// and reports changed fields to clients that advised
// EventAutomationPropertyChanged. Diffing is per field with value
// equality, so refreshing an unchanged peer reports nothing.
//
// Clients call nodes from any goroutine. Every exported method that
// takes a context runs on the tree thread through the factory's
// [dispatch.Dispatcher] and blocks until it has finished there, so a
// command has been committed (and its effects diffed) when it returns.
//
// Peers with a Root facet get a [RootNode], which follows the process
// focus manager for its tree and converts peer rectangles to screen
// coordinates.
//
// Identifiers (properties, patterns, control types, events) use the UI
// Automation numbering.
package platform

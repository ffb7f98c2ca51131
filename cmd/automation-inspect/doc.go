// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Automation-inspect is a client for automation-host. It prints the
// element tree, reads properties, runs commands against elements,
// follows the event log, fuzzy-finds elements by name, saves
// compressed snapshots of the tree and browses the tree interactively.
//
// Elements are addressed by the numeric ids the tree and find commands
// print. Every command accepts --socket (default: $AUTOMATION_SOCKET,
// else the host's default socket path) and most accept --json.
//
//	automation-inspect tree --depth 3
//	automation-inspect find save
//	automation-inspect invoke 7
//	automation-inspect events --follow --advise 12
//	automation-inspect browse
package main

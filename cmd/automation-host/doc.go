// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Automation-host hosts a declared UI and serves its automation tree
// to clients over a Unix socket.
//
// On startup it:
//
//  1. Loads the configuration from --config or AUTOMATION_CONFIG, or
//     uses the defaults when neither is set.
//  2. Starts the tree thread and the platform node factory.
//  3. Builds the layout named by host.layout_path (the demo window
//     when empty) on the tree thread and opens its windows.
//  4. Serves the remote actions on host.socket_path, readable only by
//     the host's own user.
//  5. Serves Prometheus metrics on host.metrics_address when set.
//
// SIGINT or SIGTERM shuts the host down: open subscriptions are
// released, in-flight requests drain, and the tree thread stops.
package main

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the automation
// binaries.
//
// Four package-level variables are injected at build time via
// -ldflags -X, for example:
//
//	go build -ldflags "-X github.com/bureau-foundation/automation/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Without them, [Info] reads the VCS revision the go command stamps
// into the binary. The host reports [Info] in its status reply so
// clients can tell which build they are driving.
package version

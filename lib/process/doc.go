// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process holds the entrypoint helper the automation binaries
// use for errors that happen before, or outside of, the structured
// logger.
package process

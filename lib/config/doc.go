// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the automation
// host.
//
// Configuration is loaded from a single file named by either the
// AUTOMATION_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no file discovery and no per-field
// environment override. A host started without either runs on
// [Default].
//
// The file may carry development and production sections that override
// base values when [Config].Environment matches. Production defaults are
// stricter: the Prometheus listener is off unless configured and the log
// level is info.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${XDG_RUNTIME_DIR} and ${VAR:-default} patterns are expanded.
//
// Key exports:
//
//   - [Config] -- master struct with Host, Automation and Logging
//   - [Default] -- returns a Config with development defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other packages of this module.
package config

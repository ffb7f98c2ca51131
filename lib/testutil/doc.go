// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive], [RequireSend], and [RequireClosed] wrap the
// select-with-timeout safety valve so that tests exercising the tree
// thread never hang forever when a marshaled call deadlocks. They are
// the only place in the test suite where wall-clock timeouts are used.
//
// All helpers call t.Fatalf on failure rather than returning errors.
package testutil

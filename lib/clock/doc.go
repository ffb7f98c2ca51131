// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// The automation bridge stamps every event it raises and the dispatcher
// measures how long callers wait for the tree thread. Both read time
// through a Clock so tests can pin timestamps:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	factory := platform.NewFactory(platform.FactoryConfig{Clock: c, ...})
//	c.Advance(time.Second)
//
// Production code uses Real().
package clock

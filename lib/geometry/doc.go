// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package geometry provides the small value types shared by the peer
// tree and the platform bridge: points, sizes, vectors, and axis-aligned
// rectangles in device-independent units.
//
// All types are plain comparable values so that the bridge node can diff
// cached properties with ==.
package geometry

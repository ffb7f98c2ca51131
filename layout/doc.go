// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package layout describes control trees in files and builds them.
//
// A layout is a list of windows, each with a title, a screen position,
// a size and a tree of elements. Layouts are authored as YAML or as
// JSONC (JSON with comments and trailing commas); the file extension
// picks the format. Both formats share one schema:
//
//	windows:
//	  - title: Settings
//	    position: {x: 100, y: 80}
//	    size: {width: 400, height: 300}
//	    children:
//	      - kind: checkbox
//	        name: wrap
//	        content: Wrap lines
//	        bounds: {x: 10, y: 10, width: 120, height: 20}
//
// An element's name is the key [Tree.Lookup] finds it by. Clients see
// the automation name the control derives from its content, or the
// element's label when one is set.
//
// The typical flow:
//
//  1. ReadFile or Parse: file bytes to a [Document]
//  2. Validate: structural checks, returned as human-readable issues
//  3. Build: on the tree thread, create the controls and open the windows
//
// [Demo] returns the layout the host shows when no layout is configured.
package layout

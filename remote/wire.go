// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"fmt"

	"github.com/bureau-foundation/automation/lib/geometry"
	"github.com/bureau-foundation/automation/platform"
)

// Rect is a screen rectangle on the wire.
type Rect struct {
	X      float64 `cbor:"x" json:"x"`
	Y      float64 `cbor:"y" json:"y"`
	Width  float64 `cbor:"width" json:"width"`
	Height float64 `cbor:"height" json:"height"`
}

func rectOf(r geometry.Rect) Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// ElementInfo summarizes one node.
type ElementInfo struct {
	ID                   int      `cbor:"id" json:"id"`
	RuntimeID            []int    `cbor:"runtime_id" json:"runtime_id"`
	Name                 string   `cbor:"name" json:"name"`
	ControlType          string   `cbor:"control_type" json:"control_type"`
	LocalizedControlType string   `cbor:"localized_control_type,omitempty" json:"localized_control_type,omitempty"`
	ClassName            string   `cbor:"class_name,omitempty" json:"class_name,omitempty"`
	Bounds               Rect     `cbor:"bounds" json:"bounds"`
	Enabled              bool     `cbor:"enabled" json:"enabled"`
	Focusable            bool     `cbor:"focusable" json:"focusable"`
	Focused              bool     `cbor:"focused" json:"focused"`
	ControlElement       bool     `cbor:"control_element" json:"control_element"`
	Patterns             []string `cbor:"patterns,omitempty" json:"patterns,omitempty"`
	ChildCount           int      `cbor:"child_count" json:"child_count"`
}

// TreeNode is an element with its descendants. Truncated is set when
// the walk stopped at the depth limit with children left unvisited.
type TreeNode struct {
	ElementInfo
	Children  []TreeNode `cbor:"children,omitempty" json:"children,omitempty"`
	Truncated bool       `cbor:"truncated,omitempty" json:"truncated,omitempty"`
}

// Property is one named property value of an element.
type Property struct {
	Name  string `cbor:"name" json:"name"`
	Value any    `cbor:"value" json:"value"`
}

// ElementDetail is the response to "show": the summary plus every
// property the element has.
type ElementDetail struct {
	ElementInfo
	Parent     int        `cbor:"parent,omitempty" json:"parent,omitempty"`
	Properties []Property `cbor:"properties" json:"properties"`
}

// EventRecord is one logged automation event.
type EventRecord struct {
	Sequence uint64 `cbor:"seq" json:"seq"`
	Time     string `cbor:"time" json:"time"`
	Category string `cbor:"category" json:"category"`
	Element  int    `cbor:"element" json:"element"`

	// Property changes.
	Property string `cbor:"property,omitempty" json:"property,omitempty"`
	Old      any    `cbor:"old,omitempty" json:"old,omitempty"`
	New      any    `cbor:"new,omitempty" json:"new,omitempty"`

	// Focus changes. Zero means focus left the root.
	Focused int `cbor:"focused,omitempty" json:"focused,omitempty"`

	// Structure changes.
	Change string `cbor:"change,omitempty" json:"change,omitempty"`
}

// wireValue converts a property value into something every client can
// decode: node references become ids and enumerations their names.
func wireValue(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case *platform.Node:
		if v == nil {
			return 0
		}
		return v.ID()
	case []*platform.Node:
		ids := make([]int, len(v))
		for i, node := range v {
			ids[i] = node.ID()
		}
		return ids
	case geometry.Rect:
		return rectOf(v)
	case bool, string, int, float64, []int, []float64:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

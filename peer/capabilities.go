// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package peer

import (
	"fmt"

	"github.com/bureau-foundation/automation/focus"
	"github.com/bureau-foundation/automation/lib/geometry"
)

// ToggleState is the state of a toggleable element.
type ToggleState int

const (
	ToggleOff ToggleState = iota
	ToggleOn
	ToggleIndeterminate
)

func (s ToggleState) String() string {
	switch s {
	case ToggleOff:
		return "off"
	case ToggleOn:
		return "on"
	case ToggleIndeterminate:
		return "indeterminate"
	default:
		return fmt.Sprintf("ToggleState(%d)", int(s))
	}
}

// ToggleStateOf converts a nullable checked flag. Nil is indeterminate.
func ToggleStateOf(checked *bool) ToggleState {
	switch {
	case checked == nil:
		return ToggleIndeterminate
	case *checked:
		return ToggleOn
	default:
		return ToggleOff
	}
}

// ExpandCollapseState is the state of an expandable element.
type ExpandCollapseState int

const (
	Collapsed ExpandCollapseState = iota
	Expanded
	PartiallyExpanded
	LeafNode
)

func (s ExpandCollapseState) String() string {
	switch s {
	case Collapsed:
		return "collapsed"
	case Expanded:
		return "expanded"
	case PartiallyExpanded:
		return "partially-expanded"
	case LeafNode:
		return "leaf"
	default:
		return fmt.Sprintf("ExpandCollapseState(%d)", int(s))
	}
}

// InvokeProvider triggers an element's primary action.
type InvokeProvider interface {
	Invoke() error
}

// ToggleProvider cycles an element through its toggle states.
type ToggleProvider interface {
	ToggleState() ToggleState
	Toggle() error
}

// RangeValueProvider exposes a numeric value within a range.
type RangeValueProvider interface {
	Minimum() float64
	Maximum() float64
	Value() float64
	SetValue(value float64) error
}

// ScrollProvider exposes a scrollable viewport over a larger extent.
// Offsets are in element units, not percentages.
type ScrollProvider interface {
	Extent() geometry.Size
	Viewport() geometry.Size
	Offset() geometry.Vector
	SetOffset(offset geometry.Vector) error

	LineUp() error
	LineDown() error
	LineLeft() error
	LineRight() error
	PageUp() error
	PageDown() error
	PageLeft() error
	PageRight() error
}

// SelectionProvider is a container of selectable items.
type SelectionProvider interface {
	Selection() []*Peer
	CanSelectMultiple() bool
	IsSelectionRequired() bool
}

// SelectionItemProvider is an individually selectable item.
type SelectionItemProvider interface {
	IsSelected() bool
	Select() error
	AddToSelection() error
	RemoveFromSelection() error
}

// ExpandCollapseProvider shows and hides child content.
type ExpandCollapseProvider interface {
	ExpandCollapseState() ExpandCollapseState
	Expand() error
	Collapse() error
}

// ValueProvider exposes an editable string value.
type ValueProvider interface {
	Value() string
	IsReadOnly() bool
	SetValue(value string) error
}

// RootProvider marks the peer of a top-level element: a window or a
// popup. A peer with a Root facet gets a root platform node, which
// tracks focus for the whole tree and converts coordinates to screen
// space.
type RootProvider interface {
	// Owner is the element the peer represents. Focus changes are
	// attributed to this root when the focused element's FocusRoot is
	// Owner.
	Owner() focus.Element

	// PeerFor returns the peer of an element in this root's tree, or
	// nil when the element has no peer or the root is closed.
	PeerFor(element focus.Element) *Peer

	// PointToScreen converts a point in root coordinates to screen
	// coordinates.
	PointToScreen(point geometry.Point) geometry.Point

	// PeerFromPoint hit-tests a point in root coordinates.
	PeerFromPoint(point geometry.Point) *Peer
}

// Capabilities is the closed set of optional facets a peer implements.
// Each field is either the facet implementation or nil. The set is
// fixed when the peer is constructed.
type Capabilities struct {
	Invoke         InvokeProvider
	Toggle         ToggleProvider
	RangeValue     RangeValueProvider
	Scroll         ScrollProvider
	Selection      SelectionProvider
	SelectionItem  SelectionItemProvider
	ExpandCollapse ExpandCollapseProvider
	Value          ValueProvider
	Root           RootProvider
}

// Names lists the facets present, in declaration order.
func (c Capabilities) Names() []string {
	var names []string
	add := func(present bool, name string) {
		if present {
			names = append(names, name)
		}
	}
	add(c.Invoke != nil, "invoke")
	add(c.Toggle != nil, "toggle")
	add(c.RangeValue != nil, "range-value")
	add(c.Scroll != nil, "scroll")
	add(c.Selection != nil, "selection")
	add(c.SelectionItem != nil, "selection-item")
	add(c.ExpandCollapse != nil, "expand-collapse")
	add(c.Value != nil, "value")
	add(c.Root != nil, "root")
	return names
}

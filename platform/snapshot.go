// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"math"
	"slices"

	"github.com/bureau-foundation/automation/lib/geometry"
	"github.com/bureau-foundation/automation/peer"
)

// SnapshotState is the lifecycle of a node's cached properties.
type SnapshotState int

const (
	// Unpopulated nodes have never been refreshed.
	Unpopulated SnapshotState = iota
	// Valid snapshots reflect the peer as of the last refresh.
	Valid
	// Stale snapshots must be refreshed before they are read.
	Stale
)

func (s SnapshotState) String() string {
	switch s {
	case Unpopulated:
		return "unpopulated"
	case Valid:
		return "valid"
	case Stale:
		return "stale"
	default:
		return "unknown"
	}
}

// ScrollInfo is the scroll pattern state of a node. Percents are
// NoScroll for an axis whose extent fits in the viewport.
type ScrollInfo struct {
	HorizontalPercent      float64
	VerticalPercent        float64
	HorizontalViewSize     float64
	VerticalViewSize       float64
	HorizontallyScrollable bool
	VerticallyScrollable   bool
}

// RangeInfo is the range value pattern state of a node.
type RangeInfo struct {
	Minimum     float64
	Maximum     float64
	Value       float64
	IsReadOnly  bool
	LargeChange float64
	SmallChange float64
}

// Snapshot is the cached projection of a peer. BoundingRectangle is in
// screen coordinates. Capability fields hold zero values when the peer
// lacks the capability.
type Snapshot struct {
	BoundingRectangle    geometry.Rect
	ClassName            string
	ControlType          ControlTypeID
	LocalizedControlType string
	Name                 string
	IsEnabled            bool
	IsKeyboardFocusable  bool
	HasKeyboardFocus     bool
	IsControlElement     bool

	ToggleState peer.ToggleState

	Range RangeInfo

	Scroll ScrollInfo

	Selection           []*Node
	CanSelectMultiple   bool
	IsSelectionRequired bool

	IsSelected bool

	ExpandCollapseState peer.ExpandCollapseState

	Value           string
	ValueIsReadOnly bool
}

func (s Snapshot) clone() Snapshot {
	s.Selection = slices.Clone(s.Selection)
	return s
}

// apply stores a value reported by the peer in the matching field. It
// returns false when the property has no field or the value has the
// wrong type, leaving the diff on the next refresh to catch it.
func (s *Snapshot) apply(property peer.Property, value any) bool {
	switch property {
	case peer.PropertyClassName:
		return set(&s.ClassName, value)
	case peer.PropertyLocalizedControlType:
		return set(&s.LocalizedControlType, value)
	case peer.PropertyName:
		return set(&s.Name, value)
	case peer.PropertyIsEnabled:
		return set(&s.IsEnabled, value)
	case peer.PropertyIsKeyboardFocusable:
		return set(&s.IsKeyboardFocusable, value)
	case peer.PropertyHasKeyboardFocus:
		return set(&s.HasKeyboardFocus, value)
	case peer.PropertyIsControlElement:
		return set(&s.IsControlElement, value)
	case peer.PropertyToggleState:
		return set(&s.ToggleState, value)
	case peer.PropertyRangeMinimum:
		return set(&s.Range.Minimum, value)
	case peer.PropertyRangeMaximum:
		return set(&s.Range.Maximum, value)
	case peer.PropertyRangeValue:
		return set(&s.Range.Value, value)
	case peer.PropertyIsSelected:
		return set(&s.IsSelected, value)
	case peer.PropertyCanSelectMultiple:
		return set(&s.CanSelectMultiple, value)
	case peer.PropertyIsSelectionRequired:
		return set(&s.IsSelectionRequired, value)
	case peer.PropertyExpandCollapseState:
		return set(&s.ExpandCollapseState, value)
	case peer.PropertyValue:
		return set(&s.Value, value)
	case peer.PropertyValueIsReadOnly:
		return set(&s.ValueIsReadOnly, value)
	default:
		return false
	}
}

func set[T any](field *T, value any) bool {
	typed, ok := value.(T)
	if ok {
		*field = typed
	}
	return ok
}

// scrollInfo computes the scroll pattern state from a viewport.
func scrollInfo(extent, viewport geometry.Size, offset geometry.Vector) ScrollInfo {
	return ScrollInfo{
		HorizontalPercent:      scrollPercent(offset.X, extent.Width, viewport.Width),
		VerticalPercent:        scrollPercent(offset.Y, extent.Height, viewport.Height),
		HorizontalViewSize:     viewSize(extent.Width, viewport.Width),
		VerticalViewSize:       viewSize(extent.Height, viewport.Height),
		HorizontallyScrollable: extent.Width > viewport.Width,
		VerticallyScrollable:   extent.Height > viewport.Height,
	}
}

func scrollPercent(offset, extent, viewport float64) float64 {
	scrollable := extent - viewport
	if scrollable <= 0 || geometry.IsZero(scrollable) {
		return NoScroll
	}
	return offset * 100 / scrollable
}

func viewSize(extent, viewport float64) float64 {
	if geometry.IsZero(extent) {
		return 100
	}
	return math.Min(100, viewport*100/extent)
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package control

import (
	"math"

	"github.com/bureau-foundation/automation/lib/geometry"
	"github.com/bureau-foundation/automation/peer"
)

// lineSize is the distance one line step scrolls.
const lineSize = 16.0

// ScrollViewer shows a window onto content larger than itself. The
// viewport is the viewer's own size; the extent is the union of its
// children's bounds unless set explicitly.
type ScrollViewer struct {
	Control
	offset geometry.Vector
	extent geometry.Size

	// host also hears offset and extent changes when the viewer is part
	// of another element's template.
	host *Control
}

// NewScrollViewer creates an empty scroll viewer.
func NewScrollViewer() *ScrollViewer {
	s := &ScrollViewer{}
	s.init(s, "ScrollViewer")
	return s
}

// Viewport returns the visible size.
func (s *ScrollViewer) Viewport() geometry.Size { return s.bounds.Size() }

// Extent returns the size of the scrollable content.
func (s *ScrollViewer) Extent() geometry.Size {
	if s.extent != (geometry.Size{}) {
		return s.extent
	}
	var extent geometry.Size
	for _, child := range s.children {
		if !child.visible {
			continue
		}
		extent.Width = math.Max(extent.Width, child.bounds.Right())
		extent.Height = math.Max(extent.Height, child.bounds.Bottom())
	}
	return extent
}

// SetExtent fixes the content size. The zero size goes back to
// measuring the children.
func (s *ScrollViewer) SetExtent(extent geometry.Size) {
	if extent == s.extent {
		return
	}
	old := s.extent
	s.extent = extent
	s.changed(Change{Property: PropertyExtent, Old: old, New: extent})
	s.SetOffset(s.offset)
}

// Offset returns the scroll position.
func (s *ScrollViewer) Offset() geometry.Vector { return s.offset }

// SetOffset scrolls to offset, clamped so the viewport stays within the
// extent.
func (s *ScrollViewer) SetOffset(offset geometry.Vector) {
	extent := s.Extent()
	viewport := s.Viewport()
	offset.X = math.Min(math.Max(offset.X, 0), math.Max(extent.Width-viewport.Width, 0))
	offset.Y = math.Min(math.Max(offset.Y, 0), math.Max(extent.Height-viewport.Height, 0))
	if offset == s.offset {
		return
	}
	old := s.offset
	s.offset = offset
	s.changed(Change{Property: PropertyOffset, Old: old, New: offset})
	s.movedDescendants()
}

// ScrollBy moves the offset by delta.
func (s *ScrollViewer) ScrollBy(delta geometry.Vector) {
	s.SetOffset(geometry.Vector{X: s.offset.X + delta.X, Y: s.offset.Y + delta.Y})
}

func (s *ScrollViewer) changed(change Change) {
	s.notify(change)
	if s.host != nil {
		s.host.notify(change)
	}
}

// makeVisible scrolls the least distance that shows rect, given in
// content coordinates.
func (s *ScrollViewer) makeVisible(rect geometry.Rect) {
	viewport := s.Viewport()
	offset := s.offset
	if rect.X < offset.X {
		offset.X = rect.X
	} else if rect.Right() > offset.X+viewport.Width {
		offset.X = rect.Right() - viewport.Width
	}
	if rect.Y < offset.Y {
		offset.Y = rect.Y
	} else if rect.Bottom() > offset.Y+viewport.Height {
		offset.Y = rect.Bottom() - viewport.Height
	}
	s.SetOffset(offset)
}

func (s *ScrollViewer) createPeer(factory peer.NodeFactory) *peer.Peer {
	return s.newPeer(factory, peerSpec{
		role:             peer.RolePane,
		isControlElement: func() bool { return !s.templated },
		caps:             peer.Capabilities{Scroll: scroller{s}},
	})
}

// scroller is the Scroll facet of a scroll viewer. Elements that
// contain a viewer in their template forward their facet to it.
type scroller struct{ viewer *ScrollViewer }

func (s scroller) Extent() geometry.Size   { return s.viewer.Extent() }
func (s scroller) Viewport() geometry.Size { return s.viewer.Viewport() }
func (s scroller) Offset() geometry.Vector { return s.viewer.offset }

func (s scroller) SetOffset(offset geometry.Vector) error {
	s.viewer.SetOffset(offset)
	return nil
}

func (s scroller) step(dx, dy float64) error {
	s.viewer.ScrollBy(geometry.Vector{X: dx, Y: dy})
	return nil
}

func (s scroller) LineUp() error    { return s.step(0, -lineSize) }
func (s scroller) LineDown() error  { return s.step(0, lineSize) }
func (s scroller) LineLeft() error  { return s.step(-lineSize, 0) }
func (s scroller) LineRight() error { return s.step(lineSize, 0) }

func (s scroller) PageUp() error    { return s.step(0, -s.viewer.Viewport().Height) }
func (s scroller) PageDown() error  { return s.step(0, s.viewer.Viewport().Height) }
func (s scroller) PageLeft() error  { return s.step(-s.viewer.Viewport().Width, 0) }
func (s scroller) PageRight() error { return s.step(s.viewer.Viewport().Width, 0) }

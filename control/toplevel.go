// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package control

import (
	"github.com/bureau-foundation/automation/focus"
	"github.com/bureau-foundation/automation/lib/geometry"
	"github.com/bureau-foundation/automation/peer"
)

type topLevelElement interface {
	Element
	topLevel() *TopLevel
}

// TopLevel is the state shared by windows and popups: a title, a screen
// position, an open flag and the focus manager of the elements inside.
// Its peer is a root: it tracks focus and converts to screen
// coordinates, but only while the top level is open.
type TopLevel struct {
	Control
	title    string
	position geometry.Point
	open     bool
	focus    *focus.Manager
}

func (t *TopLevel) topLevel() *TopLevel { return t }

// Title returns the title.
func (t *TopLevel) Title() string { return t.title }

// SetTitle changes the title.
func (t *TopLevel) SetTitle(title string) {
	if title == t.title {
		return
	}
	old := t.title
	t.title = title
	t.notify(Change{Property: PropertyTitle, Old: old, New: title})
}

// Position returns the screen position of the top-left corner.
func (t *TopLevel) Position() geometry.Point { return t.position }

// SetPosition moves the top level on screen.
func (t *TopLevel) SetPosition(position geometry.Point) {
	if position == t.position {
		return
	}
	old := t.position
	t.position = position
	t.notify(Change{Property: PropertyPosition, Old: old, New: position})
	t.movedDescendants()
}

// SetFocusManager replaces the focus manager. Nil uses focus.Default().
func (t *TopLevel) SetFocusManager(manager *focus.Manager) { t.focus = manager }

func (t *TopLevel) focusManager() *focus.Manager {
	if t.focus == nil {
		return focus.Default()
	}
	return t.focus
}

// IsOpen reports whether the top level is showing.
func (t *TopLevel) IsOpen() bool { return t.open }

// Open shows the top level.
func (t *TopLevel) Open() {
	if t.open {
		return
	}
	t.open = true
	t.notify(Change{Property: PropertyOpen, Old: false, New: true})
}

// Close hides the top level and drops keyboard focus held inside it.
func (t *TopLevel) Close() {
	if !t.open {
		return
	}
	t.open = false
	manager := t.focusManager()
	if focused, ok := manager.Focused().(*Control); ok && focused.TopLevel() == t {
		moveFocus(manager, nil)
	}
	t.notify(Change{Property: PropertyOpen, Old: true, New: false})
}

// ElementAt returns the deepest visible element under point, given in
// the top level's coordinates. It returns the top level itself when no
// child is hit.
func (t *TopLevel) ElementAt(point geometry.Point) *Control {
	if hit := t.hitTest(point); hit != nil {
		return hit
	}
	return &t.Control
}

func (t *TopLevel) rootPeer(factory peer.NodeFactory, isControlElement bool) *peer.Peer {
	return t.newPeer(factory, peerSpec{
		role: peer.RoleWindow,
		name: func() string {
			if t.name != "" {
				return t.name
			}
			return t.title
		},
		isControlElement: func() bool { return isControlElement },
		caps:             peer.Capabilities{Root: rootFacet{t, factory}},
	})
}

type rootFacet struct {
	top     *TopLevel
	factory peer.NodeFactory
}

func (r rootFacet) Owner() focus.Element { return &r.top.Control }

func (r rootFacet) PeerFor(element focus.Element) *peer.Peer {
	if !r.top.open {
		return nil
	}
	c, ok := element.(*Control)
	if !ok || c.TopLevel() != r.top {
		return nil
	}
	return c.PeerWith(r.factory)
}

func (r rootFacet) PointToScreen(point geometry.Point) geometry.Point {
	return geometry.Point{X: point.X + r.top.position.X, Y: point.Y + r.top.position.Y}
}

func (r rootFacet) PeerFromPoint(point geometry.Point) *peer.Peer {
	return r.top.ElementAt(point).PeerWith(r.factory)
}

// Window is an application window. Its automation name is its title
// unless a name is declared.
type Window struct {
	TopLevel
}

// NewWindow creates a closed window.
func NewWindow(title string) *Window {
	w := &Window{}
	w.init(w, "Window")
	w.title = title
	return w
}

func (w *Window) createPeer(factory peer.NodeFactory) *peer.Peer {
	return w.rootPeer(factory, true)
}

// PopupRoot hosts popup content such as an open drop-down. It is a root
// of its own but not a control element.
type PopupRoot struct {
	TopLevel
}

// NewPopupRoot creates a closed popup root.
func NewPopupRoot() *PopupRoot {
	p := &PopupRoot{}
	p.init(p, "PopupRoot")
	return p
}

func (p *PopupRoot) createPeer(factory peer.NodeFactory) *peer.Peer {
	return p.rootPeer(factory, false)
}

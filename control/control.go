// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package control

import (
	"github.com/bureau-foundation/automation/focus"
	"github.com/bureau-foundation/automation/lib/geometry"
	"github.com/bureau-foundation/automation/peer"
	"github.com/bureau-foundation/automation/platform"
)

// Element is implemented by every concrete element type. Use [Base] to
// reach the shared [Control] state.
type Element interface {
	Base() *Control
	createPeer(factory peer.NodeFactory) *peer.Peer
}

// Property names an element property that changed.
type Property int

const (
	PropertyVisible Property = iota
	PropertyEnabled
	PropertyFocusable
	PropertyFocused
	PropertyBounds
	PropertyVisualParent
	PropertyVisualChildren
	PropertyName
	PropertyContent
	PropertyText
	PropertyChecked
	PropertyMinimum
	PropertyMaximum
	PropertyValue
	PropertyReadOnly
	PropertyDropDownOpen
	PropertySelected
	PropertySelection
	PropertyOffset
	PropertyExtent
	PropertyTitle
	PropertyOpen
	PropertyPosition
)

// Change describes one property change of an element.
type Change struct {
	Property Property
	Old      any
	New      any
}

type observer struct {
	fn func(Change)
}

// Control is the state every element shares: its place in the visual
// tree, its layout bounds and its visibility, enablement and focus
// flags. Bounds are relative to the visual parent.
type Control struct {
	self Element
	kind string

	name      string
	visible   bool
	enabled   bool
	focusable bool
	templated bool
	bounds    geometry.Rect

	parent      *Control
	children    []*Control
	contextMenu *Menu

	peer      *peer.Peer
	observers []*observer
}

func (c *Control) init(self Element, kind string) {
	c.self = self
	c.kind = kind
	c.visible = true
	c.enabled = true
}

// Base returns c. It lets any [Element] expose its shared state.
func (c *Control) Base() *Control { return c }

// Element returns the concrete element c belongs to.
func (c *Control) Element() Element { return c.self }

// Kind returns the element's type name, such as "Button". It is the
// class name automation clients see.
func (c *Control) Kind() string { return c.kind }

// Name returns the declared automation name. Empty means unset; element
// types fall back to their content for the name they report.
func (c *Control) Name() string { return c.name }

// SetName sets the declared automation name.
func (c *Control) SetName(name string) {
	if name == c.name {
		return
	}
	old := c.name
	c.name = name
	c.notify(Change{Property: PropertyName, Old: old, New: name})
}

// IsVisible reports the element's own visibility flag.
func (c *Control) IsVisible() bool { return c.visible }

// IsEffectivelyVisible reports whether the element and all its
// ancestors are visible.
func (c *Control) IsEffectivelyVisible() bool {
	for a := c; a != nil; a = a.parent {
		if !a.visible {
			return false
		}
	}
	return true
}

// SetVisible shows or hides the element.
func (c *Control) SetVisible(visible bool) {
	if visible == c.visible {
		return
	}
	c.visible = visible
	c.notify(Change{Property: PropertyVisible, Old: !visible, New: visible})
}

// IsEnabled reports whether the element and all its ancestors are
// enabled.
func (c *Control) IsEnabled() bool {
	for a := c; a != nil; a = a.parent {
		if !a.enabled {
			return false
		}
	}
	return true
}

// SetEnabled enables or disables the element and, through it, its
// descendants.
func (c *Control) SetEnabled(enabled bool) {
	if enabled == c.enabled {
		return
	}
	c.enabled = enabled
	c.walk(func(d *Control) {
		d.notify(Change{Property: PropertyEnabled, Old: !enabled, New: enabled})
	})
}

// Focusable reports whether the element can take keyboard focus.
func (c *Control) Focusable() bool { return c.focusable }

// SetFocusable sets whether the element can take keyboard focus.
func (c *Control) SetFocusable(focusable bool) {
	if focusable == c.focusable {
		return
	}
	c.focusable = focusable
	c.notify(Change{Property: PropertyFocusable, Old: !focusable, New: focusable})
}

// IsTemplated reports whether the element was created by another
// element's template rather than declared in the layout.
func (c *Control) IsTemplated() bool { return c.templated }

// SetTemplated marks the element as template-generated.
func (c *Control) SetTemplated(templated bool) { c.templated = templated }

// Bounds returns the layout rectangle relative to the visual parent.
func (c *Control) Bounds() geometry.Rect { return c.bounds }

// SetBounds moves or resizes the element.
func (c *Control) SetBounds(bounds geometry.Rect) {
	if bounds == c.bounds {
		return
	}
	old := c.bounds
	c.bounds = bounds
	c.notify(Change{Property: PropertyBounds, Old: old, New: bounds})
	c.movedDescendants()
}

// movedDescendants tells every descendant its position in the root
// changed. Those changes carry no old or new value.
func (c *Control) movedDescendants() {
	for _, child := range c.children {
		child.moved()
	}
}

// moved tells c and its descendants their position in the root
// changed.
func (c *Control) moved() {
	c.walk(func(d *Control) {
		d.notify(Change{Property: PropertyBounds})
	})
}

// Parent returns the visual parent, or nil.
func (c *Control) Parent() *Control { return c.parent }

// Children returns the visual children. Callers must not modify the
// slice.
func (c *Control) Children() []*Control { return c.children }

// AddChild appends child to the visual children, removing it from its
// previous parent first.
func (c *Control) AddChild(child Element) {
	base := child.Base()
	old := base.parent
	if old != nil {
		old.detachChild(base)
	}
	base.parent = c
	c.children = append(c.children, base)
	base.notify(Change{Property: PropertyVisualParent, Old: old, New: c})
	c.notify(Change{Property: PropertyVisualChildren})
	base.moved()
}

// RemoveChild removes child from the visual children. It does nothing
// when child is not a child of c.
func (c *Control) RemoveChild(child Element) {
	base := child.Base()
	if base.parent != c {
		return
	}
	c.detachChild(base)
	base.parent = nil
	base.notify(Change{Property: PropertyVisualParent, Old: c, New: (*Control)(nil)})
	base.moved()
}

func (c *Control) detachChild(child *Control) {
	for i, existing := range c.children {
		if existing == child {
			c.children = append(c.children[:i:i], c.children[i+1:]...)
			c.notify(Change{Property: PropertyVisualChildren})
			return
		}
	}
}

// Root returns the topmost ancestor of c, which is c itself when it has
// no parent.
func (c *Control) Root() *Control {
	root := c
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// TopLevel returns the window or popup c is displayed in, or nil when
// c is not in one.
func (c *Control) TopLevel() *TopLevel {
	if tl, ok := c.Root().self.(topLevelElement); ok {
		return tl.topLevel()
	}
	return nil
}

// FocusRoot implements focus.Element. It returns the top-level element
// c is displayed in.
func (c *Control) FocusRoot() focus.Element {
	tl := c.TopLevel()
	if tl == nil {
		return nil
	}
	return &tl.Control
}

// IsFocused reports whether c has keyboard focus.
func (c *Control) IsFocused() bool {
	tl := c.TopLevel()
	return tl != nil && tl.focusManager().Focused() == focus.Element(c)
}

// Focus moves keyboard focus to c and reports whether it could. The
// element must be focusable, enabled, visible and in a top level.
func (c *Control) Focus() bool {
	tl := c.TopLevel()
	if tl == nil || !c.focusable || !c.IsEnabled() || !c.IsEffectivelyVisible() {
		return false
	}
	moveFocus(tl.focusManager(), c)
	return true
}

// moveFocus hands keyboard focus to c, or clears it when c is nil, and
// tells the previous and new holders.
func moveFocus(manager *focus.Manager, c *Control) {
	previous, _ := manager.Focused().(*Control)
	if c == nil {
		manager.SetFocused(nil)
	} else {
		manager.SetFocused(c)
	}
	if previous == c {
		return
	}
	if previous != nil {
		previous.notify(Change{Property: PropertyFocused, Old: true, New: false})
	}
	if c != nil {
		c.notify(Change{Property: PropertyFocused, Old: false, New: true})
	}
}

// ContextMenu returns the element's own context menu, or nil.
func (c *Control) ContextMenu() *Menu { return c.contextMenu }

// SetContextMenu attaches a context menu to the element.
func (c *Control) SetContextMenu(menu *Menu) { c.contextMenu = menu }

// BringIntoView scrolls the nearest enclosing scroll viewer so that c is
// visible.
func (c *Control) BringIntoView() {
	x, y := c.bounds.X, c.bounds.Y
	for a := c.parent; a != nil; a = a.parent {
		if sv, ok := a.self.(*ScrollViewer); ok {
			sv.makeVisible(geometry.Rect{X: x, Y: y, Width: c.bounds.Width, Height: c.bounds.Height})
			return
		}
		x += a.bounds.X
		y += a.bounds.Y
	}
}

// Peer returns the element's automation peer, creating it with the
// process-wide platform factory the first time.
func (c *Control) Peer() *peer.Peer {
	var factory peer.NodeFactory = peer.DetachedFactory
	if f := platform.DefaultFactory(); f != nil {
		factory = f
	}
	return c.PeerWith(factory)
}

// PeerWith returns the element's automation peer, creating it with
// factory the first time. Child peers are created with the same factory.
// An element has at most one peer for its lifetime.
func (c *Control) PeerWith(factory peer.NodeFactory) *peer.Peer {
	if c.peer == nil {
		c.peer = c.self.createPeer(factory)
	}
	return c.peer
}

// ExistingPeer returns the peer if one has been created, or nil.
func (c *Control) ExistingPeer() *peer.Peer { return c.peer }

// Destroy removes c from its parent and detaches the peers of c and
// every descendant.
func (c *Control) Destroy() {
	if c.parent != nil {
		c.parent.RemoveChild(c.self)
	}
	c.walk(func(d *Control) {
		if d.peer != nil {
			d.peer.Detach()
		}
		d.observers = nil
	})
}

// Observe calls fn after every property change of c until the returned
// cancel function is called.
func (c *Control) Observe(fn func(Change)) (cancel func()) {
	o := &observer{fn: fn}
	c.observers = append(c.observers, o)
	return func() {
		for i, existing := range c.observers {
			if existing == o {
				c.observers = append(c.observers[:i:i], c.observers[i+1:]...)
				return
			}
		}
	}
}

func (c *Control) notify(change Change) {
	if len(c.observers) == 0 {
		return
	}
	for _, o := range append([]*observer(nil), c.observers...) {
		o.fn(change)
	}
}

// walk calls fn for c and every descendant, depth first.
func (c *Control) walk(fn func(*Control)) {
	fn(c)
	for _, child := range c.children {
		child.walk(fn)
	}
}

// boundsInRoot returns c's rectangle in the coordinates of its top
// level, accounting for scroll offsets. It is empty when c is not in a
// top level.
func (c *Control) boundsInRoot() geometry.Rect {
	root := c.Root()
	if _, ok := root.self.(topLevelElement); !ok {
		return geometry.Rect{}
	}
	if c == root {
		return geometry.Rect{Width: c.bounds.Width, Height: c.bounds.Height}
	}
	x, y := 0.0, 0.0
	for a := c; a != root; a = a.parent {
		x += a.bounds.X
		y += a.bounds.Y
		if sv, ok := a.parent.self.(*ScrollViewer); ok {
			x -= sv.offset.X
			y -= sv.offset.Y
		}
	}
	return geometry.Rect{X: x, Y: y, Width: c.bounds.Width, Height: c.bounds.Height}
}

// hitTest returns the deepest visible descendant of c whose bounds
// contain point, given in c's coordinate space, or nil.
func (c *Control) hitTest(point geometry.Point) *Control {
	for i := len(c.children) - 1; i >= 0; i-- {
		child := c.children[i]
		if !child.visible || !child.bounds.Contains(point) {
			continue
		}
		local := geometry.Point{X: point.X - child.bounds.X, Y: point.Y - child.bounds.Y}
		if sv, ok := child.self.(*ScrollViewer); ok {
			local.X += sv.offset.X
			local.Y += sv.offset.Y
		}
		if hit := child.hitTest(local); hit != nil {
			return hit
		}
		return child
	}
	return nil
}

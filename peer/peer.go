// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package peer

import (
	"weak"

	"github.com/bureau-foundation/automation/lib/geometry"
)

// Behavior is the element-specific part of a peer. Every hook is
// optional; a nil hook gets the default noted on the field.
type Behavior struct {
	// BoundingRectangle is in root coordinates. Default: empty rect.
	BoundingRectangle func() geometry.Rect

	// Children returns the current child peers in order. Default: none.
	Children func() []*Peer

	// ClassName defaults to "".
	ClassName func() string

	// LocalizedControlType defaults to the class name.
	LocalizedControlType func() string

	// Name defaults to "".
	Name func() string

	// HasKeyboardFocus defaults to false.
	HasKeyboardFocus func() bool

	// IsControlElement defaults to role != RoleNone.
	IsControlElement func() bool

	// IsEnabled defaults to true.
	IsEnabled func() bool

	// IsKeyboardFocusable defaults to false.
	IsKeyboardFocusable func() bool

	// SetFocus defaults to a no-op.
	SetFocus func()

	// ShowContextMenu reports whether a menu was shown. Elements that
	// gate it on enablement return ErrElementNotEnabled. Default: false.
	ShowContextMenu func() (bool, error)

	// BringIntoView defaults to a no-op.
	BringIntoView func()

	// ConnectToTree makes the ancestors of this peer materialize and
	// enumerate their children, which sets this peer's parent as a side
	// effect. Default: a no-op, leaving the peer parentless.
	ConnectToTree func()

	// Detach drops the element subscriptions the behavior installed.
	Detach func()
}

// Peer represents one element to automation clients. Create peers with
// [New]; the zero value is not usable.
type Peer struct {
	role         Role
	behavior     Behavior
	capabilities Capabilities
	node         Node

	children      []*Peer
	childrenValid bool

	// The parent owns its children through its child slice. The link
	// back is weak so a child never keeps a removed ancestor alive.
	parent      weak.Pointer[Peer]
	parentValid bool

	detached bool
}

// New creates a peer and its platform node. A nil factory uses
// DetachedFactory.
func New(factory NodeFactory, role Role, behavior Behavior, capabilities Capabilities) *Peer {
	if factory == nil {
		factory = DetachedFactory
	}
	p := &Peer{
		role:         role,
		behavior:     behavior,
		capabilities: capabilities,
	}
	p.node = factory.CreateNode(p)
	if p.node == nil {
		p.node = detachedNode{}
	}
	return p
}

// Node returns the platform node. It is the same value for the life of
// the peer.
func (p *Peer) Node() Node { return p.node }

// Role returns the element's semantic kind.
func (p *Peer) Role() Role { return p.role }

// Capabilities returns the facets the peer implements.
func (p *Peer) Capabilities() Capabilities { return p.capabilities }

// Children returns the child peers. The slice is cached until
// InvalidateChildren; callers must not modify it.
func (p *Peer) Children() []*Peer {
	if p.childrenValid {
		return p.children
	}

	var current []*Peer
	if p.behavior.Children != nil {
		current = p.behavior.Children()
	}
	if current == nil {
		current = []*Peer{}
	}

	retained := make(map[*Peer]struct{}, len(current))
	for _, child := range current {
		retained[child] = struct{}{}
	}
	for _, child := range p.children {
		if _, ok := retained[child]; !ok && child.cachedParent() == p {
			child.setParent(nil)
		}
	}
	for _, child := range current {
		child.setParent(p)
	}

	p.children = current
	p.childrenValid = true
	return current
}

// Parent returns the parent peer, connecting this peer to the tree
// first if its parent link is not valid. Nil means the peer is a root
// or is not currently in a tree.
func (p *Peer) Parent() *Peer {
	if !p.parentValid {
		if p.behavior.ConnectToTree != nil {
			p.behavior.ConnectToTree()
		}
		p.parentValid = true
	}
	return p.cachedParent()
}

// InvalidateChildren marks the child list stale. It does not recompute
// it; the next Children call does.
func (p *Peer) InvalidateChildren() {
	p.childrenValid = false
	p.node.ChildrenChanged()
}

// InvalidateParent forgets the parent link and the root of p and its
// descendants. The next Parent call reconnects.
func (p *Peer) InvalidateParent() {
	p.parent = weak.Pointer[Peer]{}
	p.parentValid = false
	p.node.ParentChanged()
	p.rootChanged()
}

// InvalidateProperties tells the platform node that any property may
// have changed.
func (p *Peer) InvalidateProperties() {
	p.node.PropertiesInvalidated()
}

// RaisePropertyChanged reports a known property change to the platform
// node.
func (p *Peer) RaisePropertyChanged(property Property, oldValue, newValue any) {
	p.node.PropertyChanged(property, oldValue, newValue)
}

// EnsureEnabled returns ErrElementNotEnabled when the element is
// disabled. Commands that require an enabled element call it first.
func (p *Peer) EnsureEnabled() error {
	if !p.IsEnabled() {
		return ErrElementNotEnabled
	}
	return nil
}

// Detach drops the behavior's element subscriptions and disposes the
// platform node. The element calls it when it is destroyed.
func (p *Peer) Detach() {
	if p.detached {
		return
	}
	p.detached = true
	if p.behavior.Detach != nil {
		p.behavior.Detach()
	}
	p.node.Dispose()
}

// Detached reports whether Detach has been called.
func (p *Peer) Detached() bool { return p.detached }

func (p *Peer) BoundingRectangle() geometry.Rect {
	if p.behavior.BoundingRectangle == nil {
		return geometry.Rect{}
	}
	return p.behavior.BoundingRectangle()
}

func (p *Peer) ClassName() string {
	if p.behavior.ClassName == nil {
		return ""
	}
	return p.behavior.ClassName()
}

func (p *Peer) LocalizedControlType() string {
	if p.behavior.LocalizedControlType == nil {
		return p.ClassName()
	}
	return p.behavior.LocalizedControlType()
}

func (p *Peer) Name() string {
	if p.behavior.Name == nil {
		return ""
	}
	return p.behavior.Name()
}

func (p *Peer) HasKeyboardFocus() bool {
	return p.behavior.HasKeyboardFocus != nil && p.behavior.HasKeyboardFocus()
}

func (p *Peer) IsControlElement() bool {
	if p.behavior.IsControlElement == nil {
		return p.role != RoleNone
	}
	return p.behavior.IsControlElement()
}

func (p *Peer) IsEnabled() bool {
	return p.behavior.IsEnabled == nil || p.behavior.IsEnabled()
}

func (p *Peer) IsKeyboardFocusable() bool {
	return p.behavior.IsKeyboardFocusable != nil && p.behavior.IsKeyboardFocusable()
}

func (p *Peer) SetFocus() {
	if p.behavior.SetFocus != nil {
		p.behavior.SetFocus()
	}
}

func (p *Peer) ShowContextMenu() (bool, error) {
	if p.behavior.ShowContextMenu == nil {
		return false, nil
	}
	return p.behavior.ShowContextMenu()
}

func (p *Peer) BringIntoView() {
	if p.behavior.BringIntoView != nil {
		p.behavior.BringIntoView()
	}
}

func (p *Peer) cachedParent() *Peer {
	return p.parent.Value()
}

func (p *Peer) setParent(parent *Peer) {
	previous := p.cachedParent()
	if parent == nil {
		p.parent = weak.Pointer[Peer]{}
		p.parentValid = false
	} else {
		p.parent = weak.Make(parent)
		p.parentValid = true
	}
	if previous != parent {
		p.node.ParentChanged()
		p.rootChanged()
	}
}

// rootChanged tells the nodes of p and of every descendant it parents
// that their root may have changed.
func (p *Peer) rootChanged() {
	p.node.RootChanged()
	for _, child := range p.children {
		if child.cachedParent() == p {
			child.rootChanged()
		}
	}
}

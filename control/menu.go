// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package control

import (
	"github.com/bureau-foundation/automation/lib/geometry"
	"github.com/bureau-foundation/automation/peer"
)

// Menu is a list of menu items. Attached to an element with
// SetContextMenu it becomes that element's context menu.
type Menu struct {
	Control
	open   bool
	target *Control
}

// NewMenu creates an empty, closed menu.
func NewMenu() *Menu {
	m := &Menu{}
	m.init(m, "Menu")
	return m
}

// AddItem appends an item to the menu.
func (m *Menu) AddItem(item *MenuItem) {
	m.AddChild(item)
	arrangeMenu(m.children)
}

// Items returns the menu's items in order.
func (m *Menu) Items() []*MenuItem { return menuItems(m.children) }

// IsOpen reports whether the menu is showing.
func (m *Menu) IsOpen() bool { return m.open }

// Target returns the element the menu was last opened for.
func (m *Menu) Target() *Control { return m.target }

// Open shows the menu for target.
func (m *Menu) Open(target *Control) {
	m.target = target
	if m.open {
		return
	}
	m.open = true
	m.notify(Change{Property: PropertyOpen, Old: false, New: true})
}

// Close hides the menu.
func (m *Menu) Close() {
	if !m.open {
		return
	}
	m.open = false
	m.notify(Change{Property: PropertyOpen, Old: true, New: false})
}

func (m *Menu) createPeer(factory peer.NodeFactory) *peer.Peer {
	return m.newPeer(factory, peerSpec{role: peer.RoleMenu, localizedType: "menu"})
}

// MenuItem is a clickable menu entry. An item with sub-items opens a
// submenu instead of running its click handlers.
type MenuItem struct {
	Control
	header  string
	clicks  []func()
	submenu *Panel
}

// NewMenuItem creates a menu item with the given header.
func NewMenuItem(header string) *MenuItem {
	i := &MenuItem{header: header}
	i.init(i, "MenuItem")
	i.focusable = true
	return i
}

// Header returns the item's header text.
func (i *MenuItem) Header() string { return i.header }

// OnClick registers fn to run when the item is clicked.
func (i *MenuItem) OnClick(fn func()) { i.clicks = append(i.clicks, fn) }

// AddItem appends a submenu item.
func (i *MenuItem) AddItem(item *MenuItem) {
	if i.submenu == nil {
		i.submenu = NewPanel()
		i.submenu.templated = true
		i.submenu.visible = false
		i.AddChild(i.submenu)
	}
	i.submenu.AddChild(item)
	arrangeMenu(i.submenu.children)
	i.submenu.SetBounds(geometry.Rect{
		X:      i.bounds.Width,
		Width:  i.bounds.Width,
		Height: itemHeight * float64(len(i.submenu.children)),
	})
}

// Items returns the submenu items.
func (i *MenuItem) Items() []*MenuItem {
	if i.submenu == nil {
		return nil
	}
	return menuItems(i.submenu.children)
}

// IsSubmenuOpen reports whether the submenu is showing.
func (i *MenuItem) IsSubmenuOpen() bool { return i.submenu != nil && i.submenu.visible }

// SetSubmenuOpen shows or hides the submenu. Leaf items ignore it.
func (i *MenuItem) SetSubmenuOpen(open bool) {
	if i.submenu == nil || i.submenu.visible == open {
		return
	}
	i.submenu.SetVisible(open)
	i.notify(Change{Property: PropertyOpen, Old: !open, New: open})
}

// Click opens the submenu, or runs the click handlers and closes the
// enclosing menu for a leaf item. Disabled items ignore clicks.
func (i *MenuItem) Click() {
	if !i.IsEnabled() {
		return
	}
	if i.submenu != nil {
		i.SetSubmenuOpen(!i.IsSubmenuOpen())
		return
	}
	for _, fn := range i.clicks {
		fn()
	}
	for a := i.parent; a != nil; a = a.parent {
		if menu, ok := a.self.(*Menu); ok {
			menu.Close()
			return
		}
	}
}

func (i *MenuItem) createPeer(factory peer.NodeFactory) *peer.Peer {
	return i.newPeer(factory, peerSpec{
		role:          peer.RoleMenuItem,
		localizedType: "menu item",
		name:          func() string { return i.contentName(i.header) },
		caps: peer.Capabilities{
			Invoke:         menuInvoker{i},
			ExpandCollapse: submenuExpander{i},
		},
		changed: func(p *peer.Peer, change Change) {
			if change.Property == PropertyOpen {
				p.RaisePropertyChanged(peer.PropertyExpandCollapseState,
					expandState(change.Old.(bool)), expandState(change.New.(bool)))
			}
		},
	})
}

type menuInvoker struct{ item *MenuItem }

func (m menuInvoker) Invoke() error {
	if !m.item.IsEnabled() {
		return peer.ErrElementNotEnabled
	}
	m.item.Click()
	return nil
}

type submenuExpander struct{ item *MenuItem }

func (e submenuExpander) ExpandCollapseState() peer.ExpandCollapseState {
	if e.item.submenu == nil {
		return peer.LeafNode
	}
	return expandState(e.item.IsSubmenuOpen())
}

func (e submenuExpander) set(open bool) error {
	if !e.item.IsEnabled() {
		return peer.ErrElementNotEnabled
	}
	if e.item.submenu == nil {
		return ErrInvalidOperation
	}
	e.item.SetSubmenuOpen(open)
	return nil
}

func (e submenuExpander) Expand() error   { return e.set(true) }
func (e submenuExpander) Collapse() error { return e.set(false) }

func menuItems(children []*Control) []*MenuItem {
	var items []*MenuItem
	for _, child := range children {
		if item, ok := child.self.(*MenuItem); ok {
			items = append(items, item)
		}
	}
	return items
}

// arrangeMenu stacks menu items that have no height of their own.
func arrangeMenu(children []*Control) {
	y := 0.0
	for _, child := range children {
		height := child.bounds.Height
		if height == 0 {
			height = itemHeight
		}
		child.SetBounds(geometry.Rect{X: child.bounds.X, Y: y, Width: child.bounds.Width, Height: height})
		y += height
	}
}

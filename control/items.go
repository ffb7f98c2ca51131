// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package control

import (
	"github.com/bureau-foundation/automation/lib/geometry"
	"github.com/bureau-foundation/automation/peer"
)

// itemHeight is the height given to items arranged without one.
const itemHeight = 20.0

// selectionModel is the item list and selection state shared by list
// boxes, combo boxes and tab controls.
type selectionModel struct {
	host     *Control
	items    []*ListItem
	multiple bool
	required bool
}

func (m *selectionModel) attach(item *ListItem) {
	item.owner = m
	m.items = append(m.items, item)
}

func (m *selectionModel) detach(item *ListItem) {
	for i, existing := range m.items {
		if existing == item {
			m.items = append(m.items[:i:i], m.items[i+1:]...)
			break
		}
	}
	if item.selected {
		m.set(item, false)
	}
	item.owner = nil
}

func (m *selectionModel) selected() []*ListItem {
	var selected []*ListItem
	for _, item := range m.items {
		if item.selected {
			selected = append(selected, item)
		}
	}
	return selected
}

func (m *selectionModel) set(item *ListItem, selected bool) {
	if item.selected == selected {
		return
	}
	item.selected = selected
	item.notify(Change{Property: PropertySelected, Old: !selected, New: selected})
	m.host.notify(Change{Property: PropertySelection})
}

func (m *selectionModel) selectOnly(item *ListItem) {
	for _, other := range m.items {
		if other != item {
			m.set(other, false)
		}
	}
	m.set(item, true)
}

func (m *selectionModel) add(item *ListItem) error {
	if item.selected {
		return nil
	}
	if !m.multiple && len(m.selected()) > 0 {
		return ErrInvalidOperation
	}
	m.set(item, true)
	return nil
}

func (m *selectionModel) remove(item *ListItem) error {
	if !item.selected {
		return nil
	}
	if m.required && len(m.selected()) == 1 {
		return ErrInvalidOperation
	}
	m.set(item, false)
	return nil
}

// CanSelectMultiple reports whether more than one item may be selected.
func (m *selectionModel) CanSelectMultiple() bool { return m.multiple }

// SetMultipleSelection allows or forbids selecting more than one item.
func (m *selectionModel) SetMultipleSelection(multiple bool) { m.multiple = multiple }

// IsSelectionRequired reports whether the last selected item may not be
// deselected.
func (m *selectionModel) IsSelectionRequired() bool { return m.required }

// SetSelectionRequired sets whether at least one item stays selected.
func (m *selectionModel) SetSelectionRequired(required bool) { m.required = required }

// Items returns the items in order. Callers must not modify the slice.
func (m *selectionModel) Items() []*ListItem { return m.items }

// SelectedItems returns the selected items in order.
func (m *selectionModel) SelectedItems() []*ListItem { return m.selected() }

// selection is the Selection facet of a selecting element.
type selection struct {
	model   *selectionModel
	factory peer.NodeFactory
}

func (s selection) Selection() []*peer.Peer {
	var peers []*peer.Peer
	for _, item := range s.model.selected() {
		peers = append(peers, item.PeerWith(s.factory))
	}
	return peers
}

func (s selection) CanSelectMultiple() bool   { return s.model.multiple }
func (s selection) IsSelectionRequired() bool { return s.model.required }

// ListItem is a selectable item of a list box or combo box.
type ListItem struct {
	Control
	content  string
	selected bool
	owner    *selectionModel
}

// NewListItem creates an unselected item showing content.
func NewListItem(content string) *ListItem {
	i := &ListItem{content: content}
	i.init(i, "ListItem")
	i.focusable = true
	return i
}

// Content returns the item's text content.
func (i *ListItem) Content() string { return i.content }

// IsSelected reports whether the item is selected.
func (i *ListItem) IsSelected() bool { return i.selected }

// Select makes the item the only selected item of its container.
func (i *ListItem) Select() {
	if i.owner == nil {
		return
	}
	i.owner.selectOnly(i)
}

// AddToSelection selects the item without deselecting the others. It
// fails with ErrInvalidOperation outside a container and when the
// container allows a single selection that is already taken.
func (i *ListItem) AddToSelection() error {
	if i.owner == nil {
		return ErrInvalidOperation
	}
	return i.owner.add(i)
}

func (i *ListItem) createPeer(factory peer.NodeFactory) *peer.Peer {
	return i.itemPeer(factory, peer.RoleListItem, "list item")
}

func (i *ListItem) itemPeer(factory peer.NodeFactory, role peer.Role, localized string) *peer.Peer {
	return i.newPeer(factory, peerSpec{
		role:          role,
		localizedType: localized,
		name:          func() string { return i.contentName(i.content) },
		caps:          peer.Capabilities{SelectionItem: selectionItem{i}},
		changed: func(p *peer.Peer, change Change) {
			if change.Property == PropertySelected {
				p.RaisePropertyChanged(peer.PropertyIsSelected, change.Old, change.New)
			}
		},
	})
}

type selectionItem struct{ item *ListItem }

func (s selectionItem) IsSelected() bool { return s.item.selected }

func (s selectionItem) check() error {
	if !s.item.IsEnabled() {
		return peer.ErrElementNotEnabled
	}
	if s.item.owner == nil {
		return ErrInvalidOperation
	}
	return nil
}

func (s selectionItem) Select() error {
	if err := s.check(); err != nil {
		return err
	}
	s.item.owner.selectOnly(s.item)
	return nil
}

func (s selectionItem) AddToSelection() error {
	if err := s.check(); err != nil {
		return err
	}
	return s.item.owner.add(s.item)
}

func (s selectionItem) RemoveFromSelection() error {
	if err := s.check(); err != nil {
		return err
	}
	return s.item.owner.remove(s.item)
}

// ListBox is a scrollable list of selectable items. Its items live in a
// scroll viewer from its template; the list forwards its Scroll facet to
// that viewer.
type ListBox struct {
	Control
	selectionModel
	viewer *ScrollViewer
}

// NewListBox creates an empty single-selection list box.
func NewListBox() *ListBox {
	l := &ListBox{}
	l.init(l, "ListBox")
	l.focusable = true
	l.host = &l.Control

	l.viewer = NewScrollViewer()
	l.viewer.templated = true
	l.viewer.host = &l.Control
	l.AddChild(l.viewer)
	l.Observe(func(change Change) {
		if change.Property == PropertyBounds && change.New != nil {
			l.arrange()
		}
	})
	return l
}

// Viewer returns the scroll viewer holding the items.
func (l *ListBox) Viewer() *ScrollViewer { return l.viewer }

// AddItem appends an item below the existing ones.
func (l *ListBox) AddItem(item *ListItem) {
	l.attach(item)
	l.viewer.AddChild(item)
	l.arrange()
}

// RemoveItem removes an item, deselecting it first.
func (l *ListBox) RemoveItem(item *ListItem) {
	if item.owner != &l.selectionModel {
		return
	}
	l.detach(item)
	l.viewer.RemoveChild(item)
	l.arrange()
}

// arrange fills the list with the viewer and stacks the items in it.
func (l *ListBox) arrange() {
	l.viewer.SetBounds(geometry.Rect{Width: l.bounds.Width, Height: l.bounds.Height})
	stack(l.items, l.bounds.Width)
}

// stack lays items out top to bottom at the given width.
func stack(items []*ListItem, width float64) {
	y := 0.0
	for _, item := range items {
		if !item.visible {
			continue
		}
		height := item.bounds.Height
		if height == 0 {
			height = itemHeight
		}
		item.SetBounds(geometry.Rect{Y: y, Width: width, Height: height})
		y += height
	}
}

func (l *ListBox) createPeer(factory peer.NodeFactory) *peer.Peer {
	return l.newPeer(factory, peerSpec{
		role: peer.RoleList,
		caps: peer.Capabilities{
			Selection: selection{model: &l.selectionModel, factory: factory},
			Scroll:    scroller{l.viewer},
		},
	})
}

// ComboBox is a drop-down list. While collapsed its items are hidden
// and its selection is reported through a stand-in item peer, since the
// real item peers are not in the tree.
type ComboBox struct {
	Control
	selectionModel
	dropDown *Panel
	open     bool

	surrogate     *peer.Peer
	surrogateItem *ListItem
}

// NewComboBox creates an empty, collapsed combo box.
func NewComboBox() *ComboBox {
	c := &ComboBox{}
	c.init(c, "ComboBox")
	c.focusable = true
	c.host = &c.Control

	c.dropDown = NewPanel()
	c.dropDown.templated = true
	c.dropDown.visible = false
	c.AddChild(c.dropDown)
	c.Observe(func(change Change) {
		if change.Property == PropertyBounds && change.New != nil {
			c.arrange()
		}
	})
	return c
}

// AddItem appends an item to the drop-down list.
func (c *ComboBox) AddItem(item *ListItem) {
	c.attach(item)
	c.dropDown.AddChild(item)
	c.arrange()
}

// RemoveItem removes an item, deselecting it first.
func (c *ComboBox) RemoveItem(item *ListItem) {
	if item.owner != &c.selectionModel {
		return
	}
	c.detach(item)
	c.dropDown.RemoveChild(item)
	c.arrange()
}

func (c *ComboBox) arrange() {
	c.dropDown.SetBounds(geometry.Rect{
		Y:      c.bounds.Height,
		Width:  c.bounds.Width,
		Height: itemHeight * float64(len(c.items)),
	})
	stack(c.items, c.bounds.Width)
}

// SelectedItem returns the first selected item, or nil.
func (c *ComboBox) SelectedItem() *ListItem {
	if selected := c.selected(); len(selected) > 0 {
		return selected[0]
	}
	return nil
}

// IsDropDownOpen reports whether the item list is showing.
func (c *ComboBox) IsDropDownOpen() bool { return c.open }

// SetDropDownOpen shows or hides the item list.
func (c *ComboBox) SetDropDownOpen(open bool) {
	if open == c.open {
		return
	}
	c.open = open
	c.arrange()
	c.dropDown.SetVisible(open)
	c.notify(Change{Property: PropertyDropDownOpen, Old: !open, New: open})
}

func (c *ComboBox) createPeer(factory peer.NodeFactory) *peer.Peer {
	return c.newPeer(factory, peerSpec{
		role:          peer.RoleComboBox,
		localizedType: "combo box",
		caps: peer.Capabilities{
			Selection:      comboSelection{c, factory},
			ExpandCollapse: comboExpander{c},
		},
		changed: func(p *peer.Peer, change Change) {
			switch change.Property {
			case PropertyDropDownOpen:
				p.RaisePropertyChanged(peer.PropertyExpandCollapseState,
					expandState(change.Old.(bool)), expandState(change.New.(bool)))
				if c.open {
					c.dropSurrogate()
				}
			case PropertySelection:
				c.dropSurrogate()
			}
		},
		detach: c.dropSurrogate,
	})
}

func expandState(open bool) peer.ExpandCollapseState {
	if open {
		return peer.Expanded
	}
	return peer.Collapsed
}

// surrogateFor returns the stand-in peer for the selected item while
// the combo box is collapsed. The same peer is returned until the
// selection changes.
func (c *ComboBox) surrogateFor(item *ListItem, factory peer.NodeFactory) *peer.Peer {
	if c.surrogate != nil && c.surrogateItem == item {
		return c.surrogate
	}
	c.dropSurrogate()
	c.surrogateItem = item
	c.surrogate = peer.New(factory, peer.RoleListItem, peer.Behavior{
		ClassName:            func() string { return item.kind },
		LocalizedControlType: func() string { return "list item" },
		Name:                 func() string { return item.contentName(item.content) },
		IsEnabled:            item.IsEnabled,
	}, peer.Capabilities{})
	return c.surrogate
}

func (c *ComboBox) dropSurrogate() {
	if c.surrogate != nil {
		c.surrogate.Detach()
		c.surrogate = nil
		c.surrogateItem = nil
	}
}

type comboSelection struct {
	combo   *ComboBox
	factory peer.NodeFactory
}

func (s comboSelection) Selection() []*peer.Peer {
	if s.combo.open {
		return selection{model: &s.combo.selectionModel, factory: s.factory}.Selection()
	}
	item := s.combo.SelectedItem()
	if item == nil {
		return nil
	}
	return []*peer.Peer{s.combo.surrogateFor(item, s.factory)}
}

func (s comboSelection) CanSelectMultiple() bool   { return false }
func (s comboSelection) IsSelectionRequired() bool { return s.combo.required }

type comboExpander struct{ combo *ComboBox }

func (e comboExpander) ExpandCollapseState() peer.ExpandCollapseState {
	return expandState(e.combo.open)
}

func (e comboExpander) Expand() error {
	if !e.combo.IsEnabled() {
		return peer.ErrElementNotEnabled
	}
	e.combo.SetDropDownOpen(true)
	return nil
}

func (e comboExpander) Collapse() error {
	if !e.combo.IsEnabled() {
		return peer.ErrElementNotEnabled
	}
	e.combo.SetDropDownOpen(false)
	return nil
}

// TabControl shows one of several tabs. Exactly one tab is selected
// once any tab exists.
type TabControl struct {
	Control
	selectionModel
}

// NewTabControl creates a tab control with no tabs.
func NewTabControl() *TabControl {
	t := &TabControl{}
	t.init(t, "TabControl")
	t.host = &t.Control
	t.required = true
	return t
}

// AddTab appends a tab. The first tab added is selected.
func (t *TabControl) AddTab(tab *TabItem) {
	t.attach(&tab.ListItem)
	t.AddChild(tab)
	if len(t.items) == 1 {
		t.selectOnly(&tab.ListItem)
	}
}

// SelectedTab returns the selected tab, or nil when there are none.
func (t *TabControl) SelectedTab() *TabItem {
	for _, item := range t.items {
		if item.selected {
			return item.self.(*TabItem)
		}
	}
	return nil
}

func (t *TabControl) createPeer(factory peer.NodeFactory) *peer.Peer {
	return t.newPeer(factory, peerSpec{
		role:          peer.RoleTabControl,
		localizedType: "tab control",
		caps:          peer.Capabilities{Selection: selection{model: &t.selectionModel, factory: factory}},
	})
}

// TabItem is one tab of a tab control. Its header is its content.
type TabItem struct {
	ListItem
}

// NewTabItem creates a tab with the given header.
func NewTabItem(header string) *TabItem {
	t := &TabItem{}
	t.content = header
	t.init(t, "TabItem")
	t.focusable = true
	return t
}

// Header returns the tab header.
func (t *TabItem) Header() string { return t.content }

func (t *TabItem) createPeer(factory peer.NodeFactory) *peer.Peer {
	return t.itemPeer(factory, peer.RoleTabItem, "tab item")
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package layout

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bureau-foundation/automation/control"
	"github.com/bureau-foundation/automation/focus"
	"github.com/bureau-foundation/automation/lib/geometry"
)

// tabHeaderWidth and tabHeaderHeight size tab headers without bounds.
const (
	tabHeaderWidth  = 80
	tabHeaderHeight = 24
)

// Options configure Build.
type Options struct {
	// Focus is the focus manager given to every window. Nil uses
	// focus.Default().
	Focus *focus.Manager

	// Logger receives a line for every click. Nil uses slog.Default().
	Logger *slog.Logger
}

// Tree is the result of Build: the open windows and the named elements.
type Tree struct {
	Windows  []*control.Window
	named    map[string]control.Element
	declared map[*control.Control]string
}

// Lookup returns the element declared with name, or nil.
func (t *Tree) Lookup(name string) control.Element {
	return t.named[name]
}

// Close closes every window and destroys its controls, detaching their
// automation peers. Call it on the tree thread.
func (t *Tree) Close() {
	for _, window := range t.Windows {
		window.Close()
		window.Destroy()
	}
	t.Windows = nil
	clear(t.named)
	clear(t.declared)
}

// Names returns the declared element names in declaration order.
func (t *Tree) Names() []string {
	names := make([]string, 0, len(t.named))
	for _, window := range t.Windows {
		t.collectNames(&window.Control, &names)
	}
	return names
}

func (t *Tree) collectNames(c *control.Control, names *[]string) {
	if name, ok := t.declared[c]; ok {
		*names = append(*names, name)
	}
	for _, child := range c.Children() {
		t.collectNames(child, names)
	}
}

// Build validates document, creates its controls and opens every
// window. It must be called on the tree thread.
func Build(document *Document, options Options) (*Tree, error) {
	if issues := Validate(document); len(issues) > 0 {
		return nil, fmt.Errorf("invalid layout:\n  %s", strings.Join(issues, "\n  "))
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	b := &builder{logger: logger, tree: &Tree{
		named:    make(map[string]control.Element),
		declared: make(map[*control.Control]string),
	}}

	for _, spec := range document.Windows {
		window := control.NewWindow(spec.Title)
		window.SetFocusManager(options.Focus)
		b.declare(spec.Name, "", window)
		window.SetBounds(geometry.Rect{Width: spec.Size.Width, Height: spec.Size.Height})
		window.SetPosition(geometry.Point{X: spec.Position.X, Y: spec.Position.Y})
		for _, child := range spec.Children {
			window.AddChild(b.element(child))
		}
		window.Open()
		b.tree.Windows = append(b.tree.Windows, window)
		logger.Debug("window opened", "title", spec.Title, "elements", b.count)
	}
	return b.tree, nil
}

type builder struct {
	logger *slog.Logger
	tree   *Tree
	count  int
}

// declare records element under its layout name. The name is a lookup
// key only; label, when set, is the automation name.
func (b *builder) declare(name, label string, element control.Element) {
	if label != "" {
		element.Base().SetName(label)
	}
	if name == "" {
		return
	}
	b.tree.named[name] = element
	b.tree.declared[element.Base()] = name
}

// element creates the control for spec and its descendants. Validate
// has already rejected unknown kinds.
func (b *builder) element(spec Element) control.Element {
	b.count++
	var element control.Element
	switch spec.Kind {
	case KindPanel:
		element = control.NewPanel()
	case KindButton:
		button := control.NewButton(spec.Content)
		button.OnClick(b.clicked(spec))
		element = button
	case KindToggle:
		toggle := control.NewToggleButton(spec.Content)
		toggle.SetThreeState(spec.ThreeState)
		setChecked(toggle, spec)
		element = toggle
	case KindCheckBox:
		check := control.NewCheckBox(spec.Content)
		check.SetThreeState(spec.ThreeState)
		setChecked(&check.ToggleButton, spec)
		element = check
	case KindText:
		element = control.NewTextBlock(spec.Content)
	case KindTextBox:
		box := control.NewTextBox(spec.Content)
		box.SetReadOnly(spec.ReadOnly)
		element = box
	case KindSlider:
		slider := control.NewSlider(spec.Minimum, spec.Maximum)
		slider.SetValue(spec.Value)
		element = slider
	case KindScroll:
		viewer := control.NewScrollViewer()
		if spec.Extent != nil {
			viewer.SetExtent(geometry.Size{Width: spec.Extent.Width, Height: spec.Extent.Height})
		}
		element = viewer
	case KindList:
		element = b.list(spec)
	case KindCombo:
		element = b.combo(spec)
	case KindTabs:
		element = b.tabs(spec)
	case KindImage:
		element = control.NewImage(spec.Content)
	case KindItem:
		element = control.NewListItem(spec.Content)
	case KindMenuItem:
		element = b.menuItem(spec)
	default:
		panic(fmt.Sprintf("layout: unvalidated kind %q", spec.Kind))
	}

	c := element.Base()
	b.declare(spec.Name, spec.Label, element)
	if spec.Focusable != nil {
		c.SetFocusable(*spec.Focusable)
	}
	if spec.Bounds != nil {
		c.SetBounds(rect(*spec.Bounds))
	}
	for _, child := range spec.Children {
		c.AddChild(b.element(child))
	}
	if len(spec.ContextMenu) > 0 {
		menu := control.NewMenu()
		for _, item := range spec.ContextMenu {
			menu.AddItem(b.element(item).(*control.MenuItem))
		}
		c.SetContextMenu(menu)
	}
	if spec.Disabled {
		c.SetEnabled(false)
	}
	if spec.Hidden {
		c.SetVisible(false)
	}
	return element
}

func setChecked(toggle *control.ToggleButton, spec Element) {
	switch {
	case spec.Indeterminate:
		toggle.SetChecked(nil)
	case spec.Checked != nil:
		toggle.SetChecked(spec.Checked)
	}
}

func (b *builder) list(spec Element) *control.ListBox {
	list := control.NewListBox()
	list.SetMultipleSelection(spec.Multiple)
	var selected []*control.ListItem
	for _, itemSpec := range spec.Items {
		item := b.element(itemSpec).(*control.ListItem)
		list.AddItem(item)
		if itemSpec.Selected {
			selected = append(selected, item)
		}
	}
	selectItems(selected)
	return list
}

func (b *builder) combo(spec Element) *control.ComboBox {
	combo := control.NewComboBox()
	var selected []*control.ListItem
	for _, itemSpec := range spec.Items {
		item := b.element(itemSpec).(*control.ListItem)
		combo.AddItem(item)
		if itemSpec.Selected {
			selected = append(selected, item)
		}
	}
	selectItems(selected)
	return combo
}

// selectItems selects the first item and adds the rest, which only a
// multiple-selection list accepts. Validate rejects the other cases.
func selectItems(items []*control.ListItem) {
	for i, item := range items {
		if i == 0 {
			item.Select()
			continue
		}
		if err := item.AddToSelection(); err != nil {
			panic(fmt.Sprintf("layout: unvalidated selection: %v", err))
		}
	}
}

// tabs builds a tab control. Each tab's children become content of the
// tab control shown only while that tab is selected.
func (b *builder) tabs(spec Element) *control.TabControl {
	tabs := control.NewTabControl()
	for index, tabSpec := range spec.Items {
		b.count++
		tab := control.NewTabItem(tabSpec.Content)
		b.declare(tabSpec.Name, tabSpec.Label, tab)
		bounds := geometry.Rect{X: float64(index) * tabHeaderWidth, Width: tabHeaderWidth, Height: tabHeaderHeight}
		if tabSpec.Bounds != nil {
			bounds = rect(*tabSpec.Bounds)
		}
		tab.SetBounds(bounds)
		tabs.AddTab(tab)
		if tabSpec.Selected {
			tab.Select()
		}
		if tabSpec.Disabled {
			tab.SetEnabled(false)
		}

		var content []*control.Control
		for _, child := range tabSpec.Children {
			element := b.element(child)
			tabs.AddChild(element)
			content = append(content, element.Base())
		}
		showContent(content, tab.IsSelected())
		tab.Observe(func(change control.Change) {
			if change.Property == control.PropertySelected {
				showContent(content, change.New.(bool))
			}
		})
	}
	return tabs
}

func showContent(content []*control.Control, visible bool) {
	for _, c := range content {
		c.SetVisible(visible)
	}
}

func (b *builder) menuItem(spec Element) *control.MenuItem {
	item := control.NewMenuItem(spec.Content)
	item.OnClick(b.clicked(spec))
	for _, child := range spec.Items {
		item.AddItem(b.element(child).(*control.MenuItem))
	}
	return item
}

func (b *builder) clicked(spec Element) func() {
	name := spec.Name
	if name == "" {
		name = spec.Content
	}
	return func() {
		b.logger.Info("clicked", "kind", spec.Kind, "element", name)
	}
}

func rect(r Rect) geometry.Rect {
	return geometry.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

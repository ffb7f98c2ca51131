// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package control

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/bureau-foundation/automation/peer"
	"github.com/bureau-foundation/automation/platform"
)

func newList(h *harness, t *testing.T, count int) (*ListBox, []*ListItem) {
	t.Helper()
	list := NewListBox()
	items := make([]*ListItem, count)
	h.window(t, func(w *Window) {
		w.AddChild(list)
		place(list, 0, 0, 100, 40)
		for i := range items {
			items[i] = NewListItem(string(rune('A' + i)))
			list.AddItem(items[i])
		}
	})
	return list, items
}

func TestListBoxSelection(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	list, items := newList(h, t, 3)
	listNode := h.node(t, list)
	first := h.node(t, items[0])
	second := h.node(t, items[1])

	if err := first.Select(ctx); err != nil {
		t.Fatalf("Select: %v", err)
	}
	selection, _ := listNode.Selection(ctx)
	if len(selection) != 1 || selection[0] != first {
		t.Fatalf("Selection = %v, want [A]", selection)
	}

	err := second.AddToSelection(ctx)
	if !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("AddToSelection in single mode: err = %v", err)
	}

	h.onTree(t, func() { list.SetMultipleSelection(true) })
	if err := second.AddToSelection(ctx); err != nil {
		t.Fatalf("AddToSelection: %v", err)
	}
	selection, _ = listNode.Selection(ctx)
	if len(selection) != 2 {
		t.Errorf("Selection = %v, want two items", selection)
	}
	multiple, _ := listNode.Property(ctx, platform.PropertySelectionCanSelectMultiple)
	if multiple != true {
		t.Errorf("CanSelectMultiple = %v", multiple)
	}

	if err := second.Select(ctx); err != nil {
		t.Fatal(err)
	}
	if items[0].IsSelected() || !items[1].IsSelected() {
		t.Errorf("Select did not replace the selection")
	}
}

func TestListItemSelectedRaised(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, items := newList(h, t, 2)
	node := h.node(t, items[1])
	if err := node.AdviseEventAdded(ctx, platform.EventAutomationPropertyChanged); err != nil {
		t.Fatal(err)
	}

	if err := node.Select(ctx); err != nil {
		t.Fatal(err)
	}
	changes := h.events.propertyChanges(node, platform.PropertySelectionItemIsSelected)
	if len(changes) != 1 || changes[0].NewValue != true {
		t.Errorf("IsSelected changes = %+v, want one to true", changes)
	}
}

func TestListBoxForwardsScroll(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	list, _ := newList(h, t, 5)
	node := h.node(t, list)

	info, err := node.ScrollInfo(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !info.VerticallyScrollable || info.VerticalPercent != 0 || info.VerticalViewSize != 40 {
		t.Errorf("ScrollInfo = %+v, want vertical 0%% with view size 40", info)
	}
	if info.HorizontallyScrollable || info.HorizontalPercent != platform.NoScroll {
		t.Errorf("horizontal = %+v, want not scrollable", info)
	}

	if err := node.Scroll(ctx, platform.ScrollNoAmount, platform.ScrollSmallIncrement); err != nil {
		t.Fatal(err)
	}
	if got := list.Viewer().Offset().Y; got != lineSize {
		t.Errorf("offset after line down = %v, want %v", got, lineSize)
	}
	info, _ = node.ScrollInfo(ctx)
	if want := lineSize * 100 / 60; math.Abs(info.VerticalPercent-want) > 1e-9 {
		t.Errorf("VerticalPercent = %v, want %v", info.VerticalPercent, want)
	}

	if err := node.SetScrollPercent(ctx, platform.NoScroll, 100); err != nil {
		t.Fatal(err)
	}
	if got := list.Viewer().Offset().Y; got != 60 {
		t.Errorf("offset at 100%% = %v, want 60", got)
	}
}

func TestComboBoxSelectionWhileCollapsed(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	combo := NewComboBox()
	red := NewListItem("Red")
	green := NewListItem("Green")
	h.window(t, func(w *Window) {
		w.AddChild(combo)
		place(combo, 0, 0, 120, 24)
		combo.AddItem(red)
		combo.AddItem(green)
		green.Select()
	})
	node := h.node(t, combo)

	selection, _ := node.Selection(ctx)
	if len(selection) != 1 {
		t.Fatalf("collapsed Selection = %v, want one stand-in", selection)
	}
	standIn := selection[0]
	if standIn == h.node(t, green) {
		t.Errorf("collapsed selection reports the hidden item itself")
	}
	if name, _ := standIn.Name(ctx); name != "Green" {
		t.Errorf("stand-in name = %q, want Green", name)
	}
	if err := node.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	again, _ := node.Selection(ctx)
	if len(again) != 1 || again[0] != standIn {
		t.Errorf("stand-in changed between reads: %v then %v", selection, again)
	}

	if err := node.AdviseEventAdded(ctx, platform.EventAutomationPropertyChanged); err != nil {
		t.Fatal(err)
	}
	if err := node.Expand(ctx); err != nil {
		t.Fatal(err)
	}
	changes := h.events.propertyChanges(node, platform.PropertyExpandCollapseState)
	if len(changes) != 1 || changes[0].NewValue != peer.Expanded {
		t.Errorf("expand changes = %+v, want one to expanded", changes)
	}
	selection, _ = node.Selection(ctx)
	if len(selection) != 1 || selection[0] != h.node(t, green) {
		t.Errorf("expanded Selection = %v, want the green item", selection)
	}
	if h.factory.Lookup(standIn.ID()) != nil {
		t.Errorf("stand-in still registered after the drop-down opened")
	}

	localized, _ := node.Property(ctx, platform.PropertyLocalizedControlType)
	if localized != "combo box" {
		t.Errorf("LocalizedControlType = %v", localized)
	}
}

func TestComboBoxExpandRequiresEnabled(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	combo := NewComboBox()
	h.window(t, func(w *Window) {
		w.AddChild(combo)
		combo.SetEnabled(false)
	})

	err := h.node(t, combo).Expand(ctx)
	if !platform.IsElementNotEnabled(err) {
		t.Errorf("Expand on disabled combo box: err = %v", err)
	}
	if combo.IsDropDownOpen() {
		t.Errorf("disabled combo box opened")
	}
}

func TestTabControlKeepsOneTabSelected(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	tabs := NewTabControl()
	general := NewTabItem("General")
	advanced := NewTabItem("Advanced")
	h.window(t, func(w *Window) {
		w.AddChild(tabs)
		tabs.AddTab(general)
		tabs.AddTab(advanced)
	})

	if tabs.SelectedTab() != general {
		t.Fatalf("first tab not selected")
	}
	generalNode := h.node(t, general)
	err := generalNode.RemoveFromSelection(ctx)
	if !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("RemoveFromSelection of the only selected tab: err = %v", err)
	}
	if err := h.node(t, advanced).Select(ctx); err != nil {
		t.Fatal(err)
	}
	if tabs.SelectedTab() != advanced {
		t.Errorf("SelectedTab = %v, want advanced", tabs.SelectedTab())
	}

	node := h.node(t, tabs)
	controlType, _ := node.ControlType(ctx)
	if controlType != platform.ControlTypeTab {
		t.Errorf("ControlType = %v, want Tab", controlType)
	}
	name, _ := h.node(t, advanced).Name(ctx)
	if name != "Advanced" {
		t.Errorf("tab name = %q", name)
	}
	required, _ := node.Property(ctx, platform.PropertySelectionIsSelectionRequired)
	if required != true {
		t.Errorf("IsSelectionRequired = %v", required)
	}
}

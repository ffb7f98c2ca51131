// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package layout

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/bureau-foundation/automation/control"
	"github.com/bureau-foundation/automation/focus"
	"github.com/bureau-foundation/automation/peer"
)

func buildDemo(t *testing.T) (*Tree, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	tree, err := Build(Demo(), Options{
		Focus:  focus.NewManager(),
		Logger: slog.New(slog.NewTextHandler(&logs, nil)),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree, &logs
}

func TestBuildDemo(t *testing.T) {
	tree, _ := buildDemo(t)

	if len(tree.Windows) != 1 {
		t.Fatalf("windows = %d, want 1", len(tree.Windows))
	}
	window := tree.Windows[0]
	if !window.IsOpen() || window.Title() != "Automation Demo" || window.Position().X != 120 {
		t.Errorf("window open=%v title=%q position=%v", window.IsOpen(), window.Title(), window.Position())
	}

	zoom, ok := tree.Lookup("zoom").(*control.Slider)
	if !ok || zoom.Value() != 100 || zoom.Minimum() != 25 {
		t.Errorf("zoom = %#v", tree.Lookup("zoom"))
	}
	wrap := tree.Lookup("wrap").(*control.CheckBox)
	if checked := wrap.IsChecked(); checked == nil || *checked {
		t.Errorf("wrap checked = %v, want false", checked)
	}
	if tree.Lookup("delete").Base().IsEnabled() {
		t.Error("delete button is enabled")
	}
	theme := tree.Lookup("theme").(*control.ComboBox)
	if theme.SelectedItem() == nil || theme.SelectedItem().Content() != "Light" {
		t.Errorf("theme selection = %v", theme.SelectedItem())
	}
	if name := tree.Lookup("name").Base(); name.ContextMenu() == nil || len(name.ContextMenu().Items()) != 3 {
		t.Errorf("name context menu = %v", name.ContextMenu())
	}
	if tree.Lookup("save").Base().Parent() != tree.Lookup("toolbar").Base() {
		t.Error("save button is not inside the toolbar")
	}
	if tree.Lookup("missing") != nil {
		t.Error("Lookup of an undeclared name returned an element")
	}

	names := tree.Names()
	if len(names) == 0 || names[0] != "toolbar" || names[1] != "save" {
		t.Errorf("Names() = %v", names)
	}
}

func TestBuildTabContentFollowsSelection(t *testing.T) {
	tree, _ := buildDemo(t)
	tabs := tree.Lookup("panes").(*control.TabControl)
	logo := tree.Lookup("logo").Base()
	log := tree.Lookup("log").Base()

	if tabs.SelectedTab().Header() != "General" {
		t.Fatalf("selected tab = %q", tabs.SelectedTab().Header())
	}
	if !logo.IsVisible() || log.IsVisible() {
		t.Errorf("General selected: logo visible=%v, log visible=%v", logo.IsVisible(), log.IsVisible())
	}

	tabs.Items()[1].Select()
	if logo.IsVisible() || !log.IsVisible() {
		t.Errorf("Advanced selected: logo visible=%v, log visible=%v", logo.IsVisible(), log.IsVisible())
	}
}

func TestBuildClickLogs(t *testing.T) {
	tree, logs := buildDemo(t)
	tree.Lookup("save").(*control.Button).Click()
	if !strings.Contains(logs.String(), "element=save") {
		t.Errorf("click not logged: %s", logs.String())
	}
}

func TestBuildMultipleSelection(t *testing.T) {
	document, err := Parse([]byte(settingsYAML))
	if err != nil {
		t.Fatal(err)
	}
	tree, err := Build(document, Options{Focus: focus.NewManager()})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	files := tree.Lookup("files").(*control.ListBox)
	if got := len(files.SelectedItems()); got != 2 {
		t.Errorf("selected items = %d, want 2", got)
	}
}

func TestBuildRejectsInvalidLayout(t *testing.T) {
	_, err := Build(&Document{}, Options{})
	if err == nil || !strings.Contains(err.Error(), "no windows") {
		t.Errorf("Build(empty) error = %v", err)
	}
}

func TestBuildLabelSetsTheAutomationName(t *testing.T) {
	document := &Document{Windows: []Window{{
		Title: "Form",
		Size:  Size{Width: 200, Height: 100},
		Children: []Element{
			{Kind: KindTextBox, Name: "title", Label: "Title"},
			{Kind: KindButton, Name: "ok", Content: "OK"},
		},
	}}}
	tree, err := Build(document, Options{Focus: focus.NewManager()})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := tree.Lookup("title").Base().Name(); got != "Title" {
		t.Errorf("labeled text box name = %q, want Title", got)
	}
	if got := tree.Lookup("ok").Base().Name(); got != "" {
		t.Errorf("unlabeled button declared name = %q, want empty", got)
	}
	if names := tree.Names(); len(names) != 2 || names[0] != "title" || names[1] != "ok" {
		t.Errorf("Names() = %v", names)
	}
}

func TestTreeCloseDetachesPeers(t *testing.T) {
	tree, _ := buildDemo(t)
	window := tree.Windows[0]
	save := tree.Lookup("save").Base()
	window.PeerWith(peer.DetachedFactory)
	savePeer := save.PeerWith(peer.DetachedFactory)

	tree.Close()
	if window.IsOpen() {
		t.Error("window still open after Close")
	}
	if !savePeer.Detached() {
		t.Error("button peer not detached")
	}
	if len(tree.Windows) != 0 || tree.Lookup("save") != nil || len(tree.Names()) != 0 {
		t.Errorf("tree not emptied: windows=%d names=%v", len(tree.Windows), tree.Names())
	}
}

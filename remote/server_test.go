// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"context"
	"slices"
	"testing"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/bureau-foundation/automation/platform"
)

func TestStatus(t *testing.T) {
	h := newHarness(t)

	var status Status
	h.call(t, "status", nil, &status)
	if status.Version != "test" || status.FrameworkID != platform.FrameworkID {
		t.Errorf("status = %+v", status)
	}
	if status.Roots < 1 || status.Nodes < status.Roots {
		t.Errorf("roots = %d, nodes = %d", status.Roots, status.Nodes)
	}
}

func TestTreeWalksTheWindow(t *testing.T) {
	h := newHarness(t)

	var response treeResponse
	h.call(t, "tree", nil, &response)
	window := findByName(response.Tree, "Automation Demo")
	if window == nil {
		t.Fatalf("window missing from tree %+v", response.Tree)
	}
	if window.ControlType != platform.ControlTypeWindow.String() || !window.ControlElement {
		t.Errorf("window = %+v", window.ElementInfo)
	}
	save := findByName(window.Children, "Save")
	if save == nil {
		t.Fatal("Save button missing from the tree")
	}
	if !slices.Contains(save.Patterns, "Invoke") || save.Bounds.X != 124 || save.Bounds.Y != 84 {
		t.Errorf("save = %+v", save.ElementInfo)
	}

	var shallow treeResponse
	h.call(t, "tree", map[string]any{"element": window.ID, "depth": 1}, &shallow)
	if len(shallow.Tree) != 1 || len(shallow.Tree[0].Children) != 0 || !shallow.Tree[0].Truncated {
		t.Errorf("depth 1 tree = %+v, want the window alone, truncated", shallow.Tree)
	}
}

func TestShowAndProperty(t *testing.T) {
	h := newHarness(t)
	zoom := h.id(t, "zoom")

	var detail ElementDetail
	h.call(t, "show", map[string]any{"element": zoom}, &detail)
	if detail.Parent == 0 {
		t.Error("slider has no parent")
	}
	values := make(map[string]any)
	for _, property := range detail.Properties {
		values[property.Name] = property.Value
	}
	if values["RangeValue.Maximum"] != 400.0 || values["FrameworkId"] != platform.FrameworkID {
		t.Errorf("properties = %v", values)
	}
	if _, ok := values["Toggle.ToggleState"]; ok {
		t.Error("slider lists a toggle property")
	}

	var name Property
	h.call(t, "property", map[string]any{"element": h.id(t, "save"), "property": "30005"}, &name)
	if name.Name != "Name" || name.Value != "Save" {
		t.Errorf("property = %+v", name)
	}
}

func TestNavigate(t *testing.T) {
	h := newHarness(t)

	var next elementResponse
	h.call(t, "navigate", map[string]any{"element": h.id(t, "save"), "direction": "next"}, &next)
	if next.Element == nil || next.Element.Name != "Delete" {
		t.Errorf("next of save = %+v", next.Element)
	}

	var none elementResponse
	h.call(t, "navigate", map[string]any{"element": h.id(t, "save"), "direction": "previous"}, &none)
	if none.Element != nil {
		t.Errorf("previous of the first child = %+v, want none", none.Element)
	}
}

func TestElementAtUsesScreenCoordinates(t *testing.T) {
	h := newHarness(t)

	var hit elementResponse
	h.call(t, "element-at", map[string]any{"x": 130.0, "y": 90.0}, &hit)
	if hit.Element == nil || hit.Element.Name != "Save" {
		t.Errorf("element at (130, 90) = %+v, want Save", hit.Element)
	}

	var miss elementResponse
	h.call(t, "element-at", map[string]any{"x": 5.0, "y": 5.0}, &miss)
	if miss.Element != nil {
		t.Errorf("element outside every window = %+v", miss.Element)
	}
}

func TestCommands(t *testing.T) {
	h := newHarness(t)

	var toggled elementResponse
	h.call(t, "toggle", map[string]any{"element": h.id(t, "bold")}, &toggled)
	var state Property
	h.call(t, "property", map[string]any{"element": h.id(t, "bold"), "property": "Toggle.ToggleState"}, &state)
	if state.Value != "on" {
		t.Errorf("bold toggle state = %v, want on", state.Value)
	}

	h.call(t, "set-range", map[string]any{"element": h.id(t, "zoom"), "value": 150.0}, nil)
	var value Property
	h.call(t, "property", map[string]any{"element": h.id(t, "zoom"), "property": "RangeValue.Value"}, &value)
	if value.Value != 150.0 {
		t.Errorf("zoom = %v, want 150", value.Value)
	}

	vertical := 100.0
	h.call(t, "scroll-percent", map[string]any{"element": h.id(t, "files"), "vertical": vertical}, nil)
	var percent Property
	h.call(t, "property", map[string]any{"element": h.id(t, "files"), "property": "Scroll.VerticalScrollPercent"}, &percent)
	if percent.Value != 100.0 {
		t.Errorf("files vertical percent = %v, want 100", percent.Value)
	}

	var menu contextMenuResponse
	h.call(t, "context-menu", map[string]any{"element": h.id(t, "name")}, &menu)
	if !menu.Shown {
		t.Error("text box context menu not shown")
	}
	h.call(t, "context-menu", map[string]any{"element": h.id(t, "zoom")}, &menu)
	if menu.Shown {
		t.Error("slider without a context menu reported one shown")
	}

	if got := promtestutil.ToFloat64(h.metrics.requests.WithLabelValues("toggle", "ok")); got != 1 {
		t.Errorf("toggle ok requests = %v, want 1", got)
	}
}

func TestCommandErrorCodes(t *testing.T) {
	h := newHarness(t)

	if code := h.callError(t, "invoke", map[string]any{"element": h.id(t, "delete")}); code != platform.ErrorCodeElementNotEnabled {
		t.Errorf("invoke disabled: code = %#x", code)
	}
	if code := h.callError(t, "toggle", map[string]any{"element": h.id(t, "save")}); code != ErrorCodeNotSupported {
		t.Errorf("toggle a button: code = %#x", code)
	}
	if code := h.callError(t, "invoke", map[string]any{"element": 999999}); code != ErrorCodeElementNotAvailable {
		t.Errorf("invoke unknown element: code = %#x", code)
	}
	if code := h.callError(t, "add-to-selection", map[string]any{"element": h.id(t, "files")}); code != ErrorCodeNotSupported {
		t.Errorf("add-to-selection on a list: code = %#x", code)
	}
	if code := h.callError(t, "navigate", map[string]any{"element": h.id(t, "save"), "direction": "sideways"}); code != 0 {
		t.Errorf("bad direction: code = %#x, want none", code)
	}
	if got := promtestutil.ToFloat64(h.metrics.requests.WithLabelValues("invoke", "error")); got != 2 {
		t.Errorf("invoke error requests = %v, want 2", got)
	}
}

func TestAdviseAndEvents(t *testing.T) {
	h := newHarness(t)
	zoom := h.id(t, "zoom")

	var advised adviseResponse
	h.call(t, "advise", map[string]any{"element": zoom, "event": "property"}, &advised)
	if advised.Subscription == "" {
		t.Fatal("advise returned no subscription")
	}
	var status Status
	h.call(t, "status", nil, &status)
	if status.Subscriptions != 1 {
		t.Errorf("subscriptions = %d, want 1", status.Subscriptions)
	}
	after := status.LatestEvent

	h.call(t, "set-range", map[string]any{"element": zoom, "value": 200.0}, nil)

	var events EventBatch
	h.call(t, "events", map[string]any{"after": after}, &events)
	var found bool
	for _, record := range events.Events {
		if record.Element == zoom && record.Property == "RangeValue.Value" && record.New == 200.0 {
			found = true
		}
	}
	if !found {
		t.Errorf("no RangeValue.Value change to 200 in %+v", events.Events)
	}

	var idle EventBatch
	h.call(t, "events", map[string]any{"after": events.Last, "wait_ms": 20}, &idle)
	if len(idle.Events) != 0 || idle.Last != events.Last {
		t.Errorf("idle wait = %+v", idle)
	}

	h.call(t, "unadvise", map[string]any{"subscription": advised.Subscription}, nil)
	h.callError(t, "unadvise", map[string]any{"subscription": advised.Subscription})
	h.callError(t, "advise", map[string]any{"element": zoom, "event": "focus"})
}

func TestSnapshotDigest(t *testing.T) {
	h := newHarness(t)
	var first TreeSnapshot
	h.call(t, "snapshot", nil, &first)
	if first.Digest == "" || len(first.Tree) == 0 {
		t.Fatalf("snapshot = %+v", first)
	}

	var same TreeSnapshot
	h.call(t, "snapshot", map[string]any{"digest": first.Digest}, &same)
	if !same.Unchanged || same.Digest != first.Digest || len(same.Tree) != 0 {
		t.Errorf("unchanged snapshot = %+v", same)
	}

	h.call(t, "focus", map[string]any{"element": h.id(t, "name")}, nil)
	var changed TreeSnapshot
	h.call(t, "snapshot", map[string]any{"digest": first.Digest}, &changed)
	if changed.Unchanged || changed.Digest == first.Digest {
		t.Errorf("snapshot after a focus change reported unchanged")
	}

	var focused elementResponse
	h.call(t, "focused", nil, &focused)
	if focused.Element == nil || focused.Element.ID != h.id(t, "name") {
		t.Errorf("focused = %+v, want the name text box", focused.Element)
	}
}

func TestControlOnlyTreeSplicesContent(t *testing.T) {
	h := newHarness(t)
	var full, controls treeResponse
	h.call(t, "tree", nil, &full)
	h.call(t, "tree", map[string]any{"control_only": true}, &controls)
	if count(controls.Tree) > count(full.Tree) {
		t.Errorf("control view has %d nodes, raw view %d", count(controls.Tree), count(full.Tree))
	}
	var check func([]TreeNode)
	check = func(nodes []TreeNode) {
		for _, node := range nodes {
			if !node.ControlElement {
				t.Errorf("control view includes %q", node.Name)
			}
			check(node.Children)
		}
	}
	check(controls.Tree)
}

func count(nodes []TreeNode) int {
	total := len(nodes)
	for _, node := range nodes {
		total += count(node.Children)
	}
	return total
}

func TestCloseReleasesSubscriptions(t *testing.T) {
	h := newHarness(t)
	zoom := h.id(t, "zoom")
	h.call(t, "advise", map[string]any{"element": zoom, "event": "property"}, nil)

	if err := h.server.Close(context.Background()); err != nil {
		t.Fatal(err)
	}
	property, _, err := h.factory.Lookup(zoom).Interest(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if property != 0 {
		t.Errorf("property interest after Close = %d", property)
	}
}

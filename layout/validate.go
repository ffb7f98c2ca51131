// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package layout

import "fmt"

// containers may hold children.
var containers = map[string]bool{
	KindPanel:  true,
	KindScroll: true,
	KindTab:    true,
}

// itemKinds maps each kind that takes items to the item kind it takes.
var itemKinds = map[string]string{
	KindList:     KindItem,
	KindCombo:    KindItem,
	KindTabs:     KindTab,
	KindMenuItem: KindMenuItem,
}

var knownKinds = map[string]bool{
	KindPanel: true, KindButton: true, KindToggle: true, KindCheckBox: true,
	KindText: true, KindTextBox: true, KindSlider: true, KindScroll: true,
	KindList: true, KindCombo: true, KindTabs: true, KindTab: true,
	KindItem: true, KindMenuItem: true, KindImage: true,
}

// Validate checks a Document for structural issues. Returns a list of
// human-readable issue descriptions. An empty list means the layout can
// be built.
//
// Structural checks include:
//   - At least one window, each with a positive size
//   - Every element has a known kind
//   - Only panels, scroll viewers and tabs have children
//   - Lists and combo boxes hold items, tab controls hold tabs, menu
//     items hold menu items
//   - Items and tabs appear only inside their containers
//   - Context menus hold menu items
//   - Toggle state only on toggles and check boxes, indeterminate only
//     with three_state
//   - Slider minimum not above maximum, value within the range
//   - At most one selected item unless the list allows multiple
//   - Element names are unique across the document
func Validate(document *Document) []string {
	var issues []string
	if len(document.Windows) == 0 {
		issues = append(issues, "layout has no windows (at least one window is required)")
	}

	names := make(map[string]string)
	for index, window := range document.Windows {
		prefix := fmt.Sprintf("windows[%d]", index)
		if window.Size.Width <= 0 || window.Size.Height <= 0 {
			issues = append(issues, fmt.Sprintf("%s %q: size must be positive, got %gx%g",
				prefix, window.Title, window.Size.Width, window.Size.Height))
		}
		issues = append(issues, checkName(names, window.Name, prefix)...)
		for childIndex, child := range window.Children {
			issues = append(issues, validateElement(child, fmt.Sprintf("%s.children[%d]", prefix, childIndex), "", names)...)
		}
	}
	return issues
}

func checkName(names map[string]string, name, path string) []string {
	if name == "" {
		return nil
	}
	if first, exists := names[name]; exists {
		return []string{fmt.Sprintf("%s: duplicate name %q (first used at %s)", path, name, first)}
	}
	names[name] = path
	return nil
}

// validateElement checks spec at path. parentKind is the kind of the
// element holding spec as an item, or empty for children.
func validateElement(spec Element, path, parentKind string, names map[string]string) []string {
	var issues []string
	if !knownKinds[spec.Kind] {
		return append(issues, fmt.Sprintf("%s: unknown kind %q", path, spec.Kind))
	}
	issues = append(issues, checkName(names, spec.Name, path)...)

	if (spec.Kind == KindItem || spec.Kind == KindTab) && itemKinds[parentKind] != spec.Kind {
		issues = append(issues, fmt.Sprintf("%s: %s is only allowed in the items of a %s", path, spec.Kind, containerOf(spec.Kind)))
	}
	if spec.Kind == KindMenuItem && parentKind != KindMenuItem && parentKind != "menu" {
		issues = append(issues, fmt.Sprintf("%s: menuitem is only allowed in a context_menu or in the items of a menuitem", path))
	}

	if len(spec.Children) > 0 && !containers[spec.Kind] {
		issues = append(issues, fmt.Sprintf("%s: %s cannot have children", path, spec.Kind))
	}
	if len(spec.Items) > 0 && itemKinds[spec.Kind] == "" {
		issues = append(issues, fmt.Sprintf("%s: %s cannot have items", path, spec.Kind))
	}
	if (spec.Checked != nil || spec.Indeterminate || spec.ThreeState) && spec.Kind != KindToggle && spec.Kind != KindCheckBox {
		issues = append(issues, fmt.Sprintf("%s: checked, indeterminate and three_state apply only to toggle and checkbox", path))
	}
	if spec.Indeterminate && (!spec.ThreeState || spec.Checked != nil) {
		issues = append(issues, fmt.Sprintf("%s: indeterminate needs three_state and excludes checked", path))
	}
	if spec.Multiple && spec.Kind != KindList {
		issues = append(issues, fmt.Sprintf("%s: multiple applies only to list", path))
	}
	if spec.Extent != nil && spec.Kind != KindScroll {
		issues = append(issues, fmt.Sprintf("%s: extent applies only to scroll", path))
	}
	if spec.ReadOnly && spec.Kind != KindTextBox {
		issues = append(issues, fmt.Sprintf("%s: read_only applies only to textbox", path))
	}
	if spec.Kind == KindSlider {
		if spec.Minimum > spec.Maximum {
			issues = append(issues, fmt.Sprintf("%s: minimum %g is above maximum %g", path, spec.Minimum, spec.Maximum))
		} else if spec.Value < spec.Minimum || spec.Value > spec.Maximum {
			issues = append(issues, fmt.Sprintf("%s: value %g is outside [%g, %g]", path, spec.Value, spec.Minimum, spec.Maximum))
		}
	}

	selected := 0
	for index, item := range spec.Items {
		if item.Selected {
			selected++
		}
		issues = append(issues, validateElement(item, fmt.Sprintf("%s.items[%d]", path, index), spec.Kind, names)...)
	}
	if selected > 1 && !spec.Multiple {
		issues = append(issues, fmt.Sprintf("%s: %d items selected but %s allows one", path, selected, spec.Kind))
	}
	for index, child := range spec.Children {
		issues = append(issues, validateElement(child, fmt.Sprintf("%s.children[%d]", path, index), "", names)...)
	}
	for index, item := range spec.ContextMenu {
		issues = append(issues, validateElement(item, fmt.Sprintf("%s.context_menu[%d]", path, index), "menu", names)...)
	}
	return issues
}

func containerOf(kind string) string {
	if kind == KindTab {
		return KindTabs
	}
	return "list or combo"
}

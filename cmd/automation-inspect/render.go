// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/automation/remote"
)

// Colors are ANSI 256 codes. lipgloss drops them when stdout is not a
// terminal.
var (
	idStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	typeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	nameStyle     = lipgloss.NewStyle().Bold(true)
	patternStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("108"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
	focusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(36)
	headerStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
)

// elementLine renders one element on a single line:
//
//	#7 Button "Save" [Invoke] (124,84 72x24)
func elementLine(info remote.ElementInfo) string {
	var line strings.Builder
	line.WriteString(idStyle.Render(fmt.Sprintf("#%d", info.ID)))
	line.WriteByte(' ')
	line.WriteString(typeStyle.Render(info.ControlType))
	if info.Name != "" {
		name := nameStyle.Render(fmt.Sprintf("%q", info.Name))
		if !info.Enabled {
			name = disabledStyle.Render(fmt.Sprintf("%q", info.Name))
		}
		line.WriteByte(' ')
		line.WriteString(name)
	}
	if len(info.Patterns) > 0 {
		line.WriteByte(' ')
		line.WriteString(patternStyle.Render("[" + strings.Join(info.Patterns, ",") + "]"))
	}
	bounds := info.Bounds
	fmt.Fprintf(&line, " (%g,%g %gx%g)", bounds.X, bounds.Y, bounds.Width, bounds.Height)
	if info.Focused {
		line.WriteByte(' ')
		line.WriteString(focusStyle.Render("*focused"))
	}
	return line.String()
}

// writeTree prints nodes as an indented outline.
func writeTree(w io.Writer, nodes []remote.TreeNode) {
	for _, node := range nodes {
		writeTreeNode(w, node, 0)
	}
}

func writeTreeNode(w io.Writer, node remote.TreeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	suffix := ""
	if node.Truncated {
		suffix = idStyle.Render(fmt.Sprintf(" +%d more", node.ChildCount))
	}
	fmt.Fprintf(w, "%s%s%s\n", indent, elementLine(node.ElementInfo), suffix)
	for _, child := range node.Children {
		writeTreeNode(w, child, depth+1)
	}
}

// writeDetail prints an element and its properties as a table.
func writeDetail(w io.Writer, detail remote.ElementDetail) {
	fmt.Fprintln(w, elementLine(detail.ElementInfo))
	if detail.Parent != 0 {
		fmt.Fprintf(w, "%s%s\n", labelStyle.Render("parent"), idStyle.Render(fmt.Sprintf("#%d", detail.Parent)))
	}
	fmt.Fprintln(w, headerStyle.Render("Properties"))
	for _, property := range detail.Properties {
		fmt.Fprintf(w, "%s%s\n", labelStyle.Render(property.Name), formatValue(property.Value))
	}
}

// formatValue renders a wire property value.
func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "-"
	case string:
		return fmt.Sprintf("%q", v)
	case map[string]any:
		if _, ok := v["width"]; ok {
			return fmt.Sprintf("%v,%v %vx%v", v["x"], v["y"], v["width"], v["height"])
		}
		return fmt.Sprint(v)
	default:
		return fmt.Sprint(v)
	}
}

// eventLine renders one event record.
func eventLine(record remote.EventRecord) string {
	prefix := idStyle.Render(fmt.Sprintf("%6d %s", record.Sequence, record.Time))
	switch {
	case record.Property != "":
		return fmt.Sprintf("%s %s #%d %s: %s -> %s", prefix, typeStyle.Render(record.Category),
			record.Element, record.Property, formatValue(record.Old), formatValue(record.New))
	case record.Change != "":
		return fmt.Sprintf("%s %s #%d %s", prefix, typeStyle.Render(record.Category), record.Element, record.Change)
	default:
		focused := "nothing"
		if record.Focused != 0 {
			focused = fmt.Sprintf("#%d", record.Focused)
		}
		return fmt.Sprintf("%s %s root #%d -> %s", prefix, typeStyle.Render(record.Category), record.Element, focused)
	}
}

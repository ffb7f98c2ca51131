// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/automation/lib/cli"
	"github.com/bureau-foundation/automation/remote"
)

// browseRefresh is how often the browser polls for tree changes. The
// snapshot digest makes an unchanged poll cheap.
const browseRefresh = 2 * time.Second

// browseSource is the part of the client the browser uses.
type browseSource interface {
	Snapshot(ctx context.Context, options remote.TreeOptions, digest string) (remote.TreeSnapshot, error)
	Show(ctx context.Context, element int) (remote.ElementDetail, error)
	Command(ctx context.Context, action string, element int) (*remote.ElementInfo, error)
}

type browseKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	DetailUp   key.Binding
	DetailDown key.Binding
	Invoke     key.Binding
	Toggle     key.Binding
	Expand     key.Binding
	Collapse   key.Binding
	Focus      key.Binding
	Refresh    key.Binding
	Quit       key.Binding
}

var defaultBrowseKeys = browseKeyMap{
	Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
	Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
	Top:        key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
	Bottom:     key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
	DetailUp:   key.NewBinding(key.WithKeys("ctrl+u", "pgup"), key.WithHelp("C-u", "detail up")),
	DetailDown: key.NewBinding(key.WithKeys("ctrl+d", "pgdown"), key.WithHelp("C-d", "detail down")),
	Invoke:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "invoke")),
	Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	Expand:     key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "expand")),
	Collapse:   key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "collapse")),
	Focus:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "focus")),
	Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k browseKeyMap) help() string {
	bindings := []key.Binding{k.Up, k.Down, k.Invoke, k.Toggle, k.Expand, k.Collapse, k.Focus, k.Refresh, k.Quit}
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return strings.Join(parts, "  ")
}

// browseRow is one line of the tree pane.
type browseRow struct {
	info      remote.ElementInfo
	depth     int
	truncated bool
}

func browseRows(nodes []remote.TreeNode, depth int, into []browseRow) []browseRow {
	for _, node := range nodes {
		into = append(into, browseRow{info: node.ElementInfo, depth: depth, truncated: node.Truncated})
		into = browseRows(node.Children, depth+1, into)
	}
	return into
}

type snapshotMsg struct {
	snapshot remote.TreeSnapshot
	err      error
}

type detailMsg struct {
	element int
	detail  remote.ElementDetail
	err     error
}

type commandMsg struct {
	action  string
	element int
	err     error
}

type refreshTickMsg struct{}

// browseModel is the interactive tree browser.
type browseModel struct {
	source  browseSource
	options remote.TreeOptions
	timeout time.Duration
	refresh time.Duration
	keys    browseKeyMap

	digest   string
	rows     []browseRow
	cursor   int
	offset   int
	detail   viewport.Model
	status   string
	failed   bool
	width    int
	height   int
	selected int
}

func newBrowseModel(source browseSource, options remote.TreeOptions, timeout time.Duration) browseModel {
	return browseModel{
		source:  source,
		options: options,
		timeout: timeout,
		refresh: browseRefresh,
		keys:    defaultBrowseKeys,
		detail:  viewport.New(40, 10),
		width:   80,
		height:  24,
	}
}

func (m browseModel) Init() tea.Cmd {
	return m.fetchSnapshot()
}

func (m browseModel) fetchSnapshot() tea.Cmd {
	source, options, digest, timeout := m.source, m.options, m.digest, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		snapshot, err := source.Snapshot(ctx, options, digest)
		return snapshotMsg{snapshot: snapshot, err: err}
	}
}

func (m browseModel) fetchDetail(element int) tea.Cmd {
	source, timeout := m.source, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		detail, err := source.Show(ctx, element)
		return detailMsg{element: element, detail: detail, err: err}
	}
}

func (m browseModel) runCommand(action string, element int) tea.Cmd {
	source, timeout := m.source, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_, err := source.Command(ctx, action, element)
		return commandMsg{action: action, element: element, err: err}
	}
}

// scheduleRefresh arms the next poll. A zero interval disables polling.
func (m browseModel) scheduleRefresh() tea.Cmd {
	if m.refresh <= 0 {
		return nil
	}
	return tea.Tick(m.refresh, func(time.Time) tea.Msg { return refreshTickMsg{} })
}

// current returns the id under the cursor, or 0 when the tree is empty.
func (m browseModel) current() int {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return 0
	}
	return m.rows[m.cursor].info.ID
}

func (m browseModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = message.Width, message.Height
		m.layoutDetail()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(message)

	case snapshotMsg:
		if message.err != nil {
			m.status, m.failed = message.err.Error(), true
			return m, m.scheduleRefresh()
		}
		if message.snapshot.Unchanged {
			return m, m.scheduleRefresh()
		}
		m.digest = message.snapshot.Digest
		m.rows = browseRows(message.snapshot.Tree, 0, nil)
		m.restoreCursor()
		return m, tea.Batch(m.fetchDetail(m.current()), m.scheduleRefresh())

	case detailMsg:
		if message.element != m.current() {
			return m, nil
		}
		var content bytes.Buffer
		if message.err != nil {
			fmt.Fprintf(&content, "%v\n", message.err)
		} else {
			writeDetail(&content, message.detail)
		}
		m.detail.SetContent(content.String())
		return m, nil

	case commandMsg:
		if message.err != nil {
			m.status, m.failed = fmt.Sprintf("%s #%d: %v", message.action, message.element, message.err), true
		} else {
			m.status, m.failed = fmt.Sprintf("%s #%d", message.action, message.element), false
		}
		return m, m.fetchSnapshot()

	case refreshTickMsg:
		return m, m.fetchSnapshot()
	}
	return m, nil
}

func (m browseModel) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	before := m.current()
	switch {
	case key.Matches(message, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(message, m.keys.Up):
		m.move(-1)
	case key.Matches(message, m.keys.Down):
		m.move(1)
	case key.Matches(message, m.keys.Top):
		m.move(-len(m.rows))
	case key.Matches(message, m.keys.Bottom):
		m.move(len(m.rows))
	case key.Matches(message, m.keys.DetailUp):
		m.detail.LineUp(m.detail.Height / 2)
	case key.Matches(message, m.keys.DetailDown):
		m.detail.LineDown(m.detail.Height / 2)
	case key.Matches(message, m.keys.Refresh):
		m.digest = ""
		return m, m.fetchSnapshot()
	default:
		if action := m.action(message); action != "" && before != 0 {
			return m, m.runCommand(action, before)
		}
	}
	if m.current() != before && m.current() != 0 {
		m.selected = m.current()
		m.detail.GotoTop()
		return m, m.fetchDetail(m.current())
	}
	return m, nil
}

func (m browseModel) action(message tea.KeyMsg) string {
	switch {
	case key.Matches(message, m.keys.Invoke):
		return "invoke"
	case key.Matches(message, m.keys.Toggle):
		return "toggle"
	case key.Matches(message, m.keys.Expand):
		return "expand"
	case key.Matches(message, m.keys.Collapse):
		return "collapse"
	case key.Matches(message, m.keys.Focus):
		return "focus"
	}
	return ""
}

func (m *browseModel) move(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = max(0, min(len(m.rows)-1, m.cursor+delta))
	visible := m.treeHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

// restoreCursor keeps the cursor on the same element across a refresh
// when it still exists.
func (m *browseModel) restoreCursor() {
	for index, row := range m.rows {
		if row.info.ID == m.selected && m.selected != 0 {
			m.cursor = index
			m.move(0)
			return
		}
	}
	m.move(0)
	m.selected = m.current()
}

func (m browseModel) treeHeight() int {
	return max(1, m.height-2)
}

func (m browseModel) treeWidth() int {
	return max(20, m.width/2)
}

func (m *browseModel) layoutDetail() {
	m.detail.Width = max(10, m.width-m.treeWidth()-1)
	m.detail.Height = m.treeHeight()
	m.move(0)
}

var (
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	paneStyle   = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderLeft(true)
)

func (m browseModel) View() string {
	width := m.treeWidth()
	var tree strings.Builder
	end := min(len(m.rows), m.offset+m.treeHeight())
	for index := m.offset; index < end; index++ {
		row := m.rows[index]
		line := strings.Repeat("  ", row.depth) + elementLine(row.info)
		if row.truncated {
			line += " …"
		}
		line = lipgloss.NewStyle().MaxWidth(width).Render(line)
		if index == m.cursor {
			line = cursorStyle.Render(line)
		}
		tree.WriteString(line)
		tree.WriteByte('\n')
	}
	treePane := lipgloss.NewStyle().Width(width).Height(m.treeHeight()).Render(tree.String())
	body := lipgloss.JoinHorizontal(lipgloss.Top, treePane, paneStyle.Render(m.detail.View()))

	status := statusStyle.Render(m.keys.help())
	if m.status != "" {
		style := statusStyle
		if m.failed {
			style = errorStyle
		}
		status = style.Render(m.status)
	}
	return body + "\n" + status
}

func browseCommand() *cli.Command {
	var conn connection
	var options remote.TreeOptions
	return &cli.Command{
		Name:    "browse",
		Summary: "Browse and drive the element tree interactively",
		Usage:   "automation-inspect browse [element]",
		Flags: func() *pflag.FlagSet {
			flagSet := conn.flagSet("browse")
			flagSet.BoolVar(&options.ControlOnly, "control", false, "show only control elements")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				id, err := elementArg(args)
				if err != nil {
					return err
				}
				options.Element = id
			}
			model := newBrowseModel(conn.client(), options, conn.timeout)
			program := tea.NewProgram(model, tea.WithAltScreen())
			_, err := program.Run()
			return err
		},
	}
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/automation/lib/testutil"
	"github.com/bureau-foundation/automation/remote"
)

// fakeSource serves a fixed tree and records commands.
type fakeSource struct {
	tree     []remote.TreeNode
	commands []string
	fail     error
}

func (f *fakeSource) Snapshot(ctx context.Context, options remote.TreeOptions, digest string) (remote.TreeSnapshot, error) {
	current, err := remote.Digest(f.tree)
	if err != nil {
		return remote.TreeSnapshot{}, err
	}
	if digest == current {
		return remote.TreeSnapshot{Digest: current, Unchanged: true}, nil
	}
	return remote.TreeSnapshot{Digest: current, Tree: f.tree}, nil
}

func (f *fakeSource) Show(ctx context.Context, element int) (remote.ElementDetail, error) {
	for _, flat := range flatten(f.tree, "", nil) {
		if flat.info.ID == element {
			return remote.ElementDetail{
				ElementInfo: flat.info,
				Properties:  []remote.Property{{Name: "Name", Value: flat.info.Name}},
			}, nil
		}
	}
	return remote.ElementDetail{}, errors.New("no such element")
}

func (f *fakeSource) Command(ctx context.Context, action string, element int) (*remote.ElementInfo, error) {
	f.commands = append(f.commands, action)
	return nil, f.fail
}

// drive applies message and then runs the returned command chain
// until it produces no more messages the model consumes.
func drive(t *testing.T, model browseModel, message tea.Msg) browseModel {
	t.Helper()
	pending := []tea.Msg{message}
	for len(pending) > 0 {
		next, cmd := model.Update(pending[0])
		model = next.(browseModel)
		pending = append(pending[1:], collect(cmd)...)
	}
	return model
}

// collect runs cmd and flattens batches, dropping quit and tick
// messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch message := cmd().(type) {
	case tea.BatchMsg:
		var all []tea.Msg
		for _, inner := range message {
			all = append(all, collect(inner)...)
		}
		return all
	case snapshotMsg, detailMsg, commandMsg:
		return []tea.Msg{message}
	}
	return nil
}

func newTestBrowser(t *testing.T, source *fakeSource) browseModel {
	t.Helper()
	model := newBrowseModel(source, remote.TreeOptions{}, testutil.DefaultTimeout)
	model.refresh = 0
	model = drive(t, model, tea.WindowSizeMsg{Width: 120, Height: 30})
	return drive(t, model, model.Init()())
}

func TestBrowseLoadsTreeAndDetail(t *testing.T) {
	source := &fakeSource{tree: sampleTree()}
	model := newTestBrowser(t, source)

	if len(model.rows) != 7 || model.current() != 1 {
		t.Fatalf("rows = %d, current = %d", len(model.rows), model.current())
	}
	if model.rows[2].depth != 2 {
		t.Errorf("save button depth = %d, want 2", model.rows[2].depth)
	}
	view := model.View()
	if !strings.Contains(view, `"Editor"`) || !strings.Contains(view, "Properties") {
		t.Errorf("view:\n%s", view)
	}
}

func TestBrowseKeysMoveAndAct(t *testing.T) {
	source := &fakeSource{tree: sampleTree()}
	model := newTestBrowser(t, source)

	model = drive(t, model, tea.KeyMsg{Type: tea.KeyDown})
	model = drive(t, model, tea.KeyMsg{Type: tea.KeyDown})
	if model.current() != 3 {
		t.Fatalf("current after two downs = %d, want 3", model.current())
	}
	model = drive(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	model = drive(t, model, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if strings.Join(source.commands, ",") != "invoke,toggle" {
		t.Errorf("commands = %v", source.commands)
	}
	if model.status != "toggle #3" || model.failed {
		t.Errorf("status = %q failed=%v", model.status, model.failed)
	}

	source.fail = errors.New("element not enabled")
	model = drive(t, model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	if !model.failed || !strings.Contains(model.status, "not enabled") {
		t.Errorf("status after failure = %q", model.status)
	}

	model = drive(t, model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	if model.current() != 7 {
		t.Errorf("current after G = %d, want 7", model.current())
	}
	model = drive(t, model, tea.KeyMsg{Type: tea.KeyUp})
	if model.current() != 6 {
		t.Errorf("current after up = %d, want 6", model.current())
	}
}

func TestBrowseKeepsCursorAcrossRefresh(t *testing.T) {
	source := &fakeSource{tree: sampleTree()}
	model := newTestBrowser(t, source)
	model = drive(t, model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	if model.current() != 7 {
		t.Fatalf("current = %d", model.current())
	}

	// Remove the first button: the status text moves up a row.
	pane := &source.tree[0].Children[0]
	pane.Children = pane.Children[1:]
	model = drive(t, model, refreshTickMsg{})
	if len(model.rows) != 6 || model.current() != 7 {
		t.Errorf("after refresh rows = %d, current = %d", len(model.rows), model.current())
	}
}

func TestBrowseQuit(t *testing.T) {
	model := newTestBrowser(t, &fakeSource{tree: sampleTree()})
	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

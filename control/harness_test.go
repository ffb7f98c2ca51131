// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package control

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/automation/focus"
	"github.com/bureau-foundation/automation/lib/clock"
	"github.com/bureau-foundation/automation/lib/dispatch"
	"github.com/bureau-foundation/automation/lib/geometry"
	"github.com/bureau-foundation/automation/lib/testutil"
	"github.com/bureau-foundation/automation/platform"
)

type harness struct {
	dispatcher *dispatch.Dispatcher
	factory    *platform.Factory
	focus      *focus.Manager
	events     *recorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fakeClock := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	dispatcher := dispatch.New(dispatch.Config{Logger: logger, Clock: fakeClock})
	h := &harness{
		dispatcher: dispatcher,
		focus:      focus.NewManager(),
		events:     &recorder{},
	}
	h.factory = platform.NewFactory(platform.FactoryConfig{
		Dispatcher: dispatcher,
		Sink:       h.events,
		Logger:     logger,
		Clock:      fakeClock,
		Focus:      h.focus,
		Culture:    0x0409,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go dispatcher.Run(ctx)
	t.Cleanup(func() {
		cancel()
		testutil.RequireClosed(t, dispatcher.Stopped(), testutil.DefaultTimeout, "dispatcher shutdown")
	})
	return h
}

// onTree runs fn on the tree thread and waits for it.
func (h *harness) onTree(t *testing.T, fn func()) {
	t.Helper()
	err := h.dispatcher.Invoke(context.Background(), func(context.Context) error {
		fn()
		return nil
	})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
}

// window builds an open 400x300 window at (100, 50) on the tree thread.
// build adds the content.
func (h *harness) window(t *testing.T, build func(w *Window)) *Window {
	t.Helper()
	var w *Window
	h.onTree(t, func() {
		w = NewWindow("Main")
		w.SetFocusManager(h.focus)
		w.SetBounds(geometry.Rect{Width: 400, Height: 300})
		w.SetPosition(geometry.Point{X: 100, Y: 50})
		if build != nil {
			build(w)
		}
		w.Open()
	})
	return w
}

// node returns the platform node of e, creating its peer on the tree
// thread.
func (h *harness) node(t *testing.T, e Element) *platform.Node {
	t.Helper()
	var node *platform.Node
	h.onTree(t, func() {
		node = platform.NodeOf(e.Base().PeerWith(h.factory))
	})
	return node
}

func place(e Element, x, y, width, height float64) {
	e.Base().SetBounds(geometry.Rect{X: x, Y: y, Width: width, Height: height})
}

// recorder is a platform.Sink that keeps every event.
type recorder struct {
	mu     sync.Mutex
	events []platform.Event
}

func (r *recorder) Raise(event platform.Event) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

func (r *recorder) reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

func (r *recorder) propertyChanges(node *platform.Node, property platform.PropertyID) []platform.PropertyChangedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matches []platform.PropertyChangedEvent
	for _, event := range r.events {
		if changed, ok := event.(platform.PropertyChangedEvent); ok && changed.Node == node && changed.Property == property {
			matches = append(matches, changed)
		}
	}
	return matches
}

func (r *recorder) structureChanges(node *platform.Node) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, event := range r.events {
		if changed, ok := event.(platform.StructureChangedEvent); ok && changed.Node == node {
			count++
		}
	}
	return count
}

func (r *recorder) focusChanges() []platform.FocusChangedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matches []platform.FocusChangedEvent
	for _, event := range r.events {
		if changed, ok := event.(platform.FocusChangedEvent); ok {
			matches = append(matches, changed)
		}
	}
	return matches
}

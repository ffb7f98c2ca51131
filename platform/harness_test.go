// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package platform

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
	"github.com/bureau-foundation/automation/peer"
)

// testCulture is the LCID configured in every test factory.
const testCulture = 0x0409

type harness struct {
	dispatcher *dispatch.Dispatcher
	factory    *Factory
	focus      *focus.Manager
	clock      *clock.FakeClock
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
		clock:      fakeClock,
		events:     newRecorder(),
	}
	h.factory = NewFactory(FactoryConfig{
		Dispatcher: dispatcher,
		Sink:       h.events,
		Logger:     logger,
		Clock:      fakeClock,
		Focus:      h.focus,
		Culture:    testCulture,
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
func (h *harness) onTree(t *testing.T, fn func(ctx context.Context)) {
	t.Helper()
	err := h.dispatcher.Invoke(context.Background(), func(ctx context.Context) error {
		fn(ctx)
		return nil
	})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
}

// element is a minimal stand-in for a UI element.
type element struct {
	name     string
	enabled  bool
	bounds   geometry.Rect
	parent   *element
	children []*element
	peer     *peer.Peer
}

func (e *element) add(children ...*element) *element {
	for _, child := range children {
		child.parent = e
	}
	e.children = append(e.children, children...)
	return e
}

func (e *element) remove(child *element) {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

func (e *element) behavior() peer.Behavior {
	return peer.Behavior{
		Name:              func() string { return e.name },
		IsEnabled:         func() bool { return e.enabled },
		BoundingRectangle: func() geometry.Rect { return e.bounds },
		Children: func() []*peer.Peer {
			peers := make([]*peer.Peer, 0, len(e.children))
			for _, child := range e.children {
				peers = append(peers, child.peer)
			}
			return peers
		},
		ConnectToTree: func() {
			for ancestor := e.parent; ancestor != nil; ancestor = ancestor.parent {
				if ancestor.peer != nil {
					ancestor.peer.Children()
				}
			}
		},
	}
}

// attach creates the element's peer on the tree thread and returns its
// node.
func (h *harness) attach(t *testing.T, e *element, role peer.Role, caps peer.Capabilities) *Node {
	t.Helper()
	h.onTree(t, func(context.Context) {
		e.peer = peer.New(h.factory, role, e.behavior(), caps)
	})
	return NodeOf(e.peer)
}

// toggleFacet is a two-state toggle gated on its element being enabled.
type toggleFacet struct {
	element *element
	state   peer.ToggleState
	raise   bool
}

func (f *toggleFacet) ToggleState() peer.ToggleState { return f.state }

func (f *toggleFacet) Toggle() error {
	if err := f.element.peer.EnsureEnabled(); err != nil {
		return err
	}
	old := f.state
	if f.state == peer.ToggleOn {
		f.state = peer.ToggleOff
	} else {
		f.state = peer.ToggleOn
	}
	if f.raise {
		f.element.peer.RaisePropertyChanged(peer.PropertyToggleState, old, f.state)
	}
	return nil
}

// recorder is a Sink that keeps every event.
type recorder struct {
	mu     sync.Mutex
	events []Event
	signal chan Event
}

func newRecorder() *recorder {
	return &recorder{signal: make(chan Event, 256)}
}

func (r *recorder) Raise(event Event) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
	select {
	case r.signal <- event:
	default:
	}
}

func (r *recorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recorder) reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
	for {
		select {
		case <-r.signal:
		default:
			return
		}
	}
}

func (r *recorder) propertyChanges(node *Node, property PropertyID) []PropertyChangedEvent {
	var matches []PropertyChangedEvent
	for _, event := range r.all() {
		if changed, ok := event.(PropertyChangedEvent); ok && changed.Node == node && changed.Property == property {
			matches = append(matches, changed)
		}
	}
	return matches
}

func (r *recorder) count(category EventID) int {
	count := 0
	for _, event := range r.all() {
		if event.Category() == category {
			count++
		}
	}
	return count
}

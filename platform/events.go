// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import "time"

// Event is a notification for automation clients. Events are raised on
// the tree thread.
type Event interface {
	// Category is the event category a client advises to receive it.
	Category() EventID

	// Source is the node the event is about.
	Source() *Node

	// Time is when the event was raised.
	Time() time.Time
}

// PropertyChangedEvent reports a property value change. Only raised
// while a client has advised EventAutomationPropertyChanged on the node.
type PropertyChangedEvent struct {
	Node      *Node
	Property  PropertyID
	OldValue  any
	NewValue  any
	Timestamp time.Time
}

func (e PropertyChangedEvent) Category() EventID { return EventAutomationPropertyChanged }
func (e PropertyChangedEvent) Source() *Node     { return e.Node }
func (e PropertyChangedEvent) Time() time.Time   { return e.Timestamp }

// StructureChange describes a StructureChangedEvent.
type StructureChange int

const (
	ChildrenInvalidated StructureChange = iota
)

func (c StructureChange) String() string {
	if c == ChildrenInvalidated {
		return "children-invalidated"
	}
	return "unknown"
}

// StructureChangedEvent reports that a node's child list must be
// re-read. It is raised whether or not anyone advised.
type StructureChangedEvent struct {
	Node      *Node
	Change    StructureChange
	RuntimeID []int
	Timestamp time.Time
}

func (e StructureChangedEvent) Category() EventID { return EventStructureChanged }
func (e StructureChangedEvent) Source() *Node     { return e.Node }
func (e StructureChangedEvent) Time() time.Time   { return e.Timestamp }

// FocusChangedEvent reports that focus within a root moved. Focused is
// nil when focus left the root.
type FocusChangedEvent struct {
	Root      *RootNode
	Focused   *Node
	Timestamp time.Time
}

func (e FocusChangedEvent) Category() EventID { return EventAutomationFocusChanged }
func (e FocusChangedEvent) Source() *Node     { return e.Root.Node }
func (e FocusChangedEvent) Time() time.Time   { return e.Timestamp }

// Sink receives events. Raise is called on the tree thread and must not
// block on it.
type Sink interface {
	Raise(event Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Raise(event Event) { f(event) }

// Sinks fans events out to several sinks in order.
type Sinks []Sink

func (s Sinks) Raise(event Event) {
	for _, sink := range s {
		sink.Raise(event)
	}
}

type discardSink struct{}

func (discardSink) Raise(Event) {}

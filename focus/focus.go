// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package focus tracks which element holds keyboard focus. There is one
// process-wide [Manager] (see [Default]); every root bridge node
// subscribes to it for its lifetime and unsubscribes when disposed.
//
// The manager is mutated on the tree thread. Subscribers are called
// synchronously from SetFocused, in subscription order, after the new
// focus has been recorded.
package focus

import (
	"slices"
	"sync"
)

// Element is anything that can hold focus. FocusRoot returns the root
// of the tree the element currently belongs to, or nil when detached.
type Element interface {
	FocusRoot() Element
}

// Manager holds the focused element and the set of focus listeners.
type Manager struct {
	mu          sync.Mutex
	focused     Element
	nextID      uint64
	subscribers map[uint64]func(Element)
}

// NewManager returns an empty manager. Production code shares Default;
// tests create their own so that subscriptions do not leak between them.
func NewManager() *Manager {
	return &Manager{subscribers: make(map[uint64]func(Element))}
}

var defaultManager = NewManager()

// Default returns the process-wide focus manager.
func Default() *Manager {
	return defaultManager
}

// Focused returns the element holding focus, or nil.
func (m *Manager) Focused() Element {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.focused
}

// SetFocused moves focus to element (nil clears it). Subscribers run
// only when focus actually changed.
func (m *Manager) SetFocused(element Element) {
	m.mu.Lock()
	if m.focused == element {
		m.mu.Unlock()
		return
	}
	m.focused = element

	ids := make([]uint64, 0, len(m.subscribers))
	for id := range m.subscribers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	callbacks := make([]func(Element), 0, len(ids))
	for _, id := range ids {
		callbacks = append(callbacks, m.subscribers[id])
	}
	m.mu.Unlock()

	for _, callback := range callbacks {
		callback(element)
	}
}

// Subscribe registers fn for focus changes. Close the returned
// subscription to stop receiving them.
func (m *Manager) Subscribe(fn func(Element)) *Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	m.subscribers[id] = fn
	return &Subscription{manager: m, id: id}
}

// SubscriberCount returns the number of live subscriptions.
func (m *Manager) SubscriberCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subscribers)
}

// Subscription is a registered focus listener.
type Subscription struct {
	manager *Manager
	id      uint64
	once    sync.Once
}

// Close unsubscribes. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.manager.mu.Lock()
		defer s.manager.mu.Unlock()
		delete(s.manager.subscribers, s.id)
	})
}

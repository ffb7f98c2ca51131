// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package focus

import "testing"

type fakeElement struct {
	name string
	root Element
}

func (e *fakeElement) FocusRoot() Element { return e.root }

func TestSetFocusedNotifiesOnChangeOnly(t *testing.T) {
	manager := NewManager()
	button := &fakeElement{name: "button"}

	var seen []Element
	subscription := manager.Subscribe(func(element Element) {
		seen = append(seen, element)
	})
	defer subscription.Close()

	manager.SetFocused(button)
	manager.SetFocused(button)
	manager.SetFocused(nil)

	if len(seen) != 2 {
		t.Fatalf("got %d notifications, want 2", len(seen))
	}
	if seen[0] != button || seen[1] != nil {
		t.Errorf("notifications = %v, want [button nil]", seen)
	}
	if manager.Focused() != nil {
		t.Errorf("Focused() = %v, want nil", manager.Focused())
	}
}

func TestSubscriptionCloseStopsDelivery(t *testing.T) {
	manager := NewManager()
	calls := 0
	subscription := manager.Subscribe(func(Element) { calls++ })

	subscription.Close()
	subscription.Close()
	manager.SetFocused(&fakeElement{name: "edit"})

	if calls != 0 {
		t.Errorf("closed subscription received %d calls", calls)
	}
	if manager.SubscriberCount() != 0 {
		t.Errorf("SubscriberCount() = %d, want 0", manager.SubscriberCount())
	}
}

func TestSubscribersRunInOrder(t *testing.T) {
	manager := NewManager()
	var order []int
	for i := 0; i < 3; i++ {
		index := i
		manager.Subscribe(func(Element) { order = append(order, index) })
	}

	manager.SetFocused(&fakeElement{})

	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Errorf("order = %v, want [0 1 2]", order)
	}
}

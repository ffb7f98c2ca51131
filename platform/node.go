// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"context"
	"fmt"
	"os"
	"slices"
	"weak"

	"github.com/bureau-foundation/automation/lib/dispatch"
	"github.com/bureau-foundation/automation/lib/geometry"
	"github.com/bureau-foundation/automation/peer"
)

// Node is the platform projection of one peer. Exported methods that
// take a context may be called from any goroutine: they run on the tree
// thread through the factory's dispatcher, inline when ctx already
// belongs to it. The peer.Node methods (ChildrenChanged and friends)
// are called by the peer on the tree thread.
type Node struct {
	factory *Factory
	peer    *peer.Peer
	id      int

	// root is set when this node is the embedded half of a RootNode.
	root *RootNode

	state    SnapshotState
	snapshot Snapshot

	propertyInterest int
	focusInterest    int

	children      []*Node
	childrenValid bool

	parent      weak.Pointer[Node]
	parentValid bool

	treeRoot      weak.Pointer[RootNode]
	treeRootValid bool

	disposed bool
}

// bridge is implemented by every node this package creates.
type bridge interface {
	bridgeNode() *Node
}

func (n *Node) bridgeNode() *Node { return n }

// NodeOf returns the node of a peer created with a platform factory, or
// nil for a nil peer. It panics with *InconsistencyError when the peer's
// node came from somewhere else.
func NodeOf(p *peer.Peer) *Node {
	if p == nil {
		return nil
	}
	b, ok := p.Node().(bridge)
	if !ok {
		panic(&InconsistencyError{
			Message: fmt.Sprintf("peer %q (%s) has node %T", p.Name(), p.Role(), p.Node()),
		})
	}
	return b.bridgeNode()
}

// ID is the node's registry identifier, unique within its factory.
func (n *Node) ID() int { return n.id }

// RuntimeID is the identifier clients use to compare nodes.
func (n *Node) RuntimeID() []int { return []int{3, n.id} }

// Peer returns the peer this node projects. The peer may only be used
// on the tree thread.
func (n *Node) Peer() *peer.Peer { return n.peer }

// AsRoot returns the root node this node is part of, or nil when it is
// an ordinary node.
func (n *Node) AsRoot() *RootNode { return n.root }

func (n *Node) String() string {
	return fmt.Sprintf("node %d", n.id)
}

func (n *Node) dispatcher() *dispatch.Dispatcher { return n.factory.dispatcher }

// ChildrenChanged marks the child node list stale and tells clients to
// re-read it.
func (n *Node) ChildrenChanged() {
	if n.disposed {
		return
	}
	n.childrenValid = false
	n.markStale()
	n.factory.raise(StructureChangedEvent{
		Node:      n,
		Change:    ChildrenInvalidated,
		RuntimeID: n.RuntimeID(),
	})
}

// ParentChanged forgets the cached parent node.
func (n *Node) ParentChanged() {
	n.parent = weak.Pointer[Node]{}
	n.parentValid = false
}

// RootChanged forgets the cached root and marks the snapshot stale.
// Screen coordinates depend on the root. The peer calls it for each
// descendant it parents.
func (n *Node) RootChanged() {
	n.treeRoot = weak.Pointer[RootNode]{}
	n.treeRootValid = false
	if !n.disposed {
		n.markStale()
	}
}

// PropertiesInvalidated marks the snapshot stale. Nodes with property
// interest are refreshed by the factory's idle flush.
func (n *Node) PropertiesInvalidated() {
	if n.disposed {
		return
	}
	n.markStale()
}

// PropertyChanged records a change reported by the peer. The value is
// stored in the snapshot so that the next refresh does not report the
// same change a second time.
func (n *Node) PropertyChanged(property peer.Property, oldValue, newValue any) {
	if n.disposed {
		return
	}
	if n.state != Unpopulated {
		n.snapshot.apply(property, newValue)
	}
	if id, ok := peerProperties[property]; ok && n.propertyInterest > 0 {
		n.factory.raise(PropertyChangedEvent{
			Node:     n,
			Property: id,
			OldValue: oldValue,
			NewValue: newValue,
		})
	}
	n.markStale()
}

// Dispose makes the node inert. It is called when the peer is detached.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.disposed = true
	n.children = nil
	n.childrenValid = false
	n.snapshot = Snapshot{}
	n.factory.unregister(n)
}

func (n *Node) markStale() {
	if n.state == Valid {
		n.state = Stale
	}
}

// Refresh re-reads the peer and reports changed properties to advised
// clients.
func (n *Node) Refresh(ctx context.Context) error {
	return n.dispatcher().Invoke(ctx, func(ctx context.Context) error {
		n.refresh()
		return nil
	})
}

// State returns the snapshot state.
func (n *Node) State(ctx context.Context) (SnapshotState, error) {
	return dispatch.Call(ctx, n.dispatcher(), func(context.Context) (SnapshotState, error) {
		return n.state, nil
	})
}

// refresh runs on the tree thread.
func (n *Node) refresh() {
	if n.disposed {
		return
	}
	r := refresher{node: n, notify: n.state != Unpopulated && n.propertyInterest > 0}
	p := n.peer
	s := &n.snapshot

	update(&r, PropertyBoundingRectangle, &s.BoundingRectangle, n.screenRectangle())
	update(&r, PropertyClassName, &s.ClassName, p.ClassName())
	update(&r, PropertyControlType, &s.ControlType, ControlTypeFor(p.Role()))
	update(&r, PropertyLocalizedControlType, &s.LocalizedControlType, p.LocalizedControlType())
	update(&r, PropertyName, &s.Name, p.Name())
	update(&r, PropertyIsEnabled, &s.IsEnabled, p.IsEnabled())
	update(&r, PropertyIsKeyboardFocusable, &s.IsKeyboardFocusable, p.IsKeyboardFocusable())
	update(&r, PropertyHasKeyboardFocus, &s.HasKeyboardFocus, p.HasKeyboardFocus())
	update(&r, PropertyIsControlElement, &s.IsControlElement, p.IsControlElement())

	caps := p.Capabilities()
	if caps.Toggle != nil {
		update(&r, PropertyToggleState, &s.ToggleState, caps.Toggle.ToggleState())
	}
	if caps.RangeValue != nil {
		update(&r, PropertyRangeValueMinimum, &s.Range.Minimum, caps.RangeValue.Minimum())
		update(&r, PropertyRangeValueMaximum, &s.Range.Maximum, caps.RangeValue.Maximum())
		update(&r, PropertyRangeValueValue, &s.Range.Value, caps.RangeValue.Value())
		update(&r, PropertyRangeValueIsReadOnly, &s.Range.IsReadOnly, false)
		update(&r, PropertyRangeValueLargeChange, &s.Range.LargeChange, 1.0)
		update(&r, PropertyRangeValueSmallChange, &s.Range.SmallChange, 1.0)
	}
	if caps.Scroll != nil {
		info := scrollInfo(caps.Scroll.Extent(), caps.Scroll.Viewport(), caps.Scroll.Offset())
		update(&r, PropertyScrollHorizontalScrollPercent, &s.Scroll.HorizontalPercent, info.HorizontalPercent)
		update(&r, PropertyScrollVerticalScrollPercent, &s.Scroll.VerticalPercent, info.VerticalPercent)
		update(&r, PropertyScrollHorizontalViewSize, &s.Scroll.HorizontalViewSize, info.HorizontalViewSize)
		update(&r, PropertyScrollVerticalViewSize, &s.Scroll.VerticalViewSize, info.VerticalViewSize)
		update(&r, PropertyScrollHorizontallyScrollable, &s.Scroll.HorizontallyScrollable, info.HorizontallyScrollable)
		update(&r, PropertyScrollVerticallyScrollable, &s.Scroll.VerticallyScrollable, info.VerticallyScrollable)
	}
	if caps.Selection != nil {
		update(&r, PropertySelectionCanSelectMultiple, &s.CanSelectMultiple, caps.Selection.CanSelectMultiple())
		update(&r, PropertySelectionIsSelectionRequired, &s.IsSelectionRequired, caps.Selection.IsSelectionRequired())
		selection := nodesOf(caps.Selection.Selection())
		if !slices.Equal(s.Selection, selection) {
			old := s.Selection
			s.Selection = selection
			r.changed(PropertySelectionSelection, old, slices.Clone(selection))
		}
	}
	if caps.SelectionItem != nil {
		update(&r, PropertySelectionItemIsSelected, &s.IsSelected, caps.SelectionItem.IsSelected())
	}
	if caps.ExpandCollapse != nil {
		update(&r, PropertyExpandCollapseState, &s.ExpandCollapseState, caps.ExpandCollapse.ExpandCollapseState())
	}
	if caps.Value != nil {
		update(&r, PropertyValueValue, &s.Value, caps.Value.Value())
		update(&r, PropertyValueIsReadOnly, &s.ValueIsReadOnly, caps.Value.IsReadOnly())
	}

	n.state = Valid
}

// refresher carries the per-refresh notification decision.
type refresher struct {
	node   *Node
	notify bool
}

func (r *refresher) changed(property PropertyID, oldValue, newValue any) {
	if !r.notify {
		return
	}
	r.node.factory.raise(PropertyChangedEvent{
		Node:     r.node,
		Property: property,
		OldValue: oldValue,
		NewValue: newValue,
	})
}

func update[T comparable](r *refresher, property PropertyID, field *T, value T) {
	if *field == value {
		return
	}
	old := *field
	*field = value
	r.changed(property, old, value)
}

// ensureValid refreshes a snapshot that is not Valid. Tree thread only.
func (n *Node) ensureValid() {
	if n.state != Valid {
		n.refresh()
	}
}

// Snapshot returns the node's properties, refreshing them first if
// they are stale. A disposed node returns the zero Snapshot.
func (n *Node) Snapshot(ctx context.Context) (Snapshot, error) {
	return read(ctx, n, func(s *Snapshot) Snapshot { return s.clone() })
}

func read[T any](ctx context.Context, n *Node, field func(*Snapshot) T) (T, error) {
	return dispatch.Call(ctx, n.dispatcher(), func(context.Context) (T, error) {
		if n.disposed {
			var zero T
			return zero, nil
		}
		n.ensureValid()
		return field(&n.snapshot), nil
	})
}

func (n *Node) Name(ctx context.Context) (string, error) {
	return read(ctx, n, func(s *Snapshot) string { return s.Name })
}

func (n *Node) BoundingRectangle(ctx context.Context) (geometry.Rect, error) {
	return read(ctx, n, func(s *Snapshot) geometry.Rect { return s.BoundingRectangle })
}

func (n *Node) ControlType(ctx context.Context) (ControlTypeID, error) {
	return read(ctx, n, func(s *Snapshot) ControlTypeID { return s.ControlType })
}

func (n *Node) IsEnabled(ctx context.Context) (bool, error) {
	return read(ctx, n, func(s *Snapshot) bool { return s.IsEnabled })
}

func (n *Node) ToggleState(ctx context.Context) (peer.ToggleState, error) {
	return read(ctx, n, func(s *Snapshot) peer.ToggleState { return s.ToggleState })
}

func (n *Node) RangeValue(ctx context.Context) (RangeInfo, error) {
	return read(ctx, n, func(s *Snapshot) RangeInfo { return s.Range })
}

func (n *Node) ScrollInfo(ctx context.Context) (ScrollInfo, error) {
	return read(ctx, n, func(s *Snapshot) ScrollInfo { return s.Scroll })
}

func (n *Node) Selection(ctx context.Context) ([]*Node, error) {
	return read(ctx, n, func(s *Snapshot) []*Node { return slices.Clone(s.Selection) })
}

func (n *Node) IsSelected(ctx context.Context) (bool, error) {
	return read(ctx, n, func(s *Snapshot) bool { return s.IsSelected })
}

func (n *Node) ExpandCollapseState(ctx context.Context) (peer.ExpandCollapseState, error) {
	return read(ctx, n, func(s *Snapshot) peer.ExpandCollapseState { return s.ExpandCollapseState })
}

func (n *Node) Value(ctx context.Context) (string, error) {
	return read(ctx, n, func(s *Snapshot) string { return s.Value })
}

// Property returns a property by identifier, or nil when the node does
// not have it. Pattern properties are nil when the peer lacks the
// pattern.
func (n *Node) Property(ctx context.Context, id PropertyID) (any, error) {
	return dispatch.Call(ctx, n.dispatcher(), func(context.Context) (any, error) {
		if n.disposed {
			return nil, nil
		}
		switch id {
		case PropertyRuntimeID:
			return n.RuntimeID(), nil
		case PropertyProcessID:
			return os.Getpid(), nil
		case PropertyFrameworkID:
			return FrameworkID, nil
		case PropertyCulture:
			return n.factory.culture, nil
		}

		n.ensureValid()
		s := &n.snapshot
		caps := n.peer.Capabilities()
		switch id {
		case PropertyBoundingRectangle:
			return s.BoundingRectangle, nil
		case PropertyClickablePoint:
			center := s.BoundingRectangle.Center()
			return []float64{center.X, center.Y}, nil
		case PropertyClassName:
			return s.ClassName, nil
		case PropertyControlType:
			return s.ControlType, nil
		case PropertyLocalizedControlType:
			return s.LocalizedControlType, nil
		case PropertyName:
			return s.Name, nil
		case PropertyHasKeyboardFocus:
			return s.HasKeyboardFocus, nil
		case PropertyIsKeyboardFocusable:
			return s.IsKeyboardFocusable, nil
		case PropertyIsEnabled:
			return s.IsEnabled, nil
		case PropertyIsControlElement, PropertyIsContentElement:
			return s.IsControlElement, nil
		}

		value, present := patternProperty(s, caps, id)
		if !present {
			return nil, nil
		}
		return value, nil
	})
}

func patternProperty(s *Snapshot, caps peer.Capabilities, id PropertyID) (any, bool) {
	switch id {
	case PropertyToggleState:
		return s.ToggleState, caps.Toggle != nil
	case PropertyRangeValueValue:
		return s.Range.Value, caps.RangeValue != nil
	case PropertyRangeValueMinimum:
		return s.Range.Minimum, caps.RangeValue != nil
	case PropertyRangeValueMaximum:
		return s.Range.Maximum, caps.RangeValue != nil
	case PropertyRangeValueIsReadOnly:
		return s.Range.IsReadOnly, caps.RangeValue != nil
	case PropertyRangeValueLargeChange:
		return s.Range.LargeChange, caps.RangeValue != nil
	case PropertyRangeValueSmallChange:
		return s.Range.SmallChange, caps.RangeValue != nil
	case PropertyScrollHorizontalScrollPercent:
		return s.Scroll.HorizontalPercent, caps.Scroll != nil
	case PropertyScrollVerticalScrollPercent:
		return s.Scroll.VerticalPercent, caps.Scroll != nil
	case PropertyScrollHorizontalViewSize:
		return s.Scroll.HorizontalViewSize, caps.Scroll != nil
	case PropertyScrollVerticalViewSize:
		return s.Scroll.VerticalViewSize, caps.Scroll != nil
	case PropertyScrollHorizontallyScrollable:
		return s.Scroll.HorizontallyScrollable, caps.Scroll != nil
	case PropertyScrollVerticallyScrollable:
		return s.Scroll.VerticallyScrollable, caps.Scroll != nil
	case PropertySelectionSelection:
		return slices.Clone(s.Selection), caps.Selection != nil
	case PropertySelectionCanSelectMultiple:
		return s.CanSelectMultiple, caps.Selection != nil
	case PropertySelectionIsSelectionRequired:
		return s.IsSelectionRequired, caps.Selection != nil
	case PropertySelectionItemIsSelected:
		return s.IsSelected, caps.SelectionItem != nil
	case PropertyExpandCollapseState:
		return s.ExpandCollapseState, caps.ExpandCollapse != nil
	case PropertyValueValue:
		return s.Value, caps.Value != nil
	case PropertyValueIsReadOnly:
		return s.ValueIsReadOnly, caps.Value != nil
	default:
		return nil, false
	}
}

// Provider returns n when its peer backs pattern and nil otherwise.
// The check is made on every call.
func (n *Node) Provider(ctx context.Context, pattern PatternID) (*Node, error) {
	return dispatch.Call(ctx, n.dispatcher(), func(context.Context) (*Node, error) {
		if n.disposed || !supports(n.peer.Capabilities(), pattern) {
			return nil, nil
		}
		return n, nil
	})
}

// Patterns lists the patterns the node exposes.
func (n *Node) Patterns(ctx context.Context) ([]PatternID, error) {
	return dispatch.Call(ctx, n.dispatcher(), func(context.Context) ([]PatternID, error) {
		if n.disposed {
			return nil, nil
		}
		caps := n.peer.Capabilities()
		var patterns []PatternID
		for _, pattern := range Patterns {
			if supports(caps, pattern) {
				patterns = append(patterns, pattern)
			}
		}
		return patterns, nil
	})
}

// Navigate returns the neighbor in direction, or nil when there is none.
func (n *Node) Navigate(ctx context.Context, direction NavigateDirection) (*Node, error) {
	return dispatch.Call(ctx, n.dispatcher(), func(context.Context) (*Node, error) {
		if n.disposed {
			return nil, nil
		}
		switch direction {
		case NavigateParent:
			return n.parentNode(), nil
		case NavigateFirstChild:
			children := n.childNodes()
			if len(children) == 0 {
				return nil, nil
			}
			return children[0], nil
		case NavigateLastChild:
			children := n.childNodes()
			if len(children) == 0 {
				return nil, nil
			}
			return children[len(children)-1], nil
		case NavigateNextSibling:
			return n.sibling(1), nil
		case NavigatePreviousSibling:
			return n.sibling(-1), nil
		default:
			return nil, nil
		}
	})
}

// Children returns the child nodes in order.
func (n *Node) Children(ctx context.Context) ([]*Node, error) {
	return dispatch.Call(ctx, n.dispatcher(), func(context.Context) ([]*Node, error) {
		if n.disposed {
			return nil, nil
		}
		return slices.Clone(n.childNodes()), nil
	})
}

// FragmentRoot returns the root node of the tree this node is in, or
// nil when the tree has no root node.
func (n *Node) FragmentRoot(ctx context.Context) (*RootNode, error) {
	return dispatch.Call(ctx, n.dispatcher(), func(context.Context) (*RootNode, error) {
		if n.disposed {
			return nil, nil
		}
		return n.rootNode(), nil
	})
}

// AdviseEventAdded registers client interest in an event category.
func (n *Node) AdviseEventAdded(ctx context.Context, event EventID) error {
	return n.dispatcher().Invoke(ctx, func(context.Context) error {
		if n.disposed {
			return nil
		}
		switch event {
		case EventAutomationPropertyChanged:
			n.propertyInterest++
			// A subscriber needs a baseline, or the first refresh after
			// a change would have nothing to diff against.
			if n.state == Unpopulated {
				n.refresh()
			}
		case EventAutomationFocusChanged:
			n.focusInterest++
		}
		return nil
	})
}

// AdviseEventRemoved drops interest registered with AdviseEventAdded.
func (n *Node) AdviseEventRemoved(ctx context.Context, event EventID) error {
	return n.dispatcher().Invoke(ctx, func(context.Context) error {
		switch event {
		case EventAutomationPropertyChanged:
			n.propertyInterest = max(0, n.propertyInterest-1)
		case EventAutomationFocusChanged:
			n.focusInterest = max(0, n.focusInterest-1)
		}
		return nil
	})
}

// Interest returns the advise counts for property and focus events.
func (n *Node) Interest(ctx context.Context) (property, focus int, err error) {
	err = n.dispatcher().Invoke(ctx, func(context.Context) error {
		property, focus = n.propertyInterest, n.focusInterest
		return nil
	})
	return property, focus, err
}

func (n *Node) parentNode() *Node {
	if n.parentValid {
		return n.parent.Value()
	}
	parent := NodeOf(n.peer.Parent())
	if parent == nil {
		n.parent = weak.Pointer[Node]{}
	} else {
		n.parent = weak.Make(parent)
	}
	n.parentValid = true
	return parent
}

func (n *Node) childNodes() []*Node {
	if n.childrenValid {
		return n.children
	}
	n.children = nodesOf(n.peer.Children())
	n.childrenValid = true
	return n.children
}

func (n *Node) sibling(delta int) *Node {
	parent := n.parentNode()
	if parent == nil {
		return nil
	}
	siblings := parent.childNodes()
	index := slices.Index(siblings, n)
	if index < 0 {
		return nil
	}
	next := index + delta
	if next < 0 || next >= len(siblings) {
		return nil
	}
	return siblings[next]
}

// rootNode walks up the peer tree to its top and returns that peer's
// root node, if it has one.
func (n *Node) rootNode() *RootNode {
	if n.treeRootValid {
		return n.treeRoot.Value()
	}
	top := n.peer
	for parent := top.Parent(); parent != nil; parent = top.Parent() {
		top = parent
	}
	root := NodeOf(top).root
	if root == nil {
		n.treeRoot = weak.Pointer[RootNode]{}
	} else {
		n.treeRoot = weak.Make(root)
	}
	n.treeRootValid = true
	return root
}

func (n *Node) screenRectangle() geometry.Rect {
	rect := n.peer.BoundingRectangle()
	if root := n.rootNode(); root != nil {
		return root.ToScreen(rect)
	}
	return rect
}

func nodesOf(peers []*peer.Peer) []*Node {
	nodes := make([]*Node, 0, len(peers))
	for _, p := range peers {
		nodes = append(nodes, NodeOf(p))
	}
	return nodes
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/bureau-foundation/automation/focus"
	"github.com/bureau-foundation/automation/lib/clock"
	"github.com/bureau-foundation/automation/lib/dispatch"
	"github.com/bureau-foundation/automation/lib/locale"
	"github.com/bureau-foundation/automation/peer"
)

// FactoryConfig configures a Factory.
type FactoryConfig struct {
	// Dispatcher is the tree thread. Required.
	Dispatcher *dispatch.Dispatcher

	// Sink receives automation events. Nil discards them.
	Sink Sink

	// Logger receives command and lifecycle logs. Nil uses
	// slog.Default().
	Logger *slog.Logger

	// Clock stamps events. Nil uses clock.Real().
	Clock clock.Clock

	// Focus is the focus source root nodes subscribe to. Nil uses
	// focus.Default().
	Focus *focus.Manager

	// Culture is the LCID reported in the Culture property. Zero
	// resolves it from the environment with lib/locale.
	Culture int
}

// Factory creates platform nodes for peers and keeps the registry of
// live nodes. It implements peer.NodeFactory.
//
// CreateNode must be called on the tree thread (peers are only ever
// constructed there). Lookup, Nodes and Roots may be called from any
// goroutine.
type Factory struct {
	dispatcher *dispatch.Dispatcher
	sink       Sink
	logger     *slog.Logger
	clock      clock.Clock
	focus      *focus.Manager
	culture    int

	mu     sync.Mutex
	nextID int
	nodes  map[int]*Node
}

// NewFactory creates a factory and registers its idle flush with the
// dispatcher.
func NewFactory(config FactoryConfig) *Factory {
	if config.Dispatcher == nil {
		panic("platform: FactoryConfig.Dispatcher is required")
	}
	if config.Sink == nil {
		config.Sink = discardSink{}
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Focus == nil {
		config.Focus = focus.Default()
	}
	if config.Culture == 0 {
		config.Culture = locale.Current("")
	}
	f := &Factory{
		dispatcher: config.Dispatcher,
		sink:       config.Sink,
		logger:     config.Logger,
		clock:      config.Clock,
		focus:      config.Focus,
		culture:    config.Culture,
		nodes:      make(map[int]*Node),
	}
	config.Dispatcher.OnIdle(f.Flush)
	return f
}

var defaultFactory atomic.Pointer[Factory]

// DefaultFactory returns the process-wide factory, or nil before
// SetDefaultFactory has been called.
func DefaultFactory() *Factory {
	return defaultFactory.Load()
}

// SetDefaultFactory installs the process-wide factory.
func SetDefaultFactory(f *Factory) {
	defaultFactory.Store(f)
}

// Dispatcher returns the tree thread the factory's nodes run on.
func (f *Factory) Dispatcher() *dispatch.Dispatcher { return f.dispatcher }

// CreateNode creates a RootNode for peers with a Root facet and a Node
// for everything else. Callers must be on the tree thread. The node is
// complete before it becomes visible to Lookup, Nodes and Roots.
func (f *Factory) CreateNode(p *peer.Peer) peer.Node {
	node := &Node{factory: f, peer: p}
	var root *RootNode
	if provider := p.Capabilities().Root; provider != nil {
		root = newRootNode(node, provider)
	}

	f.mu.Lock()
	f.nextID++
	node.id = f.nextID
	f.nodes[node.id] = node
	f.mu.Unlock()

	if root != nil {
		f.logger.Debug("created root node", "node", node.id, "role", p.Role())
		return root
	}
	return node
}

// Lookup returns the live node with the given ID, or nil.
func (f *Factory) Lookup(id int) *Node {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nodes[id]
}

// LookupRuntimeID resolves a runtime ID as returned by Node.RuntimeID.
func (f *Factory) LookupRuntimeID(runtimeID []int) *Node {
	if len(runtimeID) != 2 || runtimeID[0] != 3 {
		return nil
	}
	return f.Lookup(runtimeID[1])
}

// Nodes returns the live nodes ordered by ID.
func (f *Factory) Nodes() []*Node {
	f.mu.Lock()
	nodes := make([]*Node, 0, len(f.nodes))
	for _, node := range f.nodes {
		nodes = append(nodes, node)
	}
	f.mu.Unlock()

	slices.SortFunc(nodes, func(a, b *Node) int { return a.id - b.id })
	return nodes
}

// Roots returns the live root nodes ordered by ID.
func (f *Factory) Roots() []*RootNode {
	var roots []*RootNode
	for _, node := range f.Nodes() {
		if node.root != nil {
			roots = append(roots, node.root)
		}
	}
	return roots
}

// Flush refreshes every stale node that has property-change interest,
// so advised clients hear about changes without polling. It runs on the
// tree thread whenever the dispatcher's queue drains.
func (f *Factory) Flush(ctx context.Context) {
	f.dispatcher.VerifyAccess(ctx)
	for _, node := range f.Nodes() {
		if node.state == Stale && node.propertyInterest > 0 {
			node.refresh()
		}
	}
}

func (f *Factory) unregister(node *Node) {
	f.mu.Lock()
	delete(f.nodes, node.id)
	f.mu.Unlock()
}

func (f *Factory) raise(event Event) {
	now := f.clock.Now()
	switch e := event.(type) {
	case PropertyChangedEvent:
		e.Timestamp = now
		event = e
	case StructureChangedEvent:
		e.Timestamp = now
		event = e
	case FocusChangedEvent:
		e.Timestamp = now
		event = e
	}
	f.sink.Raise(event)
}

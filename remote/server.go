// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bureau-foundation/automation/lib/clock"
	"github.com/bureau-foundation/automation/lib/codec"
	"github.com/bureau-foundation/automation/lib/dispatch"
	"github.com/bureau-foundation/automation/lib/service"
	"github.com/bureau-foundation/automation/platform"
)

// Config configures a Server.
type Config struct {
	// Factory resolves element ids. Required.
	Factory *platform.Factory

	// Events is the log the "events" action reads. It must be the sink
	// (or one of the sinks) of Factory. Required.
	Events *EventLog

	// Logger receives per-request debug logs. Nil uses slog.Default().
	Logger *slog.Logger

	// Clock measures uptime. Nil uses clock.Real().
	Clock clock.Clock

	// Metrics records request counts and latencies. Nil records
	// nothing.
	Metrics *Metrics

	// Version is reported by "status".
	Version string
}

// Server answers automation requests from socket clients.
type Server struct {
	factory    *platform.Factory
	dispatcher *dispatch.Dispatcher
	events     *EventLog
	logger     *slog.Logger
	clock      clock.Clock
	metrics    *Metrics
	version    string
	startedAt  time.Time

	mu            sync.Mutex
	subscriptions map[string]subscription
}

type subscription struct {
	node  *platform.Node
	event platform.EventID
}

// New creates a server. Register its actions on a socket server with
// Register.
func New(config Config) *Server {
	if config.Factory == nil || config.Events == nil {
		panic("remote: Config.Factory and Config.Events are required")
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	return &Server{
		factory:       config.Factory,
		dispatcher:    config.Factory.Dispatcher(),
		events:        config.Events,
		logger:        config.Logger,
		clock:         config.Clock,
		metrics:       config.Metrics,
		version:       config.Version,
		startedAt:     config.Clock.Now(),
		subscriptions: make(map[string]subscription),
	}
}

// Register registers every action on socket.
func (s *Server) Register(socket *service.SocketServer) {
	s.handle(socket, "status", s.handleStatus)
	s.handle(socket, "roots", s.handleRoots)
	s.handle(socket, "tree", s.handleTree)
	s.handle(socket, "snapshot", s.handleSnapshot)
	s.handle(socket, "show", s.handleShow)
	s.handle(socket, "property", s.handleProperty)
	s.handle(socket, "navigate", s.handleNavigate)
	s.handle(socket, "focused", s.handleFocused)
	s.handle(socket, "element-at", s.handleElementAt)

	for _, command := range elementCommands {
		s.handle(socket, command.action, func(ctx context.Context, raw []byte) (any, error) {
			request, err := decode[elementRequest](raw)
			if err != nil {
				return nil, err
			}
			return s.command(ctx, command.action, request.Element, command.pattern, command.run)
		})
	}
	s.handle(socket, "context-menu", s.handleContextMenu)
	s.handle(socket, "set-value", s.handleSetValue)
	s.handle(socket, "set-range", s.handleSetRange)
	s.handle(socket, "scroll", s.handleScroll)
	s.handle(socket, "scroll-percent", s.handleScrollPercent)

	s.handle(socket, "advise", s.handleAdvise)
	s.handle(socket, "unadvise", s.handleUnadvise)
	s.handle(socket, "events", s.handleEvents)
}

func (s *Server) handle(socket *service.SocketServer, action string, handler service.ActionFunc) {
	socket.Handle(action, func(ctx context.Context, raw []byte) (any, error) {
		start := time.Now()
		result, err := handler(ctx, raw)
		s.metrics.request(action, start, err)
		return result, err
	})
}

// Close releases every open subscription.
func (s *Server) Close(ctx context.Context) error {
	s.mu.Lock()
	subscriptions := s.subscriptions
	s.subscriptions = make(map[string]subscription)
	s.mu.Unlock()
	s.metrics.setSubscriptions(0)

	var errs []error
	for id, sub := range subscriptions {
		if err := sub.node.AdviseEventRemoved(ctx, sub.event); err != nil {
			errs = append(errs, fmt.Errorf("releasing subscription %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

func decode[T any](raw []byte) (T, error) {
	var request T
	if err := codec.Unmarshal(raw, &request); err != nil {
		return request, fmt.Errorf("invalid request: %w", err)
	}
	return request, nil
}

func (s *Server) node(id int) (*platform.Node, error) {
	node := s.factory.Lookup(id)
	if node == nil {
		return nil, &elementError{id: id}
	}
	return node, nil
}

// --- Status ---

// Status describes the host process.
type Status struct {
	Version       string `cbor:"version" json:"version"`
	FrameworkID   string `cbor:"framework_id" json:"framework_id"`
	ProcessID     int    `cbor:"process_id" json:"process_id"`
	UptimeSeconds int    `cbor:"uptime_seconds" json:"uptime_seconds"`
	Roots         int    `cbor:"roots" json:"roots"`
	Nodes         int    `cbor:"nodes" json:"nodes"`
	LatestEvent   uint64 `cbor:"latest_event" json:"latest_event"`
	Subscriptions int    `cbor:"subscriptions" json:"subscriptions"`
}

func (s *Server) handleStatus(ctx context.Context, raw []byte) (any, error) {
	s.mu.Lock()
	subscriptions := len(s.subscriptions)
	s.mu.Unlock()
	return Status{
		Version:       s.version,
		FrameworkID:   platform.FrameworkID,
		ProcessID:     os.Getpid(),
		UptimeSeconds: int(clock.Since(s.clock, s.startedAt).Seconds()),
		Roots:         len(s.factory.Roots()),
		Nodes:         len(s.factory.Nodes()),
		LatestEvent:   s.events.Latest(),
		Subscriptions: subscriptions,
	}, nil
}

// --- Reading ---

type elementRequest struct {
	Element int `cbor:"element"`
}

type elementResponse struct {
	Element *ElementInfo `cbor:"element"`
}

type rootsResponse struct {
	Roots []ElementInfo `cbor:"roots"`
}

func (s *Server) handleRoots(ctx context.Context, raw []byte) (any, error) {
	return dispatch.Call(ctx, s.dispatcher, func(ctx context.Context) (any, error) {
		response := rootsResponse{Roots: []ElementInfo{}}
		for _, root := range s.factory.Roots() {
			info, _, err := describe(ctx, root.Node)
			if err != nil {
				return nil, err
			}
			response.Roots = append(response.Roots, info)
		}
		return response, nil
	})
}

type treeRequest struct {
	Element     int  `cbor:"element"`
	Depth       int  `cbor:"depth"`
	ControlOnly bool `cbor:"control_only"`
}

type treeResponse struct {
	Tree []TreeNode `cbor:"tree"`
}

func (s *Server) handleTree(ctx context.Context, raw []byte) (any, error) {
	request, err := decode[treeRequest](raw)
	if err != nil {
		return nil, err
	}
	tree, err := s.walkFrom(ctx, request)
	if err != nil {
		return nil, err
	}
	return treeResponse{Tree: tree}, nil
}

// walkFrom walks the tree under request.Element, or under every root
// when it is zero, in one tree-thread task.
func (s *Server) walkFrom(ctx context.Context, request treeRequest) ([]TreeNode, error) {
	var starts []*platform.Node
	if request.Element != 0 {
		node, err := s.node(request.Element)
		if err != nil {
			return nil, err
		}
		starts = append(starts, node)
	} else {
		for _, root := range s.factory.Roots() {
			starts = append(starts, root.Node)
		}
	}

	return dispatch.Call(ctx, s.dispatcher, func(ctx context.Context) ([]TreeNode, error) {
		w := &walker{controlOnly: request.ControlOnly, budget: maxTreeNodes}
		tree := []TreeNode{}
		for _, start := range starts {
			nodes, err := w.walk(ctx, start, request.Depth)
			if err != nil {
				return nil, err
			}
			tree = append(tree, nodes...)
		}
		return tree, nil
	})
}

type snapshotRequest struct {
	treeRequest
	Digest string `cbor:"digest"`
}

// TreeSnapshot is a tree with its digest. Tree is empty and Unchanged
// set when the digest matched the one the client already had.
type TreeSnapshot struct {
	Digest    string     `cbor:"digest" json:"digest"`
	Unchanged bool       `cbor:"unchanged,omitempty" json:"unchanged,omitempty"`
	Tree      []TreeNode `cbor:"tree,omitempty" json:"tree,omitempty"`
}

func (s *Server) handleSnapshot(ctx context.Context, raw []byte) (any, error) {
	request, err := decode[snapshotRequest](raw)
	if err != nil {
		return nil, err
	}
	tree, err := s.walkFrom(ctx, request.treeRequest)
	if err != nil {
		return nil, err
	}
	digest, err := Digest(tree)
	if err != nil {
		return nil, err
	}
	if digest == request.Digest {
		return TreeSnapshot{Digest: digest, Unchanged: true}, nil
	}
	return TreeSnapshot{Digest: digest, Tree: tree}, nil
}

func (s *Server) handleShow(ctx context.Context, raw []byte) (any, error) {
	request, err := decode[elementRequest](raw)
	if err != nil {
		return nil, err
	}
	node, err := s.node(request.Element)
	if err != nil {
		return nil, err
	}
	return dispatch.Call(ctx, s.dispatcher, func(ctx context.Context) (ElementDetail, error) {
		return detail(ctx, node)
	})
}

type propertyRequest struct {
	Element  int    `cbor:"element"`
	Property string `cbor:"property"`
}

func (s *Server) handleProperty(ctx context.Context, raw []byte) (any, error) {
	request, err := decode[propertyRequest](raw)
	if err != nil {
		return nil, err
	}
	id, err := platform.ParsePropertyID(request.Property)
	if err != nil {
		return nil, err
	}
	node, err := s.node(request.Element)
	if err != nil {
		return nil, err
	}
	value, err := node.Property(ctx, id)
	if err != nil {
		return nil, err
	}
	return Property{Name: id.String(), Value: wireValue(value)}, nil
}

type navigateRequest struct {
	Element   int    `cbor:"element"`
	Direction string `cbor:"direction"`
}

func (s *Server) handleNavigate(ctx context.Context, raw []byte) (any, error) {
	request, err := decode[navigateRequest](raw)
	if err != nil {
		return nil, err
	}
	direction, err := platform.ParseNavigateDirection(request.Direction)
	if err != nil {
		return nil, err
	}
	node, err := s.node(request.Element)
	if err != nil {
		return nil, err
	}
	return dispatch.Call(ctx, s.dispatcher, func(ctx context.Context) (elementResponse, error) {
		neighbor, err := node.Navigate(ctx, direction)
		if err != nil || neighbor == nil {
			return elementResponse{}, err
		}
		return describeResponse(ctx, neighbor)
	})
}

func (s *Server) handleFocused(ctx context.Context, raw []byte) (any, error) {
	return dispatch.Call(ctx, s.dispatcher, func(ctx context.Context) (elementResponse, error) {
		for _, root := range s.factory.Roots() {
			focused, err := root.Focus(ctx)
			if err != nil {
				return elementResponse{}, err
			}
			if focused != nil {
				return describeResponse(ctx, focused)
			}
		}
		return elementResponse{}, nil
	})
}

type pointRequest struct {
	X float64 `cbor:"x"`
	Y float64 `cbor:"y"`
}

// handleElementAt hit-tests a screen point against every open root,
// newest first.
func (s *Server) handleElementAt(ctx context.Context, raw []byte) (any, error) {
	request, err := decode[pointRequest](raw)
	if err != nil {
		return nil, err
	}
	roots := s.factory.Roots()
	return dispatch.Call(ctx, s.dispatcher, func(ctx context.Context) (elementResponse, error) {
		for i := len(roots) - 1; i >= 0; i-- {
			root := roots[i]
			bounds, err := root.BoundingRectangle(ctx)
			if err != nil {
				return elementResponse{}, err
			}
			if !bounds.Contains(geometryPoint(request.X, request.Y)) {
				continue
			}
			hit, err := root.ElementFromPoint(ctx, geometryPoint(request.X-bounds.X, request.Y-bounds.Y))
			if err != nil {
				return elementResponse{}, err
			}
			if hit != nil {
				return describeResponse(ctx, hit)
			}
		}
		return elementResponse{}, nil
	})
}

func describeResponse(ctx context.Context, node *platform.Node) (elementResponse, error) {
	info, _, err := describe(ctx, node)
	if err != nil {
		return elementResponse{}, err
	}
	return elementResponse{Element: &info}, nil
}

// --- Commands ---

// elementCommands are the commands that take only an element. A zero
// pattern means the command applies to every element.
var elementCommands = []struct {
	action  string
	pattern platform.PatternID
	run     func(*platform.Node, context.Context) error
}{
	{"invoke", platform.PatternInvoke, (*platform.Node).Invoke},
	{"toggle", platform.PatternToggle, (*platform.Node).Toggle},
	{"expand", platform.PatternExpandCollapse, (*platform.Node).Expand},
	{"collapse", platform.PatternExpandCollapse, (*platform.Node).Collapse},
	{"select", platform.PatternSelectionItem, (*platform.Node).Select},
	{"add-to-selection", platform.PatternSelectionItem, (*platform.Node).AddToSelection},
	{"remove-from-selection", platform.PatternSelectionItem, (*platform.Node).RemoveFromSelection},
	{"scroll-into-view", platform.PatternScrollItem, (*platform.Node).ScrollIntoView},
	{"focus", 0, (*platform.Node).SetFocus},
}

// command checks the pattern, runs the command and describes the
// element as it is afterwards.
func (s *Server) command(ctx context.Context, action string, id int, pattern platform.PatternID, run func(*platform.Node, context.Context) error) (any, error) {
	node, err := s.node(id)
	if err != nil {
		return nil, err
	}
	if pattern != 0 {
		provider, err := node.Provider(ctx, pattern)
		if err != nil {
			return nil, err
		}
		if provider == nil {
			return nil, &patternError{id: id, pattern: pattern.String()}
		}
	}
	if err := run(node, ctx); err != nil {
		s.logger.Debug("command failed", "action", action, "element", id, "error", err)
		return nil, classify(err)
	}
	s.logger.Debug("command", "action", action, "element", id)
	return dispatch.Call(ctx, s.dispatcher, func(ctx context.Context) (elementResponse, error) {
		return describeResponse(ctx, node)
	})
}

// classify gives uncoded command failures the invalid-operation code.
func classify(err error) error {
	var coded service.CodedError
	if errors.As(err, &coded) {
		return err
	}
	return &invalidOperation{err: err}
}

type contextMenuResponse struct {
	Shown bool `cbor:"shown"`
}

func (s *Server) handleContextMenu(ctx context.Context, raw []byte) (any, error) {
	request, err := decode[elementRequest](raw)
	if err != nil {
		return nil, err
	}
	node, err := s.node(request.Element)
	if err != nil {
		return nil, err
	}
	shown, err := node.ShowContextMenu(ctx)
	if err != nil {
		return nil, classify(err)
	}
	return contextMenuResponse{Shown: shown}, nil
}

type setValueRequest struct {
	Element int    `cbor:"element"`
	Value   string `cbor:"value"`
}

func (s *Server) handleSetValue(ctx context.Context, raw []byte) (any, error) {
	request, err := decode[setValueRequest](raw)
	if err != nil {
		return nil, err
	}
	return s.command(ctx, "set-value", request.Element, platform.PatternValue, func(node *platform.Node, ctx context.Context) error {
		return node.SetValue(ctx, request.Value)
	})
}

type setRangeRequest struct {
	Element int     `cbor:"element"`
	Value   float64 `cbor:"value"`
}

func (s *Server) handleSetRange(ctx context.Context, raw []byte) (any, error) {
	request, err := decode[setRangeRequest](raw)
	if err != nil {
		return nil, err
	}
	return s.command(ctx, "set-range", request.Element, platform.PatternRangeValue, func(node *platform.Node, ctx context.Context) error {
		return node.SetRangeValue(ctx, request.Value)
	})
}

type scrollRequest struct {
	Element    int    `cbor:"element"`
	Horizontal string `cbor:"horizontal"`
	Vertical   string `cbor:"vertical"`
}

func (s *Server) handleScroll(ctx context.Context, raw []byte) (any, error) {
	request, err := decode[scrollRequest](raw)
	if err != nil {
		return nil, err
	}
	horizontal, err := platform.ParseScrollAmount(request.Horizontal)
	if err != nil {
		return nil, err
	}
	vertical, err := platform.ParseScrollAmount(request.Vertical)
	if err != nil {
		return nil, err
	}
	return s.command(ctx, "scroll", request.Element, platform.PatternScroll, func(node *platform.Node, ctx context.Context) error {
		return node.Scroll(ctx, horizontal, vertical)
	})
}

// scrollPercentRequest leaves an axis unchanged when its percent is
// absent.
type scrollPercentRequest struct {
	Element    int      `cbor:"element"`
	Horizontal *float64 `cbor:"horizontal"`
	Vertical   *float64 `cbor:"vertical"`
}

func (s *Server) handleScrollPercent(ctx context.Context, raw []byte) (any, error) {
	request, err := decode[scrollPercentRequest](raw)
	if err != nil {
		return nil, err
	}
	horizontal, vertical := platform.NoScroll, platform.NoScroll
	if request.Horizontal != nil {
		horizontal = *request.Horizontal
	}
	if request.Vertical != nil {
		vertical = *request.Vertical
	}
	return s.command(ctx, "scroll-percent", request.Element, platform.PatternScroll, func(node *platform.Node, ctx context.Context) error {
		return node.SetScrollPercent(ctx, horizontal, vertical)
	})
}

// --- Events ---

// adviseEvents maps the event names clients use to categories.
var adviseEvents = map[string]platform.EventID{
	"property": platform.EventAutomationPropertyChanged,
	"focus":    platform.EventAutomationFocusChanged,
}

type adviseRequest struct {
	Element int    `cbor:"element"`
	Event   string `cbor:"event"`
}

type adviseResponse struct {
	Subscription string `cbor:"subscription"`
}

func (s *Server) handleAdvise(ctx context.Context, raw []byte) (any, error) {
	request, err := decode[adviseRequest](raw)
	if err != nil {
		return nil, err
	}
	event, ok := adviseEvents[request.Event]
	if !ok {
		return nil, fmt.Errorf("unknown event %q (want property or focus)", request.Event)
	}
	node, err := s.node(request.Element)
	if err != nil {
		return nil, err
	}
	if event == platform.EventAutomationFocusChanged && node.AsRoot() == nil {
		return nil, fmt.Errorf("element %d is not a root: focus events are advised on roots", request.Element)
	}
	if err := node.AdviseEventAdded(ctx, event); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.subscriptions[id] = subscription{node: node, event: event}
	count := len(s.subscriptions)
	s.mu.Unlock()
	s.metrics.setSubscriptions(count)
	s.logger.Debug("advised", "subscription", id, "element", request.Element, "event", event)
	return adviseResponse{Subscription: id}, nil
}

type unadviseRequest struct {
	Subscription string `cbor:"subscription"`
}

func (s *Server) handleUnadvise(ctx context.Context, raw []byte) (any, error) {
	request, err := decode[unadviseRequest](raw)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	sub, ok := s.subscriptions[request.Subscription]
	delete(s.subscriptions, request.Subscription)
	count := len(s.subscriptions)
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown subscription %q", request.Subscription)
	}
	s.metrics.setSubscriptions(count)
	return nil, sub.node.AdviseEventRemoved(ctx, sub.event)
}

// maxEventWait bounds how long an "events" call may block, well inside
// the client's response timeout.
const maxEventWait = 25 * time.Second

type eventsRequest struct {
	After  uint64 `cbor:"after"`
	Limit  int    `cbor:"limit"`
	WaitMS int    `cbor:"wait_ms"`
}

// EventBatch is a page of the event log. Dropped counts events lost to
// the ring before they could be read.
type EventBatch struct {
	Events  []EventRecord `cbor:"events" json:"events"`
	Last    uint64        `cbor:"last" json:"last"`
	Dropped uint64        `cbor:"dropped,omitempty" json:"dropped,omitempty"`
}

func (s *Server) handleEvents(ctx context.Context, raw []byte) (any, error) {
	request, err := decode[eventsRequest](raw)
	if err != nil {
		return nil, err
	}
	if request.WaitMS > 0 {
		wait := min(time.Duration(request.WaitMS)*time.Millisecond, maxEventWait)
		waitCtx, cancel := context.WithTimeout(ctx, wait)
		err := s.events.Wait(waitCtx, request.After)
		cancel()
		if err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	records, last, dropped := s.events.Since(request.After, request.Limit)
	if records == nil {
		records = []EventRecord{}
	}
	return EventBatch{Events: records, Last: last, Dropped: dropped}, nil
}

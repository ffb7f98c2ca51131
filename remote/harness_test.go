// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bureau-foundation/automation/focus"
	"github.com/bureau-foundation/automation/layout"
	"github.com/bureau-foundation/automation/lib/clock"
	"github.com/bureau-foundation/automation/lib/dispatch"
	"github.com/bureau-foundation/automation/lib/service"
	"github.com/bureau-foundation/automation/lib/testutil"
	"github.com/bureau-foundation/automation/platform"
)

// harness runs the demo layout behind a remote server on a real
// socket.
type harness struct {
	dispatcher *dispatch.Dispatcher
	factory    *platform.Factory
	tree       *layout.Tree
	events     *EventLog
	metrics    *Metrics
	server     *Server
	client     *service.ServiceClient
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fakeClock := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	dispatcher := dispatch.New(dispatch.Config{Logger: logger, Clock: fakeClock})
	manager := focus.NewManager()
	metrics := NewMetrics(prometheus.NewRegistry())
	events := NewEventLog(256, metrics)
	factory := platform.NewFactory(platform.FactoryConfig{
		Dispatcher: dispatcher,
		Sink:       events,
		Logger:     logger,
		Clock:      fakeClock,
		Focus:      manager,
		Culture:    0x0409,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go dispatcher.Run(ctx)

	h := &harness{dispatcher: dispatcher, factory: factory, events: events, metrics: metrics}
	err := dispatcher.Invoke(ctx, func(context.Context) error {
		tree, err := layout.Build(layout.Demo(), layout.Options{Focus: manager, Logger: logger})
		if err != nil {
			return err
		}
		h.tree = tree
		for _, window := range tree.Windows {
			window.PeerWith(factory)
		}
		return nil
	})
	if err != nil {
		cancel()
		t.Fatalf("building demo: %v", err)
	}

	h.server = New(Config{
		Factory: factory,
		Events:  events,
		Logger:  logger,
		Clock:   fakeClock,
		Metrics: metrics,
		Version: "test",
	})
	socketPath := filepath.Join(t.TempDir(), "automation.sock")
	socket := service.NewSocketServer(socketPath, logger)
	h.server.Register(socket)
	serveDone := make(chan error, 1)
	go func() { serveDone <- socket.Serve(ctx) }()
	h.client = service.NewServiceClient(socketPath)

	t.Cleanup(func() {
		if err := h.server.Close(context.Background()); err != nil {
			t.Errorf("Close: %v", err)
		}
		cancel()
		if err := testutil.RequireReceive(t, serveDone, testutil.DefaultTimeout, "socket shutdown"); err != nil {
			t.Errorf("Serve: %v", err)
		}
		testutil.RequireClosed(t, dispatcher.Stopped(), testutil.DefaultTimeout, "dispatcher shutdown")
	})
	h.waitReady(t)
	return h
}

// waitReady polls status until the socket accepts connections.
func (h *harness) waitReady(t *testing.T) {
	t.Helper()
	deadline := time.Now().Add(testutil.DefaultTimeout)
	for {
		var status Status
		err := h.client.Call(context.Background(), "status", nil, &status)
		if err == nil {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never became ready: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func (h *harness) call(t *testing.T, action string, fields map[string]any, result any) {
	t.Helper()
	if err := h.client.Call(context.Background(), action, fields, result); err != nil {
		t.Fatalf("%s: %v", action, err)
	}
}

// callError calls action expecting a failure and returns its code.
func (h *harness) callError(t *testing.T, action string, fields map[string]any) uint32 {
	t.Helper()
	err := h.client.Call(context.Background(), action, fields, nil)
	var serviceErr *service.ServiceError
	if !errors.As(err, &serviceErr) {
		t.Fatalf("%s: err = %v, want a service error", action, err)
	}
	return serviceErr.Code
}

// id returns the node id of the named layout element.
func (h *harness) id(t *testing.T, name string) int {
	t.Helper()
	element := h.tree.Lookup(name)
	if element == nil {
		t.Fatalf("no element named %q", name)
	}
	var id int
	err := h.dispatcher.Invoke(context.Background(), func(context.Context) error {
		id = platform.NodeOf(element.Base().PeerWith(h.factory)).ID()
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func findByName(nodes []TreeNode, name string) *TreeNode {
	for i := range nodes {
		if nodes[i].Name == name {
			return &nodes[i]
		}
		if found := findByName(nodes[i].Children, name); found != nil {
			return found
		}
	}
	return nil
}

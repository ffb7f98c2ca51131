// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
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
	"github.com/bureau-foundation/automation/remote"
)

// startHost serves the demo layout on a temporary socket and returns
// its path.
func startHost(t *testing.T) string {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fakeClock := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	dispatcher := dispatch.New(dispatch.Config{Logger: logger, Clock: fakeClock})
	manager := focus.NewManager()
	metrics := remote.NewMetrics(prometheus.NewRegistry())
	events := remote.NewEventLog(256, metrics)
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
	err := dispatcher.Invoke(ctx, func(context.Context) error {
		tree, err := layout.Build(layout.Demo(), layout.Options{Focus: manager, Logger: logger})
		if err != nil {
			return err
		}
		for _, window := range tree.Windows {
			window.PeerWith(factory)
		}
		return nil
	})
	if err != nil {
		cancel()
		t.Fatalf("building demo: %v", err)
	}

	server := remote.New(remote.Config{
		Factory: factory,
		Events:  events,
		Logger:  logger,
		Clock:   fakeClock,
		Metrics: metrics,
		Version: "test",
	})
	socketPath := filepath.Join(t.TempDir(), "automation.sock")
	socket := service.NewSocketServer(socketPath, logger)
	server.Register(socket)
	serveDone := make(chan error, 1)
	go func() { serveDone <- socket.Serve(ctx) }()

	t.Cleanup(func() {
		if err := server.Close(context.Background()); err != nil {
			t.Errorf("Close: %v", err)
		}
		cancel()
		if err := testutil.RequireReceive(t, serveDone, testutil.DefaultTimeout, "socket shutdown"); err != nil {
			t.Errorf("Serve: %v", err)
		}
		testutil.RequireClosed(t, dispatcher.Stopped(), testutil.DefaultTimeout, "dispatcher shutdown")
	})

	client := remote.NewClient(socketPath)
	deadline := time.Now().Add(testutil.DefaultTimeout)
	for {
		_, err := client.Status(context.Background())
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("host never answered: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
	return socketPath
}

// run executes the inspector with args against socketPath.
func run(t *testing.T, socketPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := rootCommand(&out).Execute(append(args, "--socket", socketPath))
	return out.String(), err
}

// mustRun is run for commands expected to succeed.
func mustRun(t *testing.T, socketPath string, args ...string) string {
	t.Helper()
	output, err := run(t, socketPath, args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, output)
	}
	return output
}

// elementID looks up the id of the element with the given name.
func elementID(t *testing.T, socketPath, name string) int {
	t.Helper()
	tree, err := remote.NewClient(socketPath).Tree(context.Background(), remote.TreeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	for _, element := range flatten(tree, "", nil) {
		if element.info.Name == name {
			return element.info.ID
		}
	}
	t.Fatalf("no element named %q", name)
	return 0
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dispatch_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/bureau-foundation/automation/lib/dispatch"
	"github.com/bureau-foundation/automation/lib/testutil"
)

func startDispatcher(t *testing.T) (*dispatch.Dispatcher, context.CancelFunc) {
	t.Helper()
	d := dispatch.New(dispatch.Config{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	ctx, cancel := context.WithCancel(context.Background())
	go d.Run(ctx)
	t.Cleanup(func() {
		cancel()
		testutil.RequireClosed(t, d.Stopped(), testutil.DefaultTimeout, "dispatcher shutdown")
	})
	return d, cancel
}

func TestInvokeRunsOnTreeThread(t *testing.T) {
	d, _ := startDispatcher(t)

	if d.CheckAccess(context.Background()) {
		t.Fatal("test goroutine must not have tree-thread access")
	}

	var sawAccess bool
	err := d.Invoke(context.Background(), func(ctx context.Context) error {
		sawAccess = d.CheckAccess(ctx)
		return nil
	})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !sawAccess {
		t.Error("task context should carry tree-thread access")
	}
}

func TestInvokeReturnsTaskError(t *testing.T) {
	d, _ := startDispatcher(t)

	sentinel := errors.New("element refused")
	err := d.Invoke(context.Background(), func(context.Context) error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Fatalf("Invoke error = %v, want %v", err, sentinel)
	}
}

func TestNestedInvokeRunsInline(t *testing.T) {
	d, _ := startDispatcher(t)

	done := make(chan int, 1)
	go func() {
		depth := 0
		_ = d.Invoke(context.Background(), func(ctx context.Context) error {
			depth++
			return d.Invoke(ctx, func(ctx context.Context) error {
				depth++
				return nil
			})
		})
		done <- depth
	}()

	if depth := testutil.RequireReceive(t, done, testutil.DefaultTimeout, "nested invoke"); depth != 2 {
		t.Errorf("depth = %d, want 2", depth)
	}
}

func TestInvokeObservesCommittedState(t *testing.T) {
	d, _ := startDispatcher(t)

	// State owned by the tree thread; the test only reads it through
	// Invoke, never directly.
	var state int
	for i := 0; i < 100; i++ {
		if err := d.Post(func(context.Context) { state++ }); err != nil {
			t.Fatalf("Post: %v", err)
		}
	}

	got, err := dispatch.Call(context.Background(), d, func(context.Context) (int, error) {
		return state, nil
	})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got != 100 {
		t.Errorf("state = %d, want 100: posted tasks must run before a later Invoke", got)
	}
}

func TestInvokePropagatesPanic(t *testing.T) {
	d, _ := startDispatcher(t)

	defer func() {
		recovered := recover()
		taskPanic, ok := recovered.(*dispatch.TaskPanic)
		if !ok {
			t.Fatalf("recovered %T (%v), want *dispatch.TaskPanic", recovered, recovered)
		}
		if taskPanic.Value != "inconsistent child" {
			t.Errorf("panic value = %v", taskPanic.Value)
		}
	}()

	_ = d.Invoke(context.Background(), func(context.Context) error {
		panic("inconsistent child")
	})
	t.Fatal("Invoke should have panicked")
}

func TestInvokeAfterShutdown(t *testing.T) {
	d, cancel := startDispatcher(t)
	cancel()
	testutil.RequireClosed(t, d.Stopped(), testutil.DefaultTimeout, "dispatcher shutdown")

	err := d.Invoke(context.Background(), func(context.Context) error { return nil })
	if !errors.Is(err, dispatch.ErrClosed) {
		t.Fatalf("Invoke after shutdown = %v, want ErrClosed", err)
	}
	if err := d.Post(func(context.Context) {}); !errors.Is(err, dispatch.ErrClosed) {
		t.Fatalf("Post after shutdown = %v, want ErrClosed", err)
	}
}

func TestQueuedBeforeRun(t *testing.T) {
	d := dispatch.New(dispatch.Config{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	result := make(chan error, 1)
	go func() {
		result <- d.Invoke(context.Background(), func(context.Context) error { return nil })
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		<-d.Stopped()
	}()
	go d.Run(ctx)

	if err := testutil.RequireReceive(t, result, testutil.DefaultTimeout, "queued invoke"); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
}

func TestIdleHookRunsAfterDrain(t *testing.T) {
	d, _ := startDispatcher(t)

	idle := make(chan bool, 16)
	d.OnIdle(func(ctx context.Context) {
		select {
		case idle <- d.CheckAccess(ctx):
		default:
		}
	})

	if err := d.Invoke(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	if access := testutil.RequireReceive(t, idle, testutil.DefaultTimeout, "idle hook"); !access {
		t.Error("idle hook context should carry tree-thread access")
	}
}

func TestVerifyAccessPanicsOffThread(t *testing.T) {
	d, _ := startDispatcher(t)

	defer func() {
		if recover() == nil {
			t.Error("VerifyAccess should panic off the tree thread")
		}
	}()
	d.VerifyAccess(context.Background())
}

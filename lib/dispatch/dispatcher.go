// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bureau-foundation/automation/lib/clock"
)

// ErrClosed is returned for work submitted to, or still queued on, a
// dispatcher whose Run loop has exited.
var ErrClosed = errors.New("dispatch: dispatcher closed")

// TaskPanic carries a panic from the tree thread back to the goroutine
// that was waiting on the task.
type TaskPanic struct {
	Value any
	Stack []byte
}

func (p *TaskPanic) Error() string {
	return fmt.Sprintf("dispatch: task panicked: %v", p.Value)
}

// Config configures a Dispatcher.
type Config struct {
	// Logger receives lifecycle and failure logs. Nil uses slog.Default().
	Logger *slog.Logger

	// Clock measures queue wait and execution time. Nil uses clock.Real().
	Clock clock.Clock

	// Metrics, when non-nil, records queue depth and latencies.
	Metrics *Metrics
}

// Dispatcher is the tree thread. Create one with New and start it with
// Run on a dedicated goroutine.
type Dispatcher struct {
	logger  *slog.Logger
	clock   clock.Clock
	metrics *Metrics

	mu     sync.Mutex
	queue  []*task
	closed bool
	idle   []func(context.Context)

	// wake has capacity 1; enqueue drops the signal if one is pending.
	wake    chan struct{}
	running atomic.Bool
	stopped chan struct{}
}

type task struct {
	run      func(context.Context) error
	queuedAt time.Time

	// done is nil for posted tasks. It is closed after err and panic
	// have been recorded.
	done       chan struct{}
	err        error
	panicked   bool
	panicValue any
	stack      []byte
}

type accessKey struct{}

// New creates a dispatcher. Tasks may be queued before Run starts; they
// execute once it does.
func New(config Config) *Dispatcher {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	return &Dispatcher{
		logger:  config.Logger,
		clock:   config.Clock,
		metrics: config.Metrics,
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
}

// CheckAccess reports whether ctx belongs to a task currently running on
// this dispatcher's tree thread.
func (d *Dispatcher) CheckAccess(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	owner, _ := ctx.Value(accessKey{}).(*Dispatcher)
	return owner == d
}

// VerifyAccess panics unless ctx belongs to the tree thread.
func (d *Dispatcher) VerifyAccess(ctx context.Context) {
	if !d.CheckAccess(ctx) {
		panic("dispatch: call must be made on the tree thread")
	}
}

// OnIdle registers fn to run on the tree thread each time the queue
// drains after executing at least one task. Idle hooks are how the
// update cycle refreshes stale state without a client asking for it.
func (d *Dispatcher) OnIdle(fn func(context.Context)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.idle = append(d.idle, fn)
}

// Invoke runs fn on the tree thread and returns its error. When ctx
// already belongs to the tree thread fn runs inline; otherwise the call
// is queued and the calling goroutine blocks until fn has returned.
// ctx is not consulted for cancellation.
func (d *Dispatcher) Invoke(ctx context.Context, fn func(context.Context) error) error {
	if d.CheckAccess(ctx) {
		d.metrics.observeCall(callInline)
		return fn(ctx)
	}

	t := &task{
		run:      fn,
		queuedAt: d.clock.Now(),
		done:     make(chan struct{}),
	}
	if err := d.enqueue(t); err != nil {
		return err
	}
	d.metrics.observeCall(callMarshaled)

	<-t.done

	if t.panicked {
		panic(&TaskPanic{Value: t.panicValue, Stack: t.stack})
	}
	return t.err
}

// Call is Invoke for callbacks that produce a value.
func Call[T any](ctx context.Context, d *Dispatcher, fn func(context.Context) (T, error)) (T, error) {
	var result T
	err := d.Invoke(ctx, func(ctx context.Context) error {
		var err error
		result, err = fn(ctx)
		return err
	})
	return result, err
}

// Post queues fn without waiting for it. Element mutation sources use
// Post to hand work to the tree thread.
func (d *Dispatcher) Post(fn func(context.Context)) error {
	d.metrics.observeCall(callPosted)
	return d.enqueue(&task{
		run: func(ctx context.Context) error {
			fn(ctx)
			return nil
		},
		queuedAt: d.clock.Now(),
	})
}

// Stopped is closed when Run has returned.
func (d *Dispatcher) Stopped() <-chan struct{} {
	return d.stopped
}

// Run serves the queue until ctx is cancelled. Work still queued at
// that point fails with ErrClosed. Run may be called once.
func (d *Dispatcher) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return errors.New("dispatch: Run called more than once")
	}
	defer close(d.stopped)

	treeContext := context.WithValue(ctx, accessKey{}, d)
	d.logger.Debug("tree thread started")

	executed := false
	for {
		if t := d.next(); t != nil {
			d.execute(treeContext, t)
			executed = true
			continue
		}

		if executed {
			executed = false
			d.runIdle(treeContext)
			continue
		}

		select {
		case <-ctx.Done():
			abandoned := d.shutdown()
			d.logger.Debug("tree thread stopped", "abandoned_tasks", abandoned)
			return nil
		case <-d.wake:
		}
	}
}

func (d *Dispatcher) enqueue(t *task) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	d.queue = append(d.queue, t)
	depth := len(d.queue)
	d.mu.Unlock()

	d.metrics.setDepth(depth)

	select {
	case d.wake <- struct{}{}:
	default:
	}
	return nil
}

func (d *Dispatcher) next() *task {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.queue) == 0 {
		return nil
	}
	t := d.queue[0]
	d.queue[0] = nil
	d.queue = d.queue[1:]
	d.metrics.setDepth(len(d.queue))
	return t
}

func (d *Dispatcher) execute(ctx context.Context, t *task) {
	started := d.clock.Now()
	d.metrics.observeWait(started.Sub(t.queuedAt))

	func() {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			d.metrics.observePanic()
			if t.done == nil {
				d.logger.Error("posted task panicked on the tree thread",
					"panic", recovered,
					"stack", string(debug.Stack()),
				)
				panic(recovered)
			}
			t.panicked = true
			t.panicValue = recovered
			t.stack = debug.Stack()
		}()
		t.err = t.run(ctx)
	}()

	d.metrics.observeRun(clock.Since(d.clock, started))

	if t.done != nil {
		close(t.done)
		return
	}
	if t.err != nil {
		d.logger.Error("posted task failed", "error", t.err)
	}
}

func (d *Dispatcher) runIdle(ctx context.Context) {
	d.mu.Lock()
	hooks := make([]func(context.Context), len(d.idle))
	copy(hooks, d.idle)
	d.mu.Unlock()

	for _, hook := range hooks {
		hook(ctx)
	}
}

// shutdown closes the queue and fails everything left in it. Returns the
// number of abandoned tasks.
func (d *Dispatcher) shutdown() int {
	d.mu.Lock()
	d.closed = true
	remaining := d.queue
	d.queue = nil
	d.mu.Unlock()

	d.metrics.setDepth(0)

	for _, t := range remaining {
		if t.done != nil {
			t.err = ErrClosed
			close(t.done)
		}
	}
	return len(remaining)
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package dispatch implements the tree thread: a single goroutine that
// owns every automation peer, every element, and every bridge node.
//
// A [Dispatcher] serves a FIFO task queue. Code running on the tree
// thread receives a context produced by the dispatcher; [Dispatcher.CheckAccess]
// recognizes that context and [Dispatcher.Invoke] runs the callback
// inline. Any other caller enqueues a closure and blocks until the tree
// thread has executed it, which makes every external call synchronous
// and atomic with respect to tree state.
//
// Once a call is enqueued it cannot be cancelled: if the tree thread
// never gets to it (a deadlocked UI), the caller blocks. Accessibility
// clients are not a hot path and prefer a late answer to a torn read.
//
// Tasks run in enqueue order. Two calls from different goroutines are
// ordered by the tree thread, not by their callers.
//
// A panic inside a marshaled task is captured and re-raised in the
// calling goroutine as a *TaskPanic. A panic inside a posted task has no
// caller to return to and crashes the tree thread.
//
// Tree-thread contexts must not escape the task they were handed to:
// a goroutine holding one would be treated as the tree thread.
package dispatch

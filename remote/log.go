// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"context"
	"sync"
	"time"

	"github.com/bureau-foundation/automation/platform"
)

// EventLog keeps the most recent automation events in a fixed-size
// ring. It implements platform.Sink. Sequence numbers start at 1 and
// increase by one per event.
type EventLog struct {
	mu       sync.Mutex
	records  []EventRecord
	start    int
	count    int
	next     uint64
	arrivals chan struct{}
	metrics  *Metrics
}

// NewEventLog creates a log holding up to capacity events and counting
// them in metrics, which may be nil. Panics if capacity is not
// positive.
func NewEventLog(capacity int, metrics *Metrics) *EventLog {
	if capacity <= 0 {
		panic("remote: event log capacity must be positive")
	}
	return &EventLog{
		records:  make([]EventRecord, capacity),
		next:     1,
		arrivals: make(chan struct{}),
		metrics:  metrics,
	}
}

// Raise records event. It is called on the tree thread and only takes
// the log's lock.
func (l *EventLog) Raise(event platform.Event) {
	record := recordOf(event)
	l.metrics.event(record.Category)

	l.mu.Lock()
	defer l.mu.Unlock()
	record.Sequence = l.next
	l.next++
	capacity := len(l.records)
	if l.count < capacity {
		l.records[(l.start+l.count)%capacity] = record
		l.count++
	} else {
		l.records[l.start] = record
		l.start = (l.start + 1) % capacity
	}
	close(l.arrivals)
	l.arrivals = make(chan struct{})
}

func recordOf(event platform.Event) EventRecord {
	record := EventRecord{
		Time:     event.Time().UTC().Format(time.RFC3339Nano),
		Category: event.Category().String(),
	}
	if source := event.Source(); source != nil {
		record.Element = source.ID()
	}
	switch e := event.(type) {
	case platform.PropertyChangedEvent:
		record.Property = e.Property.String()
		record.Old = wireValue(e.OldValue)
		record.New = wireValue(e.NewValue)
	case platform.FocusChangedEvent:
		if e.Focused != nil {
			record.Focused = e.Focused.ID()
		}
	case platform.StructureChangedEvent:
		record.Change = e.Change.String()
	}
	return record
}

// Since returns up to limit events with sequence numbers above after,
// oldest first. Zero limit means no limit. last is the sequence of the
// newest event returned, or after when none were. dropped counts the
// events after after that were overwritten before this call.
func (l *EventLog) Since(after uint64, limit int) (records []EventRecord, last uint64, dropped uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	last = after
	if l.count == 0 {
		return nil, last, 0
	}
	oldest := l.next - uint64(l.count)
	if after+1 < oldest {
		dropped = oldest - after - 1
		after = oldest - 1
		last = after
	}
	capacity := len(l.records)
	for sequence := after + 1; sequence < l.next; sequence++ {
		if limit > 0 && len(records) == limit {
			break
		}
		index := (l.start + int(sequence-oldest)) % capacity
		records = append(records, l.records[index])
		last = sequence
	}
	return records, last, dropped
}

// Latest returns the sequence number of the newest event, or zero.
func (l *EventLog) Latest() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.next - 1
}

// Len returns the number of events held.
func (l *EventLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Wait blocks until an event newer than after exists or ctx is done.
func (l *EventLog) Wait(ctx context.Context, after uint64) error {
	for {
		l.mu.Lock()
		if l.next-1 > after {
			l.mu.Unlock()
			return nil
		}
		arrivals := l.arrivals
		l.mu.Unlock()

		select {
		case <-arrivals:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

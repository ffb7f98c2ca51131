// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bureau-foundation/automation/lib/testutil"
	"github.com/bureau-foundation/automation/platform"
)

func nameChange(value string) platform.PropertyChangedEvent {
	return platform.PropertyChangedEvent{
		Property:  platform.PropertyName,
		NewValue:  value,
		Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestEventLogRing(t *testing.T) {
	log := NewEventLog(3, nil)
	for _, value := range []string{"a", "b", "c", "d", "e"} {
		log.Raise(nameChange(value))
	}
	if log.Len() != 3 || log.Latest() != 5 {
		t.Fatalf("Len = %d, Latest = %d; want 3, 5", log.Len(), log.Latest())
	}

	records, last, dropped := log.Since(0, 0)
	if len(records) != 3 || records[0].Sequence != 3 || records[0].New != "c" || last != 5 || dropped != 2 {
		t.Errorf("Since(0) = %+v, last %d, dropped %d", records, last, dropped)
	}
	if records[0].Category != platform.EventAutomationPropertyChanged.String() || records[0].Property != "Name" {
		t.Errorf("record = %+v", records[0])
	}

	records, last, dropped = log.Since(3, 1)
	if len(records) != 1 || records[0].Sequence != 4 || last != 4 || dropped != 0 {
		t.Errorf("Since(3, 1) = %+v, last %d, dropped %d", records, last, dropped)
	}

	records, last, _ = log.Since(5, 0)
	if len(records) != 0 || last != 5 {
		t.Errorf("Since(latest) = %+v, last %d", records, last)
	}
}

func TestEventLogWait(t *testing.T) {
	log := NewEventLog(4, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := log.Wait(ctx, 0); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait on an empty log: err = %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- log.Wait(context.Background(), 0) }()
	log.Raise(nameChange("x"))
	if err := testutil.RequireReceive(t, done, testutil.DefaultTimeout, "Wait after Raise"); err != nil {
		t.Errorf("Wait: %v", err)
	}

	if err := log.Wait(context.Background(), 0); err != nil {
		t.Errorf("Wait with an event already logged: %v", err)
	}
}

func TestEventLogRejectsZeroCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewEventLog(0) did not panic")
		}
	}()
	NewEventLog(0, nil)
}

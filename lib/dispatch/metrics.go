// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	callInline    = "inline"
	callMarshaled = "marshaled"
	callPosted    = "posted"
)

// Metrics holds the dispatcher's Prometheus collectors. A nil *Metrics
// records nothing.
type Metrics struct {
	queueDepth prometheus.Gauge
	calls      *prometheus.CounterVec
	wait       prometheus.Histogram
	run        prometheus.Histogram
	panics     prometheus.Counter
}

// NewMetrics creates the collectors and registers them with registerer.
// A nil registerer leaves them unregistered, which is what tests want.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "automation",
			Subsystem: "dispatch",
			Name:      "queue_depth",
			Help:      "Tasks waiting for the tree thread.",
		}),
		calls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "automation",
			Subsystem: "dispatch",
			Name:      "calls_total",
			Help:      "Calls into the dispatcher by mode (inline, marshaled, posted).",
		}, []string{"mode"}),
		wait: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "automation",
			Subsystem: "dispatch",
			Name:      "queue_wait_seconds",
			Help:      "Time a task spent queued before the tree thread picked it up.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		run: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "automation",
			Subsystem: "dispatch",
			Name:      "task_seconds",
			Help:      "Time the tree thread spent executing a task.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		panics: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "automation",
			Subsystem: "dispatch",
			Name:      "task_panics_total",
			Help:      "Tasks that panicked on the tree thread.",
		}),
	}
}

func (m *Metrics) observeCall(mode string) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(mode).Inc()
}

func (m *Metrics) setDepth(depth int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(depth))
}

func (m *Metrics) observeWait(d time.Duration) {
	if m == nil {
		return
	}
	m.wait.Observe(d.Seconds())
}

func (m *Metrics) observeRun(d time.Duration) {
	if m == nil {
		return
	}
	m.run.Observe(d.Seconds())
}

func (m *Metrics) observePanic() {
	if m == nil {
		return
	}
	m.panics.Inc()
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the remote server's Prometheus collectors. A nil
// *Metrics records nothing.
type Metrics struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	subscriptions prometheus.Gauge
	events        *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with registerer.
// A nil registerer leaves them unregistered.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "automation",
			Subsystem: "remote",
			Name:      "requests_total",
			Help:      "Socket requests by action and outcome.",
		}, []string{"action", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "automation",
			Subsystem: "remote",
			Name:      "request_seconds",
			Help:      "Time spent handling a socket request.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"action"}),
		subscriptions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "automation",
			Subsystem: "remote",
			Name:      "subscriptions",
			Help:      "Open event subscriptions.",
		}),
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "automation",
			Subsystem: "remote",
			Name:      "events_total",
			Help:      "Automation events logged by category.",
		}, []string{"category"}),
	}
}

func (m *Metrics) request(action string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.requests.WithLabelValues(action, outcome).Inc()
	m.duration.WithLabelValues(action).Observe(time.Since(start).Seconds())
}

func (m *Metrics) setSubscriptions(count int) {
	if m == nil {
		return
	}
	m.subscriptions.Set(float64(count))
}

func (m *Metrics) event(category string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(category).Inc()
}

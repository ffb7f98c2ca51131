// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bureau-foundation/automation/focus"
	"github.com/bureau-foundation/automation/layout"
	"github.com/bureau-foundation/automation/lib/config"
	"github.com/bureau-foundation/automation/lib/dispatch"
	"github.com/bureau-foundation/automation/lib/locale"
	"github.com/bureau-foundation/automation/lib/service"
	"github.com/bureau-foundation/automation/lib/version"
	"github.com/bureau-foundation/automation/platform"
	"github.com/bureau-foundation/automation/remote"
)

// shutdownTimeout bounds how long the metrics listener may take to
// drain on shutdown.
const shutdownTimeout = 5 * time.Second

// host owns every long-lived piece of the process.
type host struct {
	config   *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry

	dispatcher *dispatch.Dispatcher
	factory    *platform.Factory
	focus      *focus.Manager
	events     *remote.EventLog
	server     *remote.Server
	socket     *service.SocketServer

	// tree is set once the layout has been built.
	tree *layout.Tree

	// metricsAddr is the metrics listener's bound address, set by run.
	metricsAddr chan net.Addr
}

func newHost(cfg *config.Config, logger *slog.Logger) *host {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	dispatcher := dispatch.New(dispatch.Config{
		Logger:  logger.With("component", "dispatch"),
		Metrics: dispatch.NewMetrics(registry),
	})
	remoteMetrics := remote.NewMetrics(registry)
	events := remote.NewEventLog(cfg.Automation.EventLogCapacity, remoteMetrics)
	manager := focus.NewManager()
	factory := platform.NewFactory(platform.FactoryConfig{
		Dispatcher: dispatcher,
		Sink:       events,
		Logger:     logger.With("component", "platform"),
		Focus:      manager,
		Culture:    locale.Current(cfg.Automation.Culture),
	})
	platform.SetDefaultFactory(factory)

	server := remote.New(remote.Config{
		Factory: factory,
		Events:  events,
		Logger:  logger.With("component", "remote"),
		Metrics: remoteMetrics,
		Version: version.Info(),
	})
	socket := service.NewSocketServer(cfg.Host.SocketPath, logger.With("component", "socket"))
	server.Register(socket)

	return &host{
		config:      cfg,
		logger:      logger,
		registry:    registry,
		dispatcher:  dispatcher,
		factory:     factory,
		focus:       manager,
		events:      events,
		server:      server,
		socket:      socket,
		metricsAddr: make(chan net.Addr, 1),
	}
}

// run builds the layout, serves until ctx is done and shuts down.
func (h *host) run(ctx context.Context) error {
	document, err := h.loadDocument()
	if err != nil {
		return err
	}

	treeCtx, stopTree := context.WithCancel(context.Background())
	defer stopTree()
	go h.dispatcher.Run(treeCtx)
	defer func() {
		stopTree()
		<-h.dispatcher.Stopped()
	}()

	err = h.dispatcher.Invoke(ctx, func(context.Context) error {
		tree, err := h.build(document)
		h.tree = tree
		return err
	})
	if err != nil {
		return fmt.Errorf("building layout: %w", err)
	}

	var metricsServer *http.Server
	if address := h.config.Host.MetricsAddress; address != "" {
		listener, err := net.Listen("tcp", address)
		if err != nil {
			return fmt.Errorf("metrics listener: %w", err)
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{}))
		metricsServer = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		h.metricsAddr <- listener.Addr()
		go func() {
			if err := metricsServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				h.logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	socketDone := make(chan error, 1)
	go func() {
		socketDone <- h.socket.Serve(ctx)
	}()

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	watchDone := make(chan struct{})
	if h.config.Host.WatchLayout {
		go func() {
			defer close(watchDone)
			if err := h.watchLayout(watchCtx); err != nil {
				h.logger.Error("layout watcher stopped", "error", err)
			}
		}()
	} else {
		close(watchDone)
	}

	h.logger.Info("automation host running",
		"version", version.Short(),
		"socket", h.config.Host.SocketPath,
		"metrics", h.config.Host.MetricsAddress,
		"windows", len(h.tree.Windows),
		"elements", len(h.tree.Names()),
		"watch", h.config.Host.WatchLayout,
	)

	var serveErr error
	select {
	case <-ctx.Done():
		h.logger.Info("shutting down")
		serveErr = <-socketDone
	case serveErr = <-socketDone:
	}
	stopWatch()
	<-watchDone

	var errs []error
	if serveErr != nil {
		errs = append(errs, fmt.Errorf("socket server: %w", serveErr))
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := h.server.Close(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (h *host) loadDocument() (*layout.Document, error) {
	path := h.config.Host.LayoutPath
	if path == "" {
		return layout.Demo(), nil
	}
	document, err := layout.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading layout: %w", err)
	}
	return document, nil
}

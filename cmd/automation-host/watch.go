// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bureau-foundation/automation/layout"
)

// layoutDebounce coalesces the burst of events one editor save
// produces into a single rebuild.
const layoutDebounce = 200 * time.Millisecond

// build creates the controls for document and their automation peers.
// It runs on the tree thread.
func (h *host) build(document *layout.Document) (*layout.Tree, error) {
	tree, err := layout.Build(document, layout.Options{
		Focus:  h.focus,
		Logger: h.logger.With("component", "layout"),
	})
	if err != nil {
		return nil, err
	}
	for _, window := range tree.Windows {
		window.PeerWith(h.factory)
	}
	return tree, nil
}

// reload rebuilds the UI from the layout file. The new windows open
// before the old ones close; when the file does not build, the old UI
// stays up.
func (h *host) reload(ctx context.Context) error {
	document, err := h.loadDocument()
	if err != nil {
		return err
	}
	return h.dispatcher.Invoke(ctx, func(context.Context) error {
		tree, err := h.build(document)
		if err != nil {
			return err
		}
		old := h.tree
		h.tree = tree
		if old != nil {
			old.Close()
		}
		h.logger.Info("layout reloaded",
			"path", h.config.Host.LayoutPath,
			"windows", len(tree.Windows),
			"elements", len(tree.Names()),
		)
		return nil
	})
}

// watchLayout reloads the layout each time its file changes, until ctx
// is done. The directory is watched rather than the file: editors that
// save by renaming a temporary file over the original would otherwise
// drop the watch.
func (h *host) watchLayout(ctx context.Context) error {
	path, err := filepath.Abs(h.config.Host.LayoutPath)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating layout watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}
	h.logger.Debug("watching layout", "path", path)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(layoutDebounce)
			} else {
				timer.Reset(layoutDebounce)
			}
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			h.logger.Warn("layout watcher error", "error", err)

		case <-fire:
			fire = nil
			if err := h.reload(ctx); err != nil {
				h.logger.Error("reloading layout failed", "path", path, "error", err)
			}
		}
	}
}

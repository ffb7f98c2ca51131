// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"context"
	"time"

	"github.com/bureau-foundation/automation/lib/service"
)

// Client calls a remote server's actions with typed requests and
// results. Failures the server reports are *service.ServiceError values
// carrying the error code.
type Client struct {
	service *service.ServiceClient
}

// NewClient creates a client for the server listening on socketPath.
func NewClient(socketPath string) *Client {
	return &Client{service: service.NewServiceClient(socketPath)}
}

// SocketPath returns the socket the client connects to.
func (c *Client) SocketPath() string { return c.service.SocketPath() }

// TreeOptions selects the part of the tree to walk.
type TreeOptions struct {
	// Element is the node to start from. Zero walks every root.
	Element int
	// Depth is the number of levels to include, counting the start.
	// Zero means no limit.
	Depth int
	// ControlOnly leaves out elements that are not control elements.
	ControlOnly bool
}

func (o TreeOptions) fields() map[string]any {
	return map[string]any{
		"element":      o.Element,
		"depth":        o.Depth,
		"control_only": o.ControlOnly,
	}
}

func (c *Client) Status(ctx context.Context) (Status, error) {
	var status Status
	err := c.service.Call(ctx, "status", nil, &status)
	return status, err
}

func (c *Client) Roots(ctx context.Context) ([]ElementInfo, error) {
	var response rootsResponse
	err := c.service.Call(ctx, "roots", nil, &response)
	return response.Roots, err
}

func (c *Client) Tree(ctx context.Context, options TreeOptions) ([]TreeNode, error) {
	var response treeResponse
	err := c.service.Call(ctx, "tree", options.fields(), &response)
	return response.Tree, err
}

// Snapshot walks like Tree and also returns the tree's digest. Passing
// the digest of an earlier snapshot returns Unchanged with no tree when
// nothing differs.
func (c *Client) Snapshot(ctx context.Context, options TreeOptions, digest string) (TreeSnapshot, error) {
	fields := options.fields()
	fields["digest"] = digest
	var snapshot TreeSnapshot
	err := c.service.Call(ctx, "snapshot", fields, &snapshot)
	return snapshot, err
}

func (c *Client) Show(ctx context.Context, element int) (ElementDetail, error) {
	var detail ElementDetail
	err := c.service.Call(ctx, "show", map[string]any{"element": element}, &detail)
	return detail, err
}

// Property reads one property by name ("Name", "Toggle.ToggleState")
// or number.
func (c *Client) Property(ctx context.Context, element int, property string) (Property, error) {
	var result Property
	err := c.service.Call(ctx, "property", map[string]any{"element": element, "property": property}, &result)
	return result, err
}

// Navigate returns the neighbor in direction (parent, next, previous,
// first, last), or nil when there is none.
func (c *Client) Navigate(ctx context.Context, element int, direction string) (*ElementInfo, error) {
	return c.element(ctx, "navigate", map[string]any{"element": element, "direction": direction})
}

// Focused returns the element holding keyboard focus, or nil.
func (c *Client) Focused(ctx context.Context) (*ElementInfo, error) {
	return c.element(ctx, "focused", nil)
}

// ElementAt hit-tests a screen point. It returns nil when no open root
// contains the point.
func (c *Client) ElementAt(ctx context.Context, x, y float64) (*ElementInfo, error) {
	return c.element(ctx, "element-at", map[string]any{"x": x, "y": y})
}

// Command runs an element command that takes no arguments ("invoke",
// "toggle", "expand", "collapse", "select", "add-to-selection",
// "remove-from-selection", "scroll-into-view", "focus") and returns the
// element as it is afterwards.
func (c *Client) Command(ctx context.Context, action string, element int) (*ElementInfo, error) {
	return c.element(ctx, action, map[string]any{"element": element})
}

func (c *Client) SetValue(ctx context.Context, element int, value string) (*ElementInfo, error) {
	return c.element(ctx, "set-value", map[string]any{"element": element, "value": value})
}

func (c *Client) SetRange(ctx context.Context, element int, value float64) (*ElementInfo, error) {
	return c.element(ctx, "set-range", map[string]any{"element": element, "value": value})
}

// Scroll scrolls by amounts named as for platform.ParseScrollAmount.
// An empty amount leaves that axis alone.
func (c *Client) Scroll(ctx context.Context, element int, horizontal, vertical string) (*ElementInfo, error) {
	return c.element(ctx, "scroll", map[string]any{
		"element":    element,
		"horizontal": horizontal,
		"vertical":   vertical,
	})
}

// ScrollPercent scrolls to percentages. A nil axis is left alone.
func (c *Client) ScrollPercent(ctx context.Context, element int, horizontal, vertical *float64) (*ElementInfo, error) {
	fields := map[string]any{"element": element}
	if horizontal != nil {
		fields["horizontal"] = *horizontal
	}
	if vertical != nil {
		fields["vertical"] = *vertical
	}
	return c.element(ctx, "scroll-percent", fields)
}

// ShowContextMenu opens the element's context menu and reports whether
// it had one.
func (c *Client) ShowContextMenu(ctx context.Context, element int) (bool, error) {
	var response contextMenuResponse
	err := c.service.Call(ctx, "context-menu", map[string]any{"element": element}, &response)
	return response.Shown, err
}

// Advise registers interest in "property" events on element or "focus"
// events on a root, and returns the subscription id.
func (c *Client) Advise(ctx context.Context, element int, event string) (string, error) {
	var response adviseResponse
	err := c.service.Call(ctx, "advise", map[string]any{"element": element, "event": event}, &response)
	return response.Subscription, err
}

func (c *Client) Unadvise(ctx context.Context, subscription string) error {
	return c.service.Call(ctx, "unadvise", map[string]any{"subscription": subscription}, nil)
}

// Events reads up to limit events after sequence after, waiting up to
// wait for the first one when none is logged yet.
func (c *Client) Events(ctx context.Context, after uint64, limit int, wait time.Duration) (EventBatch, error) {
	var batch EventBatch
	err := c.service.Call(ctx, "events", map[string]any{
		"after":   after,
		"limit":   limit,
		"wait_ms": int(wait / time.Millisecond),
	}, &batch)
	return batch, err
}

func (c *Client) element(ctx context.Context, action string, fields map[string]any) (*ElementInfo, error) {
	var response elementResponse
	if err := c.service.Call(ctx, action, fields, &response); err != nil {
		return nil, err
	}
	return response.Element, nil
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"context"

	"github.com/bureau-foundation/automation/peer"
)

// command runs fn on the tree thread against the peer's capabilities.
// After fn succeeds the node refreshes in the same task, so advised
// clients see the resulting changes before the call returns. A failed
// command leaves the snapshot alone.
func (n *Node) command(ctx context.Context, op string, fn func(p *peer.Peer, caps peer.Capabilities) error) error {
	err := n.dispatcher().Invoke(ctx, func(ctx context.Context) error {
		if n.disposed {
			return nil
		}
		if err := fn(n.peer, n.peer.Capabilities()); err != nil {
			return err
		}
		n.markStale()
		n.refresh()
		return nil
	})
	if err != nil {
		n.factory.logger.Debug("automation command failed",
			"node", n.id,
			"command", op,
			"error", err,
		)
		return translate(op, err)
	}
	n.factory.logger.Debug("automation command", "node", n.id, "command", op)
	return nil
}

// Invoke triggers the element's primary action.
func (n *Node) Invoke(ctx context.Context) error {
	return n.command(ctx, "invoke", func(_ *peer.Peer, caps peer.Capabilities) error {
		if caps.Invoke == nil {
			return nil
		}
		return caps.Invoke.Invoke()
	})
}

// Toggle advances the element's toggle state.
func (n *Node) Toggle(ctx context.Context) error {
	return n.command(ctx, "toggle", func(_ *peer.Peer, caps peer.Capabilities) error {
		if caps.Toggle == nil {
			return nil
		}
		return caps.Toggle.Toggle()
	})
}

// SetRangeValue sets a range element's value.
func (n *Node) SetRangeValue(ctx context.Context, value float64) error {
	return n.command(ctx, "set range value", func(_ *peer.Peer, caps peer.Capabilities) error {
		if caps.RangeValue == nil {
			return nil
		}
		return caps.RangeValue.SetValue(value)
	})
}

// Scroll steps each axis by the given amount. The vertical step is
// applied first.
func (n *Node) Scroll(ctx context.Context, horizontal, vertical ScrollAmount) error {
	return n.command(ctx, "scroll", func(_ *peer.Peer, caps peer.Capabilities) error {
		scroller := caps.Scroll
		if scroller == nil {
			return nil
		}
		var step func() error
		switch vertical {
		case ScrollLargeDecrement:
			step = scroller.PageUp
		case ScrollSmallDecrement:
			step = scroller.LineUp
		case ScrollSmallIncrement:
			step = scroller.LineDown
		case ScrollLargeIncrement:
			step = scroller.PageDown
		}
		if step != nil {
			if err := step(); err != nil {
				return err
			}
		}

		step = nil
		switch horizontal {
		case ScrollLargeDecrement:
			step = scroller.PageLeft
		case ScrollSmallDecrement:
			step = scroller.LineLeft
		case ScrollSmallIncrement:
			step = scroller.LineRight
		case ScrollLargeIncrement:
			step = scroller.PageRight
		}
		if step != nil {
			return step()
		}
		return nil
	})
}

// SetScrollPercent scrolls to a position given as a percentage of the
// scrollable range on each axis. An axis whose percent is outside
// [0, 100] (NoScroll, for instance) keeps its offset.
func (n *Node) SetScrollPercent(ctx context.Context, horizontal, vertical float64) error {
	return n.command(ctx, "set scroll percent", func(_ *peer.Peer, caps peer.Capabilities) error {
		scroller := caps.Scroll
		if scroller == nil {
			return nil
		}
		extent := scroller.Extent()
		viewport := scroller.Viewport()
		offset := scroller.Offset()
		if inPercentRange(horizontal) {
			offset.X = (extent.Width - viewport.Width) * horizontal / 100
		}
		if inPercentRange(vertical) {
			offset.Y = (extent.Height - viewport.Height) * vertical / 100
		}
		return scroller.SetOffset(offset)
	})
}

func inPercentRange(percent float64) bool {
	return percent >= 0 && percent <= 100
}

// ScrollIntoView brings the element into view. Every node supports it.
func (n *Node) ScrollIntoView(ctx context.Context) error {
	return n.command(ctx, "scroll into view", func(p *peer.Peer, _ peer.Capabilities) error {
		p.BringIntoView()
		return nil
	})
}

// Select makes the element the only selected item of its container.
func (n *Node) Select(ctx context.Context) error {
	return n.command(ctx, "select", func(_ *peer.Peer, caps peer.Capabilities) error {
		if caps.SelectionItem == nil {
			return nil
		}
		return caps.SelectionItem.Select()
	})
}

// AddToSelection adds the element to its container's selection.
func (n *Node) AddToSelection(ctx context.Context) error {
	return n.command(ctx, "add to selection", func(_ *peer.Peer, caps peer.Capabilities) error {
		if caps.SelectionItem == nil {
			return nil
		}
		return caps.SelectionItem.AddToSelection()
	})
}

// RemoveFromSelection removes the element from its container's
// selection.
func (n *Node) RemoveFromSelection(ctx context.Context) error {
	return n.command(ctx, "remove from selection", func(_ *peer.Peer, caps peer.Capabilities) error {
		if caps.SelectionItem == nil {
			return nil
		}
		return caps.SelectionItem.RemoveFromSelection()
	})
}

// Expand shows the element's child content.
func (n *Node) Expand(ctx context.Context) error {
	return n.command(ctx, "expand", func(_ *peer.Peer, caps peer.Capabilities) error {
		if caps.ExpandCollapse == nil {
			return nil
		}
		return caps.ExpandCollapse.Expand()
	})
}

// Collapse hides the element's child content.
func (n *Node) Collapse(ctx context.Context) error {
	return n.command(ctx, "collapse", func(_ *peer.Peer, caps peer.Capabilities) error {
		if caps.ExpandCollapse == nil {
			return nil
		}
		return caps.ExpandCollapse.Collapse()
	})
}

// SetValue replaces the element's string value.
func (n *Node) SetValue(ctx context.Context, value string) error {
	return n.command(ctx, "set value", func(_ *peer.Peer, caps peer.Capabilities) error {
		if caps.Value == nil {
			return nil
		}
		return caps.Value.SetValue(value)
	})
}

// SetFocus moves keyboard focus to the element.
func (n *Node) SetFocus(ctx context.Context) error {
	return n.command(ctx, "set focus", func(p *peer.Peer, _ peer.Capabilities) error {
		p.SetFocus()
		return nil
	})
}

// ShowContextMenu opens the element's context menu and reports whether
// there was one.
func (n *Node) ShowContextMenu(ctx context.Context) (bool, error) {
	var shown bool
	err := n.command(ctx, "show context menu", func(p *peer.Peer, _ peer.Capabilities) error {
		var err error
		shown, err = p.ShowContextMenu()
		return err
	})
	return shown, err
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package control

import "github.com/bureau-foundation/automation/peer"

// peerSpec is what an element type adds to the behavior every control
// peer shares.
type peerSpec struct {
	role peer.Role

	// localizedType overrides the localized control type. Empty reports
	// the class name.
	localizedType string

	// name computes the reported name. Nil reports the declared name.
	name func() string

	// isControlElement overrides the role-based default.
	isControlElement func() bool

	// children overrides the visible visual children.
	children func(factory peer.NodeFactory) []*peer.Peer

	caps peer.Capabilities

	// changed runs after the shared owner-change handling.
	changed func(p *peer.Peer, change Change)

	// detach runs when the peer is detached.
	detach func()
}

// newPeer creates the peer of c from spec and subscribes it to c's
// property changes.
func (c *Control) newPeer(factory peer.NodeFactory, spec peerSpec) *peer.Peer {
	var cancel func()
	behavior := peer.Behavior{
		BoundingRectangle: c.boundsInRoot,
		Children: func() []*peer.Peer {
			if spec.children != nil {
				return spec.children(factory)
			}
			return c.visibleChildPeers(factory)
		},
		ClassName:        func() string { return c.kind },
		Name:             c.Name,
		HasKeyboardFocus: c.IsFocused,
		IsEnabled:        c.IsEnabled,
		IsKeyboardFocusable: func() bool {
			return c.focusable
		},
		SetFocus:        func() { c.Focus() },
		ShowContextMenu: c.showContextMenu,
		BringIntoView:   c.BringIntoView,
		ConnectToTree: func() {
			for a := c.parent; a != nil; a = a.parent {
				a.PeerWith(factory).Children()
			}
		},
		Detach: func() {
			if cancel != nil {
				cancel()
			}
			if spec.detach != nil {
				spec.detach()
			}
		},
	}
	if spec.localizedType != "" {
		behavior.LocalizedControlType = func() string { return spec.localizedType }
	}
	if spec.name != nil {
		behavior.Name = spec.name
	}
	if spec.isControlElement != nil {
		behavior.IsControlElement = spec.isControlElement
	}

	p := peer.New(factory, spec.role, behavior, spec.caps)
	cancel = c.Observe(func(change Change) {
		c.ownerChanged(p, change)
		if spec.changed != nil {
			spec.changed(p, change)
		}
	})
	return p
}

// ownerChanged keeps the peer's caches in step with its element.
func (c *Control) ownerChanged(p *peer.Peer, change Change) {
	switch change.Property {
	case PropertyVisible:
		if c.parent != nil && c.parent.peer != nil {
			c.parent.peer.InvalidateChildren()
		}
	case PropertyBounds:
		p.InvalidateProperties()
	case PropertyVisualParent:
		p.InvalidateParent()
	case PropertyVisualChildren:
		p.InvalidateChildren()
	case PropertyFocused:
		p.RaisePropertyChanged(peer.PropertyHasKeyboardFocus, change.Old, change.New)
	default:
		p.InvalidateProperties()
	}
}

func (c *Control) visibleChildPeers(factory peer.NodeFactory) []*peer.Peer {
	peers := make([]*peer.Peer, 0, len(c.children))
	for _, child := range c.children {
		if child.visible {
			peers = append(peers, child.PeerWith(factory))
		}
	}
	return peers
}

// showContextMenu opens the context menu of c or of its nearest
// ancestor that has one.
func (c *Control) showContextMenu() (bool, error) {
	if !c.IsEnabled() {
		return false, peer.ErrElementNotEnabled
	}
	for a := c; a != nil; a = a.parent {
		if a.contextMenu != nil {
			a.contextMenu.Open(c)
			return true, nil
		}
	}
	return false, nil
}

// contentName is the name of a content control: the declared name,
// then the text its content presenter shows, then the content itself.
func (c *Control) contentName(content string) string {
	if c.name != "" {
		return c.name
	}
	for _, child := range c.children {
		if text, ok := child.self.(*TextBlock); ok && text.text != "" {
			return text.text
		}
	}
	return content
}

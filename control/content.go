// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package control

import "github.com/bureau-foundation/automation/peer"

// Panel is a plain container. Its peer is not a control element, so
// clients filtering to the control view see through it.
type Panel struct {
	Control
}

// NewPanel creates an empty panel.
func NewPanel() *Panel {
	p := &Panel{}
	p.init(p, "Panel")
	return p
}

func (p *Panel) createPeer(factory peer.NodeFactory) *peer.Peer {
	return p.newPeer(factory, peerSpec{
		role:             peer.RoleNone,
		isControlElement: func() bool { return false },
	})
}

// Button raises click handlers when invoked.
type Button struct {
	Control
	content string
	clicks  []func()
}

// NewButton creates a button showing content.
func NewButton(content string) *Button {
	b := &Button{content: content}
	b.init(b, "Button")
	b.focusable = true
	return b
}

// Content returns the button's text content.
func (b *Button) Content() string { return b.content }

// SetContent replaces the button's text content.
func (b *Button) SetContent(content string) {
	if content == b.content {
		return
	}
	old := b.content
	b.content = content
	b.notify(Change{Property: PropertyContent, Old: old, New: content})
}

// OnClick registers fn to run on every click.
func (b *Button) OnClick(fn func()) { b.clicks = append(b.clicks, fn) }

// Click runs the click handlers if the button is enabled.
func (b *Button) Click() {
	if !b.IsEnabled() {
		return
	}
	for _, fn := range b.clicks {
		fn()
	}
}

func (b *Button) createPeer(factory peer.NodeFactory) *peer.Peer {
	return b.newPeer(factory, peerSpec{
		role: peer.RoleButton,
		name: func() string { return b.contentName(b.content) },
		caps: peer.Capabilities{Invoke: buttonInvoker{b}},
	})
}

type buttonInvoker struct{ button *Button }

func (i buttonInvoker) Invoke() error {
	if !i.button.IsEnabled() {
		return peer.ErrElementNotEnabled
	}
	i.button.Click()
	return nil
}

// ToggleButton is a button that holds a checked state. A three-state
// toggle button passes through indeterminate (a nil state) on its way
// back to unchecked.
type ToggleButton struct {
	Control
	content    string
	checked    *bool
	threeState bool
}

// NewToggleButton creates an unchecked toggle button.
func NewToggleButton(content string) *ToggleButton {
	t := &ToggleButton{}
	t.setup(t, "ToggleButton", content)
	return t
}

func (t *ToggleButton) setup(self Element, kind, content string) {
	t.init(self, kind)
	t.focusable = true
	t.content = content
	t.checked = boolPtr(false)
}

func boolPtr(v bool) *bool { return &v }

// Content returns the text content.
func (t *ToggleButton) Content() string { return t.content }

// IsChecked returns the checked state. Nil means indeterminate.
func (t *ToggleButton) IsChecked() *bool { return t.checked }

// SetChecked sets the checked state. Nil means indeterminate.
func (t *ToggleButton) SetChecked(checked *bool) {
	if sameState(checked, t.checked) {
		return
	}
	old := t.checked
	t.checked = checked
	t.notify(Change{Property: PropertyChecked, Old: old, New: checked})
}

func sameState(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// SetThreeState allows the indeterminate state in the toggle cycle.
func (t *ToggleButton) SetThreeState(threeState bool) { t.threeState = threeState }

// Toggle advances the state: unchecked to checked, checked to
// indeterminate when three-state and to unchecked otherwise,
// indeterminate to unchecked.
func (t *ToggleButton) Toggle() {
	switch {
	case t.checked == nil:
		t.SetChecked(boolPtr(false))
	case *t.checked && t.threeState:
		t.SetChecked(nil)
	default:
		t.SetChecked(boolPtr(!*t.checked))
	}
}

func (t *ToggleButton) createPeer(factory peer.NodeFactory) *peer.Peer {
	return t.togglePeer(factory, peer.RoleToggle, "toggle button")
}

func (t *ToggleButton) togglePeer(factory peer.NodeFactory, role peer.Role, localized string) *peer.Peer {
	return t.newPeer(factory, peerSpec{
		role:          role,
		localizedType: localized,
		name:          func() string { return t.contentName(t.content) },
		caps:          peer.Capabilities{Toggle: toggler{t}},
		changed: func(p *peer.Peer, change Change) {
			if change.Property == PropertyChecked {
				p.RaisePropertyChanged(peer.PropertyToggleState,
					peer.ToggleStateOf(change.Old.(*bool)),
					peer.ToggleStateOf(change.New.(*bool)))
			}
		},
	})
}

type toggler struct{ button *ToggleButton }

func (t toggler) ToggleState() peer.ToggleState { return peer.ToggleStateOf(t.button.checked) }

func (t toggler) Toggle() error {
	if !t.button.IsEnabled() {
		return peer.ErrElementNotEnabled
	}
	t.button.Toggle()
	return nil
}

// CheckBox is a toggle button presented as a check box.
type CheckBox struct {
	ToggleButton
}

// NewCheckBox creates an unchecked check box.
func NewCheckBox(content string) *CheckBox {
	c := &CheckBox{}
	c.setup(c, "CheckBox", content)
	return c
}

func (c *CheckBox) createPeer(factory peer.NodeFactory) *peer.Peer {
	return c.togglePeer(factory, peer.RoleCheckBox, "check box")
}

// Image shows a picture. Its name is the declared name only.
type Image struct {
	Control
	source string
}

// NewImage creates an image for source.
func NewImage(source string) *Image {
	i := &Image{source: source}
	i.init(i, "Image")
	return i
}

// Source returns the image source.
func (i *Image) Source() string { return i.source }

func (i *Image) createPeer(factory peer.NodeFactory) *peer.Peer {
	return i.newPeer(factory, peerSpec{role: peer.RoleImage})
}

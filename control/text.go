// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package control

import "github.com/bureau-foundation/automation/peer"

// TextBlock displays read-only text. Its name is its text. A text block
// generated by another element's template is part of that element and
// is not a control element of its own.
type TextBlock struct {
	Control
	text string
}

// NewTextBlock creates a text block.
func NewTextBlock(text string) *TextBlock {
	t := &TextBlock{text: text}
	t.init(t, "TextBlock")
	return t
}

// Text returns the displayed text.
func (t *TextBlock) Text() string { return t.text }

// SetText replaces the displayed text.
func (t *TextBlock) SetText(text string) {
	if text == t.text {
		return
	}
	old := t.text
	t.text = text
	t.notify(Change{Property: PropertyText, Old: old, New: text})
	if t.parent != nil {
		// Content controls name themselves after their presenter text.
		t.parent.notify(Change{Property: PropertyContent})
	}
}

func (t *TextBlock) createPeer(factory peer.NodeFactory) *peer.Peer {
	return t.newPeer(factory, peerSpec{
		role: peer.RoleText,
		name: func() string { return t.text },
		isControlElement: func() bool {
			return !t.templated
		},
	})
}

// TextBox is an editable single-line text field.
type TextBox struct {
	Control
	text     string
	readOnly bool
}

// NewTextBox creates a text box holding text.
func NewTextBox(text string) *TextBox {
	t := &TextBox{text: text}
	t.init(t, "TextBox")
	t.focusable = true
	return t
}

// Text returns the current text.
func (t *TextBox) Text() string { return t.text }

// SetText replaces the text.
func (t *TextBox) SetText(text string) {
	if text == t.text {
		return
	}
	old := t.text
	t.text = text
	t.notify(Change{Property: PropertyText, Old: old, New: text})
}

// IsReadOnly reports whether edits are refused.
func (t *TextBox) IsReadOnly() bool { return t.readOnly }

// SetReadOnly sets whether edits are refused.
func (t *TextBox) SetReadOnly(readOnly bool) {
	if readOnly == t.readOnly {
		return
	}
	t.readOnly = readOnly
	t.notify(Change{Property: PropertyReadOnly, Old: !readOnly, New: readOnly})
}

func (t *TextBox) createPeer(factory peer.NodeFactory) *peer.Peer {
	return t.newPeer(factory, peerSpec{
		role:          peer.RoleEdit,
		localizedType: "text box",
		name: func() string {
			if t.name != "" {
				return t.name
			}
			return t.text
		},
		caps: peer.Capabilities{Value: textValue{t}},
		changed: func(p *peer.Peer, change Change) {
			switch change.Property {
			case PropertyText:
				p.RaisePropertyChanged(peer.PropertyValue, change.Old, change.New)
			case PropertyReadOnly:
				p.RaisePropertyChanged(peer.PropertyValueIsReadOnly, change.Old, change.New)
			}
		},
	})
}

type textValue struct{ box *TextBox }

func (v textValue) Value() string    { return v.box.text }
func (v textValue) IsReadOnly() bool { return v.box.readOnly }

func (v textValue) SetValue(value string) error {
	if !v.box.IsEnabled() {
		return peer.ErrElementNotEnabled
	}
	if v.box.readOnly {
		return ErrReadOnly
	}
	v.box.SetText(value)
	return nil
}

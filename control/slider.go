// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package control

import (
	"math"

	"github.com/bureau-foundation/automation/peer"
)

// Slider selects a number between a minimum and a maximum. The value is
// kept within the range.
type Slider struct {
	Control
	minimum float64
	maximum float64
	value   float64
}

// NewSlider creates a slider over [minimum, maximum] at minimum.
func NewSlider(minimum, maximum float64) *Slider {
	s := &Slider{minimum: minimum, maximum: math.Max(minimum, maximum), value: minimum}
	s.init(s, "Slider")
	s.focusable = true
	return s
}

func (s *Slider) Minimum() float64 { return s.minimum }
func (s *Slider) Maximum() float64 { return s.maximum }
func (s *Slider) Value() float64   { return s.value }

// SetMinimum moves the lower bound, raising the maximum and value when
// they fall below it.
func (s *Slider) SetMinimum(minimum float64) {
	if minimum == s.minimum {
		return
	}
	old := s.minimum
	s.minimum = minimum
	s.notify(Change{Property: PropertyMinimum, Old: old, New: minimum})
	if s.maximum < minimum {
		s.SetMaximum(minimum)
	}
	s.SetValue(s.value)
}

// SetMaximum moves the upper bound, lowering the value when it exceeds
// it. A maximum below the minimum is clamped to the minimum.
func (s *Slider) SetMaximum(maximum float64) {
	maximum = math.Max(maximum, s.minimum)
	if maximum == s.maximum {
		return
	}
	old := s.maximum
	s.maximum = maximum
	s.notify(Change{Property: PropertyMaximum, Old: old, New: maximum})
	s.SetValue(s.value)
}

// SetValue sets the value, clamped to the range.
func (s *Slider) SetValue(value float64) {
	value = math.Min(math.Max(value, s.minimum), s.maximum)
	if value == s.value {
		return
	}
	old := s.value
	s.value = value
	s.notify(Change{Property: PropertyValue, Old: old, New: value})
}

func (s *Slider) createPeer(factory peer.NodeFactory) *peer.Peer {
	return s.newPeer(factory, peerSpec{
		role: peer.RoleSlider,
		caps: peer.Capabilities{RangeValue: sliderRange{s}},
		changed: func(p *peer.Peer, change Change) {
			switch change.Property {
			case PropertyMinimum:
				p.RaisePropertyChanged(peer.PropertyRangeMinimum, change.Old, change.New)
			case PropertyMaximum:
				p.RaisePropertyChanged(peer.PropertyRangeMaximum, change.Old, change.New)
			case PropertyValue:
				p.RaisePropertyChanged(peer.PropertyRangeValue, change.Old, change.New)
			}
		},
	})
}

type sliderRange struct{ slider *Slider }

func (r sliderRange) Minimum() float64 { return r.slider.minimum }
func (r sliderRange) Maximum() float64 { return r.slider.maximum }
func (r sliderRange) Value() float64   { return r.slider.value }

func (r sliderRange) SetValue(value float64) error {
	if !r.slider.IsEnabled() {
		return peer.ErrElementNotEnabled
	}
	r.slider.SetValue(value)
	return nil
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package layout

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Element kinds.
const (
	KindPanel    = "panel"
	KindButton   = "button"
	KindToggle   = "toggle"
	KindCheckBox = "checkbox"
	KindText     = "text"
	KindTextBox  = "textbox"
	KindSlider   = "slider"
	KindScroll   = "scroll"
	KindList     = "list"
	KindCombo    = "combo"
	KindTabs     = "tabs"
	KindTab      = "tab"
	KindItem     = "item"
	KindMenuItem = "menuitem"
	KindImage    = "image"
)

// Document is a parsed layout file.
type Document struct {
	Windows []Window `yaml:"windows" json:"windows"`
}

// Window is one top-level window.
type Window struct {
	Title    string    `yaml:"title" json:"title"`
	Name     string    `yaml:"name,omitempty" json:"name,omitempty"`
	Position Point     `yaml:"position" json:"position"`
	Size     Size      `yaml:"size" json:"size"`
	Children []Element `yaml:"children,omitempty" json:"children,omitempty"`
}

// Point is a position in pixels.
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Size is an extent in pixels.
type Size struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Rect is a rectangle relative to the parent element.
type Rect struct {
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Element describes one control. Which fields apply depends on Kind;
// Validate reports fields set on kinds that ignore them.
type Element struct {
	Kind    string `yaml:"kind" json:"kind"`
	Name    string `yaml:"name,omitempty" json:"name,omitempty"`
	Label   string `yaml:"label,omitempty" json:"label,omitempty"`
	Content string `yaml:"content,omitempty" json:"content,omitempty"`
	Bounds  *Rect  `yaml:"bounds,omitempty" json:"bounds,omitempty"`

	Hidden    bool  `yaml:"hidden,omitempty" json:"hidden,omitempty"`
	Disabled  bool  `yaml:"disabled,omitempty" json:"disabled,omitempty"`
	Focusable *bool `yaml:"focusable,omitempty" json:"focusable,omitempty"`

	// Toggle and check box state. Indeterminate needs ThreeState.
	Checked       *bool `yaml:"checked,omitempty" json:"checked,omitempty"`
	Indeterminate bool  `yaml:"indeterminate,omitempty" json:"indeterminate,omitempty"`
	ThreeState    bool  `yaml:"three_state,omitempty" json:"three_state,omitempty"`

	// Slider range.
	Minimum float64 `yaml:"minimum,omitempty" json:"minimum,omitempty"`
	Maximum float64 `yaml:"maximum,omitempty" json:"maximum,omitempty"`
	Value   float64 `yaml:"value,omitempty" json:"value,omitempty"`

	ReadOnly bool `yaml:"read_only,omitempty" json:"read_only,omitempty"`

	// List selection mode and the selected flag of list, combo and tab
	// items.
	Multiple bool `yaml:"multiple,omitempty" json:"multiple,omitempty"`
	Selected bool `yaml:"selected,omitempty" json:"selected,omitempty"`

	// Scroll viewer content size. Zero means the union of the children.
	Extent *Size `yaml:"extent,omitempty" json:"extent,omitempty"`

	Children    []Element `yaml:"children,omitempty" json:"children,omitempty"`
	Items       []Element `yaml:"items,omitempty" json:"items,omitempty"`
	ContextMenu []Element `yaml:"context_menu,omitempty" json:"context_menu,omitempty"`
}

// Parse decodes a layout. YAML input is decoded strictly: unknown keys
// are errors.
func Parse(data []byte) (*Document, error) {
	var document Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&document); err != nil {
		if errors.Is(err, io.EOF) {
			return &document, nil
		}
		return nil, fmt.Errorf("parsing layout: %w", err)
	}
	return &document, nil
}

// ParseJSONC strips JSONC comments and trailing commas from data, then
// decodes the result. Unknown keys are errors.
func ParseJSONC(data []byte) (*Document, error) {
	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	decoder.DisallowUnknownFields()
	var document Document
	if err := decoder.Decode(&document); err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}
	return &document, nil
}

// ReadFile reads a layout from disk. Files ending in .json or .jsonc
// are parsed as JSONC, everything else as YAML.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var document *Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		document, err = ParseJSONC(data)
	default:
		document, err = Parse(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return document, nil
}

//go:embed demo.yaml
var demoLayout []byte

// Demo returns the built-in demonstration layout: one window with one
// control of every kind.
func Demo() *Document {
	document, err := Parse(demoLayout)
	if err != nil {
		panic(fmt.Sprintf("layout: embedded demo layout: %v", err))
	}
	return document
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package peer

import "fmt"

// Property identifies an automation property a peer can report as
// changed through [Peer.RaisePropertyChanged].
type Property int

const (
	PropertyBoundingRectangle Property = iota + 1
	PropertyClassName
	PropertyLocalizedControlType
	PropertyName
	PropertyIsEnabled
	PropertyIsKeyboardFocusable
	PropertyHasKeyboardFocus
	PropertyIsControlElement

	PropertyToggleState

	PropertyRangeMinimum
	PropertyRangeMaximum
	PropertyRangeValue

	PropertyScrollHorizontalPercent
	PropertyScrollVerticalPercent
	PropertyScrollHorizontalViewSize
	PropertyScrollVerticalViewSize
	PropertyScrollHorizontallyScrollable
	PropertyScrollVerticallyScrollable

	PropertySelection
	PropertyCanSelectMultiple
	PropertyIsSelectionRequired
	PropertyIsSelected

	PropertyExpandCollapseState

	PropertyValue
	PropertyValueIsReadOnly
)

var propertyNames = map[Property]string{
	PropertyBoundingRectangle:            "BoundingRectangle",
	PropertyClassName:                    "ClassName",
	PropertyLocalizedControlType:         "LocalizedControlType",
	PropertyName:                         "Name",
	PropertyIsEnabled:                    "IsEnabled",
	PropertyIsKeyboardFocusable:          "IsKeyboardFocusable",
	PropertyHasKeyboardFocus:             "HasKeyboardFocus",
	PropertyIsControlElement:             "IsControlElement",
	PropertyToggleState:                  "ToggleState",
	PropertyRangeMinimum:                 "RangeMinimum",
	PropertyRangeMaximum:                 "RangeMaximum",
	PropertyRangeValue:                   "RangeValue",
	PropertyScrollHorizontalPercent:      "ScrollHorizontalPercent",
	PropertyScrollVerticalPercent:        "ScrollVerticalPercent",
	PropertyScrollHorizontalViewSize:     "ScrollHorizontalViewSize",
	PropertyScrollVerticalViewSize:       "ScrollVerticalViewSize",
	PropertyScrollHorizontallyScrollable: "ScrollHorizontallyScrollable",
	PropertyScrollVerticallyScrollable:   "ScrollVerticallyScrollable",
	PropertySelection:                    "Selection",
	PropertyCanSelectMultiple:            "CanSelectMultiple",
	PropertyIsSelectionRequired:          "IsSelectionRequired",
	PropertyIsSelected:                   "IsSelected",
	PropertyExpandCollapseState:          "ExpandCollapseState",
	PropertyValue:                        "Value",
	PropertyValueIsReadOnly:              "ValueIsReadOnly",
}

func (p Property) String() string {
	if name, ok := propertyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Property(%d)", int(p))
}

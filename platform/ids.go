// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"fmt"

	"github.com/bureau-foundation/automation/peer"
)

// FrameworkID is reported in the FrameworkId property of every node.
const FrameworkID = "Bureau"

// PropertyID identifies an automation property. Values match UI
// Automation property identifiers so that clients written against that
// API can use them unchanged.
type PropertyID int

const (
	PropertyRuntimeID            PropertyID = 30000
	PropertyBoundingRectangle    PropertyID = 30001
	PropertyProcessID            PropertyID = 30002
	PropertyControlType          PropertyID = 30003
	PropertyLocalizedControlType PropertyID = 30004
	PropertyName                 PropertyID = 30005
	PropertyHasKeyboardFocus     PropertyID = 30008
	PropertyIsKeyboardFocusable  PropertyID = 30009
	PropertyIsEnabled            PropertyID = 30010
	PropertyClassName            PropertyID = 30012
	PropertyClickablePoint       PropertyID = 30014
	PropertyCulture              PropertyID = 30015
	PropertyIsControlElement     PropertyID = 30016
	PropertyIsContentElement     PropertyID = 30017
	PropertyFrameworkID          PropertyID = 30024

	PropertyValueValue      PropertyID = 30045
	PropertyValueIsReadOnly PropertyID = 30046

	PropertyRangeValueValue       PropertyID = 30047
	PropertyRangeValueIsReadOnly  PropertyID = 30048
	PropertyRangeValueMinimum     PropertyID = 30049
	PropertyRangeValueMaximum     PropertyID = 30050
	PropertyRangeValueLargeChange PropertyID = 30051
	PropertyRangeValueSmallChange PropertyID = 30052

	PropertyScrollHorizontalScrollPercent PropertyID = 30053
	PropertyScrollHorizontalViewSize      PropertyID = 30054
	PropertyScrollVerticalScrollPercent   PropertyID = 30055
	PropertyScrollVerticalViewSize        PropertyID = 30056
	PropertyScrollHorizontallyScrollable  PropertyID = 30057
	PropertyScrollVerticallyScrollable    PropertyID = 30058

	PropertySelectionSelection           PropertyID = 30059
	PropertySelectionCanSelectMultiple   PropertyID = 30060
	PropertySelectionIsSelectionRequired PropertyID = 30061

	PropertyExpandCollapseState PropertyID = 30070

	PropertySelectionItemIsSelected PropertyID = 30079

	PropertyToggleState PropertyID = 30086
)

var propertyIDNames = map[PropertyID]string{
	PropertyRuntimeID:                     "RuntimeId",
	PropertyBoundingRectangle:             "BoundingRectangle",
	PropertyProcessID:                     "ProcessId",
	PropertyControlType:                   "ControlType",
	PropertyLocalizedControlType:          "LocalizedControlType",
	PropertyName:                          "Name",
	PropertyHasKeyboardFocus:              "HasKeyboardFocus",
	PropertyIsKeyboardFocusable:           "IsKeyboardFocusable",
	PropertyIsEnabled:                     "IsEnabled",
	PropertyClassName:                     "ClassName",
	PropertyClickablePoint:                "ClickablePoint",
	PropertyCulture:                       "Culture",
	PropertyIsControlElement:              "IsControlElement",
	PropertyIsContentElement:              "IsContentElement",
	PropertyFrameworkID:                   "FrameworkId",
	PropertyValueValue:                    "Value.Value",
	PropertyValueIsReadOnly:               "Value.IsReadOnly",
	PropertyRangeValueValue:               "RangeValue.Value",
	PropertyRangeValueIsReadOnly:          "RangeValue.IsReadOnly",
	PropertyRangeValueMinimum:             "RangeValue.Minimum",
	PropertyRangeValueMaximum:             "RangeValue.Maximum",
	PropertyRangeValueLargeChange:         "RangeValue.LargeChange",
	PropertyRangeValueSmallChange:         "RangeValue.SmallChange",
	PropertyScrollHorizontalScrollPercent: "Scroll.HorizontalScrollPercent",
	PropertyScrollHorizontalViewSize:      "Scroll.HorizontalViewSize",
	PropertyScrollVerticalScrollPercent:   "Scroll.VerticalScrollPercent",
	PropertyScrollVerticalViewSize:        "Scroll.VerticalViewSize",
	PropertyScrollHorizontallyScrollable:  "Scroll.HorizontallyScrollable",
	PropertyScrollVerticallyScrollable:    "Scroll.VerticallyScrollable",
	PropertySelectionSelection:            "Selection.Selection",
	PropertySelectionCanSelectMultiple:    "Selection.CanSelectMultiple",
	PropertySelectionIsSelectionRequired:  "Selection.IsSelectionRequired",
	PropertyExpandCollapseState:           "ExpandCollapse.ExpandCollapseState",
	PropertySelectionItemIsSelected:       "SelectionItem.IsSelected",
	PropertyToggleState:                   "Toggle.ToggleState",
}

// Properties lists every property identifier, in identifier order.
var Properties = []PropertyID{
	PropertyRuntimeID,
	PropertyBoundingRectangle,
	PropertyProcessID,
	PropertyControlType,
	PropertyLocalizedControlType,
	PropertyName,
	PropertyHasKeyboardFocus,
	PropertyIsKeyboardFocusable,
	PropertyIsEnabled,
	PropertyClassName,
	PropertyClickablePoint,
	PropertyCulture,
	PropertyIsControlElement,
	PropertyIsContentElement,
	PropertyFrameworkID,
	PropertyValueValue,
	PropertyValueIsReadOnly,
	PropertyRangeValueValue,
	PropertyRangeValueIsReadOnly,
	PropertyRangeValueMinimum,
	PropertyRangeValueMaximum,
	PropertyRangeValueLargeChange,
	PropertyRangeValueSmallChange,
	PropertyScrollHorizontalScrollPercent,
	PropertyScrollHorizontalViewSize,
	PropertyScrollVerticalScrollPercent,
	PropertyScrollVerticalViewSize,
	PropertyScrollHorizontallyScrollable,
	PropertyScrollVerticallyScrollable,
	PropertySelectionSelection,
	PropertySelectionCanSelectMultiple,
	PropertySelectionIsSelectionRequired,
	PropertyExpandCollapseState,
	PropertySelectionItemIsSelected,
	PropertyToggleState,
}

func (id PropertyID) String() string {
	if name, ok := propertyIDNames[id]; ok {
		return name
	}
	return fmt.Sprintf("Property(%d)", int(id))
}

// ParsePropertyID accepts a property name as printed by String, or its
// number.
func ParsePropertyID(name string) (PropertyID, error) {
	for id, idName := range propertyIDNames {
		if idName == name {
			return id, nil
		}
	}
	var number int
	if _, err := fmt.Sscanf(name, "%d", &number); err == nil {
		if _, ok := propertyIDNames[PropertyID(number)]; ok {
			return PropertyID(number), nil
		}
	}
	return 0, fmt.Errorf("unknown property %q", name)
}

// peerProperties maps the properties a peer can raise to the identifiers
// clients see.
var peerProperties = map[peer.Property]PropertyID{
	peer.PropertyBoundingRectangle:            PropertyBoundingRectangle,
	peer.PropertyClassName:                    PropertyClassName,
	peer.PropertyLocalizedControlType:         PropertyLocalizedControlType,
	peer.PropertyName:                         PropertyName,
	peer.PropertyIsEnabled:                    PropertyIsEnabled,
	peer.PropertyIsKeyboardFocusable:          PropertyIsKeyboardFocusable,
	peer.PropertyHasKeyboardFocus:             PropertyHasKeyboardFocus,
	peer.PropertyIsControlElement:             PropertyIsControlElement,
	peer.PropertyToggleState:                  PropertyToggleState,
	peer.PropertyRangeMinimum:                 PropertyRangeValueMinimum,
	peer.PropertyRangeMaximum:                 PropertyRangeValueMaximum,
	peer.PropertyRangeValue:                   PropertyRangeValueValue,
	peer.PropertyScrollHorizontalPercent:      PropertyScrollHorizontalScrollPercent,
	peer.PropertyScrollVerticalPercent:        PropertyScrollVerticalScrollPercent,
	peer.PropertyScrollHorizontalViewSize:     PropertyScrollHorizontalViewSize,
	peer.PropertyScrollVerticalViewSize:       PropertyScrollVerticalViewSize,
	peer.PropertyScrollHorizontallyScrollable: PropertyScrollHorizontallyScrollable,
	peer.PropertyScrollVerticallyScrollable:   PropertyScrollVerticallyScrollable,
	peer.PropertySelection:                    PropertySelectionSelection,
	peer.PropertyCanSelectMultiple:            PropertySelectionCanSelectMultiple,
	peer.PropertyIsSelectionRequired:          PropertySelectionIsSelectionRequired,
	peer.PropertyIsSelected:                   PropertySelectionItemIsSelected,
	peer.PropertyExpandCollapseState:          PropertyExpandCollapseState,
	peer.PropertyValue:                        PropertyValueValue,
	peer.PropertyValueIsReadOnly:              PropertyValueIsReadOnly,
}

// PatternID identifies a control pattern (a capability facet as seen by
// clients).
type PatternID int

const (
	PatternInvoke         PatternID = 10000
	PatternSelection      PatternID = 10001
	PatternValue          PatternID = 10002
	PatternRangeValue     PatternID = 10003
	PatternScroll         PatternID = 10004
	PatternExpandCollapse PatternID = 10005
	PatternSelectionItem  PatternID = 10010
	PatternToggle         PatternID = 10015
	PatternScrollItem     PatternID = 10017
)

// Patterns lists every pattern a node can expose, in identifier order.
var Patterns = []PatternID{
	PatternInvoke,
	PatternSelection,
	PatternValue,
	PatternRangeValue,
	PatternScroll,
	PatternExpandCollapse,
	PatternSelectionItem,
	PatternToggle,
	PatternScrollItem,
}

func (id PatternID) String() string {
	switch id {
	case PatternInvoke:
		return "Invoke"
	case PatternSelection:
		return "Selection"
	case PatternValue:
		return "Value"
	case PatternRangeValue:
		return "RangeValue"
	case PatternScroll:
		return "Scroll"
	case PatternExpandCollapse:
		return "ExpandCollapse"
	case PatternSelectionItem:
		return "SelectionItem"
	case PatternToggle:
		return "Toggle"
	case PatternScrollItem:
		return "ScrollItem"
	default:
		return fmt.Sprintf("Pattern(%d)", int(id))
	}
}

// supports reports whether a peer with caps backs pattern.
func supports(caps peer.Capabilities, pattern PatternID) bool {
	switch pattern {
	case PatternExpandCollapse:
		return caps.ExpandCollapse != nil
	case PatternInvoke:
		return caps.Invoke != nil
	case PatternRangeValue:
		return caps.RangeValue != nil
	case PatternScroll:
		return caps.Scroll != nil
	case PatternScrollItem:
		return true
	case PatternSelection:
		return caps.Selection != nil
	case PatternSelectionItem:
		return caps.SelectionItem != nil
	case PatternToggle:
		return caps.Toggle != nil
	case PatternValue:
		return caps.Value != nil
	default:
		return false
	}
}

// ControlTypeID is the control type reported to clients.
type ControlTypeID int

const (
	ControlTypeButton   ControlTypeID = 50000
	ControlTypeCheckBox ControlTypeID = 50002
	ControlTypeComboBox ControlTypeID = 50003
	ControlTypeEdit     ControlTypeID = 50004
	ControlTypeListItem ControlTypeID = 50007
	ControlTypeList     ControlTypeID = 50008
	ControlTypeMenu     ControlTypeID = 50009
	ControlTypeMenuItem ControlTypeID = 50011
	ControlTypeSlider   ControlTypeID = 50015
	ControlTypeTab      ControlTypeID = 50018
	ControlTypeTabItem  ControlTypeID = 50019
	ControlTypeText     ControlTypeID = 50020
	ControlTypeCustom   ControlTypeID = 50025
	ControlTypeGroup    ControlTypeID = 50026
	ControlTypeWindow   ControlTypeID = 50032
)

var controlTypeNames = map[ControlTypeID]string{
	ControlTypeButton:   "Button",
	ControlTypeCheckBox: "CheckBox",
	ControlTypeComboBox: "ComboBox",
	ControlTypeEdit:     "Edit",
	ControlTypeListItem: "ListItem",
	ControlTypeList:     "List",
	ControlTypeMenu:     "Menu",
	ControlTypeMenuItem: "MenuItem",
	ControlTypeSlider:   "Slider",
	ControlTypeTab:      "Tab",
	ControlTypeTabItem:  "TabItem",
	ControlTypeText:     "Text",
	ControlTypeCustom:   "Custom",
	ControlTypeGroup:    "Group",
	ControlTypeWindow:   "Window",
}

func (id ControlTypeID) String() string {
	if name, ok := controlTypeNames[id]; ok {
		return name
	}
	return fmt.Sprintf("ControlType(%d)", int(id))
}

// ControlTypeFor maps a peer role to the control type clients see.
func ControlTypeFor(role peer.Role) ControlTypeID {
	switch role {
	case peer.RoleButton:
		return ControlTypeButton
	case peer.RoleCheckBox:
		return ControlTypeCheckBox
	case peer.RoleComboBox:
		return ControlTypeComboBox
	case peer.RoleEdit:
		return ControlTypeEdit
	case peer.RoleGroup:
		return ControlTypeGroup
	case peer.RoleList:
		return ControlTypeList
	case peer.RoleListItem:
		return ControlTypeListItem
	case peer.RoleMenu:
		return ControlTypeMenu
	case peer.RoleMenuItem:
		return ControlTypeMenuItem
	case peer.RoleSlider:
		return ControlTypeSlider
	case peer.RoleTabControl:
		return ControlTypeTab
	case peer.RoleTabItem:
		return ControlTypeTabItem
	case peer.RoleText:
		return ControlTypeText
	case peer.RoleToggle:
		return ControlTypeButton
	case peer.RoleWindow:
		return ControlTypeWindow
	default:
		return ControlTypeCustom
	}
}

// EventID identifies an event category a client can advise.
type EventID int

const (
	EventStructureChanged          EventID = 20002
	EventAutomationPropertyChanged EventID = 20004
	EventAutomationFocusChanged    EventID = 20005
)

func (id EventID) String() string {
	switch id {
	case EventStructureChanged:
		return "StructureChanged"
	case EventAutomationPropertyChanged:
		return "PropertyChanged"
	case EventAutomationFocusChanged:
		return "FocusChanged"
	default:
		return fmt.Sprintf("Event(%d)", int(id))
	}
}

// NavigateDirection selects a neighbor in Navigate.
type NavigateDirection int

const (
	NavigateParent NavigateDirection = iota
	NavigateNextSibling
	NavigatePreviousSibling
	NavigateFirstChild
	NavigateLastChild
)

func (d NavigateDirection) String() string {
	switch d {
	case NavigateParent:
		return "parent"
	case NavigateNextSibling:
		return "next"
	case NavigatePreviousSibling:
		return "previous"
	case NavigateFirstChild:
		return "first"
	case NavigateLastChild:
		return "last"
	default:
		return fmt.Sprintf("NavigateDirection(%d)", int(d))
	}
}

// ParseNavigateDirection is the inverse of NavigateDirection.String.
func ParseNavigateDirection(name string) (NavigateDirection, error) {
	for d := NavigateParent; d <= NavigateLastChild; d++ {
		if d.String() == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q (want parent, next, previous, first or last)", name)
}

// ScrollAmount is a step in one scroll axis.
type ScrollAmount int

const (
	ScrollLargeDecrement ScrollAmount = iota
	ScrollSmallDecrement
	ScrollNoAmount
	ScrollLargeIncrement
	ScrollSmallIncrement
)

// ParseScrollAmount accepts "page-back", "line-back", "none",
// "page-forward" and "line-forward".
func ParseScrollAmount(name string) (ScrollAmount, error) {
	switch name {
	case "page-back":
		return ScrollLargeDecrement, nil
	case "line-back":
		return ScrollSmallDecrement, nil
	case "none", "":
		return ScrollNoAmount, nil
	case "page-forward":
		return ScrollLargeIncrement, nil
	case "line-forward":
		return ScrollSmallIncrement, nil
	default:
		return ScrollNoAmount, fmt.Errorf("unknown scroll amount %q", name)
	}
}

// NoScroll is reported as the scroll percent of an axis that cannot
// scroll.
const NoScroll = -1.0

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package peer

import "fmt"

// Role is the semantic kind of an element.
type Role int

const (
	RoleNone Role = iota
	RoleButton
	RoleCheckBox
	RoleComboBox
	RoleEdit
	RoleGroup
	RoleImage
	RoleList
	RoleListItem
	RoleMenu
	RoleMenuItem
	RolePane
	RoleSlider
	RoleTabControl
	RoleTabItem
	RoleText
	RoleToggle
	RoleWindow
	RoleCustom
)

var roleNames = [...]string{
	RoleNone:       "none",
	RoleButton:     "button",
	RoleCheckBox:   "checkbox",
	RoleComboBox:   "combobox",
	RoleEdit:       "edit",
	RoleGroup:      "group",
	RoleImage:      "image",
	RoleList:       "list",
	RoleListItem:   "listitem",
	RoleMenu:       "menu",
	RoleMenuItem:   "menuitem",
	RolePane:       "pane",
	RoleSlider:     "slider",
	RoleTabControl: "tabcontrol",
	RoleTabItem:    "tabitem",
	RoleText:       "text",
	RoleToggle:     "toggle",
	RoleWindow:     "window",
	RoleCustom:     "custom",
}

func (r Role) String() string {
	if r >= 0 && int(r) < len(roleNames) {
		return roleNames[r]
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// ParseRole is the inverse of Role.String.
func ParseRole(name string) (Role, error) {
	for role, roleName := range roleNames {
		if roleName == name {
			return Role(role), nil
		}
	}
	return RoleNone, fmt.Errorf("unknown role %q", name)
}

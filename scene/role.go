// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package scene

// Role of a surface. Exactly one at a time, and it decides which layer the surface lives in
type Role int

const (
	RoleUnknown = Role(iota)
	RoleTopLevel
	RoleTopLevelTool
	RolePopup
	RoleTransient
	RoleDesktop
	RoleCursor
	RoleDragIcon
	RoleLayerBackground
	RoleLayerBottom
	RoleLayerTop
	RoleLayerOverlay
	RoleMenuServer
	RoleFullscreenShell
)

var roleNames = map[Role]string{
	RoleUnknown:         "unknown",
	RoleTopLevel:        "toplevel",
	RoleTopLevelTool:    "toplevel-tool",
	RolePopup:           "popup",
	RoleTransient:       "transient",
	RoleDesktop:         "desktop",
	RoleCursor:          "cursor",
	RoleDragIcon:        "drag-icon",
	RoleLayerBackground: "layer-background",
	RoleLayerBottom:     "layer-bottom",
	RoleLayerTop:        "layer-top",
	RoleLayerOverlay:    "layer-overlay",
	RoleMenuServer:      "menu-server",
	RoleFullscreenShell: "fullscreen-shell",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "invalid"
}

// IsWindow is true for regular application windows
func (r Role) IsWindow() bool {
	return r == RoleTopLevel || r == RoleTopLevelTool
}

// IsChild is true for roles that nest below a parent surface when they have one
func (r Role) IsChild() bool {
	return r == RolePopup || r == RoleTransient
}

func (r Role) IsLayerShell() bool {
	switch r {
	case RoleLayerBackground, RoleLayerBottom, RoleLayerTop, RoleLayerOverlay:
		return true
	}
	return false
}

// DrawOnly roles are never part of a layer and never hit
func (r Role) DrawOnly() bool {
	return r == RoleCursor || r == RoleDragIcon
}

// Decoratable roles may get server side chrome
func (r Role) Decoratable() bool {
	return r.IsWindow() || r == RoleTransient
}

// Special shell objects are never raised, resized by edge or decorated
func (r Role) IsSpecial() bool {
	return r.IsLayerShell() || r == RoleDesktop || r == RoleMenuServer || r == RoleFullscreenShell || r.DrawOnly()
}

// allowedTransitions lists which roles a surface may switch to from a given role.
// Staying in the same role is always allowed and not listed
var allowedTransitions = map[Role][]Role{
	RoleTopLevel:        {RoleTopLevelTool, RoleTransient, RoleDesktop, RoleMenuServer},
	RoleTopLevelTool:    {RoleTopLevel, RoleTransient},
	RoleTransient:       {RoleTopLevel, RoleTopLevelTool},
	RoleLayerBackground: {RoleLayerBottom, RoleLayerTop, RoleLayerOverlay},
	RoleLayerBottom:     {RoleLayerBackground, RoleLayerTop, RoleLayerOverlay},
	RoleLayerTop:        {RoleLayerBackground, RoleLayerBottom, RoleLayerOverlay},
	RoleLayerOverlay:    {RoleLayerBackground, RoleLayerBottom, RoleLayerTop},
}

// CanTransition reports whether a surface with role from may take role to.
// Unknown surfaces may take any role, popups, cursors, drag icons, desktops and
// fullscreen shell surfaces keep their role for life
func CanTransition(from, to Role) bool {
	if from == to || from == RoleUnknown {
		return true
	}
	for _, r := range allowedTransitions[from] {
		if r == to {
			return true
		}
	}
	return false
}

// Layer a surface is a member of
type Layer int

const (
	LayerNone = Layer(iota)
	LayerBackground
	LayerDesktop
	LayerBottom
	LayerNormal
	LayerTop
	LayerOverlay
	LayerMenuServer
	// Member of the parent's child list
	LayerChild
	layerCount
)

var layerNames = [layerCount]string{
	"none", "background", "desktop", "bottom", "normal", "top", "overlay", "menu-server", "child",
}

func (l Layer) String() string {
	if l < 0 || l >= layerCount {
		return "invalid"
	}
	return layerNames[l]
}

// LayerForRole returns the layer a surface with the given role belongs in
func LayerForRole(r Role, hasParent bool) Layer {
	switch r {
	case RoleTopLevel, RoleTopLevelTool, RoleFullscreenShell:
		return LayerNormal
	case RolePopup, RoleTransient:
		if hasParent {
			return LayerChild
		}
		return LayerNormal
	case RoleDesktop:
		return LayerDesktop
	case RoleLayerBackground:
		return LayerBackground
	case RoleLayerBottom:
		return LayerBottom
	case RoleLayerTop:
		return LayerTop
	case RoleLayerOverlay:
		return LayerOverlay
	case RoleMenuServer:
		return LayerMenuServer
	default:
		return LayerNone
	}
}

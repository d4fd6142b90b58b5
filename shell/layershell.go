// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package shell

import (
	"github.com/sirupsen/logrus"

	generaldata "github.com/mstarongithub/way2gay/general-data"
	"github.com/mstarongithub/way2gay/scene"
)

const layerShellProtocol = "zwlr_layer_shell_v1"

// zwlr_layer_shell_v1 and zwlr_layer_surface_v1 error codes
const (
	LayerErrorRole          = 0
	LayerErrorInvalidLayer  = 1
	LayerErrorInvalidSize   = 2
	LayerErrorInvalidAnchor = 3
)

// ShellLayer is the layer a layer shell client asked for, numbered like the protocol does
type ShellLayer uint32

const (
	ShellLayerBackground = ShellLayer(iota)
	ShellLayerBottom
	ShellLayerTop
	ShellLayerOverlay
)

func (l ShellLayer) role() (scene.Role, bool) {
	switch l {
	case ShellLayerBackground:
		return scene.RoleLayerBackground, true
	case ShellLayerBottom:
		return scene.RoleLayerBottom, true
	case ShellLayerTop:
		return scene.RoleLayerTop, true
	case ShellLayerOverlay:
		return scene.RoleLayerOverlay, true
	}
	return scene.RoleUnknown, false
}

type Margins struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// layerState is what the client asked for, applied on commit
type layerState struct {
	size          generaldata.Vector2i
	anchors       scene.Edges
	margins       Margins
	exclusiveZone int
	keyboard      bool
}

type layerSurface struct {
	surface   *scene.Surface
	output    *scene.Output
	namespace string
	pending   layerState
	current   layerState
	// Size we configured the client with
	configured generaldata.Vector2i
	mapped     bool
}

// LayerShell adapts wlr-layer-shell: panels, wallpapers, lock screens and notifications
type LayerShell struct {
	scene    *scene.Scene
	surfaces objects[*layerSurface]
}

func NewLayerShell(sc *scene.Scene) *LayerShell {
	return &LayerShell{
		scene:    sc,
		surfaces: newObjects[*layerSurface](layerShellProtocol),
	}
}

func (l *LayerShell) Surface(id ObjectID) (*scene.Surface, error) {
	ls, err := l.surfaces.get(id)
	if err != nil {
		return nil, err
	}
	return ls.surface, nil
}

// GetLayerSurface creates a layer surface on the named output, an empty name picks the first output
func (l *LayerShell) GetLayerSurface(id ObjectID, client scene.Client, output string, layer ShellLayer, namespace string) (*scene.Surface, error) {
	role, ok := layer.role()
	if !ok {
		return nil, protocolError(layerShellProtocol, id, ErrInvalidRole, LayerErrorInvalidLayer, "invalid layer %d", layer)
	}
	var o *scene.Output
	if output != "" {
		o = l.scene.OutputByName(output)
	} else if outputs := l.scene.Outputs(); len(outputs) > 0 {
		o = outputs[0]
	}
	if o == nil {
		return nil, protocolError(layerShellProtocol, id, ErrInvalidOutput, LayerErrorRole, "no output %q", output)
	}
	s := l.scene.NewSurface(scene.SurfaceOptions{Role: role, Client: client})
	ls := &layerSurface{surface: s, output: o, namespace: namespace}
	if err := l.surfaces.add(id, ls); err != nil {
		l.scene.Destroy(s)
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"surface":   s.ID(),
		"namespace": namespace,
		"layer":     role.String(),
		"output":    o.Name(),
	}).Debugln("New layer surface")
	return s, nil
}

func (l *LayerShell) SetSize(id ObjectID, size generaldata.Vector2i) error {
	ls, err := l.surfaces.get(id)
	if err != nil {
		return err
	}
	if size.X < 0 || size.Y < 0 {
		return protocolError(layerShellProtocol, id, ErrInvalidGeometry, LayerErrorInvalidSize, "negative size %v", size)
	}
	ls.pending.size = size
	return nil
}

func (l *LayerShell) SetAnchor(id ObjectID, anchors scene.Edges) error {
	ls, err := l.surfaces.get(id)
	if err != nil {
		return err
	}
	if anchors&^(scene.EdgeTop|scene.EdgeBottom|scene.EdgeLeft|scene.EdgeRight) != 0 {
		return protocolError(layerShellProtocol, id, ErrInvalidGeometry, LayerErrorInvalidAnchor, "invalid anchor %d", anchors)
	}
	ls.pending.anchors = anchors
	return nil
}

func (l *LayerShell) SetMargin(id ObjectID, m Margins) error {
	ls, err := l.surfaces.get(id)
	if err != nil {
		return err
	}
	ls.pending.margins = m
	return nil
}

// SetExclusiveZone: positive values reserve space, zero avoids other reservations,
// -1 ignores them and extends to the output edges
func (l *LayerShell) SetExclusiveZone(id ObjectID, zone int) error {
	ls, err := l.surfaces.get(id)
	if err != nil {
		return err
	}
	ls.pending.exclusiveZone = zone
	return nil
}

func (l *LayerShell) SetKeyboardInteractivity(id ObjectID, interactive bool) error {
	ls, err := l.surfaces.get(id)
	if err != nil {
		return err
	}
	ls.pending.keyboard = interactive
	return nil
}

// SetLayer moves the surface to another layer
func (l *LayerShell) SetLayer(id ObjectID, layer ShellLayer) error {
	ls, err := l.surfaces.get(id)
	if err != nil {
		return err
	}
	role, ok := layer.role()
	if !ok {
		return protocolError(layerShellProtocol, id, ErrInvalidRole, LayerErrorInvalidLayer, "invalid layer %d", layer)
	}
	return transitionError(layerShellProtocol, id, LayerErrorRole, ls.surface.SetRole(role))
}

// GetPopup parents an xdg popup created without a parent to the layer surface
func (l *LayerShell) GetPopup(id ObjectID, popup *scene.Surface) error {
	ls, err := l.surfaces.get(id)
	if err != nil {
		return err
	}
	if popup == nil || popup.Role() != scene.RolePopup {
		return protocolError(layerShellProtocol, id, ErrInvalidRole, LayerErrorRole, "not a popup")
	}
	if popup.Parent() != nil {
		return protocolError(layerShellProtocol, id, ErrInvalidRole, LayerErrorRole, "popup already has a parent")
	}
	// The positioner already put the popup relative to its future parent
	pos := popup.Position()
	if err := popup.SetParent(ls.surface); err != nil {
		return transitionError(layerShellProtocol, id, LayerErrorRole, err)
	}
	popup.SetPosition(pos)
	return nil
}

// Commit applies the pending state, lays the surface out on its output and takes the buffer
func (l *LayerShell) Commit(id ObjectID, buffer *scene.Buffer) error {
	ls, err := l.surfaces.get(id)
	if err != nil {
		return err
	}
	st := ls.pending
	horizontal := scene.EdgeLeft | scene.EdgeRight
	vertical := scene.EdgeTop | scene.EdgeBottom
	if st.size.X == 0 && st.anchors&horizontal != horizontal {
		return protocolError(layerShellProtocol, id, ErrInvalidGeometry, LayerErrorInvalidSize, "zero width without left and right anchors")
	}
	if st.size.Y == 0 && st.anchors&vertical != vertical {
		return protocolError(layerShellProtocol, id, ErrInvalidGeometry, LayerErrorInvalidSize, "zero height without top and bottom anchors")
	}
	ls.current = st
	l.arrange(ls)
	ls.surface.Commit(buffer)
	if buffer == nil {
		ls.mapped = false
		return nil
	}
	if !ls.mapped {
		ls.mapped = true
		if st.keyboard {
			l.scene.Activate(ls.surface)
		}
	}
	return nil
}

// arrange positions the surface inside its output and updates the output's reservations
func (l *LayerShell) arrange(ls *layerSurface) {
	st := ls.current
	edge := exclusiveEdge(st.anchors)
	if st.exclusiveZone > 0 && edge != scene.EdgeNone {
		size := st.exclusiveZone
		switch edge {
		case scene.EdgeTop:
			size += st.margins.Top
		case scene.EdgeBottom:
			size += st.margins.Bottom
		case scene.EdgeLeft:
			size += st.margins.Left
		case scene.EdgeRight:
			size += st.margins.Right
		}
		ls.output.Reserve(ls.surface, edge, size)
	} else {
		ls.output.Unreserve(ls.surface)
	}

	area := ls.output.Rect()
	if st.exclusiveZone == 0 {
		area = ls.output.AvailableArea()
	}
	pos, size := layout(area, st)
	ls.surface.SetPosition(pos)
	if size != ls.configured {
		ls.configured = size
		ls.surface.Configure(size)
	}
}

// layout computes position and size of a layer surface inside area
func layout(area generaldata.Rect, st layerState) (generaldata.Vector2i, generaldata.Vector2i) {
	size := st.size
	m := st.margins
	left := st.anchors&scene.EdgeLeft != 0
	right := st.anchors&scene.EdgeRight != 0
	top := st.anchors&scene.EdgeTop != 0
	bottom := st.anchors&scene.EdgeBottom != 0

	if size.X == 0 && left && right {
		size.X = int(area.W) - m.Left - m.Right
	}
	if size.Y == 0 && top && bottom {
		size.Y = int(area.H) - m.Top - m.Bottom
	}

	var pos generaldata.Vector2i
	switch {
	case left && !right:
		pos.X = int(area.X) + m.Left
	case right && !left:
		pos.X = int(area.Right()) - size.X - m.Right
	case left && right && st.size.X == 0:
		pos.X = int(area.X) + m.Left
	default:
		pos.X = int(area.X) + (int(area.W)-size.X)/2
	}
	switch {
	case top && !bottom:
		pos.Y = int(area.Y) + m.Top
	case bottom && !top:
		pos.Y = int(area.Bottom()) - size.Y - m.Bottom
	case top && bottom && st.size.Y == 0:
		pos.Y = int(area.Y) + m.Top
	default:
		pos.Y = int(area.Y) + (int(area.H)-size.Y)/2
	}
	return pos, size
}

// exclusiveEdge returns the edge an exclusive zone applies to: the surface has to be anchored to
// exactly that edge, optionally together with both edges perpendicular to it
func exclusiveEdge(anchors scene.Edges) scene.Edges {
	horizontal := scene.EdgeLeft | scene.EdgeRight
	vertical := scene.EdgeTop | scene.EdgeBottom
	switch anchors {
	case scene.EdgeTop, scene.EdgeTop | horizontal:
		return scene.EdgeTop
	case scene.EdgeBottom, scene.EdgeBottom | horizontal:
		return scene.EdgeBottom
	case scene.EdgeLeft, scene.EdgeLeft | vertical:
		return scene.EdgeLeft
	case scene.EdgeRight, scene.EdgeRight | vertical:
		return scene.EdgeRight
	}
	return scene.EdgeNone
}

func (l *LayerShell) Destroy(id ObjectID) {
	ls, ok := l.surfaces.remove(id)
	if !ok {
		return
	}
	ls.output.Unreserve(ls.surface)
	l.scene.Destroy(ls.surface)
}

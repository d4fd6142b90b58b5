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

const xdgProtocol = "xdg_wm_base"

// xdg_wm_base error codes
const (
	XDGErrorRole                = 0
	XDGErrorInvalidPopupParent  = 3
	XDGErrorInvalidSurfaceState = 4
	XDGErrorInvalidPositioner   = 5
)

// DecorationMode as negotiated through xdg-decoration
type DecorationMode int

const (
	DecorationClientSide = DecorationMode(1)
	DecorationServerSide = DecorationMode(2)
)

func (m DecorationMode) String() string {
	if m == DecorationServerSide {
		return "server-side"
	}
	return "client-side"
}

type xdgKind int

const (
	xdgNone = xdgKind(iota)
	xdgToplevel
	xdgPopup
)

type xdgSurface struct {
	surface *scene.Surface
	kind    xdgKind
	mapped  bool
}

// Positioner places a popup relative to its parent's window geometry
type Positioner struct {
	Size       generaldata.Vector2i
	AnchorRect generaldata.Rect
	Anchor     scene.Edges
	Gravity    scene.Edges
	Offset     generaldata.Vector2i
}

func (p Positioner) valid() bool {
	return !p.Size.Empty() && p.AnchorRect.W >= 1 && p.AnchorRect.H >= 1
}

// Position returns where the popup's top left corner goes, relative to the parent
func (p Positioner) Position() generaldata.Vector2i {
	r := p.AnchorRect
	x := r.X + r.W/2
	switch {
	case p.Anchor&scene.EdgeLeft != 0:
		x = r.X
	case p.Anchor&scene.EdgeRight != 0:
		x = r.Right()
	}
	y := r.Y + r.H/2
	switch {
	case p.Anchor&scene.EdgeTop != 0:
		y = r.Y
	case p.Anchor&scene.EdgeBottom != 0:
		y = r.Bottom()
	}
	w := float64(p.Size.X)
	h := float64(p.Size.Y)
	switch {
	case p.Gravity&scene.EdgeLeft != 0:
		x -= w
	case p.Gravity&scene.EdgeRight != 0:
	default:
		x -= w / 2
	}
	switch {
	case p.Gravity&scene.EdgeTop != 0:
		y -= h
	case p.Gravity&scene.EdgeBottom != 0:
	default:
		y -= h / 2
	}
	return generaldata.Vector2f{X: x, Y: y}.Round().Add(p.Offset)
}

// XDGShell adapts xdg-shell and xdg-decoration
type XDGShell struct {
	scene    *scene.Scene
	grabs    GrabRequester
	surfaces objects[*xdgSurface]
	// Mode toplevels start with
	DefaultDecoration DecorationMode
}

func NewXDGShell(sc *scene.Scene, grabs GrabRequester) *XDGShell {
	return &XDGShell{
		scene:             sc,
		grabs:             grabs,
		surfaces:          newObjects[*xdgSurface](xdgProtocol),
		DefaultDecoration: DecorationClientSide,
	}
}

func (x *XDGShell) lookup(id ObjectID) (*xdgSurface, error) {
	return x.surfaces.get(id)
}

func (x *XDGShell) toplevel(id ObjectID) (*xdgSurface, error) {
	xs, err := x.lookup(id)
	if err != nil {
		return nil, err
	}
	if xs.kind != xdgToplevel {
		return nil, protocolError(xdgProtocol, id, ErrInvalidRole, XDGErrorRole, "not a toplevel")
	}
	return xs, nil
}

// Surface returns the scene surface behind an xdg surface
func (x *XDGShell) Surface(id ObjectID) (*scene.Surface, error) {
	xs, err := x.lookup(id)
	if err != nil {
		return nil, err
	}
	return xs.surface, nil
}

// NewSurface handles get_xdg_surface. The surface has no role until a toplevel or popup is made from it
func (x *XDGShell) NewSurface(id ObjectID, client scene.Client) (*scene.Surface, error) {
	if _, err := x.lookup(id); err == nil {
		return nil, protocolError(xdgProtocol, id, ErrInvalidObject, XDGErrorRole, "xdg surface already exists")
	}
	s := x.scene.NewSurface(scene.SurfaceOptions{Client: client})
	if err := x.surfaces.add(id, &xdgSurface{surface: s}); err != nil {
		x.scene.Destroy(s)
		return nil, err
	}
	return s, nil
}

// GetToplevel gives the surface the toplevel role
func (x *XDGShell) GetToplevel(id ObjectID) error {
	xs, err := x.lookup(id)
	if err != nil {
		return err
	}
	if xs.kind != xdgNone {
		return protocolError(xdgProtocol, id, ErrInvalidRole, XDGErrorRole, "surface already has a role")
	}
	xs.surface.SetServerDecorated(x.DefaultDecoration == DecorationServerSide)
	if err := xs.surface.SetRole(scene.RoleTopLevel); err != nil {
		return transitionError(xdgProtocol, id, XDGErrorRole, err)
	}
	xs.kind = xdgToplevel
	return nil
}

// GetPopup gives the surface the popup role. A zero parent is allowed for popups that
// get their parent from another protocol, like layer shell
func (x *XDGShell) GetPopup(id ObjectID, parent ObjectID, pos Positioner) error {
	xs, err := x.lookup(id)
	if err != nil {
		return err
	}
	if xs.kind != xdgNone {
		return protocolError(xdgProtocol, id, ErrInvalidRole, XDGErrorRole, "surface already has a role")
	}
	if !pos.valid() {
		return protocolError(xdgProtocol, id, ErrInvalidGeometry, XDGErrorInvalidPositioner, "incomplete positioner")
	}
	var parentSurface *scene.Surface
	if parent != 0 {
		p, err := x.lookup(parent)
		if err != nil || p.kind == xdgNone {
			return protocolError(xdgProtocol, id, ErrInvalidObject, XDGErrorInvalidPopupParent, "invalid popup parent %d", parent)
		}
		parentSurface = p.surface
	}
	s := xs.surface
	if err := s.SetParent(parentSurface); err != nil {
		return transitionError(xdgProtocol, id, XDGErrorInvalidPopupParent, err)
	}
	if err := s.SetRole(scene.RolePopup); err != nil {
		return transitionError(xdgProtocol, id, XDGErrorRole, err)
	}
	xs.kind = xdgPopup
	s.SetPosition(pos.Position())
	s.Configure(pos.Size)
	return nil
}

// Reposition moves a popup according to a new positioner
func (x *XDGShell) Reposition(id ObjectID, pos Positioner) error {
	xs, err := x.lookup(id)
	if err != nil {
		return err
	}
	if xs.kind != xdgPopup {
		return protocolError(xdgProtocol, id, ErrInvalidRole, XDGErrorRole, "not a popup")
	}
	if !pos.valid() {
		return protocolError(xdgProtocol, id, ErrInvalidGeometry, XDGErrorInvalidPositioner, "incomplete positioner")
	}
	xs.surface.SetPosition(pos.Position())
	xs.surface.Configure(pos.Size)
	return nil
}

// SetParent handles xdg_toplevel.set_parent. Toplevels with a parent become transients
// drawn above it, a zero parent turns them back into plain toplevels
func (x *XDGShell) SetParent(id ObjectID, parent ObjectID) error {
	xs, err := x.lookup(id)
	if err != nil {
		return err
	}
	if xs.kind != xdgToplevel {
		return protocolError(xdgProtocol, id, ErrInvalidRole, XDGErrorRole, "not a toplevel")
	}
	s := xs.surface
	if parent == 0 {
		if err := s.SetParent(nil); err != nil {
			return transitionError(xdgProtocol, id, XDGErrorRole, err)
		}
		return transitionError(xdgProtocol, id, XDGErrorRole, s.SetRole(scene.RoleTopLevel))
	}
	p, err := x.toplevel(parent)
	if err != nil {
		return protocolError(xdgProtocol, id, ErrInvalidObject, XDGErrorRole, "invalid parent %d", parent)
	}
	if !scene.CanTransition(s.Role(), scene.RoleTransient) {
		return protocolError(xdgProtocol, id, ErrInvalidRole, XDGErrorRole, "%s can't become transient", s.Role())
	}
	if err := s.SetParent(p.surface); err != nil {
		return transitionError(xdgProtocol, id, XDGErrorRole, err)
	}
	return transitionError(xdgProtocol, id, XDGErrorRole, s.SetRole(scene.RoleTransient))
}

func (x *XDGShell) SetTitle(id ObjectID, title string) error {
	xs, err := x.lookup(id)
	if err != nil {
		return err
	}
	xs.surface.SetTitle(title)
	return nil
}

func (x *XDGShell) SetAppID(id ObjectID, appID string) error {
	xs, err := x.lookup(id)
	if err != nil {
		return err
	}
	xs.surface.SetAppID(appID)
	return nil
}

// Move asks for an interactive move. Refused grabs aren't protocol errors
func (x *XDGShell) Move(id ObjectID) error {
	xs, err := x.toplevel(id)
	if err != nil {
		return err
	}
	if err := x.grabs.BeginMove(xs.surface); err != nil {
		logrus.WithError(err).WithField("surface", xs.surface.ID()).Debugln("Refused client move request")
	}
	return nil
}

// Resize asks for an interactive resize along edges
func (x *XDGShell) Resize(id ObjectID, edges scene.Edges) error {
	xs, err := x.toplevel(id)
	if err != nil {
		return err
	}
	if err := x.grabs.BeginResize(xs.surface, edges, true); err != nil {
		logrus.WithError(err).WithField("surface", xs.surface.ID()).Debugln("Refused client resize request")
	}
	return nil
}

func (x *XDGShell) SetMaximized(id ObjectID, maximized bool) error {
	xs, err := x.toplevel(id)
	if err != nil {
		return err
	}
	xs.surface.SetMaximized(maximized)
	return nil
}

func (x *XDGShell) SetMinimized(id ObjectID) error {
	xs, err := x.toplevel(id)
	if err != nil {
		return err
	}
	xs.surface.SetMinimized(true)
	return nil
}

// SetFullscreen puts the surface on the named output, or the one it is mostly on for an empty name.
// Popups can't go fullscreen, the request is rejected without touching the surface
func (x *XDGShell) SetFullscreen(id ObjectID, fullscreen bool, output string) error {
	xs, err := x.lookup(id)
	if err != nil {
		return err
	}
	if xs.kind != xdgToplevel {
		return protocolError(xdgProtocol, id, ErrInvalidRole, XDGErrorInvalidSurfaceState, "only toplevels can be fullscreen")
	}
	var o *scene.Output
	if output != "" {
		if o = x.scene.OutputByName(output); o == nil {
			return protocolError(xdgProtocol, id, ErrInvalidOutput, XDGErrorInvalidSurfaceState, "no output %q", output)
		}
	}
	if err := xs.surface.SetFullscreen(fullscreen, o); err != nil {
		return transitionError(xdgProtocol, id, XDGErrorInvalidSurfaceState, err)
	}
	return nil
}

// SetWindowGeometry sets the visible part of the client buffer
func (x *XDGShell) SetWindowGeometry(id ObjectID, geometry generaldata.Rect) error {
	xs, err := x.lookup(id)
	if err != nil {
		return err
	}
	if geometry.Empty() {
		return protocolError(xdgProtocol, id, ErrInvalidGeometry, XDGErrorInvalidSurfaceState, "empty window geometry")
	}
	xs.surface.SetGeometryOffset(geometry.Pos().Round())
	return nil
}

func (x *XDGShell) SetMinSize(id ObjectID, size generaldata.Vector2i) error {
	xs, err := x.toplevel(id)
	if err != nil {
		return err
	}
	if size.X < 0 || size.Y < 0 {
		return protocolError(xdgProtocol, id, ErrInvalidGeometry, XDGErrorInvalidSurfaceState, "negative min size %v", size)
	}
	xs.surface.SetMinSize(size)
	return nil
}

// SetDecorationMode handles xdg_toplevel_decoration.set_mode
func (x *XDGShell) SetDecorationMode(id ObjectID, mode DecorationMode) error {
	xs, err := x.toplevel(id)
	if err != nil {
		return err
	}
	xs.surface.SetServerDecorated(mode == DecorationServerSide)
	logrus.WithFields(logrus.Fields{"surface": xs.surface.ID(), "mode": mode.String()}).Debugln("Decoration mode changed")
	return nil
}

// Commit hands the latest buffer to the surface. Toplevels get placed and focused on their first buffer
func (x *XDGShell) Commit(id ObjectID, buffer *scene.Buffer) error {
	xs, err := x.lookup(id)
	if err != nil {
		return err
	}
	if xs.kind == xdgNone && buffer != nil {
		return protocolError(xdgProtocol, id, ErrInvalidRole, XDGErrorRole, "buffer attached before a role was assigned")
	}
	xs.surface.Commit(buffer)
	if buffer == nil {
		xs.mapped = false
		return nil
	}
	if !xs.mapped {
		xs.mapped = true
		if xs.kind == xdgToplevel {
			mapWindow(x.scene, xs.surface)
		}
	}
	return nil
}

// Destroy removes the surface from the scene
func (x *XDGShell) Destroy(id ObjectID) {
	xs, ok := x.surfaces.remove(id)
	if !ok {
		return
	}
	x.scene.Destroy(xs.surface)
}

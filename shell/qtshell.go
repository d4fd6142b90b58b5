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

const qtShellProtocol = "zqt_shell_v1"

// QtWindowFlags are Qt::WindowFlags as sent by zqt_shell_surface_v1.set_window_flags
type QtWindowFlags uint32

const (
	QtWindow             = QtWindowFlags(0x1)
	QtDialog             = QtWindowFlags(0x2 | 0x1)
	QtPopup              = QtWindowFlags(0x8 | 0x1)
	QtTool               = QtPopup | QtDialog
	QtX11BypassWindowMgr = QtWindowFlags(0x400)
	QtFrameless          = QtWindowFlags(0x800)
	QtMinimizeButton     = QtWindowFlags(0x4000)
	QtMaximizeButton     = QtWindowFlags(0x8000)
	QtMinMaxButtons      = QtMinimizeButton | QtMaximizeButton
	QtCloseButton        = QtWindowFlags(0x08000000)
	qtDefaultWindowFlags = QtWindow | QtMinMaxButtons | QtCloseButton
)

// Has works like Qt's testFlag: every bit of f has to be set
func (q QtWindowFlags) Has(f QtWindowFlags) bool {
	return q&f == f
}

// FrameMarginsClient is implemented by clients that need to know how much chrome we draw around them
type FrameMarginsClient interface {
	SetFrameMargins(left, right, top, bottom int)
}

type qtSurface struct {
	surface *scene.Surface
	flags   QtWindowFlags
	mapped  bool
}

// QtShell adapts zqt_shell_v1, used by the desktop's own Qt programs
type QtShell struct {
	scene    *scene.Scene
	grabs    GrabRequester
	surfaces objects[*qtSurface]
}

func NewQtShell(sc *scene.Scene, grabs GrabRequester) *QtShell {
	return &QtShell{
		scene:    sc,
		grabs:    grabs,
		surfaces: newObjects[*qtSurface](qtShellProtocol),
	}
}

func (q *QtShell) Surface(id ObjectID) (*scene.Surface, error) {
	qs, err := q.surfaces.get(id)
	if err != nil {
		return nil, err
	}
	return qs.surface, nil
}

// SurfaceCreate creates a surface. Its role gets decided by the window flags, or on first commit
func (q *QtShell) SurfaceCreate(id ObjectID, client scene.Client) (*scene.Surface, error) {
	s := q.scene.NewSurface(scene.SurfaceOptions{Client: client})
	if err := q.surfaces.add(id, &qtSurface{surface: s}); err != nil {
		q.scene.Destroy(s)
		return nil, err
	}
	return s, nil
}

// roleForFlags maps window flags onto a role and whether we decorate it
func roleForFlags(f QtWindowFlags) (scene.Role, bool) {
	switch {
	case f.Has(QtX11BypassWindowMgr):
		// Only the file manager's desktop window sets this
		return scene.RoleDesktop, false
	case f.Has(QtTool):
		return scene.RoleTopLevelTool, true
	case f.Has(QtPopup):
		return scene.RolePopup, false
	case f.Has(QtDialog), f.Has(QtWindow):
		return scene.RoleTopLevel, !f.Has(QtFrameless)
	}
	return scene.RoleTopLevel, false
}

func (q *QtShell) SetWindowFlags(id ObjectID, flags QtWindowFlags) error {
	qs, err := q.surfaces.get(id)
	if err != nil {
		return err
	}
	s := qs.surface
	role, ssd := roleForFlags(flags)
	if !scene.CanTransition(s.Role(), role) {
		return protocolError(qtShellProtocol, id, ErrInvalidRole, 0, "flags %#x turn %s into %s", uint32(flags), s.Role(), role)
	}
	if err := s.SetRole(role); err != nil {
		return transitionError(qtShellProtocol, id, 0, err)
	}
	qs.flags = flags
	s.SetServerDecorated(ssd)
	s.SetCapabilities(scene.Capabilities{
		CanMinimize: flags.Has(QtMinimizeButton),
		CanMaximize: flags.Has(QtMaximizeButton),
		CanClose:    flags.Has(QtCloseButton),
	})
	if ssd {
		if fm, ok := s.Client().(FrameMarginsClient); ok {
			set := q.scene.Settings()
			fm.SetFrameMargins(set.BorderSize, set.BorderSize, set.TitleBarHeight, set.BorderSize)
		}
	}
	logrus.WithFields(logrus.Fields{
		"surface": s.ID(),
		"flags":   uint32(flags),
		"role":    role.String(),
	}).Debugln("Qt window flags changed")
	q.scene.RequestRender()
	return nil
}

// Reposition moves the window content to p
func (q *QtShell) Reposition(id ObjectID, p generaldata.Vector2i) error {
	qs, err := q.surfaces.get(id)
	if err != nil {
		return err
	}
	qs.surface.SetContentPosition(p)
	return nil
}

func (q *QtShell) SetSize(id ObjectID, size generaldata.Vector2i) error {
	qs, err := q.surfaces.get(id)
	if err != nil {
		return err
	}
	if size.X < 0 || size.Y < 0 {
		return protocolError(qtShellProtocol, id, ErrInvalidGeometry, 0, "negative size %v", size)
	}
	qs.surface.Configure(size)
	return nil
}

func (q *QtShell) SetTitle(id ObjectID, title string) error {
	qs, err := q.surfaces.get(id)
	if err != nil {
		return err
	}
	qs.surface.SetTitle(title)
	return nil
}

func (q *QtShell) RequestActivate(id ObjectID) error {
	qs, err := q.surfaces.get(id)
	if err != nil {
		return err
	}
	q.scene.Activate(qs.surface)
	return nil
}

func (q *QtShell) Raise(id ObjectID) error {
	qs, err := q.surfaces.get(id)
	if err != nil {
		return err
	}
	q.scene.Raise(qs.surface)
	return nil
}

func (q *QtShell) Lower(id ObjectID) error {
	qs, err := q.surfaces.get(id)
	if err != nil {
		return err
	}
	q.scene.Lower(qs.surface)
	return nil
}

func (q *QtShell) StartSystemMove(id ObjectID) error {
	qs, err := q.surfaces.get(id)
	if err != nil {
		return err
	}
	if err := q.grabs.BeginMove(qs.surface); err != nil {
		logrus.WithError(err).WithField("surface", qs.surface.ID()).Debugln("Refused client move request")
	}
	return nil
}

func (q *QtShell) StartSystemResize(id ObjectID, edges scene.Edges) error {
	qs, err := q.surfaces.get(id)
	if err != nil {
		return err
	}
	if err := q.grabs.BeginResize(qs.surface, edges, true); err != nil {
		logrus.WithError(err).WithField("surface", qs.surface.ID()).Debugln("Refused client resize request")
	}
	return nil
}

// Commit maps surfaces that never set window flags as plain windows
func (q *QtShell) Commit(id ObjectID, buffer *scene.Buffer) error {
	qs, err := q.surfaces.get(id)
	if err != nil {
		return err
	}
	if buffer != nil && qs.surface.Role() == scene.RoleUnknown {
		if err := q.SetWindowFlags(id, qtDefaultWindowFlags); err != nil {
			return err
		}
	}
	qs.surface.Commit(buffer)
	if buffer == nil {
		qs.mapped = false
		return nil
	}
	if !qs.mapped {
		qs.mapped = true
		s := qs.surface
		if s.Role().IsWindow() || s.Role() == scene.RoleDesktop {
			q.scene.Raise(s)
			q.scene.Activate(s)
		}
	}
	return nil
}

func (q *QtShell) Destroy(id ObjectID) {
	qs, ok := q.surfaces.remove(id)
	if !ok {
		return
	}
	q.scene.Destroy(qs.surface)
}

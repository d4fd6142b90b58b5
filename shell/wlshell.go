package shell

import (
	"github.com/sirupsen/logrus"

	generaldata "github.com/mstarongithub/way2gay/general-data"
	"github.com/mstarongithub/way2gay/scene"
)

const wlShellProtocol = "wl_shell"

// wl_shell error codes
const WlShellErrorRole = 0

type wlShellSurface struct {
	surface *scene.Surface
	mapped  bool
}

// WlShell adapts the old wl_shell protocol. Its toplevels always get server side decoration
type WlShell struct {
	scene    *scene.Scene
	grabs    GrabRequester
	surfaces objects[*wlShellSurface]
}

func NewWlShell(sc *scene.Scene, grabs GrabRequester) *WlShell {
	return &WlShell{
		scene:    sc,
		grabs:    grabs,
		surfaces: newObjects[*wlShellSurface](wlShellProtocol),
	}
}

func (w *WlShell) Surface(id ObjectID) (*scene.Surface, error) {
	ws, err := w.surfaces.get(id)
	if err != nil {
		return nil, err
	}
	return ws.surface, nil
}

// GetShellSurface creates the surface behind a wl_shell_surface
func (w *WlShell) GetShellSurface(id ObjectID, client scene.Client) (*scene.Surface, error) {
	s := w.scene.NewSurface(scene.SurfaceOptions{Client: client})
	if err := w.surfaces.add(id, &wlShellSurface{surface: s}); err != nil {
		w.scene.Destroy(s)
		return nil, err
	}
	return s, nil
}

func (w *WlShell) setRole(id ObjectID, s *scene.Surface, role scene.Role) error {
	if err := s.SetRole(role); err != nil {
		return transitionError(wlShellProtocol, id, WlShellErrorRole, err)
	}
	return nil
}

func (w *WlShell) SetToplevel(id ObjectID) error {
	ws, err := w.surfaces.get(id)
	if err != nil {
		return err
	}
	s := ws.surface
	if !scene.CanTransition(s.Role(), scene.RoleTopLevel) {
		return protocolError(wlShellProtocol, id, ErrInvalidRole, WlShellErrorRole, "%s can't become a toplevel", s.Role())
	}
	if err := s.SetParent(nil); err != nil {
		return transitionError(wlShellProtocol, id, WlShellErrorRole, err)
	}
	s.SetServerDecorated(true)
	return w.setRole(id, s, scene.RoleTopLevel)
}

// SetTransient places the surface at offset relative to its parent's content
func (w *WlShell) SetTransient(id ObjectID, parent ObjectID, offset generaldata.Vector2i) error {
	return w.setChild(id, parent, offset, scene.RoleTransient)
}

// SetPopup is like SetTransient, but the popup gets dismissed by clicks elsewhere
func (w *WlShell) SetPopup(id ObjectID, parent ObjectID, offset generaldata.Vector2i) error {
	return w.setChild(id, parent, offset, scene.RolePopup)
}

func (w *WlShell) setChild(id ObjectID, parent ObjectID, offset generaldata.Vector2i, role scene.Role) error {
	ws, err := w.surfaces.get(id)
	if err != nil {
		return err
	}
	p, err := w.surfaces.get(parent)
	if err != nil {
		return protocolError(wlShellProtocol, id, ErrInvalidObject, WlShellErrorRole, "unknown parent %d", parent)
	}
	s := ws.surface
	if !scene.CanTransition(s.Role(), role) {
		return protocolError(wlShellProtocol, id, ErrInvalidRole, WlShellErrorRole, "%s can't become %s", s.Role(), role)
	}
	if err := s.SetParent(p.surface); err != nil {
		return transitionError(wlShellProtocol, id, WlShellErrorRole, err)
	}
	if err := w.setRole(id, s, role); err != nil {
		return err
	}
	s.SetPosition(offset)
	return nil
}

// SetMaximized maximizes on the named output, an empty name picks the one the surface is on
func (w *WlShell) SetMaximized(id ObjectID, output string) error {
	ws, err := w.surfaces.get(id)
	if err != nil {
		return err
	}
	if output != "" && w.scene.OutputByName(output) == nil {
		return protocolError(wlShellProtocol, id, ErrInvalidOutput, WlShellErrorRole, "no output %q", output)
	}
	if ws.surface.Role() == scene.RoleUnknown {
		if err := w.SetToplevel(id); err != nil {
			return err
		}
	}
	ws.surface.SetMaximized(true)
	return nil
}

func (w *WlShell) SetFullscreen(id ObjectID, output string) error {
	ws, err := w.surfaces.get(id)
	if err != nil {
		return err
	}
	var o *scene.Output
	if output != "" {
		if o = w.scene.OutputByName(output); o == nil {
			return protocolError(wlShellProtocol, id, ErrInvalidOutput, WlShellErrorRole, "no output %q", output)
		}
	}
	if ws.surface.Role() == scene.RoleUnknown {
		if err := w.SetToplevel(id); err != nil {
			return err
		}
	}
	if err := ws.surface.SetFullscreen(true, o); err != nil {
		return transitionError(wlShellProtocol, id, WlShellErrorRole, err)
	}
	return nil
}

func (w *WlShell) SetTitle(id ObjectID, title string) error {
	ws, err := w.surfaces.get(id)
	if err != nil {
		return err
	}
	ws.surface.SetTitle(title)
	return nil
}

// SetClass is the wl_shell name for the app id
func (w *WlShell) SetClass(id ObjectID, class string) error {
	ws, err := w.surfaces.get(id)
	if err != nil {
		return err
	}
	ws.surface.SetAppID(class)
	return nil
}

func (w *WlShell) Move(id ObjectID) error {
	ws, err := w.surfaces.get(id)
	if err != nil {
		return err
	}
	if err := w.grabs.BeginMove(ws.surface); err != nil {
		logrus.WithError(err).WithField("surface", ws.surface.ID()).Debugln("Refused client move request")
	}
	return nil
}

func (w *WlShell) Resize(id ObjectID, edges scene.Edges) error {
	ws, err := w.surfaces.get(id)
	if err != nil {
		return err
	}
	if err := w.grabs.BeginResize(ws.surface, edges, true); err != nil {
		logrus.WithError(err).WithField("surface", ws.surface.ID()).Debugln("Refused client resize request")
	}
	return nil
}

func (w *WlShell) Commit(id ObjectID, buffer *scene.Buffer) error {
	ws, err := w.surfaces.get(id)
	if err != nil {
		return err
	}
	ws.surface.Commit(buffer)
	if buffer == nil {
		ws.mapped = false
		return nil
	}
	if !ws.mapped {
		ws.mapped = true
		if ws.surface.Role().IsWindow() && !ws.surface.Maximized() && !ws.surface.Fullscreen() {
			mapWindow(w.scene, ws.surface)
		}
	}
	return nil
}

func (w *WlShell) Destroy(id ObjectID) {
	ws, ok := w.surfaces.remove(id)
	if !ok {
		return
	}
	w.scene.Destroy(ws.surface)
}

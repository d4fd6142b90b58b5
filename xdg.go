package main

import (
	"github.com/sirupsen/logrus"
	"github.com/swaywm/go-wlroots/wlroots"

	generaldata "github.com/mstarongithub/way2gay/general-data"
	"github.com/mstarongithub/way2gay/scene"
	"github.com/mstarongithub/way2gay/shell"
)

func sceneEdges(edges wlroots.Edges) scene.Edges {
	out := scene.EdgeNone
	if edges&wlroots.EdgeTop != 0 {
		out |= scene.EdgeTop
	}
	if edges&wlroots.EdgeBottom != 0 {
		out |= scene.EdgeBottom
	}
	if edges&wlroots.EdgeLeft != 0 {
		out |= scene.EdgeLeft
	}
	if edges&wlroots.EdgeRight != 0 {
		out |= scene.EdgeRight
	}
	return out
}

func (server *Server) handleNewXDGSurface(xdgSurface wlroots.XDGSurface) {
	/* This event is raised when wlr_xdg_shell receives a new xdg surface from a
	 * client, either a toplevel (application window) or popup. */
	logrus.WithField("role", xdgSurface.Role()).Debugln("New surface inbound")

	switch xdgSurface.Role() {
	case wlroots.XDGSurfaceRolePopup:
		parent := xdgSurface.Popup().Parent()
		if parent.Nil() {
			logrus.Warnln("Popup without a parent, ignoring it")
			return
		}
		parentWindow := server.windows.find(parent.XDGSurface())
		if parentWindow == nil {
			logrus.Warnln("Popup parent isn't a known window, ignoring it")
			return
		}
		xdgSurface.SetData(parent.XDGSurface().SceneTree().NewXDGSurface(xdgSurface))
		win := server.windows.add(xdgSurface, true)
		win.parent = parentWindow.id
	case wlroots.XDGSurfaceRoleTopLevel:
		xdgSurface.SetData(server.wlScene.Tree().NewXDGSurface(xdgSurface.TopLevel().Base()))
		win := server.windows.add(xdgSurface, false)
		toplevel := xdgSurface.TopLevel()
		toplevel.OnRequestMove(func(client wlroots.SeatClient, serial uint32) {
			server.logShellError(server.xdg.Move(win.id))
			server.flush()
		})
		toplevel.OnRequestResize(func(client wlroots.SeatClient, serial uint32, edges wlroots.Edges) {
			server.logShellError(server.xdg.Resize(win.id, sceneEdges(edges)))
			server.flush()
		})
	default:
		logrus.WithField("role", xdgSurface.Role()).Warnln("xdg surface without a usable role")
		return
	}
	xdgSurface.OnMap(server.handleMapXDGSurface)
	xdgSurface.OnUnmap(server.handleUnmapXDGSurface)
	xdgSurface.OnDestroy(server.handleDestroyXDGSurface)
}

func (server *Server) logShellError(err error) {
	if err != nil {
		logrus.WithError(err).Warnln("Client request failed")
	}
}

// popupPositioner describes where wlroots already placed a popup, relative to its parent's window geometry
func popupPositioner(win, parent *window) shell.Positioner {
	box := win.xdg.Geometry()
	parentBox := parent.xdg.Geometry()
	node := win.xdg.SceneTree().Node()
	return shell.Positioner{
		Size: generaldata.Vector2i{X: box.Width, Y: box.Height},
		AnchorRect: generaldata.Rect{
			X: float64(node.X() + box.X - parentBox.X),
			Y: float64(node.Y() + box.Y - parentBox.Y),
			W: 1,
			H: 1,
		},
		Anchor:  scene.EdgeTop | scene.EdgeLeft,
		Gravity: scene.EdgeBottom | scene.EdgeRight,
	}
}

func (server *Server) handleMapXDGSurface(xdgSurface wlroots.XDGSurface) {
	/* Called when the surface is mapped, or ready to display on-screen. */
	defer server.flush()
	win := server.windows.find(xdgSurface)
	if win == nil {
		return
	}
	if win.surface == nil {
		s, err := server.xdg.NewSurface(win.id, &wlClient{server: server, id: win.id})
		if err != nil {
			server.logShellError(err)
			return
		}
		server.windows.setSurface(win, s)
		if win.popup {
			parent := server.windows.get(win.parent)
			if parent == nil {
				logrus.WithField("window", win.id).Warnln("Popup parent went away before the popup mapped")
				return
			}
			err = server.xdg.GetPopup(win.id, win.parent, popupPositioner(win, parent))
		} else {
			err = server.xdg.GetToplevel(win.id)
		}
		if err != nil {
			server.logShellError(err)
			return
		}
	}
	win.mapped = true
	server.commitWindow(win)
	logrus.WithFields(logrus.Fields{"window": win.id, "surface": win.surface.ID()}).Debugln("Window mapped")
}

func (server *Server) handleUnmapXDGSurface(xdgSurface wlroots.XDGSurface) {
	/* Called when the surface is unmapped, and should no longer be shown. */
	defer server.flush()
	win := server.windows.find(xdgSurface)
	if win == nil || !win.mapped {
		return
	}
	win.mapped = false
	server.logShellError(server.xdg.Commit(win.id, nil))
}

func (server *Server) handleDestroyXDGSurface(xdgSurface wlroots.XDGSurface) {
	defer server.flush()
	win := server.windows.find(xdgSurface)
	if win == nil {
		return
	}
	server.windows.remove(win)
	if win.surface != nil {
		server.xdg.Destroy(win.id)
	}
}

// commitWindow hands the current window geometry to the scene as a new buffer
func (server *Server) commitWindow(win *window) {
	box := win.xdg.Geometry()
	win.geometry = box
	if box.Width > 0 && box.Height > 0 {
		geometry := generaldata.Rect{X: float64(box.X), Y: float64(box.Y), W: float64(box.Width), H: float64(box.Height)}
		server.logShellError(server.xdg.SetWindowGeometry(win.id, geometry))
	}
	server.logShellError(server.xdg.Commit(win.id, &scene.Buffer{
		Handle: uint64(win.id),
		Size:   generaldata.Vector2i{X: box.Width, Y: box.Height},
	}))
}

// syncWindows picks up geometry changes clients made on their own.
// There is no commit hook, so this runs before every frame
func (server *Server) syncWindows() {
	for _, win := range server.windows.byID {
		if !win.mapped || win.surface == nil {
			continue
		}
		if win.xdg.Geometry() != win.geometry {
			server.commitWindow(win)
		}
		if win.popup {
			if parent := server.windows.get(win.parent); parent != nil {
				server.logShellError(server.xdg.Reposition(win.id, popupPositioner(win, parent)))
			}
		}
	}
}

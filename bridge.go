package main

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/swaywm/go-wlroots/wlroots"

	generaldata "github.com/mstarongithub/way2gay/general-data"
	"github.com/mstarongithub/way2gay/render"
	"github.com/mstarongithub/way2gay/scene"
	"github.com/mstarongithub/way2gay/shell"
)

// window ties an xdg surface of wlroots to its surface in the scene
type window struct {
	id    shell.ObjectID
	xdg   wlroots.XDGSurface
	popup bool
	// Zero for toplevels
	parent  shell.ObjectID
	surface *scene.Surface
	mapped  bool
	// Last geometry handed to the scene, compared against on every sync
	geometry wlroots.GeoBox
}

type windows struct {
	next    shell.ObjectID
	byID    map[shell.ObjectID]*window
	byScene map[uint32]*window
}

func newWindows() *windows {
	return &windows{
		byID:    make(map[shell.ObjectID]*window),
		byScene: make(map[uint32]*window),
	}
}

func (w *windows) add(xdg wlroots.XDGSurface, popup bool) *window {
	w.next++
	win := &window{id: w.next, xdg: xdg, popup: popup}
	w.byID[win.id] = win
	return win
}

func (w *windows) get(id shell.ObjectID) *window {
	return w.byID[id]
}

func (w *windows) find(xdg wlroots.XDGSurface) *window {
	for _, win := range w.byID {
		if win.xdg == xdg {
			return win
		}
	}
	return nil
}

func (w *windows) forScene(s *scene.Surface) *window {
	if s == nil {
		return nil
	}
	return w.byScene[s.ID()]
}

func (w *windows) setSurface(win *window, s *scene.Surface) {
	win.surface = s
	w.byScene[s.ID()] = win
}

func (w *windows) remove(win *window) {
	delete(w.byID, win.id)
	if win.surface != nil {
		delete(w.byScene, win.surface.ID())
	}
}

// nodeRenderer lets the compositor drive the wlroots scene graph.
// Textures are client buffers (the buffer handle is the window's object id), a blit
// moves the window's scene node to the target position and stacks it on top.
// Pixels are never touched, so there are no offscreen buffers and no uploads of images
type nodeRenderer struct {
	windows  *windows
	next     render.TextureID
	textures map[render.TextureID]shell.ObjectID
}

func newNodeRenderer(w *windows) *nodeRenderer {
	return &nodeRenderer{windows: w, textures: make(map[render.TextureID]shell.ObjectID)}
}

func (n *nodeRenderer) window(src render.Source) (shell.ObjectID, error) {
	if src.Handle == 0 {
		return 0, fmt.Errorf("%w: only client buffers can be presented", render.ErrUnsupported)
	}
	id := shell.ObjectID(src.Handle)
	if n.windows.get(id) == nil {
		return 0, fmt.Errorf("%w: no window %d", render.ErrUnknownTexture, id)
	}
	return id, nil
}

func (n *nodeRenderer) Upload(src render.Source) (render.TextureID, error) {
	id, err := n.window(src)
	if err != nil {
		return 0, err
	}
	n.next++
	n.textures[n.next] = id
	return n.next, nil
}

func (n *nodeRenderer) Update(tex render.TextureID, src render.Source) error {
	if _, ok := n.textures[tex]; !ok {
		return fmt.Errorf("%w: %d", render.ErrUnknownTexture, tex)
	}
	id, err := n.window(src)
	if err != nil {
		return err
	}
	n.textures[tex] = id
	return nil
}

func (n *nodeRenderer) Release(tex render.TextureID) {
	delete(n.textures, tex)
}

func (n *nodeRenderer) Begin(viewport image.Rectangle) (render.Target, error) {
	return &nodeTarget{renderer: n, viewport: viewport}, nil
}

func (n *nodeRenderer) End() error {
	return nil
}

func (n *nodeRenderer) Offscreen(image.Point) (render.Offscreen, error) {
	return nil, render.ErrUnsupported
}

// place moves the node of the window behind tex. Popups are positioned by wlroots relative to their parent
func (n *nodeRenderer) place(tex render.TextureID, pos image.Point) error {
	id, ok := n.textures[tex]
	if !ok {
		return fmt.Errorf("%w: %d", render.ErrUnknownTexture, tex)
	}
	win := n.windows.get(id)
	if win == nil {
		return fmt.Errorf("%w: window %d is gone", render.ErrUnknownTexture, id)
	}
	node := win.xdg.SceneTree().Node()
	if !win.popup {
		node.SetPosition(float64(pos.X), float64(pos.Y))
	}
	node.RaiseToTop()
	return nil
}

type nodeTarget struct {
	renderer *nodeRenderer
	viewport image.Rectangle
}

func (t *nodeTarget) Size() image.Point {
	return t.viewport.Size()
}

// The wlroots scene clears outputs itself
func (t *nodeTarget) Clear(color.Color)         {}
func (t *nodeTarget) ClearRect(image.Rectangle) {}

// Blit places in layout coordinates, the node tree spans every output
func (t *nodeTarget) Blit(tex render.TextureID, tf render.Transform, _ render.Origin, _ render.PixelFormat) error {
	return t.renderer.place(tex, tf.Target.Min)
}

// wlClient forwards what the scene asks of a window to its xdg surface
type wlClient struct {
	server *Server
	id     shell.ObjectID
}

func (c *wlClient) Configure(size generaldata.Vector2i, states scene.States) {
	win := c.server.windows.get(c.id)
	if win == nil || win.popup || !win.mapped {
		return
	}
	if !size.Empty() {
		win.xdg.TopLevelSetSize(uint32(size.X), uint32(size.Y))
	}
	win.xdg.TopLevel().SetActivated(states.Activated)
}

func (c *wlClient) Close() {
	logrus.WithField("window", c.id).Infoln("Closing windows on request isn't available with the wlroots backend")
}

func (c *wlClient) PopupDone() {
	logrus.WithField("window", c.id).Debugln("Popup dismissed, wlroots tells the client once it unmaps")
}

// Frame callbacks are sent by the wlroots scene output after every commit
func (c *wlClient) FrameDone(time.Time) {}

package shell

import (
	"github.com/sirupsen/logrus"

	"github.com/mstarongithub/way2gay/scene"
)

const gtkShellProtocol = "gtk_shell1"

// GtkShell adapts gtk_shell1. A gtk surface extends a surface that already has a shell role
type GtkShell struct {
	scene    *scene.Scene
	surfaces objects[*scene.Surface]
}

func NewGtkShell(sc *scene.Scene) *GtkShell {
	return &GtkShell{
		scene:    sc,
		surfaces: newObjects[*scene.Surface](gtkShellProtocol),
	}
}

// GetGtkSurface attaches to s. GTK draws its own shadows, so we stop drawing ours
func (g *GtkShell) GetGtkSurface(id ObjectID, s *scene.Surface) error {
	if s == nil || s.Destroyed() {
		return protocolError(gtkShellProtocol, id, ErrInvalidObject, 0, "no surface")
	}
	if err := g.surfaces.add(id, s); err != nil {
		return err
	}
	s.SetClientShadow(true)
	return nil
}

// SetDBusProperties only uses the application id, the menu paths are for the menu server
func (g *GtkShell) SetDBusProperties(id ObjectID, applicationID string) error {
	s, err := g.surfaces.get(id)
	if err != nil {
		return err
	}
	if applicationID != "" {
		s.SetAppID(applicationID)
	}
	return nil
}

// SetModal keeps a modal dialog on top of its parent
func (g *GtkShell) SetModal(id ObjectID) error {
	s, err := g.surfaces.get(id)
	if err != nil {
		return err
	}
	g.scene.Raise(s)
	g.scene.Activate(s)
	return nil
}

func (g *GtkShell) RequestFocus(id ObjectID) error {
	s, err := g.surfaces.get(id)
	if err != nil {
		return err
	}
	if s.Minimized() {
		logrus.WithField("surface", s.ID()).Debugln("Ignoring focus request of minimized surface")
		return nil
	}
	g.scene.Activate(s)
	return nil
}

// Destroy only drops the extension, the surface itself belongs to its shell
func (g *GtkShell) Destroy(id ObjectID) {
	s, ok := g.surfaces.remove(id)
	if ok && !s.Destroyed() {
		s.SetClientShadow(false)
	}
}

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

const menuServerProtocol = "org_originull_menuserver"

// MenuServer holds the global menu bar. There is at most one, it sits at the top
// of an output above everything else and reserves its height there
type MenuServer struct {
	scene   *scene.Scene
	id      ObjectID
	surface *scene.Surface
	output  *scene.Output
	height  int
}

func NewMenuServer(sc *scene.Scene) *MenuServer {
	return &MenuServer{scene: sc}
}

// Surface returns the menu bar surface, nil if no menu server is registered
func (m *MenuServer) Surface() *scene.Surface {
	return m.surface
}

// Register creates the menu bar surface on the named output
func (m *MenuServer) Register(id ObjectID, client scene.Client, output string, height int) (*scene.Surface, error) {
	if m.surface != nil {
		return nil, protocolError(menuServerProtocol, id, ErrInvalidRole, 0, "menu server %d is already registered", m.id)
	}
	if height <= 0 {
		return nil, protocolError(menuServerProtocol, id, ErrInvalidGeometry, 0, "height %d", height)
	}
	var o *scene.Output
	if output != "" {
		o = m.scene.OutputByName(output)
	} else if outputs := m.scene.Outputs(); len(outputs) > 0 {
		o = outputs[0]
	}
	if o == nil {
		return nil, protocolError(menuServerProtocol, id, ErrInvalidOutput, 0, "no output %q", output)
	}
	r := o.Rect()
	s := m.scene.NewSurface(scene.SurfaceOptions{
		Role:     scene.RoleMenuServer,
		Position: r.Pos().Round(),
		Client:   client,
	})
	m.id, m.surface, m.output, m.height = id, s, o, height
	o.Reserve(s, scene.EdgeTop, height)
	s.Configure(generaldata.Vector2i{X: int(r.W), Y: height})
	logrus.WithFields(logrus.Fields{"output": o.Name(), "height": height}).Infoln("Menu server registered")
	return s, nil
}

func (m *MenuServer) Commit(id ObjectID, buffer *scene.Buffer) error {
	if m.surface == nil || id != m.id {
		return protocolError(menuServerProtocol, id, ErrInvalidObject, 0, "not the registered menu server")
	}
	// Outputs can move while the menu bar lives
	m.surface.SetPosition(m.output.Rect().Pos().Round())
	m.surface.Commit(buffer)
	return nil
}

func (m *MenuServer) Unregister(id ObjectID) {
	if m.surface == nil || id != m.id {
		return
	}
	m.output.Unreserve(m.surface)
	m.scene.Destroy(m.surface)
	m.surface, m.output = nil, nil
	logrus.Infoln("Menu server unregistered")
}

// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package shell translates the different client shell protocols into calls on
// scene surfaces. The protocol library calls into one adapter per protocol; the
// adapters only remember which protocol object belongs to which surface, every
// bit of drawing and input state lives in the scene.
package shell

import (
	"errors"

	"github.com/sirupsen/logrus"

	generaldata "github.com/mstarongithub/way2gay/general-data"
	"github.com/mstarongithub/way2gay/scene"
)

// ObjectID identifies a protocol object of one client connection
type ObjectID uint32

// GrabRequester starts interactive grabs on behalf of clients. The input router implements it
type GrabRequester interface {
	BeginMove(s *scene.Surface) error
	BeginResize(s *scene.Surface, edges scene.Edges, anchored bool) error
}

// Offset between cascaded windows
const cascadeStep = 24

// objects maps protocol objects to their adapter side state
type objects[T any] struct {
	protocol string
	m        map[ObjectID]T
}

func newObjects[T any](protocol string) objects[T] {
	return objects[T]{protocol: protocol, m: make(map[ObjectID]T)}
}

func (o *objects[T]) add(id ObjectID, v T) error {
	if _, ok := o.m[id]; ok {
		return protocolError(o.protocol, id, ErrInvalidObject, 0, "object already exists")
	}
	o.m[id] = v
	return nil
}

func (o *objects[T]) get(id ObjectID) (T, error) {
	v, ok := o.m[id]
	if !ok {
		var zero T
		return zero, protocolError(o.protocol, id, ErrInvalidObject, 0, "no such object")
	}
	return v, nil
}

func (o *objects[T]) remove(id ObjectID) (T, bool) {
	v, ok := o.m[id]
	delete(o.m, id)
	return v, ok
}

func (o *objects[T]) len() int {
	return len(o.m)
}

// transitionError turns a rejected role change into a protocol error
func transitionError(protocol string, id ObjectID, code uint32, err error) error {
	if errors.Is(err, scene.ErrInvalidTransition) || errors.Is(err, scene.ErrDestroyed) {
		return protocolError(protocol, id, ErrInvalidRole, code, "%s", err)
	}
	return err
}

// placeWindow centers a newly mapped window on the available area of its output,
// stepping down and right while another window already sits on the same spot.
func placeWindow(sc *scene.Scene, s *scene.Surface) {
	output := sc.PrimaryOutput(s)
	if output == nil {
		return
	}
	area := output.AvailableArea()
	size := s.DecoratedRect()
	pos := generaldata.Vector2i{
		X: int(area.X + (area.W-size.W)/2),
		Y: int(area.Y + (area.H-size.H)/2),
	}
	if pos.X < int(area.X) {
		pos.X = int(area.X)
	}
	if pos.Y < int(area.Y) {
		pos.Y = int(area.Y)
	}
	taken := map[generaldata.Vector2i]bool{}
	for _, other := range sc.Layers().Members(scene.LayerNormal) {
		if other != s {
			taken[other.Position()] = true
		}
	}
	for i := 0; taken[pos] && i < 32; i++ {
		pos = pos.Add(generaldata.Vector2i{X: cascadeStep, Y: cascadeStep})
	}
	s.SetAbsolutePosition(pos)
	logrus.WithFields(logrus.Fields{"surface": s.ID(), "position": pos.String()}).Debugln("Placed new window")
}

// mapWindow makes a freshly mapped window visible on top and focused
func mapWindow(sc *scene.Scene, s *scene.Surface) {
	placeWindow(sc, s)
	sc.Raise(s)
	sc.Activate(s)
}

// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package screencopy hands out copies of composited frames.
// A capture waits for the next frame of its output and never holds up compositing.
package screencopy

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mstarongithub/way2gay/compositor"
	"github.com/mstarongithub/way2gay/render"
	"github.com/mstarongithub/way2gay/scene"
	"github.com/mstarongithub/way2gay/util/multiplexer"
)

var (
	ErrUnknownOutput = errors.New("unknown output")
	ErrClosed        = errors.New("screencopy service closed")
	ErrEmptyRegion   = errors.New("capture region outside of output")
)

// How many damage notifications a watcher may fall behind
const watchBuffer = 16

const listenerName = "screencopy"

// Frame is the result of a capture
type Frame struct {
	Output string
	// Captured area in layout coordinates
	Region image.Rectangle
	// Nil if the output's renderer can't read back pixels
	Image *image.RGBA
	Time  time.Time
	Err   error
}

// Damage tells watchers an output got a new frame
type Damage struct {
	Output string
	Rect   image.Rectangle
	Time   time.Time
}

type capture struct {
	region image.Rectangle
	frames chan Frame
}

type Service struct {
	scene      *scene.Scene
	compositor *compositor.Compositor

	pending map[*scene.Output][]capture
	locked  map[*scene.Output][]*scene.SurfaceView
	damage  *multiplexer.OneToMany[Damage]
	closed  bool
}

// New creates the service and hooks it onto the frames c finishes
func New(sc *scene.Scene, c *compositor.Compositor) (*Service, error) {
	s := &Service{
		scene:      sc,
		compositor: c,
		pending:    make(map[*scene.Output][]capture),
		locked:     make(map[*scene.Output][]*scene.SurfaceView),
		damage:     multiplexer.NewOneToMany[Damage](watchBuffer),
	}
	if err := c.FrameRendered.Connect(listenerName, s.frameRendered); err != nil {
		return nil, err
	}
	return s, nil
}

// Capture asks for the next frame of output, optionally only the part inside region.
// The channel gets exactly one frame and is closed afterwards
func (s *Service) Capture(output string, region *image.Rectangle) (<-chan Frame, error) {
	if s.closed {
		return nil, ErrClosed
	}
	o := s.scene.OutputByName(output)
	if o == nil {
		return nil, fmt.Errorf("%s: %w", output, ErrUnknownOutput)
	}
	area := o.Rect().Image()
	if region != nil {
		area = region.Intersect(area)
		if area.Empty() {
			return nil, fmt.Errorf("%v on %s: %w", *region, output, ErrEmptyRegion)
		}
	}

	frames := make(chan Frame, 1)
	s.pending[o] = append(s.pending[o], capture{region: area, frames: frames})
	logrus.WithFields(logrus.Fields{"output": output, "region": area.String()}).Debugln("Capture requested")
	s.scene.RequestRender()
	return frames, nil
}

// Pending counts the captures waiting for a frame of output
func (s *Service) Pending(output string) int {
	o := s.scene.OutputByName(output)
	if o == nil {
		return 0
	}
	return len(s.pending[o])
}

// lockViews keeps the textures of everything on o as they were drawn into the finished frame
// while its pixels are read back
func (s *Service) lockViews(o *scene.Output) {
	views := []*scene.SurfaceView{}
	for _, surface := range s.scene.Surfaces() {
		v := surface.ViewForOutput(o)
		if v == nil || v.Locked() {
			continue
		}
		v.Lock()
		views = append(views, v)
	}
	s.locked[o] = views
}

func (s *Service) unlockViews(o *scene.Output) {
	for _, v := range s.locked[o] {
		v.Unlock()
	}
	delete(s.locked, o)
}

// Watch returns a channel getting a notification for every finished frame.
// Watchers that don't keep up miss notifications
func (s *Service) Watch(name string) (<-chan Damage, error) {
	if s.closed {
		return nil, ErrClosed
	}
	return s.damage.MakeReceiver(name)
}

func (s *Service) Unwatch(name string) {
	s.damage.CloseReceiver(name)
}

func (s *Service) frameRendered(f compositor.Frame) {
	o := f.Output
	captures := s.pending[o]
	delete(s.pending, o)

	if len(captures) > 0 {
		s.lockViews(o)
		defer s.unlockViews(o)
	}
	reader, canRead := o.Renderer().(render.Reader)
	for _, c := range captures {
		frame := Frame{Output: o.Name(), Region: c.region, Time: f.Time}
		if canRead {
			frame.Image, frame.Err = reader.ReadPixels(c.region)
		}
		c.frames <- frame
		close(c.frames)
	}
	if len(captures) > 0 {
		logrus.WithFields(logrus.Fields{"output": o.Name(), "captures": len(captures)}).Debugln("Delivered captures")
	}

	if err := s.damage.Send(Damage{Output: o.Name(), Rect: o.Rect().Image(), Time: f.Time}); err != nil {
		logrus.WithError(err).Debugln("Dropped damage notification")
	}
}

// DropOutput fails every capture waiting on an output that went away
func (s *Service) DropOutput(o *scene.Output) {
	s.fail(o, fmt.Errorf("%s: %w", o.Name(), ErrUnknownOutput))
}

func (s *Service) fail(o *scene.Output, err error) {
	for _, c := range s.pending[o] {
		c.frames <- Frame{Output: o.Name(), Region: c.region, Err: err}
		close(c.frames)
	}
	delete(s.pending, o)
	s.unlockViews(o)
}

// Close fails every pending capture and stops all watchers
func (s *Service) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for o := range s.pending {
		s.fail(o, ErrClosed)
	}
	s.compositor.FrameRendered.Disconnect(listenerName)
	s.damage.CloseSender()
}

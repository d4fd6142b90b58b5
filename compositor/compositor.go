// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package compositor turns the scene into one frame per output.
// Surfaces are drawn bottom to top in the order the scene hands them out,
// chrome and shadows are composed offscreen first if the renderer can do that.
// Nothing in here waits for clients: a surface without content just doesn't show up this frame.
package compositor

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/mstarongithub/way2gay/decoration"
	"github.com/mstarongithub/way2gay/scene"
	"github.com/mstarongithub/way2gay/util/signal"
)

const (
	ProductName = "way2gay"
	// Distance of the desktop info label to the bottom right corner of the output
	InfoMargin = 12
)

var ErrNoRenderer = errors.New("output has no renderer")

// Frame describes one finished frame of an output
type Frame struct {
	Output *scene.Output
	Time   time.Time
	// Blits into the main frame
	Blits   int
	Skipped int
	// Surfaces dropped from this frame because the renderer failed on them
	Failed int
}

type Compositor struct {
	scene *scene.Scene
	decor *decoration.Renderer
	info  string
	label *image.RGBA

	caches map[*scene.Output]*textureCache
	last   map[*scene.Output]Frame

	// Emitted after a frame ended, before the clients get their frame callbacks
	FrameRendered signal.Signal[Frame]
}

func New(sc *scene.Scene) *Compositor {
	return &Compositor{
		scene:  sc,
		decor:  decoration.New(sc),
		info:   SystemInfo(),
		caches: make(map[*scene.Output]*textureCache),
		last:   make(map[*scene.Output]Frame),
	}
}

// SystemInfo names the product and the running kernel
func SystemInfo() string {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		logrus.WithError(err).Debugln("Failed to get kernel info")
		return ProductName
	}
	return fmt.Sprintf(
		"%s on %s %s",
		ProductName,
		unix.ByteSliceToString(u.Sysname[:]),
		unix.ByteSliceToString(u.Release[:]),
	)
}

func (c *Compositor) Decorations() *decoration.Renderer {
	return c.decor
}

func (c *Compositor) Info() string {
	return c.info
}

// LastFrame returns the stats of the most recent frame on o
func (c *Compositor) LastFrame(o *scene.Output) (Frame, bool) {
	f, ok := c.last[o]
	return f, ok
}

// Textures counts the chrome textures currently held on o
func (c *Compositor) Textures(o *scene.Output) int {
	if cache, ok := c.caches[o]; ok {
		return cache.len()
	}
	return 0
}

// ReleaseOutput drops every texture the compositor holds on o.
// Must happen before the output goes away
func (c *Compositor) ReleaseOutput(o *scene.Output) {
	if cache, ok := c.caches[o]; ok {
		cache.release()
		delete(c.caches, o)
	}
	delete(c.last, o)
}

func (c *Compositor) cacheFor(o *scene.Output) *textureCache {
	cache, ok := c.caches[o]
	if !ok {
		cache = newTextureCache(o.Renderer())
		c.caches[o] = cache
	}
	return cache
}

// RenderAll draws a frame on every output. Failing outputs get logged and skipped
func (c *Compositor) RenderAll(now time.Time) []Frame {
	frames := []Frame{}
	for _, o := range c.scene.Outputs() {
		f, err := c.RenderOutput(o, now)
		if err != nil {
			logrus.WithError(err).WithField("output", o.Name()).Errorln("Failed to render output")
			continue
		}
		frames = append(frames, f)
	}
	return frames
}

// RenderOutput draws exactly one frame on o
func (c *Compositor) RenderOutput(o *scene.Output, now time.Time) (Frame, error) {
	frame := Frame{Output: o, Time: now}
	r := o.Renderer()
	if r == nil {
		return frame, fmt.Errorf("%s: %w", o.Name(), ErrNoRenderer)
	}
	viewport := o.Rect().Image()
	target, err := r.Begin(viewport)
	if err != nil {
		return frame, fmt.Errorf("begin frame on %s: %w", o.Name(), err)
	}
	settings := c.scene.Settings()
	target.Clear(settings.Background)

	d := &drawer{
		compositor: c,
		output:     o,
		renderer:   r,
		target:     target,
		viewport:   viewport,
		cache:      c.cacheFor(o),
		frame:      &frame,
	}
	cursor := c.scene.Cursor()
	labelDrawn := !settings.ShowDesktopInfo
	drawn := []*scene.Surface{}
	for s := range c.scene.SurfacesInDrawOrder() {
		if s == cursor {
			continue
		}
		if !labelDrawn && !isRootLayer(s.Layer()) {
			d.drawInfoLabel()
			labelDrawn = true
		}
		if d.drawSurface(s) {
			drawn = append(drawn, s)
		}
	}
	if !labelDrawn {
		d.drawInfoLabel()
	}
	if settings.SoftwareCursor && cursor != nil {
		d.drawSurface(cursor)
	}

	if err := r.End(); err != nil {
		return frame, fmt.Errorf("end frame on %s: %w", o.Name(), err)
	}
	d.cache.sweep()
	c.last[o] = frame

	logrus.WithFields(logrus.Fields{
		"output":  o.Name(),
		"blits":   frame.Blits,
		"skipped": frame.Skipped,
		"failed":  frame.Failed,
	}).Debugln("Frame done")
	c.FrameRendered.Emit(frame)

	for _, s := range drawn {
		if s.Destroyed() || c.scene.PrimaryOutput(s) != o {
			continue
		}
		s.Client().FrameDone(now)
	}
	return frame, nil
}

func isRootLayer(l scene.Layer) bool {
	switch l {
	case scene.LayerBackground, scene.LayerDesktop, scene.LayerBottom:
		return true
	}
	return false
}

func (c *Compositor) infoLabel() *image.RGBA {
	if c.label == nil {
		c.label = decoration.Label(c.info, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	}
	return c.label
}

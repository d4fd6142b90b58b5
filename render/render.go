// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package render is the boundary between the compositor and whatever actually
// puts pixels on the screen. The compositor only ever talks to a Renderer:
// textures get uploaded, blitted with a target transform and released again.
// Software is the in-process implementation used for screen capture and tests,
// the wlroots backend brings its own.
package render

import (
	"errors"
	"image"
	"image/color"
)

var (
	// ErrUnsupported is returned by renderers that can't provide a primitive (e.g. offscreen buffers)
	ErrUnsupported = errors.New("operation not supported by renderer")
	// ErrAllocation is returned when a texture or framebuffer can't be allocated
	ErrAllocation = errors.New("allocation failed")
	// ErrUnknownTexture is returned when a texture id isn't known to the renderer
	ErrUnknownTexture = errors.New("unknown texture")
	// ErrNoFrame is returned when drawing outside of Begin/End
	ErrNoFrame = errors.New("no frame in progress")
)

// Origin describes where row 0 of a buffer lives
type Origin int

const (
	OriginTopLeft = Origin(iota)
	OriginBottomLeft
)

func (o Origin) String() string {
	if o == OriginBottomLeft {
		return "bottom-left"
	}
	return "top-left"
}

// PixelFormat of a client buffer or texture
type PixelFormat int

const (
	FormatARGB8888 = PixelFormat(iota)
	// Same as ARGB8888 but the alpha channel must be ignored
	FormatXRGB8888
	FormatABGR8888
)

func (f PixelFormat) Opaque() bool {
	return f == FormatXRGB8888
}

func (f PixelFormat) String() string {
	switch f {
	case FormatARGB8888:
		return "argb8888"
	case FormatXRGB8888:
		return "xrgb8888"
	case FormatABGR8888:
		return "abgr8888"
	default:
		return "unknown"
	}
}

// TextureID is a renderer owned handle. Zero is never a valid texture
type TextureID uint32

// Source is the content a texture gets created from.
// Renderers that present client buffers themselves only look at Handle
type Source struct {
	Image  image.Image
	Handle uint64
	Format PixelFormat
}

// Transform places a texture inside a target.
// Target is given in the same coordinate space as Viewport, the viewport being
// the area the target covers (the output rect for a main frame, 0,0,w,h for offscreen buffers)
type Transform struct {
	Target   image.Rectangle
	Viewport image.Rectangle
}

// TargetTransform builds the transform putting a texture at target inside viewport
func TargetTransform(target, viewport image.Rectangle) Transform {
	return Transform{Target: target, Viewport: viewport}
}

// Local returns the destination rect relative to the target's top left corner
func (t Transform) Local() image.Rectangle {
	return t.Target.Sub(t.Viewport.Min)
}

// Target is something that can be drawn into: the main frame of an output or an offscreen buffer
type Target interface {
	Size() image.Point
	// Clear fills the whole target with c
	Clear(c color.Color)
	// ClearRect makes the area (in target local coordinates) fully transparent
	ClearRect(r image.Rectangle)
	// Blit draws a texture with standard alpha blending
	Blit(tex TextureID, tf Transform, origin Origin, format PixelFormat) error
}

// Offscreen is a target whose contents can be blitted like any texture once done
type Offscreen interface {
	Target
	Texture() TextureID
	Release()
}

type Renderer interface {
	Upload(src Source) (TextureID, error)
	Update(id TextureID, src Source) error
	Release(id TextureID)
	// Begin starts a frame covering viewport (an output rect in layout coordinates)
	Begin(viewport image.Rectangle) (Target, error)
	// End finishes the frame started by Begin
	End() error
	Offscreen(size image.Point) (Offscreen, error)
}

// Reader is implemented by renderers that can hand out the pixels of their last frame
type Reader interface {
	// ReadPixels copies r, given in the coordinates of the frame's viewport
	ReadPixels(r image.Rectangle) (*image.RGBA, error)
}

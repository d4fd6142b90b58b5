// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Software renders into plain RGBA images.
// It backs screen capture and headless rendering
type Software struct {
	// Upper bound for live textures. Zero means unlimited
	MaxTextures int

	textures map[TextureID]*image.RGBA
	next     TextureID
	frame    *image.RGBA
	viewport image.Rectangle
	inFrame  bool
}

func NewSoftware() *Software {
	return &Software{
		textures: make(map[TextureID]*image.RGBA),
	}
}

func (s *Software) alloc(img *image.RGBA) (TextureID, error) {
	if s.MaxTextures > 0 && len(s.textures) >= s.MaxTextures {
		return 0, fmt.Errorf("texture limit of %d reached: %w", s.MaxTextures, ErrAllocation)
	}
	s.next++
	s.textures[s.next] = img
	return s.next, nil
}

func toRGBA(src Source) (*image.RGBA, error) {
	if src.Image == nil {
		return nil, fmt.Errorf("source has no image: %w", ErrUnsupported)
	}
	b := src.Image.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), src.Image, b.Min, draw.Src)
	if src.Format.Opaque() {
		for i := 3; i < len(img.Pix); i += 4 {
			img.Pix[i] = 0xff
		}
	}
	return img, nil
}

func (s *Software) Upload(src Source) (TextureID, error) {
	img, err := toRGBA(src)
	if err != nil {
		return 0, err
	}
	return s.alloc(img)
}

func (s *Software) Update(id TextureID, src Source) error {
	if _, ok := s.textures[id]; !ok {
		return ErrUnknownTexture
	}
	img, err := toRGBA(src)
	if err != nil {
		return err
	}
	s.textures[id] = img
	return nil
}

func (s *Software) Release(id TextureID) {
	delete(s.textures, id)
}

// Textures returns the number of live textures
func (s *Software) Textures() int {
	return len(s.textures)
}

// TextureImage gives access to a texture's pixels. Mostly useful for tests
func (s *Software) TextureImage(id TextureID) (*image.RGBA, bool) {
	img, ok := s.textures[id]
	return img, ok
}

func (s *Software) Begin(viewport image.Rectangle) (Target, error) {
	if s.frame == nil || s.frame.Bounds().Size() != viewport.Size() {
		s.frame = image.NewRGBA(image.Rect(0, 0, viewport.Dx(), viewport.Dy()))
	}
	s.viewport = viewport
	s.inFrame = true
	return &softTarget{renderer: s, img: s.frame}, nil
}

func (s *Software) End() error {
	if !s.inFrame {
		return ErrNoFrame
	}
	s.inFrame = false
	return nil
}

// Frame returns the last rendered frame. The image is reused by the next Begin
func (s *Software) Frame() *image.RGBA {
	return s.frame
}

func (s *Software) ReadPixels(r image.Rectangle) (*image.RGBA, error) {
	if s.frame == nil {
		return nil, ErrNoFrame
	}
	local := r.Intersect(s.viewport).Sub(s.viewport.Min)
	out := image.NewRGBA(image.Rect(0, 0, local.Dx(), local.Dy()))
	draw.Draw(out, out.Bounds(), s.frame, local.Min, draw.Src)
	return out, nil
}

func (s *Software) Offscreen(size image.Point) (Offscreen, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("offscreen size %v: %w", size, ErrAllocation)
	}
	img := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	id, err := s.alloc(img)
	if err != nil {
		return nil, err
	}
	return &softOffscreen{softTarget: softTarget{renderer: s, img: img}, id: id}, nil
}

type softTarget struct {
	renderer *Software
	img      *image.RGBA
}

func (t *softTarget) Size() image.Point {
	return t.img.Bounds().Size()
}

func (t *softTarget) Clear(c color.Color) {
	draw.Draw(t.img, t.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

func (t *softTarget) ClearRect(r image.Rectangle) {
	draw.Draw(t.img, r.Intersect(t.img.Bounds()), image.Transparent, image.Point{}, draw.Src)
}

func (t *softTarget) Blit(tex TextureID, tf Transform, origin Origin, format PixelFormat) error {
	src, ok := t.renderer.textures[tex]
	if !ok {
		return ErrUnknownTexture
	}
	dst := tf.Local()
	if dst.Empty() || !dst.Overlaps(t.img.Bounds()) {
		return nil
	}
	sb := src.Bounds()
	op := xdraw.Over
	if format.Opaque() {
		op = xdraw.Src
	}
	if origin == OriginTopLeft && dst.Size() == sb.Size() {
		xdraw.Draw(t.img, dst, src, sb.Min, op)
		return nil
	}
	sx := float64(dst.Dx()) / float64(sb.Dx())
	sy := float64(dst.Dy()) / float64(sb.Dy())
	// s2d maps source pixels onto the destination
	s2d := f64.Aff3{
		sx, 0, float64(dst.Min.X) - float64(sb.Min.X)*sx,
		0, sy, float64(dst.Min.Y) - float64(sb.Min.Y)*sy,
	}
	if origin == OriginBottomLeft {
		s2d[4] = -sy
		s2d[5] = float64(dst.Min.Y) + float64(sb.Max.Y)*sy
	}
	xdraw.NearestNeighbor.Transform(t.img, s2d, src, sb, op, nil)
	return nil
}

type softOffscreen struct {
	softTarget
	id TextureID
}

func (o *softOffscreen) Texture() TextureID {
	return o.id
}

func (o *softOffscreen) Release() {
	o.renderer.Release(o.id)
}

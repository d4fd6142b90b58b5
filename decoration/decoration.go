// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package decoration draws the server side chrome of windows and keeps the drop shadows around
package decoration

import (
	"image"
	"image/color"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/mattn/go-runewidth"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	generaldata "github.com/mstarongithub/way2gay/general-data"
	"github.com/mstarongithub/way2gay/scene"
)

const (
	CornerRadius = 3
	// Space between the border and the caption, and between the caption and the first button
	CaptionPadding = 3
	Ellipsis       = "..."
)

type ButtonKind int

const (
	ButtonClose ButtonKind = iota
	ButtonMaximize
	ButtonMinimize
)

func (k ButtonKind) String() string {
	switch k {
	case ButtonClose:
		return "close"
	case ButtonMaximize:
		return "maximize"
	case ButtonMinimize:
		return "minimize"
	}
	return "unknown"
}

type Button struct {
	Kind ButtonKind
	// In layout coordinates
	Rect generaldata.Rect
}

// Buttons lists the title bar buttons shown on s. Buttons the client disabled are left out
func Buttons(s *scene.Surface) []Button {
	if !s.ServerDecorated() {
		return nil
	}
	caps := s.Capabilities()
	out := []Button{}
	if caps.CanClose {
		out = append(out, Button{Kind: ButtonClose, Rect: s.CloseButtonRect()})
	}
	if caps.CanMaximize {
		out = append(out, Button{Kind: ButtonMaximize, Rect: s.MaximizeButtonRect()})
	}
	if caps.CanMinimize {
		out = append(out, Button{Kind: ButtonMinimize, Rect: s.MinimizeButtonRect()})
	}
	return out
}

// Renderer draws chrome images and caches them on the surfaces
type Renderer struct {
	scene   *scene.Scene
	face    font.Face
	shadows *simplelru.LRU[shadowKey, *image.RGBA]

	rendered int
}

func New(sc *scene.Scene) *Renderer {
	return &Renderer{scene: sc, face: basicfont.Face7x13, shadows: newShadowCache()}
}

// Rendered counts the chrome images drawn so far
func (r *Renderer) Rendered() int {
	return r.rendered
}

// Image returns the chrome of s, drawing it only if the cached one got invalidated.
// Nil for surfaces without server side decoration
func (r *Renderer) Image(s *scene.Surface) *image.RGBA {
	if !s.ServerDecorated() {
		return nil
	}
	size := s.DecoratedSize()
	if img := s.DecorationImage(); img != nil && img.Bounds().Size() == (image.Point{X: size.X, Y: size.Y}) {
		return img
	}
	img := r.Render(s)
	s.SetDecorationImage(img)
	return img
}

// Render draws the chrome of s into a new image the size of its decorated rect.
// The content area stays transparent
func (r *Renderer) Render(s *scene.Surface) *image.RGBA {
	rect := s.DecoratedRect()
	size := rect.Size()
	img := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	set := r.scene.Settings()
	theme := ThemeFor(set.DarkMode)
	bs, ds := set.BorderSize, set.TitleBarHeight

	bg := image.NewUniform(theme.Background)
	for _, part := range []image.Rectangle{
		image.Rect(0, 0, size.X, ds),
		image.Rect(0, ds, bs, size.Y),
		image.Rect(size.X-bs, ds, size.X, size.Y),
		image.Rect(0, size.Y-bs, size.X, size.Y),
	} {
		draw.Draw(img, part, bg, image.Point{}, draw.Src)
	}
	draw.Draw(img, image.Rect(bs, ds-1, size.X-bs, ds), image.NewUniform(theme.Stroke), image.Point{}, draw.Src)
	roundCorners(img, CornerRadius)

	fg := theme.text(s.Activated())
	origin := rect.Pos()
	right := size.X - bs
	for _, b := range Buttons(s) {
		local := b.Rect.Translate(generaldata.Vector2f{X: -origin.X, Y: -origin.Y}).Image()
		right = min(right, local.Min.X)
		drawButton(img, b.Kind, local, fg)
	}
	r.drawCaption(img, s.Title(), bs+CaptionPadding, right-CaptionPadding, ds, fg)

	r.rendered++
	logrus.WithFields(logrus.Fields{"surface": s.ID(), "size": size.String()}).Traceln("Rendered decoration")
	return img
}

// drawCaption writes title between left and right, vertically centered in the title bar
func (r *Renderer) drawCaption(img *image.RGBA, title string, left, right, ds int, c color.RGBA) {
	if title == "" || right <= left {
		return
	}
	advance := font.MeasureString(r.face, "M").Ceil()
	text := Elide(title, (right-left)/advance)
	if text == "" {
		return
	}
	metrics := r.face.Metrics()
	baseline := (ds-metrics.Height.Ceil())/2 + metrics.Ascent.Ceil()
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: r.face,
		Dot:  fixed.P(left, baseline),
	}
	d.DrawString(text)
}

// Elide shortens s to at most cols terminal columns, marking the cut with an ellipsis
func Elide(s string, cols int) string {
	if runewidth.StringWidth(s) <= cols {
		return s
	}
	if cols <= len(Ellipsis) {
		return ""
	}
	return runewidth.Truncate(s, cols, Ellipsis)
}

// roundCorners clears the pixels outside a circle of radius in both top corners
func roundCorners(img *image.RGBA, radius int) {
	b := img.Bounds()
	rr := float64(radius)
	for y := 0; y < radius && y < b.Dy(); y++ {
		for x := 0; x < radius && x < b.Dx(); x++ {
			dx := rr - (float64(x) + 0.5)
			dy := rr - (float64(y) + 0.5)
			if dx*dx+dy*dy <= rr*rr {
				continue
			}
			img.SetRGBA(b.Min.X+x, b.Min.Y+y, color.RGBA{})
			img.SetRGBA(b.Max.X-1-x, b.Min.Y+y, color.RGBA{})
		}
	}
}

func drawButton(img *image.RGBA, kind ButtonKind, r image.Rectangle, c color.RGBA) {
	glyph := r.Inset(r.Dx() / 4)
	n := min(glyph.Dx(), glyph.Dy())
	switch kind {
	case ButtonClose:
		for i := 0; i < n; i++ {
			img.SetRGBA(glyph.Min.X+i, glyph.Min.Y+i, c)
			img.SetRGBA(glyph.Min.X+n-1-i, glyph.Min.Y+i, c)
		}
	case ButtonMaximize:
		for i := 0; i < n; i++ {
			img.SetRGBA(glyph.Min.X+i, glyph.Min.Y, c)
			img.SetRGBA(glyph.Min.X+i, glyph.Min.Y+n-1, c)
			img.SetRGBA(glyph.Min.X, glyph.Min.Y+i, c)
			img.SetRGBA(glyph.Min.X+n-1, glyph.Min.Y+i, c)
		}
	case ButtonMinimize:
		for i := 0; i < n; i++ {
			img.SetRGBA(glyph.Min.X+i, glyph.Min.Y+n-1, c)
		}
	}
}

// Label renders a single line of text in the caption font on a transparent background
func Label(text string, c color.RGBA) *image.RGBA {
	face := basicfont.Face7x13
	m := face.Metrics()
	img := image.NewRGBA(image.Rect(0, 0, font.MeasureString(face, text).Ceil(), m.Height.Ceil()))
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, m.Ascent.Ceil()),
	}
	d.DrawString(text)
	return img
}

// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package generaldata holds the small value types shared by every part of
// the compositor: integer sizes, float positions and rectangles in global
// layout coordinates.
package generaldata

import (
	"fmt"
	"image"
	"math"
)

// Vector2i is an integer pair. Mostly used for sizes in logical pixels
type Vector2i struct {
	X int
	Y int
}

// Vector2f is a position in global layout coordinates
type Vector2f struct {
	X float64
	Y float64
}

// Rect is a rectangle in global layout coordinates.
// Unlike image.Rectangle, both edges count as inside (see Contains)
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

func (v Vector2i) Empty() bool {
	return v.X <= 0 || v.Y <= 0
}

func (v Vector2i) Add(o Vector2i) Vector2i {
	return Vector2i{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vector2i) Sub(o Vector2i) Vector2i {
	return Vector2i{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vector2i) ToF() Vector2f {
	return Vector2f{X: float64(v.X), Y: float64(v.Y)}
}

func (v Vector2i) String() string {
	return fmt.Sprintf("%dx%d", v.X, v.Y)
}

func (v Vector2f) Add(o Vector2f) Vector2f {
	return Vector2f{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vector2f) Sub(o Vector2f) Vector2f {
	return Vector2f{X: v.X - o.X, Y: v.Y - o.Y}
}

// Round rounds both components to the nearest integer
func (v Vector2f) Round() Vector2i {
	return Vector2i{X: int(math.Round(v.X)), Y: int(math.Round(v.Y))}
}

func (v Vector2f) String() string {
	return fmt.Sprintf("(%g,%g)", v.X, v.Y)
}

// RectAt builds a rect from a position and a size
func RectAt(pos Vector2f, size Vector2i) Rect {
	return Rect{X: pos.X, Y: pos.Y, W: float64(size.X), H: float64(size.Y)}
}

func (r Rect) Pos() Vector2f {
	return Vector2f{X: r.X, Y: r.Y}
}

func (r Rect) Size() Vector2i {
	return Vector2i{X: int(math.Round(r.W)), Y: int(math.Round(r.H))}
}

func (r Rect) Right() float64 {
	return r.X + r.W
}

func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether p lies inside r. Points exactly on an edge are inside.
func (r Rect) Contains(p Vector2f) bool {
	if r.Empty() {
		return false
	}
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Intersects reports whether the two rects share any area
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Intersect returns the overlapping area of both rects, or an empty rect
func (r Rect) Intersect(o Rect) Rect {
	x0 := math.Max(r.X, o.X)
	y0 := math.Max(r.Y, o.Y)
	x1 := math.Min(r.Right(), o.Right())
	y1 := math.Min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Grow expands the rect by m on every side
func (r Rect) Grow(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, W: r.W + 2*m, H: r.H + 2*m}
}

func (r Rect) Translate(v Vector2f) Rect {
	r.X += v.X
	r.Y += v.Y
	return r
}

// Image converts to an image.Rectangle, rounding the corners
func (r Rect) Image() image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.Right())),
		int(math.Round(r.Bottom())),
	)
}

func (r Rect) String() string {
	return fmt.Sprintf("%gx%g+%g+%g", r.W, r.H, r.X, r.Y)
}

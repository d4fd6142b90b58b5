// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package input

import (
	generaldata "github.com/mstarongithub/way2gay/general-data"
	"github.com/mstarongithub/way2gay/scene"
)

// ResizeMargin is how far inside the decorated rect a press still grabs an edge
const ResizeMargin = 3

// edgesAt returns the edges of r within margin of p. Only the band inside r counts,
// outside of it the point belongs to whatever is below
func edgesAt(r generaldata.Rect, p generaldata.Vector2f, margin float64) scene.Edges {
	if !r.Contains(p) {
		return scene.EdgeNone
	}
	edges := scene.EdgeNone
	if p.X < r.X+margin {
		edges |= scene.EdgeLeft
	} else if p.X > r.Right()-margin {
		edges |= scene.EdgeRight
	}
	if p.Y < r.Y+margin {
		edges |= scene.EdgeTop
	} else if p.Y > r.Bottom()-margin {
		edges |= scene.EdgeBottom
	}
	return edges
}

func shapeForEdges(edges scene.Edges) CursorShape {
	switch edges {
	case scene.EdgeTop, scene.EdgeBottom:
		return CursorResizeNS
	case scene.EdgeLeft, scene.EdgeRight:
		return CursorResizeEW
	case scene.EdgeTop | scene.EdgeLeft, scene.EdgeBottom | scene.EdgeRight:
		return CursorResizeNWSE
	case scene.EdgeTop | scene.EdgeRight, scene.EdgeBottom | scene.EdgeLeft:
		return CursorResizeNESW
	}
	return CursorDefault
}

func movable(s *scene.Surface) bool {
	return s.Role().Decoratable() && !s.Maximized() && !s.Fullscreen()
}

func resizable(s *scene.Surface) bool {
	return movable(s)
}

// resizeEdges returns which edges of a server decorated surface p grabs
func resizeEdges(s *scene.Surface, p generaldata.Vector2f) scene.Edges {
	if !s.ServerDecorated() || !resizable(s) {
		return scene.EdgeNone
	}
	return edgesAt(s.DecoratedRect(), p, ResizeMargin)
}

// onDecoration is true when p is on the chrome of s rather than its content
func onDecoration(s *scene.Surface, p generaldata.Vector2f) bool {
	if !s.ServerDecorated() {
		return false
	}
	return !s.ContentRect().Contains(p) || resizeEdges(s, p) != scene.EdgeNone
}

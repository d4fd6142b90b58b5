// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package scene

import (
	generaldata "github.com/mstarongithub/way2gay/general-data"
	"github.com/mstarongithub/way2gay/render"
)

// Reservation is space on an output claimed by a layer shell surface (its exclusive zone)
type Reservation struct {
	Edge Edges
	Size int
}

// Output is one physical display as seen by the scene
type Output struct {
	name     string
	rect     generaldata.Rect
	renderer render.Renderer

	// Keyed by surface id
	reservations map[uint32]Reservation
}

// NewOutput creates an output covering rect in layout coordinates.
// Textures of views on this output are owned by renderer
func NewOutput(name string, rect generaldata.Rect, renderer render.Renderer) *Output {
	return &Output{
		name:         name,
		rect:         rect,
		renderer:     renderer,
		reservations: make(map[uint32]Reservation),
	}
}

func (o *Output) Name() string {
	return o.name
}

func (o *Output) Rect() generaldata.Rect {
	return o.rect
}

func (o *Output) SetRect(r generaldata.Rect) {
	o.rect = r
}

func (o *Output) Renderer() render.Renderer {
	return o.renderer
}

// Reserve claims size pixels along edge for the given surface.
// Only single edges make sense, anything else removes the reservation
func (o *Output) Reserve(s *Surface, edge Edges, size int) {
	switch edge {
	case EdgeTop, EdgeBottom, EdgeLeft, EdgeRight:
		if size > 0 {
			o.reservations[s.id] = Reservation{Edge: edge, Size: size}
			return
		}
	}
	delete(o.reservations, s.id)
}

func (o *Output) Unreserve(s *Surface) {
	delete(o.reservations, s.id)
}

// AvailableArea is the output rect minus all reservations.
// That's where maximized windows go
func (o *Output) AvailableArea() generaldata.Rect {
	r := o.rect
	for _, res := range o.reservations {
		size := float64(res.Size)
		switch res.Edge {
		case EdgeTop:
			r.Y += size
			r.H -= size
		case EdgeBottom:
			r.H -= size
		case EdgeLeft:
			r.X += size
			r.W -= size
		case EdgeRight:
			r.W -= size
		}
	}
	if r.W < 0 {
		r.W = 0
	}
	if r.H < 0 {
		r.H = 0
	}
	return r
}

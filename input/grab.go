// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package input

import (
	"errors"

	generaldata "github.com/mstarongithub/way2gay/general-data"
	"github.com/mstarongithub/way2gay/scene"
)

var (
	ErrGrabActive  = errors.New("another grab is active")
	ErrNotPressed  = errors.New("no button held on that surface")
	ErrNotMovable  = errors.New("surface can't be moved or resized")
	ErrInvalidIcon = errors.New("invalid drag icon")
)

type GrabKind int

const (
	GrabNone GrabKind = iota
	GrabMove
	GrabResize
	GrabDrag
)

func (k GrabKind) String() string {
	switch k {
	case GrabMove:
		return "move"
	case GrabResize:
		return "resize"
	case GrabDrag:
		return "drag"
	}
	return "none"
}

// Grab is the pointer interaction in progress. Only one exists at any time
type Grab struct {
	Kind    GrabKind
	Surface *scene.Surface

	// Move: pointer position relative to the decorated top left corner
	Offset generaldata.Vector2f

	// Resize: where the press happened and what the size was back then
	Press       generaldata.Vector2f
	InitialSize generaldata.Vector2i
	Edges       scene.Edges
	Anchored    bool

	// Drag: the icon following the pointer and the surface under it
	Icon   *scene.Surface
	Target *scene.Surface
}

func (g Grab) Active() bool {
	return g.Kind != GrabNone
}

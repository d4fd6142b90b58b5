// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package scene

import (
	"fmt"
	"iter"

	"golang.org/x/exp/slices"
)

// Layers holds every surface taking part in drawing and hit testing.
// Each layer is ordered bottom to top. Children live in their parent's child list
type Layers struct {
	lists [layerCount][]*Surface
}

// Roots are drawn before the normal stack, their children only after it
var rootLayers = []Layer{LayerBackground, LayerDesktop, LayerBottom}

// Drawn after the normal stack, each surface followed by its children
var upperLayers = []Layer{LayerTop, LayerOverlay, LayerMenuServer}

// Insert appends s at the top of layer. For LayerChild, s is appended to its parent's children
func (l *Layers) Insert(s *Surface, layer Layer) error {
	if s.layer != LayerNone {
		return fmt.Errorf("%s already is in layer %s", s, s.layer)
	}
	switch layer {
	case LayerNone, layerCount:
		return fmt.Errorf("can't insert into layer %s", layer)
	case LayerChild:
		if s.parent == nil {
			return fmt.Errorf("%s has no parent", s)
		}
		s.parent.children = append(s.parent.children, s)
	default:
		if layer < 0 || layer > LayerChild {
			return fmt.Errorf("invalid layer %d", layer)
		}
		l.lists[layer] = append(l.lists[layer], s)
	}
	s.layer = layer
	return nil
}

// Remove takes s out of whichever list it is in. Its own children stay attached to it
func (l *Layers) Remove(s *Surface) bool {
	list := l.listOf(s)
	if list == nil {
		return false
	}
	i := slices.Index(*list, s)
	if i < 0 {
		return false
	}
	*list = slices.Delete(*list, i, i+1)
	s.layer = LayerNone
	return true
}

// Raise moves s to the top of its list, keeping the order of everything else
func (l *Layers) Raise(s *Surface) bool {
	list := l.listOf(s)
	if list == nil {
		return false
	}
	i := slices.Index(*list, s)
	if i < 0 {
		return false
	}
	if i == len(*list)-1 {
		return false
	}
	*list = append(slices.Delete(*list, i, i+1), s)
	return true
}

// Lower moves s to the bottom of its list
func (l *Layers) Lower(s *Surface) bool {
	list := l.listOf(s)
	if list == nil {
		return false
	}
	i := slices.Index(*list, s)
	if i <= 0 {
		return false
	}
	*list = slices.Insert(slices.Delete(*list, i, i+1), 0, s)
	return true
}

func (l *Layers) listOf(s *Surface) *[]*Surface {
	switch s.layer {
	case LayerNone:
		return nil
	case LayerChild:
		if s.parent == nil {
			return nil
		}
		return &s.parent.children
	default:
		return &l.lists[s.layer]
	}
}

// Contains reports whether s is a member of any layer or child list
func (l *Layers) Contains(s *Surface) bool {
	list := l.listOf(s)
	return list != nil && slices.Contains(*list, s)
}

// Members returns a copy of a layer, bottom to top
func (l *Layers) Members(layer Layer) []*Surface {
	if layer <= LayerNone || layer >= LayerChild {
		return nil
	}
	return slices.Clone(l.lists[layer])
}

// DrawOrder yields every member bottom to top: background, desktop and bottom roots,
// the normal stack with each window directly followed by its children, the children of
// background, desktop and bottom surfaces, then top, overlay and menu server with their children
func (l *Layers) DrawOrder() iter.Seq[*Surface] {
	return func(yield func(*Surface) bool) {
		for _, layer := range rootLayers {
			for _, s := range l.lists[layer] {
				if !yield(s) {
					return
				}
			}
		}
		for _, s := range l.lists[LayerNormal] {
			if !drawTree(s, yield) {
				return
			}
		}
		for _, layer := range rootLayers {
			for _, s := range l.lists[layer] {
				for _, c := range s.children {
					if !drawTree(c, yield) {
						return
					}
				}
			}
		}
		for _, layer := range upperLayers {
			for _, s := range l.lists[layer] {
				if !drawTree(s, yield) {
					return
				}
			}
		}
	}
}

// HitTestOrder yields the exact reverse of DrawOrder
func (l *Layers) HitTestOrder() iter.Seq[*Surface] {
	return func(yield func(*Surface) bool) {
		for i := len(upperLayers) - 1; i >= 0; i-- {
			list := l.lists[upperLayers[i]]
			for j := len(list) - 1; j >= 0; j-- {
				if !hitTree(list[j], yield) {
					return
				}
			}
		}
		for i := len(rootLayers) - 1; i >= 0; i-- {
			list := l.lists[rootLayers[i]]
			for j := len(list) - 1; j >= 0; j-- {
				children := list[j].children
				for k := len(children) - 1; k >= 0; k-- {
					if !hitTree(children[k], yield) {
						return
					}
				}
			}
		}
		normal := l.lists[LayerNormal]
		for j := len(normal) - 1; j >= 0; j-- {
			if !hitTree(normal[j], yield) {
				return
			}
		}
		for i := len(rootLayers) - 1; i >= 0; i-- {
			list := l.lists[rootLayers[i]]
			for j := len(list) - 1; j >= 0; j-- {
				if !yield(list[j]) {
					return
				}
			}
		}
	}
}

func drawTree(s *Surface, yield func(*Surface) bool) bool {
	if !yield(s) {
		return false
	}
	for _, c := range s.children {
		if !drawTree(c, yield) {
			return false
		}
	}
	return true
}

func hitTree(s *Surface, yield func(*Surface) bool) bool {
	for i := len(s.children) - 1; i >= 0; i-- {
		if !hitTree(s.children[i], yield) {
			return false
		}
	}
	return yield(s)
}

// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package scene is the protocol independent model of everything on screen.
// Surfaces get created by the shell adapters, live in the layer lists and are
// read by the input router for hit testing and by the compositors for drawing.
// Everything in here must only be touched from the event loop.
package scene

import (
	"errors"
	"fmt"
	"iter"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gitlab.com/mstarongitlab/goutils/sliceutils"

	generaldata "github.com/mstarongithub/way2gay/general-data"
	"github.com/mstarongithub/way2gay/util/signal"
)

var (
	ErrInvalidTransition = errors.New("invalid role transition")
	ErrDestroyed         = errors.New("surface is destroyed")
	ErrUnknownOutput     = errors.New("unknown output")
	ErrInvalidLayer      = errors.New("surface doesn't belong in that layer")
)

// SurfaceOptions describe a new surface
type SurfaceOptions struct {
	Role   Role
	Parent *Surface
	// Top left corner of the decorated rect, relative to the parent's content for children
	Position        generaldata.Vector2i
	Size            generaldata.Vector2i
	ServerDecorated bool
	// Nil means nobody listens, like for cursors
	Client Client
}

// Scene is the single context everything working on surfaces gets handed
type Scene struct {
	settings Settings
	layers   Layers
	surfaces map[uint32]*Surface
	nextID   uint32
	outputs  []*Output

	focused  *Surface
	cursor   *Surface
	dragIcon *Surface

	SurfaceCreated   signal.Signal[*Surface]
	SurfaceDestroyed signal.Signal[*Surface]
	Raised           signal.Signal[*Surface]
	GeometryChanged  signal.Signal[*Surface]
	FocusChanged     signal.Signal[*Surface]
	RenderRequested  signal.Signal[struct{}]
	SettingsChanged  signal.Signal[Settings]
	// Carries the window uuids bottom to top
	ZOrderChanged signal.Signal[[]uuid.UUID]
}

func New(settings Settings) *Scene {
	return &Scene{
		settings: settings.Normalize(),
		surfaces: make(map[uint32]*Surface),
	}
}

func (sc *Scene) Settings() Settings {
	return sc.settings
}

// ApplySettings switches to new settings, throwing away every cached decoration
func (sc *Scene) ApplySettings(settings Settings) {
	sc.settings = settings.Normalize()
	for _, s := range sc.surfaces {
		s.InvalidateDecoration()
	}
	logrus.WithFields(logrus.Fields{
		"title-bar": sc.settings.TitleBarHeight,
		"border":    sc.settings.BorderSize,
	}).Debugln("Applied new scene settings")
	sc.SettingsChanged.Emit(sc.settings)
	sc.RequestRender()
}

// RequestRender asks every output for a new frame
func (sc *Scene) RequestRender() {
	sc.RenderRequested.Emit(struct{}{})
}

// NewSurface creates a surface and puts it into the layer its role belongs in.
// Surfaces with an unknown role join a layer once they get one
func (sc *Scene) NewSurface(opts SurfaceOptions) *Surface {
	sc.nextID++
	client := opts.Client
	if client == nil {
		client = NopClient{}
	}
	s := &Surface{
		scene:    sc,
		id:       sc.nextID,
		uuid:     uuid.New(),
		role:     opts.Role,
		position: opts.Position,
		size:     opts.Size,
		ssd:      opts.ServerDecorated,
		caps:     Capabilities{CanMinimize: true, CanMaximize: true, CanClose: true},
		views:    make(map[*Output]*SurfaceView),
		client:   client,
	}
	if opts.Parent != nil && !opts.Parent.destroyed {
		s.parent = opts.Parent
	}
	sc.surfaces[s.id] = s
	sc.place(s)
	s.logger().Debugln("Surface created")
	sc.SurfaceCreated.Emit(s)
	return s
}

// place inserts s into the layer matching its role and parent
func (sc *Scene) place(s *Surface) {
	layer := LayerForRole(s.role, s.parent != nil)
	if layer == LayerNone {
		return
	}
	if err := sc.layers.Insert(s, layer); err != nil {
		s.logger().WithError(err).Errorln("Failed to insert surface into its layer")
		return
	}
	sc.zOrderChanged()
}

func (sc *Scene) changeRole(s *Surface, role Role) {
	abs := s.AbsolutePosition()
	wasMember := s.layer != LayerNone
	if wasMember {
		sc.layers.Remove(s)
	}
	old := s.role
	s.role = role
	s.InvalidateDecoration()
	if LayerForRole(role, s.parent != nil) == LayerChild {
		s.position = abs.Sub(s.parent.SurfacePosition())
	} else {
		s.position = abs
	}
	if sc.cursor == s && role != RoleCursor {
		sc.cursor = nil
	}
	if sc.dragIcon == s && role != RoleDragIcon {
		sc.dragIcon = nil
	}
	sc.place(s)
	if wasMember && s.layer == LayerNone {
		sc.zOrderChanged()
	}
	s.logger().WithField("old-role", old.String()).Debugln("Role changed")
	sc.RequestRender()
}

func (sc *Scene) reparent(s *Surface, parent *Surface) {
	abs := s.AbsolutePosition()
	wasMember := s.layer != LayerNone
	if wasMember {
		sc.layers.Remove(s)
	}
	s.parent = parent
	if wasMember {
		if LayerForRole(s.role, parent != nil) == LayerChild {
			s.position = abs.Sub(parent.SurfacePosition())
		} else {
			s.position = abs
		}
		sc.place(s)
	}
	sc.geometryChanged(s)
}

// Destroy removes a surface from the scene. Back references to it are cleared first,
// children are detached and dismissed, its textures released
func (sc *Scene) Destroy(s *Surface) {
	if s == nil || s.destroyed {
		return
	}
	log := s.logger()
	for _, other := range sc.surfaces {
		if other.parent != s || other.layer == LayerChild {
			continue
		}
		other.parent = nil
	}
	for _, child := range append([]*Surface(nil), s.children...) {
		if child.role == RolePopup {
			child.client.PopupDone()
		}
		sc.reparent(child, nil)
	}
	if s.layer != LayerNone {
		sc.layers.Remove(s)
	}
	s.parent = nil
	s.children = nil
	s.releaseViews()
	for _, o := range sc.outputs {
		o.Unreserve(s)
	}
	if sc.cursor == s {
		sc.cursor = nil
	}
	if sc.dragIcon == s {
		sc.dragIcon = nil
	}
	delete(sc.surfaces, s.id)
	s.destroyed = true
	s.buffer = nil
	if sc.focused == s {
		sc.focused = nil
		sc.focusNext()
	}
	log.Debugln("Surface destroyed")
	sc.SurfaceDestroyed.Emit(s)
	sc.zOrderChanged()
	sc.RequestRender()
}

// Surface looks up a surface by id
func (sc *Scene) Surface(id uint32) *Surface {
	return sc.surfaces[id]
}

func (sc *Scene) SurfaceByUUID(id uuid.UUID) *Surface {
	for _, s := range sc.surfaces {
		if s.uuid == id {
			return s
		}
	}
	return nil
}

// Surfaces returns every live surface ordered by id
func (sc *Scene) Surfaces() []*Surface {
	out := make([]*Surface, 0, len(sc.surfaces))
	for _, s := range sc.surfaces {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Layers gives read access to the layer lists
func (sc *Scene) Layers() *Layers {
	return &sc.layers
}

// Raise puts s on top of its layer. For children the whole chain of ancestors is raised too.
// Special shell surfaces stay where they are
func (sc *Scene) Raise(s *Surface) bool {
	if s == nil || s.destroyed || s.role.IsSpecial() {
		return false
	}
	chain := []*Surface{}
	for p := s; p != nil; p = p.parent {
		chain = append(chain, p)
		if p.layer != LayerChild {
			break
		}
	}
	changed := false
	for i := len(chain) - 1; i >= 0; i-- {
		if sc.layers.Raise(chain[i]) {
			changed = true
		}
	}
	if !changed {
		return false
	}
	sc.Raised.Emit(s)
	sc.zOrderChanged()
	sc.RequestRender()
	return true
}

// Lower puts s at the bottom of its layer
func (sc *Scene) Lower(s *Surface) bool {
	if s == nil || s.destroyed || s.role.IsSpecial() {
		return false
	}
	if !sc.layers.Lower(s) {
		return false
	}
	sc.zOrderChanged()
	sc.RequestRender()
	return true
}

// Insert adds s on top of layer, which has to be the layer its role belongs in
func (sc *Scene) Insert(s *Surface, layer Layer) error {
	if s.destroyed {
		return ErrDestroyed
	}
	if want := LayerForRole(s.role, s.parent != nil); want != layer {
		return fmt.Errorf("%s belongs in %s, not %s: %w", s, want, layer, ErrInvalidLayer)
	}
	if err := sc.layers.Insert(s, layer); err != nil {
		return err
	}
	sc.zOrderChanged()
	sc.RequestRender()
	return nil
}

// Remove takes s out of its layer, for example when the client unmaps it
func (sc *Scene) Remove(s *Surface) {
	if !sc.layers.Remove(s) {
		return
	}
	if sc.focused == s {
		sc.deactivate()
		sc.focusNext()
	}
	sc.zOrderChanged()
	sc.RequestRender()
}

// SurfacesInDrawOrder yields every surface bottom to top, ending with the drag icon and the cursor
func (sc *Scene) SurfacesInDrawOrder() iter.Seq[*Surface] {
	return func(yield func(*Surface) bool) {
		for s := range sc.layers.DrawOrder() {
			if !yield(s) {
				return
			}
		}
		if sc.dragIcon != nil && !yield(sc.dragIcon) {
			return
		}
		if sc.cursor != nil {
			yield(sc.cursor)
		}
	}
}

// SurfacesInHitTestOrder yields every surface top to bottom. Cursor and drag icon are never hit
func (sc *Scene) SurfacesInHitTestOrder() iter.Seq[*Surface] {
	return sc.layers.HitTestOrder()
}

// SurfaceAt returns the topmost visible surface whose decorated rect contains p
func (sc *Scene) SurfaceAt(p generaldata.Vector2f) *Surface {
	for s := range sc.SurfacesInHitTestOrder() {
		if s.Hidden() || !s.ReadyToRender() {
			continue
		}
		if s.DecoratedRect().Contains(p) {
			return s
		}
	}
	return nil
}

// Activate gives s keyboard focus and marks it active, the previously focused surface gets deactivated
func (sc *Scene) Activate(s *Surface) {
	if s == nil || s.destroyed || s.role.DrawOnly() || sc.focused == s {
		return
	}
	sc.deactivate()
	sc.focused = s
	s.activated = true
	s.InvalidateDecoration()
	s.client.Configure(s.requested, s.states())
	s.logger().Debugln("Surface activated")
	sc.FocusChanged.Emit(s)
	sc.RequestRender()
}

func (sc *Scene) deactivate() {
	prev := sc.focused
	if prev == nil {
		return
	}
	sc.focused = nil
	prev.activated = false
	prev.InvalidateDecoration()
	if !prev.destroyed {
		prev.client.Configure(prev.requested, prev.states())
	}
}

// Focused returns the surface with keyboard focus, if any
func (sc *Scene) Focused() *Surface {
	return sc.focused
}

// focusNext hands focus to the topmost visible window
func (sc *Scene) focusNext() {
	normal := sc.layers.lists[LayerNormal]
	for i := len(normal) - 1; i >= 0; i-- {
		s := normal[i]
		if s.role.IsWindow() && !s.minimized {
			sc.Activate(s)
			return
		}
	}
	sc.FocusChanged.Emit(nil)
}

// CycleFocus raises and activates the bottommost visible window, walking through all windows when repeated
func (sc *Scene) CycleFocus() *Surface {
	candidates := sliceutils.Filter(sc.layers.lists[LayerNormal], func(s *Surface) bool {
		return s.role.IsWindow() && !s.minimized
	})
	if len(candidates) < 2 {
		return nil
	}
	next := candidates[0]
	sc.Raise(next)
	sc.Activate(next)
	return next
}

func (sc *Scene) surfaceHidden(s *Surface) {
	for f := sc.focused; f != nil; f = f.parent {
		if f == s {
			sc.deactivate()
			sc.focusNext()
			return
		}
	}
}

// ClosePopups dismisses every popup
func (sc *Scene) ClosePopups() int {
	popups := sliceutils.Filter(sc.Surfaces(), func(s *Surface) bool {
		return s.role == RolePopup
	})
	for _, p := range popups {
		p.client.PopupDone()
	}
	return len(popups)
}

// SetCursor sets the surface drawn as pointer, nil for none
func (sc *Scene) SetCursor(s *Surface) error {
	if s != nil && s.role != RoleCursor {
		return fmt.Errorf("%s as cursor: %w", s, ErrInvalidTransition)
	}
	sc.cursor = s
	sc.RequestRender()
	return nil
}

func (sc *Scene) Cursor() *Surface {
	return sc.cursor
}

// SetDragIcon sets the surface following the pointer during drag and drop, nil for none
func (sc *Scene) SetDragIcon(s *Surface) error {
	if s != nil && s.role != RoleDragIcon {
		return fmt.Errorf("%s as drag icon: %w", s, ErrInvalidTransition)
	}
	sc.dragIcon = s
	sc.RequestRender()
	return nil
}

func (sc *Scene) DragIcon() *Surface {
	return sc.dragIcon
}

func (sc *Scene) AddOutput(o *Output) error {
	if sc.OutputByName(o.name) != nil {
		return fmt.Errorf("output %s already exists", o.name)
	}
	sc.outputs = append(sc.outputs, o)
	logrus.WithFields(logrus.Fields{"output": o.name, "rect": o.rect.String()}).Infoln("Output added")
	sc.RequestRender()
	return nil
}

// RemoveOutput drops an output after releasing every texture surfaces hold on it
func (sc *Scene) RemoveOutput(o *Output) error {
	i := -1
	for j, other := range sc.outputs {
		if other == o {
			i = j
			break
		}
	}
	if i < 0 {
		return ErrUnknownOutput
	}
	for _, s := range sc.surfaces {
		s.DetachOutput(o)
	}
	sc.outputs = append(sc.outputs[:i], sc.outputs[i+1:]...)
	logrus.WithField("output", o.name).Infoln("Output removed")
	sc.RequestRender()
	return nil
}

func (sc *Scene) Outputs() []*Output {
	return sc.outputs
}

func (sc *Scene) OutputByName(name string) *Output {
	for _, o := range sc.outputs {
		if o.name == name {
			return o
		}
	}
	return nil
}

// OutputAt returns the output containing p, nil if p is outside of all outputs
func (sc *Scene) OutputAt(p generaldata.Vector2f) *Output {
	for _, o := range sc.outputs {
		if o.rect.Contains(p) {
			return o
		}
	}
	return nil
}

// PrimaryOutput is the output showing the largest part of s, or the first one if s isn't visible anywhere
func (sc *Scene) PrimaryOutput(s *Surface) *Output {
	if len(sc.outputs) == 0 {
		return nil
	}
	best := sc.outputs[0]
	bestArea := 0.0
	rect := s.DecoratedRect()
	for _, o := range sc.outputs {
		in := rect.Intersect(o.rect)
		if area := in.W * in.H; area > bestArea {
			best = o
			bestArea = area
		}
	}
	return best
}

// ZOrderUUIDs lists the window uuids of the normal stack, bottom to top
func (sc *Scene) ZOrderUUIDs() []uuid.UUID {
	out := []uuid.UUID{}
	for _, s := range sc.layers.lists[LayerNormal] {
		if s.role.IsWindow() {
			out = append(out, s.uuid)
		}
	}
	return out
}

func (sc *Scene) zOrderChanged() {
	sc.ZOrderChanged.Emit(sc.ZOrderUUIDs())
}

func (sc *Scene) geometryChanged(s *Surface) {
	sc.GeometryChanged.Emit(s)
	sc.RequestRender()
}

// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package scene

import (
	"fmt"
	"image"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	generaldata "github.com/mstarongithub/way2gay/general-data"
	"github.com/mstarongithub/way2gay/render"
)

// Capabilities a client may turn off for its window
type Capabilities struct {
	CanMinimize bool
	CanMaximize bool
	CanClose    bool
}

// Surface is one client window or layer client, no matter which protocol created it.
// All geometry is in logical layout coordinates
type Surface struct {
	scene *Scene
	id    uint32
	uuid  uuid.UUID
	role  Role
	layer Layer

	title string
	appID string

	// Top left corner of the decorated rect. Relative to the parent's content for child surfaces
	position generaldata.Vector2i
	// Content size as last committed
	size generaldata.Vector2i
	// Size last asked of the client
	requested generaldata.Vector2i
	minSize   generaldata.Vector2i
	// Offset of the visible window inside the client buffer (xdg window geometry)
	geometryOffset generaldata.Vector2i

	maximized  bool
	minimized  bool
	fullscreen bool
	activated  bool
	caps       Capabilities

	ssd          bool
	clientShadow bool
	moving       bool

	resizing     bool
	resizeEdges  Edges
	resizeAnchor generaldata.Vector2i
	anchored     bool

	// Geometry to go back to when leaving maximized or fullscreen
	savedPosition generaldata.Vector2i
	savedSize     generaldata.Vector2i

	parent   *Surface
	children []*Surface

	views  map[*Output]*SurfaceView
	buffer *Buffer
	serial uint64
	client Client

	decoration      *image.RGBA
	decorationValid bool

	destroyed bool
}

func (s *Surface) ID() uint32 {
	return s.id
}

func (s *Surface) UUID() uuid.UUID {
	return s.uuid
}

func (s *Surface) Role() Role {
	return s.role
}

func (s *Surface) Layer() Layer {
	return s.layer
}

func (s *Surface) Client() Client {
	return s.client
}

func (s *Surface) Destroyed() bool {
	return s.destroyed
}

func (s *Surface) String() string {
	return fmt.Sprintf("surface %d (%s)", s.id, s.role)
}

func (s *Surface) logger() *logrus.Entry {
	return logrus.WithFields(logrus.Fields{"surface": s.id, "role": s.role.String()})
}

// SetRole switches the surface to a new role, moving it to the layer the new role belongs in.
// Invalid transitions leave the surface untouched
func (s *Surface) SetRole(role Role) error {
	if s.destroyed {
		return ErrDestroyed
	}
	if role == s.role {
		return nil
	}
	if !CanTransition(s.role, role) {
		return fmt.Errorf("%s to %s: %w", s.role, role, ErrInvalidTransition)
	}
	s.scene.changeRole(s, role)
	return nil
}

func (s *Surface) Title() string {
	return s.title
}

func (s *Surface) SetTitle(title string) {
	if title == s.title {
		return
	}
	s.title = title
	s.InvalidateDecoration()
}

func (s *Surface) AppID() string {
	return s.appID
}

func (s *Surface) SetAppID(id string) {
	s.appID = id
}

func (s *Surface) Parent() *Surface {
	return s.parent
}

// Children returns the child surfaces in draw order
func (s *Surface) Children() []*Surface {
	return s.children
}

// SetParent makes s a child of parent. Popups and transients with a parent live in the
// parent's child list instead of a layer of their own. A nil parent detaches s again
func (s *Surface) SetParent(parent *Surface) error {
	if s.destroyed {
		return ErrDestroyed
	}
	if parent == s.parent {
		return nil
	}
	for p := parent; p != nil; p = p.parent {
		if p == s {
			return fmt.Errorf("%s would become its own ancestor: %w", s, ErrInvalidTransition)
		}
	}
	if parent != nil && parent.destroyed {
		return fmt.Errorf("parent: %w", ErrDestroyed)
	}
	s.scene.reparent(s, parent)
	return nil
}

func (s *Surface) Capabilities() Capabilities {
	return s.caps
}

func (s *Surface) SetCapabilities(c Capabilities) {
	if c == s.caps {
		return
	}
	s.caps = c
	s.InvalidateDecoration()
}

// Position is the top left corner of the decorated rect, relative to the parent's content for children
func (s *Surface) Position() generaldata.Vector2i {
	return s.position
}

// SetPosition moves the decorated rect
func (s *Surface) SetPosition(p generaldata.Vector2i) {
	if p == s.position {
		return
	}
	s.position = p
	s.scene.geometryChanged(s)
}

// SetAbsolutePosition moves the decorated rect to p in layout coordinates
func (s *Surface) SetAbsolutePosition(p generaldata.Vector2i) {
	if s.parent != nil && s.layer == LayerChild {
		p = p.Sub(s.parent.SurfacePosition())
	}
	s.SetPosition(p)
}

// SetContentPosition moves the surface so its content ends up at p
func (s *Surface) SetContentPosition(p generaldata.Vector2i) {
	s.SetPosition(p.Sub(s.decorationOffset()))
}

// AbsolutePosition is Position in layout coordinates
func (s *Surface) AbsolutePosition() generaldata.Vector2i {
	if s.parent != nil && s.layer == LayerChild {
		return s.parent.SurfacePosition().Add(s.position)
	}
	return s.position
}

// SurfacePosition is where the client's content goes, in layout coordinates
func (s *Surface) SurfacePosition() generaldata.Vector2i {
	return s.AbsolutePosition().Add(s.decorationOffset())
}

func (s *Surface) decorationOffset() generaldata.Vector2i {
	if !s.ServerDecorated() {
		return generaldata.Vector2i{}
	}
	set := s.scene.settings
	return generaldata.Vector2i{X: set.BorderSize, Y: set.TitleBarHeight}
}

// Size of the client content in logical pixels
func (s *Surface) Size() generaldata.Vector2i {
	return s.size
}

// DestinationSize of the committed buffer, zero without content
func (s *Surface) DestinationSize() generaldata.Vector2i {
	if s.buffer == nil {
		return generaldata.Vector2i{}
	}
	return s.buffer.Size
}

// RequestedSize is the size the client was last asked to take
func (s *Surface) RequestedSize() generaldata.Vector2i {
	return s.requested
}

func (s *Surface) MinSize() generaldata.Vector2i {
	return s.minSize
}

func (s *Surface) SetMinSize(size generaldata.Vector2i) {
	s.minSize = size
}

// SetGeometryOffset sets where the visible window starts inside the client buffer
func (s *Surface) SetGeometryOffset(offset generaldata.Vector2i) {
	s.geometryOffset = offset
}

func (s *Surface) GeometryOffset() generaldata.Vector2i {
	return s.geometryOffset
}

// ContentRect is the area covered by the client's own content
func (s *Surface) ContentRect() generaldata.Rect {
	return generaldata.RectAt(s.SurfacePosition().ToF(), s.size)
}

// DecoratedSize is the content size plus server side chrome
func (s *Surface) DecoratedSize() generaldata.Vector2i {
	return s.decorate(s.size)
}

// DecoratedRect covers content and chrome but not the shadow. It's what hit testing looks at
func (s *Surface) DecoratedRect() generaldata.Rect {
	return generaldata.RectAt(s.AbsolutePosition().ToF(), s.DecoratedSize())
}

// ShadowRect is the decorated rect grown by the shadow margin, everything drawing may touch
func (s *Surface) ShadowRect() generaldata.Rect {
	return s.DecoratedRect().Grow(float64(s.ShadowMargin()))
}

// TitleBarRect is empty for surfaces without server side decoration
func (s *Surface) TitleBarRect() generaldata.Rect {
	if !s.ServerDecorated() {
		return generaldata.Rect{}
	}
	pos := s.AbsolutePosition().ToF()
	return generaldata.Rect{
		X: pos.X,
		Y: pos.Y,
		W: float64(s.size.X + 2*s.scene.settings.BorderSize),
		H: float64(s.scene.settings.TitleBarHeight),
	}
}

// buttonRect returns the rect of the title bar button at index, counted from the right
func (s *Surface) buttonRect(index int) generaldata.Rect {
	if !s.ServerDecorated() {
		return generaldata.Rect{}
	}
	decorated := s.DecoratedRect()
	ds := s.scene.settings.TitleBarHeight
	x := decorated.Right() - float64(ButtonWidth*(index+1)+ButtonSpacing*index+ButtonsRightMargin)
	y := decorated.Y + float64((ds-ButtonWidth)/2)
	return generaldata.Rect{X: x, Y: y, W: ButtonWidth, H: ButtonWidth}
}

func (s *Surface) CloseButtonRect() generaldata.Rect {
	return s.buttonRect(0)
}

func (s *Surface) MaximizeButtonRect() generaldata.Rect {
	return s.buttonRect(1)
}

func (s *Surface) MinimizeButtonRect() generaldata.Rect {
	return s.buttonRect(2)
}

// MapToSurface translates a layout point into surface local coordinates
func (s *Surface) MapToSurface(p generaldata.Vector2f) generaldata.Vector2f {
	pos := s.SurfacePosition().ToF()
	offset := s.geometryOffset.ToF()
	return generaldata.Vector2f{X: p.X - pos.X + offset.X, Y: p.Y - pos.Y + offset.Y}
}

// ServerDecorated is true when the compositor draws the title bar and borders
func (s *Surface) ServerDecorated() bool {
	return s.ssd && s.role.Decoratable() && !s.fullscreen
}

// SetServerDecorated switches between server and client side decoration.
// The content stays where it is, the decorated rect moves around it
func (s *Surface) SetServerDecorated(ssd bool) {
	if ssd == s.ssd {
		return
	}
	content := s.SurfacePosition()
	s.ssd = ssd
	s.InvalidateDecoration()
	if s.layer != LayerChild {
		s.position = content.Sub(s.decorationOffset())
	}
	s.scene.geometryChanged(s)
}

// SetClientShadow marks surfaces that draw their own shadow
func (s *Surface) SetClientShadow(b bool) {
	s.clientShadow = b
}

// ShadowMargin is zero for surfaces without a compositor drawn shadow
func (s *Surface) ShadowMargin() int {
	if s.scene.settings.LegacyRender || s.clientShadow {
		return 0
	}
	if s.maximized || s.fullscreen {
		return 0
	}
	switch {
	case s.role.IsWindow():
		return render.ShadowMargin
	case s.role.IsChild():
		return render.PopupShadowMargin
	}
	return 0
}

// ShadowAlpha of the drop shadow, popups and transients get a lighter one
func (s *Surface) ShadowAlpha() float64 {
	if s.role.IsChild() {
		return render.PopupShadowAlpha
	}
	return render.ShadowAlpha
}

// NeedsComposedDecoration is true when the surface gets a shadow or server side chrome
// composed offscreen before its content is drawn
func (s *Surface) NeedsComposedDecoration() bool {
	if s.fullscreen || s.role == RoleFullscreenShell {
		return false
	}
	return s.ShadowMargin() > 1 || s.ServerDecorated()
}

func (s *Surface) Maximized() bool {
	return s.maximized
}

func (s *Surface) Minimized() bool {
	return s.minimized
}

func (s *Surface) Fullscreen() bool {
	return s.fullscreen
}

func (s *Surface) Activated() bool {
	return s.activated
}

// Hidden is true if the surface or one of its ancestors is minimized
func (s *Surface) Hidden() bool {
	for p := s; p != nil; p = p.parent {
		if p.minimized {
			return true
		}
	}
	return false
}

func (s *Surface) states() States {
	return States{
		Maximized:  s.maximized,
		Fullscreen: s.fullscreen,
		Activated:  s.activated,
		Resizing:   s.resizing,
	}
}

// Configure asks the client for a new size, sending the current states along.
// A zero size lets the client decide
func (s *Surface) Configure(size generaldata.Vector2i) {
	s.requested = size
	s.client.Configure(size, s.states())
}

func (s *Surface) saveGeometry() {
	if s.maximized || s.fullscreen {
		return
	}
	s.savedPosition = s.position
	s.savedSize = s.size
}

// SetMaximized fills the available area of the surface's primary output, or restores
// the geometry from before maximizing
func (s *Surface) SetMaximized(maximized bool) {
	if maximized == s.maximized || !s.role.IsWindow() {
		return
	}
	if maximized && !s.caps.CanMaximize {
		s.logger().Debugln("Client disabled maximizing, ignoring request")
		return
	}
	if maximized {
		output := s.scene.PrimaryOutput(s)
		if output == nil {
			s.logger().Warnln("Can't maximize without an output")
			return
		}
		s.saveGeometry()
		s.maximized = true
		if s.fullscreen {
			// Applied when leaving fullscreen
			return
		}
		s.fillArea(output)
	} else {
		s.maximized = false
		if s.fullscreen {
			return
		}
		s.position = s.savedPosition
		s.Configure(s.savedSize)
	}
	s.InvalidateDecoration()
	s.scene.geometryChanged(s)
}

// fillArea sizes the surface to the available area of output, leaving room for decoration
func (s *Surface) fillArea(output *Output) {
	area := output.AvailableArea()
	size := generaldata.Vector2i{X: int(area.W), Y: int(area.H)}
	if s.ServerDecorated() {
		set := s.scene.settings
		size.X -= 2 * set.BorderSize
		size.Y -= set.BorderSize + set.TitleBarHeight
	}
	s.position = area.Pos().Round()
	s.Configure(size)
}

func (s *Surface) ToggleMaximized() {
	s.SetMaximized(!s.maximized)
}

// SetMinimized hides the surface and its children. Minimized surfaces keep their place in the stack
func (s *Surface) SetMinimized(minimized bool) {
	if minimized == s.minimized {
		return
	}
	if minimized && !s.caps.CanMinimize {
		s.logger().Debugln("Client disabled minimizing, ignoring request")
		return
	}
	s.minimized = minimized
	if minimized {
		s.scene.surfaceHidden(s)
	}
	s.scene.RequestRender()
}

func (s *Surface) ToggleMinimized() {
	s.SetMinimized(!s.minimized)
}

// SetFullscreen covers the given output, or the primary one if nil.
// Only windows can go fullscreen
func (s *Surface) SetFullscreen(fullscreen bool, output *Output) error {
	if s.destroyed {
		return ErrDestroyed
	}
	if fullscreen == s.fullscreen {
		return nil
	}
	if !s.role.IsWindow() && s.role != RoleFullscreenShell {
		return fmt.Errorf("%s can't go fullscreen: %w", s.role, ErrInvalidTransition)
	}
	if fullscreen {
		if output == nil {
			output = s.scene.PrimaryOutput(s)
		}
		if output == nil {
			return ErrUnknownOutput
		}
		s.saveGeometry()
		s.fullscreen = true
		r := output.Rect()
		s.position = r.Pos().Round()
		s.Configure(r.Size())
	} else {
		s.fullscreen = false
		output := s.scene.PrimaryOutput(s)
		if s.maximized && output != nil {
			s.fillArea(output)
		} else {
			s.maximized = false
			s.position = s.savedPosition
			s.Configure(s.savedSize)
		}
	}
	s.InvalidateDecoration()
	s.scene.geometryChanged(s)
	return nil
}

func (s *Surface) Moving() bool {
	return s.moving
}

func (s *Surface) StartMove() {
	s.moving = true
}

func (s *Surface) EndMove() {
	s.moving = false
}

func (s *Surface) Resizing() bool {
	return s.resizing
}

// BeginResize starts an interactive resize along edges. For anchored resizes the corner
// opposite the dragged edges stays put while the size changes; the anchor is returned.
// Unanchored resizes never move the surface
func (s *Surface) BeginResize(edges Edges, anchored bool) generaldata.Vector2i {
	s.resizing = true
	s.resizeEdges = edges
	s.anchored = anchored
	s.resizeAnchor = anchorPosition(s.position, edges, s.DecoratedSize())
	s.client.Configure(s.requested, s.states())
	return s.resizeAnchor
}

// anchorPosition returns the point that has to stay fixed while resizing along edges.
// Dragging the top or left edge pins the bottom or right one
func anchorPosition(pos generaldata.Vector2i, edges Edges, size generaldata.Vector2i) generaldata.Vector2i {
	if edges&EdgeLeft != 0 {
		pos.X += size.X
	}
	if edges&EdgeTop != 0 {
		pos.Y += size.Y
	}
	return pos
}

// anchoredPosition is the inverse of anchorPosition for the new size
func anchoredPosition(anchor generaldata.Vector2i, edges Edges, size generaldata.Vector2i) generaldata.Vector2i {
	return anchor.Sub(anchorPosition(generaldata.Vector2i{}, edges, size))
}

// Resize computes the size for a pointer that moved by delta since the resize began, clamps it
// to the minimum size and asks the client for it. Anchored surfaces are moved right away so the
// anchor stays in place, and again on commit should the client pick a different size
func (s *Surface) Resize(initial, delta generaldata.Vector2i, edges Edges) generaldata.Vector2i {
	size := initial
	if edges&EdgeLeft != 0 {
		size.X -= delta.X
	} else if edges&EdgeRight != 0 {
		size.X += delta.X
	}
	if edges&EdgeTop != 0 {
		size.Y -= delta.Y
	} else if edges&EdgeBottom != 0 {
		size.Y += delta.Y
	}
	lower := s.minSize
	if lower.X < 1 {
		lower.X = 1
	}
	if lower.Y < 1 {
		lower.Y = 1
	}
	size.X = max(size.X, lower.X)
	size.Y = max(size.Y, lower.Y)

	if s.resizing && s.anchored {
		s.position = anchoredPosition(s.resizeAnchor, edges, s.decorate(size))
		s.scene.geometryChanged(s)
	}
	s.Configure(size)
	return size
}

// decorate grows a content size by the server side chrome
func (s *Surface) decorate(size generaldata.Vector2i) generaldata.Vector2i {
	if s.ServerDecorated() {
		set := s.scene.settings
		size.X += 2 * set.BorderSize
		size.Y += set.BorderSize + set.TitleBarHeight
	}
	return size
}

func (s *Surface) EndResize() {
	if !s.resizing {
		return
	}
	s.resizing = false
	s.resizeEdges = EdgeNone
	s.anchored = false
	s.client.Configure(s.requested, s.states())
}

// Commit takes the latest buffer of the client. A nil buffer unmaps the surface
func (s *Surface) Commit(b *Buffer) {
	if s.destroyed {
		return
	}
	if b == nil {
		s.buffer = nil
		s.scene.RequestRender()
		return
	}
	s.serial++
	b.Serial = s.serial
	s.buffer = b
	if b.Size != s.size {
		s.size = b.Size
		s.InvalidateDecoration()
		if s.resizing && s.anchored {
			s.position = anchoredPosition(s.resizeAnchor, s.resizeEdges, s.DecoratedSize())
		}
		s.scene.geometryChanged(s)
		return
	}
	s.scene.RequestRender()
}

// Buffer returns the last committed buffer, nil if there is none
func (s *Surface) Buffer() *Buffer {
	return s.buffer
}

// ReadyToRender is false until the client committed content
func (s *Surface) ReadyToRender() bool {
	return !s.destroyed && s.buffer != nil && !s.size.Empty()
}

// View returns the view on output, creating it if needed
func (s *Surface) View(o *Output) *SurfaceView {
	if v, ok := s.views[o]; ok {
		return v
	}
	v := newSurfaceView(s, o)
	s.views[o] = v
	return v
}

// ViewForOutput returns the existing view on output, nil if the surface never was drawn there
func (s *Surface) ViewForOutput(o *Output) *SurfaceView {
	return s.views[o]
}

// DetachOutput drops the view on an output the surface left
func (s *Surface) DetachOutput(o *Output) {
	v, ok := s.views[o]
	if !ok {
		return
	}
	v.release()
	delete(s.views, o)
}

func (s *Surface) releaseViews() {
	for o, v := range s.views {
		v.release()
		delete(s.views, o)
	}
}

// DecorationImage returns the cached chrome image, nil if it needs to be rendered again
func (s *Surface) DecorationImage() *image.RGBA {
	if !s.decorationValid {
		return nil
	}
	return s.decoration
}

func (s *Surface) SetDecorationImage(img *image.RGBA) {
	s.decoration = img
	s.decorationValid = img != nil
}

func (s *Surface) InvalidateDecoration() {
	s.decorationValid = false
}

// Close asks the client to close the surface
func (s *Surface) Close() {
	if s.destroyed {
		return
	}
	if !s.caps.CanClose {
		s.logger().Debugln("Client disabled closing, ignoring request")
		return
	}
	s.client.Close()
}

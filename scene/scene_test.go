package scene

import (
	"errors"
	"image"
	"slices"
	"testing"

	"github.com/google/uuid"

	generaldata "github.com/mstarongithub/way2gay/general-data"
	"github.com/mstarongithub/way2gay/render"
)

func TestRaiseScenario(t *testing.T) {
	sc := New(DefaultSettings())
	a := mapped(sc, RoleTopLevel, nil, vec(0, 0), vec(100, 100))
	b := mapped(sc, RoleTopLevel, nil, vec(200, 0), vec(100, 100))
	c := mapped(sc, RoleTopLevel, nil, vec(400, 0), vec(100, 100))

	if !sc.Raise(a) {
		t.Fatal("Raise of bottom surface reported no change")
	}
	got := sc.Layers().Members(LayerNormal)
	if !slices.Equal(got, []*Surface{b, c, a}) {
		t.Errorf("Expected stack [B C A], got %v", ids(got))
	}
	if sc.Raise(a) {
		t.Error("Raising the top surface again reported a change")
	}
}

func TestRaiseKeepsRelativeOrder(t *testing.T) {
	sc := New(DefaultSettings())
	list := []*Surface{}
	for i := 0; i < 5; i++ {
		list = append(list, mapped(sc, RoleTopLevel, nil, vec(i*10, 0), vec(50, 50)))
	}
	raises := []int{2, 0, 4, 2, 1}
	for _, i := range raises {
		s := list[i]
		before := slices.DeleteFunc(sc.Layers().Members(LayerNormal), func(o *Surface) bool { return o == s })
		sc.Raise(s)
		after := sc.Layers().Members(LayerNormal)
		if after[len(after)-1] != s {
			t.Fatalf("Raised %d isn't on top: %v", s.ID(), ids(after))
		}
		if !slices.Equal(after[:len(after)-1], before) {
			t.Errorf("Raise of %d changed the order of the others: %v vs %v", s.ID(), ids(after[:len(after)-1]), ids(before))
		}
	}
}

func TestPopupDrawnRightAfterParent(t *testing.T) {
	sc := New(DefaultSettings())
	a := mapped(sc, RoleTopLevel, nil, vec(0, 0), vec(100, 100))
	b := mapped(sc, RoleTopLevel, nil, vec(200, 0), vec(100, 100))
	c := mapped(sc, RoleTopLevel, nil, vec(400, 0), vec(100, 100))
	p := mapped(sc, RolePopup, a, vec(10, 10), vec(20, 20))
	q := mapped(sc, RolePopup, a, vec(30, 10), vec(20, 20))
	nested := mapped(sc, RolePopup, p, vec(5, 5), vec(10, 10))

	if p.Layer() != LayerChild {
		t.Errorf("Popup with parent should be a child, is in %s", p.Layer())
	}
	want := []*Surface{a, p, nested, q, b, c}
	if got := drawOrder(sc); !slices.Equal(got, want) {
		t.Errorf("Expected draw order %v, got %v", ids(want), ids(got))
	}
	if got := p.AbsolutePosition(); got != vec(10, 10) {
		t.Errorf("Popup absolute position %v, expected 10x10", got)
	}
	if got := nested.AbsolutePosition(); got != vec(15, 15) {
		t.Errorf("Nested popup absolute position %v, expected 15x15", got)
	}
}

func TestHitTestIsReverseOfDraw(t *testing.T) {
	sc := New(DefaultSettings())
	bg := mapped(sc, RoleLayerBackground, nil, vec(0, 0), vec(800, 600))
	desktop := mapped(sc, RoleDesktop, nil, vec(0, 0), vec(800, 600))
	bottom := mapped(sc, RoleLayerBottom, nil, vec(0, 570), vec(800, 30))
	a := mapped(sc, RoleTopLevel, nil, vec(10, 10), vec(100, 100))
	mapped(sc, RolePopup, a, vec(0, 0), vec(10, 10))
	mapped(sc, RoleTopLevel, nil, vec(50, 50), vec(100, 100))
	mapped(sc, RolePopup, bottom, vec(0, -50), vec(40, 50))
	mapped(sc, RolePopup, desktop, vec(100, 100), vec(40, 50))
	top := mapped(sc, RoleLayerTop, nil, vec(0, 0), vec(800, 20))
	mapped(sc, RolePopup, top, vec(0, 20), vec(40, 50))
	mapped(sc, RoleLayerOverlay, nil, vec(300, 300), vec(100, 100))
	mapped(sc, RoleMenuServer, nil, vec(0, 0), vec(800, 24))
	cursor := mapped(sc, RoleCursor, nil, vec(5, 5), vec(16, 16))
	icon := mapped(sc, RoleDragIcon, nil, vec(5, 5), vec(16, 16))
	if err := sc.SetCursor(cursor); err != nil {
		t.Fatalf("SetCursor failed: %s", err)
	}
	if err := sc.SetDragIcon(icon); err != nil {
		t.Fatalf("SetDragIcon failed: %s", err)
	}

	draw := drawOrder(sc)
	if draw[0] != bg {
		t.Errorf("Background should be drawn first, got %d", draw[0].ID())
	}
	if draw[len(draw)-1] != cursor || draw[len(draw)-2] != icon {
		t.Errorf("Drag icon and cursor should be drawn last: %v", ids(draw))
	}
	seen := map[*Surface]int{}
	for _, s := range draw {
		seen[s]++
	}
	for _, s := range sc.Surfaces() {
		if seen[s] != 1 {
			t.Errorf("%s drawn %d times", s, seen[s])
		}
	}

	withoutOverlays := draw[:len(draw)-2]
	slices.Reverse(withoutOverlays)
	if hit := hitOrder(sc); !slices.Equal(hit, withoutOverlays) {
		t.Errorf("Hit order %v isn't the reverse of draw order %v", ids(hit), ids(withoutOverlays))
	}
}

func TestSurfaceAtInclusiveEdges(t *testing.T) {
	sc := New(DefaultSettings())
	s := mapped(sc, RoleTopLevel, nil, vec(10, 10), vec(100, 50))

	inside := []generaldata.Vector2f{pt(10, 10), pt(110, 60), pt(10, 60), pt(60, 30)}
	for _, p := range inside {
		if got := sc.SurfaceAt(p); got != s {
			t.Errorf("Expected hit at %v", p)
		}
	}
	outside := []generaldata.Vector2f{pt(9, 10), pt(111, 60), pt(110, 61), pt(60, 9)}
	for _, p := range outside {
		if got := sc.SurfaceAt(p); got != nil {
			t.Errorf("Expected no hit at %v, got %s", p, got)
		}
	}
}

func TestSurfaceAtSkipsHidden(t *testing.T) {
	sc := New(DefaultSettings())
	below := mapped(sc, RoleTopLevel, nil, vec(0, 0), vec(100, 100))
	above := mapped(sc, RoleTopLevel, nil, vec(0, 0), vec(100, 100))
	popup := mapped(sc, RolePopup, above, vec(0, 0), vec(10, 10))
	sc.NewSurface(SurfaceOptions{Role: RoleTopLevel, Size: vec(100, 100)})

	if got := sc.SurfaceAt(pt(5, 5)); got != popup {
		t.Errorf("Expected popup on top, got %v", got)
	}
	above.SetMinimized(true)
	if got := sc.SurfaceAt(pt(5, 5)); got != below {
		t.Errorf("Expected minimized surface and its popup to be skipped, got %v", got)
	}
	if !sc.Layers().Contains(above) {
		t.Error("Minimized surface left its layer")
	}
}

func TestRoleTransitions(t *testing.T) {
	sc := New(DefaultSettings())
	a := mapped(sc, RoleTopLevel, nil, vec(0, 0), vec(100, 100))
	popup := mapped(sc, RolePopup, a, vec(0, 0), vec(10, 10))

	if err := popup.SetRole(RoleFullscreenShell); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected invalid transition, got %v", err)
	}
	if popup.Role() != RolePopup || popup.Layer() != LayerChild {
		t.Errorf("Rejected transition changed the popup: %s in %s", popup.Role(), popup.Layer())
	}

	if err := a.SetRole(RoleDesktop); err != nil {
		t.Fatalf("Toplevel to desktop failed: %s", err)
	}
	if a.Layer() != LayerDesktop || len(sc.Layers().Members(LayerNormal)) != 0 {
		t.Errorf("Expected surface to move to the desktop layer, is in %s", a.Layer())
	}

	unknown := sc.NewSurface(SurfaceOptions{})
	if unknown.Layer() != LayerNone {
		t.Errorf("Surface without role shouldn't be in a layer, is in %s", unknown.Layer())
	}
	if err := unknown.SetRole(RoleTopLevel); err != nil {
		t.Fatalf("Unknown to toplevel failed: %s", err)
	}
	if unknown.Layer() != LayerNormal {
		t.Errorf("Expected new toplevel in the normal stack, is in %s", unknown.Layer())
	}
}

func TestInsertChecksLayer(t *testing.T) {
	sc := New(DefaultSettings())
	a := mapped(sc, RoleTopLevel, nil, vec(0, 0), vec(100, 100))
	sc.Remove(a)
	if sc.Layers().Contains(a) {
		t.Fatal("Remove left the surface in its layer")
	}
	if err := sc.Insert(a, LayerOverlay); !errors.Is(err, ErrInvalidLayer) {
		t.Errorf("Expected invalid layer error, got %v", err)
	}
	if err := sc.Insert(a, LayerNormal); err != nil {
		t.Errorf("Insert into the normal stack failed: %s", err)
	}
}

func TestResizeRightEdge(t *testing.T) {
	sc := New(DefaultSettings())
	s := mapped(sc, RoleTopLevel, nil, vec(100, 100), vec(200, 100))
	client := s.Client().(*recordingClient)

	s.BeginResize(EdgeRight, true)
	got := s.Resize(vec(200, 100), vec(50, 0), EdgeRight)
	if got != vec(250, 100) {
		t.Errorf("Expected 250x100, got %v", got)
	}
	if client.last().size != vec(250, 100) || !client.last().states.Resizing {
		t.Errorf("Client wasn't asked for the new size: %+v", client.last())
	}
	if s.Position() != vec(100, 100) {
		t.Errorf("Position changed to %v", s.Position())
	}
}

func TestResizeLeftEdgeKeepsRightAnchor(t *testing.T) {
	sc := New(DefaultSettings())
	s := mapped(sc, RoleTopLevel, nil, vec(100, 100), vec(200, 100))

	anchor := s.BeginResize(EdgeLeft, true)
	if anchor != vec(300, 100) {
		t.Errorf("Expected anchor on the right edge at 300x100, got %v", anchor)
	}
	got := s.Resize(vec(200, 100), vec(50, 0), EdgeLeft)
	if got != vec(150, 100) {
		t.Errorf("Expected 150x100, got %v", got)
	}
	if s.Position() != vec(150, 100) {
		t.Errorf("Expected x to move by 50, position is %v", s.Position())
	}

	// The client picked a different size, the right edge still has to stay put
	s.Commit(&Buffer{Size: vec(160, 100)})
	if s.Position() != vec(140, 100) {
		t.Errorf("Expected commit to re-anchor at 140, position is %v", s.Position())
	}
	s.EndResize()
	if s.Resizing() {
		t.Error("Still resizing after EndResize")
	}
}

func TestResizeTopEdgeAnchored(t *testing.T) {
	sc := New(DefaultSettings())
	s := mapped(sc, RoleTopLevel, nil, vec(0, 100), vec(200, 100))
	s.BeginResize(EdgeTop|EdgeLeft, true)
	got := s.Resize(vec(200, 100), vec(20, 30), EdgeTop|EdgeLeft)
	if got != vec(180, 70) {
		t.Errorf("Expected 180x70, got %v", got)
	}
	if s.Position() != vec(20, 130) {
		t.Errorf("Expected bottom right corner to stay, position is %v", s.Position())
	}
}

func TestResizeUnanchoredNeverMoves(t *testing.T) {
	sc := New(DefaultSettings())
	s := mapped(sc, RoleTopLevel, nil, vec(100, 100), vec(200, 100))
	s.BeginResize(EdgeLeft, false)
	s.Resize(vec(200, 100), vec(50, 0), EdgeLeft)
	s.Commit(&Buffer{Size: vec(150, 100)})
	if s.Position() != vec(100, 100) {
		t.Errorf("Unanchored resize moved the surface to %v", s.Position())
	}
}

func TestResizeClampsToMinSize(t *testing.T) {
	sc := New(DefaultSettings())
	s := mapped(sc, RoleTopLevel, nil, vec(0, 0), vec(200, 100))
	s.SetMinSize(vec(120, 80))
	got := s.Resize(vec(200, 100), vec(-150, -150), EdgeRight|EdgeBottom)
	if got != vec(120, 80) {
		t.Errorf("Expected clamp to 120x80, got %v", got)
	}
}

func TestDecorationGeometry(t *testing.T) {
	sc := New(DefaultSettings())
	s := sc.NewSurface(SurfaceOptions{Role: RoleTopLevel, ServerDecorated: true, Client: &recordingClient{}})
	s.Commit(&Buffer{Size: vec(200, 100)})

	if got := s.DecoratedRect(); got != (generaldata.Rect{W: 202, H: 131}) {
		t.Errorf("Unexpected decorated rect %v", got)
	}
	if got := s.SurfacePosition(); got != vec(1, 30) {
		t.Errorf("Unexpected content position %v", got)
	}
	if got := s.TitleBarRect(); got != (generaldata.Rect{W: 202, H: 30}) {
		t.Errorf("Unexpected title bar %v", got)
	}
	if got := s.CloseButtonRect(); got != (generaldata.Rect{X: 176, Y: 6, W: 18, H: 18}) {
		t.Errorf("Unexpected close button %v", got)
	}
	if got := s.MaximizeButtonRect(); got != (generaldata.Rect{X: 153, Y: 6, W: 18, H: 18}) {
		t.Errorf("Unexpected maximize button %v", got)
	}
	if got := s.MinimizeButtonRect(); got != (generaldata.Rect{X: 130, Y: 6, W: 18, H: 18}) {
		t.Errorf("Unexpected minimize button %v", got)
	}
	if !s.NeedsComposedDecoration() || s.ShadowMargin() != render.ShadowMargin {
		t.Errorf("Decorated toplevel should get a composed shadow, margin %d", s.ShadowMargin())
	}

	s.SetServerDecorated(false)
	if got := s.SurfacePosition(); got != vec(1, 30) {
		t.Errorf("Switching to client decoration moved the content to %v", got)
	}
	if !s.CloseButtonRect().Empty() {
		t.Error("Client decorated surface has a close button")
	}
}

func TestPopupShadowIsLighter(t *testing.T) {
	sc := New(DefaultSettings())
	a := mapped(sc, RoleTopLevel, nil, vec(0, 0), vec(100, 100))
	p := mapped(sc, RolePopup, a, vec(0, 0), vec(10, 10))
	if p.ShadowMargin() != render.PopupShadowMargin || p.ShadowAlpha() >= a.ShadowAlpha() {
		t.Errorf("Popup shadow margin %d alpha %f", p.ShadowMargin(), p.ShadowAlpha())
	}
	legacy := DefaultSettings()
	legacy.LegacyRender = true
	sc.ApplySettings(legacy)
	if a.ShadowMargin() != 0 {
		t.Error("Legacy rendering still draws shadows")
	}
}

func TestDestroyDetachesEverything(t *testing.T) {
	sc := New(DefaultSettings())
	renderer := render.NewSoftware()
	out := NewOutput("test", generaldata.Rect{W: 800, H: 600}, renderer)
	if err := sc.AddOutput(out); err != nil {
		t.Fatalf("AddOutput failed: %s", err)
	}
	below := mapped(sc, RoleTopLevel, nil, vec(0, 0), vec(100, 100))
	a := sc.NewSurface(SurfaceOptions{Role: RoleTopLevel, Position: vec(50, 50), Client: &recordingClient{}})
	a.Commit(&Buffer{Size: vec(100, 100), Image: image.NewRGBA(image.Rect(0, 0, 100, 100))})
	p := mapped(sc, RolePopup, a, vec(10, 10), vec(10, 10))
	sc.Activate(a)
	if _, err := a.View(out).Texture(); err != nil {
		t.Fatalf("Texture upload failed: %s", err)
	}

	destroyed := []*Surface{}
	_ = sc.SurfaceDestroyed.Connect("test", func(s *Surface) {
		if !s.Destroyed() {
			t.Error("Surface not marked destroyed when the signal fired")
		}
		destroyed = append(destroyed, s)
	})
	sc.Destroy(a)

	if len(destroyed) != 1 || destroyed[0] != a {
		t.Errorf("Expected one destroy notification, got %d", len(destroyed))
	}
	if p.Parent() != nil || p.Layer() != LayerNormal {
		t.Errorf("Popup still attached: parent %v layer %s", p.Parent(), p.Layer())
	}
	if p.AbsolutePosition() != vec(60, 60) {
		t.Errorf("Detached popup moved to %v", p.AbsolutePosition())
	}
	if p.Client().(*recordingClient).popupDone != 1 {
		t.Error("Popup of destroyed parent wasn't dismissed")
	}
	if sc.Focused() != below {
		t.Errorf("Focus should fall back to the remaining window, got %v", sc.Focused())
	}
	if renderer.Textures() != 0 {
		t.Errorf("%d textures leaked", renderer.Textures())
	}
	if sc.Surface(a.ID()) != nil || sc.Layers().Contains(a) {
		t.Error("Destroyed surface still reachable")
	}
	sc.Destroy(a)
	if len(destroyed) != 1 {
		t.Error("Destroying twice notified twice")
	}
}

func TestRemoveOutputReleasesTextures(t *testing.T) {
	sc := New(DefaultSettings())
	renderer := render.NewSoftware()
	out := NewOutput("test", generaldata.Rect{W: 800, H: 600}, renderer)
	_ = sc.AddOutput(out)
	s := sc.NewSurface(SurfaceOptions{Role: RoleTopLevel})
	s.Commit(&Buffer{Size: vec(10, 10), Image: image.NewRGBA(image.Rect(0, 0, 10, 10))})
	if _, err := s.View(out).Texture(); err != nil {
		t.Fatalf("Texture upload failed: %s", err)
	}
	if err := sc.RemoveOutput(out); err != nil {
		t.Fatalf("RemoveOutput failed: %s", err)
	}
	if renderer.Textures() != 0 || s.ViewForOutput(out) != nil {
		t.Error("Output removal left views behind")
	}
	if err := sc.RemoveOutput(out); !errors.Is(err, ErrUnknownOutput) {
		t.Errorf("Expected unknown output, got %v", err)
	}
}

func TestViewKeepsTextureWhileLocked(t *testing.T) {
	sc := New(DefaultSettings())
	renderer := render.NewSoftware()
	out := NewOutput("test", generaldata.Rect{W: 800, H: 600}, renderer)
	_ = sc.AddOutput(out)
	s := sc.NewSurface(SurfaceOptions{Role: RoleTopLevel})
	s.Commit(&Buffer{Size: vec(1, 1), Image: image.NewRGBA(image.Rect(0, 0, 1, 1))})
	view := s.View(out)
	first, _ := view.Texture()
	img, _ := renderer.TextureImage(first)

	view.Lock()
	s.Commit(&Buffer{Size: vec(2, 2), Image: image.NewRGBA(image.Rect(0, 0, 2, 2))})
	if id, _ := view.Texture(); id != first {
		t.Fatal("Locked view changed its texture")
	}
	if now, _ := renderer.TextureImage(first); now != img {
		t.Error("Locked view updated its texture content")
	}
	view.Unlock()
	_, _ = view.Texture()
	if view.BufferSize() != vec(2, 2) {
		t.Errorf("Unlocked view didn't pick up the new buffer, size %v", view.BufferSize())
	}
}

func TestMaximizeUsesAvailableArea(t *testing.T) {
	sc := New(DefaultSettings())
	out := NewOutput("test", generaldata.Rect{W: 1000, H: 800}, render.NewSoftware())
	_ = sc.AddOutput(out)
	panel := mapped(sc, RoleLayerTop, nil, vec(0, 0), vec(1000, 30))
	out.Reserve(panel, EdgeTop, 30)

	s := mapped(sc, RoleTopLevel, nil, vec(100, 100), vec(300, 200))
	client := s.Client().(*recordingClient)
	s.SetMaximized(true)
	if !s.Maximized() || s.Position() != vec(0, 30) {
		t.Errorf("Unexpected maximized position %v", s.Position())
	}
	if client.last().size != vec(1000, 770) || !client.last().states.Maximized {
		t.Errorf("Unexpected maximize configure %+v", client.last())
	}
	if s.ShadowMargin() != 0 {
		t.Error("Maximized windows don't get a shadow")
	}
	s.SetMaximized(false)
	if s.Position() != vec(100, 100) || client.last().size != vec(300, 200) {
		t.Errorf("Unmaximize didn't restore geometry: %v %v", s.Position(), client.last().size)
	}
}

func TestLeavingFullscreenKeepsMaximized(t *testing.T) {
	sc := New(DefaultSettings())
	_ = sc.AddOutput(NewOutput("test", generaldata.Rect{W: 1000, H: 800}, render.NewSoftware()))
	s := mapped(sc, RoleTopLevel, nil, vec(100, 100), vec(200, 100))
	client := s.Client().(*recordingClient)

	s.SetMaximized(true)
	if err := s.SetFullscreen(true, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.SetFullscreen(false, nil); err != nil {
		t.Fatal(err)
	}
	if !s.Maximized() || s.Fullscreen() {
		t.Errorf("Expected maximized only, got maximized=%v fullscreen=%v", s.Maximized(), s.Fullscreen())
	}
	if s.Position() != vec(0, 0) || client.last().size != vec(1000, 800) {
		t.Errorf("Maximized geometry not restored: %v %v", s.Position(), client.last().size)
	}
	if st := client.last().states; !st.Maximized || st.Fullscreen {
		t.Errorf("Unexpected states %+v", st)
	}

	s.SetMaximized(false)
	if s.Position() != vec(100, 100) || client.last().size != vec(200, 100) {
		t.Errorf("Unmaximize didn't restore the normal geometry: %v %v", s.Position(), client.last().size)
	}
}

func TestUnmaximizeWhileFullscreen(t *testing.T) {
	sc := New(DefaultSettings())
	_ = sc.AddOutput(NewOutput("test", generaldata.Rect{W: 1000, H: 800}, render.NewSoftware()))
	s := mapped(sc, RoleTopLevel, nil, vec(100, 100), vec(200, 100))
	client := s.Client().(*recordingClient)

	s.SetMaximized(true)
	_ = s.SetFullscreen(true, nil)
	s.SetMaximized(false)
	if !s.Fullscreen() || s.Position() != vec(0, 0) {
		t.Errorf("Unmaximize moved a fullscreen window to %v", s.Position())
	}
	_ = s.SetFullscreen(false, nil)
	if s.Maximized() || s.Position() != vec(100, 100) || client.last().size != vec(200, 100) {
		t.Errorf("Expected normal geometry, got %v %v", s.Position(), client.last().size)
	}
}

func TestFullscreenRejectedForPopup(t *testing.T) {
	sc := New(DefaultSettings())
	_ = sc.AddOutput(NewOutput("test", generaldata.Rect{W: 1000, H: 800}, render.NewSoftware()))
	a := mapped(sc, RoleTopLevel, nil, vec(0, 0), vec(100, 100))
	p := mapped(sc, RolePopup, a, vec(5, 5), vec(10, 10))
	if err := p.SetFullscreen(true, nil); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected invalid transition, got %v", err)
	}
	if p.Fullscreen() || p.Position() != vec(5, 5) {
		t.Error("Rejected fullscreen changed the popup")
	}
	if err := a.SetFullscreen(true, nil); err != nil {
		t.Fatalf("Fullscreen failed: %s", err)
	}
	if a.NeedsComposedDecoration() {
		t.Error("Fullscreen surfaces aren't decorated")
	}
}

func TestActivateMovesFocus(t *testing.T) {
	sc := New(DefaultSettings())
	a := mapped(sc, RoleTopLevel, nil, vec(0, 0), vec(100, 100))
	b := mapped(sc, RoleTopLevel, nil, vec(0, 0), vec(100, 100))
	sc.Activate(a)
	sc.Activate(b)
	if a.Activated() || !b.Activated() || sc.Focused() != b {
		t.Error("Activation didn't move")
	}
	if a.Client().(*recordingClient).last().states.Activated {
		t.Error("Previous surface wasn't told it's inactive")
	}
	b.SetMinimized(true)
	if sc.Focused() != a {
		t.Errorf("Minimizing the focused window should focus the next one, got %v", sc.Focused())
	}
}

func TestCycleFocus(t *testing.T) {
	sc := New(DefaultSettings())
	a := mapped(sc, RoleTopLevel, nil, vec(0, 0), vec(100, 100))
	b := mapped(sc, RoleTopLevel, nil, vec(0, 0), vec(100, 100))
	if got := sc.CycleFocus(); got != a {
		t.Errorf("Expected bottom window, got %v", got)
	}
	if got := sc.CycleFocus(); got != b {
		t.Errorf("Expected cycling back, got %v", got)
	}
}

func TestClosePopups(t *testing.T) {
	sc := New(DefaultSettings())
	a := mapped(sc, RoleTopLevel, nil, vec(0, 0), vec(100, 100))
	p := mapped(sc, RolePopup, a, vec(0, 0), vec(10, 10))
	if n := sc.ClosePopups(); n != 1 {
		t.Errorf("Expected one popup closed, got %d", n)
	}
	if p.Client().(*recordingClient).popupDone != 1 {
		t.Error("Popup wasn't told")
	}
	if a.Client().(*recordingClient).popupDone != 0 {
		t.Error("Toplevel got a popup done")
	}
}

func TestSettingsNormalize(t *testing.T) {
	s := Settings{TitleBarHeight: 200, BorderSize: 0}.Normalize()
	if s.TitleBarHeight != MaxTitleBarHeight || s.BorderSize != MinBorderSize {
		t.Errorf("Unexpected clamp result %+v", s)
	}
}

func TestZOrderNotifications(t *testing.T) {
	sc := New(DefaultSettings())
	var last []uuid.UUID
	_ = sc.ZOrderChanged.Connect("test", func(u []uuid.UUID) { last = u })
	a := mapped(sc, RoleTopLevel, nil, vec(0, 0), vec(100, 100))
	mapped(sc, RoleTopLevel, nil, vec(0, 0), vec(100, 100))
	if len(last) != 2 {
		t.Errorf("Expected two windows in the last notification, got %d", len(last))
	}
	sc.Raise(a)
	if got := sc.ZOrderUUIDs(); got[len(got)-1] != a.UUID() {
		t.Error("Raised window isn't last in the z-order list")
	}
}

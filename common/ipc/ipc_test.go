package ipc

import (
	"encoding/json"
	"strings"
	"testing"

	generaldata "github.com/mstarongithub/way2gay/general-data"
	"github.com/mstarongithub/way2gay/input"
	"github.com/mstarongithub/way2gay/render"
	"github.com/mstarongithub/way2gay/scene"
)

func TestSnapshot(t *testing.T) {
	sc := scene.New(scene.DefaultSettings())
	if err := sc.AddOutput(scene.NewOutput("DP-1", generaldata.Rect{W: 800, H: 600}, render.NewSoftware())); err != nil {
		t.Fatal(err)
	}
	win := sc.NewSurface(scene.SurfaceOptions{
		Role:     scene.RoleTopLevel,
		Position: generaldata.Vector2i{X: 10, Y: 20},
		Size:     generaldata.Vector2i{X: 100, Y: 50},
	})
	win.SetTitle("foot")
	popup := sc.NewSurface(scene.SurfaceOptions{Role: scene.RolePopup, Parent: win})
	sc.Activate(win)

	snap := SnapshotOf(sc, nil)
	if len(snap.Surfaces) != 2 || len(snap.Outputs) != 1 {
		t.Fatalf("snapshot %+v", snap)
	}
	if snap.Focused != win.ID() || snap.Grab != nil {
		t.Errorf("focus %d, grab %+v", snap.Focused, snap.Grab)
	}
	got := snap.Surfaces[0]
	if got.ID != win.ID() || got.Title != "foot" || got.Role != scene.RoleTopLevel.String() || !got.Activated {
		t.Errorf("window %+v", got)
	}
	if got.Content.W != 100 || got.Content.H != 50 {
		t.Errorf("content %+v", got.Content)
	}
	if snap.Surfaces[1].Parent != win.ID() || snap.Surfaces[1].ID != popup.ID() {
		t.Errorf("popup %+v", snap.Surfaces[1])
	}
	if snap.Outputs[0].Rect != (Rect{W: 800, H: 600}) {
		t.Errorf("output %+v", snap.Outputs[0])
	}

	text, err := Marshal(snap)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, `"title": "foot"`) || strings.Contains(text, `"grab"`) {
		t.Errorf("json %s", text)
	}
	back := Snapshot{}
	if err := json.Unmarshal([]byte(text), &back); err != nil {
		t.Fatal(err)
	}
	if back.Surfaces[0].UUID != win.UUID().String() {
		t.Errorf("uuid lost: %q", back.Surfaces[0].UUID)
	}
}

func TestGrabOf(t *testing.T) {
	if GrabOf(input.Grab{}) != nil {
		t.Errorf("inactive grab reported")
	}
	sc := scene.New(scene.DefaultSettings())
	s := sc.NewSurface(scene.SurfaceOptions{Role: scene.RoleTopLevel})
	g := GrabOf(input.Grab{Kind: input.GrabResize, Surface: s, Edges: scene.EdgeBottom | scene.EdgeRight})
	if g == nil || g.Kind != "resize" || g.Surface != s.ID() || g.Edges != "bottom|right" {
		t.Errorf("grab %+v", g)
	}
}

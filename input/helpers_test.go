package input

import (
	"time"

	generaldata "github.com/mstarongithub/way2gay/general-data"
	"github.com/mstarongithub/way2gay/scene"
)

type seatEvent struct {
	kind    string
	surface *scene.Surface
	local   generaldata.Vector2f
	button  uint32
	pressed bool
}

// recordingSeat remembers everything routed to clients
type recordingSeat struct {
	events []seatEvent
	focus  []*scene.Surface
	shapes []CursorShape
}

func (s *recordingSeat) add(kind string, surface *scene.Surface, local generaldata.Vector2f) {
	s.events = append(s.events, seatEvent{kind: kind, surface: surface, local: local})
}

func (s *recordingSeat) PointerEnter(surface *scene.Surface, local generaldata.Vector2f) {
	s.add("enter", surface, local)
}

func (s *recordingSeat) PointerLeave(surface *scene.Surface) {
	s.add("leave", surface, generaldata.Vector2f{})
}

func (s *recordingSeat) PointerMotion(surface *scene.Surface, local generaldata.Vector2f, _ uint32) {
	s.add("motion", surface, local)
}

func (s *recordingSeat) PointerButton(surface *scene.Surface, button uint32, pressed bool, _ uint32) {
	s.events = append(s.events, seatEvent{kind: "button", surface: surface, button: button, pressed: pressed})
}

func (s *recordingSeat) PointerAxis(surface *scene.Surface, _ AxisEvent) {
	s.add("axis", surface, generaldata.Vector2f{})
}

func (s *recordingSeat) KeyboardFocus(surface *scene.Surface) {
	s.focus = append(s.focus, surface)
}

func (s *recordingSeat) Key(surface *scene.Surface, e KeyEvent) {
	s.events = append(s.events, seatEvent{kind: "key", surface: surface, pressed: e.Pressed})
}

func (s *recordingSeat) TouchDown(surface *scene.Surface, _ int32, local generaldata.Vector2f, _ uint32) {
	s.add("touch-down", surface, local)
}

func (s *recordingSeat) TouchMotion(surface *scene.Surface, _ int32, local generaldata.Vector2f, _ uint32) {
	s.add("touch-motion", surface, local)
}

func (s *recordingSeat) TouchUp(surface *scene.Surface, _ int32, _ uint32) {
	s.add("touch-up", surface, generaldata.Vector2f{})
}

func (s *recordingSeat) DragMotion(target *scene.Surface, local generaldata.Vector2f, _ uint32) {
	s.add("drag-motion", target, local)
}

func (s *recordingSeat) Drop(target *scene.Surface, local generaldata.Vector2f, _ uint32) {
	s.add("drop", target, local)
}

func (s *recordingSeat) SetCursorShape(shape CursorShape) {
	s.shapes = append(s.shapes, shape)
}

func (s *recordingSeat) ofKind(kind string) []seatEvent {
	out := []seatEvent{}
	for _, e := range s.events {
		if e.kind == kind {
			out = append(out, e)
		}
	}
	return out
}

type recordingClient struct {
	sizes     []generaldata.Vector2i
	closed    int
	popupDone int
}

func (c *recordingClient) Configure(size generaldata.Vector2i, _ scene.States) {
	c.sizes = append(c.sizes, size)
}
func (c *recordingClient) Close()              { c.closed++ }
func (c *recordingClient) PopupDone()          { c.popupDone++ }
func (c *recordingClient) FrameDone(time.Time) {}

func (c *recordingClient) lastSize() generaldata.Vector2i {
	if len(c.sizes) == 0 {
		return generaldata.Vector2i{}
	}
	return c.sizes[len(c.sizes)-1]
}

func vec(x, y int) generaldata.Vector2i {
	return generaldata.Vector2i{X: x, Y: y}
}

func pt(x, y float64) generaldata.Vector2f {
	return generaldata.Vector2f{X: x, Y: y}
}

func newTestRouter() (*Router, *scene.Scene, *recordingSeat) {
	sc := scene.New(scene.DefaultSettings())
	sc.AddOutput(scene.NewOutput("DP-1", generaldata.Rect{W: 1000, H: 800}, nil))
	seat := &recordingSeat{}
	return NewRouter(sc, seat, nil), sc, seat
}

// window maps a surface with content of the given size
func window(sc *scene.Scene, role scene.Role, parent *scene.Surface, pos, size generaldata.Vector2i, ssd bool) (*scene.Surface, *recordingClient) {
	c := &recordingClient{}
	s := sc.NewSurface(scene.SurfaceOptions{
		Role:            role,
		Parent:          parent,
		Position:        pos,
		ServerDecorated: ssd,
		Client:          c,
	})
	s.Commit(&scene.Buffer{Size: size})
	return s, c
}

func press(r *Router, p generaldata.Vector2f, button uint32) {
	r.PointerButton(ButtonEvent{Position: p, Button: button, Pressed: true})
}

func release(r *Router, p generaldata.Vector2f, button uint32) {
	r.PointerButton(ButtonEvent{Position: p, Button: button})
}

func move(r *Router, p generaldata.Vector2f) {
	r.PointerMotion(MotionEvent{Position: p})
}

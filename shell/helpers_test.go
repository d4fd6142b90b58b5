package shell

import (
	"time"

	generaldata "github.com/mstarongithub/way2gay/general-data"
	"github.com/mstarongithub/way2gay/scene"
)

type recordingClient struct {
	sizes     []generaldata.Vector2i
	closed    int
	popupDone int
	margins   [4]int
}

func (c *recordingClient) Configure(size generaldata.Vector2i, _ scene.States) {
	c.sizes = append(c.sizes, size)
}
func (c *recordingClient) Close()              { c.closed++ }
func (c *recordingClient) PopupDone()          { c.popupDone++ }
func (c *recordingClient) FrameDone(time.Time) {}

func (c *recordingClient) SetFrameMargins(left, right, top, bottom int) {
	c.margins = [4]int{left, right, top, bottom}
}

func (c *recordingClient) lastSize() generaldata.Vector2i {
	if len(c.sizes) == 0 {
		return generaldata.Vector2i{}
	}
	return c.sizes[len(c.sizes)-1]
}

type fakeGrabs struct {
	moves   []*scene.Surface
	resizes []scene.Edges
}

func (g *fakeGrabs) BeginMove(s *scene.Surface) error {
	g.moves = append(g.moves, s)
	return nil
}

func (g *fakeGrabs) BeginResize(s *scene.Surface, edges scene.Edges, anchored bool) error {
	g.resizes = append(g.resizes, edges)
	return nil
}

func vec(x, y int) generaldata.Vector2i {
	return generaldata.Vector2i{X: x, Y: y}
}

// newTestScene has one 1000x800 output called DP-1
func newTestScene() (*scene.Scene, *scene.Output) {
	sc := scene.New(scene.DefaultSettings())
	o := scene.NewOutput("DP-1", generaldata.Rect{W: 1000, H: 800}, nil)
	sc.AddOutput(o)
	return sc, o
}

func buffer(x, y int) *scene.Buffer {
	return &scene.Buffer{Size: vec(x, y)}
}

// xdgWindow creates and maps an xdg toplevel
func xdgWindow(x *XDGShell, id ObjectID, size generaldata.Vector2i) (*scene.Surface, *recordingClient) {
	c := &recordingClient{}
	s, err := x.NewSurface(id, c)
	if err != nil {
		panic(err)
	}
	if err := x.GetToplevel(id); err != nil {
		panic(err)
	}
	if err := x.Commit(id, &scene.Buffer{Size: size}); err != nil {
		panic(err)
	}
	return s, c
}

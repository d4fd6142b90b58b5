package scene

import (
	"slices"
	"time"

	generaldata "github.com/mstarongithub/way2gay/general-data"
)

type configure struct {
	size   generaldata.Vector2i
	states States
}

// recordingClient remembers everything the scene asked of it
type recordingClient struct {
	configures []configure
	closed     int
	popupDone  int
	frames     int
}

func (c *recordingClient) Configure(size generaldata.Vector2i, states States) {
	c.configures = append(c.configures, configure{size, states})
}

func (c *recordingClient) Close()              { c.closed++ }
func (c *recordingClient) PopupDone()          { c.popupDone++ }
func (c *recordingClient) FrameDone(time.Time) { c.frames++ }

func (c *recordingClient) last() configure {
	if len(c.configures) == 0 {
		return configure{}
	}
	return c.configures[len(c.configures)-1]
}

func vec(x, y int) generaldata.Vector2i {
	return generaldata.Vector2i{X: x, Y: y}
}

func pt(x, y float64) generaldata.Vector2f {
	return generaldata.Vector2f{X: x, Y: y}
}

// mapped creates a surface that already committed content of the given size
func mapped(sc *Scene, role Role, parent *Surface, pos, size generaldata.Vector2i) *Surface {
	s := sc.NewSurface(SurfaceOptions{Role: role, Parent: parent, Position: pos, Client: &recordingClient{}})
	s.Commit(&Buffer{Size: size})
	return s
}

func drawOrder(sc *Scene) []*Surface {
	return slices.Collect(sc.SurfacesInDrawOrder())
}

func hitOrder(sc *Scene) []*Surface {
	return slices.Collect(sc.SurfacesInHitTestOrder())
}

func ids(list []*Surface) []uint32 {
	out := make([]uint32, len(list))
	for i, s := range list {
		out[i] = s.ID()
	}
	return out
}

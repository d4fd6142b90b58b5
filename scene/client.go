package scene

import (
	"image"
	"strings"
	"time"

	generaldata "github.com/mstarongithub/way2gay/general-data"
	"github.com/mstarongithub/way2gay/render"
)

// Edges is a bitmask of window edges, used for resizing and layer shell anchors
type Edges uint32

const (
	EdgeNone = Edges(0)
	EdgeTop  = Edges(1 << (iota - 1))
	EdgeLeft
	EdgeRight
	EdgeBottom
)

func (e Edges) String() string {
	if e == EdgeNone {
		return "none"
	}
	parts := []string{}
	if e&EdgeTop != 0 {
		parts = append(parts, "top")
	}
	if e&EdgeBottom != 0 {
		parts = append(parts, "bottom")
	}
	if e&EdgeLeft != 0 {
		parts = append(parts, "left")
	}
	if e&EdgeRight != 0 {
		parts = append(parts, "right")
	}
	return strings.Join(parts, "|")
}

// States sent along with a configure
type States struct {
	Maximized  bool
	Fullscreen bool
	Activated  bool
	Resizing   bool
}

// Client is how the scene talks back to whichever protocol created a surface.
// Protocol adapters implement it, the scene never knows which protocol it is talking to
type Client interface {
	// Configure asks the client to use the given size (zero means the client decides) and states
	Configure(size generaldata.Vector2i, states States)
	// Close asks the client to close the window
	Close()
	// PopupDone tells a popup it got dismissed
	PopupDone()
	// FrameDone tells the client a frame containing its content was presented
	FrameDone(t time.Time)
}

// NopClient ignores everything. Used for surfaces without a shell, like cursors and drag icons
type NopClient struct{}

func (NopClient) Configure(generaldata.Vector2i, States) {}
func (NopClient) Close()                                 {}
func (NopClient) PopupDone()                             {}
func (NopClient) FrameDone(time.Time)                    {}

// Buffer is the latest content committed by a client
type Buffer struct {
	// Pixels, may be nil for backends presenting client buffers themselves
	Image image.Image
	// Backend specific handle of the buffer
	Handle uint64
	// Destination size in logical pixels
	Size   generaldata.Vector2i
	Origin render.Origin
	Format render.PixelFormat
	// Assigned on commit, increases with every commit of the surface
	Serial uint64
}

func (b *Buffer) source() render.Source {
	return render.Source{Image: b.Image, Handle: b.Handle, Format: b.Format}
}

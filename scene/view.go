package scene

import (
	"fmt"

	generaldata "github.com/mstarongithub/way2gay/general-data"
	"github.com/mstarongithub/way2gay/render"
)

// SurfaceView is what a surface looks like to one output: the texture holding its
// content on that output's renderer. Created the first time the surface is drawn there
type SurfaceView struct {
	surface *Surface
	output  *Output

	texture render.TextureID
	// Serial of the buffer currently in the texture
	serial uint64
	size   generaldata.Vector2i
	origin render.Origin
	format render.PixelFormat

	// While locked the texture keeps its content, someone still needs the previous frame
	locked bool
}

func newSurfaceView(s *Surface, o *Output) *SurfaceView {
	return &SurfaceView{surface: s, output: o}
}

func (v *SurfaceView) Surface() *Surface {
	return v.surface
}

func (v *SurfaceView) Output() *Output {
	return v.output
}

// Texture returns the texture for the surface's latest buffer, uploading it if it changed since the last call
func (v *SurfaceView) Texture() (render.TextureID, error) {
	b := v.surface.buffer
	if v.locked && v.texture != 0 {
		return v.texture, nil
	}
	if b == nil {
		if v.texture != 0 {
			return v.texture, nil
		}
		return 0, fmt.Errorf("%s has no buffer: %w", v.surface, render.ErrUnknownTexture)
	}
	if v.texture != 0 && b.Serial == v.serial {
		return v.texture, nil
	}
	renderer := v.output.renderer
	if v.texture == 0 {
		id, err := renderer.Upload(b.source())
		if err != nil {
			return 0, err
		}
		v.texture = id
	} else if err := renderer.Update(v.texture, b.source()); err != nil {
		return 0, err
	}
	v.serial = b.Serial
	v.size = b.Size
	v.origin = b.Origin
	v.format = b.Format
	return v.texture, nil
}

func (v *SurfaceView) BufferSize() generaldata.Vector2i {
	return v.size
}

func (v *SurfaceView) Origin() render.Origin {
	return v.origin
}

func (v *SurfaceView) Format() render.PixelFormat {
	return v.format
}

func (v *SurfaceView) Lock() {
	v.locked = true
}

func (v *SurfaceView) Unlock() {
	v.locked = false
}

func (v *SurfaceView) Locked() bool {
	return v.locked
}

func (v *SurfaceView) release() {
	if v.texture != 0 {
		v.output.renderer.Release(v.texture)
		v.texture = 0
	}
	v.locked = false
}

package compositor

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	generaldata "github.com/mstarongithub/way2gay/general-data"
	"github.com/mstarongithub/way2gay/render"
	"github.com/mstarongithub/way2gay/scene"
)

type blit struct {
	tex    render.TextureID
	target image.Rectangle
}

// recordingRenderer is a software renderer remembering every blit into the main frame
type recordingRenderer struct {
	*render.Software
	noOffscreen bool
	blits       []blit
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{Software: render.NewSoftware()}
}

func (r *recordingRenderer) Begin(viewport image.Rectangle) (render.Target, error) {
	r.blits = nil
	t, err := r.Software.Begin(viewport)
	if err != nil {
		return nil, err
	}
	return &recordingTarget{Target: t, renderer: r}, nil
}

func (r *recordingRenderer) Offscreen(size image.Point) (render.Offscreen, error) {
	if r.noOffscreen {
		return nil, fmt.Errorf("offscreen of %v: %w", size, render.ErrUnsupported)
	}
	return r.Software.Offscreen(size)
}

type recordingTarget struct {
	render.Target
	renderer *recordingRenderer
}

func (t *recordingTarget) Blit(tex render.TextureID, tf render.Transform, origin render.Origin, format render.PixelFormat) error {
	t.renderer.blits = append(t.renderer.blits, blit{tex: tex, target: tf.Target})
	return t.Target.Blit(tex, tf, origin, format)
}

type countingClient struct {
	scene.NopClient
	frames int
}

func (c *countingClient) FrameDone(time.Time) { c.frames++ }

var red = color.RGBA{R: 0xff, A: 0xff}

func vec(x, y int) generaldata.Vector2i {
	return generaldata.Vector2i{X: x, Y: y}
}

func legacySettings() scene.Settings {
	set := scene.DefaultSettings()
	set.LegacyRender = true
	return set
}

// setup creates a scene with one 1000x800 output at the origin
func setup(settings scene.Settings) (*scene.Scene, *scene.Output, *recordingRenderer) {
	sc := scene.New(settings)
	r := newRecordingRenderer()
	o := scene.NewOutput("DP-1", generaldata.Rect{W: 1000, H: 800}, r)
	if err := sc.AddOutput(o); err != nil {
		panic(err)
	}
	return sc, o, r
}

func solid(size generaldata.Vector2i, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// surface creates a surface with solid red content unless size is empty
func surface(sc *scene.Scene, role scene.Role, parent *scene.Surface, pos, size generaldata.Vector2i, ssd bool) (*scene.Surface, *countingClient) {
	c := &countingClient{}
	s := sc.NewSurface(scene.SurfaceOptions{
		Role:            role,
		Parent:          parent,
		Position:        pos,
		ServerDecorated: ssd,
		Client:          c,
	})
	if !size.Empty() {
		s.Commit(&scene.Buffer{Image: solid(size, red), Size: size})
	}
	return s, c
}

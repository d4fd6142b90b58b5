package compositor

import (
	"errors"
	"image"

	"github.com/sirupsen/logrus"

	generaldata "github.com/mstarongithub/way2gay/general-data"
	"github.com/mstarongithub/way2gay/render"
	"github.com/mstarongithub/way2gay/scene"
)

// drawer holds everything needed while one frame is in progress
type drawer struct {
	compositor *Compositor
	output     *scene.Output
	renderer   render.Renderer
	target     render.Target
	viewport   image.Rectangle
	cache      *textureCache
	frame      *Frame
}

// bufferRect is where the client buffer of s goes in layout coordinates
func bufferRect(s *scene.Surface, v *scene.SurfaceView) generaldata.Rect {
	size := v.BufferSize()
	if size.Empty() {
		size = s.Size()
	}
	return generaldata.RectAt(s.SurfacePosition().Sub(s.GeometryOffset()).ToF(), size)
}

// drawSurface puts s into the frame, reporting whether anything of it got drawn
func (d *drawer) drawSurface(s *scene.Surface) bool {
	if s.Hidden() || !s.ReadyToRender() {
		d.frame.Skipped++
		return false
	}
	composed := s.NeedsComposedDecoration()
	bounds := s.ContentRect()
	if composed {
		bounds = s.ShadowRect()
	}
	if !bounds.Intersects(d.output.Rect()) {
		d.frame.Skipped++
		return false
	}

	view := s.View(d.output)
	tex, err := view.Texture()
	if err != nil {
		d.fail(s, "upload content", err)
		return false
	}
	if composed {
		if err := d.drawDecoration(s); err != nil {
			d.fail(s, "compose decoration", err)
			return false
		}
	}
	tf := render.TargetTransform(bufferRect(s, view).Image(), d.viewport)
	if err := d.target.Blit(tex, tf, view.Origin(), view.Format()); err != nil {
		d.fail(s, "blit content", err)
		return false
	}
	d.frame.Blits++
	return true
}

func (d *drawer) fail(s *scene.Surface, stage string, err error) {
	d.frame.Failed++
	logrus.WithError(err).WithFields(logrus.Fields{
		"surface": s.ID(),
		"output":  d.output.Name(),
		"stage":   stage,
	}).Warnln("Skipping surface this frame")
}

// drawDecoration puts shadow and chrome of s into the frame.
// With a shadow both get composed offscreen so translucent content doesn't show the shadow through
func (d *drawer) drawDecoration(s *scene.Surface) error {
	shadow := d.compositor.decor.Shadow(s)
	chrome := d.compositor.decor.Image(s)
	if shadow == nil {
		if chrome == nil {
			return nil
		}
		if err := d.blitImage(d.target, d.viewport, chrome, s.DecoratedRect().Image()); err != nil {
			return err
		}
		d.frame.Blits++
		return nil
	}

	area := s.ShadowRect().Image()
	off, err := d.renderer.Offscreen(area.Size())
	if errors.Is(err, render.ErrUnsupported) {
		return d.drawDecorationDirect(s, shadow, chrome)
	}
	if err != nil {
		return err
	}
	defer off.Release()

	if err := d.blitImage(off, area, shadow, area); err != nil {
		return err
	}
	decorated := s.DecoratedRect().Image()
	off.ClearRect(decorated.Sub(area.Min))
	if chrome != nil {
		if err := d.blitImage(off, area, chrome, decorated); err != nil {
			return err
		}
	}
	tf := render.TargetTransform(area, d.viewport)
	if err := d.target.Blit(off.Texture(), tf, render.OriginTopLeft, render.FormatARGB8888); err != nil {
		return err
	}
	d.frame.Blits++
	return nil
}

// drawDecorationDirect is the fallback for renderers without offscreen buffers
func (d *drawer) drawDecorationDirect(s *scene.Surface, shadow, chrome *image.RGBA) error {
	if err := d.blitImage(d.target, d.viewport, shadow, s.ShadowRect().Image()); err != nil {
		return err
	}
	d.frame.Blits++
	if chrome == nil {
		return nil
	}
	if err := d.blitImage(d.target, d.viewport, chrome, s.DecoratedRect().Image()); err != nil {
		return err
	}
	d.frame.Blits++
	return nil
}

// blitImage draws a compositor owned image at dst, both given in the coordinates of viewport
func (d *drawer) blitImage(t render.Target, viewport image.Rectangle, img *image.RGBA, dst image.Rectangle) error {
	tex, err := d.cache.texture(img)
	if err != nil {
		return err
	}
	return t.Blit(tex, render.TargetTransform(dst, viewport), render.OriginTopLeft, render.FormatARGB8888)
}

// drawInfoLabel writes product and kernel into the bottom right corner of the output
func (d *drawer) drawInfoLabel() {
	img := d.compositor.infoLabel()
	size := img.Bounds().Size()
	out := d.output.Rect().Image()
	pos := out.Max.Sub(size).Sub(image.Pt(InfoMargin, InfoMargin))
	if err := d.blitImage(d.target, d.viewport, img, image.Rectangle{Min: pos, Max: pos.Add(size)}); err != nil {
		logrus.WithError(err).WithField("output", d.output.Name()).Warnln("Failed to draw desktop info")
		return
	}
	d.frame.Blits++
}

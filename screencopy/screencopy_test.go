package screencopy

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"
	"time"

	"github.com/mstarongithub/way2gay/compositor"
	generaldata "github.com/mstarongithub/way2gay/general-data"
	"github.com/mstarongithub/way2gay/render"
	"github.com/mstarongithub/way2gay/scene"
)

var blue = color.RGBA{B: 0xff, A: 0xff}

func setup(t *testing.T) (*scene.Scene, *scene.Output, *compositor.Compositor, *Service) {
	t.Helper()
	set := scene.DefaultSettings()
	set.LegacyRender = true
	sc := scene.New(set)
	o := scene.NewOutput("DP-1", generaldata.Rect{X: 100, W: 400, H: 300}, render.NewSoftware())
	if err := sc.AddOutput(o); err != nil {
		t.Fatal(err)
	}
	c := compositor.New(sc)
	s, err := New(sc, c)
	if err != nil {
		t.Fatal(err)
	}
	return sc, o, c, s
}

func window(sc *scene.Scene, pos, size generaldata.Vector2i, c color.RGBA) *scene.Surface {
	img := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	s := sc.NewSurface(scene.SurfaceOptions{Role: scene.RoleTopLevel, Position: pos})
	s.Commit(&scene.Buffer{Image: img, Size: size})
	return s
}

func TestCaptureDeliveredWithNextFrame(t *testing.T) {
	sc, o, c, s := setup(t)
	window(sc, generaldata.Vector2i{X: 150, Y: 50}, generaldata.Vector2i{X: 20, Y: 20}, blue)

	region := image.Rect(140, 40, 160, 60)
	frames, err := s.Capture("DP-1", &region)
	if err != nil {
		t.Fatal(err)
	}
	select {
	case <-frames:
		t.Fatal("capture delivered before any frame was drawn")
	default:
	}
	if s.Pending("DP-1") != 1 {
		t.Errorf("%d pending", s.Pending("DP-1"))
	}

	if _, err := c.RenderOutput(o, time.Now()); err != nil {
		t.Fatal(err)
	}
	f, ok := <-frames
	if !ok || f.Err != nil || f.Image == nil {
		t.Fatalf("frame %+v", f)
	}
	if f.Region != region || f.Image.Bounds().Size() != region.Size() {
		t.Errorf("captured %v, image %v", f.Region, f.Image.Bounds())
	}
	if got := f.Image.RGBAAt(15, 15); got != blue {
		t.Errorf("window pixel %v", got)
	}
	if got := f.Image.RGBAAt(2, 2); got != sc.Settings().Background {
		t.Errorf("background pixel %v", got)
	}
	if _, ok := <-frames; ok {
		t.Errorf("channel not closed after delivery")
	}
	if s.Pending("DP-1") != 0 {
		t.Errorf("capture still pending")
	}
}

func TestCaptureWholeOutput(t *testing.T) {
	_, o, c, s := setup(t)
	frames, err := s.Capture("DP-1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.RenderOutput(o, time.Now()); err != nil {
		t.Fatal(err)
	}
	if f := <-frames; f.Region != o.Rect().Image() {
		t.Errorf("region %v", f.Region)
	}
}

func TestCaptureErrors(t *testing.T) {
	_, _, _, s := setup(t)
	if _, err := s.Capture("HDMI-A-1", nil); !errors.Is(err, ErrUnknownOutput) {
		t.Errorf("unknown output: %v", err)
	}
	outside := image.Rect(0, 0, 50, 50)
	if _, err := s.Capture("DP-1", &outside); !errors.Is(err, ErrEmptyRegion) {
		t.Errorf("region outside: %v", err)
	}
}

// lockWatcher records whether a view was locked while the frame got read back
type lockWatcher struct {
	*render.Software
	view         *scene.SurfaceView
	lockedOnRead bool
}

func (l *lockWatcher) ReadPixels(r image.Rectangle) (*image.RGBA, error) {
	if l.view != nil {
		l.lockedOnRead = l.view.Locked()
	}
	return l.Software.ReadPixels(r)
}

func TestCaptureLocksViewsWhileReading(t *testing.T) {
	set := scene.DefaultSettings()
	set.LegacyRender = true
	sc := scene.New(set)
	watcher := &lockWatcher{Software: render.NewSoftware()}
	o := scene.NewOutput("DP-1", generaldata.Rect{W: 400, H: 300}, watcher)
	if err := sc.AddOutput(o); err != nil {
		t.Fatal(err)
	}
	c := compositor.New(sc)
	s, err := New(sc, c)
	if err != nil {
		t.Fatal(err)
	}
	w := window(sc, generaldata.Vector2i{X: 50, Y: 50}, generaldata.Vector2i{X: 20, Y: 20}, blue)
	if _, err := c.RenderOutput(o, time.Now()); err != nil {
		t.Fatal(err)
	}
	v := w.ViewForOutput(o)
	if v == nil {
		t.Fatal("no view after drawing")
	}
	watcher.view = v

	frames, err := s.Capture("DP-1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if v.Locked() {
		t.Errorf("view locked before the captured frame was drawn")
	}
	if _, err := c.RenderOutput(o, time.Now()); err != nil {
		t.Fatal(err)
	}
	<-frames
	if !watcher.lockedOnRead {
		t.Errorf("view not locked while the frame was read back")
	}
	if v.Locked() {
		t.Errorf("view still locked after delivery")
	}
}

func TestCaptureSeesCommitAfterRequest(t *testing.T) {
	sc, o, c, s := setup(t)
	pos := generaldata.Vector2i{X: 150, Y: 50}
	size := generaldata.Vector2i{X: 20, Y: 20}
	w := window(sc, pos, size, blue)
	if _, err := c.RenderOutput(o, time.Now()); err != nil {
		t.Fatal(err)
	}

	frames, err := s.Capture("DP-1", nil)
	if err != nil {
		t.Fatal(err)
	}
	red := color.RGBA{R: 0xff, A: 0xff}
	img := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.Draw(img, img.Bounds(), image.NewUniform(red), image.Point{}, draw.Src)
	w.Commit(&scene.Buffer{Image: img, Size: size})
	if _, err := c.RenderOutput(o, time.Now()); err != nil {
		t.Fatal(err)
	}

	f := <-frames
	if f.Err != nil || f.Image == nil {
		t.Fatalf("frame %+v", f)
	}
	// Output starts at x 100, the window at 150,50
	if got := f.Image.RGBAAt(55, 55); got != red {
		t.Errorf("captured %v, want the buffer committed after the request", got)
	}
}

func TestCloseFailsPending(t *testing.T) {
	sc, o, c, s := setup(t)
	w := window(sc, generaldata.Vector2i{X: 150, Y: 50}, generaldata.Vector2i{X: 20, Y: 20}, blue)
	if _, err := c.RenderOutput(o, time.Now()); err != nil {
		t.Fatal(err)
	}
	frames, err := s.Capture("DP-1", nil)
	if err != nil {
		t.Fatal(err)
	}
	damage, err := s.Watch("bar")
	if err != nil {
		t.Fatal(err)
	}

	s.Close()
	if f := <-frames; !errors.Is(f.Err, ErrClosed) {
		t.Errorf("pending capture got %+v", f)
	}
	if w.ViewForOutput(o).Locked() {
		t.Errorf("view still locked after close")
	}
	if _, ok := <-damage; ok {
		t.Errorf("watcher still open")
	}
	if _, err := s.Capture("DP-1", nil); !errors.Is(err, ErrClosed) {
		t.Errorf("capture after close: %v", err)
	}
	if c.FrameRendered.Len() != 0 {
		t.Errorf("still listening for frames")
	}
}

func TestDropOutput(t *testing.T) {
	_, o, _, s := setup(t)
	frames, err := s.Capture("DP-1", nil)
	if err != nil {
		t.Fatal(err)
	}
	s.DropOutput(o)
	if f := <-frames; !errors.Is(f.Err, ErrUnknownOutput) {
		t.Errorf("got %+v", f)
	}
}

func TestWatchGetsDamage(t *testing.T) {
	_, o, c, s := setup(t)
	damage, err := s.Watch("bar")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := c.RenderOutput(o, time.Now()); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 2; i++ {
		d := <-damage
		if d.Output != "DP-1" || d.Rect != o.Rect().Image() {
			t.Errorf("damage %+v", d)
		}
	}
	s.Unwatch("bar")
	if _, ok := <-damage; ok {
		t.Errorf("watcher still open after unwatch")
	}
}

func TestWatchNeverBlocksFrames(t *testing.T) {
	_, o, c, s := setup(t)
	if _, err := s.Watch("sleepy"); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < watchBuffer+5; i++ {
		if _, err := c.RenderOutput(o, time.Now()); err != nil {
			t.Fatal(err)
		}
	}
}

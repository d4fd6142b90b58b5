package shell

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mstarongithub/way2gay/scene"
)

const windowManagementProtocol = "org_kde_plasma_window_management"

// WindowInfo is what a taskbar gets to know about a window
type WindowInfo struct {
	UUID        uuid.UUID `json:"uuid"`
	Title       string    `json:"title"`
	AppID       string    `json:"app_id"`
	Active      bool      `json:"active"`
	Minimized   bool      `json:"minimized"`
	Maximized   bool      `json:"maximized"`
	Fullscreen  bool      `json:"fullscreen"`
	CanMinimize bool      `json:"can_minimize"`
	CanMaximize bool      `json:"can_maximize"`
	CanClose    bool      `json:"can_close"`
}

func windowInfo(s *scene.Surface) WindowInfo {
	caps := s.Capabilities()
	return WindowInfo{
		UUID:        s.UUID(),
		Title:       s.Title(),
		AppID:       s.AppID(),
		Active:      s.Activated(),
		Minimized:   s.Minimized(),
		Maximized:   s.Maximized(),
		Fullscreen:  s.Fullscreen(),
		CanMinimize: caps.CanMinimize,
		CanMaximize: caps.CanMaximize,
		CanClose:    caps.CanClose,
	}
}

// WindowManagement lets an external taskbar list and control windows by uuid
type WindowManagement struct {
	scene *scene.Scene
}

func NewWindowManagement(sc *scene.Scene) *WindowManagement {
	return &WindowManagement{scene: sc}
}

// Windows lists every window bottom to top
func (w *WindowManagement) Windows() []WindowInfo {
	ids := w.scene.ZOrderUUIDs()
	out := make([]WindowInfo, 0, len(ids))
	for _, id := range ids {
		if s := w.scene.SurfaceByUUID(id); s != nil {
			out = append(out, windowInfo(s))
		}
	}
	return out
}

func (w *WindowManagement) window(id uuid.UUID) (*scene.Surface, error) {
	s := w.scene.SurfaceByUUID(id)
	if s == nil || !s.Role().IsWindow() {
		return nil, protocolError(windowManagementProtocol, 0, ErrInvalidObject, 0, "no window %s", id)
	}
	return s, nil
}

// Activate unminimizes, raises and focuses a window
func (w *WindowManagement) Activate(id uuid.UUID) error {
	s, err := w.window(id)
	if err != nil {
		return err
	}
	s.SetMinimized(false)
	w.scene.Raise(s)
	w.scene.Activate(s)
	return nil
}

func (w *WindowManagement) ToggleMinimize(id uuid.UUID) error {
	s, err := w.window(id)
	if err != nil {
		return err
	}
	s.ToggleMinimized()
	if !s.Minimized() {
		w.scene.Raise(s)
		w.scene.Activate(s)
	}
	return nil
}

func (w *WindowManagement) ToggleMaximize(id uuid.UUID) error {
	s, err := w.window(id)
	if err != nil {
		return err
	}
	s.ToggleMaximized()
	return nil
}

func (w *WindowManagement) Close(id uuid.UUID) error {
	s, err := w.window(id)
	if err != nil {
		return err
	}
	s.Close()
	return nil
}

// Watch calls fn with the window list every time the stacking order changes
func (w *WindowManagement) Watch(name string, fn func([]WindowInfo)) error {
	return w.scene.ZOrderChanged.Connect(name, func([]uuid.UUID) {
		fn(w.Windows())
	})
}

func (w *WindowManagement) Unwatch(name string) {
	w.scene.ZOrderChanged.Disconnect(name)
	logrus.WithField("listener", name).Debugln("Window list watcher removed")
}

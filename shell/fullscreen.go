package shell

import (
	"github.com/mstarongithub/way2gay/scene"
)

const fullscreenShellProtocol = "zwp_fullscreen_shell_v1"

// zwp_fullscreen_shell_v1 error codes
const FullscreenErrorInvalidMethod = 0

// FullscreenShell adapts zwp_fullscreen_shell_v1: each presented surface covers one output, undecorated
type FullscreenShell struct {
	scene    *scene.Scene
	surfaces objects[*scene.Surface]
}

func NewFullscreenShell(sc *scene.Scene) *FullscreenShell {
	return &FullscreenShell{
		scene:    sc,
		surfaces: newObjects[*scene.Surface](fullscreenShellProtocol),
	}
}

// PresentSurface shows a new surface on the named output, an empty name picks the first output
func (f *FullscreenShell) PresentSurface(id ObjectID, client scene.Client, output string) (*scene.Surface, error) {
	var o *scene.Output
	if output != "" {
		o = f.scene.OutputByName(output)
	} else if outputs := f.scene.Outputs(); len(outputs) > 0 {
		o = outputs[0]
	}
	if o == nil {
		return nil, protocolError(fullscreenShellProtocol, id, ErrInvalidOutput, FullscreenErrorInvalidMethod, "no output %q", output)
	}
	s := f.scene.NewSurface(scene.SurfaceOptions{Role: scene.RoleFullscreenShell, Client: client})
	if err := f.surfaces.add(id, s); err != nil {
		f.scene.Destroy(s)
		return nil, err
	}
	if err := s.SetFullscreen(true, o); err != nil {
		f.surfaces.remove(id)
		f.scene.Destroy(s)
		return nil, transitionError(fullscreenShellProtocol, id, FullscreenErrorInvalidMethod, err)
	}
	return s, nil
}

func (f *FullscreenShell) Commit(id ObjectID, buffer *scene.Buffer) error {
	s, err := f.surfaces.get(id)
	if err != nil {
		return err
	}
	mapping := !s.ReadyToRender()
	s.Commit(buffer)
	if mapping && s.ReadyToRender() {
		f.scene.Activate(s)
	}
	return nil
}

func (f *FullscreenShell) Destroy(id ObjectID) {
	if s, ok := f.surfaces.remove(id); ok {
		f.scene.Destroy(s)
	}
}

// Package ipc holds the JSON shapes way2gay hands out about its state,
// both from the repl and from tool mode
package ipc

import (
	"encoding/json"

	generaldata "github.com/mstarongithub/way2gay/general-data"
	"github.com/mstarongithub/way2gay/input"
	"github.com/mstarongithub/way2gay/scene"
)

// TODO: Look into adding support for sway and hyprland ipc so that w2g can interact with those in tool mode

type (
	// A request to list the available Outputs
	OutputRequest struct {
		// Whether to include the modes an output supports
		IncludeModes bool `json:"include_modes"`
		// Target one specific output
		SpecifiesOutput bool `json:"specifies_output"`
		// Name of the output you want info on. Only matters if SpecifiesOutput is set
		TargetOutput string `json:"target_output"`
	}

	// A mode an output supports
	OutputMode struct {
		// Mode height in pixel
		Height int `json:"height"`
		// Mode width in pixel
		Width int `json:"width"`
		// Refresh rate of the mode in millihertz
		RefreshRate int  `json:"refresh_rate"`
		Preferred   bool `json:"preferred,omitempty"`
	}

	// Response to a OutputRequest message
	OutputResponse struct {
		// List of all outputs. Only contains target output if specified
		Outputs []string `json:"outputs"`
		// A list of modes an output supports. Only set if IncludeModes is true
		OutputModes map[string][]OutputMode `json:"output_modes,omitempty"`
		// Nr of outputs found
		OutputsFound int `json:"outputs_found"`
	}

	Rect struct {
		X int `json:"x"`
		Y int `json:"y"`
		W int `json:"w"`
		H int `json:"h"`
	}

	// One surface of the scene
	Surface struct {
		ID     uint32 `json:"id"`
		UUID   string `json:"uuid"`
		Role   string `json:"role"`
		Layer  string `json:"layer"`
		Title  string `json:"title,omitempty"`
		AppID  string `json:"app_id,omitempty"`
		Parent uint32 `json:"parent,omitempty"`
		// Client area in layout coordinates
		Content         Rect `json:"content"`
		ServerDecorated bool `json:"server_decorated"`
		Activated       bool `json:"activated,omitempty"`
		Minimized       bool `json:"minimized,omitempty"`
		Maximized       bool `json:"maximized,omitempty"`
		Fullscreen      bool `json:"fullscreen,omitempty"`
		Mapped          bool `json:"mapped"`
	}

	Output struct {
		Name string `json:"name"`
		Rect Rect   `json:"rect"`
		// What is left after layer shell reservations
		Available Rect `json:"available"`
	}

	Grab struct {
		Kind    string `json:"kind"`
		Surface uint32 `json:"surface,omitempty"`
		Edges   string `json:"edges,omitempty"`
		Target  uint32 `json:"target,omitempty"`
	}

	// Snapshot is everything the scene knows, surfaces in draw order
	Snapshot struct {
		Surfaces []Surface `json:"surfaces"`
		Outputs  []Output  `json:"outputs"`
		Focused  uint32    `json:"focused,omitempty"`
		Grab     *Grab     `json:"grab,omitempty"`
	}
)

func RectOf(r generaldata.Rect) Rect {
	img := r.Image()
	return Rect{X: img.Min.X, Y: img.Min.Y, W: img.Dx(), H: img.Dy()}
}

func SurfaceOf(s *scene.Surface) Surface {
	out := Surface{
		ID:              s.ID(),
		UUID:            s.UUID().String(),
		Role:            s.Role().String(),
		Layer:           s.Layer().String(),
		Title:           s.Title(),
		AppID:           s.AppID(),
		Content:         RectOf(s.ContentRect()),
		ServerDecorated: s.ServerDecorated(),
		Activated:       s.Activated(),
		Minimized:       s.Minimized(),
		Maximized:       s.Maximized(),
		Fullscreen:      s.Fullscreen(),
		Mapped:          s.ReadyToRender(),
	}
	if p := s.Parent(); p != nil {
		out.Parent = p.ID()
	}
	return out
}

func OutputOf(o *scene.Output) Output {
	return Output{Name: o.Name(), Rect: RectOf(o.Rect()), Available: RectOf(o.AvailableArea())}
}

// GrabOf returns nil while no grab is active
func GrabOf(g input.Grab) *Grab {
	if !g.Active() {
		return nil
	}
	out := &Grab{Kind: g.Kind.String(), Surface: g.Surface.ID()}
	switch g.Kind {
	case input.GrabResize:
		out.Edges = g.Edges.String()
	case input.GrabDrag:
		if g.Target != nil {
			out.Target = g.Target.ID()
		}
	}
	return out
}

// SnapshotOf collects the state of sc. Router may be nil
func SnapshotOf(sc *scene.Scene, router *input.Router) Snapshot {
	snap := Snapshot{Surfaces: []Surface{}, Outputs: []Output{}}
	for s := range sc.SurfacesInDrawOrder() {
		snap.Surfaces = append(snap.Surfaces, SurfaceOf(s))
	}
	for _, o := range sc.Outputs() {
		snap.Outputs = append(snap.Outputs, OutputOf(o))
	}
	if f := sc.Focused(); f != nil {
		snap.Focused = f.ID()
	}
	if router != nil {
		snap.Grab = GrabOf(router.Grab())
	}
	return snap
}

// Marshal renders v as indented JSON
func Marshal(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

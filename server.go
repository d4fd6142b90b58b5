package main

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/swaywm/go-wlroots/wlroots"

	"github.com/mstarongithub/way2gay/compositor"
	"github.com/mstarongithub/way2gay/config"
	generaldata "github.com/mstarongithub/way2gay/general-data"
	"github.com/mstarongithub/way2gay/input"
	"github.com/mstarongithub/way2gay/scene"
	"github.com/mstarongithub/way2gay/screencopy"
	"github.com/mstarongithub/way2gay/shell"
	"github.com/mstarongithub/way2gay/shortcuts"
	"github.com/mstarongithub/way2gay/util/multiplexer"
)

// Size used for outputs that don't advertise any mode, like nested wayland outputs
var fallbackOutputSize = generaldata.Vector2i{X: 1280, Y: 720}

const listenerName = "server"

type Server struct {
	conf *config.Config

	display     wlroots.Display
	backend     wlroots.Backend
	renderer    wlroots.Renderer
	allocator   wlroots.Allocator
	wlScene     wlroots.Scene
	sceneLayout wlroots.SceneOutputLayout

	xdgShell wlroots.XDGShell

	cursor    wlroots.Cursor
	cursorMgr wlroots.XCursorManager

	seat      wlroots.Seat
	keyboards []*Keyboard
	// Last axis source wlroots reported, handed back when forwarding scroll events
	axisSource wlroots.AxisSource

	outputLayout wlroots.OutputLayout
	outputs      []*wlroots.Output

	// Everything below is the compositor proper, wlroots only presents what it decides
	scene        *scene.Scene
	compositor   *compositor.Compositor
	screencopy   *screencopy.Service
	router       *input.Router
	shortcuts    *shortcuts.Matcher
	xdg          *shell.XDGShell
	windows      *windows
	nodes        *nodeRenderer
	sceneOutputs map[string]*scene.Output
	// Left edge of the next output in layout coordinates
	nextOutputX int
	// Set whenever the scene asks for a new frame, cleared by flush
	dirty bool
	tasks *multiplexer.ManyToOne[task]
}

type Keyboard struct {
	dev wlroots.InputDevice
}

// serverSettings are the scene settings the wlroots backend can present.
// It can only move client buffers around, everything drawn by way2gay itself needs the software renderer
func serverSettings(conf *config.Config) scene.Settings {
	set := conf.SceneSettings()
	set.LegacyRender = true
	set.ShowDesktopInfo = false
	set.SoftwareCursor = false
	return set
}

func NewServer(conf *config.Config) (server *Server, err error) {
	server = &Server{
		conf:         conf,
		sceneOutputs: make(map[string]*scene.Output),
		tasks:        multiplexer.NewManyToOne(make(chan task, taskBuffer)),
	}
	if !conf.LegacyRender || conf.ShowDesktopInfo || conf.SoftwareCursor {
		logrus.Infoln("Shadows, desktop info and the software cursor need the software renderer, disabled for wlroots")
	}
	server.scene = scene.New(serverSettings(conf))
	server.compositor = compositor.New(server.scene)
	if server.screencopy, err = screencopy.New(server.scene, server.compositor); err != nil {
		return nil, err
	}
	if server.shortcuts, err = conf.Matcher(); err != nil {
		return nil, err
	}
	server.windows = newWindows()
	server.nodes = newNodeRenderer(server.windows)
	server.router = input.NewRouter(server.scene, &wlSeat{server: server}, server.shortcuts)
	if server.router.MoveModifier, err = conf.MoveMod(); err != nil {
		return nil, err
	}
	server.xdg = shell.NewXDGShell(server.scene, server.router)
	server.handleShortcuts()
	if err = server.scene.RenderRequested.Connect(listenerName, func(struct{}) { server.dirty = true }); err != nil {
		return nil, err
	}

	/* The Wayland display is managed by libwayland. It handles accepting
	 * clients from the Unix socket, manging Wayland globals, and so on. */
	server.display = wlroots.NewDisplay()

	/* The backend is a wlroots feature which abstracts the underlying input and
	 * output hardware. The autocreate option will choose the most suitable
	 * backend based on the current environment, such as opening an X11 window
	 * if an X11 server is running. */
	server.backend, err = server.display.BackendAutocreate()
	if err != nil {
		return nil, err
	}

	/* Autocreates a renderer, either Pixman, GLES2 or Vulkan for us. The user
	 * can also specify a renderer using the WLR_RENDERER env var. */
	server.renderer, err = server.backend.RendererAutoCreate()
	if err != nil {
		return nil, err
	}
	server.renderer.InitDisplay(server.display)

	/* The allocator is the bridge between the renderer and the backend */
	server.allocator, err = server.backend.AllocatorAutocreate(server.renderer)
	if err != nil {
		return nil, err
	}

	server.display.CompositorCreate(5, server.renderer)
	server.display.SubCompositorCreate()
	server.display.DataDeviceManagerCreate()

	server.outputLayout = wlroots.NewOutputLayout()
	server.backend.OnNewOutput(server.handleNewOutput)

	/* The wlroots scene graph only presents client buffers at the positions
	 * and in the stacking order way2gay's own scene decides on */
	server.wlScene = wlroots.NewScene()
	server.sceneLayout = server.wlScene.AttachOutputLayout(server.outputLayout)

	/* Set up xdg-shell version 3 */
	server.xdgShell = server.display.XDGShellCreate(3)
	server.xdgShell.OnNewSurface(server.handleNewXDGSurface)

	server.cursor = wlroots.NewCursor()
	server.cursor.AttachOutputLayout(server.outputLayout)
	server.cursorMgr = wlroots.NewXCursorManager("", 24)

	server.cursor.OnMotion(server.handleCursorMotion)
	server.cursor.OnMotionAbsolute(server.handleCursorMotionAbsolute)
	server.cursor.OnButton(server.handleCursorButton)
	server.cursor.OnAxis(server.handleCursorAxis)
	server.cursor.OnFrame(server.handleCursorFrame)
	server.cursorMgr.Load(1)

	server.backend.OnNewInput(server.handleNewInput)
	server.seat = server.display.SeatCreate("seat0")
	server.seat.OnSetCursorRequest(server.handleSetCursorRequest)

	return
}

func (server *Server) handleShortcuts() {
	server.shortcuts.Handle(shortcuts.ActionQuit, server.Stop)
	server.shortcuts.Handle(shortcuts.ActionSwitchWindow, func() {
		if s := server.scene.CycleFocus(); s != nil {
			server.scene.Raise(s)
		}
	})
	server.shortcuts.Handle(shortcuts.ActionCloseWindow, func() {
		if s := server.scene.Focused(); s != nil {
			s.Close()
		}
	})
	server.shortcuts.Handle(shortcuts.ActionScreenshot, server.screenshot)
}

// flush brings the wlroots scene graph in line with way2gay's scene and runs queued repl tasks.
// Called at the end of every wlroots event handler
func (server *Server) flush() {
	server.runTasks()
	if !server.dirty {
		return
	}
	server.dirty = false
	server.syncWindows()
	server.compositor.RenderAll(time.Now())
}

func (server *Server) handleNewFrame(output wlroots.Output) {
	/* This function is called every time an output is ready to display a frame,
	 * generally at the output's refresh rate (e.g. 60Hz). */
	server.runTasks()
	server.syncWindows()
	if o := server.sceneOutputs[output.Name()]; o != nil {
		if _, err := server.compositor.RenderOutput(o, time.Now()); err != nil {
			logrus.WithError(err).WithField("output", output.Name()).Warnln("Failed to compose frame")
		}
	}

	sOut, err := server.wlScene.SceneOutput(output)
	if err != nil {
		return
	}

	/* Render the scene if needed and commit the output */
	sOut.Commit()
	sOut.SendFrameDone(time.Now())
}

func (server *Server) handleOutputRequestState(output wlroots.Output, state wlroots.OutputState) {
	/* This function is called when the backend requests a new state for
	 * the output. For example, Wayland and X11 backends request a new mode
	 * when the output window is resized. */
	logrus.WithField("output", output.Name()).Debugln("New state request for output")
	output.CommitState(state)
}

func (server *Server) handleOutputDestroy(output wlroots.Output) {
	logrus.WithField("name", output.Name()).Debugln("Output getting destroyed")
	for i, o := range server.outputs {
		if o.Name() == output.Name() {
			server.outputs = append(server.outputs[:i], server.outputs[i+1:]...)
			break
		}
	}
	o := server.sceneOutputs[output.Name()]
	if o == nil {
		return
	}
	delete(server.sceneOutputs, output.Name())
	server.screencopy.DropOutput(o)
	server.compositor.ReleaseOutput(o)
	if err := server.scene.RemoveOutput(o); err != nil {
		logrus.WithError(err).WithField("output", output.Name()).Warnln("Output wasn't part of the scene")
	}
	server.flush()
}

func (server *Server) handleNewOutput(output wlroots.Output) {
	/* This event is raised by the backend when a new output (aka a display or
	 * monitor) becomes available. */
	logrus.WithField("name", output.Name()).Debugln("New output added")
	server.outputs = append(server.outputs, &output)

	/* Configures the output created by the backend to use our allocator
	 * and our renderer. Must be done once, before commiting the output */
	output.InitRender(server.allocator, server.renderer)

	/* The output may be disabled, switch it on. */
	oState := wlroots.NewOutputState()
	oState.StateInit()
	oState.StateSetEnabled(true)

	/* We just pick the monitor's preferred mode */
	size := fallbackOutputSize
	mode, err := output.PrefferedMode()
	if err == nil {
		oState.SetMode(mode)
		size = generaldata.Vector2i{X: int(mode.Width()), Y: int(mode.Height())}
	}

	/* Atomically applies the new output state. */
	output.CommitState(oState)
	oState.Finish()

	output.OnFrame(server.handleNewFrame)
	output.OnRequestState(server.handleOutputRequestState)
	output.OnDestroy(server.handleOutputDestroy)

	/* The add_auto function arranges outputs from left-to-right in the order
	 * they appear, the scene gets the same arrangement */
	lOutput := server.outputLayout.AddOutputAuto(output)
	sceneOutput := server.wlScene.NewOutput(output)
	server.sceneLayout.AddOutput(lOutput, sceneOutput)

	rect := generaldata.Rect{X: float64(server.nextOutputX), W: float64(size.X), H: float64(size.Y)}
	server.nextOutputX += size.X
	o := scene.NewOutput(output.Name(), rect, server.nodes)
	if err := server.scene.AddOutput(o); err != nil {
		logrus.WithError(err).WithField("name", output.Name()).Errorln("Failed to add output to the scene")
	} else {
		server.sceneOutputs[output.Name()] = o
		logrus.WithFields(logrus.Fields{"name": output.Name(), "rect": rect.String()}).Infoln("Output ready")
	}

	if err = output.SetTitle(fmt.Sprintf("%s - %s", compositor.ProductName, output.Name())); err != nil {
		return
	}
}

func (server *Server) GetOutputs() []*wlroots.Output {
	return server.outputs
}

// Spawn starts a command with the compositor's socket in its environment
func (server *Server) Spawn(command string, args ...string) error {
	cmd := exec.Command(command, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", command, err)
	}
	go func() {
		err := cmd.Wait()
		if exiterr, ok := err.(*exec.ExitError); ok {
			logrus.WithError(err).WithFields(logrus.Fields{
				"exit-code": exiterr.ExitCode(),
				"command":   command,
			}).Warningln("Bad command completion")
		}
	}()
	return nil
}

func (server *Server) Start() error {
	/* Add a Unix socket to the Wayland display. */
	socket, err := server.display.AddSocketAuto()
	if err != nil {
		server.backend.Destroy()
		return err
	}
	logrus.WithField("socket", socket).Debugln("got wl socket")
	/* Start the backend. This will enumerate outputs and inputs, become the DRM
	 * master, etc */
	if err = server.backend.Start(); err != nil {
		server.backend.Destroy()
		server.display.Destroy()
		return err
	}

	if res := os.Getenv("WAYLAND_DISPLAY"); res != "" {
		logrus.WithField("WAYLAND_DISPLAY", res).Debugln("Wayland display already set, overwriting")
	}
	if err = os.Setenv("WAYLAND_DISPLAY", socket); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"WAYLAND_DISPLAY": socket,
		"system":          server.compositor.Info(),
	}).Infoln("Running Wayland compositor")
	return nil
}

func (server *Server) Run() error {
	/* Run the Wayland event loop. This does not return until you exit the
	 * compositor. */
	server.display.Run()

	/* Once display.Run() returns, we destroy all clients then shut down the
	 * server. */
	server.tasks.Close()
	server.screencopy.Close()
	server.router.Close()
	server.display.DestroyClients()
	server.wlScene.Tree().Node().Destroy()
	server.cursorMgr.Destroy()
	server.outputLayout.Destroy()
	server.display.Destroy()
	return nil
}

func (server *Server) Stop() {
	server.display.Terminate()
}

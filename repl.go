package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/sirupsen/logrus"

	"github.com/mstarongithub/way2gay/common/ipc"
	"github.com/mstarongithub/way2gay/repl"
	"github.com/mstarongithub/way2gay/scene"
	"github.com/mstarongithub/way2gay/util"
	"github.com/mstarongithub/way2gay/util/wrappers"
)

// Width of the title column in "inspect surfaces"
const titleColumn = 24

var errUsage = errors.New("bad arguments")

func replRunner(server *Server) {
	// Give repl some wrappers around stdin and stdout so that it closes those instead of stdin & stdout themselves
	commandRepl := repl.NewRepl(wrappers.NewReaderWrapper(os.Stdin), wrappers.NewWriterWrapper(os.Stdout))
	commandRepl.Prompt = "w2g> "
	registerCommands(commandRepl, server)
	logrus.Debugln("Starting repl")
	if err := commandRepl.Run(); err != nil {
		logrus.WithError(err).Errorln("Repl stopped")
	}
}

func registerCommands(r *repl.Repl, server *Server) {
	r.Handle("run", "run <command> [args...]: start a program in the compositor", cmdRun)
	r.Handle("quit", "stop the compositor", func(string, *repl.Repl) (string, error) {
		server.Stop()
		return "Quitting", repl.ErrStop
	})
	r.Handle("inspect", "inspect surfaces|grab|outputs|cursor|focus|frames|json", func(args string, _ *repl.Repl) (string, error) {
		var target string
		util.SplitCommand(args, &target)
		inspect, ok := inspectors[target]
		if !ok {
			return fmt.Sprintf("Can't inspect %q", target), nil
		}
		return server.Do(func() string { return inspect(server) })
	})
	r.Handle("raise", "raise <id>: raise and focus a surface", onSurface(server, func(s *scene.Surface) string {
		if !server.scene.Raise(s) {
			return fmt.Sprintf("%s can't be raised", s)
		}
		server.scene.Activate(s)
		return fmt.Sprintf("Raised %s", s)
	}))
	r.Handle("close", "close <id>: ask a surface to close", onSurface(server, func(s *scene.Surface) string {
		s.Close()
		return fmt.Sprintf("Asked %s to close", s)
	}))
	r.Handle("capture", "capture [output]: save a screenshot, default is the first output", func(args string, _ *repl.Repl) (string, error) {
		var output string
		util.SplitCommand(args, &output)
		return server.Do(func() string {
			if output == "" {
				server.screenshot()
				return "Screenshot requested"
			}
			if err := server.capture(output); err != nil {
				return err.Error()
			}
			return "Screenshot of " + output + " requested"
		})
	})
}

func cmdRun(args string, r *repl.Repl) (string, error) {
	parts := strings.Fields(args)
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: run needs a command", errUsage)
	}
	cmd := exec.Command(parts[0], parts[1:]...)
	cmd.Stdout = r.Output
	cmd.Stderr = r.Output
	if err := cmd.Start(); err != nil {
		logrus.WithError(err).WithField("command", args).Errorln("Command failed to start")
		return "Failed to start " + parts[0], nil
	}
	go func() {
		err := cmd.Wait()
		if exiterr, ok := err.(*exec.ExitError); ok {
			logrus.WithError(err).WithFields(logrus.Fields{
				"exit-code": exiterr.ExitCode(),
				"command":   args,
			}).Warningln("Bad command completion")
		}
	}()
	return "Running " + parts[0], nil
}

// onSurface wraps a command taking a surface id as its only argument
func onSurface(server *Server, fn func(s *scene.Surface) string) repl.CommandHandler {
	return func(args string, _ *repl.Repl) (string, error) {
		var raw string
		util.SplitCommand(args, &raw)
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return fmt.Sprintf("Not a surface id: %q", raw), nil
		}
		return server.Do(func() string {
			s := server.scene.Surface(uint32(id))
			if s == nil {
				return fmt.Sprintf("No surface %d", id)
			}
			return fn(s)
		})
	}
}

// Everything here runs on the event loop
var inspectors = map[string]func(server *Server) string{
	"surfaces": inspectSurfaces,
	"grab": func(server *Server) string {
		g := ipc.GrabOf(server.router.Grab())
		if g == nil {
			return "No grab"
		}
		out := fmt.Sprintf("Grab: %s of surface %d", g.Kind, g.Surface)
		if g.Edges != "" {
			out += ", edges " + g.Edges
		}
		if g.Target != 0 {
			out += fmt.Sprintf(", over surface %d", g.Target)
		}
		return out
	},
	"outputs": func(server *Server) string {
		var b strings.Builder
		for _, o := range server.scene.Outputs() {
			fmt.Fprintf(&b, "%s: %s, usable %s\n", o.Name(), o.Rect(), o.AvailableArea())
		}
		if b.Len() == 0 {
			return "No outputs"
		}
		return strings.TrimSuffix(b.String(), "\n")
	},
	"cursor": func(server *Server) string {
		p := server.router.Pointer()
		out := fmt.Sprintf("Cursor: Location (%f:%f), shape %s", p.X, p.Y, server.router.CursorShape())
		if s := server.router.Hovered(); s != nil {
			out += ", over " + s.String()
		}
		return out
	},
	"focus": func(server *Server) string {
		if s := server.scene.Focused(); s != nil {
			return fmt.Sprintf("Focused: %s %q", s, s.Title())
		}
		return "Nothing focused"
	},
	"frames": inspectFrames,
	"json": func(server *Server) string {
		out, err := ipc.Marshal(ipc.SnapshotOf(server.scene, server.router))
		if err != nil {
			return err.Error()
		}
		return out
	},
}

func inspectSurfaces(server *Server) string {
	var b strings.Builder
	for s := range server.scene.SurfacesInDrawOrder() {
		title := runewidth.FillRight(runewidth.Truncate(s.Title(), titleColumn, "…"), titleColumn)
		r := s.ContentRect()
		fmt.Fprintf(&b, "%4d %-9s %-8s %s %4.0fx%-4.0f at %.0f,%.0f", s.ID(), s.Role(), s.Layer(), title, r.W, r.H, r.X, r.Y)
		if s == server.scene.Focused() {
			b.WriteString(" focused")
		}
		if s.Minimized() {
			b.WriteString(" minimized")
		}
		b.WriteByte('\n')
	}
	if b.Len() == 0 {
		return "No surfaces"
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func inspectFrames(server *Server) string {
	var b strings.Builder
	for _, o := range server.scene.Outputs() {
		f, ok := server.compositor.LastFrame(o)
		if !ok {
			fmt.Fprintf(&b, "%s: no frame yet\n", o.Name())
			continue
		}
		fmt.Fprintf(&b, "%s: last frame %s, %s blits, %d skipped, %d failed, %d cached textures, %d pending captures\n",
			o.Name(), humanize.Time(f.Time), humanize.Comma(int64(f.Blits)), f.Skipped, f.Failed,
			server.compositor.Textures(o), server.screencopy.Pending(o.Name()))
	}
	fmt.Fprintf(&b, "Decorations rendered: %s", humanize.Comma(int64(server.compositor.Decorations().Rendered())))
	return b.String()
}

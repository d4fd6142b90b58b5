package main

import (
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"

	"github.com/mstarongithub/way2gay/screencopy"
)

// How many repl commands may wait for the event loop
const taskBuffer = 8

// How long a repl command waits for the event loop before giving up on the answer
const taskTimeout = 2 * time.Second

var ErrBusy = errors.New("event loop is busy")

// task is a function that has to run on the event loop, its result goes to reply
type task struct {
	run   func() string
	reply chan string
}

// runTasks runs everything queued without waiting for more
func (server *Server) runTasks() {
	for {
		select {
		case t, ok := <-server.tasks.Receiver():
			if !ok {
				return
			}
			t.reply <- t.run()
		default:
			return
		}
	}
}

// Do queues fn for the event loop and waits for its answer.
// An idle loop only picks tasks up with the next event, a timeout reports the task as queued
func (server *Server) Do(fn func() string) (string, error) {
	t := task{run: fn, reply: make(chan string, 1)}
	queued, err := server.tasks.TrySend(t)
	if err != nil {
		return "", err
	}
	if !queued {
		return "", ErrBusy
	}
	select {
	case res := <-t.reply:
		return res, nil
	case <-time.After(taskTimeout):
		return "Queued, runs with the next input or frame", nil
	}
}

func screenshotPath(output string, now time.Time) string {
	dir := xdg.UserDirs.Pictures
	if dir == "" {
		dir = xdg.Home
	}
	return filepath.Join(dir, fmt.Sprintf("way2gay-%s-%s.png", output, now.Format("2006-01-02-150405")))
}

func saveFrame(frame screencopy.Frame) (string, error) {
	if frame.Err != nil {
		return "", frame.Err
	}
	if frame.Image == nil {
		return "", fmt.Errorf("%s: renderer can't read back pixels", frame.Output)
	}
	path := screenshotPath(frame.Output, frame.Time)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	if err = png.Encode(file, frame.Image); err != nil {
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	return path, nil
}

// capture asks for the next frame of output and saves it once it arrives.
// Must run on the event loop
func (server *Server) capture(output string) error {
	frames, err := server.screencopy.Capture(output, nil)
	if err != nil {
		return err
	}
	go func() {
		path, err := saveFrame(<-frames)
		if err != nil {
			logrus.WithError(err).WithField("output", output).Warnln("Screenshot failed")
			return
		}
		logrus.WithField("path", path).Infoln("Saved screenshot")
	}()
	return nil
}

// screenshot captures the first output
func (server *Server) screenshot() {
	outputs := server.scene.Outputs()
	if len(outputs) == 0 {
		logrus.Warnln("No output to take a screenshot of")
		return
	}
	if err := server.capture(outputs[0].Name()); err != nil {
		logrus.WithError(err).Warnln("Screenshot failed")
	}
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/swaywm/go-wlroots/wlroots"
	"golang.org/x/term"

	"github.com/mstarongithub/way2gay/config"
)

func fatal(msg string, err error) {
	fmt.Printf("error %s: %s\n", msg, err)
	os.Exit(1)
}

func wlMain(conf *config.Config) {
	wlroots.OnLog(wlroots.LogImportanceError, func(importance wlroots.LogImportance, msg string) {
		switch importance {
		case wlroots.LogImportanceDebug:
			logrus.Debugln(msg)
		case wlroots.LogImportanceInfo:
			logrus.Infoln(msg)
		case wlroots.LogImportanceError:
			logrus.Errorln(msg)
		case wlroots.LogImportanceSilent:
			return
		}
	})

	// start the server
	server, err := NewServer(conf)
	if err != nil {
		fatal("initializing server", err)
	}
	if err = server.Start(); err != nil {
		fatal("starting server", err)
	}

	switch conf.StartType {
	case config.START_REPL:
		if term.IsTerminal(int(os.Stdin.Fd())) {
			go replRunner(server)
		} else {
			logrus.Warnln("Stdin isn't a terminal, not starting the repl")
		}
	case config.START_SINGLE_COMMAND:
		parts := strings.Fields(*conf.StartCommand)
		if len(parts) == 0 {
			logrus.Warnln("Start command is blank")
		} else if err = server.Spawn(parts[0], parts[1:]...); err != nil {
			logrus.WithError(err).Errorln("Start command failed")
		}
	case config.START_NONE:
	}

	// start the wayland event loop
	if err = server.Run(); err != nil {
		fatal("running server", err)
	}
}

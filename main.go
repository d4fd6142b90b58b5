// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/mstarongithub/way2gay/config"
)

var (
	configPath *string = flag.String(
		"config",
		"",
		"Path to the config file (.toml, .yaml or .yml). Searched for in the xdg config dirs if empty",
	)
	toolMode *bool = flag.Bool("tool", false, "Start as a tool instead of a compositor")
	help     *bool = flag.Bool("help", false, "Show the help message for the selected mode")
	logLevel *string = flag.String(
		"loglevel",
		"",
		"Overrides the log level of the config. One of trace, debug, info, warn, error",
	)
)

func main() {
	flag.Parse()
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	conf, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %s\n", err)
		os.Exit(1)
	}
	logrus.SetLevel(conf.Level())

	if *toolMode {
		utilMain(conf)
		return
	}
	if *help {
		wlHelpMessage()
		return
	}
	wlMain(conf)
}

func loadConfig() (conf *config.Config, err error) {
	if *configPath != "" {
		conf, err = config.Load(*configPath)
	} else {
		conf, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}
	if *logLevel != "" {
		if _, err = logrus.ParseLevel(*logLevel); err != nil {
			return nil, fmt.Errorf("-loglevel: %w", err)
		}
		conf.LogLevel = *logLevel
	}
	return conf, nil
}

func wlHelpMessage() {
	fmt.Println("---- Help message for Way2Gay ----")
	fmt.Println("\nWithout -tool, w2g runs as a Wayland compositor")
	fmt.Println("\nGeneral flags:")
	fmt.Println("\t-config: Path to the config file. Default is way2gay/config.toml in the xdg config dirs")
	fmt.Println("\t-tool: Start as a tool instead of a compositor")
	fmt.Println("\t-help: Show this help message (or the one for tool mode if -tool is set)")
	fmt.Println("\t-loglevel: Override the configured log level")
	fmt.Println("\nWhen started from a terminal with start_type = 0, a repl reads commands from stdin.")
	fmt.Println("Type help in it for the list of commands")
}

// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package config

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mstarongithub/way2gay/scene"
	"github.com/mstarongithub/way2gay/shortcuts"
)

type StartType int

const (
	// Tells way2gay to start a repl in parallel for interacting with it
	START_REPL = StartType(iota)
	// Tells way2gay to execute a specific command on startup
	START_SINGLE_COMMAND
	// Tells way2gay to start without any specific targets
	// Note: Good luck interacting with it :3
	START_NONE
)

func (t StartType) String() string {
	switch t {
	case START_REPL:
		return "repl"
	case START_SINGLE_COMMAND:
		return "single-command"
	case START_NONE:
		return "none"
	default:
		return "invalid"
	}
}

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	StartType StartType `toml:"start_type,omitempty" yaml:"start_type,omitempty"`
	// What command to execute on start. Only matters if StartType is set to START_SINGLE_COMMAND
	StartCommand *string `toml:"start_command,omitempty" yaml:"start_command,omitempty"`
	LogLevel     string  `toml:"log_level" yaml:"log_level" default:"info"`

	TitleBarHeight int  `toml:"title_bar_height" yaml:"title_bar_height" default:"30"`
	BorderSize     int  `toml:"border_size" yaml:"border_size" default:"1"`
	LegacyRender   bool `toml:"legacy_render" yaml:"legacy_render"`
	DarkMode       bool `toml:"dark_mode" yaml:"dark_mode"`
	// #rrggbb
	BackgroundColor string `toml:"background_color" yaml:"background_color" default:"#3a6ea5"`
	ShowDesktopInfo bool   `toml:"show_desktop_info" yaml:"show_desktop_info"`
	SoftwareCursor  bool   `toml:"software_cursor" yaml:"software_cursor"`

	// Holding this while pressing anywhere on a window moves it. "alt" or "super"
	MoveModifier string `toml:"move_modifier" yaml:"move_modifier" default:"super"`
	// Key combination to action, like "alt+tab" = "switch-window". Empty means the built in defaults
	Shortcuts map[string]string `toml:"shortcuts,omitempty" yaml:"shortcuts,omitempty"`
}

func Default() *Config {
	return &Config{
		StartType:       START_REPL,
		LogLevel:        "info",
		TitleBarHeight:  scene.DefaultTitleBarHeight,
		BorderSize:      scene.DefaultBorderSize,
		BackgroundColor: "#3a6ea5",
		MoveModifier:    "super",
	}
}

// Validate checks every field, reporting all problems at once
func (c *Config) Validate() error {
	errs := []error{}
	if c.StartType < START_REPL || c.StartType > START_NONE {
		errs = append(errs, fmt.Errorf("%w: start type %d", ErrInvalid, c.StartType))
	}
	if c.StartType == START_SINGLE_COMMAND && (c.StartCommand == nil || *c.StartCommand == "") {
		errs = append(errs, fmt.Errorf("%w: start type single-command needs a start command", ErrInvalid))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
	}
	if _, err := ParseColor(c.BackgroundColor); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.MoveMod(); err != nil {
		errs = append(errs, err)
	}
	if len(c.Shortcuts) > 0 {
		if _, err := shortcuts.ParseBindings(c.Shortcuts); err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
		}
	}
	return errors.Join(errs...)
}

// Level is the configured log level, info if it can't be parsed
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func (c *Config) MoveMod() (shortcuts.Modifiers, error) {
	switch strings.ToLower(c.MoveModifier) {
	case "alt":
		return shortcuts.ModAlt, nil
	case "super", "logo", "":
		return shortcuts.ModSuper, nil
	}
	return 0, fmt.Errorf("%w: move modifier %q, must be alt or super", ErrInvalid, c.MoveModifier)
}

// Matcher builds the shortcut matcher from the configured bindings
func (c *Config) Matcher() (*shortcuts.Matcher, error) {
	if len(c.Shortcuts) == 0 {
		return shortcuts.NewMatcher(nil), nil
	}
	bindings, err := shortcuts.ParseBindings(c.Shortcuts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return shortcuts.NewMatcher(bindings), nil
}

// SceneSettings converts to what the scene works with. Out of range metrics get clamped
func (c *Config) SceneSettings() scene.Settings {
	set := scene.DefaultSettings()
	set.TitleBarHeight = c.TitleBarHeight
	set.BorderSize = c.BorderSize
	set.LegacyRender = c.LegacyRender
	set.DarkMode = c.DarkMode
	set.ShowDesktopInfo = c.ShowDesktopInfo
	set.SoftwareCursor = c.SoftwareCursor
	if bg, err := ParseColor(c.BackgroundColor); err == nil {
		set.Background = bg
	}
	return set.Normalize()
}

// ParseColor reads #rrggbb
func ParseColor(s string) (color.RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("%w: color %q, want #rrggbb", ErrInvalid, s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: color %q: %w", ErrInvalid, s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/mstarongithub/way2gay/scene"
	"github.com/mstarongithub/way2gay/shortcuts"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	set := c.SceneSettings()
	if set.TitleBarHeight != 30 || set.BorderSize != 1 || set.Background != (color.RGBA{R: 0x3a, G: 0x6e, B: 0xa5, A: 0xff}) {
		t.Errorf("settings %+v", set)
	}
	if mod, _ := c.MoveMod(); mod != shortcuts.ModSuper {
		t.Errorf("move modifier %v", mod)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
log_level = "debug"
title_bar_height = 24
dark_mode = true
background_color = "#102030"
move_modifier = "alt"

[shortcuts]
"super+q" = "close-window"
`)
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Level() != logrus.DebugLevel || c.TitleBarHeight != 24 || !c.DarkMode {
		t.Errorf("config %+v", c)
	}
	if c.BorderSize != 1 {
		t.Errorf("missing border size didn't keep its default: %d", c.BorderSize)
	}
	if got := c.SceneSettings().Background; got != (color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}) {
		t.Errorf("background %v", got)
	}
	if mod, _ := c.MoveMod(); mod != shortcuts.ModAlt {
		t.Errorf("move modifier %v", mod)
	}
	m, err := c.Matcher()
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Bindings()) != 1 {
		t.Errorf("bindings %v", m.Bindings())
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "border_size: 3\nshow_desktop_info: true\nstart_type: 2\n")
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.BorderSize != 3 || !c.ShowDesktopInfo || c.StartType != START_NONE || c.TitleBarHeight != 30 {
		t.Errorf("config %+v", c)
	}
}

func TestYAMLRejectsUnknownFields(t *testing.T) {
	path := writeFile(t, "config.yml", "title_bar_hieght: 3\n")
	if _, err := Load(path); err == nil {
		t.Errorf("typo in field name accepted")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(writeFile(t, "config.json", "{}")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("json: %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: %v", err)
	}
	if _, err := Load(writeFile(t, "config.toml", `background_color = "blue"`)); !errors.Is(err, ErrInvalid) {
		t.Errorf("bad color: %v", err)
	}
}

func TestValidate(t *testing.T) {
	c := Default()
	c.StartType = START_SINGLE_COMMAND
	c.LogLevel = "loud"
	c.MoveModifier = "hyper"
	c.Shortcuts = map[string]string{"ctrl+nothing": "quit"}
	err := c.Validate()
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("got %v", err)
	}
	if n := len(err.(interface{ Unwrap() []error }).Unwrap()); n != 4 {
		t.Errorf("%d problems reported: %v", n, err)
	}

	cmd := "foot"
	c = Default()
	c.StartType = START_SINGLE_COMMAND
	c.StartCommand = &cmd
	if err := c.Validate(); err != nil {
		t.Errorf("valid single command config: %v", err)
	}
}

func TestSceneSettingsClamp(t *testing.T) {
	c := Default()
	c.TitleBarHeight = 500
	c.BorderSize = 0
	set := c.SceneSettings()
	if set.TitleBarHeight != scene.MaxTitleBarHeight || set.BorderSize != scene.MinBorderSize {
		t.Errorf("settings %+v", set)
	}
}

func TestParseColor(t *testing.T) {
	if c, err := ParseColor("#ff8000"); err != nil || c != (color.RGBA{R: 0xff, G: 0x80, A: 0xff}) {
		t.Errorf("got %v, %v", c, err)
	}
	for _, bad := range []string{"", "ff8000", "#ff80", "#gg8000"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("%q accepted", bad)
		}
	}
}

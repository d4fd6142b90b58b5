// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package shortcuts matches global key combinations before keys reach any client
package shortcuts

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	ErrUnknownKey      = errors.New("unknown key")
	ErrUnknownModifier = errors.New("unknown modifier")
	ErrEmptyBinding    = errors.New("empty binding")
)

// Modifiers use the same bits as wlroots keyboard modifiers
type Modifiers uint32

const (
	ModShift = Modifiers(1 << 0)
	ModCaps  = Modifiers(1 << 1)
	ModCtrl  = Modifiers(1 << 2)
	ModAlt   = Modifiers(1 << 3)
	ModSuper = Modifiers(1 << 6)

	// Modifiers that take part in matching, lock keys never do
	relevantMods = ModShift | ModCtrl | ModAlt | ModSuper
)

var modifierNames = map[string]Modifiers{
	"shift": ModShift,
	"ctrl":  ModCtrl,
	"alt":   ModAlt,
	"super": ModSuper,
	"logo":  ModSuper,
}

// ParseModifier parses a single modifier name
func ParseModifier(name string) (Modifiers, error) {
	if m, ok := modifierNames[strings.ToLower(name)]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownModifier, name)
}

func (m Modifiers) String() string {
	parts := []string{}
	for _, name := range []string{"super", "ctrl", "alt", "shift"} {
		if m&modifierNames[name] != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "+")
}

// Action names a global shortcut handler
type Action string

const (
	ActionScreenshot           = Action("screenshot")
	ActionSwitchWindow         = Action("switch-window")
	ActionQuit                 = Action("quit")
	ActionCloseWindow          = Action("close-window")
	ActionVolumeUp             = Action("volume-up")
	ActionVolumeDown           = Action("volume-down")
	ActionVolumeMute           = Action("volume-mute")
	ActionMonitorBrightnessUp  = Action("monitor-brightness-up")
	ActionMonitorBrightnessDn  = Action("monitor-brightness-down")
	ActionKeyboardBrightnessUp = Action("keyboard-brightness-up")
	ActionKeyboardBrightnessDn = Action("keyboard-brightness-down")
	ActionWebBrowser           = Action("web-browser")
	ActionSearch               = Action("search")
)

// Binding is one key combination
type Binding struct {
	Mods Modifiers
	Sym  Keysym
}

// ParseBinding parses combinations like "alt+tab", "Super+Shift+Q" or "XF86AudioMute"
func ParseBinding(s string) (Binding, error) {
	parts := strings.Split(strings.TrimSpace(s), "+")
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return Binding{}, ErrEmptyBinding
	}
	b := Binding{}
	for _, p := range parts[:len(parts)-1] {
		m, err := ParseModifier(strings.TrimSpace(p))
		if err != nil {
			return Binding{}, err
		}
		b.Mods |= m
	}
	sym, err := ParseKeysym(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil {
		return Binding{}, err
	}
	b.Sym = sym.normalize()
	return b, nil
}

func (b Binding) String() string {
	if b.Mods == 0 {
		return b.Sym.String()
	}
	return b.Mods.String() + "+" + b.Sym.String()
}

// DefaultBindings are active unless the configuration overrides them
func DefaultBindings() map[Binding]Action {
	return map[Binding]Action{
		{Sym: KeyPrint}:                ActionScreenshot,
		{Mods: ModAlt, Sym: KeyTab}:    ActionSwitchWindow,
		{Mods: ModAlt, Sym: KeyF1}:     ActionSwitchWindow,
		{Mods: ModAlt, Sym: KeyEscape}: ActionQuit,
		{Sym: KeyAudioRaiseVolume}:     ActionVolumeUp,
		{Sym: KeyAudioLowerVolume}:     ActionVolumeDown,
		{Sym: KeyAudioMute}:            ActionVolumeMute,
		{Sym: KeyMonBrightnessUp}:      ActionMonitorBrightnessUp,
		{Sym: KeyMonBrightnessDown}:    ActionMonitorBrightnessDn,
		{Sym: KeyKbdBrightnessUp}:      ActionKeyboardBrightnessUp,
		{Sym: KeyKbdBrightnessDown}:    ActionKeyboardBrightnessDn,
		{Sym: KeyWWW}:                  ActionWebBrowser,
		{Sym: KeySearch}:               ActionSearch,
	}
}

// Matcher decides whether a key event is a global shortcut.
// Must only be used from the event loop
type Matcher struct {
	bindings map[Binding]Action
	handlers map[Action]func()
	// Keys whose press got consumed, their release is swallowed too
	consumed map[Keysym]bool
}

func NewMatcher(bindings map[Binding]Action) *Matcher {
	if bindings == nil {
		bindings = DefaultBindings()
	}
	return &Matcher{
		bindings: bindings,
		handlers: make(map[Action]func()),
		consumed: make(map[Keysym]bool),
	}
}

// ParseBindings turns the configuration's binding to action map into bindings
func ParseBindings(conf map[string]string) (map[Binding]Action, error) {
	out := make(map[Binding]Action, len(conf))
	for combo, action := range conf {
		b, err := ParseBinding(combo)
		if err != nil {
			return nil, fmt.Errorf("shortcut %q: %w", combo, err)
		}
		out[b] = Action(action)
	}
	return out, nil
}

func (m *Matcher) Bind(b Binding, a Action) {
	b.Sym = b.Sym.normalize()
	m.bindings[b] = a
}

func (m *Matcher) Unbind(b Binding) {
	delete(m.bindings, Binding{Mods: b.Mods, Sym: b.Sym.normalize()})
}

// Handle sets the function run for an action. Actions without a handler never consume keys
func (m *Matcher) Handle(a Action, fn func()) {
	m.handlers[a] = fn
}

// Bindings lists the active bindings sorted by their text form
func (m *Matcher) Bindings() []string {
	out := make([]string, 0, len(m.bindings))
	for b, a := range m.bindings {
		out = append(out, b.String()+" = "+string(a))
	}
	sort.Strings(out)
	return out
}

// Match runs the action bound to the key and reports whether the key was consumed
func (m *Matcher) Match(sym Keysym, mods Modifiers, pressed bool) bool {
	sym = sym.normalize()
	if !pressed {
		if m.consumed[sym] {
			delete(m.consumed, sym)
			return true
		}
		return false
	}
	b := Binding{Mods: mods & relevantMods, Sym: sym}
	action, ok := m.bindings[b]
	if !ok {
		return false
	}
	fn, ok := m.handlers[action]
	if !ok {
		return false
	}
	logrus.WithFields(logrus.Fields{"binding": b.String(), "action": string(action)}).Debugln("Global shortcut triggered")
	m.consumed[sym] = true
	fn()
	return true
}

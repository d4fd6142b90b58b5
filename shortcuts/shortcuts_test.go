package shortcuts

import (
	"errors"
	"testing"
)

func TestParseBinding(t *testing.T) {
	b, err := ParseBinding("Super+Shift+Q")
	if err != nil {
		t.Fatal(err)
	}
	if b.Mods != ModSuper|ModShift || b.Sym != Keysym('q') {
		t.Errorf("parsed %+v", b)
	}
	if b.String() != "super+shift+q" {
		t.Errorf("string form %q", b.String())
	}

	b, err = ParseBinding("XF86AudioMute")
	if err != nil || b != (Binding{Sym: KeyAudioMute}) {
		t.Errorf("media key parsed as %+v, %v", b, err)
	}
	b, err = ParseBinding("alt+F4")
	if err != nil || b != (Binding{Mods: ModAlt, Sym: KeyF1 + 3}) {
		t.Errorf("function key parsed as %+v, %v", b, err)
	}

	if _, err := ParseBinding("hyper+x"); !errors.Is(err, ErrUnknownModifier) {
		t.Errorf("expected unknown modifier, got %v", err)
	}
	if _, err := ParseBinding("ctrl+nope"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("expected unknown key, got %v", err)
	}
	if _, err := ParseBinding("ctrl+"); !errors.Is(err, ErrEmptyBinding) {
		t.Errorf("expected empty binding, got %v", err)
	}
}

func TestMatchConsumesPressAndRelease(t *testing.T) {
	m := NewMatcher(nil)
	switches := 0
	m.Handle(ActionSwitchWindow, func() { switches++ })

	if !m.Match(KeyTab, ModAlt, true) {
		t.Fatalf("alt+tab not consumed")
	}
	if switches != 1 {
		t.Errorf("handler ran %d times", switches)
	}
	if !m.Match(KeyTab, ModAlt, false) {
		t.Errorf("release of a consumed key leaked")
	}
	if m.Match(KeyTab, 0, true) || m.Match(KeyTab, 0, false) {
		t.Errorf("plain tab got consumed")
	}
}

func TestMatchIgnoresLocks(t *testing.T) {
	m := NewMatcher(nil)
	shots := 0
	m.Handle(ActionScreenshot, func() { shots++ })
	if !m.Match(KeyPrint, ModCaps, true) || shots != 1 {
		t.Errorf("caps lock broke the print binding")
	}
}

func TestMatchWithoutHandler(t *testing.T) {
	m := NewMatcher(nil)
	if m.Match(KeyAudioMute, 0, true) {
		t.Errorf("binding without handler consumed the key")
	}
}

func TestParseBindingsAndUppercase(t *testing.T) {
	bindings, err := ParseBindings(map[string]string{"super+shift+q": "close-window"})
	if err != nil {
		t.Fatal(err)
	}
	m := NewMatcher(bindings)
	closed := false
	m.Handle(ActionCloseWindow, func() { closed = true })
	// With shift held xkb reports the upper case keysym
	if !m.Match(Keysym('Q'), ModSuper|ModShift, true) || !closed {
		t.Errorf("upper case keysym didn't match")
	}
	if m.Match(KeyPrint, 0, true) {
		t.Errorf("configured bindings should replace the defaults")
	}
	if _, err := ParseBindings(map[string]string{"meta+x": "quit"}); err == nil {
		t.Errorf("invalid binding accepted")
	}
}

func TestBindUnbind(t *testing.T) {
	m := NewMatcher(map[Binding]Action{})
	ran := false
	m.Handle(ActionQuit, func() { ran = true })
	b := Binding{Mods: ModCtrl | ModAlt, Sym: KeyBackSpace}
	m.Bind(b, ActionQuit)
	if len(m.Bindings()) != 1 || m.Bindings()[0] != "ctrl+alt+backspace = quit" {
		t.Errorf("bindings %v", m.Bindings())
	}
	m.Match(KeyBackSpace, ModCtrl|ModAlt, true)
	if !ran {
		t.Errorf("bound action didn't run")
	}
	m.Unbind(b)
	if m.Match(KeyBackSpace, ModCtrl|ModAlt, true) {
		t.Errorf("unbound key still consumed")
	}
}

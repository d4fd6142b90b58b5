package util

import "testing"

func TestUnpack(t *testing.T) {
	a, b, c := "x", "x", "x"
	Unpack([]string{"1", "2"}, &a, &b, &c)
	if a != "1" || b != "2" || c != "" {
		t.Errorf("got %q %q %q", a, b, c)
	}
	Unpack([]string{"3", "4", "5"}, &a)
	if a != "3" {
		t.Errorf("got %q", a)
	}
}

func TestSplitCommand(t *testing.T) {
	var cmd, arg string
	rest := SplitCommand("  run   foot -e htop ", &cmd)
	if cmd != "run" || rest != "foot -e htop" {
		t.Errorf("got %q, rest %q", cmd, rest)
	}
	rest = SplitCommand("inspect surfaces", &cmd, &arg)
	if cmd != "inspect" || arg != "surfaces" || rest != "" {
		t.Errorf("got %q %q, rest %q", cmd, arg, rest)
	}
	rest = SplitCommand("quit", &cmd, &arg)
	if cmd != "quit" || arg != "" || rest != "" {
		t.Errorf("got %q %q, rest %q", cmd, arg, rest)
	}
}

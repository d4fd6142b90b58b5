package repl

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

type closingBuffer struct {
	bytes.Buffer
	closed bool
}

func (b *closingBuffer) Close() error {
	b.closed = true
	return nil
}

func newTestRepl(input string) (*Repl, *closingBuffer) {
	out := &closingBuffer{}
	return NewRepl(io.NopCloser(strings.NewReader(input)), out), out
}

func TestRunDispatches(t *testing.T) {
	r, out := newTestRepl("echo hi there\n\nnope\necho again\n")
	r.Handle("echo", "say something", func(args string, _ *Repl) (string, error) {
		return args, nil
	})
	if err := r.Run(); err != nil {
		t.Fatal(err)
	}
	want := "hi there\nUnknown command \"nope\", try help\nagain\n"
	if out.String() != want {
		t.Errorf("output %q", out.String())
	}
	if !out.closed {
		t.Errorf("output not closed after run")
	}
}

func TestStopAndFailure(t *testing.T) {
	r, out := newTestRepl("quit\necho never\n")
	r.Handle("quit", "", func(string, *Repl) (string, error) {
		return "Quitting", ErrStop
	})
	if err := r.Run(); err != nil {
		t.Errorf("stop reported as failure: %v", err)
	}
	if out.String() != "Quitting\n" {
		t.Errorf("output %q", out.String())
	}

	boom := errors.New("boom")
	r, _ = newTestRepl("fail\n")
	r.Handle("fail", "", func(string, *Repl) (string, error) {
		return "", boom
	})
	if err := r.Run(); !errors.Is(err, boom) {
		t.Errorf("got %v", err)
	}
}

func TestHelpAndPrompt(t *testing.T) {
	r, out := newTestRepl("help\n")
	r.Prompt = "> "
	r.Handle("raise", "raise a window", func(string, *Repl) (string, error) { return "", nil })
	if err := r.Run(); err != nil {
		t.Fatal(err)
	}
	text := out.String()
	if !strings.HasPrefix(text, "> help") || !strings.Contains(text, "raise      raise a window") || !strings.HasSuffix(text, "> ") {
		t.Errorf("output %q", text)
	}
}

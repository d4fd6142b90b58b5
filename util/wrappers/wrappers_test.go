package wrappers

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestReaderWrapper(t *testing.T) {
	r := NewReaderWrapper(strings.NewReader("hello"))
	buf := make([]byte, 2)
	if n, err := r.Read(buf); n != 2 || err != nil {
		t.Fatalf("read %d, %v", n, err)
	}
	r.Close()
	if !r.Closed() {
		t.Errorf("not closed")
	}
	if _, err := r.Read(buf); !errors.Is(err, ErrClosed) {
		t.Errorf("read after close: %v", err)
	}
}

func TestWriterWrapper(t *testing.T) {
	out := &bytes.Buffer{}
	w := NewWriterWrapper(out)
	if _, err := w.Write([]byte("hi")); err != nil {
		t.Fatal(err)
	}
	w.Close()
	if _, err := w.Write([]byte("there")); !errors.Is(err, ErrClosed) {
		t.Errorf("write after close: %v", err)
	}
	if out.String() != "hi" {
		t.Errorf("wrapped got %q", out.String())
	}
}

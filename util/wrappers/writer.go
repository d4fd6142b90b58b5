package wrappers

import (
	"io"
	"sync"
)

// WriterWrapper serialises writes from the repl and commands it started onto one writer
type WriterWrapper struct {
	lock     sync.Mutex
	isClosed bool
	wrapped  io.Writer
}

func NewWriterWrapper(wraps io.Writer) *WriterWrapper {
	return &WriterWrapper{wrapped: wraps}
}

func (w *WriterWrapper) Close() error {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.isClosed = true
	return nil
}

func (w *WriterWrapper) Write(p []byte) (n int, err error) {
	w.lock.Lock()
	defer w.lock.Unlock()
	if w.isClosed {
		return 0, ErrClosed
	}
	return w.wrapped.Write(p)
}

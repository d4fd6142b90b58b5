package wrappers

import (
	"errors"
	"io"
	"sync"
)

var ErrClosed = errors.New("closed")

// ReaderWrapper makes a reader closable without closing the reader itself, for handing stdin to the repl
type ReaderWrapper struct {
	lock     sync.Mutex
	isClosed bool
	wrapped  io.Reader
}

func NewReaderWrapper(wraps io.Reader) *ReaderWrapper {
	return &ReaderWrapper{wrapped: wraps}
}

// Close implements repl.ReadCloser. A read already waiting on the wrapped reader still returns its data
func (r *ReaderWrapper) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.isClosed = true
	return nil
}

func (r *ReaderWrapper) Closed() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.isClosed
}

// Read implements repl.ReadCloser.
func (r *ReaderWrapper) Read(p []byte) (n int, err error) {
	if r.Closed() {
		return 0, ErrClosed
	}
	return r.wrapped.Read(p)
}

// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package multiplexer

import (
	"errors"
	"sync"
)

var ErrClosed = errors.New("multiplexer has been closed")

// A many to one multiplexer
// Channels technically already are that, but sending to a closed channel panics.
// This wraps the channel so senders get an error instead
type ManyToOne[T any] struct {
	outbound chan T
	lock     sync.RWMutex
	closed   bool
}

// NewManyToOne creates a new ManyToOne multiplexer
// The given channel will be where all messages will be sent to
func NewManyToOne[T any](receiver chan T) *ManyToOne[T] {
	return &ManyToOne[T]{
		outbound: receiver,
	}
}

// Receiver is the channel everything sent ends up in
func (m *ManyToOne[T]) Receiver() <-chan T {
	return m.outbound
}

// Send a message to this many to one plexer, blocking until the receiver has room.
// If closed, the message won't get sent
func (m *ManyToOne[T]) Send(msg T) error {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if m.closed {
		return ErrClosed
	}
	m.outbound <- msg
	return nil
}

// TrySend is Send without waiting. Reports whether the message got queued
func (m *ManyToOne[T]) TrySend(msg T) (bool, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if m.closed {
		return false, ErrClosed
	}
	select {
	case m.outbound <- msg:
		return true, nil
	default:
		return false, nil
	}
}

// Closes the channel and marks the plexer as closed.
// Only the receiving side should call this, and only while nobody is blocked in Send
func (m *ManyToOne[T]) Close() {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.closed {
		return
	}
	close(m.outbound)
	m.closed = true
}

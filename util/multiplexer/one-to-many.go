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

var ErrReceiverExists = errors.New("receiver with that name already exists")

// OneToMany copies every message to all its receivers.
// Receivers are buffered and a receiver that can't keep up misses messages,
// the sender never waits on any of them
type OneToMany[T any] struct {
	inbound   chan T
	outbound  map[string]chan T // Use map here to give names to outbound channels
	buffer    int
	lock      sync.Mutex
	closeChan chan struct{}
	closed    bool
	dropped   int
}

// NewOneToMany creates a plexer whose receivers hold up to buffer undelivered messages
func NewOneToMany[T any](buffer int) *OneToMany[T] {
	return &OneToMany[T]{
		inbound:   make(chan T, buffer),
		outbound:  make(map[string]chan T),
		buffer:    buffer,
		closeChan: make(chan struct{}),
	}
}

// Get the channel to send things into. Only read by StartPlexer
func (o *OneToMany[T]) GetSender() chan<- T {
	return o.inbound
}

// Create a new receiver for the multiplexer to send messages to.
// Please do not close this manually, instead use the CloseReceiver func
func (o *OneToMany[T]) MakeReceiver(name string) (<-chan T, error) {
	o.lock.Lock()
	defer o.lock.Unlock()
	if o.closed {
		return nil, ErrClosed
	}
	if _, ok := o.outbound[name]; ok {
		return nil, ErrReceiverExists
	}
	rec := make(chan T, o.buffer)
	o.outbound[name] = rec
	return rec, nil
}

// Closes a receiver channel with the given name and removes it from the multiplexer
func (o *OneToMany[T]) CloseReceiver(name string) {
	o.lock.Lock()
	defer o.lock.Unlock()
	if val, ok := o.outbound[name]; ok {
		close(val)
		delete(o.outbound, name)
	}
}

// Receivers returns the number of open receivers
func (o *OneToMany[T]) Receivers() int {
	o.lock.Lock()
	defer o.lock.Unlock()
	return len(o.outbound)
}

// Dropped counts the messages receivers missed because their buffer was full
func (o *OneToMany[T]) Dropped() int {
	o.lock.Lock()
	defer o.lock.Unlock()
	return o.dropped
}

// Send hands msg to every receiver right away
func (o *OneToMany[T]) Send(msg T) error {
	o.lock.Lock()
	defer o.lock.Unlock()
	if o.closed {
		return ErrClosed
	}
	for _, c := range o.outbound {
		select {
		case c <- msg:
		default:
			o.dropped++
		}
	}
	return nil
}

// Start this one to many multiplexer, distributing everything coming in through GetSender.
// Intended to run as a goroutine (`go plexer.StartPlexer()`), returns once the plexer is closed
func (o *OneToMany[T]) StartPlexer() {
	for {
		select {
		// Message gotten from inbound channel
		case msg := <-o.inbound:
			_ = o.Send(msg)
		// Told to close the plexer
		case <-o.closeChan:
			return
		}
	}
}

// Close all receiver channels, mark the plexer as closed and stop the distribution goroutine
func (o *OneToMany[T]) CloseSender() {
	o.lock.Lock()
	defer o.lock.Unlock()
	if o.closed {
		return
	}
	// No need to send anything to the receivers, readers will just stop
	for name, c := range o.outbound {
		close(c)
		delete(o.outbound, name)
	}
	o.closed = true
	close(o.closeChan)
}

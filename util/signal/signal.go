// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package signal

import "errors"

var ErrDuplicateListener = errors.New("listener with that name already exists")

// Signal is a synchronous one to many notifier.
// Unlike multiplexer.OneToMany it calls listeners directly on the emitting goroutine,
// which is what the compositor loop wants: everything runs to completion on one thread.
// Listeners are called in the order they connected
type Signal[T any] struct {
	names     []string
	listeners map[string]func(T)
}

// Connect registers a named listener
func (s *Signal[T]) Connect(name string, fn func(T)) error {
	if s.listeners == nil {
		s.listeners = make(map[string]func(T))
	}
	if _, ok := s.listeners[name]; ok {
		return ErrDuplicateListener
	}
	s.listeners[name] = fn
	s.names = append(s.names, name)
	return nil
}

// Disconnect removes a listener. Unknown names are ignored
func (s *Signal[T]) Disconnect(name string) {
	if _, ok := s.listeners[name]; !ok {
		return
	}
	delete(s.listeners, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
}

// Emit calls every listener with the given value.
// Listeners connected during emission are first called on the next Emit
func (s *Signal[T]) Emit(v T) {
	names := append([]string(nil), s.names...)
	for _, name := range names {
		if fn, ok := s.listeners[name]; ok {
			fn(v)
		}
	}
}

func (s *Signal[T]) Len() int {
	return len(s.names)
}

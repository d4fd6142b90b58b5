// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Returned by a command to end the repl without it counting as a failure
var ErrStop = errors.New("repl stopped")

// CommandHandler gets everything after the command name
type CommandHandler func(args string, r *Repl) (string, error)

type command struct {
	help    string
	handler CommandHandler
}

// ReadCloser combines the Reader and Closer interfaces
type ReadCloser interface {
	io.Reader
	io.Closer
}

type Repl struct {
	Input  ReadCloser
	Output io.WriteCloser
	// Written before every line read, nothing if empty
	Prompt string

	commands map[string]command
	scanner  *bufio.Scanner
	writer   *bufio.Writer
}

// Creates a new repl
// If no input is given, stdin will be used
// If no output is given, stdout will be used
// Note: The given reader and writer will be closed if the repl is started and then stops
func NewRepl(in ReadCloser, out io.WriteCloser) *Repl {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	r := &Repl{
		Input:    in,
		Output:   out,
		commands: make(map[string]command),
		scanner:  bufio.NewScanner(in),
		writer:   bufio.NewWriter(out),
	}
	r.Handle("help", "list commands", func(string, *Repl) (string, error) {
		return r.Help(), nil
	})
	return r
}

// Handle registers a command. Registering a name again replaces the old one
func (r *Repl) Handle(name, help string, handler CommandHandler) {
	r.commands[name] = command{help: help, handler: handler}
}

// Help lists every command with its help text
func (r *Repl) Help() string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	b := strings.Builder{}
	for i, name := range names {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%-10s %s", name, r.commands[name].help)
	}
	return b.String()
}

// Exec runs a single line
func (r *Repl) Exec(line string) (string, error) {
	name, args, _ := strings.Cut(strings.TrimSpace(line), " ")
	if name == "" {
		return "", nil
	}
	cmd, ok := r.commands[name]
	if !ok {
		return fmt.Sprintf("Unknown command %q, try help", name), nil
	}
	return cmd.handler(strings.TrimSpace(args), r)
}

func (r *Repl) prompt() error {
	if r.Prompt == "" {
		return nil
	}
	if _, err := r.writer.WriteString(r.Prompt); err != nil {
		return err
	}
	return r.writer.Flush()
}

// Starts the repl
// Blocks execution until the repl closes
// If a command returns an error or writing fails, it calls Close. ErrStop ends the repl with a nil error
func (r *Repl) Run() error {
	defer r.Close()
	if err := r.prompt(); err != nil {
		return fmt.Errorf("failed to write prompt: %w", err)
	}
	for r.scanner.Scan() {
		newMessage := r.scanner.Text()
		res, err := r.Exec(newMessage)
		if res != "" {
			if _, werr := r.writer.WriteString(res + "\n"); werr != nil {
				return fmt.Errorf("failed to write result \"%s\": %w", res, werr)
			}
			if werr := r.writer.Flush(); werr != nil {
				return fmt.Errorf("failed to flush writer: %w", werr)
			}
		}
		if errors.Is(err, ErrStop) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("command errored out on message \"%s\": %w", newMessage, err)
		}
		if err := r.prompt(); err != nil {
			return fmt.Errorf("failed to write prompt: %w", err)
		}
	}
	return r.scanner.Err()
}

// Close stops the repl if it was still running
// This will also close the reader and writer
func (r *Repl) Close() {
	r.Input.Close()
	r.Output.Close()
}

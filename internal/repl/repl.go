// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package repl runs the read-eval-print loop around a session.
//
// On a terminal input goes through a line editor with history and tab
// completion; piped input is read line by line without a prompt.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/peterh/liner"

	"github.com/jeranaias/framesh/internal/commands"
	"github.com/jeranaias/framesh/internal/session"
)

// Options configure the loop.
type Options struct {
	// In, Out and Err default to the process's standard streams.
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Color enables styled output on a terminal.
	Color bool

	// Completion enables tab completion in the line editor.
	Completion bool
}

func (o *Options) setDefaults() {
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Err == nil {
		o.Err = os.Stderr
	}
}

// Run reads lines until input ends or a command terminates the session.
// It returns the Terminate request, if any.
func Run(s *session.Session, opts Options) (*commands.Terminate, error) {
	opts.setDefaults()

	var r lineReader
	if isTerminal(opts.In) {
		var complete func(string) []string
		if opts.Completion {
			completer := s.Completer()
			complete = completer.Complete
		}
		r = newLinerReader(complete)
	} else {
		r = newScanReader(opts.In)
		opts.Color = false
	}
	defer r.Close()

	return loop(s, r, NewStyles(opts.Out, opts.Color), opts)
}

// Exec runs lines as if typed, without reading input.
func Exec(s *session.Session, lines []string, opts Options) (*commands.Terminate, error) {
	opts.setDefaults()
	return loop(s, &sliceReader{lines: lines}, NewStyles(opts.Out, false), opts)
}

func loop(s *session.Session, r lineReader, styles Styles, opts Options) (*commands.Terminate, error) {
	for {
		line, err := r.ReadLine(styles.Prompt.Render(s.Prompt()))
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				return nil, nil
			}
			return nil, fmt.Errorf("read input: %w", err)
		}

		reply, err := s.HandleLine(line)
		if err != nil {
			fmt.Fprintf(opts.Err, "%s %v\n", styles.Error.Render("Error:"), err)
		}
		if reply.Terminate != nil {
			return reply.Terminate, nil
		}
		if reply.HasValue {
			fmt.Fprintln(opts.Out, styles.Result.Render("=> "+s.Inspect(reply.Value)))
		}
	}
}

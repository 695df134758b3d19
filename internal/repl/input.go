// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package repl

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"
)

// lineReader yields input lines. It returns io.EOF when input ends.
type lineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// =============================================================================
// LINE EDITOR
// =============================================================================

// linerReader edits lines on the terminal with history and tab completion.
type linerReader struct {
	state *liner.State
}

func newLinerReader(complete func(line string) []string) *linerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	if complete != nil {
		state.SetCompleter(complete)
	}
	return &linerReader{state: state}
}

func (r *linerReader) ReadLine(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		r.state.AppendHistory(line)
	}
	return line, nil
}

func (r *linerReader) Close() error {
	return r.state.Close()
}

// =============================================================================
// PLAIN INPUT
// =============================================================================

// maxLine bounds a single line of piped input.
const maxLine = 1 << 20

// scanReader reads piped input line by line without prompting.
type scanReader struct {
	sc *bufio.Scanner
}

func newScanReader(in io.Reader) *scanReader {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	return &scanReader{sc: sc}
}

func (r *scanReader) ReadLine(string) (string, error) {
	if r.sc.Scan() {
		return r.sc.Text(), nil
	}
	if err := r.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (r *scanReader) Close() error { return nil }

// sliceReader replays fixed lines, as given with --exec.
type sliceReader struct {
	lines []string
}

func (r *sliceReader) ReadLine(string) (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *sliceReader) Close() error { return nil }

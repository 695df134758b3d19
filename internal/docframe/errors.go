// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docframe

import "fmt"

// UndefinedError is returned for a key the mapping does not have.
type UndefinedError struct {
	Name string
	Path string
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("undefined: %s (in %s)", e.Name, e.Path)
}

// TypeError is returned when a selector does not fit the value.
type TypeError struct {
	Path string
	Want string
	Got  string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s is a %s, not a %s", e.Path, e.Got, e.Want)
}

// IndexError is returned for an out of range list index.
type IndexError struct {
	Index int
	Len   int
	Path  string
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range for %s (length %d)", e.Index, e.Path, e.Len)
}

// SyntaxError is returned for an expression that is neither a selector chain
// nor a literal.
type SyntaxError struct {
	Expr string
	Err  error
}

func (e *SyntaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot parse %q: %v", e.Expr, e.Err)
	}
	return fmt.Sprintf("cannot parse %q", e.Expr)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

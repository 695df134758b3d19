// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError is the user-facing failure a handler raises on purpose. It is
// recoverable: the dispatcher reports it and the session continues.
type CommandError struct {
	Command string // display name of the failing command, may be empty
	Message string
	Err     error
}

func (e *CommandError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Command != "" {
		return e.Command + ": " + msg
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Errorf builds a *CommandError for handlers.
func Errorf(format string, args ...any) error {
	return &CommandError{Message: fmt.Sprintf(format, args...)}
}

// WrapError turns err into a *CommandError unless it already is one.
func WrapError(command string, err error) error {
	if err == nil {
		return nil
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return err
	}
	return &CommandError{Command: command, Err: err}
}

// MissingArgumentError is raised when a command that requires an argument
// is given none. It is a kind of CommandError.
type MissingArgumentError struct {
	CommandError
	Usage string
}

// NewMissingArgumentError builds the error for the given command.
func NewMissingArgumentError(spec *CommandSpec) *MissingArgumentError {
	return &MissingArgumentError{
		CommandError: CommandError{Command: spec.DisplayName(), Message: "argument required"},
		Usage:        spec.Usage,
	}
}

func (e *MissingArgumentError) Error() string {
	msg := e.CommandError.Error()
	if e.Usage != "" {
		msg += " (usage: " + e.Usage + ")"
	}
	return msg
}

// As lets errors.As find the embedded CommandError.
func (e *MissingArgumentError) As(target any) bool {
	if t, ok := target.(**CommandError); ok {
		*t = &e.CommandError
		return true
	}
	return false
}

// DuplicateCommandError is returned when a key is registered twice.
type DuplicateCommandError struct {
	Key string
}

func (e *DuplicateCommandError) Error() string {
	return fmt.Sprintf("command %q is already registered", e.Key)
}

// NotFoundError is returned when a command or alias target does not exist.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("command %q not found", e.Key)
}

// RecursionLimitError stops runaway re-dispatch between commands.
type RecursionLimitError struct {
	Depth int
	Line  string
}

func (e *RecursionLimitError) Error() string {
	return fmt.Sprintf("command nesting exceeded %d levels at %q", e.Depth, e.Line)
}

// IsCommandError reports whether err is (or wraps) a *CommandError.
func IsCommandError(err error) bool {
	var cmdErr *CommandError
	return errors.As(err, &cmdErr)
}

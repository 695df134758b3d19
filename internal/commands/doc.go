// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the command system for the shell.
//
// This package recognizes user-typed commands (as opposed to expressions),
// extracts their arguments and captures, and invokes handlers with
// before/after hooks and per-command persistent state.
//
// # Key Types
//
//   - CommandSpec: a registered command (literal, multi-word or pattern name)
//   - Registry: command definitions with aliasing, import and search
//   - Dispatcher: matches a line and runs the command it names
//   - Invocation: the per-call bundle a Handler receives
//   - DispatchOutcome: what happened (not a command, value, error, terminate)
//   - Completer: tab completion for command names
//
// # Usage
//
// Dispatch a line, falling through to evaluation when it is not a command:
//
//	outcome := dispatcher.Dispatch(line)
//	if outcome.NotACommand {
//	    return evaluate(line)
//	}
//
// Register a command with a regex name:
//
//	registry.Register(&commands.CommandSpec{
//	    Name:    `\.(.*)`,
//	    Pattern: regexp.MustCompile(`\.(.*)`),
//	    Handler: runShell,
//	})
package commands
